/*
Package ports defines the interfaces between the threeprimes core and its adapters.

Driving ports (PrimalityTester, TripleFinder) are implemented by the core and consumed by
the CLI, HTTP and MCP adapters. Driven ports (JobStore) are implemented by adapters such
as the in-memory and Redis job stores.
*/
package ports
