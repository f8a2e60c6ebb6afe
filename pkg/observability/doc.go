/*
Package observability turns oracle and search events into Prometheus metrics.

Metrics.Hooks returns domain.Hooks that can be merged with logging hooks and passed to
the oracle and searcher.
*/
package observability
