/*
Package domain contains the core value types shared by the primality oracle and the
triple searcher.

It is kept pure and free of I/O, following Hexagonal Architecture principles. Adapters
(HTTP, MCP, job stores) translate to and from these types.

# Key Entities

  - Primality: the two-valued verdict of a probabilistic test (Composite or ProbablyPrime).
  - Triple: three odd primes (i <= j <= k) summing to the searched integer.
  - Job: the status of an asynchronous triple search.
  - Hooks: callbacks for observing verdicts and search progress.
*/
package domain
