/*
Package threeprimes is a probabilistic primality oracle and a computational disprover for
Goldbach's weak conjecture: every odd n > 7 is the sum of three odd primes.

The oracle runs the Miller-Rabin test over arbitrary-precision integers. Its verdicts are
Composite (definite) or ProbablyPrime (wrong with probability at most 4^-witnesses); there
is no "prime" verdict. The searcher walks odd candidates in a fixed order and returns the
first triple of probable primes, or reports that none exists, which would disprove the
conjecture.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"math/big"

		"github.com/aretw0/threeprimes"
	)

	func main() {
		eng := threeprimes.New(threeprimes.WithWitnesses(20))

		triple, found, err := eng.FindTriple(context.Background(), big.NewInt(77))
		if err != nil {
			log.Fatal(err)
		}
		if !found {
			fmt.Println("conjecture violated!")
			return
		}
		fmt.Println(triple) // 3 3 71
	}

# Surfaces

The cmd/threeprimes binary exposes the engine as a CLI (find, test, modexp), an HTTP API
with Prometheus metrics (serve) and a Model Context Protocol server (mcp).
*/
package threeprimes
