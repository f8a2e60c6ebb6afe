package ports

import (
	"context"
	"math/big"

	"github.com/aretw0/threeprimes/pkg/domain"
)

// PrimalityTester classifies a single integer.
type PrimalityTester interface {
	Test(ctx context.Context, n *big.Int) (domain.Primality, error)
}

// TripleFinder searches for the first triple of odd primes summing to n.
// found is false when the search exhausted its range (conjecture violated for n).
type TripleFinder interface {
	Find(ctx context.Context, n *big.Int) (triple domain.Triple, found bool, err error)
}
