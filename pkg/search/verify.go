package search

import (
	"context"
	"fmt"
	"math/big"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
)

// Verify checks a triple independently of how it was produced: odd members,
// i <= j <= k, i+j+k = n, and every member ProbablyPrime under tester.
func Verify(ctx context.Context, n *big.Int, t domain.Triple, tester ports.PrimalityTester) error {
	if t.I == nil || t.J == nil || t.K == nil {
		return fmt.Errorf("triple is incomplete: %w", domain.ErrInvalidInput)
	}
	if t.Sum().Cmp(n) != 0 {
		return fmt.Errorf("triple %s sums to %v, not %v", t, t.Sum(), n)
	}
	if t.I.Cmp(t.J) > 0 || t.J.Cmp(t.K) > 0 {
		return fmt.Errorf("triple %s is not ordered", t)
	}
	for _, v := range []*big.Int{t.I, t.J, t.K} {
		if v.Bit(0) == 0 {
			return fmt.Errorf("triple member %v is even", v)
		}
		verdict, err := tester.Test(ctx, v)
		if err != nil {
			return fmt.Errorf("test %v: %w", v, err)
		}
		if verdict != domain.ProbablyPrime {
			return fmt.Errorf("triple member %v is %s", v, verdict)
		}
	}
	return nil
}
