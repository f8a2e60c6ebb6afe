package primality

import (
	"context"
	"fmt"
	"math/big"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Result pairs an input with its verdict.
type Result struct {
	N       *big.Int         `json:"n"`
	Verdict domain.Primality `json:"verdict"`
}

// TestAll classifies ns concurrently with at most concurrency goroutines.
// Results keep input order. The first error cancels the remaining work.
func TestAll(ctx context.Context, tester ports.PrimalityTester, ns []*big.Int, concurrency int) ([]Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(ns))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for idx, n := range ns {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			verdict, err := tester.Test(egCtx, n)
			if err != nil {
				return fmt.Errorf("test %v: %w", n, err)
			}
			results[idx] = Result{N: n, Verdict: verdict}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
