package arith

import (
	"context"
	"fmt"
	"math/big"

	"github.com/aretw0/threeprimes/pkg/domain"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
)

// checkEvery is how many exponent bits ModExpContext processes between ctx checks.
const checkEvery = 64

// ModExp computes base^exponent mod modulus using right-to-left binary
// exponentiation. The result lies in [0, modulus). Inputs are not modified.
//
// It returns domain.ErrInvalidInput if modulus < 1 or exponent < 0.
// A modulus of 1 always yields 0.
func ModExp(base, exponent, modulus *big.Int) (*big.Int, error) {
	return ModExpContext(context.Background(), base, exponent, modulus)
}

// ModExpContext is ModExp that stops with ctx.Err() once ctx is done. The
// context is polled every few exponent bits.
func ModExpContext(ctx context.Context, base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus == nil || modulus.Cmp(one) < 0 {
		return nil, fmt.Errorf("modulus %v must be >= 1: %w", modulus, domain.ErrInvalidInput)
	}
	if exponent == nil || exponent.Sign() < 0 {
		return nil, fmt.Errorf("exponent %v must be >= 0: %w", exponent, domain.ErrInvalidInput)
	}
	if base == nil {
		return nil, fmt.Errorf("base is required: %w", domain.ErrInvalidInput)
	}
	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	// Mod is Euclidean, so negative bases land in [0, modulus).
	b := new(big.Int).Mod(base, modulus)
	e := new(big.Int).Set(exponent)
	result := big.NewInt(1)

	for bit := 0; e.Cmp(zero) > 0; bit++ {
		if bit%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
		b.Mul(b, b)
		b.Mod(b, modulus)
		e.Rsh(e, 1)
	}
	return result, nil
}

// MulMod returns a*b mod modulus. It is the squaring step of the witness sequence.
func MulMod(a, b, modulus *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, modulus)
}
