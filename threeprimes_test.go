package threeprimes_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/aretw0/threeprimes"
	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.PrimalityTester = (*threeprimes.Engine)(nil)
	_ ports.TripleFinder    = (*threeprimes.Engine)(nil)
)

func TestEngine_Defaults(t *testing.T) {
	eng := threeprimes.New()
	assert.Equal(t, domain.DefaultWitnesses, eng.Witnesses())
	assert.Equal(t, domain.DefaultWitnesses, eng.Oracle().Witnesses())
}

func TestEngine_EndToEnd(t *testing.T) {
	ctx := context.Background()
	eng := threeprimes.New(threeprimes.WithWitnesses(20), threeprimes.WithSource(primality.SeededSource(1)))

	r, err := eng.ModExp(big.NewInt(4), big.NewInt(13), big.NewInt(497))
	require.NoError(t, err)
	assert.Equal(t, int64(445), r.Int64())

	verdict, err := eng.Test(ctx, big.NewInt(7919))
	require.NoError(t, err)
	assert.Equal(t, domain.ProbablyPrime, verdict)

	triple, found, err := eng.FindTriple(ctx, big.NewInt(77))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "3 3 71", triple.String())

	_, _, err = eng.FindTriple(ctx, big.NewInt(8))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_HooksAreMerged(t *testing.T) {
	var a, b int
	eng := threeprimes.New(
		threeprimes.WithHooks(domain.Hooks{OnVerdict: func(context.Context, *domain.VerdictEvent) { a++ }}),
		threeprimes.WithHooks(domain.Hooks{OnVerdict: func(context.Context, *domain.VerdictEvent) { b++ }}),
	)
	_, err := eng.Test(context.Background(), big.NewInt(97))
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestEngine_TestAll(t *testing.T) {
	eng := threeprimes.New()
	results, err := eng.TestAll(context.Background(), []*big.Int{big.NewInt(9), big.NewInt(11)}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.Composite, results[0].Verdict)
	assert.Equal(t, domain.ProbablyPrime, results[1].Verdict)
}
