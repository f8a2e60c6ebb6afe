package search_test

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/aretw0/threeprimes/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTester declares exactly the listed values ProbablyPrime and records every call.
type setTester struct {
	mu     sync.Mutex
	primes map[int64]bool
	calls  map[int64]int
}

func newSetTester(primes ...int64) *setTester {
	st := &setTester{primes: map[int64]bool{}, calls: map[int64]int{}}
	for _, p := range primes {
		st.primes[p] = true
	}
	return st
}

func (s *setTester) Test(_ context.Context, n *big.Int) (domain.Primality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[n.Int64()]++
	if s.primes[n.Int64()] {
		return domain.ProbablyPrime, nil
	}
	return domain.Composite, nil
}

func TestFind_Nine(t *testing.T) {
	s := search.New(primality.NewOracle())
	triple, found, err := s.Find(context.Background(), big.NewInt(9))
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, domain.NewTriple(3, 3, 3).Equal(triple), "got %s", triple)
}

func TestFind_KnownTriples(t *testing.T) {
	tests := []struct {
		n    int64
		want domain.Triple
	}{
		{11, domain.NewTriple(3, 3, 5)},
		{15, domain.NewTriple(3, 5, 7)},
		{77, domain.NewTriple(3, 3, 71)},
		// 95, 93, 91, 87, 85 and 81 are composite; 79 is the first prime k.
		{101, domain.NewTriple(3, 19, 79)},
	}

	s := search.New(primality.NewOracle(primality.WithWitnesses(20)))
	for _, tt := range tests {
		triple, found, err := s.Find(context.Background(), big.NewInt(tt.n))
		require.NoError(t, err)
		require.True(t, found, "n=%d", tt.n)
		assert.True(t, tt.want.Equal(triple), "n=%d: got %s, want %s", tt.n, triple, tt.want)
	}
}

func TestFind_77IsValid(t *testing.T) {
	oracle := primality.NewOracle(primality.WithWitnesses(20))
	n := big.NewInt(77)

	triple, found, err := search.New(oracle).Find(context.Background(), n)
	require.NoError(t, err)
	require.True(t, found)
	assert.NoError(t, search.Verify(context.Background(), n, triple, oracle))
}

func TestFind_LargeValue(t *testing.T) {
	n, ok := new(big.Int).SetString("66178434513578438715761814543874653487436543874654311541561516487543434873", 10)
	require.True(t, ok)

	oracle := primality.NewOracle()
	triple, found, err := search.New(oracle).Find(context.Background(), n)
	require.NoError(t, err)
	require.True(t, found)
	assert.NoError(t, search.Verify(context.Background(), n, triple, oracle))
}

func TestFind_Idempotent(t *testing.T) {
	s := search.New(primality.NewOracle())
	first, found, err := s.Find(context.Background(), big.NewInt(1001))
	require.NoError(t, err)
	require.True(t, found)

	for i := 0; i < 10; i++ {
		again, found, err := s.Find(context.Background(), big.NewInt(1001))
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, first.Equal(again), "call %d: %s != %s", i, again, first)
	}
}

func TestFind_RejectsInvalidInput(t *testing.T) {
	s := search.New(newSetTester())
	for _, n := range []int64{8, 7, 5, 1, 0, -9, 100} {
		_, _, err := s.Find(context.Background(), big.NewInt(n))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "n=%d", n)
	}
	_, _, err := s.Find(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFind_RejectsBeforeSearching(t *testing.T) {
	tester := newSetTester(3, 5)
	_, _, err := search.New(tester).Find(context.Background(), big.NewInt(8))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, tester.calls)
}

func TestFind_NotFound(t *testing.T) {
	tester := newSetTester()
	_, found, err := search.New(tester).Find(context.Background(), big.NewInt(21))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFind_OuterCandidateTestedOnce(t *testing.T) {
	// Only 3 is "prime", so the inner loop runs for i=3 and never matches.
	tester := newSetTester(3)
	_, found, err := search.New(tester).Find(context.Background(), big.NewInt(21))
	require.NoError(t, err)
	assert.False(t, found)

	// Outer: 3, 5, ..., 15 once each. Inner (i=3): j = 3, 5, ..., 15 while k >= 3,
	// and k is only tested for j=3 (k=15).
	assert.Equal(t, 2, tester.calls[3])
	for _, v := range []int64{5, 7, 9, 11, 13} {
		assert.Equal(t, 2, tester.calls[v], "v=%d", v)
	}
	assert.Equal(t, 3, tester.calls[15])
	assert.Zero(t, tester.calls[17])
}

func TestFind_CompositeOuterSkipsInnerLoop(t *testing.T) {
	tester := newSetTester()
	_, _, err := search.New(tester).Find(context.Background(), big.NewInt(21))
	require.NoError(t, err)

	// Outer candidates 3..15 each tested exactly once; nothing else.
	assert.Len(t, tester.calls, 7)
	for i := int64(3); i < 16; i += 2 {
		assert.Equal(t, 1, tester.calls[i], "i=%d", i)
	}
}

func TestFind_TieBreakPrefersSmallestI(t *testing.T) {
	// With only 5 prime, n=15 cannot use i=3.
	tester := newSetTester(5)
	triple, found, err := search.New(tester).Find(context.Background(), big.NewInt(15))
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, domain.NewTriple(5, 5, 5).Equal(triple), "got %s", triple)
}

func TestFind_CancelledBetweenOuterIterations(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	outer := 0
	hooks := domain.Hooks{
		OnOuterStep: func(context.Context, *domain.SearchEvent) {
			outer++
			if outer == 2 {
				cancel()
			}
		},
	}

	_, found, err := search.New(newSetTester(), search.WithHooks(hooks)).Find(ctx, big.NewInt(101))
	assert.False(t, found)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, outer)
}

func TestFind_InnerLoopFinishesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hooks := domain.Hooks{
		OnOuterStep: func(context.Context, *domain.SearchEvent) { cancel() },
	}

	// The oracle honours cancellation, yet the i=3 pass must still complete.
	triple, found, err := search.New(primality.NewOracle(), search.WithHooks(hooks)).Find(ctx, big.NewInt(101))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "3 19 79", triple.String())
}

func TestFind_Hooks(t *testing.T) {
	var started, done int
	var last *domain.SearchEvent
	hooks := domain.Hooks{
		OnSearchStart: func(context.Context, *domain.SearchEvent) { started++ },
		OnSearchDone: func(_ context.Context, e *domain.SearchEvent) {
			done++
			last = e
		},
	}
	_, found, err := search.New(primality.NewOracle(), search.WithHooks(hooks)).Find(context.Background(), big.NewInt(9))
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, done)
	require.NotNil(t, last)
	assert.True(t, last.Found)
	require.NotNil(t, last.Triple)
	assert.Equal(t, "3 3 3", last.Triple.String())
}

func BenchmarkFind(b *testing.B) {
	n, _ := new(big.Int).SetString("1000000000000000000000000000000000000000000000000000000000001", 10)
	s := search.New(primality.NewOracle())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := s.Find(ctx, n); err != nil {
			b.Fatal(err)
		}
	}
}
