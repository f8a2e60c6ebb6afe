package primality

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/aretw0/threeprimes/pkg/arith"
	"github.com/aretw0/threeprimes/pkg/domain"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// SourceFunc returns a fresh random generator. The oracle calls it once per test,
// so a generator is never shared between calls.
type SourceFunc func() *rand.Rand

// DefaultSource seeds a math/rand generator from crypto/rand.
func DefaultSource() *rand.Rand {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
}

// SeededSource returns a SourceFunc yielding generators with a fixed seed.
func SeededSource(seed int64) SourceFunc {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(seed))
	}
}

// Oracle classifies integers with the Miller-Rabin test.
// It holds only configuration and is safe for concurrent use.
type Oracle struct {
	witnesses int
	source    SourceFunc
	hooks     domain.Hooks
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithWitnesses sets the default number of witness rounds.
func WithWitnesses(n int) Option {
	return func(o *Oracle) {
		o.witnesses = n
	}
}

// WithSource injects the random generator factory.
func WithSource(src SourceFunc) Option {
	return func(o *Oracle) {
		o.source = src
	}
}

// WithHooks registers observability callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(o *Oracle) {
		o.hooks = h
	}
}

// NewOracle creates an oracle with domain.DefaultWitnesses rounds.
func NewOracle(opts ...Option) *Oracle {
	o := &Oracle{
		witnesses: domain.DefaultWitnesses,
		source:    DefaultSource,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.source == nil {
		o.source = DefaultSource
	}
	return o
}

// Witnesses returns the configured default round count.
func (o *Oracle) Witnesses() int {
	return o.witnesses
}

// Test classifies n with the configured number of witnesses.
func (o *Oracle) Test(ctx context.Context, n *big.Int) (domain.Primality, error) {
	return o.TestWitnesses(ctx, n, o.witnesses)
}

// TestWitnesses classifies n running at most witnesses rounds.
// It returns domain.ErrInvalidInput for negative n or witnesses < 1, and
// ctx.Err() if ctx ends before the verdict is reached.
func (o *Oracle) TestWitnesses(ctx context.Context, n *big.Int, witnesses int) (domain.Primality, error) {
	if n == nil || n.Sign() < 0 {
		return domain.Composite, fmt.Errorf("cannot test %v: %w", n, domain.ErrInvalidInput)
	}
	if witnesses < 1 {
		return domain.Composite, fmt.Errorf("witnesses must be >= 1, got %d: %w", witnesses, domain.ErrInvalidInput)
	}

	verdict, rounds, err := o.classify(ctx, n, witnesses)
	if err != nil {
		return domain.Composite, err
	}

	if o.hooks.OnVerdict != nil {
		o.hooks.OnVerdict(ctx, &domain.VerdictEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventVerdict},
			N:         n,
			Verdict:   verdict,
			Witnesses: witnesses,
			Rounds:    rounds,
		})
	}
	return verdict, nil
}

// classify returns the verdict and the number of witness rounds run.
func (o *Oracle) classify(ctx context.Context, n *big.Int, witnesses int) (domain.Primality, int, error) {
	if n.Cmp(two) == 0 {
		return domain.ProbablyPrime, 0, nil
	}
	if n.Bit(0) == 0 || n.Cmp(one) == 0 {
		return domain.Composite, 0, nil
	}

	// Witnesses are drawn from [2, n-1]; span is the size of that range.
	span := new(big.Int).Sub(n, two)
	if span.Sign() <= 0 {
		return domain.Composite, 0, nil
	}

	s, t := Decompose(n)
	nMinusOne := new(big.Int).Sub(n, one)
	rnd := o.source()
	a := new(big.Int)

	for round := 1; round <= witnesses; round++ {
		if err := ctx.Err(); err != nil {
			return domain.Composite, round - 1, err
		}
		a.Rand(rnd, span)
		a.Add(a, two)

		ok, err := survives(ctx, a, n, nMinusOne, t, s)
		if err != nil {
			return domain.Composite, round, err
		}
		if !ok {
			return domain.Composite, round, nil
		}
	}
	return domain.ProbablyPrime, witnesses, nil
}

// survives runs one Miller-Rabin round for witness a. The only full
// exponentiation is a^t; every later term is the square of the previous one,
// since (a^(2^(i-1)·t))² = a^(2^i·t) mod n.
func survives(ctx context.Context, a, n, nMinusOne, t *big.Int, s int) (bool, error) {
	prev, err := arith.ModExpContext(ctx, a, t, n)
	if err != nil {
		return false, err
	}
	for i := 1; i <= s; i++ {
		cur := arith.MulMod(prev, prev, n)
		// A nontrivial square root of 1 cannot exist modulo a prime.
		if cur.Cmp(one) == 0 && prev.Cmp(one) != 0 && prev.Cmp(nMinusOne) != 0 {
			return false, nil
		}
		prev = cur
	}
	// Fermat: a^(n-1) must be 1.
	return prev.Cmp(one) == 0, nil
}

// Decompose writes n-1 as 2^s * t with t odd. n must be odd and >= 3.
func Decompose(n *big.Int) (s int, t *big.Int) {
	t = new(big.Int).Sub(n, one)
	s = int(t.TrailingZeroBits())
	t.Rsh(t, uint(s))
	return s, t
}
