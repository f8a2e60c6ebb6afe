package threeprimes

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/aretw0/threeprimes/pkg/arith"
	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/aretw0/threeprimes/pkg/search"
)

// Engine is the high-level entry point for the library.
// It wires the oracle and the searcher with shared hooks and logging.
type Engine struct {
	oracle    *primality.Oracle
	searcher  *search.Searcher
	witnesses int
	source    primality.SourceFunc
	hooks     domain.Hooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithWitnesses sets the number of Miller-Rabin rounds per test.
func WithWitnesses(n int) Option {
	return func(e *Engine) {
		e.witnesses = n
	}
}

// WithSource injects the random generator factory used for witness selection.
func WithSource(src primality.SourceFunc) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithHooks registers observability hooks. Repeated calls are merged.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an Engine. Without options it runs domain.DefaultWitnesses rounds.
func New(opts ...Option) *Engine {
	eng := &Engine{witnesses: domain.DefaultWitnesses}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil downstream)
	if eng.logger == nil {
		eng.logger = slog.New(slog.DiscardHandler)
	}

	eng.oracle = primality.NewOracle(
		primality.WithWitnesses(eng.witnesses),
		primality.WithSource(eng.source),
		primality.WithHooks(eng.hooks),
	)
	eng.searcher = search.New(eng.oracle,
		search.WithHooks(eng.hooks),
		search.WithLogger(eng.logger),
	)
	return eng
}

// Witnesses returns the configured rounds per test.
func (e *Engine) Witnesses() int {
	return e.witnesses
}

// ModExp computes base^exponent mod modulus.
func (e *Engine) ModExp(base, exponent, modulus *big.Int) (*big.Int, error) {
	return arith.ModExp(base, exponent, modulus)
}

// ModExpContext is ModExp that gives up with ctx.Err() once ctx is done.
func (e *Engine) ModExpContext(ctx context.Context, base, exponent, modulus *big.Int) (*big.Int, error) {
	return arith.ModExpContext(ctx, base, exponent, modulus)
}

// Test classifies n with the configured number of witnesses.
func (e *Engine) Test(ctx context.Context, n *big.Int) (domain.Primality, error) {
	return e.oracle.Test(ctx, n)
}

// TestWitnesses classifies n with an explicit number of witnesses.
func (e *Engine) TestWitnesses(ctx context.Context, n *big.Int, witnesses int) (domain.Primality, error) {
	return e.oracle.TestWitnesses(ctx, n, witnesses)
}

// TestAll classifies ns concurrently, keeping input order.
func (e *Engine) TestAll(ctx context.Context, ns []*big.Int, concurrency int) ([]primality.Result, error) {
	return primality.TestAll(ctx, e.oracle, ns, concurrency)
}

// FindTriple searches for the first triple of odd probable primes summing to n.
// found is false when none exists (the conjecture would be violated).
func (e *Engine) FindTriple(ctx context.Context, n *big.Int) (domain.Triple, bool, error) {
	return e.searcher.Find(ctx, n)
}

// Find implements ports.TripleFinder.
func (e *Engine) Find(ctx context.Context, n *big.Int) (domain.Triple, bool, error) {
	return e.FindTriple(ctx, n)
}

// Oracle returns the underlying primality oracle.
func (e *Engine) Oracle() *primality.Oracle {
	return e.oracle
}
