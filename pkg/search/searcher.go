package search

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
	five  = big.NewInt(5)
	seven = big.NewInt(7)
)

// Searcher finds prime triples using a PrimalityTester.
type Searcher struct {
	tester ports.PrimalityTester
	hooks  domain.Hooks
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithHooks registers observability callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(s *Searcher) {
		s.hooks = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Searcher backed by tester.
func New(tester ports.PrimalityTester, opts ...Option) *Searcher {
	s := &Searcher{
		tester: tester,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.TripleFinder = (*Searcher)(nil)

// CheckPrecondition returns domain.ErrInvalidInput unless n is odd and greater than 7.
func CheckPrecondition(n *big.Int) error {
	if n == nil || n.Cmp(seven) <= 0 || n.Bit(0) == 0 {
		return fmt.Errorf("%v does not satisfy the precondition for Goldbach's weak conjecture: %w", n, domain.ErrInvalidInput)
	}
	return nil
}

// Find returns the first triple (i, j, k) of probable primes with i+j+k = n.
// found is false if the whole range was searched without a match.
//
// ctx is checked between outer iterations only; a cancelled or expired context
// ends the search with ctx.Err().
func (s *Searcher) Find(ctx context.Context, n *big.Int) (domain.Triple, bool, error) {
	if err := CheckPrecondition(n); err != nil {
		return domain.Triple{}, false, err
	}

	start := time.Now()
	if s.hooks.OnSearchStart != nil {
		s.hooks.OnSearchStart(ctx, &domain.SearchEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventSearchStart},
			N:         n,
		})
	}
	s.logger.Debug("search started", "n", n)

	triple, found, err := s.find(ctx, n)

	elapsed := time.Since(start)
	if s.hooks.OnSearchDone != nil {
		ev := &domain.SearchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSearchDone},
			N:         n,
			Found:     found,
			Err:       err,
			Elapsed:   elapsed,
		}
		if found {
			ev.Triple = &triple
		}
		s.hooks.OnSearchDone(ctx, ev)
	}

	switch {
	case err != nil:
		s.logger.Warn("search aborted", "n", n, "elapsed", elapsed, "error", err)
	case found:
		s.logger.Debug("search finished", "n", n, "triple", triple.String(), "elapsed", elapsed)
	default:
		s.logger.Info("no triple found, conjecture violated", "n", n, "elapsed", elapsed)
	}
	return triple, found, err
}

func (s *Searcher) find(ctx context.Context, n *big.Int) (domain.Triple, bool, error) {
	iLimit := new(big.Int).Sub(n, five)
	jLimit := new(big.Int).Sub(n, two)

	for i := new(big.Int).Set(three); i.Cmp(iLimit) < 0; i.Add(i, two) {
		if err := ctx.Err(); err != nil {
			return domain.Triple{}, false, fmt.Errorf("search for %v interrupted at i=%v: %w", n, i, err)
		}
		if s.hooks.OnOuterStep != nil {
			s.hooks.OnOuterStep(ctx, &domain.SearchEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventOuterStep},
				N:         n,
				I:         new(big.Int).Set(i),
			})
		}

		// i's verdict holds for the whole inner loop.
		ok, err := s.probablyPrime(ctx, i)
		if err != nil {
			return domain.Triple{}, false, err
		}
		if !ok {
			continue
		}

		for j := new(big.Int).Set(i); j.Cmp(jLimit) < 0; j.Add(j, two) {
			k := new(big.Int).Sub(n, i)
			k.Sub(k, j)
			// k only shrinks from here on; below 3 it is 1 or negative.
			if k.Cmp(three) < 0 {
				break
			}

			ok, err := s.probablyPrime(ctx, j)
			if err != nil {
				return domain.Triple{}, false, err
			}
			if !ok {
				continue
			}
			ok, err = s.probablyPrime(ctx, k)
			if err != nil {
				return domain.Triple{}, false, err
			}
			if ok {
				return domain.Triple{
					I: new(big.Int).Set(i),
					J: new(big.Int).Set(j),
					K: k,
				}, true, nil
			}
		}
	}
	return domain.Triple{}, false, nil
}

// probablyPrime shields the tester from cancellation; find polls ctx itself
// between outer iterations.
func (s *Searcher) probablyPrime(ctx context.Context, v *big.Int) (bool, error) {
	verdict, err := s.tester.Test(context.WithoutCancel(ctx), v)
	if err != nil {
		return false, fmt.Errorf("test %v: %w", v, err)
	}
	return verdict == domain.ProbablyPrime, nil
}
