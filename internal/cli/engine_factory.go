package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/threeprimes"
	"github.com/aretw0/threeprimes/internal/config"
	"github.com/aretw0/threeprimes/pkg/domain"
)

// createEngine initializes an engine with standard CLI conventions.
// A positive witnesses value overrides the configured round count.
func createEngine(cfg config.Config, witnesses int, logger *slog.Logger, hooks ...domain.Hooks) *threeprimes.Engine {
	if witnesses <= 0 {
		witnesses = cfg.Witnesses
	}
	opts := []threeprimes.Option{
		threeprimes.WithWitnesses(witnesses),
		threeprimes.WithLogger(logger),
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, threeprimes.WithHooks(createDebugHooks(logger)))
	}
	for _, h := range hooks {
		opts = append(opts, threeprimes.WithHooks(h))
	}
	return threeprimes.New(opts...)
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnVerdict: func(ctx context.Context, e *domain.VerdictEvent) {
			logger.Debug("verdict", "n", e.N, "verdict", e.Verdict, "rounds", e.Rounds)
		},
		OnOuterStep: func(ctx context.Context, e *domain.SearchEvent) {
			logger.Debug("outer step", "n", e.N, "i", e.I)
		},
	}
}
