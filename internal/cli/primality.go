package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/threeprimes/internal/config"
	"github.com/aretw0/threeprimes/pkg/domain"
)

// TestOptions configures the test command.
type TestOptions struct {
	Numbers   []string
	Witnesses int
}

// RunTest classifies every number concurrently and prints "n verdict" lines in input order.
func RunTest(ctx context.Context, cfg config.Config, opts TestOptions, stdout io.Writer, logger *slog.Logger) error {
	ns, err := domain.ParseDecimals(opts.Numbers...)
	if err != nil {
		return err
	}

	engine := createEngine(cfg, opts.Witnesses, logger)
	results, err := engine.TestAll(ctx, ns, cfg.Concurrency)
	if err != nil {
		return err
	}

	styler := NewStyler(stdout)
	for _, r := range results {
		fmt.Fprintf(stdout, "%v %s\n", r.N, styler.Verdict(r.Verdict))
	}
	return nil
}

// RunModExp prints base^exponent mod modulus.
func RunModExp(base, exponent, modulus string, stdout io.Writer) error {
	vals, err := domain.ParseDecimals(base, exponent, modulus)
	if err != nil {
		return err
	}
	engine := createEngine(config.Default(), 0, slog.New(slog.DiscardHandler))
	r, err := engine.ModExp(vals[0], vals[1], vals[2])
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, r)
	return nil
}
