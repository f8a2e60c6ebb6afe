package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/threeprimes/internal/config"
	"github.com/aretw0/threeprimes/pkg/domain"
)

// FindOptions configures the find command.
type FindOptions struct {
	N         string
	Out       string
	Witnesses int
	Timeout   time.Duration
	Time      bool
}

// RunFind searches a triple for opts.N, writes it to the output file and prints it.
// It returns ErrNoTriple if the range was exhausted.
func RunFind(ctx context.Context, cfg config.Config, opts FindOptions, stdout io.Writer, logger *slog.Logger) error {
	n, err := domain.ParseDecimal(opts.N)
	if err != nil {
		return err
	}
	out := opts.Out
	if out == "" {
		out = cfg.Output
	}

	engine := createEngine(cfg, opts.Witnesses, logger)
	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	var (
		triple domain.Triple
		found  bool
	)
	elapsed, err := Timed(func() error {
		var err error
		triple, found, err = engine.FindTriple(ctx, n)
		return err
	})
	if err != nil {
		return err
	}

	styler := NewStyler(stdout)
	if !found {
		fmt.Fprintf(stdout, "%v: %v\n", n, ErrNoTriple)
		if opts.Time {
			fmt.Fprintln(stdout, styler.Faint(fmt.Sprintf("Time Elapsed: %s", elapsed)))
		}
		return ErrNoTriple
	}

	if err := WriteTriple(out, triple); err != nil {
		return err
	}
	logger.Info("triple written", "n", n, "triple", triple.String(), "path", out)

	fmt.Fprintln(stdout, triple.String())
	if opts.Time {
		fmt.Fprintln(stdout, styler.Faint(fmt.Sprintf("Time Elapsed: %s", elapsed)))
	}
	return nil
}
