package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNoTriple reports that a search exhausted its range. The command exits with
// status 2 when it sees this error.
var ErrNoTriple = errors.New("no triple found: Goldbach's weak conjecture violated")

// WriteTriple writes "i j k" to path, replacing any previous content.
func WriteTriple(path string, t domain.Triple) error {
	if err := os.WriteFile(path, []byte(t.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Timed runs fn and reports its wall time.
func Timed(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// withTimeout derives a bounded context when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// Styler colours verdicts when writing to a terminal.
type Styler struct {
	out *termenv.Output
}

// NewStyler picks a colour profile for w: plain ASCII unless w is a terminal.
func NewStyler(w io.Writer) *Styler {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.EnvColorProfile()
	}
	return &Styler{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// Verdict renders a primality verdict.
func (s *Styler) Verdict(p domain.Primality) string {
	color := "#ef4444"
	if p == domain.ProbablyPrime {
		color = "#22c55e"
	}
	return s.out.String(p.String()).Foreground(s.out.Color(color)).String()
}

// Faint dims secondary output such as timings.
func (s *Styler) Faint(text string) string {
	return s.out.String(text).Faint().String()
}
