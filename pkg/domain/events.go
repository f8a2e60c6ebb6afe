package domain

import (
	"context"
	"math/big"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventVerdict     EventType = "verdict"
	EventOuterStep   EventType = "outer_step"
	EventSearchStart EventType = "search_start"
	EventSearchDone  EventType = "search_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// VerdictEvent is emitted once per primality classification.
type VerdictEvent struct {
	EventBase
	N         *big.Int  `json:"n"`
	Verdict   Primality `json:"verdict"`
	Witnesses int       `json:"witnesses"`
	// Rounds is the number of witness rounds actually run (0 for trivial cases).
	Rounds int `json:"rounds"`
}

// SearchEvent describes progress or completion of a triple search.
type SearchEvent struct {
	EventBase
	N *big.Int `json:"n"`
	// I is the outer candidate for EventOuterStep.
	I       *big.Int      `json:"i,omitempty"`
	Triple  *Triple       `json:"triple,omitempty"`
	Found   bool          `json:"found"`
	Err     error         `json:"-"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// Hooks defines callbacks for oracle and search observability.
// Any field may be nil.
type Hooks struct {
	OnVerdict     func(context.Context, *VerdictEvent)
	OnSearchStart func(context.Context, *SearchEvent)
	OnOuterStep   func(context.Context, *SearchEvent)
	OnSearchDone  func(context.Context, *SearchEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnVerdict:     chain(h.OnVerdict, other.OnVerdict),
		OnSearchStart: chain(h.OnSearchStart, other.OnSearchStart),
		OnOuterStep:   chain(h.OnOuterStep, other.OnOuterStep),
		OnSearchDone:  chain(h.OnSearchDone, other.OnSearchDone),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
