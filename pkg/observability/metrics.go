package observability

import (
	"context"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by domain hooks.
type Metrics struct {
	verdicts       *prometheus.CounterVec
	witnessRounds  prometheus.Counter
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	outerSteps     prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg skips registration (useful in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "threeprimes_verdicts_total",
				Help: "Primality classifications by verdict",
			},
			[]string{"verdict"},
		),
		witnessRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threeprimes_witness_rounds_total",
			Help: "Miller-Rabin witness rounds run",
		}),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "threeprimes_searches_total",
				Help: "Triple searches by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "threeprimes_search_duration_seconds",
			Help:    "Duration of triple searches",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		outerSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "threeprimes_search_outer_steps_total",
			Help: "Outer-loop candidates visited by triple searches",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.verdicts, m.witnessRounds, m.searches, m.searchDuration, m.outerSteps)
	}
	return m
}

// Outcome labels for threeprimes_searches_total.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Hooks returns callbacks that record into m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnVerdict: func(_ context.Context, e *domain.VerdictEvent) {
			m.verdicts.WithLabelValues(e.Verdict.String()).Inc()
			m.witnessRounds.Add(float64(e.Rounds))
		},
		OnOuterStep: func(context.Context, *domain.SearchEvent) {
			m.outerSteps.Inc()
		},
		OnSearchDone: func(_ context.Context, e *domain.SearchEvent) {
			outcome := OutcomeNotFound
			switch {
			case e.Err != nil:
				outcome = OutcomeError
			case e.Found:
				outcome = OutcomeFound
			}
			m.searches.WithLabelValues(outcome).Inc()
			m.searchDuration.Observe(e.Elapsed.Seconds())
		},
	}
}
