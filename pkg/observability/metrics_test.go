package observability_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/aretw0/threeprimes/pkg/observability"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/aretw0/threeprimes/pkg/search"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordSearch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()

	oracle := primality.NewOracle(primality.WithHooks(hooks))
	_, found, err := search.New(oracle, search.WithHooks(hooks)).Find(context.Background(), big.NewInt(9))
	require.NoError(t, err)
	require.True(t, found)

	// n=9: one outer step (i=3); 3 is tested three times (i, j, k).
	expected := `
# HELP threeprimes_search_outer_steps_total Outer-loop candidates visited by triple searches
# TYPE threeprimes_search_outer_steps_total counter
threeprimes_search_outer_steps_total 1
# HELP threeprimes_searches_total Triple searches by outcome
# TYPE threeprimes_searches_total counter
threeprimes_searches_total{outcome="found"} 1
# HELP threeprimes_verdicts_total Primality classifications by verdict
# TYPE threeprimes_verdicts_total counter
threeprimes_verdicts_total{verdict="probably_prime"} 3
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"threeprimes_search_outer_steps_total",
		"threeprimes_searches_total",
		"threeprimes_verdicts_total",
	)
	assert.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "threeprimes_search_duration_seconds"))
}

func TestMetrics_InvalidSearchNotCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	_, _, err := search.New(primality.NewOracle(), search.WithHooks(m.Hooks())).Find(context.Background(), big.NewInt(8))
	require.Error(t, err)
	assert.Equal(t, 0, testutil.CollectAndCount(reg, "threeprimes_searches_total"))
}
