package jobs_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/aretw0/threeprimes/pkg/adapters/memory"
	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/jobs"
	"github.com/aretw0/threeprimes/pkg/primality"
	"github.com/aretw0/threeprimes/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockingFinder waits for its context to end.
type blockingFinder struct{}

func (blockingFinder) Find(ctx context.Context, n *big.Int) (domain.Triple, bool, error) {
	<-ctx.Done()
	return domain.Triple{}, false, ctx.Err()
}

// emptyFinder never finds a triple.
type emptyFinder struct{}

func (emptyFinder) Find(context.Context, *big.Int) (domain.Triple, bool, error) {
	return domain.Triple{}, false, nil
}

func TestRunner_CompletesJob(t *testing.T) {
	store := memory.NewStore()
	r := jobs.NewRunner(search.New(primality.NewOracle()), store,
		jobs.WithIDGenerator(func() string { return "job-77" }))
	defer r.Close()

	job, err := r.Submit(context.Background(), big.NewInt(77))
	require.NoError(t, err)
	assert.Equal(t, "job-77", job.ID)
	assert.Equal(t, domain.JobPending, job.Status)

	r.Wait()

	got, err := r.Get(context.Background(), "job-77")
	require.NoError(t, err)
	assert.Equal(t, domain.JobDone, got.Status)
	assert.True(t, got.Found)
	require.NotNil(t, got.Triple)
	assert.Equal(t, "3 3 71", got.Triple.String())
}

func TestRunner_NotFoundIsDone(t *testing.T) {
	r := jobs.NewRunner(emptyFinder{}, memory.NewStore())
	defer r.Close()

	job, err := r.Submit(context.Background(), big.NewInt(21))
	require.NoError(t, err)
	r.Wait()

	got, err := r.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobDone, got.Status)
	assert.False(t, got.Found)
	assert.Nil(t, got.Triple)
}

func TestRunner_RejectsInvalidInput(t *testing.T) {
	store := memory.NewStore()
	r := jobs.NewRunner(emptyFinder{}, store)
	defer r.Close()

	_, err := r.Submit(context.Background(), big.NewInt(8))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRunner_Timeout(t *testing.T) {
	r := jobs.NewRunner(blockingFinder{}, memory.NewStore(), jobs.WithTimeout(20*time.Millisecond))
	defer r.Close()

	job, err := r.Submit(context.Background(), big.NewInt(101))
	require.NoError(t, err)
	r.Wait()

	got, err := r.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.Contains(t, got.Error, "deadline exceeded")
}

func TestRunner_CloseCancelsRunningJobs(t *testing.T) {
	r := jobs.NewRunner(blockingFinder{}, memory.NewStore())

	job, err := r.Submit(context.Background(), big.NewInt(101))
	require.NoError(t, err)

	r.Close()

	got, err := r.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobFailed, got.Status)

	_, err = r.Submit(context.Background(), big.NewInt(101))
	assert.ErrorIs(t, err, jobs.ErrClosed)
}

func TestRunner_UniqueIDs(t *testing.T) {
	r := jobs.NewRunner(emptyFinder{}, memory.NewStore())
	defer r.Close()

	a, err := r.Submit(context.Background(), big.NewInt(9))
	require.NoError(t, err)
	b, err := r.Submit(context.Background(), big.NewInt(9))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
