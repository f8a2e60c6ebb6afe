package ports

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJobStoreContract runs a suite of tests to verify that a JobStore implementation
// adheres to the defined interface contract.
func RunJobStoreContract(t *testing.T, store JobStore) {
	ctx := context.Background()
	jobID := "contract-test-job-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		n, _ := new(big.Int).SetString("100000000000000000000000000000000000000001", 10)
		job := domain.NewJob(jobID, n)
		require.NoError(t, store.Save(ctx, job), "Save should not return error")

		loaded, err := store.Load(ctx, jobID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, jobID, loaded.ID)
		assert.Equal(t, domain.JobPending, loaded.Status)
		assert.Equal(t, 0, n.Cmp(loaded.N), "big values must round-trip exactly")
	})

	t.Run("Update with Triple", func(t *testing.T) {
		job := domain.NewJob(jobID, big.NewInt(77))
		triple := domain.NewTriple(3, 3, 71)
		job.Status = domain.JobDone
		job.Found = true
		job.Triple = &triple
		require.NoError(t, store.Save(ctx, job))

		loaded, err := store.Load(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobDone, loaded.Status)
		assert.True(t, loaded.Found)
		require.NotNil(t, loaded.Triple)
		assert.True(t, triple.Equal(*loaded.Triple))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+jobID)
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewJob(jobID, big.NewInt(9))))
		require.NoError(t, store.Delete(ctx, jobID), "Delete should not return error")

		_, err := store.Load(ctx, jobID)
		assert.ErrorIs(t, err, ErrJobNotFound, "Load after Delete should return ErrJobNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := jobID + "-1"
		id2 := jobID + "-2"
		_ = store.Save(ctx, domain.NewJob(id1, big.NewInt(9)))
		_ = store.Save(ctx, domain.NewJob(id2, big.NewInt(11)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
