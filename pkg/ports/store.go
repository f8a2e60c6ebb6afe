package ports

import (
	"context"
	"errors"

	"github.com/aretw0/threeprimes/pkg/domain"
)

// ErrJobNotFound is returned when a job ID cannot be found in the store.
var ErrJobNotFound = errors.New("job not found")

// JobStore persists the status of asynchronous searches.
// Entries are transient: stores may expire them.
type JobStore interface {
	// Save creates or replaces the job.
	Save(ctx context.Context, job *domain.Job) error

	// Load retrieves a job by ID.
	// Returns ErrJobNotFound if the job does not exist.
	Load(ctx context.Context, id string) (*domain.Job, error)

	// Delete removes a job. Deleting a missing job is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of known jobs.
	List(ctx context.Context) ([]string, error)
}
