// Package jobs runs triple searches asynchronously and records their progress in a
// ports.JobStore.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/aretw0/threeprimes/pkg/domain"
	"github.com/aretw0/threeprimes/pkg/ports"
	"github.com/aretw0/threeprimes/pkg/search"
	"github.com/google/uuid"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("job runner closed")

// Runner executes searches in background goroutines.
type Runner struct {
	finder  ports.TripleFinder
	store   ports.JobStore
	timeout time.Duration
	logger  *slog.Logger
	newID   func() string

	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
	base   context.Context
	wg     sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds every search. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIDGenerator overrides job ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		r.newID = fn
	}
}

// NewRunner creates a runner writing job status to store.
func NewRunner(finder ports.TripleFinder, store ports.JobStore, opts ...Option) *Runner {
	base, cancel := context.WithCancel(context.Background())
	r := &Runner{
		finder: finder,
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		newID:  uuid.NewString,
		base:   base,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit validates n, stores a pending job and starts the search.
// Invalid input is rejected synchronously with domain.ErrInvalidInput.
func (r *Runner) Submit(ctx context.Context, n *big.Int) (*domain.Job, error) {
	if err := search.CheckPrecondition(n); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}

	job := domain.NewJob(r.newID(), n)
	if err := r.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	r.wg.Add(1)
	go func(job *domain.Job) {
		defer r.wg.Done()
		r.run(job)
	}(job.Snapshot())

	r.logger.Info("job submitted", "job_id", job.ID, "n", n)
	return job, nil
}

// Get returns the current status of a job.
func (r *Runner) Get(ctx context.Context, id string) (*domain.Job, error) {
	return r.store.Load(ctx, id)
}

func (r *Runner) run(job *domain.Job) {
	ctx := r.base
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	// Status writes must survive the search deadline.
	storeCtx := context.WithoutCancel(ctx)

	job.Status = domain.JobRunning
	job.UpdatedAt = time.Now().UTC()
	if err := r.store.Save(storeCtx, job); err != nil {
		r.logger.Error("job status update failed", "job_id", job.ID, "error", err)
	}

	triple, found, err := r.finder.Find(ctx, job.N)

	job.UpdatedAt = time.Now().UTC()
	switch {
	case err != nil:
		job.Status = domain.JobFailed
		job.Error = err.Error()
		r.logger.Warn("job failed", "job_id", job.ID, "error", err)
	default:
		job.Status = domain.JobDone
		job.Found = found
		if found {
			job.Triple = &triple
		}
		r.logger.Info("job done", "job_id", job.ID, "found", found)
	}

	if err := r.store.Save(storeCtx, job); err != nil {
		r.logger.Error("job status update failed", "job_id", job.ID, "error", err)
	}
}

// Wait blocks until all submitted jobs have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close stops accepting jobs, cancels running searches and waits for them.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
