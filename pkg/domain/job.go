package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"
)

// JobStatus is the lifecycle stage of an asynchronous search.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job tracks an asynchronous triple search.
type Job struct {
	ID     string    `json:"id"`
	N      *big.Int  `json:"n"`
	Status JobStatus `json:"status"`
	// Found is false with Status == JobDone when no triple exists (conjecture violated).
	Found     bool      `json:"found"`
	Triple    *Triple   `json:"triple,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJob creates a pending job for n.
func NewJob(id string, n *big.Int) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        id,
		N:         new(big.Int).Set(n),
		Status:    JobPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Terminal reports whether the job will not change anymore.
func (j *Job) Terminal() bool {
	return j.Status == JobDone || j.Status == JobFailed
}

// Snapshot returns a deep copy.
func (j *Job) Snapshot() *Job {
	c := *j
	if j.N != nil {
		c.N = new(big.Int).Set(j.N)
	}
	if j.Triple != nil {
		t := Triple{
			I: new(big.Int).Set(j.Triple.I),
			J: new(big.Int).Set(j.Triple.J),
			K: new(big.Int).Set(j.Triple.K),
		}
		c.Triple = &t
	}
	return &c
}

// jobWire is Job with n as a decimal string.
type jobWire struct {
	*jobAlias
	N string `json:"n"`
}

type jobAlias Job

// MarshalJSON encodes n as a decimal string, like Triple.
func (j Job) MarshalJSON() ([]byte, error) {
	n := ""
	if j.N != nil {
		n = j.N.String()
	}
	a := jobAlias(j)
	return json.Marshal(jobWire{jobAlias: &a, N: n})
}

// UnmarshalJSON decodes a job whose n is a decimal string.
func (j *Job) UnmarshalJSON(data []byte) error {
	w := jobWire{jobAlias: (*jobAlias)(j)}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("job: %w", err)
	}
	j.N = nil
	if w.N != "" {
		n, ok := new(big.Int).SetString(w.N, 10)
		if !ok {
			return fmt.Errorf("job: %q is not an integer", w.N)
		}
		j.N = n
	}
	return nil
}
