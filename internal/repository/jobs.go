package repository

import (
	"context"
	"sync"

	"github.com/homely/homely-back/internal/domain"
)

// JobsRepository abstracts job persistence. Implementations keep the listing
// order newest-first, matching the insert-at-head policy of the store.
type JobsRepository interface {
	ListJobs(ctx context.Context) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (domain.Job, error)
	CreateJob(ctx context.Context, job domain.Job) (domain.Job, error)
	UpdateJobStatus(ctx context.Context, id string, status domain.JobStatus) (domain.Job, error)
}

// MemoryJobsRepository stores jobs in memory for local development and tests.
type MemoryJobsRepository struct {
	mu    sync.RWMutex
	order []string
	jobs  map[string]domain.Job
}

func NewMemoryJobsRepository() *MemoryJobsRepository {
	return &MemoryJobsRepository{
		order: make([]string, 0),
		jobs:  make(map[string]domain.Job),
	}
}

func (r *MemoryJobsRepository) ListJobs(_ context.Context) ([]domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]domain.Job, 0, len(r.order))
	for _, id := range r.order {
		jobs = append(jobs, r.jobs[id])
	}
	return jobs, nil
}

func (r *MemoryJobsRepository) GetJob(_ context.Context, id string) (domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return job, nil
}

func (r *MemoryJobsRepository) CreateJob(_ context.Context, job domain.Job) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return domain.Job{}, domain.ErrConflict
	}
	r.jobs[job.ID] = job
	r.order = append([]string{job.ID}, r.order...)
	return job, nil
}

func (r *MemoryJobsRepository) UpdateJobStatus(
	_ context.Context,
	id string,
	status domain.JobStatus,
) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	job.Status = status
	r.jobs[id] = job
	return job, nil
}
