package controller

import (
	"context"
	"fmt"

	"github.com/homely/homely-back/internal/domain"
)

// WorkerController drives the worker dashboard. It polls the full job list:
// there is no worker-identity filter, every worker sees every accepted job
// system-wide (a shared job board).
type WorkerController struct {
	*poller
}

func NewWorkerController(store JobStore, cfg Config) *WorkerController {
	w := &WorkerController{}
	w.poller = newPoller(store, cfg, nil)
	return w
}

// Available filters the snapshot to jobs still open for acceptance. It is a
// pure function of the snapshot: no mutation, identical results on repeat
// calls.
func (w *WorkerController) Available() []domain.Job {
	return w.filterStatus(func(s domain.JobStatus) bool {
		return s == domain.JobStatusPending
	})
}

// MyJobs filters the snapshot to accepted and completed jobs.
func (w *WorkerController) MyJobs() []domain.Job {
	return w.filterStatus(func(s domain.JobStatus) bool {
		return s == domain.JobStatusAccepted || s == domain.JobStatusCompleted
	})
}

func (w *WorkerController) Accept(ctx context.Context, jobID string) error {
	if _, err := w.store.UpdateJobStatus(ctx, jobID, domain.JobStatusAccepted); err != nil {
		return fmt.Errorf("accept job %s: %w", jobID, err)
	}
	w.refresh(ctx)
	return nil
}

func (w *WorkerController) Decline(ctx context.Context, jobID string) error {
	if _, err := w.store.UpdateJobStatus(ctx, jobID, domain.JobStatusDeclined); err != nil {
		return fmt.Errorf("decline job %s: %w", jobID, err)
	}
	w.refresh(ctx)
	return nil
}

func (w *WorkerController) filterStatus(match func(domain.JobStatus) bool) []domain.Job {
	jobs := w.Jobs()
	filtered := make([]domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if match(job.Status) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}
