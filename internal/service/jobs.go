package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/domain"
	"github.com/homely/homely-back/internal/notify"
	"github.com/homely/homely-back/internal/repository"
)

type JobsServiceConfig struct {
	// StrictTransitions enforces the job state machine on status updates.
	// Off by default: the original store overwrites unconditionally, and some
	// flows (resetting a declined job to pending) may rely on that.
	StrictTransitions bool
}

// JobsService owns job lifecycle rules on top of a repository and publishes
// a hub event for every successful mutation.
type JobsService struct {
	repo   repository.JobsRepository
	hub    *notify.Hub
	strict bool
	logger zerolog.Logger
}

func NewJobsService(
	repo repository.JobsRepository,
	hub *notify.Hub,
	config JobsServiceConfig,
	logger zerolog.Logger,
) *JobsService {
	return &JobsService{
		repo:   repo,
		hub:    hub,
		strict: config.StrictTransitions,
		logger: logger,
	}
}

func (s *JobsService) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return s.repo.ListJobs(ctx)
}

func (s *JobsService) GetJob(ctx context.Context, id string) (domain.Job, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *JobsService) CreateJob(ctx context.Context, job domain.Job) (domain.Job, error) {
	if strings.TrimSpace(job.ID) == "" {
		return domain.Job{}, fmt.Errorf("%w: job id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(job.Title) == "" {
		return domain.Job{}, fmt.Errorf("%w: job title is required", domain.ErrValidation)
	}

	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	if !job.Status.Valid() {
		return domain.Job{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, job.Status)
	}
	if job.CreatedAt == 0 {
		job.CreatedAt = domain.NowMillis()
	}

	created, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info().Str("job_id", created.ID).Str("client_id", created.ClientID).Msg("job created")
	if s.hub != nil {
		s.hub.Publish(notify.Event{Kind: notify.EventJobCreated, JobID: created.ID, Status: created.Status})
	}
	return created, nil
}

func (s *JobsService) UpdateJobStatus(
	ctx context.Context,
	id string,
	status domain.JobStatus,
) (domain.Job, error) {
	if !status.Valid() {
		return domain.Job{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	if s.strict {
		current, err := s.repo.GetJob(ctx, id)
		if err != nil {
			return domain.Job{}, fmt.Errorf("load job %s: %w", id, err)
		}
		if !current.Status.CanTransitionTo(status) {
			return domain.Job{}, fmt.Errorf(
				"%w: %s -> %s", domain.ErrIllegalTransition, current.Status, status,
			)
		}
	}

	updated, err := s.repo.UpdateJobStatus(ctx, id, status)
	if err != nil {
		return domain.Job{}, fmt.Errorf("update job %s: %w", id, err)
	}

	s.logger.Info().Str("job_id", updated.ID).Str("status", string(updated.Status)).Msg("job status updated")
	if s.hub != nil {
		s.hub.Publish(notify.Event{Kind: notify.EventJobStatus, JobID: updated.ID, Status: updated.Status})
	}
	return updated, nil
}

// SeedDemoJobs loads the two canonical demo records into an empty store so a
// fresh instance has something to show on both dashboards.
func (s *JobsService) SeedDemoJobs(ctx context.Context) error {
	existing, err := s.repo.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("list jobs before seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := domain.NowMillis()
	seeds := []domain.Job{
		{
			ID:          "2",
			ClientID:    "client-2",
			Title:       "Fix Leaky Faucet",
			Description: "Kitchen sink faucet is dripping constantly.",
			ServiceType: domain.ServiceTypePlumbing,
			Location:    "456 Oak Dr, Springfield",
			Date:        "2023-11-16",
			Budget:      "$80",
			Status:      domain.JobStatusAccepted,
			CreatedAt:   now - 200000,
		},
		{
			ID:          "1",
			ClientID:    "client-1",
			Title:       "Deep Clean Kitchen",
			Description: "Need a full deep clean of a 200sqft kitchen, including oven and fridge.",
			ServiceType: domain.ServiceTypeCleaning,
			Location:    "123 Maple Ave, Springfield",
			Date:        "2023-11-15",
			Budget:      "$150",
			Status:      domain.JobStatusPending,
			CreatedAt:   now - 100000,
		},
	}

	for _, seed := range seeds {
		if _, err := s.repo.CreateJob(ctx, seed); err != nil {
			return fmt.Errorf("seed job %s: %w", seed.ID, err)
		}
	}
	s.logger.Info().Int("count", len(seeds)).Msg("demo jobs seeded")
	return nil
}
