package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/homely/homely-back/internal/domain"
)

func testJob(id, clientID string, createdAt int64) domain.Job {
	return domain.Job{
		ID:          id,
		ClientID:    clientID,
		Title:       "Mow Lawn",
		Description: "Front and back yard",
		ServiceType: domain.ServiceTypeGardening,
		Location:    "123 Maple Ave",
		Date:        "2023-11-15",
		Budget:      "$60",
		Status:      domain.JobStatusPending,
		CreatedAt:   createdAt,
	}
}

func TestMemoryCreateListsNewestFirst(t *testing.T) {
	repo := NewMemoryJobsRepository()
	ctx := context.Background()

	if _, err := repo.CreateJob(ctx, testJob("old", "client-1", 100)); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if _, err := repo.CreateJob(ctx, testJob("new", "client-1", 200)); err != nil {
		t.Fatalf("create new: %v", err)
	}

	jobs, err := repo.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != "new" || jobs[1].ID != "old" {
		t.Fatalf("expected newest-first ordering, got %s,%s", jobs[0].ID, jobs[1].ID)
	}

	seen := 0
	for _, job := range jobs {
		if job.ID == "new" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("expected job to appear exactly once, got %d", seen)
	}
}

func TestMemoryCreateDuplicateIDConflicts(t *testing.T) {
	repo := NewMemoryJobsRepository()
	ctx := context.Background()

	if _, err := repo.CreateJob(ctx, testJob("10", "client-1", 100)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.CreateJob(ctx, testJob("10", "client-1", 200))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	jobs, err := repo.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected collection unchanged, got %d entries", len(jobs))
	}
}

func TestMemoryUpdateStatusPreservesOtherFields(t *testing.T) {
	repo := NewMemoryJobsRepository()
	ctx := context.Background()

	original := testJob("10", "client-1", 100)
	if _, err := repo.CreateJob(ctx, original); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.UpdateJobStatus(ctx, "10", domain.JobStatusAccepted)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.JobStatusAccepted {
		t.Fatalf("expected status ACCEPTED, got %s", updated.Status)
	}

	expected := original
	expected.Status = domain.JobStatusAccepted
	if updated != expected {
		t.Fatalf("expected only status to change, got %+v", updated)
	}

	jobs, _ := repo.ListJobs(ctx)
	if jobs[0] != expected {
		t.Fatalf("expected stored record to match update, got %+v", jobs[0])
	}
}

func TestMemoryUpdateStatusUnknownIDNotFound(t *testing.T) {
	repo := NewMemoryJobsRepository()
	ctx := context.Background()

	if _, err := repo.CreateJob(ctx, testJob("10", "client-1", 100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := repo.UpdateJobStatus(ctx, "missing", domain.JobStatusAccepted)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	jobs, _ := repo.ListJobs(ctx)
	if len(jobs) != 1 || jobs[0].Status != domain.JobStatusPending {
		t.Fatalf("expected collection unaltered, got %+v", jobs)
	}
}

func TestMemoryGetJob(t *testing.T) {
	repo := NewMemoryJobsRepository()
	ctx := context.Background()

	if _, err := repo.CreateJob(ctx, testJob("10", "client-1", 100)); err != nil {
		t.Fatalf("create: %v", err)
	}

	job, err := repo.GetJob(ctx, "10")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.ID != "10" {
		t.Fatalf("expected job 10, got %s", job.ID)
	}

	if _, err := repo.GetJob(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
