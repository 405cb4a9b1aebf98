package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homely/homely-back/internal/domain"
)

const pgUniqueViolation = "23505"

// PostgresJobsRepository backs the job collection with Postgres. The seq
// column is a bigserial and listings order by it alone, so read-back matches
// the in-memory head-insert order regardless of caller-supplied timestamps.
type PostgresJobsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresJobsRepository(ctx context.Context, databaseURL string) (*PostgresJobsRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}
	return &PostgresJobsRepository{pool: pool}, nil
}

func (r *PostgresJobsRepository) Close() {
	r.pool.Close()
}

func (r *PostgresJobsRepository) ListJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, title, description, service_type, location, date, budget, status, created_at, ai_estimated_quote
		FROM jobs
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, storeErr("list jobs", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if rows.Err() != nil {
		return nil, storeErr("iterate jobs", rows.Err())
	}
	return jobs, nil
}

func (r *PostgresJobsRepository) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, client_id, title, description, service_type, location, date, budget, status, created_at, ai_estimated_quote
		FROM jobs
		WHERE id = $1
	`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, storeErr("get job", err)
	}
	return job, nil
}

func (r *PostgresJobsRepository) CreateJob(ctx context.Context, job domain.Job) (domain.Job, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO jobs (
			id,
			client_id,
			title,
			description,
			service_type,
			location,
			date,
			budget,
			status,
			created_at,
			ai_estimated_quote
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		job.ID,
		job.ClientID,
		job.Title,
		job.Description,
		string(job.ServiceType),
		job.Location,
		job.Date,
		job.Budget,
		string(job.Status),
		job.CreatedAt,
		job.AIEstimatedQuote,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Job{}, domain.ErrConflict
		}
		return domain.Job{}, storeErr("insert job", err)
	}
	return job, nil
}

func (r *PostgresJobsRepository) UpdateJobStatus(
	ctx context.Context,
	id string,
	status domain.JobStatus,
) (domain.Job, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE jobs
		SET status = $2
		WHERE id = $1
		RETURNING id, client_id, title, description, service_type, location, date, budget, status, created_at, ai_estimated_quote
	`, id, string(status))

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.ErrNotFound
		}
		return domain.Job{}, storeErr("update job status", err)
	}
	return job, nil
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var (
		job         domain.Job
		serviceType string
		status      string
	)
	err := row.Scan(
		&job.ID,
		&job.ClientID,
		&job.Title,
		&job.Description,
		&serviceType,
		&job.Location,
		&job.Date,
		&job.Budget,
		&status,
		&job.CreatedAt,
		&job.AIEstimatedQuote,
	)
	if err != nil {
		return domain.Job{}, err
	}
	job.ServiceType = domain.ServiceType(serviceType)
	job.Status = domain.JobStatus(status)
	return job, nil
}
