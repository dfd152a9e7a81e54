package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-jobtracker-capture/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrJobNotFound = errors.New("job not found")

const jobColumns = `id, company, position, link, status, parsed, parsed_at, created_at, updated_at`

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id         TEXT PRIMARY KEY,
	company    TEXT NOT NULL DEFAULT '',
	position   TEXT NOT NULL DEFAULT '',
	link       TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'APPLIED',
	parsed     BOOLEAN NOT NULL DEFAULT FALSE,
	parsed_at  TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Repository is the job store the capture pipeline reports to.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode cannot hold prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// EnsureSchema creates the jobs table if it is missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create jobs table: %w", err)
	}
	return nil
}

// ---------------- JOB OPERATIONS ----------------

// ListJobs returns every job, newest first
func (r *Repository) ListJobs(ctx context.Context) ([]models.Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *Repository) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return job, nil
}

// MarkCaptured records that data.json now exists for the job
func (r *Repository) MarkCaptured(ctx context.Context, jobID string, parsedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE jobs SET parsed = TRUE, parsed_at = $1, updated_at = NOW() WHERE id = $2",
		parsedAt, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark job captured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return nil
}

// ClearCaptured is the inverse of MarkCaptured, used when artifacts are removed
func (r *Repository) ClearCaptured(ctx context.Context, jobID string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE jobs SET parsed = FALSE, parsed_at = NULL, updated_at = NOW() WHERE id = $1",
		jobID)
	if err != nil {
		return fmt.Errorf("failed to clear capture flag: %w", err)
	}
	return nil
}

func (r *Repository) DeleteJob(ctx context.Context, jobID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM jobs WHERE id = $1", jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return nil
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(&job.ID, &job.Company, &job.Position, &job.Link, &job.Status,
		&job.Parsed, &job.ParsedAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
