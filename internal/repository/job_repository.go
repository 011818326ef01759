// internal/repository/job_repository.go
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"receipt-service/internal/database"
	"receipt-service/internal/model"
)

// jobRepository implements JobRepository on PostgreSQL
type jobRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.DB, logger *zap.Logger) JobRepository {
	return &jobRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new job row
func (r *jobRepository) Create(ctx context.Context, job *model.JobRecord) error {
	query := `
		INSERT INTO print_jobs (
			id, kind, queue_id, status, bytes, items_total, total, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Kind, job.QueueID, job.Status, job.Bytes,
		job.ItemsTotal, job.Total, job.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create job", zap.String("job_id", job.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Complete updates the terminal columns of a job row
func (r *jobRepository) Complete(ctx context.Context, job *model.JobRecord) error {
	query := `
		UPDATE print_jobs SET
			status = $2, bytes = $3, error_message = $4,
			duration_ms = $5, completed_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		job.ID, job.Status, job.Bytes, job.ErrorMessage,
		job.DurationMs, job.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to complete job", zap.String("job_id", job.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to complete job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job not found with id: %s", job.ID)
	}

	return nil
}

// ListRecent returns the newest jobs first
func (r *jobRepository) ListRecent(ctx context.Context, limit int) ([]*model.JobRecord, error) {
	query := `
		SELECT id, kind, queue_id, status, bytes, error_message,
			   duration_ms, items_total, total, created_at, completed_at
		FROM print_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.JobRecord
	for rows.Next() {
		job := &model.JobRecord{}
		if err := rows.Scan(
			&job.ID, &job.Kind, &job.QueueID, &job.Status, &job.Bytes,
			&job.ErrorMessage, &job.DurationMs, &job.ItemsTotal, &job.Total,
			&job.CreatedAt, &job.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}
