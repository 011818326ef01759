// internal/repository/interfaces.go
package repository

import (
	"context"

	"receipt-service/internal/model"
)

// DefaultListLimit is used when a caller asks for a non-positive limit
const DefaultListLimit = 50

// JobRepository defines print job audit operations
type JobRepository interface {
	// Create stores a job in PROCESSING state
	Create(ctx context.Context, job *model.JobRecord) error
	// Complete stores the terminal status, byte count, duration and error
	Complete(ctx context.Context, job *model.JobRecord) error
	// ListRecent returns jobs newest first
	ListRecent(ctx context.Context, limit int) ([]*model.JobRecord, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
