// internal/service/types.go
package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobResult describes a job accepted by a printer queue
type JobResult struct {
	JobID   uuid.UUID `json:"job_id"`
	QueueID string    `json:"queue_id"`
	Bytes   int       `json:"bytes"`
}

// PrintResult is returned for a printed receipt
type PrintResult struct {
	JobResult
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
}

// DrawerRequest opens the cash drawer on a queue.
// Zero values fall back to the printer configuration.
type DrawerRequest struct {
	Queue string `json:"queue"`
	Pin   *int   `json:"pin,omitempty"`
}

// TestPageRequest prints the printer settings on a queue
type TestPageRequest struct {
	Queue string `json:"queue"`
}
