// internal/model/job.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobKind represents what a job sent to the printer
type JobKind string

const (
	JobKindReceipt  JobKind = "RECEIPT"
	JobKindDrawer   JobKind = "DRAWER"
	JobKindTestPage JobKind = "TEST_PAGE"
)

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusSuccess    JobStatus = "SUCCESS"
	JobStatusFailed     JobStatus = "FAILED"
)

// JobRecord is the audit row kept for every job.
// The byte stream itself is never stored.
type JobRecord struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	Kind         JobKind             `json:"kind" db:"kind"`
	QueueID      string              `json:"queue_id" db:"queue_id"`
	Status       JobStatus           `json:"status" db:"status"`
	Bytes        int                 `json:"bytes" db:"bytes"`
	ErrorMessage *string             `json:"error_message,omitempty" db:"error_message"`
	DurationMs   *int                `json:"duration_ms,omitempty" db:"duration_ms"`
	ItemsTotal   decimal.NullDecimal `json:"items_total" db:"items_total"`
	Total        decimal.NullDecimal `json:"total" db:"total"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty" db:"completed_at"`
}

// IsCompleted checks if the job reached a terminal status
func (j *JobRecord) IsCompleted() bool {
	return j.Status == JobStatusSuccess || j.Status == JobStatusFailed
}

// Finish stamps the terminal status, duration and error text
func (j *JobRecord) Finish(status JobStatus, bytes int, err error) {
	now := time.Now()
	ms := int(now.Sub(j.CreatedAt).Milliseconds())
	j.Status = status
	j.Bytes = bytes
	j.CompletedAt = &now
	j.DurationMs = &ms
	if err != nil {
		msg := err.Error()
		j.ErrorMessage = &msg
	}
}
