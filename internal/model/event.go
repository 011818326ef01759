// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of a job lifecycle event
type EventType string

const (
	EventJobStarted   EventType = "job.started"
	EventJobCompleted EventType = "job.completed"
	EventJobFailed    EventType = "job.failed"
)

// JobEvent is published on the event bus and forwarded to websocket clients
type JobEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	JobID     uuid.UUID `json:"job_id"`
	Kind      JobKind   `json:"kind"`
	QueueID   string    `json:"queue_id"`
	Bytes     int       `json:"bytes,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewJobEvent builds an event for the given job record
func NewJobEvent(eventType EventType, job *JobRecord) JobEvent {
	ev := JobEvent{
		ID:        uuid.New(),
		Type:      eventType,
		JobID:     job.ID,
		Kind:      job.Kind,
		QueueID:   job.QueueID,
		Bytes:     job.Bytes,
		Timestamp: time.Now(),
	}
	if job.ErrorMessage != nil {
		ev.Error = *job.ErrorMessage
	}
	return ev
}
