// internal/repository/memory_repository.go
package repository

import (
	"context"
	"fmt"
	"sync"

	"receipt-service/internal/model"
)

// MemoryCapacity is the number of jobs kept by the in-memory repository
const MemoryCapacity = 100

// memoryJobRepository keeps the most recent jobs when no database is configured
type memoryJobRepository struct {
	mutex    sync.RWMutex
	jobs     []model.JobRecord
	capacity int
}

// NewMemoryJobRepository creates a bounded in-memory job repository
func NewMemoryJobRepository(capacity int) JobRepository {
	if capacity <= 0 {
		capacity = MemoryCapacity
	}
	return &memoryJobRepository{capacity: capacity}
}

func (r *memoryJobRepository) Create(ctx context.Context, job *model.JobRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.jobs = append(r.jobs, *job)
	if len(r.jobs) > r.capacity {
		r.jobs = append([]model.JobRecord(nil), r.jobs[len(r.jobs)-r.capacity:]...)
	}
	return nil
}

func (r *memoryJobRepository) Complete(ctx context.Context, job *model.JobRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := len(r.jobs) - 1; i >= 0; i-- {
		if r.jobs[i].ID == job.ID {
			r.jobs[i] = *job
			return nil
		}
	}
	return fmt.Errorf("job not found with id: %s", job.ID)
}

func (r *memoryJobRepository) ListRecent(ctx context.Context, limit int) ([]*model.JobRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	limit = normalizeLimit(limit)
	jobs := make([]*model.JobRecord, 0, min(limit, len(r.jobs)))
	for i := len(r.jobs) - 1; i >= 0 && len(jobs) < limit; i-- {
		job := r.jobs[i]
		jobs = append(jobs, &job)
	}
	return jobs, nil
}
