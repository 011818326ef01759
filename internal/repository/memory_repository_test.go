package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receipt-service/internal/model"
)

func newJob(kind model.JobKind) *model.JobRecord {
	return &model.JobRecord{
		ID:        uuid.New(),
		Kind:      kind,
		QueueID:   "COM1:front",
		Status:    model.JobStatusProcessing,
		CreatedAt: time.Now(),
	}
}

func TestMemoryRepositoryListsNewestFirst(t *testing.T) {
	repo := NewMemoryJobRepository(10)
	ctx := context.Background()

	first := newJob(model.JobKindReceipt)
	second := newJob(model.JobKindDrawer)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	jobs, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)

	jobs, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, second.ID, jobs[0].ID)
}

func TestMemoryRepositoryComplete(t *testing.T) {
	repo := NewMemoryJobRepository(10)
	ctx := context.Background()

	job := newJob(model.JobKindReceipt)
	require.NoError(t, repo.Create(ctx, job))

	job.Finish(model.JobStatusFailed, 12, errors.New("queue busy"))
	require.NoError(t, repo.Complete(ctx, job))

	jobs, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, model.JobStatusFailed, jobs[0].Status)
	assert.Equal(t, 12, jobs[0].Bytes)
	require.NotNil(t, jobs[0].ErrorMessage)
	assert.Equal(t, "queue busy", *jobs[0].ErrorMessage)
	assert.True(t, jobs[0].IsCompleted())

	assert.Error(t, repo.Complete(ctx, newJob(model.JobKindReceipt)))
}

func TestMemoryRepositoryIsBounded(t *testing.T) {
	repo := NewMemoryJobRepository(3)
	ctx := context.Background()

	var last *model.JobRecord
	for i := 0; i < 5; i++ {
		last = newJob(model.JobKindReceipt)
		require.NoError(t, repo.Create(ctx, last))
	}

	jobs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
	assert.Equal(t, last.ID, jobs[0].ID)
}

func TestMemoryRepositoryCopiesRecords(t *testing.T) {
	repo := NewMemoryJobRepository(3)
	ctx := context.Background()

	job := newJob(model.JobKindReceipt)
	require.NoError(t, repo.Create(ctx, job))
	job.Status = model.JobStatusSuccess

	jobs, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusProcessing, jobs[0].Status)
}
