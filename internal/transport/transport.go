// internal/transport/transport.go
package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// BusyPolicy decides what Send does when its queue is already printing
type BusyPolicy string

const (
	BusyBlock    BusyPolicy = "block"
	BusyFailFast BusyPolicy = "fail_fast"
)

// Options configures queue locking
type Options struct {
	Policy BusyPolicy
	// LockTimeout bounds the wait for a busy queue under BusyBlock. Zero waits
	// until the caller's context is done.
	LockTimeout time.Duration
}

// Observer receives per-queue measurements
type Observer interface {
	QueueWait(queue string, d time.Duration)
	BytesWritten(queue string, n int)
}

type noopObserver struct{}

func (noopObserver) QueueWait(string, time.Duration) {}
func (noopObserver) BytesWritten(string, int)        {}

// Transport delivers byte streams to registered queues, one job at a time
// per queue
type Transport struct {
	registry *Registry
	opts     Options
	logger   *zap.Logger
	observer Observer

	mu    sync.Mutex
	locks map[QueueID]*semaphore.Weighted
}

// New creates a transport over registry. A nil observer discards measurements.
func New(registry *Registry, opts Options, logger *zap.Logger, observer Observer) *Transport {
	if opts.Policy == "" {
		opts.Policy = BusyBlock
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Transport{
		registry: registry,
		opts:     opts,
		logger:   logger.With(zap.String("component", "transport")),
		observer: observer,
		locks:    make(map[QueueID]*semaphore.Weighted),
	}
}

// Registry returns the queue registry
func (t *Transport) Registry() *Registry {
	return t.registry
}

// lock returns the per-queue semaphore, created on first use and kept for
// the life of the transport
func (t *Transport) lock(id QueueID) *semaphore.Weighted {
	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.locks[id]
	if !ok {
		l = semaphore.NewWeighted(1)
		t.locks[id] = l
	}
	return l
}

func (t *Transport) acquire(ctx context.Context, l *semaphore.Weighted) error {
	if t.opts.Policy == BusyFailFast {
		if !l.TryAcquire(1) {
			return errors.New("another job is printing")
		}
		return nil
	}
	if t.opts.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.LockTimeout)
		defer cancel()
	}
	return l.Acquire(ctx, 1)
}

// Send writes data to the queue as one job. The context only bounds the wait
// for the queue; once the device is open the write runs to completion.
func (t *Transport) Send(ctx context.Context, queueID string, data []byte) error {
	id, err := ParseQueueID(queueID)
	if err != nil {
		return err
	}
	device, ok := t.registry.Lookup(id)
	if !ok {
		return newError(KindNotFound, queueID, errors.New("no such queue registered"))
	}

	queue := id.String()
	l := t.lock(id)

	waitStart := time.Now()
	if err := t.acquire(ctx, l); err != nil {
		t.logger.Warn("Queue busy", zap.String("queue", queue), zap.Error(err))
		return newError(KindBusy, queue, err)
	}
	defer l.Release(1)
	t.observer.QueueWait(queue, time.Since(waitStart))

	writeCtx := context.WithoutCancel(ctx)
	if err := device.Open(writeCtx); err != nil {
		t.logger.Error("Failed to open device", zap.String("queue", queue), zap.Error(err))
		return newError(KindBusy, queue, err)
	}
	defer func() {
		if err := device.Close(); err != nil {
			t.logger.Warn("Failed to close device", zap.String("queue", queue), zap.Error(err))
		}
	}()

	if err := device.Write(writeCtx, data); err != nil {
		t.logger.Error("Device write failed",
			zap.String("queue", queue),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return newError(KindWrite, queue, err)
	}

	t.observer.BytesWritten(queue, len(data))
	t.logger.Debug("Job written", zap.String("queue", queue), zap.Int("bytes", len(data)))
	return nil
}
