// internal/events/bus.go
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"receipt-service/internal/model"
)

const (
	busBuffer        = 1000
	subscriberBuffer = 100
)

// Bus fans job events out to subscribers. Publishing never blocks: events
// are dropped when the bus or a subscriber is full.
type Bus struct {
	subscribers map[uuid.UUID]chan model.JobEvent
	events      chan model.JobEvent
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subscribers: make(map[uuid.UUID]chan model.JobEvent),
		events:      make(chan model.JobEvent, busBuffer),
		logger:      logger.With(zap.String("component", "event_bus")),
	}
}

// Start distributes events until ctx is done
func (b *Bus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.events:
			b.distribute(event)
		}
	}
}

// Publish queues an event for distribution
func (b *Bus) Publish(event model.JobEvent) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("job_id", event.JobID.String()),
		)
	}
}

// Subscribe registers a subscriber for all events. The returned function
// unsubscribes and closes the channel.
func (b *Bus) Subscribe() (<-chan model.JobEvent, func()) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := uuid.New()
	ch := make(chan model.JobEvent, subscriberBuffer)
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mutex.Lock()
			defer b.mutex.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers
func (b *Bus) Subscribers() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.subscribers)
}

func (b *Bus) distribute(event model.JobEvent) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for _, subscriber := range b.subscribers {
		select {
		case subscriber <- event:
		default:
			// slow subscriber, skip
		}
	}
}
