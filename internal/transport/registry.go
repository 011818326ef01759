// internal/transport/registry.go
package transport

import (
	"fmt"
	"sort"
	"sync"
)

// QueueInfo describes a registered queue
type QueueInfo struct {
	ID   string     `json:"id"`
	Port string     `json:"port"`
	Name string     `json:"name"`
	Type DeviceType `json:"type"`
}

type registration struct {
	info   QueueInfo
	device Device
}

// Registry maps queue identifiers to devices
type Registry struct {
	mu     sync.RWMutex
	queues map[QueueID]registration
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{queues: make(map[QueueID]registration)}
}

// Register adds a queue. Registering the same identifier twice is an error.
func (r *Registry) Register(id QueueID, kind DeviceType, device Device) error {
	if device == nil {
		return fmt.Errorf("queue %s: nil device", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.queues[id]; exists {
		return fmt.Errorf("queue %s already registered", id)
	}
	r.queues[id] = registration{
		info:   QueueInfo{ID: id.String(), Port: id.Port, Name: id.Name, Type: kind},
		device: device,
	}
	return nil
}

// Lookup returns the device registered for id
func (r *Registry) Lookup(id QueueID) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.queues[id]
	return reg.device, ok
}

// List returns all queues ordered by identifier
func (r *Registry) List() []QueueInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]QueueInfo, 0, len(r.queues))
	for _, reg := range r.queues {
		out = append(out, reg.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
