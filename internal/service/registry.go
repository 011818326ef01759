// internal/service/registry.go
package service

import (
	"fmt"

	"go.uber.org/zap"

	"receipt-service/internal/config"
	"receipt-service/internal/transport"
)

// BuildRegistry creates a device for every configured queue and registers it
func BuildRegistry(queues []config.QueueConfig, logger *zap.Logger) (*transport.Registry, error) {
	registry := transport.NewRegistry()

	for _, q := range queues {
		id := transport.QueueID{Port: q.Port, Name: q.Name}
		kind := transport.DeviceType(q.Type)

		device, err := transport.CreateDevice(kind, q.Options, logger)
		if err != nil {
			return nil, fmt.Errorf("queue %s: %w", id, err)
		}
		if err := registry.Register(id, kind, device); err != nil {
			return nil, err
		}

		logger.Info("Printer queue registered",
			zap.String("queue_id", id.String()),
			zap.String("type", q.Type),
		)
	}

	return registry, nil
}
