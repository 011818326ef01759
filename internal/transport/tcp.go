// internal/transport/tcp.go
package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TCPConfig represents a raw network printer (port 9100 style)
type TCPConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Timeout      time.Duration `json:"timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// TCPDevice writes jobs over a plain TCP connection
type TCPDevice struct {
	config *TCPConfig
	conn   net.Conn
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewTCPDevice creates a TCP device
func NewTCPDevice(config *TCPConfig, logger *zap.Logger) *TCPDevice {
	return &TCPDevice{
		config: config,
		logger: logger.With(
			zap.String("device", "tcp"),
			zap.String("host", config.Host),
			zap.Int("port", config.Port),
		),
	}
}

func (td *TCPDevice) address() string {
	return net.JoinHostPort(td.config.Host, strconv.Itoa(td.config.Port))
}

// Open dials the printer
func (td *TCPDevice) Open(ctx context.Context) error {
	td.mutex.Lock()
	defer td.mutex.Unlock()

	if td.conn != nil {
		return nil
	}

	dialer := &net.Dialer{Timeout: td.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", td.address())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", td.address(), err)
	}

	td.conn = conn
	td.logger.Debug("TCP connection opened")
	return nil
}

// Write sends all of data within the write timeout
func (td *TCPDevice) Write(ctx context.Context, data []byte) error {
	td.mutex.Lock()
	defer td.mutex.Unlock()

	if td.conn == nil {
		return fmt.Errorf("TCP connection not open")
	}

	if td.config.WriteTimeout > 0 {
		if err := td.conn.SetWriteDeadline(time.Now().Add(td.config.WriteTimeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %w", err)
		}
	}

	// net.Conn.Write returns an error on any short write
	n, err := td.conn.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write to %s after %d of %d bytes: %w", td.address(), n, len(data), err)
	}
	return nil
}

// Close closes the connection
func (td *TCPDevice) Close() error {
	td.mutex.Lock()
	defer td.mutex.Unlock()

	if td.conn == nil {
		return nil
	}
	err := td.conn.Close()
	td.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close TCP connection: %w", err)
	}
	return nil
}
