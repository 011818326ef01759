// internal/transport/serial.go
package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// SerialConfig represents serial port configuration
type SerialConfig struct {
	Port     string        `json:"port"`
	BaudRate int           `json:"baud_rate"`
	DataBits int           `json:"data_bits"`
	StopBits int           `json:"stop_bits"`
	Parity   string        `json:"parity"`
	Timeout  time.Duration `json:"timeout"`
}

// SerialDevice writes jobs to a serial or virtual COM port
type SerialDevice struct {
	config *SerialConfig
	port   serial.Port
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewSerialDevice creates a serial device
func NewSerialDevice(config *SerialConfig, logger *zap.Logger) *SerialDevice {
	return &SerialDevice{
		config: config,
		logger: logger.With(
			zap.String("device", "serial"),
			zap.String("port", config.Port),
		),
	}
}

func (sd *SerialDevice) mode() *serial.Mode {
	mode := &serial.Mode{
		BaudRate: sd.config.BaudRate,
		DataBits: sd.config.DataBits,
		StopBits: serial.OneStopBit,
	}
	if sd.config.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch sd.config.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}
	return mode
}

// Open opens the serial port
func (sd *SerialDevice) Open(ctx context.Context) error {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	if sd.port != nil {
		return nil
	}

	port, err := serial.Open(sd.config.Port, sd.mode())
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	if sd.config.Timeout > 0 {
		if err := port.SetReadTimeout(sd.config.Timeout); err != nil {
			port.Close()
			return fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	sd.port = port
	sd.logger.Debug("Serial port opened", zap.Int("baud_rate", sd.config.BaudRate))
	return nil
}

// Write sends all of data and waits for the output buffer to drain
func (sd *SerialDevice) Write(ctx context.Context, data []byte) error {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	if sd.port == nil {
		return fmt.Errorf("serial port not open")
	}

	for written := 0; written < len(data); {
		n, err := sd.port.Write(data[written:])
		if err != nil {
			return fmt.Errorf("failed to write to serial port after %d of %d bytes: %w", written, len(data), err)
		}
		if n == 0 {
			return fmt.Errorf("incomplete write: wrote %d of %d bytes", written, len(data))
		}
		written += n
	}

	if err := sd.port.Drain(); err != nil {
		return fmt.Errorf("failed to drain serial port: %w", err)
	}
	return nil
}

// Close closes the serial port
func (sd *SerialDevice) Close() error {
	sd.mutex.Lock()
	defer sd.mutex.Unlock()

	if sd.port == nil {
		return nil
	}
	err := sd.port.Close()
	sd.port = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}
