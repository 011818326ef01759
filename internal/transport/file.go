// internal/transport/file.go
package transport

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// FileDevice writes jobs to a character device such as /dev/usb/lp0, or to
// a regular file when capturing output
type FileDevice struct {
	path   string
	file   *os.File
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewFileDevice creates a file device
func NewFileDevice(path string, logger *zap.Logger) *FileDevice {
	return &FileDevice{
		path:   path,
		logger: logger.With(zap.String("device", "file"), zap.String("path", path)),
	}
}

// Open opens the path for appending
func (fd *FileDevice) Open(ctx context.Context) error {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	if fd.file != nil {
		return nil
	}
	f, err := os.OpenFile(fd.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", fd.path, err)
	}
	fd.file = f
	return nil
}

// Write writes data in full
func (fd *FileDevice) Write(ctx context.Context, data []byte) error {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	if fd.file == nil {
		return fmt.Errorf("file %s not open", fd.path)
	}
	if n, err := fd.file.Write(data); err != nil {
		return fmt.Errorf("failed to write %s after %d of %d bytes: %w", fd.path, n, len(data), err)
	}
	return nil
}

// Close closes the file
func (fd *FileDevice) Close() error {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	if fd.file == nil {
		return nil
	}
	err := fd.file.Close()
	fd.file = nil
	return err
}
