// internal/transport/device.go
package transport

import "context"

// Device is a printer endpoint. A device is opened for one job, written once
// and closed again; the transport guarantees no two jobs overlap.
type Device interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, data []byte) error
	Close() error
}

// DeviceType names a device implementation in configuration
type DeviceType string

const (
	DeviceTypeSerial DeviceType = "serial"
	DeviceTypeUSB    DeviceType = "usb"
	DeviceTypeTCP    DeviceType = "tcp"
	DeviceTypeFile   DeviceType = "file"
)
