// internal/transport/usb.go
package transport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// USBConfig represents a USB printer-class device
type USBConfig struct {
	VendorID     string `json:"vendor_id"`
	ProductID    string `json:"product_id"`
	Endpoint     int    `json:"endpoint"`
	SerialNumber string `json:"serial_number"`
}

// USBDevice writes jobs to the bulk OUT endpoint of a USB printer
type USBDevice struct {
	config   *USBConfig
	ctx      *gousb.Context
	device   *gousb.Device
	release  func()
	outEndpt *gousb.OutEndpoint
	logger   *zap.Logger
	mutex    sync.Mutex
}

// NewUSBDevice creates a USB device
func NewUSBDevice(config *USBConfig, logger *zap.Logger) *USBDevice {
	return &USBDevice{
		config: config,
		logger: logger.With(
			zap.String("device", "usb"),
			zap.String("vendor_id", config.VendorID),
			zap.String("product_id", config.ProductID),
		),
	}
}

// Open claims the default interface and its OUT endpoint
func (ud *USBDevice) Open(ctx context.Context) error {
	ud.mutex.Lock()
	defer ud.mutex.Unlock()

	if ud.outEndpt != nil {
		return nil
	}

	vendorID, err := parseHexID(ud.config.VendorID)
	if err != nil {
		return fmt.Errorf("invalid vendor ID: %w", err)
	}
	productID, err := parseHexID(ud.config.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	ud.ctx = gousb.NewContext()
	device, err := ud.findAndOpenDevice(vendorID, productID)
	if err != nil {
		ud.closeLocked()
		return err
	}
	ud.device = device

	// the kernel usblp driver holds printers until detached
	if err := device.SetAutoDetach(true); err != nil {
		ud.logger.Warn("Failed to enable kernel driver auto-detach", zap.Error(err))
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		ud.closeLocked()
		return fmt.Errorf("failed to claim interface: %w", err)
	}
	ud.release = done

	outEndpt, err := intf.OutEndpoint(ud.config.Endpoint)
	if err != nil {
		ud.closeLocked()
		return fmt.Errorf("failed to get out endpoint %d: %w", ud.config.Endpoint, err)
	}
	ud.outEndpt = outEndpt

	ud.logger.Debug("USB device opened")
	return nil
}

// Write sends data through the OUT endpoint
func (ud *USBDevice) Write(ctx context.Context, data []byte) error {
	ud.mutex.Lock()
	defer ud.mutex.Unlock()

	if ud.outEndpt == nil {
		return fmt.Errorf("USB device not open")
	}

	n, err := ud.outEndpt.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write to USB device after %d of %d bytes: %w", n, len(data), err)
	}
	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}
	return nil
}

// Close releases the interface, the device and the libusb context
func (ud *USBDevice) Close() error {
	ud.mutex.Lock()
	defer ud.mutex.Unlock()
	return ud.closeLocked()
}

func (ud *USBDevice) closeLocked() error {
	var firstErr error
	if ud.release != nil {
		ud.release()
		ud.release = nil
	}
	if ud.device != nil {
		if err := ud.device.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		ud.device = nil
	}
	if ud.ctx != nil {
		if err := ud.ctx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		ud.ctx = nil
	}
	ud.outEndpt = nil
	return firstErr
}

func (ud *USBDevice) findAndOpenDevice(vendorID, productID gousb.ID) (*gousb.Device, error) {
	devices, err := ud.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == vendorID && desc.Product == productID
	})
	if err != nil && len(devices) == 0 {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	var match *gousb.Device
	for _, d := range devices {
		if match == nil && ud.serialMatches(d) {
			match = d
			continue
		}
		d.Close()
	}
	if match == nil {
		return nil, fmt.Errorf("USB device not found (VID: %04X, PID: %04X)", uint16(vendorID), uint16(productID))
	}
	return match, nil
}

func (ud *USBDevice) serialMatches(d *gousb.Device) bool {
	if ud.config.SerialNumber == "" {
		return true
	}
	sn, err := d.SerialNumber()
	return err == nil && sn == ud.config.SerialNumber
}

// parseHexID parses hex ID string (0x1234 or 1234)
func parseHexID(hexStr string) (gousb.ID, error) {
	hexStr = strings.TrimPrefix(strings.ToLower(hexStr), "0x")
	id, err := strconv.ParseUint(hexStr, 16, 16)
	if err != nil {
		return 0, err
	}
	return gousb.ID(id), nil
}
