// internal/transport/discover.go
package transport

import (
	"fmt"

	"github.com/google/gousb"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// DiscoveredPort is a local port that could back a queue
type DiscoveredPort struct {
	Type    DeviceType             `json:"type"`
	Address string                 `json:"address"`
	Vendor  string                 `json:"vendor,omitempty"`
	Model   string                 `json:"model,omitempty"`
	Options map[string]interface{} `json:"options"`
}

// Discover lists serial ports and attached USB printers. A USB device
// qualifies when it reports the printer class or comes from a known
// receipt printer vendor. A failing bus is logged and skipped.
func Discover(logger *zap.Logger) []DiscoveredPort {
	var found []DiscoveredPort

	ports, err := serial.GetPortsList()
	if err != nil {
		logger.Warn("Serial port enumeration failed", zap.Error(err))
	}
	for _, p := range ports {
		found = append(found, DiscoveredPort{
			Type:    DeviceTypeSerial,
			Address: p,
			Options: map[string]interface{}{"port": p},
		})
	}

	found = append(found, discoverUSB(logger)...)
	return found
}

func discoverUSB(logger *zap.Logger) (found []DiscoveredPort) {
	// libusb can panic when unavailable
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("USB enumeration unavailable", zap.Any("panic", r))
		}
	}()

	ctx := gousb.NewContext()
	defer ctx.Close()

	// Descriptors are inspected without opening any device
	_, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		vendor, model, known := identifyUSB(desc.Vendor, desc.Product)
		if known || isPrinterClass(desc) {
			found = append(found, DiscoveredPort{
				Type:    DeviceTypeUSB,
				Address: fmt.Sprintf("bus %d addr %d", desc.Bus, desc.Address),
				Vendor:  vendor,
				Model:   model,
				Options: map[string]interface{}{
					"vendor_id":  fmt.Sprintf("0x%04X", uint16(desc.Vendor)),
					"product_id": fmt.Sprintf("0x%04X", uint16(desc.Product)),
				},
			})
		}
		return false
	})
	if err != nil {
		logger.Warn("USB enumeration failed", zap.Error(err))
	}
	return found
}

func isPrinterClass(desc *gousb.DeviceDesc) bool {
	if desc.Class == gousb.ClassPrinter {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == gousb.ClassPrinter {
					return true
				}
			}
		}
	}
	return false
}
