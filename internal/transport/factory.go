// internal/transport/factory.go
package transport

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// CreateDevice builds a device from its configured type and options
func CreateDevice(kind DeviceType, options map[string]interface{}, logger *zap.Logger) (Device, error) {
	switch kind {
	case DeviceTypeSerial:
		return createSerialDevice(options, logger)
	case DeviceTypeUSB:
		return createUSBDevice(options, logger)
	case DeviceTypeTCP:
		return createTCPDevice(options, logger)
	case DeviceTypeFile:
		path, ok := stringOption(options, "path")
		if !ok {
			return nil, fmt.Errorf("file path is required")
		}
		return NewFileDevice(path, logger), nil
	default:
		return nil, fmt.Errorf("unsupported device type: %q", kind)
	}
}

func createSerialDevice(options map[string]interface{}, logger *zap.Logger) (Device, error) {
	config := &SerialConfig{
		BaudRate: 9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
		Timeout:  5 * time.Second,
	}

	port, ok := stringOption(options, "port")
	if !ok {
		return nil, fmt.Errorf("serial port is required")
	}
	config.Port = port

	if err := intOption(options, "baud_rate", &config.BaudRate); err != nil {
		return nil, err
	}
	if err := intOption(options, "data_bits", &config.DataBits); err != nil {
		return nil, err
	}
	if err := intOption(options, "stop_bits", &config.StopBits); err != nil {
		return nil, err
	}
	if parity, ok := stringOption(options, "parity"); ok {
		config.Parity = parity
	}
	if err := durationOption(options, "timeout", &config.Timeout); err != nil {
		return nil, err
	}

	return NewSerialDevice(config, logger), nil
}

func createUSBDevice(options map[string]interface{}, logger *zap.Logger) (Device, error) {
	config := &USBConfig{Endpoint: 1}

	vendorID, ok := stringOption(options, "vendor_id")
	if !ok {
		return nil, fmt.Errorf("USB vendor_id is required")
	}
	productID, ok := stringOption(options, "product_id")
	if !ok {
		return nil, fmt.Errorf("USB product_id is required")
	}
	config.VendorID, config.ProductID = vendorID, productID

	if _, err := parseHexID(vendorID); err != nil {
		return nil, fmt.Errorf("invalid USB vendor_id %q: %w", vendorID, err)
	}
	if _, err := parseHexID(productID); err != nil {
		return nil, fmt.Errorf("invalid USB product_id %q: %w", productID, err)
	}
	if err := intOption(options, "endpoint", &config.Endpoint); err != nil {
		return nil, err
	}
	if sn, ok := stringOption(options, "serial_number"); ok {
		config.SerialNumber = sn
	}

	return NewUSBDevice(config, logger), nil
}

func createTCPDevice(options map[string]interface{}, logger *zap.Logger) (Device, error) {
	config := &TCPConfig{
		Port:         9100,
		Timeout:      5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	host, ok := stringOption(options, "host")
	if !ok {
		return nil, fmt.Errorf("TCP host is required")
	}
	config.Host = host

	if err := intOption(options, "port", &config.Port); err != nil {
		return nil, err
	}
	if err := durationOption(options, "timeout", &config.Timeout); err != nil {
		return nil, err
	}
	if err := durationOption(options, "write_timeout", &config.WriteTimeout); err != nil {
		return nil, err
	}

	return NewTCPDevice(config, logger), nil
}

func stringOption(options map[string]interface{}, key string) (string, bool) {
	s, ok := options[key].(string)
	return s, ok && s != ""
}

// intOption accepts the numeric shapes produced by YAML, JSON and env decoding
func intOption(options map[string]interface{}, key string, dst *int) error {
	raw, ok := options[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case float64:
		*dst = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("option %s: %w", key, err)
		}
		*dst = n
	default:
		return fmt.Errorf("option %s: unsupported type %T", key, raw)
	}
	return nil
}

func durationOption(options map[string]interface{}, key string, dst *time.Duration) error {
	raw, ok := options[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case time.Duration:
		*dst = v
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("option %s: %w", key, err)
		}
		*dst = d
	default:
		return fmt.Errorf("option %s: unsupported type %T", key, raw)
	}
	return nil
}
