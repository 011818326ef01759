// internal/transport/usb_vendors.go
package transport

import "github.com/google/gousb"

type usbVendor struct {
	name   string
	models map[gousb.ID]string
}

// Receipt printer vendors. Several of them report a vendor-specific
// interface class instead of the printer class, so discovery matches on
// the vendor ID as well.
var knownUSBVendors = map[gousb.ID]usbVendor{
	0x04B8: {
		name: "Seiko Epson Corporation",
		models: map[gousb.ID]string{
			0x0202: "TM-T88IV",
			0x0203: "TM-T88V",
			0x0214: "TM-T88VI",
			0x0215: "TM-T20III",
			0x0216: "TM-T82III",
			0x0217: "TM-M30",
		},
	},
	0x0519: {
		name: "Star Micronics Co., Ltd.",
		models: map[gousb.ID]string{
			0x0001: "TSP143III",
			0x0002: "TSP143IIIU",
			0x0003: "TSP654II",
		},
	},
	0x1CBE: {
		name: "Citizen Systems Japan Co., Ltd.",
		models: map[gousb.ID]string{
			0x0001: "CT-S310II",
			0x0002: "CT-S4000",
		},
	},
	0x1504: {
		name: "BIXOLON Co., Ltd.",
		models: map[gousb.ID]string{
			0x0006: "SRP-330II",
			0x0007: "SRP-350III",
		},
	},
}

// identifyUSB returns the vendor and model names for a descriptor pair.
// Unknown products of a known vendor return an empty model.
func identifyUSB(vendor, product gousb.ID) (vendorName, model string, known bool) {
	v, ok := knownUSBVendors[vendor]
	if !ok {
		return "", "", false
	}
	return v.name, v.models[product], true
}
