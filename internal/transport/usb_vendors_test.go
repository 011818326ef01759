package transport

import (
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
)

func TestIdentifyUSB(t *testing.T) {
	tests := []struct {
		name    string
		vendor  gousb.ID
		product gousb.ID
		wantV   string
		wantM   string
		known   bool
	}{
		{"epson model", 0x04B8, 0x0202, "Seiko Epson Corporation", "TM-T88IV", true},
		{"star model", 0x0519, 0x0003, "Star Micronics Co., Ltd.", "TSP654II", true},
		{"known vendor unknown product", 0x1504, 0x9999, "BIXOLON Co., Ltd.", "", true},
		{"unknown vendor", 0x1234, 0x0001, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor, model, known := identifyUSB(tt.vendor, tt.product)
			assert.Equal(t, tt.wantV, vendor)
			assert.Equal(t, tt.wantM, model)
			assert.Equal(t, tt.known, known)
		})
	}
}
