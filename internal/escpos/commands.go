// internal/escpos/commands.go
package escpos

// ESC_POS_COMMANDS holds the opcodes emitted by the encoder.
// Operands that vary per call are appended by the encoder.
var ESC_POS_COMMANDS = struct {
	INITIALIZE []byte

	TEXT_BOLD_ON  []byte
	TEXT_BOLD_OFF []byte

	TEXT_SIZE_NORMAL        []byte
	TEXT_SIZE_DOUBLE_HEIGHT []byte
	TEXT_SIZE_DOUBLE_WIDTH  []byte
	TEXT_SIZE_DOUBLE_BOTH   []byte

	ALIGN_LEFT   []byte
	ALIGN_CENTER []byte
	ALIGN_RIGHT  []byte

	SELECT_CHARSET []byte // + code page number

	LINE_FEED  []byte
	FEED_LINES []byte // + line count byte

	RASTER_IMAGE []byte // + m xL xH yL yH d1...dk

	CUT_FULL    []byte
	CUT_PARTIAL []byte

	DRAWER_KICK []byte // + m t1 t2
}{
	INITIALIZE: []byte{0x1B, 0x40}, // ESC @

	TEXT_BOLD_ON:  []byte{0x1B, 0x45, 0x01}, // ESC E 1
	TEXT_BOLD_OFF: []byte{0x1B, 0x45, 0x00}, // ESC E 0

	TEXT_SIZE_NORMAL:        []byte{0x1D, 0x21, 0x00}, // GS ! 0
	TEXT_SIZE_DOUBLE_HEIGHT: []byte{0x1D, 0x21, 0x01}, // GS ! 1
	TEXT_SIZE_DOUBLE_WIDTH:  []byte{0x1D, 0x21, 0x10}, // GS ! 16
	TEXT_SIZE_DOUBLE_BOTH:   []byte{0x1D, 0x21, 0x11}, // GS ! 17

	ALIGN_LEFT:   []byte{0x1B, 0x61, 0x00}, // ESC a 0
	ALIGN_CENTER: []byte{0x1B, 0x61, 0x01}, // ESC a 1
	ALIGN_RIGHT:  []byte{0x1B, 0x61, 0x02}, // ESC a 2

	SELECT_CHARSET: []byte{0x1B, 0x74}, // ESC t n

	LINE_FEED:  []byte{0x0A},       // LF
	FEED_LINES: []byte{0x1B, 0x64}, // ESC d n

	RASTER_IMAGE: []byte{0x1D, 0x76, 0x30}, // GS v 0

	CUT_FULL:    []byte{0x1D, 0x56, 0x00}, // GS V 0
	CUT_PARTIAL: []byte{0x1D, 0x56, 0x01}, // GS V 1

	DRAWER_KICK: []byte{0x1B, 0x70}, // ESC p m t1 t2
}
