// internal/escpos/encoder.go
package escpos

import (
	"bytes"
	"fmt"

	"receipt-service/internal/printjob"
	"receipt-service/internal/raster"
)

// Encoder serializes print jobs into an ESC/POS byte stream
type Encoder struct {
	codePage CodePage
}

// NewEncoder creates an encoder for the named code page
func NewEncoder(codePage string) (*Encoder, error) {
	cp, err := LookupCodePage(codePage)
	if err != nil {
		return nil, err
	}
	return &Encoder{codePage: cp}, nil
}

// CodePage returns the code page used for text blocks
func (e *Encoder) CodePage() CodePage {
	return e.codePage
}

// Encode emits the reset sequence, the code page selection and then every
// operation of the job in order. A drawer kick inside a receipt job is
// rejected; use EncodeDrawerKick for it.
func (e *Encoder) Encode(job *printjob.Job) ([]byte, error) {
	if job == nil || job.Len() == 0 {
		return nil, fmt.Errorf("empty print job")
	}

	var buf bytes.Buffer
	buf.Write(ESC_POS_COMMANDS.INITIALIZE)
	buf.Write(ESC_POS_COMMANDS.SELECT_CHARSET)
	buf.WriteByte(e.codePage.Number)

	ops := job.Ops()
	for i, op := range ops {
		switch o := op.(type) {
		case printjob.Raster:
			if err := writeRaster(&buf, o.Bitmap); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
		case printjob.Text:
			if err := e.writeText(&buf, o); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
		case printjob.Feed:
			writeFeed(&buf, o.Lines)
		case printjob.Cut:
			if i != len(ops)-1 {
				return nil, fmt.Errorf("op %d: cut must be the last operation", i)
			}
			if o.Partial {
				buf.Write(ESC_POS_COMMANDS.CUT_PARTIAL)
			} else {
				buf.Write(ESC_POS_COMMANDS.CUT_FULL)
			}
		case printjob.DrawerKick:
			return nil, fmt.Errorf("op %d: drawer kick cannot be combined with a print job", i)
		default:
			return nil, fmt.Errorf("op %d: unsupported operation %T", i, op)
		}
	}

	return buf.Bytes(), nil
}

// EncodeDrawerKick builds the five byte ESC p pulse.
// Pins 2 and 5 (or the raw operands 0 and 1) are accepted; durations are in
// milliseconds and converted to the 2 ms device unit, clamped to 1..255.
func EncodeDrawerKick(kick printjob.DrawerKick) ([]byte, error) {
	var m byte
	switch kick.Pin {
	case 0, 2:
		m = 0x00
	case 1, 5:
		m = 0x01
	default:
		return nil, fmt.Errorf("invalid drawer pin %d: must be 2 or 5", kick.Pin)
	}

	out := make([]byte, 0, 5)
	out = append(out, ESC_POS_COMMANDS.DRAWER_KICK...)
	out = append(out, m, pulseUnits(kick.OnMs), pulseUnits(kick.OffMs))
	return out, nil
}

func pulseUnits(ms int) byte {
	units := ms / 2
	if units < 1 {
		return 1
	}
	if units > 255 {
		return 255
	}
	return byte(units)
}

func (e *Encoder) writeText(buf *bytes.Buffer, t printjob.Text) error {
	data, err := e.codePage.EncodeText(t.Text)
	if err != nil {
		return err
	}

	switch t.Align {
	case printjob.AlignCenter:
		buf.Write(ESC_POS_COMMANDS.ALIGN_CENTER)
	case printjob.AlignRight:
		buf.Write(ESC_POS_COMMANDS.ALIGN_RIGHT)
	default:
		buf.Write(ESC_POS_COMMANDS.ALIGN_LEFT)
	}
	if t.Bold {
		buf.Write(ESC_POS_COMMANDS.TEXT_BOLD_ON)
	}
	switch t.Size {
	case printjob.SizeDoubleHeight:
		buf.Write(ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_HEIGHT)
	case printjob.SizeDoubleWidth:
		buf.Write(ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_WIDTH)
	case printjob.SizeDouble:
		buf.Write(ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_BOTH)
	}

	buf.Write(data)
	buf.Write(ESC_POS_COMMANDS.LINE_FEED)

	// restore defaults so following raster blocks start at the left margin
	if t.Size != printjob.SizeNormal {
		buf.Write(ESC_POS_COMMANDS.TEXT_SIZE_NORMAL)
	}
	if t.Bold {
		buf.Write(ESC_POS_COMMANDS.TEXT_BOLD_OFF)
	}
	if t.Align != printjob.AlignLeft {
		buf.Write(ESC_POS_COMMANDS.ALIGN_LEFT)
	}
	return nil
}

func writeFeed(buf *bytes.Buffer, lines int) {
	for lines > 0 {
		n := lines
		if n > 255 {
			n = 255
		}
		buf.Write(ESC_POS_COMMANDS.FEED_LINES)
		buf.WriteByte(byte(n))
		lines -= n
	}
}

// writeRaster emits GS v 0 with 16-bit little-endian width (bytes) and height (dots)
func writeRaster(buf *bytes.Buffer, bm *raster.Bitmap) error {
	if bm == nil {
		return fmt.Errorf("nil raster block")
	}
	if bm.Width <= 0 || bm.Height <= 0 {
		return fmt.Errorf("empty raster block %dx%d", bm.Width, bm.Height)
	}
	if bm.Width > raster.MaxWidth {
		return fmt.Errorf("raster width %d exceeds device limit %d", bm.Width, raster.MaxWidth)
	}
	if bm.Height > raster.MaxBlockHeight {
		return fmt.Errorf("raster height %d exceeds device limit %d", bm.Height, raster.MaxBlockHeight)
	}

	xBytes := bm.Stride
	buf.Write(ESC_POS_COMMANDS.RASTER_IMAGE)
	buf.WriteByte(0x00)
	buf.WriteByte(byte(xBytes & 0xFF))
	buf.WriteByte(byte(xBytes >> 8))
	buf.WriteByte(byte(bm.Height & 0xFF))
	buf.WriteByte(byte(bm.Height >> 8))
	for y := 0; y < bm.Height; y++ {
		buf.Write(bm.Row(y))
	}
	return nil
}
