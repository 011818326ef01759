package escpos

import (
	"bytes"
	"fmt"
	"io"

	"receipt-service/internal/printjob"
	"receipt-service/internal/raster"
)

// decoded is the result of parsing a stream produced by the encoder
type decoded struct {
	initialized bool
	codePage    int
	ops         []printjob.Op
}

// decodeStream is the inverse of Encoder.Encode for the opcodes it emits
func decodeStream(data []byte) (*decoded, error) {
	out := &decoded{codePage: -1}
	r := bytes.NewReader(data)
	style := struct {
		align printjob.Align
		bold  bool
		size  printjob.Size
	}{}

	next := func() (byte, error) { return r.ReadByte() }
	need := func(n int) ([]byte, error) {
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("truncated stream: %w", err)
		}
		return b, nil
	}

	var text []byte
	for r.Len() > 0 {
		b, _ := next()
		switch b {
		case 0x1B:
			cmd, err := next()
			if err != nil {
				return nil, err
			}
			if cmd == 0x40 {
				out.initialized = true
				continue
			}
			arg, err := need(1)
			if err != nil {
				return nil, err
			}
			switch cmd {
			case 0x74:
				out.codePage = int(arg[0])
			case 0x61:
				style.align = printjob.Align(arg[0])
			case 0x45:
				style.bold = arg[0] == 1
			case 0x64:
				out.ops = append(out.ops, printjob.Feed{Lines: int(arg[0])})
			case 0x70:
				rest, err := need(2)
				if err != nil {
					return nil, err
				}
				pin := 2
				if arg[0] == 1 {
					pin = 5
				}
				out.ops = append(out.ops, printjob.DrawerKick{Pin: pin, OnMs: int(rest[0]) * 2, OffMs: int(rest[1]) * 2})
			default:
				return nil, fmt.Errorf("unknown ESC %#x", cmd)
			}
		case 0x1D:
			cmd, err := next()
			if err != nil {
				return nil, err
			}
			switch cmd {
			case 0x21:
				arg, err := need(1)
				if err != nil {
					return nil, err
				}
				switch arg[0] {
				case 0x01:
					style.size = printjob.SizeDoubleHeight
				case 0x10:
					style.size = printjob.SizeDoubleWidth
				case 0x11:
					style.size = printjob.SizeDouble
				default:
					style.size = printjob.SizeNormal
				}
			case 0x56:
				arg, err := need(1)
				if err != nil {
					return nil, err
				}
				out.ops = append(out.ops, printjob.Cut{Partial: arg[0] == 1})
			case 0x76:
				hdr, err := need(6)
				if err != nil {
					return nil, err
				}
				if hdr[0] != 0x30 || hdr[1] != 0x00 {
					return nil, fmt.Errorf("unexpected raster mode %#x %#x", hdr[0], hdr[1])
				}
				xBytes := int(hdr[2]) | int(hdr[3])<<8
				height := int(hdr[4]) | int(hdr[5])<<8
				payload, err := need(xBytes * height)
				if err != nil {
					return nil, err
				}
				bm := raster.New(xBytes*8, height)
				copy(bm.Data, payload)
				out.ops = append(out.ops, printjob.Raster{Bitmap: bm})
			default:
				return nil, fmt.Errorf("unknown GS %#x", cmd)
			}
		case 0x0A:
			out.ops = append(out.ops, printjob.Text{Text: string(text), Align: style.align, Bold: style.bold, Size: style.size})
			text = nil
		default:
			text = append(text, b)
		}
	}
	return out, nil
}
