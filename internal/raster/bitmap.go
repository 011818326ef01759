// internal/raster/bitmap.go
package raster

import (
	"fmt"
	"image"
	"image/color"
)

const (
	// MaxWidth is the widest raster line the supported printers accept, in dots
	MaxWidth = 1024
	// MaxBlockHeight is the tallest single raster command the printers accept
	MaxBlockHeight = 4095
	// Threshold is the luminance below which a pixel prints black
	Threshold = 128
)

// Bitmap is a 1-bit image packed most-significant bit first.
// Each row occupies Stride bytes; a set bit prints a dot.
type Bitmap struct {
	Width  int
	Height int
	Stride int
	Data   []byte
}

// New allocates a blank (white) bitmap
func New(width, height int) *Bitmap {
	stride := (width + 7) / 8
	return &Bitmap{
		Width:  width,
		Height: height,
		Stride: stride,
		Data:   make([]byte, stride*height),
	}
}

// Set marks or clears the dot at x, y
func (b *Bitmap) Set(x, y int, black bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	idx := y*b.Stride + x/8
	mask := byte(0x80) >> uint(x%8)
	if black {
		b.Data[idx] |= mask
	} else {
		b.Data[idx] &^= mask
	}
}

// At reports whether the dot at x, y is black
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Data[y*b.Stride+x/8]&(byte(0x80)>>uint(x%8)) != 0
}

// Row returns the packed bytes of row y
func (b *Bitmap) Row(y int) []byte {
	return b.Data[y*b.Stride : (y+1)*b.Stride]
}

// FromImage converts any image to 1-bit by thresholding luminance.
// No dithering is applied. Fully transparent pixels count as white.
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	bm := New(bounds.Dx(), bounds.Dy())

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < bm.Height; y++ {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+bm.Width]
			for x, lum := range row {
				if lum < Threshold {
					bm.Set(x, y, true)
				}
			}
		}
		return bm
	}

	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			_, _, _, a := c.RGBA()
			if a == 0 {
				continue
			}
			lum := color.GrayModel.Convert(c).(color.Gray).Y
			if lum < Threshold {
				bm.Set(x, y, true)
			}
		}
	}
	return bm
}

// Image renders the bitmap back to grayscale, black dots at 0
func (b *Bitmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				img.Pix[y*img.Stride+x] = 0
			}
		}
	}
	return img
}

// Pad extends the height to the next multiple of quantum with white rows
func (b *Bitmap) Pad(quantum int) *Bitmap {
	if quantum <= 1 || b.Height%quantum == 0 {
		return b
	}
	height := (b.Height/quantum + 1) * quantum
	out := New(b.Width, height)
	copy(out.Data, b.Data)
	return out
}

// Split cuts the bitmap into consecutive blocks no taller than maxHeight.
// Rows are copied so the blocks never share storage with the source.
func (b *Bitmap) Split(maxHeight int) ([]*Bitmap, error) {
	if maxHeight <= 0 {
		return nil, fmt.Errorf("invalid block height %d", maxHeight)
	}

	var blocks []*Bitmap
	for top := 0; top < b.Height; top += maxHeight {
		h := maxHeight
		if top+h > b.Height {
			h = b.Height - top
		}
		block := New(b.Width, h)
		copy(block.Data, b.Data[top*b.Stride:(top+h)*b.Stride])
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// Stack joins bitmaps of equal width vertically
func Stack(parts ...*Bitmap) (*Bitmap, error) {
	if len(parts) == 0 {
		return New(0, 0), nil
	}
	width := parts[0].Width
	height := 0
	for _, p := range parts {
		if p.Width != width {
			return nil, fmt.Errorf("width mismatch: %d vs %d", p.Width, width)
		}
		height += p.Height
	}
	out := New(width, height)
	offset := 0
	for _, p := range parts {
		offset += copy(out.Data[offset:], p.Data)
	}
	return out, nil
}

// Equal reports whether two bitmaps hold the same dots
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b.Width != other.Width || b.Height != other.Height {
		return false
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) != other.At(x, y) {
				return false
			}
		}
	}
	return true
}
