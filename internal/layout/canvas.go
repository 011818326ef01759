// internal/layout/canvas.go
package layout

import (
	"image"

	"receipt-service/internal/raster"
)

// canvas accumulates grayscale strips until they are flushed as raster blocks
type canvas struct {
	width  int
	strips []*image.Gray
	height int
}

func newCanvas(width int) *canvas {
	return &canvas{width: width}
}

// strip appends a white strip of height h and returns it for drawing
func (c *canvas) strip(h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.width, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	c.strips = append(c.strips, img)
	c.height += h
	return img
}

// gap adds blank rows, but never at the start of a block
func (c *canvas) gap(h int) {
	if h > 0 && len(c.strips) > 0 {
		c.strip(h)
	}
}

func (c *canvas) empty() bool {
	return len(c.strips) == 0
}

// bitmap thresholds every strip and stacks them
func (c *canvas) bitmap() (*raster.Bitmap, error) {
	parts := make([]*raster.Bitmap, 0, len(c.strips))
	for _, s := range c.strips {
		parts = append(parts, raster.FromImage(s))
	}
	return raster.Stack(parts...)
}

func (c *canvas) reset() {
	c.strips = nil
	c.height = 0
}

// dashedRule draws a horizontal dashed line of the given thickness
func dashedRule(dst *image.Gray, x0, x1, y, thickness int) {
	const dash, space = 6, 4
	for x := x0; x < x1; x += dash + space {
		end := x + dash
		if end > x1 {
			end = x1
		}
		for yy := y; yy < y+thickness; yy++ {
			for xx := x; xx < end; xx++ {
				dst.Pix[yy*dst.Stride+xx] = 0
			}
		}
	}
}
