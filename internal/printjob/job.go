// internal/printjob/job.go
package printjob

import (
	"github.com/google/uuid"

	"receipt-service/internal/raster"
)

// Op is one protocol operation. The set is closed: Raster, Text, Feed, Cut and DrawerKick.
type Op interface {
	op()
}

// Align selects text alignment for a text block
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Size selects the character magnification of a text block
type Size int

const (
	SizeNormal Size = iota
	SizeDoubleHeight
	SizeDoubleWidth
	SizeDouble
)

// Raster is a block of 1-bit image data sent as one command
type Raster struct {
	Bitmap *raster.Bitmap
}

// Text is a line printed with the printer's built-in font
type Text struct {
	Text  string
	Align Align
	Bold  bool
	Size  Size
}

// Feed advances the paper by Lines text lines
type Feed struct {
	Lines int
}

// Cut severs the paper
type Cut struct {
	Partial bool
}

// DrawerKick pulses the cash drawer solenoid
type DrawerKick struct {
	Pin   int
	OnMs  int
	OffMs int
}

func (Raster) op()     {}
func (Text) op()       {}
func (Feed) op()       {}
func (Cut) op()        {}
func (DrawerKick) op() {}

// Job is an ordered, immutable list of operations built for one request
type Job struct {
	ID  uuid.UUID
	ops []Op
}

// New builds a job from ops. The slice is copied.
func New(ops ...Op) *Job {
	copied := make([]Op, len(ops))
	copy(copied, ops)
	return &Job{ID: uuid.New(), ops: copied}
}

// Ops returns a copy of the operations in order
func (j *Job) Ops() []Op {
	out := make([]Op, len(j.ops))
	copy(out, j.ops)
	return out
}

// Len returns the number of operations
func (j *Job) Len() int {
	return len(j.ops)
}

// Rasters returns the raster blocks of the job in order
func (j *Job) Rasters() []*raster.Bitmap {
	var out []*raster.Bitmap
	for _, op := range j.ops {
		if r, ok := op.(Raster); ok {
			out = append(out, r.Bitmap)
		}
	}
	return out
}
