// internal/layout/spec.go
package layout

import (
	"image"

	"receipt-service/internal/raster"
)

const (
	defaultRowQuantum = 8
	defaultMaxHeight  = 20000
)

// ImageSource hands decoded images to the engine by reference
type ImageSource interface {
	Image(path string) (image.Image, error)
}

// Labels are the fixed captions printed by the engine
type Labels struct {
	ItemColumn   string
	AmountColumn string
	ItemsTotal   string
	Discount     string
	Total        string
	Received     string
	Change       string
	Currency     string
}

// DefaultLabels returns the English captions
func DefaultLabels() Labels {
	return Labels{
		ItemColumn:   "Item",
		AmountColumn: "Amount",
		ItemsTotal:   "Items Total",
		Discount:     "Discount",
		Total:        "TOTAL",
		Received:     "Received",
		Change:       "Change",
	}
}

// RenderSpec is the resolved, read-only description of the target paper
type RenderSpec struct {
	PaperWidth     int
	Margin         int
	LineSpacing    int
	RowQuantum     int
	MaxBlockHeight int
	MaxHeight      int
	FeedLines      int

	// TextBlocks sends ASCII-only lines as printer font text
	TextBlocks  bool
	TextColumns int

	Body     Typeface
	Title    Typeface
	Emphasis Typeface

	Labels Labels
	Images ImageSource
}

// normalize validates the spec and fills derived defaults
func (s RenderSpec) normalize() (RenderSpec, error) {
	if s.PaperWidth <= 0 || s.PaperWidth > raster.MaxWidth {
		return s, renderErrorf("paper", "width %d outside 1..%d dots", s.PaperWidth, raster.MaxWidth)
	}
	if s.Margin < 0 || 2*s.Margin >= s.PaperWidth {
		return s, renderErrorf("paper", "margin %d leaves no printable width", s.Margin)
	}
	if s.Body.Latin == nil {
		return s, renderErrorf("font", "body font is not loaded")
	}
	if s.Title.Latin == nil {
		s.Title = s.Body
	}
	if s.Emphasis.Latin == nil {
		s.Emphasis = s.Title
	}
	if s.RowQuantum <= 0 {
		s.RowQuantum = defaultRowQuantum
	}
	if s.MaxBlockHeight <= 0 || s.MaxBlockHeight > raster.MaxBlockHeight {
		return s, renderErrorf("paper", "block height %d outside 1..%d", s.MaxBlockHeight, raster.MaxBlockHeight)
	}
	s.MaxBlockHeight -= s.MaxBlockHeight % s.RowQuantum
	if s.MaxBlockHeight == 0 {
		return s, renderErrorf("paper", "block height smaller than row quantum %d", s.RowQuantum)
	}
	if s.MaxHeight <= 0 {
		s.MaxHeight = defaultMaxHeight
	}
	if s.TextColumns <= 0 {
		s.TextColumns = s.PaperWidth / 12
	}
	if s.FeedLines < 0 {
		s.FeedLines = 0
	}
	return s, nil
}

func (s RenderSpec) contentWidth() int {
	return s.PaperWidth - 2*s.Margin
}
