package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentSplitsByScript(t *testing.T) {
	spans := Segment("Total ยอดรวม 100")

	assert.Equal(t, []Span{
		{Script: ScriptLatin, Text: "Total "},
		{Script: ScriptThai, Text: "ยอดรวม"},
		{Script: ScriptLatin, Text: " 100"},
	}, spans)
}

func TestSegmentEmpty(t *testing.T) {
	assert.Empty(t, Segment(""))
}

func TestClustersKeepMarksWithBase(t *testing.T) {
	// ก + sara ii + mai ek
	assert.Equal(t, []string{"กี่"}, Clusters("กี่"))
	assert.Equal(t, []string{"ส", "วั", "ส", "ดี"}, Clusters("สวัสดี"))
	assert.Equal(t, []string{"a", "b", " ", "c"}, Clusters("ab c"))
}

func TestIsASCII(t *testing.T) {
	assert.True(t, IsASCII("Cashier: Ann 12.50"))
	assert.True(t, IsASCII(""))
	assert.False(t, IsASCII("ลูกค้า"))
	assert.False(t, IsASCII("café"))
	assert.False(t, IsASCII("tab\there"))
}
