// internal/layout/shaper.go
package layout

import (
	"image"
	"image/color"
	"image/draw"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Typeface pairs the faces used for Latin and Thai spans at one size.
// Thai falls back to Latin when nil.
type Typeface struct {
	Latin font.Face
	Thai  font.Face
	Bold  bool
}

func (tf Typeface) face(s Script) font.Face {
	if s == ScriptThai && tf.Thai != nil {
		return tf.Thai
	}
	return tf.Latin
}

// Metrics returns the ascent and line height covering both scripts
func (tf Typeface) Metrics() (ascent, height int) {
	for _, f := range []font.Face{tf.Latin, tf.Thai} {
		if f == nil {
			continue
		}
		m := f.Metrics()
		if a := m.Ascent.Ceil(); a > ascent {
			ascent = a
		}
		if h := (m.Ascent + m.Descent).Ceil(); h > height {
			height = h
		}
	}
	return ascent, height
}

// shaper measures and draws text span by span: the text is segmented into
// same-script runs and each run is shaped with its own face. Marks take no
// advance and are placed over their base, so codepoint order is preserved.
type shaper struct {
	tf Typeface
}

// Measure implements Measurer in pixels
func (s shaper) Measure(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	return s.measure(s.tf.face(scriptOf(r)), cluster)
}

func (s shaper) measure(face font.Face, cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	adv, ok := face.GlyphAdvance(r)
	if !ok {
		return 0
	}
	w := adv.Ceil()
	if s.tf.Bold && w > 0 {
		w++
	}
	return w
}

// Width returns the advance of text in pixels
func (s shaper) Width(text string) int {
	w := 0
	for _, span := range Segment(text) {
		face := s.tf.face(span.Script)
		for _, cluster := range Clusters(span.Text) {
			w += s.measure(face, cluster)
		}
	}
	return w
}

// Draw renders text with its left edge at x and the baseline at y
func (s shaper) Draw(dst *image.Gray, x, y int, text string) {
	pen := fixed.I(x)
	baseline := fixed.I(y)
	for _, span := range Segment(text) {
		face := s.tf.face(span.Script)
		for _, cluster := range Clusters(span.Text) {
			s.drawCluster(dst, face, pen, baseline, cluster)
			pen += fixed.I(s.measure(face, cluster))
		}
	}
}

func (s shaper) drawCluster(dst *image.Gray, face font.Face, pen, baseline fixed.Int26_6, cluster string) {
	base, size := utf8.DecodeRuneInString(cluster)
	baseAdv, _ := face.GlyphAdvance(base)
	s.glyph(dst, face, fixed.Point26_6{X: pen, Y: baseline}, base)

	hasUpper := isUpperVowel(base)
	raise := face.Metrics().Height / 6

	for _, mark := range cluster[size:] {
		markAdv, _ := face.GlyphAdvance(mark)
		dot := fixed.Point26_6{X: pen + baseAdv, Y: baseline}
		if markAdv > 0 {
			// spacing mark glyph: center it over the base instead
			dot.X = pen + (baseAdv-markAdv)/2
		}
		if isToneMark(mark) && hasUpper {
			dot.Y -= raise
		}
		if isUpperVowel(mark) {
			hasUpper = true
		}
		s.glyph(dst, face, dot, mark)
	}
}

func (s shaper) glyph(dst *image.Gray, face font.Face, dot fixed.Point26_6, r rune) {
	dr, mask, maskp, _, ok := face.Glyph(dot, r)
	if !ok {
		return
	}
	black := image.NewUniform(color.Black)
	draw.DrawMask(dst, dr, black, image.Point{}, mask, maskp, draw.Over)
	if s.tf.Bold {
		draw.DrawMask(dst, dr.Add(image.Pt(1, 0)), black, image.Point{}, mask, maskp, draw.Over)
	}
}
