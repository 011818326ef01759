// internal/layout/engine.go
package layout

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"

	"receipt-service/internal/model"
	"receipt-service/internal/printjob"
)

// Layout arranges a receipt on the paper described by spec and returns the
// job to encode: raster blocks, text blocks, a trailing feed and a full cut.
func Layout(content model.ReceiptContent, totals model.TransactionTotals, spec RenderSpec) (*printjob.Job, error) {
	spec, err := spec.normalize()
	if err != nil {
		return nil, err
	}

	e := &engine{spec: spec, canvas: newCanvas(spec.PaperWidth)}
	steps := []func() error{
		func() error { return e.image(content.HeaderImage) },
		func() error { return e.centered(content.HeaderTitle, spec.Title, printjob.SizeNormal) },
		func() error { return e.centered(content.HeaderDescription, spec.Body, printjob.SizeNormal) },
		func() error { return e.fields(content.HeaderFields) },
		func() error { return e.receiptTitle(content.ReceiptTitle) },
		func() error { return e.items(content.Items) },
		e.rule,
		func() error { return e.totals(totals) },
		func() error { return e.footerFields(content.FooterFields) },
		func() error { return e.centered(content.FooterLabel, spec.Title, printjob.SizeNormal) },
		func() error { return e.image(content.FooterImage) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
		e.canvas.gap(spec.LineSpacing)
	}

	if err := e.flush(); err != nil {
		return nil, err
	}
	e.ops = append(e.ops, printjob.Feed{Lines: spec.FeedLines}, printjob.Cut{})
	return printjob.New(e.ops...), nil
}

// LayoutFields prints a titled list of key/value lines, used for test pages
func LayoutFields(title string, fields model.Fields, spec RenderSpec) (*printjob.Job, error) {
	spec, err := spec.normalize()
	if err != nil {
		return nil, err
	}
	e := &engine{spec: spec, canvas: newCanvas(spec.PaperWidth)}
	steps := []func() error{
		func() error { return e.centered(title, spec.Title, printjob.SizeNormal) },
		e.rule,
		func() error { return e.fields(fields) },
		e.flush,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	e.ops = append(e.ops, printjob.Feed{Lines: spec.FeedLines}, printjob.Cut{})
	return printjob.New(e.ops...), nil
}

type engine struct {
	spec    RenderSpec
	canvas  *canvas
	ops     []printjob.Op
	emitted int
}

func (e *engine) textEligible(parts ...string) bool {
	if !e.spec.TextBlocks {
		return false
	}
	for _, p := range parts {
		if !IsASCII(p) {
			return false
		}
	}
	return true
}

func (e *engine) columnsFor(size printjob.Size) int {
	if size == printjob.SizeDoubleWidth || size == printjob.SizeDouble {
		return e.spec.TextColumns / 2
	}
	return e.spec.TextColumns
}

func (e *engine) quantize(h int) int {
	q := e.spec.RowQuantum
	return (h + q - 1) / q * q
}

// text flushes pending raster and appends a printer font line
func (e *engine) text(t printjob.Text) error {
	if err := e.flush(); err != nil {
		return err
	}
	e.ops = append(e.ops, t)
	return nil
}

// flush converts the pending canvas into raster blocks no taller than the device limit
func (e *engine) flush() error {
	if e.canvas.empty() {
		return nil
	}
	defer e.canvas.reset()

	bm, err := e.canvas.bitmap()
	if err != nil {
		return &RenderError{Resource: "canvas", Err: err}
	}
	bm = bm.Pad(e.spec.RowQuantum)

	e.emitted += bm.Height
	if e.emitted > e.spec.MaxHeight {
		return renderErrorf("paper", "receipt height %d exceeds limit %d dots", e.emitted, e.spec.MaxHeight)
	}

	blocks, err := bm.Split(e.spec.MaxBlockHeight)
	if err != nil {
		return &RenderError{Resource: "canvas", Err: err}
	}
	for _, b := range blocks {
		e.ops = append(e.ops, printjob.Raster{Bitmap: b})
	}
	return nil
}

// line appends one text row to the canvas and returns it with its baseline
func (e *engine) line(tf Typeface) (*image.Gray, int) {
	ascent, height := tf.Metrics()
	strip := e.canvas.strip(e.quantize(height + e.spec.LineSpacing))
	return strip, ascent + e.spec.LineSpacing/2
}

func (e *engine) centered(text string, tf Typeface, size printjob.Size) error {
	if text == "" {
		return nil
	}
	if e.textEligible(text) {
		for _, l := range Wrap(text, e.columnsFor(size), columns{}) {
			if err := e.text(printjob.Text{Text: l, Align: printjob.AlignCenter, Bold: tf.Bold, Size: size}); err != nil {
				return err
			}
		}
		return nil
	}

	sh := shaper{tf: tf}
	width := e.spec.contentWidth()
	for _, l := range Wrap(text, width, sh) {
		strip, baseline := e.line(tf)
		x := e.spec.Margin + (width-sh.Width(l))/2
		sh.Draw(strip, x, baseline, l)
	}
	return nil
}

// row prints left-aligned text with an optional right-aligned value on its
// first line. The left side wraps in the space the value leaves free.
func (e *engine) row(left, right string, tf Typeface, size printjob.Size) error {
	if left == "" && right == "" {
		return nil
	}

	textMode := e.textEligible(left, right)
	var m Measurer = shaper{tf: tf}
	width := e.spec.contentWidth()
	if textMode {
		m = columns{}
		width = e.columnsFor(size)
	}

	rightWidth := MeasureString(m, right)
	gap := MeasureString(m, " ")
	avail := width - rightWidth - gap

	type pair struct{ left, right string }
	var rows []pair
	switch {
	case right == "":
		for _, l := range Wrap(left, width, m) {
			rows = append(rows, pair{left: l})
		}
	case left == "" || avail < width/4:
		for _, l := range Wrap(left, width, m) {
			rows = append(rows, pair{left: l})
		}
		rows = append(rows, pair{right: right})
	default:
		for i, l := range Wrap(left, avail, m) {
			p := pair{left: l}
			if i == 0 {
				p.right = right
			}
			rows = append(rows, p)
		}
	}

	for _, r := range rows {
		if textMode {
			pad := width - len(r.left) - len(r.right)
			if pad < 0 {
				pad = 0
			}
			if err := e.text(printjob.Text{Text: r.left + strings.Repeat(" ", pad) + r.right, Bold: tf.Bold, Size: size}); err != nil {
				return err
			}
			continue
		}

		sh := m.(shaper)
		strip, baseline := e.line(tf)
		if r.left != "" {
			sh.Draw(strip, e.spec.Margin, baseline, r.left)
		}
		if r.right != "" {
			x := e.spec.Margin + width - sh.Width(r.right)
			sh.Draw(strip, x, baseline, r.right)
		}
	}
	return nil
}

func (e *engine) rule() error {
	if e.spec.TextBlocks {
		return e.text(printjob.Text{Text: strings.Repeat("-", e.spec.TextColumns)})
	}
	h := e.quantize(e.spec.LineSpacing*2 + 2)
	strip := e.canvas.strip(h)
	dashedRule(strip, e.spec.Margin, e.spec.PaperWidth-e.spec.Margin, h/2-1, 2)
	return nil
}

func (e *engine) fields(fields model.Fields) error {
	for _, f := range fields {
		if f.Key == "" || f.Value == "" {
			continue
		}
		if err := e.row(f.Key, f.Value, e.spec.Body, printjob.SizeNormal); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) footerFields(fields model.Fields) error {
	for _, f := range fields {
		if f.Key != "" && f.Value != "" {
			if err := e.rule(); err != nil {
				return err
			}
			return e.fields(fields)
		}
	}
	return nil
}

func (e *engine) receiptTitle(title string) error {
	if err := e.rule(); err != nil {
		return err
	}
	if title == "" {
		return nil
	}
	if err := e.centered(title, e.spec.Title, printjob.SizeNormal); err != nil {
		return err
	}
	return e.rule()
}

func (e *engine) items(items []model.LineItem) error {
	labels := e.spec.Labels
	body := e.spec.Body
	if labels.ItemColumn != "" || labels.AmountColumn != "" {
		if err := e.row(labels.ItemColumn, labels.AmountColumn, body, printjob.SizeNormal); err != nil {
			return err
		}
	}
	for _, item := range items {
		if err := e.row(item.Name, FormatAmount(item.LineTotal()), body, printjob.SizeNormal); err != nil {
			return err
		}
		detail := FormatQuantity(item.Quantity) + " x " + FormatAmount(item.UnitPrice)
		if err := e.row("", detail, body, printjob.SizeNormal); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) totals(t model.TransactionTotals) error {
	labels := e.spec.Labels
	body := e.spec.Body

	type line struct {
		label, value string
		tf           Typeface
		size         printjob.Size
	}
	lines := []line{{labels.ItemsTotal, FormatAmount(t.ItemsTotal), body, printjob.SizeNormal}}
	if t.Discount.Valid && !t.Discount.Decimal.IsZero() {
		lines = append(lines, line{labels.Discount, FormatAmount(t.Discount.Decimal), body, printjob.SizeNormal})
	}
	if t.Total.Valid {
		lines = append(lines, line{labels.Total, e.withCurrency(t.Total.Decimal), e.spec.Emphasis, printjob.SizeDoubleHeight})
	}
	if t.Received.Valid {
		lines = append(lines, line{labels.Received, FormatAmount(t.Received.Decimal), body, printjob.SizeNormal})
	}
	if t.Change.Valid {
		lines = append(lines, line{labels.Change, FormatAmount(t.Change.Decimal), body, printjob.SizeNormal})
	}

	for _, l := range lines {
		if err := e.row(l.label, l.value, l.tf, l.size); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) withCurrency(d decimal.Decimal) string {
	if e.spec.Labels.Currency == "" {
		return FormatAmount(d)
	}
	return FormatAmount(d) + " " + e.spec.Labels.Currency
}

// image scales a decoded image to the paper width, keeping its aspect ratio,
// flattens it onto white and centers it
func (e *engine) image(ref *model.ImageRef) error {
	if ref == nil || ref.Path == "" {
		return nil
	}
	if e.spec.Images == nil {
		return renderErrorf("image "+ref.Path, "no image source configured")
	}
	src, err := e.spec.Images.Image(ref.Path)
	if err != nil {
		return &RenderError{Resource: "image " + ref.Path, Err: err}
	}
	if src == nil || src.Bounds().Empty() {
		return renderErrorf("image "+ref.Path, "image has no pixels")
	}

	scale := ref.Scale
	if scale <= 0 || scale > 100 {
		scale = 100
	}
	targetW := e.spec.contentWidth() * scale / 100
	if targetW < 1 {
		targetW = 1
	}

	b := src.Bounds()
	targetH := b.Dy() * targetW / b.Dx()
	if targetH < 1 {
		targetH = 1
	}
	if targetH > e.spec.MaxHeight {
		return renderErrorf("image "+ref.Path, "scaled height %d exceeds limit %d dots", targetH, e.spec.MaxHeight)
	}

	resized := imaging.Resize(src, targetW, targetH, imaging.Lanczos)
	flat := imaging.Overlay(imaging.New(targetW, targetH, color.White), resized, image.Pt(0, 0), 1.0)
	gray := imaging.Grayscale(flat)

	strip := e.canvas.strip(e.quantize(targetH))
	x := e.spec.Margin + (e.spec.contentWidth()-targetW)/2
	draw.Draw(strip, image.Rect(x, 0, x+targetW, targetH), gray, image.Point{}, draw.Src)
	return nil
}
