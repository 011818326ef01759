package layout

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"

	"receipt-service/internal/model"
	"receipt-service/internal/printjob"
)

type imageMap map[string]image.Image

func (m imageMap) Image(path string) (image.Image, error) {
	img, ok := m[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return img, nil
}

func testSpec() RenderSpec {
	return RenderSpec{
		PaperWidth:     384,
		Margin:         8,
		LineSpacing:    4,
		MaxBlockHeight: 256,
		FeedLines:      3,
		Body:           Typeface{Latin: basicfont.Face7x13},
		Title:          Typeface{Latin: basicfont.Face7x13, Bold: true},
		Labels:         DefaultLabels(),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleContent() model.ReceiptContent {
	return model.ReceiptContent{
		HeaderTitle:       "PTT Station",
		HeaderDescription: "Branch 0042",
		HeaderFields:      model.Fields{{Key: "Cashier", Value: "Ann"}},
		ReceiptTitle:      "RECEIPT",
		Items:             []model.LineItem{{Name: "Gasohol 95", UnitPrice: dec("38.25"), Quantity: dec("10")}},
		FooterFields:      model.Fields{{Key: "Points", Value: "12"}},
		FooterLabel:       "Thank you",
	}
}

func sampleTotals() model.TransactionTotals {
	return model.TransactionTotals{
		ItemsTotal: dec("382.50"),
		Discount:   model.Some(dec("10")),
		Total:      model.Some(dec("372.50")),
		Received:   model.Some(dec("500")),
		Change:     model.Some(dec("127.50")),
	}
}

func textOps(job *printjob.Job) []printjob.Text {
	var out []printjob.Text
	for _, op := range job.Ops() {
		if t, ok := op.(printjob.Text); ok {
			out = append(out, t)
		}
	}
	return out
}

func TestLayoutEndsWithFeedAndCut(t *testing.T) {
	job, err := Layout(sampleContent(), sampleTotals(), testSpec())
	require.NoError(t, err)

	ops := job.Ops()
	require.GreaterOrEqual(t, len(ops), 3)
	assert.Equal(t, printjob.Feed{Lines: 3}, ops[len(ops)-2])
	assert.Equal(t, printjob.Cut{}, ops[len(ops)-1])

	rasters := job.Rasters()
	require.NotEmpty(t, rasters)
	for _, r := range rasters {
		assert.Equal(t, 384, r.Width)
		assert.LessOrEqual(t, r.Height, 256)
	}
}

func TestLayoutRasterHeightIsQuantized(t *testing.T) {
	job, err := Layout(sampleContent(), sampleTotals(), testSpec())
	require.NoError(t, err)

	total := 0
	for _, r := range job.Rasters() {
		total += r.Height
	}
	assert.Zero(t, total%8)
}

func TestLayoutASCIIUsesTextBlocks(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true

	job, err := Layout(sampleContent(), sampleTotals(), spec)
	require.NoError(t, err)

	assert.Empty(t, job.Rasters())
	texts := textOps(job)
	require.NotEmpty(t, texts)

	assert.Equal(t, printjob.Text{Text: "PTT Station", Align: printjob.AlignCenter, Bold: true}, texts[0])

	var total *printjob.Text
	for i := range texts {
		if strings.HasPrefix(texts[i].Text, "TOTAL") {
			total = &texts[i]
		}
	}
	require.NotNil(t, total)
	assert.Equal(t, "TOTAL"+strings.Repeat(" ", 32-5-6)+"372.50", total.Text)
	assert.True(t, total.Bold)
	assert.Equal(t, printjob.SizeDoubleHeight, total.Size)

	assert.Contains(t, texts, printjob.Text{Text: strings.Repeat(" ", 32-10) + "10 x 38.25"})
	assert.Contains(t, texts, printjob.Text{Text: strings.Repeat("-", 32)})
}

func TestLayoutSkipsZeroDiscount(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true
	totals := sampleTotals()
	totals.Discount = model.Some(decimal.Zero)

	job, err := Layout(sampleContent(), totals, spec)
	require.NoError(t, err)

	for _, tx := range textOps(job) {
		assert.NotContains(t, tx.Text, "Discount")
	}
}

func TestLayoutSkipsEmptyFields(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true
	content := sampleContent()
	content.HeaderFields = model.Fields{{Key: "Empty", Value: ""}, {Key: "", Value: "orphan"}, {Key: "Cashier", Value: "Ann"}}

	job, err := Layout(content, sampleTotals(), spec)
	require.NoError(t, err)

	var joined []string
	for _, tx := range textOps(job) {
		joined = append(joined, tx.Text)
	}
	all := strings.Join(joined, "\n")
	assert.NotContains(t, all, "Empty")
	assert.NotContains(t, all, "orphan")
	assert.Contains(t, all, "Cashier")
}

func TestLayoutThaiIsRasterised(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true
	content := sampleContent()
	content.HeaderFields = model.Fields{{Key: "ลูกค้า", Value: "สมชาย"}}

	job, err := Layout(content, sampleTotals(), spec)
	require.NoError(t, err)

	assert.NotEmpty(t, job.Rasters())
	for _, tx := range textOps(job) {
		assert.True(t, IsASCII(tx.Text), "text block %q", tx.Text)
	}
}

func TestLayoutRejectsBadSpec(t *testing.T) {
	var renderErr *RenderError

	spec := testSpec()
	spec.Body = Typeface{}
	_, err := Layout(sampleContent(), sampleTotals(), spec)
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "font", renderErr.Resource)

	spec = testSpec()
	spec.PaperWidth = 2000
	_, err = Layout(sampleContent(), sampleTotals(), spec)
	require.ErrorAs(t, err, &renderErr)

	spec = testSpec()
	spec.MaxBlockHeight = 5000
	_, err = Layout(sampleContent(), sampleTotals(), spec)
	require.ErrorAs(t, err, &renderErr)
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLayoutSplitsTallImage(t *testing.T) {
	spec := testSpec()
	spec.Images = imageMap{"logo.png": solid(46, 250, color.Black)}
	content := model.ReceiptContent{HeaderImage: &model.ImageRef{Path: "logo.png"}}

	job, err := Layout(content, model.TransactionTotals{ItemsTotal: decimal.Zero}, spec)
	require.NoError(t, err)

	rasters := job.Rasters()
	require.Greater(t, len(rasters), 1)
	total := 0
	for _, r := range rasters {
		assert.LessOrEqual(t, r.Height, 256)
		total += r.Height
	}
	// 46x250 scaled to 368 wide is 2000 rows
	assert.GreaterOrEqual(t, total, 2000)

	// the image is centered within the margins
	first := rasters[0]
	assert.False(t, first.At(0, 0))
	assert.True(t, first.At(192, 0))
	assert.False(t, first.At(383, 0))
}

func TestLayoutImageScale(t *testing.T) {
	spec := testSpec()
	spec.Images = imageMap{"logo.png": solid(10, 10, color.Black)}
	content := model.ReceiptContent{HeaderImage: &model.ImageRef{Path: "logo.png", Scale: 50}}

	job, err := Layout(content, model.TransactionTotals{ItemsTotal: decimal.Zero}, spec)
	require.NoError(t, err)

	first := job.Rasters()[0]
	// 184 dots wide centered in 384: columns 100..283
	assert.False(t, first.At(99, 10))
	assert.True(t, first.At(100, 10))
	assert.True(t, first.At(283, 10))
	assert.False(t, first.At(284, 10))
}

func TestLayoutMissingImage(t *testing.T) {
	spec := testSpec()
	spec.Images = imageMap{}
	content := sampleContent()
	content.FooterImage = &model.ImageRef{Path: "missing.png"}

	job, err := Layout(content, sampleTotals(), spec)
	assert.Nil(t, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "image missing.png", renderErr.Resource)
}

func TestLayoutHeightLimit(t *testing.T) {
	spec := testSpec()
	spec.MaxHeight = 200
	content := sampleContent()
	for i := 0; i < 50; i++ {
		content.Items = append(content.Items, model.LineItem{Name: "Water", UnitPrice: dec("7"), Quantity: dec("1")})
	}

	_, err := Layout(content, sampleTotals(), spec)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}

func TestLayoutFields(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true

	job, err := LayoutFields("TEST PAGE", model.Fields{{Key: "Queue", Value: "USB:Front"}}, spec)
	require.NoError(t, err)

	texts := textOps(job)
	require.Len(t, texts, 3)
	assert.Equal(t, "TEST PAGE", texts[0].Text)
	assert.Equal(t, "Queue"+strings.Repeat(" ", 32-5-9)+"USB:Front", texts[2].Text)
}

func TestLayoutInterleavesTextAndRaster(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true
	content := sampleContent()
	content.HeaderFields = model.Fields{{Key: "ลูกค้า", Value: "สมชาย"}}

	job, err := Layout(content, sampleTotals(), spec)
	require.NoError(t, err)

	indexOf := func(match func(printjob.Op) bool) int {
		for i, op := range job.Ops() {
			if match(op) {
				return i
			}
		}
		return -1
	}
	isText := func(s string) func(printjob.Op) bool {
		return func(op printjob.Op) bool {
			tx, ok := op.(printjob.Text)
			return ok && tx.Text == s
		}
	}

	description := indexOf(isText("Branch 0042"))
	raster := indexOf(func(op printjob.Op) bool { _, ok := op.(printjob.Raster); return ok })
	title := indexOf(isText("RECEIPT"))

	require.NotEqual(t, -1, description)
	require.NotEqual(t, -1, raster)
	require.NotEqual(t, -1, title)
	// the Thai field block is flushed before the next text line
	assert.Less(t, description, raster)
	assert.Less(t, raster, title)
	assert.Len(t, job.Rasters(), 1)
}

func TestLayoutHeightLimitAtTextBoundary(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true
	spec.MaxHeight = 64
	spec.Images = imageMap{"logo.png": solid(368, 200, color.Black)}
	content := sampleContent()
	content.HeaderImage = &model.ImageRef{Path: "logo.png", Scale: 30}
	content.HeaderTitle = "ร้านค้า"

	job, err := Layout(content, sampleTotals(), spec)
	assert.Nil(t, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "paper", renderErr.Resource)
}

func TestLayoutFieldsHeightLimit(t *testing.T) {
	spec := testSpec()
	spec.TextBlocks = true
	spec.MaxHeight = 8

	job, err := LayoutFields("ทดสอบ", model.Fields{{Key: "Queue", Value: "USB:Front"}}, spec)
	assert.Nil(t, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
}
