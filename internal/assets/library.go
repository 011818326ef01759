// internal/assets/library.go
package assets

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"receipt-service/internal/layout"
)

// Library loads fonts and images from disk. Parsed fonts are cached by path;
// images are decoded on every call so edits show up without a restart.
type Library struct {
	logger *zap.Logger
	mutex  sync.Mutex
	fonts  map[string]*opentype.Font
}

// NewLibrary creates an empty library
func NewLibrary(logger *zap.Logger) *Library {
	return &Library{
		logger: logger.With(zap.String("component", "assets")),
		fonts:  make(map[string]*opentype.Font),
	}
}

// Font parses the font at path. An empty path selects the built-in Go Regular.
func (l *Library) Font(path string) (*opentype.Font, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if f, ok := l.fonts[path]; ok {
		return f, nil
	}

	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, &layout.RenderError{Resource: "font " + path, Err: err}
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &layout.RenderError{Resource: "font " + path, Err: fmt.Errorf("parse: %w", err)}
	}

	l.fonts[path] = f
	l.logger.Debug("Font loaded", zap.String("path", path), zap.Int("glyphs", f.NumGlyphs()))
	return f, nil
}

// Face returns a face of the font at path with size in dots
func (l *Library) Face(path string, size float64) (font.Face, error) {
	f, err := l.Font(path)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &layout.RenderError{Resource: "font " + path, Err: err}
	}
	return face, nil
}

// Typeface builds a layout typeface. thaiPath may be empty, in which case
// Thai text is drawn with the Latin face.
func (l *Library) Typeface(latinPath, thaiPath string, size float64, bold bool) (layout.Typeface, error) {
	latin, err := l.Face(latinPath, size)
	if err != nil {
		return layout.Typeface{}, err
	}
	tf := layout.Typeface{Latin: latin, Bold: bold}
	if thaiPath != "" {
		if tf.Thai, err = l.Face(thaiPath, size); err != nil {
			return layout.Typeface{}, err
		}
	}
	return tf, nil
}

// Limits on images accepted for printing
const (
	MaxImageBytes  = 8 << 20
	MaxImagePixels = 16 << 20
)

// Image decodes the image at path, applying EXIF orientation. Files larger
// than MaxImageBytes or MaxImagePixels are refused before decoding.
func (l *Library) Image(path string) (image.Image, error) {
	if err := checkImage(path); err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("image %s is not a regular file", path)
	}
	if info.Size() > MaxImageBytes {
		return fmt.Errorf("image is %d bytes, limit %d", info.Size(), MaxImageBytes)
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width*cfg.Height > MaxImagePixels {
		return fmt.Errorf("image is %dx%d, limit %d pixels", cfg.Width, cfg.Height, MaxImagePixels)
	}
	return nil
}
