package pixmap

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/pixfmt"
)

// ErrUnsupportedFile is returned for file extensions no codec is registered
// for.
var ErrUnsupportedFile = errors.New("pixmap: unsupported file format")

// Load reads an image file into a pixmap of the given format,
// auto-detecting PNG, BMP and TIFF by extension (or by content for other
// extensions).
func Load[W pixfmt.Word](format pixfmt.Format[W], path string) (*Pixmap[W], error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("pixmap: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(f)
	case ".bmp":
		img, err = bmp.Decode(f)
	case ".tif", ".tiff":
		img, err = tiff.Decode(f)
	default:
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("pixmap: decode %s: %w", path, err)
	}
	return FromImage(format, img)
}

// Save writes the pixmap to a file, selecting the codec by extension:
// .png, .bmp, .tif/.tiff.
func (p *Pixmap[W]) Save(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("pixmap: create file: %w", err)
	}
	if err := p.Encode(f, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the pixmap to w in the named format: "png", "bmp", "tif"
// or "tiff".
func (p *Pixmap[W]) Encode(w io.Writer, format string) error {
	img, err := p.ToImage()
	if err != nil {
		return err
	}
	switch format {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tif", "tiff":
		err = tiff.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, format)
	}
	if err != nil {
		return fmt.Errorf("pixmap: encode %s: %w", format, err)
	}
	return nil
}
