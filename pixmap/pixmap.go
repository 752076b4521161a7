// Package pixmap provides pixel buffers addressed through pixfmt codecs:
// allocation, pixel access, format conversion, and file I/O.
//
// A Pixmap owns (or wraps) a word buffer laid out by a [pixfmt.Format]. All
// pixel access goes through the format's codec, so a Pixmap over packed
// RGB565 words and one over 16-bit-per-channel RGBA behave identically at
// the API surface.
package pixmap

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/pixfmt"
)

// Package errors.
var (
	// ErrSizeMismatch is returned when two pixmaps of different extents
	// meet in an operation that requires equal sizes.
	ErrSizeMismatch = errors.New("pixmap: size mismatch")

	// ErrBufferSize is returned when a wrapped buffer does not match the
	// format's required length.
	ErrBufferSize = errors.New("pixmap: wrong buffer size")
)

// Pixmap is a rectangular pixel buffer addressed through a codec.
type Pixmap[W pixfmt.Word] struct {
	format pixfmt.Format[W]
	size   image.Point
	words  []W
}

// New allocates a pixmap of the given extent for the given format.
func New[W pixfmt.Word](format pixfmt.Format[W], width, height int) (*Pixmap[W], error) {
	size := image.Pt(width, height)
	n, err := format.BufferSize(size)
	if err != nil {
		return nil, fmt.Errorf("pixmap: allocate %dx%d: %w", width, height, err)
	}
	return &Pixmap[W]{format: format, size: size, words: make([]W, n)}, nil
}

// Wrap builds a pixmap over a caller-owned word buffer without copying. The
// buffer length must match the format's BufferSize exactly.
func Wrap[W pixfmt.Word](format pixfmt.Format[W], words []W, width, height int) (*Pixmap[W], error) {
	size := image.Pt(width, height)
	n, err := format.BufferSize(size)
	if err != nil {
		return nil, fmt.Errorf("pixmap: wrap %dx%d: %w", width, height, err)
	}
	if len(words) != n {
		return nil, fmt.Errorf("%w: have %d words, format needs %d", ErrBufferSize, len(words), n)
	}
	return &Pixmap[W]{format: format, size: size, words: words}, nil
}

// Width returns the width in pixels.
func (p *Pixmap[W]) Width() int { return p.size.X }

// Height returns the height in pixels.
func (p *Pixmap[W]) Height() int { return p.size.Y }

// Bounds returns the pixmap extent as a rectangle at the origin.
func (p *Pixmap[W]) Bounds() image.Rectangle {
	return image.Rectangle{Max: p.size}
}

// Format returns the codec the buffer is laid out by.
func (p *Pixmap[W]) Format() pixfmt.Format[W] { return p.format }

// Words returns the raw word buffer. The layout is the format's business;
// mutating it directly bypasses the codec's invariants.
func (p *Pixmap[W]) Words() []W { return p.words }

// Read decodes the tray-sized region at origin into the tray.
func (p *Pixmap[W]) Read(origin image.Point, tray *pixfmt.Tray) {
	p.format.Read(p.words, p.size, origin, tray)
}

// Write encodes the tray into the tray-sized region at origin.
func (p *Pixmap[W]) Write(origin image.Point, tray *pixfmt.Tray) {
	p.format.Write(p.words, p.size, origin, tray)
}

// Fill writes one color across the area.
func (p *Pixmap[W]) Fill(area image.Rectangle, color pixfmt.Pixel) {
	p.format.Fill(p.words, p.size, area, color)
}

// Clear fills the whole pixmap with one color.
func (p *Pixmap[W]) Clear(color pixfmt.Pixel) {
	p.Fill(p.Bounds(), color)
}

// Get decodes the single pixel at (x, y) into a freshly allocated Pixel in
// the format's transfer representation.
func (p *Pixmap[W]) Get(x, y int) pixfmt.Pixel {
	info := p.format.TransferInfo()
	n := numChannels(info)
	tray := pixfmt.NewTray(info.Repr, 1, 1, n)
	p.Read(image.Pt(x, y), tray)
	px := pixfmt.Pixel{Repr: info.Repr, U8: tray.U8, U16: tray.U16, F32: tray.F32}
	return px
}

// Set encodes one pixel at (x, y).
func (p *Pixmap[W]) Set(x, y int, color pixfmt.Pixel) {
	info := p.format.TransferInfo()
	n := numChannels(info)
	tray := &pixfmt.Tray{
		Repr:        color.Repr,
		U8:          color.U8,
		U16:         color.U16,
		F32:         color.F32,
		Width:       1,
		Height:      1,
		PixelStride: n,
		RowStride:   n,
	}
	p.Write(image.Pt(x, y), tray)
}

// numChannels returns the channel count of a format from its transfer info.
func numChannels(info pixfmt.TransferInfo) int {
	n := info.ColorSpace.NumChannels()
	if info.HasAlpha {
		n++
	}
	return n
}
