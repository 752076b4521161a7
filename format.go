package pixfmt

import (
	"fmt"
	"image"
	"math"
)

// Format is the contract every pixel-format codec satisfies toward its
// collaborators (image buffers, readers, writers).
//
// Read, Write and Fill never return errors: a region that is not fully
// contained in the image, or a tray whose representation does not match the
// format's, is a caller bug and panics. BufferSize and WordsPerRow fail on
// arithmetic overflow instead of silently wrapping.
//
// Formats are immutable and safe for concurrent use; calls targeting
// overlapping regions of the same buffer are the caller's to serialize.
type Format[W Word] interface {
	// BufferSize returns the buffer length in words for an image of the
	// given size.
	BufferSize(size image.Point) (int, error)

	// WordsPerRow returns the number of words holding one pixel row of the
	// given width.
	WordsPerRow(width int) (int, error)

	// TransferInfo returns static format introspection. It never touches a
	// buffer.
	TransferInfo() TransferInfo

	// Describe attempts to express this format as a runtime BufferFormat
	// descriptor. It reports false if the shape cannot be represented, in
	// which case the descriptor result is meaningless.
	Describe() (BufferFormat, bool)

	// Read decodes the tray.Width by tray.Height region at origin within an
	// image of the given size into the tray.
	Read(buf []W, size, origin image.Point, tray *Tray)

	// Write encodes the tray into the region at origin. It is the inverse
	// of Read.
	Write(buf []W, size, origin image.Point, tray *Tray)

	// Fill writes one pixel's encoding across every position in area,
	// bit-identically to a Write whose tray repeats color.
	Fill(buf []W, size image.Point, area image.Rectangle, color Pixel)
}

// maxDescChannels is the most channels a BufferFormat descriptor can carry
// per pixel. Formats with more channels still encode and decode; they just
// cannot be described.
const maxDescChannels = 8

// checkedMul multiplies non-negative sizes, failing on overflow.
func checkedMul(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: negative size", ErrSizeOverflow)
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, fmt.Errorf("%w: %d * %d", ErrSizeOverflow, a, b)
	}
	return a * b, nil
}

// checkRegion panics unless the w by h region at origin lies fully inside
// an image of the given size. Violations are caller bugs, not runtime
// failures.
func checkRegion(size, origin image.Point, w, h int) {
	if w < 0 || h < 0 ||
		origin.X < 0 || origin.Y < 0 ||
		origin.X+w > size.X || origin.Y+h > size.Y {
		panic(fmt.Sprintf("pixfmt: region %dx%d at (%d,%d) not contained in %dx%d image",
			w, h, origin.X, origin.Y, size.X, size.Y))
	}
}

// checkArea panics unless area is a canonical rectangle fully inside an
// image of the given size.
func checkArea(size image.Point, area image.Rectangle) {
	if area != area.Canon() || area.Min.X < 0 || area.Min.Y < 0 ||
		area.Max.X > size.X || area.Max.Y > size.Y {
		panic(fmt.Sprintf("pixfmt: fill area %v not contained in %dx%d image",
			area, size.X, size.Y))
	}
}

// checkTray panics unless the tray matches the format's transfer
// representation and channel count.
func checkTray(repr TransferRepr, tray *Tray, numChannels int) {
	if tray == nil {
		panic("pixfmt: nil tray")
	}
	if tray.Repr != repr {
		panic(fmt.Sprintf("pixfmt: tray repr %v does not match format transfer repr %v",
			tray.Repr, repr))
	}
	if tray.PixelStride < numChannels {
		panic(fmt.Sprintf("pixfmt: tray pixel stride %d below channel count %d",
			tray.PixelStride, numChannels))
	}
}

// checkPixel panics unless the fill color matches the format's transfer
// representation and channel count.
func checkPixel(repr TransferRepr, color Pixel, numChannels int) {
	if color.Repr != repr {
		panic(fmt.Sprintf("pixfmt: color repr %v does not match format transfer repr %v",
			color.Repr, repr))
	}
	var n int
	switch repr {
	case TransferUint8:
		n = len(color.U8)
	case TransferUint16:
		n = len(color.U16)
	case TransferFloat:
		n = len(color.F32)
	}
	if n < numChannels {
		panic(fmt.Sprintf("pixfmt: color has %d components, format has %d channels",
			n, numChannels))
	}
}

// channelMap computes the canonical-to-storage channel index mapping from
// the two order flags. With alphaFirst set and alpha present, the canonical
// index is cyclically rotated by one so alpha (canonically last) lands in
// storage slot 0; reverseOrder then mirrors the storage index. Read, Write
// and Fill all use the same mapping.
func channelMap(n int, hasAlpha, alphaFirst, reverseOrder bool) [maxDescChannels]uint8 {
	var m [maxDescChannels]uint8
	for c := 0; c < n; c++ {
		s := c
		if alphaFirst && hasAlpha {
			s = (s + 1) % n
		}
		if reverseOrder {
			s = n - 1 - s
		}
		m[c] = uint8(s)
	}
	return m
}

// intComp is the set of integral transfer component types.
type intComp interface {
	~uint8 | ~uint16
}
