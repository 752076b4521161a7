package pixfmt

import "errors"

// Common errors for format construction and negotiation.
var (
	// ErrSizeOverflow is returned when a buffer or row size computation
	// overflows the int range.
	ErrSizeOverflow = errors.New("pixfmt: buffer size overflows int")

	// ErrInvalidChannelSpec is returned when a channel specification has no
	// color space.
	ErrInvalidChannelSpec = errors.New("pixfmt: invalid channel spec")

	// ErrInvalidLayout is returned when word-layout parameters are out of
	// range or inconsistent with the word type.
	ErrInvalidLayout = errors.New("pixfmt: invalid word layout")

	// ErrInvalidPacking is returned when a packing specification does not
	// fit the declared compound or channel count.
	ErrInvalidPacking = errors.New("pixfmt: invalid packing spec")

	// ErrInvalidPalette is returned when an indexed format's palette is
	// empty or does not match the channel count.
	ErrInvalidPalette = errors.New("pixfmt: invalid palette")

	// ErrCastUnsupported is returned by BufferFormat.CastTo when the
	// requested reinterpretation is structurally impossible or not
	// implemented. The source descriptor is untouched and no partial
	// result is produced.
	ErrCastUnsupported = errors.New("pixfmt: unsupported format cast")

	// ErrUnsupportedColorSpace is returned when an ICC profile's color
	// space cannot be mapped onto a codec color space.
	ErrUnsupportedColorSpace = errors.New("pixfmt: unsupported color space")
)
