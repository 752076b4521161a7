package pixfmt

// TransferRepr identifies the canonical component type used when pixel data
// crosses the codec boundary. It is derived from a format's bit depth:
// uint8 for depths up to 8, uint16 up to 16, float32 beyond that.
type TransferRepr uint8

const (
	// TransferUint8 transfers components as 8-bit unsigned integers,
	// gamma-encoded as stored.
	TransferUint8 TransferRepr = iota

	// TransferUint16 transfers components as 16-bit unsigned integers,
	// gamma-encoded as stored.
	TransferUint16

	// TransferFloat transfers components as linear float32 values in [0,1],
	// with color channels premultiplied by alpha.
	TransferFloat
)

// transferReprForDepth selects the canonical representation for a channel
// bit depth.
func transferReprForDepth(depth int) TransferRepr {
	switch {
	case depth <= 8:
		return TransferUint8
	case depth <= 16:
		return TransferUint16
	default:
		return TransferFloat
	}
}

// bitDepth returns the integral transfer depth, or 0 for float.
func (r TransferRepr) bitDepth() int {
	switch r {
	case TransferUint8:
		return 8
	case TransferUint16:
		return 16
	default:
		return 0
	}
}

// String returns a string representation of the transfer representation.
func (r TransferRepr) String() string {
	switch r {
	case TransferUint8:
		return "uint8"
	case TransferUint16:
		return "uint16"
	case TransferFloat:
		return "float32"
	default:
		return "unknown"
	}
}

// TransferInfo is a format's static introspection result: which color space
// and alpha configuration it carries, how components cross the boundary,
// and the format's per-channel bit depth.
type TransferInfo struct {
	ColorSpace *ColorSpace
	HasAlpha   bool
	Repr       TransferRepr
	BitDepth   int
}

// Tray is a caller-owned rectangular block of transfer components that
// codec reads decode into and writes encode from. Exactly one of the
// component slices is in use, selected by Repr; it must match the format's
// transfer representation.
//
// Components are stored row-major: the component c of the pixel at (x, y)
// lives at index y*RowStride + x*PixelStride + c. Callers may point a Tray
// at a sub-view of a larger block by adjusting the strides.
type Tray struct {
	Repr TransferRepr

	U8  []uint8
	U16 []uint16
	F32 []float32

	// Width and Height are the tray extent in pixels.
	Width  int
	Height int

	// PixelStride and RowStride are in components.
	PixelStride int
	RowStride   int
}

// NewTray allocates a dense tray of the given extent for numChannels
// components per pixel.
func NewTray(repr TransferRepr, width, height, numChannels int) *Tray {
	t := &Tray{
		Repr:        repr,
		Width:       width,
		Height:      height,
		PixelStride: numChannels,
		RowStride:   numChannels * width,
	}
	n := width * height * numChannels
	switch repr {
	case TransferUint8:
		t.U8 = make([]uint8, n)
	case TransferUint16:
		t.U16 = make([]uint16, n)
	case TransferFloat:
		t.F32 = make([]float32, n)
	}
	return t
}

// index returns the component index of channel c of the pixel at (x, y).
func (t *Tray) index(x, y, c int) int {
	return y*t.RowStride + x*t.PixelStride + c
}

// Pixel is a single pixel's worth of transfer components, used as the color
// argument of Fill. Exactly one slice is in use, selected by Repr, holding
// one component per channel in canonical order.
type Pixel struct {
	Repr TransferRepr

	U8  []uint8
	U16 []uint16
	F32 []float32
}

// NewPixel allocates a pixel value of the given representation for
// numChannels components.
func NewPixel(repr TransferRepr, numChannels int) Pixel {
	p := Pixel{Repr: repr}
	switch repr {
	case TransferUint8:
		p.U8 = make([]uint8, numChannels)
	case TransferUint16:
		p.U16 = make([]uint16, numChannels)
	case TransferFloat:
		p.F32 = make([]float32, numChannels)
	}
	return p
}
