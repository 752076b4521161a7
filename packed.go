package pixfmt

import (
	"fmt"
	"image"

	"github.com/gogpu/pixfmt/internal/bitpack"
	icolor "github.com/gogpu/pixfmt/internal/color"
)

// PackedFormat is the codec variant where all channels of a pixel share one
// bit compound spread over a fixed run of words. The compound's layout is
// given by a [PackingSpec]; the packing field for a channel is selected
// through the same channel-order flags as [IntegerFormat].
//
// A PackedFormat is immutable after construction and safe to share across
// goroutines.
type PackedFormat[W Word] struct {
	channels     ChannelSpec
	packing      PackingSpec
	bitsPerWord  int
	order        WordOrder
	alphaFirst   bool
	reverseOrder bool

	// derived at construction
	n             int
	depth         int // widest field; transfer repr follows from it
	repr          TransferRepr
	wordsPerPixel int
	compoundBits  int
	chmap         [maxDescChannels]uint8
}

// NewPackedFormat builds a packed pixel format over the given channels and
// packing. By default the compound occupies one full word; use
// [WithWordsPerPixel] and [WithBitsPerWord] for multi-word compounds.
func NewPackedFormat[W Word](channels ChannelSpec, packing PackingSpec, opts ...FormatOption) (*PackedFormat[W], error) {
	o := defaultFormatOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !channels.IsValid() {
		return nil, ErrInvalidChannelSpec
	}
	n := channels.NumChannels()
	if n > maxDescChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidChannelSpec, n)
	}

	wordBits := bitpack.WordBits[W]()
	bits := o.bitsPerWord
	if bits == 0 {
		bits = wordBits
	}
	if bits < 1 || bits > wordBits {
		return nil, fmt.Errorf("%w: %d bits per %d-bit word", ErrInvalidLayout, bits, wordBits)
	}
	if o.wordsPerPixel < 1 {
		return nil, fmt.Errorf("%w: %d words per pixel", ErrInvalidLayout, o.wordsPerPixel)
	}
	compoundBits := bits * o.wordsPerPixel
	if compoundBits > 64 {
		return nil, fmt.Errorf("%w: compound of %d bits exceeds 64", ErrInvalidLayout, compoundBits)
	}
	if err := packing.validate(compoundBits, n); err != nil {
		return nil, err
	}

	f := &PackedFormat[W]{
		channels:      channels,
		packing:       packing,
		bitsPerWord:   bits,
		order:         o.order,
		alphaFirst:    o.alphaFirst,
		reverseOrder:  o.reverseOrder,
		n:             n,
		depth:         packing.MaxWidth(),
		repr:          transferReprForDepth(packing.MaxWidth()),
		wordsPerPixel: o.wordsPerPixel,
		compoundBits:  compoundBits,
		chmap:         channelMap(n, channels.HasAlpha(), o.alphaFirst, o.reverseOrder),
	}
	Logger().Debug("pixfmt: packed format",
		"channels", channels.String(),
		"packing", packing.String(),
		"word", wordTypeOf[W]().String(),
		"bitsPerWord", bits,
		"wordsPerPixel", o.wordsPerPixel,
		"order", o.order.String(),
		"repr", f.repr.String())
	return f, nil
}

// String returns a short description such as "packed RGB 5|6|5 uint16".
func (f *PackedFormat[W]) String() string {
	return fmt.Sprintf("packed %s %s %s", f.channels, f.packing, wordTypeOf[W]())
}

// BufferSize returns wordsPerPixel * width * height, failing on overflow.
func (f *PackedFormat[W]) BufferSize(size image.Point) (int, error) {
	row, err := f.WordsPerRow(size.X)
	if err != nil {
		return 0, err
	}
	return checkedMul(row, size.Y)
}

// WordsPerRow returns the number of words holding one pixel row.
func (f *PackedFormat[W]) WordsPerRow(width int) (int, error) {
	return checkedMul(f.wordsPerPixel, width)
}

// TransferInfo returns static format introspection. BitDepth is the widest
// field's width; narrower channels rescale through it.
func (f *PackedFormat[W]) TransferInfo() TransferInfo {
	return TransferInfo{
		ColorSpace: f.channels.ColorSpace(),
		HasAlpha:   f.channels.HasAlpha(),
		Repr:       f.repr,
		BitDepth:   f.depth,
	}
}

// Describe expresses the format as a runtime descriptor. It reports false
// when the channel count exceeds what descriptors can carry; that is a
// descriptor-side limit, the codec itself still operates.
func (f *PackedFormat[W]) Describe() (BufferFormat, bool) {
	if f.n > maxDescChannels {
		return nil, false
	}
	fields := make([]BitField, f.n)
	for i := range fields {
		fields[i] = f.packing.Field(i)
	}
	return PackedDesc{
		Word:          wordTypeOf[W](),
		BitsPerWord:   f.bitsPerWord,
		WordsPerPixel: f.wordsPerPixel,
		Order:         f.order,
		Channels:      f.channels,
		Fields:        fields,
		AlphaFirst:    f.alphaFirst,
		ReverseOrder:  f.reverseOrder,
	}, true
}

// Read decodes the tray-sized region at origin into the tray.
func (f *PackedFormat[W]) Read(buf []W, size, origin image.Point, tray *Tray) {
	checkTray(f.repr, tray, f.n)
	checkRegion(size, origin, tray.Width, tray.Height)
	for y := 0; y < tray.Height; y++ {
		bufRow := ((origin.Y+y)*size.X + origin.X) * f.wordsPerPixel
		for x := 0; x < tray.Width; x++ {
			pix := buf[bufRow+x*f.wordsPerPixel:][:f.wordsPerPixel]
			ci := tray.index(x, y, 0)
			switch f.repr {
			case TransferUint8:
				packedDecodeInt(f, pix, tray.U8[ci:ci+f.n], 8)
			case TransferUint16:
				packedDecodeInt(f, pix, tray.U16[ci:ci+f.n], 16)
			case TransferFloat:
				packedDecodeFloat(f, pix, tray.F32[ci:ci+f.n])
			}
		}
	}
}

// Write encodes the tray into the tray-sized region at origin.
func (f *PackedFormat[W]) Write(buf []W, size, origin image.Point, tray *Tray) {
	checkTray(f.repr, tray, f.n)
	checkRegion(size, origin, tray.Width, tray.Height)
	for y := 0; y < tray.Height; y++ {
		bufRow := ((origin.Y+y)*size.X + origin.X) * f.wordsPerPixel
		for x := 0; x < tray.Width; x++ {
			pix := buf[bufRow+x*f.wordsPerPixel:][:f.wordsPerPixel]
			ci := tray.index(x, y, 0)
			switch f.repr {
			case TransferUint8:
				packedEncodeInt(f, pix, tray.U8[ci:ci+f.n], 8)
			case TransferUint16:
				packedEncodeInt(f, pix, tray.U16[ci:ci+f.n], 16)
			case TransferFloat:
				packedEncodeFloat(f, pix, tray.F32[ci:ci+f.n])
			}
		}
	}
}

// Fill writes one pixel's encoding across every position in area,
// bit-identically to an equivalent Write.
func (f *PackedFormat[W]) Fill(buf []W, size image.Point, area image.Rectangle, color Pixel) {
	checkPixel(f.repr, color, f.n)
	checkArea(size, area)
	enc := make([]W, f.wordsPerPixel)
	switch f.repr {
	case TransferUint8:
		packedEncodeInt(f, enc, color.U8[:f.n], 8)
	case TransferUint16:
		packedEncodeInt(f, enc, color.U16[:f.n], 16)
	case TransferFloat:
		packedEncodeFloat(f, enc, color.F32[:f.n])
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		bufRow := (y*size.X + area.Min.X) * f.wordsPerPixel
		for x := 0; x < area.Dx(); x++ {
			copy(buf[bufRow+x*f.wordsPerPixel:][:f.wordsPerPixel], enc)
		}
	}
}

// packedDecodeInt decodes one pixel's compound into integral transfer
// components. Each channel rescales from its own field width.
func packedDecodeInt[W Word, T intComp](f *PackedFormat[W], pix []W, comps []T, transferDepth int) {
	v := bitpack.Assemble(pix, f.bitsPerWord, f.order == BigEndian)
	for c := 0; c < f.n; c++ {
		fi := int(f.chmap[c])
		field := f.packing.Field(fi)
		raw := (v >> f.packing.Shift(fi)) & bitpack.Mask(field.Width)
		comps[c] = T(bitpack.Rescale(raw, field.Width, transferDepth))
	}
}

// packedEncodeInt encodes integral transfer components into one pixel's
// compound. The compound starts from zero and fields are ORed in, so gap
// bits can never carry stray values from a previous buffer state.
func packedEncodeInt[W Word, T intComp](f *PackedFormat[W], pix []W, comps []T, transferDepth int) {
	var v uint64
	for c := 0; c < f.n; c++ {
		fi := int(f.chmap[c])
		field := f.packing.Field(fi)
		raw := bitpack.Rescale(uint64(comps[c]), transferDepth, field.Width)
		v |= raw << f.packing.Shift(fi)
	}
	bitpack.Split(v, pix, f.bitsPerWord, f.order == BigEndian)
}

// packedDecodeFloat decodes one pixel's compound into linear float transfer
// components, premultiplying color by alpha.
func packedDecodeFloat[W Word](f *PackedFormat[W], pix []W, comps []float32) {
	v := bitpack.Assemble(pix, f.bitsPerWord, f.order == BigEndian)
	hasAlpha := f.channels.HasAlpha()
	for c := 0; c < f.n; c++ {
		fi := int(f.chmap[c])
		field := f.packing.Field(fi)
		raw := (v >> f.packing.Shift(fi)) & bitpack.Mask(field.Width)
		if hasAlpha && c == f.n-1 {
			comps[c] = icolor.DecodeAlpha(raw, field.Width)
		} else {
			comps[c] = icolor.DecodeColor(raw, field.Width)
		}
	}
	if hasAlpha {
		alpha := comps[f.n-1]
		for c := 0; c < f.n-1; c++ {
			comps[c] *= alpha
		}
	}
}

// packedEncodeFloat encodes linear float transfer components into one
// pixel's compound, un-premultiplying color by alpha first. Alpha of zero
// yields zero color components.
func packedEncodeFloat[W Word](f *PackedFormat[W], pix []W, comps []float32) {
	hasAlpha := f.channels.HasAlpha()
	var alpha float32
	if hasAlpha {
		alpha = comps[f.n-1]
	}
	var v uint64
	for c := 0; c < f.n; c++ {
		fi := int(f.chmap[c])
		field := f.packing.Field(fi)
		var raw uint64
		switch {
		case hasAlpha && c == f.n-1:
			raw = icolor.EncodeAlpha(alpha, field.Width)
		case hasAlpha:
			comp := float32(0)
			if alpha != 0 {
				comp = comps[c] / alpha
			}
			raw = icolor.EncodeColor(comp, field.Width)
		default:
			raw = icolor.EncodeColor(comps[c], field.Width)
		}
		v |= raw << f.packing.Shift(fi)
	}
	bitpack.Split(v, pix, f.bitsPerWord, f.order == BigEndian)
}
