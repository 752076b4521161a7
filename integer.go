package pixfmt

import (
	"fmt"
	"image"

	"github.com/gogpu/pixfmt/internal/bitpack"
	icolor "github.com/gogpu/pixfmt/internal/color"
)

// IntegerFormat is the codec variant where every channel occupies a fixed
// run of consecutive words, with no bit-packing across channels. A pixel
// takes wordsPerChannel words per channel, channels in storage order.
//
// An IntegerFormat is immutable after construction and safe to share across
// goroutines.
type IntegerFormat[W Word] struct {
	channels        ChannelSpec
	bitsPerWord     int
	wordsPerChannel int
	order           WordOrder
	alphaFirst      bool
	reverseOrder    bool

	// derived at construction
	n             int
	depth         int
	repr          TransferRepr
	wordsPerPixel int
	chmap         [maxDescChannels]uint8
}

// NewIntegerFormat builds an integer pixel format over the given channels.
// By default each channel occupies one full word in big word order with
// channels in canonical order; use options to change the layout.
func NewIntegerFormat[W Word](channels ChannelSpec, opts ...FormatOption) (*IntegerFormat[W], error) {
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
	if o.wordsPerChannel < 1 {
		return nil, fmt.Errorf("%w: %d words per channel", ErrInvalidLayout, o.wordsPerChannel)
	}
	depth := bits * o.wordsPerChannel
	if depth > 64 {
		return nil, fmt.Errorf("%w: channel depth %d exceeds 64 bits", ErrInvalidLayout, depth)
	}

	f := &IntegerFormat[W]{
		channels:        channels,
		bitsPerWord:     bits,
		wordsPerChannel: o.wordsPerChannel,
		order:           o.order,
		alphaFirst:      o.alphaFirst,
		reverseOrder:    o.reverseOrder,
		n:               n,
		depth:           depth,
		repr:            transferReprForDepth(depth),
		wordsPerPixel:   o.wordsPerChannel * n,
		chmap:           channelMap(n, channels.HasAlpha(), o.alphaFirst, o.reverseOrder),
	}
	Logger().Debug("pixfmt: integer format",
		"channels", channels.String(),
		"word", wordTypeOf[W]().String(),
		"bitsPerWord", bits,
		"wordsPerChannel", o.wordsPerChannel,
		"order", o.order.String(),
		"repr", f.repr.String())
	return f, nil
}

// String returns a short description such as "integer RGBA uint8x1".
func (f *IntegerFormat[W]) String() string {
	return fmt.Sprintf("integer %s %sx%d", f.channels, wordTypeOf[W](), f.wordsPerChannel)
}

// BufferSize returns wordsPerPixel * width * height, failing on overflow.
func (f *IntegerFormat[W]) BufferSize(size image.Point) (int, error) {
	row, err := f.WordsPerRow(size.X)
	if err != nil {
		return 0, err
	}
	return checkedMul(row, size.Y)
}

// WordsPerRow returns the number of words holding one pixel row.
func (f *IntegerFormat[W]) WordsPerRow(width int) (int, error) {
	return checkedMul(f.wordsPerPixel, width)
}

// TransferInfo returns static format introspection.
func (f *IntegerFormat[W]) TransferInfo() TransferInfo {
	return TransferInfo{
		ColorSpace: f.channels.ColorSpace(),
		HasAlpha:   f.channels.HasAlpha(),
		Repr:       f.repr,
		BitDepth:   f.depth,
	}
}

// Describe expresses the format as a runtime descriptor.
func (f *IntegerFormat[W]) Describe() (BufferFormat, bool) {
	return IntegerDesc{
		Word:            wordTypeOf[W](),
		BitsPerWord:     f.bitsPerWord,
		WordsPerChannel: f.wordsPerChannel,
		Order:           f.order,
		Channels:        f.channels,
		AlphaFirst:      f.alphaFirst,
		ReverseOrder:    f.reverseOrder,
	}, true
}

// Read decodes the tray-sized region at origin into the tray.
func (f *IntegerFormat[W]) Read(buf []W, size, origin image.Point, tray *Tray) {
	checkTray(f.repr, tray, f.n)
	checkRegion(size, origin, tray.Width, tray.Height)
	for y := 0; y < tray.Height; y++ {
		bufRow := ((origin.Y+y)*size.X + origin.X) * f.wordsPerPixel
		for x := 0; x < tray.Width; x++ {
			pix := buf[bufRow+x*f.wordsPerPixel:][:f.wordsPerPixel]
			ci := tray.index(x, y, 0)
			switch f.repr {
			case TransferUint8:
				integerDecodeInt(f, pix, tray.U8[ci:ci+f.n], 8)
			case TransferUint16:
				integerDecodeInt(f, pix, tray.U16[ci:ci+f.n], 16)
			case TransferFloat:
				integerDecodeFloat(f, pix, tray.F32[ci:ci+f.n])
			}
		}
	}
}

// Write encodes the tray into the tray-sized region at origin.
func (f *IntegerFormat[W]) Write(buf []W, size, origin image.Point, tray *Tray) {
	checkTray(f.repr, tray, f.n)
	checkRegion(size, origin, tray.Width, tray.Height)
	for y := 0; y < tray.Height; y++ {
		bufRow := ((origin.Y+y)*size.X + origin.X) * f.wordsPerPixel
		for x := 0; x < tray.Width; x++ {
			pix := buf[bufRow+x*f.wordsPerPixel:][:f.wordsPerPixel]
			ci := tray.index(x, y, 0)
			switch f.repr {
			case TransferUint8:
				integerEncodeInt(f, pix, tray.U8[ci:ci+f.n], 8)
			case TransferUint16:
				integerEncodeInt(f, pix, tray.U16[ci:ci+f.n], 16)
			case TransferFloat:
				integerEncodeFloat(f, pix, tray.F32[ci:ci+f.n])
			}
		}
	}
}

// Fill writes one pixel's encoding across every position in area. The pixel
// is encoded once, through the same per-pixel routine Write uses, then
// replicated, so the result is bit-identical to an equivalent Write.
func (f *IntegerFormat[W]) Fill(buf []W, size image.Point, area image.Rectangle, color Pixel) {
	checkPixel(f.repr, color, f.n)
	checkArea(size, area)
	enc := make([]W, f.wordsPerPixel)
	switch f.repr {
	case TransferUint8:
		integerEncodeInt(f, enc, color.U8[:f.n], 8)
	case TransferUint16:
		integerEncodeInt(f, enc, color.U16[:f.n], 16)
	case TransferFloat:
		integerEncodeFloat(f, enc, color.F32[:f.n])
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		bufRow := (y*size.X + area.Min.X) * f.wordsPerPixel
		for x := 0; x < area.Dx(); x++ {
			copy(buf[bufRow+x*f.wordsPerPixel:][:f.wordsPerPixel], enc)
		}
	}
}

// directTransfer reports whether the stored representation matches the
// integral transfer representation exactly: one full word per channel of
// the transfer width. The direct paths copy components without rescaling;
// they are behaviorally identical to the general path and exist as the
// documented fast path.
func (f *IntegerFormat[W]) directTransfer(transferDepth int) bool {
	return f.wordsPerChannel == 1 &&
		f.bitsPerWord == transferDepth &&
		bitpack.WordBits[W]() == transferDepth
}

// integerDecodeInt decodes one pixel's words into integral transfer
// components.
func integerDecodeInt[W Word, T intComp](f *IntegerFormat[W], pix []W, comps []T, transferDepth int) {
	if f.directTransfer(transferDepth) {
		for c := 0; c < f.n; c++ {
			comps[c] = T(pix[f.chmap[c]])
		}
		return
	}
	msbFirst := f.order == BigEndian
	for c := 0; c < f.n; c++ {
		wof := int(f.chmap[c]) * f.wordsPerChannel
		v := bitpack.Assemble(pix[wof:wof+f.wordsPerChannel], f.bitsPerWord, msbFirst)
		comps[c] = T(bitpack.Rescale(v, f.depth, transferDepth))
	}
}

// integerEncodeInt encodes integral transfer components into one pixel's
// words.
func integerEncodeInt[W Word, T intComp](f *IntegerFormat[W], pix []W, comps []T, transferDepth int) {
	if f.directTransfer(transferDepth) {
		for c := 0; c < f.n; c++ {
			pix[f.chmap[c]] = W(comps[c])
		}
		return
	}
	msbFirst := f.order == BigEndian
	for c := 0; c < f.n; c++ {
		wof := int(f.chmap[c]) * f.wordsPerChannel
		v := bitpack.Rescale(uint64(comps[c]), transferDepth, f.depth)
		bitpack.Split(v, pix[wof:wof+f.wordsPerChannel], f.bitsPerWord, msbFirst)
	}
}

// integerDecodeFloat decodes one pixel's words into linear float transfer
// components: gamma expansion for color, linear alpha, colors premultiplied
// by alpha.
func integerDecodeFloat[W Word](f *IntegerFormat[W], pix []W, comps []float32) {
	msbFirst := f.order == BigEndian
	hasAlpha := f.channels.HasAlpha()
	for c := 0; c < f.n; c++ {
		wof := int(f.chmap[c]) * f.wordsPerChannel
		v := bitpack.Assemble(pix[wof:wof+f.wordsPerChannel], f.bitsPerWord, msbFirst)
		if hasAlpha && c == f.n-1 {
			comps[c] = icolor.DecodeAlpha(v, f.depth)
		} else {
			comps[c] = icolor.DecodeColor(v, f.depth)
		}
	}
	if hasAlpha {
		alpha := comps[f.n-1]
		for c := 0; c < f.n-1; c++ {
			comps[c] *= alpha
		}
	}
}

// integerEncodeFloat encodes linear float transfer components into one
// pixel's words, un-premultiplying color by alpha first. Alpha of zero
// yields zero color components, never a division fault.
func integerEncodeFloat[W Word](f *IntegerFormat[W], pix []W, comps []float32) {
	msbFirst := f.order == BigEndian
	hasAlpha := f.channels.HasAlpha()
	var alpha float32
	if hasAlpha {
		alpha = comps[f.n-1]
	}
	for c := 0; c < f.n; c++ {
		wof := int(f.chmap[c]) * f.wordsPerChannel
		var v uint64
		switch {
		case hasAlpha && c == f.n-1:
			v = icolor.EncodeAlpha(alpha, f.depth)
		case hasAlpha:
			comp := float32(0)
			if alpha != 0 {
				comp = comps[c] / alpha
			}
			v = icolor.EncodeColor(comp, f.depth)
		default:
			v = icolor.EncodeColor(comps[c], f.depth)
		}
		bitpack.Split(v, pix[wof:wof+f.wordsPerChannel], f.bitsPerWord, msbFirst)
	}
}
