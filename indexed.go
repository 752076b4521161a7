package pixfmt

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/pixfmt/internal/bitpack"
	"github.com/gogpu/pixfmt/internal/cache"
)

// IndexedFormat is the codec variant where pixels are palette indices,
// optionally several indices packed per word. The palette holds linear,
// unpremultiplied float components, one entry per index, alpha last when
// present.
//
// Rows are word-aligned: a row never shares a word with the next row.
// Reads resolve indices through the palette; writes map colors back to the
// nearest palette entry, memoizing lookups in a bounded cache.
//
// The transfer representation is always [TransferFloat].
type IndexedFormat[W Word] struct {
	channels       ChannelSpec
	palette        []float32
	paletteLen     int
	bitsPerIndex   int
	indicesPerWord int
	msbFirst       bool

	n      int
	lookup *cache.Cache[[maxDescChannels]uint32, int]
}

// lookupCacheLimit bounds the reverse palette lookup cache.
const lookupCacheLimit = 4096

// WithBitsPerIndex sets the index width of an [IndexedFormat]; the word
// width must be a whole multiple of it, so indices never straddle words.
// The default is the full word width, one index per word.
func WithBitsPerIndex(bits int) FormatOption {
	return WithBitsPerWord(bits)
}

// NewIndexedFormat builds an indexed pixel format over the given channels.
// palette holds channels.NumChannels() linear unpremultiplied float
// components per entry and must fit the index width.
func NewIndexedFormat[W Word](channels ChannelSpec, palette []float32, opts ...FormatOption) (*IndexedFormat[W], error) {
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
	if bits < 1 || bits > wordBits || wordBits%bits != 0 {
		return nil, fmt.Errorf("%w: %d-bit indices in %d-bit words", ErrInvalidLayout, bits, wordBits)
	}

	if len(palette) == 0 || len(palette)%n != 0 {
		return nil, fmt.Errorf("%w: %d components for %d channels", ErrInvalidPalette, len(palette), n)
	}
	paletteLen := len(palette) / n
	if bits < 64 && paletteLen > 1<<bits {
		return nil, fmt.Errorf("%w: %d entries exceed %d-bit indices", ErrInvalidPalette, paletteLen, bits)
	}

	f := &IndexedFormat[W]{
		channels:       channels,
		palette:        append([]float32(nil), palette...),
		paletteLen:     paletteLen,
		bitsPerIndex:   bits,
		indicesPerWord: wordBits / bits,
		msbFirst:       o.msbBitOrder,
		n:              n,
		lookup:         cache.New[[maxDescChannels]uint32, int](lookupCacheLimit),
	}
	Logger().Debug("pixfmt: indexed format",
		"channels", channels.String(),
		"word", wordTypeOf[W]().String(),
		"bitsPerIndex", bits,
		"paletteLen", paletteLen)
	return f, nil
}

// String returns a short description such as "indexed RGBA 4-bit[16]".
func (f *IndexedFormat[W]) String() string {
	return fmt.Sprintf("indexed %s %d-bit[%d]", f.channels, f.bitsPerIndex, f.paletteLen)
}

// BufferSize returns the buffer length in words. Rows are word-aligned.
func (f *IndexedFormat[W]) BufferSize(size image.Point) (int, error) {
	row, err := f.WordsPerRow(size.X)
	if err != nil {
		return 0, err
	}
	return checkedMul(row, size.Y)
}

// WordsPerRow returns the number of words holding one row of indices.
func (f *IndexedFormat[W]) WordsPerRow(width int) (int, error) {
	if width < 0 {
		return 0, fmt.Errorf("%w: negative size", ErrSizeOverflow)
	}
	if width > math.MaxInt-(f.indicesPerWord-1) {
		return 0, fmt.Errorf("%w: width %d", ErrSizeOverflow, width)
	}
	return (width + f.indicesPerWord - 1) / f.indicesPerWord, nil
}

// TransferInfo returns static format introspection. BitDepth is the index
// width; components always transfer as float.
func (f *IndexedFormat[W]) TransferInfo() TransferInfo {
	return TransferInfo{
		ColorSpace: f.channels.ColorSpace(),
		HasAlpha:   f.channels.HasAlpha(),
		Repr:       TransferFloat,
		BitDepth:   f.bitsPerIndex,
	}
}

// Describe expresses the format as a runtime descriptor.
func (f *IndexedFormat[W]) Describe() (BufferFormat, bool) {
	return IndexedDesc{
		Word:         wordTypeOf[W](),
		BitsPerIndex: f.bitsPerIndex,
		MSBFirst:     f.msbFirst,
		PaletteSize:  f.paletteLen,
	}, true
}

// index extraction and insertion within a row of words.

func (f *IndexedFormat[W]) indexAt(row []W, x int) int {
	word := row[x/f.indicesPerWord]
	slot := x % f.indicesPerWord
	shift := slot * f.bitsPerIndex
	if f.msbFirst {
		shift = (f.indicesPerWord - 1 - slot) * f.bitsPerIndex
	}
	idx := int(uint64(word) >> shift & bitpack.Mask(f.bitsPerIndex))
	if idx >= f.paletteLen {
		idx = f.paletteLen - 1
	}
	return idx
}

func (f *IndexedFormat[W]) setIndexAt(row []W, x, idx int) {
	slot := x % f.indicesPerWord
	shift := slot * f.bitsPerIndex
	if f.msbFirst {
		shift = (f.indicesPerWord - 1 - slot) * f.bitsPerIndex
	}
	w := uint64(row[x/f.indicesPerWord])
	w &^= bitpack.Mask(f.bitsPerIndex) << shift
	w |= uint64(idx) << shift
	row[x/f.indicesPerWord] = W(w)
}

// Read decodes the tray-sized region at origin into the tray, resolving
// indices through the palette and premultiplying color by alpha.
func (f *IndexedFormat[W]) Read(buf []W, size, origin image.Point, tray *Tray) {
	checkTray(TransferFloat, tray, f.n)
	checkRegion(size, origin, tray.Width, tray.Height)
	wordsPerRow := (size.X + f.indicesPerWord - 1) / f.indicesPerWord
	hasAlpha := f.channels.HasAlpha()
	for y := 0; y < tray.Height; y++ {
		row := buf[(origin.Y+y)*wordsPerRow:][:wordsPerRow]
		for x := 0; x < tray.Width; x++ {
			idx := f.indexAt(row, origin.X+x)
			entry := f.palette[idx*f.n:][:f.n]
			ci := tray.index(x, y, 0)
			if hasAlpha {
				alpha := entry[f.n-1]
				for c := 0; c < f.n-1; c++ {
					tray.F32[ci+c] = entry[c] * alpha
				}
				tray.F32[ci+f.n-1] = alpha
			} else {
				copy(tray.F32[ci:ci+f.n], entry)
			}
		}
	}
}

// Write encodes the tray into the tray-sized region at origin, mapping each
// color to its nearest palette entry.
func (f *IndexedFormat[W]) Write(buf []W, size, origin image.Point, tray *Tray) {
	checkTray(TransferFloat, tray, f.n)
	checkRegion(size, origin, tray.Width, tray.Height)
	wordsPerRow := (size.X + f.indicesPerWord - 1) / f.indicesPerWord
	var comps [maxDescChannels]float32
	for y := 0; y < tray.Height; y++ {
		row := buf[(origin.Y+y)*wordsPerRow:][:wordsPerRow]
		for x := 0; x < tray.Width; x++ {
			ci := tray.index(x, y, 0)
			f.unpremultiply(tray.F32[ci:ci+f.n], comps[:f.n])
			f.setIndexAt(row, origin.X+x, f.paletteIndex(comps[:f.n]))
		}
	}
}

// Fill writes one color's index across every position in area.
func (f *IndexedFormat[W]) Fill(buf []W, size image.Point, area image.Rectangle, color Pixel) {
	checkPixel(TransferFloat, color, f.n)
	checkArea(size, area)
	wordsPerRow := (size.X + f.indicesPerWord - 1) / f.indicesPerWord
	var comps [maxDescChannels]float32
	f.unpremultiply(color.F32[:f.n], comps[:f.n])
	idx := f.paletteIndex(comps[:f.n])
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := buf[y*wordsPerRow:][:wordsPerRow]
		for x := area.Min.X; x < area.Max.X; x++ {
			f.setIndexAt(row, x, idx)
		}
	}
}

// unpremultiply converts premultiplied transfer components into the
// palette's unpremultiplied form. Alpha of zero yields zero color.
func (f *IndexedFormat[W]) unpremultiply(src, dst []float32) {
	copy(dst, src)
	if !f.channels.HasAlpha() {
		return
	}
	alpha := src[f.n-1]
	for c := 0; c < f.n-1; c++ {
		if alpha == 0 {
			dst[c] = 0
		} else {
			dst[c] = src[c] / alpha
		}
	}
}

// paletteIndex returns the palette entry closest to the given
// unpremultiplied components by squared component distance. Lookups are
// memoized on the exact component bit patterns.
func (f *IndexedFormat[W]) paletteIndex(comps []float32) int {
	var key [maxDescChannels]uint32
	for c := 0; c < f.n; c++ {
		key[c] = math.Float32bits(comps[c])
	}
	return f.lookup.GetOrCreate(key, func() int {
		best, bestDist := 0, float32(math.Inf(1))
		for i := 0; i < f.paletteLen; i++ {
			entry := f.palette[i*f.n:][:f.n]
			var dist float32
			for c := 0; c < f.n; c++ {
				d := entry[c] - comps[c]
				dist += d * d
			}
			if dist < bestDist {
				best, bestDist = i, dist
				if dist == 0 {
					break
				}
			}
		}
		return best
	})
}
