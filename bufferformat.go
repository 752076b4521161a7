package pixfmt

import (
	"fmt"
)

// FormatKind identifies the shape of a [BufferFormat] descriptor.
type FormatKind uint8

const (
	// KindInteger describes formats where each channel occupies a run of
	// whole words.
	KindInteger FormatKind = iota

	// KindPacked describes formats where all channels share one bit
	// compound over a run of words.
	KindPacked

	// KindSubword describes formats where several whole pixels pack into
	// one word.
	KindSubword

	// KindFloat describes formats whose words are floating point values,
	// one channel per word.
	KindFloat

	// KindIndexed describes formats whose pixels are palette indices.
	KindIndexed
)

// String returns a string representation of the kind.
func (k FormatKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindPacked:
		return "packed"
	case KindSubword:
		return "subword"
	case KindFloat:
		return "float"
	case KindIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// BufferFormat is a runtime, type-erased description of a codec shape, used
// to negotiate and introspect formats across abstraction boundaries and to
// re-express one concrete shape in terms of another base word type.
//
// BufferFormat is a sealed sum over [IntegerDesc], [PackedDesc],
// [SubwordDesc], [FloatDesc] and [IndexedDesc].
type BufferFormat interface {
	// Kind returns the descriptor variant.
	Kind() FormatKind

	// WordType returns the base word type buffers are addressed in.
	WordType() WordType

	// IsValid reports whether the descriptor is internally consistent.
	// Operating on an invalid descriptor is a caller bug.
	IsValid() bool

	// CastTo attempts to re-express this shape as the target kind over the
	// target word type without changing the bits actually stored. On
	// success, decoding the result against the same buffer yields exactly
	// the values the receiver would decode. Unsupported reinterpretations
	// fail with ErrCastUnsupported and produce no partial result.
	//
	// CastTo panics if the receiver is invalid.
	CastTo(kind FormatKind, word WordType) (BufferFormat, error)

	sealedBufferFormat()
}

// IntegerDesc describes an integer-variant codec shape.
type IntegerDesc struct {
	Word            WordType
	BitsPerWord     int
	WordsPerChannel int
	Order           WordOrder
	Channels        ChannelSpec
	AlphaFirst      bool
	ReverseOrder    bool
}

// PackedDesc describes a packed-variant codec shape. Fields are in storage
// order from least to most significant compound bits.
type PackedDesc struct {
	Word          WordType
	BitsPerWord   int
	WordsPerPixel int
	Order         WordOrder
	Channels      ChannelSpec
	Fields        []BitField
	AlphaFirst    bool
	ReverseOrder  bool
}

// SubwordDesc describes a shape where PixelsPerWord whole pixels pack into
// each word, BitsPerChannel bits per channel. MSBFirst selects whether the
// first pixel of a word sits at the most significant bits.
type SubwordDesc struct {
	Word            WordType
	BitsPerChannel  int
	PixelsPerWord   int
	Channels        ChannelSpec
	MSBFirst        bool
	AlphaFirst      bool
	ReverseOrder    bool
	WordAlignedRows bool
}

// FloatDesc describes a shape whose words are floating point values, one
// channel per word in storage order.
type FloatDesc struct {
	Word         WordType
	Channels     ChannelSpec
	AlphaFirst   bool
	ReverseOrder bool
}

// IndexedDesc describes a palette-indexed shape.
type IndexedDesc struct {
	Word         WordType
	BitsPerIndex int
	MSBFirst     bool
	PaletteSize  int
}

func (IntegerDesc) sealedBufferFormat() {}
func (PackedDesc) sealedBufferFormat()  {}
func (SubwordDesc) sealedBufferFormat() {}
func (FloatDesc) sealedBufferFormat()   {}
func (IndexedDesc) sealedBufferFormat() {}

// Kind returns KindInteger.
func (IntegerDesc) Kind() FormatKind { return KindInteger }

// Kind returns KindPacked.
func (PackedDesc) Kind() FormatKind { return KindPacked }

// Kind returns KindSubword.
func (SubwordDesc) Kind() FormatKind { return KindSubword }

// Kind returns KindFloat.
func (FloatDesc) Kind() FormatKind { return KindFloat }

// Kind returns KindIndexed.
func (IndexedDesc) Kind() FormatKind { return KindIndexed }

// WordType returns the base word type.
func (d IntegerDesc) WordType() WordType { return d.Word }

// WordType returns the base word type.
func (d PackedDesc) WordType() WordType { return d.Word }

// WordType returns the base word type.
func (d SubwordDesc) WordType() WordType { return d.Word }

// WordType returns the base word type.
func (d FloatDesc) WordType() WordType { return d.Word }

// WordType returns the base word type.
func (d IndexedDesc) WordType() WordType { return d.Word }

// IsValid reports whether the descriptor is internally consistent.
func (d IntegerDesc) IsValid() bool {
	return d.Word.IsInteger() &&
		d.BitsPerWord >= 1 && d.BitsPerWord <= d.Word.Bits() &&
		d.WordsPerChannel >= 1 &&
		d.BitsPerWord*d.WordsPerChannel <= 64 &&
		d.Channels.IsValid() &&
		d.Channels.NumChannels() <= maxDescChannels
}

// IsValid reports whether the descriptor is internally consistent.
func (d PackedDesc) IsValid() bool {
	if !d.Word.IsInteger() ||
		d.BitsPerWord < 1 || d.BitsPerWord > d.Word.Bits() ||
		d.WordsPerPixel < 1 ||
		d.BitsPerWord*d.WordsPerPixel > 64 ||
		!d.Channels.IsValid() ||
		len(d.Fields) != d.Channels.NumChannels() ||
		len(d.Fields) > maxDescChannels {
		return false
	}
	span := 0
	for _, f := range d.Fields {
		if f.Width < 1 || f.Gap < 0 {
			return false
		}
		span += f.Width + f.Gap
	}
	return span <= d.BitsPerWord*d.WordsPerPixel
}

// IsValid reports whether the descriptor is internally consistent.
func (d SubwordDesc) IsValid() bool {
	return d.Word.IsInteger() &&
		d.BitsPerChannel >= 1 && d.PixelsPerWord >= 1 &&
		d.Channels.IsValid() &&
		d.Channels.NumChannels() <= maxDescChannels &&
		d.BitsPerChannel*d.PixelsPerWord*d.Channels.NumChannels() <= d.Word.Bits()
}

// IsValid reports whether the descriptor is internally consistent.
func (d FloatDesc) IsValid() bool {
	return !d.Word.IsInteger() && d.Word.IsValid() && d.Channels.IsValid()
}

// IsValid reports whether the descriptor is internally consistent.
func (d IndexedDesc) IsValid() bool {
	if !d.Word.IsInteger() ||
		d.BitsPerIndex < 1 || d.BitsPerIndex > d.Word.Bits() ||
		d.Word.Bits()%d.BitsPerIndex != 0 ||
		d.PaletteSize < 1 {
		return false
	}
	return d.BitsPerIndex >= 64 || d.PaletteSize <= 1<<d.BitsPerIndex
}

// String returns a short description.
func (d IntegerDesc) String() string {
	return fmt.Sprintf("integer %s %sx%d/%d %s", d.Channels, d.Word, d.WordsPerChannel, d.BitsPerWord, d.Order)
}

// String returns a short description.
func (d PackedDesc) String() string {
	return fmt.Sprintf("packed %s %s x%d %s", d.Channels, d.Word, d.WordsPerPixel, d.Order)
}

// String returns a short description.
func (d SubwordDesc) String() string {
	return fmt.Sprintf("subword %s %d-bit x%d %s", d.Channels, d.BitsPerChannel, d.PixelsPerWord, d.Word)
}

// String returns a short description.
func (d FloatDesc) String() string {
	return fmt.Sprintf("float %s %s", d.Channels, d.Word)
}

// String returns a short description.
func (d IndexedDesc) String() string {
	return fmt.Sprintf("indexed %d-bit[%d] %s", d.BitsPerIndex, d.PaletteSize, d.Word)
}

// castErr builds the soft failure for an unsupported reinterpretation.
func castErr(from BufferFormat, kind FormatKind, word WordType, reason string) error {
	Logger().Debug("pixfmt: cast rejected",
		"from", fmt.Sprint(from), "kind", kind.String(), "word", word.String(), "reason", reason)
	return fmt.Errorf("%w: %v to %v over %v: %s", ErrCastUnsupported, from.Kind(), kind, word, reason)
}

// mustBeValid guards cast entry points: an invalid source descriptor is a
// programming error, not a negotiable failure.
func mustBeValid(d BufferFormat) {
	if !d.IsValid() {
		panic(fmt.Sprintf("pixfmt: cast from invalid descriptor %v", d))
	}
}

// CastTo implements [BufferFormat].
func (d IntegerDesc) CastTo(kind FormatKind, word WordType) (BufferFormat, error) {
	mustBeValid(d)
	if kind == KindInteger && word == d.Word {
		return d, nil
	}
	if kind != KindInteger {
		return nil, castErr(d, kind, word, "not yet supported")
	}
	return d.byteView(kind, word)
}

// byteView re-expresses a multi-byte integer shape as the equivalent
// byte-oriented shape. This is legal only when every word is fully used (a
// padding bit would make the byte view ambiguous). When several words
// already span one channel the native byte order of the word type must
// agree with the configured word order; permuting bytes would be a
// conversion, not a cast. With one word per channel the configured order
// never influences decoding, so the byte view simply adopts the machine's
// order.
func (d IntegerDesc) byteView(kind FormatKind, word WordType) (BufferFormat, error) {
	if word != Word8 {
		return nil, castErr(d, kind, word, "only byte views of foreign word types are supported")
	}
	if d.BitsPerWord != d.Word.Bits() {
		return nil, castErr(d, kind, word, "words have unused bits")
	}
	order := d.Order
	if d.Word.Bytes() > 1 {
		native, ok := NativeByteOrder(d.Word)
		if !ok {
			return nil, castErr(d, kind, word, "word type has no determinable byte order")
		}
		if d.WordsPerChannel > 1 && native != d.Order {
			return nil, castErr(d, kind, word, "native byte order disagrees with word order")
		}
		order = native
	}
	return IntegerDesc{
		Word:            Word8,
		BitsPerWord:     8,
		WordsPerChannel: d.WordsPerChannel * d.Word.Bytes(),
		Order:           order,
		Channels:        d.Channels,
		AlphaFirst:      d.AlphaFirst,
		ReverseOrder:    d.ReverseOrder,
	}, nil
}

// CastTo implements [BufferFormat].
func (d PackedDesc) CastTo(kind FormatKind, word WordType) (BufferFormat, error) {
	mustBeValid(d)
	switch kind {
	case KindPacked:
		if word == d.Word {
			return d, nil
		}
		return nil, castErr(d, kind, word, "not yet supported")
	case KindInteger:
		return d.toInteger(kind, word)
	case KindSubword:
		return d.toSubword(kind, word)
	default:
		return nil, castErr(d, kind, word, "not yet supported")
	}
}

// equalFieldWidth returns the common field width if all fields have it and
// no field carries a gap.
func (d PackedDesc) equalFieldWidth() (int, bool) {
	w := d.Fields[0].Width
	for _, f := range d.Fields {
		if f.Width != w || f.Gap != 0 {
			return 0, false
		}
	}
	return w, true
}

// toInteger reinterprets a compound whose equal-width gap-free fields each
// occupy whole words as an integer shape. Under big word order the first
// word holds the last field, so the channel storage order mirrors.
func (d PackedDesc) toInteger(kind FormatKind, word WordType) (BufferFormat, error) {
	if word != d.Word {
		return nil, castErr(d, kind, word, "word type change requires a byte view of an integer shape")
	}
	w, ok := d.equalFieldWidth()
	if !ok {
		return nil, castErr(d, kind, word, "fields differ in width or carry gaps")
	}
	if w%d.BitsPerWord != 0 {
		return nil, castErr(d, kind, word, "fields do not occupy whole words")
	}
	n := len(d.Fields)
	if d.WordsPerPixel%n != 0 || w/d.BitsPerWord != d.WordsPerPixel/n {
		return nil, castErr(d, kind, word, "fields do not tile the compound")
	}
	rev := d.ReverseOrder
	if d.Order == BigEndian {
		rev = !rev
	}
	return IntegerDesc{
		Word:            d.Word,
		BitsPerWord:     d.BitsPerWord,
		WordsPerChannel: d.WordsPerPixel / n,
		Order:           d.Order,
		Channels:        d.Channels,
		AlphaFirst:      d.AlphaFirst,
		ReverseOrder:    rev,
	}, nil
}

// toSubword reinterprets a one-word compound of equal-width gap-free fields
// as whole pixels packed into words. The source stores exactly one pixel
// per word, so the fields must fill the word: a wider word would leave
// padding bits that a multi-pixel subword view misreads as further pixels.
func (d PackedDesc) toSubword(kind FormatKind, word WordType) (BufferFormat, error) {
	if word != d.Word {
		return nil, castErr(d, kind, word, "word type change requires a byte view of an integer shape")
	}
	if d.WordsPerPixel != 1 {
		return nil, castErr(d, kind, word, "compound spans several words")
	}
	if d.BitsPerWord != d.Word.Bits() {
		return nil, castErr(d, kind, word, "words have unused bits")
	}
	w, ok := d.equalFieldWidth()
	if !ok {
		return nil, castErr(d, kind, word, "fields differ in width or carry gaps")
	}
	n := len(d.Fields)
	if w*n != d.Word.Bits() {
		return nil, castErr(d, kind, word, "fields do not fill the word")
	}
	return SubwordDesc{
		Word:            d.Word,
		BitsPerChannel:  w,
		PixelsPerWord:   1,
		Channels:        d.Channels,
		MSBFirst:        false,
		AlphaFirst:      d.AlphaFirst,
		ReverseOrder:    d.ReverseOrder,
		WordAlignedRows: true,
	}, nil
}

// CastTo implements [BufferFormat].
func (d SubwordDesc) CastTo(kind FormatKind, word WordType) (BufferFormat, error) {
	mustBeValid(d)
	if kind == KindSubword && word == d.Word {
		return d, nil
	}
	return nil, castErr(d, kind, word, "not yet supported")
}

// CastTo implements [BufferFormat].
func (d FloatDesc) CastTo(kind FormatKind, word WordType) (BufferFormat, error) {
	mustBeValid(d)
	if kind == KindFloat && word == d.Word {
		return d, nil
	}
	// Byte views of float words would need a determinable byte order,
	// which NativeByteOrder does not grant float kinds.
	return nil, castErr(d, kind, word, "float shapes cannot be reinterpreted")
}

// CastTo implements [BufferFormat].
func (d IndexedDesc) CastTo(kind FormatKind, word WordType) (BufferFormat, error) {
	mustBeValid(d)
	if kind == KindIndexed && word == d.Word {
		return d, nil
	}
	return nil, castErr(d, kind, word, "palette indices have no alternate shape")
}
