package pixfmt

// FormatOption configures a format during creation.
// Use functional options to customize the word layout.
//
// Example:
//
//	// Default layout: full words, one word per channel, big word order.
//	f, err := pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGBA)
//
//	// 16-bit channels split over byte pairs, little-endian.
//	f, err := pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGB,
//	    pixfmt.WithWordsPerChannel(2),
//	    pixfmt.WithWordOrder(pixfmt.LittleEndian))
type FormatOption func(*formatOptions)

// formatOptions holds optional layout configuration for format creation.
// Each constructor reads the fields that apply to its variant.
type formatOptions struct {
	bitsPerWord     int // 0 means all bits of the word
	wordsPerChannel int
	wordsPerPixel   int
	order           WordOrder
	alphaFirst      bool
	reverseOrder    bool
	msbBitOrder     bool
}

// defaultFormatOptions returns the default layout options.
func defaultFormatOptions() formatOptions {
	return formatOptions{
		bitsPerWord:     0, // resolved against the word type
		wordsPerChannel: 1,
		wordsPerPixel:   1,
		order:           BigEndian,
	}
}

// WithBitsPerWord declares how many low-order bits of each word are used.
// The default is the full word width. Unused high bits must be zero at rest;
// codecs keep them zero.
func WithBitsPerWord(bits int) FormatOption {
	return func(o *formatOptions) {
		o.bitsPerWord = bits
	}
}

// WithWordsPerChannel sets how many consecutive words assemble into one
// channel value of an [IntegerFormat]. Other variants ignore it.
func WithWordsPerChannel(n int) FormatOption {
	return func(o *formatOptions) {
		o.wordsPerChannel = n
	}
}

// WithWordsPerPixel sets how many consecutive words hold one pixel compound
// of a [PackedFormat]. Other variants ignore it.
func WithWordsPerPixel(n int) FormatOption {
	return func(o *formatOptions) {
		o.wordsPerPixel = n
	}
}

// WithWordOrder sets the assembly order of multi-word channel values and
// compounds. The default is [BigEndian]: the first word holds the most
// significant bits.
func WithWordOrder(order WordOrder) FormatOption {
	return func(o *formatOptions) {
		o.order = order
	}
}

// WithAlphaChannelFirst stores the alpha channel before the color channels
// instead of after them. Formats without alpha ignore it.
func WithAlphaChannelFirst() FormatOption {
	return func(o *formatOptions) {
		o.alphaFirst = true
	}
}

// WithReversedChannelOrder mirrors the physical channel order, e.g. turning
// RGBA storage into ABGR. Applied after [WithAlphaChannelFirst].
func WithReversedChannelOrder() FormatOption {
	return func(o *formatOptions) {
		o.reverseOrder = true
	}
}

// WithMSBBitOrder packs sub-word pixel indices of an [IndexedFormat]
// starting at the most significant bits of each word. The default packs
// from the least significant bits. Other variants ignore it.
func WithMSBBitOrder() FormatOption {
	return func(o *formatOptions) {
		o.msbBitOrder = true
	}
}
