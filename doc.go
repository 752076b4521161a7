// Package pixfmt implements pixel-format codecs: encoders and decoders that
// translate between flat pixel buffers with arbitrary bit layouts and a
// canonical "transfer" component representation used by the rest of an
// imaging pipeline.
//
// # Overview
//
// A pixel format combines a channel specification (which channels exist and
// which color space they belong to) with word-layout parameters: the word
// type the buffer is addressed in, how many low-order bits of each word are
// used, how many words assemble into one channel value or pixel compound,
// the word order (big or little endian), and two flags controlling physical
// channel order. Three codec variants are provided:
//
//   - [IntegerFormat]: each channel occupies a fixed run of consecutive words.
//   - [PackedFormat]: all channels of a pixel share one bit compound spread
//     over a fixed run of words, laid out by a [PackingSpec].
//   - [IndexedFormat]: pixels are palette indices, optionally several indices
//     packed per word.
//
// # Quick Start
//
//	import "github.com/gogpu/pixfmt"
//
//	// Classic byte-per-channel RGBA.
//	f, err := pixfmt.NewIntegerFormat[uint8](pixfmt.ChannelsRGBA)
//
//	// 16-bit RGB 5-6-5 in one uint16 word.
//	f565, err := pixfmt.NewPackedFormat[uint16](pixfmt.ChannelsRGB,
//	    pixfmt.NewPackingSpec(
//	        pixfmt.BitField{Width: 5}, // red
//	        pixfmt.BitField{Width: 6}, // green
//	        pixfmt.BitField{Width: 5}, // blue
//	    ))
//
// Formats are immutable after construction and safe to share across
// goroutines. They never allocate or retain buffers: callers size buffers
// via BufferSize and own them outright.
//
// # Transfer representation
//
// Decoded components cross the codec boundary in one of three canonical
// types, selected automatically from the format's bit depth: uint8 (depth
// up to 8), uint16 (depth up to 16), or float32 (deeper formats). Callers
// query the active representation via TransferInfo and allocate a [Tray]
// accordingly. Float transfer components are linear (the sRGB transfer
// curve is decoded away) and color channels are premultiplied by alpha.
//
// # Format negotiation
//
// [BufferFormat] is the runtime, type-erased description of a codec shape.
// Formats report theirs via Describe, and CastTo attempts a lossless
// structural reinterpretation into a different shape or base word type,
// such as viewing a multi-byte integer format as an equivalent sequence
// of bytes.
//
// # Architecture
//
// The library is organized into:
//   - Public API: format types, ChannelSpec, PackingSpec, Tray, BufferFormat
//   - Internal: bitpack (word assembly, masks, rescaling), color (transfer
//     curve and component conversion), cache (palette lookup cache)
//   - Collaborators: pixmap (buffer-owning image layer with stdlib image
//     interop and file I/O)
package pixfmt
