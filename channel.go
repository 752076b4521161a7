package pixfmt

// ChannelSpec describes how many channels a pixel format has and which
// color space the color channels map to. The canonical channel order is the
// color space's channel order with alpha, if present, last; the format's
// word-layout flags control where channels physically live in storage.
//
// ChannelSpec is a small immutable value; formats embed it by value.
type ChannelSpec struct {
	colorSpace *ColorSpace
	hasAlpha   bool
}

// Predefined channel specifications.
var (
	ChannelsLum  = ChannelSpec{colorSpace: Lum}
	ChannelsLumA = ChannelSpec{colorSpace: Lum, hasAlpha: true}
	ChannelsRGB  = ChannelSpec{colorSpace: RGB}
	ChannelsRGBA = ChannelSpec{colorSpace: RGB, hasAlpha: true}
)

// NewChannelSpec builds a channel specification over the given color space,
// with or without an alpha channel.
func NewChannelSpec(cs *ColorSpace, hasAlpha bool) ChannelSpec {
	return ChannelSpec{colorSpace: cs, hasAlpha: hasAlpha}
}

// ColorSpace returns the borrowed color space descriptor, or nil for the
// zero ChannelSpec.
func (s ChannelSpec) ColorSpace() *ColorSpace { return s.colorSpace }

// HasAlpha reports whether the last canonical channel is alpha.
func (s ChannelSpec) HasAlpha() bool { return s.hasAlpha }

// NumChannels returns the total channel count: the color space's channel
// count plus one if an alpha channel is present.
func (s ChannelSpec) NumChannels() int {
	if s.colorSpace == nil {
		return 0
	}
	n := s.colorSpace.NumChannels()
	if s.hasAlpha {
		n++
	}
	return n
}

// IsValid reports whether the spec references a color space.
func (s ChannelSpec) IsValid() bool { return s.colorSpace != nil }

// String returns a short description such as "RGBA" or "Lum".
func (s ChannelSpec) String() string {
	if s.colorSpace == nil {
		return "invalid"
	}
	if s.hasAlpha {
		return s.colorSpace.Name() + "A"
	}
	return s.colorSpace.Name()
}
