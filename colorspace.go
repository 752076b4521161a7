package pixfmt

import (
	"fmt"

	"seehuhn.de/go/icc"
)

// ColorSpace is a shared, process-wide descriptor of the color space a
// format's color channels map to. Formats borrow ColorSpace references for
// their lifetime and never copy or own them; two formats over the same
// space hold the same pointer.
type ColorSpace struct {
	name        string
	numChannels int
}

// Process-wide color space descriptors.
var (
	// Lum is the single-channel luminance color space.
	Lum = &ColorSpace{name: "Lum", numChannels: 1}

	// RGB is the three-channel RGB color space.
	RGB = &ColorSpace{name: "RGB", numChannels: 3}
)

// Name returns the color space name.
func (cs *ColorSpace) Name() string { return cs.name }

// NumChannels returns the number of color channels (excluding alpha).
func (cs *ColorSpace) NumChannels() int { return cs.numChannels }

// String returns the color space name.
func (cs *ColorSpace) String() string { return cs.name }

// ColorSpaceFromICC maps an ICC profile onto one of the shared color space
// descriptors: gray profiles map to [Lum], RGB profiles to [RGB]. Profiles
// for other spaces are rejected with [ErrUnsupportedColorSpace]; malformed
// profile data is reported as a decode error.
func ColorSpaceFromICC(profile []byte) (*ColorSpace, error) {
	p, err := icc.Decode(profile)
	if err != nil {
		return nil, fmt.Errorf("pixfmt: decode ICC profile: %w", err)
	}
	switch p.ColorSpace {
	case icc.GraySpace:
		return Lum, nil
	case icc.RGBSpace:
		return RGB, nil
	default:
		return nil, fmt.Errorf("%w: ICC %v", ErrUnsupportedColorSpace, p.ColorSpace)
	}
}
