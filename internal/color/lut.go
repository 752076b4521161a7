package color

import "math"

// sRGBToLinearLUT provides O(1) sRGB to linear conversion for 8-bit color
// components, by far the most common depth. 256 entries, 1KB.
var sRGBToLinearLUT [256]float32

// linearToSRGB8LUT provides O(1) linear to 8-bit sRGB conversion.
// 4096 entries give 12-bit precision, sufficient for 8-bit output.
var linearToSRGB8LUT [4096]uint8

func init() {
	for i := range sRGBToLinearLUT {
		s := float64(i) / 255.0
		sRGBToLinearLUT[i] = float32(srgbToLinear(s))
	}
	for i := range linearToSRGB8LUT {
		l := float64(i) / 4095.0
		s := int(math.Round(linearToSRGB(l) * 255.0))
		if s < 0 {
			s = 0
		}
		if s > 255 {
			s = 255
		}
		linearToSRGB8LUT[i] = uint8(s)
	}
}

// linearToSRGB8 converts a linear float component to an 8-bit sRGB value
// through the lookup table. Input is clamped to [0,1].
func linearToSRGB8(l float32) uint8 {
	if l < 0 {
		l = 0
	}
	if l > 1 {
		l = 1
	}
	idx := int(l*4095.0 + 0.5)
	if idx > 4095 {
		idx = 4095
	}
	return linearToSRGB8LUT[idx]
}
