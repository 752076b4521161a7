// Package color converts pixel components between their packed integer form
// and the canonical float transfer representation.
//
// Color channels are stored gamma-compressed (sRGB transfer curve) and are
// expanded to linear float on decode; alpha is always linear and never
// gamma-encoded. Integer-to-integer bit-depth changes do not pass through
// this package; they use plain linear rescaling (see internal/bitpack).
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
//   - GPU Gems 3, Chapter 24: "The Importance of Being Linear"
package color

import (
	"math"

	"github.com/gogpu/pixfmt/internal/bitpack"
)

// SRGBToLinear converts an sRGB-encoded component to linear (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
// Input and output are in range [0,1].
func SRGBToLinear(s float32) float32 {
	return float32(srgbToLinear(float64(s)))
}

// LinearToSRGB converts a linear component to sRGB encoding (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
// Input and output are in range [0,1].
func LinearToSRGB(l float32) float32 {
	return float32(linearToSRGB(float64(l)))
}

func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func linearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// DecodeColor expands a gamma-compressed color component of the given bit
// depth to a linear float in [0,1]. The 8-bit case is served from a lookup
// table; other depths compute the transfer curve directly.
func DecodeColor(v uint64, depth int) float32 {
	if depth == 8 {
		return sRGBToLinearLUT[v&0xFF]
	}
	s := float64(v) / float64(bitpack.Mask(depth))
	return float32(srgbToLinear(s))
}

// EncodeColor compresses a linear float component to a gamma-encoded integer
// of the given bit depth with rounding. Inputs outside [0,1] are clamped.
func EncodeColor(l float32, depth int) uint64 {
	if depth == 8 {
		return uint64(linearToSRGB8(l))
	}
	lf := clamp01(float64(l))
	s := linearToSRGB(lf)
	maxVal := float64(bitpack.Mask(depth))
	return uint64(math.Round(s * maxVal))
}

// DecodeAlpha converts an alpha component of the given bit depth to a float
// in [0,1]. Alpha is linear; no transfer curve is applied.
func DecodeAlpha(v uint64, depth int) float32 {
	return float32(float64(v) / float64(bitpack.Mask(depth)))
}

// EncodeAlpha quantizes a linear float alpha to the given bit depth with
// rounding. Inputs outside [0,1] are clamped.
func EncodeAlpha(a float32, depth int) uint64 {
	af := clamp01(float64(a))
	maxVal := float64(bitpack.Mask(depth))
	return uint64(math.Round(af * maxVal))
}

func clamp01(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}
