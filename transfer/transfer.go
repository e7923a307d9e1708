// Package transfer provides sRGB transfer function primitives for shade.
//
// The package implements the piecewise sRGB encoding (OETF) and decoding
// (EOTF) defined by IEC 61966-2-1, plus color-level helpers that apply the
// transfer function to RGB while leaving alpha untouched. Alpha is coverage,
// not light, and is never gamma-encoded.
//
// The scalar conversions are deliberately unclamped: inputs outside [0,1]
// pass through the matching branch of the curve unchanged in sign and
// magnitude. Clamping happens only when quantizing to bytes (F32ToU8).
package transfer

import "math"

// ColorSpace identifies the interpretation of RGB components.
type ColorSpace uint8

const (
	// ColorSpaceSRGB is the standard gamma-encoded sRGB color space.
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear is the linear-light RGB color space.
	ColorSpaceLinear
)

// String returns the color space name.
func (cs ColorSpace) String() string {
	switch cs {
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceLinear:
		return "linear"
	default:
		return "unknown"
	}
}

// Color is a straight-alpha color with float32 components.
// RGB components are in the color space indicated by context.
// Alpha is always linear (never gamma-encoded).
type Color struct {
	R, G, B, A float32
}

// ColorU8 is a straight-alpha color with uint8 components in [0,255].
// RGB components are in the color space indicated by context.
// Alpha is always linear (never gamma-encoded).
type ColorU8 struct {
	R, G, B, A uint8
}

// SRGBToLinear converts an sRGB component to linear (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
// Values outside [0,1] are not clamped.
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB converts a linear component to sRGB (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
// Values outside [0,1] are not clamped.
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1.0/2.4)) - 0.055
}

// SRGBToLinearColor converts a full color from sRGB to linear space.
// Only RGB components are converted; alpha remains linear.
func SRGBToLinearColor(c Color) Color {
	return Color{
		R: SRGBToLinear(c.R),
		G: SRGBToLinear(c.G),
		B: SRGBToLinear(c.B),
		A: c.A, // Alpha is always linear
	}
}

// LinearToSRGBColor converts a full color from linear to sRGB space.
// Only RGB components are converted; alpha remains linear.
func LinearToSRGBColor(c Color) Color {
	return Color{
		R: LinearToSRGB(c.R),
		G: LinearToSRGB(c.G),
		B: LinearToSRGB(c.B),
		A: c.A, // Alpha is always linear
	}
}

// Convert maps a color from one color space to another.
// Converting between identical spaces returns the color unchanged.
func Convert(c Color, from, to ColorSpace) Color {
	if from == to {
		return c
	}
	if from == ColorSpaceSRGB && to == ColorSpaceLinear {
		return SRGBToLinearColor(c)
	}
	return LinearToSRGBColor(c)
}

// U8ToF32 converts ColorU8 to Color.
// Each uint8 component [0,255] is mapped to float32 [0,1].
func U8ToF32(c ColorU8) Color {
	return Color{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

// F32ToU8 converts Color to ColorU8.
// Each float32 component is clamped to [0,1] and mapped to uint8 [0,255]
// with rounding. This is the only place the package clamps.
func F32ToU8(c Color) ColorU8 {
	return ColorU8{
		R: ClampToByte(c.R),
		G: ClampToByte(c.G),
		B: ClampToByte(c.B),
		A: ClampToByte(c.A),
	}
}

// ClampToByte clamps a float32 to [0,1] and converts to uint8 with rounding.
func ClampToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	// Round to nearest integer
	return uint8(v*255.0 + 0.5)
}
