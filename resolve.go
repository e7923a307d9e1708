package shade

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/shade/transfer"
)

// Kernel is a per-fragment resolve function. It receives the interpolated
// fragment color and returns the value written to the output slot.
//
// Kernels must be pure: no state, no side effects, same output for the same
// input. The Pass invokes a kernel from multiple goroutines concurrently.
type Kernel func(col f32.Vec4) f32.Vec4

// Resolve converts one interpolated fragment color to its output value.
//
// The input carries byte-range components (0-255 per channel, fractional
// values allowed from interpolation). RGB is normalized to [0,1] and
// gamma-encoded with the piecewise sRGB curve; alpha is normalized linearly
// and never encoded.
//
// Nothing is clamped. Components outside 0-255 produce outputs outside
// [0,1], preserving over-range and negative intermediates for float targets.
func Resolve(col f32.Vec4) f32.Vec4 {
	return f32.Vec4{
		transfer.LinearToSRGB(col[0] / 255.0),
		transfer.LinearToSRGB(col[1] / 255.0),
		transfer.LinearToSRGB(col[2] / 255.0),
		col[3] / 255.0,
	}
}

// Unresolve is the exact inverse of Resolve. It maps an output-slot value
// back to the byte-range fragment color that produced it: RGB is decoded
// through the inverse sRGB curve and rescaled to 0-255, alpha is rescaled
// linearly.
//
// Resolve and Unresolve round-trip within float32 precision, which keeps
// the stage lossless for readback and debugging.
func Unresolve(out f32.Vec4) f32.Vec4 {
	return f32.Vec4{
		transfer.SRGBToLinear(out[0]) * 255.0,
		transfer.SRGBToLinear(out[1]) * 255.0,
		transfer.SRGBToLinear(out[2]) * 255.0,
		out[3] * 255.0,
	}
}

// Compile-time check that the default kernel satisfies Kernel.
var _ Kernel = Resolve

// ResolveTo resolves src into dst element-wise using the default kernel.
// It processes min(len(dst), len(src)) fragments and returns that count.
// dst and src may alias; the kernel reads each element before writing it.
func ResolveTo(dst, src []f32.Vec4) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Resolve(src[i])
	}
	return n
}

// ResolveRGBA8 resolves col and quantizes the result to bytes, for callers
// feeding byte-oriented consumers directly. Quantization clamps, so
// out-of-range components saturate here even though Resolve preserves them.
func ResolveRGBA8(col f32.Vec4) [4]uint8 {
	out := Resolve(col)
	return [4]uint8{
		transfer.ClampToByte(out[0]),
		transfer.ClampToByte(out[1]),
		transfer.ClampToByte(out[2]),
		transfer.ClampToByte(out[3]),
	}
}
