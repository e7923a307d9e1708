// Package merge composites resolved colors onto render targets.
//
// The resolve stage hands off normalized values with gamma-encoded RGB and
// straight (non-premultiplied) linear alpha; the operators here consume
// exactly that representation. Out-of-range components flow through the
// operators unchanged. Clamping happens only when a target quantizes to
// bytes, never in the operators themselves.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package merge

import (
	"errors"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/shade"
	"github.com/gogpu/shade/render"
)

// ErrSizeMismatch reports that source and destination dimensions differ.
var ErrSizeMismatch = errors.New("merge: source and destination sizes differ")

// Op selects a compositing operator.
type Op uint8

const (
	// Src replaces the destination with the source.
	Src Op = iota

	// SrcOver composites the source over the destination weighting by
	// straight alpha. This is the default operator.
	SrcOver

	// Add sums source and destination componentwise.
	Add
)

// String returns the operator name.
func (op Op) String() string {
	switch op {
	case Src:
		return "Src"
	case SrcOver:
		return "SrcOver"
	case Add:
		return "Add"
	default:
		return "Unknown"
	}
}

// OpFunc is the signature for compositing operators. Colors carry
// gamma-encoded RGB and straight linear alpha, nominally in 0..1.
type OpFunc func(src, dst f32.Vec4) f32.Vec4

// GetOpFunc returns the operator function for op.
// Unknown operators fall back to SrcOver.
func GetOpFunc(op Op) OpFunc {
	switch op {
	case Src:
		return opSrc
	case SrcOver:
		return opSrcOver
	case Add:
		return opAdd
	default:
		return opSrcOver
	}
}

// GetOpFuncOpacity returns the operator for op with the source alpha
// scaled by opacity before compositing. Opacity is clamped to 0..1.
func GetOpFuncOpacity(op Op, opacity float32) OpFunc {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	if opacity == 1 {
		return GetOpFunc(op)
	}

	baseFunc := GetOpFunc(op)
	return func(src, dst f32.Vec4) f32.Vec4 {
		src[3] *= opacity
		return baseFunc(src, dst)
	}
}

// Blend applies a single operator to one source and destination pair.
func Blend(op Op, src, dst f32.Vec4) f32.Vec4 {
	return GetOpFunc(op)(src, dst)
}

// opSrc replaces destination with source.
func opSrc(src, dst f32.Vec4) f32.Vec4 {
	return src
}

// opSrcOver composites source over destination with straight alpha.
//
// Formula: Ao = Sa + Da*(1-Sa); Co = (Sc*Sa + Dc*Da*(1-Sa)) / Ao
func opSrcOver(src, dst f32.Vec4) f32.Vec4 {
	sa, da := src[3], dst[3]
	outA := sa + da*(1-sa)
	if outA == 0 {
		return f32.Vec4{}
	}
	invA := 1 / outA
	dw := da * (1 - sa)
	return f32.Vec4{
		(src[0]*sa + dst[0]*dw) * invA,
		(src[1]*sa + dst[1]*dw) * invA,
		(src[2]*sa + dst[2]*dw) * invA,
		outA,
	}
}

// opAdd sums source and destination. The sum is not clamped here; byte
// targets clamp when they quantize.
func opAdd(src, dst f32.Vec4) f32.Vec4 {
	return f32.Vec4{
		src[0] + dst[0],
		src[1] + dst[1],
		src[2] + dst[2],
		src[3] + dst[3],
	}
}

// Composite applies op to every pixel of src over dst, storing the result
// in dst. Both targets must have the same dimensions.
func Composite(op Op, dst, src render.Target) error {
	if dst == nil || src == nil {
		return ErrSizeMismatch
	}
	w, h := dst.Width(), dst.Height()
	if src.Width() != w || src.Height() != h {
		return ErrSizeMismatch
	}

	fn := GetOpFunc(op)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Store(x, y, fn(src.Load(x, y), dst.Load(x, y)))
		}
	}
	return nil
}

// CompositeMasked applies op only to the pixels mask covers. A nil mask
// composites everything. The mask must match the target dimensions.
func CompositeMasked(op Op, dst, src render.Target, mask *shade.SpanMask) error {
	if mask == nil {
		return Composite(op, dst, src)
	}
	if dst == nil || src == nil {
		return ErrSizeMismatch
	}
	w, h := dst.Width(), dst.Height()
	if src.Width() != w || src.Height() != h {
		return ErrSizeMismatch
	}
	if mask.Width() != w || mask.Height() != h {
		return ErrSizeMismatch
	}

	fn := GetOpFunc(op)
	for span := range mask.Spans() {
		for i := 0; i < span.Count; i++ {
			x := span.X + i
			dst.Store(x, span.Y, fn(src.Load(x, span.Y), dst.Load(x, span.Y)))
		}
	}
	return nil
}
