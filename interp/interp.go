// Package interp rasterizes flat primitives into fragment buffers.
//
// The rasterizers interpolate per-vertex byte-range colors across pixels
// in screen space, producing the interpolated fragments a resolve pass
// consumes. Coverage is recorded in an optional SpanMask so sparse
// resolves can skip untouched pixels.
//
// Interpolated components are not clamped: vertex colors outside the byte
// range interpolate through and land in the fragment buffer as-is.
package interp

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/shade"
)

// Vertex is a screen-space vertex with a byte-range color.
type Vertex struct {
	// X, Y are pixel coordinates.
	X, Y int

	// Color holds byte-range RGBA components (0..255 nominally,
	// out-of-range values allowed).
	Color f32.Vec4
}

// edgeFn computes twice the signed area of the triangle (x0,y0),(x1,y1),(x,y).
func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func min3(a, b, c int) int { return min(a, min(b, c)) }
func max3(a, b, c int) int { return max(a, max(b, c)) }

// FillTriangle rasterizes a triangle with barycentric color interpolation.
//
// Interpolated colors are written into dst; covered pixels are added to
// mask when it is non-nil. Either winding is accepted. Pixels outside dst
// are clipped, degenerate triangles produce nothing.
func FillTriangle(dst *shade.FragmentBuffer, mask *shade.SpanMask, v0, v1, v2 Vertex) {
	w, h := dst.Width(), dst.Height()

	// Normalize to counter-clockwise so the inside test below holds.
	area := edgeFn(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}
	invArea := 1.0 / float32(area)

	minX, maxX := min3(v0.X, v1.X, v2.X), max3(v0.X, v1.X, v2.X)
	minY, maxY := min3(v0.Y, v1.Y, v2.Y), max3(v0.Y, v1.Y, v2.Y)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	for y := minY; y <= maxY; y++ {
		runStart := -1
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(v1.X, v1.Y, v2.X, v2.Y, x, y)
			w1 := edgeFn(v2.X, v2.Y, v0.X, v0.Y, x, y)
			w2 := edgeFn(v0.X, v0.Y, v1.X, v1.Y, x, y)
			if (w0 | w1 | w2) < 0 {
				if runStart >= 0 && mask != nil {
					mask.Add(runStart, y, x-runStart)
				}
				runStart = -1
				continue
			}
			if runStart < 0 {
				runStart = x
			}

			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			dst.Set(x, y, f32.Vec4{
				a0*v0.Color[0] + a1*v1.Color[0] + a2*v2.Color[0],
				a0*v0.Color[1] + a1*v1.Color[1] + a2*v2.Color[1],
				a0*v0.Color[2] + a1*v1.Color[2] + a2*v2.Color[2],
				a0*v0.Color[3] + a1*v1.Color[3] + a2*v2.Color[3],
			})
		}
		if runStart >= 0 && mask != nil {
			mask.Add(runStart, y, maxX+1-runStart)
		}
	}
}

// FillRect rasterizes an axis-aligned rectangle with bilinear color
// interpolation between its four corner colors.
//
// c00 is the top-left corner, c10 top-right, c01 bottom-left, c11
// bottom-right. The rectangle covers x0..x0+w-1 by y0..y0+h-1 and is
// clipped to dst. Covered pixels are added to mask when it is non-nil.
func FillRect(dst *shade.FragmentBuffer, mask *shade.SpanMask, x0, y0, w, h int, c00, c10, c01, c11 f32.Vec4) {
	if w <= 0 || h <= 0 {
		return
	}

	clipX0, clipY0 := max(x0, 0), max(y0, 0)
	clipX1, clipY1 := min(x0+w, dst.Width()), min(y0+h, dst.Height())
	if clipX0 >= clipX1 || clipY0 >= clipY1 {
		return
	}

	// Interpolation parameters span the full rect even when clipped.
	invW := float32(0)
	if w > 1 {
		invW = 1.0 / float32(w-1)
	}
	invH := float32(0)
	if h > 1 {
		invH = 1.0 / float32(h-1)
	}

	for y := clipY0; y < clipY1; y++ {
		ty := float32(y-y0) * invH
		for x := clipX0; x < clipX1; x++ {
			tx := float32(x-x0) * invW

			var px f32.Vec4
			for ch := 0; ch < 4; ch++ {
				top := c00[ch] + (c10[ch]-c00[ch])*tx
				bottom := c01[ch] + (c11[ch]-c01[ch])*tx
				px[ch] = top + (bottom-top)*ty
			}
			dst.Set(x, y, px)
		}
		if mask != nil {
			mask.Add(clipX0, y, clipX1-clipX0)
		}
	}
}

// FillSpan writes one horizontal run with linear color interpolation
// from left to right.
func FillSpan(dst *shade.FragmentBuffer, mask *shade.SpanMask, x0, y, count int, left, right f32.Vec4) {
	if count <= 0 || y < 0 || y >= dst.Height() {
		return
	}

	clip0, clip1 := max(x0, 0), min(x0+count, dst.Width())
	if clip0 >= clip1 {
		return
	}

	invN := float32(0)
	if count > 1 {
		invN = 1.0 / float32(count-1)
	}

	for x := clip0; x < clip1; x++ {
		t := float32(x-x0) * invN
		dst.Set(x, y, f32.Vec4{
			left[0] + (right[0]-left[0])*t,
			left[1] + (right[1]-left[1])*t,
			left[2] + (right[2]-left[2])*t,
			left[3] + (right[3]-left[3])*t,
		})
	}
	if mask != nil {
		mask.Add(clip0, y, clip1-clip0)
	}
}
