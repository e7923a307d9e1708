// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/shade/transfer"
)

// Target defines where resolved fragments go.
//
// A Target is an abstraction over different output destinations:
//   - PixmapTarget: CPU-backed *image.RGBA, quantized to bytes
//   - Float4Target: float vector storage, values kept exact
//
// Store receives normalized resolve output: encoded RGB plus linear alpha.
// Whether out-of-range components survive depends on the target; byte-backed
// targets necessarily clamp at quantization, float targets do not.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target's backing store.
	Format() gputypes.TextureFormat

	// Store writes one resolved pixel. Out-of-bounds coordinates are
	// ignored. Store is safe for concurrent use on distinct pixels.
	Store(x, y int, px f32.Vec4)

	// Load reads back one pixel as the target stores it. Byte-backed
	// targets return the quantized value, not the value passed to Store.
	// Out-of-bounds coordinates return a zero vector.
	Load(x, y int) f32.Vec4
}

// PixmapTarget is a CPU-backed target using *image.RGBA.
//
// Store quantizes each component to a byte with clamping, so out-of-range
// resolve output saturates here. The stored bytes are the encoded values
// themselves; the container format stays RGBA8Unorm because the transfer
// function has already been applied by the resolve.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	pass.Resolve(target, frags)
//	png.Encode(w, target.Image())
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Store quantizes px to bytes and writes the pixel.
func (t *PixmapTarget) Store(x, y int, px f32.Vec4) {
	t.img.SetRGBA(x, y, color.RGBA{
		R: transfer.ClampToByte(px[0]),
		G: transfer.ClampToByte(px[1]),
		B: transfer.ClampToByte(px[2]),
		A: transfer.ClampToByte(px[3]),
	})
}

// Load returns the stored pixel as normalized floats.
func (t *PixmapTarget) Load(x, y int) f32.Vec4 {
	if !(image.Point{X: x, Y: y}).In(t.img.Rect) {
		return f32.Vec4{}
	}
	c := t.img.RGBAAt(x, y)
	return f32.Vec4{
		float32(c.R) / 255.0,
		float32(c.G) / 255.0,
		float32(c.B) / 255.0,
		float32(c.A) / 255.0,
	}
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Pixels returns direct access to the pixel data.
// Each pixel is 4 bytes: R, G, B, A.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	r, g, b, a := c.RGBA()
	// Convert from 16-bit to 8-bit (mask ensures value fits in uint8)
	//nolint:gosec // G115: mask ensures no overflow
	rgba := color.RGBA{
		R: uint8((r >> 8) & 0xFF),
		G: uint8((g >> 8) & 0xFF),
		B: uint8((b >> 8) & 0xFF),
		A: uint8((a >> 8) & 0xFF),
	}

	bounds := t.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t.img.SetRGBA(x, y, rgba)
		}
	}
}

// Ensure PixmapTarget implements Target.
var _ Target = (*PixmapTarget)(nil)

// Float4Target stores resolved pixels as float vectors.
//
// Nothing is quantized: out-of-range components survive exactly as the
// resolve produced them. Use this target when downstream stages need the
// full range, or to inspect resolve output without byte rounding.
type Float4Target struct {
	pix           []f32.Vec4
	width, height int
}

// NewFloat4Target creates a float vector target.
// Negative dimensions are treated as zero.
func NewFloat4Target(width, height int) *Float4Target {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Float4Target{
		pix:    make([]f32.Vec4, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the target width in pixels.
func (t *Float4Target) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *Float4Target) Height() int {
	return t.height
}

// Format returns TextureFormatUndefined: float vectors have no byte-level
// container format.
func (t *Float4Target) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Store writes one pixel without quantization.
func (t *Float4Target) Store(x, y int, px f32.Vec4) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	t.pix[y*t.width+x] = px
}

// Load returns the exact stored pixel.
func (t *Float4Target) Load(x, y int) f32.Vec4 {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return f32.Vec4{}
	}
	return t.pix[y*t.width+x]
}

// Pix returns the backing pixel slice in row-major order.
// The returned slice shares memory with the target.
func (t *Float4Target) Pix() []f32.Vec4 {
	return t.pix
}

// Ensure Float4Target implements Target.
var _ Target = (*Float4Target)(nil)
