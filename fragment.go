package shade

import "golang.org/x/image/math/f32"

// FragmentBuffer holds per-fragment interpolated colors for one frame.
//
// Components are byte-range float32 (0-255 per channel), the working space
// of the interpolation stage. Fragments are stored row-major; the raw slice
// is accessible via Frags for bulk operations.
type FragmentBuffer struct {
	width  int
	height int
	frags  []f32.Vec4
}

// NewFragmentBuffer creates a fragment buffer with the given dimensions.
// Non-positive dimensions produce an empty buffer.
func NewFragmentBuffer(width, height int) *FragmentBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &FragmentBuffer{
		width:  width,
		height: height,
		frags:  make([]f32.Vec4, width*height),
	}
}

// Width returns the width of the buffer in fragments.
func (b *FragmentBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in fragments.
func (b *FragmentBuffer) Height() int {
	return b.height
}

// Frags returns the raw fragment data in row-major order.
func (b *FragmentBuffer) Frags() []f32.Vec4 {
	return b.frags
}

// Index returns the slice index for the fragment at (x, y).
// Returns -1 if the coordinates are out of bounds.
func (b *FragmentBuffer) Index(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.width + x
}

// Set stores a fragment color. Out-of-bounds coordinates are ignored.
func (b *FragmentBuffer) Set(x, y int, col f32.Vec4) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.frags[y*b.width+x] = col
}

// At returns the fragment color at (x, y).
// Out-of-bounds coordinates return the zero vector.
func (b *FragmentBuffer) At(x, y int) f32.Vec4 {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return f32.Vec4{}
	}
	return b.frags[y*b.width+x]
}

// Row returns the fragments of scanline y. The slice aliases the buffer.
// Returns nil if y is out of bounds.
func (b *FragmentBuffer) Row(y int) []f32.Vec4 {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.frags[y*b.width : (y+1)*b.width]
}

// Fill sets every fragment to the given color.
func (b *FragmentBuffer) Fill(col f32.Vec4) {
	for i := range b.frags {
		b.frags[i] = col
	}
}

// Clear zeroes all fragments.
func (b *FragmentBuffer) Clear() {
	clear(b.frags)
}
