package shade

import "iter"

// Span is a horizontal run of covered fragments on one scanline.
type Span struct {
	X     int // Starting column
	Y     int // Scanline
	Count int // Run length
}

// span is the per-row storage form. Y is implied by the row index.
type span struct {
	x     int
	count int
}

// SpanMask records which fragments of a buffer are covered, stored as
// run-length spans per scanline.
//
// This is efficient for rasterized primitives, which produce long
// horizontal runs. Spans within a row are kept sorted, non-overlapping,
// and coalesced, so iteration visits each covered fragment exactly once.
//
// Thread safety: SpanMask is NOT safe for concurrent mutation. The resolve
// pass only reads it, so a built mask may be shared across workers.
type SpanMask struct {
	width  int
	height int
	rows   [][]span
}

// NewSpanMask creates an empty mask for a width x height buffer.
// Non-positive dimensions produce an empty mask.
func NewSpanMask(width, height int) *SpanMask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &SpanMask{
		width:  width,
		height: height,
		rows:   make([][]span, height),
	}
}

// Width returns the mask width in fragments.
func (m *SpanMask) Width() int {
	return m.width
}

// Height returns the mask height in fragments.
func (m *SpanMask) Height() int {
	return m.height
}

// Reset removes all coverage. Row capacity is retained for reuse.
func (m *SpanMask) Reset() {
	for y := range m.rows {
		m.rows[y] = m.rows[y][:0]
	}
}

// IsEmpty returns true if no fragment is covered.
func (m *SpanMask) IsEmpty() bool {
	for _, row := range m.rows {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Add marks count fragments starting at (x, y) as covered.
// The span is clipped to the mask bounds. Overlapping and adjacent spans
// are coalesced.
func (m *SpanMask) Add(x, y, count int) {
	if y < 0 || y >= m.height || count <= 0 {
		return
	}
	// Clip to [0, width)
	if x < 0 {
		count += x
		x = 0
	}
	if x+count > m.width {
		count = m.width - x
	}
	if count <= 0 {
		return
	}

	row := m.rows[y]
	s := span{x: x, count: count}

	merged := make([]span, 0, len(row)+1)
	i := 0

	// Copy spans strictly left of the new one (not even adjacent).
	for ; i < len(row) && row[i].x+row[i].count < s.x; i++ {
		merged = append(merged, row[i])
	}

	// Absorb every span that overlaps or touches the new one.
	for ; i < len(row) && row[i].x <= s.x+s.count; i++ {
		lo := min(s.x, row[i].x)
		hi := max(s.x+s.count, row[i].x+row[i].count)
		s = span{x: lo, count: hi - lo}
	}

	merged = append(merged, s)
	merged = append(merged, row[i:]...)
	m.rows[y] = merged
}

// AddRect marks a rectangular region as covered.
func (m *SpanMask) AddRect(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		m.Add(x, row, w)
	}
}

// Covered reports whether the fragment at (x, y) is covered.
// Out-of-bounds coordinates return false.
func (m *SpanMask) Covered(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	for _, s := range m.rows[y] {
		if x < s.x {
			return false
		}
		if x < s.x+s.count {
			return true
		}
	}
	return false
}

// CoveredCount returns the total number of covered fragments.
func (m *SpanMask) CoveredCount() int {
	total := 0
	for _, row := range m.rows {
		for _, s := range row {
			total += s.count
		}
	}
	return total
}

// Spans returns an iterator over all spans in row order.
func (m *SpanMask) Spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for y, row := range m.rows {
			for _, s := range row {
				if !yield(Span{X: s.x, Y: y, Count: s.count}) {
					return
				}
			}
		}
	}
}

// RowSpans returns the spans of scanline y as a fresh slice.
// Returns nil for an out-of-bounds or empty row.
func (m *SpanMask) RowSpans(y int) []Span {
	if y < 0 || y >= m.height || len(m.rows[y]) == 0 {
		return nil
	}
	result := make([]Span, len(m.rows[y]))
	for i, s := range m.rows[y] {
		result[i] = Span{X: s.x, Y: y, Count: s.count}
	}
	return result
}
