package shade

import (
	"errors"
	"sync/atomic"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/shade/internal/tiles"
	"github.com/gogpu/shade/render"
)

// Resolve pass errors.
var (
	// ErrPassClosed is returned when a Pass is used after Close.
	ErrPassClosed = errors.New("shade: pass is closed")

	// ErrNilTarget is returned when the render target is nil.
	ErrNilTarget = errors.New("shade: nil render target")

	// ErrNilSource is returned when the fragment buffer is nil.
	ErrNilSource = errors.New("shade: nil fragment buffer")

	// ErrSizeMismatch is returned when target, fragment buffer, or mask
	// dimensions differ.
	ErrSizeMismatch = errors.New("shade: target and fragment buffer sizes differ")
)

// Pass executes the color resolve over fragment buffers.
//
// A Pass owns a worker pool for tile-parallel resolves and scratch storage
// for the GPU path, so creating one per frame is wasteful; create a Pass
// once and reuse it. Call Close when done to release the worker pool.
//
// Each invocation applies the kernel independently to every fragment.
// The kernel carries no state between fragments, which is what makes the
// tile-parallel and GPU paths interchangeable with the serial one.
//
// Thread safety: a Pass is NOT safe for concurrent use. Create one Pass
// per goroutine, or guard calls with external synchronization. The
// individual kernel invocations inside one resolve do run concurrently.
//
// Example:
//
//	pass := shade.NewPass()
//	defer pass.Close()
//
//	frags := shade.NewFragmentBuffer(800, 600)
//	// ... rasterizer fills frags with byte-range colors ...
//
//	target := render.NewPixmapTarget(800, 600)
//	if err := pass.Resolve(target, frags); err != nil {
//	    log.Fatal(err)
//	}
type Pass struct {
	opts    passOptions
	pool    *tiles.WorkerPool
	scratch []f32.Vec4
	closed  atomic.Bool
}

// NewPass creates a resolve pass.
//
// By default the pass resolves with the standard kernel across all CPUs
// and uses the registered GPU accelerator when one can serve the buffer.
// Options override worker count and kernel.
func NewPass(opts ...PassOption) *Pass {
	o := defaultPassOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pass{opts: o}
	if o.workers != 1 {
		p.pool = tiles.NewWorkerPool(o.workers)
	}
	return p
}

// Workers returns the number of worker goroutines the pass resolves with.
// Returns 1 for a serial pass.
func (p *Pass) Workers() int {
	if p.pool == nil {
		return 1
	}
	return p.pool.Workers()
}

// Close releases the worker pool. The pass cannot be used afterwards.
// Close is safe to call multiple times.
func (p *Pass) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	if p.pool != nil {
		p.pool.Close()
	}
}

// Resolve encodes every fragment of src and stores the result into dst.
//
// Fragment components are byte-range floats; stored components are
// normalized, with RGB gamma-encoded and alpha linear. Out-of-range
// components are passed through to the target unclamped; whether they
// survive depends on the target's backing store.
//
// The registered GPU accelerator is tried first. On ErrFallbackToCPU or
// any accelerator error the resolve transparently falls back to the CPU
// path, tile-parallel across the pass's workers.
func (p *Pass) Resolve(dst render.Target, src *FragmentBuffer) error {
	if p.closed.Load() {
		return ErrPassClosed
	}
	if dst == nil {
		return ErrNilTarget
	}
	if src == nil {
		return ErrNilSource
	}
	if dst.Width() != src.Width() || dst.Height() != src.Height() {
		return ErrSizeMismatch
	}
	if src.Width() == 0 || src.Height() == 0 {
		return nil
	}

	if err := p.accelResolve(dst, src); err == nil {
		return nil
	} else if !errors.Is(err, ErrFallbackToCPU) {
		Logger().Warn("GPU resolve failed, falling back to CPU",
			"error", err)
	}

	p.cpuResolve(dst, src)
	return nil
}

// ResolveMasked encodes only the fragments covered by mask, leaving the
// rest of dst untouched. A nil mask resolves the full buffer.
//
// The mask dimensions must match the fragment buffer.
func (p *Pass) ResolveMasked(dst render.Target, src *FragmentBuffer, mask *SpanMask) error {
	if mask == nil {
		return p.Resolve(dst, src)
	}
	if p.closed.Load() {
		return ErrPassClosed
	}
	if dst == nil {
		return ErrNilTarget
	}
	if src == nil {
		return ErrNilSource
	}
	if dst.Width() != src.Width() || dst.Height() != src.Height() ||
		mask.Width() != src.Width() || mask.Height() != src.Height() {
		return ErrSizeMismatch
	}
	if src.Width() == 0 || src.Height() == 0 || mask.IsEmpty() {
		return nil
	}

	if err := p.accelResolveMasked(dst, src, mask); err == nil {
		return nil
	} else if !errors.Is(err, ErrFallbackToCPU) {
		Logger().Warn("GPU masked resolve failed, falling back to CPU",
			"error", err)
	}

	p.cpuResolveMasked(dst, src, mask)
	return nil
}

// accelResolve runs the resolve on the registered accelerator.
// Returns ErrFallbackToCPU when no accelerator can serve the buffer.
func (p *Pass) accelResolve(dst render.Target, src *FragmentBuffer) error {
	a := Accelerator()
	if a == nil || p.opts.customKernel || !a.CanAccelerate(AccelResolve) {
		return ErrFallbackToCPU
	}

	w, h := src.Width(), src.Height()
	out := AccelBuffer{Frags: p.scratchFor(w * h), Width: w, Height: h}
	in := AccelBuffer{Frags: src.Frags(), Width: w, Height: h}

	if err := a.Resolve(out, in); err != nil {
		return err
	}

	for y := 0; y < h; y++ {
		row := out.Frags[y*w : (y+1)*w]
		for x, px := range row {
			dst.Store(x, y, px)
		}
	}
	return nil
}

// accelResolveMasked runs the masked resolve on the registered accelerator.
func (p *Pass) accelResolveMasked(dst render.Target, src *FragmentBuffer, mask *SpanMask) error {
	a := Accelerator()
	if a == nil || p.opts.customKernel || !a.CanAccelerate(AccelResolveMasked) {
		return ErrFallbackToCPU
	}

	w, h := src.Width(), src.Height()
	out := AccelBuffer{Frags: p.scratchFor(w * h), Width: w, Height: h}
	in := AccelBuffer{Frags: src.Frags(), Width: w, Height: h}

	if err := a.ResolveMasked(out, in, mask); err != nil {
		return err
	}

	for s := range mask.Spans() {
		row := out.Frags[s.Y*w : (s.Y+1)*w]
		for x := s.X; x < s.X+s.Count; x++ {
			dst.Store(x, s.Y, row[x])
		}
	}
	return nil
}

// cpuResolve applies the kernel over the whole buffer, tiled across the
// worker pool when one is available.
func (p *Pass) cpuResolve(dst render.Target, src *FragmentBuffer) {
	grid := tiles.Grid(src.Width(), src.Height())

	if p.pool == nil || len(grid) == 1 {
		p.resolveRect(dst, src, 0, 0, src.Width(), src.Height())
		return
	}

	work := make([]func(), len(grid))
	for i, tile := range grid {
		x0, y0, tw, th := tile.Bounds()
		work[i] = func() {
			p.resolveRect(dst, src, x0, y0, tw, th)
		}
	}
	p.pool.ExecuteAll(work)
}

// cpuResolveMasked applies the kernel over covered spans, row-parallel
// across the worker pool when one is available.
func (p *Pass) cpuResolveMasked(dst render.Target, src *FragmentBuffer, mask *SpanMask) {
	if p.pool == nil {
		for s := range mask.Spans() {
			p.resolveSpan(dst, src, s)
		}
		return
	}

	work := make([]func(), 0, mask.Height())
	for y := 0; y < mask.Height(); y++ {
		spans := mask.RowSpans(y)
		if len(spans) == 0 {
			continue
		}
		work = append(work, func() {
			for _, s := range spans {
				p.resolveSpan(dst, src, s)
			}
		})
	}
	p.pool.ExecuteAll(work)
}

// resolveRect applies the kernel to one rectangular region.
func (p *Pass) resolveRect(dst render.Target, src *FragmentBuffer, x0, y0, w, h int) {
	k := p.opts.kernel
	for y := y0; y < y0+h; y++ {
		row := src.Row(y)[x0 : x0+w]
		for i, frag := range row {
			dst.Store(x0+i, y, k(frag))
		}
	}
}

// resolveSpan applies the kernel to one covered span.
func (p *Pass) resolveSpan(dst render.Target, src *FragmentBuffer, s Span) {
	k := p.opts.kernel
	row := src.Row(s.Y)[s.X : s.X+s.Count]
	for i, frag := range row {
		dst.Store(s.X+i, s.Y, k(frag))
	}
}

// scratchFor returns a scratch slice of at least n fragments, reusing the
// previous allocation when it is large enough.
func (p *Pass) scratchFor(n int) []f32.Vec4 {
	if cap(p.scratch) < n {
		p.scratch = make([]f32.Vec4, n)
	}
	return p.scratch[:n]
}
