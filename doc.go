// Package shade resolves interpolated fragment colors into display-ready
// sRGB output.
//
// # Overview
//
// shade implements the final color stage of a raster pipeline: a vertex
// color that was interpolated across a primitive in byte range (0-255 per
// component) is normalized and gamma-encoded into the piecewise sRGB curve,
// with alpha normalized linearly. The stage is a pure per-fragment function,
// so it runs identically on a single pixel, a tile-parallel CPU pass, or a
// GPU fragment shader.
//
// # Quick Start
//
//	import "github.com/gogpu/shade"
//
//	// Resolve one fragment
//	out := shade.Resolve(f32.Vec4{188, 188, 188, 255})
//	// out ≈ {0.874, 0.874, 0.874, 1.0}
//
//	// Resolve a full buffer into an 8-bit image
//	src := shade.NewFragmentBuffer(800, 600)
//	// ... fill src via interp or directly ...
//	dst := render.NewPixmapTarget(800, 600)
//	pass := shade.NewPass()
//	defer pass.Close()
//	if err := pass.Resolve(dst, src); err != nil {
//	    log.Fatal(err)
//	}
//
// # Value Range
//
// Inputs and outputs are deliberately unclamped. A component of 300 resolves
// to a value above 1, a negative component stays negative. Clamping happens
// only when a target quantizes to bytes. Float targets preserve the full
// range end to end.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Resolve/Unresolve kernels, FragmentBuffer, Pass, SpanMask
//   - transfer: scalar sRGB transfer functions and lookup tables
//   - interp: screen-space color interpolation producing fragment buffers
//   - merge: straight-alpha compositing of resolved output
//   - render: resolve targets (8-bit pixmap, float4)
//   - gpu: optional WebGPU accelerator (blank import to enable)
//
// # Parallelism
//
// The Pass splits the fragment buffer into tiles and resolves them on a
// worker pool. Every fragment is independent, so the pass scales with cores.
// Use WithWorkers(1) for strictly serial execution.
package shade

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
