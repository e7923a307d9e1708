//go:build !nogpu

// Package gpu provides a Pure Go GPU-accelerated resolve backend.
//
// This is an internal package used by the shade library for GPU execution.
// It leverages WebGPU via the gogpu/wgpu Pure Go implementation (zero CGO),
// which supports Vulkan, Metal, and DX12 backends depending on the platform.
//
// # Architecture Overview
//
// The backend runs the resolve kernel as a single compute dispatch:
//
//	Fragment buffer -> upload -> compute pass (8x8 workgroups) -> readback
//
// Key components:
//
//   - ResolveAccelerator: shade.GPUAccelerator implementation
//   - shaders/resolve.wgsl: the WGSL kernel, compiled to SPIR-V with naga
//   - Flat little-endian f32 quads as the wire format in both directions
//
// The WGSL kernel and the CPU resolve apply the same transform, so a
// GPU-resolved buffer is interchangeable with a CPU-resolved one.
//
// # Device Lifecycle
//
// Device bring-up is lazy: nothing touches the GPU until the first resolve
// or until a shared device arrives via SetDeviceProvider. A failed bring-up
// is remembered and the accelerator keeps answering shade.ErrFallbackToCPU
// without retrying.
//
// # Thread Safety
//
// ResolveAccelerator is safe for concurrent use; a mutex serializes
// dispatches on the single device queue.
package gpu
