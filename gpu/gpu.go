//go:build !nogpu

// Package gpu registers the GPU accelerator for hardware-accelerated
// resolve passes.
//
// Import this package to route full-buffer and masked resolves through a
// wgpu/hal compute shader. The kernel applies the same transform as the
// CPU path, so output is interchangeable.
//
// If GPU initialization fails (no Vulkan/Metal/DX12 available), resolves
// silently fall back to the CPU path.
//
// Usage:
//
//	import _ "github.com/gogpu/shade/gpu" // enable GPU resolve
package gpu

import (
	"github.com/gogpu/shade"
	gpuimpl "github.com/gogpu/shade/internal/gpu"
)

func init() {
	accel := &gpuimpl.ResolveAccelerator{}
	if err := shade.RegisterAccelerator(accel); err != nil {
		shade.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a separate
// GPU instance and enables efficient device sharing.
//
// The provider should be a gpucontext.DeviceProvider that also implements
// HalDevice() any and HalQueue() any for direct HAL access.
//
// Call this after importing the package, before the first resolve.
func SetDeviceProvider(provider any) error {
	return shade.SetAcceleratorDeviceProvider(provider)
}
