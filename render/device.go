// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// This interface is the primary integration point between shade and GPU
// frameworks like gogpu. The host application (e.g., gogpu.App) implements
// DeviceHandle and passes it to shade.SetAcceleratorDeviceProvider, allowing
// the GPU resolve to use the shared device.
//
// Key principle: shade RECEIVES the device from the host, it does NOT create
// one unless no host provides it. This enables:
//   - Shared GPU resources between shade and the host application
//   - Zero device creation overhead when a host is present
//   - Consistent resource management across the stack
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// shade-specific name for the interface while maintaining full compatibility
// with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// DeviceCapabilities describes the capabilities of a GPU device.
// Used to decide whether the accelerated resolve path is worth taking.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum texture dimension supported.
	MaxTextureSize uint32

	// MaxBindGroups is the maximum number of bind groups.
	MaxBindGroups uint32

	// SupportsCompute indicates if compute shaders are supported.
	SupportsCompute bool

	// VendorName is the GPU vendor name.
	VendorName string

	// DeviceName is the GPU device name.
	DeviceName string
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only resolves where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns TextureFormatUndefined for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
