package shade

import (
	"errors"
	"sync"

	"golang.org/x/image/math/f32"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this operation.
// The caller should transparently fall back to the CPU resolve.
var ErrFallbackToCPU = errors.New("shade: falling back to CPU resolve")

// AcceleratedOp describes operation types for GPU capability checking.
type AcceleratedOp uint32

const (
	// AccelResolve represents a full-buffer fragment resolve.
	AccelResolve AcceleratedOp = 1 << iota

	// AccelResolveMasked represents a resolve restricted to covered spans.
	AccelResolveMasked
)

// AccelBuffer provides fragment storage for accelerated resolves.
// Frags holds Width*Height interpolated colors in row-major order.
// Input components are byte-range floats, output components are
// normalized encoded values.
type AccelBuffer struct {
	Frags         []f32.Vec4
	Width, Height int
}

// GPUAccelerator is an optional GPU acceleration provider.
//
// When registered via RegisterAccelerator, a Pass tries GPU acceleration
// first for supported operations. If the accelerator returns ErrFallbackToCPU
// or any error, the resolve transparently falls back to CPU.
//
// Implementations should be provided by GPU backend packages (e.g., shade/gpu/).
// Users opt in to GPU acceleration via blank import:
//
//	import _ "github.com/gogpu/shade/gpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu", "vulkan").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given operation.
	// This is a fast check used to skip GPU entirely for unsupported operations.
	CanAccelerate(op AcceleratedOp) bool

	// Resolve encodes every fragment of src into dst. The buffers must have
	// equal dimensions; dst.Frags and src.Frags may alias.
	// Returns ErrFallbackToCPU if the buffer cannot be GPU-accelerated.
	Resolve(dst, src AccelBuffer) error

	// ResolveMasked encodes only the fragments covered by mask, leaving the
	// rest of dst untouched.
	// Returns ErrFallbackToCPU if the mask cannot be GPU-accelerated.
	ResolveMasked(dst, src AccelBuffer, mask *SpanMask) error
}

// DeviceProviderAware is an optional interface for accelerators that can share
// GPU resources with an external provider (e.g., gogpu window).
// When SetDeviceProvider is called, the accelerator reuses the provided GPU
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator for optional GPU resolves.
//
// Only one accelerator can be registered. Subsequent calls replace the previous one.
// The accelerator's Init() method is called during registration.
// If Init() fails, the accelerator is not registered and the error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    shade.RegisterAccelerator(NewWGPUAccelerator())
//	}
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("shade: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered GPU accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
