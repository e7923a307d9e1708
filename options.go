package shade

// PassOption configures a Pass during creation.
// Use functional options to customize Pass behavior.
//
// Example:
//
//	// Default: parallel resolve across all CPUs
//	pass := shade.NewPass()
//
//	// Serial resolve, custom kernel
//	pass := shade.NewPass(shade.WithWorkers(1), shade.WithKernel(myKernel))
type PassOption func(*passOptions)

// passOptions holds optional configuration for Pass creation.
type passOptions struct {
	workers int
	kernel  Kernel

	// customKernel records that WithKernel replaced the default kernel.
	// Accelerators implement the default resolve only, so a custom kernel
	// pins the pass to the CPU path.
	customKernel bool
}

// defaultPassOptions returns the default pass options.
func defaultPassOptions() passOptions {
	return passOptions{
		workers: 0, // 0 means runtime.GOMAXPROCS(0)
		kernel:  Resolve,
	}
}

// WithWorkers sets the number of worker goroutines used for parallel
// resolves. Zero selects runtime.GOMAXPROCS(0). One forces a serial
// resolve with no worker pool.
//
// Example:
//
//	pass := shade.NewPass(shade.WithWorkers(4))
func WithWorkers(n int) PassOption {
	return func(o *passOptions) {
		if n < 0 {
			n = 0
		}
		o.workers = n
	}
}

// WithKernel sets the per-fragment kernel applied by the Pass.
// The default is Resolve. A custom kernel must be safe for concurrent
// use from multiple goroutines; it is invoked once per fragment with
// no shared state.
//
// Example:
//
//	// Resolve, then force full opacity:
//	opaque := func(col f32.Vec4) f32.Vec4 {
//	    out := shade.Resolve(col)
//	    out[3] = 1
//	    return out
//	}
//	pass := shade.NewPass(shade.WithKernel(opaque))
func WithKernel(k Kernel) PassOption {
	return func(o *passOptions) {
		if k != nil {
			o.kernel = k
			o.customKernel = true
		}
	}
}
