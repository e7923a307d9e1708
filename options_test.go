package shade

import (
	"runtime"
	"testing"

	"golang.org/x/image/math/f32"
)

// TestNewPassDefault tests that NewPass resolves in parallel by default.
func TestNewPassDefault(t *testing.T) {
	pass := NewPass()
	defer pass.Close()

	// Default worker count follows GOMAXPROCS.
	if pass.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers() = %d, want %d", pass.Workers(), runtime.GOMAXPROCS(0))
	}
}

// TestNewPassWithWorkers tests explicit worker counts.
func TestNewPassWithWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"serial", 1, 1},
		{"four workers", 4, 4},
		{"zero selects GOMAXPROCS", 0, runtime.GOMAXPROCS(0)},
		{"negative selects GOMAXPROCS", -3, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass := NewPass(WithWorkers(tt.workers))
			defer pass.Close()

			if pass.Workers() != tt.want {
				t.Errorf("Workers() = %d, want %d", pass.Workers(), tt.want)
			}
		})
	}
}

// TestNewPassWithKernel tests dependency injection of a custom kernel.
func TestNewPassWithKernel(t *testing.T) {
	called := 0
	kernel := func(col f32.Vec4) f32.Vec4 {
		called++
		out := Resolve(col)
		out[3] = 1
		return out
	}

	pass := NewPass(WithWorkers(1), WithKernel(kernel))
	defer pass.Close()

	frags := NewFragmentBuffer(2, 1)
	frags.Fill(f32.Vec4{128, 128, 128, 64})
	dst := newRecordingTarget(2, 1)

	if err := pass.Resolve(dst, frags); err != nil {
		t.Fatalf("Resolve() = %v", err)
	}

	if called != 2 {
		t.Errorf("custom kernel called %d times, want 2", called)
	}
	if got := dst.Load(0, 0); got[3] != 1 {
		t.Errorf("alpha = %v, want 1 from custom kernel", got[3])
	}
}

// TestWithKernelNil tests that a nil kernel keeps the default.
func TestWithKernelNil(t *testing.T) {
	pass := NewPass(WithWorkers(1), WithKernel(nil))
	defer pass.Close()

	frags := NewFragmentBuffer(1, 1)
	frags.Set(0, 0, f32.Vec4{255, 255, 255, 255})
	dst := newRecordingTarget(1, 1)

	if err := pass.Resolve(dst, frags); err != nil {
		t.Fatalf("Resolve() = %v", err)
	}

	if got := dst.Load(0, 0); !vec4Near(got, f32.Vec4{1, 1, 1, 1}, 1e-5) {
		t.Errorf("WithKernel(nil) broke the default kernel: got %v", got)
	}
}

// TestPassOptionsCombined tests combining multiple options.
func TestPassOptionsCombined(t *testing.T) {
	kernel := func(col f32.Vec4) f32.Vec4 { return Resolve(col) }

	pass := NewPass(
		WithWorkers(2),
		WithKernel(kernel),
	)
	defer pass.Close()

	if pass.Workers() != 2 {
		t.Errorf("Workers() = %d, want 2", pass.Workers())
	}
	if !pass.opts.customKernel {
		t.Error("customKernel flag not set by WithKernel")
	}
}
