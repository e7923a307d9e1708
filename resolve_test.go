package shade

import (
	"math"
	"testing"

	"golang.org/x/image/math/f32"
)

// TestResolveBlackWhite verifies the identity endpoints: byte black maps to
// zero output and byte white maps to unit output.
func TestResolveBlackWhite(t *testing.T) {
	tests := []struct {
		name string
		col  f32.Vec4
		want f32.Vec4
	}{
		{"black", f32.Vec4{0, 0, 0, 0}, f32.Vec4{0, 0, 0, 0}},
		{"white", f32.Vec4{255, 255, 255, 255}, f32.Vec4{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.col)
			if !vec4Near(got, tt.want, 1e-5) {
				t.Errorf("Resolve(%v) = %v, want %v", tt.col, got, tt.want)
			}
		})
	}
}

// TestResolveKnownValues checks anchor points of the resolve curve.
func TestResolveKnownValues(t *testing.T) {
	// 188/255 interpolated gray, encoded through the upper curve piece.
	midGray := 1.055*float32(math.Pow(188.0/255.0, 1.0/2.4)) - 0.055

	tests := []struct {
		name string
		col  f32.Vec4
		want f32.Vec4
	}{
		{
			name: "mid gray 188",
			col:  f32.Vec4{188, 188, 188, 255},
			want: f32.Vec4{midGray, midGray, midGray, 1},
		},
		{
			name: "half alpha",
			col:  f32.Vec4{0, 0, 0, 128},
			want: f32.Vec4{0, 0, 0, 0.5019608},
		},
		{
			name: "red only",
			col:  f32.Vec4{255, 0, 0, 255},
			want: f32.Vec4{1, 0, 0, 1},
		},
		{
			name: "deep shadow in linear segment",
			col:  f32.Vec4{0.5, 0.5, 0.5, 255},
			want: f32.Vec4{0.5 / 255.0 * 12.92, 0.5 / 255.0 * 12.92, 0.5 / 255.0 * 12.92, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.col)
			if !vec4Near(got, tt.want, 1e-5) {
				t.Errorf("Resolve(%v) = %v, want %v", tt.col, got, tt.want)
			}
		})
	}
}

// TestResolveAlphaLinear verifies alpha is normalized but never
// gamma-encoded: output alpha is exactly input/255 for the whole range.
func TestResolveAlphaLinear(t *testing.T) {
	for _, a := range []float32{0, 1, 64, 127.5, 128, 191, 254, 255} {
		out := Resolve(f32.Vec4{77, 77, 77, a})
		want := a / 255.0
		if !floatNear(out[3], want, 1e-6) {
			t.Errorf("Resolve alpha %v = %v, want %v", a, out[3], want)
		}
	}

	// Midpoint alpha must keep its linear value, not the encoded one.
	out := Resolve(f32.Vec4{128, 128, 128, 128})
	if floatNear(out[3], out[0], 1e-3) {
		t.Errorf("alpha %v tracks the encoded RGB %v; alpha must stay linear", out[3], out[0])
	}
}

// TestResolveMonotonic verifies strict per-channel monotonicity over all
// byte steps. Gradient ordering survives the resolve.
func TestResolveMonotonic(t *testing.T) {
	prev := Resolve(f32.Vec4{0, 0, 0, 0})
	for v := 1; v <= 255; v++ {
		cur := Resolve(f32.Vec4{float32(v), float32(v), float32(v), float32(v)})
		for ch := 0; ch < 4; ch++ {
			if cur[ch] <= prev[ch] {
				t.Fatalf("channel %d not strictly increasing at byte %d: %v <= %v",
					ch, v, cur[ch], prev[ch])
			}
		}
		prev = cur
	}
}

// TestResolveThresholdContinuity verifies the two encode pieces join without
// a step at the linear-segment threshold (byte value 255*0.0031308).
func TestResolveThresholdContinuity(t *testing.T) {
	const knee = 0.0031308 * 255.0 // ≈ 0.7984

	below := Resolve(f32.Vec4{knee - 0.001, 0, 0, 255})
	above := Resolve(f32.Vec4{knee + 0.001, 0, 0, 255})

	gap := float32(math.Abs(float64(above[0] - below[0])))
	if gap > 1e-4 {
		t.Errorf("discontinuity at encode threshold: below=%v above=%v gap=%v",
			below[0], above[0], gap)
	}
}

// TestResolveUnclamped verifies out-of-range components pass through the
// curve unclamped in both directions.
func TestResolveUnclamped(t *testing.T) {
	t.Run("over-range stays above one", func(t *testing.T) {
		out := Resolve(f32.Vec4{300, 255, 255, 255})
		if out[0] <= 1 {
			t.Errorf("Resolve(300).R = %v, want value > 1", out[0])
		}
	})

	t.Run("negative stays negative", func(t *testing.T) {
		out := Resolve(f32.Vec4{-51, 0, 0, 255})
		want := float32(-51.0 / 255.0 * 12.92)
		if !floatNear(out[0], want, 1e-5) {
			t.Errorf("Resolve(-51).R = %v, want %v", out[0], want)
		}
	})

	t.Run("alpha over-range scales linearly", func(t *testing.T) {
		out := Resolve(f32.Vec4{0, 0, 0, 510})
		if !floatNear(out[3], 2.0, 1e-6) {
			t.Errorf("Resolve(alpha 510) = %v, want 2.0", out[3])
		}
	})
}

// TestResolveUnresolveRoundTrip verifies Unresolve inverts Resolve across
// the byte range, within 1e-4 in normalized space.
func TestResolveUnresolveRoundTrip(t *testing.T) {
	const samples = 51
	for i := 0; i < samples; i++ {
		v := float32(i) * 255.0 / float32(samples-1)
		col := f32.Vec4{v, v, v, v}
		rt := Unresolve(Resolve(col))

		for ch := 0; ch < 4; ch++ {
			diff := math.Abs(float64(rt[ch]-v)) / 255.0
			if diff > 1e-4 {
				t.Errorf("round-trip sample %v channel %d: got %v, normalized diff %v",
					v, ch, rt[ch], diff)
			}
		}
	}
}

// TestResolveTo tests the bulk element-wise resolve.
func TestResolveTo(t *testing.T) {
	src := []f32.Vec4{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{188, 188, 188, 128},
	}

	t.Run("separate dst", func(t *testing.T) {
		dst := make([]f32.Vec4, len(src))
		n := ResolveTo(dst, src)
		if n != len(src) {
			t.Fatalf("ResolveTo returned %d, want %d", n, len(src))
		}
		for i := range src {
			if want := Resolve(src[i]); dst[i] != want {
				t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
			}
		}
	})

	t.Run("in place", func(t *testing.T) {
		buf := make([]f32.Vec4, len(src))
		copy(buf, src)
		ResolveTo(buf, buf)
		for i := range src {
			if want := Resolve(src[i]); buf[i] != want {
				t.Errorf("buf[%d] = %v, want %v", i, buf[i], want)
			}
		}
	})

	t.Run("short dst", func(t *testing.T) {
		dst := make([]f32.Vec4, 1)
		if n := ResolveTo(dst, src); n != 1 {
			t.Errorf("ResolveTo short dst returned %d, want 1", n)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if n := ResolveTo(nil, src); n != 0 {
			t.Errorf("ResolveTo(nil, src) = %d, want 0", n)
		}
	})
}

// TestResolveRGBA8 tests the quantized convenience form. Unlike Resolve,
// the byte conversion clamps, so out-of-range components saturate.
func TestResolveRGBA8(t *testing.T) {
	tests := []struct {
		name string
		col  f32.Vec4
		want [4]uint8
	}{
		{"black", f32.Vec4{0, 0, 0, 0}, [4]uint8{0, 0, 0, 0}},
		{"white", f32.Vec4{255, 255, 255, 255}, [4]uint8{255, 255, 255, 255}},
		{"mid gray keeps linear alpha", f32.Vec4{128, 128, 128, 128}, [4]uint8{188, 188, 188, 128}},
		{"out of range saturates", f32.Vec4{300, -60, 255, 510}, [4]uint8{255, 0, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRGBA8(tt.col); got != tt.want {
				t.Errorf("ResolveRGBA8(%v) = %v, want %v", tt.col, got, tt.want)
			}
		})
	}
}

// floatNear checks if two float32 values are within epsilon of each other.
func floatNear(a, b, epsilon float32) bool {
	return math.Abs(float64(a-b)) < float64(epsilon)
}

// vec4Near checks if two vectors are within epsilon per component.
func vec4Near(a, b f32.Vec4, epsilon float32) bool {
	return floatNear(a[0], b[0], epsilon) &&
		floatNear(a[1], b[1], epsilon) &&
		floatNear(a[2], b[2], epsilon) &&
		floatNear(a[3], b[3], epsilon)
}
