package shade

import (
	"testing"

	"golang.org/x/image/math/f32"
)

func TestNewFragmentBuffer(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"normal", 16, 9, 16, 9},
		{"single pixel", 1, 1, 1, 1},
		{"zero", 0, 0, 0, 0},
		{"negative width", -4, 4, 0, 0},
		{"negative height", 4, -4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFragmentBuffer(tt.width, tt.height)
			if fb.Width() != tt.wantW || fb.Height() != tt.wantH {
				t.Errorf("NewFragmentBuffer(%d, %d) = %dx%d, want %dx%d",
					tt.width, tt.height, fb.Width(), fb.Height(), tt.wantW, tt.wantH)
			}
			if len(fb.Frags()) != tt.wantW*tt.wantH {
				t.Errorf("len(Frags()) = %d, want %d", len(fb.Frags()), tt.wantW*tt.wantH)
			}
		})
	}
}

func TestFragmentBufferSetAt(t *testing.T) {
	fb := NewFragmentBuffer(4, 3)

	col := f32.Vec4{188, 64, 32, 255}
	fb.Set(2, 1, col)

	if got := fb.At(2, 1); got != col {
		t.Errorf("At(2, 1) = %v, want %v", got, col)
	}
	if got := fb.At(0, 0); got != (f32.Vec4{}) {
		t.Errorf("At(0, 0) = %v, want zero fragment", got)
	}
}

func TestFragmentBufferOutOfBounds(t *testing.T) {
	fb := NewFragmentBuffer(2, 2)
	fb.Fill(f32.Vec4{1, 2, 3, 4})

	// Out-of-bounds stores are dropped, loads return zero.
	fb.Set(-1, 0, f32.Vec4{9, 9, 9, 9})
	fb.Set(0, 2, f32.Vec4{9, 9, 9, 9})
	fb.Set(2, 0, f32.Vec4{9, 9, 9, 9})

	for _, frag := range fb.Frags() {
		if frag != (f32.Vec4{1, 2, 3, 4}) {
			t.Fatalf("out-of-bounds Set modified buffer: %v", frag)
		}
	}

	if got := fb.At(-1, 0); got != (f32.Vec4{}) {
		t.Errorf("At(-1, 0) = %v, want zero", got)
	}
	if got := fb.At(0, 5); got != (f32.Vec4{}) {
		t.Errorf("At(0, 5) = %v, want zero", got)
	}
	if fb.Index(3, 3) != -1 {
		t.Errorf("Index(3, 3) = %d, want -1", fb.Index(3, 3))
	}
}

func TestFragmentBufferRow(t *testing.T) {
	fb := NewFragmentBuffer(3, 2)
	fb.Set(0, 1, f32.Vec4{10, 0, 0, 255})
	fb.Set(2, 1, f32.Vec4{30, 0, 0, 255})

	row := fb.Row(1)
	if len(row) != 3 {
		t.Fatalf("len(Row(1)) = %d, want 3", len(row))
	}
	if row[0][0] != 10 || row[2][0] != 30 {
		t.Errorf("Row(1) = %v, want fragments at x=0 and x=2", row)
	}

	// Row aliases the buffer.
	row[1] = f32.Vec4{20, 0, 0, 255}
	if got := fb.At(1, 1); got[0] != 20 {
		t.Errorf("write through Row not visible: At(1, 1) = %v", got)
	}

	if fb.Row(-1) != nil || fb.Row(2) != nil {
		t.Error("out-of-bounds Row should return nil")
	}
}

func TestFragmentBufferFillClear(t *testing.T) {
	fb := NewFragmentBuffer(4, 4)
	fb.Fill(f32.Vec4{255, 128, 64, 255})

	for _, frag := range fb.Frags() {
		if frag != (f32.Vec4{255, 128, 64, 255}) {
			t.Fatalf("Fill missed a fragment: %v", frag)
		}
	}

	fb.Clear()
	for _, frag := range fb.Frags() {
		if frag != (f32.Vec4{}) {
			t.Fatalf("Clear missed a fragment: %v", frag)
		}
	}
}
