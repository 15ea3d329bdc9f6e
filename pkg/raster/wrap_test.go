package raster

import (
	"testing"
)

func TestWrapRepeatIndex_Periodic(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		for v := -40; v <= 40; v++ {
			base := WrapRepeatIndex(v, n)
			if base < 0 || base >= n {
				t.Fatalf("WrapRepeatIndex(%d, %d) = %d out of range", v, n, base)
			}
			for k := -3; k <= 3; k++ {
				if got := WrapRepeatIndex(v+k*n, n); got != base {
					t.Errorf("WrapRepeatIndex(%d, %d): expected %d, got %d", v+k*n, n, base, got)
				}
			}
		}
	}
	if got := WrapRepeatIndex(-1, 4); got != 3 {
		t.Errorf("Expected -1 to wrap to 3, got %d", got)
	}
}

func TestWrapClampIndex_Range(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		for v := -20; v <= 20; v++ {
			got := WrapClampIndex(v, n)
			if got < 0 || got >= n {
				t.Errorf("WrapClampIndex(%d, %d) = %d out of range", v, n, got)
			}
			if v >= 0 && v < n && got != v {
				t.Errorf("WrapClampIndex(%d, %d) should not move in-range values, got %d", v, n, got)
			}
		}
	}
	mustPanic(t, "empty range", func() { WrapClampIndex(0, 0) })
	mustPanic(t, "empty repeat range", func() { WrapRepeatIndex(0, 0) })
}

func TestWrapZero_ReturnsZeroColor(t *testing.T) {
	img := randomImage(2, 4, 4)
	for _, c := range [][2]int{{-1, 0}, {4, 0}, {0, -1}, {0, 4}, {-10, 30}} {
		p := img.PixelWrapped(c[0], c[1], WrapZero)
		if p[0] != 0 || p[1] != 0 || p[2] != 0 || p[3] != 0 {
			t.Errorf("Expected zero color at %v, got %v", c, p)
		}
	}
}

func TestParseWrapMode(t *testing.T) {
	tests := []struct {
		in      string
		want    WrapMode
		wantErr bool
	}{
		{"zero", WrapZero, false},
		{"Clamp", WrapClamp, false},
		{" repeat ", WrapRepeat, false},
		{"mirror", WrapZero, true},
	}
	for _, tt := range tests {
		got, err := ParseWrapMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWrapMode(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseWrapMode(%q): expected %v, got %v", tt.in, tt.want, got)
		}
		if !tt.wantErr && got.String() != wrapModeNames[tt.want] {
			t.Errorf("Expected name %q, got %q", wrapModeNames[tt.want], got.String())
		}
	}
}
