package raster

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

// randomImage fills an image with reproducible noise
func randomImage(seed int64, width, height int) *Image {
	rng := rand.New(rand.NewSource(seed))
	img := New(width, height)
	for i := range img.pixels {
		img.pixels[i] = mgl64.Vec4{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
	}
	return img
}

func TestImage_New(t *testing.T) {
	img := New(4, 3)
	if img.Width() != 4 || img.Height() != 3 || len(img.Pixels()) != 12 {
		t.Errorf("Expected 4x3 image with 12 pixels, got %dx%d with %d", img.Width(), img.Height(), len(img.Pixels()))
	}
	if New(0, 0).Width() != 0 {
		t.Errorf("Expected empty image to be allowed")
	}
	mustPanic(t, "negative width", func() { New(-1, 2) })
	mustPanic(t, "negative height", func() { New(2, -1) })
}

func TestImage_PixelAccess(t *testing.T) {
	img := New(2, 2)
	c := mgl64.Vec4{0.1, 0.2, 0.3, 1}
	img.SetPixel(1, 0, c)
	if img.Pixel(1, 0) != c {
		t.Errorf("Expected %v, got %v", c, img.Pixel(1, 0))
	}
	if img.Pixels()[1] != c {
		t.Errorf("Expected row-major storage")
	}
	mustPanic(t, "read out of bounds", func() { img.Pixel(2, 0) })
	mustPanic(t, "write out of bounds", func() { img.SetPixel(0, -1, c) })
}

func TestImage_PixelWrapped(t *testing.T) {
	img := New(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetPixel(x, y, mgl64.Vec4{float64(x), float64(y), 0, 1})
		}
	}

	tests := []struct {
		name string
		x, y int
		mode WrapMode
		want mgl64.Vec4
	}{
		{"inside", 1, 1, WrapZero, mgl64.Vec4{1, 1, 0, 1}},
		{"zero left", -1, 0, WrapZero, mgl64.Vec4{}},
		{"zero below", 0, 2, WrapZero, mgl64.Vec4{}},
		{"clamp left", -5, 0, WrapClamp, mgl64.Vec4{0, 0, 0, 1}},
		{"clamp corner", 7, 9, WrapClamp, mgl64.Vec4{2, 1, 0, 1}},
		{"repeat negative", -1, -1, WrapRepeat, mgl64.Vec4{2, 1, 0, 1}},
		{"repeat far", 7, 4, WrapRepeat, mgl64.Vec4{1, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.PixelWrapped(tt.x, tt.y, tt.mode); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestImage_CloneAndFill(t *testing.T) {
	img := randomImage(1, 3, 3)
	clone := img.Clone()
	if clone.MaxDifference(img) != 0 {
		t.Errorf("Expected identical clone")
	}
	clone.Fill(mgl64.Vec4{1, 1, 1, 1})
	if img.Pixel(0, 0) == clone.Pixel(0, 0) {
		t.Errorf("Expected clone storage to be independent")
	}
	for _, p := range clone.Pixels() {
		if p != (mgl64.Vec4{1, 1, 1, 1}) {
			t.Fatalf("Expected filled pixel, got %v", p)
		}
	}
}
