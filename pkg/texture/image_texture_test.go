package texture

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/raster"
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

func noiseImage(seed int64, width, height int) *raster.Image {
	rng := rand.New(rand.NewSource(seed))
	img := raster.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetPixel(x, y, mgl64.Vec4{rng.Float64(), rng.Float64(), rng.Float64(), 1})
		}
	}
	return img
}

func TestImageTexture_BilinearAtTexelCenter(t *testing.T) {
	for _, size := range [][2]int{{4, 4}, {8, 2}, {16, 32}} {
		w, h := size[0], size[1]
		img := noiseImage(int64(w+h), w, h)
		for _, wrap := range []raster.WrapMode{raster.WrapZero, raster.WrapClamp, raster.WrapRepeat} {
			tex := NewImageTexture(img, FilterBilinear, wrap)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					uv := mgl64.Vec2{(float64(x) + 0.5) / float64(w), (float64(y) + 0.5) / float64(h)}
					if got := tex.EvaluateBilinear(0, uv); got != img.Pixel(x, y) {
						t.Fatalf("%dx%d %v texel (%d, %d): expected %v, got %v", w, h, wrap, x, y, img.Pixel(x, y), got)
					}
				}
			}
		}
	}
}

func TestImageTexture_BilinearBlends(t *testing.T) {
	img := raster.New(2, 1)
	img.SetPixel(0, 0, mgl64.Vec4{0, 0, 0, 1})
	img.SetPixel(1, 0, mgl64.Vec4{1, 1, 1, 1})
	tex := NewImageTexture(img, FilterBilinear, raster.WrapClamp)

	// Halfway between the two texel centers
	got := tex.Evaluate(mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{})
	if math.Abs(got[0]-0.5) > 1e-12 {
		t.Errorf("Expected 0.5, got %v", got)
	}
	// Clamp keeps the left edge at the first texel
	if got := tex.Evaluate(mgl64.Vec2{0, 0.5}, mgl64.Vec2{}); got[0] != 0 {
		t.Errorf("Expected clamped edge 0, got %v", got)
	}
	// Repeat blends the left edge with the opposite texel
	tex.Wrap = raster.WrapRepeat
	if got := tex.Evaluate(mgl64.Vec2{0, 0.5}, mgl64.Vec2{}); math.Abs(got[0]-0.5) > 1e-12 {
		t.Errorf("Expected repeated edge 0.5, got %v", got)
	}
}

func TestImageTexture_Nearest(t *testing.T) {
	img := noiseImage(5, 4, 4)
	tests := []struct {
		name string
		uv   mgl64.Vec2
		wrap raster.WrapMode
		want mgl64.Vec4
	}{
		{"inside", mgl64.Vec2{0.3, 0.6}, raster.WrapRepeat, img.Pixel(1, 2)},
		{"repeat", mgl64.Vec2{1.3, -0.4}, raster.WrapRepeat, img.Pixel(1, 2)},
		{"clamp", mgl64.Vec2{1.3, -0.4}, raster.WrapClamp, img.Pixel(3, 0)},
		{"zero", mgl64.Vec2{1.3, -0.4}, raster.WrapZero, mgl64.Vec4{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewImageTexture(img, FilterNearest, tt.wrap)
			if got := tex.Evaluate(tt.uv, mgl64.Vec2{1, 1}); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestImageTexture_MipChain(t *testing.T) {
	tests := []struct {
		w, h  int
		sizes [][2]int
	}{
		{8, 8, [][2]int{{8, 8}, {4, 4}, {2, 2}, {1, 1}}},
		{5, 3, [][2]int{{5, 3}, {3, 2}, {2, 1}, {1, 1}}},
		{1, 4, [][2]int{{1, 4}, {1, 2}, {1, 1}}},
		{1, 1, [][2]int{{1, 1}}},
	}
	for _, tt := range tests {
		tex := NewImageTexture(raster.New(tt.w, tt.h), FilterTrilinear, raster.WrapRepeat)
		levels := tex.MipLevels()
		if len(levels) != len(tt.sizes) || tex.NumLevels() != len(tt.sizes) {
			t.Errorf("%dx%d: expected %d levels, got %d", tt.w, tt.h, len(tt.sizes), len(levels))
			continue
		}
		for i, lvl := range levels {
			if lvl.Width() != tt.sizes[i][0] || lvl.Height() != tt.sizes[i][1] {
				t.Errorf("%dx%d level %d: expected %v, got %dx%d", tt.w, tt.h, i, tt.sizes[i], lvl.Width(), lvl.Height())
			}
		}
	}
}

func TestImageTexture_MipmapIsIdempotent(t *testing.T) {
	tex := NewImageTexture(noiseImage(2, 16, 16), FilterTrilinear, raster.WrapRepeat)
	tex.CreateMipmap()
	first := tex.MipLevels()
	tex.CreateMipmap()
	second := tex.MipLevels()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Expected level %d to be reused", i)
		}
	}
}

func TestImageTexture_ConcurrentLazyMipmap(t *testing.T) {
	tex := NewImageTexture(noiseImage(3, 64, 64), FilterTrilinear, raster.WrapRepeat)

	var wg sync.WaitGroup
	results := make([]mgl64.Vec4, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tex.Evaluate(mgl64.Vec2{0.3, 0.7}, mgl64.Vec2{0.1, 0.1})
		}(i)
	}
	wg.Wait()

	for i := range results {
		if results[i] != results[0] {
			t.Errorf("Expected identical samples, got %v and %v", results[0], results[i])
		}
	}
	if tex.NumLevels() != 7 {
		t.Errorf("Expected 7 levels, got %d", tex.NumLevels())
	}
}

func TestImageTexture_Trilinear(t *testing.T) {
	img := noiseImage(4, 8, 8)
	tex := NewImageTexture(img, FilterTrilinear, raster.WrapClamp)
	uv := mgl64.Vec2{0.4, 0.55}

	// Footprints up to one texel use level 0
	for _, dudv := range []mgl64.Vec2{{0, 0}, {0.1, 0.125}, {math.NaN(), 0}} {
		if got, want := tex.Evaluate(uv, dudv), tex.EvaluateBilinear(0, uv); got != want {
			t.Errorf("dudv %v: expected level 0 sample %v, got %v", dudv, want, got)
		}
	}

	// T = 1.5 blends levels 1 and 2 equally
	dudv := mgl64.Vec2{math.Pow(2, 1.5) / 8, 0}
	want := tex.EvaluateBilinear(1, uv).Add(tex.EvaluateBilinear(2, uv)).Mul(0.5)
	if got := tex.Evaluate(uv, dudv); !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Expected blend %v, got %v", want, got)
	}

	// Huge footprints clamp to the 1x1 level, the image mean
	var mean mgl64.Vec4
	for _, p := range img.Pixels() {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1.0 / 64)
	for _, dudv := range []mgl64.Vec2{{1, 1}, {100, 0}, {math.Inf(1), 0}} {
		if got := tex.Evaluate(uv, dudv); !got.ApproxEqualThreshold(mean, 1e-9) {
			t.Errorf("dudv %v: expected mean %v, got %v", dudv, mean, got)
		}
	}
}

func TestImageTexture_DebugMip(t *testing.T) {
	tex := NewImageTexture(noiseImage(6, 16, 16), FilterDebugMip, raster.WrapRepeat)
	uv := mgl64.Vec2{0.5, 0.5}

	tests := []struct {
		dudv mgl64.Vec2
		want mgl64.Vec4
	}{
		{mgl64.Vec2{0, 0}, debugMipColors[0]},
		{mgl64.Vec2{2.0 / 16, 0}, debugMipColors[1]},
		{mgl64.Vec2{4.0 / 16, 0}, debugMipColors[2]},
		{mgl64.Vec2{0, 8.0 / 16}, debugMipColors[3]},
	}
	for _, tt := range tests {
		if got := tex.Evaluate(uv, tt.dudv); !got.ApproxEqualThreshold(tt.want, 1e-12) {
			t.Errorf("dudv %v: expected %v, got %v", tt.dudv, tt.want, got)
		}
	}
	if got := tex.Texel(0, -100, 100); got != debugMipColors[0] {
		t.Errorf("Expected debug color regardless of wrap, got %v", got)
	}
}

func TestImageTexture_Contract(t *testing.T) {
	mustPanic(t, "nil image", func() { NewImageTexture(nil, FilterNearest, raster.WrapZero) })
	mustPanic(t, "empty image", func() { NewImageTexture(raster.New(0, 3), FilterNearest, raster.WrapZero) })

	tex := NewImageTexture(raster.New(4, 4), FilterNearest, raster.WrapZero)
	mustPanic(t, "level past chain", func() { tex.Texel(3, 0, 0) })
	mustPanic(t, "negative level", func() { tex.Texel(-1, 0, 0) })
}

func TestParseFilterMode(t *testing.T) {
	for mode, name := range filterModeNames {
		got, err := ParseFilterMode(name)
		if err != nil || got != mode {
			t.Errorf("ParseFilterMode(%q): expected %v, got %v (%v)", name, mode, got, err)
		}
		if mode.String() != name {
			t.Errorf("Expected name %q, got %q", name, mode.String())
		}
	}
	if _, err := ParseFilterMode("anisotropic"); err == nil {
		t.Errorf("Expected error for unknown filter mode")
	}
}
