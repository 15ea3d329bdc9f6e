package texture

import (
	"math"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
)

// FilterMode selects how an ImageTexture reconstructs colors between texels
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
	FilterTrilinear
	FilterDebugMip // Trilinear blend of a fixed color per mip level
)

var filterModeNames = map[FilterMode]string{
	FilterNearest:   "nearest",
	FilterBilinear:  "bilinear",
	FilterTrilinear: "trilinear",
	FilterDebugMip:  "debug",
}

func (m FilterMode) String() string {
	if name, ok := filterModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseFilterMode converts a configuration name to a FilterMode
func ParseFilterMode(s string) (FilterMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range filterModeNames {
		if n == name {
			return mode, nil
		}
	}
	return FilterNearest, errors.Errorf("unknown filter mode %q (want nearest, bilinear, trilinear or debug)", s)
}

// debugMipColors tints each mip level in FilterDebugMip mode, cycling for
// chains longer than the table
var debugMipColors = []mgl64.Vec4{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{1, 1, 0, 0},
	{1, 0, 1, 0},
	{0, 1, 1, 0},
}

// ImageTexture samples an image with a configurable filter and wrap mode.
// The mip chain is built on first use and shared by all readers.
type ImageTexture struct {
	Filter FilterMode
	Wrap   raster.WrapMode

	base    *raster.Image
	mipOnce sync.Once
	mips    []*raster.Image // Levels 1 .. n-1, written once under mipOnce
}

// NewImageTexture wraps img, which becomes mip level 0 and must not be
// modified afterwards
func NewImageTexture(img *raster.Image, filter FilterMode, wrap raster.WrapMode) *ImageTexture {
	core.Assert(img != nil, "texture image must not be nil")
	core.Assertf(img.Width() > 0 && img.Height() > 0, "texture image must not be empty, got %dx%d", img.Width(), img.Height())
	return &ImageTexture{Filter: filter, Wrap: wrap, base: img}
}

func (t *ImageTexture) Width() int  { return t.base.Width() }
func (t *ImageTexture) Height() int { return t.base.Height() }

// CreateMipmap builds the mip chain: each level halves the previous one
// (rounding up) by box filtering until both dimensions reach 1. Safe to call
// repeatedly and concurrently; only the first call does any work.
func (t *ImageTexture) CreateMipmap() {
	t.mipOnce.Do(func() {
		level := t.base
		for level.Width() > 1 || level.Height() > 1 {
			level = raster.Downsample(level)
			t.mips = append(t.mips, level)
		}
	})
}

// MipLevels returns the full chain, level 0 first, creating it if needed
func (t *ImageTexture) MipLevels() []*raster.Image {
	t.CreateMipmap()
	levels := make([]*raster.Image, 0, 1+len(t.mips))
	levels = append(levels, t.base)
	return append(levels, t.mips...)
}

// NumLevels returns the length of the mip chain, creating it if needed
func (t *ImageTexture) NumLevels() int {
	t.CreateMipmap()
	return 1 + len(t.mips)
}

func (t *ImageTexture) level(l int) *raster.Image {
	if l == 0 {
		return t.base
	}
	t.CreateMipmap()
	core.Assertf(l > 0 && l <= len(t.mips), "mip level %d out of range", l)
	return t.mips[l-1]
}

// Texel fetches a single texel of a mip level with the wrap mode applied. In
// FilterDebugMip mode it returns the level's debug color instead.
func (t *ImageTexture) Texel(level, x, y int) mgl64.Vec4 {
	img := t.level(level)
	if t.Filter == FilterDebugMip {
		return debugMipColors[level%len(debugMipColors)]
	}
	return img.PixelWrapped(x, y, t.Wrap)
}

// EvaluateNearest returns the texel containing uv
func (t *ImageTexture) EvaluateNearest(level int, uv mgl64.Vec2) mgl64.Vec4 {
	img := t.level(level)
	s := uv[0] * float64(img.Width())
	r := uv[1] * float64(img.Height())
	return t.Texel(level, int(math.Floor(s)), int(math.Floor(r)))
}

// EvaluateBilinear blends the four texels whose centers surround uv. Texel
// centers sit at integer + 0.5 in pixel space, so sampling exactly at a
// center returns that texel unchanged.
func (t *ImageTexture) EvaluateBilinear(level int, uv mgl64.Vec2) mgl64.Vec4 {
	img := t.level(level)
	s := uv[0]*float64(img.Width()) - 0.5
	r := uv[1]*float64(img.Height()) - 0.5

	x0, y0 := math.Floor(s), math.Floor(r)
	fx, fy := s-x0, r-y0
	x, y := int(x0), int(y0)

	top := lerp(t.Texel(level, x, y), t.Texel(level, x+1, y), fx)
	bottom := lerp(t.Texel(level, x, y+1), t.Texel(level, x+1, y+1), fx)
	return lerp(top, bottom, fy)
}

// EvaluateTrilinear picks the two mip levels bracketing the footprint
// T = log2(max(dudv.x*W, dudv.y*H)) and blends their bilinear samples by the
// fractional part of T. Footprints of a texel or less sample level 0.
func (t *ImageTexture) EvaluateTrilinear(uv, dudv mgl64.Vec2) mgl64.Vec4 {
	size := math.Max(dudv[0]*float64(t.Width()), dudv[1]*float64(t.Height()))
	if !(size > 1) {
		return t.EvaluateBilinear(0, uv)
	}

	last := t.NumLevels() - 1
	if math.IsInf(size, 1) {
		return t.EvaluateBilinear(last, uv)
	}

	footprint := math.Log2(size)
	lower := math.Floor(footprint)
	frac := footprint - lower

	l0 := clampLevel(int(lower), last)
	l1 := clampLevel(int(lower)+1, last)
	if l0 == l1 {
		return t.EvaluateBilinear(l0, uv)
	}
	return lerp(t.EvaluateBilinear(l0, uv), t.EvaluateBilinear(l1, uv), frac)
}

// Evaluate dispatches on the texture's filter mode
func (t *ImageTexture) Evaluate(uv, dudv mgl64.Vec2) mgl64.Vec4 {
	switch t.Filter {
	case FilterNearest:
		return t.EvaluateNearest(0, uv)
	case FilterBilinear:
		return t.EvaluateBilinear(0, uv)
	case FilterTrilinear, FilterDebugMip:
		return t.EvaluateTrilinear(uv, dudv)
	default:
		return mgl64.Vec4{}
	}
}

func clampLevel(l, last int) int {
	if l < 0 {
		return 0
	}
	if l > last {
		return last
	}
	return l
}

func lerp(a, b mgl64.Vec4, f float64) mgl64.Vec4 {
	return a.Mul(1 - f).Add(b.Mul(f))
}
