// Package raster provides a floating point RGBA image with wrap-aware pixel
// access, Gaussian filtering, downsampling and conversion to and from the
// standard library image types.
package raster

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Image is a row-major grid of RGBA pixels with float64 channels. Images are
// mutable; callers that share an image across goroutines must not write to
// it while others read.
type Image struct {
	width  int
	height int
	pixels []mgl64.Vec4
}

// New creates a width x height image with every pixel zero
func New(width, height int) *Image {
	core.Assertf(width >= 0 && height >= 0, "invalid image size %dx%d", width, height)
	return &Image{
		width:  width,
		height: height,
		pixels: make([]mgl64.Vec4, width*height),
	}
}

// NewFilled creates an image with every pixel set to c
func NewFilled(width, height int, c mgl64.Vec4) *Image {
	img := New(width, height)
	img.Fill(c)
	return img
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Pixels exposes the backing row-major slice
func (img *Image) Pixels() []mgl64.Vec4 { return img.pixels }

// InBounds reports whether (x, y) addresses a stored pixel
func (img *Image) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.width && y < img.height
}

// Pixel returns the pixel at (x, y), which must be in bounds
func (img *Image) Pixel(x, y int) mgl64.Vec4 {
	core.Assertf(img.InBounds(x, y), "pixel (%d, %d) outside %dx%d image", x, y, img.width, img.height)
	return img.pixels[y*img.width+x]
}

// SetPixel stores c at (x, y), which must be in bounds
func (img *Image) SetPixel(x, y int, c mgl64.Vec4) {
	core.Assertf(img.InBounds(x, y), "pixel (%d, %d) outside %dx%d image", x, y, img.width, img.height)
	img.pixels[y*img.width+x] = c
}

// PixelWrapped returns the pixel at (x, y) with out-of-range coordinates
// resolved by mode. WrapZero yields the zero color outside the image.
func (img *Image) PixelWrapped(x, y int, mode WrapMode) mgl64.Vec4 {
	if img.InBounds(x, y) {
		return img.pixels[y*img.width+x]
	}
	if img.width == 0 || img.height == 0 {
		return mgl64.Vec4{}
	}
	switch mode {
	case WrapClamp:
		x, y = WrapClampIndex(x, img.width), WrapClampIndex(y, img.height)
	case WrapRepeat:
		x, y = WrapRepeatIndex(x, img.width), WrapRepeatIndex(y, img.height)
	default:
		return mgl64.Vec4{}
	}
	return img.pixels[y*img.width+x]
}

// Clone returns a deep copy
func (img *Image) Clone() *Image {
	out := &Image{width: img.width, height: img.height, pixels: make([]mgl64.Vec4, len(img.pixels))}
	copy(out.pixels, img.pixels)
	return out
}

// Fill sets every pixel to c
func (img *Image) Fill(c mgl64.Vec4) {
	for i := range img.pixels {
		img.pixels[i] = c
	}
}

// SameSize reports whether both images have identical dimensions
func (img *Image) SameSize(other *Image) bool {
	return img.width == other.width && img.height == other.height
}

// MaxDifference returns the largest per-channel absolute difference between
// two images of the same size
func (img *Image) MaxDifference(other *Image) float64 {
	core.Assert(img.SameSize(other), "image sizes differ")
	maxDiff := 0.0
	for i, p := range img.pixels {
		q := other.pixels[i]
		for c := 0; c < 4; c++ {
			d := p[c] - q[c]
			if d < 0 {
				d = -d
			}
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}
