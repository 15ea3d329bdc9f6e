package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// FromImage converts a decoded image to float RGBA in [0, 1]. With srgb set
// the color channels are linearized; alpha is always stored as is.
func FromImage(src image.Image, srgb bool) *Image {
	bounds := src.Bounds()
	img := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := color.NRGBA64Model.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			r := float64(c.R) / 0xffff
			g := float64(c.G) / 0xffff
			b := float64(c.B) / 0xffff
			if srgb {
				r, g, b = colorful.Color{R: r, G: g, B: b}.LinearRgb()
			}
			img.pixels[y*img.width+x] = mgl64.Vec4{r, g, b, float64(c.A) / 0xffff}
		}
	}
	return img
}

// ToImage quantizes the image to 8 bits per channel, clamping to [0, 1]. With
// srgb set linear color channels are encoded with the sRGB transfer curve.
func (img *Image) ToImage(srgb bool) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.width, img.height))
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			p := img.pixels[y*img.width+x]
			c := colorful.Color{R: clamp01(p[0]), G: clamp01(p[1]), B: clamp01(p[2])}
			if srgb {
				c = colorful.LinearRgb(c.R, c.G, c.B).Clamped()
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: quantize(c.R),
				G: quantize(c.G),
				B: quantize(c.B),
				A: quantize(clamp01(p[3])),
			})
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func quantize(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
