package texture

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
)

// Checkerboard creates a procedural checkerboard pattern image
func Checkerboard(width, height, checkSize int, color1, color2 mgl64.Vec4) *raster.Image {
	core.Assertf(checkSize > 0, "check size must be positive, got %d", checkSize)
	img := raster.New(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alternate colors based on check position
			color := color1
			if (x/checkSize+y/checkSize)%2 != 0 {
				color = color2
			}
			img.SetPixel(x, y, color)
		}
	}
	return img
}

// UVDebug creates an image showing texel centers as colors: U maps to red,
// V maps to green
func UVDebug(width, height int) *raster.Image {
	img := raster.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := (float64(x) + 0.5) / float64(width)
			v := (float64(y) + 0.5) / float64(height)
			img.SetPixel(x, y, mgl64.Vec4{u, v, 0, 1})
		}
	}
	return img
}

// Gradient creates a vertical gradient from color1 (top) to color2 (bottom)
func Gradient(width, height int, color1, color2 mgl64.Vec4) *raster.Image {
	img := raster.New(width, height)
	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		color := lerp(color1, color2, t)
		for x := 0; x < width; x++ {
			img.SetPixel(x, y, color)
		}
	}
	return img
}

// HueStripes creates vertical stripes sweeping the hue circle at full
// saturation, converted to linear RGB
func HueStripes(width, height, stripes int) *raster.Image {
	core.Assertf(stripes > 0, "stripe count must be positive, got %d", stripes)
	img := raster.New(width, height)
	for x := 0; x < width; x++ {
		stripe := x * stripes / width
		r, g, b := colorful.Hsv(360*float64(stripe)/float64(stripes), 1, 1).LinearRgb()
		for y := 0; y < height; y++ {
			img.SetPixel(x, y, mgl64.Vec4{r, g, b, 1})
		}
	}
	return img
}
