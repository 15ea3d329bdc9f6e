package raster

import (
	"github.com/go-gl/mathgl/mgl64"
)

// HalfSize returns ceil(n/2), never less than 1 for positive n
func HalfSize(n int) int {
	return (n + 1) / 2
}

// Downsample halves each dimension (rounding up) by averaging each 2x2 block
// of source pixels. Blocks on the right or bottom edge of odd sized images
// average only the pixels that exist.
func Downsample(src *Image) *Image {
	dst := New(HalfSize(src.width), HalfSize(src.height))
	for y := 0; y < dst.height; y++ {
		for x := 0; x < dst.width; x++ {
			var sum mgl64.Vec4
			n := 0
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					sx, sy := 2*x+dx, 2*y+dy
					if src.InBounds(sx, sy) {
						sum = sum.Add(src.pixels[sy*src.width+sx])
						n++
					}
				}
			}
			dst.pixels[y*dst.width+x] = sum.Mul(1 / float64(n))
		}
	}
	return dst
}
