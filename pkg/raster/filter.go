package raster

import (
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// kernelSize returns the side length of a square kernel
func kernelSize(kernel []float64) int {
	size := int(math.Round(math.Sqrt(float64(len(kernel)))))
	core.Assertf(size*size == len(kernel), "kernel of %d weights is not square", len(kernel))
	core.Assertf(size > 0 && size%2 == 1, "kernel size must be positive and odd, got %d", size)
	return size
}

// Filter convolves src with a square row-major kernel and returns a new image
// of the same size. Source pixels outside the image are resolved by mode.
func Filter(src *Image, kernel []float64, mode WrapMode) *Image {
	size := kernelSize(kernel)
	half := size / 2
	dst := New(src.width, src.height)

	forEachRow(src.height, func(y int) {
		for x := 0; x < src.width; x++ {
			var sum mgl64.Vec4
			for j := 0; j < size; j++ {
				for i := 0; i < size; i++ {
					w := kernel[j*size+i]
					sum = sum.Add(src.PixelWrapped(x+i-half, y+j-half, mode).Mul(w))
				}
			}
			dst.pixels[y*dst.width+x] = sum
		}
	})
	return dst
}

// FilterSeparable applies a 1D kernel horizontally into a scratch image and
// then vertically into the result. For a kernel k it matches Filter with the
// outer product k*k^T.
func FilterSeparable(src *Image, kernel []float64, mode WrapMode) *Image {
	size := len(kernel)
	core.Assertf(size > 0 && size%2 == 1, "kernel size must be positive and odd, got %d", size)
	half := size / 2

	scratch := New(src.width, src.height)
	forEachRow(src.height, func(y int) {
		for x := 0; x < src.width; x++ {
			var sum mgl64.Vec4
			for i, w := range kernel {
				sum = sum.Add(src.PixelWrapped(x+i-half, y, mode).Mul(w))
			}
			scratch.pixels[y*scratch.width+x] = sum
		}
	})

	dst := New(src.width, src.height)
	forEachRow(src.height, func(y int) {
		for x := 0; x < src.width; x++ {
			var sum mgl64.Vec4
			for j, w := range kernel {
				sum = sum.Add(scratch.PixelWrapped(x, y+j-half, mode).Mul(w))
			}
			dst.pixels[y*dst.width+x] = sum
		}
	})
	return dst
}

// GaussianBlur filters src with a Gaussian of the given sigma and odd kernel
// size, using the separable path when requested
func GaussianBlur(src *Image, sigma float64, size int, mode WrapMode, separable bool) *Image {
	if separable {
		return FilterSeparable(src, GaussianKernel1D(sigma, size), mode)
	}
	return Filter(src, GaussianKernel2D(sigma, size), mode)
}

// forEachRow runs fn for every row in [0, height), spreading contiguous bands
// of rows over the available CPUs. Rows are written independently, so the
// result does not depend on scheduling.
func forEachRow(height int, fn func(y int)) {
	if height == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	band := (height + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < height; start += band {
		start := start
		end := min(start+band, height)
		g.Go(func() error {
			for y := start; y < end; y++ {
				fn(y)
			}
			return nil
		})
	}
	_ = g.Wait()
}
