package raster

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

func checkKernel(sigma float64, size int) {
	core.Assertf(size > 0, "kernel size must be positive, got %d", size)
	core.Assertf(size%2 == 1, "kernel size must be odd, got %d", size)
	core.Assertf(sigma > 0, "sigma must be positive, got %v", sigma)
}

// GaussianKernel1D samples a normalized Gaussian at integer offsets
// -(size/2) .. size/2, so the peak sits at index size/2
func GaussianKernel1D(sigma float64, size int) []float64 {
	checkKernel(sigma, size)

	half := size / 2
	kernel := make([]float64, size)
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = math.Exp(-x * x / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// GaussianKernel2D samples a normalized isotropic Gaussian on a size x size
// grid centered at (size/2, size/2), stored row-major
func GaussianKernel2D(sigma float64, size int) []float64 {
	checkKernel(sigma, size)

	half := size / 2
	kernel := make([]float64, size*size)
	for j := 0; j < size; j++ {
		y := float64(j - half)
		for i := 0; i < size; i++ {
			x := float64(i - half)
			kernel[j*size+i] = math.Exp(-(x*x + y*y) / (2 * sigma * sigma))
		}
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}
