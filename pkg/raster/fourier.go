package raster

import (
	"math"
	"math/cmplx"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Spectrum computes the unnormalized 2D discrete Fourier transform of the
// image's grayscale intensity (mean of R, G and B). The result is row-major
// with the same dimensions as the image.
func Spectrum(img *Image) []complex128 {
	data := make([]complex128, len(img.pixels))
	for i, p := range img.pixels {
		data[i] = complex((p[0]+p[1]+p[2])/3, 0)
	}
	transform2D(img.width, img.height, data, false)
	return data
}

// Reconstruct inverts a width x height spectrum produced by Spectrum, scaling
// by 1/(width*height) so that Reconstruct(Spectrum(img)) recovers the
// grayscale intensities.
func Reconstruct(width, height int, spectrum []complex128) []complex128 {
	core.Assertf(len(spectrum) == width*height, "spectrum has %d coefficients, want %dx%d", len(spectrum), width, height)
	data := make([]complex128, len(spectrum))
	copy(data, spectrum)
	transform2D(width, height, data, true)

	scale := complex(1/float64(width*height), 0)
	for i := range data {
		data[i] *= scale
	}
	return data
}

// transform2D runs a 1D FFT over every row and then every column, in place
func transform2D(width, height int, data []complex128, inverse bool) {
	if width == 0 || height == 0 {
		return
	}
	apply := func(fft *fourier.CmplxFFT, seq []complex128) {
		if inverse {
			fft.Sequence(seq, seq)
		} else {
			fft.Coefficients(seq, seq)
		}
	}

	rowFFT := fourier.NewCmplxFFT(width)
	for y := 0; y < height; y++ {
		apply(rowFFT, data[y*width:(y+1)*width])
	}

	colFFT := fourier.NewCmplxFFT(height)
	column := make([]complex128, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			column[y] = data[y*width+x]
		}
		apply(colFFT, column)
		for y := 0; y < height; y++ {
			data[y*width+x] = column[y]
		}
	}
}

// SpectrumFromImage reads coefficients stored with the real part in the red
// channel and the imaginary part in the green channel
func SpectrumFromImage(img *Image) []complex128 {
	data := make([]complex128, len(img.pixels))
	for i, p := range img.pixels {
		data[i] = complex(p[0], p[1])
	}
	return data
}

// SpectrumToImage stores coefficients in the layout SpectrumFromImage reads
func SpectrumToImage(width, height int, spectrum []complex128) *Image {
	return mapComplex(width, height, spectrum, func(c complex128) mgl64.Vec4 {
		return mgl64.Vec4{real(c), imag(c), 0, 1}
	})
}

// Amplitude renders |c| for every coefficient as a gray image
func Amplitude(width, height int, spectrum []complex128) *Image {
	return mapComplex(width, height, spectrum, func(c complex128) mgl64.Vec4 {
		a := cmplx.Abs(c)
		return mgl64.Vec4{a, a, a, 1}
	})
}

// Phase renders the coefficient angle remapped from [-pi, pi] to [0, 1]
func Phase(width, height int, spectrum []complex128) *Image {
	return mapComplex(width, height, spectrum, func(c complex128) mgl64.Vec4 {
		ph := (cmplx.Phase(c) + math.Pi) / (2 * math.Pi)
		return mgl64.Vec4{ph, ph, ph, 1}
	})
}

// ComplexToImage renders the real parts as a gray image. With normalize set
// the values are rescaled so the smallest maps to 0 and the largest to 1.
func ComplexToImage(width, height int, data []complex128, normalize bool) *Image {
	lo, hi := 0.0, 1.0
	if normalize && len(data) > 0 {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, c := range data {
			lo = math.Min(lo, real(c))
			hi = math.Max(hi, real(c))
		}
	}
	span := hi - lo
	return mapComplex(width, height, data, func(c complex128) mgl64.Vec4 {
		v := real(c) - lo
		if span > 0 {
			v /= span
		}
		return mgl64.Vec4{v, v, v, 1}
	})
}

func mapComplex(width, height int, data []complex128, fn func(complex128) mgl64.Vec4) *Image {
	core.Assertf(len(data) == width*height, "got %d values for a %dx%d image", len(data), width, height)
	img := New(width, height)
	for i, c := range data {
		img.pixels[i] = fn(c)
	}
	return img
}
