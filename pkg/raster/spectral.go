package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/integrate"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// CIE 1931 2 degree standard observer sampled every 10nm from 380nm to 780nm
const (
	cmfStart = 380.0
	cmfStep  = 10.0
)

var cmfX = []float64{
	0.001368, 0.004243, 0.014310, 0.043510, 0.134380, 0.283900, 0.348280, 0.336200,
	0.290800, 0.195360, 0.095640, 0.032010, 0.004900, 0.009300, 0.063270, 0.165500,
	0.290400, 0.433450, 0.594500, 0.762100, 0.916300, 1.026300, 1.062200, 1.002600,
	0.854450, 0.642400, 0.447900, 0.283500, 0.164900, 0.087400, 0.046770, 0.022700,
	0.011359, 0.005790, 0.002899, 0.001440, 0.000690, 0.000332, 0.000166, 0.000083,
	0.000042,
}

var cmfY = []float64{
	0.000039, 0.000120, 0.000396, 0.001210, 0.004000, 0.011600, 0.023000, 0.038000,
	0.060000, 0.090980, 0.139020, 0.208020, 0.323000, 0.503000, 0.710000, 0.862000,
	0.954000, 0.994950, 0.995000, 0.952000, 0.870000, 0.757000, 0.631000, 0.503000,
	0.381000, 0.265000, 0.175000, 0.107000, 0.061000, 0.032000, 0.017000, 0.008210,
	0.004102, 0.002091, 0.001047, 0.000520, 0.000249, 0.000120, 0.000060, 0.000030,
	0.000015,
}

var cmfZ = []float64{
	0.006450, 0.020050, 0.067850, 0.207400, 0.645600, 1.385600, 1.747060, 1.772110,
	1.669200, 1.287640, 0.812950, 0.465180, 0.272000, 0.158200, 0.078250, 0.042160,
	0.020300, 0.008750, 0.003900, 0.002100, 0.001650, 0.001100, 0.000800, 0.000340,
	0.000190, 0.000050, 0.000020, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0,
}

// Wavelengths lists the sample positions in nanometres that spectra passed to
// SpectralToXYZ and SpectralToRGB are expected to use
var Wavelengths = func() []float64 {
	w := make([]float64, len(cmfY))
	for i := range w {
		w[i] = cmfStart + float64(i)*cmfStep
	}
	return w
}()

// luminance of the equal energy spectrum, used to normalize Y to 1
var cmfYIntegral = integrate.Trapezoidal(Wavelengths, cmfY)

// IntegrateTrapezoidal integrates the samples y taken at increasing positions x
// with the trapezoidal rule
func IntegrateTrapezoidal(x, y []float64) float64 {
	core.Assertf(len(x) == len(y), "got %d positions and %d samples", len(x), len(y))
	core.Assertf(len(x) > 1, "need at least 2 samples, got %d", len(x))
	return integrate.Trapezoidal(x, y)
}

// SpectralToXYZ projects a spectrum sampled at Wavelengths onto the CIE color
// matching functions. The result is scaled so a constant spectrum of 1 has Y=1.
func SpectralToXYZ(spectrum []float64) mgl64.Vec3 {
	core.Assertf(len(spectrum) == len(Wavelengths), "spectrum has %d samples, want %d", len(spectrum), len(Wavelengths))

	var xyz mgl64.Vec3
	product := make([]float64, len(spectrum))
	for c, cmf := range [3][]float64{cmfX, cmfY, cmfZ} {
		for i, s := range spectrum {
			product[i] = s * cmf[i]
		}
		xyz[c] = IntegrateTrapezoidal(Wavelengths, product) / cmfYIntegral
	}
	return xyz
}

// SpectralToRGB converts a spectrum sampled at Wavelengths to linear sRGB with
// alpha 1. Colors outside the sRGB gamut keep their negative components.
func SpectralToRGB(spectrum []float64) mgl64.Vec4 {
	xyz := SpectralToXYZ(spectrum)
	r, g, b := colorful.XyzToLinearRgb(xyz[0], xyz[1], xyz[2])
	return mgl64.Vec4{r, g, b, 1}
}

// VisibleSpectrum renders the monochromatic colors from 380nm to 780nm left to
// right. Negative components are clipped and the image is scaled so its
// brightest channel is 1.
func VisibleSpectrum(width, height int) *Image {
	img := New(width, height)
	if width == 0 || height == 0 {
		return img
	}

	last := len(Wavelengths) - 1
	span := float64(last) * cmfStep
	columns := make([]mgl64.Vec4, width)
	peak := 0.0
	spectrum := make([]float64, len(Wavelengths))
	for x := range columns {
		pos := (float64(x) + 0.5) / float64(width) * span / cmfStep
		i := int(pos)
		f := pos - float64(i)
		for j := range spectrum {
			spectrum[j] = 0
		}
		spectrum[i] = 1 - f
		if i < last {
			spectrum[i+1] = f
		}

		c := SpectralToRGB(spectrum)
		for k := 0; k < 3; k++ {
			c[k] = math.Max(c[k], 0)
			peak = math.Max(peak, c[k])
		}
		columns[x] = c
	}

	for y := 0; y < height; y++ {
		for x, c := range columns {
			if peak > 0 {
				c = mgl64.Vec4{c[0] / peak, c[1] / peak, c[2] / peak, 1}
			}
			img.SetPixel(x, y, c)
		}
	}
	return img
}
