package renderer

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

var black = mgl64.Vec4{0, 0, 0, 1}

// shadePixel computes the color of pixel (x, y) for the configured mode
func (r *Renderer) shadePixel(x, y int, stats *Stats) mgl64.Vec4 {
	switch r.config.Mode {
	case ModeTime:
		start := time.Now()
		r.shaded(x, y, stats)
		v := float64(time.Since(start).Nanoseconds()) / 1e6 * r.config.TimeExposure
		return gray(v)
	case ModeDesaturate:
		c := r.shaded(x, y, stats)
		return gray(luminance(c))
	case ModeShaded:
		return r.shaded(x, y, stats)
	}

	ray := r.camera.PixelRay(x, y)
	stats.PrimaryRays++
	isect, hit := r.scene.Intersect(ray)
	if !hit {
		return black
	}
	stats.Hits++

	switch r.config.Mode {
	case ModeNormal:
		n := isect.Normal
		return mgl64.Vec4{(n[0] + 1) / 2, (n[1] + 1) / 2, (n[2] + 1) / 2, 1}
	case ModeUV:
		return mgl64.Vec4{fract(isect.UV[0]), fract(isect.UV[1]), 0, 1}
	case ModeDuDv:
		dudv := ComputeUVFootprint(r.camera.CornerRays(x, y), isect, r.scene.Soup)
		return mgl64.Vec4{dudv[0] * r.config.DudvScale, dudv[1] * r.config.DudvScale, 0, 1}
	case ModeDepth:
		return gray(1 - math.Min(isect.T/r.config.DepthRange, 1))
	}
	return black
}

// shaded is diffuse shading: albedo times the sum of ambient and the
// unoccluded point light irradiance. Surfaces are lit from both sides.
func (r *Renderer) shaded(x, y int, stats *Stats) mgl64.Vec4 {
	ray := r.camera.PixelRay(x, y)
	stats.PrimaryRays++
	isect, hit := r.scene.Intersect(ray)
	if !hit {
		return r.scene.Background
	}
	stats.Hits++

	n := isect.Normal
	if n.Dot(ray.Direction) > 0 {
		n = n.Mul(-1)
	}

	dudv := ComputeUVFootprint(r.camera.CornerRays(x, y), isect, r.scene.Soup)
	albedo := r.scene.Albedo(isect, dudv)

	irradiance := mgl64.Vec3{r.config.Ambient, r.config.Ambient, r.config.Ambient}
	origin := isect.Position.Add(n.Mul(r.config.RayEpsilon))
	for _, light := range r.scene.Lights {
		toLight := light.Position.Sub(origin)
		dist := toLight.Len()
		if dist == 0 {
			continue
		}
		dir := toLight.Mul(1 / dist)
		cos := n.Dot(dir)
		if cos <= 0 {
			continue
		}
		stats.ShadowRays++
		if r.scene.Occluded(core.NewRay(origin, dir), dist) {
			continue
		}
		irradiance = irradiance.Add(light.Intensity.Mul(cos / (dist * dist)))
	}

	return mgl64.Vec4{albedo[0] * irradiance[0], albedo[1] * irradiance[1], albedo[2] * irradiance[2], 1}
}

// luminance returns the CIE Y of a linear RGB color
func luminance(c mgl64.Vec4) float64 {
	_, y, _ := colorful.LinearRgb(c[0], c[1], c[2]).Xyz()
	return y
}

func gray(v float64) mgl64.Vec4 {
	return mgl64.Vec4{v, v, v, 1}
}

func fract(v float64) float64 {
	return v - math.Floor(v)
}
