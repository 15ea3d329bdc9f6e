package renderer

import (
	"time"

	"github.com/df07/go-bvh-raytracer/pkg/raster"
)

// Stats contains statistics about the rendering process
type Stats struct {
	Pixels      int // Total number of pixels rendered
	Tiles       int // Tiles completed
	Workers     int
	PrimaryRays int // Camera rays traced through the BVH
	ShadowRays  int // Occlusion queries towards lights
	Hits        int // Camera rays that hit geometry
	Duration    time.Duration
}

// Add accumulates the counters of a tile into s
func (s *Stats) Add(tile Stats) {
	s.Pixels += tile.Pixels
	s.Tiles += tile.Tiles
	s.PrimaryRays += tile.PrimaryRays
	s.ShadowRays += tile.ShadowRays
	s.Hits += tile.Hits
}

// RaysPerSecond returns traced rays per second of wall time
func (s Stats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.PrimaryRays+s.ShadowRays) / s.Duration.Seconds()
}

// AverageLuminance returns the mean CIE Y of a linear image
func AverageLuminance(img *raster.Image) float64 {
	pixels := img.Pixels()
	if len(pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range pixels {
		total += luminance(p)
	}
	return total / float64(len(pixels))
}
