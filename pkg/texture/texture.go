// Package texture evaluates colors over UV space. Image textures support
// nearest, bilinear and mip-mapped trilinear filtering; any type with an
// Evaluate method can stand in for a texture.
package texture

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Texture provides spatially varying RGBA colors. uv is the sample position
// and dudv the size of the pixel footprint in UV space, used to pick a mip
// level. Implementations must be safe for concurrent use.
type Texture interface {
	Evaluate(uv, dudv mgl64.Vec2) mgl64.Vec4
}

// SolidColor provides uniform color
type SolidColor struct {
	Color mgl64.Vec4
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color mgl64.Vec4) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or footprint
func (s *SolidColor) Evaluate(uv, dudv mgl64.Vec2) mgl64.Vec4 {
	return s.Color
}
