package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Camera is a pinhole camera. Pixel (0, 0) is the top-left corner of the
// image; rays pass through pixel coordinates in [0, width] x [0, height].
type Camera struct {
	origin          mgl64.Vec3
	upperLeftCorner mgl64.Vec3
	horizontal      mgl64.Vec3 // Spans the full image width
	vertical        mgl64.Vec3 // Spans the full image height, pointing down
	width, height   int
}

// NewCamera creates a camera at position looking at lookAt with the given
// vertical field of view in degrees
func NewCamera(position, lookAt, up mgl64.Vec3, fovY float64, width, height int) *Camera {
	core.Assertf(width > 0 && height > 0, "image size %dx%d must be positive", width, height)
	core.Assertf(fovY > 0 && fovY < 180, "field of view %f must be in (0, 180)", fovY)
	forward := lookAt.Sub(position)
	core.Assert(forward.Len() > 0, "camera position and look-at point coincide")
	forward = forward.Normalize()
	right := forward.Cross(up)
	core.Assert(right.Len() > 1e-12, "camera up vector is parallel to the view direction")
	right = right.Normalize()
	trueUp := right.Cross(forward)

	aspect := float64(width) / float64(height)
	viewportHeight := 2 * math.Tan(mgl64.DegToRad(fovY)/2)
	viewportWidth := aspect * viewportHeight

	horizontal := right.Mul(viewportWidth)
	vertical := trueUp.Mul(-viewportHeight)
	upperLeft := position.Add(forward).
		Sub(horizontal.Mul(0.5)).
		Sub(vertical.Mul(0.5))

	return &Camera{
		origin:          position,
		upperLeftCorner: upperLeft,
		horizontal:      horizontal,
		vertical:        vertical,
		width:           width,
		height:          height,
	}
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Ray returns the ray through continuous pixel coordinates (x, y)
func (c *Camera) Ray(x, y float64) core.Ray {
	target := c.upperLeftCorner.
		Add(c.horizontal.Mul(x / float64(c.width))).
		Add(c.vertical.Mul(y / float64(c.height)))
	return core.NewRayNormalized(c.origin, target.Sub(c.origin))
}

// PixelRay returns the ray through the center of pixel (x, y)
func (c *Camera) PixelRay(x, y int) core.Ray {
	return c.Ray(float64(x)+0.5, float64(y)+0.5)
}

// CornerRays returns the rays through the four corners of pixel (x, y):
// top-left, top-right, bottom-left, bottom-right
func (c *Camera) CornerRays(x, y int) [4]core.Ray {
	fx, fy := float64(x), float64(y)
	return [4]core.Ray{
		c.Ray(fx, fy),
		c.Ray(fx+1, fy),
		c.Ray(fx, fy+1),
		c.Ray(fx+1, fy+1),
	}
}
