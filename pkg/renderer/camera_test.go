package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCamera_CenterRay(t *testing.T) {
	camera := NewCamera(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, -7}, mgl64.Vec3{0, 1, 0}, 45, 400, 200)

	ray := camera.Ray(200, 100)
	if !ray.Origin.ApproxEqual(mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Expected origin at camera position, got %v", ray.Origin)
	}
	if !ray.Direction.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("Expected center ray along -Z, got %v", ray.Direction)
	}
}

func TestCamera_ImageOrientation(t *testing.T) {
	camera := NewCamera(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}, 90, 100, 100)

	topLeft := camera.Ray(0, 0).Direction
	if topLeft[0] >= 0 || topLeft[1] <= 0 {
		t.Errorf("Expected top-left ray to point left and up, got %v", topLeft)
	}
	bottomRight := camera.Ray(100, 100).Direction
	if bottomRight[0] <= 0 || bottomRight[1] >= 0 {
		t.Errorf("Expected bottom-right ray to point right and down, got %v", bottomRight)
	}

	// 90 degree vertical field of view puts the top edge at 45 degrees
	top := camera.Ray(50, 0).Direction
	angle := math.Atan2(top[1], -top[2])
	if math.Abs(angle-math.Pi/4) > 1e-9 {
		t.Errorf("Expected top edge at 45 degrees, got %f", mgl64.RadToDeg(angle))
	}
}

func TestCamera_PixelAndCornerRays(t *testing.T) {
	camera := createQuadCamera(4, 4)

	center := camera.PixelRay(1, 2)
	expected := camera.Ray(1.5, 2.5)
	if !center.Direction.ApproxEqual(expected.Direction) {
		t.Errorf("Expected pixel ray through (1.5, 2.5), got %v", center.Direction)
	}

	corners := camera.CornerRays(1, 2)
	points := [][2]float64{{1, 2}, {2, 2}, {1, 3}, {2, 3}}
	for i, p := range points {
		if !corners[i].Direction.ApproxEqual(camera.Ray(p[0], p[1]).Direction) {
			t.Errorf("Corner %d: expected ray through %v", i, p)
		}
		if math.Abs(corners[i].Direction.Len()-1) > 1e-12 {
			t.Errorf("Corner %d: expected unit direction", i)
		}
	}
}

func TestCamera_Contract(t *testing.T) {
	origin := mgl64.Vec3{0, 0, 0}
	forward := mgl64.Vec3{0, 0, -1}
	up := mgl64.Vec3{0, 1, 0}

	mustPanic(t, "zero width", func() { NewCamera(origin, forward, up, 45, 0, 10) })
	mustPanic(t, "zero fov", func() { NewCamera(origin, forward, up, 0, 10, 10) })
	mustPanic(t, "look at self", func() { NewCamera(origin, origin, up, 45, 10, 10) })
	mustPanic(t, "up parallel", func() { NewCamera(origin, forward, forward, 45, 10, 10) })
}
