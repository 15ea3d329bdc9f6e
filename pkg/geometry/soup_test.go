package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func unitQuadSoup() *TriangleSoup {
	b := NewMeshBuilder()
	b.AddQuad(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, 1, 3)
	return b.Build()
}

func TestTriangleSoup_Validation(t *testing.T) {
	mustPanic(t, "partial triangle", func() {
		NewTriangleSoup(make([]mgl64.Vec3, 4), nil, nil, nil)
	})
	mustPanic(t, "normal count mismatch", func() {
		NewTriangleSoup(make([]mgl64.Vec3, 3), make([]mgl64.Vec3, 2), nil, nil)
	})
	mustPanic(t, "material count mismatch", func() {
		NewTriangleSoup(make([]mgl64.Vec3, 3), nil, nil, []int{0, 1})
	})

	soup := NewTriangleSoup([]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, nil, nil)
	if soup.NumTriangles() != 1 {
		t.Errorf("Expected 1 triangle, got %d", soup.NumTriangles())
	}
	if soup.Normals[0] != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Expected flat +Z normal, got %v", soup.Normals[0])
	}
}

func TestTriangleSoup_BoundsCenterIsBoxMidpoint(t *testing.T) {
	// Centroid along X is 1/3, box center is 0.5
	soup := NewTriangleSoup([]mgl64.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}}, nil, nil, nil)
	if c := soup.BoundsCenter(0, 0); c != 0.5 {
		t.Errorf("Expected box center 0.5, got %v", c)
	}
}

func TestTriangleSoup_FillIntersection(t *testing.T) {
	soup := unitQuadSoup()

	ray := core.NewRay(mgl64.Vec3{0.75, 0.25, -2}, mgl64.Vec3{0, 0, 1})
	bary, dist, ok := soup.Intersect(ray, 0)
	if !ok {
		t.Fatal("Expected first triangle of the quad to be hit")
	}

	var isect core.Intersection
	soup.FillIntersection(&isect, 0, dist, bary)

	if !isect.Position.ApproxEqualThreshold(mgl64.Vec3{0.75, 0.25, 0}, 1e-9) {
		t.Errorf("Unexpected position %v", isect.Position)
	}
	if !isect.UV.ApproxEqualThreshold(mgl64.Vec2{0.75, 0.25}, 1e-9) {
		t.Errorf("Unexpected uv %v", isect.UV)
	}
	if !isect.Normal.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Errorf("Unexpected normal %v", isect.Normal)
	}
	if isect.MaterialID != 3 || isect.Triangle != 0 || isect.T != 2 {
		t.Errorf("Unexpected record %+v", isect)
	}
}

func TestTriangleSoup_UVAtExtrapolates(t *testing.T) {
	soup := unitQuadSoup()

	uv := soup.UVAt(0, mgl64.Vec3{0.5, 0.1, 0})
	if !uv.ApproxEqualThreshold(mgl64.Vec2{0.5, 0.1}, 1e-9) {
		t.Errorf("Expected (0.5, 0.1), got %v", uv)
	}

	// Point outside the triangle but on its plane
	uv = soup.UVAt(0, mgl64.Vec3{2, -1, 0})
	if !uv.ApproxEqualThreshold(mgl64.Vec2{2, -1}, 1e-9) {
		t.Errorf("Expected extrapolated (2, -1), got %v", uv)
	}
}

func TestTriangleSoup_Transform(t *testing.T) {
	soup := unitQuadSoup()
	m := mgl64.Translate3D(0, 0, 5).Mul4(mgl64.Scale3D(2, 2, 2))

	moved := soup.Transform(m)
	bounds := moved.Bounds()
	if !bounds.Min.ApproxEqual(mgl64.Vec3{0, 0, 5}) || !bounds.Max.ApproxEqual(mgl64.Vec3{2, 2, 5}) {
		t.Errorf("Unexpected transformed bounds %v", bounds)
	}
	for i, n := range moved.Normals {
		if math.Abs(n.Len()-1) > 1e-9 {
			t.Errorf("Normal %d not unit length: %v", i, n)
		}
	}

	// Source soup is untouched
	if soup.Vertices[1] != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Transform modified the source soup: %v", soup.Vertices[1])
	}
}

func TestTransformDirection_Normalizes(t *testing.T) {
	d := TransformDirection(mgl64.Scale3D(3, 3, 3), mgl64.Vec3{0, 2, 0})
	if !d.ApproxEqual(mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected (0,1,0), got %v", d)
	}

	ray := TransformRay(mgl64.Translate3D(1, 0, 0), core.NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}))
	if ray.Origin != (mgl64.Vec3{1, 0, 0}) || !ray.Direction.ApproxEqual(mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Unexpected transformed ray %+v", ray)
	}
}
