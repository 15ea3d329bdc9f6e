package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/bvh"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

// createQuadScene builds a white 2x2 quad at z=0 facing +Z, optionally with
// a blocker behind the camera between the quad and the light
func createQuadScene(t *testing.T, light mgl64.Vec3, blocker bool) *scene.Scene {
	t.Helper()
	b := geometry.NewMeshBuilder()
	b.AddQuad(mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0}, 1, 0)
	if blocker {
		b.AddQuad(mgl64.Vec3{-3, -3, 7}, mgl64.Vec3{6, 0, 0}, mgl64.Vec3{0, 6, 0}, 1, 0)
	}

	s := &scene.Scene{
		Name:       "quad",
		Soup:       b.Build(),
		Lights:     []scene.Light{{Position: light, Intensity: mgl64.Vec3{25, 25, 25}}},
		Background: mgl64.Vec4{0.2, 0.3, 0.4, 1},
	}
	s.AddMaterial(scene.Material{Name: "white", Color: mgl64.Vec4{1, 1, 1, 1}, TextureID: scene.NoTexture})
	if err := s.Build(bvh.DefaultOptions()); err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	return s
}

// createQuadCamera looks down -Z from z=5 with a view narrow enough that the
// quad fills the whole image
func createQuadCamera(width, height int) *Camera {
	return NewCamera(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}, 20, width, height)
}
