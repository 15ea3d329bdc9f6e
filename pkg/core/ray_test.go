package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
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

func TestRay_RequiresUnitDirection(t *testing.T) {
	mustPanic(t, "non-unit direction", func() {
		NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 2})
	})
	mustPanic(t, "zero direction", func() {
		NewRayNormalized(mgl64.Vec3{}, mgl64.Vec3{})
	})

	ray := NewRayNormalized(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 2})
	if ray.Direction != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Expected normalized direction, got %v", ray.Direction)
	}
	if p := ray.At(2); p != (mgl64.Vec3{1, 2, 5}) {
		t.Errorf("Expected At(2) = (1,2,5), got %v", p)
	}
}

func TestRay_OffsetFollowsTravelSide(t *testing.T) {
	ray := NewRay(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1})

	// Normal facing against the ray is flipped so the origin moves forward
	offset := ray.Offset(0.1, mgl64.Vec3{0, 0, -1})
	if offset.Origin != (mgl64.Vec3{0, 0, 0.1}) {
		t.Errorf("Expected origin pushed to z=0.1, got %v", offset.Origin)
	}
	if offset.Direction != ray.Direction {
		t.Error("Offset must not change direction")
	}
}

func TestAssertf(t *testing.T) {
	mustPanic(t, "failed assertion", func() { Assertf(false, "value %d", 3) })

	// Passing assertions are silent
	Assert(true, "never shown")
	Assertf(true, "never shown %d", 1)
}
