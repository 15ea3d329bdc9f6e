package raster

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// WrapMode resolves pixel coordinates that fall outside an image
type WrapMode int

const (
	WrapZero   WrapMode = iota // Out-of-range pixels are transparent black
	WrapClamp                  // Coordinates clamp to the nearest edge
	WrapRepeat                 // Coordinates wrap modulo the image size
)

var wrapModeNames = map[WrapMode]string{
	WrapZero:   "zero",
	WrapClamp:  "clamp",
	WrapRepeat: "repeat",
}

func (m WrapMode) String() string {
	if name, ok := wrapModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseWrapMode converts a configuration name to a WrapMode
func ParseWrapMode(s string) (WrapMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for mode, n := range wrapModeNames {
		if n == name {
			return mode, nil
		}
	}
	return WrapZero, errors.Errorf("unknown wrap mode %q (want zero, clamp or repeat)", s)
}

// WrapClampIndex clamps v to [0, n)
func WrapClampIndex(v, n int) int {
	core.Assertf(n > 0, "cannot wrap into empty range %d", n)
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// WrapRepeatIndex wraps v into [0, n), also for negative v
func WrapRepeatIndex(v, n int) int {
	core.Assertf(n > 0, "cannot wrap into empty range %d", n)
	return ((v % n) + n) % n
}
