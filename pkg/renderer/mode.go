package renderer

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects what the renderer writes into each pixel
type Mode int

const (
	ModeShaded     Mode = iota // Lambert shading with point lights and shadows
	ModeDesaturate             // Luminance of the shaded image
	ModeNormal                 // Shading normal mapped to [0, 1]
	ModeUV                     // Fractional texture coordinates
	ModeDuDv                   // Texture-space footprint of the pixel
	ModeDepth                  // Hit distance
	ModeTime                   // Time spent shading the pixel
)

var modeNames = map[Mode]string{
	ModeShaded:     "shaded",
	ModeDesaturate: "desaturate",
	ModeNormal:     "normal",
	ModeUV:         "uv",
	ModeDuDv:       "dudv",
	ModeDepth:      "depth",
	ModeTime:       "time",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode converts a mode name, case-insensitively, into a Mode
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range modeNames {
		if name == s {
			return mode, nil
		}
	}
	return 0, errors.Errorf("unknown render mode %q", s)
}
