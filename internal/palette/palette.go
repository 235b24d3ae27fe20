// Package palette defines the coverage color ramp shared by the engine
// and the produced legend.
package palette

import (
	"fmt"
	"image/color"
	"os"
	"strings"
)

// Step binds a signal level (dBm at the receiver) to the ramp color used
// for every pixel at or above that level.
type Step struct {
	LevelDBm float64
	Color    color.NRGBA
}

// DefaultRamp is the coverage ramp from strong (red) to weak (deep blue).
// Pure white and pure black are reserved as sentinel colors for "outside
// coverage" and "no data", so the ramp must never contain them.
func DefaultRamp() []Step {
	return []Step{
		{-60, color.NRGBA{255, 0, 0, 255}},
		{-65, color.NRGBA{255, 64, 0, 255}},
		{-70, color.NRGBA{255, 128, 0, 255}},
		{-75, color.NRGBA{255, 192, 0, 255}},
		{-80, color.NRGBA{255, 255, 1, 255}},
		{-85, color.NRGBA{192, 255, 0, 255}},
		{-90, color.NRGBA{128, 255, 0, 255}},
		{-95, color.NRGBA{0, 255, 64, 255}},
		{-100, color.NRGBA{0, 208, 160, 255}},
		{-105, color.NRGBA{0, 144, 224, 255}},
		{-110, color.NRGBA{0, 96, 255, 255}},
		{-115, color.NRGBA{32, 32, 224, 255}},
		{-120, color.NRGBA{64, 1, 160, 255}},
	}
}

// WriteColorFile writes the ramp in the engine's color definition format,
// one "level: R, G, B" line per step, strongest first.
func WriteColorFile(path string, ramp []Step) error {
	var b strings.Builder
	for _, step := range ramp {
		fmt.Fprintf(&b, "%.0f: %d, %d, %d\n", step.LevelDBm, step.Color.R, step.Color.G, step.Color.B)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// IsSentinel reports whether c is one of the reserved sentinel colors
func IsSentinel(c color.NRGBA) bool {
	return (c.R == 255 && c.G == 255 && c.B == 255) || (c.R == 0 && c.G == 0 && c.B == 0)
}
