package raster

import (
	"image"
)

// Sentinel colors in the engine output. Pure white marks pixels outside
// the coverage area; pure black marks no-data. Every other color belongs
// to the coverage ramp and stays opaque.
const (
	sentinelWhite = 255
	sentinelBlack = 0
)

// ApplyTransparency returns a copy of img with sentinel pixels made fully
// transparent. The test is exact channel equality, not a threshold:
// antialiased near-white edge pixels stay opaque so the coverage boundary
// is not eroded.
func ApplyTransparency(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	copy(out.Pix, img.Pix)

	for i := 0; i < len(out.Pix); i += 4 {
		r, g, b := out.Pix[i], out.Pix[i+1], out.Pix[i+2]
		if (r == sentinelWhite && g == sentinelWhite && b == sentinelWhite) ||
			(r == sentinelBlack && g == sentinelBlack && b == sentinelBlack) {
			out.Pix[i+3] = 0
		} else {
			out.Pix[i+3] = 255
		}
	}
	return out
}
