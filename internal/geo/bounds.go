// Package geo derives the geographic bounding box for a coverage run.
package geo

import (
	"fmt"
	"math"
)

// KmPerDegreeLat is the equirectangular approximation used for both the
// north-south span and, scaled by cos(lat), the east-west span. It is
// deliberately not geodesically exact; the error is acceptable at radii
// of tens to low hundreds of kilometers.
const KmPerDegreeLat = 111.32

// MilesToKm converts statute miles to kilometers
const MilesToKm = 1.60934

// BoundingBox is a geographic box in decimal degrees
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// String formats the box as N/S/E/W decimal degrees
func (b BoundingBox) String() string {
	return fmt.Sprintf("N %.6f S %.6f E %.6f W %.6f", b.North, b.South, b.East, b.West)
}

// LatSpan is the north-south extent in degrees
func (b BoundingBox) LatSpan() float64 {
	return b.North - b.South
}

// LonSpan is the east-west extent in degrees
func (b BoundingBox) LonSpan() float64 {
	return b.East - b.West
}

// CoverageBounds computes the bounding box around a transmitter. The
// radius is interpreted as kilometers when metric is true, statute miles
// otherwise. The longitude offset divides by cos(lat), so the box is
// undefined at the poles; callers keep latitude within the ±70° envelope.
func CoverageBounds(lat, lon, radius float64, metric bool) BoundingBox {
	radiusKm := radius
	if !metric {
		radiusKm = radius * MilesToKm
	}

	latOffset := radiusKm / KmPerDegreeLat
	lonOffset := radiusKm / (KmPerDegreeLat * math.Cos(lat*math.Pi/180))

	return BoundingBox{
		North: lat + latOffset,
		South: lat - latOffset,
		East:  lon + lonOffset,
		West:  lon - lonOffset,
	}
}
