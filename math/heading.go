// math/heading.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

// Headings are in degrees, clockwise from north; north is the world +y
// axis and east is +x.

// VectorHeading returns the heading of the horizontal part of v.
func VectorHeading(v [3]float32) float32 {
	return NormalizeHeading(Degrees(Atan2(v[0], v[1])))
}

// HeadingVector returns the unit horizontal vector for the given heading.
func HeadingVector(hdg float32) [3]float32 {
	sc := SinCos(Radians(hdg))
	return [3]float32{sc[0], sc[1], 0}
}

// HeadingDifference returns the minimum difference between two
// headings. (i.e., the result is always in the range [0,180].)
func HeadingDifference(a float32, b float32) float32 {
	var d float32
	if a > b {
		d = a - b
	} else {
		d = b - a
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ShortCompass converts a heading expressed in degrees into an abbreviated
// string corresponding to the closest compass direction.
func ShortCompass(heading float32) string {
	h := NormalizeHeading(heading + 22.5) // now [0,45] is north, etc...
	idx := int(h / 45)
	return [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[idx%8]
}

// NormalizeHeading returns an angle in [0,360).
func NormalizeHeading(h float32) float32 {
	if h < 0 {
		return 360 - NormalizeHeading(-h)
	}
	return Mod(h, 360)
}
