// math/vecmat.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// point 2f

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

// a-b
func Sub2f(a [2]float32, b [2]float32) [2]float32 {
	return [2]float32{a[0] - b[0], a[1] - b[1]}
}

// a*s
func Scale2f(a [2]float32, s float32) [2]float32 {
	return [2]float32{s * a[0], s * a[1]}
}

func Dot2f(a, b [2]float32) float32 {
	return a[0]*b[0] + a[1]*b[1]
}

// Length of v
func Length2f(v [2]float32) float32 {
	return Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Distance between two points
func Distance2f(a [2]float32, b [2]float32) float32 {
	return Length2f(Sub2f(a, b))
}

// Normalizes the given vector.
func Normalize2f(a [2]float32) [2]float32 {
	l := Length2f(a)
	if l == 0 {
		return [2]float32{0, 0}
	}
	return Scale2f(a, 1/l)
}

///////////////////////////////////////////////////////////////////////////
// point 3f

// The world is right-handed with z up; x and y are horizontal.

func Add3f(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Sub3f(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Scale3f(a [3]float32, s float32) [3]float32 {
	return [3]float32{s * a[0], s * a[1], s * a[2]}
}

// LinComb3f returns sa*a + sb*b.
func LinComb3f(sa float32, a [3]float32, sb float32, b [3]float32) [3]float32 {
	return [3]float32{sa*a[0] + sb*b[0], sa*a[1] + sb*b[1], sa*a[2] + sb*b[2]}
}

func Dot3f(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func Cross3f(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Length3f(v [3]float32) float32 {
	return Sqrt(Dot3f(v, v))
}

// Normalize3f returns v scaled to unit length; the zero vector is
// returned unchanged.
func Normalize3f(v [3]float32) [3]float32 {
	l := Length3f(v)
	if l == 0 {
		return v
	}
	return Scale3f(v, 1/l)
}

// XY drops the z component.
func XY(v [3]float32) [2]float32 {
	return [2]float32{v[0], v[1]}
}

// Horizontal returns v with its z component zeroed.
func Horizontal(v [3]float32) [3]float32 {
	return [3]float32{v[0], v[1], 0}
}

// RotateZ3f rotates v counter-clockwise about the z axis by theta
// radians.
func RotateZ3f(v [3]float32, theta float32) [3]float32 {
	sc := SinCos(theta)
	return [3]float32{sc[1]*v[0] - sc[0]*v[1], sc[0]*v[0] + sc[1]*v[1], v[2]}
}

///////////////////////////////////////////////////////////////////////////
// 3x3 matrix

type Matrix3 [3][3]float32

func MakeMatrix3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float32) Matrix3 {
	return [3][3]float32{
		[3]float32{m00, m01, m02},
		[3]float32{m10, m11, m12},
		[3]float32{m20, m21, m22}}
}

func Identity3x3() Matrix3 {
	var m Matrix3
	m[0][0] = 1
	m[1][1] = 1
	m[2][2] = 1
	return m
}

func (m Matrix3) PostMultiply(m2 Matrix3) Matrix3 {
	var result Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[i][0]*m2[0][j] + m[i][1]*m2[1][j] + m[i][2]*m2[2][j]
		}
	}
	return result
}

// Apply returns m*v.
func (m Matrix3) Apply(v [3]float32) [3]float32 {
	return [3]float32{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// RotationZ returns the matrix for a counter-clockwise rotation of theta
// radians about the z axis.
func RotationZ(theta float32) Matrix3 {
	s, c := Sin(theta), Cos(theta)
	return MakeMatrix3(c, -s, 0, s, c, 0, 0, 0, 1)
}

// RotationX returns the matrix for a rotation of theta radians about the
// x axis; used for rolling a body about its own heading.
func RotationX(theta float32) Matrix3 {
	s, c := Sin(theta), Cos(theta)
	return MakeMatrix3(1, 0, 0, 0, c, -s, 0, s, c)
}

// RotateX returns the rotation that takes v onto the positive x axis. It
// is composed of a rotation about z that brings v into the xz plane
// followed by a rotation about the new y axis.
func RotateX(v [3]float32) Matrix3 {
	r := Hypot(v[0], v[1])
	l := Length3f(v)
	if l == 0 {
		return Identity3x3()
	}

	c, s := float32(1), float32(0)
	if r > 0 {
		c, s = v[0]/r, v[1]/r
	}
	cp, sp := r/l, v[2]/l

	// Ry(phi) * Rz(-theta), multiplied out.
	return MakeMatrix3(
		cp*c, cp*s, sp,
		-s, c, 0,
		-sp*c, -sp*s, cp)
}
