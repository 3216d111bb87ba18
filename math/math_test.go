// math/math_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func near(a, b, eps float32) bool {
	return Abs(a-b) <= eps
}

func TestCross3f(t *testing.T) {
	x, y, z := [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1}
	if c := Cross3f(x, y); c != z {
		t.Errorf("x cross y: got %v, expected %v", c, z)
	}
	if c := Cross3f(y, x); c != Scale3f(z, -1) {
		t.Errorf("y cross x: got %v, expected %v", c, Scale3f(z, -1))
	}
	a, b := [3]float32{1, 2, 3}, [3]float32{-4, 0.5, 2}
	c := Cross3f(a, b)
	if !near(Dot3f(a, c), 0, 1e-5) || !near(Dot3f(b, c), 0, 1e-5) {
		t.Errorf("cross product %v not perpendicular to inputs", c)
	}
}

func TestNormalize3f(t *testing.T) {
	for _, v := range [][3]float32{{3, 4, 0}, {-1, -1, -1}, {0, 0, 1e-3}, {1000, -20, 7}} {
		if l := Length3f(Normalize3f(v)); !near(l, 1, 1e-5) {
			t.Errorf("%v: normalized length %f", v, l)
		}
	}
	if n := Normalize3f([3]float32{}); n != ([3]float32{}) {
		t.Errorf("zero vector normalized to %v", n)
	}
}

func TestLinComb3f(t *testing.T) {
	a, b := [3]float32{1, 2, 3}, [3]float32{4, 5, 6}
	got := LinComb3f(2, a, -1, b)
	expected := [3]float32{-2, -1, 0}
	if got != expected {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestRotateX(t *testing.T) {
	vecs := [][3]float32{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, -7}, {-1, 0, 0},
		{3, 4, 5}, {-10, 2, 0.5}, {0.001, -0.002, 300}, {-250, -1000, 120},
	}
	for _, v := range vecs {
		m := RotateX(v)
		r := m.Apply(v)
		l := Length3f(v)
		if !near(r[0], l, 1e-3*l) || !near(r[1], 0, 1e-3*l) || !near(r[2], 0, 1e-3*l) {
			t.Errorf("RotateX(%v) applied to itself gave %v, expected (%f,0,0)", v, r, l)
		}

		// It must be a pure rotation.
		id := Identity3x3()
		for i := range 3 {
			for j := range 3 {
				if d := Dot3f(m[i], m[j]); !near(d, id[i][j], 1e-5) {
					t.Errorf("RotateX(%v) is not orthonormal: %v", v, m)
				}
			}
		}
	}
}

func TestRotateZ3f(t *testing.T) {
	v := RotateZ3f([3]float32{1, 0, 2}, Pi()/2)
	if !near(v[0], 0, 1e-6) || !near(v[1], 1, 1e-6) || v[2] != 2 {
		t.Errorf("got %v, expected (0,1,2)", v)
	}
}

func TestHeadings(t *testing.T) {
	for _, test := range []struct {
		v       [3]float32
		heading float32
		compass string
	}{
		{[3]float32{0, 1, 0}, 0, "N"},
		{[3]float32{1, 0, 5}, 90, "E"},
		{[3]float32{0, -3, 0}, 180, "S"},
		{[3]float32{-1, 1, 0}, 315, "NW"},
	} {
		h := VectorHeading(test.v)
		if !near(h, test.heading, 1e-3) {
			t.Errorf("%v: got heading %f, expected %f", test.v, h, test.heading)
		}
		if c := ShortCompass(h); c != test.compass {
			t.Errorf("%v: got compass %s, expected %s", test.v, c, test.compass)
		}
		hv := HeadingVector(test.heading)
		if !near(Dot3f(hv, Normalize3f(Horizontal(test.v))), 1, 1e-5) {
			t.Errorf("HeadingVector(%f) = %v doesn't match %v", test.heading, hv, test.v)
		}
	}

	if d := HeadingDifference(350, 10); d != 20 {
		t.Errorf("HeadingDifference: got %f, expected 20", d)
	}
	if h := NormalizeHeading(-90); h != 270 {
		t.Errorf("NormalizeHeading: got %f, expected 270", h)
	}
}

func TestClampLerp(t *testing.T) {
	if v := Clamp(5, 0, 3); v != 3 {
		t.Errorf("Clamp: got %d, expected 3", v)
	}
	if v := Clamp(float32(-1), 0, 3); v != 0 {
		t.Errorf("Clamp: got %f, expected 0", v)
	}
	if v := Lerp(0.25, 4, 8); v != 5 {
		t.Errorf("Lerp: got %f, expected 5", v)
	}
}
