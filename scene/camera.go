// scene/camera.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	"log/slog"

	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/renderer"
)

const (
	// SlopeLimit bounds |y/(distance-x)| and |z/(distance-x)| for
	// visible points.
	SlopeLimit = 25
	// LensHalfAngle is half the vertical field of view, in degrees.
	LensHalfAngle = 30
	// DepthOfVision is the depth at which fog fully replaces a color.
	DepthOfVision = 4000
	Ambient       = 0.45
	UndersideGlow = 0.15
)

var (
	Background = renderer.RGB{R: 0.55, G: 0.7, B: 0.9}
	// LightDirection is the direction light travels.
	LightDirection = math.Normalize3f([3]float32{0.3, 0.4, -1})
)

// Camera owns the eye and focus points and the rotation derived from
// them; it projects world-space points to the screen and manages cuts
// between subjects.
type Camera struct {
	eye, focus [3]float32
	rot        math.Matrix3
	distance   float32

	width, height int
	scale         float32

	cut cutState
}

func NewCamera(eye, focus [3]float32, width, height int) *Camera {
	c := &Camera{}
	c.SetViewport(width, height)
	c.SetEyeFocus(eye, focus)
	return c
}

// SetViewport sets the size in pixels of the image the camera projects
// to.
func (c *Camera) SetViewport(width, height int) {
	c.width, c.height = width, height
	c.scale = (float32(height) / 2) / math.Tan(math.Radians(LensHalfAngle))
}

// SetEyeFocus moves the camera. The rotation and distance are recomputed
// here and only here.
func (c *Camera) SetEyeFocus(eye, focus [3]float32) {
	c.eye, c.focus = eye, focus
	d := math.Sub3f(eye, focus)
	c.rot = math.RotateX(d)
	c.distance = math.Length3f(d)
}

func (c *Camera) Eye() [3]float32   { return c.eye }
func (c *Camera) Focus() [3]float32 { return c.focus }
func (c *Camera) Distance() float32 { return c.distance }

// ToCamera maps a world-space point to camera space, where the eye is at
// (distance,0,0) looking toward the origin (the focus).
func (c *Camera) ToCamera(p [3]float32) [3]float32 {
	return c.rot.Apply(math.Sub3f(p, c.focus))
}

// ProjectYZ perspective-divides y and z of a camera-space point. Points
// at or behind the eye, or outside the slope limit, are reported not
// visible; for points behind the eye y and z are returned unchanged.
func (c *Camera) ProjectYZ(x, y, z float32) (float32, float32, bool) {
	if x >= c.distance {
		return y, z, false
	}
	k := c.distance - x
	y, z = y/k, z/k
	if math.Abs(y) > SlopeLimit || math.Abs(z) > SlopeLimit {
		return y, z, false
	}
	return y, z, true
}

// ToScreen maps projected y,z to pixels; the origin is the upper left.
func (c *Camera) ToScreen(y, z float32) [2]float32 {
	return [2]float32{float32(c.width)/2 + y*c.scale, float32(c.height)/2 - z*c.scale}
}

// Project maps a world-space point all the way to pixels.
func (c *Camera) Project(p [3]float32) ([2]float32, bool) {
	q := c.ToCamera(p)
	y, z, vis := c.ProjectYZ(q[0], q[1], q[2])
	return c.ToScreen(y, z), vis
}

// IsBackFace reports whether a face with world-space normal n and first
// vertex v0 faces away from the eye.
func (c *Camera) IsBackFace(n, v0 [3]float32) bool {
	return math.Dot3f(n, math.Sub3f(v0, c.eye)) >= 0
}

// Fog blends col toward the background as the camera-space depth
// decreases; at -DepthOfVision and beyond only the background remains.
func (c *Camera) Fog(col renderer.RGB, depth float32) renderer.RGB {
	f := math.Clamp(-depth/DepthOfVision, 0, 1)
	if f == 0 {
		return col
	}
	return renderer.LerpRGB(f, col, Background)
}

// Light returns the diffuse intensity for a face with unit normal n.
func (c *Camera) Light(n [3]float32) float32 {
	i := Ambient + (1-Ambient)*((1-math.Dot3f(n, LightDirection))/2)
	if n[2] < -0.9 {
		i += UndersideGlow
	}
	return min(i, 1)
}

func (c *Camera) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("eye", c.eye),
		slog.Any("focus", c.focus),
		slog.Float64("distance", float64(c.distance)),
		slog.String("state", c.State().String()),
		slog.Int("cut_count", c.cut.count),
	)
}
