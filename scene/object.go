// scene/object.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/renderer"
)

// Terrain provides the ground height used to drape shadows.
type Terrain interface {
	Height(x, y float32) float32
}

// shadowEpsilon separates the points of a shadow vertically so that they
// stay distinct and sit just above the ground.
const shadowEpsilon = 0.01

// Face is a polygon (Solid) or an open polyline over an Object's points.
type Face struct {
	Indices     []int
	Color       renderer.RGB
	DoubleSided bool
	Solid       bool
	// Unlit faces are drawn with their color as is (apart from fog).
	Unlit bool

	normal      [3]float32
	normalValid bool
	dirty       bool
}

type shadow struct {
	caster int // face index
	face   int // face index of the shadow
	points []int
}

// Object is a renderable shape: a deduplicated point list and faces over
// it. Points are in object-local space and are placed in the world by the
// object's pose, except for pinned points, which are given directly in
// world space (shadows, tails).
type Object struct {
	Name   string
	Layer  Layer
	Hidden bool

	points  [][3]float32
	pinned  []bool
	index   map[[3]float32]int
	Faces   []Face
	shadows []shadow

	position  [3]float32
	orient    math.Matrix3
	poseDirty bool

	// Per-point derived state, valid after Transform.
	world   [][3]float32
	cam     [][3]float32
	screen  [][2]float32
	visible []bool

	minDepth, maxDepth float32
	xs, ys             []float32
}

func NewObject(name string, layer Layer) *Object {
	return &Object{
		Name:      name,
		Layer:     layer,
		index:     make(map[[3]float32]int),
		orient:    math.Identity3x3(),
		poseDirty: true,
		shadows:   make([]shadow, 0, 4),
	}
}

// AddPoint adds p in local space and returns its index; a point equal to
// an existing one returns that point's index.
func (o *Object) AddPoint(p [3]float32) int {
	if i, ok := o.index[p]; ok {
		return i
	}
	i := o.appendPoint(p, false)
	o.index[p] = i
	return i
}

// AddPinnedPoint adds a world-space point that is not affected by the
// object's pose. Pinned points are never merged.
func (o *Object) AddPinnedPoint(p [3]float32) int {
	return o.appendPoint(p, true)
}

func (o *Object) appendPoint(p [3]float32, pinned bool) int {
	o.points = append(o.points, p)
	o.pinned = append(o.pinned, pinned)
	o.poseDirty = true
	return len(o.points) - 1
}

// SetPinnedPoint moves pinned point i; it is a no-op for other points.
func (o *Object) SetPinnedPoint(i int, p [3]float32) {
	if i < 0 || i >= len(o.points) || !o.pinned[i] {
		return
	}
	o.points[i] = p
	o.poseDirty = true
}

func (o *Object) NumPoints() int { return len(o.points) }

// Point returns point i in local (or, if pinned, world) space.
func (o *Object) Point(i int) [3]float32 { return o.points[i] }

// AddFace adds a face over the given points (in local space) and returns
// its index.
func (o *Object) AddFace(pts [][3]float32, color renderer.RGB, solid, doubleSided bool) int {
	idx := make([]int, len(pts))
	for i, p := range pts {
		idx[i] = o.AddPoint(p)
	}
	return o.AddFaceIndices(idx, color, solid, doubleSided)
}

func (o *Object) AddFaceIndices(idx []int, color renderer.RGB, solid, doubleSided bool) int {
	o.Faces = append(o.Faces, Face{
		Indices:     idx,
		Color:       color,
		Solid:       solid,
		DoubleSided: doubleSided,
		dirty:       true,
	})
	return len(o.Faces) - 1
}

// SetPose places the object's local points in the world: world =
// orient*local + position.
func (o *Object) SetPose(position [3]float32, orient math.Matrix3) {
	o.position = position
	o.orient = orient
	o.poseDirty = true
}

func (o *Object) Position() [3]float32 { return o.position }

// MarkDirty forces normals to be recomputed on their next use.
func (o *Object) MarkDirty() {
	for i := range o.Faces {
		o.Faces[i].dirty = true
	}
}

func (o *Object) updateWorld() {
	if !o.poseDirty {
		return
	}
	o.world = o.world[:0]
	for i, p := range o.points {
		if !o.pinned[i] {
			p = math.Add3f(o.orient.Apply(p), o.position)
		}
		o.world = append(o.world, p)
	}
	o.MarkDirty()
	o.poseDirty = false
}

// WorldPoint returns point i in world space.
func (o *Object) WorldPoint(i int) [3]float32 {
	o.updateWorld()
	return o.world[i]
}

// Normal returns the unit world-space normal of face f. The second return
// value is false for faces with fewer than three points or collinear
// leading points.
func (o *Object) Normal(f int) ([3]float32, bool) {
	o.updateWorld()
	face := &o.Faces[f]
	if face.dirty {
		face.dirty = false
		face.normalValid = false
		if len(face.Indices) >= 3 {
			p0, p1, p2 := o.world[face.Indices[0]], o.world[face.Indices[1]], o.world[face.Indices[2]]
			n := math.Cross3f(math.Sub3f(p1, p0), math.Sub3f(p2, p1))
			if math.Length3f(n) > 0 {
				face.normal = math.Normalize3f(n)
				face.normalValid = true
			}
		}
	}
	return face.normal, face.normalValid
}

// FlipNormal reverses face f's cached normal.
func (o *Object) FlipNormal(f int) {
	if n, ok := o.Normal(f); ok {
		o.Faces[f].normal = math.Scale3f(n, -1)
	}
}

///////////////////////////////////////////////////////////////////////////
// Shadows

// AddShadow registers face f as a shadow caster: a flattened duplicate
// of the face with reversed winding, drawn in color. It returns the
// index of the shadow face.
func (o *Object) AddShadow(f int, color renderer.RGB) int {
	caster := o.Faces[f]
	sh := shadow{caster: f}
	idx := make([]int, len(caster.Indices))
	for j := range caster.Indices {
		// Reverse the winding so that the shadow faces up when the
		// caster's underside faces down.
		k := len(caster.Indices) - 1 - j
		idx[j] = o.AddPinnedPoint([3]float32{0, 0, shadowEpsilon * float32(k+1)})
	}
	sh.points = idx
	sh.face = len(o.Faces)
	o.Faces = append(o.Faces, Face{Indices: idx, Color: color, Solid: caster.Solid, DoubleSided: true, Unlit: true, dirty: true})
	o.shadows = append(o.shadows, sh)
	o.UpdateShadows(nil)
	return sh.face
}

func (o *Object) NumShadows() int { return len(o.shadows) }

// IsShadow reports whether face f is a shadow.
func (o *Object) IsShadow(f int) bool {
	for _, sh := range o.shadows {
		if sh.face == f {
			return true
		}
	}
	return false
}

// UpdateShadows moves each shadow under its caster, draped on the
// terrain if t is non-nil and at z=0 otherwise.
func (o *Object) UpdateShadows(t Terrain) {
	if len(o.shadows) == 0 {
		return
	}
	o.updateWorld()
	for _, sh := range o.shadows {
		ci := o.Faces[sh.caster].Indices
		n := len(ci)
		for j, pi := range sh.points {
			k := n - 1 - j
			w := o.world[ci[k]]
			var h float32
			if t != nil {
				h = t.Height(w[0], w[1])
			}
			o.points[pi] = [3]float32{w[0], w[1], h + shadowEpsilon*float32(k+1)}
		}
	}
	o.poseDirty = true
}

///////////////////////////////////////////////////////////////////////////
// Transform and draw

// Transform maps every point of the object into camera and screen space
// and updates its depth bounding box.
func (o *Object) Transform(c *Camera) {
	o.updateWorld()
	n := len(o.world)
	o.cam = resize(o.cam, n)
	o.screen = resize(o.screen, n)
	o.visible = resize(o.visible, n)

	o.minDepth, o.maxDepth = 0, 0
	for i, w := range o.world {
		p := c.ToCamera(w)
		o.cam[i] = p
		y, z, vis := c.ProjectYZ(p[0], p[1], p[2])
		o.visible[i] = vis
		o.screen[i] = c.ToScreen(y, z)
		if i == 0 {
			o.minDepth, o.maxDepth = p[0], p[0]
		} else {
			o.minDepth, o.maxDepth = min(o.minDepth, p[0]), max(o.maxDepth, p[0])
		}
	}
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}

// Depth returns the midpoint of the object's camera-space depth bounding
// box; more negative is further away.
func (o *Object) Depth() float32 {
	return (o.minDepth + o.maxDepth) / 2
}

// DepthBounds returns the min/max camera-space x of the object's points.
func (o *Object) DepthBounds() (float32, float32) {
	return o.minDepth, o.maxDepth
}

// Visible reports whether point i was in view at the last Transform.
func (o *Object) Visible(i int) bool {
	return i < len(o.visible) && o.visible[i]
}

// ScreenPoint returns point i's pixel coordinates from the last
// Transform.
func (o *Object) ScreenPoint(i int) [2]float32 { return o.screen[i] }

// Draw draws the object's faces to s, shadows first. Transform must have
// been called with the same camera.
func (o *Object) Draw(c *Camera, s renderer.Surface) {
	if o.Hidden {
		return
	}
	for _, sh := range o.shadows {
		o.drawFace(c, s, sh.face)
	}
	for f := range o.Faces {
		if !o.IsShadow(f) {
			o.drawFace(c, s, f)
		}
	}
}

func (o *Object) drawFace(c *Camera, s renderer.Surface, f int) {
	face := &o.Faces[f]
	if len(face.Indices) == 0 {
		return
	}

	var depth float32
	for _, i := range face.Indices {
		depth += o.cam[i][0]
	}
	depth /= float32(len(face.Indices))

	if !face.Solid || len(face.Indices) < 3 {
		s.SetColor(c.Fog(face.Color, depth))
		for j := 1; j < len(face.Indices); j++ {
			a, b := face.Indices[j-1], face.Indices[j]
			if o.visible[a] && o.visible[b] {
				pa, pb := o.screen[a], o.screen[b]
				s.DrawLine(pa[0], pa[1], pb[0], pb[1])
			}
		}
		return
	}

	for _, i := range face.Indices {
		if !o.visible[i] {
			return
		}
	}

	color := face.Color
	if n, ok := o.Normal(f); ok {
		if c.IsBackFace(n, o.world[face.Indices[0]]) {
			if !face.DoubleSided {
				return
			}
			o.FlipNormal(f)
			n = face.normal
		}
		if !face.Unlit {
			color = color.Scale(c.Light(n))
		}
	}

	o.xs, o.ys = o.xs[:0], o.ys[:0]
	for _, i := range face.Indices {
		o.xs = append(o.xs, o.screen[i][0])
		o.ys = append(o.ys, o.screen[i][1])
	}
	s.SetColor(c.Fog(color, depth))
	s.FillPolygon(o.xs, o.ys, len(o.xs))
}
