// scene/manager.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package scene

import (
	"slices"

	"github.com/skyglide/skyglide/renderer"
)

// Layer orders groups of objects; lower layers are always drawn before
// higher ones regardless of depth.
type Layer int

const (
	LayerGround Layer = iota
	LayerScenery
	LayerAir
	LayerOverlay
	NumLayers
)

// Manager holds the objects to be drawn, grouped by layer.
type Manager struct {
	layers [NumLayers][]*Object
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(o *Object) {
	m.layers[o.Layer] = append(m.layers[o.Layer], o)
}

// Remove deregisters o; it is a no-op if o was never added.
func (m *Manager) Remove(o *Object) {
	m.layers[o.Layer] = slices.DeleteFunc(m.layers[o.Layer], func(x *Object) bool { return x == o })
}

func (m *Manager) Len() int {
	n := 0
	for _, l := range m.layers {
		n += len(l)
	}
	return n
}

// Objects returns the objects of layer l in their current draw order.
func (m *Manager) Objects(l Layer) []*Object {
	return m.layers[l]
}

// UpdateShadows refreshes every object's shadows.
func (m *Manager) UpdateShadows(t Terrain) {
	for _, l := range m.layers {
		for _, o := range l {
			o.UpdateShadows(t)
		}
	}
}

// Render transforms all objects with the camera, sorts each layer back to
// front and draws them to s.
func (m *Manager) Render(c *Camera, s renderer.Surface) {
	if w, h := s.Size(); w != c.width || h != c.height {
		c.SetViewport(w, h)
	}

	for l := range m.layers {
		objs := m.layers[l]
		for _, o := range objs {
			o.Transform(c)
		}
		// Stable so that coplanar objects keep registration order.
		slices.SortStableFunc(objs, func(a, b *Object) int {
			da, db := a.Depth(), b.Depth()
			if da < db {
				return -1
			} else if da > db {
				return 1
			}
			return 0
		})
		for _, o := range objs {
			o.Draw(c, s)
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Subjects

// FixedSubject is a subject that does not move: a plan view or a free
// camera position.
type FixedSubject struct {
	Eye, Focus [3]float32
	Class      SubjectClass
}

func (f *FixedSubject) ViewPoint() ([3]float32, [3]float32) { return f.Eye, f.Focus }
func (f *FixedSubject) Position() [3]float32                  { return f.Focus }
func (f *FixedSubject) SubjectClass() SubjectClass            { return f.Class }

// PlanView returns a subject looking straight down on center from
// height above it.
func PlanView(center [3]float32, height float32) *FixedSubject {
	// Offset slightly so that the view direction is not exactly
	// vertical and headings stay stable.
	return &FixedSubject{
		Eye:   [3]float32{center[0], center[1] - height/100, center[2] + height},
		Focus: center,
		Class: SubjectPlan,
	}
}

// ChaseView returns a view point behind and above position p for
// something moving along heading v.
func ChaseView(p, v [3]float32, back, up float32) (eye, focus [3]float32) {
	eye = [3]float32{p[0] - v[0]*back, p[1] - v[1]*back, p[2] + up}
	return eye, p
}
