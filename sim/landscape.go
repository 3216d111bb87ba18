// sim/landscape.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"

	"github.com/skyglide/skyglide/aviation"
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/renderer"
	"github.com/skyglide/skyglide/scene"
	"github.com/skyglide/skyglide/wx"
)

const (
	TileSize = 500
	// The ground extends this far beyond everything in the task.
	groundMargin = 1500
	poleHeight   = 150
	cloudSides   = 8
)

var (
	GroundColors = [2]renderer.RGB{{R: 0.45, G: 0.62, B: 0.3}, {R: 0.5, G: 0.66, B: 0.33}}
	HillColor    = renderer.RGB{R: 0.38, G: 0.55, B: 0.27}
	RoadColor    = renderer.RGB{R: 0.45, G: 0.45, B: 0.45}
	PoleColor    = renderer.RGB{R: 0.85, G: 0.15, B: 0.15}
	CloudColor   = renderer.RGB{R: 0.96, G: 0.96, B: 0.98}
)

// taskBounds returns the horizontal extent of everything in the task.
func taskBounds(t *aviation.Task) (lo, hi [2]float32) {
	lo, hi = math.XY(t.Start), math.XY(t.Start)
	grow := func(p [2]float32) {
		lo = [2]float32{min(lo[0], p[0]), min(lo[1], p[1])}
		hi = [2]float32{max(hi[0], p[0]), max(hi[1], p[1])}
	}
	for _, tp := range t.TurnPoints {
		grow(math.XY(tp.Pos))
	}
	for _, tr := range t.Triggers {
		grow(tr.Pos)
	}
	for _, h := range t.Hills {
		grow(h.A)
		grow(h.B)
	}
	for _, r := range t.Roads {
		for _, p := range r {
			grow(p)
		}
	}
	return
}

// GroundTiles returns a checkerboard of flat tiles covering the task.
func GroundTiles(t *aviation.Task) []*scene.Object {
	lo, hi := taskBounds(t)
	x0 := math.Floor((lo[0]-groundMargin)/TileSize) * TileSize
	y0 := math.Floor((lo[1]-groundMargin)/TileSize) * TileSize
	nx := int(math.Ceil((hi[0] + groundMargin - x0) / TileSize))
	ny := int(math.Ceil((hi[1] + groundMargin - y0) / TileSize))

	var tiles []*scene.Object
	for j := range ny {
		for i := range nx {
			xa, ya := x0+float32(i)*TileSize, y0+float32(j)*TileSize
			xb, yb := xa+TileSize, ya+TileSize
			obj := scene.NewObject(fmt.Sprintf("tile %d,%d", i, j), scene.LayerGround)
			// Counter-clockwise from above so that the tile faces up.
			obj.AddFace([][3]float32{{xa, ya, 0}, {xb, ya, 0}, {xb, yb, 0}, {xa, yb, 0}},
				GroundColors[(i+j)%2], true, false)
			tiles = append(tiles, obj)
		}
	}
	return tiles
}

// HillObject returns a prism along the hill's ridge line.
func HillObject(name string, h *wx.Hill) *scene.Object {
	n := math.Scale3f(h.Normal(), h.Width)
	at := [3]float32{h.A[0], h.A[1], h.Height}
	bt := [3]float32{h.B[0], h.B[1], h.Height}
	ground := func(p [2]float32, s float32) [3]float32 {
		return [3]float32{p[0] + s*n[0], p[1] + s*n[1], 0}
	}
	a0, b0 := ground(h.A, 1), ground(h.B, 1)
	a1, b1 := ground(h.A, -1), ground(h.B, -1)

	obj := scene.NewObject(name, scene.LayerScenery)
	// Windings give outward-facing normals.
	obj.AddFace([][3]float32{at, bt, b0, a0}, HillColor, true, false)
	obj.AddFace([][3]float32{a1, b1, bt, at}, HillColor, true, false)
	obj.AddFace([][3]float32{a1, at, a0}, HillColor, true, false)
	obj.AddFace([][3]float32{b0, bt, b1}, HillColor, true, false)
	return obj
}

// RoadObject returns a road drawn as a line just above the ground.
func RoadObject(name string, road [][2]float32, terrain scene.Terrain) *scene.Object {
	obj := scene.NewObject(name, scene.LayerGround)
	pts := make([][3]float32, len(road))
	for i, p := range road {
		pts[i] = [3]float32{p[0], p[1], terrain.Height(p[0], p[1]) + 0.5}
	}
	obj.AddFace(pts, RoadColor, false, false)
	return obj
}

// TurnPointObject returns a pole at the turn point with its cylinder
// marked on the ground.
func TurnPointObject(name string, tp aviation.TurnPoint, terrain scene.Terrain) *scene.Object {
	obj := scene.NewObject(name, scene.LayerScenery)
	z := terrain.Height(tp.Pos[0], tp.Pos[1])
	base := [3]float32{tp.Pos[0], tp.Pos[1], z}
	obj.AddFace([][3]float32{base, math.Add3f(base, [3]float32{0, 0, poleHeight})}, PoleColor, false, false)

	const sides = 16
	ring := make([][3]float32, 0, sides+1)
	for i := range sides + 1 {
		sc := math.SinCos(2 * math.Pi() * float32(i%sides) / sides)
		x, y := tp.Pos[0]+tp.Radius*sc[1], tp.Pos[1]+tp.Radius*sc[0]
		ring = append(ring, [3]float32{x, y, terrain.Height(x, y) + 0.5})
	}
	obj.AddFace(ring, PoleColor, false, false)
	return obj
}

// CloudObject returns a flat-bottomed cloud of the given radius in local
// space, with its base at z=0 and a shadow cast by the base.
func CloudObject(name string, radius float32) *scene.Object {
	obj := scene.NewObject(name, scene.LayerAir)
	top := make([][3]float32, cloudSides)
	bottom := make([][3]float32, cloudSides)
	for i := range cloudSides {
		sc := math.SinCos(2 * math.Pi() * float32(i) / cloudSides)
		x, y := radius*sc[1], radius*sc[0]
		top[i] = [3]float32{0.7 * x, 0.7 * y, 0.4 * radius}
		// Clockwise from above so that the base faces down.
		bottom[cloudSides-1-i] = [3]float32{x, y, 0}
	}
	base := obj.AddFace(bottom, CloudColor, true, false)
	obj.AddFace(top, CloudColor, true, false)
	for i := range cloudSides {
		j := (i + 1) % cloudSides
		// Sides, counter-clockwise seen from outside.
		b0, b1 := bottom[cloudSides-1-i], bottom[cloudSides-1-j]
		obj.AddFace([][3]float32{b0, b1, top[j], top[i]}, CloudColor, true, false)
	}
	obj.AddShadow(base, ShadowColor)
	return obj
}
