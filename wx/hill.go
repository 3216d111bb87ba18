// wx/hill.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/util"
)

const (
	// RidgeLiftFactor converts the wind component blowing onto a ridge
	// into vertical air speed.
	RidgeLiftFactor = 0.6
	// LeeSinkFactor scales the sink behind a ridge relative to the lift
	// in front of it.
	LeeSinkFactor = 0.5
)

// Hill is a ridge running from A to B with a rounded cross-section of
// the given height and half-width.
type Hill struct {
	A, B   [2]float32
	Height float32
	Width  float32
}

// local returns the signed lateral distance of p from the ridge line
// (positive on the Normal side), the distance to the ridge segment, and
// the parameter of the closest point along A-B.
func (h *Hill) local(p [3]float32) (lateral, dist, t float32) {
	ab := math.Sub2f(h.B, h.A)
	ap := math.Sub2f(math.XY(p), h.A)
	l2 := math.Dot2f(ab, ab)
	if l2 > 0 {
		t = math.Dot2f(ap, ab) / l2
	}
	n := h.normal2()
	lateral = math.Dot2f(ap, n)
	closest := math.Add2f(h.A, math.Scale2f(ab, math.Clamp(t, 0, 1)))
	dist = math.Distance2f(math.XY(p), closest)
	return
}

func (h *Hill) normal2() [2]float32 {
	d := math.Normalize2f(math.Sub2f(h.B, h.A))
	// Left of A->B.
	return [2]float32{-d[1], d[0]}
}

// Normal returns the horizontal unit normal to the ridge line, pointing
// to the left when looking from A to B.
func (h *Hill) Normal() [3]float32 {
	n := h.normal2()
	return [3]float32{n[0], n[1], 0}
}

// HeightAt returns the ground height due to the hill at x, y.
func (h *Hill) HeightAt(x, y float32) float32 {
	_, d, _ := h.local([3]float32{x, y, 0})
	if d >= h.Width || h.Width <= 0 {
		return 0
	}
	f := d / h.Width
	return h.Height * (1 - f*f)
}

// Away returns the horizontal unit direction leading away from the
// ridge line on p's side.
func (h *Hill) Away(p [3]float32) [3]float32 {
	lateral, _, _ := h.local(p)
	return math.Scale3f(h.Normal(), util.Select(lateral < 0, float32(-1), float32(1)))
}

// Lift returns the vertical air speed at p due to wind blowing over the
// ridge: lift on the windward face and weaker sink in the lee.
func (h *Hill) Lift(p [3]float32, wind [3]float32) float32 {
	if h.Width <= 0 || h.Height <= 0 {
		return 0
	}
	lateral, _, t := h.local(p)
	if t < 0 || t > 1 {
		return 0
	}

	n := h.Normal()
	// Component of the wind blowing onto the ridge from the +normal side.
	into := -math.Dot3f(wind, n)
	side := lateral
	if into < 0 {
		into, side = -into, -lateral
	}
	if into == 0 {
		return 0
	}

	// Lift fades out above a few ridge heights.
	ground := h.HeightAt(p[0], p[1])
	hf := math.Clamp(1-max(0, p[2]-h.Height)/(2*h.Height), 0, 1)
	if p[2] < ground {
		hf = 0
	}

	if side >= 0 {
		// Windward; strongest over the face, fading out in front of it.
		lf := math.Clamp(1-side/(2*h.Width), 0, 1)
		return RidgeLiftFactor * into * lf * hf
	}
	lf := math.Clamp(1+side/h.Width, 0, 1)
	return -LeeSinkFactor * RidgeLiftFactor * into * lf * hf
}
