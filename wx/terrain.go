// wx/terrain.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"github.com/skyglide/skyglide/math"
)

// HeightField is a regular grid of ground heights. Heights[j*NX+i] is
// the height at Origin + (i, j)*Spacing.
type HeightField struct {
	Origin  [2]float32
	Spacing float32
	NX, NY  int
	Heights []float32
}

// At returns the bilinearly interpolated height at x, y; points outside
// the grid take the height of the nearest edge.
func (hf *HeightField) At(x, y float32) float32 {
	if hf == nil || hf.NX == 0 || hf.NY == 0 || hf.Spacing <= 0 || len(hf.Heights) < hf.NX*hf.NY {
		return 0
	}
	fx := math.Clamp((x-hf.Origin[0])/hf.Spacing, 0, float32(hf.NX-1))
	fy := math.Clamp((y-hf.Origin[1])/hf.Spacing, 0, float32(hf.NY-1))
	i0, j0 := int(fx), int(fy)
	i1, j1 := min(i0+1, hf.NX-1), min(j0+1, hf.NY-1)
	tx, ty := fx-float32(i0), fy-float32(j0)

	h := func(i, j int) float32 { return hf.Heights[j*hf.NX+i] }
	return math.Lerp(ty, math.Lerp(tx, h(i0, j0), h(i1, j0)), math.Lerp(tx, h(i0, j1), h(i1, j1)))
}

// Terrain combines a base height field with the hills standing on it.
type Terrain struct {
	Base  *HeightField
	Hills []*Hill
}

func (t *Terrain) Height(x, y float32) float32 {
	if t == nil {
		return 0
	}
	h := t.Base.At(x, y)
	var hill float32
	for _, hl := range t.Hills {
		hill = max(hill, hl.HeightAt(x, y))
	}
	return h + hill
}
