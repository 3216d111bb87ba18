// wx/thermal.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"fmt"
	"log/slog"

	"github.com/skyglide/skyglide/math"
)

const (
	// Fractions of a thermal's lifetime spent growing and decaying.
	GrowFraction  = 0.2
	DecayFraction = 0.3
	// SinkRingFraction is the peak sink around the core relative to the
	// core's strength.
	SinkRingFraction = 0.2
)

type Phase int

const (
	PhaseGrowing Phase = iota
	PhaseMature
	PhaseDecaying
	PhaseDead
)

func (p Phase) String() string {
	return [...]string{"growing", "mature", "decaying", "dead"}[p]
}

// Thermal is a column of rising air. Its base drifts with the wind and
// its core leans downwind with altitude since the air takes time to
// rise.
type Thermal struct {
	id        int
	Base      [3]float32
	Strength  float32 // peak climb at the core, m/s
	Radius    float32
	RiseRate  float32
	Lifetime  float32 // seconds
	Age       float32
	CloudBase float32

	wind *Wind
}

func (t *Thermal) ID() int { return t.id }

func (t *Thermal) Phase() Phase {
	if t.Lifetime <= 0 || t.Age >= t.Lifetime {
		return PhaseDead
	}
	f := t.Age / t.Lifetime
	if f < GrowFraction {
		return PhaseGrowing
	} else if f > 1-DecayFraction {
		return PhaseDecaying
	}
	return PhaseMature
}

// Factor returns the thermal's current strength relative to its peak: it
// ramps up while growing and down while decaying.
func (t *Thermal) Factor() float32 {
	if t.Lifetime <= 0 {
		return 0
	}
	f := t.Age / t.Lifetime
	switch t.Phase() {
	case PhaseGrowing:
		return f / GrowFraction
	case PhaseMature:
		return 1
	case PhaseDecaying:
		return (1 - f) / DecayFraction
	default:
		return 0
	}
}

// CoreAt returns the position of the core at altitude z.
func (t *Thermal) CoreAt(z float32) [3]float32 {
	c := t.Base
	if t.wind != nil {
		c = math.Add3f(c, t.wind.Drift(t.Base[2], z, t.RiseRate))
	}
	c[2] = z
	return c
}

// Lift returns the vertical air speed at p: strongest at the core,
// falling off to zero at Radius, with a weak ring of sink out to twice
// that. There is no lift above cloud base.
func (t *Thermal) Lift(p [3]float32) float32 {
	if p[2] > t.CloudBase || t.Radius <= 0 {
		return 0
	}
	k := t.Factor()
	if k == 0 {
		return 0
	}
	r := math.Distance2f(math.XY(p), math.XY(t.CoreAt(p[2])))
	if r < t.Radius {
		f := r / t.Radius
		return t.Strength * k * (1 - f*f)
	} else if r < 2*t.Radius {
		// Triangular ring peaking halfway out.
		f := 1 - math.Abs(r-1.5*t.Radius)/(0.5*t.Radius)
		return -SinkRingFraction * t.Strength * k * f
	}
	return 0
}

// Update ages the thermal and moves its base with the surface wind.
func (t *Thermal) Update(dt float32) {
	t.Age += dt
	if t.wind != nil {
		t.Base = math.Add3f(t.Base, math.Scale3f(t.wind.At(t.Base[2]), dt))
	}
}

func (t *Thermal) String() string {
	return fmt.Sprintf("thermal %d %s %.1fm/s age %.0f/%.0f", t.id, t.Phase(), t.Strength, t.Age, t.Lifetime)
}

func (t *Thermal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("id", t.id),
		slog.Any("base", t.Base),
		slog.String("phase", t.Phase().String()),
		slog.Float64("strength", float64(t.Strength)),
		slog.Float64("age", float64(t.Age)),
	)
}

// Trigger is a hot spot on the ground that releases a thermal every
// Cycle seconds.
type Trigger struct {
	Pos      [2]float32
	Strength float32
	Radius   float32
	Cycle    float32
	Lifetime float32

	next float32
}

// Next returns the seconds until the trigger next releases a thermal.
func (t *Trigger) Next() float32 { return t.next }

func (t *Trigger) SetNext(s float32) { t.next = s }
