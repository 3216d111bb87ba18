// wx/model.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"log/slog"
	"slices"

	"github.com/skyglide/skyglide/log"
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/rand"
)

const (
	DefaultRiseRate = 2.5
	// Trigger cycles are jittered by this fraction so that thermals do
	// not appear in lockstep.
	triggerJitter = 0.25
)

// Model is the air over the task area: wind, ridge lift from hills and
// thermals released by triggers.
type Model struct {
	Wind      Wind
	CloudBase float32
	Terrain   *Terrain
	Thermals  []*Thermal
	Triggers  []*Trigger

	rand      *rand.Rand
	nextID    int
	onAdded   []func(*Thermal)
	onRemoved []func(*Thermal)
	lg        *log.Logger
}

func NewModel(wind Wind, cloudBase float32, terrain *Terrain, r *rand.Rand, lg *log.Logger) *Model {
	if terrain == nil {
		terrain = &Terrain{}
	}
	if r == nil {
		nr := rand.New()
		r = &nr
	}
	return &Model{
		Wind:      wind,
		CloudBase: cloudBase,
		Terrain:   terrain,
		rand:      r,
		nextID:    1,
		lg:        lg,
	}
}

// OnThermalAdded registers a callback run when a thermal is created.
func (m *Model) OnThermalAdded(f func(*Thermal)) {
	m.onAdded = append(m.onAdded, f)
}

// OnThermalRemoved registers a callback run when a thermal dies; holders
// of references to it must drop them.
func (m *Model) OnThermalRemoved(f func(*Thermal)) {
	m.onRemoved = append(m.onRemoved, f)
}

// AddTrigger adds a trigger whose first thermal is released after a
// random fraction of its cycle.
func (m *Model) AddTrigger(tr *Trigger) {
	tr.next = m.rand.Uniform(0, max(tr.Cycle, 1))
	m.Triggers = append(m.Triggers, tr)
}

// AddThermal creates a thermal at ground position pos.
func (m *Model) AddThermal(pos [2]float32, strength, radius, lifetime float32) *Thermal {
	t := &Thermal{
		id:        m.nextID,
		Base:      [3]float32{pos[0], pos[1], m.Terrain.Height(pos[0], pos[1])},
		Strength:  strength,
		Radius:    radius,
		RiseRate:  DefaultRiseRate,
		Lifetime:  lifetime,
		CloudBase: m.CloudBase,
		wind:      &m.Wind,
	}
	m.nextID++
	m.Thermals = append(m.Thermals, t)
	m.lg.Debug("thermal added", slog.Any("thermal", t))
	for _, f := range m.onAdded {
		f(t)
	}
	return t
}

// RestoreThermal recreates a thermal saved from an earlier session,
// keeping its ID.
func (m *Model) RestoreThermal(id int, base [3]float32, strength, radius, riseRate, lifetime, age float32) *Thermal {
	t := &Thermal{
		id:        id,
		Base:      base,
		Strength:  strength,
		Radius:    radius,
		RiseRate:  riseRate,
		Lifetime:  lifetime,
		Age:       age,
		CloudBase: m.CloudBase,
		wind:      &m.Wind,
	}
	m.nextID = max(m.nextID, id+1)
	m.Thermals = append(m.Thermals, t)
	for _, f := range m.onAdded {
		f(t)
	}
	return t
}

// RemoveThermals removes all thermals, notifying listeners.
func (m *Model) RemoveThermals() {
	dead := m.Thermals
	m.Thermals = nil
	for _, t := range dead {
		for _, f := range m.onRemoved {
			f(t)
		}
	}
}

// ThermalByID returns the live thermal with the given ID, or nil.
func (m *Model) ThermalByID(id int) *Thermal {
	if i := slices.IndexFunc(m.Thermals, func(t *Thermal) bool { return t.id == id }); i != -1 {
		return m.Thermals[i]
	}
	return nil
}

// Update advances thermals and triggers by dt seconds, releasing new
// thermals and removing dead ones.
func (m *Model) Update(dt float32) {
	for _, t := range m.Thermals {
		t.Update(dt)
	}

	var dead []*Thermal
	m.Thermals = slices.DeleteFunc(m.Thermals, func(t *Thermal) bool {
		if t.Phase() == PhaseDead {
			dead = append(dead, t)
			return true
		}
		return false
	})
	for _, t := range dead {
		m.lg.Debug("thermal removed", slog.Int("id", t.id))
		for _, f := range m.onRemoved {
			f(t)
		}
	}

	for _, tr := range m.Triggers {
		tr.next -= dt
		if tr.next <= 0 {
			tr.next += m.rand.Jitter(max(tr.Cycle, 1), triggerJitter)
			lifetime := tr.Lifetime
			if lifetime <= 0 {
				lifetime = max(tr.Cycle, 1)
			}
			m.AddThermal(tr.Pos, m.rand.Jitter(tr.Strength, 0.1), tr.Radius, lifetime)
		}
	}
}

// Lookup returns the wind and the total vertical air movement at p.
func (m *Model) Lookup(p [3]float32) Sample {
	s := Sample{Wind: m.Wind.At(p[2])}
	for _, h := range m.Terrain.Hills {
		s.Lift += h.Lift(p, s.Wind)
	}
	for _, t := range m.Thermals {
		s.Lift += t.Lift(p)
	}
	return s
}

// Nearest returns the live thermal whose core at altitude p[2] is
// closest to p, along with the horizontal distance to it.
func (m *Model) Nearest(p [3]float32) (*Thermal, float32) {
	var best *Thermal
	var bestDist float32
	for _, t := range m.Thermals {
		if t.Phase() == PhaseDecaying {
			continue
		}
		d := math.Distance2f(math.XY(p), math.XY(t.CoreAt(p[2])))
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, bestDist
}
