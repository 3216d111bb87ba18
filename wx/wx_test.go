// wx/wx_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"testing"

	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/rand"
	"github.com/skyglide/skyglide/util"
)

func near(a, b, eps float32) bool { return math.Abs(a-b) <= eps }

func TestParseWindLayers(t *testing.T) {
	var e util.ErrorLogger
	layers := ParseWindLayers("0/270/4, 1000/180/10", &e)
	if e.HaveErrors() {
		t.Fatalf("unexpected errors: %s", e.String())
	}
	if len(layers) != 2 {
		t.Fatalf("got %d layers", len(layers))
	}
	// From the west: air moves east.
	if v := layers[0].Vector(); !near(v[0], 4, 1e-5) || !near(v[1], 0, 1e-5) {
		t.Errorf("west wind vector: got %v", v)
	}
	// From the south: air moves north.
	if v := layers[1].Vector(); !near(v[0], 0, 1e-5) || !near(v[1], 10, 1e-5) {
		t.Errorf("south wind vector: got %v", v)
	}

	for _, bad := range []string{"0/270", "x/270/4", "0/400/4", "0/270/-3", "100/270/4,50/270/4"} {
		var e util.ErrorLogger
		ParseWindLayers(bad, &e)
		if !e.HaveErrors() {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestWindAt(t *testing.T) {
	var e util.ErrorLogger
	w := Wind{Layers: ParseWindLayers("0/270/4,1000/270/8", &e)}
	for _, test := range []struct {
		z    float32
		east float32
	}{{-50, 4}, {0, 4}, {500, 6}, {1000, 8}, {3000, 8}} {
		if v := w.At(test.z); !near(v[0], test.east, 1e-4) || !near(v[1], 0, 1e-4) {
			t.Errorf("z=%v: got %v, expected east %v", test.z, v, test.east)
		}
	}

	c := ConstantWind([3]float32{0, -3, 0})
	if v := c.At(1234); !near(v[0], 0, 1e-5) || !near(v[1], -3, 1e-5) {
		t.Errorf("constant wind: got %v", v)
	}
	if c.Layers[0].Direction != 0 {
		t.Errorf("wind blowing south comes from the north: got %v", c.Layers[0].Direction)
	}
	var calm Wind
	if calm.At(10) != [3]float32{} {
		t.Errorf("calm wind should be zero")
	}
}

func TestHill(t *testing.T) {
	h := &Hill{A: [2]float32{0, 0}, B: [2]float32{100, 0}, Height: 50, Width: 20}

	if z := h.HeightAt(50, 0); z != 50 {
		t.Errorf("ridge top: got %v", z)
	}
	if z := h.HeightAt(50, 10); !near(z, 37.5, 1e-4) {
		t.Errorf("ridge side: got %v", z)
	}
	if z := h.HeightAt(50, 30); z != 0 {
		t.Errorf("off the ridge: got %v", z)
	}

	if a := h.Away([3]float32{50, 5, 0}); a != [3]float32{0, 1, 0} {
		t.Errorf("Away north side: got %v", a)
	}
	if a := h.Away([3]float32{50, -5, 0}); a != [3]float32{0, -1, 0} {
		t.Errorf("Away south side: got %v", a)
	}

	// Wind from the north blows onto the north face.
	wind := [3]float32{0, -5, 0}
	windward := h.Lift([3]float32{50, 25, 60}, wind)
	lee := h.Lift([3]float32{50, -10, 60}, wind)
	if windward <= 0 {
		t.Errorf("windward lift: got %v", windward)
	}
	if lee >= 0 {
		t.Errorf("lee sink: got %v", lee)
	}
	if high := h.Lift([3]float32{50, 25, 500}, wind); high != 0 {
		t.Errorf("far above the ridge: got %v", high)
	}
	if past := h.Lift([3]float32{150, 25, 60}, wind); past != 0 {
		t.Errorf("beyond the ridge end: got %v", past)
	}
	if along := h.Lift([3]float32{50, 25, 60}, [3]float32{5, 0, 0}); along != 0 {
		t.Errorf("wind along the ridge: got %v", along)
	}
	// Reversing the wind swaps the faces.
	if l := h.Lift([3]float32{50, -25, 60}, [3]float32{0, 5, 0}); !near(l, windward, 1e-5) {
		t.Errorf("reversed wind: got %v, expected %v", l, windward)
	}
}

func TestHeightField(t *testing.T) {
	hf := &HeightField{Origin: [2]float32{0, 0}, Spacing: 10, NX: 2, NY: 2, Heights: []float32{0, 10, 20, 30}}
	for _, test := range []struct {
		x, y, h float32
	}{{0, 0, 0}, {10, 0, 10}, {0, 10, 20}, {10, 10, 30}, {5, 5, 15}, {-100, -100, 0}, {100, 100, 30}} {
		if h := hf.At(test.x, test.y); !near(h, test.h, 1e-4) {
			t.Errorf("(%v,%v): got %v, expected %v", test.x, test.y, h, test.h)
		}
	}

	var nilField *HeightField
	if nilField.At(1, 2) != 0 {
		t.Errorf("nil height field should be flat")
	}

	terrain := &Terrain{Base: hf, Hills: []*Hill{{A: [2]float32{0, 0}, B: [2]float32{10, 0}, Height: 5, Width: 3}}}
	if h := terrain.Height(5, 0); !near(h, 10, 1e-4) {
		t.Errorf("terrain with hill: got %v", h)
	}
	var nilTerrain *Terrain
	if nilTerrain.Height(3, 3) != 0 {
		t.Errorf("nil terrain should be flat")
	}
}

func TestThermalLifecycle(t *testing.T) {
	th := &Thermal{Strength: 3, Radius: 50, RiseRate: 2, Lifetime: 100, CloudBase: 1500}
	for _, test := range []struct {
		age    float32
		phase  Phase
		factor float32
	}{
		{0, PhaseGrowing, 0},
		{10, PhaseGrowing, 0.5},
		{20, PhaseMature, 1},
		{60, PhaseMature, 1},
		{85, PhaseDecaying, 0.5},
		{100, PhaseDead, 0},
	} {
		th.Age = test.age
		if p := th.Phase(); p != test.phase {
			t.Errorf("age %v: got phase %v, expected %v", test.age, p, test.phase)
		}
		if f := th.Factor(); !near(f, test.factor, 1e-5) {
			t.Errorf("age %v: got factor %v, expected %v", test.age, f, test.factor)
		}
	}
}

func TestThermalLift(t *testing.T) {
	w := ConstantWind([3]float32{2, 0, 0})
	th := &Thermal{Base: [3]float32{0, 0, 0}, Strength: 3, Radius: 50, RiseRate: 2, Lifetime: 100, Age: 50, CloudBase: 1500, wind: &w}

	// The core leans downwind: at 100m the air has taken 50s to rise.
	if c := th.CoreAt(100); !near(c[0], 100, 1e-3) || c[1] != 0 || c[2] != 100 {
		t.Errorf("core at 100: got %v", c)
	}

	if l := th.Lift([3]float32{100, 0, 100}); !near(l, 3, 1e-5) {
		t.Errorf("core lift: got %v", l)
	}
	if l := th.Lift([3]float32{125, 0, 100}); !near(l, 2.25, 1e-4) {
		t.Errorf("half radius lift: got %v", l)
	}
	if l := th.Lift([3]float32{175, 0, 100}); !near(l, -SinkRingFraction*3, 1e-4) {
		t.Errorf("sink ring: got %v", l)
	}
	if l := th.Lift([3]float32{300, 0, 100}); l != 0 {
		t.Errorf("far away: got %v", l)
	}
	if l := th.Lift([3]float32{750, 0, 1600}); l != 0 {
		t.Errorf("above cloud base: got %v", l)
	}

	th.Update(10)
	if !near(th.Base[0], 20, 1e-4) || th.Age != 60 {
		t.Errorf("after update: base %v age %v", th.Base, th.Age)
	}
}

func TestModel(t *testing.T) {
	r := rand.Make(42)
	m := NewModel(ConstantWind([3]float32{0, 1, 0}), 1200, nil, &r, nil)

	var added, removed []int
	m.OnThermalAdded(func(th *Thermal) { added = append(added, th.ID()) })
	m.OnThermalRemoved(func(th *Thermal) { removed = append(removed, th.ID()) })

	th := m.AddThermal([2]float32{0, 0}, 2, 40, 10)
	if m.ThermalByID(th.ID()) != th || len(added) != 1 {
		t.Fatalf("AddThermal bookkeeping")
	}
	for range 5 {
		m.Update(1)
	}
	if s := m.Lookup(th.CoreAt(300)); s.Lift <= 0 || !near(s.Wind[1], 1, 1e-5) {
		t.Errorf("lookup in the core: got %v", s)
	}
	if n, d := m.Nearest([3]float32{30, 0, 300}); n != th || d <= 0 {
		t.Errorf("Nearest: got %v %v", n, d)
	}

	for range 10 {
		m.Update(1)
	}
	if len(m.Thermals) != 0 || len(removed) != 1 || removed[0] != th.ID() {
		t.Errorf("dead thermal not removed: %d live, removed %v", len(m.Thermals), removed)
	}
	if m.ThermalByID(th.ID()) != nil {
		t.Errorf("ThermalByID found a dead thermal")
	}

	m.AddTrigger(&Trigger{Pos: [2]float32{100, 100}, Strength: 2, Radius: 30, Cycle: 20, Lifetime: 15})
	for range 100 {
		m.Update(1)
	}
	// Roughly five cycles; jitter allows some slack.
	if n := len(added) - 1; n < 3 || n > 7 {
		t.Errorf("trigger released %d thermals", n)
	}
	for _, th := range m.Thermals {
		if th.Strength < 1.8 || th.Strength > 2.2 {
			t.Errorf("thermal strength %v", th.Strength)
		}
	}
}

func TestRestoreThermal(t *testing.T) {
	m := NewModel(Wind{}, 1000, nil, nil, nil)
	var removed []int
	m.OnThermalRemoved(func(th *Thermal) { removed = append(removed, th.ID()) })

	th := m.RestoreThermal(7, [3]float32{1, 2, 0}, 3, 50, 2, 100, 40)
	if th.ID() != 7 || th.Age != 40 || th.Phase() != PhaseMature {
		t.Errorf("restored thermal: got %v", th)
	}
	if next := m.AddThermal([2]float32{}, 1, 10, 10); next.ID() != 8 {
		t.Errorf("new thermal after restore: got ID %d, expected 8", next.ID())
	}

	m.RemoveThermals()
	if len(m.Thermals) != 0 || len(removed) != 2 {
		t.Errorf("RemoveThermals: %d left, %v removed", len(m.Thermals), removed)
	}
}
