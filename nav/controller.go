// nav/controller.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"log/slog"

	"github.com/skyglide/skyglide/math"

	"github.com/brunoga/deep"
)

const (
	// A target is reached within ReachedFraction*turnRadius.
	ReachedFraction = 0.25
	// CircuitGain scales turns while flying a circuit; it is also the
	// largest steering magnitude ever returned.
	CircuitGain = 2
	// Headings closer than this cosine are flown straight.
	AlignedCosine = 0.99
	// NudgeTicks is how long a circuit steers away from its repeller
	// after reaching a waypoint.
	NudgeTicks = 25

	// Orbit feedback gains on radius error and radial velocity.
	orbitRadiusGain = 0.5
	orbitRadialGain = 1
)

type Mode int

const (
	ModeNone Mode = iota
	ModeTarget
	ModeCircle
	ModeCircuit
	ModeThermal
)

func (m Mode) String() string {
	return [...]string{"none", "target", "circle", "circuit", "thermal"}[m]
}

// Thermal is a drifting lift source that can be circled. Controllers do
// not own their thermal; ReleaseThermal must be called when it goes away.
type Thermal interface {
	// CoreAt returns the core position at altitude z.
	CoreAt(z float32) [3]float32
	ID() int
}

// State is the kinematic state of the body being steered.
type State struct {
	P, V       [3]float32 // position, unit heading
	Speed      float32
	TurnRadius float32
	Wind       [3]float32
}

// GroundVelocity returns the horizontal velocity including wind drift.
func (s State) GroundVelocity() [3]float32 {
	return math.Horizontal(math.LinComb3f(s.Speed, s.V, 1, s.Wind))
}

// Controller computes a steering value each tick for one body. At most
// one mode is active; setting a mode replaces the previous one.
type Controller struct {
	Name string

	mode    Mode
	target  [3]float32
	center  [3]float32
	radius  float32
	sense   float32
	circuit *Circuit
	thermal Thermal

	// Aim upwind of targets to make up for drift.
	WindCompensation bool

	nudge    int
	arrivals int
}

func (c *Controller) Mode() Mode { return c.mode }

// Arrivals counts the targets and circuit points reached.
func (c *Controller) Arrivals() int { return c.arrivals }

func (c *Controller) clear() {
	c.mode = ModeNone
	c.circuit = nil
	c.thermal = nil
	c.nudge = 0
}

func (c *Controller) Clear() {
	c.clear()
	NavLog(c.Name, NavLogMode, "cleared")
}

func (c *Controller) SetTarget(p [3]float32) {
	c.clear()
	c.mode, c.target = ModeTarget, p
	NavLog(c.Name, NavLogMode, "target %v", p)
}

func (c *Controller) Target() ([3]float32, bool) {
	return c.target, c.mode == ModeTarget
}

// SetCircle orbits center at the given radius (the body's turn radius if
// zero); ccw selects the counter-clockwise sense.
func (c *Controller) SetCircle(center [3]float32, radius float32, ccw bool) {
	c.clear()
	c.mode, c.center, c.radius = ModeCircle, center, radius
	c.sense = float32(1)
	if !ccw {
		c.sense = -1
	}
	NavLog(c.Name, NavLogMode, "circle %v r=%.1f ccw=%v", center, radius, ccw)
}

func (c *Controller) SetCircuit(circuit *Circuit) {
	c.clear()
	if circuit == nil || len(circuit.Points) == 0 {
		return
	}
	c.mode, c.circuit = ModeCircuit, circuit
	NavLog(c.Name, NavLogMode, "%s", circuit)
}

func (c *Controller) Circuit() *Circuit {
	return c.circuit
}

// AdvanceCircuit skips to the circuit's next waypoint; it is a no-op
// without an active circuit.
func (c *Controller) AdvanceCircuit() {
	if c.mode != ModeCircuit || c.circuit == nil {
		return
	}
	if !c.circuit.Advance() {
		NavLog(c.Name, NavLogCircuit, "circuit complete")
		c.clear()
	}
}

// SetThermal circles th's core, which drifts with the wind.
func (c *Controller) SetThermal(th Thermal, radius float32, ccw bool) {
	c.clear()
	if th == nil {
		return
	}
	c.mode, c.thermal, c.radius = ModeThermal, th, radius
	c.sense = float32(1)
	if !ccw {
		c.sense = -1
	}
	NavLog(c.Name, NavLogMode, "thermal %d", th.ID())
}

func (c *Controller) Thermal() Thermal { return c.thermal }

// ReleaseThermal drops the controller's reference to th, if it holds
// one.
func (c *Controller) ReleaseThermal(th Thermal) {
	if c.thermal != nil && c.thermal.ID() == th.ID() {
		c.clear()
		NavLog(c.Name, NavLogMode, "thermal %d released", th.ID())
	}
}

// NextMove returns the steering value for this tick: 0 to fly straight,
// positive to turn counter-clockwise (left), negative clockwise. A
// magnitude of 1 turns at the body's turn radius.
func (c *Controller) NextMove(s State) float32 {
	switch c.mode {
	case ModeTarget:
		move, reached := c.steerTo(s, c.target)
		if reached {
			NavLog(c.Name, NavLogReached, "target %v reached at %v", c.target, s.P)
			c.arrivals++
			c.clear()
			return 0
		}
		return move

	case ModeCircuit:
		if c.nudge > 0 {
			c.nudge--
			if c.circuit.Repeller != nil {
				away := c.circuit.Repeller.Away(s.P)
				return clampMove(CircuitGain * headingMove(s, math.Scale3f(away, 4*s.TurnRadius)))
			}
		}
		wp, ok := c.circuit.Current()
		if !ok {
			c.clear()
			return 0
		}
		move, reached := c.steerTo(s, wp)
		if reached {
			NavLog(c.Name, NavLogCircuit, "waypoint %d reached", c.circuit.Next())
			c.arrivals++
			if c.circuit.Repeller != nil {
				c.nudge = NudgeTicks
			}
			c.AdvanceCircuit()
			return 0
		}
		return clampMove(CircuitGain * move)

	case ModeCircle:
		return c.orbit(s, c.center)

	case ModeThermal:
		if c.thermal == nil {
			c.clear()
			return 0
		}
		return c.orbit(s, c.thermal.CoreAt(s.P[2]))

	default:
		return 0
	}
}

// steerTo steers toward target, reporting whether it has been reached.
func (c *Controller) steerTo(s State, target [3]float32) (float32, bool) {
	u := math.Horizontal(math.Sub3f(target, s.P))
	lu := math.Length3f(u)
	if lu < ReachedFraction*s.TurnRadius {
		return 0, true
	}

	if c.WindCompensation {
		if gs := math.Length3f(s.GroundVelocity()); gs > 0 {
			// Aim upwind by the drift accumulated before arriving.
			u = math.LinComb3f(1, u, -lu/gs, math.Horizontal(s.Wind))
		}
	}
	return headingMove(s, u), false
}

// headingMove returns the steering value that turns the body's heading
// toward the horizontal offset u.
func headingMove(s State, u [3]float32) float32 {
	v := math.Horizontal(s.V)
	lu, lv := math.Length3f(u), math.Length3f(v)
	if lu == 0 || lv == 0 {
		return 0
	}

	cos := math.Dot3f(u, v) / (lu * lv)
	if cos > AlignedCosine {
		return 0
	}

	// z component of v̂ x u: its sign gives the turn direction and its
	// magnitude the radius of the arc tangent to v through the target.
	cz := (v[0]*u[1] - v[1]*u[0]) / lv
	sign := float32(1)
	if cz < 0 {
		sign = -1
	}
	if acz := math.Abs(cz); acz > 0 {
		implied := lu * lu / (2 * acz)
		if implied < s.TurnRadius {
			// The target is inside the turning circle; fly straight to
			// open up some room.
			return 0
		}
		if cos > 0 {
			return sign * s.TurnRadius / implied
		}
	}
	return sign
}

// orbit holds a constant-radius circle around center in the configured
// sense, correcting for radius error and radial velocity.
func (c *Controller) orbit(s State, center [3]float32) float32 {
	rc := c.radius
	if rc <= 0 {
		rc = s.TurnRadius
	}
	w := math.Horizontal(math.Sub3f(s.P, center))
	d := math.Length3f(w)
	if d > 2*rc {
		return headingMove(s, math.Scale3f(w, -1))
	}
	if d == 0 {
		return c.sense
	}

	wn := math.Scale3f(w, 1/d)
	vn := math.Normalize3f(math.Horizontal(s.V))
	if c.sense*(wn[0]*vn[1]-wn[1]*vn[0]) <= 0 {
		// Going around the wrong way or straight in or out: turn hard
		// in the orbit's sense.
		return c.sense
	}
	move := c.sense * (s.TurnRadius / rc) *
		(1 + orbitRadiusGain*(d-rc)/rc + orbitRadialGain*math.Dot3f(wn, vn))
	return clampMove(move)
}

func clampMove(m float32) float32 {
	return math.Clamp(m, -CircuitGain, CircuitGain)
}

///////////////////////////////////////////////////////////////////////////
// Snapshots

// Snapshot captures the controller's navigation state. Thermals are
// recorded by ID since the controller does not own them.
type Snapshot struct {
	Mode             Mode
	Target           [3]float32
	Center           [3]float32
	Radius           float32
	Sense            float32
	CircuitPoints    [][3]float32
	CircuitLoop      bool
	CircuitNext      int
	ThermalID        int
	WindCompensation bool
	Nudge            int
	Arrivals         int
}

func (c *Controller) TakeSnapshot() Snapshot {
	snap := Snapshot{
		Mode:             c.mode,
		Target:           c.target,
		Center:           c.center,
		Radius:           c.radius,
		Sense:            c.sense,
		WindCompensation: c.WindCompensation,
		Nudge:            c.nudge,
		Arrivals:         c.arrivals,
		ThermalID:        -1,
	}
	if c.circuit != nil {
		snap.CircuitPoints = c.circuit.Points
		snap.CircuitLoop = c.circuit.Loop
		snap.CircuitNext = c.circuit.next
	}
	if c.thermal != nil {
		snap.ThermalID = c.thermal.ID()
	}
	return deep.MustCopy(snap)
}

// RestoreSnapshot restores navigation state; lookup resolves thermal IDs
// and repeller is attached to a restored circuit.
func (c *Controller) RestoreSnapshot(snap Snapshot, lookup func(id int) Thermal, repeller Repeller) {
	c.clear()
	c.mode = snap.Mode
	c.target, c.center = snap.Target, snap.Center
	c.radius, c.sense = snap.Radius, snap.Sense
	c.WindCompensation = snap.WindCompensation
	c.nudge, c.arrivals = snap.Nudge, snap.Arrivals

	switch c.mode {
	case ModeCircuit:
		c.circuit = &Circuit{
			Points:   deep.MustCopy(snap.CircuitPoints),
			Loop:     snap.CircuitLoop,
			Repeller: repeller,
			next:     snap.CircuitNext,
		}
	case ModeThermal:
		if lookup != nil {
			c.thermal = lookup(snap.ThermalID)
		}
		if c.thermal == nil {
			c.clear()
		}
	}
}

func (c *Controller) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("mode", c.mode.String())}
	switch c.mode {
	case ModeTarget:
		attrs = append(attrs, slog.Any("target", c.target))
	case ModeCircle:
		attrs = append(attrs, slog.Any("center", c.center), slog.Float64("radius", float64(c.radius)))
	case ModeCircuit:
		attrs = append(attrs, slog.Any("circuit", c.circuit))
	case ModeThermal:
		attrs = append(attrs, slog.Int("thermal", c.thermal.ID()))
	}
	return slog.GroupValue(attrs...)
}
