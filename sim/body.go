// sim/body.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"

	"github.com/skyglide/skyglide/aviation"
	"github.com/skyglide/skyglide/log"
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/nav"
	"github.com/skyglide/skyglide/renderer"
	"github.com/skyglide/skyglide/scene"
	"github.com/skyglide/skyglide/util"
	"github.com/skyglide/skyglide/wx"
)

const (
	// MaxRoll bounds the bank angle, in radians.
	MaxRoll = 0.6
	// RollPerMove is the bank angle for a unit steering input.
	RollPerMove = 0.45
	// RollTime is the time constant with which the bank angle follows
	// the steering input.
	RollTime = 0.8
	// Balloons close this fraction of the distance to their target
	// altitude per second, limited by their climb rate.
	balloonResponse = 0.05
)

var (
	ShadowColor = renderer.RGB{R: 0.25, G: 0.3, B: 0.2}
	TailColor   = renderer.RGB{R: 0.9, G: 0.9, B: 0.3}
)

// Environment is what a body sees of the world around it.
type Environment interface {
	Sample(p [3]float32) wx.Sample
	NearestThermal(p [3]float32) (*wx.Thermal, float32)
	GroundHeight(x, y float32) float32
	CloudBase() float32
}

// SinkModel gives a body's vertical speed given the vertical movement of
// the air around it.
type SinkModel interface {
	Vertical(b *Body, lift float32) float32
}

// PolarSink sinks at the rate given by the glider's polar for its current
// speed.
type PolarSink struct{}

func (PolarSink) Vertical(b *Body, lift float32) float32 {
	return lift - b.Type.Polar.SinkAt(b.Speed)
}

// BalloonLift climbs or descends toward a target altitude.
type BalloonLift struct {
	Target float32
}

func (bl BalloonLift) Vertical(b *Body, lift float32) float32 {
	c := b.Type.Climb
	return lift + math.Clamp(balloonResponse*(bl.Target-b.P[2]), -c, c)
}

// JetLevel flies level regardless of the air.
type JetLevel struct{}

func (JetLevel) Vertical(*Body, float32) float32 { return 0 }

// SinkModelFor returns the sink model for a glider type flying at
// altitude z.
func SinkModelFor(gt *aviation.GliderType, z float32) SinkModel {
	switch gt.Class {
	case aviation.Balloon:
		return BalloonLift{Target: z}
	case aviation.Jet:
		return JetLevel{}
	default:
		return PolarSink{}
	}
}

// Pilot provides a body's steering input each tick.
type Pilot interface {
	Steer(b *Body, env Environment, dt float32) float32
}

// Body is a moving glider, balloon or jet.
type Body struct {
	Name string
	Type *aviation.GliderType

	P, V       [3]float32 // position, unit horizontal heading
	Speed      float32
	SpeedIndex int
	TurnRadius float32

	Nav   nav.Controller
	Sink  SinkModel
	Pilot Pilot // the nav controller steers if nil

	Move   float32 // the last steering input
	Roll   float32
	Climb  float32 // vertical speed over the last tick
	Wind   [3]float32
	Landed bool

	Object *scene.Object
	Tail   *Tail

	observer ObserverID
	lg       *log.Logger
}

// NewBody returns a body of the given type at p flying on the given
// compass heading.
func NewBody(name string, gt *aviation.GliderType, p [3]float32, heading float32, pilot Pilot, lg *log.Logger) *Body {
	b := &Body{
		Name:       name,
		Type:       gt,
		P:          p,
		V:          math.HeadingVector(heading),
		TurnRadius: gt.TurnRadius,
		Sink:       SinkModelFor(gt, p[2]),
		Pilot:      pilot,
		Object:     NewGliderObject(name, gt),
		Tail:       NewTail(name+" tail", TailColor),
		lg:         lg,
	}
	b.Nav.Name = name
	b.SetSpeedIndex(0)
	b.updatePose()
	return b
}

// NewGliderObject builds a scene object from a glider type's mesh.
func NewGliderObject(name string, gt *aviation.GliderType) *scene.Object {
	obj := scene.NewObject(name, scene.LayerAir)
	idx := util.MapSlice(gt.Mesh.Points, obj.AddPoint)
	for _, f := range gt.Mesh.Faces {
		fi := obj.AddFaceIndices(util.MapSlice(f.Points, func(i int) int { return idx[i] }),
			f.RGB, f.Solid, f.DoubleSided)
		if f.Shadow {
			obj.AddShadow(fi, ShadowColor)
		}
	}
	return obj
}

// SetSpeedIndex selects one of the polar's speeds; i is clamped to the
// valid range.
func (b *Body) SetSpeedIndex(i int) {
	b.SpeedIndex = math.Clamp(i, 0, max(b.Type.Polar.NumSpeeds()-1, 0))
	b.Speed = b.Type.Polar.Speed(b.SpeedIndex)
}

// State returns the body's kinematic state for steering.
func (b *Body) State() nav.State {
	return nav.State{P: b.P, V: b.V, Speed: b.Speed, TurnRadius: b.TurnRadius, Wind: b.Wind}
}

// Heading returns the compass heading.
func (b *Body) Heading() float32 {
	return math.VectorHeading(b.V)
}

// Step advances the body by dt seconds.
func (b *Body) Step(dt float32, env Environment) {
	if b.Landed {
		return
	}

	s := env.Sample(b.P)
	b.Wind = s.Wind

	var move float32
	if b.Pilot != nil {
		move = b.Pilot.Steer(b, env, dt)
	} else {
		move = b.Nav.NextMove(b.State())
	}
	b.Move = move

	b.integrate(dt, move)

	b.Climb = b.Sink.Vertical(b, s.Lift)
	b.P[2] += b.Climb * dt
	if h := env.GroundHeight(b.P[0], b.P[1]); b.P[2] <= h {
		b.P[2] = h
		b.Climb = 0
		b.Landed = true
		b.lg.Info("landed", slog.Any("body", b))
	}

	b.updateRoll(dt, move)
	b.updatePose()
	b.Tail.Update(b.P, dt)
}

// integrate moves the body along its heading, turning at the rate given
// by move. The heading is rotated by half the turn before and after the
// move so that the path follows the arc.
func (b *Body) integrate(dt, move float32) {
	var half float32
	if b.TurnRadius > 0 {
		half = b.Speed / b.TurnRadius * move * dt / 2
	}
	if half != 0 {
		b.V = math.RotateZ3f(b.V, half)
	}
	b.P = math.Add3f(b.P, math.LinComb3f(b.Speed*dt, b.V, dt, math.Horizontal(b.Wind)))
	if half != 0 {
		b.V = math.Normalize3f(math.Horizontal(math.RotateZ3f(b.V, half)))
	}
}

// updateRoll banks toward the angle for the current input, so the roll
// returns to level when the body flies straight.
func (b *Body) updateRoll(dt, move float32) {
	target := math.Clamp(move*RollPerMove, -MaxRoll, MaxRoll)
	b.Roll += (target - b.Roll) * min(1, dt/RollTime)
	b.Roll = math.Clamp(b.Roll, -MaxRoll, MaxRoll)
}

func (b *Body) updatePose() {
	theta := math.Atan2(b.V[1], b.V[0])
	// Turning left (positive roll) lowers the left (+y) wing.
	orient := math.RotationZ(theta).PostMultiply(math.RotationX(-b.Roll))
	b.Object.SetPose(b.P, orient)
}

// SetState sets the state of a body whose motion is relayed from
// elsewhere.
func (b *Body) SetState(p, v [3]float32, polarIndex int, move float32) {
	b.P = p
	if h := math.Horizontal(v); math.Length3f(h) > 0 {
		b.V = math.Normalize3f(h)
	}
	b.SetSpeedIndex(polarIndex)
	if rp, ok := b.Pilot.(*RemotePilot); ok {
		rp.Move = move
	}
	b.Landed = false
	b.updatePose()
}

// ViewPoint implements scene.Subject with a chase view.
func (b *Body) ViewPoint() (eye, focus [3]float32) {
	back := math.Clamp(3*b.TurnRadius, 40, 300)
	return scene.ChaseView(b.P, b.V, back, back/3)
}

func (b *Body) Position() [3]float32 { return b.P }

func (b *Body) SubjectClass() scene.SubjectClass { return scene.SubjectBody }

func (b *Body) String() string {
	return fmt.Sprintf("%s (%s) at %.0f,%.0f,%.0f", b.Name, b.Type.Name, b.P[0], b.P[1], b.P[2])
}

func (b *Body) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", b.Name),
		slog.String("type", b.Type.Name),
		slog.Any("p", b.P),
		slog.Float64("heading", float64(b.Heading())),
		slog.Float64("speed", float64(b.Speed)),
		slog.Float64("climb", float64(b.Climb)),
		slog.Bool("landed", b.Landed),
		slog.Any("nav", &b.Nav),
	)
}

///////////////////////////////////////////////////////////////////////////
// Tail

const (
	TailLength = 64
	// TailInterval is the time between tail points, in seconds.
	TailInterval = 0.5
)

// Tail is a ribbon through a body's recent positions.
type Tail struct {
	Object *scene.Object
	points *util.RingBuffer[[3]float32]
	face   int
	since  float32
}

func NewTail(name string, color renderer.RGB) *Tail {
	obj := scene.NewObject(name, scene.LayerAir)
	return &Tail{
		Object: obj,
		points: util.NewRingBuffer[[3]float32](TailLength),
		face:   obj.AddFaceIndices(nil, color, false, false),
	}
}

// Update adds p to the tail if enough time has passed since the last
// point.
func (t *Tail) Update(p [3]float32, dt float32) {
	t.since += dt
	if t.points.Size() > 0 && t.since < TailInterval {
		return
	}
	t.since = 0
	t.Add(p)
}

// Add appends p; the oldest point is dropped once the tail is full.
func (t *Tail) Add(p [3]float32) {
	t.points.Add(p)
	n := t.points.Size()

	face := &t.Object.Faces[t.face]
	for len(face.Indices) < n {
		i := len(face.Indices)
		if i >= t.Object.NumPoints() {
			t.Object.AddPinnedPoint(p)
		}
		face.Indices = append(face.Indices, i)
	}
	for i := range n {
		t.Object.SetPinnedPoint(i, t.points.Get(i))
	}
}

func (t *Tail) Len() int { return t.points.Size() }

// Point returns the i'th oldest point.
func (t *Tail) Point(i int) [3]float32 { return t.points.Get(i) }

func (t *Tail) Clear() {
	t.points.Clear()
	face := &t.Object.Faces[t.face]
	face.Indices = face.Indices[:0]
	t.since = 0
}
