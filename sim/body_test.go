// sim/body_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"testing"

	"github.com/skyglide/skyglide/aviation"
	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/nav"
	"github.com/skyglide/skyglide/platform"
	"github.com/skyglide/skyglide/rand"
	"github.com/skyglide/skyglide/wx"
)

type testEnv struct {
	lift      float32
	wind      [3]float32
	ground    float32
	cloudBase float32
	thermal   *wx.Thermal
}

func (e *testEnv) Sample(p [3]float32) wx.Sample { return wx.Sample{Wind: e.wind, Lift: e.lift} }

func (e *testEnv) NearestThermal(p [3]float32) (*wx.Thermal, float32) {
	if e.thermal == nil {
		return nil, 0
	}
	return e.thermal, math.Distance2f(math.XY(p), math.XY(e.thermal.CoreAt(p[2])))
}

func (e *testEnv) GroundHeight(x, y float32) float32 { return e.ground }

func (e *testEnv) CloudBase() float32 {
	if e.cloudBase == 0 {
		return 1500
	}
	return e.cloudBase
}

func testType(class aviation.GliderClass, radius, speed, sink float32) *aviation.GliderType {
	return &aviation.GliderType{
		Name:       class.String(),
		Class:      class,
		TurnRadius: radius,
		Polar:      aviation.Polar{{Speed: speed, Sink: sink}, {Speed: 2 * speed, Sink: 2 * sink}},
		Climb:      2,
	}
}

func TestReachTarget(t *testing.T) {
	b := NewBody("test", testType(aviation.Jet, 2, 1, 0), [3]float32{0, 0, 1}, 0, nil, nil)
	b.Nav.SetTarget([3]float32{0, 10, 0})
	env := &testEnv{}

	for i := 0; b.Nav.Mode() != nav.ModeNone; i++ {
		if i == 1000 {
			t.Fatalf("target not reached; at %v", b.P)
		}
		b.Step(0.1, env)
	}
	if b.P[1] < 9.5 || b.P[1] > 10.5 || math.Abs(b.P[0]) > 0.01 {
		t.Errorf("reached at %v, expected near (0, 10)", b.P)
	}
	if b.P[2] != 1 || b.Landed {
		t.Errorf("level flight: got altitude %v landed %v", b.P[2], b.Landed)
	}
}

func TestTurnDirection(t *testing.T) {
	for _, tc := range []struct {
		move float32
		left bool
	}{{1, true}, {-1, false}, {2, true}} {
		b := NewBody("test", testType(aviation.Jet, 50, 10, 0), [3]float32{0, 0, 100}, 0,
			&RemotePilot{Move: tc.move}, nil)
		b.Step(0.5, &testEnv{})
		if left := b.V[0] < 0; left != tc.left {
			t.Errorf("move %v: heading %v, expected left turn %v", tc.move, b.V, tc.left)
		}
		if math.Abs(math.Length3f(b.V)-1) > 1e-4 || b.V[2] != 0 {
			t.Errorf("move %v: heading %v should be a horizontal unit vector", tc.move, b.V)
		}
	}
}

func TestWindDrift(t *testing.T) {
	b := NewBody("test", testType(aviation.Jet, 50, 10, 0), [3]float32{0, 0, 100}, 0, &RemotePilot{}, nil)
	env := &testEnv{wind: [3]float32{5, 0, 0}}
	for range 10 {
		b.Step(0.1, env)
	}
	if math.Abs(b.P[0]-5) > 1e-3 || math.Abs(b.P[1]-10) > 1e-3 {
		t.Errorf("position after 1s: got %v, expected (5, 10)", b.P)
	}
	if b.Wind != env.wind {
		t.Errorf("wind not recorded: %v", b.Wind)
	}
}

func TestOrbitBody(t *testing.T) {
	b := NewBody("test", testType(aviation.Paraglider, 8, 5, 1), [3]float32{300, 200, 1000}, 90, nil, nil)
	b.Nav.SetCircle([3]float32{}, 20, false)
	env := &testEnv{lift: 1}
	for range 4000 {
		b.Step(0.1, env)
	}
	if d := math.Length2f(math.XY(b.P)); math.Abs(d-20) > 2 {
		t.Errorf("orbit radius: got %v, expected 20", d)
	}
	if b.Nav.Mode() != nav.ModeCircle {
		t.Errorf("mode changed to %v", b.Nav.Mode())
	}
	if math.Abs(b.P[2]-1000) > 1e-2 {
		t.Errorf("lift should cancel sink: altitude %v", b.P[2])
	}
}

func TestRollBounds(t *testing.T) {
	pilot := &RemotePilot{Move: 2}
	b := NewBody("test", testType(aviation.Jet, 50, 10, 0), [3]float32{0, 0, 100}, 0, pilot, nil)
	env := &testEnv{}

	for range 100 {
		b.Step(0.1, env)
		if b.Roll < 0 || b.Roll > MaxRoll {
			t.Fatalf("roll %v out of range", b.Roll)
		}
	}
	if b.Roll < 0.9*MaxRoll {
		t.Errorf("sustained turn: roll %v, expected near %v", b.Roll, MaxRoll)
	}

	pilot.Move = -2
	for range 100 {
		b.Step(0.1, env)
		if b.Roll < -MaxRoll || b.Roll > MaxRoll {
			t.Fatalf("roll %v out of range", b.Roll)
		}
	}
	if b.Roll > -0.9*MaxRoll {
		t.Errorf("reversed turn: roll %v", b.Roll)
	}

	pilot.Move = 0
	for range 100 {
		b.Step(0.1, env)
	}
	if math.Abs(b.Roll) > 0.01 {
		t.Errorf("straight flight: roll %v should return to level", b.Roll)
	}
}

func TestLanding(t *testing.T) {
	b := NewBody("test", testType(aviation.Sailplane, 50, 10, 1), [3]float32{0, 0, 5}, 0, &RemotePilot{}, nil)
	env := &testEnv{}
	b.Step(0.1, env)
	if b.Climb != -1 {
		t.Errorf("climb in still air: got %v, expected the polar's sink", b.Climb)
	}

	for range 100 {
		b.Step(0.1, env)
	}
	if !b.Landed || b.P[2] != 0 || b.Climb != 0 {
		t.Fatalf("expected landed on the ground: %v climb %v landed %v", b.P, b.Climb, b.Landed)
	}
	p := b.P
	b.Step(0.1, env)
	if b.P != p {
		t.Errorf("landed body moved from %v to %v", p, b.P)
	}

	// Relayed state lifts a remote body off the ground.
	b.SetState([3]float32{10, 10, 200}, [3]float32{1, 0, 0}, 1, 0.5)
	if b.Landed || b.SpeedIndex != 1 || b.Speed != 20 || b.Pilot.(*RemotePilot).Move != 0.5 {
		t.Errorf("SetState: got %v speed %v landed %v", b.P, b.Speed, b.Landed)
	}
}

func TestSpeedIndex(t *testing.T) {
	b := NewBody("test", testType(aviation.Sailplane, 50, 10, 1), [3]float32{0, 0, 100}, 0, nil, nil)
	for _, tc := range []struct{ set, expect int }{{1, 1}, {5, 1}, {-3, 0}} {
		b.SetSpeedIndex(tc.set)
		if b.SpeedIndex != tc.expect || b.Speed != b.Type.Polar.Speed(tc.expect) {
			t.Errorf("SetSpeedIndex(%d): got index %d speed %v", tc.set, b.SpeedIndex, b.Speed)
		}
	}
}

func TestBalloon(t *testing.T) {
	b := NewBody("test", testType(aviation.Balloon, 1000, 0.5, 1), [3]float32{0, 0, 50}, 0, &RemotePilot{}, nil)
	if bl, ok := b.Sink.(BalloonLift); !ok || bl.Target != 50 {
		t.Fatalf("balloon should hold its launch altitude: got %#v", b.Sink)
	}

	b.Sink = BalloonLift{Target: 100}
	env := &testEnv{}
	b.Step(0.1, env)
	if b.Climb != b.Type.Climb {
		t.Errorf("climb should be limited: got %v", b.Climb)
	}
	for range 2000 {
		b.Step(0.1, env)
	}
	if math.Abs(b.P[2]-100) > 1 {
		t.Errorf("balloon altitude: got %v, expected 100", b.P[2])
	}

	u := NewUserPilot(nil)
	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyUp, Down: true})
	if bl := b.Sink.(BalloonLift); bl.Target != 100+BalloonStep {
		t.Errorf("up key: target %v", bl.Target)
	}
}

func TestUserPilot(t *testing.T) {
	b := NewBody("test", testType(aviation.Hangglider, 20, 10, 1), [3]float32{0, 0, 500}, 0, nil, nil)
	u := NewUserPilot([][3]float32{{0, 1000, 0}, {1000, 1000, 0}})
	b.Pilot = u
	env := &testEnv{}

	if m := u.Steer(b, env, 0.1); m != 0 {
		t.Errorf("no input: got move %v", m)
	}
	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyLeft, Down: true})
	if m := u.Steer(b, env, 0.1); m != 1 {
		t.Errorf("left held: got move %v", m)
	}
	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyLeft, Down: false})
	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyRight, Down: true})
	if m := u.Steer(b, env, 0.1); m != -1 {
		t.Errorf("right held: got move %v", m)
	}
	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyRight, Down: false})

	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyUp, Down: true})
	if b.SpeedIndex != 1 {
		t.Errorf("up key: speed index %d", b.SpeedIndex)
	}

	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyRune, Rune: 'a', Down: true})
	if b.Nav.Mode() != nav.ModeCircuit {
		t.Errorf("autopilot: mode %v", b.Nav.Mode())
	}
	u.HandleKey(b, platform.KeyEvent{Key: platform.KeyRune, Rune: 'a', Down: true})
	if b.Nav.Mode() != nav.ModeNone {
		t.Errorf("autopilot off: mode %v", b.Nav.Mode())
	}

	if u.HandleKey(b, platform.KeyEvent{Key: platform.KeyRune, Rune: 'z', Down: true}) {
		t.Errorf("unused key should not be handled")
	}
}

func TestAIPilot(t *testing.T) {
	r := rand.Make(1)
	model := wx.NewModel(wx.Wind{}, 1500, &wx.Terrain{}, &r, nil)
	th := model.AddThermal([2]float32{0, 0}, 3, 100, 600)

	circuit := [][3]float32{{5000, 0, 0}, {5000, 5000, 0}}
	gt := testType(aviation.Sailplane, 50, 20, 0.7)

	// In strong lift the pilot circles.
	b := NewBody("ai", gt, [3]float32{10, 0, 800}, 0, NewAIPilot(circuit, nil, rand.Make(2)), nil)
	b.Step(0.1, &testEnv{lift: 2, thermal: th})
	if b.Nav.Mode() != nav.ModeThermal || b.Nav.Thermal().ID() != th.ID() {
		t.Errorf("in lift: mode %v", b.Nav.Mode())
	}

	// Low and away from lift, it heads for the thermal.
	b = NewBody("ai", gt, [3]float32{800, 0, 100}, 0, NewAIPilot(circuit, nil, rand.Make(3)), nil)
	b.Step(0.1, &testEnv{thermal: th})
	if target, ok := b.Nav.Target(); !ok || math.Distance2f(math.XY(target), [2]float32{}) > 1 {
		t.Errorf("low: mode %v target %v", b.Nav.Mode(), target)
	}

	// Otherwise it flies the task.
	b = NewBody("ai", gt, [3]float32{800, 0, 800}, 0, NewAIPilot(circuit, nil, rand.Make(4)), nil)
	b.Step(0.1, &testEnv{})
	if b.Nav.Mode() != nav.ModeCircuit {
		t.Errorf("no lift: mode %v", b.Nav.Mode())
	}

	// Near cloud base it leaves the thermal.
	b = NewBody("ai", gt, [3]float32{10, 0, 1480}, 0, NewAIPilot(circuit, nil, rand.Make(5)), nil)
	b.Nav.SetThermal(th, 60, true)
	b.Step(0.1, &testEnv{lift: 2, thermal: th})
	if b.Nav.Mode() != nav.ModeCircuit {
		t.Errorf("at cloud base: mode %v", b.Nav.Mode())
	}
}

func TestTail(t *testing.T) {
	tail := NewTail("tail", TailColor)
	for i := range 9 {
		tail.Update([3]float32{float32(i), 0, 0}, 0.25)
	}
	if tail.Len() != 5 {
		t.Fatalf("tail length: got %d, expected 5", tail.Len())
	}
	for i := range 5 {
		if p := tail.Point(i); p[0] != float32(2*i) {
			t.Errorf("point %d: got %v", i, p)
		}
	}

	tail.Clear()
	for i := range TailLength + 6 {
		tail.Add([3]float32{float32(i), 1, 2})
	}
	if tail.Len() != TailLength {
		t.Errorf("full tail: got %d points", tail.Len())
	}
	if p := tail.Point(0); p[0] != 6 {
		t.Errorf("oldest point: got %v, expected x=6", p)
	}
	if n := len(tail.Object.Faces[0].Indices); n != TailLength {
		t.Errorf("tail face: %d indices", n)
	}
}

type recordingAudio struct {
	clips []string
}

func (r *recordingAudio) Play(clip string) { r.clips = append(r.clips, clip) }

func TestVario(t *testing.T) {
	for _, tc := range []struct {
		climb float32
		clip  string
	}{
		{4, "up3"}, {2, "up2"}, {0.5, "up1"}, {0, ""}, {-1, ""}, {-3, "down"},
	} {
		if c := VarioClip(tc.climb); c != tc.clip {
			t.Errorf("VarioClip(%v): got %q, expected %q", tc.climb, c, tc.clip)
		}
	}

	audio := &recordingAudio{}
	v := NewVario(audio)
	for range 4 {
		v.Update(4, 0.25)
	}
	v.Update(0, 0.25)
	v.Update(0, 0.25)
	if len(audio.clips) != 2 || audio.clips[0] != "up3" || audio.clips[1] != "up3" {
		t.Errorf("clips played: %v", audio.clips)
	}
}
