// sim/pilot.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"github.com/skyglide/skyglide/nav"
	"github.com/skyglide/skyglide/platform"
	"github.com/skyglide/skyglide/rand"
	"github.com/skyglide/skyglide/wx"
)

const (
	// AI pilots start circling in lift stronger than this, in m/s.
	aiThermalLift = 0.5
	// AI pilots leave thermals this far below cloud base.
	aiCloudMargin = 50
	// Below this height above the ground AI pilots go looking for lift.
	aiLowHeight = 250
	// AI pilots only head for thermals closer than this.
	aiSearchRange = 1500
	// Seconds between AI decisions; jittered.
	aiDecisionInterval = 2
	// BalloonStep is the change in a balloon's target altitude per key
	// press.
	BalloonStep = 50
)

// AIPilot flies the task circuit, stopping to climb in thermals it comes
// across and searching for them when low.
type AIPilot struct {
	circuit *nav.Circuit
	rand    rand.Rand
	next    float32 // seconds until the next decision
	weak    int     // consecutive decisions made in weak lift
}

func NewAIPilot(circuit [][3]float32, repeller nav.Repeller, r rand.Rand) *AIPilot {
	a := &AIPilot{rand: r}
	if len(circuit) > 0 {
		a.circuit = nav.NewCircuit(circuit, true)
		a.circuit.Repeller = repeller
	}
	return a
}

func (a *AIPilot) Steer(b *Body, env Environment, dt float32) float32 {
	a.next -= dt
	if a.next <= 0 {
		a.next = a.rand.Jitter(aiDecisionInterval, 0.5)
		a.decide(b, env)
	}
	return b.Nav.NextMove(b.State())
}

func (a *AIPilot) decide(b *Body, env Environment) {
	nearBase := b.P[2] > env.CloudBase()-aiCloudMargin

	if b.Nav.Mode() == nav.ModeThermal {
		th, _ := b.Nav.Thermal().(*wx.Thermal)
		if b.Climb < 0.2 {
			a.weak++
		} else {
			a.weak = 0
		}
		if nearBase || a.weak >= 3 || (th != nil && th.Phase() == wx.PhaseDecaying) {
			a.weak = 0
			a.flyCircuit(b)
		}
		return
	}

	if th, d := env.NearestThermal(b.P); th != nil && !nearBase {
		if d < th.Radius && env.Sample(b.P).Lift > aiThermalLift {
			radius := max(b.TurnRadius, 0.4*th.Radius)
			b.Nav.SetThermal(th, radius, a.rand.Intn(2) == 0)
			a.weak = 0
			return
		}
		agl := b.P[2] - env.GroundHeight(b.P[0], b.P[1])
		if agl < aiLowHeight && d < aiSearchRange {
			b.Nav.SetTarget(th.CoreAt(b.P[2]))
			return
		}
	}

	if b.Nav.Mode() == nav.ModeNone {
		a.flyCircuit(b)
	}
}

func (a *AIPilot) flyCircuit(b *Body) {
	if a.circuit == nil {
		b.Nav.Clear()
		return
	}
	b.Nav.SetCircuit(a.circuit)
}

// UserPilot turns while the arrow keys are held; otherwise the body's
// nav controller steers, if it has been given something to do.
type UserPilot struct {
	left, right bool
	circuit     *nav.Circuit
}

func NewUserPilot(circuit [][3]float32) *UserPilot {
	u := &UserPilot{}
	if len(circuit) > 0 {
		u.circuit = nav.NewCircuit(circuit, false)
	}
	return u
}

func (u *UserPilot) Steer(b *Body, env Environment, dt float32) float32 {
	switch {
	case u.left && !u.right:
		return 1
	case u.right && !u.left:
		return -1
	default:
		return b.Nav.NextMove(b.State())
	}
}

// HandleKey applies a key event to the body, returning false if the key
// is not one the pilot uses.
func (u *UserPilot) HandleKey(b *Body, e platform.KeyEvent) bool {
	switch {
	case e.Key == platform.KeyLeft:
		u.left = e.Down
	case e.Key == platform.KeyRight:
		u.right = e.Down
	case e.Key == platform.KeyUp, e.Key == platform.KeyDown:
		if e.Down {
			u.changeSpeed(b, e.Key == platform.KeyUp)
		}
	case e.Is('a'):
		// Autopilot along the task.
		if e.Down {
			if b.Nav.Mode() == nav.ModeCircuit || u.circuit == nil {
				b.Nav.Clear()
			} else {
				b.Nav.SetCircuit(u.circuit)
			}
		}
	default:
		return false
	}
	return true
}

func (u *UserPilot) changeSpeed(b *Body, up bool) {
	if bl, ok := b.Sink.(BalloonLift); ok {
		if up {
			bl.Target += BalloonStep
		} else {
			bl.Target = max(0, bl.Target-BalloonStep)
		}
		b.Sink = bl
		return
	}
	if up {
		b.SetSpeedIndex(b.SpeedIndex + 1)
	} else {
		b.SetSpeedIndex(b.SpeedIndex - 1)
	}
}

// RemotePilot replays the steering input relayed for another pilot's
// body; see Body.SetState.
type RemotePilot struct {
	Move float32
}

func (r *RemotePilot) Steer(*Body, Environment, float32) float32 { return r.Move }
