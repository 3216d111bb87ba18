// sim/snapshot.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"

	"github.com/skyglide/skyglide/aviation"
	"github.com/skyglide/skyglide/nav"
	"github.com/skyglide/skyglide/rand"
	"github.com/skyglide/skyglide/util"
	"github.com/skyglide/skyglide/wx"

	"github.com/brunoga/deep"
)

type PilotKind int

const (
	PilotNav PilotKind = iota
	PilotUser
	PilotAI
	PilotRemote
)

func (k PilotKind) String() string {
	return [...]string{"nav", "user", "ai", "remote"}[k]
}

type BodySnapshot struct {
	Name       string
	Glider     string
	Pilot      PilotKind
	P, V       [3]float32
	SpeedIndex int
	Roll       float32
	Climb      float32
	Landed     bool
	// Balloons only.
	TargetAltitude float32
	Nav            nav.Snapshot
	Tail           [][3]float32
}

type ThermalSnapshot struct {
	ID       int
	Base     [3]float32
	Strength float32
	Radius   float32
	RiseRate float32
	Lifetime float32
	Age      float32
}

// Snapshot is everything needed to resume a session: the weather, the
// bodies and the time.
type Snapshot struct {
	Task     string
	Ticks    int64
	Progress int
	Paused   bool
	Thermals []ThermalSnapshot
	Triggers []float32 // seconds until each trigger fires
	Bodies   []BodySnapshot
	// Index of the user's body in Bodies, or -1.
	User int
}

func pilotKind(p Pilot) PilotKind {
	switch p.(type) {
	case *UserPilot:
		return PilotUser
	case *AIPilot:
		return PilotAI
	case *RemotePilot:
		return PilotRemote
	default:
		return PilotNav
	}
}

// Snapshot captures the world's state. The snapshot shares no memory with
// the world.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Task:     w.Task.Name,
		Ticks:    w.Clock.Ticks(),
		Progress: w.Progress,
		Paused:   w.Clock.Paused,
		User:     -1,
	}
	for _, th := range w.Weather.Thermals {
		snap.Thermals = append(snap.Thermals, ThermalSnapshot{
			ID:       th.ID(),
			Base:     th.Base,
			Strength: th.Strength,
			Radius:   th.Radius,
			RiseRate: th.RiseRate,
			Lifetime: th.Lifetime,
			Age:      th.Age,
		})
	}
	for _, tr := range w.Weather.Triggers {
		snap.Triggers = append(snap.Triggers, tr.Next())
	}
	for i, b := range w.Bodies {
		bs := BodySnapshot{
			Name:       b.Name,
			Glider:     b.Type.Name,
			Pilot:      pilotKind(b.Pilot),
			P:          b.P,
			V:          b.V,
			SpeedIndex: b.SpeedIndex,
			Roll:       b.Roll,
			Climb:      b.Climb,
			Landed:     b.Landed,
			Nav:        b.Nav.TakeSnapshot(),
		}
		if bl, ok := b.Sink.(BalloonLift); ok {
			bs.TargetAltitude = bl.Target
		}
		for j := range b.Tail.Len() {
			bs.Tail = append(bs.Tail, b.Tail.Point(j))
		}
		snap.Bodies = append(snap.Bodies, bs)
		if b == w.User {
			snap.User = i
		}
	}
	return deep.MustCopy(snap)
}

// Restore replaces the world's weather and bodies with those in snap,
// which must have been taken from a world flying the same task. The
// world is left unchanged if an error is returned.
func (w *World) Restore(snap Snapshot) error {
	if snap.Task != w.Task.Name {
		return fmt.Errorf("%q: %w", snap.Task, ErrTaskMismatch)
	}
	if len(snap.Triggers) != len(w.Weather.Triggers) {
		return fmt.Errorf("%d triggers: %w", len(snap.Triggers), ErrTaskMismatch)
	}

	// Resolve everything that can fail before the live world is touched.
	types := make([]*aviation.GliderType, len(snap.Bodies))
	for i, bs := range snap.Bodies {
		gt, err := w.Library.GliderType(bs.Glider)
		if err != nil {
			return fmt.Errorf("%s: %w", bs.Name, err)
		}
		types[i] = gt
		switch bs.Pilot {
		case PilotNav, PilotUser, PilotAI, PilotRemote:
		default:
			return fmt.Errorf("%s: %d: %w", bs.Name, bs.Pilot, ErrUnknownPilot)
		}
	}

	for len(w.Bodies) > 0 {
		w.Remove(w.Bodies[len(w.Bodies)-1])
	}
	w.Weather.RemoveThermals()

	for _, ts := range snap.Thermals {
		th := w.Weather.RestoreThermal(ts.ID, ts.Base, ts.Strength, ts.Radius, ts.RiseRate, ts.Lifetime, ts.Age)
		if c, ok := w.clouds[th.ID()]; ok {
			w.updateCloud(c)
		}
	}
	for i, next := range snap.Triggers {
		w.Weather.Triggers[i].SetNext(next)
	}

	lookup := func(id int) nav.Thermal {
		if th := w.Weather.ThermalByID(id); th != nil {
			return th
		}
		return nil
	}
	for i, bs := range snap.Bodies {
		var pilot Pilot
		switch bs.Pilot {
		case PilotUser:
			if w.userPilot == nil {
				w.userPilot = NewUserPilot(w.Task.Circuit())
			}
			pilot = w.userPilot
		case PilotAI:
			pilot = NewAIPilot(w.Task.Circuit(), w.repeller(), rand.Make(int64(w.rand.Uint32())))
		case PilotRemote:
			pilot = &RemotePilot{}
		}

		b := w.Spawn(bs.Name, types[i], bs.P, 0, pilot)
		b.V = bs.V
		b.SetSpeedIndex(bs.SpeedIndex)
		b.Roll, b.Climb, b.Landed = bs.Roll, bs.Climb, bs.Landed
		if _, ok := b.Sink.(BalloonLift); ok {
			b.Sink = BalloonLift{Target: bs.TargetAltitude}
		}
		b.Nav.RestoreSnapshot(bs.Nav, lookup, w.repeller())
		for _, p := range bs.Tail {
			b.Tail.Add(p)
		}
		b.updatePose()
		if i == snap.User {
			w.User = b
		}
	}

	w.Clock.ticks = snap.Ticks
	w.Clock.Paused = snap.Paused
	w.Progress = snap.Progress

	if w.User != nil {
		w.Camera.JumpTo(w.User, true)
	} else if len(w.Bodies) > 0 {
		w.Camera.JumpTo(w.Bodies[0], true)
	}

	w.lg.Info("restored", slog.Int64("ticks", snap.Ticks), slog.Int("bodies", len(w.Bodies)),
		slog.Int("thermals", len(w.Weather.Thermals)))
	return nil
}

// Save writes a snapshot of the world to path.
func (w *World) Save(path string) error {
	snap := w.Snapshot()
	if err := util.StoreObject(path, snap); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	w.lg.Info("saved", slog.String("path", path), slog.Int64("ticks", snap.Ticks))
	return nil
}

// LoadSnapshot reads a snapshot written by World.Save.
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	if err := util.RetrieveObject(path, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

var _ nav.Thermal = (*wx.Thermal)(nil)
