// sim/clock.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/skyglide/skyglide/log"
)

const (
	DefaultTickRate = 25
	// If the clock falls further behind than this many ticks, the excess
	// is dropped rather than run all at once.
	maxCatchUpTicks = 10
)

// Observer is advanced by the clock every tick; dt is in seconds.
type Observer interface {
	Tick(dt float32)
}

type ObserverFunc func(dt float32)

func (f ObserverFunc) Tick(dt float32) { f(dt) }

type ObserverID int

type observer struct {
	id      ObserverID
	o       Observer
	removed bool
}

// Clock drives the simulation at a fixed rate, calling its observers in
// the order they were registered and then its final observers. While
// paused only the first observer and the final observers are called,
// which allows the camera and input handling to keep running.
type Clock struct {
	DT     float32
	Paused bool

	observers []*observer
	final     []*observer
	nextID    ObserverID
	ticks     int64
	slop      time.Duration
	lg        *log.Logger
}

// NewClock returns a clock ticking rate times per second.
func NewClock(rate int, lg *log.Logger) *Clock {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &Clock{DT: 1 / float32(rate), lg: lg}
}

func (c *Clock) Register(o Observer) ObserverID {
	c.nextID++
	c.observers = append(c.observers, &observer{id: c.nextID, o: o})
	return c.nextID
}

// RegisterFinal adds an observer that is called after all of the
// regular observers, including ones registered later, and that keeps
// running while the clock is paused.
func (c *Clock) RegisterFinal(o Observer) ObserverID {
	c.nextID++
	c.final = append(c.final, &observer{id: c.nextID, o: o})
	return c.nextID
}

// Unregister removes an observer; it will not be called again, even if
// it is removed during a tick. It returns false if id is unknown.
func (c *Clock) Unregister(id ObserverID) bool {
	return unregister(&c.observers, id) || unregister(&c.final, id)
}

func unregister(obs *[]*observer, id ObserverID) bool {
	idx := slices.IndexFunc(*obs, func(o *observer) bool { return o.id == id })
	if idx == -1 {
		return false
	}
	(*obs)[idx].removed = true
	*obs = slices.Delete(*obs, idx, idx+1)
	return true
}

func (c *Clock) NumObservers() int { return len(c.observers) + len(c.final) }

// Ticks returns the number of ticks run while not paused.
func (c *Clock) Ticks() int64 { return c.ticks }

// Time returns the simulated time in seconds.
func (c *Clock) Time() float32 { return float32(c.ticks) * c.DT }

func (c *Clock) TogglePause() {
	c.Paused = !c.Paused
	c.lg.Infof("clock paused: %v", c.Paused)
}

// Tick advances all observers by one tick.
func (c *Clock) Tick() {
	// Observers may register or unregister others while they run.
	obs := slices.Clone(c.observers)
	for i, o := range obs {
		if c.Paused && i > 0 {
			break
		}
		if !o.removed {
			o.o.Tick(c.DT)
		}
	}
	for _, o := range slices.Clone(c.final) {
		if !o.removed {
			o.o.Tick(c.DT)
		}
	}
	if !c.Paused {
		c.ticks++
	}
}

// Advance runs as many ticks as fit in elapsed plus the time left over
// from the last call and returns the number run.
func (c *Clock) Advance(elapsed time.Duration) int {
	dt := time.Duration(float64(c.DT) * float64(time.Second))
	elapsed += c.slop

	n := int(elapsed / dt)
	if n > maxCatchUpTicks {
		c.lg.Warn("unexpected hitch in tick rate", slog.Duration("elapsed", elapsed),
			slog.Int("ticks", n))
		n = maxCatchUpTicks
		elapsed = time.Duration(n) * dt
	}
	for range n {
		c.Tick()
	}
	c.slop = elapsed - time.Duration(n)*dt
	return n
}

// Run ticks the clock in real time until ctx is canceled, calling frame
// after each batch of ticks.
func (c *Clock) Run(ctx context.Context, frame func()) error {
	ticker := time.NewTicker(time.Duration(float64(c.DT) * float64(time.Second)))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if c.Advance(now.Sub(last)) > 0 && frame != nil {
				frame()
			}
			last = now
		}
	}
}

func (c *Clock) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("dt", float64(c.DT)),
		slog.Bool("paused", c.Paused),
		slog.Int64("ticks", c.ticks),
		slog.Int("observers", c.NumObservers()),
	)
}
