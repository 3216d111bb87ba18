// nav/circuit.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"fmt"
	"log/slog"

	"github.com/skyglide/skyglide/math"
)

// Repeller gives the direction to move away from an obstacle; hills
// implement it for ridge-soaring circuits.
type Repeller interface {
	Away(p [3]float32) [3]float32
}

// Circuit is an ordered list of waypoints flown in sequence. Looping
// circuits start over after the last point; others end there.
type Circuit struct {
	Points [][3]float32
	Loop   bool
	// After reaching each point, steer away from Repeller (if set) for
	// NudgeTicks ticks.
	Repeller Repeller

	next int
}

func NewCircuit(points [][3]float32, loop bool) *Circuit {
	return &Circuit{Points: points, Loop: loop}
}

// Next returns the index of the waypoint being flown to.
func (c *Circuit) Next() int { return c.next }

// Current returns the waypoint being flown to; ok is false once a
// non-looping circuit has been completed.
func (c *Circuit) Current() (p [3]float32, ok bool) {
	if c.next >= len(c.Points) {
		return p, false
	}
	return c.Points[c.next], true
}

// Advance moves on to the next waypoint, returning false if there are
// none left.
func (c *Circuit) Advance() bool {
	if len(c.Points) == 0 {
		return false
	}
	c.next++
	if c.next >= len(c.Points) {
		if !c.Loop {
			c.next = len(c.Points)
			return false
		}
		c.next = 0
	}
	return true
}

// Nearest sets the next waypoint to the one closest to p.
func (c *Circuit) Nearest(p [3]float32) {
	best := float32(0)
	for i, wp := range c.Points {
		if d := math.Distance2f(math.XY(wp), math.XY(p)); i == 0 || d < best {
			best, c.next = d, i
		}
	}
}

func (c *Circuit) String() string {
	return fmt.Sprintf("circuit %d/%d loop=%v", c.next, len(c.Points), c.Loop)
}

func (c *Circuit) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("none")
	}
	return slog.GroupValue(
		slog.Int("next", c.next),
		slog.Int("points", len(c.Points)),
		slog.Bool("loop", c.Loop),
	)
}
