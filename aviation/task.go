// aviation/task.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/skyglide/skyglide/util"
	"github.com/skyglide/skyglide/wx"

	"github.com/pelletier/go-toml/v2"
)

type TurnPoint struct {
	Pos    [3]float32 `toml:"pos"`
	Radius float32    `toml:"radius"`
}

type TriggerDef struct {
	Pos      [2]float32 `toml:"pos"`
	Strength float32    `toml:"strength"`
	Cycle    float32    `toml:"cycle"`
	Radius   float32    `toml:"radius"`
	Lifetime float32    `toml:"lifetime"`
}

type HillDef struct {
	A      [2]float32 `toml:"a"`
	B      [2]float32 `toml:"b"`
	Height float32    `toml:"height"`
	Width  float32    `toml:"width"`
}

// Task describes the flying site and the course to fly.
type Task struct {
	Name       string         `toml:"name"`
	Wind       string         `toml:"wind"` // "alt/dir/speed,..."
	CloudBase  float32        `toml:"cloud_base"`
	Start      [3]float32     `toml:"start"`
	TurnPoints []TurnPoint    `toml:"turnpoints"`
	Triggers   []TriggerDef   `toml:"triggers"`
	Hills      []HillDef      `toml:"hills"`
	Roads      [][][2]float32 `toml:"roads"`
	// Gliders flying the task: AI pilots are assigned these types in
	// turn.
	Gliders []string `toml:"gliders"`

	WindLayers []wx.WindLayer `toml:"-"`
}

func (t *Task) PostDeserialize(e *util.ErrorLogger) {
	if t.Name == "" {
		e.ErrorString(`must provide "name"`)
	} else {
		e.Push(t.Name)
		defer e.Pop()
	}

	if t.Wind == "" {
		t.WindLayers = []wx.WindLayer{wx.MakeWindLayer(0, 0, 0)}
	} else {
		e.Push("wind")
		t.WindLayers = wx.ParseWindLayers(t.Wind, e)
		e.Pop()
	}

	if t.CloudBase <= 0 {
		e.ErrorString(`"cloud_base" must be positive`)
	}
	if len(t.TurnPoints) == 0 {
		e.ErrorString("at least one turnpoint is required")
	}
	for i, tp := range t.TurnPoints {
		if tp.Radius <= 0 {
			e.ErrorString("turnpoint %d: radius must be positive", i)
		}
	}
	for i, tr := range t.Triggers {
		if tr.Strength <= 0 || tr.Cycle <= 0 || tr.Radius <= 0 {
			e.ErrorString("trigger %d: strength, cycle and radius must be positive", i)
		}
		if tr.Lifetime < 0 {
			e.ErrorString("trigger %d: lifetime must be >= 0", i)
		}
	}
	for i, h := range t.Hills {
		if h.Height <= 0 || h.Width <= 0 {
			e.ErrorString("hill %d: height and width must be positive", i)
		}
		if h.A == h.B {
			e.ErrorString("hill %d: endpoints must differ", i)
		}
	}
	for i, r := range t.Roads {
		if len(r) < 2 {
			e.ErrorString("road %d: at least two points are required", i)
		}
	}
}

// Circuit returns the task's turnpoints in order.
func (t *Task) Circuit() [][3]float32 {
	return util.MapSlice(t.TurnPoints, func(tp TurnPoint) [3]float32 { return tp.Pos })
}

func (t *Task) WindModel() wx.Wind {
	return wx.Wind{Layers: t.WindLayers}
}

// HillModels returns the task's hills for the weather model.
func (t *Task) HillModels() []*wx.Hill {
	return util.MapSlice(t.Hills, func(h HillDef) *wx.Hill {
		return &wx.Hill{A: h.A, B: h.B, Height: h.Height, Width: h.Width}
	})
}

func (t *Task) TriggerModels() []*wx.Trigger {
	return util.MapSlice(t.Triggers, func(tr TriggerDef) *wx.Trigger {
		return &wx.Trigger{Pos: tr.Pos, Strength: tr.Strength, Radius: tr.Radius, Cycle: tr.Cycle, Lifetime: tr.Lifetime}
	})
}

// LoadTask decodes and validates a task definition; a malformed task is
// rejected as a whole.
func LoadTask(r io.Reader) (*Task, error) {
	var t Task
	if err := decodeTOML(r, &t); err != nil {
		return nil, err
	}

	var e util.ErrorLogger
	t.PostDeserialize(&e)
	if err := e.Err(ErrInvalidDefinition); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Task) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", t.Name),
		slog.String("wind", t.Wind),
		slog.Int("turnpoints", len(t.TurnPoints)),
		slog.Int("triggers", len(t.Triggers)),
		slog.Int("hills", len(t.Hills)),
	)
}

// decodeTOML decodes r into v, rejecting unknown keys.
func decodeTOML(r io.Reader, v any) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%w: line %d column %d: %s", ErrInvalidDefinition, row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return fmt.Errorf("%w: %s", ErrInvalidDefinition, serr.String())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return nil
}
