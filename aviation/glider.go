// aviation/glider.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/renderer"
	"github.com/skyglide/skyglide/util"
)

var (
	ErrInvalidDefinition = errors.New("invalid definition")
	ErrUnknownGliderType = errors.New("unknown glider type")
)

type GliderClass int

const (
	Paraglider GliderClass = iota
	Hangglider
	Sailplane
	Balloon
	Jet
)

var gliderClassNames = [...]string{"paraglider", "hangglider", "sailplane", "balloon", "jet"}

func (c GliderClass) String() string {
	if int(c) < len(gliderClassNames) {
		return gliderClassNames[c]
	}
	return fmt.Sprintf("GliderClass(%d)", int(c))
}

func (c GliderClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *GliderClass) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range gliderClassNames {
		if n == s {
			*c = GliderClass(i)
			return nil
		}
	}
	return fmt.Errorf("%q: unknown glider class", s)
}

// PolarPoint is one flyable speed of a glider and the sink rate at it,
// both in m/s.
type PolarPoint struct {
	Speed float32 `toml:"speed"`
	Sink  float32 `toml:"sink"`
}

// Polar is a glider's speed polar: its two flyable speeds, slowest
// first.
type Polar []PolarPoint

func (p Polar) NumSpeeds() int { return len(p) }

func (p Polar) point(i int) PolarPoint {
	if len(p) == 0 {
		return PolarPoint{}
	}
	return p[math.Clamp(i, 0, len(p)-1)]
}

// Speed returns the i'th speed; out of range indices are clamped.
func (p Polar) Speed(i int) float32 { return p.point(i).Speed }

// Sink returns the sink rate at the i'th speed.
func (p Polar) Sink(i int) float32 { return p.point(i).Sink }

// SinkAt returns the sink rate at the given speed, linearly interpolated
// through the polar's points and clamped to its range.
func (p Polar) SinkAt(speed float32) float32 {
	if len(p) == 0 {
		return 0
	} else if len(p) == 1 || speed <= p[0].Speed {
		return p[0].Sink
	}
	lo, hi := p[0], p[len(p)-1]
	if speed >= hi.Speed {
		return hi.Sink
	}
	t := (speed - lo.Speed) / (hi.Speed - lo.Speed)
	return math.Lerp(t, lo.Sink, hi.Sink)
}

// MeshFace is a polygon or polyline over a Mesh's points.
type MeshFace struct {
	Points      []int  `toml:"points"`
	Color       string `toml:"color"`
	Solid       bool   `toml:"solid"`
	DoubleSided bool   `toml:"double_sided"`
	Shadow      bool   `toml:"shadow"`

	RGB renderer.RGB `toml:"-"`
}

// Mesh is a glider's shape in its local frame: x forward, y left, z up,
// in meters.
type Mesh struct {
	Points [][3]float32 `toml:"points"`
	Faces  []MeshFace   `toml:"faces"`
}

type GliderType struct {
	Name       string      `toml:"name"`
	Class      GliderClass `toml:"class"`
	TurnRadius float32     `toml:"turn_radius"`
	Polar      Polar       `toml:"polar"`
	Mesh       Mesh        `toml:"mesh"`
	// Balloons climb toward their target altitude at up to this rate.
	Climb float32 `toml:"climb"`
}

// PostDeserialize validates a glider type after it has been decoded.
func (g *GliderType) PostDeserialize(e *util.ErrorLogger) {
	if g.Name == "" {
		e.ErrorString(`must provide "name"`)
	} else {
		e.Push(g.Name)
		defer e.Pop()
	}

	if g.TurnRadius <= 0 {
		e.ErrorString(`"turn_radius" must be positive`)
	}

	if len(g.Polar) != 2 {
		e.ErrorString(`"polar" must have exactly two points; %d given`, len(g.Polar))
	} else {
		for i, pt := range g.Polar {
			if pt.Speed <= 0 {
				e.ErrorString("polar point %d: speed %g must be positive", i, pt.Speed)
			}
			if pt.Sink < 0 {
				e.ErrorString("polar point %d: sink %g must be >= 0", i, pt.Sink)
			}
		}
		if g.Polar[1].Speed <= g.Polar[0].Speed {
			e.ErrorString("polar speeds must be increasing")
		}
	}

	if g.Class == Balloon && g.Climb <= 0 {
		e.ErrorString(`balloons must provide a positive "climb"`)
	}

	e.Push("mesh")
	defer e.Pop()
	if len(g.Mesh.Faces) == 0 {
		e.ErrorString("no faces given")
	}
	for i := range g.Mesh.Faces {
		f := &g.Mesh.Faces[i]
		if len(f.Points) < 2 {
			e.ErrorString("face %d: at least two points are required", i)
		}
		if f.Solid && len(f.Points) < 3 {
			e.ErrorString("face %d: solid faces need at least three points", i)
		}
		for _, idx := range f.Points {
			if idx < 0 || idx >= len(g.Mesh.Points) {
				e.ErrorString("face %d: point index %d out of range", i, idx)
			}
		}
		if f.Color == "" {
			f.RGB = renderer.RGB{R: 1, G: 1, B: 1}
		} else if rgb, err := renderer.ParseRGB(f.Color); err != nil {
			e.ErrorString("face %d: %v", i, err)
		} else {
			f.RGB = rgb
		}
	}
}

// LoadGliderType decodes and validates a glider type definition. Nothing
// is returned unless the whole definition is valid.
func LoadGliderType(r io.Reader) (*GliderType, error) {
	var g GliderType
	if err := decodeTOML(r, &g); err != nil {
		return nil, err
	}

	var e util.ErrorLogger
	g.PostDeserialize(&e)
	if err := e.Err(ErrInvalidDefinition); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *GliderType) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", g.Name),
		slog.String("class", g.Class.String()),
		slog.Float64("turn_radius", float64(g.TurnRadius)),
		slog.Int("faces", len(g.Mesh.Faces)),
	)
}
