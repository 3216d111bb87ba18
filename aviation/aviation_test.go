// aviation/aviation_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/skyglide/skyglide/renderer"
)

const testGlider = `
name = "Test"
class = "hangglider"
turn_radius = 20
polar = [ { speed = 10, sink = 1 }, { speed = 20, sink = 3 } ]

[mesh]
points = [ [0, 0, 0], [1, 0, 0], [0, 1, 0] ]

[[mesh.faces]]
points = [0, 1, 2]
color = "#ff0000"
solid = true

[[mesh.faces]]
points = [0, 2]
`

func TestPolar(t *testing.T) {
	p := Polar{{Speed: 10, Sink: 1}, {Speed: 20, Sink: 3}}

	if p.NumSpeeds() != 2 {
		t.Errorf("NumSpeeds: got %d, expected 2", p.NumSpeeds())
	}
	if p.Speed(-1) != 10 || p.Speed(5) != 20 {
		t.Errorf("out of range indices not clamped: %v %v", p.Speed(-1), p.Speed(5))
	}

	for _, test := range []struct {
		speed, sink float32
	}{
		{5, 1},
		{10, 1},
		{15, 2},
		{20, 3},
		{30, 3},
	} {
		if s := p.SinkAt(test.speed); s != test.sink {
			t.Errorf("SinkAt(%v): got %v, expected %v", test.speed, s, test.sink)
		}
	}

	var empty Polar
	if empty.SinkAt(10) != 0 || empty.Speed(0) != 0 {
		t.Errorf("empty polar should be all zeros")
	}
}

func TestGliderClassText(t *testing.T) {
	for _, c := range []GliderClass{Paraglider, Hangglider, Sailplane, Balloon, Jet} {
		b, _ := c.MarshalText()
		var c2 GliderClass
		if err := c2.UnmarshalText(b); err != nil {
			t.Errorf("%s: %v", c, err)
		} else if c2 != c {
			t.Errorf("got %v, expected %v", c2, c)
		}
	}
	var c GliderClass
	if err := c.UnmarshalText([]byte("zeppelin")); err == nil {
		t.Errorf("expected error for unknown class")
	}
}

func TestLoadGliderType(t *testing.T) {
	g, err := LoadGliderType(strings.NewReader(testGlider))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "Test" || g.Class != Hangglider || g.TurnRadius != 20 {
		t.Errorf("got %+v", g)
	}
	if g.Mesh.Faces[0].RGB != (renderer.RGB{R: 1}) {
		t.Errorf("face color: got %v, expected red", g.Mesh.Faces[0].RGB)
	}
	if g.Mesh.Faces[1].RGB != (renderer.RGB{R: 1, G: 1, B: 1}) {
		t.Errorf("default face color: got %v, expected white", g.Mesh.Faces[1].RGB)
	}
}

func TestInvalidGliderType(t *testing.T) {
	for _, test := range []struct {
		name    string
		replace [2]string
		message string
	}{
		{"one polar point", [2]string{"{ speed = 20, sink = 3 } ", ""}, "exactly two points"},
		{"decreasing speeds", [2]string{"speed = 20", "speed = 5"}, "increasing"},
		{"negative sink", [2]string{"sink = 3", "sink = -3"}, "must be >= 0"},
		{"zero turn radius", [2]string{"turn_radius = 20", "turn_radius = 0"}, "turn_radius"},
		{"bad index", [2]string{"[0, 2]", "[0, 7]"}, "out of range"},
		{"bad color", [2]string{`"#ff0000"`, `"red"`}, "face 0"},
		{"short solid", [2]string{"[0, 1, 2]", "[0, 1]"}, "three points"},
		{"unknown class", [2]string{`"hangglider"`, `"kite"`}, ""},
		{"unknown key", [2]string{"turn_radius", "wingspan = 3\nturn_radius"}, ""},
		{"truncated", [2]string{"[[mesh.faces]]\npoints = [0, 2]", "[[mesh.faces"}, ""},
	} {
		def := strings.Replace(testGlider, test.replace[0], test.replace[1], 1)
		if def == testGlider {
			t.Fatalf("%s: replacement had no effect", test.name)
		}

		g, err := LoadGliderType(strings.NewReader(def))
		if err == nil {
			t.Errorf("%s: expected an error", test.name)
			continue
		}
		if g != nil {
			t.Errorf("%s: a glider type was returned along with an error", test.name)
		}
		if !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("%s: error %v does not wrap ErrInvalidDefinition", test.name, err)
		}
		if test.message != "" && !strings.Contains(err.Error(), test.message) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.message)
		}
	}
}

func TestBalloonClimb(t *testing.T) {
	def := strings.Replace(testGlider, `"hangglider"`, `"balloon"`, 1)
	if _, err := LoadGliderType(strings.NewReader(def)); err == nil {
		t.Errorf("balloon without climb rate accepted")
	}
	def = strings.Replace(def, "turn_radius", "climb = 2\nturn_radius", 1)
	if _, err := LoadGliderType(strings.NewReader(def)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLibrary(t *testing.T) {
	fsys := fstest.MapFS{
		"g/test.toml":  {Data: []byte(testGlider)},
		"g/other.toml": {Data: []byte(strings.Replace(testGlider, `"Test"`, `"Other"`, 1))},
		"g/README":     {Data: []byte("not a definition")},
	}
	lib, err := LoadLibrary(fsys, "g", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if names := lib.Names(); !slices.Equal(names, []string{"Other", "Test"}) {
		t.Errorf("Names: got %v", names)
	}
	if g, err := lib.GliderType("test"); err != nil || g.Name != "Test" {
		t.Errorf("case-insensitive lookup: got %v, %v", g, err)
	}
	if _, err := lib.GliderType("Zeppelin"); !errors.Is(err, ErrUnknownGliderType) {
		t.Errorf("expected ErrUnknownGliderType, got %v", err)
	}

	// Evicted entries are reloaded.
	lib.cache.Purge()
	if g, err := lib.GliderType("Other"); err != nil || g.Name != "Other" {
		t.Errorf("reload: got %v, %v", g, err)
	}

	fsys["g/bad.toml"] = &fstest.MapFile{Data: []byte("name = 12")}
	if _, err := LoadLibrary(fsys, "g", nil); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected invalid definition error, got %v", err)
	}

	fsys["g/bad.toml"] = &fstest.MapFile{Data: []byte(testGlider)}
	if _, err := LoadLibrary(fsys, "g", nil); err == nil {
		t.Errorf("duplicate glider names accepted")
	}

	if _, err := LoadLibrary(fsys, "empty", nil); err == nil {
		t.Errorf("expected error for an empty directory")
	}
}

func TestTask(t *testing.T) {
	const def = `
name = "t"
wind = "0/270/5"
cloud_base = 1500
start = [0, 0, 500]
turnpoints = [ { pos = [0, 100, 0], radius = 50 }, { pos = [100, 100, 0], radius = 50 } ]
triggers = [ { pos = [10, 10], strength = 2, cycle = 100, radius = 40 } ]
hills = [ { a = [0, 0], b = [0, 100], height = 100, width = 50 } ]
roads = [ [ [0, 0], [10, 10] ] ]
`
	task, err := LoadTask(strings.NewReader(def))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := task.Circuit(); len(c) != 2 || c[1] != [3]float32{100, 100, 0} {
		t.Errorf("Circuit: got %v", c)
	}
	w := task.WindModel().At(0)
	if w[0] < 4.99 || w[0] > 5.01 {
		t.Errorf("wind from 270 should blow toward +x: got %v", w)
	}
	if len(task.HillModels()) != 1 || len(task.TriggerModels()) != 1 {
		t.Errorf("hills/triggers not converted")
	}

	for _, bad := range []string{
		strings.Replace(def, "cloud_base = 1500", "cloud_base = 0", 1),
		strings.Replace(def, `"0/270/5"`, `"0/270"`, 1),
		strings.Replace(def, "radius = 50 }, {", "radius = 0 }, {", 1),
		strings.Replace(def, "b = [0, 100]", "b = [0, 0]", 1),
		strings.Replace(def, "[ [0, 0], [10, 10] ]", "[ [0, 0] ]", 1),
		def[:len(def)/2],
	} {
		if task, err := LoadTask(strings.NewReader(bad)); err == nil || task != nil {
			t.Errorf("malformed task accepted:\n%s", bad)
		}
	}
}

func TestBuiltins(t *testing.T) {
	lib := DefaultLibrary(nil)
	for _, name := range []string{"Paraglider", "Hangglider", "Sailplane", "Balloon", "Jet"} {
		if _, err := lib.GliderType(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	tasks := BuiltinTasks()
	if len(tasks) == 0 {
		t.Fatalf("no built-in tasks")
	}
	for _, name := range tasks {
		task, err := BuiltinTask(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		for _, g := range task.Gliders {
			if _, err := lib.GliderType(g); err != nil {
				t.Errorf("%s: %v", name, err)
			}
		}
	}
}
