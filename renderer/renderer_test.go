// renderer/renderer_test.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestRGB(t *testing.T) {
	c := RGBFromHex(0xff8000)
	if c.R != 1 || c.B != 0 || c.G < 0.5 || c.G > 0.51 {
		t.Errorf("RGBFromHex: got %+v", c)
	}
	if s := c.String(); s != "#ff8000" {
		t.Errorf("String: got %q", s)
	}

	p, err := ParseRGB("#ff8000")
	if err != nil || !p.Equals(c) {
		t.Errorf("ParseRGB: got %+v, %v", p, err)
	}
	for _, bad := range []string{"ff8000", "#ff80", "#gg8000"} {
		if _, err := ParseRGB(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}

	a, b := RGB{0, 0, 0}, RGB{1, 1, 1}
	if m := LerpRGB(0.25, a, b); m.R != 0.25 || m.G != 0.25 || m.B != 0.25 {
		t.Errorf("LerpRGB: got %+v", m)
	}
	if l := LerpRGB(1, a, b); !l.Equals(b) {
		t.Errorf("LerpRGB(1): got %+v", l)
	}
}

type recorder struct {
	calls []string
	n     []int
}

func (r *recorder) SetColor(c RGB)                  { r.calls = append(r.calls, "color "+c.String()) }
func (r *recorder) DrawLine(x1, y1, x2, y2 float32) { r.calls = append(r.calls, "line") }
func (r *recorder) FillPolygon(xs, ys []float32, n int) {
	r.calls = append(r.calls, "fill")
	r.n = append(r.n, n)
}
func (r *recorder) DrawText(s string, x, y float32) { r.calls = append(r.calls, "text "+s) }
func (r *recorder) Size() (int, int)                 { return 100, 50 }

func TestCommandBufferReplay(t *testing.T) {
	cb := GetCommandBuffer(320, 200)
	defer ReturnCommandBuffer(cb)

	if w, h := cb.Size(); w != 320 || h != 200 {
		t.Errorf("Size: got %d,%d", w, h)
	}

	cb.SetColor(RGB{1, 0, 0})
	cb.FillPolygon([]float32{0, 10, 10, 0}, []float32{0, 0, 10, 10}, 4)
	cb.DrawLine(0, 0, 5, 5)
	cb.FillPolygon([]float32{0, 1}, []float32{0, 1}, 2) // degenerate; dropped
	cb.SetColor(RGB{0, 0, 1})
	cb.DrawText("hello", 3, 4)
	cb.FillPolygon([]float32{0, 10, 5, 99}, []float32{0, 0, 10, 99}, 3)

	if n := cb.PolygonCount(); n != 2 {
		t.Errorf("PolygonCount: got %d", n)
	}
	if c := cb.Colors(); len(c) != 2 || !c[0].Equals(RGB{1, 0, 0}) || !c[1].Equals(RGB{0, 0, 1}) {
		t.Errorf("Colors: got %+v", c)
	}

	var r recorder
	cb.Replay(&r)
	expect := []string{"color #ff0000", "fill", "line", "color #0000ff", "text hello", "fill"}
	if len(r.calls) != len(expect) {
		t.Fatalf("Replay: got %v, expected %v", r.calls, expect)
	}
	for i := range expect {
		if r.calls[i] != expect[i] {
			t.Errorf("Replay call %d: got %q, expected %q", i, r.calls[i], expect[i])
		}
	}
	if r.n[0] != 4 || r.n[1] != 3 {
		t.Errorf("Replay polygon sizes: got %v", r.n)
	}

	cb.Reset()
	if len(cb.Buf) != 0 || len(cb.Text) != 0 {
		t.Errorf("Reset: buffer not empty")
	}
}

type fakeScreen struct {
	w, h  int
	cells map[[2]int]tcell.Style
	runes map[[2]int]rune
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{w: w, h: h, cells: make(map[[2]int]tcell.Style), runes: make(map[[2]int]rune)}
}

func (f *fakeScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		panic("out of bounds SetContent")
	}
	f.cells[[2]int{x, y}] = style
	f.runes[[2]int{x, y}] = primary
}

func (f *fakeScreen) Size() (int, int) { return f.w, f.h }

func TestTermSurfaceFill(t *testing.T) {
	scr := newFakeScreen(20, 10)
	ts := NewTermSurface(scr)

	if w, h := ts.Size(); w != 20 || h != 20 {
		t.Errorf("Size: got %d,%d", w, h)
	}

	red := RGB{1, 0, 0}
	ts.SetColor(red)
	ts.FillPolygon([]float32{2, 8, 8, 2}, []float32{2, 2, 8, 8}, 4)

	st := styleFor(red)
	for _, c := range [][2]int{{2, 1}, {7, 1}, {2, 3}, {7, 3}, {5, 2}} {
		if s, ok := scr.cells[c]; !ok || s != st {
			t.Errorf("cell %v not filled", c)
		}
	}
	for _, c := range [][2]int{{1, 1}, {8, 2}, {5, 0}, {5, 4}} {
		if _, ok := scr.cells[c]; ok {
			t.Errorf("cell %v unexpectedly filled", c)
		}
	}
}

func TestTermSurfaceLineAndText(t *testing.T) {
	scr := newFakeScreen(10, 5)
	ts := NewTermSurface(scr)

	// Far off-screen endpoints are clipped rather than walked.
	ts.DrawLine(-1e6, 4, 1e6, 4)
	for x := range 10 {
		if _, ok := scr.cells[[2]int{x, 2}]; !ok {
			t.Errorf("line: cell %d,2 not drawn", x)
		}
	}
	if _, ok := scr.cells[[2]int{0, 0}]; ok {
		t.Errorf("line: unexpected cell 0,0")
	}

	ts.DrawText("abcdefghijklmnop", 6, 0)
	if scr.runes[[2]int{6, 0}] != 'a' || scr.runes[[2]int{9, 0}] != 'd' {
		t.Errorf("text: got %q %q", scr.runes[[2]int{6, 0}], scr.runes[[2]int{9, 0}])
	}
	ts.DrawText("x", 0, 100) // off-screen
}

func TestClipLine(t *testing.T) {
	x1, y1, x2, y2 := float32(-10), float32(0), float32(10), float32(0)
	if !clipLine(&x1, &y1, &x2, &y2, -5, 5) || x1 != -5 || x2 != 5 {
		t.Errorf("clipLine: got %v,%v - %v,%v", x1, y1, x2, y2)
	}
	x1, y1, x2, y2 = 10, 10, 20, 20
	if clipLine(&x1, &y1, &x2, &y2, -5, 5) {
		t.Errorf("clipLine: expected rejection")
	}
}
