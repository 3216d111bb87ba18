// renderer/term.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"github.com/skyglide/skyglide/math"

	"github.com/gdamore/tcell/v2"
	"github.com/mmp/earcut-go"
)

// CellScreen is the subset of tcell.Screen that TermSurface draws to.
type CellScreen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// TermSurface rasterizes into a character-cell screen. Terminal cells are
// roughly twice as tall as they are wide, so each cell covers one pixel
// horizontally and two vertically; that keeps the projection's aspect
// ratio square.
type TermSurface struct {
	Screen CellScreen
	color  RGB
	style  tcell.Style
	tris   [][3][2]float32
}

var _ Surface = (*TermSurface)(nil)

func NewTermSurface(screen CellScreen) *TermSurface {
	ts := &TermSurface{Screen: screen}
	ts.SetColor(RGB{1, 1, 1})
	return ts
}

func (ts *TermSurface) Size() (int, int) {
	w, h := ts.Screen.Size()
	return w, 2 * h
}

func styleFor(c RGB) tcell.Style {
	r, g, b := c.UInt8()
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func (ts *TermSurface) SetColor(c RGB) {
	ts.color = c
	ts.style = styleFor(c)
}

// Clear fills the whole screen with c.
func (ts *TermSurface) Clear(c RGB) {
	st := styleFor(c)
	w, h := ts.Screen.Size()
	for y := range h {
		for x := range w {
			ts.Screen.SetContent(x, y, ' ', nil, st)
		}
	}
}

func (ts *TermSurface) plot(x, y int) {
	w, h := ts.Screen.Size()
	if x < 0 || x >= w || y < 0 || y >= 2*h {
		return
	}
	ts.Screen.SetContent(x, y/2, ' ', nil, ts.style)
}

// DrawLine draws the segment with Bresenham's algorithm.
func (ts *TermSurface) DrawLine(x1, y1, x2, y2 float32) {
	// Clip grossly off-screen endpoints so the loop stays bounded.
	w, h := ts.Size()
	lim := float32(4 * max(w, h, 1))
	if !clipLine(&x1, &y1, &x2, &y2, -lim, lim) {
		return
	}

	x0, y0 := int(math.Floor(x1)), int(math.Floor(y1))
	xe, ye := int(math.Floor(x2)), int(math.Floor(y2))
	dx, dy := math.Abs(xe-x0), -math.Abs(ye-y0)
	sx, sy := 1, 1
	if x0 > xe {
		sx = -1
	}
	if y0 > ye {
		sy = -1
	}
	err := dx + dy
	for {
		ts.plot(x0, y0)
		if x0 == xe && y0 == ye {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine clips the segment to the square [lo,hi]^2 using Liang-Barsky,
// returning false if nothing remains.
func clipLine(x1, y1, x2, y2 *float32, lo, hi float32) bool {
	t0, t1 := float32(0), float32(1)
	dx, dy := *x2-*x1, *y2-*y1
	for _, c := range [4][2]float32{{-dx, *x1 - lo}, {dx, hi - *x1}, {-dy, *y1 - lo}, {dy, hi - *y1}} {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return false
		}
	}
	ox, oy := *x1, *y1
	*x1, *y1 = ox+t0*dx, oy+t0*dy
	*x2, *y2 = ox+t1*dx, oy+t1*dy
	return true
}

// FillPolygon triangulates the polygon and fills every pixel whose center
// lies inside one of the triangles.
func (ts *TermSurface) FillPolygon(xs, ys []float32, n int) {
	n = min(n, len(xs), len(ys))
	if n < 3 {
		return
	}

	ts.tris = ts.tris[:0]
	if n == 3 {
		ts.tris = append(ts.tris, [3][2]float32{{xs[0], ys[0]}, {xs[1], ys[1]}, {xs[2], ys[2]}})
	} else {
		vertices := make([]earcut.Vertex, n)
		for i := range n {
			vertices[i].P = [2]float64{float64(xs[i]), float64(ys[i])}
		}
		for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{vertices}}) {
			var t [3][2]float32
			for i, v64 := range tri.Vertices {
				t[i] = [2]float32{float32(v64.P[0]), float32(v64.P[1])}
			}
			ts.tris = append(ts.tris, t)
		}
	}

	for _, t := range ts.tris {
		ts.fillTriangle(t)
	}
}

func edge(a, b [2]float32, x, y float32) float32 {
	return (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
}

func (ts *TermSurface) fillTriangle(t [3][2]float32) {
	w, h := ts.Size()
	x0 := max(0, int(math.Floor(min(t[0][0], t[1][0], t[2][0]))))
	x1 := min(w-1, int(math.Ceil(max(t[0][0], t[1][0], t[2][0]))))
	y0 := max(0, int(math.Floor(min(t[0][1], t[1][1], t[2][1]))))
	y1 := min(h-1, int(math.Ceil(max(t[0][1], t[1][1], t[2][1]))))

	area := edge(t[0], t[1], t[2][0], t[2][1])
	if area == 0 {
		return
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			e0 := edge(t[1], t[2], px, py) * area
			e1 := edge(t[2], t[0], px, py) * area
			e2 := edge(t[0], t[1], px, py) * area
			if e0 >= 0 && e1 >= 0 && e2 >= 0 {
				ts.plot(x, y)
			}
		}
	}
}

// DrawText writes s starting at the cell containing (x,y) using the
// current color for the glyphs.
func (ts *TermSurface) DrawText(s string, x, y float32) {
	w, h := ts.Screen.Size()
	cx, cy := int(math.Floor(x)), int(math.Floor(y))/2
	if cy < 0 || cy >= h {
		return
	}
	r, g, b := ts.color.UInt8()
	st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	for _, ch := range s {
		if cx >= w {
			break
		}
		if cx >= 0 {
			ts.Screen.SetContent(cx, cy, ch, nil, st)
		}
		cx++
	}
}

// Show flushes the screen if it supports it.
func (ts *TermSurface) Show() {
	if s, ok := ts.Screen.(interface{ Show() }); ok {
		s.Show()
	}
}
