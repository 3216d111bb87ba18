// renderer/commandbuffer.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"
	"sync"
)

// Surface is the 2D drawing target for projected scenes. Coordinates are
// in pixels with the origin at the upper left and y increasing downward.
type Surface interface {
	SetColor(c RGB)
	DrawLine(x1, y1, x2, y2 float32)
	// FillPolygon fills the polygon given by the first n entries of xs
	// and ys.
	FillPolygon(xs, ys []float32, n int)
	DrawText(s string, x, y float32)
	Size() (width, height int)
}

// The command buffer stores a series of drawing commands, represented by
// the following values. Each one is followed in the buffer by its
// arguments, after which the next command follows.
const (
	CommandSetRGB      = iota // 3 float32: RGB
	CommandDrawLine           // 4 float32: x1, y1, x2, y2
	CommandFillPolygon        // int32 n, then n float32 xs, then n float32 ys
	CommandDrawText           // int32 index into the string table, 2 float32: x, y
)

// CommandBuffer records drawing commands so that a frame can be replayed
// onto any Surface later. It is itself a Surface of a fixed size.
type CommandBuffer struct {
	Buf           []uint32
	Text          []string
	Width, Height int
}

var _ Surface = (*CommandBuffer)(nil)

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across frames.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer(width, height int) *CommandBuffer {
	cb := commandBufferPool.Get().(*CommandBuffer)
	cb.Width, cb.Height = width, height
	return cb
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
	clear(cb.Text)
	cb.Text = cb.Text[:0]
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := 2 * cap(cb.Buf)
		if sz < 1024 {
			sz = 1024
		}
		if sz < len(cb.Buf)+n {
			sz = 2 * (len(cb.Buf) + n)
		}
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendInts(ints ...int) {
	for _, i := range ints {
		cb.Buf = append(cb.Buf, uint32(i))
	}
}

func (cb *CommandBuffer) Size() (int, int) {
	return cb.Width, cb.Height
}

// SetColor adds a command to set the current color; subsequent drawing
// commands use it.
func (cb *CommandBuffer) SetColor(c RGB) {
	cb.appendInts(CommandSetRGB)
	cb.appendFloats(c.R, c.G, c.B)
}

func (cb *CommandBuffer) DrawLine(x1, y1, x2, y2 float32) {
	cb.appendInts(CommandDrawLine)
	cb.appendFloats(x1, y1, x2, y2)
}

func (cb *CommandBuffer) FillPolygon(xs, ys []float32, n int) {
	n = min(n, len(xs), len(ys))
	if n < 3 {
		return
	}
	cb.growFor(2 + 2*n)
	cb.appendInts(CommandFillPolygon, n)
	cb.appendFloats(xs[:n]...)
	cb.appendFloats(ys[:n]...)
}

func (cb *CommandBuffer) DrawText(s string, x, y float32) {
	cb.appendInts(CommandDrawText, len(cb.Text))
	cb.appendFloats(x, y)
	cb.Text = append(cb.Text, s)
}

// Replay issues the recorded commands to s in order.
func (cb *CommandBuffer) Replay(s Surface) {
	i := 0
	f := func() float32 {
		v := gomath.Float32frombits(cb.Buf[i])
		i++
		return v
	}
	var xs, ys []float32

	for i < len(cb.Buf) {
		cmd := cb.Buf[i]
		i++
		switch cmd {
		case CommandSetRGB:
			r, g, b := f(), f(), f()
			s.SetColor(RGB{R: r, G: g, B: b})

		case CommandDrawLine:
			x1, y1, x2, y2 := f(), f(), f(), f()
			s.DrawLine(x1, y1, x2, y2)

		case CommandFillPolygon:
			n := int(cb.Buf[i])
			i++
			xs, ys = xs[:0], ys[:0]
			for range n {
				xs = append(xs, f())
			}
			for range n {
				ys = append(ys, f())
			}
			s.FillPolygon(xs, ys, n)

		case CommandDrawText:
			idx := int(cb.Buf[i])
			i++
			x, y := f(), f()
			s.DrawText(cb.Text[idx], x, y)

		default:
			panic("unhandled command in CommandBuffer")
		}
	}
}

// PolygonCount returns the number of FillPolygon commands recorded.
func (cb *CommandBuffer) PolygonCount() int {
	n := 0
	cb.walk(func(cmd uint32, _ []uint32) {
		if cmd == CommandFillPolygon {
			n++
		}
	})
	return n
}

// Colors returns the colors set by the buffer's SetColor commands, in
// order.
func (cb *CommandBuffer) Colors() []RGB {
	var c []RGB
	cb.walk(func(cmd uint32, args []uint32) {
		if cmd == CommandSetRGB {
			c = append(c, RGB{
				R: gomath.Float32frombits(args[0]),
				G: gomath.Float32frombits(args[1]),
				B: gomath.Float32frombits(args[2]),
			})
		}
	})
	return c
}

func (cb *CommandBuffer) walk(fn func(cmd uint32, args []uint32)) {
	for i := 0; i < len(cb.Buf); {
		cmd := cb.Buf[i]
		i++
		var n int
		switch cmd {
		case CommandSetRGB:
			n = 3
		case CommandDrawLine:
			n = 4
		case CommandFillPolygon:
			n = 1 + 2*int(cb.Buf[i])
		case CommandDrawText:
			n = 3
		default:
			panic("unhandled command in CommandBuffer")
		}
		fn(cmd, cb.Buf[i:i+n])
		i += n
	}
}
