// renderer/rgb.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skyglide/skyglide/math"
)

///////////////////////////////////////////////////////////////////////////
// RGB

type RGB struct {
	R, G, B float32
}

func LerpRGB(x float32, a, b RGB) RGB {
	return RGB{R: math.Lerp(x, a.R, b.R), G: math.Lerp(x, a.G, b.G), B: math.Lerp(x, a.B, b.B)}
}

func (r RGB) Equals(other RGB) bool {
	return r.R == other.R && r.G == other.G && r.B == other.B
}

func (r RGB) Scale(v float32) RGB {
	return RGB{R: r.R * v, G: r.G * v, B: r.B * v}
}

// Clamp returns the color with all components limited to [0,1].
func (r RGB) Clamp() RGB {
	return RGB{R: math.Clamp(r.R, 0, 1), G: math.Clamp(r.G, 0, 1), B: math.Clamp(r.B, 0, 1)}
}

// UInt8 returns the components scaled to [0,255].
func (r RGB) UInt8() (uint8, uint8, uint8) {
	c := r.Clamp()
	return uint8(math.Round(c.R * 255)), uint8(math.Round(c.G * 255)), uint8(math.Round(c.B * 255))
}

// RGBFromHex converts a packed integer color value to an RGB where the low
// 8 bits give blue, the next 8 give green, and then the next 8 give red.
func RGBFromHex(c int) RGB {
	r, g, b := (c>>16)&255, (c>>8)&255, c&255
	return RGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

func RGBFromUInt8(r uint8, g uint8, b uint8) RGB {
	return RGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// ParseRGB parses colors of the form "#rrggbb".
func ParseRGB(s string) (RGB, error) {
	h, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || len(h) != 6 {
		return RGB{}, fmt.Errorf("%q: color must be of the form #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%q: %w", s, err)
	}
	return RGBFromHex(int(v)), nil
}

func (r RGB) String() string {
	cr, cg, cb := r.UInt8()
	return fmt.Sprintf("#%02x%02x%02x", cr, cg, cb)
}
