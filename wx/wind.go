// wx/wind.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"strconv"
	"strings"

	"github.com/skyglide/skyglide/math"
	"github.com/skyglide/skyglide/util"
)

// WindLayer gives the wind at an altitude. Direction is where the wind
// blows from, in degrees clockwise from north (+y); speed is in m/s.
type WindLayer struct {
	Altitude        float32
	Direction       float32
	DirectionVector [2]float32 // normalized, pointing where the air goes
	Speed           float32
}

func MakeWindLayer(alt, dir, speed float32) WindLayer {
	return WindLayer{
		Altitude:        alt,
		Direction:       dir,
		DirectionVector: math.Scale2f(math.SinCos(math.Radians(dir)), -1),
		Speed:           speed,
	}
}

func (l WindLayer) Vector() [3]float32 {
	v := math.Scale2f(l.DirectionVector, l.Speed)
	return [3]float32{v[0], v[1], 0}
}

// ParseWindLayers parses a string of the form
// "alt/dir/spd,alt/dir/spd,..." and returns the corresponding WindLayer
// objects sorted by altitude. Errors are logged to the provided
// ErrorLogger.
func ParseWindLayers(str string, e *util.ErrorLogger) []WindLayer {
	var layers []WindLayer
	for l := range strings.SplitSeq(str, ",") {
		f := strings.Split(l, "/")
		if len(f) != 3 {
			e.ErrorString("expected three numbers separated by '/'s in wind layer %q entry", l)
			continue
		}
		for i := range f {
			f[i] = strings.TrimSpace(f[i])
		}

		alt, err := strconv.ParseFloat(f[0], 32)
		if err != nil {
			e.ErrorString("invalid altitude %q in wind layer %q", f[0], str)
			continue
		}

		dir, err := strconv.ParseFloat(f[1], 32)
		if err != nil {
			e.ErrorString("invalid direction %q in wind layer %q", f[1], str)
			continue
		} else if dir < 0 || dir > 360 {
			e.ErrorString("wind layer direction %g must be between 0-360", dir)
			continue
		}

		spd, err := strconv.ParseFloat(f[2], 32)
		if err != nil {
			e.ErrorString("invalid speed %q in wind layer %q", f[2], str)
			continue
		} else if spd < 0 {
			e.ErrorString("speed %g must be >= 0 in wind layer %q", spd, str)
			continue
		}

		layers = append(layers, MakeWindLayer(float32(alt), float32(dir), float32(spd)))
	}

	for i := 1; i < len(layers); i++ {
		if layers[i].Altitude <= layers[i-1].Altitude {
			e.ErrorString("wind layer altitudes must be increasing in %q", str)
			break
		}
	}
	return layers
}

func BlendWindLayers(wts []float32, layers []WindLayer) WindLayer {
	var alt, sumwt float32
	var vspd [2]float32
	for i, wt := range wts {
		if wt != 0 {
			layer := layers[i]
			alt += wt * layer.Altitude
			vspd = math.Add2f(vspd, math.Scale2f(layer.DirectionVector, layer.Speed*wt))
			sumwt += wt
		}
	}

	invwt := 1 / sumwt
	return WindLayer{
		Altitude:        alt * invwt,
		Direction:       math.NormalizeHeading(math.VectorHeading([3]float32{vspd[0], vspd[1], 0}) + 180),
		DirectionVector: math.Normalize2f(vspd),
		Speed:           math.Length2f(vspd) * invwt,
	}
}

func interpolateWind(alt float32, layers []WindLayer) WindLayer {
	if alt <= layers[0].Altitude {
		return layers[0]
	} else if alt >= layers[len(layers)-1].Altitude {
		return layers[len(layers)-1]
	} else {
		i := 0 // precondition: alt > layers[i].Altitude
		for i = range layers {
			if alt < layers[i].Altitude {
				break
			}
		}

		l0, l1 := layers[i-1], layers[i]
		t := (alt - l0.Altitude) / (l1.Altitude - l0.Altitude)
		wts := [2]float32{1 - t, t}
		return BlendWindLayers(wts[:], layers[i-1:i+1])
	}
}

// Wind is the air movement over the whole task area; it varies only with
// altitude.
type Wind struct {
	Layers []WindLayer
}

// ConstantWind returns a wind that is the same at all altitudes.
func ConstantWind(v [3]float32) Wind {
	h := math.XY(v)
	l := math.Length2f(h)
	dir := float32(0)
	if l > 0 {
		dir = math.NormalizeHeading(math.VectorHeading(math.Horizontal(v)) + 180)
	}
	return Wind{Layers: []WindLayer{{
		Direction:       dir,
		DirectionVector: math.Normalize2f(h),
		Speed:           l,
	}}}
}

// At returns the wind vector at altitude z.
func (w Wind) At(z float32) [3]float32 {
	if len(w.Layers) == 0 {
		return [3]float32{}
	}
	return interpolateWind(z, w.Layers).Vector()
}

// Drift returns the horizontal displacement of air rising from z0 to z1
// at riseRate.
func (w Wind) Drift(z0, z1, riseRate float32) [3]float32 {
	if riseRate <= 0 || z1 <= z0 {
		return [3]float32{}
	}
	// Midpoint rule; layers are smooth enough for this.
	return math.Scale3f(w.At((z0+z1)/2), (z1-z0)/riseRate)
}
