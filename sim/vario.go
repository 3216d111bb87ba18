// sim/vario.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"github.com/skyglide/skyglide/platform"
)

// VarioInterval is the minimum time between vario sounds, in seconds.
const VarioInterval = 0.5

// VarioClip returns the sound for the given climb rate in m/s; there is
// none for gentle sink.
func VarioClip(climb float32) string {
	switch {
	case climb > 3:
		return "up3"
	case climb > 1.5:
		return "up2"
	case climb > 0.25:
		return "up1"
	case climb < -2:
		return "down"
	default:
		return ""
	}
}

// Vario beeps the climb rate of the body being watched.
type Vario struct {
	audio platform.Audio
	since float32
}

func NewVario(a platform.Audio) *Vario {
	if a == nil {
		a = platform.NullAudio{}
	}
	return &Vario{audio: a, since: VarioInterval}
}

// Update plays the clip for climb if VarioInterval has passed since the
// last one was considered; it returns the clip played, if any.
func (v *Vario) Update(climb, dt float32) string {
	v.since += dt
	if v.since < VarioInterval {
		return ""
	}
	v.since = 0

	clip := VarioClip(climb)
	if clip != "" {
		v.audio.Play(clip)
	}
	return clip
}
