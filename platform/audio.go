// platform/audio.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"
	gomath "math"
	"sync"
	"time"

	"github.com/skyglide/skyglide/log"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const AudioSampleRate = beep.SampleRate(22050)

// Audio plays named sound clips. An unknown or empty clip name is
// silently ignored.
type Audio interface {
	Play(clip string)
}

// NullAudio discards everything.
type NullAudio struct{}

func (NullAudio) Play(string) {}

// Tone is a sine tone of the given frequency (Hz) and duration; a zero
// frequency gives silence.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// VarioClips are the variometer's sounds: rising beeps for increasing
// climb and a low drone for sink.
var VarioClips = map[string][]Tone{
	"up1":  {{660, 90 * time.Millisecond}, {0, 200 * time.Millisecond}},
	"up2":  {{770, 80 * time.Millisecond}, {0, 120 * time.Millisecond}, {770, 80 * time.Millisecond}},
	"up3":  {{880, 70 * time.Millisecond}, {0, 60 * time.Millisecond}, {880, 70 * time.Millisecond}, {0, 60 * time.Millisecond}, {880, 70 * time.Millisecond}},
	"down": {{220, 400 * time.Millisecond}},
}

// BeepAudio synthesizes clips and plays them through the system's audio
// output.
type BeepAudio struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	clips       map[string][]Tone
	initialized bool
	lg          *log.Logger
}

func NewBeepAudio(clips map[string][]Tone, lg *log.Logger) *BeepAudio {
	return &BeepAudio{
		mixer: &beep.Mixer{},
		clips: clips,
		lg:    lg,
	}
}

// Initialize opens the audio device; until it is called, Play does
// nothing.
func (a *BeepAudio) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}

	a.lg.Info("Starting to initialize audio")
	if err := speaker.Init(AudioSampleRate, AudioSampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	speaker.Play(a.mixer)
	a.initialized = true
	a.lg.Info("Finished initializing audio")
	return nil
}

func (a *BeepAudio) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	speaker.Clear()
	a.mixer.Clear()
	speaker.Close()
	a.initialized = false
}

func (a *BeepAudio) Play(clip string) {
	s := a.streamer(clip)
	if s == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	// The mixer is read by the speaker's goroutine.
	speaker.Lock()
	a.mixer.Add(s)
	speaker.Unlock()
}

// streamer returns the synthesized clip, or nil if there is no such clip.
func (a *BeepAudio) streamer(clip string) beep.Streamer {
	tones, ok := a.clips[clip]
	if !ok || len(tones) == 0 {
		return nil
	}

	var parts []beep.Streamer
	for _, t := range tones {
		n := AudioSampleRate.N(t.Duration)
		if t.Freq == 0 {
			parts = append(parts, beep.Silence(n))
		} else {
			parts = append(parts, beep.Take(n, &sine{freq: t.Freq, rate: AudioSampleRate, n: n}))
		}
	}
	return beep.Seq(parts...)
}

// sine generates a sine tone with short linear fades at both ends to
// avoid clicks.
type sine struct {
	freq  float64
	rate  beep.SampleRate
	pos   int
	n     int
	phase float64
}

const toneVolume = 0.25

func (s *sine) Stream(samples [][2]float64) (int, bool) {
	fade := s.rate.N(5 * time.Millisecond)
	for i := range samples {
		env := 1.0
		if fade > 0 {
			env = min(1, float64(s.pos)/float64(fade), float64(s.n-s.pos)/float64(fade))
			env = max(env, 0)
		}
		v := toneVolume * env * gomath.Sin(2*gomath.Pi*s.phase)
		samples[i][0], samples[i][1] = v, v

		s.phase += s.freq / float64(s.rate)
		s.phase -= gomath.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }
