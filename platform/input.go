// platform/input.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"context"
	"sync"
	"time"

	"github.com/skyglide/skyglide/log"

	"github.com/gdamore/tcell/v2"
)

// KeyHold is how long a key is considered held after the terminal last
// reported it. Terminals only report key presses (repeating while the key
// is held), so releases are synthesized when the repeats stop.
const KeyHold = 150 * time.Millisecond

// EventSource is the subset of tcell.Screen that TermInput reads from.
type EventSource interface {
	PollEvent() tcell.Event
}

// TermInput turns terminal key events into KeyEvents on an EventQueue.
type TermInput struct {
	src   EventSource
	queue *EventQueue
	lg    *log.Logger

	mu   sync.Mutex
	held map[KeyEvent]time.Time // keyed by the down event

	// OnResize, if set, is called when the terminal is resized.
	OnResize func()
	// OnQuit, if set, is called for ctrl-C; Escape is delivered as a
	// regular key.
	OnQuit func()
}

func NewTermInput(src EventSource, queue *EventQueue, lg *log.Logger) *TermInput {
	return &TermInput{
		src:   src,
		queue: queue,
		lg:    lg,
		held:  make(map[KeyEvent]time.Time),
	}
}

// Run polls for events until ctx is canceled or the event source is
// finalized.
func (t *TermInput) Run(ctx context.Context) {
	ticker := time.NewTicker(KeyHold / 3)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				t.Release(now)
			}
		}
	}()

	for {
		ev := t.src.PollEvent()
		if ev == nil {
			// The screen has been finalized.
			return
		}
		if ctx.Err() != nil {
			return
		}
		t.Handle(ev, time.Now())
	}
}

// Handle processes a single terminal event received at the given time.
func (t *TermInput) Handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		if t.OnResize != nil {
			t.OnResize()
		}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			if t.OnQuit != nil {
				t.OnQuit()
			}
			return
		}
		ke, ok := translateKey(ev)
		if !ok {
			t.lg.Debugf("ignoring key %s", ev.Name())
			return
		}

		t.mu.Lock()
		_, wasHeld := t.held[ke]
		t.held[ke] = now
		t.mu.Unlock()

		// Repeats of a held key only extend the hold.
		if !wasHeld {
			t.queue.Post(ke)
		}
	}
}

// Release posts key-up events for keys that have not repeated within
// KeyHold of now.
func (t *TermInput) Release(now time.Time) {
	t.mu.Lock()
	var up []KeyEvent
	for ke, last := range t.held {
		if now.Sub(last) >= KeyHold {
			delete(t.held, ke)
			ke.Down = false
			up = append(up, ke)
		}
	}
	t.mu.Unlock()

	for _, ke := range up {
		t.queue.Post(ke)
	}
}

func translateKey(ev *tcell.EventKey) (KeyEvent, bool) {
	ke := KeyEvent{Down: true}
	switch ev.Key() {
	case tcell.KeyLeft:
		ke.Key = KeyLeft
	case tcell.KeyRight:
		ke.Key = KeyRight
	case tcell.KeyUp:
		ke.Key = KeyUp
	case tcell.KeyDown:
		ke.Key = KeyDown
	case tcell.KeyEscape:
		ke.Key = KeyEscape
	case tcell.KeyEnter:
		ke.Key = KeyEnter
	case tcell.KeyTab:
		ke.Key = KeyTab
	case tcell.KeyRune:
		ke.Key, ke.Rune = KeyRune, ev.Rune()
	default:
		return KeyEvent{}, false
	}
	return ke, true
}
