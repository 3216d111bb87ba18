// platform/events.go
// Copyright(c) 2022-2025 skyglide contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/skyglide/skyglide/log"
)

type Key int

const (
	KeyRune Key = iota // see KeyEvent.Rune
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
	KeyEnter
	KeyTab
)

func (k Key) String() string {
	return [...]string{"rune", "left", "right", "up", "down", "escape", "enter", "tab"}[k]
}

type KeyEvent struct {
	Key  Key
	Rune rune // for KeyRune
	Down bool
}

func (e KeyEvent) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = fmt.Sprintf("%q", e.Rune)
	}
	if e.Down {
		return name + " down"
	}
	return name + " up"
}

// Is reports whether the event is for the given rune key.
func (e KeyEvent) Is(r rune) bool {
	return e.Key == KeyRune && e.Rune == r
}

// EventQueue collects key events as they arrive, possibly from other
// goroutines, and hands them out one per tick so that the simulation sees
// input at a rate it can follow.
type EventQueue struct {
	mu            sync.Mutex
	events        []KeyEvent
	subscriptions []*Subscription
	lg            *log.Logger
}

type Subscription struct {
	queue   *EventQueue
	handler func(KeyEvent)
	// source records where the subscription was made, for debugging.
	source string
}

func (s *Subscription) LogValue() slog.Value {
	return slog.GroupValue(slog.String("source", s.source))
}

func NewEventQueue(lg *log.Logger) *EventQueue {
	return &EventQueue{lg: lg}
}

// Subscribe registers handler to receive events. Subscribers are called
// in the order in which they subscribed.
func (q *EventQueue) Subscribe(handler func(KeyEvent)) *Subscription {
	_, fn, line, _ := runtime.Caller(1)
	sub := &Subscription{
		queue:   q,
		handler: handler,
		source:  fmt.Sprintf("%s:%d", fn, line),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.subscriptions = append(q.subscriptions, sub)
	return sub
}

func (s *Subscription) Unsubscribe() {
	q := s.queue
	if q == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if !slices.Contains(q.subscriptions, s) {
		q.lg.Errorf("Attempted to unsubscribe invalid subscription: %+v", s)
	}
	q.subscriptions = slices.DeleteFunc(q.subscriptions, func(o *Subscription) bool { return o == s })
	s.queue = nil
}

// Post adds an event to the end of the queue.
func (q *EventQueue) Post(e KeyEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.lg.Debug("posted event", slog.String("event", e.String()))
	q.events = append(q.events, e)
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Drain removes the oldest event and delivers it to all subscribers. It
// reports whether there was an event. It is meant to be called once per
// tick.
func (q *EventQueue) Drain() bool {
	q.mu.Lock()
	if len(q.events) == 0 {
		q.mu.Unlock()
		return false
	}
	e := q.events[0]
	q.events = q.events[1:]
	if len(q.events) == 0 {
		// Reclaim the storage.
		q.events = nil
	}
	subs := slices.Clone(q.subscriptions)
	q.mu.Unlock()

	// Handlers are called without the lock held so that they may post
	// or subscribe.
	for _, s := range subs {
		s.handler(e)
	}
	return true
}
