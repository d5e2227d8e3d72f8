// Package debounce provides a cancelable delayed-value primitive for Bubble Tea
// programs.
//
// A Signal never starts goroutines of its own. Push returns a tea.Cmd that
// emits a FiredMsg after the delay; the owner routes that message back to
// Fire, which hands out the pushed value only when the message carries the
// newest tag. Pushing again or calling Cancel makes every older message stale,
// so timers left over after teardown are simply ignored.
package debounce

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FiredMsg is emitted when a pushed delay elapses.
type FiredMsg struct {
	ID  int
	Tag uint64
}

// Signal delays values of type T.
type Signal[T any] struct {
	id      int
	delay   time.Duration
	tag     uint64
	pending bool
	value   T
}

// New returns a Signal that delivers values after delay.
func New[T any](delay time.Duration) *Signal[T] {
	if delay < 0 {
		delay = 0
	}
	return &Signal[T]{id: nextID(), delay: delay}
}

// ID identifies messages produced by this signal.
func (s *Signal[T]) ID() int {
	return s.id
}

// Delay returns the configured delay.
func (s *Signal[T]) Delay() time.Duration {
	return s.delay
}

// Push records v as the latest value and returns the timer command. Any
// previously pushed value that has not fired yet is superseded.
func (s *Signal[T]) Push(v T) tea.Cmd {
	s.tag++
	s.value = v
	s.pending = true
	id, tag := s.id, s.tag
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return FiredMsg{ID: id, Tag: tag}
	})
}

// Owns reports whether msg was produced by this signal, stale or not.
func (s *Signal[T]) Owns(msg FiredMsg) bool {
	return msg.ID == s.id
}

// Fire consumes msg. It returns the latest pushed value and true when msg is
// the newest timer of this signal and nothing canceled it.
func (s *Signal[T]) Fire(msg FiredMsg) (T, bool) {
	var zero T
	if msg.ID != s.id || msg.Tag != s.tag || !s.pending {
		return zero, false
	}
	s.pending = false
	v := s.value
	s.value = zero
	return v, true
}

// Pending reports whether a pushed value is waiting to fire.
func (s *Signal[T]) Pending() bool {
	return s.pending
}

// Cancel drops the pending value and invalidates outstanding timers.
func (s *Signal[T]) Cancel() {
	var zero T
	s.tag++
	s.pending = false
	s.value = zero
}
