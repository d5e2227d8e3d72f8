// Package tracker reports the date of the first visible grid cell while the
// user scrolls, and keeps the transient date banner in sync.
package tracker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/diptych/internal/debounce"
)

const (
	DefaultSettle   = 150 * time.Millisecond
	DefaultBannerMS = 3000
)

// State is the scroll state of a tracker.
type State int

const (
	Idle State = iota
	Scrolling
)

func (s State) String() string {
	if s == Scrolling {
		return "scrolling"
	}
	return "idle"
}

// Element is one mounted cell. Top is relative to the viewport origin.
type Element struct {
	Index int
	ID    string
	Top   int
}

// Band is the inclusive vertical range considered visible.
type Band struct {
	Top    int
	Bottom int
}

// Source exposes the mounted cells of a pane in document order.
type Source interface {
	Elements() []Element
	Band() Band
}

// DateLookup resolves the date of one element.
type DateLookup func(el Element) (time.Time, bool)

// PublishFunc receives the visible date, or nil when nothing matches.
type PublishFunc func(date *time.Time) tea.Cmd

// FirstVisible returns the first element whose top edge lies inside band.
func FirstVisible(elements []Element, band Band) (Element, bool) {
	for _, el := range elements {
		if el.Top >= band.Top && el.Top <= band.Bottom {
			return el, true
		}
	}
	return Element{}, false
}

// Tracker is the visible-date state machine of one pane.
type Tracker struct {
	src     Source
	lookup  DateLookup
	publish PublishFunc
	settle  *debounce.Signal[struct{}]
	state   State
	current *time.Time
}

// New builds a tracker. A non-positive settle uses DefaultSettle.
func New(src Source, lookup DateLookup, settle time.Duration, publish PublishFunc) *Tracker {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Tracker{
		src:     src,
		lookup:  lookup,
		publish: publish,
		settle:  debounce.New[struct{}](settle),
	}
}

// State returns the scroll state.
func (t *Tracker) State() State {
	return t.state
}

// Current returns the last published date.
func (t *Tracker) Current() *time.Time {
	if t.current == nil {
		return nil
	}
	c := *t.current
	return &c
}

// Observe reacts to a scroll or resize: it recomputes right away and re-arms
// the settle timer.
func (t *Tracker) Observe() tea.Cmd {
	t.state = Scrolling
	publishCmd := t.recompute(false)
	return tea.Batch(publishCmd, t.settle.Push(struct{}{}))
}

// Refresh recomputes without changing state, for example after new dates
// arrive.
func (t *Tracker) Refresh() tea.Cmd {
	return t.recompute(false)
}

// Handle consumes settle timer messages. The bool reports whether msg
// belonged to this tracker.
func (t *Tracker) Handle(msg tea.Msg) (tea.Cmd, bool) {
	fired, ok := msg.(debounce.FiredMsg)
	if !ok || !t.settle.Owns(fired) {
		return nil, false
	}
	if _, ok := t.settle.Fire(fired); !ok {
		return nil, true
	}
	t.state = Idle
	return t.recompute(true), true
}

// Stop cancels the settle timer.
func (t *Tracker) Stop() {
	t.settle.Cancel()
	t.state = Idle
}

func (t *Tracker) recompute(force bool) tea.Cmd {
	next := t.detect()
	if !force && sameDate(next, t.current) {
		return nil
	}
	t.current = next
	if t.publish == nil {
		return nil
	}
	return t.publish(t.Current())
}

func (t *Tracker) detect() *time.Time {
	if t.src == nil || t.lookup == nil {
		return nil
	}
	el, ok := FirstVisible(t.src.Elements(), t.src.Band())
	if !ok {
		return nil
	}
	date, ok := t.lookup(el)
	if !ok {
		return nil
	}
	return &date
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
