package timeline

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/diptych/internal/debounce"
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultMinItems = 20
)

// Config tunes a Control.
type Config struct {
	Debounce    time.Duration
	MinItems    int
	Orientation Orientation
}

// DefaultConfig returns the stock timeline settings.
func DefaultConfig() Config {
	return Config{Debounce: DefaultDebounce, MinItems: DefaultMinItems}
}

// Control turns pointer scrubs into debounced navigation requests.
type Control struct {
	cfg       Config
	strip     Strip
	items     int
	pending   *debounce.Signal[float64]
	cursor    float64
	hasCursor bool
}

// NewControl builds a control.
func NewControl(cfg Config) *Control {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.MinItems < 0 {
		cfg.MinItems = DefaultMinItems
	}
	return &Control{cfg: cfg, pending: debounce.New[float64](cfg.Debounce)}
}

// Config returns the control settings.
func (c *Control) Config() Config {
	return c.cfg
}

// SetStrip attaches a new strip for a list of items entries. A pending scrub
// is dropped because it referred to the old list.
func (c *Control) SetStrip(strip Strip, items int) {
	c.strip = strip
	c.items = items
	c.pending.Cancel()
	c.hasCursor = false
}

// Strip returns the attached strip.
func (c *Control) Strip() Strip {
	return c.strip
}

// Visible reports whether the control should be drawn.
func (c *Control) Visible() bool {
	return c.items >= c.cfg.MinItems && c.strip.HasRange()
}

// Scrub records a pointer position and arms the debounce.
func (c *Control) Scrub(p float64) tea.Cmd {
	if !c.Visible() {
		return nil
	}
	c.cursor = clamp01(p)
	c.hasCursor = true
	return c.pending.Push(c.cursor)
}

// Step moves the cursor by delta. Without a cursor it starts from the
// position of from.
func (c *Control) Step(delta float64, from time.Time) tea.Cmd {
	if !c.Visible() {
		return nil
	}
	start := c.cursor
	if !c.hasCursor {
		start = c.strip.PositionOf(from)
	}
	return c.Scrub(start + delta)
}

// Cursor returns the last scrubbed position.
func (c *Control) Cursor() (float64, bool) {
	return c.cursor, c.hasCursor
}

// ClearCursor forgets the scrub position.
func (c *Control) ClearCursor() {
	c.hasCursor = false
}

// Owns reports whether msg is a timer of this control.
func (c *Control) Owns(msg tea.Msg) bool {
	fired, ok := msg.(debounce.FiredMsg)
	return ok && c.pending.Owns(fired)
}

// Handle returns the target date when msg is the latest scrub timer.
func (c *Control) Handle(msg tea.Msg) (time.Time, bool) {
	fired, ok := msg.(debounce.FiredMsg)
	if !ok {
		return time.Time{}, false
	}
	p, ok := c.pending.Fire(fired)
	if !ok || !c.strip.HasRange() {
		return time.Time{}, false
	}
	return c.strip.TimeAt(p), true
}

// Close cancels a pending scrub.
func (c *Control) Close() {
	c.pending.Cancel()
}
