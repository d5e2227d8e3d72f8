package tracker

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/debounce"
)

// Banner is the transient date label shown over a pane.
type Banner struct {
	format  datefmt.Formatter
	hide    *debounce.Signal[struct{}]
	visible bool
	text    string
	date    time.Time
}

// NewBanner builds a banner that hides itself after hideAfter.
func NewBanner(f datefmt.Formatter, hideAfter time.Duration) *Banner {
	if hideAfter <= 0 {
		hideAfter = DefaultBannerMS * time.Millisecond
	}
	return &Banner{format: f, hide: debounce.New[struct{}](hideAfter)}
}

// Show displays date and re-arms the hide timer. Nil hides the banner.
func (b *Banner) Show(date *time.Time) tea.Cmd {
	if date == nil {
		b.Hide()
		return nil
	}
	b.visible = true
	b.date = *date
	b.text = b.format.Banner(*date)
	return b.hide.Push(struct{}{})
}

// Hide clears the banner immediately.
func (b *Banner) Hide() {
	b.hide.Cancel()
	b.visible = false
}

// Handle consumes hide timer messages.
func (b *Banner) Handle(msg tea.Msg) bool {
	fired, ok := msg.(debounce.FiredMsg)
	if !ok || !b.hide.Owns(fired) {
		return false
	}
	if _, ok := b.hide.Fire(fired); ok {
		b.visible = false
	}
	return true
}

// Visible reports whether the banner is shown.
func (b *Banner) Visible() bool {
	return b.visible
}

// Text returns the formatted date.
func (b *Banner) Text() string {
	if !b.visible {
		return ""
	}
	return b.text
}

// Date returns the displayed date.
func (b *Banner) Date() (time.Time, bool) {
	return b.date, b.visible
}

// SetFormatter swaps the date formatting.
func (b *Banner) SetFormatter(f datefmt.Formatter) {
	b.format = f
	if b.visible {
		b.text = f.Banner(b.date)
	}
}
