package ui

import (
	"time"

	"github.com/five82/diptych/internal/state"
)

// Screen layout.
const (
	// headerLines is the status bar plus the command bar.
	headerLines = 2

	// periodBarLines sits on top of each pane.
	periodBarLines = 1

	// timelineWidth is the strip plus one column of spacing.
	timelineWidth = 2

	// separatorWidth divides the two panes.
	separatorWidth = 1

	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Timing constants.
const (
	// DetailFetchTimeout bounds one /info request.
	DetailFetchTimeout = 3 * time.Second

	// DetailBatch is how many missing dates are requested per pane and tick.
	DetailBatch = 8

	// TreeFetchTimeout bounds one /tree request.
	TreeFetchTimeout = 5 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// scrubStep is how far one key press moves the timeline cursor.
	scrubStep = 0.05

	// cellAspect makes cells look square; terminal cells are about twice as
	// tall as wide.
	cellAspect = 0.5
)

// viewMode selects which panes are shown.
type viewMode string

const (
	viewBoth  viewMode = "both"
	viewLeft  viewMode = "left"
	viewRight viewMode = "right"
)

func parseViewMode(s string) viewMode {
	switch viewMode(s) {
	case viewLeft, viewRight:
		return viewMode(s)
	default:
		return viewBoth
	}
}

// shows reports whether side is visible in this mode.
func (v viewMode) shows(side state.Side) bool {
	switch v {
	case viewLeft:
		return side == state.Left
	case viewRight:
		return side == state.Right
	default:
		return true
	}
}

// rect is a screen area in terminal cells.
type rect struct {
	X, Y, Width, Height int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// paneLayout splits a pane area into its parts.
type paneLayout struct {
	Outer    rect
	Bar      rect
	Grid     rect
	Timeline rect // one column wide
}

func newPaneLayout(outer rect) paneLayout {
	bodyY := outer.Y + periodBarLines
	bodyH := max(outer.Height-periodBarLines, 0)
	gridW := max(outer.Width-timelineWidth, 0)
	return paneLayout{
		Outer:    outer,
		Bar:      rect{X: outer.X, Y: outer.Y, Width: outer.Width, Height: min(periodBarLines, outer.Height)},
		Grid:     rect{X: outer.X, Y: bodyY, Width: gridW, Height: bodyH},
		Timeline: rect{X: outer.X + outer.Width - 1, Y: bodyY, Width: min(1, outer.Width), Height: bodyH},
	}
}

// computeLayout places the visible panes below the header.
func computeLayout(width, height int, mode viewMode) [2]paneLayout {
	var out [2]paneLayout
	bodyY := headerLines
	bodyH := max(height-headerLines, 0)

	switch mode {
	case viewLeft:
		out[state.Left] = newPaneLayout(rect{X: 0, Y: bodyY, Width: width, Height: bodyH})
	case viewRight:
		out[state.Right] = newPaneLayout(rect{X: 0, Y: bodyY, Width: width, Height: bodyH})
	default:
		leftW := max((width-separatorWidth)/2, 0)
		rightW := max(width-separatorWidth-leftW, 0)
		out[state.Left] = newPaneLayout(rect{X: 0, Y: bodyY, Width: leftW, Height: bodyH})
		out[state.Right] = newPaneLayout(rect{X: leftW + separatorWidth, Y: bodyY, Width: rightW, Height: bodyH})
	}
	return out
}
