package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/diptych/internal/state"
)

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || m.modal != nil {
		return m, nil
	}
	layouts := computeLayout(m.width, m.height, m.mode)

	if m.dragging {
		pane := m.panes[m.dragSide]
		pos := timelinePosition(layouts[m.dragSide].Timeline, msg.Y)
		switch msg.Action {
		case tea.MouseActionMotion:
			return m, pane.Scrub(pos)
		case tea.MouseActionRelease:
			m.dragging = false
			return m, pane.Scrub(pos)
		}
		return m, nil
	}

	side, ok := m.paneAt(layouts, msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	pane := m.panes[side]
	lay := layouts[side]

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.focus = side
		return m, pane.ScrollRows(-1)
	case tea.MouseButtonWheelDown:
		m.focus = side
		return m, tea.Batch(pane.ScrollRows(1), m.detailCmds())
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
	default:
		return m, nil
	}

	m.focus = side
	switch {
	case onTimeline(lay, msg.X, msg.Y):
		if !pane.TimelineVisible() {
			return m, nil
		}
		m.dragging = true
		m.dragSide = side
		return m, pane.Scrub(timelinePosition(lay.Timeline, msg.Y))
	case lay.Bar.contains(msg.X, msg.Y):
		return m.handleBarClick(side, msg.X-lay.Bar.X)
	}
	return m, nil
}

// handleBarClick maps a click on the period bar to previous, picker or next.
func (m Model) handleBarClick(side state.Side, x int) (tea.Model, tea.Cmd) {
	pane := m.panes[side]
	st := pane.Periods()
	prev, labelStart, labelEnd, next := periodBarRegions(st)
	switch {
	case x <= prev+1:
		return m, pane.PreviousPeriod()
	case x >= labelStart && x < labelEnd:
		if len(st.Periods) > 0 {
			m.modal = newPeriodPicker(side, st, pane.Formatter())
		}
		return m, nil
	case x >= next-1 && x <= next+1:
		return m, pane.NextPeriod()
	}
	return m, nil
}

func (m Model) paneAt(layouts [2]paneLayout, x, y int) (state.Side, bool) {
	for _, side := range state.Sides {
		if m.mode.shows(side) && layouts[side].Outer.contains(x, y) {
			return side, true
		}
	}
	return state.Left, false
}

// onTimeline accepts the strip and the spacing column next to it.
func onTimeline(lay paneLayout, x, y int) bool {
	return y >= lay.Timeline.Y && y < lay.Timeline.Y+lay.Timeline.Height &&
		x >= lay.Grid.X+lay.Grid.Width && x < lay.Outer.X+lay.Outer.Width
}

// timelinePosition converts a screen row to a strip position in [0, 1].
func timelinePosition(r rect, y int) float64 {
	if r.Height <= 1 {
		return 0
	}
	p := float64(y-r.Y) / float64(r.Height-1)
	return min(max(p, 0), 1)
}
