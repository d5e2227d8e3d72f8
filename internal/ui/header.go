package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"

	"github.com/five82/diptych/internal/state"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Panes
	b.WriteString(m.renderBody())

	return b.String()
}

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("diptych", styles.Logo)}
	parts = append(parts, m.connectionStatus(styles, bg))

	for _, side := range state.Sides {
		parts = append(parts, m.sideSummary(side, compact, styles, bg))
	}

	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.WarningText))
	}

	if ts := m.formatTimestamp(); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	content := bg.Join(parts, "  ")
	content = truncate.StringWithTail(content, uint(max(m.width-2, 0)), "…")

	return styles.Header.Width(m.width).Render(content)
}

// connectionStatus shows whether the media API answers.
func (m Model) connectionStatus(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return bg.Render("API "+classifyConnectionError(snap.LastError()), styles.DangerText.Bold(true)) +
			bg.Space() + bg.Render("Retrying...", styles.WarningText.Bold(true))
	case snap.LastError() != nil:
		return bg.Render("● "+classifyConnectionError(snap.LastError()), styles.WarningText)
	case snap.Left.Loaded || snap.Right.Loaded:
		return bg.Render("● ON", styles.SuccessText)
	default:
		return bg.Render("Connecting...", styles.WarningText.Bold(true))
	}
}

// sideSummary renders "L photos 1234" for one pane.
func (m Model) sideSummary(side state.Side, compact bool, styles Styles, bg BgStyle) string {
	tag := "L"
	if side == state.Right {
		tag = "R"
	}
	tagStyle := styles.MutedText
	if side == m.focus {
		tagStyle = styles.AccentText.Bold(true)
	}
	if !m.mode.shows(side) {
		tagStyle = styles.FaintText
	}

	out := bg.Render(tag, tagStyle)
	if collection := m.currentCollection(side); collection != "" {
		maxLen := 24
		if compact {
			maxLen = 12
		}
		out += bg.Space() + bg.Render(truncateMiddle(collection, maxLen), styles.Text)
	}
	list := m.snapshot.Side(side)
	count := "-"
	if list.Loaded {
		count = fmt.Sprintf("%d", len(list.Entries))
	}
	return out + bg.Space() + bg.Render(count, styles.MutedText)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"j/k", "Scroll"},
		{"[/]", "Month"},
		{"o", "Pick"},
		{"</>", "Timeline"},
		{"+/-", fmt.Sprintf("Cols %d", m.panes[m.focus].Columns())},
		{"D", "Dates"},
	}
	if m.width >= LayoutCompactWidth {
		commands = append(commands,
			cmd{"tab", "Pane"},
			cmd{"1/2/3", "View"},
			cmd{"c", "Collection"},
		)
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	content := truncate.StringWithTail(strings.Join(segments, sep), uint(max(m.width-2, 0)), "…")
	return styles.Header.Width(m.width).Render(content)
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 {
		return ""
	}
	if len(runes) <= limit {
		return s
	}
	if limit <= 5 {
		return string(runes[:limit])
	}
	// Keep more of the end than the start
	endLen := (limit - 1) * 2 / 3
	startLen := limit - 1 - endLen
	return string(runes[:startLen]) + "…" + string(runes[len(runes)-endLen:])
}
