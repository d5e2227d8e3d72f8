package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/gallery"
	"github.com/five82/diptych/internal/periods"
	"github.com/five82/diptych/internal/state"
)

const (
	pickerWidth = 40
	// pickerChrome is border, padding, title and hint lines.
	pickerChrome = 9
)

// pickerRow is one line of a picker list. Headings have item -1.
type pickerRow struct {
	text  string
	count string
	item  int
}

// listPicker holds the cursor logic shared by the pickers.
type listPicker struct {
	title  string
	rows   []pickerRow
	items  int
	cursor int
}

func (l *listPicker) move(delta int) {
	if l.items == 0 {
		return
	}
	l.cursor = min(max(l.cursor+delta, 0), l.items-1)
}

// navigate applies a cursor key. It reports whether the key was consumed.
func (l *listPicker) navigate(msg tea.KeyMsg, keys keyMap) bool {
	switch {
	case key.Matches(msg, keys.Up):
		l.move(-1)
	case key.Matches(msg, keys.Down):
		l.move(1)
	case key.Matches(msg, keys.PageUp), key.Matches(msg, keys.HalfPageUp):
		l.move(-12)
	case key.Matches(msg, keys.PageDown), key.Matches(msg, keys.HalfPageDown):
		l.move(12)
	case key.Matches(msg, keys.Top):
		l.cursor = 0
	case key.Matches(msg, keys.Bottom):
		l.cursor = max(l.items-1, 0)
	default:
		return false
	}
	return true
}

// visibleRows returns the slice of rows that fits in height, keeping the
// cursor roughly centered.
func (l *listPicker) visibleRows(height int) []pickerRow {
	if height <= 0 || len(l.rows) <= height {
		return l.rows
	}
	at := 0
	for i, row := range l.rows {
		if row.item == l.cursor {
			at = i
			break
		}
	}
	start := min(max(at-height/2, 0), len(l.rows)-height)
	return l.rows[start : start+height]
}

func (l *listPicker) view(theme Theme, width, height int, hint string) string {
	styles := theme.Styles()
	inner := pickerWidth - 6

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(l.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	rows := l.visibleRows(height - pickerChrome)
	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing to pick"))
		b.WriteString("\n")
	}
	for _, row := range rows {
		if row.item < 0 {
			b.WriteString(styles.AccentText.Bold(true).Render(row.text))
			b.WriteString("\n")
			continue
		}
		text := runewidth.Truncate(row.text, inner-runewidth.StringWidth(row.count)-1, "…")
		pad := max(inner-runewidth.StringWidth(text)-runewidth.StringWidth(row.count), 1)
		line := text + strings.Repeat(" ", pad) + row.count
		if row.item == l.cursor {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(hint))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(pickerWidth)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// periodPicker lists the months of a pane grouped by year.
type periodPicker struct {
	listPicker
	side    state.Side
	periods []periods.Period
}

func newPeriodPicker(side state.Side, st gallery.PeriodState, f datefmt.Formatter) *periodPicker {
	p := &periodPicker{
		listPicker: listPicker{
			title:  fmt.Sprintf("Jump to month (%s)", side),
			items:  len(st.Periods),
			cursor: max(st.Current, 0),
		},
		side:    side,
		periods: append([]periods.Period(nil), st.Periods...),
	}
	p.rows = periodRows(st.Periods, f)
	return p
}

func periodRows(list []periods.Period, f datefmt.Formatter) []pickerRow {
	rows := make([]pickerRow, 0, len(list)+len(list)/12+1)
	year := 0
	for i, period := range list {
		if i == 0 || period.Year != year {
			year = period.Year
			rows = append(rows, pickerRow{text: fmt.Sprintf("%d", year), item: -1})
		}
		rows = append(rows, pickerRow{
			text:  "  " + f.ShortMonth(period.Month),
			count: fmt.Sprintf("%d", period.Count),
			item:  i,
		})
	}
	return rows
}

// Update implements Modal.
func (p *periodPicker) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}
	switch {
	case key.Matches(km, keys.Escape), key.Matches(km, keys.Quit):
		return p, nil, true
	case key.Matches(km, keys.Confirm):
		if p.items == 0 {
			return p, nil, true
		}
		chosen := periodChosenMsg{side: p.side, period: p.periods[p.cursor]}
		return p, func() tea.Msg { return chosen }, true
	}
	p.navigate(km, keys)
	return p, nil, false
}

// View implements Modal.
func (p *periodPicker) View(theme Theme, width, height int) string {
	return p.view(theme, width, height, "j/k move  enter jump  esc close")
}

// collectionPicker lists the collection tree of a pane.
type collectionPicker struct {
	listPicker
	side state.Side
	ids  []string
}

func newCollectionPicker(side state.Side, nodes []catalog.DirectoryNode, current string) *collectionPicker {
	p := &collectionPicker{
		listPicker: listPicker{title: fmt.Sprintf("Collection (%s)", side)},
		side:       side,
	}
	for _, root := range nodes {
		root.Walk(func(node catalog.DirectoryNode, depth int) {
			name := strings.TrimSpace(node.Name)
			if name == "" {
				name = node.ID
			}
			mark := ""
			if node.ID == current {
				mark = "●"
				p.cursor = len(p.ids)
			}
			p.rows = append(p.rows, pickerRow{
				text:  strings.Repeat("  ", depth) + name,
				count: mark,
				item:  len(p.ids),
			})
			p.ids = append(p.ids, node.ID)
		})
	}
	p.items = len(p.ids)
	return p
}

// Update implements Modal.
func (p *collectionPicker) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil, false
	}
	switch {
	case key.Matches(km, keys.Escape), key.Matches(km, keys.Quit):
		return p, nil, true
	case key.Matches(km, keys.Confirm):
		if p.items == 0 {
			return p, nil, true
		}
		chosen := collectionChosenMsg{side: p.side, id: p.ids[p.cursor]}
		return p, func() tea.Msg { return chosen }, true
	}
	p.navigate(km, keys)
	return p, nil, false
}

// View implements Modal.
func (p *collectionPicker) View(theme Theme, width, height int) string {
	return p.view(theme, width, height, "j/k move  enter open  esc close")
}
