package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/five82/diptych/internal/gallery"
	"github.com/five82/diptych/internal/geometry"
	"github.com/five82/diptych/internal/periods"
	"github.com/five82/diptych/internal/state"
	"github.com/five82/diptych/internal/timeline"
)

// densityGlyphs index by densityLevel.
var densityGlyphs = [...]string{" ", "░", "▒", "▓", "█"}

const timelineMarker = "◆"

// renderBody renders the visible panes side by side.
func (m Model) renderBody() string {
	layouts := computeLayout(m.width, m.height, m.mode)
	var blocks []string
	for _, side := range state.Sides {
		if !m.mode.shows(side) {
			continue
		}
		if len(blocks) > 0 {
			blocks = append(blocks, m.renderSeparator(layouts[side].Outer.Height))
		}
		blocks = append(blocks, m.renderPane(side, layouts[side]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (m Model) renderSeparator(height int) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Border)).
		Background(lipgloss.Color(m.theme.Background))
	lines := make([]string, max(height, 0))
	for i := range lines {
		lines[i] = style.Render("│")
	}
	return strings.Join(lines, "\n")
}

// renderPane renders the period bar, grid and timeline of one side.
func (m Model) renderPane(side state.Side, lay paneLayout) string {
	pane := m.panes[side]
	bar := m.renderPeriodBar(side, lay.Bar.Width)

	bg := NewBgStyle(m.theme.Background)
	var body []string
	if msg := m.paneMessage(side); msg != "" {
		body = m.renderMessage(msg, lay.Grid.Width, lay.Grid.Height)
	} else {
		body = m.renderGrid(pane, lay.Grid.Width, lay.Grid.Height)
	}
	strip := m.renderTimeline(side, lay.Grid.Height)
	spacer := bg.Spaces(max(lay.Outer.Width-lay.Grid.Width-1, 0))

	lines := make([]string, 0, lay.Outer.Height)
	if lay.Bar.Height > 0 {
		lines = append(lines, bar)
	}
	for i := 0; i < lay.Grid.Height; i++ {
		lines = append(lines, body[i]+spacer+strip[i])
	}
	return strings.Join(lines, "\n")
}

// paneMessage explains an empty grid, or returns "".
func (m Model) paneMessage(side state.Side) string {
	list := m.snapshot.Side(side)
	pane := m.panes[side]
	switch {
	case !list.Loaded && list.LastError != nil:
		return "Cannot load list: " + classifyConnectionError(list.LastError)
	case !list.Loaded:
		return "Loading..."
	case pane.Len() == 0:
		return "No items"
	case !pane.Geometry().Measured():
		return "Too narrow"
	}
	return ""
}

func (m Model) renderMessage(msg string, width, height int) []string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = bg.Spaces(width)
	}
	if height > 0 && width > 0 {
		text := runewidth.Truncate(msg, width, "…")
		pad := (width - runewidth.StringWidth(text)) / 2
		lines[height/2] = bg.Spaces(pad) + bg.Render(text, styles.MutedText) +
			bg.Spaces(width-pad-runewidth.StringWidth(text))
	}
	return lines
}

// renderPeriodBar renders "‹ March 2023 ›" with item counts and the banner.
func (m Model) renderPeriodBar(side state.Side, width int) string {
	pane := m.panes[side]
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	st := pane.Periods()
	label, count := periodBarLabel(st)

	arrow := func(glyph string, enabled bool) string {
		if enabled {
			return bg.Render(glyph, styles.AccentText.Bold(true))
		}
		return bg.Render(glyph, styles.FaintText)
	}
	labelStyle := styles.Text
	if side == m.focus {
		labelStyle = m.theme.Styles().Selected.Bold(true)
	}

	left := bg.Space() + arrow("‹", st.CanPrevious) + bg.Space() +
		labelStyle.Render(label) +
		bg.Space() + arrow("›", st.CanNext) + bg.Space()
	if count != "" {
		left += bg.Render(count, styles.MutedText)
	}

	var right []string
	if m.dragging && m.dragSide == side {
		if pos, ok := pane.TimelineCursor(); ok {
			right = append(right, bg.Render("→ "+m.scrubLabel(pane, pos), styles.WarningText))
		}
	}
	if banner := pane.Banner(); banner != "" {
		right = append(right, styles.Banner.Render(banner))
	} else if pane.Scrolling() {
		right = append(right, bg.Render("…", styles.FaintText))
	}
	right = append(right, bg.Render(fmt.Sprintf("%d items", pane.Len()), styles.FaintText)+bg.Space())

	rightStr := strings.Join(right, bg.Space())
	gap := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	content := left
	if gap >= 1 {
		content = left + bg.Spaces(gap) + rightStr
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(width).
		MaxWidth(width).
		Render(content)
}

// periodBarLabel returns the current period label and its item count.
func periodBarLabel(st gallery.PeriodState) (string, string) {
	period, ok := st.CurrentPeriod()
	if !ok {
		return "No dates", ""
	}
	return period.Label, fmt.Sprintf("%d/%d", st.Current+1, len(st.Periods))
}

// periodBarRegions returns the columns of the two arrows and the label span
// inside the bar, matching renderPeriodBar.
func periodBarRegions(st gallery.PeriodState) (prev int, labelStart, labelEnd int, next int) {
	label, _ := periodBarLabel(st)
	prev = 1
	labelStart = 3
	labelEnd = labelStart + lipgloss.Width(label)
	next = labelEnd + 1
	return prev, labelStart, labelEnd, next
}

func (m Model) scrubLabel(pane *gallery.Pane, pos float64) string {
	t := pane.Strip().TimeAt(pos)
	if t.IsZero() {
		return ""
	}
	t = pane.Formatter().In(t)
	return pane.Formatter().MonthLabel(t.Year(), t.Month())
}

// renderGrid paints the mounted cells into width x height lines. Rows are
// placed at their offset from the viewport top and clipped.
func (m Model) renderGrid(pane *gallery.Pane, width, height int) []string {
	bg := NewBgStyle(m.theme.Background)
	lines := make([]string, height)
	blank := bg.Spaces(width)
	for i := range lines {
		lines[i] = blank
	}
	geom := pane.Geometry()
	if !geom.Measured() {
		return lines
	}

	current, hasCurrent := pane.Periods().CurrentPeriod()
	cells := pane.Cells()
	for _, row := range groupRows(cells) {
		block := m.renderRow(pane, row, geom, width, current, hasCurrent)
		top := row[0].Top
		for i, line := range block {
			if y := top + i; y >= 0 && y < height {
				lines[y] = line
			}
		}
	}
	return lines
}

// groupRows splits cells into rows ordered by row then column.
func groupRows(cells []gallery.Cell) [][]gallery.Cell {
	byRow := make(map[int][]gallery.Cell)
	var order []int
	for _, c := range cells {
		if _, ok := byRow[c.Row]; !ok {
			order = append(order, c.Row)
		}
		byRow[c.Row] = append(byRow[c.Row], c)
	}
	sort.Ints(order)
	rows := make([][]gallery.Cell, 0, len(order))
	for _, r := range order {
		row := byRow[r]
		sort.Slice(row, func(i, j int) bool { return row[i].Column < row[j].Column })
		rows = append(rows, row)
	}
	return rows
}

func (m Model) renderRow(pane *gallery.Pane, row []gallery.Cell, geom geometry.Result, width int, current periods.Period, hasCurrent bool) []string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	f := pane.Formatter()
	showDates := pane.ShowDates() && geom.ImageHeight < geom.ItemHeight
	labelLine := geom.ImageHeight / 2

	block := make([]string, geom.RowHeight)
	for line := 0; line < geom.RowHeight; line++ {
		if line >= geom.ItemHeight {
			block[line] = bg.Spaces(width)
			continue
		}
		var b strings.Builder
		x := 0
		for _, c := range row {
			if c.Left > x {
				b.WriteString(bg.Spaces(c.Left - x))
				x = c.Left
			}
			style := styles.Cell
			if hasCurrent && c.HasDate {
				if t := f.In(c.Date); t.Year() == current.Year && t.Month() == current.Month {
					style = styles.CellCurrent
				}
			}
			var text string
			switch {
			case showDates && line >= geom.ImageHeight:
				text = dateStripText(c, f.Banner)
				style = style.Foreground(lipgloss.Color(m.theme.Faint))
			case line == labelLine:
				info, ok := pane.Detail(c.ID)
				text = cellLabel(c.ID, info.DisplayName(), ok)
			}
			b.WriteString(style.Render(fitCenter(text, geom.ItemWidth)))
			x += geom.ItemWidth
		}
		if x < width {
			b.WriteString(bg.Spaces(width - x))
		}
		block[line] = b.String()
	}
	return block
}

func dateStripText(c gallery.Cell, format func(time.Time) string) string {
	if !c.HasDate {
		return "—"
	}
	return format(c.Date)
}

// cellLabel prefers the fetched display name over the raw id.
func cellLabel(id, name string, hasDetail bool) string {
	if hasDetail && name != "" {
		return name
	}
	if i := strings.LastIndexAny(id, "/\\"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// fitCenter truncates text to width minus a one cell margin and centers it.
func fitCenter(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" || width <= 2 {
		return strings.Repeat(" ", width)
	}
	text = runewidth.Truncate(text, width-2, "…")
	w := runewidth.StringWidth(text)
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-w-left)
}

// renderTimeline renders the density strip, one glyph per line, with the
// cursor or visible date marked.
func (m Model) renderTimeline(side state.Side, height int) []string {
	pane := m.panes[side]
	bg := NewBgStyle(m.theme.Background)
	lines := make([]string, height)
	if !pane.TimelineVisible() || height <= 0 {
		for i := range lines {
			lines[i] = bg.Space()
		}
		return lines
	}

	styles := m.theme.Styles().WithBackground(m.theme.Background)
	strip := pane.Strip()
	marker := -1
	if pos, ok := pane.TimelineCursor(); ok {
		marker = timeline.CellOf(pos, height)
	} else if vd := pane.VisibleDate(); vd != nil {
		marker = timeline.CellOf(strip.PositionOf(*vd), height)
	}

	for i, intensity := range strip.Cells(height) {
		if i == marker {
			lines[i] = bg.Render(timelineMarker, styles.WarningText.Bold(true))
			continue
		}
		glyph := densityGlyphs[densityLevel(intensity)]
		lines[i] = styles.DensityStyle(intensity).Background(lipgloss.Color(m.theme.Background)).Render(glyph)
	}
	return lines
}
