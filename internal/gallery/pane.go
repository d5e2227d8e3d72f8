// Package gallery composes the grid engine, period index, visible-date
// tracker and timeline of one browser pane.
package gallery

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/geometry"
	"github.com/five82/diptych/internal/grid"
	"github.com/five82/diptych/internal/logging"
	"github.com/five82/diptych/internal/periods"
	"github.com/five82/diptych/internal/timeline"
	"github.com/five82/diptych/internal/tracker"
)

const (
	MinColumns     = 1
	MaxColumns     = 12
	DefaultColumns = 4
)

// Config describes one pane.
type Config struct {
	Side             string
	Position         catalog.Position
	Columns          int
	ShowDates        bool
	Gap              int
	DateStrip        int
	ScrollbarReserve int
	Aspect           float64
	Grid             grid.Config
	Settle           time.Duration
	BannerHide       time.Duration
	Timeline         timeline.Config
	Formatter        datefmt.Formatter
}

// PeriodState is the navigator state last published.
type PeriodState struct {
	Periods     []periods.Period
	Current     int
	CanPrevious bool
	CanNext     bool
}

// CurrentPeriod returns the current period when there is one.
func (s PeriodState) CurrentPeriod() (periods.Period, bool) {
	if s.Current < 0 || s.Current >= len(s.Periods) {
		return periods.Period{}, false
	}
	return s.Periods[s.Current], true
}

// Cell is one mounted grid cell ready for rendering.
type Cell struct {
	grid.Slot
	ID      string
	Date    time.Time
	HasDate bool
}

// Pane is the controller of one side of the browser. It is not safe for
// concurrent use; the Bubble Tea loop owns it.
type Pane struct {
	cfg       Config
	log       zerolog.Logger
	engine    *grid.Engine
	nav       *periods.Navigator
	tracker   *tracker.Tracker
	banner    *tracker.Banner
	timeline  *timeline.Control
	index     *periods.Index
	entries   []catalog.Entry
	stamps    []time.Time
	hasStamp  []bool
	version   uint64
	loaded    bool
	details   map[string]catalog.DetailedInfo
	requested map[string]bool
	width     int
	height    int
	geom      geometry.Result
	columns   int
	showDates bool
	visible   *time.Time
	state     PeriodState
	pinned    bool
}

// New builds an empty pane.
func New(cfg Config) *Pane {
	if cfg.Columns == 0 {
		cfg.Columns = DefaultColumns
	}
	if cfg.Formatter.Location == nil {
		cfg.Formatter = datefmt.Default()
	}
	p := &Pane{
		cfg:       cfg,
		log:       logging.WithPane("gallery", cfg.Side),
		engine:    grid.New(cfg.Grid),
		banner:    tracker.NewBanner(cfg.Formatter, cfg.BannerHide),
		timeline:  timeline.NewControl(cfg.Timeline),
		index:     periods.Empty(),
		details:   make(map[string]catalog.DetailedInfo),
		requested: make(map[string]bool),
		columns:   clampColumns(cfg.Columns),
		showDates: cfg.ShowDates,
		state:     PeriodState{Current: -1},
	}
	p.nav = periods.NewNavigator(p.engine, p.onPeriods)
	p.tracker = tracker.New(paneSource{p}, p.dateOf, cfg.Settle, p.onVisibleDate)
	return p
}

func clampColumns(n int) int {
	return min(max(n, MinColumns), MaxColumns)
}

// Side names the pane for logs and the UI.
func (p *Pane) Side() string {
	return p.cfg.Side
}

// Position returns the API position this pane browses.
func (p *Pane) Position() catalog.Position {
	return p.cfg.Position
}

// SetList attaches a new list. An identical version is ignored. The index and
// strip are rebuilt before any navigation can use them.
func (p *Pane) SetList(version uint64, entries []catalog.Entry) tea.Cmd {
	if p.loaded && version == p.version {
		return nil
	}
	return p.attach(version, entries, periods.Build(entries, p.cfg.Formatter))
}

// SetParallel attaches parallel id and timestamp arrays. Misaligned arrays
// keep the grid working without a date index.
func (p *Pane) SetParallel(version uint64, ids []string, stamps []catalog.Timestamp) tea.Cmd {
	if p.loaded && version == p.version {
		return nil
	}
	entries, err := catalog.Zip(ids, stamps)
	if err != nil {
		p.log.Warn().Err(err).Msg("date index disabled for this list")
		entries, _ = catalog.Zip(ids, nil)
		return p.attach(version, entries, periods.Empty())
	}
	return p.attach(version, entries, periods.Build(entries, p.cfg.Formatter))
}

func (p *Pane) attach(version uint64, entries []catalog.Entry, index *periods.Index) tea.Cmd {
	p.version = version
	p.loaded = true
	p.entries = entries
	p.index = index
	p.stamps = make([]time.Time, len(entries))
	p.hasStamp = make([]bool, len(entries))
	for i, e := range entries {
		if ts, err := e.Timestamp.Time(); err == nil {
			p.stamps[i] = ts
			p.hasStamp[i] = true
		}
	}

	if p.engine.SetItemCount(len(entries)) {
		p.pinned = false
	}
	p.relayout()
	p.nav.Reset(index)
	p.timeline.SetStrip(timeline.Build(index, p.cfg.Formatter, p.cfg.Timeline.Orientation), len(entries))

	p.log.Debug().
		Uint64("version", version).
		Int("entries", len(entries)).
		Int("periods", index.Len()).
		Int("skipped", index.Skipped()).
		Msg("list attached")
	return p.tracker.Refresh()
}

// Version returns the attached list version.
func (p *Pane) Version() uint64 {
	return p.version
}

// Loaded reports whether any list was attached.
func (p *Pane) Loaded() bool {
	return p.loaded
}

// Len returns the number of entries.
func (p *Pane) Len() int {
	return len(p.entries)
}

// Index returns the period index of the attached list.
func (p *Pane) Index() *periods.Index {
	return p.index
}

// Resize sets the grid area in cells.
func (p *Pane) Resize(width, height int) tea.Cmd {
	if width == p.width && height == p.height {
		return nil
	}
	anchor := p.anchor()
	p.width, p.height = width, height
	p.relayout()
	p.restoreAnchor(anchor)
	return p.tracker.Observe()
}

// SetColumns changes the column count, keeping the first visible item in view.
func (p *Pane) SetColumns(n int) tea.Cmd {
	n = clampColumns(n)
	if n == p.columns {
		return nil
	}
	anchor := p.anchor()
	p.columns = n
	p.relayout()
	p.restoreAnchor(anchor)
	return p.tracker.Observe()
}

// Columns returns the column count.
func (p *Pane) Columns() int {
	return p.columns
}

// SetShowDates toggles the per-cell date strip.
func (p *Pane) SetShowDates(show bool) tea.Cmd {
	if show == p.showDates {
		return nil
	}
	p.showDates = show
	p.relayout()
	return p.tracker.Observe()
}

// ShowDates reports whether cells carry a date strip.
func (p *Pane) ShowDates() bool {
	return p.showDates
}

// SetFormatter swaps the date formatting and rebuilds labels.
func (p *Pane) SetFormatter(f datefmt.Formatter) tea.Cmd {
	p.cfg.Formatter = f
	p.banner.SetFormatter(f)
	if !p.loaded {
		return nil
	}
	return p.attach(p.version, p.entries, periods.Build(p.entries, f))
}

func (p *Pane) relayout() {
	p.geom = geometry.Calculate(geometry.Params{
		ContainerWidth:   p.width,
		ContainerHeight:  p.height,
		Columns:          p.columns,
		Gap:              p.cfg.Gap,
		ItemCount:        len(p.entries),
		ShowDates:        p.showDates,
		DateStrip:        p.cfg.DateStrip,
		ScrollbarReserve: p.cfg.ScrollbarReserve,
		Aspect:           p.cfg.Aspect,
	})
	p.engine.SetLayout(p.geom, p.height, p.columns)
}

func (p *Pane) anchor() int {
	w := p.engine.Visible()
	if w.Empty() {
		return -1
	}
	return w.FirstRow * max(p.engine.Columns(), 1)
}

func (p *Pane) restoreAnchor(index int) {
	if index <= 0 {
		return
	}
	p.engine.ScrollToRow(p.engine.RowOf(index), grid.AlignStart)
}

// Geometry returns the current cell sizes.
func (p *Pane) Geometry() geometry.Result {
	return p.geom
}

// Size returns the grid area.
func (p *Pane) Size() (int, int) {
	return p.width, p.height
}

// Offset returns the scroll offset.
func (p *Pane) Offset() int {
	return p.engine.Offset()
}

// ContentHeight returns the scrollable height.
func (p *Pane) ContentHeight() int {
	return p.engine.ContentHeight()
}

// Window returns the visible rows.
func (p *Pane) Window() grid.Window {
	return p.engine.Visible()
}

// ScrollRows scrolls by n rows.
func (p *Pane) ScrollRows(n int) tea.Cmd {
	return p.userScroll(func() { p.engine.ScrollRows(n) })
}

// ScrollBy scrolls by delta units.
func (p *Pane) ScrollBy(delta int) tea.Cmd {
	return p.userScroll(func() { p.engine.ScrollBy(delta) })
}

// PageDown scrolls one viewport down.
func (p *Pane) PageDown() tea.Cmd {
	return p.ScrollBy(p.page())
}

// PageUp scrolls one viewport up.
func (p *Pane) PageUp() tea.Cmd {
	return p.ScrollBy(-p.page())
}

// HalfPage scrolls half a viewport; dir is +1 or -1.
func (p *Pane) HalfPage(dir int) tea.Cmd {
	return p.ScrollBy(dir * max(p.page()/2, 1))
}

func (p *Pane) page() int {
	rh := max(p.geom.RowHeight, 1)
	rows := max(p.height/rh, 1)
	return rows * rh
}

// ScrollToTop scrolls to the first row.
func (p *Pane) ScrollToTop() tea.Cmd {
	return p.userScroll(p.engine.ScrollToTop)
}

// ScrollToBottom scrolls to the last row.
func (p *Pane) ScrollToBottom() tea.Cmd {
	return p.userScroll(p.engine.ScrollToBottom)
}

// ScrollToRow scrolls to row with the given alignment.
func (p *Pane) ScrollToRow(row int, align grid.Align) tea.Cmd {
	return p.userScroll(func() { p.engine.ScrollToRow(row, align) })
}

func (p *Pane) userScroll(fn func()) tea.Cmd {
	before := p.engine.Offset()
	fn()
	if p.engine.Offset() == before {
		return nil
	}
	p.pinned = false
	p.timeline.ClearCursor()
	return p.tracker.Observe()
}

// JumpToPeriod scrolls to the first entry of period in the current index.
// A month that is no longer listed is ignored.
func (p *Pane) JumpToPeriod(period periods.Period) tea.Cmd {
	return p.navigate(func() bool { return p.nav.JumpTo(period) })
}

// PreviousPeriod moves to the next more recent period.
func (p *Pane) PreviousPeriod() tea.Cmd {
	return p.navigate(p.nav.Previous)
}

// NextPeriod moves to the next older period.
func (p *Pane) NextPeriod() tea.Cmd {
	return p.navigate(p.nav.Next)
}

// JumpToTime scrolls to the row of the dated entry closest to t. Ties go to
// the earlier position in the list.
func (p *Pane) JumpToTime(t time.Time) tea.Cmd {
	entry, ok := p.nearestEntry(t)
	if !ok {
		return nil
	}
	return p.navigate(func() bool { return p.nav.JumpToEntry(entry, p.stamps[entry]) })
}

func (p *Pane) nearestEntry(t time.Time) (int, bool) {
	best, bestDist := -1, time.Duration(0)
	for i, ts := range p.stamps {
		if !p.hasStamp[i] {
			continue
		}
		dist := ts.Sub(t)
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, best >= 0
}

// navigate runs a navigator jump. The chosen period stays current until the
// user scrolls; otherwise the first visible cell, which may belong to the
// previous month on the same row, would pull the pointer back.
func (p *Pane) navigate(jump func() bool) tea.Cmd {
	if !jump() {
		return nil
	}
	p.pinned = true
	return p.tracker.Observe()
}

// Scrub forwards a timeline pointer position.
func (p *Pane) Scrub(pos float64) tea.Cmd {
	return p.timeline.Scrub(pos)
}

// StepTimeline nudges the timeline cursor, starting from the visible date.
func (p *Pane) StepTimeline(delta float64) tea.Cmd {
	from := p.index.MaxTime()
	if p.visible != nil {
		from = *p.visible
	}
	return p.timeline.Step(delta, from)
}

// TimelineCursor returns the last scrubbed position.
func (p *Pane) TimelineCursor() (float64, bool) {
	return p.timeline.Cursor()
}

// Update routes timer messages. The bool reports whether msg belonged to this
// pane.
func (p *Pane) Update(msg tea.Msg) (tea.Cmd, bool) {
	if cmd, ok := p.tracker.Handle(msg); ok {
		return cmd, true
	}
	if p.banner.Handle(msg) {
		return nil, true
	}
	if p.timeline.Owns(msg) {
		target, ok := p.timeline.Handle(msg)
		if !ok {
			return nil, true
		}
		p.log.Debug().Time("target", target).Msg("timeline scrub")
		return p.JumpToTime(target), true
	}
	return nil, false
}

// MissingDetails returns up to limit mounted ids that have no date yet and
// were not requested before. They are marked as requested.
func (p *Pane) MissingDetails(limit int) []string {
	var ids []string
	for _, slot := range p.engine.Mounted() {
		if limit > 0 && len(ids) >= limit {
			break
		}
		if slot.Index >= len(p.entries) || p.hasStamp[slot.Index] {
			continue
		}
		id := p.entries[slot.Index].ID
		if p.requested[id] {
			continue
		}
		if _, ok := p.details[id]; ok {
			continue
		}
		p.requested[id] = true
		ids = append(ids, id)
	}
	return ids
}

// SetDetail stores detailed info fetched for id.
func (p *Pane) SetDetail(id string, info catalog.DetailedInfo) tea.Cmd {
	p.details[id] = info
	delete(p.requested, id)
	return p.tracker.Refresh()
}

// DetailFailed allows id to be requested again.
func (p *Pane) DetailFailed(id string) {
	delete(p.requested, id)
}

// Detail returns stored detailed info.
func (p *Pane) Detail(id string) (catalog.DetailedInfo, bool) {
	info, ok := p.details[id]
	return info, ok
}

// Cells returns the mounted cells.
func (p *Pane) Cells() []Cell {
	slots := p.engine.Mounted()
	cells := make([]Cell, 0, len(slots))
	for _, slot := range slots {
		if slot.Index >= len(p.entries) {
			continue
		}
		c := Cell{Slot: slot, ID: p.entries[slot.Index].ID}
		c.Date, c.HasDate = p.dateOf(tracker.Element{Index: slot.Index, ID: c.ID, Top: slot.Top})
		cells = append(cells, c)
	}
	return cells
}

// VisibleDate returns the date of the first visible cell.
func (p *Pane) VisibleDate() *time.Time {
	if p.visible == nil {
		return nil
	}
	v := *p.visible
	return &v
}

// Periods returns the navigator state.
func (p *Pane) Periods() PeriodState {
	return p.state
}

// Strip returns the timeline strip.
func (p *Pane) Strip() timeline.Strip {
	return p.timeline.Strip()
}

// TimelineVisible reports whether the timeline should be drawn.
func (p *Pane) TimelineVisible() bool {
	return p.timeline.Visible()
}

// Banner returns the banner text, empty when hidden.
func (p *Pane) Banner() string {
	return p.banner.Text()
}

// Scrolling reports whether the tracker has not settled yet.
func (p *Pane) Scrolling() bool {
	return p.tracker.State() == tracker.Scrolling
}

// Formatter returns the date formatting in use.
func (p *Pane) Formatter() datefmt.Formatter {
	return p.cfg.Formatter
}

// Close cancels every timer of the pane.
func (p *Pane) Close() {
	p.tracker.Stop()
	p.banner.Hide()
	p.timeline.Close()
}

func (p *Pane) onPeriods(list []periods.Period, current int, canPrevious, canNext bool) {
	p.state = PeriodState{Periods: list, Current: current, CanPrevious: canPrevious, CanNext: canNext}
}

func (p *Pane) onVisibleDate(date *time.Time) tea.Cmd {
	p.visible = date
	if date != nil && !p.pinned {
		p.nav.Highlight(*date)
	}
	return p.banner.Show(date)
}

func (p *Pane) dateOf(el tracker.Element) (time.Time, bool) {
	if el.Index >= 0 && el.Index < len(p.hasStamp) && p.hasStamp[el.Index] {
		return p.stamps[el.Index], true
	}
	if info, ok := p.details[el.ID]; ok {
		return info.Created()
	}
	return time.Time{}, false
}

type paneSource struct {
	p *Pane
}

func (s paneSource) Elements() []tracker.Element {
	slots := s.p.engine.Mounted()
	out := make([]tracker.Element, 0, len(slots))
	for _, slot := range slots {
		id := ""
		if slot.Index < len(s.p.entries) {
			id = s.p.entries[slot.Index].ID
		}
		out = append(out, tracker.Element{Index: slot.Index, ID: id, Top: slot.Top})
	}
	return out
}

func (s paneSource) Band() tracker.Band {
	return tracker.Band{Top: 0, Bottom: max(s.p.height-1, 0)}
}
