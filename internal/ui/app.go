package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/config"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/gallery"
	"github.com/five82/diptych/internal/grid"
	"github.com/five82/diptych/internal/logging"
	"github.com/five82/diptych/internal/periods"
	"github.com/five82/diptych/internal/prefs"
	"github.com/five82/diptych/internal/state"
	"github.com/five82/diptych/internal/timeline"
)

// Collections switches the collection a pane browses.
type Collections interface {
	Query(side state.Side) catalog.ListQuery
	SetCollection(side state.Side, collection string)
	Kick()
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Client      catalog.Fetcher
	Store       *state.Store
	Collections Collections
	Config      *config.Config
	Formatter   datefmt.Formatter
	PollTick    time.Duration
	Prefs       prefs.Prefs
	PrefsPath   string
	PrefChanges <-chan prefs.Prefs
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	client      catalog.Fetcher
	store       *state.Store
	collections Collections
	config      *config.Config
	formatter   datefmt.Formatter
	prefsPath   string
	pollTick    time.Duration
	prefChanges <-chan prefs.Prefs
	log         zerolog.Logger

	// UI state
	keys      keyMap
	theme     Theme
	width     int
	height    int
	ready     bool
	mode      viewMode
	focus     state.Side
	showDates bool

	// Panes
	panes [2]*gallery.Pane

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	notice      string

	// Timeline drag
	dragging bool
	dragSide state.Side

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	formatter := opts.Formatter
	if formatter.Location == nil {
		if f, err := cfg.Formatter(); err == nil {
			formatter = f
		} else {
			formatter = datefmt.Default()
		}
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		collections: opts.Collections,
		config:      cfg,
		formatter:   formatter,
		prefsPath:   opts.PrefsPath,
		pollTick:    pollTick,
		prefChanges: opts.PrefChanges,
		log:         logging.Component("ui"),
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		mode:        parseViewMode(userPrefs.ViewMode),
		showDates:   userPrefs.ShowDates,
	}
	if m.mode == viewRight {
		m.focus = state.Right
	}
	m.panes[state.Left] = gallery.New(m.paneConfig(state.Left, userPrefs.ColumnsLeft))
	m.panes[state.Right] = gallery.New(m.paneConfig(state.Right, userPrefs.ColumnsRight))
	return m
}

func (m Model) paneConfig(side state.Side, columns int) gallery.Config {
	cfg := m.config
	return gallery.Config{
		Side:             side.String(),
		Position:         side.Position(),
		Columns:          columns,
		ShowDates:        m.showDates,
		Gap:              cfg.Grid.Gap,
		DateStrip:        cfg.Grid.DateStrip,
		ScrollbarReserve: cfg.Grid.ScrollbarReserve,
		Aspect:           cellAspect,
		Grid: grid.Config{
			Overscan:       cfg.Grid.OverscanRows,
			ResetThreshold: cfg.Grid.ResetThreshold,
		},
		Settle:     cfg.Tracker.Settle,
		BannerHide: cfg.Tracker.BannerHide,
		Timeline: timeline.Config{
			Debounce:    cfg.Timeline.Debounce,
			MinItems:    cfg.Timeline.MinItems,
			Orientation: cfg.Timeline.Orientation,
		},
		Formatter: m.formatter,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.prefChanges != nil {
		cmds = append(cmds, waitPrefsCmd(m.ctx, m.prefChanges))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, m.resizePanes()

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		return m, m.applySnapshot(state.Snapshot(msg))

	case detailMsg:
		return m, m.handleDetail(msg)

	case treeMsg:
		if msg.err != nil {
			m.notice = "collections unavailable"
			m.log.Warn().Err(msg.err).Str("side", msg.side.String()).Msg("tree fetch failed")
			return m, nil
		}
		m.notice = ""
		m.modal = newCollectionPicker(msg.side, msg.nodes, m.currentCollection(msg.side))
		return m, nil

	case periodChosenMsg:
		return m, m.panes[msg.side].JumpToPeriod(msg.period)

	case collectionChosenMsg:
		if m.collections != nil {
			m.collections.SetCollection(msg.side, msg.id)
		}
		return m, nil

	case prefsMsg:
		cmd := m.applyPrefs(prefs.Prefs(msg))
		return m, tea.Batch(cmd, waitPrefsCmd(m.ctx, m.prefChanges))
	}

	for _, pane := range m.panes {
		if cmd, ok := pane.Update(msg); ok {
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	pane := m.panes[m.focus]
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.mode == viewBoth {
			m.focus = other(m.focus)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.collections != nil {
			m.collections.Kick()
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewBoth):
		return m, m.setMode(viewBoth)
	case key.Matches(msg, m.keys.ViewLeft):
		return m, m.setMode(viewLeft)
	case key.Matches(msg, m.keys.ViewRight):
		return m, m.setMode(viewRight)

	case key.Matches(msg, m.keys.Up):
		cmd = pane.ScrollRows(-1)
	case key.Matches(msg, m.keys.Down):
		cmd = pane.ScrollRows(1)
	case key.Matches(msg, m.keys.Top):
		cmd = pane.ScrollToTop()
	case key.Matches(msg, m.keys.Bottom):
		cmd = pane.ScrollToBottom()
	case key.Matches(msg, m.keys.PageUp):
		cmd = pane.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		cmd = pane.PageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		cmd = pane.HalfPage(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		cmd = pane.HalfPage(1)

	case key.Matches(msg, m.keys.MoreColumns):
		cmd = pane.SetColumns(pane.Columns() + 1)
		m.savePrefs()
	case key.Matches(msg, m.keys.FewerColumns):
		cmd = pane.SetColumns(pane.Columns() - 1)
		m.savePrefs()
	case key.Matches(msg, m.keys.ToggleDates):
		cmd = m.setShowDates(!m.showDates)
		m.savePrefs()

	case key.Matches(msg, m.keys.PrevPeriod):
		cmd = pane.PreviousPeriod()
	case key.Matches(msg, m.keys.NextPeriod):
		cmd = pane.NextPeriod()
	case key.Matches(msg, m.keys.PeriodPicker):
		if st := pane.Periods(); len(st.Periods) > 0 {
			m.modal = newPeriodPicker(m.focus, st, pane.Formatter())
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrubUp):
		if pane.TimelineVisible() {
			cmd = pane.StepTimeline(-scrubStep)
		}
	case key.Matches(msg, m.keys.ScrubDown):
		if pane.TimelineVisible() {
			cmd = pane.StepTimeline(scrubStep)
		}

	case key.Matches(msg, m.keys.Collections):
		if m.client != nil {
			return m, fetchTreeCmd(m.ctx, m.client, m.focus)
		}
		return m, nil

	default:
		return m, nil
	}

	return m, tea.Batch(cmd, m.detailCmds())
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Fetch latest snapshot
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, m.detailCmds())

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// applySnapshot attaches every side whose list version moved.
func (m *Model) applySnapshot(snap state.Snapshot) tea.Cmd {
	m.snapshot = snap
	m.lastUpdated = time.Now()

	var cmds []tea.Cmd
	for _, side := range state.Sides {
		list := snap.Side(side)
		pane := m.panes[side]
		if list.Version == pane.Version() {
			continue
		}
		if list.Misaligned {
			cmds = append(cmds, pane.SetParallel(list.Version, catalog.IDs(list.Entries), list.Stamps))
			continue
		}
		cmds = append(cmds, pane.SetList(list.Version, list.Entries))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(append(cmds, m.detailCmds())...)
}

// detailCmds requests creation dates for mounted items that have none.
func (m Model) detailCmds() tea.Cmd {
	if m.client == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, side := range state.Sides {
		if !m.mode.shows(side) {
			continue
		}
		pane := m.panes[side]
		for _, id := range pane.MissingDetails(DetailBatch) {
			cmds = append(cmds, fetchDetailCmd(m.ctx, m.client, side, pane.Position(), id))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) handleDetail(msg detailMsg) tea.Cmd {
	pane := m.panes[msg.side]
	if msg.err != nil {
		pane.DetailFailed(msg.id)
		m.log.Debug().Err(msg.err).Str("side", msg.side.String()).Str("id", msg.id).Msg("detail fetch failed")
		return nil
	}
	return pane.SetDetail(msg.id, msg.info)
}

// resizePanes hands every visible pane its grid area.
func (m Model) resizePanes() tea.Cmd {
	layouts := computeLayout(m.width, m.height, m.mode)
	var cmds []tea.Cmd
	for _, side := range state.Sides {
		if !m.mode.shows(side) {
			continue
		}
		g := layouts[side].Grid
		cmds = append(cmds, m.panes[side].Resize(g.Width, g.Height))
	}
	return tea.Batch(append(cmds, m.detailCmds())...)
}

func (m *Model) setMode(mode viewMode) tea.Cmd {
	if mode == m.mode {
		return nil
	}
	m.mode = mode
	if !mode.shows(m.focus) {
		m.focus = other(m.focus)
	}
	m.savePrefs()
	return m.resizePanes()
}

func (m *Model) setShowDates(show bool) tea.Cmd {
	m.showDates = show
	var cmds []tea.Cmd
	for _, pane := range m.panes {
		cmds = append(cmds, pane.SetShowDates(show))
	}
	return tea.Batch(cmds...)
}

// applyPrefs adopts preferences edited outside the program.
func (m *Model) applyPrefs(p prefs.Prefs) tea.Cmd {
	m.theme = GetTheme(p.Theme)
	cmds := []tea.Cmd{
		m.panes[state.Left].SetColumns(p.ColumnsLeft),
		m.panes[state.Right].SetColumns(p.ColumnsRight),
	}
	if p.ShowDates != m.showDates {
		cmds = append(cmds, m.setShowDates(p.ShowDates))
	}
	if mode := parseViewMode(p.ViewMode); mode != m.mode {
		m.mode = mode
		if !mode.shows(m.focus) {
			m.focus = other(m.focus)
		}
		cmds = append(cmds, m.resizePanes())
	}
	m.log.Debug().Str("theme", p.Theme).Str("view", p.ViewMode).Msg("preferences reloaded")
	return tea.Batch(cmds...)
}

func (m Model) currentPrefs() prefs.Prefs {
	return prefs.Prefs{
		Theme:        m.theme.Name,
		ColumnsLeft:  m.panes[state.Left].Columns(),
		ColumnsRight: m.panes[state.Right].Columns(),
		ShowDates:    m.showDates,
		ViewMode:     string(m.mode),
	}
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.currentPrefs()); err != nil {
		m.log.Warn().Err(err).Msg("save preferences")
	}
}

func (m Model) currentCollection(side state.Side) string {
	if m.collections == nil {
		return ""
	}
	return m.collections.Query(side).Collection
}

func (m Model) quit() tea.Cmd {
	for _, pane := range m.panes {
		pane.Close()
	}
	return tea.Quit
}

func other(side state.Side) state.Side {
	if side == state.Left {
		return state.Right
	}
	return state.Left
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type detailMsg struct {
	side state.Side
	id   string
	info catalog.DetailedInfo
	err  error
}

type treeMsg struct {
	side  state.Side
	nodes []catalog.DirectoryNode
	err   error
}

// periodChosenMsg names the month by value; the index may have been rebuilt
// while the picker was open.
type periodChosenMsg struct {
	side   state.Side
	period periods.Period
}

type collectionChosenMsg struct {
	side state.Side
	id   string
}

type prefsMsg prefs.Prefs

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchDetailCmd(ctx context.Context, client catalog.Fetcher, side state.Side, position catalog.Position, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, DetailFetchTimeout)
		defer cancel()
		info, err := client.FetchDetailedInfo(ctx, id, position)
		return detailMsg{side: side, id: id, info: info, err: err}
	}
}

func fetchTreeCmd(ctx context.Context, client catalog.Fetcher, side state.Side) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, TreeFetchTimeout)
		defer cancel()
		nodes, err := client.FetchTree(ctx, side.Position())
		return treeMsg{side: side, nodes: nodes, err: err}
	}
}

func waitPrefsCmd(ctx context.Context, changes <-chan prefs.Prefs) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-changes:
			if !ok {
				return nil
			}
			return prefsMsg(p)
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
