package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/config"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/prefs"
	"github.com/five82/diptych/internal/state"
)

// monthlyEntries returns perMonth entries for each of months, newest first.
func monthlyEntries(months, perMonth int) []catalog.Entry {
	var out []catalog.Entry
	for mo := 0; mo < months; mo++ {
		for i := 0; i < perMonth; i++ {
			ts := time.Date(2023, time.Month(12-mo), 20-i, 12, 0, 0, 0, time.UTC)
			out = append(out, catalog.Entry{
				ID:        fmt.Sprintf("img-%d-%d.jpg", mo, i),
				Timestamp: catalog.FromTime(ts),
			})
		}
	}
	return out
}

func testModel(t *testing.T) (Model, *state.Store) {
	t.Helper()
	store := &state.Store{}
	store.Update(state.Left, monthlyEntries(4, 10), nil)

	cfg := config.Default()
	f, err := datefmt.New("UTC", "", "", nil)
	if err != nil {
		t.Fatalf("datefmt.New: %v", err)
	}
	m := New(Options{Store: store, Config: &cfg, Formatter: f, Prefs: prefs.Default()})
	t.Cleanup(func() {
		for _, p := range m.panes {
			p.Close()
		}
	})

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(t, m, snapshotMsg(store.Snapshot()))
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SnapshotAttachesLists(t *testing.T) {
	m, _ := testModel(t)

	left := m.panes[state.Left]
	if left.Len() != 40 {
		t.Fatalf("left Len = %d, want 40", left.Len())
	}
	st := left.Periods()
	if len(st.Periods) != 4 || st.Current != 0 {
		t.Fatalf("periods = %d current = %d, want 4/0", len(st.Periods), st.Current)
	}
	if m.panes[state.Right].Loaded() {
		t.Fatalf("right pane should wait for its list")
	}
}

func TestModel_UnchangedSnapshotKeepsVersion(t *testing.T) {
	m, store := testModel(t)
	before := m.panes[state.Left].Version()

	store.Update(state.Left, monthlyEntries(4, 10), nil)
	m = update(t, m, snapshotMsg(store.Snapshot()))

	if got := m.panes[state.Left].Version(); got != before {
		t.Fatalf("Version = %d, want %d", got, before)
	}
}

func TestModel_PeriodKeys(t *testing.T) {
	m, _ := testModel(t)

	m = update(t, m, runes("]"))
	if got := m.panes[state.Left].Periods().Current; got != 1 {
		t.Fatalf("after ] current = %d, want 1", got)
	}
	if m.panes[state.Left].Offset() == 0 {
		t.Fatalf("jumping to an older month should scroll")
	}

	m = update(t, m, runes("["))
	if got := m.panes[state.Left].Periods().Current; got != 0 {
		t.Fatalf("after [ current = %d, want 0", got)
	}
}

func TestModel_ColumnsAndFocus(t *testing.T) {
	m, _ := testModel(t)

	m = update(t, m, runes("+"))
	if got := m.panes[state.Left].Columns(); got != 5 {
		t.Fatalf("Columns = %d, want 5", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != state.Right {
		t.Fatalf("focus = %v, want right", m.focus)
	}
	m = update(t, m, runes("-"))
	if got := m.panes[state.Right].Columns(); got != 3 {
		t.Fatalf("right Columns = %d, want 3", got)
	}
}

func TestModel_ViewModeMovesFocus(t *testing.T) {
	m, _ := testModel(t)

	m = update(t, m, runes("3"))
	if m.mode != viewRight || m.focus != state.Right {
		t.Fatalf("mode = %v focus = %v, want right/right", m.mode, m.focus)
	}
	w, _ := m.panes[state.Right].Size()
	if w != 120-timelineWidth {
		t.Fatalf("right grid width = %d, want %d", w, 120-timelineWidth)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != state.Right {
		t.Fatalf("tab should not leave a single visible pane")
	}
}

func TestModel_PeriodPickerJumps(t *testing.T) {
	m, _ := testModel(t)

	m = update(t, m, runes("o"))
	if m.modal == nil {
		t.Fatalf("picker did not open")
	}
	m = update(t, m, runes("j"))
	m = update(t, m, runes("j"))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.modal != nil {
		t.Fatalf("picker should close on enter")
	}
	if cmd == nil {
		t.Fatalf("enter should emit the chosen period")
	}
	chosen, ok := cmd().(periodChosenMsg)
	if !ok || chosen.period.Month != time.October || chosen.side != state.Left {
		t.Fatalf("chosen = %#v", chosen)
	}

	m = update(t, m, chosen)
	if got := m.panes[state.Left].Periods().Current; got != 2 {
		t.Fatalf("current = %d, want 2", got)
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	m, _ := testModel(t)

	m = update(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("help did not open")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("help should close")
	}
}

func TestModel_ViewRendersPanes(t *testing.T) {
	m, _ := testModel(t)

	out := m.View()
	for _, want := range []string{"diptych", "December 2023", "Loading..."} {
		if !strings.Contains(out, want) {
			t.Fatalf("View missing %q", want)
		}
	}
}

func TestModel_OfflineHeader(t *testing.T) {
	m, store := testModel(t)

	store.Update(state.Right, nil, errors.New("dial tcp: connection refused"))
	store.Update(state.Right, nil, errors.New("dial tcp: connection refused"))
	m = update(t, m, snapshotMsg(store.Snapshot()))

	if !strings.Contains(m.renderHeader(), "OFFLINE") {
		t.Fatalf("header should report the API offline")
	}
}

func TestModel_DetailFallbackDate(t *testing.T) {
	store := &state.Store{}
	store.Update(state.Left, []catalog.Entry{{ID: "a"}, {ID: "b"}}, nil)
	cfg := config.Default()
	m := New(Options{Store: store, Config: &cfg, Prefs: prefs.Default()})
	t.Cleanup(func() { m.panes[state.Left].Close() })
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(t, m, snapshotMsg(store.Snapshot()))

	created := "2022-05-01T10:00:00Z"
	m = update(t, m, detailMsg{side: state.Left, id: "a", info: catalog.DetailedInfo{Name: "beach.jpg", CreatedAt: &created}})

	info, ok := m.panes[state.Left].Detail("a")
	if !ok || info.DisplayName() != "beach.jpg" {
		t.Fatalf("detail not stored: %+v", info)
	}
}

type fakeCollections struct {
	queries [2]catalog.ListQuery
	kicked  int
}

func (f *fakeCollections) Query(side state.Side) catalog.ListQuery { return f.queries[side] }
func (f *fakeCollections) SetCollection(side state.Side, c string) { f.queries[side].Collection = c }
func (f *fakeCollections) Kick()                                   { f.kicked++ }

func TestModel_CollectionPicker(t *testing.T) {
	m, _ := testModel(t)
	fc := &fakeCollections{}
	fc.queries[state.Left].Collection = "photos"
	m.collections = fc

	nodes := []catalog.DirectoryNode{{ID: "photos", Name: "Photos", Children: []catalog.DirectoryNode{{ID: "photos/2023", Name: "2023"}}}}
	m = update(t, m, treeMsg{side: state.Left, nodes: nodes})
	if m.modal == nil {
		t.Fatalf("collection picker did not open")
	}
	m = update(t, m, runes("j"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m = update(t, m, cmd())

	if got := fc.queries[state.Left].Collection; got != "photos/2023" {
		t.Fatalf("collection = %q, want photos/2023", got)
	}

	m = update(t, m, runes("r"))
	if fc.kicked != 1 {
		t.Fatalf("refresh key should kick the poller")
	}
}

func TestModel_PeriodPickerSurvivesRebuiltIndex(t *testing.T) {
	m, store := testModel(t)

	m = update(t, m, runes("o"))
	m = update(t, m, runes("j"))
	m = update(t, m, runes("j"))

	// a newer month arrives while the picker is open
	newer := append([]catalog.Entry{{
		ID:        "new.jpg",
		Timestamp: catalog.FromTime(time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC)),
	}}, monthlyEntries(4, 10)...)
	store.Update(state.Left, newer, nil)
	m = update(t, m, snapshotMsg(store.Snapshot()))
	if m.modal == nil {
		t.Fatalf("picker should stay open across a refresh")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m = update(t, m, cmd())

	st := m.panes[state.Left].Periods()
	period, ok := st.CurrentPeriod()
	if !ok || period.Year != 2023 || period.Month != time.October {
		t.Fatalf("current = %+v, want October 2023", period)
	}
	if st.Current != 3 {
		t.Fatalf("current index = %d, want 3 in the rebuilt index", st.Current)
	}
}

func TestModel_MisalignedListKeepsGrid(t *testing.T) {
	m, store := testModel(t)

	stamps := []catalog.Timestamp{catalog.FromTime(time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC))}
	if _, err := store.UpdateParallel(state.Right, []string{"a.jpg", "b.jpg", "c.jpg"}, stamps); err == nil {
		t.Fatalf("UpdateParallel should report the mismatch")
	}
	m = update(t, m, snapshotMsg(store.Snapshot()))

	right := m.panes[state.Right]
	if !right.Loaded() || right.Len() != 3 {
		t.Fatalf("right pane Len = %d, want all 3 ids", right.Len())
	}
	if len(right.Periods().Periods) != 0 || right.TimelineVisible() {
		t.Fatalf("date navigation should be disabled for a misaligned list")
	}
	if strings.Contains(m.renderHeader(), "ERROR") {
		t.Fatalf("a misaligned list is not a connection error")
	}
}
