package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/gallery"
	"github.com/five82/diptych/internal/periods"
	"github.com/five82/diptych/internal/state"
)

func samplePeriods() []periods.Period {
	return []periods.Period{
		{Year: 2023, Month: time.February, Count: 1, FirstIndex: 0, Label: "February 2023"},
		{Year: 2023, Month: time.January, Count: 2, FirstIndex: 1, Label: "January 2023"},
		{Year: 2022, Month: time.December, Count: 5, FirstIndex: 3, Label: "December 2022"},
	}
}

func TestPeriodRows_GroupedByYear(t *testing.T) {
	rows := periodRows(samplePeriods(), datefmt.Default())

	var headings []string
	for _, r := range rows {
		if r.item < 0 {
			headings = append(headings, r.text)
		}
	}
	if len(rows) != 5 || strings.Join(headings, ",") != "2023,2022" {
		t.Fatalf("rows = %#v", rows)
	}
	if rows[1].text != "  Feb" || rows[1].count != "1" || rows[4].item != 2 {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestPeriodPicker_CursorClamps(t *testing.T) {
	keys := DefaultKeyMap()
	p := newPeriodPicker(state.Right, gallery.PeriodState{Periods: samplePeriods(), Current: 1}, datefmt.Default())
	if p.cursor != 1 {
		t.Fatalf("cursor = %d, want current period", p.cursor)
	}

	p.Update(runes("G"), keys)
	p.Update(runes("j"), keys)
	if p.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", p.cursor)
	}
	p.Update(runes("g"), keys)
	p.Update(runes("k"), keys)
	if p.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", p.cursor)
	}

	_, cmd, closed := p.Update(tea.KeyMsg{Type: tea.KeyEsc}, keys)
	if !closed || cmd != nil {
		t.Fatalf("esc should close without a command")
	}
}

func TestPeriodPicker_ViewShowsMonths(t *testing.T) {
	p := newPeriodPicker(state.Left, gallery.PeriodState{Periods: samplePeriods()}, datefmt.Default())
	out := p.View(GetTheme("Nightfox"), 80, 30)
	for _, want := range []string{"Jump to month", "2023", "Jan", "2022", "Dec"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View missing %q", want)
		}
	}
}

func TestListPicker_VisibleRowsFollowCursor(t *testing.T) {
	l := listPicker{items: 30}
	for i := 0; i < 30; i++ {
		l.rows = append(l.rows, pickerRow{item: i})
	}
	l.cursor = 25
	rows := l.visibleRows(10)
	if len(rows) != 10 || rows[len(rows)-1].item != 29 {
		t.Fatalf("rows end at %d, want 29", rows[len(rows)-1].item)
	}
	l.cursor = 12
	rows = l.visibleRows(10)
	if rows[0].item != 7 {
		t.Fatalf("rows start at %d, want 7", rows[0].item)
	}
}

func TestCollectionPicker_FlattensTree(t *testing.T) {
	nodes := []catalog.DirectoryNode{
		{ID: "a", Name: "Album", Children: []catalog.DirectoryNode{{ID: "a/b", Name: "Beach"}}},
		{ID: "c", Name: ""},
	}
	p := newCollectionPicker(state.Left, nodes, "a/b")
	if p.items != 3 || p.cursor != 1 {
		t.Fatalf("items = %d cursor = %d, want 3/1", p.items, p.cursor)
	}
	if p.rows[1].text != "  Beach" || p.rows[1].count != "●" || p.rows[2].text != "c" {
		t.Fatalf("rows = %#v", p.rows)
	}
}
