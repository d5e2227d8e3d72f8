package periods

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/grid"
)

type scrollCall struct {
	row   int
	align grid.Align
}

type fakeScroller struct {
	columns int
	calls   []scrollCall
}

func (f *fakeScroller) ScrollToRow(row int, align grid.Align) {
	f.calls = append(f.calls, scrollCall{row: row, align: align})
}
func (f *fakeScroller) ScrollToTop()    {}
func (f *fakeScroller) ScrollToBottom() {}
func (f *fakeScroller) Offset() int     { return 0 }
func (f *fakeScroller) Columns() int    { return f.columns }

type published struct {
	periods     []Period
	current     int
	canPrevious bool
	canNext     bool
}

func threeMonths() *Index {
	return Build([]catalog.Entry{
		{ID: "a", Timestamp: at(2023, time.March, 2)},
		{ID: "b", Timestamp: at(2023, time.March, 1)},
		{ID: "c", Timestamp: at(2023, time.February, 9)},
		{ID: "d", Timestamp: at(2023, time.February, 3)},
		{ID: "e", Timestamp: at(2023, time.January, 30)},
	}, utcFormatter())
}

func TestNavigator_JumpToScrollsToFirstRowOfPeriod(t *testing.T) {
	idx := Build([]catalog.Entry{
		{ID: "a", Timestamp: at(2023, time.January, 10)},
		{ID: "b", Timestamp: at(2023, time.January, 20)},
		{ID: "c", Timestamp: at(2023, time.February, 1)},
	}, utcFormatter())
	scroller := &fakeScroller{columns: 2}
	nav := NewNavigator(scroller, nil)
	nav.Reset(idx)

	ok := nav.JumpTo(Period{Year: 2023, Month: time.February})

	require.True(t, ok)
	assert.Equal(t, []scrollCall{{row: 1, align: grid.AlignStart}}, scroller.calls)
}

func TestNavigator_ResetStartsAtMostRecent(t *testing.T) {
	var last published
	nav := NewNavigator(&fakeScroller{columns: 2}, func(p []Period, current int, canPrev, canNext bool) {
		last = published{periods: p, current: current, canPrevious: canPrev, canNext: canNext}
	})

	nav.Reset(threeMonths())

	assert.Equal(t, 0, last.current)
	assert.Len(t, last.periods, 3)
	assert.False(t, last.canPrevious)
	assert.True(t, last.canNext)
	cur, ok := nav.Current()
	require.True(t, ok)
	assert.Equal(t, time.March, cur.Month)
}

func TestNavigator_PreviousNextBoundaries(t *testing.T) {
	scroller := &fakeScroller{columns: 2}
	nav := NewNavigator(scroller, nil)
	nav.Reset(threeMonths())

	assert.False(t, nav.Previous(), "previous at most recent is a no-op")
	assert.Empty(t, scroller.calls)

	require.True(t, nav.Next())
	require.True(t, nav.Next())
	assert.Equal(t, 2, nav.CurrentIndex())
	assert.False(t, nav.Next(), "next at oldest is a no-op")

	// February starts at index 2 (row 1), January at index 4 (row 2).
	assert.Equal(t, []scrollCall{{1, grid.AlignStart}, {2, grid.AlignStart}}, scroller.calls)

	require.True(t, nav.Previous())
	assert.Equal(t, 1, nav.CurrentIndex())
	assert.True(t, nav.CanPrevious())
	assert.True(t, nav.CanNext())
}

func TestNavigator_HighlightDoesNotScroll(t *testing.T) {
	scroller := &fakeScroller{columns: 3}
	calls := 0
	nav := NewNavigator(scroller, func([]Period, int, bool, bool) { calls++ })
	nav.Reset(threeMonths())
	calls = 0

	assert.True(t, nav.Highlight(time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, nav.CurrentIndex())
	assert.Equal(t, 1, calls)
	assert.Empty(t, scroller.calls)

	assert.False(t, nav.Highlight(time.Date(2023, time.January, 6, 0, 0, 0, 0, time.UTC)), "same period does not republish")
	assert.False(t, nav.Highlight(time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, calls)
}

func TestNavigator_JumpToEntryScrollsToItsRow(t *testing.T) {
	scroller := &fakeScroller{columns: 2}
	var got []published
	nav := NewNavigator(scroller, func(periods []Period, current int, canPrevious, canNext bool) {
		got = append(got, published{periods: periods, current: current, canPrevious: canPrevious, canNext: canNext})
	})
	nav.Reset(threeMonths())

	require.True(t, nav.JumpToEntry(3, time.Date(2023, time.February, 3, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, nav.CurrentIndex())
	assert.Equal(t, scrollCall{row: 1, align: grid.AlignStart}, scroller.calls[len(scroller.calls)-1])
	assert.Equal(t, 1, got[len(got)-1].current)

	assert.False(t, nav.JumpToEntry(-1, time.Time{}))
}

func TestNavigator_ResetKeepsCurrentMonthWhenPresent(t *testing.T) {
	nav := NewNavigator(&fakeScroller{columns: 2}, nil)
	nav.Reset(threeMonths())
	require.True(t, nav.Next())

	nav.Reset(threeMonths())
	assert.Equal(t, 1, nav.CurrentIndex())

	nav.Reset(Build([]catalog.Entry{{ID: "z", Timestamp: at(2020, time.July, 1)}}, utcFormatter()))
	assert.Equal(t, 0, nav.CurrentIndex())

	nav.Reset(nil)
	assert.Equal(t, -1, nav.CurrentIndex())
	assert.False(t, nav.CanNext())
	assert.False(t, nav.Next())
}

func TestNavigator_JumpToUnknownPeriod(t *testing.T) {
	scroller := &fakeScroller{columns: 2}
	nav := NewNavigator(scroller, nil)
	nav.Reset(threeMonths())

	assert.False(t, nav.JumpTo(Period{Year: 1990, Month: time.May}))
	assert.Empty(t, scroller.calls)
}
