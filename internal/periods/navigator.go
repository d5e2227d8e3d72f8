package periods

import (
	"time"

	"github.com/five82/diptych/internal/grid"
)

// ChangeFunc receives the navigator state after every change. current is -1
// when the index is empty.
type ChangeFunc func(periods []Period, current int, canPrevious, canNext bool)

// Navigator moves a grid between the periods of an index. Previous goes
// towards more recent months, Next towards older ones.
type Navigator struct {
	scroll   grid.ScrollController
	index    *Index
	current  int
	onChange ChangeFunc
}

// NewNavigator binds a navigator to the grid it scrolls.
func NewNavigator(scroll grid.ScrollController, onChange ChangeFunc) *Navigator {
	return &Navigator{scroll: scroll, index: Empty(), current: -1, onChange: onChange}
}

// Reset attaches a new index. The current month is kept when it still
// exists, otherwise the most recent period becomes current.
func (n *Navigator) Reset(index *Index) {
	if index == nil {
		index = Empty()
	}
	prev, hadPrev := n.Current()
	n.index = index
	n.current = -1
	if index.Len() > 0 {
		n.current = 0
		if hadPrev {
			if i, ok := index.Find(prev.Year, prev.Month); ok {
				n.current = i
			}
		}
	}
	n.publish()
}

// Index returns the attached index.
func (n *Navigator) Index() *Index {
	return n.index
}

// Current returns the current period.
func (n *Navigator) Current() (Period, bool) {
	return n.index.At(n.current)
}

// CurrentIndex returns the current position, or -1.
func (n *Navigator) CurrentIndex() int {
	return n.current
}

// CanPrevious reports whether a more recent period exists.
func (n *Navigator) CanPrevious() bool {
	return n.current > 0
}

// CanNext reports whether an older period exists.
func (n *Navigator) CanNext() bool {
	return n.current != -1 && n.current < n.index.Len()-1
}

// Previous jumps to the next more recent period. No-op at the boundary.
func (n *Navigator) Previous() bool {
	if !n.CanPrevious() {
		return false
	}
	return n.JumpToIndex(n.current - 1)
}

// Next jumps to the next older period. No-op at the boundary.
func (n *Navigator) Next() bool {
	if !n.CanNext() {
		return false
	}
	return n.JumpToIndex(n.current + 1)
}

// JumpTo scrolls to the first entry of p.
func (n *Navigator) JumpTo(p Period) bool {
	i, ok := n.index.Find(p.Year, p.Month)
	if !ok {
		return false
	}
	return n.JumpToIndex(i)
}

// JumpToIndex scrolls to the first entry of the period at position i.
func (n *Navigator) JumpToIndex(i int) bool {
	p, ok := n.index.At(i)
	if !ok {
		return false
	}
	n.current = i
	if n.scroll != nil {
		row := 0
		if cols := n.scroll.Columns(); cols > 0 {
			row = p.FirstIndex / cols
		}
		n.scroll.ScrollToRow(row, grid.AlignStart)
	}
	n.publish()
	return true
}

// JumpToEntry scrolls to the row holding the entry at position entry and
// marks the period nearest t as current. t is the date of that entry.
func (n *Navigator) JumpToEntry(entry int, t time.Time) bool {
	if entry < 0 {
		return false
	}
	if n.scroll != nil {
		row := 0
		if cols := n.scroll.Columns(); cols > 0 {
			row = entry / cols
		}
		n.scroll.ScrollToRow(row, grid.AlignStart)
	}
	if i, ok := n.index.Nearest(t); ok {
		n.current = i
	}
	n.publish()
	return true
}

// Highlight marks the period containing t as current without scrolling.
func (n *Navigator) Highlight(t time.Time) bool {
	i, ok := n.index.Containing(t)
	if !ok || i == n.current {
		return false
	}
	n.current = i
	n.publish()
	return true
}

func (n *Navigator) publish() {
	if n.onChange == nil {
		return
	}
	n.onChange(n.index.Periods(), n.current, n.CanPrevious(), n.CanNext())
}
