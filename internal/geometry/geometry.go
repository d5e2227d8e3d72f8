// Package geometry sizes the cells of the media grid.
//
// Calculate is pure and cheap; the UI calls it on every resize. A zero
// ItemWidth in the result means the container has not been measured yet (or
// is too small to hold a single cell) and the grid should skip rendering.
package geometry

// Params describes the container and grid configuration.
type Params struct {
	ContainerWidth   int
	ContainerHeight  int
	Columns          int
	Gap              int
	ItemCount        int
	ShowDates        bool
	DateStrip        int     // height reserved for the date strip when ShowDates is set
	ScrollbarReserve int     // width kept free for the scrollbar
	Aspect           float64 // height/width ratio of one unit; zero means 1
}

// Result holds the derived cell and row sizes.
type Result struct {
	ItemWidth        int
	ItemHeight       int
	ImageHeight      int // ItemHeight minus the date strip when dates are shown
	RowCount         int
	ColumnWidth      int
	RowHeight        int
	ScrollbarReserve int
}

// Measured reports whether the result describes a renderable grid.
func (r Result) Measured() bool {
	return r.ItemWidth > 0 && r.RowHeight > 0
}

// Calculate derives the grid geometry for p.
func Calculate(p Params) Result {
	if p.ContainerWidth <= 0 || p.Columns <= 0 {
		return Result{}
	}
	gap := max(p.Gap, 0)
	reserve := max(p.ScrollbarReserve, 0)

	usable := p.ContainerWidth - reserve - gap*(p.Columns-1)
	if usable < p.Columns {
		return Result{}
	}
	itemWidth := usable / p.Columns

	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	itemHeight := max(int(float64(itemWidth)*aspect), 1)

	imageHeight := itemHeight
	if p.ShowDates {
		imageHeight = max(itemHeight-max(p.DateStrip, 0), 0)
	}

	return Result{
		ItemWidth:        itemWidth,
		ItemHeight:       itemHeight,
		ImageHeight:      imageHeight,
		RowCount:         RowCount(p.ItemCount, p.Columns),
		ColumnWidth:      itemWidth + gap,
		RowHeight:        itemHeight + gap,
		ScrollbarReserve: reserve,
	}
}

// RowCount returns ceil(items / columns), or zero for degenerate input.
func RowCount(items, columns int) int {
	if items <= 0 || columns <= 0 {
		return 0
	}
	return (items + columns - 1) / columns
}
