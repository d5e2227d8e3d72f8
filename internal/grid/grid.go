// Package grid implements the windowed grid engine: it owns the scroll offset
// of one pane and computes which rows are visible and which are mounted.
package grid

import "github.com/five82/diptych/internal/geometry"

const (
	DefaultOverscan       = 5
	DefaultResetThreshold = 20
)

// Align selects where ScrollToRow places the target row.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
)

// Window is an inclusive row range. LastRow < FirstRow means empty.
type Window struct {
	FirstRow int
	LastRow  int
}

var emptyWindow = Window{FirstRow: 0, LastRow: -1}

// Empty reports whether the window holds no rows.
func (w Window) Empty() bool {
	return w.LastRow < w.FirstRow
}

// Rows returns the number of rows in the window.
func (w Window) Rows() int {
	if w.Empty() {
		return 0
	}
	return w.LastRow - w.FirstRow + 1
}

// Contains reports whether row lies in the window.
func (w Window) Contains(row int) bool {
	return !w.Empty() && row >= w.FirstRow && row <= w.LastRow
}

// ComputeVisibleRows returns the rows intersecting the viewport.
func ComputeVisibleRows(scrollTop, rowHeight, viewportHeight, rowCount int) Window {
	if rowCount <= 0 || rowHeight <= 0 {
		return emptyWindow
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	first := min(scrollTop/rowHeight, rowCount-1)
	last := first
	if viewportHeight > 0 {
		last = (scrollTop + viewportHeight - 1) / rowHeight
	}
	last = min(max(last, first), rowCount-1)
	return Window{FirstRow: first, LastRow: last}
}

// ScrollController is the only surface allowed to move a pane's scroll
// position. Navigation and the timeline hold one of these instead of the
// engine itself.
type ScrollController interface {
	ScrollToRow(row int, align Align)
	ScrollToTop()
	ScrollToBottom()
	Offset() int
	Columns() int
}

// Config tunes the engine.
type Config struct {
	Overscan       int
	ResetThreshold int
}

// DefaultConfig returns the stock overscan and reset threshold.
func DefaultConfig() Config {
	return Config{Overscan: DefaultOverscan, ResetThreshold: DefaultResetThreshold}
}

// Slot is one mounted cell. Top and Left are relative to the viewport origin,
// so rows in the overscan margin above the viewport have a negative Top.
type Slot struct {
	Index  int
	Row    int
	Column int
	Top    int
	Left   int
}

type requestKind int

const (
	requestRow requestKind = iota
	requestTop
	requestBottom
)

type scrollRequest struct {
	kind  requestKind
	row   int
	align Align
}

// Engine is the windowed grid of one pane.
type Engine struct {
	cfg      Config
	layout   geometry.Result
	viewport int
	columns  int
	count    int
	offset   int
	pending  *scrollRequest
}

// Ensure Engine implements ScrollController at compile time.
var _ ScrollController = (*Engine)(nil)

// New creates an engine. Negative config values fall back to defaults.
func New(cfg Config) *Engine {
	if cfg.Overscan < 0 {
		cfg.Overscan = DefaultOverscan
	}
	if cfg.ResetThreshold < 0 {
		cfg.ResetThreshold = DefaultResetThreshold
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetLayout applies new measurements and replays a scroll request that
// arrived before the layout was known.
func (e *Engine) SetLayout(layout geometry.Result, viewportHeight, columns int) {
	e.layout = layout
	e.viewport = max(viewportHeight, 0)
	e.columns = max(columns, 0)
	if !e.Measured() {
		return
	}
	e.offset = e.clamp(e.offset)
	if req := e.pending; req != nil {
		e.pending = nil
		e.apply(*req)
	}
}

// Measured reports whether a usable layout is known.
func (e *Engine) Measured() bool {
	return e.layout.Measured() && e.layout.RowHeight > 0 && e.viewport > 0 && e.columns > 0
}

// SetItemCount updates the number of items. When the count changes by more
// than the reset threshold the offset returns to the top and true is
// returned; otherwise the offset is preserved.
func (e *Engine) SetItemCount(n int) bool {
	n = max(n, 0)
	delta := n - e.count
	e.count = n
	if delta > e.cfg.ResetThreshold || -delta > e.cfg.ResetThreshold {
		e.offset = 0
		e.pending = nil
		return true
	}
	if e.Measured() {
		e.offset = e.clamp(e.offset)
	}
	return false
}

// ItemCount returns the number of items.
func (e *Engine) ItemCount() int {
	return e.count
}

// Columns returns the column count of the current layout.
func (e *Engine) Columns() int {
	return e.columns
}

// RowCount returns the number of rows for the current items and columns.
func (e *Engine) RowCount() int {
	return geometry.RowCount(e.count, e.columns)
}

// Layout returns the last applied geometry.
func (e *Engine) Layout() geometry.Result {
	return e.layout
}

// Viewport returns the viewport height.
func (e *Engine) Viewport() int {
	return e.viewport
}

// Offset returns the scroll offset.
func (e *Engine) Offset() int {
	return e.offset
}

// ContentHeight returns the full scrollable height.
func (e *Engine) ContentHeight() int {
	return e.RowCount() * e.layout.RowHeight
}

// MaxOffset returns the largest valid offset.
func (e *Engine) MaxOffset() int {
	return max(e.ContentHeight()-e.viewport, 0)
}

// Visible returns the rows intersecting the viewport.
func (e *Engine) Visible() Window {
	if !e.Measured() {
		return emptyWindow
	}
	return ComputeVisibleRows(e.offset, e.layout.RowHeight, e.viewport, e.RowCount())
}

// RenderWindow returns the visible rows widened by the overscan margin.
func (e *Engine) RenderWindow() Window {
	w := e.Visible()
	if w.Empty() {
		return w
	}
	w.FirstRow = max(w.FirstRow-e.cfg.Overscan, 0)
	w.LastRow = min(w.LastRow+e.cfg.Overscan, e.RowCount()-1)
	return w
}

// Mounted lists the slots of the render window in index order.
func (e *Engine) Mounted() []Slot {
	w := e.RenderWindow()
	if w.Empty() {
		return nil
	}
	slots := make([]Slot, 0, w.Rows()*e.columns)
	for row := w.FirstRow; row <= w.LastRow; row++ {
		top := row*e.layout.RowHeight - e.offset
		for col := 0; col < e.columns; col++ {
			idx := row*e.columns + col
			if idx >= e.count {
				break
			}
			slots = append(slots, Slot{
				Index:  idx,
				Row:    row,
				Column: col,
				Top:    top,
				Left:   col * e.layout.ColumnWidth,
			})
		}
	}
	return slots
}

// RowOf returns the row holding item index.
func (e *Engine) RowOf(index int) int {
	if e.columns <= 0 || index < 0 {
		return 0
	}
	return index / e.columns
}

// ScrollToRow scrolls so that row is at the top (or centred). Out-of-range
// rows are clamped. Before the layout is known the request is kept and the
// latest one is applied by SetLayout.
func (e *Engine) ScrollToRow(row int, align Align) {
	e.request(scrollRequest{kind: requestRow, row: row, align: align})
}

// ScrollToTop scrolls to the first row.
func (e *Engine) ScrollToTop() {
	e.request(scrollRequest{kind: requestTop})
}

// ScrollToBottom scrolls to the last row.
func (e *Engine) ScrollToBottom() {
	e.request(scrollRequest{kind: requestBottom})
}

// ScrollBy moves the offset by delta, clamped.
func (e *Engine) ScrollBy(delta int) {
	e.SetOffset(e.offset + delta)
}

// ScrollRows moves by n rows.
func (e *Engine) ScrollRows(n int) {
	e.ScrollBy(n * e.layout.RowHeight)
}

// SetOffset sets the offset directly, clamped.
func (e *Engine) SetOffset(offset int) {
	if !e.Measured() {
		e.offset = max(offset, 0)
		return
	}
	e.pending = nil
	e.offset = e.clamp(offset)
}

func (e *Engine) request(req scrollRequest) {
	if !e.Measured() {
		e.pending = &req
		return
	}
	e.pending = nil
	e.apply(req)
}

func (e *Engine) apply(req scrollRequest) {
	switch req.kind {
	case requestTop:
		e.offset = 0
	case requestBottom:
		e.offset = e.MaxOffset()
	default:
		rows := e.RowCount()
		if rows == 0 {
			e.offset = 0
			return
		}
		row := min(max(req.row, 0), rows-1)
		rh := e.layout.RowHeight
		target := row * rh
		if req.align == AlignCenter {
			target = target + rh/2 - e.viewport/2
		}
		e.offset = e.clamp(target)
	}
}

func (e *Engine) clamp(offset int) int {
	return min(max(offset, 0), e.MaxOffset())
}
