// Package timeline builds the density strip drawn beside a pane and turns a
// pointer position on it into a target date.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/periods"
)

// Orientation says which end of the strip holds the newest date.
type Orientation int

const (
	NewestAtTop Orientation = iota
	OldestAtTop
)

// ParseOrientation reads "newest-top" or "oldest-top". Blank means newest.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest-top", "newest":
		return NewestAtTop, nil
	case "oldest-top", "oldest":
		return OldestAtTop, nil
	default:
		return NewestAtTop, fmt.Errorf("unknown timeline orientation %q", s)
	}
}

func (o Orientation) String() string {
	if o == OldestAtTop {
		return "oldest-top"
	}
	return "newest-top"
}

// Bucket is the density of one month.
type Bucket struct {
	Year      int
	Month     time.Month
	Count     int
	Intensity float64 // Count relative to the busiest month, in (0, 1]
	Position  float64 // 0 is the top of the strip, 1 the bottom
	Label     string
}

// Strip is the density view of one list.
type Strip struct {
	Min         time.Time
	Max         time.Time
	Buckets     []Bucket
	Orientation Orientation
	MinLabel    string
	MaxLabel    string
}

// Build derives the strip from a period index.
func Build(index *periods.Index, f datefmt.Formatter, orient Orientation) Strip {
	s := Strip{Orientation: orient}
	if index.Len() == 0 {
		return s
	}
	s.Min, s.Max = index.MinTime(), index.MaxTime()
	s.MinLabel = f.ShortMonth(f.In(s.Min).Month()) + " " + f.In(s.Min).Format("2006")
	s.MaxLabel = f.ShortMonth(f.In(s.Max).Month()) + " " + f.In(s.Max).Format("2006")

	maxCount := 0
	for _, p := range index.Periods() {
		maxCount = max(maxCount, p.Count)
	}
	for _, p := range index.Periods() {
		start, _ := index.Bounds(p)
		s.Buckets = append(s.Buckets, Bucket{
			Year:      p.Year,
			Month:     p.Month,
			Count:     p.Count,
			Intensity: float64(p.Count) / float64(maxCount),
			Position:  s.PositionOf(start),
			Label:     fmt.Sprintf("%s %d: %d", f.ShortMonth(p.Month), p.Year, p.Count),
		})
	}
	return s
}

// HasRange reports whether the strip spans a non-empty interval.
func (s Strip) HasRange() bool {
	return !s.Min.IsZero() && s.Max.After(s.Min)
}

// TimeAt maps a strip position to a date. p is clamped to [0, 1].
func (s Strip) TimeAt(p float64) time.Time {
	p = clamp01(p)
	frac := p
	if s.Orientation == NewestAtTop {
		frac = 1 - p
	}
	span := s.Max.Sub(s.Min)
	return s.Min.Add(time.Duration(frac * float64(span)))
}

// PositionOf maps a date to a strip position, clamped to [0, 1].
func (s Strip) PositionOf(t time.Time) float64 {
	if !s.HasRange() {
		return 0.5
	}
	frac := clamp01(float64(t.Sub(s.Min)) / float64(s.Max.Sub(s.Min)))
	if s.Orientation == NewestAtTop {
		return 1 - frac
	}
	return frac
}

// Cells samples the strip into n cells from top to bottom. Each cell carries
// the peak intensity of the buckets that fall into it.
func (s Strip) Cells(n int) []float64 {
	if n <= 0 {
		return nil
	}
	cells := make([]float64, n)
	for _, b := range s.Buckets {
		i := CellOf(b.Position, n)
		cells[i] = max(cells[i], b.Intensity)
	}
	return cells
}

// CellOf returns the cell index holding position p.
func CellOf(p float64, n int) int {
	if n <= 0 {
		return 0
	}
	return min(int(clamp01(p)*float64(n)), n-1)
}

// CellPosition returns the centre position of cell i out of n.
func CellPosition(i, n int) float64 {
	if n <= 0 {
		return 0
	}
	return clamp01((float64(i) + 0.5) / float64(n))
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
