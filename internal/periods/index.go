// Package periods groups an ordered media list into calendar months and
// navigates a grid between them.
package periods

import (
	"slices"
	"time"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/datefmt"
	"github.com/five82/diptych/internal/logging"
)

// Period is one calendar month of the list.
type Period struct {
	Year       int
	Month      time.Month
	Count      int
	FirstIndex int // position of the first entry of this month in list order
	Label      string
}

// Key orders periods chronologically.
func (p Period) Key() int {
	return p.Year*12 + int(p.Month) - 1
}

// Same reports whether p and o name the same month.
func (p Period) Same(o Period) bool {
	return p.Year == o.Year && p.Month == o.Month
}

// Index is the immutable month index of one list. A changed list means a new
// Build.
type Index struct {
	periods []Period
	total   int
	skipped int
	min     time.Time
	max     time.Time
	loc     *time.Location
}

// Build groups entries by (year, month) in the formatter's location. Entries
// whose timestamp cannot be parsed are skipped.
func Build(entries []catalog.Entry, f datefmt.Formatter) *Index {
	log := logging.Component("periods")
	idx := &Index{loc: f.Location}
	if idx.loc == nil {
		idx.loc = time.UTC
	}

	positions := make(map[int]int)
	for i, entry := range entries {
		ts, err := entry.Timestamp.Time()
		if err != nil {
			idx.skipped++
			log.Debug().Str("id", entry.ID).Int("index", i).Err(err).Msg("skipping entry without usable date")
			continue
		}
		ts = ts.In(idx.loc)
		if idx.total == 0 || ts.Before(idx.min) {
			idx.min = ts
		}
		if idx.total == 0 || ts.After(idx.max) {
			idx.max = ts
		}
		idx.total++

		key := ts.Year()*12 + int(ts.Month()) - 1
		if pos, ok := positions[key]; ok {
			idx.periods[pos].Count++
			continue
		}
		positions[key] = len(idx.periods)
		idx.periods = append(idx.periods, Period{
			Year:       ts.Year(),
			Month:      ts.Month(),
			Count:      1,
			FirstIndex: i,
			Label:      f.MonthLabel(ts.Year(), ts.Month()),
		})
	}

	slices.SortFunc(idx.periods, func(a, b Period) int {
		return b.Key() - a.Key()
	})
	if idx.skipped > 0 {
		log.Debug().Int("skipped", idx.skipped).Int("indexed", idx.total).Msg("period index built with gaps")
	}
	return idx
}

// BuildParallel pairs ids with stamps and builds the index. Misaligned input
// yields an empty index.
func BuildParallel(ids []string, stamps []catalog.Timestamp, f datefmt.Formatter) *Index {
	entries, err := catalog.Zip(ids, stamps)
	if err != nil {
		log := logging.Component("periods")
		log.Warn().Err(err).Msg("date index disabled")
		return Empty()
	}
	return Build(entries, f)
}

// Empty returns an index without periods.
func Empty() *Index {
	return &Index{loc: time.UTC}
}

// Periods returns the periods, most recent first.
func (x *Index) Periods() []Period {
	if x == nil {
		return nil
	}
	return slices.Clone(x.periods)
}

// Len returns the number of periods.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.periods)
}

// At returns the period at position i.
func (x *Index) At(i int) (Period, bool) {
	if x == nil || i < 0 || i >= len(x.periods) {
		return Period{}, false
	}
	return x.periods[i], true
}

// Find returns the position of (year, month).
func (x *Index) Find(year int, month time.Month) (int, bool) {
	for i, p := range x.periodsOrNil() {
		if p.Year == year && p.Month == month {
			return i, true
		}
	}
	return -1, false
}

// Containing returns the position of the period holding t.
func (x *Index) Containing(t time.Time) (int, bool) {
	if x == nil {
		return -1, false
	}
	t = t.In(x.loc)
	return x.Find(t.Year(), t.Month())
}

// Nearest returns the position of the period closest to t. A tie goes to the
// more recent period.
func (x *Index) Nearest(t time.Time) (int, bool) {
	if x.Len() == 0 {
		return -1, false
	}
	if i, ok := x.Containing(t); ok {
		return i, true
	}
	best, bestDist := -1, time.Duration(0)
	for i, p := range x.periods {
		start, end := x.Bounds(p)
		var dist time.Duration
		switch {
		case t.Before(start):
			dist = start.Sub(t)
		case !t.Before(end):
			dist = t.Sub(end)
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, true
}

// Bounds returns the half-open [start, end) interval of p.
func (x *Index) Bounds(p Period) (time.Time, time.Time) {
	loc := time.UTC
	if x != nil && x.loc != nil {
		loc = x.loc
	}
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// MinTime returns the oldest indexed timestamp.
func (x *Index) MinTime() time.Time {
	if x == nil {
		return time.Time{}
	}
	return x.min
}

// MaxTime returns the newest indexed timestamp.
func (x *Index) MaxTime() time.Time {
	if x == nil {
		return time.Time{}
	}
	return x.max
}

// Total returns the number of indexed entries.
func (x *Index) Total() int {
	if x == nil {
		return 0
	}
	return x.total
}

// Skipped returns the number of entries without a usable date.
func (x *Index) Skipped() int {
	if x == nil {
		return 0
	}
	return x.skipped
}

// Location returns the zone periods are computed in.
func (x *Index) Location() *time.Location {
	if x == nil || x.loc == nil {
		return time.UTC
	}
	return x.loc
}

func (x *Index) periodsOrNil() []Period {
	if x == nil {
		return nil
	}
	return x.periods
}
