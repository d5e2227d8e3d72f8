// Package datefmt carries the date formatting configuration used by the period
// index, the timeline and the date banner. Nothing here reads the host locale;
// callers build a Formatter from configuration and pass it down explicitly.
package datefmt

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultMonthLayout      = "January 2006"
	DefaultShortMonthLayout = "Jan"
	DefaultBannerLayout     = "02/01/2006"
)

// Formatter renders month labels and banner dates.
type Formatter struct {
	Location         *time.Location
	MonthLayout      string
	ShortMonthLayout string
	BannerLayout     string

	// MonthNames optionally replaces English month names (January first).
	// ShortMonthNames does the same for the short layout.
	MonthNames      []string
	ShortMonthNames []string
}

// Default returns a Formatter using the local time zone and English names.
func Default() Formatter {
	return Formatter{
		Location:         time.Local,
		MonthLayout:      DefaultMonthLayout,
		ShortMonthLayout: DefaultShortMonthLayout,
		BannerLayout:     DefaultBannerLayout,
	}
}

// New validates the configured pieces and fills in defaults.
func New(timezone, monthLayout, bannerLayout string, monthNames []string) (Formatter, error) {
	f := Default()

	switch tz := strings.TrimSpace(timezone); tz {
	case "", "Local", "local":
	case "UTC", "utc":
		f.Location = time.UTC
	default:
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Formatter{}, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		f.Location = loc
	}

	if layout := strings.TrimSpace(monthLayout); layout != "" {
		f.MonthLayout = layout
	}
	if layout := strings.TrimSpace(bannerLayout); layout != "" {
		f.BannerLayout = layout
	}

	if len(monthNames) > 0 {
		if len(monthNames) != 12 {
			return Formatter{}, fmt.Errorf("month_names needs 12 entries, got %d", len(monthNames))
		}
		f.MonthNames = append([]string(nil), monthNames...)
		f.ShortMonthNames = make([]string, 12)
		for i, name := range monthNames {
			runes := []rune(strings.TrimSpace(name))
			if len(runes) > 3 {
				runes = runes[:3]
			}
			f.ShortMonthNames[i] = string(runes)
		}
	}
	return f, nil
}

// In converts t into the formatter's location.
func (f Formatter) In(t time.Time) time.Time {
	if f.Location == nil {
		return t
	}
	return t.In(f.Location)
}

// MonthLabel renders the label for a (year, month) bucket.
func (f Formatter) MonthLabel(year int, month time.Month) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return f.format(time.Date(year, month, 1, 0, 0, 0, 0, loc), f.monthLayout(), f.MonthNames, "January")
}

// ShortMonth renders the abbreviated month name.
func (f Formatter) ShortMonth(month time.Month) string {
	layout := f.ShortMonthLayout
	if layout == "" {
		layout = DefaultShortMonthLayout
	}
	return f.format(time.Date(2000, month, 1, 0, 0, 0, 0, time.UTC), layout, f.ShortMonthNames, "Jan")
}

// Banner renders a full date for the visible-date banner.
func (f Formatter) Banner(t time.Time) string {
	layout := f.BannerLayout
	if layout == "" {
		layout = DefaultBannerLayout
	}
	return f.format(f.In(t), layout, f.MonthNames, "January")
}

func (f Formatter) monthLayout() string {
	if f.MonthLayout == "" {
		return DefaultMonthLayout
	}
	return f.MonthLayout
}

// format applies layout and swaps the English month token for a configured
// name when one is present.
func (f Formatter) format(t time.Time, layout string, names []string, token string) string {
	if len(names) != 12 || !strings.Contains(layout, token) {
		return t.Format(layout)
	}
	const placeholder = "\x00"
	out := t.Format(strings.Replace(layout, token, placeholder, 1))
	return strings.Replace(out, placeholder, names[t.Month()-1], 1)
}
