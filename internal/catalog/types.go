package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

var (
	// ErrMisaligned reports id and timestamp lists of different lengths.
	ErrMisaligned = errors.New("ids and timestamps are misaligned")
	// ErrNoTimestamp reports an entry without any timestamp.
	ErrNoTimestamp = errors.New("timestamp missing")
)

// Position selects which side of the browser a request is for.
type Position string

const (
	PositionSource      Position = "source"
	PositionDestination Position = "destination"
)

type stampKind uint8

const (
	stampNone stampKind = iota
	stampMillis
	stampText
)

// Timestamp is an epoch-millisecond value or an ISO-8601 string, as delivered
// by the API. The zero value means "no timestamp".
type Timestamp struct {
	kind   stampKind
	millis int64
	text   string
}

// FromMillis wraps epoch milliseconds.
func FromMillis(ms int64) Timestamp {
	return Timestamp{kind: stampMillis, millis: ms}
}

// FromText wraps an ISO-8601 string.
func FromText(s string) Timestamp {
	return Timestamp{kind: stampText, text: s}
}

// FromTime wraps t as epoch milliseconds.
func FromTime(t time.Time) Timestamp {
	return FromMillis(t.UnixMilli())
}

// IsZero reports whether the timestamp is absent.
func (t Timestamp) IsZero() bool {
	return t.kind == stampNone
}

// String returns the raw representation.
func (t Timestamp) String() string {
	switch t.kind {
	case stampMillis:
		return strconv.FormatInt(t.millis, 10)
	case stampText:
		return t.text
	default:
		return ""
	}
}

var textLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time parses the timestamp.
func (t Timestamp) Time() (time.Time, error) {
	switch t.kind {
	case stampMillis:
		return time.UnixMilli(t.millis), nil
	case stampText:
		value := strings.TrimSpace(t.text)
		if value == "" {
			return time.Time{}, ErrNoTimestamp
		}
		for _, layout := range textLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognised format", value)
	default:
		return time.Time{}, ErrNoTimestamp
	}
}

// scaled converts a numeric timestamp expressed in seconds to milliseconds.
func (t Timestamp) scaled(unit EpochUnit) Timestamp {
	if t.kind == stampMillis && unit == EpochSeconds {
		return FromMillis(t.millis * 1000)
	}
	return t
}

// UnmarshalJSON accepts numbers, numeric strings, date strings and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode timestamp: %w", err)
		}
		if ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			*t = FromMillis(ms)
			return nil
		}
		*t = FromText(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("decode timestamp %s: %w", trimmed, err)
	}
	*t = FromMillis(int64(f))
	return nil
}

// MarshalJSON writes numbers for epoch values and strings otherwise.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case stampMillis:
		return []byte(strconv.FormatInt(t.millis, 10)), nil
	case stampText:
		return sonic.Marshal(t.text)
	default:
		return []byte("null"), nil
	}
}

// Entry is one media item of an ordered list.
type Entry struct {
	ID        string
	Timestamp Timestamp
}

// Zip pairs parallel id and timestamp lists. A nil or empty stamps slice is
// accepted and yields entries without timestamps; any other length mismatch
// is ErrMisaligned.
func Zip(ids []string, stamps []Timestamp) ([]Entry, error) {
	if len(stamps) != 0 && len(stamps) != len(ids) {
		return nil, fmt.Errorf("%w: %d ids, %d timestamps", ErrMisaligned, len(ids), len(stamps))
	}
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i].ID = id
		if len(stamps) > 0 {
			entries[i].Timestamp = stamps[i]
		}
	}
	return entries, nil
}

// IDs extracts the id list of entries.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// ListResponse mirrors /list: ids with their parallel creation dates.
type ListResponse struct {
	IDs   []string    `json:"ids"`
	Dates []Timestamp `json:"dates"`
}

// Entries pairs the two arrays. See Zip.
func (r ListResponse) Entries() ([]Entry, error) {
	return Zip(r.IDs, r.Dates)
}

// DetailedInfo mirrors /info.
type DetailedInfo struct {
	Alt             string  `json:"alt"`
	CreatedAt       *string `json:"createdAt"`
	Name            string  `json:"name,omitempty"`
	Path            string  `json:"path,omitempty"`
	Size            string  `json:"size,omitempty"`
	CameraModel     string  `json:"cameraModel,omitempty"`
	Hash            string  `json:"hash,omitempty"`
	DuplicatesCount int     `json:"duplicatesCount,omitempty"`
	Dimensions      string  `json:"dimensions,omitempty"`
	ISO             string  `json:"iso,omitempty"`
	FocalLength     string  `json:"focalLength,omitempty"`
	ExposureTime    string  `json:"exposureTime,omitempty"`
	Aperture        string  `json:"aperture,omitempty"`
}

// Created returns the parsed creation time when present.
func (d DetailedInfo) Created() (time.Time, bool) {
	if d.CreatedAt == nil {
		return time.Time{}, false
	}
	t, err := FromText(*d.CreatedAt).Time()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayName prefers the file name, then the alt text.
func (d DetailedInfo) DisplayName() string {
	if name := strings.TrimSpace(d.Name); name != "" {
		return name
	}
	return strings.TrimSpace(d.Alt)
}

// DirectoryNode mirrors one node of /tree.
type DirectoryNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Children []DirectoryNode `json:"children,omitempty"`
}

// Walk visits n and its descendants depth-first.
func (n DirectoryNode) Walk(fn func(node DirectoryNode, depth int)) {
	n.walk(fn, 0)
}

func (n DirectoryNode) walk(fn func(DirectoryNode, int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
