package state

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/five82/diptych/internal/catalog"
)

// Side identifies one pane.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Position maps a side to the API position it browses.
func (s Side) Position() catalog.Position {
	if s == Right {
		return catalog.PositionDestination
	}
	return catalog.PositionSource
}

// Sides lists both panes in display order.
var Sides = [...]Side{Left, Right}

// List is the latest data of one side.
type List struct {
	Entries []catalog.Entry
	// Misaligned is set when the server sent fewer or more timestamps than
	// ids. Entries then carry no timestamps and Stamps holds the raw array.
	Misaligned          bool
	Stamps              []catalog.Timestamp
	Version             uint64 // bumped whenever the content changes
	Fingerprint         uint64
	Loaded              bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (l List) IsOffline() bool {
	return l.ConsecutiveFailures >= 2
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Left  List
	Right List
}

// Side returns the list of s.
func (s Snapshot) Side(side Side) List {
	if side == Right {
		return s.Right
	}
	return s.Left
}

// IsOffline reports whether either side lost the API.
func (s Snapshot) IsOffline() bool {
	return s.Left.IsOffline() || s.Right.IsOffline()
}

// LastError returns the most recent error of either side.
func (s Snapshot) LastError() error {
	if s.Left.LastError != nil {
		return s.Left.LastError
	}
	return s.Right.LastError
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu    sync.RWMutex
	lists [2]List
}

// Update records a poll result for side. When err is non-nil the previous
// data is kept but the error is recorded for visibility. It reports whether
// the content changed.
func (s *Store) Update(side Side, entries []catalog.Entry, err error) bool {
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		l := &s.lists[side]
		l.LastUpdated = time.Now()
		l.LastError = err
		l.ConsecutiveFailures++
		return false
	}
	return s.record(side, entries, nil, false)
}

// UpdateParallel records the two arrays of a /list response. When their
// lengths differ every id is still kept, the list is marked Misaligned and
// the pairing error is returned; the poll itself counts as a success.
func (s *Store) UpdateParallel(side Side, ids []string, stamps []catalog.Timestamp) (bool, error) {
	entries, err := catalog.Zip(ids, stamps)
	if err == nil {
		return s.record(side, entries, nil, false), nil
	}
	entries, _ = catalog.Zip(ids, nil)
	return s.record(side, entries, stamps, true), err
}

func (s *Store) record(side Side, entries []catalog.Entry, stamps []catalog.Timestamp, misaligned bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := &s.lists[side]
	l.LastUpdated = time.Now()
	l.LastError = nil
	l.ConsecutiveFailures = 0

	fp := fingerprint(entries, stamps, misaligned)
	if l.Loaded && fp == l.Fingerprint {
		return false
	}
	l.Entries = cloneEntries(entries)
	l.Stamps = cloneStamps(stamps)
	l.Misaligned = misaligned
	l.Fingerprint = fp
	l.Loaded = true
	l.Version++
	return true
}

// Reset forgets the data of side, for example after switching collections.
func (s *Store) Reset(side Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.lists[side].Version
	s.lists[side] = List{Version: version + 1}
}

// List returns a copy of one side.
func (s *Store) List(side Side) List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneList(s.lists[side])
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Left: cloneList(s.lists[Left]), Right: cloneList(s.lists[Right])}
}

// Fingerprint hashes ids and timestamps in order.
func Fingerprint(entries []catalog.Entry) uint64 {
	return fingerprint(entries, nil, false)
}

func fingerprint(entries []catalog.Entry, stamps []catalog.Timestamp, misaligned bool) uint64 {
	h := fnv.New64a()
	for _, e := range entries {
		_, _ = h.Write([]byte(e.ID))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(e.Timestamp.String()))
		_, _ = h.Write([]byte{1})
	}
	if misaligned {
		_, _ = h.Write([]byte{2})
		for _, ts := range stamps {
			_, _ = h.Write([]byte(ts.String()))
			_, _ = h.Write([]byte{1})
		}
	}
	return h.Sum64()
}

func cloneList(l List) List {
	dup := l
	dup.Entries = cloneEntries(l.Entries)
	dup.Stamps = cloneStamps(l.Stamps)
	if l.LastError != nil {
		dup.LastError = fmt.Errorf("%w", l.LastError)
	}
	return dup
}

func cloneEntries(entries []catalog.Entry) []catalog.Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]catalog.Entry, len(entries))
	copy(dup, entries)
	return dup
}

func cloneStamps(stamps []catalog.Timestamp) []catalog.Timestamp {
	if len(stamps) == 0 {
		return nil
	}
	dup := make([]catalog.Timestamp, len(stamps))
	copy(dup, stamps)
	return dup
}
