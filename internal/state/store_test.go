package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/diptych/internal/catalog"
)

func sample() []catalog.Entry {
	return []catalog.Entry{
		{ID: "a", Timestamp: catalog.FromMillis(1)},
		{ID: "b", Timestamp: catalog.FromMillis(2)},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	if !s.Update(Left, sample(), nil) {
		t.Fatalf("first update should report a change")
	}

	snap := s.Snapshot()
	if len(snap.Left.Entries) != 2 || snap.Left.Entries[0].ID != "a" {
		t.Fatalf("snapshot entries = %#v, want 2 entries", snap.Left.Entries)
	}
	if snap.Left.Version != 1 || !snap.Left.Loaded {
		t.Fatalf("Version = %d Loaded = %v, want 1/true", snap.Left.Version, snap.Left.Loaded)
	}
	if snap.Left.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.Left.LastUpdated, before)
	}
	if snap.Right.Loaded {
		t.Fatalf("right side should be untouched")
	}

	// Returned snapshot should be independent of the stored one.
	snap.Left.Entries[0].ID = "zzz"
	if s.List(Left).Entries[0].ID != "a" {
		t.Fatalf("Snapshot should clone entries")
	}
}

func TestStore_UnchangedContentKeepsVersion(t *testing.T) {
	var s Store

	s.Update(Right, sample(), nil)
	if s.Update(Right, sample(), nil) {
		t.Fatalf("identical content reported as changed")
	}
	if got := s.List(Right).Version; got != 1 {
		t.Fatalf("Version = %d, want 1", got)
	}

	changed := sample()
	changed[1].Timestamp = catalog.FromMillis(3)
	if !s.Update(Right, changed, nil) {
		t.Fatalf("changed timestamp not detected")
	}
	if got := s.List(Right).Version; got != 2 {
		t.Fatalf("Version = %d, want 2", got)
	}
}

func TestStore_EmptyFirstListIsLoaded(t *testing.T) {
	var s Store
	if !s.Update(Left, nil, nil) {
		t.Fatalf("first empty update should report a change")
	}
	if l := s.List(Left); !l.Loaded || l.Version != 1 {
		t.Fatalf("List = %+v, want loaded version 1", l)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(Left, sample(), nil)
	prev := s.List(Left)

	origErr := errors.New("boom")
	if s.Update(Left, nil, origErr) {
		t.Fatalf("error update reported a change")
	}

	l := s.List(Left)
	if l.Version != prev.Version || len(l.Entries) != 2 {
		t.Fatalf("data changed on error: got %+v want %+v", l, prev)
	}
	if l.LastError == nil || l.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", l.LastError)
	}
	if reflect.ValueOf(l.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if s.Snapshot().LastError() == nil {
		t.Fatalf("Snapshot.LastError should surface the side error")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	s.Update(Left, nil, errors.New("fail 1"))
	if s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = true, want false with 1 failure")
	}

	s.Update(Left, nil, errors.New("fail 2"))
	if !s.Snapshot().IsOffline() {
		t.Fatal("IsOffline() = false, want true with 2 failures")
	}

	s.Update(Left, sample(), nil)
	snap := s.Snapshot()
	if snap.Left.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("success should reset failures, got %d", snap.Left.ConsecutiveFailures)
	}
}

func TestStore_ResetBumpsVersion(t *testing.T) {
	var s Store
	s.Update(Left, sample(), nil)
	s.Reset(Left)

	l := s.List(Left)
	if l.Loaded || len(l.Entries) != 0 || l.Version != 2 {
		t.Fatalf("List after reset = %+v", l)
	}
	if !s.Update(Left, sample(), nil) {
		t.Fatalf("same content after reset should count as a change")
	}
}

func TestFingerprint_OrderMatters(t *testing.T) {
	a := sample()
	b := []catalog.Entry{a[1], a[0]}
	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("reordered list should fingerprint differently")
	}
	if Fingerprint(a) != Fingerprint(sample()) {
		t.Fatalf("fingerprint not deterministic")
	}
}

func TestSide_Helpers(t *testing.T) {
	if Left.String() != "left" || Right.String() != "right" {
		t.Fatalf("String mismatch")
	}
	if Right.Position() != catalog.PositionDestination || Left.Position() != catalog.PositionSource {
		t.Fatalf("Position mismatch")
	}
}

func TestStore_UpdateParallelKeepsMisalignedIDs(t *testing.T) {
	var s Store
	s.Update(Left, nil, errors.New("dial tcp: connection refused"))

	changed, err := s.UpdateParallel(Left, []string{"a", "b", "c"}, []catalog.Timestamp{catalog.FromMillis(1), catalog.FromMillis(2)})
	if !errors.Is(err, catalog.ErrMisaligned) {
		t.Fatalf("UpdateParallel error = %v, want ErrMisaligned", err)
	}
	if !changed {
		t.Fatalf("first misaligned payload should report a change")
	}

	l := s.List(Left)
	if len(l.Entries) != 3 || !l.Misaligned || len(l.Stamps) != 2 {
		t.Fatalf("list = %#v, want 3 entries, misaligned, 2 raw stamps", l)
	}
	if !l.Entries[0].Timestamp.IsZero() {
		t.Fatalf("misaligned entries should carry no timestamp")
	}
	if l.LastError != nil || l.ConsecutiveFailures != 0 {
		t.Fatalf("misaligned payload is not a failed poll: err=%v failures=%d", l.LastError, l.ConsecutiveFailures)
	}

	if changed, _ := s.UpdateParallel(Left, []string{"a", "b", "c"}, []catalog.Timestamp{catalog.FromMillis(1), catalog.FromMillis(2)}); changed {
		t.Fatalf("identical misaligned payload should not bump the version")
	}

	changed, err = s.UpdateParallel(Left, []string{"a", "b", "c"}, []catalog.Timestamp{catalog.FromMillis(1), catalog.FromMillis(2), catalog.FromMillis(3)})
	if err != nil || !changed {
		t.Fatalf("aligned payload: changed=%v err=%v", changed, err)
	}
	l = s.List(Left)
	if l.Misaligned || l.Stamps != nil || l.Version != 2 {
		t.Fatalf("list = %#v, want aligned version 2", l)
	}
}
