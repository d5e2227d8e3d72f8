package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeLists struct {
	mu      sync.Mutex
	entries map[catalog.Position][]catalog.Entry
	err     error
	queries []catalog.ListQuery
}

func (f *fakeLists) FetchList(_ context.Context, q catalog.ListQuery) (catalog.ListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return catalog.ListResponse{}, f.err
	}
	var list catalog.ListResponse
	for _, e := range f.entries[q.Position] {
		list.IDs = append(list.IDs, e.ID)
		list.Dates = append(list.Dates, e.Timestamp)
	}
	return list, nil
}

func TestPoller_RefreshUpdatesBothSides(t *testing.T) {
	store := &state.Store{}
	fake := &fakeLists{entries: map[catalog.Position][]catalog.Entry{
		catalog.PositionSource:      {{ID: "a", Timestamp: catalog.FromMillis(1)}},
		catalog.PositionDestination: {{ID: "b"}, {ID: "c"}},
	}}
	p := NewPoller(store, fake, time.Second,
		catalog.ListQuery{Collection: "photos"},
		catalog.ListQuery{Collection: "archive"})

	if !p.Refresh(context.Background()) {
		t.Fatalf("Refresh reported failure")
	}
	snap := store.Snapshot()
	if len(snap.Left.Entries) != 1 || len(snap.Right.Entries) != 2 {
		t.Fatalf("entries = %d/%d, want 1/2", len(snap.Left.Entries), len(snap.Right.Entries))
	}
	if fake.queries[0].Position != catalog.PositionSource || fake.queries[1].Collection != "archive" {
		t.Fatalf("queries = %+v", fake.queries)
	}
}

func TestPoller_RefreshFailureKeepsData(t *testing.T) {
	store := &state.Store{}
	fake := &fakeLists{entries: map[catalog.Position][]catalog.Entry{
		catalog.PositionSource: {{ID: "a"}},
	}}
	p := NewPoller(store, fake, time.Second, catalog.ListQuery{}, catalog.ListQuery{})
	p.Refresh(context.Background())

	fake.err = errors.New("connection refused")
	if p.Refresh(context.Background()) {
		t.Fatalf("Refresh should report failure")
	}
	left := store.List(state.Left)
	if len(left.Entries) != 1 || left.LastError == nil {
		t.Fatalf("left = %+v, want data kept with error", left)
	}
}

func TestPoller_SetCollectionResetsSide(t *testing.T) {
	store := &state.Store{}
	fake := &fakeLists{entries: map[catalog.Position][]catalog.Entry{
		catalog.PositionDestination: {{ID: "a"}},
	}}
	p := NewPoller(store, fake, time.Second, catalog.ListQuery{}, catalog.ListQuery{Collection: "photos"})
	p.Refresh(context.Background())

	p.SetCollection(state.Right, " videos ")
	if got := p.Query(state.Right).Collection; got != "videos" {
		t.Fatalf("Collection = %q, want videos", got)
	}
	if store.List(state.Right).Loaded {
		t.Fatalf("right side should be reset")
	}
	select {
	case <-p.kick:
	default:
		t.Fatalf("SetCollection should request a refresh")
	}
}

func TestPoller_MisalignedListKeepsGrid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ids":["a","b","c"],"dates":[1672531200,1672617600]}`))
	}))
	t.Cleanup(server.Close)

	client, err := catalog.NewClient(server.URL, catalog.EpochSeconds)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	store := &state.Store{}
	p := NewPoller(store, client, time.Second, catalog.ListQuery{}, catalog.ListQuery{})

	if !p.Refresh(context.Background()) {
		t.Fatalf("misaligned payload should not count as a failed poll")
	}
	left := store.List(state.Left)
	if !left.Loaded || len(left.Entries) != 3 || !left.Misaligned {
		t.Fatalf("left = %+v, want 3 entries kept and marked misaligned", left)
	}
	if store.Snapshot().LastError() != nil {
		t.Fatalf("misaligned payload should not surface an error")
	}
}
