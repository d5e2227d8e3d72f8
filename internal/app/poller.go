package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/diptych/internal/catalog"
	"github.com/five82/diptych/internal/logging"
	"github.com/five82/diptych/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// ListFetcher is the part of the media API the poller needs.
type ListFetcher interface {
	FetchList(ctx context.Context, query catalog.ListQuery) (catalog.ListResponse, error)
}

// Poller refreshes the store with the list of both panes.
type Poller struct {
	store    *state.Store
	client   ListFetcher
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	queries [2]catalog.ListQuery
	kick    chan struct{}
}

// NewPoller builds a poller for the given per-side queries.
func NewPoller(store *state.Store, client ListFetcher, interval time.Duration, left, right catalog.ListQuery) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	left.Position = state.Left.Position()
	right.Position = state.Right.Position()
	return &Poller{
		store:    store,
		client:   client,
		interval: interval,
		log:      logging.Component("poller"),
		queries:  [2]catalog.ListQuery{left, right},
		kick:     make(chan struct{}, 1),
	}
}

// Interval returns the base poll interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Query returns the query used for side.
func (p *Poller) Query(side state.Side) catalog.ListQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries[side]
}

// SetCollection switches the collection of side, drops its stale data and
// asks for an immediate refresh.
func (p *Poller) SetCollection(side state.Side, collection string) {
	collection = strings.TrimSpace(collection)
	p.mu.Lock()
	if p.queries[side].Collection == collection {
		p.mu.Unlock()
		return
	}
	p.queries[side].Collection = collection
	p.mu.Unlock()

	p.store.Reset(side)
	p.log.Info().Str("side", side.String()).Str("collection", collection).Msg("collection changed")
	p.Kick()
}

// Kick requests a refresh without waiting for the next tick.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Start launches a background goroutine that refreshes the store until ctx
// is cancelled. Failing polls back off exponentially. It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		failures := 0
		for {
			if p.Refresh(ctx) {
				failures = 0
			} else {
				failures++
			}

			timer := time.NewTimer(calculateBackoff(failures, p.interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			case <-p.kick:
				timer.Stop()
			}
		}
	}()
}

// Refresh polls both sides once. It reports whether every request succeeded.
func (p *Poller) Refresh(ctx context.Context) bool {
	ok := true
	for _, side := range state.Sides {
		if ctx.Err() != nil {
			return false
		}
		query := p.Query(side)
		list, err := p.client.FetchList(ctx, query)
		if err != nil {
			ok = false
			p.store.Update(side, nil, err)
			p.log.Warn().Err(err).Str("side", side.String()).Msg("list poll failed")
			continue
		}
		changed, err := p.store.UpdateParallel(side, list.IDs, list.Dates)
		if err != nil && changed {
			p.log.Warn().Err(err).Str("side", side.String()).Msg("list kept without dates")
		}
		if changed {
			p.log.Debug().Str("side", side.String()).Int("entries", len(list.IDs)).Msg("list changed")
		}
	}
	return ok
}

// calculateBackoff returns base * 2^failures, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
