package search

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rkanzaki/shopscout/internal/domain"
	"github.com/rkanzaki/shopscout/internal/observability"
)

// Aggregator fans a query out to the enabled source adapters, merges
// the listings and ranks them by rating.
type Aggregator struct {
	adapters map[domain.SourceID]domain.SourceAdapter
	hitLimit int
	timeout  time.Duration
}

func NewAggregator(adapters []domain.SourceAdapter, hitLimit int, timeout time.Duration) *Aggregator {
	byID := make(map[domain.SourceID]domain.SourceAdapter, len(adapters))
	for _, a := range adapters {
		byID[a.ID()] = a
	}
	if hitLimit <= 0 {
		hitLimit = 5
	}
	return &Aggregator{
		adapters: byID,
		hitLimit: hitLimit,
		timeout:  timeout,
	}
}

// Sources returns the IDs the aggregator can fan out to.
func (ag *Aggregator) Sources() []domain.SourceID {
	out := make([]domain.SourceID, 0, len(ag.adapters))
	for id := range ag.adapters {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Aggregate runs every enabled adapter concurrently and returns the
// combined listings sorted by rating descending, truncated to topN.
//
// One adapter failing (error or empty result) contributes zero listings
// and never aborts the others. Results are joined in enabled-source
// order, not completion order, so a fixed input always ranks the same.
func (ag *Aggregator) Aggregate(ctx context.Context, sources []domain.SourceID, query string, topN int) ([]domain.Listing, error) {
	if len(sources) == 0 {
		return nil, domain.ErrNoSourcesSelected
	}

	log := observability.LoggerFromContext(ctx).With("query", query)

	perSource := make([][]domain.Listing, len(sources))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range sources {
		adapter, ok := ag.adapters[id]
		if !ok {
			log.Warn("unknown source skipped", "source", id)
			continue
		}

		g.Go(func() error {
			callCtx := gctx
			if ag.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, ag.timeout)
				defer cancel()
			}

			listings, err := adapter.Search(callCtx, query, ag.hitLimit)
			if err != nil {
				// Adapters are fail-soft already; absorb anything
				// that still leaks out.
				log.Warn("adapter failed", "source", id, "error", err)
				return nil
			}
			perSource[i] = listings
			return nil
		})
	}

	// Adapters never propagate errors through the group.
	_ = g.Wait()

	var merged []domain.Listing
	for _, listings := range perSource {
		merged = append(merged, listings...)
	}

	// Rating descending; stable so ties keep source order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Rating > merged[j].Rating
	})

	if topN > 0 && len(merged) > topN {
		merged = merged[:topN]
	}

	log.Info("aggregation done", "sources", len(sources), "results", len(merged))
	return merged, nil
}
