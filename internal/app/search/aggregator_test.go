package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkanzaki/shopscout/internal/domain"
)

type fakeAdapter struct {
	id       domain.SourceID
	listings []domain.Listing
	err      error
	delay    time.Duration
}

func (f *fakeAdapter) ID() domain.SourceID { return f.id }

func (f *fakeAdapter) Search(ctx context.Context, _ string, limit int) ([]domain.Listing, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if limit >= 0 && limit < len(f.listings) {
		return f.listings[:limit], nil
	}
	return f.listings, nil
}

func listing(name string, rating float64, src domain.SourceID) domain.Listing {
	return domain.Listing{Name: name, Price: 1000, Rating: rating, URL: "#", Source: src}
}

func TestAggregate_RanksByRatingDescending(t *testing.T) {
	a := &fakeAdapter{id: "a", listings: []domain.Listing{listing("X", 4.5, "a")}}
	b := &fakeAdapter{id: "b", listings: []domain.Listing{listing("Y", 4.8, "b")}}

	ag := NewAggregator([]domain.SourceAdapter{a, b}, 5, 0)

	got, err := ag.Aggregate(context.Background(), []domain.SourceID{"a", "b"}, "earbuds", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Y", got[0].Name)
	assert.Equal(t, "X", got[1].Name)
}

func TestAggregate_FailedAdapterIsIsolated(t *testing.T) {
	ok := &fakeAdapter{id: "a", listings: []domain.Listing{listing("X", 4.0, "a")}}
	broken := &fakeAdapter{id: "b", err: errors.New("boom")}

	ag := NewAggregator([]domain.SourceAdapter{ok, broken}, 5, 0)

	got, err := ag.Aggregate(context.Background(), []domain.SourceID{"a", "b"}, "earbuds", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X", got[0].Name)
}

func TestAggregate_TimeoutTreatedAsEmpty(t *testing.T) {
	fast := &fakeAdapter{id: "a", listings: []domain.Listing{listing("X", 4.0, "a")}}
	slow := &fakeAdapter{id: "b", listings: []domain.Listing{listing("Y", 5.0, "b")}, delay: 200 * time.Millisecond}

	ag := NewAggregator([]domain.SourceAdapter{fast, slow}, 5, 10*time.Millisecond)

	got, err := ag.Aggregate(context.Background(), []domain.SourceID{"a", "b"}, "earbuds", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "X", got[0].Name)
}

func TestAggregate_EmptySourcesIsAWarning(t *testing.T) {
	ag := NewAggregator(nil, 5, 0)

	got, err := ag.Aggregate(context.Background(), nil, "earbuds", 5)
	assert.ErrorIs(t, err, domain.ErrNoSourcesSelected)
	assert.Nil(t, got)
}

func TestAggregate_TruncatesToTopN(t *testing.T) {
	a := &fakeAdapter{id: "a", listings: []domain.Listing{
		listing("p1", 4.1, "a"),
		listing("p2", 4.2, "a"),
		listing("p3", 4.3, "a"),
	}}

	ag := NewAggregator([]domain.SourceAdapter{a}, 5, 0)

	got, err := ag.Aggregate(context.Background(), []domain.SourceID{"a"}, "earbuds", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p3", got[0].Name)
	assert.Equal(t, "p2", got[1].Name)
}

func TestAggregate_StableOrderOnTiesAndReruns(t *testing.T) {
	a := &fakeAdapter{id: "a", listings: []domain.Listing{listing("first", 4.0, "a")}}
	b := &fakeAdapter{id: "b", listings: []domain.Listing{listing("second", 4.0, "b")}}

	ag := NewAggregator([]domain.SourceAdapter{a, b}, 5, 0)
	sources := []domain.SourceID{"a", "b"}

	run1, err := ag.Aggregate(context.Background(), sources, "earbuds", 5)
	require.NoError(t, err)
	run2, err := ag.Aggregate(context.Background(), sources, "earbuds", 5)
	require.NoError(t, err)

	// Ties keep enabled-source order, and reruns are identical.
	require.Len(t, run1, 2)
	assert.Equal(t, "first", run1[0].Name)
	assert.Equal(t, "second", run1[1].Name)
	assert.Equal(t, run1, run2)
}

func TestAggregate_BoundsAdapterHits(t *testing.T) {
	var many []domain.Listing
	for i := 0; i < 20; i++ {
		many = append(many, listing("p", 4.0, "a"))
	}
	a := &fakeAdapter{id: "a", listings: many}

	ag := NewAggregator([]domain.SourceAdapter{a}, 5, 0)

	got, err := ag.Aggregate(context.Background(), []domain.SourceID{"a"}, "earbuds", 100)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
