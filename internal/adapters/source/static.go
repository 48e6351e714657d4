package source

import (
	"context"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// StaticAdapter serves a fixed listing set and never touches the
// network. It backs sources without a live integration (Amazon) and is
// handy as a test fake.
type StaticAdapter struct {
	id       domain.SourceID
	listings []domain.Listing
}

func NewStaticAdapter(id domain.SourceID, listings []domain.Listing) *StaticAdapter {
	return &StaticAdapter{id: id, listings: listings}
}

// NewAmazonFixture is the canned Amazon source: one placeholder item,
// same shape the live adapters produce.
func NewAmazonFixture() *StaticAdapter {
	return NewStaticAdapter(domain.SourceAmazon, []domain.Listing{
		{
			Name:   "Amazon Wireless Earbuds C",
			Price:  8200,
			Rating: 4.6,
			URL:    "#",
			Image:  "https://via.placeholder.com/150",
			Source: domain.SourceAmazon,
		},
	})
}

func (a *StaticAdapter) ID() domain.SourceID {
	return a.id
}

// Search returns a copy of the fixture, bounded by limit.
func (a *StaticAdapter) Search(_ context.Context, _ string, limit int) ([]domain.Listing, error) {
	n := len(a.listings)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]domain.Listing, n)
	copy(out, a.listings[:n])
	return out, nil
}
