package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkanzaki/shopscout/internal/app/search"
	"github.com/rkanzaki/shopscout/internal/domain"
)

func rankedInput() []domain.Listing {
	return []domain.Listing{
		{Name: "Alpha", Price: 7480, Rating: 4.8, URL: "https://a.example", Source: domain.SourceYahoo},
		{Name: "Bravo", Price: 8200, Rating: 4.6, URL: "https://b.example", Source: domain.SourceAmazon},
		{Name: "Charlie", Price: 5980, Rating: 4.5, URL: "https://c.example", Source: domain.SourceRakuten},
	}
}

func TestExplainAll_PerItemFailureIsIsolated(t *testing.T) {
	gen := &fakeGenerator{failFor: map[string]bool{"Bravo": true}}
	exp := NewExplainer(gen, 0)

	results := exp.ExplainAll(context.Background(), rankedInput(), "wireless earbuds")
	require.Len(t, results, 3)

	// Order preserved, two real explanations, one sentinel.
	assert.Equal(t, "Alpha", results[0].Name)
	assert.True(t, results[0].ExplanationOK)
	assert.Equal(t, "because it matches", results[0].Explanation)

	assert.Equal(t, "Bravo", results[1].Name)
	assert.False(t, results[1].ExplanationOK)
	assert.Equal(t, domain.ExplanationUnavailable, results[1].Explanation)

	assert.Equal(t, "Charlie", results[2].Name)
	assert.True(t, results[2].ExplanationOK)

	// The failed item's listing data is untouched.
	assert.Equal(t, 8200, results[1].Price)
	assert.Equal(t, 4.6, results[1].Rating)
	assert.Equal(t, "https://b.example", results[1].URL)
}

func TestExplainAll_Empty(t *testing.T) {
	exp := NewExplainer(&fakeGenerator{}, 0)

	results := exp.ExplainAll(context.Background(), nil, "anything")
	assert.Empty(t, results)
}

type pipelineAdapter struct {
	id       domain.SourceID
	listings []domain.Listing
}

func (p *pipelineAdapter) ID() domain.SourceID { return p.id }

func (p *pipelineAdapter) Search(context.Context, string, int) ([]domain.Listing, error) {
	return p.listings, nil
}

func TestPipeline_Recommend(t *testing.T) {
	input := rankedInput()
	ag := search.NewAggregator([]domain.SourceAdapter{
		&pipelineAdapter{id: domain.SourceYahoo, listings: input[:1]},
		&pipelineAdapter{id: domain.SourceAmazon, listings: input[1:]},
	}, 5, 0)
	pipe := NewPipeline(ag, NewExplainer(&fakeGenerator{}, 0))

	results, err := pipe.Recommend(
		context.Background(),
		[]domain.SourceID{domain.SourceYahoo, domain.SourceAmazon},
		"wireless earbuds",
		2,
	)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Ranked by rating, each annotated.
	assert.Equal(t, "Alpha", results[0].Name)
	assert.Equal(t, "Bravo", results[1].Name)
	for _, r := range results {
		assert.True(t, r.ExplanationOK)
		assert.NotEmpty(t, r.Explanation)
	}
}

func TestPipeline_NoSources(t *testing.T) {
	ag := search.NewAggregator(nil, 5, 0)
	pipe := NewPipeline(ag, NewExplainer(&fakeGenerator{}, 0))

	_, err := pipe.Recommend(context.Background(), nil, "anything", 5)
	assert.ErrorIs(t, err, domain.ErrNoSourcesSelected)
}
