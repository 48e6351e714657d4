package recommend

import (
	"context"
	"time"

	"github.com/rkanzaki/shopscout/internal/app/search"
	"github.com/rkanzaki/shopscout/internal/domain"
	"github.com/rkanzaki/shopscout/internal/observability"
)

// Pipeline chains the search stages for one user-triggered run:
// aggregate across the enabled sources, then annotate the ranked subset
// with per-item explanations.
type Pipeline struct {
	aggregator *search.Aggregator
	explainer  *Explainer
}

func NewPipeline(aggregator *search.Aggregator, explainer *Explainer) *Pipeline {
	return &Pipeline{
		aggregator: aggregator,
		explainer:  explainer,
	}
}

// Recommend runs the full search pipeline. The only error it can return
// is ErrNoSourcesSelected; everything below the aggregator boundary
// degrades to empty or sentinel results instead of failing.
func (p *Pipeline) Recommend(
	ctx context.Context,
	sources []domain.SourceID,
	conditions domain.SearchQuery,
	topN int,
) ([]domain.RankedResult, error) {
	log := observability.LoggerFromContext(ctx).With("query", conditions)
	log.Info("recommend pipeline start", "sources", len(sources), "top_n", topN)

	start := time.Now()

	listings, err := p.aggregator.Aggregate(ctx, sources, string(conditions), topN)
	if err != nil {
		return nil, err
	}

	results := p.explainer.ExplainAll(ctx, listings, conditions)

	log.Info("recommend pipeline end",
		"results", len(results),
		"elapsed_ms", time.Since(start).Milliseconds())
	return results, nil
}
