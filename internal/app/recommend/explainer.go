package recommend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rkanzaki/shopscout/internal/domain"
	"github.com/rkanzaki/shopscout/internal/observability"
)

// Explainer generates one justification per ranked listing. Every call
// is independent: a failed call puts the unavailable sentinel on that
// single item and never touches the others or the listing data itself.
type Explainer struct {
	gen     domain.TextGenerator
	timeout time.Duration
}

func NewExplainer(gen domain.TextGenerator, timeout time.Duration) *Explainer {
	return &Explainer{gen: gen, timeout: timeout}
}

// ExplainAll fans out one completion call per listing and joins the
// results back in listing order, not completion order.
func (e *Explainer) ExplainAll(ctx context.Context, listings []domain.Listing, conditions domain.SearchQuery) []domain.RankedResult {
	log := observability.LoggerFromContext(ctx)

	results := make([]domain.RankedResult, len(listings))
	g, gctx := errgroup.WithContext(ctx)

	for i, listing := range listings {
		results[i] = domain.RankedResult{Listing: listing}

		g.Go(func() error {
			callCtx := gctx
			if e.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, e.timeout)
				defer cancel()
			}

			prompt := buildExplainPrompt(listing.Name, listing.Source.Label(), conditions)
			text, err := e.gen.Complete(callCtx, prompt)
			if err != nil || text == "" {
				log.Warn("explanation failed", "item", listing.Name, "error", err)
				results[i].Explanation = domain.ExplanationUnavailable
				results[i].ExplanationOK = false
				return nil
			}

			results[i].Explanation = text
			results[i].ExplanationOK = true
			return nil
		})
	}

	// Failures are absorbed per item; the join never errors.
	_ = g.Wait()

	return results
}
