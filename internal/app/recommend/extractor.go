package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// maxQueryLen bounds the extracted keyword so a rambling completion
// never becomes an unbounded search term.
const maxQueryLen = 100

// Extractor condenses a turn history into one search keyword with a
// single completion call. No retry; the caller decides what to do with
// a failure (the conversation machine stays ready so the user retries).
type Extractor struct {
	gen     domain.TextGenerator
	timeout time.Duration
}

func NewExtractor(gen domain.TextGenerator, timeout time.Duration) *Extractor {
	return &Extractor{gen: gen, timeout: timeout}
}

func (e *Extractor) Extract(ctx context.Context, turns []domain.Turn) (domain.SearchQuery, error) {
	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	raw, err := e.gen.Complete(callCtx, buildExtractPrompt(turns))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	query := boundQuery(raw)
	if query == "" {
		return "", fmt.Errorf("%w: empty keyword", domain.ErrExtractionFailed)
	}
	return domain.SearchQuery(query), nil
}

// boundQuery keeps the first non-empty line, trimmed and length-capped.
func boundQuery(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"`))
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxQueryLen {
			line = string(r[:maxQueryLen])
		}
		return line
	}
	return ""
}
