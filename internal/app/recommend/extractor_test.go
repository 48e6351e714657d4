package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkanzaki/shopscout/internal/domain"
)

type fakeGenerator struct {
	reply string
	err   error
	// failFor marks item names whose explanation calls should fail.
	failFor map[string]bool
}

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for name := range f.failFor {
		if strings.Contains(prompt, name) {
			return "", errors.New("completion failed")
		}
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "because it matches", nil
}

func turns() []domain.Turn {
	return []domain.Turn{
		{User: "cheap laptop", Assistant: "what matters most?"},
		{User: "light", Assistant: "any budget?"},
		{User: "under $500", Assistant: "got it"},
	}
}

func TestExtract_Deterministic(t *testing.T) {
	ext := NewExtractor(&fakeGenerator{reply: "lightweight laptop under 500"}, 0)

	q1, err := ext.Extract(context.Background(), turns())
	require.NoError(t, err)
	q2, err := ext.Extract(context.Background(), turns())
	require.NoError(t, err)

	assert.Equal(t, domain.SearchQuery("lightweight laptop under 500"), q1)
	assert.Equal(t, q1, q2)
}

func TestExtract_FailureWrapsTaxonomy(t *testing.T) {
	ext := NewExtractor(&fakeGenerator{err: errors.New("rate limited")}, 0)

	_, err := ext.Extract(context.Background(), turns())
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

type hangingGenerator struct{}

func (hangingGenerator) Complete(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestExtract_TimesOutSlowGenerator(t *testing.T) {
	ext := NewExtractor(hangingGenerator{}, 10*time.Millisecond)

	_, err := ext.Extract(context.Background(), turns())
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_BoundsTheKeyword(t *testing.T) {
	t.Run("first line only, quotes stripped", func(t *testing.T) {
		ext := NewExtractor(&fakeGenerator{reply: "\n  \"wireless earbuds\"  \nsome rambling second line"}, 0)

		q, err := ext.Extract(context.Background(), turns())
		require.NoError(t, err)
		assert.Equal(t, domain.SearchQuery("wireless earbuds"), q)
	})

	t.Run("length capped", func(t *testing.T) {
		ext := NewExtractor(&fakeGenerator{reply: strings.Repeat("x", 500)}, 0)

		q, err := ext.Extract(context.Background(), turns())
		require.NoError(t, err)
		assert.Len(t, string(q), maxQueryLen)
	})

	t.Run("empty completion is a failure", func(t *testing.T) {
		ext := NewExtractor(&fakeGenerator{reply: "\n\n"}, 0)

		_, err := ext.Extract(context.Background(), turns())
		assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	})
}
