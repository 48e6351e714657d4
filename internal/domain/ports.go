package domain

import "context"

// SourceAdapter translates a free-text query into one backend's search
// protocol and maps the response into normalized Listings.
//
// Implementations are fail-soft: a non-200 response or a malformed
// payload yields an empty slice and a nil error, so the aggregator
// treats "no results" and "adapter failure" identically. A returned
// error is reserved for programming mistakes (nil context etc.) and is
// still absorbed by the aggregator.
type SourceAdapter interface {
	ID() SourceID
	Search(ctx context.Context, query string, limit int) ([]Listing, error)
}

// DialogueModel produces the assistant half of a turn. It is stateful
// across a conversation only through the replayed history.
type DialogueModel interface {
	Predict(ctx context.Context, history []Turn, utterance string) (string, error)
}

// TextGenerator is a stateless single-shot completion capability, used
// for condition extraction and per-item explanations.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SessionStore persists named turn histories. The backing format is the
// store's concern; the core only needs these three operations.
type SessionStore interface {
	Save(name string, turns []Turn) error
	Load(name string) ([]Turn, error)
	ListNames() ([]string, error)
}
