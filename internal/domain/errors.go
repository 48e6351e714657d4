package domain

import "errors"

var (
	// ErrNoSourcesSelected is a user-facing warning: aggregation was
	// requested with an empty source set and was not attempted.
	ErrNoSourcesSelected = errors.New("no sources selected")

	// ErrNotReady means extraction was triggered before the
	// conversation accumulated enough turns.
	ErrNotReady = errors.New("conversation not ready for extraction")

	// ErrExtractionFailed wraps a completion-capability failure during
	// condition extraction. The conversation stays ready so the user
	// can retry.
	ErrExtractionFailed = errors.New("condition extraction failed")

	// ErrSessionNotFound is returned by session stores for unknown names.
	ErrSessionNotFound = errors.New("session not found")
)

// ExplanationUnavailable is the sentinel attached to a RankedResult
// whose explanation call failed. Other items are unaffected.
const ExplanationUnavailable = "explanation unavailable"
