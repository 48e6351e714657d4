package domain

// SourceID identifies one e-commerce backend.
type SourceID string

const (
	SourceRakuten SourceID = "rakuten"
	SourceYahoo   SourceID = "yahoo"
	SourceAmazon  SourceID = "amazon"
)

// Label returns the human-facing name of a source, used in prompts
// and result payloads.
func (s SourceID) Label() string {
	switch s {
	case SourceRakuten:
		return "Rakuten"
	case SourceYahoo:
		return "Yahoo Shopping"
	case SourceAmazon:
		return "Amazon"
	default:
		return string(s)
	}
}

// ParseSourceID maps a wire value to a known SourceID.
func ParseSourceID(s string) (SourceID, bool) {
	switch SourceID(s) {
	case SourceRakuten, SourceYahoo, SourceAmazon:
		return SourceID(s), true
	}
	return "", false
}

// State is the phase of the conversation machine for the active session.
type State string

const (
	StateEmpty          State = "empty"            // no turns yet
	StateCollecting     State = "collecting"       // gathering preferences
	StateReadyToExtract State = "ready_to_extract" // enough turns for extraction
	StateExtracted      State = "extracted"        // a search query has been produced
)

// SearchQuery is the single bounded keyword distilled from a conversation.
type SearchQuery string
