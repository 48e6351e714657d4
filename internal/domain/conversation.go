package domain

// Turn is one user/assistant exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ConversationSession is a named, ordered turn history. Exactly one
// session is active at a time; loading another session replaces the
// turn list, it never merges histories.
type ConversationSession struct {
	Name  string `json:"name"`
	Turns []Turn `json:"turns"`
}

// CloneTurns returns a copy of the session's turns so callers cannot
// mutate the active history behind the machine's back.
func (s *ConversationSession) CloneTurns() []Turn {
	out := make([]Turn, len(s.Turns))
	copy(out, s.Turns)
	return out
}
