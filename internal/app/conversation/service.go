package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rkanzaki/shopscout/internal/domain"
	"github.com/rkanzaki/shopscout/internal/observability"
)

// Service is the conversation state machine. It owns the single active
// session, appends turns, decides when enough preferences have been
// collected for extraction, and talks to the session store.
//
// States: empty → collecting → ready_to_extract → extracted. Extraction
// is only reachable from ready_to_extract onwards; re-triggering in
// extracted recomputes the query from the full (possibly grown) history.
type Service struct {
	dialogue  domain.DialogueModel
	extractor Extractor
	store     domain.SessionStore
	threshold int
	timeout   time.Duration

	mu      sync.Mutex
	session domain.ConversationSession
	state   domain.State
	query   domain.SearchQuery
}

// Extractor turns a turn history into a search query. Satisfied by
// recommend.Extractor; injected so the machine is testable with fakes.
type Extractor interface {
	Extract(ctx context.Context, turns []domain.Turn) (domain.SearchQuery, error)
}

func NewService(dialogue domain.DialogueModel, extractor Extractor, store domain.SessionStore, threshold int, timeout time.Duration) *Service {
	if threshold <= 0 {
		threshold = 3
	}
	return &Service{
		dialogue:  dialogue,
		extractor: extractor,
		store:     store,
		threshold: threshold,
		timeout:   timeout,
		session:   domain.ConversationSession{Name: "default"},
		state:     domain.StateEmpty,
	}
}

// Snapshot is the state the presentation layer renders.
type Snapshot struct {
	Session domain.ConversationSession
	State   domain.State
	Ready   bool
	Query   domain.SearchQuery
}

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Session: domain.ConversationSession{
			Name:  s.session.Name,
			Turns: s.session.CloneTurns(),
		},
		State: s.state,
		Ready: s.state == domain.StateReadyToExtract || s.state == domain.StateExtracted,
		Query: s.query,
	}
}

// SendMessage appends one turn: the utterance plus the assistant reply
// predicted over the full prior history.
func (s *Service) SendMessage(ctx context.Context, text string) (domain.Turn, error) {
	s.mu.Lock()
	history := s.session.CloneTurns()
	name := s.session.Name
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session", name)
	log.Info("user message", "turns", len(history))

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.dialogue.Predict(callCtx, history, text)
	if err != nil {
		log.Error("dialogue prediction failed", "error", err)
		return domain.Turn{}, fmt.Errorf("dialogue prediction: %w", err)
	}

	turn := domain.Turn{User: text, Assistant: reply}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Turns = append(s.session.Turns, turn)
	s.advanceLocked()

	return turn, nil
}

// advanceLocked recomputes collecting/ready from the turn count. It
// never leaves extracted on its own; only loading or resetting does.
func (s *Service) advanceLocked() {
	if s.state == domain.StateExtracted {
		return
	}
	switch n := len(s.session.Turns); {
	case n >= s.threshold:
		s.state = domain.StateReadyToExtract
	case n >= 1:
		s.state = domain.StateCollecting
	default:
		s.state = domain.StateEmpty
	}
}

// Extract produces the search query from the current turn history.
// Returns ErrNotReady before the threshold is reached. On failure the
// machine stays in ready_to_extract and no partial query is kept.
func (s *Service) Extract(ctx context.Context) (domain.SearchQuery, error) {
	s.mu.Lock()
	if s.state != domain.StateReadyToExtract && s.state != domain.StateExtracted {
		s.mu.Unlock()
		return "", domain.ErrNotReady
	}
	turns := s.session.CloneTurns()
	name := s.session.Name
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session", name)

	query, err := s.extractor.Extract(ctx, turns)
	if err != nil {
		log.Error("extraction failed", "error", err)
		s.mu.Lock()
		s.state = domain.StateReadyToExtract
		s.query = ""
		s.mu.Unlock()
		return "", err
	}

	s.mu.Lock()
	s.state = domain.StateExtracted
	s.query = query
	s.mu.Unlock()

	log.Info("conditions extracted", "query", query)
	return query, nil
}

// Query returns the last extracted search query, empty if none.
func (s *Service) Query() domain.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SaveSession persists the active session's turns under name. A store
// failure is surfaced but the in-memory session is untouched.
func (s *Service) SaveSession(ctx context.Context, name string) error {
	s.mu.Lock()
	turns := s.session.CloneTurns()
	s.mu.Unlock()

	if err := s.store.Save(name, turns); err != nil {
		observability.LoggerFromContext(ctx).Error("session save failed", "name", name, "error", err)
		return fmt.Errorf("saving session %q: %w", name, err)
	}

	// Adopt the name only once the turns are actually persisted.
	s.mu.Lock()
	s.session.Name = name
	s.mu.Unlock()
	return nil
}

// LoadSession replaces the active session with the stored one. The
// machine state is re-derived from the stored turn count and any
// previously extracted query is cleared, so a stale search trigger
// never carries over.
func (s *Service) LoadSession(ctx context.Context, name string) (Snapshot, error) {
	turns, err := s.store.Load(name)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("session load failed", "name", name, "error", err)
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.ConversationSession{Name: name, Turns: turns}
	s.query = ""
	switch n := len(turns); {
	case n >= s.threshold:
		s.state = domain.StateReadyToExtract
	case n >= 1:
		s.state = domain.StateCollecting
	default:
		s.state = domain.StateEmpty
	}

	return s.snapshotLocked(), nil
}

// ListSessions returns the stored session names.
func (s *Service) ListSessions() ([]string, error) {
	return s.store.ListNames()
}

// Reset starts a fresh empty session under name, discarding the active
// turn list and any extracted query.
func (s *Service) Reset(name string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = "default"
	}
	s.session = domain.ConversationSession{Name: name}
	s.state = domain.StateEmpty
	s.query = ""

	return s.snapshotLocked()
}
