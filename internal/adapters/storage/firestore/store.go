package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// Store persists named turn histories in Firestore, one document per
// session name under the "sessions" collection.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

type turnDoc struct {
	User      string `firestore:"user"`
	Assistant string `firestore:"assistant"`
}

type sessionDoc struct {
	Turns     []turnDoc `firestore:"turns"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (s *Store) Save(name string, turns []domain.Turn) error {
	ctx := context.Background()

	doc := sessionDoc{
		Turns:     make([]turnDoc, 0, len(turns)),
		UpdatedAt: time.Now(),
	}
	for _, t := range turns {
		doc.Turns = append(doc.Turns, turnDoc{User: t.User, Assistant: t.Assistant})
	}

	_, err := s.sessionsCol().Doc(name).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore Save: %w", err)
	}
	return nil
}

func (s *Store) Load(name string) ([]domain.Turn, error) {
	ctx := context.Background()

	snap, err := s.sessionsCol().Doc(name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore Load: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore Load decode: %w", err)
	}

	turns := make([]domain.Turn, 0, len(doc.Turns))
	for _, t := range doc.Turns {
		turns = append(turns, domain.Turn{User: t.User, Assistant: t.Assistant})
	}
	return turns, nil
}

func (s *Store) ListNames() ([]string, error) {
	ctx := context.Background()

	iter := s.sessionsCol().Documents(ctx)
	defer iter.Stop()

	var names []string
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListNames: %w", err)
		}
		names = append(names, snap.Ref.ID)
	}
	return names, nil
}
