package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/rkanzaki/shopscout/internal/domain"
)

// Store persists named turn histories in PostgreSQL, one row per
// session with the turn list serialized as JSONB.
type Store struct {
	db *sql.DB
}

// NewStore opens a connection, runs the schema migration, and returns a
// ready-to-use Store. The ping is retried a few times so the app can
// come up alongside a freshly started database container.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			name       TEXT PRIMARY KEY,
			turns      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Save(name string, turns []domain.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("postgres: encode turns: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (name, turns, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET turns = $2, updated_at = now()`,
		name, data)
	if err != nil {
		return fmt.Errorf("postgres: save session %q: %w", name, err)
	}
	return nil
}

func (s *Store) Load(name string) ([]domain.Turn, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT turns FROM sessions WHERE name = $1`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load session %q: %w", name, err)
	}

	var turns []domain.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("postgres: decode turns: %w", err)
	}
	return turns, nil
}

func (s *Store) ListNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sessions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sessions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres: scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
