package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkanzaki/shopscout/internal/domain"
)

func TestStore_SaveLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	store, err := NewStore(path)
	require.NoError(t, err)

	turns := []domain.Turn{
		{User: "cheap laptop", Assistant: "what matters most?"},
		{User: "light", Assistant: "any budget?"},
		{User: "under $500", Assistant: "got it"},
	}
	require.NoError(t, store.Save("trip", turns))
	require.NoError(t, store.Save("other", []domain.Turn{{User: "hi", Assistant: "hello"}}))

	got, err := store.Load("trip")
	require.NoError(t, err)
	assert.Equal(t, turns, got)

	names, err := store.ListNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "trip"}, names)

	_, err = store.Load("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("trip", []domain.Turn{{User: "hi", Assistant: "hello"}}))

	// A fresh store over the same file sees the saved session.
	reopened, err := NewStore(path)
	require.NoError(t, err)

	got, err := reopened.Load("trip")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].User)
}

func TestStore_CorruptFileSurfacesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Load("trip")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
