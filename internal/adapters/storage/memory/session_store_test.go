package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkanzaki/shopscout/internal/domain"
)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()

	turns := []domain.Turn{
		{User: "cheap laptop", Assistant: "what matters most?"},
		{User: "light", Assistant: "any budget?"},
	}

	require.NoError(t, store.Save("trip", turns))
	require.NoError(t, store.Save("alpha", nil))

	got, err := store.Load("trip")
	require.NoError(t, err)
	assert.Equal(t, turns, got)

	// Stored copy is isolated from the caller's slice.
	turns[0].User = "mutated"
	got, err = store.Load("trip")
	require.NoError(t, err)
	assert.Equal(t, "cheap laptop", got[0].User)

	names, err := store.ListNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "trip"}, names)

	_, err = store.Load("missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
