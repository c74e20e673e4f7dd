package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memorymanager "github.com/advait-ai/advait/memory_manager"
)

// Session bookkeeping happens in process, so it is testable without a
// database; storage and embedding calls are covered by integration
// environments.
func newBareManager() *postgresMemoryManager {
	return &postgresMemoryManager{
		options:   memorymanager.NewOptions(),
		shortTerm: map[string][]memorymanager.Message{},
	}
}

func TestCreateSessionGeneratesId(t *testing.T) {
	m := newBareManager()

	id, err := m.CreateSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestCreateSessionKeepsGivenId(t *testing.T) {
	m := newBareManager()

	id, err := m.CreateSession(context.Background(), memorymanager.WithSessionId("fixed"))
	require.NoError(t, err)
	assert.Equal(t, "fixed", id)
}

func TestFlushUnknownSession(t *testing.T) {
	m := newBareManager()

	err := m.FlushToLongTerm(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFlushEmptySession(t *testing.T) {
	m := newBareManager()

	id, err := m.CreateSession(context.Background())
	require.NoError(t, err)

	// Nothing buffered means nothing to store; the session is consumed.
	require.NoError(t, m.FlushToLongTerm(context.Background(), id))
	assert.Error(t, m.FlushToLongTerm(context.Background(), id))
}
