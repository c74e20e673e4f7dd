package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memorymanager "github.com/advait-ai/advait/memory_manager"
	"github.com/advait-ai/advait/memory_manager/memory"
)

func text(s string) []memorymanager.Part {
	return []memorymanager.Part{{Type: "text", Text: s}}
}

func TestCreateSession(t *testing.T) {
	m := memory.NewMemoryManager()
	defer m.Close()

	ctx := context.Background()

	id, err := m.CreateSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	pinned, err := m.CreateSession(ctx, memorymanager.WithSessionId("fixed"))
	require.NoError(t, err)
	assert.Equal(t, "fixed", pinned)
}

func TestShortTermWindow(t *testing.T) {
	m := memory.NewMemoryManager(memorymanager.WithWindow(3))
	defer m.Close()

	ctx := context.Background()
	id, err := m.CreateSession(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.AddShortTerm(ctx, id, "user", text(fmt.Sprintf("message %d", i))))
	}

	msgs, err := m.ListShortTerm(ctx, id)
	require.NoError(t, err)

	require.Len(t, msgs, 3)
	assert.Equal(t, "message 2", msgs[0].Text())
	assert.Equal(t, "message 4", msgs[2].Text())
}

func TestListShortTermLimit(t *testing.T) {
	m := memory.NewMemoryManager()
	defer m.Close()

	ctx := context.Background()
	id, _ := m.CreateSession(ctx)

	for i := 0; i < 4; i++ {
		require.NoError(t, m.AddShortTerm(ctx, id, "user", text(fmt.Sprintf("message %d", i))))
	}

	msgs, err := m.ListShortTerm(ctx, id, memorymanager.WithShortTermLimit(2))
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "message 3", msgs[1].Text())
}

func TestBlankMessagesAreDropped(t *testing.T) {
	m := memory.NewMemoryManager()
	defer m.Close()

	ctx := context.Background()
	id, _ := m.CreateSession(ctx)

	require.NoError(t, m.AddShortTerm(ctx, id, "user", text("   ")))

	msgs, err := m.ListShortTerm(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestFlushAndSearch(t *testing.T) {
	m := memory.NewMemoryManager()
	defer m.Close()

	ctx := context.Background()
	id, _ := m.CreateSession(ctx)

	require.NoError(t, m.AddShortTerm(ctx, id, "user", text("What is the PE ratio of Apple stock?")))
	require.NoError(t, m.AddShortTerm(ctx, id, "assistant", text("Apple trades at roughly 31 times earnings.")))
	require.NoError(t, m.AddShortTerm(ctx, id, "user", text("Remind me to water the plants.")))

	require.NoError(t, m.FlushToLongTerm(ctx, id))

	// Flushed sessions are gone from short-term.
	msgs, err := m.ListShortTerm(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	hits, err := m.SearchLongTerm(ctx, "apple stock", memorymanager.WithSearchLongTermLimit(2))
	require.NoError(t, err)

	require.NotEmpty(t, hits)
	assert.Contains(t, hits[0].Text(), "Apple")
	for _, hit := range hits {
		assert.NotContains(t, hit.Text(), "plants")
	}
}

func TestFlushUnknownSession(t *testing.T) {
	m := memory.NewMemoryManager()
	defer m.Close()

	assert.Error(t, m.FlushToLongTerm(context.Background(), "nope"))
}
