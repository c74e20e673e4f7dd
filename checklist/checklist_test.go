package checklist_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-ai/advait/checklist"
)

const sample = `# Integration TODO

## Completed Tasks
- [x] Installed dependencies
- [x] Added stock analysis tool wrapper
- [X] Bound tool to the chatbot node

## Pending Tasks
- [ ] Fix syntax errors in the web app
- [ ] Test the chatbot with stock analysis queries
`

func TestParse(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, "# Integration TODO", doc.Preamble())

	completed := doc.CompletedItems()
	pending := doc.PendingItems()
	require.Len(t, completed, 3)
	require.Len(t, pending, 2)

	assert.Equal(t, "Installed dependencies", completed[0].Text)
	assert.True(t, completed[0].Done)
	assert.Equal(t, "Bound tool to the chatbot node", completed[2].Text)

	assert.Equal(t, "Fix syntax errors in the web app", pending[0].Text)
	assert.False(t, pending[0].Done)
}

func TestRoundTrip(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	again, err := checklist.Parse(doc.Render())
	require.NoError(t, err)

	assert.Equal(t, doc.CompletedItems(), again.CompletedItems())
	assert.Equal(t, doc.PendingItems(), again.PendingItems())
	assert.Equal(t, doc.Preamble(), again.Preamble())

	// A second render is byte-stable.
	assert.Equal(t, again.Render(), doc.Render())
}

func TestParseNormalizesMisfiledItems(t *testing.T) {
	doc, err := checklist.Parse(`## Completed Tasks
- [ ] Not actually done
- [x] Done

## Pending Tasks
- [x] Finished early
`)
	require.NoError(t, err)

	completed := doc.CompletedItems()
	pending := doc.PendingItems()
	require.Len(t, completed, 2)
	require.Len(t, pending, 1)
	assert.Equal(t, "Not actually done", pending[0].Text)
	assert.Equal(t, "Finished early", completed[1].Text)
}

func TestCheckMovesItem(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	item, err := doc.Check("syntax errors")
	require.NoError(t, err)
	assert.True(t, item.Done)
	assert.Equal(t, "Fix syntax errors in the web app", item.Text)

	// Moved to the end of Completed; the untouched pending item kept its slot.
	completed := doc.CompletedItems()
	assert.Equal(t, item.Text, completed[len(completed)-1].Text)
	pending := doc.PendingItems()
	require.Len(t, pending, 1)
	assert.Equal(t, "Test the chatbot with stock analysis queries", pending[0].Text)

	done, ok := doc.Status("syntax errors")
	assert.True(t, ok)
	assert.True(t, done)
}

func TestCheckUnknownItem(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	_, err = doc.Check("deploy to production")
	assert.Error(t, err)
}

func TestUncheck(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	item, err := doc.Uncheck("installed dependencies")
	require.NoError(t, err)
	assert.False(t, item.Done)

	done, ok := doc.Status("Installed dependencies")
	assert.True(t, ok)
	assert.False(t, done)

	// Order of the remaining completed items is untouched.
	assert.Equal(t, "Added stock analysis tool wrapper", doc.CompletedItems()[0].Text)
}

func TestAdd(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	require.NoError(t, doc.Add("Write deployment docs"))
	pending := doc.PendingItems()
	assert.Equal(t, "Write deployment docs", pending[len(pending)-1].Text)

	assert.Error(t, doc.Add(""))
	assert.Error(t, doc.Add("Write deployment docs"))
}

func TestStats(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	stats := doc.Stats()
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 2, stats.Pending)
	assert.InDelta(t, 60.0, stats.Progress, 0.001)

	empty := &checklist.Document{}
	assert.Zero(t, empty.Stats().Progress)
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, doc.Add(fmt.Sprintf("Task %02d", i)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			doc.Check(fmt.Sprintf("Task %02d", i))
		}(i)
		go func(i int) {
			defer wg.Done()
			doc.Uncheck(fmt.Sprintf("Task %02d", i))
		}(i)
		go func() {
			defer wg.Done()
			doc.Stats()
			doc.PendingItems()
			doc.Render()
		}()
	}
	wg.Wait()

	// Every task still exists exactly once in one of the two sections.
	assert.Equal(t, 25, doc.Stats().Total)
	for i := 0; i < 20; i++ {
		_, ok := doc.Status(fmt.Sprintf("Task %02d", i))
		assert.True(t, ok)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TODO.md")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	doc, err := checklist.Load(path)
	require.NoError(t, err)

	_, err = doc.Check("syntax errors")
	require.NoError(t, err)
	require.NoError(t, doc.Save(path))

	again, err := checklist.Load(path)
	require.NoError(t, err)

	done, ok := again.Status("syntax errors")
	assert.True(t, ok)
	assert.True(t, done)
	assert.Equal(t, 4, again.Stats().Completed)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := checklist.Load(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}
