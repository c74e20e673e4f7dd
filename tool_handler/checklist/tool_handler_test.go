package checklist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advait-ai/advait/checklist"
	toolhandler "github.com/advait-ai/advait/tool_handler"
	checklisttool "github.com/advait-ai/advait/tool_handler/checklist"
)

const sample = `## Completed Tasks
- [x] Installed dependencies

## Pending Tasks
- [ ] Fix syntax errors in the web app
- [ ] Test the chatbot with stock analysis queries
`

func newHandler(t *testing.T, path string) (toolhandler.ToolHandler, *checklist.Document) {
	t.Helper()

	doc, err := checklist.Parse(sample)
	require.NoError(t, err)

	return checklisttool.NewToolHandler(doc, path), doc
}

func invoke(t *testing.T, th toolhandler.ToolHandler, args map[string]any) toolhandler.ToolResponse {
	t.Helper()

	rsp, err := th.Invoke(context.Background(), toolhandler.ToolRequest{Arguments: args})
	require.NoError(t, err)

	return rsp
}

func TestStatus(t *testing.T) {
	th, _ := newHandler(t, "")

	rsp := invoke(t, th, map[string]any{"action": "status"})

	assert.Contains(t, rsp.Content, "Progress: 1/3 tasks done (33%)")
	assert.Contains(t, rsp.Content, "- Fix syntax errors in the web app")
	assert.Equal(t, "checklist", rsp.Metadata["source"])
}

func TestStatusIsTheDefaultAction(t *testing.T) {
	th, _ := newHandler(t, "")

	rsp := invoke(t, th, map[string]any{})

	assert.Contains(t, rsp.Content, "Progress: 1/3 tasks done")
}

func TestCheck(t *testing.T) {
	th, doc := newHandler(t, "")

	rsp := invoke(t, th, map[string]any{"action": "check", "item": "syntax errors"})

	assert.Contains(t, rsp.Content, "Marked done: Fix syntax errors in the web app")
	assert.Contains(t, rsp.Content, "Progress: 2/3 tasks done")
	assert.Len(t, doc.PendingItems(), 1)
}

func TestUncheck(t *testing.T) {
	th, doc := newHandler(t, "")

	rsp := invoke(t, th, map[string]any{"action": "uncheck", "item": "installed"})

	assert.Contains(t, rsp.Content, "Marked not done: Installed dependencies")
	assert.Len(t, doc.CompletedItems(), 0)
}

func TestAdd(t *testing.T) {
	th, doc := newHandler(t, "")

	rsp := invoke(t, th, map[string]any{"action": "add", "item": "Deploy to staging"})

	assert.Contains(t, rsp.Content, "Added pending task: Deploy to staging")
	assert.Len(t, doc.PendingItems(), 3)
}

func TestUnknownAction(t *testing.T) {
	th, _ := newHandler(t, "")

	_, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"action": "destroy"},
	})
	assert.Error(t, err)
}

func TestCheckUnknownItem(t *testing.T) {
	th, _ := newHandler(t, "")

	_, err := th.Invoke(context.Background(), toolhandler.ToolRequest{
		Arguments: map[string]any{"action": "check", "item": "not a task"},
	})
	assert.Error(t, err)
}

func TestMutationsAreSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TODO.md")
	th, _ := newHandler(t, path)

	invoke(t, th, map[string]any{"action": "check", "item": "syntax errors"})

	bytes, err := os.ReadFile(path)
	require.NoError(t, err)

	saved, err := checklist.Parse(string(bytes))
	require.NoError(t, err)

	assert.Len(t, saved.CompletedItems(), 2)
	assert.Len(t, saved.PendingItems(), 1)
}

func TestStatusDoesNotSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TODO.md")
	th, _ := newHandler(t, path)

	invoke(t, th, map[string]any{"action": "status"})

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
