// Package checklist exposes the integration task checklist to the
// chatbot so it can report and update progress.
package checklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/advait-ai/advait/checklist"
	toolhandler "github.com/advait-ai/advait/tool_handler"
)

type checklistToolHandler struct {
	options toolhandler.Options
	doc     *checklist.Document
	path    string
}

func (th *checklistToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "checklist",
		Description: "Reads and updates the integration task checklist: report progress, mark tasks done or not done, or add a new pending task.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"type":        "string",
					"description": "One of: status, check, uncheck, add",
				},
				"item": map[string]any{
					"type":        "string",
					"description": "Task text to match (partial match) or to add; omit for status",
				},
			},
			"required": []any{"action"},
		},
		Examples: []map[string]any{
			{"action": "status"},
			{"action": "check", "item": "syntax errors"},
		},
	}
}

func (th *checklistToolHandler) Invoke(_ context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	action, ok := req.StringArg("action")
	if !ok {
		action, _ = req.StringArg("input")
	}
	action = strings.ToLower(strings.TrimSpace(action))

	item, _ := req.StringArg("item")

	var content string

	switch action {
	case "", "status":
		content = th.status()
	case "check":
		checked, err := th.doc.Check(item)
		if err != nil {
			return toolhandler.ToolResponse{}, err
		}
		content = fmt.Sprintf("Marked done: %s\n\n%s", checked.Text, th.status())
	case "uncheck":
		unchecked, err := th.doc.Uncheck(item)
		if err != nil {
			return toolhandler.ToolResponse{}, err
		}
		content = fmt.Sprintf("Marked not done: %s\n\n%s", unchecked.Text, th.status())
	case "add":
		if err := th.doc.Add(item); err != nil {
			return toolhandler.ToolResponse{}, err
		}
		content = fmt.Sprintf("Added pending task: %s\n\n%s", strings.TrimSpace(item), th.status())
	default:
		return toolhandler.ToolResponse{}, fmt.Errorf("unknown checklist action %q", action)
	}

	if action != "" && action != "status" && len(th.path) > 0 {
		if err := th.doc.Save(th.path); err != nil {
			return toolhandler.ToolResponse{}, err
		}
	}

	return toolhandler.ToolResponse{
		Content:  content,
		Metadata: map[string]string{"source": "checklist"},
	}, nil
}

func (th *checklistToolHandler) status() string {
	stats := th.doc.Stats()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Progress: %d/%d tasks done (%.0f%%)\n", stats.Completed, stats.Total, stats.Progress))

	if pending := th.doc.PendingItems(); len(pending) > 0 {
		sb.WriteString("Pending:\n")
		for _, item := range pending {
			sb.WriteString("- " + item.Text + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// NewToolHandler wraps a checklist document. If path is non-empty, every
// mutation is written back to that file.
func NewToolHandler(doc *checklist.Document, path string, opts ...toolhandler.Option) toolhandler.ToolHandler {
	if doc == nil {
		panic("checklist document is required")
	}

	return &checklistToolHandler{
		options: toolhandler.NewOptions(opts...),
		doc:     doc,
		path:    path,
	}
}
