package toolhandler

import "context"

// ToolHandler is a capability the chatbot can invoke during a turn.
type ToolHandler interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

type ToolSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"input_schema"`
	Examples    []map[string]any `json:"examples,omitempty"`
}

type ToolRequest struct {
	SessionId string         `json:"session_id,omitempty"`
	Arguments map[string]any `json:"arguments"`
}

type ToolResponse struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// StringArg extracts a required string argument from a request.
func (r ToolRequest) StringArg(key string) (string, bool) {
	raw, ok := r.Arguments[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}
