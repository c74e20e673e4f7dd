package memorymanager

import "context"

// MemoryManager keeps per-session short-term history and a searchable
// long-term store that sessions flush into.
type MemoryManager interface {
	CreateSession(ctx context.Context, opts ...CreateSessionOption) (string, error)
	AddShortTerm(ctx context.Context, sessionId string, role string, parts []Part) error
	ListShortTerm(ctx context.Context, sessionId string, opts ...ListShortTermOption) ([]Message, error)
	FlushToLongTerm(ctx context.Context, sessionId string) error
	SearchLongTerm(ctx context.Context, query string, opts ...SearchLongTermOption) ([]Message, error)
	Close() error
}

type Message struct {
	Id        string    `json:"id"`
	SessionId string    `json:"session_id"`
	Role      string    `json:"role"`
	Parts     []Part    `json:"parts"`
	Embedding []float32 `json:"embedding,omitempty"`
}

type Part struct {
	Type string         `json:"type"`
	Text string         `json:"text,omitempty"`
	Meta map[string]any `json:"meta,omitempty"`
}

// Text joins a message's text parts for prompt assembly.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if len(p.Text) == 0 {
			continue
		}
		if len(out) > 0 {
			out += "\n"
		}
		out += p.Text
	}
	return out
}
