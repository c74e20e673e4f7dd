// Package advait is a chatbot development kit with finance tooling and
// an integration checklist bound in as tools.
package advait

import (
	"context"

	"github.com/advait-ai/advait/checklist"
	"github.com/advait-ai/advait/generator"
	"github.com/advait-ai/advait/internal/service/agent"
	"github.com/advait-ai/advait/internal/service/session"
	memorymanager "github.com/advait-ai/advait/memory_manager"
	toolhandler "github.com/advait-ai/advait/tool_handler"
)

type ADK struct {
	agent   *agent.Service
	session *session.Service
	memory  memorymanager.MemoryManager
}

// CreateSession starts (or resumes) a conversation and returns its id.
func (a *ADK) CreateSession(ctx context.Context, id string) (string, error) {
	session, err := a.session.CreateSession(ctx, id)
	if err != nil {
		return "", err
	}
	return session.ID(), nil
}

func (a *ADK) ListSessionIds(ctx context.Context) []string {
	return a.session.ListSessionIds(ctx)
}

func (a *ADK) DeleteSession(ctx context.Context, id string) {
	a.session.DeleteSession(ctx, id)
}

// Generate runs one chatbot turn and returns the assistant reply.
func (a *ADK) Generate(ctx context.Context, sessionId string, userInput string) (string, error) {
	return a.agent.Respond(ctx, sessionId, userInput)
}

// FlushSession consolidates a session's short-term memory into the
// long-term store.
func (a *ADK) FlushSession(ctx context.Context, sessionId string) error {
	return a.agent.Flush(ctx, sessionId)
}

// ToolSpecs lists the registered tools.
func (a *ADK) ToolSpecs() []toolhandler.ToolSpec {
	return a.agent.Catalog().ListSpecs()
}

func (a *ADK) Close() error {
	return a.memory.Close()
}

func New(
	memory memorymanager.MemoryManager,
	generator generator.Generator,
	toolHandlers []toolhandler.ToolHandler,
	tasks *checklist.Document,
	contextLimit int,
	systemPrompt string,
) *ADK {
	agent := agent.New(
		memory,
		generator,
		toolHandlers,
		tasks,
		contextLimit,
		systemPrompt,
	)

	session := session.New(
		memory,
	)

	return &ADK{
		agent:   agent,
		session: session,
		memory:  memory,
	}
}
