package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/advait-ai/advait/checklist"
	"github.com/advait-ai/advait/generator"
	memorymanager "github.com/advait-ai/advait/memory_manager"
	toolhandler "github.com/advait-ai/advait/tool_handler"
)

const (
	defaultSystemPrompt = "You are a helpful finance-savvy assistant. Provide concise, accurate answers and explain when you call tools such as stock analysis"
)

// Service is the chatbot turn loop: it records the user message,
// dispatches tool commands, and otherwise builds a prompt from memory
// and generates a reply.
type Service struct {
	memory       memorymanager.MemoryManager
	generator    generator.Generator
	catalog      *Catalog
	tasks        *checklist.Document
	contextLimit int
	systemPrompt string
}

func (s *Service) CreateSession(ctx context.Context, opts ...memorymanager.CreateSessionOption) (string, error) {
	return s.memory.CreateSession(ctx, opts...)
}

func (s *Service) Respond(ctx context.Context, sessionId string, userInput string) (string, error) {
	if len(strings.TrimSpace(userInput)) == 0 {
		return "", errors.New("user input is required")
	}

	s.addShortTerm(ctx, sessionId, "user", userInput, nil)

	if handled, output, metadata, err := s.handleCommand(ctx, sessionId, userInput); handled {
		extra := map[string]any{"source": "tool"}
		if err != nil {
			s.addShortTerm(ctx, sessionId, "assistant", fmt.Sprintf("tool error: %v", err), extra)
			return "", err
		}
		for k, v := range metadata {
			if len(strings.TrimSpace(k)) == 0 {
				continue
			}
			extra[k] = v
		}
		s.addShortTerm(ctx, sessionId, "assistant", output, extra)
		return output, nil
	}

	prompt, err := s.buildPrompt(ctx, sessionId, userInput)
	if err != nil {
		return "", err
	}

	result, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	s.addShortTerm(ctx, sessionId, "assistant", result, nil)

	return result, nil
}

func (s *Service) Flush(ctx context.Context, sessionId string) error {
	return s.memory.FlushToLongTerm(ctx, sessionId)
}

func (s *Service) Catalog() *Catalog {
	return s.catalog
}

func (s *Service) addShortTerm(ctx context.Context, sessionId string, role string, input string, meta map[string]any) {
	parts := []memorymanager.Part{
		{Type: "text", Text: input, Meta: meta},
	}

	if err := s.memory.AddShortTerm(ctx, sessionId, role, parts); err != nil {
		slog.WarnContext(ctx, "failed to record message", "session", sessionId, "role", role, "error", err)
	}
}

func (s *Service) handleCommand(ctx context.Context, sessionId string, input string) (bool, string, map[string]any, error) {
	trimmed := strings.TrimSpace(input)
	lower := strings.ToLower(trimmed)

	if !strings.HasPrefix(lower, "tool:") {
		return false, "", nil, nil
	}

	payload := strings.TrimSpace(trimmed[len("tool:"):])
	if len(payload) == 0 {
		return true, "", nil, errors.New("tool name is missing")
	}

	name, args := splitCommand(payload)

	if s.catalog.Len() == 0 {
		return true, "", nil, errors.New("no tools available")
	}

	th, spec, ok := s.catalog.Get(name)
	if !ok {
		return true, "", nil, fmt.Errorf("unknown tool: %s", name)
	}

	result, err := th.Invoke(ctx, toolhandler.ToolRequest{
		SessionId: sessionId,
		Arguments: parseToolArguments(args),
	})
	if err != nil {
		return true, "", nil, err
	}

	metadata := map[string]any{"tool": spec.Name}
	for k, v := range result.Metadata {
		if len(strings.TrimSpace(k)) == 0 {
			continue
		}
		metadata[k] = v
	}

	s.addShortTerm(ctx, sessionId, "tool", fmt.Sprintf("%s => %s", spec.Name, strings.TrimSpace(result.Content)), metadata)

	return true, result.Content, metadata, nil
}

func (s *Service) buildPrompt(ctx context.Context, sessionId string, input string) (string, error) {
	shortTerm, err := s.memory.ListShortTerm(
		ctx,
		sessionId,
		memorymanager.WithShortTermLimit(s.contextLimit),
	)
	if err != nil {
		return "", fmt.Errorf("short-term error: %w", err)
	}

	longTerm, err := s.memory.SearchLongTerm(
		ctx,
		input,
		memorymanager.WithSearchLongTermLimit(s.contextLimit),
	)
	if err != nil {
		return "", fmt.Errorf("long-term error: %w", err)
	}

	// Deduplicate, favoring long-term.
	isRelevant := make(map[string]bool)
	for _, msg := range longTerm {
		isRelevant[msg.Id] = true
	}

	var uniqueShortTerm []memorymanager.Message
	for _, msg := range shortTerm {
		if !isRelevant[msg.Id] {
			uniqueShortTerm = append(uniqueShortTerm, msg)
		}
	}

	var sb bytes.Buffer
	sb.WriteString(s.systemPrompt)

	if specs := s.catalog.ListSpecs(); len(specs) > 0 {
		sb.WriteString("\n\nAvailable tools:\n")
		for _, spec := range specs {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
			if len(spec.InputSchema) > 0 {
				schemaJSON, _ := json.MarshalIndent(spec.InputSchema, "  ", "  ")
				sb.WriteString("  Input schema: ")
				sb.Write(schemaJSON)
				sb.WriteString("\n")
			}
		}
		sb.WriteString("Invoke a tool by replying with the format `tool:<name> <json arguments>` when it improves the answer.\n")
	}

	if s.tasks != nil {
		if stats := s.tasks.Stats(); stats.Total > 0 {
			sb.WriteString(fmt.Sprintf("\nIntegration checklist (%d/%d done):\n", stats.Completed, stats.Total))
			for _, item := range s.tasks.PendingItems() {
				sb.WriteString(fmt.Sprintf("- [ ] %s\n", item.Text))
			}
		}
	}

	if len(longTerm) > 0 {
		sb.WriteString("\nRelevant Memories:\n")
		for i, msg := range longTerm {
			sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, msg.Role, msg.Text()))
		}
	}

	if len(uniqueShortTerm) > 0 {
		sb.WriteString("\nConversation History:\n")
		for _, msg := range uniqueShortTerm {
			sb.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Text()))
		}
	}

	sb.WriteString("\nCurrent user message:\n")
	sb.WriteString(strings.TrimSpace(input))
	sb.WriteString("\n\nCompose the best possible assistant reply.\n")

	return sb.String(), nil
}

func New(
	memory memorymanager.MemoryManager,
	generator generator.Generator,
	toolHandlers []toolhandler.ToolHandler,
	tasks *checklist.Document,
	contextLimit int,
	systemPrompt string,
) *Service {
	if memory == nil {
		panic("memory manager is required")
	}

	if generator == nil {
		panic("generator is required")
	}

	catalog := NewCatalog()
	for _, th := range toolHandlers {
		if err := catalog.Register(th); err != nil {
			panic(err)
		}
	}

	if contextLimit <= 0 {
		contextLimit = 8
	}

	if len(strings.TrimSpace(systemPrompt)) == 0 {
		systemPrompt = defaultSystemPrompt
	}

	return &Service{
		memory:       memory,
		generator:    generator,
		catalog:      catalog,
		tasks:        tasks,
		contextLimit: contextLimit,
		systemPrompt: systemPrompt,
	}
}
