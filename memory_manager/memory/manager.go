// Package memory is the in-process memory manager. Long-term search is
// keyword overlap rather than vector similarity; it exists so the agent
// runs without external infrastructure.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	memorymanager "github.com/advait-ai/advait/memory_manager"
)

type memoryManager struct {
	options   memorymanager.Options
	shortTerm map[string][]memorymanager.Message
	longTerm  []memorymanager.Message
	mtx       sync.RWMutex
}

func (m *memoryManager) CreateSession(ctx context.Context, opts ...memorymanager.CreateSessionOption) (string, error) {
	options := memorymanager.NewCreateSessionOptions(opts...)

	id := options.SessionId
	if len(strings.TrimSpace(id)) == 0 {
		id = uuid.NewString()
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.shortTerm[id]; !ok {
		m.shortTerm[id] = nil
	}

	return id, nil
}

func (m *memoryManager) AddShortTerm(ctx context.Context, sessionId string, role string, parts []memorymanager.Part) error {
	record := memorymanager.Message{
		Id:        uuid.NewString(),
		SessionId: sessionId,
		Role:      role,
		Parts:     parts,
	}

	if len(strings.TrimSpace(record.Text())) == 0 {
		return nil
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.shortTerm[sessionId] = append(m.shortTerm[sessionId], record)

	if len(m.shortTerm[sessionId]) > m.options.Window {
		m.shortTerm[sessionId] = m.shortTerm[sessionId][len(m.shortTerm[sessionId])-m.options.Window:]
	}

	return nil
}

func (m *memoryManager) ListShortTerm(ctx context.Context, sessionId string, opts ...memorymanager.ListShortTermOption) ([]memorymanager.Message, error) {
	options := memorymanager.NewListShortTermOptions(opts...)

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	msgs := m.shortTerm[sessionId]
	if options.Limit > 0 && len(msgs) > options.Limit {
		msgs = msgs[len(msgs)-options.Limit:]
	}

	cpy := make([]memorymanager.Message, len(msgs))
	copy(cpy, msgs)

	return cpy, nil
}

func (m *memoryManager) FlushToLongTerm(ctx context.Context, sessionId string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.shortTerm[sessionId]; !ok {
		return fmt.Errorf("session %s not found", sessionId)
	}

	m.longTerm = append(m.longTerm, m.shortTerm[sessionId]...)
	delete(m.shortTerm, sessionId)

	return nil
}

func (m *memoryManager) SearchLongTerm(ctx context.Context, query string, opts ...memorymanager.SearchLongTermOption) ([]memorymanager.Message, error) {
	options := memorymanager.NewSearchLongTermOptions(opts...)

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	type scored struct {
		msg   memorymanager.Message
		score int
	}

	var hits []scored
	for _, msg := range m.longTerm {
		text := strings.ToLower(msg.Text())
		score := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{msg: msg, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if options.Limit > 0 && len(hits) > options.Limit {
		hits = hits[:options.Limit]
	}

	msgs := make([]memorymanager.Message, 0, len(hits))
	for _, hit := range hits {
		msgs = append(msgs, hit.msg)
	}

	return msgs, nil
}

func (m *memoryManager) Close() error {
	return nil
}

func NewMemoryManager(opts ...memorymanager.Option) memorymanager.MemoryManager {
	return &memoryManager{
		options:   memorymanager.NewOptions(opts...),
		shortTerm: map[string][]memorymanager.Message{},
	}
}
