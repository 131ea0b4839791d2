package chatinfra

import (
	"context"
	"sync"

	"github.com/pyguy/pybot/pkg/chat"
)

// MemoryHistoryRepository keeps conversation histories in process memory.
// Appends are serialized per session; unrelated sessions do not contend
// beyond the map lookup.
type MemoryHistoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	maxTurns int
}

type memorySession struct {
	mu      sync.Mutex
	history chat.History
}

// NewMemoryHistoryRepository creates an in-memory repository
func NewMemoryHistoryRepository(maxTurns int) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		sessions: make(map[string]*memorySession),
		maxTurns: maxTurns,
	}
}

func (r *MemoryHistoryRepository) session(sessionID string) *memorySession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = &memorySession{history: chat.Seeded()}
		r.sessions[sessionID] = s
	}
	return s
}

// Load returns a copy of the session's history, seeding it on first use
func (r *MemoryHistoryRepository) Load(ctx context.Context, sessionID string) (chat.History, error) {
	s := r.session(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = s.history.Repair()
	return append(chat.History(nil), s.history...), nil
}

// Append appends and trims under the session lock and returns a snapshot
func (r *MemoryHistoryRepository) Append(ctx context.Context, sessionID string, msg chat.Message) (chat.History, error) {
	s := r.session(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = s.history.Repair().Append(msg, r.maxTurns)
	return append(chat.History(nil), s.history...), nil
}

// Reset drops the session entirely; the next Load reseeds
func (r *MemoryHistoryRepository) Reset(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
