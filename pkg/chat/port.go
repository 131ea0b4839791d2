package chat

import "context"

// HistoryRepository owns the persisted conversation history of each session.
// Implementations must serialize Append per session: append and trim are
// observed as one step by any concurrent reader of the same session.
// Sessions are independent; unrelated sessions proceed in parallel.
type HistoryRepository interface {
	// Load returns the session's history, reseeding an absent or corrupt
	// record. It is idempotent and never fails due to history shape.
	Load(ctx context.Context, sessionID string) (History, error)

	// Append atomically appends a message, applies the eviction policy and
	// returns the resulting history snapshot.
	Append(ctx context.Context, sessionID string, msg Message) (History, error)

	// Reset clears the session back to absent; the next Load reseeds.
	Reset(ctx context.Context, sessionID string) error
}

// Generator submits the full ordered history to the generation backend.
// The backend is stateless per call; all context comes from the history.
// Every failure path resolves into the returned Outcome.
type Generator interface {
	Generate(ctx context.Context, history History) Outcome
}

// Classifier yields a direct answer for real-time questions, or reports that
// the message must be delegated to the generation backend.
type Classifier interface {
	Classify(ctx context.Context, message, locationHint string) (answer string, handled bool)
}
