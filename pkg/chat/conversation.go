package chat

import "time"

// ============================================================================
// Roles & Messages
// ============================================================================

// Role is the closed set of speakers in a conversation
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the recognized variants
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is one conversation entry. Immutable once appended; ordering is
// positional, CreatedAt is informational only.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, CreatedAt: time.Now()}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, CreatedAt: time.Now()}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, CreatedAt: time.Now()}
}

// ============================================================================
// History
// ============================================================================

// SystemInstruction and InitialGreeting form the seed pair anchoring every
// conversation. The seed is never evicted.
const (
	SystemInstruction = "You are PyBot, a helpful assistant developed by PyGuy. " +
		"Always respond in a clear, concise, cool, and friendly manner. " +
		"Keep your responses informative but simple, avoiding unnecessary complexity. " +
		"Use real-time info when necessary (like date/time/weather/news) via live web search. " +
		"Don't mention that you searched, just answer as if you knew it. Only use web when needed."

	InitialGreeting = "Okay, I understand. I'm PyBot, ready to help! How can I assist you today?"
)

// SeedLen is the number of seed entries at the head of every history
const SeedLen = 2

// DefaultMaxTurns bounds history to this many user/assistant pairs beyond
// the seed when no explicit limit is configured
const DefaultMaxTurns = 10

// History is the ordered message sequence of one session
type History []Message

// Seeded returns a fresh history containing only the seed pair
func Seeded() History {
	return History{
		NewSystemMessage(SystemInstruction),
		NewAssistantMessage(InitialGreeting),
	}
}

// Valid reports whether the history has the expected shape: the seed pair at
// the head and every entry carrying a recognized role and non-empty content.
func (h History) Valid() bool {
	if len(h) < SeedLen {
		return false
	}
	if h[0].Role != RoleSystem || h[1].Role != RoleAssistant {
		return false
	}
	for _, msg := range h {
		if !msg.Role.Valid() || msg.Content == "" {
			return false
		}
	}
	return true
}

// Repair returns the history unchanged when valid, or a freshly seeded one.
// A corrupt or absent stored value is a recovery case, never an error.
func (h History) Repair() History {
	if h.Valid() {
		return h
	}
	return Seeded()
}

// Append adds a message and applies the eviction policy: the seed pair is
// always retained and the oldest non-seed entries are dropped first, keeping
// at most 2*maxTurns non-seed entries.
func (h History) Append(msg Message, maxTurns int) History {
	if maxTurns < 1 {
		maxTurns = DefaultMaxTurns
	}

	out := append(h.clone(), msg)

	keep := 2 * maxTurns
	if excess := len(out) - SeedLen - keep; excess > 0 {
		trimmed := make(History, 0, SeedLen+keep)
		trimmed = append(trimmed, out[:SeedLen]...)
		trimmed = append(trimmed, out[SeedLen+excess:]...)
		out = trimmed
	}

	return out
}

func (h History) clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}
