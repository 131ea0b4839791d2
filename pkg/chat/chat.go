package chat

import (
	"fmt"
	"net/http"

	"github.com/pyguy/pybot/pkg/errx"
)

// ============================================================================
// Generation Outcome
// ============================================================================

// OutcomeKind is the four-way result of a generation call
type OutcomeKind string

const (
	OutcomeOK      OutcomeKind = "OK"
	OutcomeBlocked OutcomeKind = "BLOCKED"
	OutcomeEmpty   OutcomeKind = "EMPTY"
	OutcomeFailed  OutcomeKind = "FAILED"
)

// Outcome is the interpreted result of one generation backend call. The
// adapter resolves every backend fault into OutcomeFailed; the engine never
// sees a raw backend error.
type Outcome struct {
	Kind        OutcomeKind
	Text        string
	BlockReason string
	Err         error
}

func OK(text string) Outcome {
	return Outcome{Kind: OutcomeOK, Text: text}
}

func Blocked(reason string) Outcome {
	return Outcome{Kind: OutcomeBlocked, BlockReason: reason}
}

func Empty() Outcome {
	return Outcome{Kind: OutcomeEmpty}
}

func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err}
}

// ============================================================================
// User-facing notices
// ============================================================================

// EmptyNotice is returned when the backend produced no content and no reason
const EmptyNotice = "Got an empty response. Try again."

// ResetNotice confirms a conversation reset
const ResetNotice = "Okay, I've cleared our conversation. What's next?"

// BlockedNotice names the safety reason so the user can rephrase
func BlockedNotice(reason string) string {
	return fmt.Sprintf("Response blocked by safety settings: %s.", reason)
}

// ============================================================================
// DTOs
// ============================================================================

// ChatRequest is one inbound user message. Location is an optional hint used
// to resolve timezones and weather queries.
type ChatRequest struct {
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// ChatResponse carries the reply back to the caller
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CHAT")

var (
	CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation,
		http.StatusBadRequest, "Request must contain a 'message' field.")
	CodeEmptyMessage = ErrRegistry.Register("EMPTY_MESSAGE", errx.TypeValidation,
		http.StatusBadRequest, "Message cannot be empty.")
	CodeGenerationUnavailable = ErrRegistry.Register("GENERATION_UNAVAILABLE", errx.TypeUnavailable,
		http.StatusServiceUnavailable, "Something went wrong with the AI service. Try again later.")
	CodeStoreUnavailable = ErrRegistry.Register("STORE_UNAVAILABLE", errx.TypeInternal,
		http.StatusInternalServerError, "Conversation memory is unavailable right now. Try again later.")
)

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrEmptyMessage() *errx.Error {
	return ErrRegistry.New(CodeEmptyMessage)
}

func ErrGenerationUnavailable() *errx.Error {
	return ErrRegistry.New(CodeGenerationUnavailable)
}

func ErrStoreUnavailable() *errx.Error {
	return ErrRegistry.New(CodeStoreUnavailable)
}
