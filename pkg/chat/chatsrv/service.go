package chatsrv

import (
	"context"
	"strings"
	"time"

	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/errx"
	"github.com/pyguy/pybot/pkg/logx"
)

// ChatService orchestrates one request: validate, classify, delegate to the
// generation backend with the session history as context, and keep that
// history consistent with what the backend actually saw.
type ChatService struct {
	repo       chat.HistoryRepository
	generator  chat.Generator
	classifier chat.Classifier
	genTimeout time.Duration
}

// NewChatService creates a new chat service
func NewChatService(
	repo chat.HistoryRepository,
	generator chat.Generator,
	classifier chat.Classifier,
	genTimeout time.Duration,
) *ChatService {
	return &ChatService{
		repo:       repo,
		generator:  generator,
		classifier: classifier,
		genTimeout: genTimeout,
	}
}

// Chat handles one user message for a session.
//
// Direct answers never touch history. For delegated messages the user entry
// is appended before the backend call and the assistant entry only on
// success, so a blocked, empty or failed generation leaves the user's turn
// as the last entry.
func (s *ChatService) Chat(ctx context.Context, sessionID string, req chat.ChatRequest) (*chat.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, chat.ErrEmptyMessage()
	}

	if answer, handled := s.classifier.Classify(ctx, message, req.Location); handled {
		return &chat.ChatResponse{Reply: answer}, nil
	}

	history, err := s.repo.Append(ctx, sessionID, chat.NewUserMessage(message))
	if err != nil {
		logx.WithFields(logx.Fields{"session_id": sessionID}).Errorf("history append failed: %v", err)
		return nil, chat.ErrStoreUnavailable().WithErr(err)
	}

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	outcome := s.generator.Generate(genCtx, history)

	// The caller may have gone away while the backend call was in flight;
	// discard the result rather than appending a reply nobody received.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch outcome.Kind {
	case chat.OutcomeOK:
		if _, err := s.repo.Append(ctx, sessionID, chat.NewAssistantMessage(outcome.Text)); err != nil {
			logx.WithFields(logx.Fields{"session_id": sessionID}).Errorf("reply append failed: %v", err)
			return nil, chat.ErrStoreUnavailable().WithErr(err)
		}
		return &chat.ChatResponse{Reply: outcome.Text}, nil

	case chat.OutcomeBlocked:
		return &chat.ChatResponse{Reply: chat.BlockedNotice(outcome.BlockReason)}, nil

	case chat.OutcomeEmpty:
		return &chat.ChatResponse{Reply: chat.EmptyNotice}, nil

	default:
		logx.WithFields(logx.Fields{"session_id": sessionID}).Errorf("generation failed: %v", outcome.Err)
		return nil, chat.ErrGenerationUnavailable().WithErr(outcome.Err)
	}
}

// Reset clears the session's conversation history
func (s *ChatService) Reset(ctx context.Context, sessionID string) error {
	if err := s.repo.Reset(ctx, sessionID); err != nil {
		return errx.Wrap(err, "failed to reset conversation", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}
	return nil
}

// History returns the session's current conversation history
func (s *ChatService) History(ctx context.Context, sessionID string) (chat.History, error) {
	history, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, chat.ErrStoreUnavailable().WithErr(err)
	}
	return history, nil
}
