package chatsrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/chat/chatinfra"
	"github.com/pyguy/pybot/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns a canned outcome; fn, when set, runs before returning
type fakeGenerator struct {
	outcome chat.Outcome
	fn      func()
	calls   int
}

func (g *fakeGenerator) Generate(_ context.Context, _ chat.History) chat.Outcome {
	g.calls++
	if g.fn != nil {
		g.fn()
	}
	return g.outcome
}

// fakeClassifier answers directly when answer is non-empty
type fakeClassifier struct {
	answer string
}

func (c *fakeClassifier) Classify(_ context.Context, _, _ string) (string, bool) {
	if c.answer == "" {
		return "", false
	}
	return c.answer, true
}

func newTestService(gen *fakeGenerator, cls *fakeClassifier) (*ChatService, chat.HistoryRepository) {
	repo := chatinfra.NewMemoryHistoryRepository(chat.DefaultMaxTurns)
	return NewChatService(repo, gen, cls, 5*time.Second), repo
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc, repo := newTestService(&fakeGenerator{}, &fakeClassifier{})

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: msg})

		var appErr *errx.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errx.TypeValidation, appErr.Type)
	}

	h, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, h, chat.SeedLen)
}

func TestChatDirectAnswerSkipsHistory(t *testing.T) {
	gen := &fakeGenerator{outcome: chat.OK("should not be called")}
	svc, repo := newTestService(gen, &fakeClassifier{answer: "It's 3:09 PM right now."})

	resp, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "what time is it?"})
	require.NoError(t, err)
	assert.Equal(t, "It's 3:09 PM right now.", resp.Reply)
	assert.Zero(t, gen.calls)

	h, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, h, chat.SeedLen)
}

func TestChatAppendsBothTurnsOnSuccess(t *testing.T) {
	svc, repo := newTestService(&fakeGenerator{outcome: chat.OK("nice to meet you")}, &fakeClassifier{})

	resp, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "hi, I'm Ada"})
	require.NoError(t, err)
	assert.Equal(t, "nice to meet you", resp.Reply)

	h, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, h, chat.SeedLen+2)
	assert.Equal(t, chat.RoleUser, h[chat.SeedLen].Role)
	assert.Equal(t, "hi, I'm Ada", h[chat.SeedLen].Content)
	assert.Equal(t, chat.RoleAssistant, h[chat.SeedLen+1].Role)
	assert.Equal(t, "nice to meet you", h[chat.SeedLen+1].Content)
}

func TestChatBlockedKeepsUserTurnOnly(t *testing.T) {
	svc, repo := newTestService(&fakeGenerator{outcome: chat.Blocked("SAFETY")}, &fakeClassifier{})

	resp, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "something risky"})
	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "SAFETY")

	h, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, h, chat.SeedLen+1)
	assert.Equal(t, chat.RoleUser, h[len(h)-1].Role)
	assert.Equal(t, "something risky", h[len(h)-1].Content)
}

func TestChatEmptyKeepsUserTurnOnly(t *testing.T) {
	svc, repo := newTestService(&fakeGenerator{outcome: chat.Empty()}, &fakeClassifier{})

	resp, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "hello?"})
	require.NoError(t, err)
	assert.Equal(t, chat.EmptyNotice, resp.Reply)

	h, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, h, chat.SeedLen+1)
	assert.Equal(t, chat.RoleUser, h[len(h)-1].Role)
}

func TestChatFailedReturnsUnavailable(t *testing.T) {
	backendErr := errors.New("upstream exploded")
	svc, repo := newTestService(&fakeGenerator{outcome: chat.Failed(backendErr)}, &fakeClassifier{})

	_, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "hello"})

	var appErr *errx.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errx.TypeUnavailable, appErr.Type)
	assert.ErrorIs(t, err, backendErr)

	h, loadErr := repo.Load(context.Background(), "s1")
	require.NoError(t, loadErr)
	require.Len(t, h, chat.SeedLen+1)
	assert.Equal(t, chat.RoleUser, h[len(h)-1].Role)
}

func TestChatDiscardsResultOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &fakeGenerator{outcome: chat.OK("too late"), fn: cancel}
	svc, repo := newTestService(gen, &fakeClassifier{})

	_, err := svc.Chat(ctx, "s1", chat.ChatRequest{Message: "hello"})
	assert.ErrorIs(t, err, context.Canceled)

	h, loadErr := repo.Load(context.Background(), "s1")
	require.NoError(t, loadErr)
	require.Len(t, h, chat.SeedLen+1)
	assert.Equal(t, chat.RoleUser, h[len(h)-1].Role)
}

func TestReset(t *testing.T) {
	svc, repo := newTestService(&fakeGenerator{outcome: chat.OK("hi")}, &fakeClassifier{})

	_, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "remember this"})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(context.Background(), "s1"))

	h, err := repo.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, h, chat.SeedLen)
}

func TestHistory(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{outcome: chat.OK("hi")}, &fakeClassifier{})

	_, err := svc.Chat(context.Background(), "s1", chat.ChatRequest{Message: "hello"})
	require.NoError(t, err)

	h, err := svc.History(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, h, chat.SeedLen+2)
}
