package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/chat/chatinfra"
	"github.com/pyguy/pybot/pkg/chat/chatsrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "pybot_session"

type stubGenerator struct {
	outcome chat.Outcome
}

func (g *stubGenerator) Generate(_ context.Context, _ chat.History) chat.Outcome {
	return g.outcome
}

type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, _, _ string) (string, bool) {
	return "", false
}

func newTestApp(outcome chat.Outcome) *fiber.App {
	repo := chatinfra.NewMemoryHistoryRepository(chat.DefaultMaxTurns)
	service := chatsrv.NewChatService(repo, &stubGenerator{outcome: outcome}, stubClassifier{}, 5*time.Second)

	app := fiber.New()
	NewChatHandlers(service, testCookie, false).RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeReply(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body chat.ChatResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Reply
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			return c.Value
		}
	}
	return ""
}

func TestChatSuccess(t *testing.T) {
	app := newTestApp(chat.OK("hello back"))

	resp := postJSON(t, app, "/chat", `{"message": "hello"}`, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello back", decodeReply(t, resp))
}

func TestChatMissingMessageField(t *testing.T) {
	app := newTestApp(chat.OK("unused"))

	for _, body := range []string{`{}`, `{"location": "Berlin"}`, `not json`} {
		resp := postJSON(t, app, "/chat", body, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Request must contain a 'message' field.", decodeReply(t, resp))
	}
}

func TestChatEmptyMessage(t *testing.T) {
	app := newTestApp(chat.OK("unused"))

	resp := postJSON(t, app, "/chat", `{"message": "   "}`, "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message cannot be empty.", decodeReply(t, resp))
}

func TestChatBlockedReply(t *testing.T) {
	app := newTestApp(chat.Blocked("SAFETY"))

	resp := postJSON(t, app, "/chat", `{"message": "risky"}`, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, decodeReply(t, resp), "SAFETY")
}

func TestChatFailedReply(t *testing.T) {
	app := newTestApp(chat.Failed(errors.New("backend down")))

	resp := postJSON(t, app, "/chat", `{"message": "hello"}`, "")

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Something went wrong with the AI service. Try again later.", decodeReply(t, resp))
}

func TestChatMintsSessionCookie(t *testing.T) {
	app := newTestApp(chat.OK("hi"))

	resp := postJSON(t, app, "/chat", `{"message": "hello"}`, "")

	cookie := sessionCookie(resp)
	assert.NotEmpty(t, cookie)
}

func TestChatReusesSessionCookie(t *testing.T) {
	app := newTestApp(chat.OK("hi"))

	first := postJSON(t, app, "/chat", `{"message": "hello"}`, "")
	cookie := sessionCookie(first)
	require.NotEmpty(t, cookie)

	second := postJSON(t, app, "/chat", `{"message": "again"}`, cookie)
	assert.Empty(t, sessionCookie(second))
}

func TestReset(t *testing.T) {
	app := newTestApp(chat.OK("hi"))

	resp := postJSON(t, app, "/chat/reset", ``, "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, chat.ResetNotice, decodeReply(t, resp))
}
