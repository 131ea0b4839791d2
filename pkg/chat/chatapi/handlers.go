package chatapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/chat/chatsrv"
	"github.com/pyguy/pybot/pkg/errx"
)

// ChatHandlers exposes the conversational engine over HTTP
type ChatHandlers struct {
	service       *chatsrv.ChatService
	cookieName    string
	secureCookies bool
}

// NewChatHandlers creates the HTTP handlers
func NewChatHandlers(service *chatsrv.ChatService, cookieName string, secureCookies bool) *ChatHandlers {
	return &ChatHandlers{
		service:       service,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

// RegisterRoutes mounts the chat endpoints
func (h *ChatHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/chat", h.Chat)
	router.Post("/chat/reset", h.Reset)
}

// chatRequestBody distinguishes a missing message field from an empty one
type chatRequestBody struct {
	Message  *string `json:"message"`
	Location string  `json:"location"`
}

// Chat handles one user message
func (h *ChatHandlers) Chat(c *fiber.Ctx) error {
	var body chatRequestBody
	if err := c.BodyParser(&body); err != nil || body.Message == nil {
		return replyError(c, chat.ErrInvalidRequest())
	}

	sessionID := h.sessionID(c)

	response, err := h.service.Chat(c.Context(), sessionID, chat.ChatRequest{
		Message:  *body.Message,
		Location: body.Location,
	})
	if err != nil {
		var appErr *errx.Error
		if errors.As(err, &appErr) {
			return replyError(c, appErr)
		}
		return err
	}

	return c.JSON(response)
}

// Reset clears the caller's conversation
func (h *ChatHandlers) Reset(c *fiber.Ctx) error {
	sessionID := h.sessionID(c)

	if err := h.service.Reset(c.Context(), sessionID); err != nil {
		var appErr *errx.Error
		if errors.As(err, &appErr) {
			return replyError(c, appErr)
		}
		return err
	}

	return c.JSON(chat.ChatResponse{Reply: chat.ResetNotice})
}

// sessionID reads the opaque session token from the cookie, minting one on
// first contact
func (h *ChatHandlers) sessionID(c *fiber.Ctx) string {
	if id := c.Cookies(h.cookieName); id != "" {
		return id
	}

	id := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    id,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return id
}

// replyError keeps the wire contract of {reply: ...} for user-visible errors
func replyError(c *fiber.Ctx, err *errx.Error) error {
	return c.Status(err.HTTPStatus).JSON(chat.ChatResponse{Reply: err.Message})
}
