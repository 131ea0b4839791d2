package chatinfra

import (
	"context"
	"errors"
	"strings"

	"github.com/pyguy/pybot/pkg/ai/llm"
	"github.com/pyguy/pybot/pkg/chat"
)

// LLMGenerator adapts an llm.Client to the chat.Generator port. It resolves
// every backend signal into a four-way Outcome and never lets a provider
// error escape.
type LLMGenerator struct {
	client      *llm.Client
	model       string
	temperature float32
}

// NewLLMGenerator creates a generator bound to one model configuration
func NewLLMGenerator(client *llm.Client, model string, temperature float64) *LLMGenerator {
	return &LLMGenerator{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}
}

// Generate submits the full ordered history and interprets the result
func (g *LLMGenerator) Generate(ctx context.Context, history chat.History) chat.Outcome {
	messages, err := encodeMessages(history)
	if err != nil {
		return chat.Failed(err)
	}

	resp, err := g.client.Chat(ctx, messages,
		llm.WithModel(g.model),
		llm.WithTemperature(g.temperature),
	)
	if err != nil {
		return chat.Failed(err)
	}

	if resp.BlockReason != "" {
		return chat.Blocked(resp.BlockReason)
	}

	text := strings.TrimSpace(resp.Message.Content)
	if text == "" {
		return chat.Empty()
	}

	return chat.OK(text)
}

// encodeMessages maps history entries onto provider messages. Roles are a
// closed set; anything else is rejected rather than passed through.
func encodeMessages(history chat.History) ([]llm.Message, error) {
	messages := make([]llm.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case chat.RoleSystem:
			messages = append(messages, llm.NewSystemMessage(msg.Content))
		case chat.RoleUser:
			messages = append(messages, llm.NewUserMessage(msg.Content))
		case chat.RoleAssistant:
			messages = append(messages, llm.NewAssistantMessage(msg.Content))
		default:
			return nil, errors.New("unrecognized role in history: " + string(msg.Role))
		}
	}
	return messages, nil
}
