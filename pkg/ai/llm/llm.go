package llm

import (
	"context"
)

// LLM represents a generic large language model interface
type LLM interface {
	// Chat generates a response based on the conversation history
	Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error)
}

// Response contains the model's response and additional metadata.
// BlockReason is set when the backend withheld content for safety or
// policy reasons; Message.Content is empty in that case.
type Response struct {
	Message     Message
	Usage       Usage
	BlockReason string
}

// Client represents a configured LLM client
type Client struct {
	llm LLM
}

// NewClient creates a new LLM client
func NewClient(llm LLM) *Client {
	return &Client{llm: llm}
}

// Chat generates a response based on the conversation history
func (c *Client) Chat(ctx context.Context, messages []Message, opts ...Option) (Response, error) {
	return c.llm.Chat(ctx, messages, opts...)
}
