package aigemini

import (
	"context"
	"errors"

	"github.com/pyguy/pybot/pkg/ai/llm"
	genai "google.golang.org/genai"
)

// GeminiProvider implements the LLM interface on top of the official genai client
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiProvider{client: client}, nil
}

func defaultChatOptions() *llm.ChatOptions {
	options := llm.DefaultOptions()
	options.Model = "gemini-1.5-flash-001"
	return options
}

// Chat implements the LLM interface
func (p *GeminiProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (llm.Response, error) {
	options := defaultChatOptions()
	for _, opt := range opts {
		opt(options)
	}

	contents, system, err := convertToGeminiContents(messages)
	if err != nil {
		return llm.Response{}, err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(options.Temperature),
	}
	if options.TopP != 0 {
		cfg.TopP = genai.Ptr(options.TopP)
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, options.Model, contents, cfg)
	if err != nil {
		return llm.Response{}, err
	}

	return convertFromGeminiResponse(resp)
}

// Helper functions

// convertToGeminiContents maps chat messages to Gemini contents. The system
// instruction travels out-of-band; assistant messages use the "model" role.
func convertToGeminiContents(messages []llm.Message) ([]*genai.Content, string, error) {
	contents := make([]*genai.Content, 0, len(messages))
	system := ""

	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = msg.Content
		case llm.RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			return nil, "", errors.New("unsupported role: " + msg.Role)
		}
	}

	return contents, system, nil
}

func convertFromGeminiResponse(resp *genai.GenerateContentResponse) (llm.Response, error) {
	response := llm.Response{
		Message: llm.Message{Role: llm.RoleAssistant},
	}

	if resp.UsageMetadata != nil {
		response.Usage = llm.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		response.BlockReason = string(resp.PromptFeedback.BlockReason)
		return response, nil
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return response, nil
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		response.BlockReason = string(candidate.FinishReason)
		return response, nil
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	response.Message.Content = text

	return response, nil
}
