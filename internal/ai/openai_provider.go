package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/amishk599/jdskills/internal/conversation"
	"github.com/amishk599/jdskills/internal/model"
)

// OpenAIProvider calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	maxTokens int
}

// NewOpenAIProvider creates a provider targeting baseURL. httpClient may be nil.
// SDK retries are disabled: a failed call is reported to the user as-is.
func NewOpenAIProvider(baseURL, apiKey, modelID string, maxTokens int, httpClient *http.Client) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &OpenAIProvider{
		client:    openai.NewClient(opts...),
		model:     modelID,
		maxTokens: maxTokens,
	}
}

// ModelName returns the configured model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

// Complete sends req as a chat completion and returns the first choice's content.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case conversation.RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(p.model),
		Messages:  msgs,
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &model.HTTPError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
