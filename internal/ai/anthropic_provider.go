package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/amishk599/jdskills/internal/conversation"
	"github.com/amishk599/jdskills/internal/model"
)

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicProvider creates a provider for modelID. baseURL and httpClient
// are optional. SDK retries are disabled.
func NewAnthropicProvider(baseURL, apiKey, modelID string, maxTokens int, httpClient *http.Client) *AnthropicProvider {
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
	return &AnthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     modelID,
		maxTokens: maxTokens,
	}
}

// ModelName returns the configured model identifier.
func (p *AnthropicProvider) ModelName() string { return p.model }

// Complete sends req to the Messages API and joins the text blocks of the reply.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case conversation.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &model.HTTPError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("llm returned empty content")
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
