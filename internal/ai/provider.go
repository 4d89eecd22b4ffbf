package ai

import (
	"context"

	"github.com/amishk599/jdskills/internal/conversation"
)

// DefaultMaxTokens is the token budget used when a request does not set one.
const DefaultMaxTokens = 1500

// Request is a single chat-completion call.
type Request struct {
	System    string                 // optional system instruction
	Messages  []conversation.Message // ordered history, oldest first
	MaxTokens int                    // zero means the provider default
}

// Provider sends a request to a hosted LLM and returns the reply text.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// modelNamer is implemented by providers that can report which model they call.
type modelNamer interface {
	ModelName() string
}

func modelName(p Provider) string {
	if n, ok := p.(modelNamer); ok {
		return n.ModelName()
	}
	return ""
}

// userPrompt wraps a single prompt string as a one-turn request.
func userPrompt(prompt string, maxTokens int) Request {
	return Request{
		Messages:  []conversation.Message{{Role: conversation.RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
	}
}
