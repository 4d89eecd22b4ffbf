package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jdskills/internal/conversation"
	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// ErrEmptyMessage is returned by ChatSession.Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// ChatSession gathers a job description through a conversation and then asks
// the model for the formatted skills breakdown. The session owns its log.
type ChatSession struct {
	provider    Provider
	variant     string
	sections    []extract.Section
	system      string
	finalPrompt string
	maxTokens   int
	log         *conversation.Log
	logger      *slog.Logger
}

// NewChatSession creates a session for the named vocabulary variant, seeded
// with ChatGreeting.
func NewChatSession(provider Provider, variant string, maxTokens int, logger *slog.Logger) (*ChatSession, error) {
	sections, err := extract.Vocabulary(variant)
	if err != nil {
		return nil, err
	}
	system, err := RenderPrompt(ChatSystemTemplate, "", sections)
	if err != nil {
		return nil, err
	}
	final, err := RenderPrompt(ChatFinalTemplate, "", sections)
	if err != nil {
		return nil, err
	}
	return &ChatSession{
		provider:    provider,
		variant:     variant,
		sections:    sections,
		system:      system,
		finalPrompt: strings.TrimSpace(final),
		maxTokens:   maxTokens,
		log:         conversation.New(conversation.Message{Role: conversation.RoleAssistant, Content: ChatGreeting}),
		logger:      logger,
	}, nil
}

// Messages returns the conversation so far, greeting included.
func (s *ChatSession) Messages() []conversation.Message {
	return s.log.Messages()
}

// Transcript returns the conversation as "role: content" lines.
func (s *ChatSession) Transcript() string {
	return s.log.Transcript()
}

// Reset restarts the conversation from the greeting.
func (s *ChatSession) Reset() {
	s.log.Reset()
	s.logger.Debug("chat session reset")
}

// Send appends text as a user turn, asks the model for its next turn and
// records it. On failure the user turn stays in the log.
func (s *ChatSession) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if err := s.log.Append(conversation.RoleUser, text); err != nil {
		return "", err
	}
	reply, err := s.complete(ctx)
	if err != nil {
		return "", err
	}
	if err := s.log.Append(conversation.RoleAssistant, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// Analyze requests the final breakdown for everything the user said so far.
func (s *ChatSession) Analyze(ctx context.Context) (*model.Analysis, error) {
	description := s.description()
	if description == "" {
		return nil, model.ErrEmptyDescription
	}

	if err := s.log.Append(conversation.RoleUser, s.finalPrompt); err != nil {
		return nil, err
	}
	raw, err := s.complete(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.log.Append(conversation.RoleAssistant, raw); err != nil {
		return nil, err
	}

	result := extract.Parse(raw, s.sections)
	s.logger.Debug("chat analysis complete", "variant", s.variant, "turns", s.log.Len(), "skills", result.Count())
	if result.IsEmpty() {
		s.logger.Warn("model reply contained no recognised sections", "variant", s.variant)
	}

	return &model.Analysis{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Variant:     s.variant,
		Source:      "chat",
		Description: description,
		Model:       modelName(s.provider),
		Raw:         raw,
		Result:      result,
	}, nil
}

// description is everything the user typed, minus earlier final-analysis requests.
func (s *ChatSession) description() string {
	var parts []string
	for _, m := range s.log.Messages() {
		if m.Role != conversation.RoleUser || m.Content == s.finalPrompt {
			continue
		}
		if text := strings.TrimSpace(m.Content); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (s *ChatSession) complete(ctx context.Context) (string, error) {
	reply, err := s.provider.Complete(ctx, Request{
		System:    s.system,
		Messages:  requestMessages(s.log.Messages()),
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	return reply, nil
}

// requestMessages drops leading assistant turns: the greeting is shown to the
// user but providers expect the conversation to open with a user message.
func requestMessages(msgs []conversation.Message) []conversation.Message {
	for len(msgs) > 0 && msgs[0].Role == conversation.RoleAssistant {
		msgs = msgs[1:]
	}
	return msgs
}
