package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amishk599/jdskills/internal/conversation"
	"github.com/amishk599/jdskills/internal/model"
)

func anthropicMessageBody(blocks ...map[string]any) map[string]any {
	return map[string]any{
		"id":            "msg_1",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-test",
		"content":       blocks,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]int{"input_tokens": 10, "output_tokens": 20},
	}
}

func textBlock(text string) map[string]any {
	return map[string]any{"type": "text", "text": text}
}

func TestAnthropicComplete_JoinsTextBlocks(t *testing.T) {
	srv := makeTestServer(t, http.StatusOK, anthropicMessageBody(
		textBlock("Must Have Skills:\n"),
		textBlock("- Go"),
	))

	provider := NewAnthropicProvider(srv.URL, "test-key", "claude-test", 0, srv.Client())
	got, err := provider.Complete(context.Background(), userPrompt("analyze this", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Must Have Skills:\n- Go" {
		t.Errorf("got %q", got)
	}
}

func TestAnthropicComplete_EmptyContent(t *testing.T) {
	srv := makeTestServer(t, http.StatusOK, anthropicMessageBody())

	provider := NewAnthropicProvider(srv.URL, "test-key", "claude-test", 0, srv.Client())
	if _, err := provider.Complete(context.Background(), userPrompt("analyze this", 0)); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestAnthropicComplete_HTTPError(t *testing.T) {
	srv := makeTestServer(t, http.StatusUnauthorized, map[string]any{
		"type":  "error",
		"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
	})

	provider := NewAnthropicProvider(srv.URL, "bad-key", "claude-test", 0, srv.Client())
	_, err := provider.Complete(context.Background(), userPrompt("analyze this", 0))
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected HTTPError 401, got %v", err)
	}
}

func TestAnthropicComplete_SendsHeadersSystemAndBudget(t *testing.T) {
	var gotKey, gotPath string
	var gotReq struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessageBody(textBlock("ok")))
	}))
	defer srv.Close()

	provider := NewAnthropicProvider(srv.URL, "secret", "claude-test", 0, srv.Client())
	_, err := provider.Complete(context.Background(), Request{
		System: "you are a recruiter",
		Messages: []conversation.Message{
			{Role: conversation.RoleUser, Content: "backend role"},
			{Role: conversation.RoleAssistant, Content: "which stack?"},
			{Role: conversation.RoleUser, Content: "Go"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "secret" {
		t.Errorf("x-api-key = %q, want secret", gotKey)
	}
	if !strings.HasSuffix(gotPath, "/v1/messages") {
		t.Errorf("path = %q, want .../v1/messages", gotPath)
	}
	if gotReq.MaxTokens != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", gotReq.MaxTokens, DefaultMaxTokens)
	}
	if len(gotReq.System) != 1 || gotReq.System[0].Text != "you are a recruiter" {
		t.Errorf("system = %+v", gotReq.System)
	}
	if len(gotReq.Messages) != 3 || gotReq.Messages[1].Role != "assistant" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}
