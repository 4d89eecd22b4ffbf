package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleAnalysis() *model.Analysis {
	raw := "Must Have Technical Skills:\n- Go\n- Postgres\nGood to Have Soft Skills:\n- Mentoring\n" +
		"Brief Explanation:\nBackend heavy role."
	return &model.Analysis{
		ID:        "a-1",
		CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		Variant:   "four",
		Source:    "greenhouse",
		Title:     "Platform Engineer",
		Raw:       raw,
		Result:    extract.Parse(raw, extract.FourBucket),
	}
}

func TestSlackNotifier_Publish(t *testing.T) {
	var body []byte
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Publish(context.Background(), sampleAnalysis()); err != nil {
		t.Fatalf("Publish() = %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}

	var payload slackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Blocks) == 0 || payload.Blocks[0].Type != "header" {
		t.Fatalf("first block is not a header: %+v", payload.Blocks)
	}
	if !strings.Contains(payload.Blocks[0].Text.Text, "Platform Engineer") {
		t.Errorf("header text = %q", payload.Blocks[0].Text.Text)
	}
}

func TestSlackNotifier_SlackReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	err := n.Publish(context.Background(), sampleAnalysis())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error = %v, want status code", err)
	}
}

func TestSlackNotifier_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := calls.Add(1)
		if c == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
		} else {
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Publish(context.Background(), sampleAnalysis()); err != nil {
		t.Fatalf("expected nil after retry, got %v", err)
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected 2 HTTP calls (initial + retry), got %d", c)
	}
}

func TestSlackNotifier_RateLimitedTwice(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	if err := n.Publish(context.Background(), sampleAnalysis()); err == nil {
		t.Fatal("expected error after second 429")
	}
	if c := calls.Load(); c != 2 {
		t.Errorf("expected exactly 2 HTTP calls, got %d", c)
	}
}

func TestSlackNotifier_RetryHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	n := NewSlackNotifier(srv.URL, srv.Client(), discardLogger())
	start := time.Now()
	if err := n.Publish(ctx, sampleAnalysis()); err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Publish waited %v despite cancelled context", elapsed)
	}
}

func TestBuildPayload(t *testing.T) {
	payload, err := buildPayload(sampleAnalysis())
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}

	// header, fields, 4 buckets, explanation, context, divider
	if len(payload.Blocks) != 9 {
		t.Fatalf("expected 9 blocks, got %d", len(payload.Blocks))
	}
	if payload.Blocks[1].Type != "section" || len(payload.Blocks[1].Fields) != 2 {
		t.Errorf("block[1] not a 2-field section")
	}
	if got := payload.Blocks[2].Text.Text; got != "*Must-have technical skills*\n• Go\n• Postgres" {
		t.Errorf("must-have technical block = %q", got)
	}
	if got := payload.Blocks[3].Text.Text; !strings.Contains(got, "_No must-have soft skills identified_") {
		t.Errorf("empty bucket block = %q", got)
	}
	if got := payload.Blocks[6].Text.Text; got != "*Explanation*\nBackend heavy role." {
		t.Errorf("explanation block = %q", got)
	}
	if payload.Blocks[7].Type != "context" {
		t.Errorf("block[7] type = %q, want context", payload.Blocks[7].Type)
	}
	if payload.Blocks[8].Type != "divider" {
		t.Errorf("block[8] type = %q, want divider", payload.Blocks[8].Type)
	}
}

func TestBuildPayload_SkipsEmptyExplanation(t *testing.T) {
	a := sampleAnalysis()
	a.Result = extract.Parse("Must Have Technical Skills:\n- Go", extract.FourBucket)

	payload, err := buildPayload(a)
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	if len(payload.Blocks) != 8 {
		t.Errorf("expected 8 blocks without explanation, got %d", len(payload.Blocks))
	}
}

func TestBuildPayload_UnknownVariant(t *testing.T) {
	a := sampleAnalysis()
	a.Variant = "custom"
	if _, err := buildPayload(a); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestSendTestMessage(t *testing.T) {
	var got *model.Analysis
	p := publisherFunc(func(_ context.Context, a *model.Analysis) error {
		got = a
		return nil
	})
	if err := SendTestMessage(context.Background(), p); err != nil {
		t.Fatalf("SendTestMessage: %v", err)
	}
	if got == nil || got.Result.Count() != 3 {
		t.Errorf("test analysis = %+v", got)
	}
}

type publisherFunc func(ctx context.Context, a *model.Analysis) error

func (f publisherFunc) Publish(ctx context.Context, a *model.Analysis) error { return f(ctx, a) }

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("a", 9) + "日本語"
	got := truncate(s, 10)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got != strings.Repeat("a", 9)+"…" {
		t.Errorf("truncate = %q", got)
	}
	if truncate("short", 10) != "short" {
		t.Error("short strings must be returned unchanged")
	}
}

func TestBuildPayload_LongMultibyteBucket(t *testing.T) {
	a := sampleAnalysis()
	raw := "Must Have Technical Skills:\n"
	for i := 0; i < 800; i++ {
		raw += "- Ünïcödé skill\n"
	}
	a.Result = extract.Parse(raw, extract.FourBucket)

	payload, err := buildPayload(a)
	if err != nil {
		t.Fatalf("buildPayload: %v", err)
	}
	text := payload.Blocks[2].Text.Text
	if !utf8.ValidString(text) {
		t.Fatal("section text is not valid UTF-8")
	}
	if len(text) > maxSectionText+len("…") {
		t.Errorf("section text is %d bytes, want at most %d", len(text), maxSectionText+len("…"))
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{"": "", "greenhouse": "Greenhouse", "éclair": "Éclair"}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
