package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// Ensure SlackNotifier implements model.Publisher.
var _ model.Publisher = (*SlackNotifier)(nil)

// Slack rejects section text longer than 3000 characters.
const maxSectionText = 2900

// SlackNotifier shares analyses to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackNotifier returns a publisher that posts each analysis to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Publish sends the analysis as one Block Kit message. A 429 response is
// retried once after the Retry-After delay.
func (s *SlackNotifier) Publish(ctx context.Context, a *model.Analysis) error {
	payload, err := buildPayload(a)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	err = s.post(ctx, body)
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		wait := httpErr.RetryAfter
		if wait <= 0 {
			wait = time.Second
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if err := s.post(ctx, body); err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		s.logger.Info("slack message sent", "id", a.ID, "retried", true)
		return nil
	}
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	s.logger.Info("slack message sent", "id", a.ID)
	return nil
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpErr := &model.HTTPError{StatusCode: resp.StatusCode}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			httpErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return httpErr
	}
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendTestMessage publishes a canned analysis to verify the integration works.
func SendTestMessage(ctx context.Context, p model.Publisher) error {
	raw := "Must Have Technical Skills:\n- Go\n- SQL\nMust Have Soft Skills:\n- Communication\n" +
		"Brief Explanation:\nThis is a test message from jdskills."
	test := &model.Analysis{
		ID:        "test-001",
		CreatedAt: time.Now(),
		Variant:   "four",
		Source:    "test",
		Title:     "Integration Verified",
		Raw:       raw,
		Result:    extract.Parse(raw, extract.FourBucket),
	}
	return p.Publish(ctx, test)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}

func buildPayload(a *model.Analysis) (slackPayload, error) {
	sections, err := extract.Vocabulary(a.Variant)
	if err != nil {
		return slackPayload{}, fmt.Errorf("build slack payload: %w", err)
	}

	title := a.Title
	if title == "" {
		title = "Job description"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🧠 Skills: " + title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Source:*\n" + capitalize(a.Source)},
				{Type: "mrkdwn", Text: "*Skills found:*\n" + strconv.Itoa(a.Result.Count())},
			},
		},
	}

	for _, s := range sections {
		var text string
		switch s.Kind {
		case extract.KindList:
			items := a.Result.List(s.Key)
			if len(items) == 0 {
				text = fmt.Sprintf("*%s*\n_No %s identified_", capitalize(s.Title), s.Title)
			} else {
				text = fmt.Sprintf("*%s*\n• %s", capitalize(s.Title), strings.Join(items, "\n• "))
			}
		case extract.KindText:
			body := a.Result.Text(s.Key)
			if body == "" {
				continue
			}
			text = fmt.Sprintf("*%s*\n%s", capitalize(s.Title), body)
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: truncate(text, maxSectionText)},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "context",
			Elements: []slackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("%s · %s", a.ID, a.Variant)},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}, nil
}
