package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/jdskills/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob is the single-job response of the Greenhouse boards API.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Content     string             `json:"content"` // HTML, entity-encoded
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// GreenhouseSource loads one posting from a public Greenhouse board.
type GreenhouseSource struct {
	boardToken string
	jobID      string
	baseURL    string
	client     *http.Client
}

// NewGreenhouseSource creates a source for the posting jobID on boardToken.
func NewGreenhouseSource(boardToken, jobID string, client *http.Client) *GreenhouseSource {
	return &GreenhouseSource{
		boardToken: boardToken,
		jobID:      jobID,
		baseURL:    greenhouseBaseURL,
		client:     client,
	}
}

// FetchDescription retrieves the posting and converts its HTML body to text.
func (s *GreenhouseSource) FetchDescription(ctx context.Context) (model.JobDescription, error) {
	url := fmt.Sprintf("%s/%s/jobs/%s", s.baseURL, s.boardToken, s.jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("greenhouse fetch for %s/%s: %w: %w", s.boardToken, s.jobID, model.ErrInvalidSource, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("greenhouse fetch for %s/%s: %w", s.boardToken, s.jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.JobDescription{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("greenhouse fetch for %s/%s: unexpected status %d", s.boardToken, s.jobID, resp.StatusCode),
		}
	}

	var gj greenhouseJob
	if err := json.NewDecoder(resp.Body).Decode(&gj); err != nil {
		return model.JobDescription{}, fmt.Errorf("greenhouse decode for %s/%s: %w: %w", s.boardToken, s.jobID, model.ErrInvalidSource, err)
	}

	text, err := htmlToText(gj.Content)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("greenhouse content for %s/%s: %w: %w", s.boardToken, s.jobID, model.ErrInvalidSource, err)
	}

	return model.JobDescription{
		Source: "greenhouse",
		Title:  gj.Title,
		URL:    gj.AbsoluteURL,
		Text:   text,
	}, nil
}
