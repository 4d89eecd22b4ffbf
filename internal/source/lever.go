package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jdskills/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverList is one titled bullet section of a Lever posting.
type leverList struct {
	Text    string `json:"text"`
	Content string `json:"content"` // HTML <li> items
}

// leverPosting is the single-posting response of the Lever postings API.
type leverPosting struct {
	ID               string      `json:"id"`
	Text             string      `json:"text"`
	DescriptionPlain string      `json:"descriptionPlain"`
	Lists            []leverList `json:"lists"`
	AdditionalPlain  string      `json:"additionalPlain"`
	HostedURL        string      `json:"hostedUrl"`
}

// LeverSource loads one posting from a public Lever site.
type LeverSource struct {
	site      string
	postingID string
	baseURL   string
	client    *http.Client
}

// NewLeverSource creates a source for postingID on the Lever site slug.
func NewLeverSource(site, postingID string, client *http.Client) *LeverSource {
	return &LeverSource{
		site:      site,
		postingID: postingID,
		baseURL:   leverBaseURL,
		client:    client,
	}
}

// FetchDescription retrieves the posting and flattens description, bullet
// lists and closing text into one document.
func (s *LeverSource) FetchDescription(ctx context.Context) (model.JobDescription, error) {
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, s.site, s.postingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("lever fetch for %s/%s: %w: %w", s.site, s.postingID, model.ErrInvalidSource, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("lever fetch for %s/%s: %w", s.site, s.postingID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.JobDescription{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("lever fetch for %s/%s: unexpected status %d", s.site, s.postingID, resp.StatusCode),
		}
	}

	var lp leverPosting
	if err := json.NewDecoder(resp.Body).Decode(&lp); err != nil {
		return model.JobDescription{}, fmt.Errorf("lever decode for %s/%s: %w: %w", s.site, s.postingID, model.ErrInvalidSource, err)
	}

	parts := []string{strings.TrimSpace(lp.DescriptionPlain)}
	for _, l := range lp.Lists {
		items, err := htmlToText("<ul>" + l.Content + "</ul>")
		if err != nil {
			return model.JobDescription{}, fmt.Errorf("lever list %q: %w: %w", l.Text, model.ErrInvalidSource, err)
		}
		parts = append(parts, l.Text+":\n"+items)
	}
	parts = append(parts, strings.TrimSpace(lp.AdditionalPlain))

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return model.JobDescription{
		Source: "lever",
		Title:  lp.Text,
		URL:    lp.HostedURL,
		Text:   strings.Join(nonEmpty, "\n\n"),
	}, nil
}
