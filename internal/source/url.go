package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jdskills/internal/model"
)

const userAgent = "Mozilla/5.0 (compatible; jdskills/1.0)"

// jobPostingSelectors are tried in order; the first match is used as the
// posting body. The page body is the fallback.
var jobPostingSelectors = []string{
	".job-description",
	"#job-description",
	".job-content",
	"#content .posting",
	"[data-automation-id=jobPostingDescription]",
	"main",
	"article",
	"#content",
}

// URLSource downloads an arbitrary job posting page and extracts its text.
type URLSource struct {
	rawURL string
	client *http.Client
}

// NewURLSource creates a source for rawURL.
func NewURLSource(rawURL string, client *http.Client) *URLSource {
	return &URLSource{rawURL: rawURL, client: client}
}

// FetchDescription fetches the page, strips navigation and scripts, and
// returns the main posting text.
func (s *URLSource) FetchDescription(ctx context.Context) (model.JobDescription, error) {
	u, err := url.Parse(s.rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.JobDescription{}, fmt.Errorf("%w: invalid url %q", model.ErrInvalidSource, s.rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.rawURL, nil)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("fetch %s: %w: %w", s.rawURL, model.ErrInvalidSource, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("fetch %s: %w", s.rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.JobDescription{}, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetch %s: unexpected status %d", s.rawURL, resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.JobDescription{}, fmt.Errorf("parse %s: %w: %w", s.rawURL, model.ErrInvalidSource, err)
	}

	title := collapseSpace(doc.Find("title").First().Text())
	doc.Find(noiseSelector).Remove()

	body := doc.Find("body")
	for _, sel := range jobPostingSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			body = found.First()
			break
		}
	}

	return model.JobDescription{
		Source: "url",
		Title:  title,
		URL:    s.rawURL,
		Text:   selectionText(body),
	}, nil
}
