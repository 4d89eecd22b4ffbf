package model

import (
	"context"
	"time"

	"github.com/amishk599/jdskills/internal/extract"
)

// Analysis is one skills breakdown of a job description.
type Analysis struct {
	ID          string         // uuid assigned when the analysis is produced
	CreatedAt   time.Time      // our clock
	Variant     string         // vocabulary name, e.g. "four"
	Source      string         // where the description came from: "text", "url", "greenhouse", "chat", ...
	Title       string         // optional job title, when the source provides one
	Description string         // job description sent to the model
	Model       string         // model identifier used for the call
	Raw         string         // model reply as received
	Result      extract.Result // parsed buckets
}

// AnalysisSummary is a lightweight row for listing stored analyses.
type AnalysisSummary struct {
	ID        string
	CreatedAt time.Time
	Variant   string
	Source    string
	Title     string
	Skills    int
}

// JobDescription is the text to analyze plus where it came from.
type JobDescription struct {
	Source string
	Title  string
	URL    string
	Text   string
}

// AnalysisStore persists analyses for later review.
type AnalysisStore interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id string) (*Analysis, error)
	List(ctx context.Context, limit int) ([]AnalysisSummary, error)
	Delete(ctx context.Context, id string) error
}

// Publisher shares a finished analysis somewhere (log, Slack, ...).
type Publisher interface {
	Publish(ctx context.Context, a *Analysis) error
}

// DescriptionFetcher loads a job description from a remote source.
type DescriptionFetcher interface {
	FetchDescription(ctx context.Context) (JobDescription, error)
}
