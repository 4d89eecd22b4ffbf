package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// Analyzer turns a job description into a skills breakdown with one LLM call.
type Analyzer struct {
	provider  Provider
	tmpl      *template.Template
	variant   string
	sections  []extract.Section
	maxTokens int
	logger    *slog.Logger
}

// NewAnalyzer creates an analyzer for the named vocabulary variant ("four" or "two").
func NewAnalyzer(provider Provider, tmpl *template.Template, variant string, maxTokens int, logger *slog.Logger) (*Analyzer, error) {
	sections, err := extract.Vocabulary(variant)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		provider:  provider,
		tmpl:      tmpl,
		variant:   variant,
		sections:  sections,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// Sections returns the vocabulary the analyzer extracts.
func (a *Analyzer) Sections() []extract.Section {
	out := make([]extract.Section, len(a.sections))
	copy(out, a.sections)
	return out
}

// Prompt renders the prompt that Analyze would send for description.
func (a *Analyzer) Prompt(description string) (string, error) {
	return RenderPrompt(a.tmpl, description, a.sections)
}

// Analyze sends jd to the provider and extracts the reply. A reply that does
// not follow the template yields empty buckets, not an error; only an empty
// description or a failed call return one.
func (a *Analyzer) Analyze(ctx context.Context, jd model.JobDescription) (*model.Analysis, error) {
	if strings.TrimSpace(jd.Text) == "" {
		return nil, model.ErrEmptyDescription
	}

	prompt, err := a.Prompt(jd.Text)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := a.provider.Complete(ctx, userPrompt(prompt, a.maxTokens))
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	result := extract.Parse(raw, a.sections)
	a.logger.Debug("analysis complete",
		"variant", a.variant,
		"source", jd.Source,
		"skills", result.Count(),
		"reply_bytes", len(raw),
		"elapsed", time.Since(start),
	)
	if result.IsEmpty() {
		a.logger.Warn("model reply contained no recognised sections", "variant", a.variant)
	}

	return &model.Analysis{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Variant:     a.variant,
		Source:      jd.Source,
		Title:       jd.Title,
		Description: jd.Text,
		Model:       modelName(a.provider),
		Raw:         raw,
		Result:      result,
	}, nil
}
