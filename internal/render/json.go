package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// JSON renders an analysis as an indented JSON object for scripts.
type JSON struct{}

type jsonAnalysis struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Variant   string         `json:"variant"`
	Source    string         `json:"source"`
	Title     string         `json:"title,omitempty"`
	Model     string         `json:"model,omitempty"`
	Result    extract.Result `json:"result"`
}

func (JSON) Render(w io.Writer, a *model.Analysis) error {
	if _, err := sectionsFor(a); err != nil {
		return err
	}
	data, err := json.MarshalIndent(jsonAnalysis{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		Variant:   a.Variant,
		Source:    a.Source,
		Title:     a.Title,
		Model:     a.Model,
		Result:    a.Result,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
