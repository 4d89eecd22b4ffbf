// Package render turns an analysis into output for the terminal, markdown
// documents or other programs.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/amishk599/jdskills/internal/extract"
	"github.com/amishk599/jdskills/internal/model"
)

// Renderer writes one analysis to w.
type Renderer interface {
	Render(w io.Writer, a *model.Analysis) error
}

var renderers = map[string]func() Renderer{
	"text":     func() Renderer { return NewText(defaultWidth) },
	"markdown": func() Renderer { return Markdown{} },
	"json":     func() Renderer { return JSON{} },
}

// New returns the renderer registered under name.
func New(name string) (Renderer, error) {
	fn, ok := renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return fn(), nil
}

// Names lists the registered formats in sorted order.
func Names() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// block is one list bucket placed under a group header and an optional
// sub-heading, e.g. "Must Have Skills" / "Technical Skills".
type block struct {
	group   string
	heading string
	section extract.Section
}

// layout arranges the list sections of a vocabulary into display blocks and
// returns the text sections separately.
func layout(sections []extract.Section) (blocks []block, texts []extract.Section) {
	for _, s := range sections {
		if s.Kind == extract.KindText {
			texts = append(texts, s)
			continue
		}
		blocks = append(blocks, block{
			group:   groupOf(s),
			heading: headingOf(s),
			section: s,
		})
	}
	return blocks, texts
}

func groupOf(s extract.Section) string {
	switch {
	case strings.HasPrefix(s.Key, "must_have"):
		return "Must Have Skills"
	case strings.HasPrefix(s.Key, "good_have"):
		return "Good to Have Skills"
	default:
		return strings.TrimSuffix(s.Label, ":")
	}
}

func headingOf(s extract.Section) string {
	switch {
	case strings.HasSuffix(s.Key, "_technical"):
		return "Technical Skills"
	case strings.HasSuffix(s.Key, "_soft"):
		return "Soft Skills"
	default:
		return ""
	}
}

func textHeading(s extract.Section) string {
	if s.Key == extract.KeyExplanation {
		return "Analysis Explanation"
	}
	return strings.TrimSuffix(s.Label, ":")
}

// placeholder is shown in place of an empty bucket.
func placeholder(s extract.Section) string {
	return fmt.Sprintf("No %s identified", s.Title)
}

func sectionsFor(a *model.Analysis) ([]extract.Section, error) {
	sections, err := extract.Vocabulary(a.Variant)
	if err != nil {
		return nil, fmt.Errorf("render analysis %s: %w", a.ID, err)
	}
	return sections, nil
}
