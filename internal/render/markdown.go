package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/amishk599/jdskills/internal/model"
)

// Markdown renders an analysis as a markdown document.
type Markdown struct{}

func (Markdown) Render(w io.Writer, a *model.Analysis) error {
	sections, err := sectionsFor(a)
	if err != nil {
		return err
	}
	blocks, texts := layout(sections)

	var b strings.Builder
	title := a.Title
	if title == "" {
		title = "Skills Analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_%s · %s · %s_\n", a.ID, a.Source, a.CreatedAt.Format("2006-01-02 15:04"))

	lastGroup := ""
	for _, bl := range blocks {
		if bl.group != lastGroup {
			fmt.Fprintf(&b, "\n## %s\n", bl.group)
			lastGroup = bl.group
		}
		if bl.heading != "" {
			fmt.Fprintf(&b, "\n### %s\n\n", bl.heading)
		} else {
			b.WriteByte('\n')
		}
		items := a.Result.List(bl.section.Key)
		if len(items) == 0 {
			fmt.Fprintf(&b, "_%s_\n", placeholder(bl.section))
			continue
		}
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}

	for _, s := range texts {
		if text := a.Result.Text(s.Key); text != "" {
			fmt.Fprintf(&b, "\n## %s\n\n%s\n", textHeading(s), text)
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}
