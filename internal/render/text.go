package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jdskills/internal/model"
)

const defaultWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	groupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // bright blue

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			PaddingLeft(4)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Text renders an analysis for a terminal.
type Text struct {
	width int
}

// NewText returns a text renderer that wraps paragraphs at width columns.
func NewText(width int) Text {
	if width <= 0 {
		width = defaultWidth
	}
	return Text{width: width}
}

func (t Text) Render(w io.Writer, a *model.Analysis) error {
	sections, err := sectionsFor(a)
	if err != nil {
		return err
	}
	blocks, texts := layout(sections)

	var b strings.Builder
	if a.Title != "" {
		b.WriteString(titleStyle.Render(a.Title) + "\n")
	}
	b.WriteString(metaStyle.Render(fmt.Sprintf("%s · %s · %s", a.ID, a.Source, a.CreatedAt.Format("2006-01-02 15:04"))) + "\n")

	lastGroup := ""
	for _, bl := range blocks {
		if bl.group != lastGroup {
			b.WriteByte('\n')
			b.WriteString(groupStyle.Render(bl.group) + "\n")
			lastGroup = bl.group
		}
		indent := itemStyle
		empty := emptyStyle
		if bl.heading != "" {
			b.WriteString(headingStyle.Render(bl.heading) + "\n")
		} else {
			indent = indent.PaddingLeft(2)
			empty = empty.PaddingLeft(2)
		}
		items := a.Result.List(bl.section.Key)
		if len(items) == 0 {
			b.WriteString(empty.Render(placeholder(bl.section)) + "\n")
			continue
		}
		for _, item := range items {
			b.WriteString(indent.Render("• "+item) + "\n")
		}
	}

	for _, s := range texts {
		text := a.Result.Text(s.Key)
		if text == "" {
			continue
		}
		b.WriteByte('\n')
		b.WriteString(groupStyle.Render(textHeading(s)) + "\n")
		b.WriteString(lipgloss.NewStyle().Width(t.width).Render(text) + "\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}
