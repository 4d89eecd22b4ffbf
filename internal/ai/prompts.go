package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/amishk599/jdskills/internal/extract"
)

//go:embed prompts/analysis.md
var analysisPromptRaw string

//go:embed prompts/chat_system.md
var chatSystemPromptRaw string

//go:embed prompts/chat_final.md
var chatFinalPromptRaw string

// Parsed once at package init; reused on every call.
var (
	AnalysisTemplate   = template.Must(template.New("analysis").Parse(analysisPromptRaw))
	ChatSystemTemplate = template.Must(template.New("chat_system").Parse(chatSystemPromptRaw))
	ChatFinalTemplate  = template.Must(template.New("chat_final").Parse(chatFinalPromptRaw))
)

// ChatGreeting is the assistant's opening line in a chat session.
const ChatGreeting = "Hi! Tell me about the role you're hiring for. You can paste a job description or describe it in your own words."

type promptSection struct {
	Label       string
	Placeholder string
}

type promptData struct {
	Description string
	Buckets     []string
	Sections    []promptSection
}

func newPromptData(description string, sections []extract.Section) promptData {
	data := promptData{Description: strings.TrimSpace(description)}
	for _, s := range sections {
		ps := promptSection{Label: s.Label}
		switch s.Kind {
		case extract.KindList:
			data.Buckets = append(data.Buckets, fmt.Sprintf("%d. %s", len(data.Buckets)+1, strings.TrimSuffix(s.Label, ":")))
			ps.Placeholder = "- [List " + s.Title + "]"
		case extract.KindText:
			ps.Placeholder = "[Explain your categorization logic]"
		}
		data.Sections = append(data.Sections, ps)
	}
	return data
}

// RenderPrompt executes tmpl for description and the given vocabulary. The
// format block always lists the same labels the extractor matches.
func RenderPrompt(tmpl *template.Template, description string, sections []extract.Section) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newPromptData(description, sections)); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
