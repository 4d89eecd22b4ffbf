// Package extract splits free-text LLM replies into labelled buckets.
//
// The reply is expected to loosely follow a template such as
//
//	Must Have Technical Skills:
//	- Go
//	Brief Explanation:
//	Some prose.
//
// but nothing is guaranteed: unrecognised or malformed input degrades to
// empty buckets rather than an error.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result maps each declared section key to its accumulated content.
// List sections hold ordered items; text sections hold one paragraph.
// A Result is never modified after Parse returns it.
type Result struct {
	lists map[string][]string
	texts map[string]string
}

// Parse walks raw line by line and assigns content to the sections declared
// in sections. Labels are matched by case-sensitive substring anywhere in the
// trimmed line, first declared label wins, and the label line itself carries
// no content.
func Parse(raw string, sections []Section) Result {
	r := Result{
		lists: make(map[string][]string),
		texts: make(map[string]string),
	}
	for _, s := range sections {
		switch s.Kind {
		case KindList:
			r.lists[s.Key] = []string{}
		case KindText:
			r.texts[s.Key] = ""
		}
	}

	var current *Section
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if s := matchLabel(line, sections); s != nil {
			current = s
			continue
		}
		if current == nil || line == "" {
			continue
		}

		if strings.HasPrefix(line, "-") {
			item := strings.TrimSpace(strings.Trim(line, "- "))
			if item != "" && current.Kind == KindList {
				r.lists[current.Key] = append(r.lists[current.Key], item)
			}
			continue
		}

		if current.Kind == KindText {
			r.texts[current.Key] += line + " "
		}
	}

	for k, v := range r.texts {
		r.texts[k] = strings.TrimRight(v, " \t\r\n")
	}
	return r
}

func matchLabel(line string, sections []Section) *Section {
	for i := range sections {
		if strings.Contains(line, sections[i].Label) {
			return &sections[i]
		}
	}
	return nil
}

// List returns a copy of the items collected for key.
func (r Result) List(key string) []string {
	items := r.lists[key]
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// Text returns the paragraph collected for key.
func (r Result) Text(key string) string {
	return r.texts[key]
}

// Has reports whether key was declared when the result was built.
func (r Result) Has(key string) bool {
	if _, ok := r.lists[key]; ok {
		return true
	}
	_, ok := r.texts[key]
	return ok
}

// IsEmpty reports whether every bucket and paragraph is empty.
func (r Result) IsEmpty() bool {
	for _, items := range r.lists {
		if len(items) > 0 {
			return false
		}
	}
	for _, text := range r.texts {
		if text != "" {
			return false
		}
	}
	return true
}

// Count returns the total number of list items across all buckets.
func (r Result) Count() int {
	n := 0
	for _, items := range r.lists {
		n += len(items)
	}
	return n
}

// Format writes r back in the canonical template layout: each label on its
// own line, list items as "- item", text sections as a single paragraph.
// Parse(Format(r, sections), sections) reproduces r.
func Format(r Result, sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Label)
		b.WriteString("\n")
		switch s.Kind {
		case KindList:
			for _, item := range r.lists[s.Key] {
				b.WriteString("- ")
				b.WriteString(item)
				b.WriteString("\n")
			}
		case KindText:
			if text := r.texts[s.Key]; text != "" {
				writeParagraph(&b, text, sections)
			}
		}
	}
	return b.String()
}

// writeParagraph writes text on as few lines as possible while keeping every
// line free of a label, so a paragraph that spelled a label across two source
// lines does not turn into a section header. Parse rejoins the lines with a
// single space.
func writeParagraph(b *strings.Builder, text string, sections []Section) {
	if matchLabel(text, sections) == nil {
		b.WriteString(text)
		b.WriteString("\n")
		return
	}
	line := ""
	for _, word := range splitWords(text) {
		if line == "" {
			line = word
			continue
		}
		if next := line + " " + word; matchLabel(next, sections) == nil {
			line = next
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
		line = word
	}
	b.WriteString(line)
	b.WriteString("\n")
}

// splitWords cuts text at single spaces where a line break survives Parse:
// runs of spaces stay inside a word and no word starts with "-".
func splitWords(text string) []string {
	var words []string
	for _, p := range strings.Split(text, " ") {
		n := len(words)
		if n > 0 && (p == "" || strings.HasPrefix(p, "-") || strings.HasSuffix(words[n-1], " ")) {
			words[n-1] += " " + p
			continue
		}
		words = append(words, p)
	}
	return words
}

// MarshalJSON encodes the result as a flat object of key to []string or string.
func (r Result) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.lists)+len(r.texts))
	for k, v := range r.lists {
		m[k] = v
	}
	for k, v := range r.texts {
		m[k] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the flat object written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	r.lists = make(map[string][]string)
	r.texts = make(map[string]string)
	for k, v := range raw {
		var items []string
		if err := json.Unmarshal(v, &items); err == nil {
			if items == nil {
				items = []string{}
			}
			r.lists[k] = items
			continue
		}
		var text string
		if err := json.Unmarshal(v, &text); err != nil {
			return fmt.Errorf("decode result key %q: %w", k, err)
		}
		r.texts[k] = text
	}
	return nil
}
