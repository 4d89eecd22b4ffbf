package source

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	blockSelector = "h1, h2, h3, h4, h5, h6, p, li, div, td"
	innerBlocks   = "h1, h2, h3, h4, h5, h6, p, li, div, ul, ol, table"
	noiseSelector = "nav, footer, header, script, style, noscript, form, iframe, svg, .cookie-banner, .popup"
)

// htmlToText converts an HTML or HTML-encoded string to plain text, one line
// per leaf block, list items prefixed with "- ". Entities are unescaped first
// to handle Greenhouse's double-encoding; it is a no-op on real HTML.
func htmlToText(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(content)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return selectionText(doc.Selection), nil
}

func selectionText(sel *goquery.Selection) string {
	sel.Find(noiseSelector).Remove()

	var lines []string
	sel.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(innerBlocks).Length() > 0 {
			return
		}
		text := collapseSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		lines = append(lines, text)
	})
	if len(lines) == 0 {
		return collapseSpace(sel.Text())
	}
	return strings.Join(lines, "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// SplitRef splits a "board/id" style reference into its two parts.
func SplitRef(ref string) (string, string, error) {
	board, id, ok := strings.Cut(strings.Trim(ref, "/ "), "/")
	if !ok || board == "" || id == "" || strings.Contains(id, "/") {
		return "", "", fmt.Errorf("invalid reference %q (want board/id)", ref)
	}
	return board, id, nil
}
