// Package render turns post Markdown into HTML at the edge. Stored content
// is always the Markdown source; nothing rendered is ever written back.
package render

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// HTML renders GitHub-flavored Markdown to HTML. Raw HTML in the source is
// escaped, not passed through.
func HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt returns the first maxWords words of the Markdown source as plain
// text, with heading and emphasis markers stripped. Truncation lands on a
// word boundary with a trailing ellipsis.
func Excerpt(source string, maxWords int) string {
	plain := stripMarkers(source)

	words := strings.FieldsFunc(plain, unicode.IsSpace)
	if len(words) == 0 {
		return ""
	}
	if maxWords <= 0 || len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ") + "…"
}

func stripMarkers(source string) string {
	var out []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.TrimLeft(trimmed, "#>")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "- ")
		trimmed = strings.NewReplacer("**", "", "*", "", "`", "", "_", "").Replace(trimmed)
		if trimmed != "" {
			out = append(out, strings.TrimSpace(trimmed))
		}
	}
	return strings.Join(out, " ")
}
