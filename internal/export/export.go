// Package export converts note text to CommonMark and to a standalone HTML
// document rendered by goldmark.
package export

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gubarz/stepnotes/internal/markup"
)

// Raw HTML is never passed through: goldmark runs without html.WithUnsafe.
var engine = goldmark.New(goldmark.WithExtensions(extension.GFM))

// blockStartRe matches plain lines CommonMark would read as block syntax.
var blockStartRe = regexp.MustCompile("^(?:#{1,6}(?:\\s|$)|>|[-+*](?:\\s|$)|[-*_=]{3,}\\s*$|```|~~~)")

var orderedParenRe = regexp.MustCompile(`^(\d+)\)`)

type lineClass int

const (
	classNone lineClass = iota
	classBlank
	classList
	classRule
	classPara
)

// Markdown converts note text to CommonMark. Each plain line becomes its own
// paragraph, bullets become "- " items and nesting is kept at four spaces
// per level.
func Markdown(text string) string {
	if text == "" {
		return ""
	}

	var out []string
	prev := classNone
	prevLevel := -1

	separate := func() {
		if prev != classNone && prev != classBlank {
			out = append(out, "")
		}
	}

	for _, raw := range markup.SplitLines(text) {
		line := markup.ClassifyLine(raw)

		switch {
		case line.IsList():
			if prev == classPara || prev == classRule {
				out = append(out, "")
			}
			if prev != classList {
				prevLevel = -1
			}
			level := min(line.Indent, prevLevel+1)
			marker := "-"
			if line.Kind == markup.Numbered {
				marker = fmt.Sprintf("%d.", line.Number)
			}
			item := markup.IndentPrefix(level) + marker + " " + line.Content
			out = append(out, strings.TrimRight(item, " "))
			prev, prevLevel = classList, level

		case line.Kind == markup.Divider:
			separate()
			out = append(out, markup.DividerText)
			prev = classRule

		case strings.TrimSpace(raw) == "":
			separate()
			prev = classBlank

		default:
			separate()
			out = append(out, escapeBlockStart(strings.TrimLeft(raw, " \t")))
			prev = classPara
		}
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func escapeBlockStart(s string) string {
	if blockStartRe.MatchString(s) {
		return `\` + s
	}
	return orderedParenRe.ReplaceAllString(s, `$1\)`)
}

// HTML renders text as a complete HTML document titled title.
func HTML(text, title string) (string, error) {
	var body bytes.Buffer
	if err := engine.Convert([]byte(Markdown(text)), &body); err != nil {
		return "", fmt.Errorf("export: render html: %w", err)
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", html.EscapeString(title))
	doc.WriteString("</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}
