// Package render turns note dialect text into escaped display blocks.
//
// All text is HTML-escaped before any inline rule runs, so stored notes can
// never inject markup into the display surface.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/gubarz/stepnotes/internal/markup"
)

// BlockKind is the display kind of one rendered line.
type BlockKind string

const (
	KindRule      BlockKind = "rule"
	KindBullet    BlockKind = "bullet"
	KindNumbered  BlockKind = "numbered"
	KindParagraph BlockKind = "paragraph"
	KindSpacer    BlockKind = "spacer"
)

// Block is one rendered line.
type Block struct {
	Kind        BlockKind `json:"kind"`
	IndentLevel int       `json:"indentLevel"`
	HTML        string    `json:"htmlFragment"`
}

// Options controls geometry of list and spacer blocks.
type Options struct {
	// IndentStep is the padding per indent level, in px.
	IndentStep int
	// SpacerHeight is the height of the blank-line spacer, in px.
	SpacerHeight int
}

// DefaultOptions matches the note display surface.
func DefaultOptions() Options {
	return Options{IndentStep: 20, SpacerHeight: 8}
}

var inlineTags = map[markup.Style][2]string{
	markup.StyleBold:   {"<strong>", "</strong>"},
	markup.StyleItalic: {"<em>", "</em>"},
	markup.StyleCode:   {`<code class="note-code">`, "</code>"},
}

// Render renders text with DefaultOptions.
func Render(text string) []Block {
	return RenderWith(text, DefaultOptions())
}

// RenderWith renders every line of text into a block.
func RenderWith(text string, opts Options) []Block {
	if opts.IndentStep <= 0 || opts.SpacerHeight <= 0 {
		def := DefaultOptions()
		if opts.IndentStep <= 0 {
			opts.IndentStep = def.IndentStep
		}
		if opts.SpacerHeight <= 0 {
			opts.SpacerHeight = def.SpacerHeight
		}
	}

	if text == "" {
		return []Block{}
	}
	lines := markup.SplitLines(text)
	blocks := make([]Block, 0, len(lines))
	for _, raw := range lines {
		blocks = append(blocks, renderLine(raw, opts))
	}
	return blocks
}

// Inline escapes s and applies the inline rules in order.
func Inline(s string) string {
	out := html.EscapeString(s)
	for _, rule := range markup.InlineRules {
		tags := inlineTags[rule.Style]
		out = rule.ReplaceAll(out, func(inner string) string {
			return tags[0] + inner + tags[1]
		})
	}
	return out
}

func renderLine(raw string, opts Options) Block {
	line := markup.ClassifyLine(raw)

	switch line.Kind {
	case markup.Divider:
		return Block{Kind: KindRule, HTML: `<hr class="note-divider" />`}
	case markup.Bulleted:
		return listBlock(KindBullet, line, "•", opts)
	case markup.Numbered:
		return listBlock(KindNumbered, line, fmt.Sprintf("%d.", line.Number), opts)
	}

	if strings.TrimSpace(raw) == "" {
		return Block{
			Kind: KindSpacer,
			HTML: fmt.Sprintf(`<div class="note-spacer" style="height: %dpx;"></div>`, opts.SpacerHeight),
		}
	}
	return Block{Kind: KindParagraph, HTML: "<p>" + Inline(raw) + "</p>"}
}

func listBlock(kind BlockKind, line markup.Line, marker string, opts Options) Block {
	padding := opts.IndentStep + line.Indent*opts.IndentStep
	left := line.Indent * opts.IndentStep
	fragment := fmt.Sprintf(
		`<div class="note-list-item" style="position: relative; padding-left: %dpx;">`+
			`<span class="note-marker" style="position: absolute; left: %dpx;">%s</span>%s</div>`,
		padding, left, html.EscapeString(marker), Inline(line.Content),
	)
	return Block{Kind: kind, IndentLevel: line.Indent, HTML: fragment}
}

// HTML joins the fragments of blocks into one document fragment.
func HTML(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.HTML)
		b.WriteString("\n")
	}
	return b.String()
}
