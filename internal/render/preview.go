package render

import (
	"unicode/utf8"

	"github.com/gubarz/stepnotes/internal/markup"
)

// longTextRunes is the length beyond which a note counts as long even when
// it fits in the preview lines.
const longTextRunes = 150

// Excerpt is a possibly truncated rendering of a note.
type Excerpt struct {
	Blocks    []Block `json:"blocks"`
	Truncated bool    `json:"truncated"`
	// Long is set when the host should offer to expand or collapse.
	Long bool `json:"long"`
}

// Preview renders at most maxLines lines. maxLines <= 0 renders everything.
func Preview(text string, maxLines int, opts Options) Excerpt {
	if text == "" {
		return Excerpt{}
	}
	blocks := RenderWith(text, opts)
	lineCount := len(markup.SplitLines(text))
	ex := Excerpt{
		Blocks: blocks,
		Long:   maxLines > 0 && (lineCount > maxLines || utf8.RuneCountInString(text) > longTextRunes),
	}
	if maxLines > 0 && len(blocks) > maxLines {
		ex.Blocks = blocks[:maxLines]
		ex.Truncated = true
	}
	return ex
}
