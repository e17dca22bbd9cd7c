package paste

import (
	"regexp"
	"strings"

	"github.com/gubarz/stepnotes/internal/markup"
)

// bulletGlyphs are the glyphs pasted lists use in place of "•".
const bulletGlyphs = "•●▪▫◦‣⁃◘○◙§·"

var (
	glyphBulletRe = regexp.MustCompile(`^([ ]*)[` + bulletGlyphs + `]\s*(.*)$`)
	asciiBulletRe = regexp.MustCompile(`^([ ]*)(?:[-*+>]|o)\s+(.*)$`)
	numberedRe    = regexp.MustCompile(`^([ ]*)(\d+)[.)]\s+(.*)$`)
	blankRunRe    = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)
)

// Canonicalize rewrites line endings, tabs, bullet glyphs and numbered
// prefixes into the dialect and collapses long runs of blank lines.
func Canonicalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", markup.IndentWidth))
	text = strings.ReplaceAll(text, "\u00a0", " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = canonicalLine(line)
	}
	text = strings.Join(lines, "\n")

	return blankRunRe.ReplaceAllString(text, "\n\n")
}

func canonicalLine(line string) string {
	if strings.TrimSpace(line) == markup.DividerText {
		return line
	}
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		return snapIndent(m[1]) + m[2] + ". " + m[3]
	}
	if m := glyphBulletRe.FindStringSubmatch(line); m != nil {
		return snapIndent(m[1]) + markup.BulletMarker + m[2]
	}
	if m := asciiBulletRe.FindStringSubmatch(line); m != nil {
		return snapIndent(m[1]) + markup.BulletMarker + m[2]
	}
	return line
}

// snapIndent rounds a list item's indent down to whole levels.
func snapIndent(lead string) string {
	return markup.IndentPrefix(markup.IndentLevel(len(lead)))
}
