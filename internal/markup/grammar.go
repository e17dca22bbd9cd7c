package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the classification of a single line.
type Kind int

const (
	Plain Kind = iota
	Bulleted
	Numbered
	Divider
)

func (k Kind) String() string {
	switch k {
	case Bulleted:
		return "bulleted"
	case Numbered:
		return "numbered"
	case Divider:
		return "divider"
	default:
		return "plain"
	}
}

const (
	// BulletMarker is the canonical bullet prefix.
	BulletMarker = "• "
	// DividerText is the literal divider line.
	DividerText = "---"
	// IndentWidth is the number of spaces per indent level.
	IndentWidth = 4
	// MaxIndent is the deepest indent level.
	MaxIndent = 3
)

var (
	numberedRe = regexp.MustCompile(`^( *)(\d+)\.\s+`)
	bulletedRe = regexp.MustCompile(`^( *)•\s+`)
	leadingRe  = regexp.MustCompile(`^ *`)
)

// Line is a classified line. Marker holds everything before the content
// (indent, glyph and trailing whitespace), so Marker+Content == Raw.
type Line struct {
	Raw     string
	Kind    Kind
	Indent  int
	Number  int
	Marker  string
	Content string
}

// Empty reports whether the line has no content after its marker.
func (l Line) Empty() bool {
	return strings.TrimSpace(l.Content) == ""
}

// MarkerLen returns the marker length in runes.
func (l Line) MarkerLen() int {
	return utf8.RuneCountInString(l.Marker)
}

// IsList reports whether the line is a bulleted or numbered item.
func (l Line) IsList() bool {
	return l.Kind == Bulleted || l.Kind == Numbered
}

// ClassifyLine is the single source of truth for line kinds.
func ClassifyLine(raw string) Line {
	if m := numberedRe.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			n = 0
		}
		return Line{
			Raw:     raw,
			Kind:    Numbered,
			Indent:  IndentLevel(len(m[1])),
			Number:  n,
			Marker:  m[0],
			Content: raw[len(m[0]):],
		}
	}

	if m := bulletedRe.FindStringSubmatch(raw); m != nil {
		return Line{
			Raw:     raw,
			Kind:    Bulleted,
			Indent:  IndentLevel(len(m[1])),
			Marker:  m[0],
			Content: raw[len(m[0]):],
		}
	}

	lead := leadingRe.FindString(raw)
	kind := Plain
	if strings.TrimSpace(raw) == DividerText {
		kind = Divider
	}
	return Line{
		Raw:     raw,
		Kind:    kind,
		Indent:  IndentLevel(len(lead)),
		Marker:  lead,
		Content: raw[len(lead):],
	}
}

// IndentLevel converts a count of leading spaces into an indent level.
func IndentLevel(spaces int) int {
	return ClampIndent(spaces / IndentWidth)
}

// ClampIndent bounds level to [0, MaxIndent].
func ClampIndent(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxIndent {
		return MaxIndent
	}
	return level
}

// IndentPrefix returns the leading spaces for level.
func IndentPrefix(level int) string {
	return strings.Repeat(" ", ClampIndent(level)*IndentWidth)
}

// BulletPrefix returns the full prefix of a bullet at level.
func BulletPrefix(level int) string {
	return IndentPrefix(level) + BulletMarker
}

// NumberPrefix returns the full prefix of numbered item n at level.
func NumberPrefix(level, n int) string {
	return IndentPrefix(level) + NumberMarker(n)
}

// NumberMarker returns "<n>. ".
func NumberMarker(n int) string {
	return fmt.Sprintf("%d. ", n)
}

// SplitLines splits text on newlines. The empty text is one empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// LineBounds returns the rune range [start, end) of the line holding offset.
func LineBounds(text []rune, offset int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	start = offset
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end = offset
	for end < len(text) && text[end] != '\n' {
		end++
	}
	return start, end
}
