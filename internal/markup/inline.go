package markup

import (
	"regexp"
	"strings"
)

// Style is a bit set of inline styles.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleCode
)

// Has reports whether all bits of o are set.
func (s Style) Has(o Style) bool {
	return s&o == o
}

// Span is a run of inline text with one style. A zero Style is plain text.
type Span struct {
	Text  string
	Style Style
}

// Match locates one delimited span as byte offsets: [Start, End) covers the
// delimiters, [InnerStart, InnerEnd) the text between them.
type Match struct {
	Start, End           int
	InnerStart, InnerEnd int
}

// Rule is one inline delimiter rule.
type Rule struct {
	Style Style
	Delim string
	Find  func(s string) []Match
}

var (
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe = regexp.MustCompile("`(.+?)`")
)

// InlineRules lists the rules in the order they apply.
var InlineRules = []Rule{
	{Style: StyleBold, Delim: "**", Find: findRegex(boldRe)},
	{Style: StyleItalic, Delim: "*", Find: findItalic},
	{Style: StyleCode, Delim: "`", Find: findRegex(codeRe)},
}

func findRegex(re *regexp.Regexp) func(string) []Match {
	return func(s string) []Match {
		locs := re.FindAllStringSubmatchIndex(s, -1)
		matches := make([]Match, 0, len(locs))
		for _, loc := range locs {
			matches = append(matches, Match{Start: loc[0], End: loc[1], InnerStart: loc[2], InnerEnd: loc[3]})
		}
		return matches
	}
}

// findItalic finds *x* where neither delimiter is next to another '*'.
func findItalic(s string) []Match {
	var matches []Match
	lone := func(i int) bool {
		if s[i] != '*' {
			return false
		}
		if i > 0 && s[i-1] == '*' {
			return false
		}
		return i+1 >= len(s) || s[i+1] != '*'
	}

	for i := 0; i < len(s); i++ {
		if !lone(i) {
			continue
		}
		for j := i + 2; j < len(s); j++ {
			if s[j] == '\n' {
				break
			}
			if lone(j) {
				matches = append(matches, Match{Start: i, End: j + 1, InnerStart: i + 1, InnerEnd: j})
				i = j
				break
			}
		}
	}
	return matches
}

// ReplaceAll rewrites every match of rule in s with wrap(inner).
func (r Rule) ReplaceAll(s string, wrap func(inner string) string) string {
	matches := r.Find(s)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m.Start])
		b.WriteString(wrap(s[m.InnerStart:m.InnerEnd]))
		last = m.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// ParseInline splits text into styled spans by applying InlineRules in order.
func ParseInline(text string) []Span {
	if text == "" {
		return nil
	}
	spans := []Span{{Text: text}}
	for _, rule := range InlineRules {
		next := make([]Span, 0, len(spans))
		for _, sp := range spans {
			next = append(next, splitSpan(sp, rule)...)
		}
		spans = next
	}
	return spans
}

func splitSpan(sp Span, rule Rule) []Span {
	matches := rule.Find(sp.Text)
	if len(matches) == 0 {
		return []Span{sp}
	}
	var out []Span
	last := 0
	for _, m := range matches {
		if m.Start > last {
			out = append(out, Span{Text: sp.Text[last:m.Start], Style: sp.Style})
		}
		out = append(out, Span{Text: sp.Text[m.InnerStart:m.InnerEnd], Style: sp.Style | rule.Style})
		last = m.End
	}
	if last < len(sp.Text) {
		out = append(out, Span{Text: sp.Text[last:], Style: sp.Style})
	}
	return out
}
