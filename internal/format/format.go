// Package format applies toolbar commands to a note and its selection.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gubarz/stepnotes/internal/markup"
	"github.com/gubarz/stepnotes/internal/textedit"
)

// Command is a toolbar formatting command.
type Command int

const (
	Bold Command = iota
	Italic
	Code
	Bullet
	Numbered
	Divider
)

var commandNames = map[Command]string{
	Bold:     "bold",
	Italic:   "italic",
	Code:     "code",
	Bullet:   "bullet",
	Numbered: "numbered",
	Divider:  "divider",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// CommandNames returns every command name in declaration order.
func CommandNames() []string {
	names := make([]string, 0, len(commandNames))
	for c := Bold; c <= Divider; c++ {
		names = append(names, commandNames[c])
	}
	return names
}

// ParseCommand maps a name like "bold" to its Command.
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown format command %q", name)
}

const dividerInsert = "\n" + markup.DividerText + "\n"

var (
	numberMarkerRe = regexp.MustCompile(`^\d+[.)]\s+`)
	anyMarkerRe    = regexp.MustCompile(`^(?:[•\-*+]|\d+[.)])\s+`)
)

// Apply runs cmd against text with the given selection. It never fails.
func Apply(text string, sel textedit.Selection, cmd Command) textedit.Edit {
	runes := []rune(text)
	sel = sel.Normalize(len(runes))

	switch cmd {
	case Bold:
		return toggleWrap(runes, sel, "**", isBoldWrapped)
	case Italic:
		return toggleWrap(runes, sel, "*", isItalicWrapped)
	case Code:
		return wrap(runes, sel, "`")
	case Divider:
		return insertDivider(runes, sel)
	case Bullet:
		return toggleBullets(runes, sel)
	case Numbered:
		return numberLines(runes, sel)
	}
	return textedit.Edit{Text: text, Selection: sel}
}

// ============================================================================
// Inline wrapping
// ============================================================================

func isBoldWrapped(s string) bool {
	return len(s) >= 4 && strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**")
}

// isItalicWrapped accepts exactly one '*' on each side; "**x**" and "**" are
// bold, not italic.
func isItalicWrapped(s string) bool {
	if len(s) < 2 || s[0] != '*' || s[len(s)-1] != '*' {
		return false
	}
	if len(s) == 2 {
		return false
	}
	return s[1] != '*' && s[len(s)-2] != '*'
}

func toggleWrap(runes []rune, sel textedit.Selection, delim string, wrapped func(string) bool) textedit.Edit {
	selected := string(runes[sel.Start:sel.End])
	if !wrapped(selected) {
		return wrap(runes, sel, delim)
	}
	inner := selected[len(delim) : len(selected)-len(delim)]
	out := textedit.Splice(runes, sel.Start, sel.End, inner)
	n := len([]rune(delim))
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Selection{Start: sel.Start, End: sel.End - 2*n},
	}
}

func wrap(runes []rune, sel textedit.Selection, delim string) textedit.Edit {
	selected := string(runes[sel.Start:sel.End])
	out := textedit.Splice(runes, sel.Start, sel.End, delim+selected+delim)
	n := len([]rune(delim))
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Selection{Start: sel.Start, End: sel.End + 2*n},
	}
}

func insertDivider(runes []rune, sel textedit.Selection) textedit.Edit {
	out := textedit.Splice(runes, sel.Start, sel.Start, dividerInsert)
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Caret(sel.Start + textedit.RuneLen(dividerInsert)),
	}
}

// ============================================================================
// Line commands
// ============================================================================

func splitIndent(line string) (indent, rest string) {
	trimmed := strings.TrimLeft(line, " ")
	return line[:len(line)-len(trimmed)], trimmed
}

func toggleBullets(runes []rune, sel textedit.Selection) textedit.Edit {
	if sel.Collapsed() {
		out := textedit.Splice(runes, sel.Start, sel.Start, markup.BulletMarker)
		return textedit.Edit{
			Text:      string(out),
			Selection: textedit.Caret(sel.Start + textedit.RuneLen(markup.BulletMarker)),
		}
	}

	lines := markup.SplitLines(string(runes[sel.Start:sel.End]))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent, rest := splitIndent(line)
		if strings.HasPrefix(rest, markup.BulletMarker) {
			lines[i] = indent + strings.TrimPrefix(rest, markup.BulletMarker)
			continue
		}
		rest = numberMarkerRe.ReplaceAllString(rest, "")
		lines[i] = indent + markup.BulletMarker + rest
	}

	replaced := strings.Join(lines, "\n")
	out := textedit.Splice(runes, sel.Start, sel.End, replaced)
	delta := textedit.RuneLen(replaced) - sel.Len()
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Selection{Start: sel.Start, End: sel.End + delta},
	}
}

func numberLines(runes []rune, sel textedit.Selection) textedit.Edit {
	if sel.Collapsed() {
		start, end := markup.LineBounds(runes, sel.Start)
		sel = textedit.Selection{Start: start, End: end}
	}

	lines := markup.SplitLines(string(runes[sel.Start:sel.End]))
	n := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n++
		indent, rest := splitIndent(line)
		rest = anyMarkerRe.ReplaceAllString(rest, "")
		lines[i] = indent + markup.NumberMarker(n) + rest
	}

	replaced := strings.Join(lines, "\n")
	out := textedit.Splice(runes, sel.Start, sel.End, replaced)
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Caret(sel.Start + textedit.RuneLen(replaced)),
	}
}
