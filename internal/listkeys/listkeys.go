// Package listkeys continues and indents lists in response to Enter, Tab
// and Shift+Tab. It keeps no state between keystrokes: every key is judged
// against the line under the cursor.
package listkeys

import (
	"fmt"
	"strings"

	"github.com/gubarz/stepnotes/internal/markup"
	"github.com/gubarz/stepnotes/internal/textedit"
)

// Key is a keystroke the engine may intercept.
type Key int

const (
	Enter Key = iota
	Tab
	ShiftTab
)

func (k Key) String() string {
	switch k {
	case Enter:
		return "enter"
	case Tab:
		return "tab"
	case ShiftTab:
		return "shift+tab"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// ParseKey maps "enter", "tab" or "shift+tab" to a Key.
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "enter", "return":
		return Enter, nil
	case "tab":
		return Tab, nil
	case "shift+tab", "shift-tab", "shifttab", "backtab":
		return ShiftTab, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// cursorLine is the line under the cursor with its rune bounds.
type cursorLine struct {
	markup.Line
	start, end int
}

func lineAt(runes []rune, offset int) cursorLine {
	start, end := markup.LineBounds(runes, offset)
	return cursorLine{
		Line:  markup.ClassifyLine(string(runes[start:end])),
		start: start,
		end:   end,
	}
}

// Handle evaluates key at the selection start. The bool reports whether the
// key was consumed; when false the host applies its default behavior and
// the returned Edit equals the input.
func Handle(text string, sel textedit.Selection, key Key) (textedit.Edit, bool) {
	runes := []rune(text)
	sel = sel.Normalize(len(runes))
	cursor := sel.Start
	line := lineAt(runes, cursor)

	switch key {
	case Tab:
		return indent(runes, cursor, line), true
	case ShiftTab:
		return outdent(runes, cursor, line), true
	case Enter:
		return enter(runes, cursor, line)
	}
	return textedit.Edit{Text: text, Selection: sel}, false
}

func indent(runes []rune, cursor int, line cursorLine) textedit.Edit {
	level := markup.ClampIndent(line.Indent + 1)

	if line.Kind == markup.Bulleted && line.Empty() {
		prefix := markup.BulletPrefix(level)
		out := textedit.Splice(runes, line.start, line.end, prefix)
		return textedit.Edit{
			Text:      string(out),
			Selection: textedit.Caret(line.start + textedit.RuneLen(prefix)),
		}
	}

	insert := "\n" + markup.BulletPrefix(level)
	return insertAt(runes, cursor, insert)
}

func outdent(runes []rune, cursor int, line cursorLine) textedit.Edit {
	if line.Indent == 0 {
		return textedit.Edit{Text: string(runes), Selection: textedit.Caret(cursor)}
	}

	lead := len(line.Raw) - len(strings.TrimLeft(line.Raw, " "))
	drop := markup.IndentWidth
	if lead < drop {
		drop = lead
	}

	out := textedit.Splice(runes, line.start, line.start+drop, "")
	rel := cursor - (line.start + line.MarkerLen())
	next := line.start + line.MarkerLen() - drop + rel
	if next < line.start {
		next = line.start
	}
	return textedit.Edit{Text: string(out), Selection: textedit.Caret(next)}
}

func enter(runes []rune, cursor int, line cursorLine) (textedit.Edit, bool) {
	var prefix string
	switch line.Kind {
	case markup.Bulleted:
		prefix = markup.BulletPrefix(line.Indent)
	case markup.Numbered:
		// Only the inserted line gets n+1; later items keep their numbers.
		prefix = markup.NumberPrefix(line.Indent, line.Number+1)
	default:
		return textedit.Edit{Text: string(runes), Selection: textedit.Caret(cursor)}, false
	}

	if line.Empty() {
		out := textedit.Splice(runes, line.start, line.end, "\n")
		return textedit.Edit{Text: string(out), Selection: textedit.Caret(line.start + 1)}, true
	}
	return insertAt(runes, cursor, "\n"+prefix), true
}

func insertAt(runes []rune, cursor int, insert string) textedit.Edit {
	out := textedit.Splice(runes, cursor, cursor, insert)
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Caret(cursor + textedit.RuneLen(insert)),
	}
}
