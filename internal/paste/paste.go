// Package paste turns clipboard payloads (rich HTML and/or plain text) into
// note dialect text.
package paste

import (
	"strings"

	"github.com/gubarz/stepnotes/internal/textedit"
)

// Payload is what the host read from the clipboard. HTML may be empty.
type Payload struct {
	HTML string
	Text string
}

// officeMarkers betray an office-suite export that leaked styling into text.
var officeMarkers = []string{"mso-", "@font-face", "<!--", "-->"}

// Normalize converts a payload into dialect text. It never fails; a payload
// without text yields "".
func Normalize(p Payload) string {
	text, ok := foldHTML(p.HTML)
	if !ok {
		text = p.Text
	}

	text = Canonicalize(text)
	if hasOfficeMarkers(text) {
		if i := strings.LastIndex(text, "-->"); i >= 0 {
			text = strings.TrimLeft(text[i+len("-->"):], "\n")
		}
		text = Canonicalize(stripStyleLines(text))
	}
	return text
}

// Insert normalizes p and splices it over the selection. The cursor lands
// right after the inserted text.
func Insert(text string, sel textedit.Selection, p Payload) textedit.Edit {
	runes := []rune(text)
	sel = sel.Normalize(len(runes))
	insert := Normalize(p)
	out := textedit.Splice(runes, sel.Start, sel.End, insert)
	return textedit.Edit{
		Text:      string(out),
		Selection: textedit.Caret(sel.Start + textedit.RuneLen(insert)),
	}
}

func hasOfficeMarkers(text string) bool {
	for _, m := range officeMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// stripStyleLines drops leftover CSS declarations and rule braces.
func stripStyleLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@font-face") || strings.HasPrefix(trimmed, "mso-") ||
			trimmed == "{" || trimmed == "}" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
