// Package textedit holds the value types shared by every note transform.
//
// Offsets are 0-based rune offsets into the note text. A Selection is the
// half-open range [Start, End).
package textedit

import "unicode/utf8"

// Selection is an immutable (start, end) pair of rune offsets.
type Selection struct {
	Start int
	End   int
}

// Caret returns a collapsed selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Collapsed reports whether the selection is a bare cursor.
func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Len returns the number of selected runes.
func (s Selection) Len() int {
	return s.End - s.Start
}

// Normalize orders the offsets and clamps them into [0, n].
func (s Selection) Normalize(n int) Selection {
	if s.Start > s.End {
		s.Start, s.End = s.End, s.Start
	}
	return Selection{Start: clampInt(s.Start, 0, n), End: clampInt(s.End, 0, n)}
}

// Edit is the result of a transform: the new text and the new selection.
type Edit struct {
	Text      string
	Selection Selection
}

// Unchanged wraps the input as an Edit with a normalized selection.
func Unchanged(text string, sel Selection) Edit {
	return Edit{Text: text, Selection: sel.Normalize(RuneLen(text))}
}

// RuneLen returns the length of s in runes.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Splice replaces runes [start, end) of text with insert.
func Splice(text []rune, start, end int, insert string) []rune {
	ins := []rune(insert)
	out := make([]rune, 0, len(text)-(end-start)+len(ins))
	out = append(out, text[:start]...)
	out = append(out, ins...)
	out = append(out, text[end:]...)
	return out
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
