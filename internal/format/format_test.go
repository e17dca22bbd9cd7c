package format

import (
	"testing"

	"github.com/gubarz/stepnotes/internal/textedit"
)

func sel(start, end int) textedit.Selection {
	return textedit.Selection{Start: start, End: end}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sel      textedit.Selection
		cmd      Command
		expected string
		expSel   textedit.Selection
	}{
		{name: "bold wraps", text: "hello world", sel: sel(0, 5), cmd: Bold, expected: "**hello** world", expSel: sel(0, 9)},
		{name: "bold unwraps", text: "**hello** world", sel: sel(0, 9), cmd: Bold, expected: "hello world", expSel: sel(0, 5)},
		{name: "bold on empty selection", text: "ab", sel: sel(1, 1), cmd: Bold, expected: "a****b", expSel: sel(1, 5)},
		{name: "italic wraps", text: "hello", sel: sel(0, 5), cmd: Italic, expected: "*hello*", expSel: sel(0, 7)},
		{name: "italic unwraps", text: "*hello*", sel: sel(0, 7), cmd: Italic, expected: "hello", expSel: sel(0, 5)},
		{name: "italic wraps empty bold pair", text: "a**b", sel: sel(1, 3), cmd: Italic, expected: "a****b", expSel: sel(1, 5)},
		{name: "italic wraps bold instead of unwrapping", text: "**b**", sel: sel(0, 5), cmd: Italic, expected: "***b***", expSel: sel(0, 7)},
		{name: "code wraps", text: "make", sel: sel(0, 4), cmd: Code, expected: "`make`", expSel: sel(0, 6)},
		{name: "code never unwraps", text: "`make`", sel: sel(0, 6), cmd: Code, expected: "``make``", expSel: sel(0, 8)},
		{name: "divider at cursor", text: "ab", sel: sel(1, 1), cmd: Divider, expected: "a\n---\nb", expSel: sel(6, 6)},
		{name: "divider ignores selection", text: "ab", sel: sel(0, 2), cmd: Divider, expected: "\n---\nab", expSel: sel(5, 5)},
		{name: "bullet at cursor", text: "", sel: sel(0, 0), cmd: Bullet, expected: "• ", expSel: sel(2, 2)},
		{
			name:     "bullet toggles lines",
			text:     "a\n\n• b\n2. c",
			sel:      sel(0, 11),
			cmd:      Bullet,
			expected: "• a\n\nb\n• c",
			expSel:   sel(0, 10),
		},
		{
			name:     "bullet keeps indent",
			text:     "    a",
			sel:      sel(0, 5),
			cmd:      Bullet,
			expected: "    • a",
			expSel:   sel(0, 7),
		},
		{
			name:     "numbered on mixed lines",
			text:     "- A\n\n2. B",
			sel:      sel(0, 9),
			cmd:      Numbered,
			expected: "1. A\n\n2. B",
			expSel:   sel(10, 10),
		},
		{
			name:     "numbered expands collapsed selection to line",
			text:     "x\nitem\ny",
			sel:      sel(3, 3),
			cmd:      Numbered,
			expected: "x\n1. item\ny",
			expSel:   sel(9, 9),
		},
		{
			name:     "numbered replaces bullets and keeps indent",
			text:     "    • a\n    • b",
			sel:      sel(0, 15),
			cmd:      Numbered,
			expected: "    1. a\n    2. b",
			expSel:   sel(17, 17),
		},
		{
			name:     "numbered leaves bold text alone",
			text:     "**x** y",
			sel:      sel(0, 0),
			cmd:      Numbered,
			expected: "1. **x** y",
			expSel:   sel(10, 10),
		},
		{name: "selection past end is clamped", text: "ab", sel: sel(0, 9), cmd: Code, expected: "`ab`", expSel: sel(0, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.text, tt.sel, tt.cmd)
			if got.Text != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got.Text)
			}
			if got.Selection != tt.expSel {
				t.Errorf("expected selection %v, got %v", tt.expSel, got.Selection)
			}
		})
	}
}

func TestBoldRoundTrip(t *testing.T) {
	tests := []struct {
		text string
		sel  textedit.Selection
	}{
		{"hello world", sel(0, 5)},
		{"hello world", sel(6, 11)},
		{"", sel(0, 0)},
		{"• Buy milk", sel(2, 10)},
		{"a *b* c", sel(2, 5)},
	}
	for _, tt := range tests {
		once := Apply(tt.text, tt.sel, Bold)
		twice := Apply(once.Text, once.Selection, Bold)
		if twice.Text != tt.text || twice.Selection != tt.sel {
			t.Errorf("bold twice on %q %v: got %q %v", tt.text, tt.sel, twice.Text, twice.Selection)
		}
	}
}

func TestItalicKeepsBoldMarkers(t *testing.T) {
	italic := Apply("**b**", sel(0, 5), Italic)
	inner := textedit.Selection{Start: italic.Selection.Start + 1, End: italic.Selection.End - 1}

	unbold := Apply(italic.Text, inner, Bold)
	if unbold.Text != "*b*" {
		t.Errorf("expected %q, got %q", "*b*", unbold.Text)
	}
	rebold := Apply(unbold.Text, unbold.Selection, Bold)
	if rebold.Text != italic.Text {
		t.Errorf("expected %q, got %q", italic.Text, rebold.Text)
	}
}

func TestParseCommand(t *testing.T) {
	for _, name := range CommandNames() {
		cmd, err := ParseCommand(name)
		if err != nil {
			t.Fatalf("ParseCommand(%q) returned error: %v", name, err)
		}
		if cmd.String() != name {
			t.Errorf("expected %q, got %q", name, cmd.String())
		}
	}
	if _, err := ParseCommand("underline"); err == nil {
		t.Error("expected error for unknown command")
	}
}
