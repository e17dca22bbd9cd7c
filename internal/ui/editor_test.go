package ui

import (
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/gubarz/stepnotes/internal/paste"
	"github.com/gubarz/stepnotes/internal/session"
	"github.com/gubarz/stepnotes/internal/textedit"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type fakeClipboard struct {
	payload paste.Payload
	err     error
}

func (f fakeClipboard) Copy(string) error            { return f.err }
func (f fakeClipboard) Read() (paste.Payload, error) { return f.payload, f.err }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// feed sends msgs in order and delivers any surface commit they schedule.
func feed(m editorModel, msgs ...tea.Msg) editorModel {
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = next.(editorModel)
		if cmd == nil {
			continue
		}
		if commit, ok := cmd().(surfaceCommittedMsg); ok {
			next, _ = m.Update(commit)
			m = next.(editorModel)
		}
	}
	return m
}

func sized(opts Options) editorModel {
	return feed(newEditorModel(opts), tea.WindowSizeMsg{Width: 80, Height: 24})
}

func TestEditTypingAndContinuation(t *testing.T) {
	m := sized(Options{})
	m = feed(m, runes("e"), runes("• Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.session.Mode() != session.ModeEdit {
		t.Fatalf("expected edit mode, got %s", m.session.Mode())
	}
	if got := m.session.Text(); got != "• Buy milk\n• " {
		t.Errorf("expected %q, got %q", "• Buy milk\n• ", got)
	}
	if m.head != 13 {
		t.Errorf("expected head 13, got %d", m.head)
	}
}

func TestEnterOnPlainLineInsertsNewline(t *testing.T) {
	m := sized(Options{})
	m = feed(m, runes("e"), runes("ab"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeySpace})
	if got := m.session.Text(); got != "ab\n " {
		t.Errorf("expected %q, got %q", "ab\n ", got)
	}
}

func TestSelectAndBold(t *testing.T) {
	m := sized(Options{Text: "milk"})
	shiftRight := tea.KeyMsg{Type: tea.KeyShiftRight}
	m = feed(m, runes("e"), shiftRight, shiftRight, shiftRight, shiftRight, tea.KeyMsg{Type: tea.KeyCtrlB})

	if got := m.session.Text(); got != "**milk**" {
		t.Errorf("expected %q, got %q", "**milk**", got)
	}
	if m.selection() != (textedit.Selection{Start: 0, End: 8}) {
		t.Errorf("expected selection 0..8, got %+v", m.selection())
	}
}

func TestCommandFromDisplayIsDeferred(t *testing.T) {
	m := sized(Options{Text: "note"})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = next.(editorModel)
	if cmd == nil {
		t.Fatal("expected a surface commit to be scheduled")
	}
	if m.session.Mode() != session.ModeEdit {
		t.Errorf("expected switch to edit mode, got %s", m.session.Mode())
	}
	if _, ok := m.session.Pending(); !ok {
		t.Fatal("expected a pending command before the commit")
	}
	if !strings.Contains(m.View(), "divider waits for the edit surface") {
		t.Errorf("expected pending status in view, got:\n%s", m.View())
	}

	next, _ = m.Update(cmd())
	m = next.(editorModel)
	if got := m.session.Text(); got != "\n---\nnote" {
		t.Errorf("expected divider inserted, got %q", got)
	}
	if m.head != 5 {
		t.Errorf("expected head 5, got %d", m.head)
	}
}

func TestDeferredCommandDroppedWithoutSurface(t *testing.T) {
	// No window size yet, so the edit surface is never ready.
	m := feed(newEditorModel(Options{Text: "note"}), tea.KeyMsg{Type: tea.KeyCtrlB})

	if got := m.session.Text(); got != "note" {
		t.Errorf("expected unchanged text, got %q", got)
	}
	if _, ok := m.session.Pending(); ok {
		t.Error("expected pending command to be cleared")
	}
}

func TestTabIndentsBullet(t *testing.T) {
	m := sized(Options{Text: "• "})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyEnd}, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.session.Text(); got != "    • " {
		t.Errorf("expected re-indented bullet, got %q", got)
	}

	m = feed(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.session.Text(); got != "• " {
		t.Errorf("expected outdented bullet, got %q", got)
	}
}

func TestPasteFromClipboard(t *testing.T) {
	clip := fakeClipboard{payload: paste.Payload{HTML: "<ol><li>A</li><li>B</li></ol>", Text: "A\nB"}}
	m := sized(Options{Clipboard: clip})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyCtrlV})

	if got := m.session.Text(); got != "1. A\n2. B\n" {
		t.Errorf("expected numbered import, got %q", got)
	}
}

func TestPasteClipboardError(t *testing.T) {
	m := sized(Options{Clipboard: fakeClipboard{err: errors.New("no xclip")}})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyCtrlV})
	if m.status != "clipboard unavailable" {
		t.Errorf("expected clipboard status, got %q", m.status)
	}
}

func TestBracketedPasteIsNormalized(t *testing.T) {
	m := sized(Options{})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("- a\r\n- b"), Paste: true})
	if got := m.session.Text(); got != "• a\n• b" {
		t.Errorf("expected canonical bullets, got %q", got)
	}
}

func TestEscapeReturnsToDisplay(t *testing.T) {
	m := sized(Options{Text: "• **a**"})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.session.Mode() != session.ModeDisplay {
		t.Fatalf("expected display mode, got %s", m.session.Mode())
	}
	view := m.View()
	if !strings.Contains(view, "DISPLAY") || !strings.Contains(view, "• a") {
		t.Errorf("expected rendered note in view, got:\n%s", view)
	}
}

func TestPreviewExpandToggle(t *testing.T) {
	m := sized(Options{Text: "one\ntwo\nthree\nfour\nfive", PreviewLines: 3})
	if view := m.View(); !strings.Contains(view, "m to show more") || strings.Contains(view, "four") {
		t.Errorf("expected collapsed preview, got:\n%s", view)
	}

	m = feed(m, runes("m"))
	if view := m.View(); !strings.Contains(view, "five") || !strings.Contains(view, "m to show less") {
		t.Errorf("expected expanded note, got:\n%s", view)
	}
}

func TestSave(t *testing.T) {
	var saved string
	m := sized(Options{Text: "a", Save: func(text string) error {
		saved = text
		return nil
	}})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyEnd}, runes("b"), tea.KeyMsg{Type: tea.KeyCtrlS})

	if saved != "ab" {
		t.Errorf("expected saved %q, got %q", "ab", saved)
	}
	if m.dirty || m.status != "saved" {
		t.Errorf("expected clean saved state, got dirty=%v status=%q", m.dirty, m.status)
	}
}

func TestCursorMovement(t *testing.T) {
	m := sized(Options{Text: "abc\nde"})
	m = feed(m, runes("e"), tea.KeyMsg{Type: tea.KeyDown})
	if m.head != 4 {
		t.Errorf("expected head 4 after down, got %d", m.head)
	}

	m = feed(m, tea.KeyMsg{Type: tea.KeyEnd}, tea.KeyMsg{Type: tea.KeyUp})
	if m.head != 2 {
		t.Errorf("expected head 2 after end+up, got %d", m.head)
	}

	m = feed(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.session.Text(); got != "ac\nde" {
		t.Errorf("expected backspace to delete b, got %q", got)
	}

	m = feed(m, tea.KeyMsg{Type: tea.KeyDelete})
	if got := m.session.Text(); got != "a\nde" {
		t.Errorf("expected delete to remove c, got %q", got)
	}
}

func TestRenderDisplayLine(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"• **a** b", "• a b"},
		{"    2. `x`", "  2. x"},
		{"---", "───"},
		{"", ""},
		{"plain *i*", "plain i"},
	}
	for _, tt := range tests {
		if got := renderDisplayLine(tt.raw, 3); got != tt.expected {
			t.Errorf("renderDisplayLine(%q): expected %q, got %q", tt.raw, tt.expected, got)
		}
	}
}

func TestQuitFromDisplay(t *testing.T) {
	m := sized(Options{Text: "x"})
	next, cmd := m.Update(runes("q"))
	m = next.(editorModel)
	if !m.quitting || cmd == nil {
		t.Fatal("expected quit")
	}
	if m.View() != "" {
		t.Errorf("expected empty view after quit, got %q", m.View())
	}
}
