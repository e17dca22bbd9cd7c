package session

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gubarz/stepnotes/internal/format"
	"github.com/gubarz/stepnotes/internal/listkeys"
	"github.com/gubarz/stepnotes/internal/logging"
	"github.com/gubarz/stepnotes/internal/paste"
	"github.com/gubarz/stepnotes/internal/render"
	"github.com/gubarz/stepnotes/internal/textedit"
)

type warnCounter struct {
	warns int
}

func (w *warnCounter) Trace(string, ...any)                     {}
func (w *warnCounter) Debug(string, ...any)                     {}
func (w *warnCounter) Info(string, ...any)                      {}
func (w *warnCounter) Warn(string, ...any)                      { w.warns++ }
func (w *warnCounter) Error(string, ...any)                     {}
func (w *warnCounter) WithFields(map[string]any) logging.Logger { return w }

func readySession(text string) *Session {
	s := New(text)
	s.EnterEdit()
	s.SurfaceCommitted(true)
	return s
}

func TestNewStartsInDisplay(t *testing.T) {
	s := New("hello")
	if s.Mode() != ModeDisplay {
		t.Errorf("expected display mode, got %s", s.Mode())
	}
	if s.Selection() != textedit.Caret(0) {
		t.Errorf("expected caret 0, got %+v", s.Selection())
	}
	if s.ID() == uuid.Nil {
		t.Error("expected generated id")
	}
}

func TestDispatchImmediateInReadyEdit(t *testing.T) {
	s := readySession("milk")
	s.Select(textedit.Selection{Start: 0, End: 4})

	out := s.Dispatch(format.Bold)
	if out.Deferred {
		t.Fatal("expected immediate application")
	}
	if s.Text() != "**milk**" {
		t.Errorf("expected %q, got %q", "**milk**", s.Text())
	}
	if s.Selection() != (textedit.Selection{Start: 0, End: 8}) {
		t.Errorf("expected selection 0..8, got %+v", s.Selection())
	}
}

func TestDispatchFromDisplayDefersOnce(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New("a", WithClock(func() time.Time { return issued }))

	out := s.Dispatch(format.Divider)
	if !out.Deferred {
		t.Fatal("expected deferred outcome")
	}
	if s.Mode() != ModeEdit {
		t.Errorf("expected edit mode, got %s", s.Mode())
	}
	if out.Edit.Text != "a" {
		t.Errorf("expected buffer untouched, got %q", out.Edit.Text)
	}

	p, ok := s.Pending()
	if !ok || p.Command != format.Divider || !p.IssuedAt.Equal(issued) {
		t.Fatalf("expected pending divider, got %+v (%v)", p, ok)
	}

	edit, applied := s.SurfaceCommitted(true)
	if !applied {
		t.Fatal("expected pending command to apply")
	}
	if edit.Text != "\n---\na" || edit.Selection != textedit.Caret(5) {
		t.Errorf("expected divider at 0, got %q %+v", edit.Text, edit.Selection)
	}
	if _, ok := s.Pending(); ok {
		t.Error("expected pending slot cleared")
	}

	// A second commit has nothing left to retry.
	if _, applied := s.SurfaceCommitted(true); applied {
		t.Error("expected no second application")
	}
}

func TestSurfaceNotReadyDropsCommand(t *testing.T) {
	log := &warnCounter{}
	s := New("a", WithLogger(log))
	s.Dispatch(format.Bullet)

	edit, applied := s.SurfaceCommitted(false)
	if applied {
		t.Fatal("expected command to be dropped")
	}
	if edit.Text != "a" {
		t.Errorf("expected unchanged buffer, got %q", edit.Text)
	}
	if _, ok := s.Pending(); ok {
		t.Error("expected pending slot cleared after drop")
	}
	if log.warns != 1 {
		t.Errorf("expected 1 warning, got %d", log.warns)
	}
}

func TestNewerCommandReplacesPending(t *testing.T) {
	s := New("x")
	s.Dispatch(format.Bold)
	s.Dispatch(format.Code)

	p, _ := s.Pending()
	if p.Command != format.Code {
		t.Fatalf("expected code pending, got %s", p.Command)
	}
	s.Select(textedit.Selection{Start: 0, End: 1})
	edit, _ := s.SurfaceCommitted(true)
	// The parked selection wins over later selection changes.
	if edit.Text != "``x" {
		t.Errorf("expected code wrap at the parked caret, got %q", edit.Text)
	}
}

func TestDisplayDropsPendingAndRenders(t *testing.T) {
	s := New("• a")
	s.Dispatch(format.Bold)

	blocks := s.Display()
	if s.Mode() != ModeDisplay {
		t.Errorf("expected display mode, got %s", s.Mode())
	}
	if _, ok := s.Pending(); ok {
		t.Error("expected pending command dropped")
	}
	if len(blocks) != 1 || blocks[0].Kind != render.KindBullet {
		t.Errorf("expected one bullet block, got %+v", blocks)
	}
}

func TestOpenResetsState(t *testing.T) {
	s := readySession("old text")
	s.Select(textedit.Selection{Start: 2, End: 5})
	s.Open("new")

	if s.Text() != "new" || s.Selection() != textedit.Caret(0) || s.Mode() != ModeDisplay {
		t.Errorf("expected reset session, got %q %+v %s", s.Text(), s.Selection(), s.Mode())
	}
}

func TestKeyOnlyInEdit(t *testing.T) {
	s := New("• Buy milk")
	s.Select(textedit.Caret(10))
	if _, handled := s.Key(listkeys.Enter); handled {
		t.Fatal("expected key ignored in display mode")
	}

	s.EnterEdit()
	s.SurfaceCommitted(true)
	s.Select(textedit.Caret(10))
	edit, handled := s.Key(listkeys.Enter)
	if !handled {
		t.Fatal("expected enter handled")
	}
	if edit.Text != "• Buy milk\n• " || edit.Selection != textedit.Caret(13) {
		t.Errorf("expected continuation, got %q %+v", edit.Text, edit.Selection)
	}
	if s.Text() != edit.Text {
		t.Errorf("expected session buffer updated, got %q", s.Text())
	}
}

func TestPasteOnlyInEdit(t *testing.T) {
	s := New("")
	payload := paste.Payload{HTML: "<ul><li>A</li><li>B</li></ul>"}
	if _, ok := s.Paste(payload); ok {
		t.Fatal("expected paste ignored in display mode")
	}

	s.EnterEdit()
	edit, ok := s.Paste(payload)
	if !ok {
		t.Fatal("expected paste applied in edit mode")
	}
	if edit.Text != "• A\n• B\n" || edit.Selection != textedit.Caret(8) {
		t.Errorf("expected list import, got %q %+v", edit.Text, edit.Selection)
	}
}

func TestSelectClamps(t *testing.T) {
	s := New("abc")
	s.Select(textedit.Selection{Start: 9, End: -1})
	if s.Selection() != (textedit.Selection{Start: 0, End: 3}) {
		t.Errorf("expected 0..3, got %+v", s.Selection())
	}
}

func TestWithRenderOptions(t *testing.T) {
	s := New("• a", WithRenderOptions(render.Options{IndentStep: 10, SpacerHeight: 4}), WithID(uuid.Nil))
	blocks := s.Display()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
}
