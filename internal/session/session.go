// Package session coordinates one note field: its buffer, its selection and
// its display/edit mode. It routes commands, keys and pastes to the engine
// packages and owns the single deferred retry of a command issued while the
// field is still being displayed.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/gubarz/stepnotes/internal/format"
	"github.com/gubarz/stepnotes/internal/listkeys"
	"github.com/gubarz/stepnotes/internal/logging"
	"github.com/gubarz/stepnotes/internal/paste"
	"github.com/gubarz/stepnotes/internal/render"
	"github.com/gubarz/stepnotes/internal/textedit"
)

// Mode is the presentation state of a note field.
type Mode int

const (
	ModeDisplay Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "display"
}

// PendingCommand is a format command waiting for the edit surface.
type PendingCommand struct {
	Command   format.Command
	Selection textedit.Selection
	IssuedAt  time.Time
}

// Outcome reports what Dispatch did.
type Outcome struct {
	Edit textedit.Edit
	// Deferred is set when the command was parked until SurfaceCommitted.
	Deferred bool
}

// Session is not safe for concurrent use; the host dispatches one action at
// a time.
type Session struct {
	id           uuid.UUID
	text         string
	sel          textedit.Selection
	mode         Mode
	surfaceReady bool
	pending      *PendingCommand
	renderOpts   render.Options

	logger logging.Logger
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithID fixes the session id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// WithRenderOptions sets the geometry used by Display.
func WithRenderOptions(opts render.Options) Option {
	return func(s *Session) { s.renderOpts = opts }
}

// WithClock replaces time.Now for PendingCommand timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a session in display mode over text.
func New(text string, opts ...Option) *Session {
	s := &Session{
		id:         uuid.New(),
		renderOpts: render.DefaultOptions(),
		logger:     logging.NoOp(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithFields(s.logger, map[string]any{"session": s.id.String()})
	s.Open(text)
	return s
}

// Open replaces the document, resets the selection to (0,0) and returns to
// display mode. Any pending command is discarded.
func (s *Session) Open(text string) {
	s.text = text
	s.sel = textedit.Caret(0)
	s.mode = ModeDisplay
	s.surfaceReady = false
	if s.pending != nil {
		s.logger.Debug("pending command discarded on open", "command", s.pending.Command.String())
		s.pending = nil
	}
}

func (s *Session) ID() uuid.UUID                 { return s.id }
func (s *Session) Text() string                  { return s.text }
func (s *Session) Selection() textedit.Selection { return s.sel }
func (s *Session) Mode() Mode                    { return s.mode }

// Pending returns a copy of the parked command, if any.
func (s *Session) Pending() (PendingCommand, bool) {
	if s.pending == nil {
		return PendingCommand{}, false
	}
	return *s.pending, true
}

// EnterEdit switches to edit mode. The surface is not ready until the host
// reports SurfaceCommitted.
func (s *Session) EnterEdit() {
	if s.mode == ModeEdit {
		return
	}
	s.mode = ModeEdit
	s.surfaceReady = false
	s.logger.Debug("entered edit mode")
}

// Display switches to display mode and renders the document. A command still
// waiting for the surface is dropped.
func (s *Session) Display() []render.Block {
	if s.pending != nil {
		s.logger.Info("pending command dropped on display", "command", s.pending.Command.String())
		s.pending = nil
	}
	s.mode = ModeDisplay
	s.surfaceReady = false
	return render.RenderWith(s.text, s.renderOpts)
}

// Select moves the selection. Offsets are clamped to the buffer.
func (s *Session) Select(sel textedit.Selection) {
	s.sel = sel.Normalize(textedit.RuneLen(s.text))
}

// SetText replaces the buffer from the edit surface, e.g. after typing.
func (s *Session) SetText(text string, sel textedit.Selection) {
	s.text = text
	s.Select(sel)
}

// Dispatch applies cmd at the current selection. Outside a ready edit
// surface the command is parked and the session switches to edit mode; the
// host must then call SurfaceCommitted exactly once. A newer command replaces
// an older parked one.
func (s *Session) Dispatch(cmd format.Command) Outcome {
	if s.mode == ModeEdit && s.surfaceReady {
		return Outcome{Edit: s.apply(cmd, s.sel)}
	}

	if s.pending != nil {
		s.logger.Debug("pending command replaced",
			"previous", s.pending.Command.String(), "command", cmd.String())
	}
	s.EnterEdit()
	s.pending = &PendingCommand{Command: cmd, Selection: s.sel, IssuedAt: s.now()}
	s.logger.Debug("command deferred until edit surface commits", "command", cmd.String())
	return Outcome{Edit: textedit.Unchanged(s.text, s.sel), Deferred: true}
}

// SurfaceCommitted is called by the host once after the edit surface has
// rendered. When ready the parked command runs; otherwise it is dropped.
// The pending slot is cleared in both cases. It reports whether a command
// was applied.
func (s *Session) SurfaceCommitted(ready bool) (textedit.Edit, bool) {
	if s.mode == ModeEdit {
		s.surfaceReady = ready
	}

	p := s.pending
	s.pending = nil
	if p == nil {
		return textedit.Unchanged(s.text, s.sel), false
	}

	if !ready || s.mode != ModeEdit {
		s.logger.Warn("edit surface not ready, command dropped",
			"command", p.Command.String(), "waited", s.now().Sub(p.IssuedAt).String())
		return textedit.Unchanged(s.text, s.sel), false
	}
	return s.apply(p.Command, p.Selection), true
}

func (s *Session) apply(cmd format.Command, sel textedit.Selection) textedit.Edit {
	edit := format.Apply(s.text, sel, cmd)
	s.text, s.sel = edit.Text, edit.Selection
	s.logger.Trace("command applied", "command", cmd.String(),
		"start", s.sel.Start, "end", s.sel.End)
	return edit
}

// Key runs a list key in edit mode. It reports whether the key was consumed;
// unconsumed keys fall through to the host's default handling.
func (s *Session) Key(key listkeys.Key) (textedit.Edit, bool) {
	if s.mode != ModeEdit {
		return textedit.Unchanged(s.text, s.sel), false
	}
	edit, handled := listkeys.Handle(s.text, s.sel, key)
	if handled {
		s.text, s.sel = edit.Text, edit.Selection
	}
	return edit, handled
}

// Paste replaces the selection with the normalized payload. It is ignored in
// display mode.
func (s *Session) Paste(p paste.Payload) (textedit.Edit, bool) {
	if s.mode != ModeEdit {
		return textedit.Unchanged(s.text, s.sel), false
	}
	edit := paste.Insert(s.text, s.sel, p)
	s.text, s.sel = edit.Text, edit.Selection
	s.logger.Trace("paste inserted", "html", p.HTML != "", "caret", s.sel.Start)
	return edit, true
}
