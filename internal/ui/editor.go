package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/stepnotes/internal/clipboard"
	"github.com/gubarz/stepnotes/internal/format"
	"github.com/gubarz/stepnotes/internal/listkeys"
	"github.com/gubarz/stepnotes/internal/logging"
	"github.com/gubarz/stepnotes/internal/markup"
	"github.com/gubarz/stepnotes/internal/paste"
	"github.com/gubarz/stepnotes/internal/render"
	"github.com/gubarz/stepnotes/internal/session"
	"github.com/gubarz/stepnotes/internal/textedit"
)

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Surface Commit
// ============================================================================

// surfaceCommittedMsg arrives after the frame that switched to edit mode
// has been drawn.
type surfaceCommittedMsg struct{}

// commitSurface schedules the one callback a deferred command waits for
func commitSurface() tea.Cmd {
	return func() tea.Msg {
		return surfaceCommittedMsg{}
	}
}

// ============================================================================
// Editor Model
// ============================================================================

// Options configures the editor.
type Options struct {
	Title        string
	Text         string
	PreviewLines int
	RenderOpts   render.Options
	Clipboard    clipboard.Clipboard
	Logger       logging.Logger
	// Save persists the buffer; nil disables ctrl+s.
	Save func(text string) error
}

// editorModel is the Bubble Tea model hosting one note session
type editorModel struct {
	width    int
	height   int
	quitting bool

	session *session.Session
	// anchor and head are the fixed and moving ends of the selection
	anchor int
	head   int

	expanded     bool
	previewLines int
	renderOpts   render.Options
	status       string
	dirty        bool

	keys     keyMap
	help     help.Model
	viewport viewport.Model

	title  string
	clip   clipboard.Clipboard
	save   func(string) error
	logger logging.Logger
}

func newEditorModel(opts Options) editorModel {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	renderOpts := opts.RenderOpts
	if renderOpts == (render.Options{}) {
		renderOpts = render.DefaultOptions()
	}

	return editorModel{
		session: session.New(opts.Text,
			session.WithLogger(logger),
			session.WithRenderOptions(renderOpts)),
		previewLines: opts.PreviewLines,
		renderOpts:   renderOpts,
		keys:         defaultKeyMap(),
		help:         help.New(),
		viewport:     viewport.New(80, 20),
		title:        opts.Title,
		clip:         opts.Clipboard,
		save:         opts.Save,
		logger:       logger,
	}
}

// Init implements tea.Model
func (m editorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-chromeLines, 3)
		return m, nil

	case surfaceCommittedMsg:
		edit, applied := m.session.SurfaceCommitted(m.surfaceReady())
		if applied {
			m.syncSelection(edit.Selection)
			m.dirty = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.session.Mode() == session.ModeEdit {
			cmd := m.handleEditKey(msg)
			return m, cmd
		}
		return m.updateDisplay(msg)
	}
	return m, nil
}

// surfaceReady reports whether the edit surface exists to apply commands on
func (m editorModel) surfaceReady() bool {
	return m.session.Mode() == session.ModeEdit && m.width > 0
}

// updateDisplay handles keys while the note is rendered
func (m editorModel) updateDisplay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit, m.keys.Display):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit):
		m.session.EnterEdit()
		m.syncSelection(m.session.Selection())
		return m, commitSurface()
	case key.Matches(msg, m.keys.Expand):
		m.expanded = !m.expanded
		return m, nil
	}

	if c, ok := m.keys.formatCommand(msg); ok {
		cmd := m.dispatch(c)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleEditKey processes keyboard input on the edit surface
func (m *editorModel) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	if cmd, ok := m.keys.formatCommand(msg); ok {
		return m.dispatch(cmd)
	}

	if msg.Paste {
		m.pastePayload(paste.Payload{Text: string(msg.Runes)})
		return nil
	}

	switch {
	case msg.String() == "ctrl+c":
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Display):
		m.session.Display()
		m.status = ""
		return nil
	case key.Matches(msg, m.keys.Save):
		m.saveBuffer()
		return nil
	case key.Matches(msg, m.keys.Paste):
		m.pasteClipboard()
		return nil
	}

	switch msg.String() {
	case "tab":
		m.listKey(listkeys.Tab)
	case "shift+tab":
		m.listKey(listkeys.ShiftTab)
	case "enter":
		if !m.listKey(listkeys.Enter) {
			m.insert("\n")
		}
	case "backspace":
		m.deleteBackward()
	case "delete":
		m.deleteForward()
	case "left", "right", "up", "down", "home", "end":
		m.move(msg.String(), false)
	case "shift+left", "shift+right", "shift+up", "shift+down", "shift+home", "shift+end":
		m.move(strings.TrimPrefix(msg.String(), "shift+"), true)
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.insert(string(msg.Runes))
		case tea.KeySpace:
			m.insert(" ")
		}
	}
	return nil
}

// dispatch runs a format command, deferring it until the surface commits
func (m *editorModel) dispatch(cmd format.Command) tea.Cmd {
	out := m.session.Dispatch(cmd)
	if out.Deferred {
		m.syncSelection(m.session.Selection())
		return commitSurface()
	}
	m.syncSelection(out.Edit.Selection)
	m.dirty = true
	return nil
}

func (m *editorModel) listKey(k listkeys.Key) bool {
	edit, handled := m.session.Key(k)
	if handled {
		m.syncSelection(edit.Selection)
		m.dirty = true
	}
	return handled
}

func (m *editorModel) pasteClipboard() {
	if m.clip == nil {
		m.status = "no clipboard configured"
		return
	}
	payload, err := m.clip.Read()
	if err != nil {
		m.logger.Warn("clipboard read failed", "error", err)
		m.status = "clipboard unavailable"
		return
	}
	m.pastePayload(payload)
}

func (m *editorModel) pastePayload(p paste.Payload) {
	edit, ok := m.session.Paste(p)
	if ok {
		m.syncSelection(edit.Selection)
		m.dirty = true
	}
}

func (m *editorModel) saveBuffer() {
	if m.save == nil {
		m.status = "nothing to save to"
		return
	}
	if err := m.save(m.session.Text()); err != nil {
		m.logger.Error("save failed", "error", err)
		m.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.dirty = false
	m.status = "saved"
}

// ============================================================================
// Buffer Editing
// ============================================================================

func (m *editorModel) selection() textedit.Selection {
	return textedit.Selection{Start: min(m.anchor, m.head), End: max(m.anchor, m.head)}
}

// syncSelection adopts sel as the current selection. The head ends at End.
func (m *editorModel) syncSelection(sel textedit.Selection) {
	m.anchor, m.head = sel.Start, sel.End
	m.session.Select(sel)
}

func (m *editorModel) replace(start, end int, insert string) {
	runes := []rune(m.session.Text())
	out := textedit.Splice(runes, start, end, insert)
	caret := textedit.Caret(start + textedit.RuneLen(insert))
	m.session.SetText(string(out), caret)
	m.syncSelection(caret)
	m.dirty = true
}

func (m *editorModel) insert(s string) {
	sel := m.selection()
	m.replace(sel.Start, sel.End, s)
}

func (m *editorModel) deleteBackward() {
	sel := m.selection()
	if sel.Collapsed() {
		if sel.Start == 0 {
			return
		}
		sel.Start--
	}
	m.replace(sel.Start, sel.End, "")
}

func (m *editorModel) deleteForward() {
	sel := m.selection()
	if sel.Collapsed() {
		if sel.End >= textedit.RuneLen(m.session.Text()) {
			return
		}
		sel.End++
	}
	m.replace(sel.Start, sel.End, "")
}

// move moves the head; extend keeps the anchor to grow the selection
func (m *editorModel) move(dir string, extend bool) {
	runes := []rune(m.session.Text())
	head := m.head
	start, end := markup.LineBounds(runes, head)

	switch dir {
	case "left":
		head--
	case "right":
		head++
	case "home":
		head = start
	case "end":
		head = end
	case "up":
		if start == 0 {
			head = 0
			break
		}
		ps, pe := markup.LineBounds(runes, start-1)
		head = ps + min(head-start, pe-ps)
	case "down":
		if end >= len(runes) {
			head = len(runes)
			break
		}
		ns, ne := markup.LineBounds(runes, end+1)
		head = ns + min(head-start, ne-ns)
	}

	m.head = clamp(head, 0, len(runes))
	if !extend {
		m.anchor = m.head
	}
	m.session.Select(m.selection())
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
