package ui

import (
	"fmt"
	"strings"

	"github.com/gubarz/stepnotes/internal/markup"
	"github.com/gubarz/stepnotes/internal/render"
	"github.com/gubarz/stepnotes/internal/session"
)

// chromeLines is the height taken by title, border, status and help
const chromeLines = 5

// View implements tea.Model
func (m editorModel) View() string {
	if m.quitting {
		return ""
	}

	width := max(m.width, 40)
	editing := m.session.Mode() == session.ModeEdit

	var body string
	if editing {
		body = m.renderEdit()
	} else {
		vp := m.viewport
		vp.SetContent(m.renderDisplay(width - 4))
		body = vp.View()
	}

	keys := m.keys
	keys.editing = editing

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(styles.Border.Width(width - 2).Render(body))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

// renderTitle renders the note title and mode badge
func (m editorModel) renderTitle() string {
	title := m.title
	if title == "" {
		title = "untitled note"
	}
	if m.dirty {
		title += " ●"
	}

	badge := styles.ModeDisplay.Render("DISPLAY")
	if m.session.Mode() == session.ModeEdit {
		badge = styles.ModeEdit.Render("EDIT")
	}
	return styles.Title.Render(title) + "  " + badge
}

// renderStatus renders the transient status line
func (m editorModel) renderStatus() string {
	if p, ok := m.session.Pending(); ok {
		return styles.Dim.Render(fmt.Sprintf("%s waits for the edit surface", p.Command))
	}
	if m.status != "" {
		return styles.Status.Render(m.status)
	}
	sel := m.selection()
	return styles.Dim.Render(fmt.Sprintf("%d:%d", sel.Start, sel.End))
}

// renderEdit renders the raw buffer with cursor and selection
func (m editorModel) renderEdit() string {
	runes := []rune(m.session.Text())
	sel := m.selection()
	cursor := sel.Collapsed()

	b := getBuilder()
	defer putBuilder(b)
	for i, r := range runes {
		atHead := cursor && i == m.head
		switch {
		case r == '\n':
			if atHead {
				b.WriteString(styles.Cursor.Render(" "))
			}
			b.WriteRune('\n')
		case atHead:
			b.WriteString(styles.Cursor.Render(string(r)))
		case i >= sel.Start && i < sel.End:
			b.WriteString(styles.Selected.Render(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	if cursor && m.head >= len(runes) {
		b.WriteString(styles.Cursor.Render(" "))
	}
	return b.String()
}

// renderDisplay renders the note the way a reader sees it, collapsed to
// the preview lines unless expanded
func (m editorModel) renderDisplay(width int) string {
	text := m.session.Text()
	if text == "" {
		return styles.Dim.Render("no notes yet • e to edit")
	}

	lines := markup.SplitLines(text)
	excerpt := render.Preview(text, m.previewLines, m.renderOpts)
	if !m.expanded {
		lines = lines[:len(excerpt.Blocks)]
	}

	b := getBuilder()
	defer putBuilder(b)
	for i, raw := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderDisplayLine(raw, width))
	}

	switch {
	case m.expanded && excerpt.Long:
		b.WriteString("\n" + styles.Dim.Render("m to show less"))
	case !m.expanded && excerpt.Truncated:
		b.WriteString("\n" + styles.Dim.Render("… m to show more"))
	}
	return b.String()
}

// renderDisplayLine renders one classified line with styled spans
func renderDisplayLine(raw string, width int) string {
	line := markup.ClassifyLine(raw)
	indent := strings.Repeat("  ", line.Indent)

	switch line.Kind {
	case markup.Divider:
		return styles.Rule.Render(strings.Repeat("─", max(width, 1)))
	case markup.Bulleted:
		return indent + styles.Marker.Render("•") + " " + renderSpans(line.Content)
	case markup.Numbered:
		return indent + styles.Marker.Render(fmt.Sprintf("%d.", line.Number)) + " " + renderSpans(line.Content)
	}
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return renderSpans(raw)
}

func renderSpans(text string) string {
	b := getBuilder()
	defer putBuilder(b)
	for _, sp := range markup.ParseInline(text) {
		b.WriteString(styles.Span(sp))
	}
	return b.String()
}
