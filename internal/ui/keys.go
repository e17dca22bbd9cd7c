package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gubarz/stepnotes/internal/format"
)

// keyMap holds the bindings shown in the help line. Editing selects which set
// ShortHelp reports.
type keyMap struct {
	Bold     key.Binding
	Italic   key.Binding
	Code     key.Binding
	Bullet   key.Binding
	Numbered key.Binding
	Divider  key.Binding
	Paste    key.Binding
	Save     key.Binding
	Display  key.Binding
	Edit     key.Binding
	Expand   key.Binding
	Quit     key.Binding

	editing bool
}

func defaultKeyMap() keyMap {
	return keyMap{
		Bold:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("^B", "bold")),
		Italic:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^T", "italic")),
		Code:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("^K", "code")),
		Bullet:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "bullets")),
		Numbered: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^N", "numbers")),
		Divider:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^D", "divider")),
		Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("^V", "paste")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "save")),
		Display:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "display")),
		Edit:     key.NewBinding(key.WithKeys("e", "i", "enter"), key.WithHelp("e", "edit")),
		Expand:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more/less")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	if k.editing {
		return []key.Binding{k.Bold, k.Italic, k.Code, k.Bullet, k.Numbered, k.Divider, k.Paste, k.Save, k.Display}
	}
	return []key.Binding{k.Edit, k.Expand, k.Bold, k.Bullet, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bold, k.Italic, k.Code},
		{k.Bullet, k.Numbered, k.Divider},
		{k.Paste, k.Save, k.Display, k.Edit, k.Expand, k.Quit},
	}
}

// formatCommand maps a key to a format command.
func (k keyMap) formatCommand(msg tea.KeyMsg) (format.Command, bool) {
	bindings := []struct {
		binding key.Binding
		cmd     format.Command
	}{
		{k.Bold, format.Bold},
		{k.Italic, format.Italic},
		{k.Code, format.Code},
		{k.Bullet, format.Bullet},
		{k.Numbered, format.Numbered},
		{k.Divider, format.Divider},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.cmd, true
		}
	}
	return 0, false
}
