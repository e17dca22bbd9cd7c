// Package clipboard reads paste payloads from the system clipboard and
// routes CLI results to stdout or the clipboard.
package clipboard

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"

	"github.com/atotto/clipboard"

	"github.com/gubarz/stepnotes/internal/paste"
)

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
	Read() (paste.Payload, error)
}

// System implements Clipboard with atotto/clipboard for plain text and the
// platform paste tools for the HTML flavor.
type System struct{}

var _ Clipboard = System{}

// Copy copies text to the system clipboard
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Read returns both flavors of the clipboard. A missing HTML flavor is not
// an error; the plain text fallback is always attempted.
func (System) Read() (paste.Payload, error) {
	if clipboard.Unsupported {
		return paste.Payload{}, fmt.Errorf("clipboard: no clipboard utility available")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return paste.Payload{}, fmt.Errorf("clipboard: read text: %w", err)
	}
	return paste.Payload{HTML: readHTML(), Text: text}, nil
}

// readHTML asks the first available paste tool for the text/html target.
func readHTML() string {
	cmd := findHTMLCommand()
	if cmd == nil {
		return ""
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return ""
	}
	return out.String()
}

// findHTMLCommand returns the appropriate HTML paste command for the system
func findHTMLCommand() *exec.Cmd {
	switch {
	case commandExists("wl-paste"):
		return exec.Command("wl-paste", "--no-newline", "--type", "text/html")
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard", "-target", "text/html", "-out")
	default:
		return nil
	}
}

// commandExists checks if a command is available in PATH
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// OutputMode represents where a result goes
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputCopy  OutputMode = "copy"
)

// Sink delivers results according to an OutputMode.
type Sink struct {
	Mode      OutputMode
	Out       io.Writer
	Clipboard Clipboard
}

// Write delivers text. Copy mode falls back to printing when no clipboard
// is configured.
func (s Sink) Write(text string) error {
	if s.Mode == OutputCopy && s.Clipboard != nil {
		if err := s.Clipboard.Copy(text); err != nil {
			return fmt.Errorf("clipboard: copy: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintln(s.Out, text)
	return err
}
