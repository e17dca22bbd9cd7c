package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gubarz/stepnotes/internal/clipboard"
	"github.com/gubarz/stepnotes/internal/config"
	"github.com/gubarz/stepnotes/internal/errs"
	"github.com/gubarz/stepnotes/internal/export"
	"github.com/gubarz/stepnotes/internal/format"
	"github.com/gubarz/stepnotes/internal/listkeys"
	"github.com/gubarz/stepnotes/internal/logging"
	"github.com/gubarz/stepnotes/internal/notefile"
	"github.com/gubarz/stepnotes/internal/paste"
	"github.com/gubarz/stepnotes/internal/render"
	"github.com/gubarz/stepnotes/internal/ui"
)

// ============================================================================
// Command results
// ============================================================================

func formatResult(req request, name string) (string, error) {
	cmd, err := format.ParseCommand(name)
	if err != nil {
		return "", errs.Invalid(err, "unknown format command")
	}
	return encodeEdit(format.Apply(req.Buffer, req.selection(), cmd), nil)
}

func keyResult(req request, name string) (string, error) {
	k, err := listkeys.ParseKey(name)
	if err != nil {
		return "", errs.Invalid(err, "unknown key")
	}
	edit, handled := listkeys.Handle(req.Buffer, req.selection(), k)
	return encodeEdit(edit, map[string]any{"handled": handled})
}

func pasteResult(req request) (string, error) {
	return encodeEdit(paste.Insert(req.Buffer, req.selection(), req.payload()), nil)
}

func renderResult(text, mode string, opts render.Options) (string, error) {
	blocks := render.RenderWith(text, opts)
	switch mode {
	case "", "json":
		return encodeBlocks(blocks, nil)
	case "html":
		return strings.TrimSuffix(render.HTML(blocks), "\n"), nil
	default:
		return "", errs.Invalid(fmt.Errorf("render format %q", mode), "unsupported render format")
	}
}

func previewResult(text string, lines int, opts render.Options) (string, error) {
	ex := render.Preview(text, lines, opts)
	return encodeBlocks(ex.Blocks, map[string]any{"truncated": ex.Truncated, "long": ex.Long})
}

func exportResult(text, to, title string) (string, error) {
	switch to {
	case "", "markdown", "md":
		return strings.TrimSuffix(export.Markdown(text), "\n"), nil
	case "html":
		doc, err := export.HTML(text, title)
		if err != nil {
			return "", errs.Failed(err, "export failed", errs.CodeFileWrite)
		}
		return strings.TrimSuffix(doc, "\n"), nil
	default:
		return "", errs.Invalid(fmt.Errorf("export target %q", to), "unsupported export target")
	}
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// ============================================================================
// Input
// ============================================================================

// input is the note a command reads, with its title when it came from a file.
type input struct {
	req   request
	title string
}

// readInput resolves the request from, in order: --json on stdin, a note
// file argument, --buffer, or raw stdin.
func readInput(cmd *cobra.Command, args []string, stdin io.Reader) (input, error) {
	var in input
	flags := cmd.Flags()

	if asJSON, _ := flags.GetBool("json"); asJSON {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return in, errs.Failed(err, "read request", errs.CodeFileRead)
		}
		req, err := parseRequest(data)
		if err != nil {
			return in, errs.Invalid(err, "malformed request")
		}
		in.req = req
	} else {
		switch {
		case len(args) > 0:
			note, err := notefile.Load(args[0])
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return in, errs.Failed(err, "note file not found", errs.CodeFileRead)
				}
				return in, errs.Invalid(err, "unreadable note file")
			}
			in.req.Buffer, in.title = note.Body, note.Meta.Title
		case flags.Changed("buffer"):
			in.req.Buffer, _ = flags.GetString("buffer")
		default:
			data, err := io.ReadAll(stdin)
			if err != nil {
				return in, errs.Failed(err, "read stdin", errs.CodeFileRead)
			}
			in.req.Buffer = string(data)
		}

		start, _ := flags.GetInt("start")
		end, _ := flags.GetInt("end")
		if !flags.Changed("end") {
			end = start
		}
		in.req.Start, in.req.End = start, end
	}

	if err := in.req.Validate(); err != nil {
		return in, errs.Invalid(err, "request rejected")
	}
	return in, nil
}

func renderOptions() render.Options {
	return render.Options{IndentStep: config.GetIndentStep(), SpacerHeight: config.GetSpacerHeight()}
}

// emit delivers a result according to the output mode.
func emit(result string) error {
	sink := clipboard.Sink{
		Mode:      clipboard.OutputMode(config.GetOutput()),
		Out:       resultOut,
		Clipboard: clipboard.System{},
	}
	if err := sink.Write(result); err != nil {
		return errs.Failed(err, "deliver result", errs.CodeClipboard)
	}
	return nil
}

// ============================================================================
// Handlers
// ============================================================================

func runFormat(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args[1:], os.Stdin)
	if err != nil {
		return err
	}
	out, err := formatResult(in.req, args[0])
	if err != nil {
		return err
	}
	cliLogger().Debug("format applied", "command", args[0])
	return emit(out)
}

func runKey(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args[1:], os.Stdin)
	if err != nil {
		return err
	}
	out, err := keyResult(in.req, args[0])
	if err != nil {
		return err
	}
	return emit(out)
}

func runPaste(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args, os.Stdin)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if fromClip, _ := flags.GetBool("clipboard"); fromClip {
		payload, err := (clipboard.System{}).Read()
		if err != nil {
			return errs.Failed(err, "read clipboard", errs.CodeClipboard)
		}
		in.req.HTML, in.req.Text = payload.HTML, payload.Text
	}
	if flags.Changed("html") {
		in.req.HTML, _ = flags.GetString("html")
	}
	if flags.Changed("text") {
		in.req.Text, _ = flags.GetString("text")
	}

	out, err := pasteResult(in.req)
	if err != nil {
		return err
	}
	return emit(out)
}

func runRender(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args, os.Stdin)
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("format")
	out, err := renderResult(in.req.Buffer, mode, renderOptions())
	if err != nil {
		return err
	}
	return emit(out)
}

func runPreview(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args, os.Stdin)
	if err != nil {
		return err
	}
	lines, _ := cmd.Flags().GetInt("lines")
	if !cmd.Flags().Changed("lines") {
		lines = config.GetPreviewLines()
	}
	out, err := previewResult(in.req.Buffer, lines, renderOptions())
	if err != nil {
		return err
	}
	return emit(out)
}

func runExport(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args, os.Stdin)
	if err != nil {
		return err
	}
	to, _ := cmd.Flags().GetString("to")
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = in.title
	}
	out, err := exportResult(in.req.Buffer, to, title)
	if err != nil {
		return err
	}
	return emit(out)
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := args[0]
	title, _ := cmd.Flags().GetString("title")

	note, err := notefile.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		note = notefile.New(title, "")
	default:
		return errs.Invalid(err, "unreadable note file")
	}
	if title != "" {
		note.Meta.Title = title
	}

	logger := logging.UILogger(logProvider)
	save := func(text string) error {
		note.Body = text
		if err := notefile.Save(path, note); err != nil {
			return errs.Failed(err, "save note", errs.CodeFileWrite)
		}
		logger.Info("note saved", "path", path, "id", note.Meta.ID)
		return nil
	}

	_, err = ui.RunEditor(ui.Options{
		Title:        note.Meta.Title,
		Text:         note.Body,
		PreviewLines: config.GetPreviewLines(),
		RenderOpts:   renderOptions(),
		Clipboard:    clipboard.System{},
		Logger:       logging.SessionLogger(logProvider),
		Save:         save,
	})
	if err != nil {
		return errs.Failed(err, "editor failed", errs.CodeEditor)
	}
	return nil
}

