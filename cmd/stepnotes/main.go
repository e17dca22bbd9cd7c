package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/stepnotes/internal/config"
	"github.com/gubarz/stepnotes/internal/errs"
	"github.com/gubarz/stepnotes/internal/format"
	"github.com/gubarz/stepnotes/internal/logging"
	"github.com/gubarz/stepnotes/internal/logging/gologger"
)

var version = "0.1.0"

var (
	// resultOut receives command results. Logs never share it.
	resultOut io.Writer = os.Stdout
	// logProvider stays nil for the editor without a log file.
	logProvider logging.Provider
	logCloser   func()
)

var rootCmd = &cobra.Command{
	Use:   "stepnotes",
	Short: "Structured note editing for step-by-step notes",
	Long: `Edit notes made of paragraphs, bulleted and numbered steps and
dividers, written in a small inline markup (**bold**, *italic*, ` + "`code`" + `).

Open a note interactively with "stepnotes edit", or drive the editing
engine from scripts with the format, key, paste and render commands.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			logCloser()
		}
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Open a note in the interactive editor",
	Long: `Opens the note in display mode. Press e to edit, esc to return to
the rendered view, ctrl+s to save. A missing file is created on save.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var formatCmd = &cobra.Command{
	Use:       "format <command> [file]",
	Short:     "Apply a formatting command to the selection",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: format.CommandNames(),
	RunE:      runFormat,
}

var keyCmd = &cobra.Command{
	Use:       "key <enter|tab|shift+tab> [file]",
	Short:     "Apply list continuation for a keystroke",
	Long:      `Prints the resulting edit and whether the key was handled. An unhandled key leaves the buffer unchanged.`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"enter", "tab", "shift+tab"},
	RunE:      runKey,
}

var pasteCmd = &cobra.Command{
	Use:   "paste [file]",
	Short: "Insert clipboard content, converting HTML lists to notation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPaste,
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a note to display blocks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render the first lines of a note",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a note as Markdown or a standalone HTML page",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(editCmd, formatCmd, keyCmd, pasteCmd, renderCmd, previewCmd, exportCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output mode: print, copy")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	for _, c := range []*cobra.Command{formatCmd, keyCmd, pasteCmd, renderCmd, previewCmd, exportCmd} {
		c.Flags().Bool("json", false, "Read a JSON request from stdin")
		c.Flags().String("buffer", "", "Note text to operate on")
		c.Flags().Int("start", 0, "Selection start (rune offset)")
		c.Flags().Int("end", 0, "Selection end (defaults to --start)")
	}

	pasteCmd.Flags().String("html", "", "HTML flavor of the pasted content")
	pasteCmd.Flags().String("text", "", "Plain text flavor of the pasted content")
	pasteCmd.Flags().Bool("clipboard", false, "Read the payload from the system clipboard")

	renderCmd.Flags().String("format", "json", "Output format: json, html")
	previewCmd.Flags().Int("lines", 0, "Lines to show (defaults to preview_lines)")

	exportCmd.Flags().String("to", "markdown", "Export target: markdown, html")
	exportCmd.Flags().String("title", "", "Document title (defaults to the note title)")

	editCmd.Flags().String("title", "", "Title for the note")
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// setupLogging builds the log provider. go-logger writes to os.Stdout, so
// stdout is pointed at stderr or the log file first and results keep the
// original stream. The editor logs nowhere unless log_file is set.
func setupLogging(cmd *cobra.Command, _ []string) error {
	interactive := cmd == editCmd
	logFile := config.GetLogFile()

	if interactive && logFile == "" {
		return nil
	}

	sink := os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errs.Failed(err, "open log file", errs.CodeConfig)
		}
		sink = f
		logCloser = func() { f.Close() }
	}

	os.Stdout = sink
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  config.GetLogLevel(),
		Format: config.GetLogFormat(),
	})
	if err != nil {
		return errs.Invalid(err, "invalid logging config")
	}
	logProvider = provider
	return nil
}

func cliLogger() logging.Logger {
	return logging.CLILogger(logProvider)
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		cliLogger().Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(errs.ExitCode(err))
	}
}
