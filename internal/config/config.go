package config

import (
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	NotesDir      string `mapstructure:"notes_dir"`
	Output        string `mapstructure:"output"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	IndentStep    int    `mapstructure:"indent_step"`
	SpacerHeight  int    `mapstructure:"spacer_height"`
	PreviewLines  int    `mapstructure:"preview_lines"`
	ColorBold     string `mapstructure:"color_bold"`
	ColorCode     string `mapstructure:"color_code"`
	ColorMarker   string `mapstructure:"color_marker"`
	ColorDim      string `mapstructure:"color_dim"`
	ColorBorder   string `mapstructure:"color_border"`
	ColorSelected string `mapstructure:"color_selected"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	setDefaults()

	viper.SetConfigName("stepnotes")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "stepnotes"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("STEPNOTES")
	viper.AutomaticEnv()

	// A missing or malformed config file leaves the defaults in place
	_ = viper.ReadInConfig()

	if err := viper.Unmarshal(&C); err != nil {
		return err
	}
	return C.Validate()
}

func setDefaults() {
	viper.SetDefault("notes_dir", ".")
	viper.SetDefault("output", "print")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("log_file", "")

	// Display geometry in px, matching the rendered HTML blocks
	viper.SetDefault("indent_step", 20)
	viper.SetDefault("spacer_height", 8)
	viper.SetDefault("preview_lines", 3)

	viper.SetDefault("color_bold", "15")     // White
	viper.SetDefault("color_code", "33")     // Yellow
	viper.SetDefault("color_marker", "36")   // Cyan
	viper.SetDefault("color_dim", "90")      // Gray
	viper.SetDefault("color_border", "240")  // Dark gray
	viper.SetDefault("color_selected", "34") // Blue
}

// Validate rejects values the renderer and host cannot use.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Output, validation.In("print", "copy")),
		validation.Field(&c.LogFormat, validation.In("console", "json", "pretty")),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "warning", "error")),
		validation.Field(&c.IndentStep, validation.Min(1)),
		validation.Field(&c.SpacerHeight, validation.Min(1)),
		validation.Field(&c.PreviewLines, validation.Min(0)),
	)
}

// GetNotesDir returns the notes directory with tilde expansion
func GetNotesDir() string {
	return expandTilde(viper.GetString("notes_dir"))
}

// GetLogFile returns the log file path with tilde expansion, or "" to discard
func GetLogFile() string {
	return expandTilde(viper.GetString("log_file"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetLogLevel returns the go-logger level name
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetLogFormat returns console, json or pretty
func GetLogFormat() string {
	return viper.GetString("log_format")
}

// GetIndentStep returns the px padding per list indent level
func GetIndentStep() int {
	return viper.GetInt("indent_step")
}

// GetSpacerHeight returns the px height of a blank-line spacer
func GetSpacerHeight() int {
	return viper.GetInt("spacer_height")
}

// GetPreviewLines returns how many lines a collapsed preview shows
func GetPreviewLines() int {
	return viper.GetInt("preview_lines")
}

// GetColorBold returns ANSI color code for bold spans
func GetColorBold() string {
	return viper.GetString("color_bold")
}

// GetColorCode returns ANSI color code for code spans
func GetColorCode() string {
	return viper.GetString("color_code")
}

// GetColorMarker returns ANSI color code for list markers
func GetColorMarker() string {
	return viper.GetString("color_marker")
}

// GetColorDim returns ANSI color code for dividers and hints
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorBorder returns ANSI color code for the editor border
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorSelected returns ANSI color code for the selection highlight
func GetColorSelected() string {
	return viper.GetString("color_selected")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetLogLevel sets the log level at runtime
func SetLogLevel(level string) {
	viper.Set("log_level", level)
	C.LogLevel = level
}
