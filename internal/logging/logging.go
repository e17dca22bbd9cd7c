// Package logging defines the leveled logger used by the session coordinator,
// the terminal host and the CLI. Engine packages never log.
package logging

import "maps"

// Logger is the leveled logging contract. It mirrors go-logger so the
// gologger provider can hand out its child loggers directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(fields map[string]any) Logger
}

// Provider hands out named loggers.
type Provider interface {
	GetLogger(name string) Logger
}

const (
	rootModule    = "stepnotes"
	sessionModule = "stepnotes.session"
	uiModule      = "stepnotes.ui"
	cliModule     = "stepnotes.cli"
)

// ModuleLogger returns the logger for module with a "module" field attached.
// A nil provider yields NoOp.
func ModuleLogger(provider Provider, module string) Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// SessionLogger returns the logger reserved for edit sessions.
func SessionLogger(provider Provider) Logger {
	return ModuleLogger(provider, sessionModule)
}

// UILogger returns the logger reserved for the terminal host.
func UILogger(provider Provider) Logger {
	return ModuleLogger(provider, uiModule)
}

// CLILogger returns the logger reserved for command handlers.
func CLILogger(provider Provider) Logger {
	return ModuleLogger(provider, cliModule)
}

// WithFields attaches a copy of fields to logger. Nil loggers and empty maps
// pass through.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return logger.WithFields(copied)
}

// NoOp returns a logger that drops every entry.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) Logger { return n }
