package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProvider(t *testing.T) {
	for _, format := range []string{"", "console", "json", "pretty"} {
		p, err := NewProvider(Config{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format %q: unexpected error: %v", format, err)
		}
		logger := p.GetLogger("stepnotes.test")
		if logger == nil {
			t.Fatalf("format %q: expected logger, got nil", format)
		}
		logger.WithFields(map[string]any{"module": "stepnotes.test"}).Debug("provider.ready")
	}
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format, got nil")
	}
}

func TestNilProviderIsNoOp(t *testing.T) {
	var p *Provider
	p.GetLogger("x").Info("dropped")
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"TRACE", glog.Trace},
		{" debug ", glog.Debug},
		{"info", glog.Info},
		{"warning", glog.Warn},
		{"error", glog.Error},
		{"loud", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeLevel(tt.in); got != tt.expected {
			t.Errorf("normalizeLevel(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}

func TestAdapterDelegates(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace", "key", "value")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")

	fields := map[string]any{"note": "first"}
	adapted.WithFields(fields)
	fields["note"] = "second"

	if len(stub.fields) != 1 || stub.fields[0]["note"] != "first" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}

	expected := []string{"trace", "debug", "info", "warn", "error"}
	if len(stub.calls) != len(expected) {
		t.Fatalf("expected %d calls, got %d", len(expected), len(stub.calls))
	}
	for i, want := range expected {
		if stub.calls[i] != want {
			t.Errorf("call %d: expected %q, got %q", i, want, stub.calls[i])
		}
	}
}

type stubLogger struct {
	calls  []string
	fields []map[string]any
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(context.Context) glog.Logger { return s }

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, fields)
	return s
}
