package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger restores the default logger for test isolation.
func resetLogger() {
	Init(Options{})
}

func TestOptions_Level(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want slog.Level
	}{
		{"default", Options{}, slog.LevelInfo},
		{"debug", Options{Debug: true}, slog.LevelDebug},
		{"quiet", Options{Quiet: true}, slog.LevelError},
		{"quiet overrides debug", Options{Debug: true, Quiet: true}, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		visible []string
		hidden  []string
	}{
		{
			name:    "default",
			visible: []string{"info-msg", "warn-msg", "error-msg"},
			hidden:  []string{"debug-msg"},
		},
		{
			name:    "debug",
			opts:    Options{Debug: true},
			visible: []string{"debug-msg", "info-msg", "warn-msg", "error-msg"},
		},
		{
			name:    "quiet",
			opts:    Options{Quiet: true, Debug: true},
			visible: []string{"error-msg"},
			hidden:  []string{"debug-msg", "info-msg", "warn-msg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("debug-msg")
			Info("info-msg")
			Warn("warn-msg")
			Error("error-msg")

			out := buf.String()
			for _, s := range tt.visible {
				if !strings.Contains(out, s) {
					t.Errorf("expected %q to be logged", s)
				}
			}
			for _, s := range tt.hidden {
				if strings.Contains(out, s) {
					t.Errorf("expected %q to be filtered", s)
				}
			}
		})
	}
}

func TestInit_Formats(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		contains []string
	}{
		{"text", Options{}, []string{"level=INFO", "msg=hello", "stage=beautify"}},
		{"json", Options{JSON: true}, []string{`"level":"INFO"`, `"msg":"hello"`, `"stage":"beautify"`}},
		{"color", Options{Color: true}, []string{"INF", "hello", "beautify", "\x1b["}},
		{"json wins over color", Options{JSON: true, Color: true}, []string{`"msg":"hello"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Info("hello", "stage", "beautify")

			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("expected %q in %q", s, buf.String())
				}
			}
		})
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewJSONHandler(buf, nil))
	Init(Options{Logger: custom, Debug: true})
	defer resetLogger()

	if Default() != custom {
		t.Fatal("custom logger not installed")
	}
	Info("from custom")
	if !strings.Contains(buf.String(), `"msg":"from custom"`) {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("request_id", "abc").Info("scoped")

	out := buf.String()
	if !strings.Contains(out, "scoped") || !strings.Contains(out, "request_id=abc") {
		t.Errorf("expected scoped attributes, got %q", out)
	}
}

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "ctx-debug")
	InfoContext(ctx, "ctx-info")
	WarnContext(ctx, "ctx-warn")
	ErrorContext(ctx, "ctx-error")

	for _, s := range []string{"ctx-debug", "ctx-info", "ctx-warn", "ctx-error"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("expected %q to be logged", s)
		}
	}
}

func TestStdLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	StdLogger(slog.LevelWarn).Print("http: TLS handshake error")

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "TLS handshake error") {
		t.Errorf("unexpected output %q", out)
	}
}
