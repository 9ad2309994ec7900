package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/attrstrip/pkg/cleaner/attrstrip"
)

// execute runs the root command with args and stdin, returning stdout.
// Flag values are restored afterwards since the command tree is global.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		reset := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		rootCmd.PersistentFlags().VisitAll(reset)
		for _, c := range rootCmd.Commands() {
			c.Flags().VisitAll(reset)
		}
	})

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--quiet"))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestPipelineConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		want     func() *attrstrip.Config
	}{
		{
			name: "defaults",
			want: attrstrip.DefaultConfig,
		},
		{
			name:     "preset",
			settings: map[string]any{"preset": "compact"},
			want:     attrstrip.PresetCompact,
		},
		{
			name:     "override on preset",
			settings: map[string]any{"preset": "minimal", "pipeline.remove_br_tags": true, "pipeline.indent_width": 4},
			want: func() *attrstrip.Config {
				cfg := attrstrip.PresetMinimal()
				cfg.RemoveBrTags = true
				cfg.IndentWidth = 4
				return cfg
			},
		},
		{
			name:     "string values",
			settings: map[string]any{"pipeline.beautify": "false", "pipeline.indent_width": "3"},
			want: func() *attrstrip.Config {
				cfg := attrstrip.DefaultConfig()
				cfg.Beautify = false
				cfg.IndentWidth = 3
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.settings {
				v.Set(k, val)
			}
			got, err := pipelineConfig(v)
			if err != nil {
				t.Fatalf("pipelineConfig() error = %v", err)
			}
			if want := tt.want(); !reflect.DeepEqual(got, want) {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestPipelineConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
	}{
		{"unknown preset", map[string]any{"preset": "loud"}},
		{"out of range", map[string]any{"pipeline.indent_width": 20}},
		{"wrong type", map[string]any{"pipeline.beautify": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.settings {
				v.Set(k, val)
			}
			if _, err := pipelineConfig(v); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPipelineConfig_Env(t *testing.T) {
	t.Setenv("ATTRSTRIP_PRESET", "compact")
	t.Setenv("ATTRSTRIP_PIPELINE_BEAUTIFY", "true")

	v := viper.New()
	configureEnv(v)

	got, err := pipelineConfig(v)
	if err != nil {
		t.Fatalf("pipelineConfig() error = %v", err)
	}
	if !got.Beautify || !got.RemoveBrTags {
		t.Errorf("expected compact preset with beautify on, got %+v", got)
	}
}

func TestServerConfig(t *testing.T) {
	v := viper.New()
	v.Set("server.addr", ":9999")
	v.Set("server.max_body_bytes", "1MB")
	v.Set("server.read_timeout", "2s")

	got, err := serverConfig(v)
	if err != nil {
		t.Fatalf("serverConfig() error = %v", err)
	}
	if got.Addr != ":9999" {
		t.Errorf("Addr = %q", got.Addr)
	}
	if got.MaxBodyBytes != 1_000_000 {
		t.Errorf("MaxBodyBytes = %d", got.MaxBodyBytes)
	}
	if got.ReadTimeout != 2*time.Second {
		t.Errorf("ReadTimeout = %v", got.ReadTimeout)
	}
	if got.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout should keep its default, got %v", got.WriteTimeout)
	}

	v.Set("server.max_body_bytes", "lots")
	if _, err := serverConfig(v); err == nil {
		t.Error("expected error for invalid size")
	}
}

func TestStringToByteSizeHook(t *testing.T) {
	tests := []struct {
		name string
		to   reflect.Type
		data any
		want any
	}{
		{"size", reflect.TypeFor[int64](), "512KiB", int64(512 << 10)},
		{"plain number", reflect.TypeFor[int64](), "2048", int64(2048)},
		{"other target", reflect.TypeFor[string](), "5MB", "5MB"},
		{"duration target", reflect.TypeFor[time.Duration](), "5s", "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stringToByteSizeHook(reflect.TypeOf(tt.data), tt.to, tt.data)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestPostCleaner(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Bool("strip-links", true, "")
	cmd.Flags().Bool("strip-images", false, "")
	cmd.Flags().String("url", "", "")

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"", "noop", false},
		{"html", "noop", false},
		{"markdown", "markdown", false},
		{"md", "markdown", false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			c, err := postCleaner(cmd, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if c.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", c.Name(), tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	page := writeFile(t, "page.html", `<html><body><div><p class="keep">A</p><p>B</p></div></body></html>`)
	pasted := writeFile(t, "pasted.html", `<p class="x">Hello , world</p><br>`)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "stdin with defaults",
			stdin: `<div class="c"><p style="x">Hi</p></div>`,
			args:  []string{"clean"},
			want:  "<div>\n  <p>Hi</p>\n</div>\n",
		},
		{
			name: "file with preset",
			args: []string{"clean", pasted, "--preset", "compact"},
			want: "<p>Hello, world</p>\n",
		},
		{
			name:  "stage flag",
			stdin: `<p class="a">A</p><p>B</p>`,
			args:  []string{"clean", "-", "--beautify=false"},
			want:  "<p>A</p><p>B</p>\n",
		},
		{
			name: "css scope",
			args: []string{"clean", page, "--select", "p.keep"},
			want: "<p>A</p>\n",
		},
		{
			name: "xpath scope",
			args: []string{"clean", page, "--xpath", "//p[2]"},
			want: "<p>B</p>\n",
		},
		{
			name:  "markdown",
			stdin: `<h1 class="t">Title</h1>`,
			args:  []string{"clean", "--format", "markdown"},
			want:  "# Title\n",
		},
		{
			name:  "blank input",
			stdin: "  \n ",
			args:  []string{"clean"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClean_OutputAndReport(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "clean.html")
	reportPath := filepath.Join(dir, "report.json")

	stdout, err := execute(t, `<a href="/x" class="btn" data-id="1">Go</a>`,
		"clean", "-o", outPath, "--report", "json", "--report-file", reportPath)
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(content) != "<a href=\"/x\">Go</a>\n" {
		t.Errorf("output = %q", content)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report struct {
		Source     string              `json:"source"`
		Content    string              `json:"content"`
		Attributes map[string][]string `json:"attributes"`
	}
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid report JSON: %v\n%s", err, data)
	}
	if report.Source != "stdin" || report.Content != `<a href="/x">Go</a>` {
		t.Errorf("unexpected report %+v", report)
	}
	if got := report.Attributes["styling"]; len(got) != 1 || got[0] != "class" {
		t.Errorf("styling = %v", got)
	}
	if got := report.Attributes["dataAttributes"]; len(got) != 1 || got[0] != "data-id" {
		t.Errorf("dataAttributes = %v", got)
	}
}

func TestClean_Errors(t *testing.T) {
	pasted := writeFile(t, "pasted.html", "<p>x</p>")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"clean", pasted, "--preset", "loud"}},
		{"indent out of range", []string{"clean", pasted, "--indent", "12"}},
		{"unknown format", []string{"clean", pasted, "--format", "pdf"}},
		{"unknown report format", []string{"clean", pasted, "--report", "xml"}},
		{"missing file", []string{"clean", filepath.Join(t.TempDir(), "nope.html")}},
		{"both selectors", []string{"clean", pasted, "--select", "p", "--xpath", "//p"}},
		{"invalid selector", []string{"clean", pasted, "--select", "p[["}},
		{"file and url", []string{"clean", pasted, "--url", "http://127.0.0.1:1/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExplicitConfigFileErrors(t *testing.T) {
	malformed := writeFile(t, "bad.yaml", "pipeline: [beautify\n")

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(t.TempDir(), "absent.yaml")},
		{"malformed", malformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "<p>x</p>", "clean", "--config", tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.path) {
				t.Errorf("error %q does not name %s", err, tt.path)
			}
		})
	}

	t.Run("default path may be absent", func(t *testing.T) {
		if _, err := execute(t, "<p>x</p>", "clean"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestClassify(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		got, err := execute(t, "", "classify", "HREF", "class", "data-id", "onclick", "x-custom")
		if err != nil {
			t.Fatalf("execute() error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(got), "\n")
		want := [][2]string{
			{"href", "preserved"},
			{"class", "styling"},
			{"data-id", "dataAttributes"},
			{"onclick", "eventHandlers"},
			{"x-custom", "unknown"},
		}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %q", len(want), got)
		}
		for i, w := range want {
			fields := strings.Fields(lines[i])
			if len(fields) != 2 || fields[0] != w[0] || fields[1] != w[1] {
				t.Errorf("line %d = %q, want %v", i, lines[i], w)
			}
		}
	})

	t.Run("list as json", func(t *testing.T) {
		got, err := execute(t, "", "classify", "--list", "--format", "json")
		if err != nil {
			t.Fatalf("execute() error = %v", err)
		}
		var items []classification
		if err := json.Unmarshal([]byte(got), &items); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		// size is in both sets
		if len(items) != 109 {
			t.Errorf("expected 109 entries, got %d", len(items))
		}
	})

	t.Run("no names", func(t *testing.T) {
		if _, err := execute(t, "", "classify"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestVersion(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		got, err := execute(t, "", "version")
		if err != nil {
			t.Fatalf("execute() error = %v", err)
		}
		if !strings.HasPrefix(got, "attrstrip ") {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		got, err := execute(t, "", "version", "--format", "json")
		if err != nil {
			t.Fatalf("execute() error = %v", err)
		}
		var info map[string]any
		if err := json.Unmarshal([]byte(got), &info); err != nil {
			t.Fatalf("invalid JSON %q: %v", got, err)
		}
		if _, ok := info["go_version"]; !ok {
			t.Errorf("missing go_version in %v", info)
		}
	})
}
