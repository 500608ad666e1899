package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/diagtool/pkg/errors"
)

// execute runs the root command with args and returns what it wrote to
// stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var logs, out, errOut bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// TestMain keeps the artifact cache of render runs out of the user's
// cache directory.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "diagtool-cli-test")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CACHE_HOME", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestMeasureCommand(t *testing.T) {
	stdout, _, err := execute(t, "measure")
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	line := strings.TrimSpace(stdout)
	raw, ok := strings.CutPrefix(line, "calculated width is: ")
	if !ok {
		t.Fatalf("output = %q, want calculated width line", stdout)
	}
	width, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || width <= 0 {
		t.Errorf("width = %q, want a positive integer", raw)
	}
}

func TestMeasureCommandVerbose(t *testing.T) {
	stdout, _, err := execute(t, "measure", "-v", "Hello", "--size", "24")
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if !strings.Contains(stdout, "calculated width is: ") {
		t.Errorf("output = %q, want width line", stdout)
	}
	if !strings.Contains(stdout, "calculated height is: ") {
		t.Errorf("output = %q, want height line with -v", stdout)
	}
}

func TestMeasureCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown font", []string{"measure", "--font", "Nope"}, errors.ErrCodeMeasurement},
		{"missing font file", []string{"measure", "--font-file", "testdata/missing.ttf"}, errors.ErrCodeInit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "card.svg")

	_, stderr, err := execute(t, "render", "testdata/card.yaml", "-f", "svg,json,dot", "-o", base)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"card.svg", "card.json", "card.dot"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
	svg, _ := os.ReadFile(filepath.Join(dir, "card.svg"))
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("card.svg is not an SVG document")
	}
	if !strings.Contains(stderr, "Rendered testdata/card.yaml") {
		t.Errorf("stderr = %q, want summary", stderr)
	}
	if !strings.Contains(stderr, "3 solved") {
		t.Errorf("stderr = %q, want solved count", stderr)
	}
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "card.yaml")
	data, err := os.ReadFile("testdata/card.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(scene, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "render", scene); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "card.svg")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	stdout, _, err := execute(t, "render", "testdata/card.yaml", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(stdout, "digraph") {
		t.Errorf("stdout = %q, want DOT document", stdout)
	}
}

func TestRenderCommandStdoutNeedsSingleFormat(t *testing.T) {
	_, _, err := execute(t, "render", "testdata/card.yaml", "-f", "svg,dot", "-o", "-")
	if err == nil || !strings.Contains(err.Error(), "single format") {
		t.Errorf("err = %v, want single format error", err)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "render", "testdata/card.yaml", "-f", "png")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderCommandMissingScene(t *testing.T) {
	_, _, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRenderCommandFailures(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "broken.svg")

	t.Run("lenient", func(t *testing.T) {
		_, stderr, err := execute(t, "render", "testdata/broken.toml", "-o", out)
		if err != nil {
			t.Fatalf("render without --strict should succeed: %v", err)
		}
		if !strings.Contains(stderr, "content needs") {
			t.Errorf("stderr = %q, want constraint warning", stderr)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("output not written: %v", err)
		}
	})

	t.Run("strict", func(t *testing.T) {
		_, _, err := execute(t, "render", "testdata/broken.toml", "-o", out, "--strict")
		if err == nil {
			t.Fatal("render --strict should fail")
		}
		if !strings.Contains(err.Error(), "content needs") {
			t.Errorf("err = %v, want constraint failure", err)
		}
	})
}

func TestRenderCommandMetrics(t *testing.T) {
	out := filepath.Join(t.TempDir(), "card.svg")
	stdout, _, err := execute(t, "render", "testdata/card.yaml", "-o", out, "--metrics")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"diagtool_layout_solves_total 1",
		"diagtool_layout_nodes_solved_total 3",
		`diagtool_output_bytes_total{format="svg"}`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("metrics output missing %q:\n%s", want, stdout)
		}
	}
}

func TestFontsCommand(t *testing.T) {
	stdout, _, err := execute(t, "fonts")
	if err != nil {
		t.Fatalf("fonts: %v", err)
	}
	for _, want := range []string{"Go Regular", "Go Mono", "(default)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output = %q, want %q", stdout, want)
		}
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(stdout, "diagtool version ") {
		t.Errorf("output = %q, want version line", stdout)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "fish", "powershell", "zsh"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(stdout, "diagtool") {
				t.Errorf("%s completion does not mention diagtool", shell)
			}
		})
	}

	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"pdf", []string{"pdf"}},
		{"svg,dot", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		count  int
		want   string
	}{
		{"derived from input", "", "scenes/card.toml", "svg", 1, "scenes/card.svg"},
		{"explicit single", "out/diagram.svg", "card.toml", "svg", 1, "out/diagram.svg"},
		{"explicit without extension", "out/diagram", "card.toml", "pdf", 1, "out/diagram"},
		{"base with known extension", "out/diagram.svg", "card.toml", "dot", 2, "out/diagram.dot"},
		{"base without extension", "out/diagram", "card.toml", "json", 2, "out/diagram.json"},
		{"graph extension", "", "card.toml", "graph", 2, "card.graph.svg"},
		{"stdout", "-", "card.toml", "svg", 1, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.count); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)

	stdout, _, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	dir := strings.TrimSpace(stdout)
	if want := filepath.Join(home, "diagtool"); dir != want {
		t.Fatalf("cache path = %q, want %q", dir, want)
	}

	stdout, _, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear (empty): %v", err)
	}
	if !strings.Contains(stdout, "Cache is empty") {
		t.Errorf("output = %q, want empty notice", stdout)
	}

	entry := filepath.Join(dir, "ab", "cdef.json")
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(stdout, "Cleared 1 cached entries") {
		t.Errorf("output = %q, want cleared count", stdout)
	}
	if _, err := os.Stat(filepath.Dir(entry)); !os.IsNotExist(err) {
		t.Error("empty subdirectory should be removed")
	}
}

func TestRenderCommandGraphCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "card.graph.svg")

	if _, _, err := execute(t, "render", "testdata/card.yaml", "-f", "graph", "-o", out); err != nil {
		t.Fatalf("first render: %v", err)
	}
	stdout, _, err := execute(t, "render", "testdata/card.yaml", "-f", "graph", "-o", out, "--metrics")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if want := `diagtool_cache_events_total{cache="artifacts",event="hit"} 1`; !strings.Contains(stdout, want) {
		t.Errorf("metrics output missing %q:\n%s", want, stdout)
	}

	stdout, _, err = execute(t, "render", "testdata/card.yaml", "-f", "graph", "-o", out, "--metrics", "--no-cache")
	if err != nil {
		t.Fatalf("uncached render: %v", err)
	}
	if strings.Contains(stdout, `cache="artifacts",event="hit"`) {
		t.Errorf("--no-cache run reported a cache hit:\n%s", stdout)
	}
}
