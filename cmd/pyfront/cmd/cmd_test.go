package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"pyfront/internal/config"
	"pyfront/internal/diag"
)

// isolate keeps the user's config files and environment out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"PYFRONT_CONFIG", "PYFRONT_LOG_LEVEL", "PYFRONT_FORMAT", "PYFRONT_COLOR", "NO_COLOR"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func write(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestParseCommand(t *testing.T) {
	isolate(t)
	write(t, "x.py", "x = 1 + 2\n")

	out, _, err := run(t, "parse", "x.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `Module file=x.py
  AssignStmt
    Targets:
      ExprTarget
        Name x
    Value:
      Binary +
        IntLit 1
        IntLit 2
`
	if out != expected {
		t.Fatalf("output wrong.\nexpected:\n%s\ngot:\n%s", expected, out)
	}

	out, _, err = run(t, "parse", "--format", "yaml", "x.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid yaml: %v\n%s", err, out)
	}
	if doc["node"] != "Module" || doc["file"] != "x.py" {
		t.Errorf("unexpected document %v", doc)
	}

	_, _, err = run(t, "parse", "--format", "xml", "x.py")
	if err == nil || !strings.Contains(err.Error(), `unknown format "xml"`) {
		t.Errorf("expected an unknown format error, got %v", err)
	}
}

func TestParseCommandFormatFromConfig(t *testing.T) {
	isolate(t)
	write(t, "x.py", "pass\n")
	write(t, "pyfront.toml", "[output]\nformat = \"yaml\"\n")

	out, _, err := run(t, "parse", "x.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "node: Module\n") {
		t.Errorf("expected yaml output from the config file, got:\n%s", out)
	}
}

func TestParseCommandReportsErrors(t *testing.T) {
	isolate(t)
	write(t, "bad.py", "x = )\n")

	out, errOut, err := run(t, "parse", "bad.py")
	if code := exitCode(err); code != 1 {
		t.Fatalf("expected exit status 1, got %d (%v)", code, err)
	}
	if out != "" {
		t.Errorf("expected no tree, got:\n%s", out)
	}
	for _, want := range []string{
		"in file 'bad.py':",
		"[error] on (1,5): expected an expression here, but got: )",
		"errors: 1, warnings: 0",
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("expected stderr to contain %q, got:\n%s", want, errOut)
		}
	}

	_, _, err = run(t, "parse", "missing.py")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestTokensCommand(t *testing.T) {
	isolate(t)
	write(t, "t.py", "x = 1\n")

	out, _, err := run(t, "tokens", "t.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	expected := []string{
		"1:1 +0 Name x",
		"1:3 +2 = =",
		"1:5 +4 ConstantInteger 1",
	}
	if len(lines) != 4 || !reflect.DeepEqual(lines[:3], expected) {
		t.Fatalf("tokens wrong.\nexpected=%q\ngot=     %q", expected, lines)
	}
	if !strings.HasSuffix(lines[3], " +0 EndOfFile EndOfFile") {
		t.Errorf("expected a final EOF token, got %q", lines[3])
	}

	write(t, "s.py", "x = 'abc\n")
	out, _, err = run(t, "tokens", "s.py")
	if code := exitCode(err); code != 1 {
		t.Errorf("expected exit status 1, got %d (%v)", code, err)
	}
	if out != "1:1 +0 Name x\n1:3 +2 = =\n" {
		t.Errorf("expected the tokens before the error, got %q", out)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := isolate(t)
	write(t, filepath.Join(dir, "src", "a.py"), "import os\n")
	write(t, filepath.Join(dir, "src", "pkg", "b.py"), "def f(:\n")
	write(t, filepath.Join(dir, "src", "venv", "c.py"), "x = )\n")
	write(t, filepath.Join(dir, "src", "notes.txt"), "x = )\n")
	write(t, filepath.Join(dir, "script"), "pass\n")

	out, errOut, err := run(t, "check", "src", "script")
	if code := exitCode(err); code != 1 {
		t.Fatalf("expected exit status 1, got %d (%v)", code, err)
	}
	if out != "checked 3 files, 1 failed\n" {
		t.Errorf("output wrong, got %q", out)
	}
	if !strings.Contains(errOut, "errors: 1, warnings: 0") {
		t.Errorf("expected a summary, got:\n%s", errOut)
	}
	if strings.Contains(errOut, "c.py") {
		t.Errorf("expected venv to be skipped, got:\n%s", errOut)
	}

	out, _, err = run(t, "check", "src/a.py")
	if err != nil || out != "checked 1 files, 0 failed\n" {
		t.Errorf("expected a clean check, got %q %v", out, err)
	}

	if _, _, err := run(t, "check", "nowhere"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestCheckCommandClampsExitStatus(t *testing.T) {
	dir := isolate(t)
	for i := 0; i < 256; i++ {
		write(t, filepath.Join(dir, "bad", fmt.Sprintf("m%03d.py", i)), "x\n")
	}

	out, errOut, err := run(t, "check", "bad")
	if code := exitCode(err); code != 255 {
		t.Fatalf("expected exit status 255, got %d (%v)", code, err)
	}
	if out != "checked 256 files, 256 failed\n" {
		t.Errorf("output wrong, got %q", out)
	}
	if !strings.Contains(errOut, "errors: 256, warnings: 0") {
		t.Errorf("expected the full error count in the summary, got:\n%s", errOut[max(0, len(errOut)-200):])
	}
}

func TestCheckCommandCountsWarningsOfIdenticalFiles(t *testing.T) {
	dir := isolate(t)
	src := "f(\"a\\qb\")\n"
	write(t, filepath.Join(dir, "src", "a.py"), src)
	write(t, filepath.Join(dir, "src", "b.py"), src)
	write(t, filepath.Join(dir, "src", "c.py"), "g(\"a\\qb\")\n")

	out, errOut, err := run(t, "check", "src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "checked 3 files, 0 failed\n" {
		t.Errorf("output wrong, got %q", out)
	}
	if !strings.Contains(errOut, "errors: 0, warnings: 3") {
		t.Errorf("expected a warning per file, got:\n%s", errOut)
	}
	if !strings.Contains(errOut, "in file 'src/b.py'") {
		t.Errorf("expected the replayed warning to name b.py, got:\n%s", errOut)
	}
}

func TestScopesCommand(t *testing.T) {
	isolate(t)
	write(t, "s.py", "def f(a):\n    return lambda: a\n")

	out, _, err := run(t, "scopes", "s.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `module <module>
  locals: f
  function f
    params: a
    locals: a
    function <lambda>
      free: a(local 0)
`
	if out != expected {
		t.Fatalf("output wrong.\nexpected:\n%s\ngot:\n%s", expected, out)
	}

	write(t, "n.py", "nonlocal x\n")
	_, errOut, err := run(t, "scopes", "n.py")
	if code := exitCode(err); code != 1 {
		t.Errorf("expected exit status 1, got %d (%v)", code, err)
	}
	if !strings.Contains(errOut, "nonlocal declaration not allowed at module level") {
		t.Errorf("expected the resolver error, got:\n%s", errOut)
	}
}

func TestDepsCommand(t *testing.T) {
	isolate(t)
	write(t, "main.py", "import sys\nimport lib\n")
	write(t, "lib.py", "import json\nimport main\n")

	out, errOut, err := run(t, "deps", "main.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `lib lib.py
  -> main
main main.py (entry)
  -> lib
external: json, sys
`
	if out != expected {
		t.Fatalf("output wrong.\nexpected:\n%s\ngot:\n%s", expected, out)
	}
	if !strings.Contains(errOut, "import cycle: main -> lib -> main") {
		t.Errorf("expected a cycle warning, got:\n%s", errOut)
	}

	write(t, "broken.py", "import lib\nx = )\n")
	if _, _, err := run(t, "deps", "broken.py"); exitCode(err) != 1 {
		t.Errorf("expected exit status 1, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	write(t, "pyfront.toml", "[output\n")

	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("expected version to ignore the config, got %v", err)
	}
	if out != "pyfront "+version+"\n" {
		t.Errorf("output wrong, got %q", out)
	}
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	write(t, "x.py", "pass\n")

	_, _, err := run(t, "--config", "missing.toml", "parse", "x.py")
	if !errors.Is(err, config.ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got %v", err)
	}

	write(t, "verbose.yaml", "log:\n  level: error\n")
	_, errOut, err := run(t, "--config", "verbose.yaml", "-v", "parse", "x.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut, "level=DEBUG") || !strings.Contains(errOut, `msg="config loaded"`) {
		t.Errorf("expected -v to enable debug logging, got:\n%s", errOut)
	}
}

// script returns a prompt function that replays lines, then io.EOF.
func script(lines ...string) (func(string) (string, error), *[]string) {
	var prompts []string
	return func(p string) (string, error) {
		prompts = append(prompts, p)
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}, &prompts
}

func TestReadStatement(t *testing.T) {
	tests := []struct {
		input   []string
		lines   []string
		prompts []string
	}{
		{[]string{"x = 1", "y"}, []string{"x = 1"}, []string{">>> "}},
		{[]string{"f(1,", "2)"}, []string{"f(1,", "2)"}, []string{">>> ", "... "}},
		{[]string{"s = 'abc"}, []string{"s = 'abc"}, []string{">>> ", "... "}},
		{[]string{"if x:", "    a = 1", "    b = 2", "", "z"},
			[]string{"if x:", "    a = 1", "    b = 2", ""},
			[]string{">>> ", "... ", "... ", "... "}},
		{[]string{"   "}, nil, []string{">>> "}},
		{[]string{"x = )"}, []string{"x = )"}, []string{">>> "}},
	}

	for i, tt := range tests {
		prompt, prompts := script(tt.input...)
		lines, err := readStatement(prompt)
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if !reflect.DeepEqual(lines, tt.lines) {
			t.Errorf("tests[%d] - lines wrong. expected=%q, got=%q", i, tt.lines, lines)
		}
		if !reflect.DeepEqual(*prompts, tt.prompts) {
			t.Errorf("tests[%d] - prompts wrong. expected=%q, got=%q", i, tt.prompts, *prompts)
		}
	}

	prompt, _ := script()
	if _, err := readStatement(prompt); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF on empty input, got %v", err)
	}
}

func TestEval(t *testing.T) {
	var errOut bytes.Buffer
	a := &app{diags: diag.New(&errOut)}

	tests := []struct {
		src  string
		want string
	}{
		{"x = 1\n", "Module file=<stdin>\n  AssignStmt\n"},
		{"1 + 2\n", "Binary +\n  IntLit 1\n  IntLit 2\n"},
	}
	for i, tt := range tests {
		var out bytes.Buffer
		a.eval(tt.src, &out)
		if !strings.HasPrefix(out.String(), tt.want) {
			t.Errorf("tests[%d] - output wrong. expected prefix %q, got %q", i, tt.want, out.String())
		}
	}
	if errOut.Len() != 0 || a.diags.Errors() != 0 {
		t.Fatalf("expected no reports, got:\n%s", errOut.String())
	}

	var out bytes.Buffer
	a.eval("x = )\n", &out)
	if out.Len() != 0 {
		t.Errorf("expected no tree for a syntax error, got %q", out.String())
	}
	if a.diags.Errors() != 1 || !strings.Contains(errOut.String(), "in file '<stdin>':") {
		t.Errorf("expected the error to be reported, got:\n%s", errOut.String())
	}
}
