package modules

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pyfront/internal/diag"
	"pyfront/internal/frontend"
)

// writeTree creates files under a fresh temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func load(t *testing.T, dir, entry string) (*World, *diag.Diagnostics) {
	t.Helper()

	d := diag.New(io.Discard)
	world, errs := LoadWorld(filepath.Join(dir, entry), frontend.New(d, nil))
	if len(errs) > 0 {
		for _, e := range errs {
			t.Logf("error: %s", e)
		}
		t.Fatalf("expected no errors, got %d", len(errs))
	}
	return world, d
}

func TestLoadWorldFollowsImports(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.py": `import os
import geometry.point as gp
from util import helper, VERSION

def run():
    import late
`,
		"geometry/__init__.py": "",
		"geometry/point.py":    "from . import shapes\nfrom .shapes import Square\n",
		"geometry/shapes.py":   "import math\n",
		"util.py":              "VERSION = 1\n",
		"late.py":              "",
	})

	world, d := load(t, dir, "main.py")

	if world.Entry != "main" {
		t.Errorf("expected entry main, got %q", world.Entry)
	}
	names := []string{"geometry", "geometry.point", "geometry.shapes", "late", "main", "util"}
	if !reflect.DeepEqual(world.Names(), names) {
		t.Errorf("modules wrong.\nexpected=%v\ngot=     %v", names, world.Names())
	}

	tests := []struct {
		module  string
		imports []string
	}{
		{"main", []string{"geometry", "geometry.point", "util", "late"}},
		{"geometry.point", []string{"geometry", "geometry.shapes"}},
		{"geometry.shapes", nil},
	}
	for i, tt := range tests {
		got := world.Modules[tt.module].Imports
		if !reflect.DeepEqual(got, tt.imports) {
			t.Errorf("tests[%d] - %s imports wrong. expected=%v, got=%v", i, tt.module, tt.imports, got)
		}
	}

	if !world.Modules["geometry"].Package || world.Modules["util"].Package {
		t.Errorf("package flags wrong")
	}
	if !reflect.DeepEqual(world.External(), []string{"math", "os"}) {
		t.Errorf("external wrong, got %v", world.External())
	}
	if d.Warnings() != 0 || d.Errors() != 0 {
		t.Errorf("expected a clean run, got %s", d.Summary())
	}
}

func TestLoadWorldReportsCycles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import c\n",
		"c.py": "import a\n",
	})

	var out bytes.Buffer
	d := diag.New(&out)
	world, errs := LoadWorld(filepath.Join(dir, "a.py"), frontend.New(d, nil))
	if len(errs) != 0 {
		t.Fatalf("expected cycles not to be errors, got %v", errs)
	}
	if len(world.Modules) != 3 {
		t.Errorf("expected 3 modules, got %d", len(world.Modules))
	}
	if d.Warnings() != 1 {
		t.Fatalf("expected 1 warning, got %s", d.Summary())
	}
	if !strings.Contains(out.String(), "import cycle: a -> b -> c -> a") {
		t.Errorf("expected the cycle chain in the report, got:\n%s", out.String())
	}
	if !reflect.DeepEqual(world.Modules["c"].Imports, []string{"a"}) {
		t.Errorf("expected the back edge to be recorded, got %v", world.Modules["c"].Imports)
	}
}

func TestLoadWorldSharesIdenticalFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.py":       "import vendor.one\nimport vendor.two\n",
		"vendor/one.py": "X = [1, 2, 3]\n",
		"vendor/two.py": "X = [1, 2, 3]\n",
	})

	d := diag.New(io.Discard)
	fe := frontend.New(d, nil)
	world, errs := LoadWorld(filepath.Join(dir, "main.py"), fe)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if !reflect.DeepEqual(world.External(), []string{"vendor.one", "vendor.two"}) {
		t.Errorf("expected imports under a plain directory to be external, got %v", world.External())
	}
	if _, ok := world.Modules["vendor.one"]; ok {
		t.Errorf("expected vendor.one to stay unresolved without vendor/__init__.py")
	}

	// with a package file the two leaves resolve and share one parse
	if err := os.WriteFile(filepath.Join(dir, "vendor", "__init__.py"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	world, errs = LoadWorld(filepath.Join(dir, "main.py"), fe)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	one, two := world.Modules["vendor.one"], world.Modules["vendor.two"]
	if one == nil || two == nil {
		t.Fatalf("expected both vendor modules, got %v", world.Names())
	}
	if one.AST.Body[0] != two.AST.Body[0] {
		t.Errorf("expected identical files to share their statements")
	}
	if hits, _ := fe.Cache.Stats(); hits == 0 {
		t.Errorf("expected cache hits")
	}
}

func TestLoadWorldCollectsParseErrors(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.py":   "import broken\nimport fine\n",
		"broken.py": "x = )\n",
		"fine.py":   "import broken\n",
	})

	d := diag.New(io.Discard)
	world, errs := LoadWorld(filepath.Join(dir, "main.py"), frontend.New(d, nil))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	var de *diag.Error
	if !errors.As(errs[0], &de) || de.Code != diag.CodeExpectedExpression {
		t.Errorf("expected a syntax error from broken.py, got %v", errs[0])
	}
	if world == nil {
		t.Fatalf("expected a partial world")
	}
	if _, ok := world.Modules["broken"]; ok {
		t.Errorf("expected broken to be left out")
	}
	if len(world.External()) != 0 {
		t.Errorf("expected a failed local module not to count as external, got %v", world.External())
	}
}

func TestLoadWorldEntryErrors(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.py": "def f(:\n"})

	world, errs := LoadWorld(filepath.Join(dir, "bad.py"), frontend.New(diag.New(io.Discard), nil))
	if world != nil || len(errs) != 1 {
		t.Fatalf("expected no world and 1 error, got %v %v", world, errs)
	}

	world, errs = LoadWorld(filepath.Join(dir, "missing.py"), frontend.New(diag.New(io.Discard), nil))
	if world != nil || len(errs) != 1 || !errors.Is(errs[0], os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v %v", world, errs)
	}
}

func TestRelativeImportBeyondTopLevel(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.py":         "import pkg.mod\nfrom . import x\n",
		"pkg/__init__.py": "",
		"pkg/mod.py":      "from .. import y\nfrom . import z\n",
		"pkg/z.py":        "",
	})

	world, errs := LoadWorld(filepath.Join(dir, "main.py"), frontend.New(diag.New(io.Discard), nil))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	for i, err := range errs {
		if !strings.Contains(err.Error(), "attempted relative import beyond top-level package") {
			t.Errorf("errs[%d] - message wrong, got %q", i, err)
		}
	}
	if !reflect.DeepEqual(world.Modules["pkg.mod"].Imports, []string{"pkg", "pkg.z"}) {
		t.Errorf("expected pkg.mod to import its sibling, got %v", world.Modules["pkg.mod"].Imports)
	}
}

func TestPackageEntry(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/__init__.py": "from .cli import main\n",
		"app/cli.py":      "def main():\n    pass\n",
	})

	world, _ := load(t, filepath.Join(dir, "app"), "__init__.py")
	if world.Entry != "app" || world.Root != dir {
		t.Errorf("expected entry app under %s, got %q under %s", dir, world.Entry, world.Root)
	}
	if !reflect.DeepEqual(world.Modules["app"].Imports, []string{"app.cli"}) {
		t.Errorf("imports wrong, got %v", world.Modules["app"].Imports)
	}
}

func TestFindModuleFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"both/__init__.py": "",
		"both.py":          "",
		"flat.py":          "",
		"nested/deep.py":   "",
	})

	tests := []struct {
		name  string
		file  string
		pkg   bool
		found bool
	}{
		{"both", "both/__init__.py", true, true},
		{"flat", "flat.py", false, true},
		{"nested.deep", "nested/deep.py", false, true},
		{"nested", "", false, false},
		{"missing", "", false, false},
	}
	for i, tt := range tests {
		path, pkg, found := findModuleFile(tt.name, dir)
		want := ""
		if tt.file != "" {
			want = filepath.Join(dir, filepath.FromSlash(tt.file))
		}
		if path != want || pkg != tt.pkg || found != tt.found {
			t.Errorf("tests[%d] - %s resolved wrong. expected=%q %v %v, got=%q %v %v",
				i, tt.name, want, tt.pkg, tt.found, path, pkg, found)
		}
	}
}

func TestWorldFprint(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.py": "import sys\nimport lib\n",
		"lib.py":  "import json\n",
	})
	world, _ := load(t, dir, "main.py")

	var buf bytes.Buffer
	world.Fprint(&buf)

	expected := `lib lib.py
main main.py (entry)
  -> lib
external: json, sys
`
	if buf.String() != expected {
		t.Fatalf("output wrong.\nexpected:\n%s\ngot:\n%s", expected, buf.String())
	}
}
