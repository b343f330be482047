package modules

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/frontend"
	"pyfront/internal/token"
)

// Module is one parsed source file of the world.
type Module struct {
	Name     string // dotted module name, e.g. "pkg.util"
	FilePath string
	Package  bool // the file is a package's __init__.py
	AST      *ast.Module

	// Imports lists resolved module names in first-use order.
	Imports []string
	// External lists imported names that do not resolve under the root.
	External []string
}

// World represents all modules reachable from an entry file.
type World struct {
	Root    string
	Modules map[string]*Module // by dotted name
	Entry   string
}

// Names returns the module names in sorted order.
func (w *World) Names() []string {
	names := make([]string, 0, len(w.Modules))
	for name := range w.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// External returns every unresolved import of the world, sorted and without
// duplicates.
func (w *World) External() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range w.Modules {
		for _, name := range m.External {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Fprint writes the import graph, one module per block.
func (w *World) Fprint(out io.Writer) {
	for _, name := range w.Names() {
		m := w.Modules[name]
		rel, err := filepath.Rel(w.Root, m.FilePath)
		if err != nil {
			rel = m.FilePath
		}
		marker := ""
		if name == w.Entry {
			marker = " (entry)"
		}
		fmt.Fprintf(out, "%s %s%s\n", name, rel, marker)
		for _, imp := range m.Imports {
			fmt.Fprintf(out, "  -> %s\n", imp)
		}
	}
	if ext := w.External(); len(ext) > 0 {
		fmt.Fprintf(out, "external: %s\n", strings.Join(ext, ", "))
	}
}

type loader struct {
	fe    *frontend.Frontend
	world *World

	// visiting holds the modules on the current import path, in order.
	visiting []string
	done     map[string]bool
	errors   []error
}

// LoadWorld parses the entry file and every module it reaches through
// import statements. The directory of the entry file is the import root.
// Parse failures are collected; the world is nil only when the entry file
// itself cannot be loaded.
func LoadWorld(entryFile string, fe *frontend.Frontend) (*World, []error) {
	entryAbs, err := filepath.Abs(entryFile)
	if err != nil {
		return nil, []error{fmt.Errorf("cannot resolve entry file path: %w", err)}
	}

	l := &loader{
		fe: fe,
		world: &World{
			Root:    filepath.Dir(entryAbs),
			Modules: make(map[string]*Module),
		},
		done: make(map[string]bool),
	}

	name := strings.TrimSuffix(filepath.Base(entryAbs), filepath.Ext(entryAbs))
	isPackage := name == "__init__"
	if isPackage {
		// the package directory itself is the root
		name = filepath.Base(l.world.Root)
		l.world.Root = filepath.Dir(l.world.Root)
	}

	entry := l.load(name, entryAbs, isPackage)
	if entry == nil {
		return nil, l.errors
	}
	l.world.Entry = entry.Name
	return l.world, l.errors
}

func (l *loader) load(name, path string, isPackage bool) *Module {
	log := l.fe.Log()

	mod, err := l.fe.ParseFile(path)
	if err != nil {
		l.errors = append(l.errors, err)
		l.done[name] = true
		return nil
	}
	log.Debug("module loaded", "module", name, "file", path)

	m := &Module{Name: name, FilePath: path, Package: isPackage, AST: mod}
	l.world.Modules[name] = m

	l.visiting = append(l.visiting, name)
	defer func() {
		l.visiting = l.visiting[:len(l.visiting)-1]
		l.done[name] = true
	}()

	ast.Inspect(mod, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.ImportStmt:
			for _, item := range s.Items {
				l.importItem(m, item)
			}
		case *ast.FromImportStmt:
			l.fromImport(m, s)
		case ast.Expr:
			// imports are statements; nothing below an expression can hold one
			return false
		}
		return true
	})
	return m
}

func (l *loader) importItem(m *Module, item *ast.ImportItem) {
	base, ok := l.relativeBase(m, item.Dots, item.NamePos)
	if !ok {
		return
	}
	parts := append(append([]string{}, base...), item.Parts...)

	// 'import a.b.c' also imports a and a.b
	for i := 1; i <= len(parts); i++ {
		if !l.require(m, strings.Join(parts[:i], "."), item.NamePos) {
			addUnique(&m.External, strings.Join(parts, "."))
			return
		}
	}
}

func (l *loader) fromImport(m *Module, s *ast.FromImportStmt) {
	base, ok := l.relativeBase(m, s.Dots, s.FromPos)
	if !ok {
		return
	}
	parts := append(append([]string{}, base...), s.Source...)
	for i := 1; i <= len(parts); i++ {
		if !l.require(m, strings.Join(parts[:i], "."), s.FromPos) {
			addUnique(&m.External, strings.Join(parts, "."))
			return
		}
	}
	if s.Star {
		return
	}

	// names may be submodules; anything else is an attribute of the package
	prefix := strings.Join(parts, ".")
	for _, item := range s.Items {
		name := strings.Join(item.Parts, ".")
		if prefix != "" {
			name = prefix + "." + name
		}
		if _, _, found := findModuleFile(name, l.world.Root); found {
			l.require(m, name, item.NamePos)
		}
	}
}

// relativeBase returns the package an import with the given number of
// leading dots is relative to. Absolute imports have an empty base.
func (l *loader) relativeBase(m *Module, dots int, pos token.Position) ([]string, bool) {
	if dots == 0 {
		return nil, true
	}
	pkg := strings.Split(m.Name, ".")
	if !m.Package {
		pkg = pkg[:len(pkg)-1]
	}
	if dots-1 >= len(pkg) {
		l.errors = append(l.errors, fmt.Errorf("%s:%s: attempted relative import beyond top-level package",
			m.FilePath, pos))
		return nil, false
	}
	return pkg[:len(pkg)-(dots-1)], true
}

// require records that m imports name and loads it if needed. It reports
// whether name resolves under the root.
func (l *loader) require(m *Module, name string, pos token.Position) bool {
	if name == m.Name {
		return true
	}
	if _, ok := l.world.Modules[name]; ok {
		addUnique(&m.Imports, name)
		l.checkCycle(m, name, pos)
		return true
	}
	if l.done[name] {
		// it failed to parse; the error is already collected
		return true
	}

	path, isPackage, found := findModuleFile(name, l.world.Root)
	if !found {
		l.fe.Log().Debug("import is external", "module", m.Name, "import", name)
		return false
	}
	addUnique(&m.Imports, name)
	l.load(name, path, isPackage)
	return true
}

func (l *loader) checkCycle(m *Module, name string, pos token.Position) {
	for i, v := range l.visiting {
		if v != name {
			continue
		}
		chain := append(append([]string{}, l.visiting[i:]...), name)
		if l.fe.Diags != nil {
			l.fe.Diags.Report(diag.Diagnostic{
				Severity: diag.SeverityWarning,
				Code:     diag.CodeImportCycle,
				File:     m.FilePath,
				Pos:      &pos,
				Message:  fmt.Sprintf("import cycle: %s", strings.Join(chain, " -> ")),
			})
		}
		return
	}
}

// findModuleFile locates the file for a dotted module name. A package
// directory a/b/__init__.py takes precedence over a flat file a/b.py.
func findModuleFile(name, root string) (path string, isPackage bool, found bool) {
	rel := filepath.Join(strings.Split(name, ".")...)

	initFile := filepath.Join(root, rel, "__init__.py")
	if info, err := os.Stat(initFile); err == nil && !info.IsDir() {
		return initFile, true, true
	}

	flatFile := filepath.Join(root, rel+".py")
	if info, err := os.Stat(flatFile); err == nil && !info.IsDir() {
		return flatFile, false, true
	}
	return "", false, false
}

func addUnique(list *[]string, name string) {
	for _, s := range *list {
		if s == name {
			return
		}
	}
	*list = append(*list, name)
}
