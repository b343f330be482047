package resolver

import (
	"fmt"
	"io"
	"strings"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/token"
)

// ScopeKind tells module, function and class scopes apart. Class scopes are
// skipped when a nested function looks for a captured name.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeFunction
	ScopeClass
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// UpvalueInfo describes a captured variable (upvalue).
type UpvalueInfo struct {
	Name    string
	IsLocal bool // true: captures a local of the enclosing function
	Index   int  // slot in the enclosing function's Locals, or index into its Free list
}

// FunctionInfo holds the bindings of one scope.
type FunctionInfo struct {
	Node   ast.Node // *ast.Module, *ast.FuncDef, *ast.Lambda or *ast.ClassDef
	Name   string
	Kind   ScopeKind
	Parent *FunctionInfo

	Params    []string
	Locals    []string // parameters first, then other bindings in order
	Globals   []string
	Nonlocals []string
	Free      []UpvalueInfo

	uses        []string
	nonlocalPos map[string]token.Position
}

// Info is the result of resolving one module.
type Info struct {
	Module *FunctionInfo
	// Scopes lists every scope in source order, the module first.
	Scopes []*FunctionInfo
	Funcs  map[ast.Node]*FunctionInfo
}

// Resolver analyzes the AST to identify bindings and captured variables.
type Resolver struct {
	file  string
	diags *diag.Diagnostics
	info  *Info
	err   error
}

// Resolve records the scopes of mod. Scope errors are reported to d and the
// first one is returned.
func Resolve(mod *ast.Module, d *diag.Diagnostics) (*Info, error) {
	if d == nil {
		d = diag.New(nil)
	}
	r := &Resolver{
		file:  mod.File,
		diags: d,
		info:  &Info{Funcs: make(map[ast.Node]*FunctionInfo)},
	}

	// First pass: collect all scopes and their bindings
	r.info.Module = r.newScope(mod, "<module>", ScopeModule, nil)
	for _, stmt := range mod.Body {
		r.collect(r.info.Module, stmt)
	}
	if r.err != nil {
		return nil, r.err
	}

	// Second pass: identify upvalues for each scope
	for _, s := range r.info.Scopes {
		r.identifyUpvalues(s)
		if r.err != nil {
			return nil, r.err
		}
	}
	return r.info, nil
}

func (r *Resolver) newScope(node ast.Node, name string, kind ScopeKind, parent *FunctionInfo) *FunctionInfo {
	s := &FunctionInfo{
		Node:        node,
		Name:        name,
		Kind:        kind,
		Parent:      parent,
		nonlocalPos: make(map[string]token.Position),
	}
	r.info.Scopes = append(r.info.Scopes, s)
	r.info.Funcs[node] = s
	return s
}

// ---------- Collection ----------

func (r *Resolver) collect(s *FunctionInfo, node ast.Node) {
	ast.Inspect(node, func(n ast.Node) bool {
		return r.visit(s, n)
	})
}

func (r *Resolver) visit(s *FunctionInfo, node ast.Node) bool {
	if r.err != nil {
		return false
	}

	switch n := node.(type) {
	case *ast.FuncDef:
		s.bind(n.Name)
		for _, d := range n.Decorators {
			r.collect(s, d)
		}
		// defaults and hints are evaluated where the def appears
		r.collectParamExprs(s, n.Params)
		if n.Returns != nil {
			r.collect(s, n.Returns)
		}
		fn := r.newScope(n, n.Name, ScopeFunction, s)
		r.declareParams(fn, n.Params)
		r.collect(fn, n.Body)
		return false

	case *ast.Lambda:
		r.collectParamExprs(s, n.Params)
		fn := r.newScope(n, "<lambda>", ScopeFunction, s)
		r.declareParams(fn, n.Params)
		r.collect(fn, n.Body)
		return false

	case *ast.ClassDef:
		s.bind(n.Name)
		for _, d := range n.Decorators {
			r.collect(s, d)
		}
		for _, a := range n.Args {
			r.collect(s, a)
		}
		cls := r.newScope(n, n.Name, ScopeClass, s)
		r.collect(cls, n.Body)
		return false

	case *ast.Name:
		s.use(n.Value)
	case *ast.Decorator:
		s.use(n.Name[0])

	case *ast.AssignStmt:
		for _, list := range n.Targets {
			for _, t := range list {
				s.bindTarget(t)
			}
		}
	case *ast.AugAssignStmt:
		s.bindTarget(n.Target)
	case *ast.AnnAssignStmt:
		s.bindTarget(n.Target)
	case *ast.ForStmt:
		for _, t := range n.Targets {
			s.bindTarget(t)
		}
	case *ast.CompFor:
		for _, t := range n.Targets {
			s.bindTarget(t)
		}
	case *ast.DelStmt:
		for _, t := range n.Targets {
			s.bindTarget(t)
		}
	case *ast.WithItem:
		if n.Alias != nil {
			s.bindTarget(n.Alias)
		}
	case *ast.ExceptClause:
		if n.Name != "" {
			s.bind(n.Name)
		}
	case *ast.ImportStmt:
		for _, item := range n.Items {
			s.bind(importedName(item))
		}
	case *ast.FromImportStmt:
		for _, item := range n.Items {
			s.bind(importedName(item))
		}

	case *ast.GlobalStmt:
		for _, name := range n.Names {
			r.declareGlobal(s, name, n.Pos())
		}
	case *ast.NonlocalStmt:
		if s.Kind == ScopeModule {
			r.fail(diag.CodeNonlocalAtModule, n.Pos(), "nonlocal declaration not allowed at module level")
			return false
		}
		for _, name := range n.Names {
			s.declareNonlocal(name, n.Pos())
		}
	}
	return true
}

func (r *Resolver) collectParamExprs(s *FunctionInfo, params []*ast.Parameter) {
	for _, p := range params {
		if p.Hint != nil {
			r.collect(s, p.Hint)
		}
		if p.Default != nil {
			r.collect(s, p.Default)
		}
	}
}

func (r *Resolver) declareParams(fn *FunctionInfo, params []*ast.Parameter) {
	for _, p := range params {
		if p.Name == "" {
			// bare '*' separator
			continue
		}
		if contains(fn.Params, p.Name) {
			r.fail(diag.CodeDuplicateParameter, p.Pos(),
				fmt.Sprintf("duplicate argument '%s' in function definition", p.Name))
			return
		}
		fn.Params = append(fn.Params, p.Name)
		fn.Locals = append(fn.Locals, p.Name)
	}
}

func (r *Resolver) declareGlobal(s *FunctionInfo, name string, pos token.Position) {
	if contains(s.Globals, name) {
		return
	}
	if i := indexOf(s.Locals, name); i >= 0 && s.Kind != ScopeModule {
		r.diags.Report(diag.Diagnostic{
			Severity: diag.SeverityWarning,
			Code:     diag.CodeGlobalAfterAssign,
			File:     r.file,
			Pos:      &pos,
			Message:  fmt.Sprintf("name '%s' is assigned to before global declaration", name),
		})
		s.Locals = append(s.Locals[:i], s.Locals[i+1:]...)
	}
	s.Globals = append(s.Globals, name)
}

func (s *FunctionInfo) declareNonlocal(name string, pos token.Position) {
	if contains(s.Nonlocals, name) {
		return
	}
	if i := indexOf(s.Locals, name); i >= 0 {
		s.Locals = append(s.Locals[:i], s.Locals[i+1:]...)
	}
	s.Nonlocals = append(s.Nonlocals, name)
	s.nonlocalPos[name] = pos
}

func (s *FunctionInfo) bind(name string) {
	if contains(s.Locals, name) || contains(s.Globals, name) || contains(s.Nonlocals, name) {
		return
	}
	s.Locals = append(s.Locals, name)
}

// bindTarget binds the plain names of t. Attribute and subscript targets
// bind nothing.
func (s *FunctionInfo) bindTarget(t ast.Target) {
	switch t := t.(type) {
	case *ast.BracketedTarget:
		for _, sub := range t.Targets {
			s.bindTarget(sub)
		}
	case *ast.ExprTarget:
		if name, ok := t.X.(*ast.Name); ok {
			s.bind(name.Value)
		}
	}
}

func (s *FunctionInfo) use(name string) {
	if !contains(s.uses, name) {
		s.uses = append(s.uses, name)
	}
}

// importedName is the name an import item binds: the alias, or the first
// component of a dotted module name.
func importedName(item *ast.ImportItem) string {
	if item.Alias != "" {
		return item.Alias
	}
	return item.Parts[0]
}

// ---------- Upvalues ----------

func (r *Resolver) identifyUpvalues(s *FunctionInfo) {
	if s.Kind == ScopeModule {
		return
	}

	for _, name := range s.Nonlocals {
		if _, ok := r.capture(s, name); !ok {
			r.fail(diag.CodeNonlocalUnbound, s.nonlocalPos[name],
				fmt.Sprintf("no binding for nonlocal '%s' found", name))
			return
		}
	}

	for _, name := range s.uses {
		if contains(s.Locals, name) || contains(s.Globals, name) {
			continue
		}
		// unresolved names are globals or builtins
		r.capture(s, name)
	}
}

// capture makes name an upvalue of s if an enclosing function binds it, and
// returns its index in s.Free. Every function between the binder and s gets
// the upvalue too, so that each link refers only to its direct parent.
func (r *Resolver) capture(s *FunctionInfo, name string) (int, bool) {
	for i, upv := range s.Free {
		if upv.Name == name {
			return i, true
		}
	}

	parent := s.enclosingFunction()
	if parent == nil || contains(parent.Globals, name) {
		return -1, false
	}

	if i := indexOf(parent.Locals, name); i >= 0 {
		s.Free = append(s.Free, UpvalueInfo{Name: name, IsLocal: true, Index: i})
		return len(s.Free) - 1, true
	}

	j, ok := r.capture(parent, name)
	if !ok {
		return -1, false
	}
	s.Free = append(s.Free, UpvalueInfo{Name: name, IsLocal: false, Index: j})
	return len(s.Free) - 1, true
}

// enclosingFunction returns the nearest function scope around s, skipping
// class bodies, or nil at module level.
func (s *FunctionInfo) enclosingFunction() *FunctionInfo {
	p := s.Parent
	for p != nil && p.Kind == ScopeClass {
		p = p.Parent
	}
	if p == nil || p.Kind == ScopeModule {
		return nil
	}
	return p
}

func (r *Resolver) fail(code diag.Code, pos token.Position, msg string) {
	if r.err == nil {
		r.err = r.diags.ReportFatal(diag.KindSyntax, code, r.file, msg, &pos)
	}
}

// ---------- Output ----------

// Fprint writes one block per scope, nested scopes indented under their
// parent.
func (info *Info) Fprint(w io.Writer) {
	depth := make(map[*FunctionInfo]int)
	for _, s := range info.Scopes {
		d := 0
		if s.Parent != nil {
			d = depth[s.Parent] + 1
		}
		depth[s] = d
		ind := strings.Repeat("  ", d)

		fmt.Fprintf(w, "%s%s %s\n", ind, s.Kind, s.Name)
		printList(w, ind, "params", s.Params)
		printList(w, ind, "locals", s.Locals)
		printList(w, ind, "globals", s.Globals)
		printList(w, ind, "nonlocals", s.Nonlocals)
		if len(s.Free) > 0 {
			free := make([]string, len(s.Free))
			for i, upv := range s.Free {
				from := "upvalue"
				if upv.IsLocal {
					from = "local"
				}
				free[i] = fmt.Sprintf("%s(%s %d)", upv.Name, from, upv.Index)
			}
			printList(w, ind, "free", free)
		}
	}
}

func printList(w io.Writer, ind, label string, names []string) {
	if len(names) > 0 {
		fmt.Fprintf(w, "%s  %s: %s\n", ind, label, strings.Join(names, ", "))
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func contains(names []string, name string) bool {
	return indexOf(names, name) >= 0
}
