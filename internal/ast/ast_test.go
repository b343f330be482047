package ast_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/parser"
)

func mustParse(t *testing.T, input string) *ast.Module {
	t.Helper()

	mod, err := parser.ParseSource("test.py", input, diag.New(io.Discard))
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}
	return mod
}

func TestDump(t *testing.T) {
	mod := mustParse(t, "x = 1 + 2\n")

	expected := `Module file=test.py
  AssignStmt
    Targets:
      ExprTarget
        Name x
    Value:
      Binary +
        IntLit 1
        IntLit 2
`
	if got := ast.Dump(mod); got != expected {
		t.Fatalf("dump wrong.\nexpected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestDumpFlags(t *testing.T) {
	mod := mustParse(t, "async def f():\n    return await g(), *a\n")

	var buf bytes.Buffer
	ast.Fdump(&buf, mod)
	out := buf.String()

	for _, want := range []string{
		"FuncDef name=f async",
		"Call await",
		"Name a *",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dump to contain %q, got:\n%s", want, out)
		}
	}
}

func TestInspectVisitsInSourceOrder(t *testing.T) {
	mod := mustParse(t, `def f(a=c):
    return a + b
for i in [d, e]:
    g(i)
`)

	var names []string
	ast.Inspect(mod, func(n ast.Node) bool {
		if name, ok := n.(*ast.Name); ok {
			names = append(names, name.Value)
		}
		return true
	})

	expected := "c a b i d e g i"
	if got := strings.Join(names, " "); got != expected {
		t.Fatalf("names wrong. expected=%q, got=%q", expected, got)
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	mod := mustParse(t, "def f():\n    x = 1\ny = 2\n")

	var assigns int
	ast.Inspect(mod, func(n ast.Node) bool {
		if _, ok := n.(*ast.AssignStmt); ok {
			assigns++
		}
		_, isDef := n.(*ast.FuncDef)
		return !isDef
	})

	if assigns != 1 {
		t.Fatalf("expected only the module-level assignment, got %d", assigns)
	}
}

type depthVisitor struct {
	depth, max *int
}

func (v depthVisitor) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		*v.depth--
		return nil
	}
	*v.depth++
	if *v.depth > *v.max {
		*v.max = *v.depth
	}
	return v
}

func TestWalkBalancesVisits(t *testing.T) {
	mod := mustParse(t, "x = [a for a in b if (a, 1,)]\n")

	var depth, max int
	ast.Walk(depthVisitor{&depth, &max}, mod)

	if depth != 0 {
		t.Fatalf("expected every node to be closed with Visit(nil), depth=%d", depth)
	}
	if max < 6 {
		t.Errorf("expected the walk to reach the comprehension clauses, max depth %d", max)
	}
}

func TestEncodeYAML(t *testing.T) {
	expr, err := parser.ParseExpression("test.py", "f(1, k=None)", nil)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	var buf bytes.Buffer
	if err := ast.EncodeYAML(&buf, expr); err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid yaml: %v\n%s", err, buf.String())
	}

	if doc["node"] != "Call" || doc["loc"] != "1:1" {
		t.Fatalf("unexpected root mapping: %v", doc)
	}
	if _, ok := doc["await"]; ok {
		t.Errorf("expected zero fields to be left out")
	}

	fn := doc["func"].(map[string]interface{})
	if fn["node"] != "Name" || fn["value"] != "f" {
		t.Errorf("unexpected func: %v", fn)
	}

	args := doc["args"].([]interface{})
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
	first := args[0].(map[string]interface{})["value"].(map[string]interface{})
	if first["node"] != "IntLit" || first["value"] != 1 || first["raw"] != "1" {
		t.Errorf("unexpected first argument: %v", first)
	}
	second := args[1].(map[string]interface{})
	if second["name"] != "k" {
		t.Errorf("expected keyword k, got %v", second["name"])
	}
	if none := second["value"].(map[string]interface{}); none["node"] != "NoneLit" {
		t.Errorf("expected NoneLit, got %v", none)
	}
}

func TestEncodeYAMLKeepsFalseValues(t *testing.T) {
	expr, err := parser.ParseExpression("test.py", "False", nil)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}

	var buf bytes.Buffer
	if err := ast.EncodeYAML(&buf, expr); err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !strings.Contains(buf.String(), "value: false") {
		t.Fatalf("expected the literal value to be kept, got:\n%s", buf.String())
	}
}
