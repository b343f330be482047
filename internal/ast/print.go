package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump returns a human-readable representation of the AST.
func Dump(node Node) string {
	var sb strings.Builder
	fprintNode(&sb, node, 0)
	return sb.String()
}

// Fdump writes the Dump representation of node to w.
func Fdump(w io.Writer, node Node) {
	fprintNode(w, node, 0)
}

func exprFlags(e Expr) string {
	b := e.Base()
	s := ""
	if b.Await {
		s += " await"
	}
	if b.Stars > 0 {
		s += " " + strings.Repeat("*", b.Stars)
	}
	return s
}

func fprintNode(w io.Writer, n Node, indent int) {
	if n == nil {
		return
	}

	ind := strings.Repeat("  ", indent)

	// label prints a sub-heading followed by its children one level deeper
	label := func(name string, nodes ...Node) {
		fmt.Fprintf(w, "%s  %s:\n", ind, name)
		for _, c := range nodes {
			fprintNode(w, c, indent+2)
		}
	}

	switch n := n.(type) {
	case *Module:
		fmt.Fprintf(w, "%sModule file=%s\n", ind, n.File)
		for _, s := range n.Body {
			fprintNode(w, s, indent+1)
		}

	case *Suite:
		fmt.Fprintf(w, "%sSuite indent=%d\n", ind, n.Indent)
		for _, s := range n.Stmts {
			fprintNode(w, s, indent+1)
		}

	case *Argument:
		fmt.Fprintf(w, "%sArgument%s%s\n", ind, starPrefix(n.Stars), keyword(n.Name))
		fprintNode(w, n.Value, indent+1)

	case *Parameter:
		fmt.Fprintf(w, "%sParameter %s%s\n", ind, strings.Repeat("*", n.Stars), n.Name)
		if n.Hint != nil {
			label("Hint", n.Hint)
		}
		if n.Default != nil {
			label("Default", n.Default)
		}

	case *BracketedTarget:
		fmt.Fprintf(w, "%sBracketedTarget %s\n", ind, n.Bracket)
		for _, t := range n.Targets {
			fprintNode(w, t, indent+1)
		}

	case *ExprTarget:
		star := ""
		if n.Star {
			star = " *"
		}
		fmt.Fprintf(w, "%sExprTarget%s\n", ind, star)
		fprintNode(w, n.X, indent+1)

	case *Comprehension:
		fmt.Fprintf(w, "%sComprehension\n", ind)
		fprintNode(w, n.Elem, indent+1)
		fprintNode(w, n.For, indent+1)

	case *CompFor:
		async := ""
		if n.Async {
			async = " async"
		}
		fmt.Fprintf(w, "%sCompFor%s\n", ind, async)
		label("Targets", targetNodes(n.Targets)...)
		label("Iter", n.Iter)
		if n.Next != nil {
			fprintNode(w, n.Next, indent+1)
		}

	case *CompIf:
		fmt.Fprintf(w, "%sCompIf\n", ind)
		fprintNode(w, n.Cond, indent+1)
		if n.Next != nil {
			fprintNode(w, n.Next, indent+1)
		}

	case *CompIter:
		if n.For != nil {
			fprintNode(w, n.For, indent)
		} else {
			fprintNode(w, n.If, indent)
		}

	case *DictItem:
		fmt.Fprintf(w, "%sDictItem\n", ind)
		fprintNode(w, n.Key, indent+1)
		fprintNode(w, n.Value, indent+1)
		if n.For != nil {
			fprintNode(w, n.For, indent+1)
		}

	case *Decorator:
		fmt.Fprintf(w, "%sDecorator %s\n", ind, strings.Join(n.Name, "."))
		for _, a := range n.Args {
			fprintNode(w, a, indent+1)
		}

	case *ImportItem:
		fmt.Fprintf(w, "%sImportItem %s%s%s\n", ind, strings.Repeat(".", n.Dots), strings.Join(n.Parts, "."), alias(n.Alias))

	case *IfClause:
		fmt.Fprintf(w, "%sIfClause\n", ind)
		label("Cond", n.Cond)
		fprintNode(w, n.Body, indent+1)

	case *ExceptClause:
		fmt.Fprintf(w, "%sExceptClause%s\n", ind, alias(n.Name))
		if n.Type != nil {
			label("Type", n.Type)
		}
		fprintNode(w, n.Body, indent+1)

	case *WithItem:
		fmt.Fprintf(w, "%sWithItem\n", ind)
		fprintNode(w, n.Expr, indent+1)
		if n.Alias != nil {
			label("As", n.Alias)
		}

	// ---------- Expressions ----------

	case *Name:
		fmt.Fprintf(w, "%sName %s%s\n", ind, n.Value, exprFlags(n))

	case *StringLit:
		kind := "StringLit"
		if n.Multiline {
			kind = "StringLit multiline"
		}
		fmt.Fprintf(w, "%s%s %q%s\n", ind, kind, n.Value, exprFlags(n))

	case *IntLit:
		fmt.Fprintf(w, "%sIntLit %d%s\n", ind, n.Value, exprFlags(n))

	case *FloatLit:
		fmt.Fprintf(w, "%sFloatLit %s%s\n", ind, n.Raw, exprFlags(n))

	case *BoolLit:
		fmt.Fprintf(w, "%sBoolLit %t%s\n", ind, n.Value, exprFlags(n))

	case *NoneLit:
		synthetic := ""
		if n.Synthetic {
			synthetic = " synthetic"
		}
		fmt.Fprintf(w, "%sNoneLit%s%s\n", ind, synthetic, exprFlags(n))

	case *ListDisplay:
		fmt.Fprintf(w, "%sListDisplay%s\n", ind, exprFlags(n))
		for _, e := range n.Elems {
			fprintNode(w, e, indent+1)
		}
		if n.Comp != nil {
			fprintNode(w, n.Comp, indent+1)
		}

	case *SetDisplay:
		fmt.Fprintf(w, "%sSetDisplay%s\n", ind, exprFlags(n))
		for _, e := range n.Elems {
			fprintNode(w, e, indent+1)
		}
		if n.Comp != nil {
			fprintNode(w, n.Comp, indent+1)
		}

	case *TupleDisplay:
		fmt.Fprintf(w, "%sTupleDisplay%s\n", ind, exprFlags(n))
		for _, e := range n.Elems {
			fprintNode(w, e, indent+1)
		}

	case *DictDisplay:
		fmt.Fprintf(w, "%sDictDisplay%s\n", ind, exprFlags(n))
		for _, item := range n.Items {
			fprintNode(w, item, indent+1)
		}

	case *Generator:
		fmt.Fprintf(w, "%sGenerator%s\n", ind, exprFlags(n))
		fprintNode(w, n.Elem, indent+1)
		fprintNode(w, n.For, indent+1)

	case *Yield:
		fmt.Fprintf(w, "%sYield%s\n", ind, exprFlags(n))
		for _, e := range n.Values {
			fprintNode(w, e, indent+1)
		}
		if n.From != nil {
			label("From", n.From)
		}

	case *AttributeRef:
		fmt.Fprintf(w, "%sAttributeRef .%s%s\n", ind, n.Name, exprFlags(n))
		fprintNode(w, n.X, indent+1)

	case *Subscription:
		fmt.Fprintf(w, "%sSubscription%s\n", ind, exprFlags(n))
		fprintNode(w, n.X, indent+1)
		label("Indices", exprNodes(n.Indices)...)

	case *Slicing:
		fmt.Fprintf(w, "%sSlicing%s\n", ind, exprFlags(n))
		fprintNode(w, n.X, indent+1)
		if n.Lower != nil {
			label("Lower", n.Lower)
		}
		if n.Upper != nil {
			label("Upper", n.Upper)
		}
		if n.Stride != nil {
			label("Stride", n.Stride)
		}

	case *Call:
		fmt.Fprintf(w, "%sCall%s\n", ind, exprFlags(n))
		fprintNode(w, n.Func, indent+1)
		if len(n.Args) > 0 {
			nodes := make([]Node, len(n.Args))
			for i, a := range n.Args {
				nodes[i] = a
			}
			label("Args", nodes...)
		}
		if n.Comp != nil {
			fprintNode(w, n.Comp, indent+1)
		}

	case *Unary:
		fmt.Fprintf(w, "%sUnary %s%s\n", ind, n.Op, exprFlags(n))
		fprintNode(w, n.X, indent+1)

	case *Binary:
		fmt.Fprintf(w, "%sBinary %s%s\n", ind, n.Op, exprFlags(n))
		fprintNode(w, n.Left, indent+1)
		fprintNode(w, n.Right, indent+1)

	case *Conditional:
		fmt.Fprintf(w, "%sConditional%s\n", ind, exprFlags(n))
		label("Cond", n.Cond)
		label("Then", n.Then)
		label("Else", n.Else)

	case *Lambda:
		fmt.Fprintf(w, "%sLambda%s\n", ind, exprFlags(n))
		for _, p := range n.Params {
			fprintNode(w, p, indent+1)
		}
		label("Body", n.Body)

	// ---------- Statements ----------

	case *ExprStmt:
		fmt.Fprintf(w, "%sExprStmt\n", ind)
		fprintNode(w, n.X, indent+1)

	case *AssertStmt:
		fmt.Fprintf(w, "%sAssertStmt\n", ind)
		fprintNode(w, n.Test, indent+1)
		if n.Msg != nil {
			label("Msg", n.Msg)
		}

	case *AssignStmt:
		fmt.Fprintf(w, "%sAssignStmt\n", ind)
		for _, list := range n.Targets {
			label("Targets", targetNodes(list)...)
		}
		label("Value", n.Value)

	case *AugAssignStmt:
		fmt.Fprintf(w, "%sAugAssignStmt %s\n", ind, n.Op)
		fprintNode(w, n.Target, indent+1)
		label("Values", exprNodes(n.Values)...)

	case *AnnAssignStmt:
		fmt.Fprintf(w, "%sAnnAssignStmt\n", ind)
		fprintNode(w, n.Target, indent+1)
		label("Annotation", n.Annotation)
		if n.Value != nil {
			label("Value", n.Value)
		}

	case *PassStmt:
		fmt.Fprintf(w, "%sPassStmt\n", ind)

	case *BreakStmt:
		fmt.Fprintf(w, "%sBreakStmt\n", ind)

	case *ContinueStmt:
		fmt.Fprintf(w, "%sContinueStmt\n", ind)

	case *DelStmt:
		fmt.Fprintf(w, "%sDelStmt\n", ind)
		for _, t := range n.Targets {
			fprintNode(w, t, indent+1)
		}

	case *ReturnStmt:
		fmt.Fprintf(w, "%sReturnStmt\n", ind)
		for _, e := range n.Values {
			fprintNode(w, e, indent+1)
		}

	case *YieldStmt:
		fmt.Fprintf(w, "%sYieldStmt\n", ind)
		fprintNode(w, n.Value, indent+1)

	case *RaiseStmt:
		fmt.Fprintf(w, "%sRaiseStmt\n", ind)
		if n.Exc != nil {
			fprintNode(w, n.Exc, indent+1)
		}
		if n.Cause != nil {
			label("From", n.Cause)
		}

	case *ImportStmt:
		fmt.Fprintf(w, "%sImportStmt\n", ind)
		for _, item := range n.Items {
			fprintNode(w, item, indent+1)
		}

	case *FromImportStmt:
		fmt.Fprintf(w, "%sFromImportStmt %s%s\n", ind, strings.Repeat(".", n.Dots), strings.Join(n.Source, "."))
		if n.Star {
			fmt.Fprintf(w, "%s  *\n", ind)
		}
		for _, item := range n.Items {
			fprintNode(w, item, indent+1)
		}

	case *GlobalStmt:
		fmt.Fprintf(w, "%sGlobalStmt %s\n", ind, strings.Join(n.Names, ", "))

	case *NonlocalStmt:
		fmt.Fprintf(w, "%sNonlocalStmt %s\n", ind, strings.Join(n.Names, ", "))

	case *IfStmt:
		fmt.Fprintf(w, "%sIfStmt\n", ind)
		for _, c := range n.Clauses {
			fprintNode(w, c, indent+1)
		}
		if n.Else != nil {
			label("Else", n.Else)
		}

	case *WhileStmt:
		fmt.Fprintf(w, "%sWhileStmt\n", ind)
		label("Cond", n.Cond)
		fprintNode(w, n.Body, indent+1)
		if n.Else != nil {
			label("Else", n.Else)
		}

	case *ForStmt:
		async := ""
		if n.Async {
			async = " async"
		}
		fmt.Fprintf(w, "%sForStmt%s\n", ind, async)
		label("Targets", targetNodes(n.Targets)...)
		label("Iter", exprNodes(n.Iter)...)
		fprintNode(w, n.Body, indent+1)
		if n.Else != nil {
			label("Else", n.Else)
		}

	case *TryStmt:
		fmt.Fprintf(w, "%sTryStmt\n", ind)
		fprintNode(w, n.Body, indent+1)
		for _, h := range n.Handlers {
			fprintNode(w, h, indent+1)
		}
		if n.Else != nil {
			label("Else", n.Else)
		}
		if n.Finally != nil {
			label("Finally", n.Finally)
		}

	case *WithStmt:
		async := ""
		if n.Async {
			async = " async"
		}
		fmt.Fprintf(w, "%sWithStmt%s\n", ind, async)
		for _, item := range n.Items {
			fprintNode(w, item, indent+1)
		}
		fprintNode(w, n.Body, indent+1)

	case *FuncDef:
		async := ""
		if n.Async {
			async = " async"
		}
		fmt.Fprintf(w, "%sFuncDef name=%s%s\n", ind, n.Name, async)
		for _, d := range n.Decorators {
			fprintNode(w, d, indent+1)
		}
		if len(n.Params) > 0 {
			nodes := make([]Node, len(n.Params))
			for i, p := range n.Params {
				nodes[i] = p
			}
			label("Params", nodes...)
		}
		if n.Returns != nil {
			label("Returns", n.Returns)
		}
		fprintNode(w, n.Body, indent+1)

	case *ClassDef:
		fmt.Fprintf(w, "%sClassDef name=%s\n", ind, n.Name)
		for _, d := range n.Decorators {
			fprintNode(w, d, indent+1)
		}
		for _, a := range n.Args {
			fprintNode(w, a, indent+1)
		}
		fprintNode(w, n.Body, indent+1)

	default:
		fmt.Fprintf(w, "%s<unknown node %T>\n", ind, n)
	}
}

func exprNodes(list []Expr) []Node {
	nodes := make([]Node, len(list))
	for i, e := range list {
		nodes[i] = e
	}
	return nodes
}

func targetNodes(list []Target) []Node {
	nodes := make([]Node, len(list))
	for i, t := range list {
		nodes[i] = t
	}
	return nodes
}

func starPrefix(stars int) string {
	if stars == 0 {
		return ""
	}
	return " " + strings.Repeat("*", stars)
}

func keyword(name string) string {
	if name == "" {
		return ""
	}
	return " " + name + "="
}

func alias(name string) string {
	if name == "" {
		return ""
	}
	return " as " + name
}
