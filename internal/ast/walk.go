package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree in depth-first source order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Module:
		walkStmts(v, n.Body)

	case *Suite:
		walkStmts(v, n.Stmts)

	case *Argument:
		Walk(v, n.Value)

	case *Parameter:
		if n.Hint != nil {
			Walk(v, n.Hint)
		}
		if n.Default != nil {
			Walk(v, n.Default)
		}

	case *BracketedTarget:
		walkTargets(v, n.Targets)

	case *ExprTarget:
		Walk(v, n.X)

	case *Comprehension:
		Walk(v, n.Elem)
		Walk(v, n.For)

	case *CompFor:
		walkTargets(v, n.Targets)
		Walk(v, n.Iter)
		if n.Next != nil {
			Walk(v, n.Next)
		}

	case *CompIf:
		Walk(v, n.Cond)
		if n.Next != nil {
			Walk(v, n.Next)
		}

	case *CompIter:
		if n.For != nil {
			Walk(v, n.For)
		} else if n.If != nil {
			Walk(v, n.If)
		}

	case *DictItem:
		Walk(v, n.Key)
		if n.Value != nil {
			Walk(v, n.Value)
		}
		if n.For != nil {
			Walk(v, n.For)
		}

	case *Decorator:
		walkArgs(v, n.Args)

	case *ImportItem:
		// leaf

	case *IfClause:
		Walk(v, n.Cond)
		Walk(v, n.Body)

	case *ExceptClause:
		if n.Type != nil {
			Walk(v, n.Type)
		}
		Walk(v, n.Body)

	case *WithItem:
		Walk(v, n.Expr)
		if n.Alias != nil {
			Walk(v, n.Alias)
		}

	// Expressions
	case *Name, *StringLit, *IntLit, *FloatLit, *BoolLit, *NoneLit:
		// leaves

	case *ListDisplay:
		walkExprs(v, n.Elems)
		if n.Comp != nil {
			Walk(v, n.Comp)
		}

	case *SetDisplay:
		walkExprs(v, n.Elems)
		if n.Comp != nil {
			Walk(v, n.Comp)
		}

	case *TupleDisplay:
		walkExprs(v, n.Elems)

	case *DictDisplay:
		for _, item := range n.Items {
			Walk(v, item)
		}

	case *Generator:
		Walk(v, n.Elem)
		Walk(v, n.For)

	case *Yield:
		walkExprs(v, n.Values)
		if n.From != nil {
			Walk(v, n.From)
		}

	case *AttributeRef:
		Walk(v, n.X)

	case *Subscription:
		Walk(v, n.X)
		walkExprs(v, n.Indices)

	case *Slicing:
		Walk(v, n.X)
		for _, e := range []Expr{n.Lower, n.Upper, n.Stride} {
			if e != nil {
				Walk(v, e)
			}
		}

	case *Call:
		Walk(v, n.Func)
		walkArgs(v, n.Args)
		if n.Comp != nil {
			Walk(v, n.Comp)
		}

	case *Unary:
		Walk(v, n.X)

	case *Binary:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *Conditional:
		Walk(v, n.Then)
		Walk(v, n.Cond)
		Walk(v, n.Else)

	case *Lambda:
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Body)

	// Statements
	case *ExprStmt:
		Walk(v, n.X)

	case *AssertStmt:
		Walk(v, n.Test)
		if n.Msg != nil {
			Walk(v, n.Msg)
		}

	case *AssignStmt:
		for _, list := range n.Targets {
			walkTargets(v, list)
		}
		Walk(v, n.Value)

	case *AugAssignStmt:
		Walk(v, n.Target)
		walkExprs(v, n.Values)

	case *AnnAssignStmt:
		Walk(v, n.Target)
		Walk(v, n.Annotation)
		if n.Value != nil {
			Walk(v, n.Value)
		}

	case *PassStmt, *BreakStmt, *ContinueStmt, *GlobalStmt, *NonlocalStmt:
		// leaves

	case *DelStmt:
		walkTargets(v, n.Targets)

	case *ReturnStmt:
		walkExprs(v, n.Values)

	case *YieldStmt:
		Walk(v, n.Value)

	case *RaiseStmt:
		if n.Exc != nil {
			Walk(v, n.Exc)
		}
		if n.Cause != nil {
			Walk(v, n.Cause)
		}

	case *ImportStmt:
		for _, item := range n.Items {
			Walk(v, item)
		}

	case *FromImportStmt:
		for _, item := range n.Items {
			Walk(v, item)
		}

	case *IfStmt:
		for _, c := range n.Clauses {
			Walk(v, c)
		}
		walkSuite(v, n.Else)

	case *WhileStmt:
		Walk(v, n.Cond)
		Walk(v, n.Body)
		walkSuite(v, n.Else)

	case *ForStmt:
		walkTargets(v, n.Targets)
		walkExprs(v, n.Iter)
		Walk(v, n.Body)
		walkSuite(v, n.Else)

	case *TryStmt:
		Walk(v, n.Body)
		for _, h := range n.Handlers {
			Walk(v, h)
		}
		walkSuite(v, n.Else)
		walkSuite(v, n.Finally)

	case *WithStmt:
		for _, item := range n.Items {
			Walk(v, item)
		}
		Walk(v, n.Body)

	case *FuncDef:
		for _, d := range n.Decorators {
			Walk(v, d)
		}
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.Returns != nil {
			Walk(v, n.Returns)
		}
		Walk(v, n.Body)

	case *ClassDef:
		for _, d := range n.Decorators {
			Walk(v, d)
		}
		walkArgs(v, n.Args)
		Walk(v, n.Body)

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		Walk(v, s)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, e := range list {
		Walk(v, e)
	}
}

func walkTargets(v Visitor, list []Target) {
	for _, t := range list {
		Walk(v, t)
	}
}

func walkArgs(v Visitor, list []*Argument) {
	for _, a := range list {
		Walk(v, a)
	}
}

func walkSuite(v Visitor, s *Suite) {
	if s != nil {
		Walk(v, s)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order, calling f for every node
// and then f(nil) after its children. Returning false skips the children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
