package ast

import "pyfront/internal/token"

// ---------- Atoms ----------

type Name struct {
	ExprBase
	Value string
}

// StringLit is one or more adjacent string literals joined, quotes removed.
type StringLit struct {
	ExprBase
	Value     string
	Multiline bool
}

type IntLit struct {
	ExprBase
	Value int64
	Raw   string
}

type FloatLit struct {
	ExprBase
	Value float64
	Raw   string
}

type BoolLit struct {
	ExprBase
	Value bool
}

// NoneLit is 'None'; the parser also synthesizes one for the dangling comma
// of a single-element parenthesized tuple.
type NoneLit struct {
	ExprBase
	Synthetic bool
}

// ---------- Displays ----------

// ListDisplay is [a, b] or, when Comp is set, a list comprehension with no
// Elems.
type ListDisplay struct {
	ExprBase
	Elems []Expr
	Comp  *Comprehension
}

// SetDisplay is {a, b}, an empty {} or a set comprehension.
type SetDisplay struct {
	ExprBase
	Elems []Expr
	Comp  *Comprehension
}

type TupleDisplay struct {
	ExprBase
	Elems []Expr
}

// DictDisplay holds either plain items or a single item carrying the
// comprehension clause.
type DictDisplay struct {
	ExprBase
	Items []*DictItem
}

// Generator is (elem for ...).
type Generator struct {
	ExprBase
	Elem Expr
	For  *CompFor
}

// Yield is 'yield', 'yield a, b' or 'yield from x'.
type Yield struct {
	ExprBase
	Values []Expr
	From   Expr
}

// ---------- Postfix ----------

type AttributeRef struct {
	ExprBase
	X    Expr
	Name string
}

// Subscription is x[a] or x[a, b].
type Subscription struct {
	ExprBase
	X       Expr
	Indices []Expr
}

// Slicing is x[lower:upper:stride]; any bound may be nil.
type Slicing struct {
	ExprBase
	X      Expr
	Lower  Expr
	Upper  Expr
	Stride Expr
}

// Call is f(args). Comp is set for the generator-argument form f(x for x in y).
type Call struct {
	ExprBase
	Func Expr
	Args []*Argument
	Comp *Comprehension
}

// ---------- Operators ----------

type Unary struct {
	ExprBase
	Op token.Kind
	X  Expr
}

type Binary struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// Conditional is 'then if cond else otherwise'.
type Conditional struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

type Lambda struct {
	ExprBase
	Params []*Parameter
	Body   Expr
}

func (*Name) exprNode()         {}
func (*StringLit) exprNode()    {}
func (*IntLit) exprNode()       {}
func (*FloatLit) exprNode()     {}
func (*BoolLit) exprNode()      {}
func (*NoneLit) exprNode()      {}
func (*ListDisplay) exprNode()  {}
func (*SetDisplay) exprNode()   {}
func (*TupleDisplay) exprNode() {}
func (*DictDisplay) exprNode()  {}
func (*Generator) exprNode()    {}
func (*Yield) exprNode()        {}
func (*AttributeRef) exprNode() {}
func (*Subscription) exprNode() {}
func (*Slicing) exprNode()      {}
func (*Call) exprNode()         {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Conditional) exprNode()  {}
func (*Lambda) exprNode()       {}
