package ast

import "pyfront/internal/token"

// Basic interfaces

type Node interface {
	Pos() token.Position
}

// Stmt is implemented by every statement node and nothing else.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node and nothing else. Every
// expression carries an ExprBase with the await marker and star count.
type Expr interface {
	Node
	Base() *ExprBase
	exprNode()
}

// Target is the left-hand side of assignment, for and del.
type Target interface {
	Node
	targetNode()
}

// ExprBase holds what all expressions share.
type ExprBase struct {
	Loc token.Position
	// Await is set when the expression was prefixed with 'await'.
	Await bool
	// Stars is 1 for *x and 2 for **x in starred contexts, 0 otherwise.
	Stars int
}

func (b *ExprBase) Pos() token.Position { return b.Loc }
func (b *ExprBase) Base() *ExprBase     { return b }

// Module

// Module is the root of a parsed file.
type Module struct {
	File string
	Body []Stmt
}

func (m *Module) Pos() token.Position {
	if len(m.Body) > 0 {
		return m.Body[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Suite is the indented block owned by a compound statement. It is never
// empty.
type Suite struct {
	ColonPos token.Position
	// Indent is the virtual offset shared by every statement of the block.
	Indent int
	Stmts  []Stmt
}

func (s *Suite) Pos() token.Position { return s.ColonPos }

// Arguments / parameters

// Argument is one entry of a call or decorator argument list. Name is set
// for keyword arguments.
type Argument struct {
	Stars int
	Name  string
	Value Expr
}

func (a *Argument) Pos() token.Position { return a.Value.Pos() }

// Parameter is one entry of a def or lambda parameter list.
type Parameter struct {
	NamePos token.Position
	Stars   int
	Name    string
	Hint    Expr // nil without annotation
	Default Expr // nil without default value
}

func (p *Parameter) Pos() token.Position { return p.NamePos }

// Targets

// BracketedTarget groups sub-targets for unpacking. Bracket is LParen or
// LBracket.
type BracketedTarget struct {
	Open    token.Position
	Bracket token.Kind
	Targets []Target
}

func (t *BracketedTarget) Pos() token.Position { return t.Open }
func (*BracketedTarget) targetNode()           {}

// ExprTarget is a Name, AttributeRef, Subscription or Slicing, optionally
// starred.
type ExprTarget struct {
	Star bool
	X    Expr
}

func (t *ExprTarget) Pos() token.Position { return t.X.Pos() }
func (*ExprTarget) targetNode()           {}

// Comprehension clauses

// Comprehension is an element expression driven by a clause chain.
type Comprehension struct {
	Elem Expr
	For  *CompFor
}

func (c *Comprehension) Pos() token.Position { return c.Elem.Pos() }

// CompFor is 'async? for targets in iter' followed by an optional next
// clause.
type CompFor struct {
	ForPos  token.Position
	Async   bool
	Targets []Target
	Iter    Expr
	Next    *CompIter
}

func (c *CompFor) Pos() token.Position { return c.ForPos }

// CompIf filters the clause before it.
type CompIf struct {
	IfPos token.Position
	Cond  Expr
	Next  *CompIter
}

func (c *CompIf) Pos() token.Position { return c.IfPos }

// CompIter links one clause to the next. Exactly one field is set.
type CompIter struct {
	For *CompFor
	If  *CompIf
}

func (c *CompIter) Pos() token.Position {
	if c.For != nil {
		return c.For.Pos()
	}
	return c.If.Pos()
}

// Other helpers

// DictItem is key: value, or the whole dict comprehension when For is set.
type DictItem struct {
	Key   Expr
	Value Expr
	For   *CompFor
}

func (d *DictItem) Pos() token.Position { return d.Key.Pos() }

// Decorator is '@' dotted.name with an optional call.
type Decorator struct {
	AtPos   token.Position
	Name    []string
	HasCall bool
	Args    []*Argument
}

func (d *Decorator) Pos() token.Position { return d.AtPos }

// ImportItem is a dotted module or symbol name with an optional alias.
type ImportItem struct {
	NamePos token.Position
	// Dots counts leading dots of a relative 'import' item.
	Dots  int
	Parts []string
	Alias string
}

func (i *ImportItem) Pos() token.Position { return i.NamePos }

// IfClause is one 'if' or 'elif' guard with its body.
type IfClause struct {
	Cond Expr
	Body *Suite
}

func (c *IfClause) Pos() token.Position { return c.Cond.Pos() }

// ExceptClause is 'except [expr [as name]]:' and its body.
type ExceptClause struct {
	ExceptPos token.Position
	Type      Expr // nil for a bare except
	Name      string
	Body      *Suite
}

func (c *ExceptClause) Pos() token.Position { return c.ExceptPos }

// WithItem is 'expr [as target]'.
type WithItem struct {
	Expr  Expr
	Alias Target // nil without 'as'
}

func (w *WithItem) Pos() token.Position { return w.Expr.Pos() }
