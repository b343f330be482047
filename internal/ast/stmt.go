package ast

import "pyfront/internal/token"

// ---------- Simple statements ----------

// ExprStmt is a bare call, or a docstring.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

type AssertStmt struct {
	AssertPos token.Position
	Test      Expr
	Msg       Expr // nil without message
}

func (s *AssertStmt) Pos() token.Position { return s.AssertPos }

// AssignStmt is 't1 = t2 = ... = value'. Targets holds one target list per
// '=' in source order.
type AssignStmt struct {
	Targets [][]Target
	Value   Expr
}

func (s *AssignStmt) Pos() token.Position { return s.Targets[0][0].Pos() }

// AugAssignStmt is 'target op= values'.
type AugAssignStmt struct {
	Target Target
	Op     token.Kind
	Values []Expr
}

func (s *AugAssignStmt) Pos() token.Position { return s.Target.Pos() }

// AnnAssignStmt is 'target: annotation [= value]'.
type AnnAssignStmt struct {
	Target     Target
	Annotation Expr
	Value      Expr // nil for a bare annotation
}

func (s *AnnAssignStmt) Pos() token.Position { return s.Target.Pos() }

type PassStmt struct {
	PassPos token.Position
}

func (s *PassStmt) Pos() token.Position { return s.PassPos }

type DelStmt struct {
	DelPos  token.Position
	Targets []Target
}

func (s *DelStmt) Pos() token.Position { return s.DelPos }

type ReturnStmt struct {
	ReturnPos token.Position
	Values    []Expr // empty for a bare return
}

func (s *ReturnStmt) Pos() token.Position { return s.ReturnPos }

type YieldStmt struct {
	Value *Yield
}

func (s *YieldStmt) Pos() token.Position { return s.Value.Pos() }

type RaiseStmt struct {
	RaisePos token.Position
	Exc      Expr // nil for a bare re-raise
	Cause    Expr // set by 'from'
}

func (s *RaiseStmt) Pos() token.Position { return s.RaisePos }

type BreakStmt struct {
	BreakPos token.Position
}

func (s *BreakStmt) Pos() token.Position { return s.BreakPos }

type ContinueStmt struct {
	ContinuePos token.Position
}

func (s *ContinueStmt) Pos() token.Position { return s.ContinuePos }

// ImportStmt is 'import a.b as c, .d'.
type ImportStmt struct {
	ImportPos token.Position
	Items     []*ImportItem
}

func (s *ImportStmt) Pos() token.Position { return s.ImportPos }

// FromImportStmt is 'from ..pkg.mod import a as b, c' or 'from x import *'.
type FromImportStmt struct {
	FromPos token.Position
	Dots    int
	Source  []string // empty for 'from . import x'
	Items   []*ImportItem
	Star    bool
}

func (s *FromImportStmt) Pos() token.Position { return s.FromPos }

type GlobalStmt struct {
	GlobalPos token.Position
	Names     []string
}

func (s *GlobalStmt) Pos() token.Position { return s.GlobalPos }

type NonlocalStmt struct {
	NonlocalPos token.Position
	Names       []string
}

func (s *NonlocalStmt) Pos() token.Position { return s.NonlocalPos }

// ---------- Compound statements ----------

// IfStmt holds the 'if' clause followed by every 'elif' clause.
type IfStmt struct {
	IfPos   token.Position
	Clauses []*IfClause
	Else    *Suite
}

func (s *IfStmt) Pos() token.Position { return s.IfPos }

type WhileStmt struct {
	WhilePos token.Position
	Cond     Expr
	Body     *Suite
	Else     *Suite
}

func (s *WhileStmt) Pos() token.Position { return s.WhilePos }

type ForStmt struct {
	ForPos  token.Position
	Async   bool
	Targets []Target
	Iter    []Expr
	Body    *Suite
	Else    *Suite
}

func (s *ForStmt) Pos() token.Position { return s.ForPos }

type TryStmt struct {
	TryPos   token.Position
	Body     *Suite
	Handlers []*ExceptClause
	Else     *Suite
	Finally  *Suite
}

func (s *TryStmt) Pos() token.Position { return s.TryPos }

type WithStmt struct {
	WithPos token.Position
	Async   bool
	Items   []*WithItem
	Body    *Suite
}

func (s *WithStmt) Pos() token.Position { return s.WithPos }

type FuncDef struct {
	DefPos     token.Position
	Async      bool
	Decorators []*Decorator
	Name       string
	Params     []*Parameter
	Returns    Expr // '-> hint', nil if absent
	Body       *Suite
}

func (s *FuncDef) Pos() token.Position { return s.DefPos }

type ClassDef struct {
	ClassPos   token.Position
	Decorators []*Decorator
	Name       string
	Args       []*Argument
	Body       *Suite
}

func (s *ClassDef) Pos() token.Position { return s.ClassPos }

func (*ExprStmt) stmtNode()       {}
func (*AssertStmt) stmtNode()     {}
func (*AssignStmt) stmtNode()     {}
func (*AugAssignStmt) stmtNode()  {}
func (*AnnAssignStmt) stmtNode()  {}
func (*PassStmt) stmtNode()       {}
func (*DelStmt) stmtNode()        {}
func (*ReturnStmt) stmtNode()     {}
func (*YieldStmt) stmtNode()      {}
func (*RaiseStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*ImportStmt) stmtNode()     {}
func (*FromImportStmt) stmtNode() {}
func (*GlobalStmt) stmtNode()     {}
func (*NonlocalStmt) stmtNode()   {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*ForStmt) stmtNode()        {}
func (*TryStmt) stmtNode()        {}
func (*WithStmt) stmtNode()       {}
func (*FuncDef) stmtNode()        {}
func (*ClassDef) stmtNode()       {}
