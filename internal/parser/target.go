package parser

import (
	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/token"
)

// parseTarget parses one assignment, for or del target.
func (p *Parser) parseTarget() ast.Target {
	switch p.cur.Kind {
	case token.LParen:
		return p.parseBracketedTarget(token.RParen)
	case token.LBracket:
		return p.parseBracketedTarget(token.RBracket)
	}

	pos := p.cur.Pos
	star := p.accept(token.Star)
	x := p.parsePostfix()
	if star {
		x.Base().Stars = 1
	}
	if !isTargetExpr(x) {
		p.fail(diag.CodeInvalidTarget, pos, "invalid target")
	}
	return &ast.ExprTarget{Star: star, X: x}
}

func (p *Parser) parseBracketedTarget(closing token.Kind) ast.Target {
	t := &ast.BracketedTarget{Open: p.cur.Pos, Bracket: p.cur.Kind}
	p.nextToken()

	for !p.accept(closing) {
		t.Targets = append(t.Targets, p.parseTarget())
		if !p.accept(token.Comma) {
			p.expect(closing)
			break
		}
	}
	return t
}

// isTargetExpr reports whether x may appear as a leaf target.
func isTargetExpr(x ast.Expr) bool {
	if x.Base().Await {
		return false
	}
	switch x.(type) {
	case *ast.Name, *ast.AttributeRef, *ast.Subscription, *ast.Slicing:
		return true
	}
	return false
}

// toTarget converts an expression parsed before '=' into a target.
func (p *Parser) toTarget(x ast.Expr) ast.Target {
	switch x := x.(type) {
	case *ast.TupleDisplay:
		return p.toBracketedTarget(x.Pos(), token.LParen, x.Elems)
	case *ast.ListDisplay:
		if x.Comp == nil {
			return p.toBracketedTarget(x.Pos(), token.LBracket, x.Elems)
		}
	}
	if !isTargetExpr(x) || x.Base().Stars > 1 {
		p.fail(diag.CodeInvalidTarget, x.Pos(), "invalid target")
	}
	return &ast.ExprTarget{Star: x.Base().Stars == 1, X: x}
}

func (p *Parser) toBracketedTarget(pos token.Position, bracket token.Kind, elems []ast.Expr) ast.Target {
	t := &ast.BracketedTarget{Open: pos, Bracket: bracket}
	for _, e := range elems {
		// the placeholder behind a trailing comma binds nothing
		if none, ok := e.(*ast.NoneLit); ok && none.Synthetic {
			continue
		}
		t.Targets = append(t.Targets, p.toTarget(e))
	}
	return t
}

func (p *Parser) toTargets(list []ast.Expr) []ast.Target {
	targets := make([]ast.Target, len(list))
	for i, x := range list {
		targets[i] = p.toTarget(x)
	}
	return targets
}
