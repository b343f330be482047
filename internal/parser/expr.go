package parser

import (
	"fmt"
	"strconv"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/token"
)

// ---------- Expressions ----------

func (p *Parser) parseExpr() ast.Expr {
	if p.match(token.Lambda) {
		return p.parseLambda()
	}

	expr := p.parseOr()

	// 'then if cond else otherwise', only on the same line
	if !p.linesChanged && p.accept(token.If) {
		cond := p.parseOr()
		p.expect(token.Else)
		return &ast.Conditional{
			ExprBase: ast.ExprBase{Loc: expr.Pos()},
			Cond:     cond,
			Then:     expr,
			Else:     p.parseExpr(),
		}
	}
	return expr
}

func (p *Parser) parseLambda() ast.Expr {
	lambda := &ast.Lambda{ExprBase: ast.ExprBase{Loc: p.cur.Pos}}
	p.nextToken()

	if !p.accept(token.Colon) {
		for {
			param := &ast.Parameter{NamePos: p.cur.Pos}
			if p.accept(token.Star) {
				param.Stars = 1
			} else if p.accept(token.DoubleStar) {
				param.Stars = 2
			}
			param.Name = p.parseName()
			if p.accept(token.Assign) {
				param.Default = p.parseExpr()
			}
			lambda.Params = append(lambda.Params, param)

			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.Colon)
	}

	lambda.Body = p.parseExpr()
	return lambda
}

// binary folds operands produced by next while cur is one of ops.
func (p *Parser) binary(next func() ast.Expr, ops ...token.Kind) ast.Expr {
	left := next()
	for p.matchAny(ops) {
		op := p.cur.Kind
		p.nextToken()
		left = &ast.Binary{
			ExprBase: ast.ExprBase{Loc: left.Pos()},
			Op:       op,
			Left:     left,
			Right:    next(),
		}
	}
	return left
}

func (p *Parser) matchAny(kinds []token.Kind) bool {
	for _, k := range kinds {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseOr() ast.Expr {
	return p.binary(p.parseAnd, token.Or)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.binary(p.parseNot, token.And)
}

func (p *Parser) parseNot() ast.Expr {
	if !p.match(token.Not) {
		return p.parseComparison()
	}
	pos := p.cur.Pos
	p.nextToken()
	return &ast.Unary{
		ExprBase: ast.ExprBase{Loc: pos},
		Op:       token.Not,
		X:        p.parseNot(),
	}
}

// parseComparison folds left: a < b < c is (a < b) < c.
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitOr()
	for p.cur.Kind.IsComparison() {
		op := p.cur.Kind
		p.nextToken()
		left = &ast.Binary{
			ExprBase: ast.ExprBase{Loc: left.Pos()},
			Op:       op,
			Left:     left,
			Right:    p.parseBitOr(),
		}
	}
	return left
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.binary(p.parseBitXor, token.Pipe)
}

func (p *Parser) parseBitXor() ast.Expr {
	return p.binary(p.parseBitAnd, token.Caret)
}

func (p *Parser) parseBitAnd() ast.Expr {
	return p.binary(p.parseShift, token.Amp)
}

func (p *Parser) parseShift() ast.Expr {
	return p.binary(p.parseAdditive, token.ShiftLeft, token.ShiftRight)
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.binary(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for {
		switch p.cur.Kind {
		case token.Star, token.Slash, token.DoubleSlash, token.Percent:
		case token.At:
			// a line starting with '@' is a decorator, not a matrix product
			if p.linesChanged {
				return left
			}
		default:
			return left
		}
		op := p.cur.Kind
		p.nextToken()
		left = &ast.Binary{
			ExprBase: ast.ExprBase{Loc: left.Pos()},
			Op:       op,
			Left:     left,
			Right:    p.parseUnary(),
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.Tilde, token.Plus, token.Minus:
		op := p.cur
		p.nextToken()
		return &ast.Unary{
			ExprBase: ast.ExprBase{Loc: op.Pos},
			Op:       op.Kind,
			X:        p.parseUnary(),
		}
	}
	return p.parsePower()
}

// parsePower binds tighter than unary on its left only: -a ** -b is
// -(a ** (-b)).
func (p *Parser) parsePower() ast.Expr {
	base := p.parseAwait()
	if !p.match(token.DoubleStar) {
		return base
	}
	p.nextToken()
	return &ast.Binary{
		ExprBase: ast.ExprBase{Loc: base.Pos()},
		Op:       token.DoubleStar,
		Left:     base,
		Right:    p.parseUnary(),
	}
}

func (p *Parser) parseAwait() ast.Expr {
	if !p.accept(token.Await) {
		return p.parsePostfix()
	}
	expr := p.parsePostfix()
	expr.Base().Await = true
	return expr
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()

	for {
		switch p.cur.Kind {
		case token.Access:
			p.nextToken()
			name := p.parseName()
			expr = &ast.AttributeRef{
				ExprBase: ast.ExprBase{Loc: expr.Pos()},
				X:        expr,
				Name:     name,
			}
		case token.LParen:
			// a bracket opening a new line starts the next statement
			if p.linesChanged {
				return expr
			}
			p.nextToken()
			expr = p.parseCall(expr)
		case token.LBracket:
			if p.linesChanged {
				return expr
			}
			p.nextToken()
			expr = p.parseSliceOrSubscription(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur
	base := ast.ExprBase{Loc: tok.Pos}

	switch tok.Kind {
	case token.Name:
		p.nextToken()
		return &ast.Name{ExprBase: base, Value: tok.Lexeme}

	case token.None:
		p.nextToken()
		return &ast.NoneLit{ExprBase: base}

	case token.True, token.False:
		p.nextToken()
		return &ast.BoolLit{ExprBase: base, Value: tok.Kind == token.True}

	case token.String, token.MultiString:
		return p.parseStrings()

	case token.Int:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.failKind(diag.KindLiteral, diag.CodeInvalidInteger, tok.Pos, "invalid integer literal")
		}
		p.nextToken()
		return &ast.IntLit{ExprBase: base, Value: v, Raw: tok.Lexeme}

	case token.Float:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.failKind(diag.KindLiteral, diag.CodeInvalidFloat, tok.Pos, "invalid float literal")
		}
		p.nextToken()
		return &ast.FloatLit{ExprBase: base, Value: v, Raw: tok.Lexeme}

	case token.Imaginary:
		p.failKind(diag.KindLiteral, diag.CodeUnsupportedLiteral, tok.Pos,
			fmt.Sprintf("unsupported literal: imaginary number %s", tok.Lexeme))

	case token.Yield:
		return p.parseYield()

	case token.LBracket:
		return p.parseListDisplay()

	case token.LParen:
		return p.parseParenthesized()

	case token.LBrace:
		return p.parseBraceDisplay()
	}

	p.fail(diag.CodeExpectedExpression, tok.Pos,
		fmt.Sprintf("expected an expression here, but got: %s", tok.Lexeme))
	return nil
}

// parseStrings joins adjacent string literals into one, dropping quotes.
func (p *Parser) parseStrings() ast.Expr {
	lit := &ast.StringLit{
		ExprBase:  ast.ExprBase{Loc: p.cur.Pos},
		Multiline: p.cur.Kind == token.MultiString,
	}
	for p.cur.Kind.IsString() {
		q := 1
		if p.cur.Kind == token.MultiString {
			q = 3
		}
		lex := p.cur.Lexeme
		lit.Value += lex[q : len(lex)-q]
		p.nextToken()
	}
	return lit
}

// parseYield parses 'yield', 'yield a, b' or 'yield from x'.
func (p *Parser) parseYield() *ast.Yield {
	y := &ast.Yield{ExprBase: ast.ExprBase{Loc: p.cur.Pos}}
	p.nextToken()

	if p.atStatementEnd() || p.match(token.RParen) || p.match(token.RBracket) || p.match(token.RBrace) {
		return y
	}
	if p.accept(token.From) {
		y.From = p.parseExpr()
		return y
	}
	for {
		y.Values = append(y.Values, p.parseExpr())
		if !p.accept(token.Comma) {
			break
		}
	}
	return y
}

// parseStarred parses an expression that may carry a single leading '*'.
func (p *Parser) parseStarred() ast.Expr {
	if !p.accept(token.Star) {
		return p.parseExpr()
	}
	expr := p.parseBitOr()
	expr.Base().Stars = 1
	return expr
}

// parseStarredList parses a comma-separated expression list.
func (p *Parser) parseStarredList() []ast.Expr {
	var list []ast.Expr
	for {
		list = append(list, p.parseStarred())
		if !p.accept(token.Comma) {
			return list
		}
		// trailing comma
		if p.atStatementEnd() || p.match(token.Assign) || p.match(token.Colon) || p.match(token.In) {
			return list
		}
	}
}
