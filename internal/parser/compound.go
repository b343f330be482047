package parser

import (
	"fmt"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/token"
)

// parseSuite parses ':' followed by an indented block. The first suite of
// the parse fixes the indentation scheme; every block must sit exactly one
// scheme width deeper than its owner.
func (p *Parser) parseSuite(indentation int) *ast.Suite {
	colon := p.expect(token.Colon)

	if !p.linesChanged {
		p.fail(diag.CodeExpectedNewline, p.cur.Pos,
			fmt.Sprintf("Expected a newline here, but found: %s", p.cur.Lexeme))
	}

	blockIndentation := p.cur.Offset
	if p.match(token.EOF) || indentation >= blockIndentation {
		p.fail(diag.CodeExpectedIndent, p.cur.Pos, "Expected indentation here")
	}
	if p.indentationScheme == 0 {
		p.indentationScheme = blockIndentation
	}
	if indentation+p.indentationScheme != blockIndentation {
		p.fail(diag.CodeInconsistentIndent, p.cur.Pos, "Inconsistent indentation scheme")
	}

	suite := &ast.Suite{ColonPos: colon.Pos, Indent: blockIndentation}
	for {
		stmt := p.parseStmt(blockIndentation)
		if stmt == nil {
			break
		}
		if !p.linesChanged && !p.match(token.EOF) {
			p.fail(diag.CodeExpectedNewline, p.cur.Pos,
				fmt.Sprintf("Expected a newline here.. right before: %s", p.cur.Lexeme))
		}
		suite.Stmts = append(suite.Stmts, stmt)
	}

	if len(suite.Stmts) == 0 {
		p.fail(diag.CodeEmptySuite, p.cur.Pos, "Expected at least one statement for the suite/block")
	}
	return suite
}

// atClause reports whether cur may continue the compound statement that
// owns the just-parsed suite: a clause keyword at the owner's indentation.
func (p *Parser) atClause(indentation int, kind token.Kind) bool {
	return p.linesChanged && p.cur.Offset == indentation && p.match(kind)
}

func (p *Parser) parseIfStmt(indentation int) ast.Stmt {
	stmt := &ast.IfStmt{IfPos: p.cur.Pos}
	p.nextToken()

	for {
		clause := &ast.IfClause{Cond: p.parseExpr()}
		clause.Body = p.parseSuite(indentation)
		stmt.Clauses = append(stmt.Clauses, clause)

		if !p.atClause(indentation, token.Elif) {
			break
		}
		p.nextToken()
	}

	if p.atClause(indentation, token.Else) {
		p.nextToken()
		stmt.Else = p.parseSuite(indentation)
	}
	return stmt
}

func (p *Parser) parseWhileStmt(indentation int) ast.Stmt {
	stmt := &ast.WhileStmt{WhilePos: p.cur.Pos}
	p.nextToken()

	stmt.Cond = p.parseExpr()
	stmt.Body = p.parseSuite(indentation)

	if p.atClause(indentation, token.Else) {
		p.nextToken()
		stmt.Else = p.parseSuite(indentation)
	}
	return stmt
}

func (p *Parser) parseForStmt(indentation int, async bool) ast.Stmt {
	stmt := &ast.ForStmt{ForPos: p.cur.Pos, Async: async}
	p.nextToken()

	for {
		stmt.Targets = append(stmt.Targets, p.parseTarget())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.In)
	for {
		stmt.Iter = append(stmt.Iter, p.parseStarred())
		if !p.accept(token.Comma) {
			break
		}
	}

	stmt.Body = p.parseSuite(indentation)

	if p.atClause(indentation, token.Else) {
		p.nextToken()
		stmt.Else = p.parseSuite(indentation)
	}
	return stmt
}

func (p *Parser) parseTryStmt(indentation int) ast.Stmt {
	stmt := &ast.TryStmt{TryPos: p.cur.Pos}
	p.nextToken()

	stmt.Body = p.parseSuite(indentation)

	for p.atClause(indentation, token.Except) {
		handler := &ast.ExceptClause{ExceptPos: p.cur.Pos}
		p.nextToken()

		if !p.match(token.Colon) {
			handler.Type = p.parseExpr()
			if p.accept(token.As) {
				handler.Name = p.parseName()
			}
		}
		handler.Body = p.parseSuite(indentation)
		stmt.Handlers = append(stmt.Handlers, handler)
	}

	if len(stmt.Handlers) > 0 && p.atClause(indentation, token.Else) {
		p.nextToken()
		stmt.Else = p.parseSuite(indentation)
	}
	if p.atClause(indentation, token.Finally) {
		p.nextToken()
		stmt.Finally = p.parseSuite(indentation)
	}

	if len(stmt.Handlers) == 0 && stmt.Finally == nil {
		p.fail(diag.CodeMissingHandler, p.cur.Pos,
			fmt.Sprintf("required 'except' or 'finally' after try block, but found: %s", p.cur.Lexeme))
	}
	return stmt
}

func (p *Parser) parseWithStmt(indentation int, async bool) ast.Stmt {
	stmt := &ast.WithStmt{WithPos: p.cur.Pos, Async: async}
	p.nextToken()

	for {
		item := &ast.WithItem{Expr: p.parseExpr()}
		if p.accept(token.As) {
			item.Alias = p.parseTarget()
		}
		stmt.Items = append(stmt.Items, item)

		if !p.accept(token.Comma) {
			break
		}
	}

	stmt.Body = p.parseSuite(indentation)
	return stmt
}

// parseFuncDef parses from 'def'; decorators are attached by the caller.
func (p *Parser) parseFuncDef(indentation int, async bool) *ast.FuncDef {
	fn := &ast.FuncDef{DefPos: p.cur.Pos, Async: async}
	p.expect(token.Def)

	fn.Name = p.parseName()
	p.expect(token.LParen)
	fn.Params = p.parseParameterList()
	p.expect(token.RParen)

	if p.accept(token.Arrow) {
		fn.Returns = p.parseExpr()
	}

	fn.Body = p.parseSuite(indentation)
	return fn
}

// parseParameterList parses def parameters up to, not including, ')'. A bare
// '*' separator yields a parameter with an empty name.
func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	for !p.match(token.RParen) {
		param := &ast.Parameter{NamePos: p.cur.Pos}
		switch {
		case p.accept(token.Star):
			param.Stars = 1
		case p.accept(token.DoubleStar):
			param.Stars = 2
		}

		if param.Stars == 1 && (p.match(token.Comma) || p.match(token.RParen)) {
			params = append(params, param)
		} else {
			param.Name = p.parseName()
			if p.accept(token.Colon) {
				param.Hint = p.parseExpr()
			}
			if p.accept(token.Assign) {
				param.Default = p.parseExpr()
			}
			params = append(params, param)
		}

		if !p.accept(token.Comma) {
			break
		}
	}
	return params
}

func (p *Parser) parseClassDef(indentation int) *ast.ClassDef {
	cls := &ast.ClassDef{ClassPos: p.cur.Pos}
	p.expect(token.Class)

	cls.Name = p.parseName()
	if p.accept(token.LParen) {
		cls.Args = p.parseArgumentList()
		p.expect(token.RParen)
	}

	cls.Body = p.parseSuite(indentation)
	return cls
}
