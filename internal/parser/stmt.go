package parser

import (
	"fmt"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/token"
)

// parseStmt parses one statement at the given indentation. It returns nil
// when cur is indented less, or at the end of the input, which closes the
// enclosing suite.
func (p *Parser) parseStmt(indentation int) ast.Stmt {
	if p.cur.Offset > indentation && !p.match(token.EOF) {
		p.fail(diag.CodeUnexpectedIndent, p.cur.Pos, "Unexpected indentation while parsing statement")
	}
	if p.cur.Offset < indentation || p.match(token.EOF) {
		return nil
	}

	switch p.cur.Kind {
	case token.Assert:
		return p.parseAssertStmt()
	case token.Pass:
		stmt := &ast.PassStmt{PassPos: p.cur.Pos}
		p.nextToken()
		p.accept(token.Semicolon)
		return stmt
	case token.Break:
		stmt := &ast.BreakStmt{BreakPos: p.cur.Pos}
		p.nextToken()
		p.accept(token.Semicolon)
		return stmt
	case token.Continue:
		stmt := &ast.ContinueStmt{ContinuePos: p.cur.Pos}
		p.nextToken()
		p.accept(token.Semicolon)
		return stmt
	case token.Del:
		return p.parseDelStmt()
	case token.Return:
		return p.parseReturnStmt()
	case token.Yield:
		stmt := &ast.YieldStmt{Value: p.parseYield()}
		p.accept(token.Semicolon)
		return stmt
	case token.Raise:
		return p.parseRaiseStmt()
	case token.Import:
		return p.parseImportStmt()
	case token.From:
		return p.parseFromImportStmt()
	case token.Global:
		pos := p.cur.Pos
		return &ast.GlobalStmt{GlobalPos: pos, Names: p.parseNameList()}
	case token.Nonlocal:
		pos := p.cur.Pos
		return &ast.NonlocalStmt{NonlocalPos: pos, Names: p.parseNameList()}
	case token.If:
		return p.parseIfStmt(indentation)
	case token.While:
		return p.parseWhileStmt(indentation)
	case token.For:
		return p.parseForStmt(indentation, false)
	case token.Try:
		return p.parseTryStmt(indentation)
	case token.With:
		return p.parseWithStmt(indentation, false)
	case token.Def:
		return p.parseFuncDef(indentation, false)
	case token.Class:
		return p.parseClassDef(indentation)
	case token.At:
		return p.parseDecorated(indentation)
	case token.Name:
		if async := p.parseAsyncStmt(indentation); async != nil {
			return async
		}
	}

	return p.parseExprStmt()
}

// parseAsyncStmt handles 'async def', 'async for' and 'async with'.
func (p *Parser) parseAsyncStmt(indentation int) ast.Stmt {
	switch {
	case p.isAsync(token.Def):
		p.nextToken()
		return p.parseFuncDef(indentation, true)
	case p.isAsync(token.For):
		p.nextToken()
		return p.parseForStmt(indentation, true)
	case p.isAsync(token.With):
		p.nextToken()
		return p.parseWithStmt(indentation, true)
	}
	return nil
}

// parseExprStmt classifies a statement that starts with an expression list:
// annotated, plain or augmented assignment, or a bare call.
func (p *Parser) parseExprStmt() ast.Stmt {
	exprs := p.parseStarredList()
	first := exprs[0]

	switch {
	case p.accept(token.Colon):
		if len(exprs) != 1 {
			p.fail(diag.CodeExpectedSingleExpr, first.Pos(), "Unexpected expression-list before the ':' token")
		}
		stmt := &ast.AnnAssignStmt{Target: p.toTarget(first), Annotation: p.parseExpr()}
		if p.accept(token.Assign) {
			stmt.Value = p.parseExpr()
		}
		p.accept(token.Semicolon)
		return stmt

	case p.match(token.Assign):
		lists := [][]ast.Expr{exprs}
		for p.accept(token.Assign) {
			lists = append(lists, p.parseStarredList())
		}
		stmt := &ast.AssignStmt{}
		for _, list := range lists[:len(lists)-1] {
			stmt.Targets = append(stmt.Targets, p.toTargets(list))
		}
		stmt.Value = exprListValue(lists[len(lists)-1])
		p.accept(token.Semicolon)
		return stmt

	case p.cur.Kind.IsAugAssign():
		if len(exprs) != 1 {
			p.fail(diag.CodeExpectedSingleExpr, first.Pos(), "Unexpected expression-list before augmented assignment")
		}
		stmt := &ast.AugAssignStmt{Target: p.toTarget(first), Op: p.cur.Kind}
		p.nextToken()
		for {
			stmt.Values = append(stmt.Values, p.parseExpr())
			if !p.accept(token.Comma) {
				break
			}
		}
		p.accept(token.Semicolon)
		return stmt
	}

	if len(exprs) != 1 {
		p.fail(diag.CodeExpectedSingleExpr, first.Pos(), "Unexpected expression-list in statement context")
	}
	switch x := first.(type) {
	case *ast.Call:
	case *ast.StringLit:
		// docstring
		if !x.Multiline {
			p.fail(diag.CodeNonCallStatement, first.Pos(), "Unexpected non-call expression in statement context")
		}
	default:
		p.fail(diag.CodeNonCallStatement, first.Pos(), "Unexpected non-call expression in statement context")
	}
	p.accept(token.Semicolon)
	return &ast.ExprStmt{X: first}
}

// exprListValue makes a, b on the right of '=' a tuple.
func exprListValue(list []ast.Expr) ast.Expr {
	if len(list) == 1 {
		return list[0]
	}
	return &ast.TupleDisplay{ExprBase: ast.ExprBase{Loc: list[0].Pos()}, Elems: list}
}

func (p *Parser) parseAssertStmt() ast.Stmt {
	stmt := &ast.AssertStmt{AssertPos: p.cur.Pos}
	p.nextToken()

	stmt.Test = p.parseExpr()
	if p.accept(token.Comma) {
		stmt.Msg = p.parseExpr()
	}
	p.accept(token.Semicolon)
	return stmt
}

func (p *Parser) parseDelStmt() ast.Stmt {
	stmt := &ast.DelStmt{DelPos: p.cur.Pos}
	p.nextToken()

	for {
		stmt.Targets = append(stmt.Targets, p.parseTarget())
		if p.linesChanged || !p.accept(token.Comma) {
			break
		}
	}
	p.accept(token.Semicolon)
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	stmt := &ast.ReturnStmt{ReturnPos: p.cur.Pos}
	p.nextToken()

	if !p.atStatementEnd() {
		for {
			stmt.Values = append(stmt.Values, p.parseStarred())
			if p.linesChanged || !p.accept(token.Comma) {
				break
			}
		}
	}
	p.accept(token.Semicolon)
	return stmt
}

func (p *Parser) parseRaiseStmt() ast.Stmt {
	stmt := &ast.RaiseStmt{RaisePos: p.cur.Pos}
	p.nextToken()

	if !p.atStatementEnd() {
		stmt.Exc = p.parseExpr()
		if p.accept(token.From) {
			stmt.Cause = p.parseExpr()
		}
	}
	p.accept(token.Semicolon)
	return stmt
}

// parseNameList parses the names after 'global' or 'nonlocal'.
func (p *Parser) parseNameList() []string {
	p.nextToken()

	var names []string
	for {
		names = append(names, p.parseName())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.accept(token.Semicolon)
	return names
}

// ---------- Imports ----------

func (p *Parser) parseImportStmt() ast.Stmt {
	stmt := &ast.ImportStmt{ImportPos: p.cur.Pos}
	p.nextToken()

	for {
		item := &ast.ImportItem{NamePos: p.cur.Pos}
		for p.accept(token.Access) {
			item.Dots++
		}
		item.Parts = p.parseDottedName()
		if len(item.Parts) == 0 {
			p.fail(diag.CodeInvalidImport, p.cur.Pos, "Expected an import item. Invalid syntax.")
		}
		if p.accept(token.As) {
			item.Alias = p.parseName()
		}
		stmt.Items = append(stmt.Items, item)

		if !p.accept(token.Comma) {
			break
		}
	}
	p.accept(token.Semicolon)
	return stmt
}

func (p *Parser) parseFromImportStmt() ast.Stmt {
	stmt := &ast.FromImportStmt{FromPos: p.cur.Pos}
	p.nextToken()

	for p.accept(token.Access) {
		stmt.Dots++
	}
	stmt.Source = p.parseDottedName()
	if len(stmt.Source) == 0 && stmt.Dots == 0 {
		p.fail(diag.CodeInvalidImport, p.cur.Pos, "Expected an import source. Invalid syntax.")
	}
	p.expect(token.Import)

	if p.accept(token.Star) {
		stmt.Star = true
		p.accept(token.Semicolon)
		return stmt
	}

	parens := p.accept(token.LParen)
	for {
		item := &ast.ImportItem{NamePos: p.cur.Pos}
		item.Parts = []string{p.parseName()}
		if p.accept(token.As) {
			item.Alias = p.parseName()
		}
		stmt.Items = append(stmt.Items, item)

		if !p.accept(token.Comma) {
			break
		}
		if parens && p.match(token.RParen) {
			break
		}
	}
	if parens {
		p.expect(token.RParen)
	}
	p.accept(token.Semicolon)
	return stmt
}

// parseDottedName parses name(.name)*; it returns nil when cur is not a name.
func (p *Parser) parseDottedName() []string {
	var parts []string
	for p.match(token.Name) {
		parts = append(parts, p.cur.Lexeme)
		p.nextToken()
		if !p.match(token.Access) {
			break
		}
		p.nextToken()
		// import a. is malformed
		p.require(token.Name)
	}
	return parts
}

// ---------- Decorators ----------

func (p *Parser) parseDecorated(indentation int) ast.Stmt {
	var decorators []*ast.Decorator
	for p.match(token.At) {
		dec := &ast.Decorator{AtPos: p.cur.Pos}
		p.nextToken()

		for {
			dec.Name = append(dec.Name, p.parseName())
			if !p.accept(token.Access) {
				break
			}
		}
		if !p.linesChanged && p.accept(token.LParen) {
			dec.HasCall = true
			dec.Args = p.parseArgumentList()
			p.expect(token.RParen)
		}
		if !p.linesChanged {
			p.fail(diag.CodeExpectedNewline, p.cur.Pos, "Expected a newline here")
		}
		decorators = append(decorators, dec)

		// each decorator and the definition share the decorator's column
		if p.cur.Offset != indentation && !p.match(token.EOF) {
			p.fail(diag.CodeUnexpectedIndent, p.cur.Pos, "Unexpected indentation after decorator")
		}
	}

	switch {
	case p.match(token.Def):
		fn := p.parseFuncDef(indentation, false)
		fn.Decorators = decorators
		return fn
	case p.isAsync(token.Def):
		p.nextToken()
		fn := p.parseFuncDef(indentation, true)
		fn.Decorators = decorators
		return fn
	case p.match(token.Class):
		cls := p.parseClassDef(indentation)
		cls.Decorators = decorators
		return cls
	}

	p.fail(diag.CodeInvalidDecorator, p.cur.Pos,
		fmt.Sprintf("expected 'def' or 'class' after decorator list. Found: %s", p.cur.Lexeme))
	return nil
}
