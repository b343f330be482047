package parser

import (
	"fmt"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/token"
)

// ---------- Displays ----------

// isCompStart reports whether a comprehension clause starts at cur.
func (p *Parser) isCompStart() bool {
	return p.match(token.For) || p.isAsync(token.For)
}

func (p *Parser) parseListDisplay() ast.Expr {
	list := &ast.ListDisplay{ExprBase: ast.ExprBase{Loc: p.cur.Pos}}
	p.nextToken() // '['

	if p.accept(token.RBracket) {
		return list
	}

	first := p.parseStarred()
	if p.isCompStart() {
		list.Comp = &ast.Comprehension{Elem: first, For: p.parseCompFor()}
		p.expect(token.RBracket)
		return list
	}

	list.Elems = append(list.Elems, first)
	if !p.accept(token.Comma) {
		p.expect(token.RBracket)
		return list
	}
	for !p.accept(token.RBracket) {
		list.Elems = append(list.Elems, p.parseStarred())
		if !p.accept(token.Comma) {
			p.expect(token.RBracket)
			break
		}
	}
	return list
}

// parseParenthesized parses a tuple, a generator or a grouped expression.
// A trailing comma appends a synthetic None, so (1,) has two elements.
func (p *Parser) parseParenthesized() ast.Expr {
	open := p.cur.Pos
	p.nextToken() // '('

	var list []ast.Expr
	dangling := false

	for !p.accept(token.RParen) {
		dangling = false
		list = append(list, p.parseStarred())

		if !p.accept(token.Comma) {
			if len(list) == 1 && p.isCompStart() {
				gen := &ast.Generator{
					ExprBase: ast.ExprBase{Loc: open},
					Elem:     list[0],
					For:      p.parseCompFor(),
				}
				p.expect(token.RParen)
				return gen
			}
			p.expect(token.RParen)
			break
		}
		dangling = true
	}

	if dangling {
		list = append(list, &ast.NoneLit{
			ExprBase:  ast.ExprBase{Loc: p.cur.Pos},
			Synthetic: true,
		})
	}

	switch len(list) {
	case 0:
		p.fail(diag.CodeEmptyParentheses, open, "empty parentheses not allowed")
		return nil
	case 1:
		return list[0]
	default:
		return &ast.TupleDisplay{ExprBase: ast.ExprBase{Loc: open}, Elems: list}
	}
}

// parseBraceDisplay parses {}, a set, a dict, or either comprehension.
func (p *Parser) parseBraceDisplay() ast.Expr {
	base := ast.ExprBase{Loc: p.cur.Pos}
	p.nextToken() // '{'

	if p.accept(token.RBrace) {
		return &ast.SetDisplay{ExprBase: base}
	}

	first := p.parseStarred()

	if p.isCompStart() {
		set := &ast.SetDisplay{ExprBase: base}
		set.Comp = &ast.Comprehension{Elem: first, For: p.parseCompFor()}
		p.expect(token.RBrace)
		return set
	}

	switch {
	case p.accept(token.Colon):
		item := &ast.DictItem{Key: first, Value: p.parseExpr()}
		dict := &ast.DictDisplay{ExprBase: base, Items: []*ast.DictItem{item}}

		if p.isCompStart() {
			item.For = p.parseCompFor()
			p.expect(token.RBrace)
			return dict
		}
		if !p.accept(token.Comma) {
			p.expect(token.RBrace)
			return dict
		}
		for !p.accept(token.RBrace) {
			key := p.parseExpr()
			p.expect(token.Colon)
			dict.Items = append(dict.Items, &ast.DictItem{Key: key, Value: p.parseExpr()})
			if !p.accept(token.Comma) {
				p.expect(token.RBrace)
				break
			}
		}
		return dict

	case p.accept(token.Comma):
		set := &ast.SetDisplay{ExprBase: base}
		if p.isCompStart() {
			set.Comp = &ast.Comprehension{Elem: first, For: p.parseCompFor()}
			p.expect(token.RBrace)
			return set
		}
		set.Elems = append(set.Elems, first)
		for !p.accept(token.RBrace) {
			set.Elems = append(set.Elems, p.parseStarred())
			if !p.accept(token.Comma) {
				p.expect(token.RBrace)
				break
			}
		}
		return set

	case p.accept(token.RBrace):
		return &ast.SetDisplay{ExprBase: base, Elems: []ast.Expr{first}}
	}

	p.fail(diag.CodeInvalidDisplay, p.cur.Pos,
		fmt.Sprintf("expected either ':', or '}', but found: %s", p.cur.Lexeme))
	return nil
}

// ---------- Comprehensions ----------

func (p *Parser) parseCompFor() *ast.CompFor {
	cf := &ast.CompFor{ForPos: p.cur.Pos}
	if p.isAsync(token.For) {
		cf.Async = true
		p.nextToken()
	}
	p.expect(token.For)

	for {
		cf.Targets = append(cf.Targets, p.parseTarget())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.In)
	cf.Iter = p.parseOr()

	if !p.linesChanged {
		cf.Next = p.parseCompIter()
	}
	return cf
}

func (p *Parser) parseCompIf() *ast.CompIf {
	ci := &ast.CompIf{IfPos: p.cur.Pos}
	p.nextToken() // 'if'
	ci.Cond = p.parseOr()

	if !p.linesChanged {
		ci.Next = p.parseCompIter()
	}
	return ci
}

// parseCompIter returns the clause following a for or if clause, or nil.
func (p *Parser) parseCompIter() *ast.CompIter {
	switch {
	case p.isCompStart():
		return &ast.CompIter{For: p.parseCompFor()}
	case p.match(token.If):
		return &ast.CompIter{If: p.parseCompIf()}
	}
	return nil
}

// ---------- Calls ----------

// parseCall parses the arguments after '('. Only the first argument may be
// a bare generator: f(x for x in y).
func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	call := &ast.Call{ExprBase: ast.ExprBase{Loc: fn.Pos()}, Func: fn}

	for !p.accept(token.RParen) {
		if len(call.Args) == 0 && !p.match(token.Star) && !p.match(token.DoubleStar) {
			first := p.parseExpr()
			if p.isCompStart() {
				call.Comp = &ast.Comprehension{Elem: first, For: p.parseCompFor()}
				p.expect(token.RParen)
				return call
			}
			call.Args = append(call.Args, p.finishArgument(first))
		} else {
			call.Args = append(call.Args, p.parseArgument())
		}

		if !p.accept(token.Comma) {
			p.expect(token.RParen)
			break
		}
	}
	return call
}

// parseArgumentList parses arguments up to, not including, the closing ')'.
func (p *Parser) parseArgumentList() []*ast.Argument {
	var args []*ast.Argument
	for !p.match(token.RParen) {
		args = append(args, p.parseArgument())
		if !p.accept(token.Comma) {
			break
		}
	}
	return args
}

func (p *Parser) parseArgument() *ast.Argument {
	switch {
	case p.accept(token.DoubleStar):
		return &ast.Argument{Stars: 2, Value: p.parseExpr()}
	case p.accept(token.Star):
		return &ast.Argument{Stars: 1, Value: p.parseExpr()}
	}
	return p.finishArgument(p.parseExpr())
}

// finishArgument turns 'name = value' into a keyword argument.
func (p *Parser) finishArgument(expr ast.Expr) *ast.Argument {
	if !p.match(token.Assign) {
		return &ast.Argument{Value: expr}
	}
	name, ok := expr.(*ast.Name)
	if !ok || name.Await {
		p.fail(diag.CodeInvalidKeywordArg, p.cur.Pos, "unexpected '=' after non-name expression")
	}
	p.nextToken()
	return &ast.Argument{Name: name.Value, Value: p.parseExpr()}
}

// ---------- Subscripts and slices ----------

// parseSliceOrSubscription parses what follows '['. Any colon makes it a
// slice.
func (p *Parser) parseSliceOrSubscription(x ast.Expr) ast.Expr {
	base := ast.ExprBase{Loc: x.Pos()}

	var lower ast.Expr
	if !p.match(token.Colon) {
		lower = p.parseExpr()
		if !p.match(token.Colon) {
			sub := &ast.Subscription{ExprBase: base, X: x, Indices: []ast.Expr{lower}}
			for p.accept(token.Comma) {
				if p.match(token.RBracket) {
					break
				}
				sub.Indices = append(sub.Indices, p.parseExpr())
			}
			p.expect(token.RBracket)
			return sub
		}
	}
	p.nextToken() // ':'

	slice := &ast.Slicing{ExprBase: base, X: x, Lower: lower}
	if !p.match(token.Colon) && !p.match(token.RBracket) {
		slice.Upper = p.parseExpr()
	}
	if p.accept(token.Colon) && !p.match(token.RBracket) {
		slice.Stride = p.parseExpr()
	}
	p.expect(token.RBracket)
	return slice
}
