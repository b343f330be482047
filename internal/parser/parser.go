package parser

import (
	"errors"
	"fmt"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/lexer"
	"pyfront/internal/token"
)

type Parser struct {
	l     *lexer.Lexer
	diags *diag.Diagnostics
	file  string

	cur token.Token
	// buffered is the token fetched past cur while checking for 'not in' and
	// 'is not', or by peek. It is handed out by the next fetch.
	buffered *token.Token

	prevLine int
	// linesChanged is true when cur sits on a different line than the token
	// before it. Optional trailing parts of a statement are absent exactly
	// when it is set.
	linesChanged bool

	// indentationScheme is the per-level indent width, fixed by the first
	// suite of the parse.
	indentationScheme int
}

// bailout carries a fatal error from the point of detection up to the public
// entry point. It never leaves the package.
type bailout struct {
	err error
}

// incompleteError marks a failure caused by running out of input.
type incompleteError struct {
	err error
}

func (e *incompleteError) Error() string { return e.err.Error() }
func (e *incompleteError) Unwrap() error { return e.err }

// IsIncomplete reports whether err was caused by the input ending in the
// middle of a statement, so that more input could complete it.
func IsIncomplete(err error) bool {
	var ie *incompleteError
	if errors.As(err, &ie) {
		return true
	}
	var de *diag.Error
	return errors.As(err, &de) && de.Code == diag.CodeUnterminatedString
}

// New primes the parser with the first token of l. Fatal reports go to d.
func New(l *lexer.Lexer, d *diag.Diagnostics) (p *Parser, err error) {
	if d == nil {
		d = diag.New(nil)
	}
	p = &Parser{l: l, diags: d, file: l.File()}
	defer p.recover(&err)
	p.nextToken()
	return p, nil
}

// ParseStatementList parses top-level statements up to the end of the input.
// On error no statements are returned.
func (p *Parser) ParseStatementList() (stmts []ast.Stmt, err error) {
	defer func() {
		if err != nil {
			stmts = nil
		}
	}()
	defer p.recover(&err)

	for p.cur.Kind != token.EOF {
		stmt := p.parseStmt(0)
		stmts = append(stmts, stmt)

		if p.cur.Kind == token.EOF {
			break
		}
		if !p.linesChanged {
			p.fail(diag.CodeExpectedNewline, p.cur.Pos, "Expected a newline here")
		}
	}
	return stmts, nil
}

// ParseFile parses the file at path into a module.
func ParseFile(path string, d *diag.Diagnostics) (*ast.Module, error) {
	l, err := lexer.UseFile(path, d)
	if err != nil {
		return nil, err
	}
	return parseModule(l, d)
}

// ParseSource parses src; name is used in diagnostics.
func ParseSource(name, src string, d *diag.Diagnostics) (*ast.Module, error) {
	return parseModule(lexer.FromString(name, src, d), d)
}

// ParseExpression parses src as one expression spanning the whole input.
func ParseExpression(name, src string, d *diag.Diagnostics) (expr ast.Expr, err error) {
	p, err := New(lexer.FromString(name, src, d), d)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)

	expr = p.parseExpr()
	if !p.match(token.EOF) {
		p.fail(diag.CodeExpectedNewline, p.cur.Pos,
			fmt.Sprintf("unexpected '%s' after expression", p.cur.Lexeme))
	}
	return expr, nil
}

func parseModule(l *lexer.Lexer, d *diag.Diagnostics) (*ast.Module, error) {
	p, err := New(l, d)
	if err != nil {
		return nil, err
	}
	body, err := p.ParseStatementList()
	if err != nil {
		return nil, err
	}
	return &ast.Module{File: l.File(), Body: body}, nil
}

func (p *Parser) recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}
	*errp = b.err
}

// ---------- Token handling ----------

func (p *Parser) read() token.Token {
	if p.buffered != nil {
		tok := *p.buffered
		p.buffered = nil
		return tok
	}
	tok, err := p.l.NextToken()
	if err != nil {
		// already reported by the lexer
		panic(bailout{err: err})
	}
	return tok
}

// nextToken advances to the next token, fusing 'not in' and 'is not'.
func (p *Parser) nextToken() {
	p.cur = p.read()

	switch p.cur.Kind {
	case token.Not:
		next := p.read()
		if next.Kind == token.In {
			p.cur.Kind = token.NotIn
			p.cur.Lexeme = "not in"
		} else {
			p.buffered = &next
		}
	case token.Is:
		next := p.read()
		if next.Kind == token.Not {
			p.cur.Kind = token.IsNot
			p.cur.Lexeme = "is not"
		} else {
			p.buffered = &next
		}
	}

	p.linesChanged = p.cur.Pos.Line != p.prevLine
	p.prevLine = p.cur.Pos.Line
}

// peek returns the token after cur without consuming it.
func (p *Parser) peek() token.Token {
	if p.buffered == nil {
		tok := p.read()
		p.buffered = &tok
	}
	return *p.buffered
}

func (p *Parser) match(kind token.Kind) bool {
	return p.cur.Kind == kind
}

// accept consumes cur if it has the given kind.
func (p *Parser) accept(kind token.Kind) bool {
	if p.cur.Kind != kind {
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) require(kind token.Kind) {
	if p.cur.Kind != kind {
		p.fail(diag.CodeRequiredToken, p.cur.Pos,
			fmt.Sprintf("required '%s', but found: %s", kind, p.cur.Lexeme))
	}
}

func (p *Parser) expect(kind token.Kind) token.Token {
	p.require(kind)
	tok := p.cur
	p.nextToken()
	return tok
}

func (p *Parser) parseName() string {
	return p.expect(token.Name).Lexeme
}

// isAsync reports whether cur is the soft keyword 'async' in front of kind.
func (p *Parser) isAsync(kind token.Kind) bool {
	return p.cur.Kind == token.Name && p.cur.Lexeme == "async" && p.peek().Kind == kind
}

// atStatementEnd reports whether nothing more of the current simple
// statement follows.
func (p *Parser) atStatementEnd() bool {
	return p.linesChanged || p.match(token.EOF) || p.match(token.Semicolon)
}

// ---------- Errors ----------

func (p *Parser) fail(code diag.Code, pos token.Position, msg string) {
	p.failKind(diag.KindSyntax, code, pos, msg)
}

func (p *Parser) failKind(kind diag.Kind, code diag.Code, pos token.Position, msg string) {
	var err error = p.diags.ReportFatal(kind, code, p.file, msg, &pos)
	if p.cur.Kind == token.EOF && pos == p.cur.Pos {
		err = &incompleteError{err: err}
	}
	panic(bailout{err: err})
}
