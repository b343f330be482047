package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"pyfront/internal/diag"
	"pyfront/internal/source"
	"pyfront/internal/token"
)

// char is a code point together with where it was read.
type char struct {
	r    rune
	line int
	col  int
	vcol int
}

type Lexer struct {
	r     *source.Reader
	diags *diag.Diagnostics
	file  string

	cur char
	// pushback holds a code point retracted after the lexer looked past it.
	// One slot is enough: only the fractional part of a number needs it.
	pushback []char

	// next position to hand out
	line int
	col  int
	vcol int

	// err is the first fatal error; the lexer is unusable once it is set.
	err error
}

// New returns a lexer reading from r. Warnings and fatal errors are reported
// to d; a nil d discards them.
func New(r *source.Reader, d *diag.Diagnostics) *Lexer {
	if d == nil {
		d = diag.New(io.Discard)
	}
	l := &Lexer{
		r:     r,
		diags: d,
		file:  r.Name(),
		line:  1,
	}
	l.readChar()
	return l
}

// UseFile opens path and returns a lexer over its contents.
func UseFile(path string, d *diag.Diagnostics) (*Lexer, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	if d != nil {
		d.AddSource(path, r.Bytes())
	}
	return New(r, d), nil
}

// FromString lexes an in-memory source; name is used in diagnostics.
func FromString(name, src string, d *diag.Diagnostics) *Lexer {
	if d != nil {
		d.AddSource(name, []byte(src))
	}
	return New(source.New(name, []byte(src)), d)
}

func (l *Lexer) File() string { return l.file }

// NextToken returns the next token. Once the input is exhausted every call
// yields an EOF token. A non-nil error is fatal: it has already been
// reported and the lexer must not be used further.
func (l *Lexer) NextToken() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	for {
		l.skipWhitespace()
		if l.cur.r != '#' {
			break
		}
		// comments run to the end of the physical line
		for l.cur.r != '\n' && l.cur.r != 0 && l.err == nil {
			l.readChar()
		}
	}
	if l.err != nil {
		return token.Token{}, l.err
	}

	start := l.cur
	pos := token.Position{Line: start.line, Column: start.col}
	tok := token.Token{Pos: pos, Offset: start.vcol}

	ch := l.cur.r

	// EOF
	if ch == 0 {
		tok.Kind = token.EOF
		tok.Lexeme = token.EOF.String()
		tok.Offset = 0
		return tok, nil
	}

	var err error
	switch {
	case isDigit(ch):
		tok.Kind, tok.Lexeme = l.readNumber()
	case isLetter(ch):
		tok.Lexeme = l.readIdentifier()
		tok.Kind = token.LookupIdent(tok.Lexeme)
	case ch == '"' || ch == '\'':
		tok.Kind, tok.Lexeme, err = l.readString(pos)
	default:
		tok.Kind, tok.Lexeme, err = l.readOperator(pos)
	}
	if err != nil {
		return token.Token{}, err
	}
	if l.err != nil {
		return token.Token{}, l.err
	}
	return tok, nil
}

// Tokens drains the lexer, including the final EOF token.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) readOperator(pos token.Position) (token.Kind, string, error) {
	ch := l.cur.r
	l.readChar()

	// one character, optionally followed by '='
	single := func(plain, withAssign token.Kind) (token.Kind, string, error) {
		if l.cur.r == '=' {
			l.readChar()
			return withAssign, string(ch) + "=", nil
		}
		return plain, string(ch), nil
	}

	switch ch {
	case '(':
		return token.LParen, "(", nil
	case ')':
		return token.RParen, ")", nil
	case '[':
		return token.LBracket, "[", nil
	case ']':
		return token.RBracket, "]", nil
	case '{':
		return token.LBrace, "{", nil
	case '}':
		return token.RBrace, "}", nil
	case ';':
		return token.Semicolon, ";", nil
	case ':':
		return token.Colon, ":", nil
	case ',':
		return token.Comma, ",", nil
	case '~':
		return token.Tilde, "~", nil
	case '.':
		return token.Access, ".", nil
	case '?':
		return token.Question, "?", nil
	case '@':
		return single(token.At, token.AtAssign)
	case '!':
		return single(token.Not, token.NotEq)
	case '|':
		return single(token.Pipe, token.PipeAssign)
	case '^':
		return single(token.Caret, token.CaretAssign)
	case '+':
		return single(token.Plus, token.PlusAssign)
	case '%':
		return single(token.Percent, token.PercentAssign)
	case '&':
		return single(token.Amp, token.AmpAssign)
	case '=':
		return single(token.Assign, token.Eq)
	case '*':
		switch l.cur.r {
		case '*':
			l.readChar()
			if l.cur.r == '=' {
				l.readChar()
				return token.DoubleStarAssign, "**=", nil
			}
			return token.DoubleStar, "**", nil
		case '=':
			l.readChar()
			return token.StarAssign, "*=", nil
		}
		return token.Star, "*", nil
	case '/':
		switch l.cur.r {
		case '/':
			l.readChar()
			if l.cur.r == '=' {
				l.readChar()
				return token.DoubleSlashAssign, "//=", nil
			}
			return token.DoubleSlash, "//", nil
		case '=':
			l.readChar()
			return token.SlashAssign, "/=", nil
		}
		return token.Slash, "/", nil
	case '-':
		switch l.cur.r {
		case '=':
			l.readChar()
			return token.MinusAssign, "-=", nil
		case '>':
			l.readChar()
			return token.Arrow, "->", nil
		}
		return token.Minus, "-", nil
	case '<':
		switch l.cur.r {
		case '=':
			l.readChar()
			return token.LtEq, "<=", nil
		case '<':
			l.readChar()
			if l.cur.r == '=' {
				l.readChar()
				return token.ShiftLeftAssign, "<<=", nil
			}
			return token.ShiftLeft, "<<", nil
		}
		return token.Lt, "<", nil
	case '>':
		switch l.cur.r {
		case '=':
			l.readChar()
			return token.GtEq, ">=", nil
		case '>':
			l.readChar()
			if l.cur.r == '=' {
				l.readChar()
				return token.ShiftRightAssign, ">>=", nil
			}
			return token.ShiftRight, ">>", nil
		}
		return token.Gt, ">", nil
	}

	return token.Illegal, string(ch), l.fatal(diag.CodeUnrecognizedChar, pos,
		fmt.Sprintf("unrecognized character: 0x%x", ch))
}

// Helpers

func (l *Lexer) readChar() {
	if n := len(l.pushback); n > 0 {
		l.cur = l.pushback[n-1]
		l.pushback = l.pushback[:n-1]
		return
	}

	c := char{line: l.line, col: l.col + 1, vcol: l.vcol}
	if l.err != nil {
		l.cur = c
		return
	}
	r, err := l.r.Next()
	if err != nil {
		// decode failures surface here, once
		if de, ok := err.(*diag.Error); ok {
			l.diags.Fatal(de)
		}
		l.err = err
		r = 0
	}
	c.r = r
	l.cur = c

	switch r {
	case 0:
	case '\n':
		l.line++
		l.col = 0
		l.vcol = 0
	case '\t':
		l.col++
		l.vcol += 4
	default:
		l.col++
		l.vcol++
	}
}

// unread makes c the current code point again; the one it replaces is read
// next.
func (l *Lexer) unread(c char) {
	l.pushback = append(l.pushback, l.cur)
	l.cur = c
}

func (l *Lexer) skipWhitespace() {
	for l.cur.r != 0 && unicode.IsSpace(l.cur.r) {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	ascii := true
	for isLetter(l.cur.r) || unicode.IsDigit(l.cur.r) {
		if l.cur.r >= utf8.RuneSelf {
			ascii = false
		}
		sb.WriteRune(l.cur.r)
		l.readChar()
	}
	if ascii {
		return sb.String()
	}
	// identifiers compare equal under NFKC, so store the normalized spelling
	return norm.NFKC.String(sb.String())
}

func (l *Lexer) readNumber() (token.Kind, string) {
	var sb strings.Builder
	for isDigit(l.cur.r) {
		sb.WriteRune(l.cur.r)
		l.readChar()
	}

	if l.cur.r == 'j' {
		sb.WriteRune('j')
		l.readChar()
		return token.Imaginary, sb.String()
	}
	if l.cur.r != '.' {
		return token.Int, sb.String()
	}

	dot := l.cur
	l.readChar()
	if !isDigit(l.cur.r) {
		// "1." followed by a non-digit: the '.' is an Access token
		l.unread(dot)
		return token.Int, sb.String()
	}

	sb.WriteRune('.')
	for isDigit(l.cur.r) {
		sb.WriteRune(l.cur.r)
		l.readChar()
	}
	if l.cur.r == 'j' {
		sb.WriteRune('j')
		l.readChar()
		return token.Imaginary, sb.String()
	}
	return token.Float, sb.String()
}

// readString reads a quoted literal. The lexeme keeps its quotes; recognized
// escapes are decoded in place.
func (l *Lexer) readString(start token.Position) (token.Kind, string, error) {
	quote := l.cur.r
	kind := token.String

	var sb strings.Builder
	sb.WriteRune(quote)
	l.readChar()

	if quote == '"' && l.cur.r == '"' {
		sb.WriteRune('"')
		l.readChar()
		if l.cur.r != '"' {
			// ""
			return kind, sb.String(), nil
		}
		sb.WriteRune('"')
		l.readChar()
		kind = token.MultiString
	}

	for l.cur.r != 0 {
		ch := l.cur.r
		switch ch {
		case '\\':
			l.readChar()
			switch l.cur.r {
			case 't':
				sb.WriteRune('\t')
			case 'n':
				sb.WriteRune('\n')
			case '"', '\'', '\\':
				sb.WriteRune(l.cur.r)
			case 0:
				continue
			default:
				pos := token.Position{Line: l.cur.line, Column: l.cur.col}
				l.diags.ReportWarning(l.file,
					fmt.Sprintf("unrecognized escape sequence: \\0x%x", l.cur.r), &pos)
				sb.WriteRune('\\')
				continue
			}
			l.readChar()
			continue
		}

		sb.WriteRune(ch)
		l.readChar()
		if ch != quote {
			continue
		}
		if kind == token.String {
			return kind, sb.String(), nil
		}
		// multi-line strings close on three quotes in a row
		if l.cur.r == quote {
			sb.WriteRune(quote)
			l.readChar()
			if l.cur.r == quote {
				sb.WriteRune(quote)
				l.readChar()
				return kind, sb.String(), nil
			}
		}
	}

	if l.err != nil {
		return token.Illegal, "", l.err
	}
	return token.Illegal, "", l.fatal(diag.CodeUnterminatedString, start, "unterminated string constant")
}

func (l *Lexer) fatal(code diag.Code, pos token.Position, msg string) error {
	l.err = l.diags.ReportFatal(diag.KindLexical, code, l.file, msg, &pos)
	return l.err
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	if ch > utf8.RuneSelf {
		return false
	}
	return ch >= '0' && ch <= '9'
}
