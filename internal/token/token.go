package token

import "fmt"

type Kind int

const (
	Illegal Kind = iota
	EOF

	Name        // Identifier
	Int         // Integer
	Float       // Floating-point number
	Imaginary   // Integer or float with a 'j' suffix
	String      // '...' or "..."
	MultiString // """..."""
	True        // True
	False       // False

	// Keywords
	As
	Assert
	Await
	Break
	Class
	Continue
	Def
	Del
	Elif
	Else
	Except
	Finally
	For
	From
	Global
	If
	Import
	Lambda
	None
	Nonlocal
	Pass
	Raise
	Return
	Try
	While
	With
	Yield

	// Conditional operators
	Not // not, !
	And // and
	Or  // or
	Xor // xor

	// Punctuation
	Semicolon // ;
	Colon     // :
	Comma     // ,
	Access    // .
	Arrow     // ->
	Question  // ?
	At        // @

	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }

	// Arithmetic
	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	DoubleSlash // //
	Percent     // %
	DoubleStar  // **

	// Relational
	Eq    // ==
	NotEq // !=
	Is    // is
	IsNot // is not (fused by the parser)
	Gt    // >
	GtEq  // >=
	Lt    // <
	LtEq  // <=
	In    // in
	NotIn // not in (fused by the parser)

	// Bitwise
	Amp        // &
	Pipe       // |
	Tilde      // ~
	Caret      // ^
	ShiftLeft  // <<
	ShiftRight // >>

	// Assignment
	Assign            // =
	AmpAssign         // &=
	PipeAssign        // |=
	CaretAssign       // ^=
	ShiftLeftAssign   // <<=
	ShiftRightAssign  // >>=
	PlusAssign        // +=
	MinusAssign       // -=
	StarAssign        // *=
	SlashAssign       // /=
	DoubleSlashAssign // //=
	PercentAssign     // %=
	DoubleStarAssign  // **=
	AtAssign          // @=
)

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
	// Offset is the virtual column of the token on its line: tabs count as 4,
	// every other whitespace rune as 1.
	Offset int
}

var names = [...]string{
	Illegal:     "Illegal",
	EOF:         "EndOfFile",
	Name:        "Name",
	Int:         "ConstantInteger",
	Float:       "ConstantFloat",
	Imaginary:   "ConstantImaginary",
	String:      "ConstantString",
	MultiString: "ConstantMultilineString",
	True:        "True",
	False:       "False",

	As:       "as",
	Assert:   "assert",
	Await:    "await",
	Break:    "break",
	Class:    "class",
	Continue: "continue",
	Def:      "def",
	Del:      "del",
	Elif:     "elif",
	Else:     "else",
	Except:   "except",
	Finally:  "finally",
	For:      "for",
	From:     "from",
	Global:   "global",
	If:       "if",
	Import:   "import",
	Lambda:   "lambda",
	None:     "None",
	Nonlocal: "nonlocal",
	Pass:     "pass",
	Raise:    "raise",
	Return:   "return",
	Try:      "try",
	While:    "while",
	With:     "with",
	Yield:    "yield",

	Not: "not",
	And: "and",
	Or:  "or",
	Xor: "xor",

	Semicolon: ";",
	Colon:     ":",
	Comma:     ",",
	Access:    ".",
	Arrow:     "->",
	Question:  "?",
	At:        "@",

	LParen:   "(",
	RParen:   ")",
	LBracket: "[",
	RBracket: "]",
	LBrace:   "{",
	RBrace:   "}",

	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	DoubleSlash: "//",
	Percent:     "%",
	DoubleStar:  "**",

	Eq:    "==",
	NotEq: "!=",
	Is:    "is",
	IsNot: "is not",
	Gt:    ">",
	GtEq:  ">=",
	Lt:    "<",
	LtEq:  "<=",
	In:    "in",
	NotIn: "not in",

	Amp:        "&",
	Pipe:       "|",
	Tilde:      "~",
	Caret:      "^",
	ShiftLeft:  "<<",
	ShiftRight: ">>",

	Assign:            "=",
	AmpAssign:         "&=",
	PipeAssign:        "|=",
	CaretAssign:       "^=",
	ShiftLeftAssign:   "<<=",
	ShiftRightAssign:  ">>=",
	PlusAssign:        "+=",
	MinusAssign:       "-=",
	StarAssign:        "*=",
	SlashAssign:       "/=",
	DoubleSlashAssign: "//=",
	PercentAssign:     "%=",
	DoubleStarAssign:  "**=",
	AtAssign:          "@=",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsAugAssign reports whether k is one of the compound assignment operators.
func (k Kind) IsAugAssign() bool {
	return k >= AmpAssign && k <= AtAssign
}

// IsComparison reports whether k folds at the comparison level.
func (k Kind) IsComparison() bool {
	return k >= Eq && k <= NotIn
}

// IsString reports whether k is either string literal kind.
func (k Kind) IsString() bool {
	return k == String || k == MultiString
}

var keywords = map[string]Kind{
	"True":  True,
	"False": False,

	"as":       As,
	"assert":   Assert,
	"await":    Await,
	"break":    Break,
	"class":    Class,
	"continue": Continue,
	"def":      Def,
	"del":      Del,
	"elif":     Elif,
	"else":     Else,
	"except":   Except,
	"finally":  Finally,
	"for":      For,
	"from":     From,
	"global":   Global,
	"if":       If,
	"import":   Import,
	"lambda":   Lambda,
	"None":     None,
	"nonlocal": Nonlocal,
	"pass":     Pass,
	"raise":    Raise,
	"return":   Return,
	"try":      Try,
	"while":    While,
	"with":     With,
	"yield":    Yield,

	"in": In,
	"is": Is,

	"not": Not,
	"and": And,
	"or":  Or,
	"xor": Xor,
}

func LookupIdent(lit string) Kind {
	if kind, ok := keywords[lit]; ok {
		return kind
	}
	return Name
}
