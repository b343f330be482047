package diag

import (
	"fmt"

	"pyfront/internal/token"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Kind classifies fatal errors by the layer that detected them.
type Kind int

const (
	KindDecode  Kind = iota // invalid UTF-8 in the source buffer
	KindLexical             // unrecognized character, unterminated string
	KindSyntax              // anything the parser rejects
	KindLiteral             // numeric text that does not convert
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "DecodeError"
	case KindLexical:
		return "LexicalError"
	case KindSyntax:
		return "SyntaxError"
	case KindLiteral:
		return "LiteralConversionError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeInvalidUTF8 Code = "E_INVALID_UTF8"

	CodeUnrecognizedChar   Code = "E_UNRECOGNIZED_CHARACTER"
	CodeUnterminatedString Code = "E_UNTERMINATED_STRING"
	CodeUnrecognizedEscape Code = "W_UNRECOGNIZED_ESCAPE"
	CodeInvalidInteger     Code = "E_INVALID_INTEGER"
	CodeInvalidFloat       Code = "E_INVALID_FLOAT"
	CodeUnsupportedLiteral Code = "E_UNSUPPORTED_LITERAL"
	CodeRequiredToken      Code = "E_REQUIRED_TOKEN"
	CodeExpectedExpression Code = "E_EXPECTED_EXPRESSION"
	CodeExpectedNewline    Code = "E_EXPECTED_NEWLINE"
	CodeUnexpectedIndent   Code = "E_UNEXPECTED_INDENTATION"
	CodeExpectedIndent     Code = "E_EXPECTED_INDENTATION"
	CodeInconsistentIndent Code = "E_INCONSISTENT_INDENTATION"
	CodeEmptySuite         Code = "E_EMPTY_SUITE"
	CodeInvalidTarget      Code = "E_INVALID_TARGET"
	CodeInvalidKeywordArg  Code = "E_INVALID_KEYWORD_ARGUMENT"
	CodeExpectedSingleExpr Code = "E_EXPECTED_SINGLE_EXPRESSION"
	CodeNonCallStatement   Code = "E_NON_CALL_STATEMENT"
	CodeInvalidDecorator   Code = "E_INVALID_DECORATOR"
	CodeInvalidImport      Code = "E_INVALID_IMPORT"
	CodeEmptyParentheses   Code = "E_EMPTY_PARENTHESES"
	CodeInvalidDisplay     Code = "E_INVALID_DISPLAY"
	CodeMissingHandler     Code = "E_MISSING_HANDLER"
	CodeNonlocalAtModule   Code = "E_NONLOCAL_AT_MODULE_LEVEL"
	CodeNonlocalUnbound    Code = "E_NONLOCAL_UNBOUND"
	CodeGlobalAfterAssign  Code = "W_GLOBAL_AFTER_ASSIGNMENT"
	CodeImportCycle        Code = "W_IMPORT_CYCLE"
	CodeDuplicateParameter Code = "E_DUPLICATE_PARAMETER"
)

// Diagnostic is a single report handed to a Diagnostics instance.
type Diagnostic struct {
	Severity Severity
	Code     Code
	File     string
	// Pos is nil for reports that carry no source location.
	Pos     *token.Position
	Message string
}

// Error is the typed failure every fatal diagnostic turns into. Callers match
// it with errors.As.
type Error struct {
	Kind    Kind
	Code    Code
	File    string
	Pos     token.Position
	HasPos  bool
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.HasPos && e.File != "":
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Pos.Line, e.Pos.Column, e.Message)
	case e.HasPos:
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		return e.Message
	}
}

// Diagnostic converts the error into the report form.
func (e *Error) Diagnostic() Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     e.Code,
		File:     e.File,
		Message:  e.Message,
	}
	if e.HasPos {
		pos := e.Pos
		d.Pos = &pos
	}
	return d
}

// Errorf builds a positioned *Error without reporting it.
func Errorf(kind Kind, code Code, file string, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		File:    file,
		Pos:     pos,
		HasPos:  true,
		Message: fmt.Sprintf(format, args...),
	}
}
