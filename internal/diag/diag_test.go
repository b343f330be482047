package diag_test

import (
	"bytes"
	"errors"
	"testing"

	"pyfront/internal/diag"
	"pyfront/internal/token"
)

func TestReportFatalRendersSnippet(t *testing.T) {
	var buf bytes.Buffer
	d := diag.New(&buf)
	d.AddSource("a.py", []byte("x = $\n"))

	pos := token.Position{Line: 1, Column: 5}
	err := d.ReportFatal(diag.KindLexical, diag.CodeUnrecognizedChar, "a.py", "unrecognized character: 0x24", &pos)

	expected := "\nin file 'a.py':\n" +
		"    [error] on (1,5): unrecognized character: 0x24\n" +
		"        x = $\n" +
		"            ^\n"
	if buf.String() != expected {
		t.Fatalf("output wrong.\nexpected=%q\ngot=     %q", expected, buf.String())
	}

	if err.Error() != "a.py:1:5: unrecognized character: 0x24" {
		t.Errorf("unexpected error text %q", err.Error())
	}
	var de *diag.Error
	if !errors.As(error(err), &de) || de.Kind != diag.KindLexical {
		t.Errorf("expected a lexical *diag.Error")
	}
	if d.Errors() != 1 || d.ExitCode() != 1 {
		t.Errorf("expected 1 error, got %d", d.Errors())
	}
}

func TestFileHeaderOncePerFile(t *testing.T) {
	var buf bytes.Buffer
	d := diag.New(&buf)

	p1 := token.Position{Line: 1, Column: 1}
	p2 := token.Position{Line: 2, Column: 3}
	d.ReportWarning("a.py", "first", &p1)
	d.ReportWarning("a.py", "second", &p2)
	d.Elaborate("a.py", "detail", &p2)
	d.ReportError("b.py", "third", &p1)

	expected := "\nin file 'a.py':\n" +
		"    [warning] on (1,1): first\n" +
		"    [warning] on (2,3): second\n" +
		"        ... on (2,3): detail\n" +
		"\nin file 'b.py':\n" +
		"    [error] on (1,1): third\n"
	if buf.String() != expected {
		t.Fatalf("output wrong.\nexpected=%q\ngot=     %q", expected, buf.String())
	}
	if d.Warnings() != 2 || d.Errors() != 1 {
		t.Errorf("counters wrong: %s", d.Summary())
	}
}

func TestUnpositionedReport(t *testing.T) {
	var buf bytes.Buffer
	d := diag.New(&buf)

	d.ReportError("", "cannot read input", nil)

	if buf.String() != "    [error]: cannot read input\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestMaxWarnings(t *testing.T) {
	var buf bytes.Buffer
	d := diag.New(&buf, diag.WithMaxWarnings(1))

	for i := 0; i < 3; i++ {
		d.ReportWarning("", "w", nil)
	}

	if d.Warnings() != 3 {
		t.Errorf("expected every warning to be counted, got %d", d.Warnings())
	}
	if got := bytes.Count(buf.Bytes(), []byte("[warning]")); got != 1 {
		t.Errorf("expected 1 printed warning, got %d", got)
	}
	if d.Summary() != "errors: 0, warnings: 3 (2 warnings not shown)" {
		t.Errorf("unexpected summary %q", d.Summary())
	}
}

func TestRecord(t *testing.T) {
	d := diag.New(nil)
	d.ReportWarning("a.py", "before", nil)

	stop := d.Record()
	d.ReportWarning("a.py", "first", nil)
	inner := d.Record()
	d.ReportError("a.py", "second", nil)
	if got := inner(); len(got) != 1 || got[0].Message != "second" {
		t.Errorf("nested recording wrong, got %+v", got)
	}
	seen := stop()
	d.ReportWarning("a.py", "after", nil)

	if len(seen) != 1 || seen[0].Message != "first" || seen[0].Severity != diag.SeverityWarning {
		t.Errorf("expected only the report made while recording, got %+v", seen)
	}
	if d.Warnings() != 3 || d.Errors() != 1 {
		t.Errorf("recording must not change the counters, got %s", d.Summary())
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		err      *diag.Error
		expected string
	}{
		{diag.Errorf(diag.KindSyntax, diag.CodeEmptySuite, "m.py", token.Position{Line: 3, Column: 2}, "empty %s", "suite"),
			"m.py:3:2: empty suite"},
		{&diag.Error{Message: "bare"}, "bare"},
		{&diag.Error{File: "m.py", Message: "no position"}, "m.py: no position"},
		{&diag.Error{Pos: token.Position{Line: 1, Column: 1}, HasPos: true, Message: "no file"}, "1:1: no file"},
	}

	for i, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestSnippet(t *testing.T) {
	tests := []struct {
		src      string
		pos      token.Position
		expected string
	}{
		{"abc\ndef", token.Position{Line: 2, Column: 2}, "def\n ^"},
		{"\tx = 1", token.Position{Line: 1, Column: 2}, "\tx = 1\n\t^"},
		{"a\r\nb", token.Position{Line: 1, Column: 1}, "a\n^"},
		{"a", token.Position{Line: 5, Column: 1}, ""},
		{"a", token.Position{}, ""},
	}

	for i, tt := range tests {
		if got := diag.Snippet([]byte(tt.src), tt.pos); got != tt.expected {
			t.Errorf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestKindString(t *testing.T) {
	if diag.KindSyntax.String() != "SyntaxError" || diag.KindLiteral.String() != "LiteralConversionError" {
		t.Fatalf("unexpected kind names")
	}
}
