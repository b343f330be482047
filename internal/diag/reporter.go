package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pyfront/internal/token"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Diagnostics accumulates error and warning counts for one run and renders
// every report to its writer. It replaces process-wide counters: the lexer,
// the parser and their callers share one instance.
type Diagnostics struct {
	w io.Writer

	errors   int
	warnings int
	lastFile string

	color       bool
	maxWarnings int
	suppressed  int

	sources map[string][]byte

	recording *[]Diagnostic
}

type Option func(*Diagnostics)

// WithColor enables lipgloss styling of severity labels.
func WithColor(on bool) Option {
	return func(d *Diagnostics) { d.color = on }
}

// WithMaxWarnings stops printing warnings after n of them; they are still
// counted. Zero means unlimited.
func WithMaxWarnings(n int) Option {
	return func(d *Diagnostics) { d.maxWarnings = n }
}

func New(w io.Writer, opts ...Option) *Diagnostics {
	if w == nil {
		w = io.Discard
	}
	d := &Diagnostics{
		w:       w,
		sources: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddSource registers the text of file so positioned reports can show the
// offending line.
func (d *Diagnostics) AddSource(file string, src []byte) {
	d.sources[file] = src
}

func (d *Diagnostics) ReportError(file, msg string, pos *token.Position) {
	d.Report(Diagnostic{Severity: SeverityError, File: file, Pos: pos, Message: msg})
}

func (d *Diagnostics) ReportWarning(file, msg string, pos *token.Position) {
	d.Report(Diagnostic{Severity: SeverityWarning, File: file, Pos: pos, Message: msg})
}

// Elaborate attaches a follow-up line to the previous report. It does not
// change any counter.
func (d *Diagnostics) Elaborate(file, msg string, pos *token.Position) {
	d.Report(Diagnostic{Severity: SeverityNote, File: file, Pos: pos, Message: msg})
}

// ReportFatal reports an error and returns it as a typed *Error. The caller
// must stop and propagate the value; nothing is parsed past a fatal report.
func (d *Diagnostics) ReportFatal(kind Kind, code Code, file, msg string, pos *token.Position) *Error {
	e := &Error{Kind: kind, Code: code, File: file, Message: msg}
	if pos != nil {
		e.Pos = *pos
		e.HasPos = true
	}
	return d.Fatal(e)
}

// Fatal reports an already built error and hands it back.
func (d *Diagnostics) Fatal(e *Error) *Error {
	diagnostic := e.Diagnostic()
	d.Report(diagnostic)
	return e
}

// Record starts keeping a copy of every report. The returned function stops
// recording and yields the reports seen since.
func (d *Diagnostics) Record() func() []Diagnostic {
	prev := d.recording
	var seen []Diagnostic
	d.recording = &seen
	return func() []Diagnostic {
		d.recording = prev
		return seen
	}
}

// Report counts d by severity and writes it out.
func (d *Diagnostics) Report(diagnostic Diagnostic) {
	if d.recording != nil {
		*d.recording = append(*d.recording, diagnostic)
	}
	switch diagnostic.Severity {
	case SeverityError:
		d.errors++
	case SeverityWarning:
		d.warnings++
		if d.maxWarnings > 0 && d.warnings > d.maxWarnings {
			d.suppressed++
			return
		}
	}
	d.render(diagnostic)
}

func (d *Diagnostics) Errors() int   { return d.errors }
func (d *Diagnostics) Warnings() int { return d.warnings }

// ExitCode is the status a driver exits with: the number of errors seen.
func (d *Diagnostics) ExitCode() int {
	return d.errors
}

func (d *Diagnostics) Summary() string {
	s := fmt.Sprintf("errors: %d, warnings: %d", d.errors, d.warnings)
	if d.suppressed > 0 {
		s += fmt.Sprintf(" (%d warnings not shown)", d.suppressed)
	}
	return s
}

// PrintSummary writes the summary line that closes a run.
func (d *Diagnostics) PrintSummary() {
	fmt.Fprintln(d.w, d.Summary())
}

func (d *Diagnostics) render(diagnostic Diagnostic) {
	indent := "    "
	label := "[" + string(diagnostic.Severity) + "]"
	switch diagnostic.Severity {
	case SeverityError:
		label = d.style(errorStyle, label)
	case SeverityWarning:
		label = d.style(warningStyle, label)
	case SeverityNote:
		indent = "        "
		label = d.style(noteStyle, "...")
	}

	if diagnostic.Pos == nil {
		fmt.Fprintf(d.w, "%s%s: %s\n", indent, label, diagnostic.Message)
		d.lastFile = ""
		return
	}

	if diagnostic.File != d.lastFile {
		fmt.Fprintf(d.w, "\n%s\n", d.style(fileStyle, fmt.Sprintf("in file '%s':", diagnostic.File)))
		d.lastFile = diagnostic.File
	}
	fmt.Fprintf(d.w, "%s%s on (%d,%d): %s\n",
		indent, label, diagnostic.Pos.Line, diagnostic.Pos.Column, diagnostic.Message)

	if src, ok := d.sources[diagnostic.File]; ok && diagnostic.Severity != SeverityNote {
		if snippet := Snippet(src, *diagnostic.Pos); snippet != "" {
			for _, line := range strings.Split(snippet, "\n") {
				if strings.TrimSpace(line) == "^" {
					line = d.style(caretStyle, line)
				}
				fmt.Fprintf(d.w, "%s    %s\n", indent, line)
			}
		}
	}
}

func (d *Diagnostics) style(s lipgloss.Style, text string) string {
	if !d.color {
		return text
	}
	return s.Render(text)
}

// Snippet returns the source line at pos followed by a caret under its
// column. Tabs in the line are kept so the caret lines up in a terminal.
func Snippet(src []byte, pos token.Position) string {
	if pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(string(src), "\n")
	if pos.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[pos.Line-1], "\r")

	var caret strings.Builder
	col := 1
	for _, r := range line {
		if col >= pos.Column {
			break
		}
		if r == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
		col++
	}
	caret.WriteByte('^')
	return line + "\n" + caret.String()
}
