// Package source decodes a UTF-8 buffer one code point at a time.
package source

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"pyfront/internal/diag"
	"pyfront/internal/token"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Reader hands out the code points of a fully buffered file. It never
// rewinds; putback is the lexer's business.
type Reader struct {
	name string
	data []byte
	off  int

	line int
	col  int
}

// Open reads the whole file at path.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	return New(path, data), nil
}

// New wraps an in-memory buffer. name is used in diagnostics only.
func New(name string, data []byte) *Reader {
	return &Reader{
		name: name,
		data: bytes.TrimPrefix(data, bom),
		line: 1,
	}
}

func (r *Reader) Name() string { return r.name }

// Bytes returns the buffered source without the byte-order mark.
func (r *Reader) Bytes() []byte { return r.data }

// Next returns the next code point, or 0 once the input is exhausted. An
// invalid UTF-8 sequence is a decode error positioned at the bad byte.
func (r *Reader) Next() (rune, error) {
	if r.off >= len(r.data) {
		return 0, nil
	}
	ch, size := utf8.DecodeRune(r.data[r.off:])
	if ch == utf8.RuneError && size <= 1 {
		return 0, diag.Errorf(diag.KindDecode, diag.CodeInvalidUTF8, r.name,
			token.Position{Line: r.line, Column: r.col + 1},
			"invalid UTF-8 byte 0x%02x at offset %d", r.data[r.off], r.off)
	}
	r.off += size
	if ch == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	return ch, nil
}
