// Package frontend ties the parser to a content-addressed module cache.
package frontend

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"

	"pyfront/internal/ast"
	"pyfront/internal/diag"
	"pyfront/internal/parser"
)

// Key identifies a source text by its BLAKE2b-256 digest.
type Key [blake2b.Size256]byte

func (k Key) String() string {
	return fmt.Sprintf("%x", k[:8])
}

// Cache maps source digests to parsed statement lists. Byte-identical files
// share one parse, so modules served from the cache share their statement
// nodes. It is safe for concurrent use; cached trees must not be mutated.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
	hits    int
	misses  int
}

// entry is one successful parse and the warnings it produced.
type entry struct {
	body     []ast.Stmt
	warnings []diag.Diagnostic
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]entry)}
}

func (c *Cache) get(key Key) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return e, ok
}

func (c *Cache) put(key Key, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// Len returns the number of cached parses.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the lookup counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Frontend parses files for a whole run. A nil Cache disables caching and a
// nil Logger discards log output.
type Frontend struct {
	Diags  *diag.Diagnostics
	Cache  *Cache
	Logger *slog.Logger
}

// New returns a frontend with an empty cache.
func New(d *diag.Diagnostics, logger *slog.Logger) *Frontend {
	return &Frontend{Diags: d, Cache: NewCache(), Logger: logger}
}

// ParseFile reads and parses the file at path.
func (f *Frontend) ParseFile(path string) (*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", path, err)
	}
	return f.parse(path, data)
}

// ParseSource parses src; name is used in diagnostics.
func (f *Frontend) ParseSource(name, src string) (*ast.Module, error) {
	return f.parse(name, []byte(src))
}

func (f *Frontend) parse(name string, data []byte) (*ast.Module, error) {
	log := f.Log()
	key := Key(blake2b.Sum256(data))

	if f.Cache != nil {
		if e, ok := f.Cache.get(key); ok {
			log.Debug("parse cache hit", "file", name, "key", key, "warnings", len(e.warnings))
			if f.Diags != nil {
				f.Diags.AddSource(name, data)
				for _, w := range e.warnings {
					w.File = name
					f.Diags.Report(w)
				}
			}
			return &ast.Module{File: name, Body: e.body}, nil
		}
	}

	// warnings are kept with the entry so a cache hit reports them again
	d := f.Diags
	if d == nil {
		d = diag.New(io.Discard)
	}
	stop := d.Record()
	mod, err := parser.ParseSource(name, string(data), d)
	reported := stop()
	if err != nil {
		log.Debug("parse failed", "file", name, "err", err)
		return nil, err
	}
	log.Debug("parsed", "file", name, "statements", len(mod.Body), "key", key)

	if f.Cache != nil {
		f.Cache.put(key, entry{body: mod.Body, warnings: warningsOf(reported)})
	}
	return mod, nil
}

func warningsOf(reported []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, r := range reported {
		if r.Severity == diag.SeverityWarning {
			out = append(out, r)
		}
	}
	return out
}

// Log returns the frontend's logger, or one that discards everything.
func (f *Frontend) Log() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}
