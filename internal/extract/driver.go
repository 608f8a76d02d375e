// Package extract turns the top-level declarations of a TypeScript file into
// documentation elements.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bigmistqke/readmi/internal/checker"
	"github.com/bigmistqke/readmi/internal/model"
	"github.com/bigmistqke/readmi/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Extractor runs extraction passes. The zero value is not usable; use New.
type Extractor struct {
	logger   *slog.Logger
	literals bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger load failures, syntax errors and recovered
// panics are reported to. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Extractor) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithLiterals controls whether declarations carry their source text.
// Type annotations always carry theirs.
func WithLiterals(enabled bool) Option {
	return func(x *Extractor) {
		x.literals = enabled
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	x := &Extractor{
		logger:   slog.New(slog.DiscardHandler),
		literals: true,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// ExtractFile loads the file at path and extracts its declarations. When the
// file cannot be loaded the failure is logged and returned alongside an
// empty, non-nil element slice.
func (x *Extractor) ExtractFile(ctx context.Context, path string) ([]model.Element, error) {
	s, err := checker.Load(ctx, path)
	if err != nil {
		x.logger.Error("failed to load input", "path", path, "error", err)
		return []model.Element{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer s.Close()
	return x.ExtractSession(s), nil
}

// ExtractSource extracts declarations from in-memory source. The path
// selects the grammar.
func (x *Extractor) ExtractSource(ctx context.Context, path string, source []byte) ([]model.Element, error) {
	s, err := checker.LoadSource(ctx, path, source)
	if err != nil {
		x.logger.Error("failed to load input", "path", path, "error", err)
		return []model.Element{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer s.Close()
	return x.ExtractSession(s), nil
}

// ExtractSession extracts the top-level declarations of a loaded session in
// source order. Statements that are not declarations contribute nothing.
func (x *Extractor) ExtractSession(s *checker.Session) []model.Element {
	if line, col, ok := s.Result().FirstError(); ok {
		x.logger.Warn("input has syntax errors, extracting what parsed",
			"path", s.Path(), "line", line, "column", col)
	}

	ex := &extraction{s: s, literals: x.literals}
	elements := []model.Element{}
	for _, stmt := range s.Statements() {
		decl := parser.UnwrapDeclaration(stmt)
		if decl == nil {
			continue
		}
		elements = append(elements, x.extractStatement(ex, stmt, decl)...)
	}
	x.logger.Debug("extracted declarations", "path", s.Path(), "elements", len(elements))
	return elements
}

// extractStatement isolates failures so one malformed declaration does not
// abort the rest of the file.
func (x *Extractor) extractStatement(ex *extraction, stmt, decl *sitter.Node) (out []model.Element) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Error("skipping declaration after extraction failure",
				"path", ex.s.Path(),
				"line", stmt.StartPoint().Row+1,
				"node", decl.Type(),
				"panic", r)
			out = nil
		}
	}()
	return ex.declaration(stmt, decl)
}
