// Package checker provides the type-checking session extraction runs against.
//
// A Session owns one parsed TypeScript file together with the per-file symbol
// tables built from it (type aliases, import renames, top-level names). It is
// an explicit value: every extraction call receives it, and independent
// sessions can coexist in one process.
package checker

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bigmistqke/readmi/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Session is a loaded source file plus the symbol tables derived from it.
type Session struct {
	result *parser.ParseResult

	// aliases maps type alias names to their declarations.
	aliases map[string]*sitter.Node
	// imports maps local import bindings to the name declared by the
	// imported module (`import { A as B }` maps B to A).
	imports map[string]string
	// declared records every top-level declared name.
	declared map[string]bool
}

// Load parses the file at path with the grammar its extension selects and
// builds a session for it.
func Load(ctx context.Context, path string) (*Session, error) {
	p, err := newParserFor(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := p.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return New(result), nil
}

// LoadSource parses in-memory source. The path selects the grammar and is
// recorded as the file path.
func LoadSource(ctx context.Context, path string, source []byte) (*Session, error) {
	p, err := newParserFor(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := p.ParseCtx(ctx, source)
	if err != nil {
		return nil, err
	}
	result.FilePath = path
	return New(result), nil
}

func newParserFor(path string) (*parser.Parser, error) {
	lang := parser.LanguageFromPath(path)
	if lang == "" {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = filepath.Base(path)
		}
		return nil, &parser.UnsupportedLanguageError{Language: ext}
	}
	return parser.NewParser(lang)
}

// New builds a session over an existing parse result. The session takes
// ownership of the result and releases it on Close.
func New(result *parser.ParseResult) *Session {
	s := &Session{
		result:   result,
		aliases:  make(map[string]*sitter.Node),
		imports:  make(map[string]string),
		declared: make(map[string]bool),
	}
	s.index()
	return s
}

// Close releases the parse tree.
func (s *Session) Close() {
	if s.result != nil {
		s.result.Close()
	}
}

// Path returns the file path the session was loaded from.
func (s *Session) Path() string {
	return s.result.FilePath
}

// Result returns the underlying parse result.
func (s *Session) Result() *parser.ParseResult {
	return s.result
}

// Statements returns the top-level statements of the file in source order,
// comments excluded.
func (s *Session) Statements() []*sitter.Node {
	root := s.result.Root
	if root == nil {
		return nil
	}
	stmts := make([]*sitter.Node, 0, root.NamedChildCount())
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts
}

// Text returns the exact source text of node.
func (s *Session) Text(node *sitter.Node) string {
	return s.result.NodeText(node)
}

// IsTypeAlias reports whether name is declared as a type alias in this file.
func (s *Session) IsTypeAlias(name string) bool {
	_, ok := s.aliases[name]
	return ok
}

// IsDeclared reports whether name is declared at the top level of this file,
// either directly or through an import binding.
func (s *Session) IsDeclared(name string) bool {
	if s.declared[name] {
		return true
	}
	_, ok := s.imports[name]
	return ok
}

// ResolveTypeName maps a written type name to its declared name. Import
// renames are undone; everything else, type aliases included, resolves to
// itself so references stay names rather than expansions.
func (s *Session) ResolveTypeName(written string) string {
	if strings.Contains(written, ".") {
		// Qualified names keep their namespace.
		return written
	}
	if declared, ok := s.imports[written]; ok && declared != "" {
		return declared
	}
	return written
}

// index builds the per-file symbol tables.
func (s *Session) index() {
	for _, stmt := range s.Statements() {
		if stmt.Type() == "import_statement" {
			s.indexImport(stmt)
			continue
		}

		decl := parser.UnwrapDeclaration(stmt)
		if decl == nil {
			continue
		}
		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for i := 0; i < int(decl.NamedChildCount()); i++ {
				child := decl.NamedChild(i)
				if child.Type() != "variable_declarator" {
					continue
				}
				if name := child.ChildByFieldName("name"); name != nil {
					s.declared[s.Text(name)] = true
				}
			}
		default:
			name := decl.ChildByFieldName("name")
			if name == nil {
				continue
			}
			s.declared[s.Text(name)] = true
			if decl.Type() == "type_alias_declaration" {
				s.aliases[s.Text(name)] = decl
			}
		}
	}
}

// indexImport records the local bindings of an import statement.
func (s *Session) indexImport(stmt *sitter.Node) {
	walk(stmt, func(node *sitter.Node) bool {
		switch node.Type() {
		case "import_specifier":
			name := node.ChildByFieldName("name")
			if name == nil {
				return false
			}
			local := name
			if alias := node.ChildByFieldName("alias"); alias != nil {
				local = alias
			}
			s.imports[s.Text(local)] = s.Text(name)
			return false
		case "namespace_import":
			// `* as ns`: the binding is a namespace, not a type.
			for i := 0; i < int(node.NamedChildCount()); i++ {
				if id := node.NamedChild(i); id.Type() == "identifier" {
					s.imports[s.Text(id)] = ""
				}
			}
			return false
		case "import_clause":
			// Default import binding.
			for i := 0; i < int(node.NamedChildCount()); i++ {
				if id := node.NamedChild(i); id.Type() == "identifier" {
					s.imports[s.Text(id)] = s.Text(id)
				}
			}
		}
		return true
	})
}

// walk visits node and its descendants depth-first; returning false from fn
// skips the children of the visited node.
func walk(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), fn)
	}
}
