package checker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// TypeToString renders a type node as normalized single-line text. Comments
// are dropped, whitespace is canonicalized and object members that relied on
// line breaks get explicit separators, so the result is always a valid type
// expression on its own.
func (s *Session) TypeToString(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	p := &printer{src: s.result.Source}
	p.print(node)
	return p.sb.String()
}

// atomicNodes are printed verbatim.
var atomicNodes = map[string]bool{
	"string":                      true,
	"template_string":             true,
	"template_literal_type":       true,
	"number":                      true,
	"regex":                       true,
	"unary_expression":            true,
	"private_property_identifier": true,
}

// memberSeparators lists containers whose members may be separated by line
// breaks alone, with the separator to insert.
var memberSeparators = map[string]string{
	"object_type":    ";",
	"interface_body": ";",
	"class_body":     ";",
	"enum_body":      ",",
}

// spacedKeywords keep a space before a following `(`, `[` or `<`.
var spacedKeywords = map[string]bool{
	"extends":  true,
	"keyof":    true,
	"typeof":   true,
	"readonly": true,
	"infer":    true,
	"in":       true,
	"is":       true,
	"as":       true,
	"new":      true,
	"unique":   true,
	"asserts":  true,
	"abstract": true,
	"const":    true,
}

type printer struct {
	src  []byte
	sb   strings.Builder
	prev string
	// prevTernary is set when prev is the `?` of a conditional type.
	prevTernary bool
}

func (p *printer) print(n *sitter.Node) {
	typ := n.Type()
	if typ == "comment" {
		return
	}
	if n.ChildCount() == 0 || atomicNodes[typ] {
		p.token(n.Content(p.src), n)
		return
	}

	sep, separated := memberSeparators[typ]
	lastWasMember := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if separated {
			isMember := child.IsNamed()
			if isMember && lastWasMember {
				p.token(sep, nil)
			}
			lastWasMember = isMember
		}
		p.print(child)
	}
}

func (p *printer) token(tok string, n *sitter.Node) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return
	}
	if p.sb.Len() == 0 && (tok == "|" || tok == "&") {
		// Leading operator of a multi-line union or intersection.
		return
	}
	if p.sb.Len() > 0 && p.needsSpace(tok, n) {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteString(tok)
	p.prev = tok
	p.prevTernary = tok == "?" && inConditional(n)
}

func (p *printer) needsSpace(tok string, n *sitter.Node) bool {
	switch p.prev {
	case "(", "[", "<", ".", "...", "?.", "#", "@":
		return false
	}

	switch tok {
	case ")", "]", ">", ",", ";", ".", "!", "?.":
		return false
	case "?", ":":
		return inConditional(n)
	case "}":
		return p.prev != "{"
	case "(", "[", "<":
		if p.prev == ")" || p.prev == "]" || p.prev == ">" {
			return false
		}
		if p.prev == "?" {
			// Optional method signature: m?(a: number).
			return p.prevTernary
		}
		return !endsWithWord(p.prev) || spacedKeywords[p.prev]
	}
	return true
}

func inConditional(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	parent := n.Parent()
	return parent != nil && parent.Type() == "conditional_type"
}

func endsWithWord(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
