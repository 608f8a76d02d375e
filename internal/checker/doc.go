package checker

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// DocComment returns the raw JSDoc block attached to node: the nearest
// preceding `/** ... */` comment. Separators, decorators and ordinary
// comments between the block and the node are skipped. When node is wrapped
// in an export or declare statement the wrapper's leading comments are used.
func (s *Session) DocComment(node *sitter.Node) (string, bool) {
	target := node
	for target != nil {
		if c := s.precedingDoc(target); c != nil {
			return s.Text(c), true
		}

		parent := target.Parent()
		if parent == nil {
			return "", false
		}
		switch parent.Type() {
		case "export_statement", "ambient_declaration":
			target = parent
		default:
			return "", false
		}
	}
	return "", false
}

func (s *Session) precedingDoc(node *sitter.Node) *sitter.Node {
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		switch prev.Type() {
		case "comment":
			if isJSDoc(s.Text(prev)) {
				return prev
			}
		case ",", ";", "decorator":
		default:
			return nil
		}
	}
	return nil
}

func isJSDoc(text string) bool {
	return strings.HasPrefix(text, "/**") && text != "/**/" && strings.HasSuffix(text, "*/")
}

// DeclarationText returns the source text of a declaration statement with
// trailing whitespace removed from every line.
func (s *Session) DeclarationText(node *sitter.Node) string {
	return TrimLines(s.Text(node))
}

// TrimLines removes trailing whitespace from every line of text.
func TrimLines(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}

// TextBetween returns the source text from the start of from to the start of
// to. Both nodes must belong to this session.
func (s *Session) TextBetween(from, to *sitter.Node) string {
	src := s.result.Source
	start, end := from.StartByte(), to.StartByte()
	if start > end || int(end) > len(src) {
		return ""
	}
	return string(src[start:end])
}
