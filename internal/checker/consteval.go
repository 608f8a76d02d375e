package checker

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/bigmistqke/readmi/internal/model"
	sitter "github.com/smacker/go-tree-sitter"
)

// EnumMember is one member of an enum body with its constant value.
type EnumMember struct {
	// Node is the member node (a property name or an enum_assignment).
	Node *sitter.Node
	// Name is the member name with quotes removed.
	Name string
	// Value is the constant value, or nil when it is not statically known.
	Value *model.ConstantValue
}

// EnumMembers evaluates the members of an enum declaration in order.
// Members without an initializer continue numbering from the previous
// numeric member, starting at 0.
func (s *Session) EnumMembers(decl *sitter.Node) []EnumMember {
	body := decl.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	ev := &enumEvaluator{s: s, values: make(map[string]*model.ConstantValue)}
	if name := decl.ChildByFieldName("name"); name != nil {
		ev.enumName = s.Text(name)
	}

	var (
		members []EnumMember
		prev    *model.ConstantValue
		first   = true
	)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)

		var (
			nameNode *sitter.Node
			value    *model.ConstantValue
		)
		switch child.Type() {
		case "comment":
			continue
		case "enum_assignment":
			nameNode = child.ChildByFieldName("name")
			value = ev.eval(child.ChildByFieldName("value"))
		default:
			nameNode = child
			switch {
			case first:
				value = model.NumberValue(0)
			case prev != nil && !prev.IsString():
				value = model.NumberValue(prev.Number() + 1)
			}
		}
		if nameNode == nil {
			continue
		}

		name := PropertyName(s.Text(nameNode))
		ev.values[name] = value
		members = append(members, EnumMember{Node: child, Name: name, Value: value})
		prev, first = value, false
	}
	return members
}

// PropertyName strips the quotes of a string-literal property name.
func PropertyName(text string) string {
	if len(text) >= 2 {
		q := text[0]
		if (q == '"' || q == '\'') && text[len(text)-1] == q {
			return text[1 : len(text)-1]
		}
	}
	return text
}

type enumEvaluator struct {
	s        *Session
	enumName string
	values   map[string]*model.ConstantValue
}

func (e *enumEvaluator) eval(n *sitter.Node) *model.ConstantValue {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "number":
		v, ok := parseNumber(e.s.Text(n))
		if !ok {
			return nil
		}
		return numberValue(v)
	case "string":
		return model.StringValue(unquote(e.s.Text(n)))
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return nil
			}
		}
		text := e.s.Text(n)
		return model.StringValue(strings.Trim(text, "`"))
	case "parenthesized_expression":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() != "comment" {
				return e.eval(child)
			}
		}
		return nil
	case "identifier":
		return e.values[e.s.Text(n)]
	case "member_expression":
		obj, prop := n.ChildByFieldName("object"), n.ChildByFieldName("property")
		if obj != nil && prop != nil && e.s.Text(obj) == e.enumName {
			return e.values[e.s.Text(prop)]
		}
		return nil
	case "subscript_expression":
		obj, idx := n.ChildByFieldName("object"), n.ChildByFieldName("index")
		if obj != nil && idx != nil && idx.Type() == "string" && e.s.Text(obj) == e.enumName {
			return e.values[unquote(e.s.Text(idx))]
		}
		return nil
	case "unary_expression":
		return e.unary(n)
	case "binary_expression":
		return e.binary(n)
	}
	return nil
}

func (e *enumEvaluator) unary(n *sitter.Node) *model.ConstantValue {
	op := n.ChildByFieldName("operator")
	arg := e.eval(n.ChildByFieldName("argument"))
	if op == nil || arg == nil || arg.IsString() {
		return nil
	}
	v := arg.Number()
	switch e.s.Text(op) {
	case "+":
		return numberValue(v)
	case "-":
		return numberValue(-v)
	case "~":
		return numberValue(float64(^toInt32(v)))
	}
	return nil
}

func (e *enumEvaluator) binary(n *sitter.Node) *model.ConstantValue {
	op := n.ChildByFieldName("operator")
	left := e.eval(n.ChildByFieldName("left"))
	right := e.eval(n.ChildByFieldName("right"))
	if op == nil || left == nil || right == nil {
		return nil
	}

	operator := e.s.Text(op)
	if left.IsString() || right.IsString() {
		if operator != "+" {
			return nil
		}
		return model.StringValue(constantString(left) + constantString(right))
	}

	a, b := left.Number(), right.Number()
	switch operator {
	case "+":
		return numberValue(a + b)
	case "-":
		return numberValue(a - b)
	case "*":
		return numberValue(a * b)
	case "/":
		return numberValue(a / b)
	case "%":
		return numberValue(math.Mod(a, b))
	case "**":
		return numberValue(math.Pow(a, b))
	case "<<":
		return numberValue(float64(toInt32(a) << (toUint32(b) & 31)))
	case ">>":
		return numberValue(float64(toInt32(a) >> (toUint32(b) & 31)))
	case ">>>":
		return numberValue(float64(toUint32(a) >> (toUint32(b) & 31)))
	case "&":
		return numberValue(float64(toInt32(a) & toInt32(b)))
	case "|":
		return numberValue(float64(toInt32(a) | toInt32(b)))
	case "^":
		return numberValue(float64(toInt32(a) ^ toInt32(b)))
	}
	return nil
}

// numberValue wraps n, dropping values JSON cannot represent.
func numberValue(n float64) *model.ConstantValue {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return model.NumberValue(n)
}

// parseNumber parses a numeric literal in any of the language's notations.
func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(text, "n") {
		// BigInt literals are not valid enum values.
		return 0, false
	}
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		i, err := strconv.ParseInt(lower, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(i), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// unquote strips the quotes from a string literal and decodes its escapes.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch esc := body[i]; esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\r':
			// Line continuation, possibly CRLF.
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := hexRune(body, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteByte(esc)
			}
		case 'u':
			if i+1 < len(body) && body[i+1] == '{' {
				if end := strings.IndexByte(body[i+2:], '}'); end > 0 {
					if r, ok := hexRune(body, i+2, end); ok {
						sb.WriteRune(r)
						i += end + 2
						continue
					}
				}
			} else if r, ok := hexRune(body, i+1, 4); ok {
				i += 4
				if utf16.IsSurrogate(r) && i+6 < len(body) && body[i+1] == '\\' && body[i+2] == 'u' {
					if lo, ok := hexRune(body, i+3, 4); ok {
						if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
							r = pair
							i += 6
						}
					}
				}
				sb.WriteRune(r)
				continue
			}
			sb.WriteByte(esc)
		default:
			// Quotes, backslashes and unknown escapes stand for themselves.
			sb.WriteByte(esc)
		}
	}
	return sb.String()
}

// hexRune decodes n hex digits of s starting at i.
func hexRune(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+n], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, false
	}
	return rune(v), true
}

// constantString formats a constant the way string concatenation does.
func constantString(c *model.ConstantValue) string {
	if c.IsString() {
		return c.String()
	}
	return strconv.FormatFloat(c.Number(), 'f', -1, 64)
}

func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}
