package extract

import (
	"github.com/bigmistqke/readmi/internal/checker"
	"github.com/bigmistqke/readmi/internal/jsdoc"
	"github.com/bigmistqke/readmi/internal/model"
	sitter "github.com/smacker/go-tree-sitter"
)

// annotationWrappers hold a single type after a `:` or similar prefix.
var annotationWrappers = map[string]bool{
	"type_annotation":           true,
	"opting_type_annotation":    true,
	"omitting_type_annotation":  true,
	"adding_type_annotation":    true,
	"type_predicate_annotation": true,
	"asserts_annotation":        true,
	"parenthesized_type":        true,
}

// extraction carries the session through one pass over a file.
type extraction struct {
	s        *checker.Session
	literals bool
}

// resolveType converts a type node into a TypeAnnotation. props are the
// @property tags in scope; they document the members of object types.
func (x *extraction) resolveType(n *sitter.Node, props []model.JSDocTag) model.TypeAnnotation {
	if n == nil {
		return nil
	}
	if annotationWrappers[n.Type()] {
		inner := firstNamed(n)
		if inner == nil {
			return model.PrimitiveType{Literal: x.s.TypeToString(n)}
		}
		return x.resolveType(inner, props)
	}

	switch n.Type() {
	case "object_type":
		if isMappedType(n) {
			break
		}
		return x.typeLiteral(n, props)
	case "function_type":
		return x.functionType(n, props)
	case "type_identifier", "nested_type_identifier", "generic_type":
		return x.typeReference(n, props)
	case "tuple_type":
		var elements []model.TypeAnnotation
		for _, child := range namedChildren(n) {
			elements = append(elements, x.resolveType(tupleElementType(child), props))
		}
		return model.TupleType{Elements: elements, Literal: x.s.TypeToString(n)}
	case "union_type":
		return model.UnionType{Types: x.flatten(n, props), Literal: x.s.TypeToString(n)}
	case "intersection_type":
		return model.IntersectionType{Types: x.flatten(n, props), Literal: x.s.TypeToString(n)}
	}
	return model.PrimitiveType{Literal: x.s.TypeToString(n)}
}

// isMappedType reports whether an object type is a mapped type such as
// `{ [K in keyof T]: T[K] }`. Tree-sitter parses those as object types.
func isMappedType(n *sitter.Node) bool {
	members := namedChildren(n)
	if len(members) != 1 || members[0].Type() != "index_signature" {
		return false
	}
	for _, child := range namedChildren(members[0]) {
		if child.Type() == "mapped_type_clause" {
			return true
		}
	}
	return false
}

// tupleElementType returns the type of a tuple element, dropping its label
// and any `?` or `...` marker.
func tupleElementType(n *sitter.Node) *sitter.Node {
	switch n.Type() {
	case "named_tuple_member", "required_parameter", "optional_parameter":
		if t := n.ChildByFieldName("type"); t != nil {
			return tupleElementType(unwrapAnnotation(t))
		}
		if children := namedChildren(n); len(children) > 1 {
			return tupleElementType(unwrapAnnotation(children[len(children)-1]))
		}
	case "optional_type", "rest_type":
		if inner := firstNamed(n); inner != nil {
			return tupleElementType(inner)
		}
	}
	return n
}

// flatten collects the operands of a left-nested union or intersection in
// written order.
func (x *extraction) flatten(n *sitter.Node, props []model.JSDocTag) []model.TypeAnnotation {
	var types []model.TypeAnnotation
	for _, child := range namedChildren(n) {
		if child.Type() == n.Type() {
			types = append(types, x.flatten(child, props)...)
			continue
		}
		types = append(types, x.resolveType(child, props))
	}
	return types
}

func (x *extraction) typeReference(n *sitter.Node, props []model.JSDocTag) model.TypeAnnotation {
	ref := model.TypeReference{Literal: x.s.TypeToString(n)}

	nameNode := n
	if n.Type() == "generic_type" {
		nameNode = n.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = firstNamed(n)
		}
		if args := n.ChildByFieldName("type_arguments"); args != nil {
			for _, arg := range namedChildren(args) {
				ref.Parameters = append(ref.Parameters, x.resolveType(arg, props))
			}
		}
	}
	if nameNode == nil {
		return model.PrimitiveType{Literal: ref.Literal}
	}
	ref.Name = x.s.ResolveTypeName(x.s.TypeToString(nameNode))
	return ref
}

func (x *extraction) typeLiteral(n *sitter.Node, props []model.JSDocTag) model.TypeAnnotation {
	lit := model.TypeLiteral{Members: []model.TypeLiteralMember{}, Literal: x.s.TypeToString(n)}
	for _, member := range namedChildren(n) {
		switch member.Type() {
		case "property_signature", "method_signature":
		default:
			// Call, construct and index signatures have no member name.
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() == "private_property_identifier" {
			continue
		}
		name := checker.PropertyName(x.s.Text(nameNode))

		m := model.TypeLiteralMember{
			Name:       name,
			JSDoc:      jsdoc.Correlate(x.doc(member), jsdoc.FilterProperties(props, name)),
			IsOptional: hasToken(member, "?"),
		}
		nested := jsdoc.NestedProperties(props, name)
		if member.Type() == "method_signature" {
			m.TypeAnnotation = x.signatureType(member, nested)
		} else {
			m.TypeAnnotation = x.resolveType(member.ChildByFieldName("type"), nested)
		}
		lit.Members = append(lit.Members, m)
	}
	return lit
}

func (x *extraction) functionType(n *sitter.Node, props []model.JSDocTag) model.TypeAnnotation {
	return model.FunctionType{
		Parameters: x.parameters(n.ChildByFieldName("parameters"), nil, props),
		Generics:   x.generics(n),
		ReturnType: x.resolveType(n.ChildByFieldName("return_type"), props),
		Literal:    x.s.TypeToString(n),
	}
}

// signatureType renders a method signature as the equivalent function type.
func (x *extraction) signatureType(n *sitter.Node, props []model.JSDocTag) model.TypeAnnotation {
	params := n.ChildByFieldName("parameters")
	ret := n.ChildByFieldName("return_type")

	literal := x.s.TypeToString(n.ChildByFieldName("type_parameters")) + x.s.TypeToString(params) + " => "
	if inner := unwrapAnnotation(ret); inner != nil {
		literal += x.s.TypeToString(inner)
	} else {
		literal += "void"
	}

	return model.FunctionType{
		Parameters: x.parameters(params, x.doc(n), props),
		Generics:   x.generics(n),
		ReturnType: x.resolveType(ret, props),
		Literal:    literal,
	}
}

// parameters extracts a formal_parameters list. fnDoc is the documentation
// of the enclosing function; its @param tags document the parameters.
func (x *extraction) parameters(n *sitter.Node, fnDoc *model.JSDocInfo, props []model.JSDocTag) []model.Parameter {
	params := []model.Parameter{}
	if n == nil {
		return params
	}
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			params = append(params, x.parameter(child, fnDoc, props))
		case "identifier":
			name := x.s.Text(child)
			params = append(params, model.Parameter{
				Name:  name,
				JSDoc: jsdoc.Correlate(x.doc(child), jsdoc.FilterParams(fnDoc, name)),
			})
		}
	}
	return params
}

func (x *extraction) parameter(n *sitter.Node, fnDoc *model.JSDocInfo, props []model.JSDocTag) model.Parameter {
	var p model.Parameter

	pattern := n.ChildByFieldName("pattern")
	if pattern != nil && pattern.Type() == "rest_pattern" {
		p.IsRest = true
		if inner := firstNamed(pattern); inner != nil {
			pattern = inner
		}
	}
	if pattern != nil {
		p.Name = x.s.TypeToString(pattern)
	}

	p.IsOptional = n.Type() == "optional_parameter" || n.ChildByFieldName("value") != nil
	p.TypeAnnotation = x.resolveType(n.ChildByFieldName("type"), props)
	p.JSDoc = jsdoc.Correlate(x.doc(n), jsdoc.FilterParams(fnDoc, p.Name))
	return p
}

// generics extracts the type parameters declared by n.
func (x *extraction) generics(n *sitter.Node) []model.GenericDeclaration {
	tp := n.ChildByFieldName("type_parameters")
	if tp == nil {
		return nil
	}
	var out []model.GenericDeclaration
	for _, param := range namedChildren(tp) {
		if param.Type() != "type_parameter" {
			continue
		}
		name := param.ChildByFieldName("name")
		if name == nil {
			continue
		}
		g := model.GenericDeclaration{Name: x.s.Text(name)}
		if c := param.ChildByFieldName("constraint"); c != nil {
			g.Extends = x.s.TypeToString(firstNamed(c))
		}
		if d := param.ChildByFieldName("value"); d != nil {
			g.DefaultValue = x.s.TypeToString(firstNamed(d))
		}
		out = append(out, g)
	}
	return out
}

// doc normalizes the documentation comment attached to n.
func (x *extraction) doc(n *sitter.Node) *model.JSDocInfo {
	raw, ok := x.s.DocComment(n)
	if !ok {
		return nil
	}
	return jsdoc.Normalize(raw)
}

// unwrapAnnotation returns the type inside an annotation wrapper.
func unwrapAnnotation(n *sitter.Node) *sitter.Node {
	for n != nil && annotationWrappers[n.Type()] {
		n = firstNamed(n)
	}
	return n
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint32(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(int(i))
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if children := namedChildren(n); len(children) > 0 {
		return children[0]
	}
	return nil
}

// hasToken reports whether n has a direct anonymous child with the given text.
func hasToken(n *sitter.Node, token string) bool {
	for i := uint32(0); i < n.ChildCount(); i++ {
		child := n.Child(int(i))
		if !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}
