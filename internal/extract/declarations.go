package extract

import (
	"github.com/bigmistqke/readmi/internal/checker"
	"github.com/bigmistqke/readmi/internal/jsdoc"
	"github.com/bigmistqke/readmi/internal/model"
	"github.com/bigmistqke/readmi/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// declaration extracts the elements of one top-level statement. stmt is the
// statement as it appears in the file and decl the declaration it carries,
// which differ when the declaration is exported or ambient.
func (x *extraction) declaration(stmt, decl *sitter.Node) []model.Element {
	switch parser.DeclarationCategoryOf(decl) {
	case parser.VariableDeclaration:
		return x.variables(stmt, decl)
	case parser.FunctionDeclaration:
		return []model.Element{x.function(stmt, decl)}
	case parser.ClassDeclaration:
		return []model.Element{x.class(stmt, decl)}
	case parser.EnumDeclaration:
		return []model.Element{x.enum(stmt, decl)}
	case parser.TypeAliasDeclaration:
		return []model.Element{x.typeAlias(stmt, decl)}
	}
	return nil
}

// literal returns the declaration text when literals are enabled.
func (x *extraction) literal(stmt *sitter.Node) string {
	if !x.literals {
		return ""
	}
	return x.s.DeclarationText(stmt)
}

// name returns the text of the name field of n, or AnonymousName.
func (x *extraction) name(n *sitter.Node) string {
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		if name := x.s.Text(nameNode); name != "" {
			return name
		}
	}
	return model.AnonymousName
}

// variables extracts one Variable per declarator. All declarators share the
// statement documentation, and its @property tags document their types.
func (x *extraction) variables(stmt, decl *sitter.Node) []model.Element {
	doc := x.doc(decl)
	props := jsdoc.PropertyTags(doc)

	var out []model.Element
	for _, declarator := range namedChildren(decl) {
		if declarator.Type() != "variable_declarator" {
			continue
		}
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}

		v := model.Variable{
			Name:           x.s.TypeToString(nameNode),
			JSDoc:          doc,
			TypeAnnotation: x.resolveType(declarator.ChildByFieldName("type"), props),
		}
		if x.literals {
			v.Literal = checker.TrimLines(x.s.TextBetween(stmt, firstDeclarator(decl)) + x.s.Text(declarator))
		}
		out = append(out, v)
	}
	return out
}

func firstDeclarator(decl *sitter.Node) *sitter.Node {
	for _, child := range namedChildren(decl) {
		if child.Type() == "variable_declarator" {
			return child
		}
	}
	return decl
}

func (x *extraction) function(stmt, decl *sitter.Node) model.Element {
	doc := x.doc(decl)
	return model.Function{
		Name:       x.name(decl),
		JSDoc:      doc,
		Literal:    x.literal(stmt),
		Parameters: x.parameters(decl.ChildByFieldName("parameters"), doc, nil),
		Generics:   x.generics(decl),
		ReturnType: x.resolveType(decl.ChildByFieldName("return_type"), nil),
	}
}

func (x *extraction) class(stmt, decl *sitter.Node) model.Element {
	doc := x.doc(decl)
	c := model.Class{
		Name:       x.name(decl),
		JSDoc:      doc,
		Literal:    x.literal(stmt),
		IsAbstract: decl.Type() == "abstract_class_declaration",
		Extends:    x.extends(decl),
		Generics:   x.generics(decl),
		Members:    []model.ClassMember{},
	}

	props := jsdoc.PropertyTags(doc)
	for _, member := range namedChildren(decl.ChildByFieldName("body")) {
		if m := x.classMember(member, props); m != nil {
			c.Members = append(c.Members, m)
		}
	}
	return c
}

// extends returns the value of the first extends clause.
func (x *extraction) extends(decl *sitter.Node) string {
	for _, child := range namedChildren(decl) {
		if child.Type() != "class_heritage" {
			continue
		}
		for _, clause := range namedChildren(child) {
			if clause.Type() != "extends_clause" {
				continue
			}
			value := clause.ChildByFieldName("value")
			if value == nil {
				value = firstNamed(clause)
			}
			if value != nil {
				return x.s.TypeToString(value)
			}
		}
	}
	return ""
}

// classMember extracts one member of a class body. Members named with a
// `#private` identifier, index signatures and static blocks yield nil.
func (x *extraction) classMember(n *sitter.Node, props []model.JSDocTag) model.ClassMember {
	switch n.Type() {
	case "public_field_definition", "method_definition", "method_signature", "abstract_method_signature":
	default:
		return nil
	}

	nameNode := n.ChildByFieldName("name")
	if nameNode == nil || nameNode.Type() == "private_property_identifier" {
		return nil
	}
	name := x.s.Text(nameNode)
	if nameNode.Type() == "string" {
		name = checker.PropertyName(name)
	}
	access := x.accessModifier(n)
	inline := x.doc(n)

	if n.Type() == "public_field_definition" {
		return model.Property{
			Name:           name,
			AccessModifier: access,
			TypeAnnotation: x.resolveType(n.ChildByFieldName("type"), jsdoc.NestedProperties(props, name)),
			JSDoc:          jsdoc.Correlate(inline, jsdoc.FilterProperties(props, name)),
		}
	}

	params := x.parameters(n.ChildByFieldName("parameters"), inline, nil)
	if name == "constructor" {
		return model.Constructor{
			AccessModifier: access,
			Parameters:     params,
			JSDoc:          inline,
		}
	}
	return model.Method{
		Name:           name,
		AccessModifier: access,
		TypeAnnotation: x.resolveType(n.ChildByFieldName("return_type"), nil),
		Parameters:     params,
		Generics:       x.generics(n),
		JSDoc:          jsdoc.Correlate(inline, jsdoc.FilterProperties(props, name)),
	}
}

func (x *extraction) accessModifier(n *sitter.Node) model.AccessModifier {
	for _, child := range namedChildren(n) {
		if child.Type() == "accessibility_modifier" {
			return model.AccessModifier(x.s.Text(child))
		}
	}
	return ""
}

func (x *extraction) enum(stmt, decl *sitter.Node) model.Element {
	e := model.Enum{
		Name:    x.name(decl),
		JSDoc:   x.doc(decl),
		Literal: x.literal(stmt),
		Members: []model.EnumMember{},
	}
	for _, member := range x.s.EnumMembers(decl) {
		primitive := "number"
		if member.Value != nil && member.Value.IsString() {
			primitive = "string"
		}
		e.Members = append(e.Members, model.EnumMember{
			Name:           member.Name,
			JSDoc:          x.doc(member.Node),
			Value:          member.Value,
			TypeAnnotation: model.PrimitiveType{Literal: primitive},
		})
	}
	return e
}

// typeAlias resolves the aliased type without inherited property tags.
func (x *extraction) typeAlias(stmt, decl *sitter.Node) model.Element {
	return model.TypeAlias{
		Name:           x.name(decl),
		JSDoc:          x.doc(decl),
		Literal:        x.literal(stmt),
		Generics:       x.generics(decl),
		TypeAnnotation: x.resolveType(decl.ChildByFieldName("value"), nil),
	}
}
