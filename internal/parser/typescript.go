package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// newTypeScriptParser creates a tree-sitter parser configured for TypeScript.
func newTypeScriptParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return parser, nil
}

// newTSXParser creates a tree-sitter parser configured for TSX.
func newTSXParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())
	return parser, nil
}

// DeclarationCategory is the kind of top-level declaration a node introduces.
type DeclarationCategory string

const (
	// NoDeclaration marks statements that document nothing.
	NoDeclaration DeclarationCategory = ""
	// VariableDeclaration covers const, let and var statements.
	VariableDeclaration DeclarationCategory = "variable"
	// FunctionDeclaration covers declarations, overload signatures and
	// unnamed function default exports.
	FunctionDeclaration DeclarationCategory = "function"
	// ClassDeclaration covers abstract and concrete classes.
	ClassDeclaration DeclarationCategory = "class"
	// EnumDeclaration covers enums and const enums.
	EnumDeclaration DeclarationCategory = "enum"
	// TypeAliasDeclaration covers `type X = ...`.
	TypeAliasDeclaration DeclarationCategory = "type"
)

// TypeScriptDeclarationTypes maps tree-sitter node types to declaration categories.
var TypeScriptDeclarationTypes = map[string]DeclarationCategory{
	// Variables
	"lexical_declaration":  VariableDeclaration, // const, let
	"variable_declaration": VariableDeclaration, // var

	// Functions
	"function_declaration":           FunctionDeclaration,
	"generator_function_declaration": FunctionDeclaration,
	"function_signature":             FunctionDeclaration,
	"function_expression":            FunctionDeclaration, // export default function () {}
	"function":                       FunctionDeclaration, // older grammar name

	// Classes
	"class_declaration":          ClassDeclaration,
	"abstract_class_declaration": ClassDeclaration,
	"class":                      ClassDeclaration, // export default class {}

	"enum_declaration":       EnumDeclaration,
	"type_alias_declaration": TypeAliasDeclaration,
}

// DeclarationCategoryOf returns the category of a declaration node, or
// NoDeclaration.
func DeclarationCategoryOf(node *sitter.Node) DeclarationCategory {
	if node == nil {
		return NoDeclaration
	}
	return TypeScriptDeclarationTypes[node.Type()]
}

// UnwrapDeclaration looks through `export` and `declare` wrappers and returns
// the declaration node they carry. Other nodes are returned unchanged; nil is
// returned for wrappers that carry no declaration (export clauses, re-exports).
func UnwrapDeclaration(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Type() {
		case "export_statement":
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
				continue
			}
			return node.ChildByFieldName("value")
		case "ambient_declaration":
			node = firstNamedNonComment(node)
			continue
		}
		return node
	}
	return nil
}

// firstNamedNonComment returns the first named child that is not a comment.
func firstNamedNonComment(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}
