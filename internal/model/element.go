// Package model defines the documentation data model produced by extraction.
//
// Every record is built once by an extractor and never mutated afterwards.
// Sum types (Element, TypeAnnotation, ClassMember) are sealed interfaces: only
// the variants declared in this package implement them, and each variant
// serializes with a leading "kind" discriminant.
package model

import "encoding/json"

// AnonymousName is used for declarations that have no identifier in source.
const AnonymousName = "anonymous"

// ElementKind discriminates Element variants.
type ElementKind string

const (
	// KindVariable is a variable or constant declaration.
	KindVariable ElementKind = "Variable"
	// KindFunction is a function declaration or signature.
	KindFunction ElementKind = "Function"
	// KindClass is a class declaration.
	KindClass ElementKind = "Class"
	// KindEnum is an enum declaration.
	KindEnum ElementKind = "Enum"
	// KindTypeAlias is a type alias declaration.
	KindTypeAlias ElementKind = "TypeAlias"
)

// Element is one top-level declaration.
type Element interface {
	Kind() ElementKind
	ElementName() string
	Doc() *JSDocInfo
	element()
}

// Variable is one name of a variable statement.
type Variable struct {
	Name           string         `json:"name"`
	JSDoc          *JSDocInfo     `json:"jsdoc,omitempty"`
	Literal        string         `json:"literal,omitempty"`
	TypeAnnotation TypeAnnotation `json:"typeAnnotation,omitempty"`
}

// Function is a function declaration, overload signature or unnamed default export.
type Function struct {
	Name       string               `json:"name"`
	JSDoc      *JSDocInfo           `json:"jsdoc,omitempty"`
	Literal    string               `json:"literal,omitempty"`
	Parameters []Parameter          `json:"parameters"`
	Generics   []GenericDeclaration `json:"generics,omitempty"`
	ReturnType TypeAnnotation       `json:"returnType,omitempty"`
}

// Class is a class declaration. Only the direct superclass is recorded.
type Class struct {
	Name       string               `json:"name"`
	JSDoc      *JSDocInfo           `json:"jsdoc,omitempty"`
	Literal    string               `json:"literal,omitempty"`
	IsAbstract bool                 `json:"isAbstract"`
	Extends    string               `json:"extends,omitempty"`
	Generics   []GenericDeclaration `json:"generics,omitempty"`
	Members    []ClassMember        `json:"members"`
}

// Enum is an enum declaration.
type Enum struct {
	Name    string       `json:"name"`
	JSDoc   *JSDocInfo   `json:"jsdoc,omitempty"`
	Literal string       `json:"literal,omitempty"`
	Members []EnumMember `json:"members"`
}

// TypeAlias is a `type X = ...` declaration.
type TypeAlias struct {
	Name           string               `json:"name"`
	JSDoc          *JSDocInfo           `json:"jsdoc,omitempty"`
	Literal        string               `json:"literal,omitempty"`
	Generics       []GenericDeclaration `json:"generics,omitempty"`
	TypeAnnotation TypeAnnotation       `json:"typeAnnotation"`
}

func (Variable) Kind() ElementKind  { return KindVariable }
func (Function) Kind() ElementKind  { return KindFunction }
func (Class) Kind() ElementKind     { return KindClass }
func (Enum) Kind() ElementKind      { return KindEnum }
func (TypeAlias) Kind() ElementKind { return KindTypeAlias }

func (v Variable) ElementName() string  { return v.Name }
func (f Function) ElementName() string  { return f.Name }
func (c Class) ElementName() string     { return c.Name }
func (e Enum) ElementName() string      { return e.Name }
func (t TypeAlias) ElementName() string { return t.Name }

func (v Variable) Doc() *JSDocInfo  { return v.JSDoc }
func (f Function) Doc() *JSDocInfo  { return f.JSDoc }
func (c Class) Doc() *JSDocInfo     { return c.JSDoc }
func (e Enum) Doc() *JSDocInfo      { return e.JSDoc }
func (t TypeAlias) Doc() *JSDocInfo { return t.JSDoc }

func (Variable) element()  {}
func (Function) element()  {}
func (Class) element()     {}
func (Enum) element()      {}
func (TypeAlias) element() {}

// MarshalJSON emits the variant with its "kind" discriminant first.
func (v Variable) MarshalJSON() ([]byte, error) {
	type alias Variable
	return json.Marshal(struct {
		Kind ElementKind `json:"kind"`
		alias
	}{KindVariable, alias(v)})
}

// MarshalJSON emits the variant with its "kind" discriminant first.
func (f Function) MarshalJSON() ([]byte, error) {
	type alias Function
	a := alias(f)
	if a.Parameters == nil {
		a.Parameters = []Parameter{}
	}
	return json.Marshal(struct {
		Kind ElementKind `json:"kind"`
		alias
	}{KindFunction, a})
}

// MarshalJSON emits the variant with its "kind" discriminant first.
func (c Class) MarshalJSON() ([]byte, error) {
	type alias Class
	a := alias(c)
	if a.Members == nil {
		a.Members = []ClassMember{}
	}
	return json.Marshal(struct {
		Kind ElementKind `json:"kind"`
		alias
	}{KindClass, a})
}

// MarshalJSON emits the variant with its "kind" discriminant first.
func (e Enum) MarshalJSON() ([]byte, error) {
	type alias Enum
	a := alias(e)
	if a.Members == nil {
		a.Members = []EnumMember{}
	}
	return json.Marshal(struct {
		Kind ElementKind `json:"kind"`
		alias
	}{KindEnum, a})
}

// MarshalJSON emits the variant with its "kind" discriminant first.
func (t TypeAlias) MarshalJSON() ([]byte, error) {
	type alias TypeAlias
	return json.Marshal(struct {
		Kind ElementKind `json:"kind"`
		alias
	}{KindTypeAlias, alias(t)})
}

// GenericDeclaration is one type parameter. Extends and DefaultValue hold
// rendered type text.
type GenericDeclaration struct {
	Name         string `json:"name"`
	Extends      string `json:"extends,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
}

// Parameter belongs to a function, method, constructor or function type.
type Parameter struct {
	Name           string         `json:"name"`
	TypeAnnotation TypeAnnotation `json:"typeAnnotation,omitempty"`
	JSDoc          *JSDocInfo     `json:"jsdoc,omitempty"`
	IsOptional     bool           `json:"isOptional,omitempty"`
	IsRest         bool           `json:"isRest,omitempty"`
}

// EnumMember is one enum constant. TypeAnnotation records the runtime
// primitive category of the value.
type EnumMember struct {
	Name           string         `json:"name"`
	JSDoc          *JSDocInfo     `json:"jsdoc,omitempty"`
	Value          *ConstantValue `json:"value,omitempty"`
	TypeAnnotation TypeAnnotation `json:"typeAnnotation"`
}

// ConstantValue is a statically known enum value: a number or a string.
type ConstantValue struct {
	num      float64
	str      string
	isString bool
}

// NumberValue returns a numeric constant.
func NumberValue(n float64) *ConstantValue {
	return &ConstantValue{num: n}
}

// StringValue returns a string constant.
func StringValue(s string) *ConstantValue {
	return &ConstantValue{str: s, isString: true}
}

// IsString reports whether the constant is a string.
func (c *ConstantValue) IsString() bool { return c.isString }

// Number returns the numeric value (zero for strings).
func (c *ConstantValue) Number() float64 { return c.num }

// String returns the string value (empty for numbers).
func (c *ConstantValue) String() string { return c.str }

// MarshalJSON encodes the constant as a JSON number or string.
func (c *ConstantValue) MarshalJSON() ([]byte, error) {
	if c.isString {
		return json.Marshal(c.str)
	}
	return json.Marshal(c.num)
}
