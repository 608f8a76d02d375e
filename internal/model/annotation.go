package model

import "encoding/json"

// TypeKind discriminates TypeAnnotation variants.
type TypeKind string

const (
	KindPrimitive    TypeKind = "PrimitiveType"
	KindReference    TypeKind = "TypeReference"
	KindTypeLiteral  TypeKind = "TypeLiteral"
	KindUnion        TypeKind = "UnionType"
	KindIntersection TypeKind = "IntersectionType"
	KindTuple        TypeKind = "TupleType"
	KindFunctionType TypeKind = "FunctionType"
)

// TypeAnnotation is a resolved type expression. LiteralText is the rendered
// source text of the expression.
type TypeAnnotation interface {
	Kind() TypeKind
	LiteralText() string
	typeAnnotation()
}

// PrimitiveType is the catch-all: keywords, literal types, arrays and any
// shape without a dedicated variant.
type PrimitiveType struct {
	Literal string `json:"literal"`
}

// TypeReference names another type. It is a lookup key, never an expansion.
type TypeReference struct {
	Name       string           `json:"name"`
	Parameters []TypeAnnotation `json:"parameters,omitempty"`
	Literal    string           `json:"literal"`
}

// TypeLiteral is an inline object type.
type TypeLiteral struct {
	Members  []TypeLiteralMember  `json:"members"`
	Generics []GenericDeclaration `json:"generics,omitempty"`
	Literal  string               `json:"literal"`
}

// TypeLiteralMember is one property or method of a TypeLiteral.
type TypeLiteralMember struct {
	Name           string         `json:"name"`
	TypeAnnotation TypeAnnotation `json:"typeAnnotation,omitempty"`
	JSDoc          *JSDocInfo     `json:"jsdoc,omitempty"`
	IsOptional     bool           `json:"isOptional,omitempty"`
}

// UnionType lists its members in written order.
type UnionType struct {
	Types   []TypeAnnotation `json:"types"`
	Literal string           `json:"literal"`
}

// IntersectionType lists its members in written order.
type IntersectionType struct {
	Types   []TypeAnnotation `json:"types"`
	Literal string           `json:"literal"`
}

// TupleType lists its positional elements.
type TupleType struct {
	Elements []TypeAnnotation `json:"elements"`
	Literal  string           `json:"literal"`
}

// FunctionType is a function signature type.
type FunctionType struct {
	Parameters []Parameter          `json:"parameters"`
	Generics   []GenericDeclaration `json:"generics,omitempty"`
	ReturnType TypeAnnotation       `json:"returnType,omitempty"`
	Literal    string               `json:"literal"`
}

func (PrimitiveType) Kind() TypeKind    { return KindPrimitive }
func (TypeReference) Kind() TypeKind    { return KindReference }
func (TypeLiteral) Kind() TypeKind      { return KindTypeLiteral }
func (UnionType) Kind() TypeKind        { return KindUnion }
func (IntersectionType) Kind() TypeKind { return KindIntersection }
func (TupleType) Kind() TypeKind        { return KindTuple }
func (FunctionType) Kind() TypeKind     { return KindFunctionType }

func (t PrimitiveType) LiteralText() string    { return t.Literal }
func (t TypeReference) LiteralText() string    { return t.Literal }
func (t TypeLiteral) LiteralText() string      { return t.Literal }
func (t UnionType) LiteralText() string        { return t.Literal }
func (t IntersectionType) LiteralText() string { return t.Literal }
func (t TupleType) LiteralText() string        { return t.Literal }
func (t FunctionType) LiteralText() string     { return t.Literal }

func (PrimitiveType) typeAnnotation()    {}
func (TypeReference) typeAnnotation()    {}
func (TypeLiteral) typeAnnotation()      {}
func (UnionType) typeAnnotation()        {}
func (IntersectionType) typeAnnotation() {}
func (TupleType) typeAnnotation()        {}
func (FunctionType) typeAnnotation()     {}

func (t PrimitiveType) MarshalJSON() ([]byte, error) {
	type alias PrimitiveType
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindPrimitive, alias(t)})
}

func (t TypeReference) MarshalJSON() ([]byte, error) {
	type alias TypeReference
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindReference, alias(t)})
}

func (t TypeLiteral) MarshalJSON() ([]byte, error) {
	type alias TypeLiteral
	a := alias(t)
	if a.Members == nil {
		a.Members = []TypeLiteralMember{}
	}
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindTypeLiteral, a})
}

func (t UnionType) MarshalJSON() ([]byte, error) {
	type alias UnionType
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindUnion, alias(t)})
}

func (t IntersectionType) MarshalJSON() ([]byte, error) {
	type alias IntersectionType
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindIntersection, alias(t)})
}

func (t TupleType) MarshalJSON() ([]byte, error) {
	type alias TupleType
	a := alias(t)
	if a.Elements == nil {
		a.Elements = []TypeAnnotation{}
	}
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindTuple, a})
}

func (t FunctionType) MarshalJSON() ([]byte, error) {
	type alias FunctionType
	a := alias(t)
	if a.Parameters == nil {
		a.Parameters = []Parameter{}
	}
	return json.Marshal(struct {
		Kind TypeKind `json:"kind"`
		alias
	}{KindFunctionType, a})
}

// AccessModifier is an explicit accessibility keyword. The zero value means
// none was written, which the language treats as public.
type AccessModifier string

const (
	AccessPublic    AccessModifier = "public"
	AccessProtected AccessModifier = "protected"
	AccessPrivate   AccessModifier = "private"
)

// ClassMemberKind discriminates ClassMember variants.
type ClassMemberKind string

const (
	KindProperty    ClassMemberKind = "Property"
	KindMethod      ClassMemberKind = "Method"
	KindConstructor ClassMemberKind = "Constructor"
)

// ClassMember is a property, method or constructor of a class.
type ClassMember interface {
	Kind() ClassMemberKind
	classMember()
}

// Property is a class field.
type Property struct {
	Name           string         `json:"name"`
	AccessModifier AccessModifier `json:"accessModifier,omitempty"`
	TypeAnnotation TypeAnnotation `json:"typeAnnotation,omitempty"`
	JSDoc          *JSDocInfo     `json:"jsdoc,omitempty"`
}

// Method is a class method, accessor or overload signature. TypeAnnotation is
// the declared return type.
type Method struct {
	Name           string               `json:"name"`
	AccessModifier AccessModifier       `json:"accessModifier,omitempty"`
	TypeAnnotation TypeAnnotation       `json:"typeAnnotation,omitempty"`
	Parameters     []Parameter          `json:"parameters"`
	Generics       []GenericDeclaration `json:"generics,omitempty"`
	JSDoc          *JSDocInfo           `json:"jsdoc,omitempty"`
}

// Constructor has no name.
type Constructor struct {
	AccessModifier AccessModifier `json:"accessModifier,omitempty"`
	Parameters     []Parameter    `json:"parameters"`
	JSDoc          *JSDocInfo     `json:"jsdoc,omitempty"`
}

func (Property) Kind() ClassMemberKind    { return KindProperty }
func (Method) Kind() ClassMemberKind      { return KindMethod }
func (Constructor) Kind() ClassMemberKind { return KindConstructor }

func (Property) classMember()    {}
func (Method) classMember()      {}
func (Constructor) classMember() {}

func (p Property) MarshalJSON() ([]byte, error) {
	type alias Property
	return json.Marshal(struct {
		Kind ClassMemberKind `json:"kind"`
		alias
	}{KindProperty, alias(p)})
}

func (m Method) MarshalJSON() ([]byte, error) {
	type alias Method
	a := alias(m)
	if a.Parameters == nil {
		a.Parameters = []Parameter{}
	}
	return json.Marshal(struct {
		Kind ClassMemberKind `json:"kind"`
		alias
	}{KindMethod, a})
}

func (c Constructor) MarshalJSON() ([]byte, error) {
	type alias Constructor
	a := alias(c)
	if a.Parameters == nil {
		a.Parameters = []Parameter{}
	}
	return json.Marshal(struct {
		Kind ClassMemberKind `json:"kind"`
		alias
	}{KindConstructor, a})
}
