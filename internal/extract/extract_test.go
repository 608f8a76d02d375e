package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bigmistqke/readmi/internal/model"
	"github.com/bigmistqke/readmi/internal/parser"
)

// extractCode is a helper that extracts elements from TypeScript source.
func extractCode(t *testing.T, code string, opts ...Option) []model.Element {
	t.Helper()
	elements, err := New(opts...).ExtractSource(context.Background(), "test.ts", []byte(code))
	if err != nil {
		t.Fatalf("ExtractSource failed: %v", err)
	}
	return elements
}

// single extracts code and asserts it yields exactly one element of type T.
func single[T model.Element](t *testing.T, code string) T {
	t.Helper()
	elements := extractCode(t, code)
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
	el, ok := elements[0].(T)
	if !ok {
		t.Fatalf("expected %T, got %T", *new(T), elements[0])
	}
	return el
}

func TestOrderPreservation(t *testing.T) {
	elements := extractCode(t, `
import { x } from "./x";
export const a = 1;
export function b() {}
interface Ignored {}
class C {}
console.log("side effect");
enum D { One }
export type E = string;
declare const f: number;
export { a as alias };
`)

	want := []struct {
		kind model.ElementKind
		name string
	}{
		{model.KindVariable, "a"},
		{model.KindFunction, "b"},
		{model.KindClass, "C"},
		{model.KindEnum, "D"},
		{model.KindTypeAlias, "E"},
		{model.KindVariable, "f"},
	}
	if len(elements) != len(want) {
		t.Fatalf("expected %d elements, got %d", len(want), len(elements))
	}
	for i, w := range want {
		if elements[i].Kind() != w.kind || elements[i].ElementName() != w.name {
			t.Errorf("element %d = %s %q, want %s %q", i, elements[i].Kind(), elements[i].ElementName(), w.kind, w.name)
		}
	}
}

func TestIdempotence(t *testing.T) {
	code := `
/**
 * Config shape.
 * @property {string} id - the id
 */
export const config: { id: string; nested: { on: boolean } } = { id: "", nested: { on: true } };
export abstract class Base<T = unknown> { abstract run(input: T): void }
export enum Level { Low, High = Low + 10 }
`
	first, err := json.Marshal(extractCode(t, code))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(extractCode(t, code))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("extraction is not deterministic:\n%s\n%s", first, second)
	}
}

func TestAbsentJSDoc(t *testing.T) {
	elements := extractCode(t, `
function undocumented() {}

/** */
function emptyComment() {}

/** Documented. */
function documented() {}
`)
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	if elements[0].Doc() != nil {
		t.Errorf("undocumented: expected nil jsdoc, got %+v", elements[0].Doc())
	}
	if elements[1].Doc() != nil {
		t.Errorf("emptyComment: expected nil jsdoc, got %+v", elements[1].Doc())
	}
	if got := elements[2].Doc().Summary(); got != "Documented." {
		t.Errorf("documented: summary = %q", got)
	}

	data, err := json.Marshal(elements[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "jsdoc") {
		t.Errorf("undocumented element should not serialize a jsdoc key: %s", data)
	}
}

func TestReferenceNotExpansion(t *testing.T) {
	elements := extractCode(t, `
type Alias = { a: string };
const value: Alias = { a: "" };
`)
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	v := elements[1].(model.Variable)
	ref, ok := v.TypeAnnotation.(model.TypeReference)
	if !ok {
		t.Fatalf("expected TypeReference, got %T", v.TypeAnnotation)
	}
	if ref.Name != "Alias" {
		t.Errorf("reference name = %q, want Alias", ref.Name)
	}
}

func TestSelfReferentialAliasTerminates(t *testing.T) {
	alias := single[model.TypeAlias](t, "type Tree = { value: number; children: Tree[]; parent?: Tree };")
	lit := alias.TypeAnnotation.(model.TypeLiteral)
	if len(lit.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(lit.Members))
	}
	parent := lit.Members[2]
	if !parent.IsOptional {
		t.Error("parent should be optional")
	}
	if ref, ok := parent.TypeAnnotation.(model.TypeReference); !ok || ref.Name != "Tree" {
		t.Errorf("parent type = %#v, want TypeReference Tree", parent.TypeAnnotation)
	}
}

func TestPropertyTagMerge(t *testing.T) {
	v := single[model.Variable](t, `
/**
 * @property {string} id - "Ensures string types are handled correctly."
 */
export const entity: { id: string } = { id: "" };
`)
	lit, ok := v.TypeAnnotation.(model.TypeLiteral)
	if !ok {
		t.Fatalf("expected TypeLiteral, got %T", v.TypeAnnotation)
	}
	if len(lit.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(lit.Members))
	}
	doc := lit.Members[0].JSDoc
	if doc == nil {
		t.Fatal("member id has no jsdoc")
	}
	want := []string{"Ensures string types are handled correctly."}
	if len(doc.Description) != 1 || doc.Description[0] != want[0] {
		t.Errorf("description = %q, want %q", doc.Description, want)
	}
	if len(doc.Tags) != 0 {
		t.Errorf("property tags must not become member tags: %+v", doc.Tags)
	}
}

func TestPropertyTagAndInlineOrdering(t *testing.T) {
	v := single[model.Variable](t, `
/**
 * @property {object} options - "From the tag."
 * @property {boolean} options.enabled - Nested tag.
 */
export const cfg: {
  /**
   * From the member.
   * @example cfg.options
   */
  options: { enabled: boolean; mode: string };
  other: number;
} = null!;
`)
	lit := v.TypeAnnotation.(model.TypeLiteral)
	if len(lit.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(lit.Members))
	}

	options := lit.Members[0]
	if got := options.JSDoc.Description; len(got) != 2 || got[0] != "From the tag." || got[1] != "From the member." {
		t.Errorf("options description = %q", got)
	}
	if tags := options.JSDoc.Tags; len(tags) != 1 || tags[0].TagName != "example" {
		t.Errorf("options tags = %+v, want the inline @example", tags)
	}

	nested := options.TypeAnnotation.(model.TypeLiteral)
	if got := nested.Members[0].JSDoc; got == nil || got.Summary() != "Nested tag." {
		t.Errorf("enabled jsdoc = %+v, want Nested tag.", got)
	}
	if nested.Members[1].JSDoc != nil {
		t.Errorf("mode should have no jsdoc, got %+v", nested.Members[1].JSDoc)
	}
	if lit.Members[1].JSDoc != nil {
		t.Errorf("other should have no jsdoc, got %+v", lit.Members[1].JSDoc)
	}
}

func TestTypeAliasIgnoresPropertyTags(t *testing.T) {
	alias := single[model.TypeAlias](t, `
/**
 * @property {string} id - not applied
 */
type Entity = { id: string };
`)
	lit := alias.TypeAnnotation.(model.TypeLiteral)
	if lit.Members[0].JSDoc != nil {
		t.Errorf("type alias members must not inherit property tags, got %+v", lit.Members[0].JSDoc)
	}
	if len(alias.JSDoc.TagsNamed("property")) != 1 {
		t.Error("the alias itself keeps its @property tag")
	}
}

func TestAbstractClassAndExtends(t *testing.T) {
	elements := extractCode(t, `
export abstract class Shape {}
export class Square extends Shape implements Drawable, Sized {}
`)
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	base := elements[0].(model.Class)
	derived := elements[1].(model.Class)
	if !base.IsAbstract {
		t.Error("Shape should be abstract")
	}
	if derived.IsAbstract {
		t.Error("Square should not be abstract")
	}
	if derived.Extends != "Shape" {
		t.Errorf("Square extends %q, want Shape", derived.Extends)
	}
	if base.Extends != "" {
		t.Errorf("Shape extends %q, want none", base.Extends)
	}
}

func TestAnonymousDefaultExports(t *testing.T) {
	fn := single[model.Function](t, "export default function () {}")
	if fn.Name != model.AnonymousName {
		t.Errorf("function name = %q, want %q", fn.Name, model.AnonymousName)
	}

	class := single[model.Class](t, "export default class {}")
	if class.Name != model.AnonymousName {
		t.Errorf("class name = %q, want %q", class.Name, model.AnonymousName)
	}

	named := single[model.Function](t, "export default function named() {}")
	if named.Name != "named" {
		t.Errorf("function name = %q, want named", named.Name)
	}
}

func TestEnumOrdinals(t *testing.T) {
	enum := single[model.Enum](t, `
/** Directions. */
export enum Direction {
  /** Going up. */
  Up,
  Down,
  Left,
  Right,
}
`)
	if len(enum.Members) != 4 {
		t.Fatalf("expected 4 members, got %d", len(enum.Members))
	}
	for i, m := range enum.Members {
		if m.Value == nil || m.Value.IsString() || m.Value.Number() != float64(i) {
			t.Errorf("%s value = %+v, want %d", m.Name, m.Value, i)
		}
		if m.TypeAnnotation.LiteralText() != "number" {
			t.Errorf("%s type = %q, want number", m.Name, m.TypeAnnotation.LiteralText())
		}
	}
	if enum.Members[0].JSDoc.Summary() != "Going up." {
		t.Errorf("Up jsdoc = %+v", enum.Members[0].JSDoc)
	}
	if enum.Members[1].JSDoc != nil {
		t.Errorf("Down should have no jsdoc, got %+v", enum.Members[1].JSDoc)
	}
}

func TestEnumStringAndComputedMembers(t *testing.T) {
	enum := single[model.Enum](t, `enum Mixed { A = "a", B = compute(), C = 1 << 2 }`)
	if len(enum.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(enum.Members))
	}

	a, b, c := enum.Members[0], enum.Members[1], enum.Members[2]
	if a.TypeAnnotation.LiteralText() != "string" || a.Value.String() != "a" {
		t.Errorf("A = %+v", a)
	}
	if b.Value != nil || b.TypeAnnotation.LiteralText() != "number" {
		t.Errorf("B should be an unknown number, got %+v", b)
	}
	if c.Value.Number() != 4 {
		t.Errorf("C = %v, want 4", c.Value.Number())
	}
}

func TestVariables(t *testing.T) {
	elements := extractCode(t, `
/** Shared doc. */
export const a = 1, b: string = "x";
let c;
`)
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}

	a, b, c := elements[0].(model.Variable), elements[1].(model.Variable), elements[2].(model.Variable)
	if a.TypeAnnotation != nil {
		t.Errorf("a has no explicit type, got %#v", a.TypeAnnotation)
	}
	if b.TypeAnnotation == nil || b.TypeAnnotation.LiteralText() != "string" {
		t.Errorf("b type = %#v, want string", b.TypeAnnotation)
	}
	if a.JSDoc.Summary() != "Shared doc." || b.JSDoc.Summary() != "Shared doc." {
		t.Error("declarators of one statement share its documentation")
	}
	if c.JSDoc != nil {
		t.Errorf("c jsdoc = %+v, want nil", c.JSDoc)
	}

	literals := []string{`export const a = 1`, `export const b: string = "x"`, `let c`}
	for i, want := range literals {
		if got := elements[i].(model.Variable).Literal; got != want {
			t.Errorf("literal %d = %q, want %q", i, got, want)
		}
	}
}

func TestFunction(t *testing.T) {
	fn := single[model.Function](t, `
/**
 * Adds numbers.
 * @param a - the first
 * @param b the second
 * @returns the sum
 */
export function add<T extends number = 1>(a: number, /** inline */ b?: number, ...rest: T[]): number {
  return a;
}
`)

	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	if fn.JSDoc.Summary() != "Adds numbers." {
		t.Errorf("summary = %q", fn.JSDoc.Summary())
	}
	if !strings.HasPrefix(fn.Literal, "export function add<T extends number = 1>(") {
		t.Errorf("literal = %q", fn.Literal)
	}

	if len(fn.Generics) != 1 {
		t.Fatalf("expected 1 generic, got %d", len(fn.Generics))
	}
	if g := fn.Generics[0]; g.Name != "T" || g.Extends != "number" || g.DefaultValue != "1" {
		t.Errorf("generic = %+v", g)
	}

	if len(fn.Parameters) != 3 {
		t.Fatalf("expected 3 parameters, got %d", len(fn.Parameters))
	}
	a, b, rest := fn.Parameters[0], fn.Parameters[1], fn.Parameters[2]
	if a.Name != "a" || a.IsOptional || a.JSDoc.Summary() != "the first" {
		t.Errorf("a = %+v", a)
	}
	if b.Name != "b" || !b.IsOptional {
		t.Errorf("b = %+v", b)
	}
	if got := b.JSDoc.Description; len(got) != 2 || got[0] != "the second" || got[1] != "inline" {
		t.Errorf("b description = %q, want tag comment then inline", got)
	}
	if rest.Name != "rest" || !rest.IsRest {
		t.Errorf("rest = %+v", rest)
	}
	if rest.TypeAnnotation.LiteralText() != "T[]" {
		t.Errorf("rest type = %q", rest.TypeAnnotation.LiteralText())
	}

	if fn.ReturnType == nil || fn.ReturnType.LiteralText() != "number" {
		t.Errorf("return type = %#v", fn.ReturnType)
	}
}

func TestFunctionImplicitReturn(t *testing.T) {
	fn := single[model.Function](t, "function noop() {}")
	if fn.ReturnType != nil {
		t.Errorf("expected no return type, got %#v", fn.ReturnType)
	}
	if fn.Parameters == nil || len(fn.Parameters) != 0 {
		t.Errorf("parameters should be empty and non-nil, got %#v", fn.Parameters)
	}
}

func TestAmbientFunctionSignature(t *testing.T) {
	fn := single[model.Function](t, `
/** Declared elsewhere. */
declare function external(value: string): value is "ok";
`)
	if fn.Name != "external" || fn.JSDoc.Summary() != "Declared elsewhere." {
		t.Errorf("fn = %+v", fn)
	}
	if fn.ReturnType == nil || fn.ReturnType.LiteralText() != `value is "ok"` {
		t.Errorf("return type = %#v", fn.ReturnType)
	}
}

func TestClassMembers(t *testing.T) {
	class := single[model.Class](t, `
/**
 * A base.
 * @property {number} count - How many.
 */
export abstract class Base<T> {
  /** The id. */
  public id: string;
  protected count = 0;
  #secret = 1;
  private static instance?: Base<any>;
  [key: string]: unknown;
  /** Builds it. */
  constructor(private readonly name: string) {}
  /** Runs it. */
  abstract run<U>(input: T, extra: U): Promise<void>;
  get value(): T {
    return undefined as T;
  }
  #hidden() {}
}
`)

	if !class.IsAbstract {
		t.Error("expected abstract class")
	}
	if len(class.Generics) != 1 || class.Generics[0].Name != "T" {
		t.Errorf("generics = %+v", class.Generics)
	}

	kinds := []model.ClassMemberKind{
		model.KindProperty, model.KindProperty, model.KindProperty,
		model.KindConstructor, model.KindMethod, model.KindMethod,
	}
	if len(class.Members) != len(kinds) {
		t.Fatalf("expected %d members, got %d: %+v", len(kinds), len(class.Members), class.Members)
	}
	for i, k := range kinds {
		if class.Members[i].Kind() != k {
			t.Errorf("member %d kind = %s, want %s", i, class.Members[i].Kind(), k)
		}
	}

	id := class.Members[0].(model.Property)
	if id.Name != "id" || id.AccessModifier != model.AccessPublic || id.JSDoc.Summary() != "The id." {
		t.Errorf("id = %+v", id)
	}
	count := class.Members[1].(model.Property)
	if count.AccessModifier != model.AccessProtected || count.TypeAnnotation != nil {
		t.Errorf("count = %+v", count)
	}
	if count.JSDoc.Summary() != "How many." {
		t.Errorf("count should pick up the class @property tag, got %+v", count.JSDoc)
	}
	instance := class.Members[2].(model.Property)
	if instance.Name != "instance" || instance.AccessModifier != model.AccessPrivate {
		t.Errorf("instance = %+v", instance)
	}

	ctor := class.Members[3].(model.Constructor)
	if ctor.AccessModifier != "" || len(ctor.Parameters) != 1 || ctor.Parameters[0].Name != "name" {
		t.Errorf("constructor = %+v", ctor)
	}
	if ctor.JSDoc.Summary() != "Builds it." {
		t.Errorf("constructor jsdoc = %+v", ctor.JSDoc)
	}

	run := class.Members[4].(model.Method)
	if run.Name != "run" || run.AccessModifier != "" || len(run.Parameters) != 2 {
		t.Errorf("run = %+v", run)
	}
	if len(run.Generics) != 1 || run.Generics[0].Name != "U" {
		t.Errorf("run generics = %+v", run.Generics)
	}
	ret, ok := run.TypeAnnotation.(model.TypeReference)
	if !ok || ret.Name != "Promise" || len(ret.Parameters) != 1 {
		t.Errorf("run return = %#v", run.TypeAnnotation)
	}

	value := class.Members[5].(model.Method)
	if value.Name != "value" || value.Parameters == nil {
		t.Errorf("value = %+v", value)
	}

	data, err := json.Marshal(ctor)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"name":"constructor"`) {
		t.Errorf("constructor must not carry a name: %s", data)
	}
}

func TestUnionAndIntersectionFlattening(t *testing.T) {
	elements := extractCode(t, `
type U =
  | "a"
  | "b"
  | Other;
type I = A & B & { c: number };
type Nested = (A | B) | C;
`)
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}

	u := elements[0].(model.TypeAlias).TypeAnnotation.(model.UnionType)
	if len(u.Types) != 3 {
		t.Fatalf("union has %d types, want 3", len(u.Types))
	}
	if u.Types[0].LiteralText() != `"a"` || u.Types[1].LiteralText() != `"b"` {
		t.Errorf("union literals = %q, %q", u.Types[0].LiteralText(), u.Types[1].LiteralText())
	}
	if ref, ok := u.Types[2].(model.TypeReference); !ok || ref.Name != "Other" {
		t.Errorf("third union member = %#v", u.Types[2])
	}
	if u.Literal != `"a" | "b" | Other` {
		t.Errorf("union literal = %q", u.Literal)
	}

	i := elements[1].(model.TypeAlias).TypeAnnotation.(model.IntersectionType)
	if len(i.Types) != 3 {
		t.Fatalf("intersection has %d types, want 3", len(i.Types))
	}
	if i.Types[2].Kind() != model.KindTypeLiteral {
		t.Errorf("third intersection member kind = %s", i.Types[2].Kind())
	}

	nested := elements[2].(model.TypeAlias).TypeAnnotation.(model.UnionType)
	if len(nested.Types) != 2 {
		t.Fatalf("parenthesized union should stay nested, got %d types", len(nested.Types))
	}
	if nested.Types[0].Kind() != model.KindUnion {
		t.Errorf("first member kind = %s, want UnionType", nested.Types[0].Kind())
	}
}

func TestTupleAndPrimitiveFallback(t *testing.T) {
	elements := extractCode(t, `
type T = [string, Ref, number?];
type K = keyof Ref;
type L = "literal";
type M = string[];
`)
	tuple := elements[0].(model.TypeAlias).TypeAnnotation.(model.TupleType)
	if len(tuple.Elements) != 3 {
		t.Fatalf("tuple has %d elements, want 3", len(tuple.Elements))
	}
	if tuple.Elements[1].Kind() != model.KindReference {
		t.Errorf("second element kind = %s", tuple.Elements[1].Kind())
	}

	for i, want := range []string{"keyof Ref", `"literal"`, "string[]"} {
		ann := elements[i+1].(model.TypeAlias).TypeAnnotation
		if ann.Kind() != model.KindPrimitive || ann.LiteralText() != want {
			t.Errorf("alias %d = %s %q, want PrimitiveType %q", i+1, ann.Kind(), ann.LiteralText(), want)
		}
	}
}

func TestLabeledTupleElements(t *testing.T) {
	tuple := single[model.TypeAlias](t, "type P = [id: Foo, n?: number, ...rest: Bar[]];").TypeAnnotation.(model.TupleType)
	if len(tuple.Elements) != 3 {
		t.Fatalf("tuple has %d elements, want 3", len(tuple.Elements))
	}
	if ref, ok := tuple.Elements[0].(model.TypeReference); !ok || ref.Name != "Foo" {
		t.Errorf("first element = %#v, want reference to Foo", tuple.Elements[0])
	}
	for i, want := range []string{"number", "Bar[]"} {
		if got := tuple.Elements[i+1].LiteralText(); got != want {
			t.Errorf("element %d literal = %q, want %q", i+1, got, want)
		}
	}
	if tuple.Literal != "[id: Foo, n?: number, ...rest: Bar[]]" {
		t.Errorf("tuple literal = %q", tuple.Literal)
	}

	plain := single[model.TypeAlias](t, "type Q = [Foo?, ...Baz[]];").TypeAnnotation.(model.TupleType)
	if ref, ok := plain.Elements[0].(model.TypeReference); !ok || ref.Name != "Foo" {
		t.Errorf("optional element = %#v, want reference to Foo", plain.Elements[0])
	}
	if got := plain.Elements[1].LiteralText(); got != "Baz[]" {
		t.Errorf("rest element literal = %q", got)
	}
}

func TestMappedTypeFallsBackToPrimitive(t *testing.T) {
	ann := single[model.TypeAlias](t, "type M<T> = { readonly [K in keyof T]?: T[K] };").TypeAnnotation
	if ann.Kind() != model.KindPrimitive {
		t.Fatalf("mapped type kind = %s, want PrimitiveType", ann.Kind())
	}
	if ann.LiteralText() != "{ readonly [K in keyof T]?: T[K] }" {
		t.Errorf("mapped type literal = %q", ann.LiteralText())
	}

	index := single[model.TypeAlias](t, "type D = { [key: string]: number };").TypeAnnotation
	if index.Kind() != model.KindTypeLiteral {
		t.Errorf("index signature object kind = %s, want TypeLiteral", index.Kind())
	}
}

func TestFunctionTypeAndMethodSignature(t *testing.T) {
	elements := extractCode(t, `
type F = <T extends string = "x">(value: T, count?: number) => T[];
type O = { run(a: number): void; done?(): boolean };
`)

	fn := elements[0].(model.TypeAlias).TypeAnnotation.(model.FunctionType)
	if len(fn.Generics) != 1 || fn.Generics[0].Extends != "string" || fn.Generics[0].DefaultValue != `"x"` {
		t.Errorf("generics = %+v", fn.Generics)
	}
	if len(fn.Parameters) != 2 || !fn.Parameters[1].IsOptional {
		t.Errorf("parameters = %+v", fn.Parameters)
	}
	if ref, ok := fn.Parameters[0].TypeAnnotation.(model.TypeReference); !ok || ref.Name != "T" {
		t.Errorf("value type = %#v", fn.Parameters[0].TypeAnnotation)
	}
	if fn.ReturnType.LiteralText() != "T[]" {
		t.Errorf("return type = %q", fn.ReturnType.LiteralText())
	}

	obj := elements[1].(model.TypeAlias).TypeAnnotation.(model.TypeLiteral)
	if len(obj.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(obj.Members))
	}
	run := obj.Members[0].TypeAnnotation.(model.FunctionType)
	if run.Literal != "(a: number) => void" {
		t.Errorf("run literal = %q", run.Literal)
	}
	done := obj.Members[1]
	if !done.IsOptional {
		t.Error("done should be optional")
	}
	if done.TypeAnnotation.LiteralText() != "() => boolean" {
		t.Errorf("done literal = %q", done.TypeAnnotation.LiteralText())
	}
}

func TestImportRenameResolution(t *testing.T) {
	alias := single[model.TypeAlias](t, `
import type { Original as Renamed } from "./types";
type X = Renamed<string>;
`)
	ref := alias.TypeAnnotation.(model.TypeReference)
	if ref.Name != "Original" {
		t.Errorf("name = %q, want Original", ref.Name)
	}
	if ref.Literal != "Renamed<string>" {
		t.Errorf("literal = %q, want the written form", ref.Literal)
	}
	if len(ref.Parameters) != 1 || ref.Parameters[0].LiteralText() != "string" {
		t.Errorf("parameters = %#v", ref.Parameters)
	}
}

func TestWithoutLiterals(t *testing.T) {
	elements := extractCode(t, "export const a: string = \"\";\nfunction f() {}", WithLiterals(false))
	for _, el := range elements {
		data, err := json.Marshal(el)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if strings.Contains(string(data), `"literal":"export`) || strings.Contains(string(data), `"literal":"function`) {
			t.Errorf("declaration literal should be omitted: %s", data)
		}
	}
	v := elements[0].(model.Variable)
	if v.TypeAnnotation.LiteralText() != "string" {
		t.Error("type literals are kept when declaration literals are off")
	}
}

func TestTSX(t *testing.T) {
	elements, err := New().ExtractSource(context.Background(), "App.tsx", []byte(`
/** Renders the app. */
export function App(props: { name: string }) {
  return <div>{props.name}</div>;
}
`))
	if err != nil {
		t.Fatalf("ExtractSource failed: %v", err)
	}
	if len(elements) != 1 || elements[0].ElementName() != "App" {
		t.Fatalf("elements = %+v", elements)
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.d.ts")
	if err := os.WriteFile(path, []byte("export declare function f(): void;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	elements, err := New().ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if len(elements) != 1 || elements[0].ElementName() != "f" {
		t.Errorf("elements = %+v", elements)
	}
}

func TestExtractFileUnloadable(t *testing.T) {
	var logs bytes.Buffer
	x := New(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	elements, err := x.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.ts"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	var readErr *parser.FileReadError
	if !errors.As(err, &readErr) {
		t.Errorf("expected FileReadError, got %v", err)
	}
	if elements == nil || len(elements) != 0 {
		t.Errorf("expected an empty non-nil slice, got %#v", elements)
	}
	if !strings.Contains(logs.String(), "failed to load input") {
		t.Errorf("failure was not logged: %q", logs.String())
	}

	_, err = x.ExtractSource(context.Background(), "notes.txt", []byte("hello"))
	var langErr *parser.UnsupportedLanguageError
	if !errors.As(err, &langErr) {
		t.Errorf("expected UnsupportedLanguageError, got %v", err)
	}
}

func TestSyntaxErrorsAreLoggedAndSkipped(t *testing.T) {
	var logs bytes.Buffer
	x := New(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	elements, err := x.ExtractSource(context.Background(), "broken.ts", []byte("export const a = 1;\nconst = ;\n"))
	if err != nil {
		t.Fatalf("syntax errors must not fail extraction: %v", err)
	}
	if elements == nil {
		t.Error("expected a non-nil slice")
	}
	if !strings.Contains(logs.String(), "syntax errors") {
		t.Errorf("syntax errors were not logged: %q", logs.String())
	}
}

func TestDanglingReferences(t *testing.T) {
	elements := extractCode(t, `
type A<T> = { b: B; c: Missing; d: Array<T> };
type B = string;
function f<T>(x: T, y: ns.Thing, z: Gone): Promise<void> {}
class K<V> { m<W>(v: V, w: W, a: A<V>): Map<V, W> { return null!; } }
`)

	refs := DanglingReferences(elements)
	var names []string
	for _, r := range refs {
		names = append(names, r.Element+":"+r.Name)
	}
	want := []string{"A:Missing", "f:ns.Thing", "f:Gone"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("dangling = %v, want %v", names, want)
	}
}
