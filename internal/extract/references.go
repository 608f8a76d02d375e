package extract

import (
	"slices"
	"strings"

	"github.com/bigmistqke/readmi/internal/model"
)

// globalTypes are names the language and its standard library provide.
var globalTypes = map[string]bool{
	"Array":            true,
	"ReadonlyArray":    true,
	"Promise":          true,
	"PromiseLike":      true,
	"Record":           true,
	"Partial":          true,
	"Required":         true,
	"Readonly":         true,
	"Pick":             true,
	"Omit":             true,
	"Exclude":          true,
	"Extract":          true,
	"NonNullable":      true,
	"Parameters":       true,
	"ReturnType":       true,
	"InstanceType":     true,
	"Awaited":          true,
	"Map":              true,
	"Set":              true,
	"WeakMap":          true,
	"WeakSet":          true,
	"ReadonlyMap":      true,
	"ReadonlySet":      true,
	"Date":             true,
	"RegExp":           true,
	"Error":            true,
	"Function":         true,
	"Object":           true,
	"String":           true,
	"Number":           true,
	"Boolean":          true,
	"Symbol":           true,
	"BigInt":           true,
	"Iterable":         true,
	"Iterator":         true,
	"IterableIterator": true,
	"AsyncIterable":    true,
	"AsyncIterator":    true,
	"Generator":        true,
	"AsyncGenerator":   true,
	"ArrayBuffer":      true,
	"Uint8Array":       true,
	"Element":          true,
	"HTMLElement":      true,
	"Node":             true,
	"Event":            true,
	"Uppercase":        true,
	"Lowercase":        true,
	"Capitalize":       true,
	"Uncapitalize":     true,
	"ThisType":         true,
}

// DanglingReferences returns the type references in elements that name no
// element of the same output, no generic parameter in scope and no global
// type. Qualified names are checked by their first segment.
func DanglingReferences(elements []model.Element) []model.Reference {
	names := make(map[string]bool, len(elements))
	for _, el := range elements {
		names[el.ElementName()] = true
	}

	var dangling []model.Reference
	for _, el := range elements {
		for _, ref := range model.References(el) {
			root, _, _ := strings.Cut(ref.Name, ".")
			if names[root] || globalTypes[root] || slices.Contains(ref.Scope, root) {
				continue
			}
			dangling = append(dangling, ref)
		}
	}
	return dangling
}
