package jsdoc

import (
	"strings"

	"github.com/bigmistqke/readmi/internal/model"
)

// Correlate merges a member's inline documentation with the tags documenting
// it from its parent declaration. Tag comments come first, in tag order,
// followed by the inline description. Only inline tags are kept as tags.
// The result is nil when there is nothing to say.
func Correlate(inline *model.JSDocInfo, external []model.JSDocTag) *model.JSDocInfo {
	var desc []string
	for _, tag := range external {
		if tag.Comment != "" {
			desc = append(desc, tag.Comment)
		}
	}

	var tags []model.JSDocTag
	if inline != nil {
		desc = append(desc, inline.Description...)
		tags = inline.Tags
	}

	if len(desc) == 0 && len(tags) == 0 {
		return nil
	}
	if desc == nil {
		desc = []string{}
	}
	return &model.JSDocInfo{Description: desc, Tags: tags}
}

// IsPropertyTag reports whether tagName documents an object property.
func IsPropertyTag(tagName string) bool {
	return tagName == "property" || tagName == "prop"
}

// IsParamTag reports whether tagName documents a function parameter.
func IsParamTag(tagName string) bool {
	return tagName == "param" || tagName == "arg" || tagName == "argument"
}

// PropertyTags returns the @property tags of doc.
func PropertyTags(doc *model.JSDocInfo) []model.JSDocTag {
	if doc == nil {
		return nil
	}
	var out []model.JSDocTag
	for _, tag := range doc.Tags {
		if IsPropertyTag(tag.TagName) {
			out = append(out, tag)
		}
	}
	return out
}

// FilterProperties returns the property tags naming exactly name.
func FilterProperties(tags []model.JSDocTag, name string) []model.JSDocTag {
	var out []model.JSDocTag
	for _, tag := range tags {
		if IsPropertyTag(tag.TagName) && tag.Name == name {
			out = append(out, tag)
		}
	}
	return out
}

// NestedProperties returns the property tags documenting children of name
// (`@property {T} name.child`), with the `name.` prefix removed.
func NestedProperties(tags []model.JSDocTag, name string) []model.JSDocTag {
	prefix := name + "."
	var out []model.JSDocTag
	for _, tag := range tags {
		if IsPropertyTag(tag.TagName) && strings.HasPrefix(tag.Name, prefix) && len(tag.Name) > len(prefix) {
			tag.Name = tag.Name[len(prefix):]
			out = append(out, tag)
		}
	}
	return out
}

// FilterParams returns the @param tags of doc naming exactly name.
func FilterParams(doc *model.JSDocInfo, name string) []model.JSDocTag {
	if doc == nil {
		return nil
	}
	var out []model.JSDocTag
	for _, tag := range doc.Tags {
		if IsParamTag(tag.TagName) && tag.Name == name {
			out = append(out, tag)
		}
	}
	return out
}
