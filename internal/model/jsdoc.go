package model

import "encoding/json"

// JSDocInfo is a normalized documentation block. A nil *JSDocInfo means the
// node had no description and no tags.
type JSDocInfo struct {
	Description []string   `json:"description"`
	Tags        []JSDocTag `json:"tags,omitempty"`
}

// JSDocTag is one block tag such as @param, @returns or @property.
type JSDocTag struct {
	TagName string `json:"tagName"`
	Comment string `json:"comment,omitempty"`
	Name    string `json:"name,omitempty"`
	Literal string `json:"literal,omitempty"`
}

// MarshalJSON always emits description as an array.
func (d JSDocInfo) MarshalJSON() ([]byte, error) {
	type alias JSDocInfo
	a := alias(d)
	if a.Description == nil {
		a.Description = []string{}
	}
	return json.Marshal(a)
}

// TagsNamed returns the tags with the given tag name, in source order.
func (d *JSDocInfo) TagsNamed(tagName string) []JSDocTag {
	if d == nil {
		return nil
	}
	var out []JSDocTag
	for _, tag := range d.Tags {
		if tag.TagName == tagName {
			out = append(out, tag)
		}
	}
	return out
}

// Summary returns the first description paragraph, or "".
func (d *JSDocInfo) Summary() string {
	if d == nil || len(d.Description) == 0 {
		return ""
	}
	return d.Description[0]
}
