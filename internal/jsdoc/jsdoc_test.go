package jsdoc

import (
	"testing"

	"github.com/bigmistqke/readmi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	block := Parse(`/**
 * Adds two numbers.
 *
 * Second paragraph.
 * @param a - the first
 * @param b the second,
 *   continued
 * @example
 *     add(1, 2)
 */`)

	assert.Equal(t, "Adds two numbers.\n\nSecond paragraph.", block.Description)
	require.Len(t, block.Tags, 3)
	assert.Equal(t, RawTag{Name: "param", Body: "a - the first"}, block.Tags[0])
	assert.Equal(t, RawTag{Name: "param", Body: "b the second,\n  continued"}, block.Tags[1])
	assert.Equal(t, "example", block.Tags[2].Name)
	assert.Equal(t, "\n    add(1, 2)", block.Tags[2].Body)
}

func TestParseSingleLine(t *testing.T) {
	block := Parse("/** Just a line. */")
	assert.Equal(t, "Just a line.", block.Description)
	assert.Empty(t, block.Tags)
}

func TestParseIgnoresEmailLikeAt(t *testing.T) {
	block := Parse("/**\n * Mail me\n * @ home\n */")
	assert.Equal(t, "Mail me\n@ home", block.Description)
	assert.Empty(t, block.Tags)
}

func TestNormalizeEmpty(t *testing.T) {
	for _, raw := range []string{"/** */", "/**\n *\n */", "/***/"} {
		assert.Nil(t, Normalize(raw), "raw=%q", raw)
	}
}

func TestNormalizeDescriptionOnly(t *testing.T) {
	info := Normalize("/** - Dashed description */")
	require.NotNil(t, info)
	assert.Equal(t, []string{"Dashed description"}, info.Description)
	assert.Nil(t, info.Tags)
}

func TestNormalizeTagsOnly(t *testing.T) {
	info := Normalize("/** @deprecated */")
	require.NotNil(t, info)
	assert.Equal(t, []string{}, info.Description)
	assert.Equal(t, []model.JSDocTag{{TagName: "deprecated"}}, info.Tags)
}

func TestNormalizeTags(t *testing.T) {
	info := Normalize(`/**
 * Greets someone.
 * @param {string} name - who to greet
 * @param [greeting="hi"] - optional greeting
 * @param {number} [times=1] how often
 * @returns {string} - the greeting
 * @example
 * greet("ada")
 * @tag utility
 */`)

	require.NotNil(t, info)
	assert.Equal(t, []string{"Greets someone."}, info.Description)
	assert.Equal(t, []model.JSDocTag{
		{TagName: "param", Literal: "string", Name: "name", Comment: "who to greet"},
		{TagName: "param", Name: "greeting", Comment: "optional greeting"},
		{TagName: "param", Literal: "number", Name: "times", Comment: "how often"},
		{TagName: "returns", Literal: "string", Comment: "the greeting"},
		{TagName: "example", Comment: `greet("ada")`},
		{TagName: "tag", Comment: "utility"},
	}, info.Tags)
}

func TestParsePropertyTag(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.JSDocTag
	}{
		{
			name: "quoted description",
			body: `{string} id - "Ensures string types are handled correctly."`,
			want: model.JSDocTag{TagName: "property", Literal: "string", Name: "id", Comment: "Ensures string types are handled correctly."},
		},
		{
			name: "plain description",
			body: "{number} count - how many",
			want: model.JSDocTag{TagName: "property", Literal: "number", Name: "count", Comment: "how many"},
		},
		{
			name: "nested name",
			body: "{boolean} options.enabled - toggles it",
			want: model.JSDocTag{TagName: "property", Literal: "boolean", Name: "options.enabled", Comment: "toggles it"},
		},
		{
			name: "complex type",
			body: "{Array<string>} names - all names",
			want: model.JSDocTag{TagName: "property", Literal: "Array<string>", Name: "names", Comment: "all names"},
		},
		{
			name: "missing dash",
			body: "{string} id the id",
			want: model.JSDocTag{TagName: "property"},
		},
		{
			name: "missing type",
			body: "id - the id",
			want: model.JSDocTag{TagName: "property"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePropertyTag(RawTag{Name: "property", Body: tt.body})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"See {@link Foo} for details", "See Foo for details"},
		{"See {@link Foo|the foo} now", "See the foo now"},
		{"See {@link Foo the foo} now", "See the foo now"},
		{"{@linkcode Bar}", "Bar"},
		{"a {@linkplain B} c {@link D}", "a B c D"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "Text(%q)", tt.in)
	}
}

func TestCorrelate(t *testing.T) {
	external := []model.JSDocTag{
		{TagName: "property", Name: "id", Comment: "From the parent."},
		{TagName: "property", Name: "id"},
	}
	inline := &model.JSDocInfo{
		Description: []string{"From the member."},
		Tags:        []model.JSDocTag{{TagName: "example", Comment: "x.id"}},
	}

	got := Correlate(inline, external)
	require.NotNil(t, got)
	assert.Equal(t, []string{"From the parent.", "From the member."}, got.Description)
	assert.Equal(t, inline.Tags, got.Tags)
}

func TestCorrelateAbsent(t *testing.T) {
	assert.Nil(t, Correlate(nil, nil))
	assert.Nil(t, Correlate(nil, []model.JSDocTag{{TagName: "property", Name: "id"}}))
}

func TestCorrelateExternalOnly(t *testing.T) {
	got := Correlate(nil, []model.JSDocTag{{TagName: "property", Name: "id", Comment: "Only tag."}})
	require.NotNil(t, got)
	assert.Equal(t, []string{"Only tag."}, got.Description)
	assert.Nil(t, got.Tags)
}

func TestCorrelateInlineTagsOnly(t *testing.T) {
	inline := &model.JSDocInfo{Description: []string{}, Tags: []model.JSDocTag{{TagName: "deprecated"}}}
	got := Correlate(inline, nil)
	require.NotNil(t, got)
	assert.Equal(t, []string{}, got.Description)
	assert.Len(t, got.Tags, 1)
}

func TestFilterAndNestedProperties(t *testing.T) {
	tags := []model.JSDocTag{
		{TagName: "property", Name: "id", Comment: "id"},
		{TagName: "prop", Name: "options", Comment: "options"},
		{TagName: "property", Name: "options.enabled", Comment: "enabled"},
		{TagName: "property", Name: "options.mode.kind", Comment: "kind"},
		{TagName: "param", Name: "id", Comment: "not a property"},
		{TagName: "property", Name: "optionsX", Comment: "other"},
	}

	assert.Equal(t, []model.JSDocTag{tags[0]}, FilterProperties(tags, "id"))
	assert.Equal(t, []model.JSDocTag{tags[1]}, FilterProperties(tags, "options"))
	assert.Empty(t, FilterProperties(tags, "missing"))

	nested := NestedProperties(tags, "options")
	assert.Equal(t, []model.JSDocTag{
		{TagName: "property", Name: "enabled", Comment: "enabled"},
		{TagName: "property", Name: "mode.kind", Comment: "kind"},
	}, nested)
	assert.Equal(t, "options.enabled", tags[2].Name, "input tags must not be modified")
}

func TestPropertyTagsAndFilterParams(t *testing.T) {
	doc := Normalize(`/**
 * @property {string} id - the id
 * @param {number} x - the x
 * @arg y - the y
 */`)
	require.NotNil(t, doc)

	props := PropertyTags(doc)
	require.Len(t, props, 1)
	assert.Equal(t, "id", props[0].Name)

	assert.Equal(t, []model.JSDocTag{{TagName: "param", Literal: "number", Name: "x", Comment: "the x"}}, FilterParams(doc, "x"))
	assert.Equal(t, []model.JSDocTag{{TagName: "arg", Name: "y", Comment: "the y"}}, FilterParams(doc, "y"))
	assert.Nil(t, FilterParams(nil, "x"))
	assert.Nil(t, PropertyTags(nil))
}
