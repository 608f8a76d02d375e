// Package jsdoc normalizes raw `/** ... */` documentation comments into the
// model's JSDocInfo, and correlates per-property tags with inline member
// documentation.
package jsdoc

import (
	"regexp"
	"strings"

	"github.com/bigmistqke/readmi/internal/model"
)

// Block is a documentation comment split into its leading description and
// its block tags. Text is kept as written, with comment decoration removed.
type Block struct {
	Description string
	Tags        []RawTag
}

// RawTag is one block tag before tag-specific parsing.
type RawTag struct {
	Name string
	Body string
}

// Parse strips the comment delimiters and leading asterisks from raw and
// splits the remaining text at block tags. A block tag starts a line with
// `@` followed by a letter.
func Parse(raw string) Block {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")

	var (
		block   Block
		desc    []string
		current *RawTag
		body    []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimRight(strings.Join(body, "\n"), " \t\n")
		block.Tags = append(block.Tags, *current)
		current, body = nil, nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = stripDecoration(line)
		if name, rest, ok := tagLine(line); ok {
			flush()
			current = &RawTag{Name: name}
			body = []string{rest}
			continue
		}
		if current != nil {
			body = append(body, line)
		} else {
			desc = append(desc, line)
		}
	}
	flush()

	block.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return block
}

// stripDecoration removes the leading `*` of a comment line and one space
// after it.
func stripDecoration(line string) string {
	line = strings.TrimRight(line, " \t\r")
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "*") {
		return trimmed
	}
	trimmed = trimmed[1:]
	return strings.TrimPrefix(trimmed, " ")
}

func tagLine(line string) (name, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 || trimmed[0] != '@' || !isLetter(trimmed[1]) {
		return "", "", false
	}
	end := 1
	for end < len(trimmed) && !isSpace(trimmed[end]) {
		end++
	}
	return trimmed[1:end], strings.TrimSpace(trimmed[end:]), true
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// Normalize parses raw and converts it into JSDocInfo. It returns nil when
// the comment carries neither a description nor tags.
func Normalize(raw string) *model.JSDocInfo {
	block := Parse(raw)

	var tags []model.JSDocTag
	for _, raw := range block.Tags {
		tags = append(tags, ParseTag(raw))
	}

	desc := stripDash(Text(block.Description))
	if desc == "" && len(tags) == 0 {
		return nil
	}

	info := &model.JSDocInfo{Description: []string{}, Tags: tags}
	if desc != "" {
		info.Description = []string{desc}
	}
	return info
}

// ParseTag converts a raw block tag into a JSDocTag.
func ParseTag(raw RawTag) model.JSDocTag {
	switch raw.Name {
	case "param", "arg", "argument":
		return parseParamTag(raw)
	case "returns", "return":
		literal, rest := splitType(raw.Body)
		return model.JSDocTag{
			TagName: raw.Name,
			Literal: literal,
			Comment: stripDash(Text(rest)),
		}
	case "property", "prop":
		return ParsePropertyTag(raw)
	}
	return model.JSDocTag{TagName: raw.Name, Comment: stripDash(Text(raw.Body))}
}

func parseParamTag(raw RawTag) model.JSDocTag {
	literal, rest := splitType(raw.Body)
	name, rest := splitName(rest)
	return model.JSDocTag{
		TagName: raw.Name,
		Literal: literal,
		Name:    name,
		Comment: stripDash(Text(rest)),
	}
}

// propertyPattern matches `{<type>} <name> - <description>`.
var propertyPattern = regexp.MustCompile(`(?s)^\{(.+?)\}\s+(\S+)\s+-\s+(.*)$`)

// ParsePropertyTag destructures a @property tag. A body that does not match
// `{type} name - description` yields a tag with only its tag name.
func ParsePropertyTag(raw RawTag) model.JSDocTag {
	m := propertyPattern.FindStringSubmatch(strings.TrimSpace(raw.Body))
	if m == nil {
		return model.JSDocTag{TagName: raw.Name}
	}
	return model.JSDocTag{
		TagName: raw.Name,
		Literal: strings.TrimSpace(m[1]),
		Name:    m[2],
		Comment: unwrapQuotes(Text(m[3])),
	}
}

// splitType removes a leading `{type}` expression, honoring nested braces.
func splitType(body string) (literal, rest string) {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "{") {
		return "", body
	}
	depth := 0
	for i, r := range body {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(body[1:i]), strings.TrimSpace(body[i+1:])
			}
		}
	}
	return "", body
}

// splitName takes the documented name off the front of a tag body. Optional
// names written as `[name]` or `[name=default]` lose their brackets and
// default.
func splitName(body string) (name, rest string) {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "[") {
		end := strings.IndexByte(body, ']')
		if end < 0 {
			return "", body
		}
		name = body[1:end]
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
		return strings.TrimSpace(name), strings.TrimSpace(body[end+1:])
	}
	end := strings.IndexAny(body, " \t\n")
	if end < 0 {
		return body, ""
	}
	return body[:end], strings.TrimSpace(body[end:])
}

// linkPattern matches inline {@link target}, {@link target|label} and
// {@link target label} tags, plus the linkcode and linkplain variants.
var linkPattern = regexp.MustCompile(`\{@link(?:code|plain)?\s+([^\s|}]+)(?:\s*\|\s*|\s+)?([^}]*)\}`)

// Text renders comment text. Inline link tags split the text into fragments,
// which are trimmed and joined with a single space; a link renders as its
// label, or its target when it has none.
func Text(s string) string {
	matches := linkPattern.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return strings.TrimSpace(s)
	}

	var fragments []string
	add := func(f string) {
		if f = strings.TrimSpace(f); f != "" {
			fragments = append(fragments, f)
		}
	}
	last := 0
	for _, m := range matches {
		add(s[last:m[0]])
		target, label := s[m[2]:m[3]], ""
		if m[4] >= 0 {
			label = s[m[4]:m[5]]
		}
		if strings.TrimSpace(label) != "" {
			add(label)
		} else {
			add(target)
		}
		last = m[1]
	}
	add(s[last:])
	return strings.Join(fragments, " ")
}

func stripDash(s string) string {
	return strings.TrimPrefix(s, "- ")
}

// unwrapQuotes removes one pair of double quotes around s.
func unwrapQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
