package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bigmistqke/readmi/internal/model"
	"gopkg.in/yaml.v3"
)

// Options control text output.
type Options struct {
	// Source is the input path named in the generated header.
	Source string
	// TypesImport is the module the TypeScript output imports Element from.
	TypesImport string
	// Indent is the number of spaces per nesting level.
	Indent int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{TypesImport: "readmi", Indent: 2}
}

func (o Options) indent() int {
	if o.Indent <= 0 {
		return 2
	}
	return o.Indent
}

// Formatter is the interface for serializing an element sequence.
type Formatter interface {
	// Format returns the serialized elements.
	Format(elements []model.Element) (string, error)

	// FormatToWriter writes the serialized elements to w.
	FormatToWriter(w io.Writer, elements []model.Element) error
}

// GetFormatter returns a formatter for the specified format.
func GetFormatter(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatTS:
		return NewTSFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatYAML:
		return NewYAMLFormatter(opts), nil
	case FormatSQLite:
		return nil, fmt.Errorf("%s is not a text format", format)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// format runs FormatToWriter into a string.
func format(f Formatter, elements []model.Element) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, elements); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// marshalJSON encodes elements without HTML escaping, so type text such as
// `Array<string>` stays readable.
func marshalJSON(elements []model.Element, indent int) ([]byte, error) {
	if elements == nil {
		elements = []model.Element{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(elements); err != nil {
		return nil, fmt.Errorf("encode elements: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// JSONFormatter formats elements as a JSON array.
type JSONFormatter struct {
	opts Options
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format formats elements as JSON.
func (f *JSONFormatter) Format(elements []model.Element) (string, error) {
	return format(f, elements)
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, elements []model.Element) error {
	data, err := marshalJSON(elements, f.opts.indent())
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// TSFormatter formats elements as a TypeScript module.
type TSFormatter struct {
	opts Options
}

// NewTSFormatter creates a new TypeScript formatter.
func NewTSFormatter(opts Options) *TSFormatter {
	if opts.TypesImport == "" {
		opts.TypesImport = DefaultOptions().TypesImport
	}
	return &TSFormatter{opts: opts}
}

// Format formats elements as a TypeScript module.
func (f *TSFormatter) Format(elements []model.Element) (string, error) {
	return format(f, elements)
}

// FormatToWriter writes the module to w. The element array is emitted as a
// JSON literal, which is a valid TypeScript expression.
func (f *TSFormatter) FormatToWriter(w io.Writer, elements []model.Element) error {
	data, err := marshalJSON(elements, f.opts.indent())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if f.opts.Source != "" {
		fmt.Fprintf(&buf, "// Code generated by readmi from %s. DO NOT EDIT.\n", filepath.ToSlash(f.opts.Source))
	} else {
		buf.WriteString("// Code generated by readmi. DO NOT EDIT.\n")
	}
	importPath, err := json.Marshal(f.opts.TypesImport)
	if err != nil {
		return err
	}
	fmt.Fprintf(&buf, "import type { Element } from %s;\n\n", importPath)
	fmt.Fprintf(&buf, "const elements = %s satisfies Element[];\n\n", data)
	buf.WriteString("export default elements;\n")

	_, err = w.Write(buf.Bytes())
	return err
}

// YAMLFormatter formats elements as YAML.
type YAMLFormatter struct {
	opts Options
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts Options) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format formats elements as YAML.
func (f *YAMLFormatter) Format(elements []model.Element) (string, error) {
	return format(f, elements)
}

// FormatToWriter writes YAML output to a writer. Elements go through their
// JSON encoding first so that kind discriminants and field order match the
// other formats.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, elements []model.Element) error {
	data, err := marshalJSON(elements, 0)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&doc)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(f.opts.indent())
	defer encoder.Close()

	return encoder.Encode(&doc)
}

// blockStyle switches a node tree decoded from JSON to block style. Multi-line
// strings become literal blocks.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, child := range n.Content {
		blockStyle(child)
	}
}
