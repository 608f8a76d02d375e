// Package output serializes extracted elements.
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ErrUnknownFormat is returned for format names readmi does not support.
var ErrUnknownFormat = errors.New("unknown output format")

// Format represents the output format type.
type Format string

const (
	// FormatTS is the default output: a TypeScript module whose default
	// export is the element array, checked against the Element type.
	FormatTS Format = "ts"

	// FormatJSON is the element array as JSON.
	FormatJSON Format = "json"

	// FormatYAML is the element array as YAML.
	FormatYAML Format = "yaml"

	// FormatSQLite exports elements into a SQLite database.
	FormatSQLite Format = "sqlite"
)

// DefaultFormat is the format used when none is specified.
const DefaultFormat = FormatTS

// ParseFormat parses a format string into a Format value.
// Accepts: "ts", "typescript", "json", "yaml", "yml", "sqlite", "db"
// (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ts", "typescript":
		return FormatTS, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q (expected ts, json, yaml, or sqlite)", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers a format from an output file extension. It returns
// false when the extension does not name a format.
func FormatFromPath(path string) (Format, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || strings.ContainsAny(path[i:], `/\`) {
		return "", false
	}
	switch strings.ToLower(path[i+1:]) {
	case "ts", "mts", "cts":
		return FormatTS, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "sqlite", "db", "sqlite3":
		return FormatSQLite, true
	}
	return "", false
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Set implements pflag.Value so a Format can be bound to a flag directly.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

var _ pflag.Value = (*Format)(nil)

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == "" {
		return DefaultFormat.Extension()
	}
	return string(f)
}

// IsText reports whether the format is written by a Formatter. SQLite
// output is written by the store package instead.
func (f Format) IsText() bool {
	return f != FormatSQLite
}

// ValidateFormat checks if a format value is valid.
func ValidateFormat(f Format) bool {
	switch f {
	case FormatTS, FormatJSON, FormatYAML, FormatSQLite:
		return true
	default:
		return false
	}
}

// DefaultPath returns the output path used when none is given.
func DefaultPath(f Format) string {
	return "readmi.generated." + f.Extension()
}
