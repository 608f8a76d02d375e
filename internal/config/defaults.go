package config

import "slices"

// Dangling reference handling modes.
const (
	DanglingIgnore = "ignore"
	DanglingWarn   = "warn"
	DanglingError  = "error"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	literals := true
	return &Config{
		Extract: ExtractConfig{
			Literals:           &literals,
			DanglingReferences: DanglingIgnore,
		},
		Output: OutputConfig{
			Format:      "ts",
			Path:        "",
			TypesImport: "readmi",
			Indent:      2,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Extract = mergeExtractConfig(loaded.Extract, defaults.Extract)
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)

	return result
}

func mergeExtractConfig(loaded, defaults ExtractConfig) ExtractConfig {
	result := ExtractConfig{}

	// Literals: nil means unset in the file
	if loaded.Literals != nil {
		v := *loaded.Literals
		result.Literals = &v
	} else if defaults.Literals != nil {
		v := *defaults.Literals
		result.Literals = &v
	}

	if loaded.DanglingReferences != "" {
		result.DanglingReferences = loaded.DanglingReferences
	} else {
		result.DanglingReferences = defaults.DanglingReferences
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	// Path: empty means derive from the format
	if loaded.Path != "" {
		result.Path = loaded.Path
	} else {
		result.Path = defaults.Path
	}

	if loaded.TypesImport != "" {
		result.TypesImport = loaded.TypesImport
	} else {
		result.TypesImport = defaults.TypesImport
	}

	// Indent: use loaded if non-zero
	if loaded.Indent != 0 {
		result.Indent = loaded.Indent
	} else {
		result.Indent = defaults.Indent
	}

	return result
}

// ValidDanglingModes lists the valid values for dangling_references
var ValidDanglingModes = []string{DanglingIgnore, DanglingWarn, DanglingError}

// IsValidDanglingMode checks if the given dangling_references value is valid
func IsValidDanglingMode(mode string) bool {
	return slices.Contains(ValidDanglingModes, mode)
}
