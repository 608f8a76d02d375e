package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bigmistqke/readmi/internal/output"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the readmi configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the readmi configuration directory
const ConfigDirName = ".readmi"

// Config holds all readmi configuration
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Output  OutputConfig  `yaml:"output"`
}

// ExtractConfig holds configuration for the extraction pass
type ExtractConfig struct {
	// Literals controls whether declarations carry their source text.
	// A pointer so that an explicit false survives merging with defaults.
	Literals           *bool  `yaml:"literals"`
	DanglingReferences string `yaml:"dangling_references"`
}

// OutputConfig holds configuration for writing elements
type OutputConfig struct {
	Format      string `yaml:"format"`
	Path        string `yaml:"path"`
	TypesImport string `yaml:"types_import"`
	Indent      int    `yaml:"indent"`
}

// IncludeLiterals reports whether declaration literals are extracted.
func (c ExtractConfig) IncludeLiterals() bool {
	return c.Literals == nil || *c.Literals
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .readmi/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .readmi directory by walking up from startDir.
// Returns the path to the .readmi directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .readmi directory if it doesn't exist.
// Returns the path to the .readmi directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if !IsValidDanglingMode(cfg.Extract.DanglingReferences) {
		return fmt.Errorf("%w: dangling_references must be one of %v, got %q",
			ErrInvalidConfig, ValidDanglingModes, cfg.Extract.DanglingReferences)
	}

	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("%w: format: %v", ErrInvalidConfig, err)
	}

	if cfg.Output.Indent < 0 || cfg.Output.Indent > 8 {
		return fmt.Errorf("%w: indent must be between 0 and 8, got %d",
			ErrInvalidConfig, cfg.Output.Indent)
	}

	if cfg.Output.TypesImport == "" {
		return fmt.Errorf("%w: types_import must not be empty", ErrInvalidConfig)
	}

	return nil
}

// SaveDefault writes the default configuration to .readmi/config.yaml in workDir.
// Creates the .readmi directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# readmi configuration\n# Flags passed on the command line override these values.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}
