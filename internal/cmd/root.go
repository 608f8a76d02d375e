// Package cmd contains all CLI commands for readmi.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bigmistqke/readmi/internal/config"
	"github.com/bigmistqke/readmi/internal/extract"
	"github.com/bigmistqke/readmi/internal/model"
	"github.com/bigmistqke/readmi/internal/output"
	"github.com/bigmistqke/readmi/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Version is the current version of readmi
	Version = "0.1.0"

	// Global flags
	verbose      bool
	strict       bool
	configPath   string
	outputFormat output.Format
)

// stdoutPath is the output argument that writes to standard output.
const stdoutPath = "-"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "readmi <input> [output]",
	Short: "Extract documentation elements from a TypeScript file",
	Long: `readmi reads one TypeScript source or declaration file and writes its
top-level declarations, their JSDoc and their resolved type annotations as a
flat list of documentation elements.

The default output is a TypeScript module whose default export is the element
array. Type references are kept as names, never expanded, so a renderer can
link them to the matching element.

Output Format:
  ts (default) | json | yaml | sqlite
  The format is taken from --format, then from the output file extension,
  then from .readmi/config.yaml.

Examples:
  readmi src/index.ts                     # Writes readmi.generated.ts
  readmi src/index.ts docs/api.json       # Format inferred from extension
  readmi lib.d.ts - --format yaml         # Print YAML to stdout
  readmi src/index.ts api.db              # Export into SQLite
  readmi check src/index.ts               # List dangling type references`,
	Args:          cobra.RangeArgs(1, 2),
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "readmi:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .readmi/config.yaml)")
	rootCmd.PersistentFlags().Var(&outputFormat, "format", "Output format (ts|json|yaml|sqlite)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Fail when the input cannot be loaded")
}

// newLogger returns the stderr logger commands report through.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the --config file, or the nearest .readmi/config.yaml.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
		}
		return config.LoadFromPath(configPath)
	}
	return config.Load(".")
}

// newExtractor builds an extractor from config.
func newExtractor(cfg *config.Config, logger *slog.Logger) *extract.Extractor {
	return extract.New(
		extract.WithLogger(logger),
		extract.WithLiterals(cfg.Extract.IncludeLiterals()),
	)
}

// resolveOutput picks the format and path for a run. --format wins over the
// output file extension, which wins over the configured format.
func resolveOutput(cfg *config.Config, args []string) (output.Format, string, error) {
	outPath := cfg.Output.Path
	if len(args) > 1 {
		outPath = args[1]
	}

	format := outputFormat
	if format == "" && outPath != "" && outPath != stdoutPath {
		if f, ok := output.FormatFromPath(outPath); ok {
			format = f
		}
	}
	if format == "" {
		f, err := output.ParseFormat(cfg.Output.Format)
		if err != nil {
			return "", "", err
		}
		format = f
	}

	if outPath == "" {
		outPath = output.DefaultPath(format)
	}
	if outPath == stdoutPath && !format.IsText() {
		return "", "", fmt.Errorf("%s output cannot be written to stdout", format)
	}
	return format, outPath, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, outPath, err := resolveOutput(cfg, args)
	if err != nil {
		return err
	}

	input := args[0]
	elements, err := newExtractor(cfg, logger).ExtractFile(ctx, input)
	if err != nil && strict {
		return err
	}

	if err := reportDangling(logger, cfg.Extract.DanglingReferences, elements); err != nil {
		return err
	}

	if err := writeOutput(ctx, cmd.OutOrStdout(), cfg, format, outPath, input, elements); err != nil {
		return err
	}

	if outPath != stdoutPath {
		logger.Info("wrote documentation elements", "elements", len(elements), "path", outPath, "format", format)
	}
	return nil
}

// reportDangling applies the configured dangling reference mode.
func reportDangling(logger *slog.Logger, mode string, elements []model.Element) error {
	if mode == config.DanglingIgnore {
		return nil
	}

	dangling := extract.DanglingReferences(elements)
	for _, ref := range dangling {
		logger.Warn("type reference matches no element", "element", ref.Element, "reference", ref.Name)
	}
	if mode == config.DanglingError && len(dangling) > 0 {
		return fmt.Errorf("%d dangling type reference(s)", len(dangling))
	}
	return nil
}

// writeOutput serializes elements to outPath, or to stdout when outPath is "-".
func writeOutput(ctx context.Context, stdout io.Writer, cfg *config.Config, format output.Format, outPath, input string, elements []model.Element) error {
	source := filepath.ToSlash(input)

	if !format.IsText() {
		db, err := store.Open(outPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Export(ctx, source, elements); err != nil {
			return fmt.Errorf("export to %s: %w", outPath, err)
		}
		return nil
	}

	formatter, err := output.GetFormatter(format, output.Options{
		Source:      source,
		TypesImport: cfg.Output.TypesImport,
		Indent:      cfg.Output.Indent,
	})
	if err != nil {
		return err
	}

	if outPath == stdoutPath {
		return formatter.FormatToWriter(stdout, elements)
	}

	text, err := formatter.Format(elements)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
