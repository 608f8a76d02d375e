package cmd

import (
	"errors"
	"fmt"

	"github.com/bigmistqke/readmi/internal/extract"
	"github.com/spf13/cobra"
)

// errDangling marks a check run that found dangling references.
var errDangling = errors.New("dangling type references found")

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "List type references that match no extracted element",
	Long: `Extract the input and list every type reference whose name matches no
element of the same output, no generic parameter in scope and no global type
such as Array or Promise.

Each dangling reference is printed as <element>: <reference>. The command
exits non-zero when any is found, so it can gate CI.

Examples:
  readmi check src/index.ts
  readmi check types.d.ts --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	elements, err := newExtractor(cfg, logger).ExtractFile(cmd.Context(), args[0])
	if err != nil && strict {
		return err
	}

	dangling := extract.DanglingReferences(elements)
	out := cmd.OutOrStdout()
	for _, ref := range dangling {
		fmt.Fprintf(out, "%s: %s\n", ref.Element, ref.Name)
	}

	if len(dangling) > 0 {
		return fmt.Errorf("%w: %d in %s", errDangling, len(dangling), args[0])
	}
	logger.Info("all type references resolve", "path", args[0], "elements", len(elements))
	return nil
}
