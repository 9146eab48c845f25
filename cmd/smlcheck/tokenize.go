package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smlcheck/internal/diagfmt"
	"smlcheck/internal/driver"
)

var tokenizeFormat string

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeFormat, "format", "pretty", "output format (pretty|json)")
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.sml>",
	Short: "Tokenize an SML source file",
	Long:  `Tokenize lexes a single Standard ML source file and prints its token stream.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		colored, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   colored,
			Context: 2,
		})
	}

	switch tokenizeFormat {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", tokenizeFormat)
	}
}
