package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smlcheck/internal/diagfmt"
	"smlcheck/internal/driver"
)

var parseFormat string

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "pretty", "output format (pretty|json)")
}

var parseCmd = &cobra.Command{
	Use:   "parse <file.sml>",
	Short: "Parse an SML source file and report syntax diagnostics",
	Long:  `Parse builds a concrete syntax tree for a single Standard ML source file and reports any syntax errors.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	result.Bag.Sort()
	if result.Bag.Len() > 0 {
		colored, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   colored,
			Context: 2,
		})
	}

	switch parseFormat {
	case "pretty":
		if result.Bag.Len() == 0 {
			fmt.Fprintf(os.Stdout, "%s: no syntax errors\n", args[0]) //nolint:errcheck
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", parseFormat)
	}

	if result.Bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}
