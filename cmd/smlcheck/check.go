package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"smlcheck/internal/diag"
	"smlcheck/internal/diagfmt"
	"smlcheck/internal/driver"
	"smlcheck/internal/project"
	"smlcheck/internal/source"
)

var (
	checkFormat    string
	checkDisk      bool
	checkNoUI      bool
	checkWithNotes bool
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().BoolVar(&checkDisk, "disk-cache", false, "cache single-file results by content hash under $XDG_CACHE_HOME")
	checkCmd.Flags().BoolVar(&checkNoUI, "no-progress", false, "disable the interactive progress display")
	checkCmd.Flags().BoolVar(&checkWithNotes, "with-notes", false, "include diagnostic notes in output")
}

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Type-check SML source files",
	Long: `Check lexes, parses, and type-checks Standard ML source files, reporting
syntax and type errors. With no paths, check looks for a smlcheck.toml
manifest starting from the current directory and checks its source roots.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	files, err := resolveCheckPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sml files found to check")
	}

	if len(files) == 1 {
		return runCheckSingle(cmd, files[0], maxDiagnostics)
	}
	return runCheckMany(cmd, files, maxDiagnostics, jobs, quiet)
}

// resolveCheckPaths expands args (files or directories) into a list of
// files: file args in the order given, then the *.sml files discovered
// under the directory args. With no args, it looks for a smlcheck.toml
// manifest and checks the *.sml files discovered under its source roots.
func resolveCheckPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		root, ok, err := project.FindProjectRoot(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no %s found; pass explicit file or directory paths", project.ManifestName)
		}
		manifest, err := project.LoadManifest(filepath.Join(root, project.ManifestName))
		if err != nil {
			return nil, err
		}
		roots, err := project.ResolveSourceRoots(root, manifest)
		if err != nil {
			return nil, err
		}
		return project.DiscoverFiles(roots)
	}

	var dirs []string
	var files []string
	for _, arg := range args {
		st, statErr := os.Stat(arg)
		if statErr != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, statErr)
		}
		if st.IsDir() {
			dirs = append(dirs, arg)
			continue
		}
		files = append(files, arg)
	}
	if len(dirs) > 0 {
		found, err := project.DiscoverFiles(dirs)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// runCheckSingle checks one file against the fixed initial basis, optionally
// consulting the disk cache; see driver.CheckFile's doc comment for why the
// cache is sound only in this single-file path.
func runCheckSingle(cmd *cobra.Command, path string, maxDiagnostics int) error {
	opts := driver.CheckOptions{MaxDiagnostics: maxDiagnostics}
	if checkDisk {
		cache, err := driver.OpenDiskCache("smlcheck")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	result, fs, err := driver.CheckFile(path, opts)
	if err != nil {
		return err
	}
	return reportCheckResults(cmd, fs, []driver.FileResult{*result})
}

func runCheckMany(cmd *cobra.Command, files []string, maxDiagnostics, jobs int, quiet bool) error {
	runFn := func(sink driver.ProgressSink) (*driver.CheckResult, error) {
		return driver.CheckParallel(cmd.Context(), files, jobs, driver.CheckOptions{
			MaxDiagnostics: maxDiagnostics,
			Progress:       sink,
		})
	}

	var (
		result *driver.CheckResult
		err    error
	)
	if !checkNoUI && !quiet && isTerminal(os.Stdout) {
		result, err = runCheckWithUI("checking", files, runFn)
	} else {
		result, err = runFn(nil)
	}
	if err != nil {
		return err
	}
	return reportCheckResults(cmd, result.FileSet, result.Files)
}

func reportCheckResults(cmd *cobra.Command, fs *source.FileSet, files []driver.FileResult) error {
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	hasErrors := false
	for _, fr := range files {
		fr.Bag.Sort()
		if fr.Bag.HasErrors() {
			hasErrors = true
		}
	}

	switch checkFormat {
	case "pretty":
		first := true
		for _, fr := range files {
			if fr.Bag.Len() == 0 {
				continue
			}
			if !first {
				fmt.Fprintln(os.Stdout) //nolint:errcheck
			}
			first = false
			diagfmt.Pretty(os.Stdout, fr.Bag, fs, diagfmt.PrettyOpts{
				Color:     colored,
				Context:   2,
				ShowNotes: checkWithNotes,
			})
		}
		if first {
			fmt.Fprintln(os.Stdout, "no errors") //nolint:errcheck
		}
	case "json":
		merged := mergeBags(files)
		if err := diagfmt.JSON(os.Stdout, merged, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     checkWithNotes,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", checkFormat)
	}

	if hasErrors {
		os.Exit(1)
	}
	return nil
}

// mergeBags combines every file's diagnostics into one bag for JSON output,
// preserving the per-file Sort order already applied by reportCheckResults.
func mergeBags(files []driver.FileResult) *diag.Bag {
	total := 0
	for _, fr := range files {
		total += fr.Bag.Len()
	}
	merged := diag.NewBag(total)
	for _, fr := range files {
		merged.Merge(fr.Bag)
	}
	return merged
}
