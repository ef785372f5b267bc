package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/display"
	"github.com/harrison/treekeep/internal/fileutil"
	"github.com/harrison/treekeep/internal/treesed"
)

// NewSedCommand creates the sed command
func NewSedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sed <pattern> [replacement]",
		Short: "Search and replace across a file tree",
		Long: `Search for a pattern across files, or replace it when a replacement
is given. Matching is case-insensitive by default and the pattern is taken
literally; use -c and -x to change that.

In replace mode each modified file is first backed up to a sibling file
named <file>.<pid>, unless --no-backup is given. Regular expressions use
Go syntax, including $1-style group references in the replacement.

Counts are per line: a line with several occurrences still counts once.

Examples:
  # Find every occurrence of a name under the current tree
  treekeep sed oldName --tree .

  # Rename across specific files, case-sensitively
  treekeep sed -c oldName newName --files a.go --files b.go

  # Regex rewrite with group references
  treekeep sed -x 'Width=(\d+) Height=(\d+)' 'Height=$2 Width=$1' --tree src/`,
		Args: cobra.RangeArgs(1, 2),
		RunE: sedCommand,
	}

	cmd.Flags().String("tree", "", "Process every file under this directory")
	cmd.Flags().StringSlice("files", nil, "Process these files only")
	cmd.Flags().BoolP("case-sensitive", "c", false, "Match case-sensitively")
	cmd.Flags().BoolP("regex", "x", false, "Treat the pattern as a Go regular expression")
	cmd.Flags().Bool("no-backup", false, "Do not write backup files before replacing")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress the header and progress dots")
	cmd.MarkFlagsMutuallyExclusive("tree", "files")
	cmd.MarkFlagsOneRequired("tree", "files")

	return cmd
}

// sedCommand implements the sed command logic
func sedCommand(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	replaceMode := len(args) == 2
	var replacement string
	if replaceMode {
		replacement = args[1]
	}

	tree, _ := cmd.Flags().GetString("tree")
	fileArgs, _ := cmd.Flags().GetStringSlice("files")
	caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
	useRegex, _ := cmd.Flags().GetBool("regex")
	noBackup, _ := cmd.Flags().GetBool("no-backup")
	quiet, _ := cmd.Flags().GetBool("quiet")

	fs := afero.NewOsFs()
	var paths []string
	if tree != "" {
		collected, err := fileutil.CollectTree(fs, tree)
		if err != nil {
			return fmt.Errorf("collecting files under %s: %w", tree, err)
		}
		paths = collected
	} else {
		paths = fileutil.FilterFiles(fs, fileArgs)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files")
	}

	out := cmd.OutOrStdout()
	engine := treesed.New(fs, treesed.Options{
		CaseSensitive: caseSensitive,
		UseRegex:      useRegex,
	})
	compiled, err := engine.CompilePattern(pattern)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(out, "search_pattern: %s\n", pattern)
		if replaceMode {
			fmt.Fprintf(out, "replacement_pattern: %s\n", replacement)
			fmt.Fprintf(out, "** EDIT mode\n")
		} else {
			fmt.Fprintf(out, "** Search mode\n")
		}
	}

	progress := display.NewDotProgress(out, !quiet)
	var errs []error
	for _, path := range paths {
		progress.Step()
		m := engine.SearchFile(compiled, path)
		if m == nil {
			continue
		}
		progress.Flush()
		fmt.Fprintf(out, "%s: %d matches on lines: %s\n",
			m.Path, m.Count, joinLineNumbers(m.LineNumbers))

		if !replaceMode {
			continue
		}
		result, err := engine.ReplaceFile(compiled, replacement, path, !noBackup)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if result != nil {
			fmt.Fprintf(out, "Replaced %s -> %s on %d lines in %s\n",
				pattern, replacement, result.Count, result.Path)
		}
	}
	progress.Flush()

	if len(errs) > 0 {
		reportSedErrors(cmd.ErrOrStderr(), errs)
		return errors.Join(errs...)
	}
	return nil
}

// joinLineNumbers renders line numbers space-separated.
func joinLineNumbers(lines []int) string {
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " ")
}

// reportSedErrors surfaces per-file write failures as warnings before the
// command exits non-zero.
func reportSedErrors(out io.Writer, errs []error) {
	for _, err := range errs {
		display.Warnf(out, "%v", err)
	}
	display.Warning{
		Title:      fmt.Sprintf("%d file(s) could not be rewritten", len(errs)),
		Message:    "files that were rewritten keep their changes",
		Suggestion: "backups named <file>.<pid> are left next to the originals",
	}.Display(out)
}
