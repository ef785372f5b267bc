package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/display"
	"github.com/harrison/treekeep/internal/gitstatus"
)

// maxEntriesPerBucket caps the files listed per status bucket before
// collapsing the rest into a count.
const maxEntriesPerBucket = 5

// NewGitStatusCommand creates the gitstatus command
func NewGitStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitstatus <dir>",
		Short: "Report uncommitted changes across a directory of git checkouts",
		Long: `Run git status in every repository directly under the given directory
and report the ones with staged, modified, or untracked files. Clean
repositories are not listed.

Repositories where git fails or times out produce a warning and are
skipped; the rest of the report is unaffected.

Examples:
  treekeep gitstatus ~/src
  treekeep gitstatus -q ~/src   # dirty repository names only`,
		Args: cobra.ExactArgs(1),
		RunE: gitStatusCommand,
	}

	cmd.Flags().BoolP("quiet", "q", false, "Print dirty repository names only")

	return cmd
}

// gitStatusCommand implements the gitstatus command logic
func gitStatusCommand(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	checker := gitstatus.NewChecker(nil)
	results, warnings, err := checker.CheckAll(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for _, warning := range warnings {
		display.Warnf(cmd.ErrOrStderr(), "%v", warning)
	}

	renderStatuses(cmd.OutOrStdout(), results, quiet)
	return nil
}

// renderStatuses prints the dirty-repository report.
func renderStatuses(out io.Writer, results []gitstatus.RepoStatus, quiet bool) {
	if len(results) == 0 {
		fmt.Fprintf(out, "All repositories are clean.\n")
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	for i, status := range results {
		if quiet {
			fmt.Fprintln(out, filepath.Base(status.Path))
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		header.Fprintf(out, "%s\n", filepath.Base(status.Path))
		renderBucket(out, "Staged", status.Staged)
		renderBucket(out, "Modified", status.Modified)
		renderBucket(out, "Untracked", status.Untracked)
	}
}

// renderBucket prints one status bucket, capped at maxEntriesPerBucket.
func renderBucket(out io.Writer, label string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(out, "  %s (%d):\n", label, len(files))
	for i, file := range files {
		if i == maxEntriesPerBucket {
			fmt.Fprintf(out, "    ... and %d more\n", len(files)-maxEntriesPerBucket)
			return
		}
		fmt.Fprintf(out, "    %s\n", file)
	}
}
