package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/cleaner"
	"github.com/harrison/treekeep/internal/display"
	"github.com/harrison/treekeep/internal/logger"
)

// NewCleanCommand creates the clean command
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [patterns...]",
		Short: "Remove derived build artifacts from a tree",
		Long: `Find and delete files and directories matching the given patterns
(suffixes by default, globs with -g). Without patterns the default list
from configuration is used.

Deletion asks for confirmation when run interactively; pass --yes to skip
the prompt, for example in scripts. With -e matching files are rewritten
with normalized line endings instead of being deleted.

Examples:
  # Delete the default artifacts under the current directory
  treekeep clean

  # Preview what would go
  treekeep clean -d '.orig' '.rej'

  # Glob matching, everything EXCEPT sources
  treekeep clean -g -n '**/*.go'

  # Normalize line endings in tracked text files
  treekeep clean -e '.txt' '.md'`,
		RunE: cleanCommand,
	}

	cmd.Flags().StringP("path", "p", ".", "Root directory to clean")
	cmd.Flags().BoolP("glob", "g", false, "Treat patterns as globs instead of suffixes")
	cmd.Flags().BoolP("negate", "n", false, "Select everything that does NOT match")
	cmd.Flags().BoolP("endings", "e", false, "Normalize line endings instead of deleting")
	cmd.Flags().BoolP("dry-run", "d", false, "List targets without touching them")
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	return cmd
}

// cleanCommand implements the clean command logic
func cleanCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, _ := cmd.Flags().GetString("path")
	glob, _ := cmd.Flags().GetBool("glob")
	negate, _ := cmd.Flags().GetBool("negate")
	endings, _ := cmd.Flags().GetBool("endings")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Clean.DefaultPatterns
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	log.Debugf("cleaning %s with patterns %v", root, patterns)

	c, err := cleaner.New(afero.NewOsFs(), root, cleaner.Options{
		Patterns: patterns,
		Glob:     glob,
		Negated:  negate,
	})
	if err != nil {
		return err
	}

	targets, err := c.FindTargets()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		fmt.Fprintf(out, "Nothing to clean.\n")
		return nil
	}

	for _, target := range targets {
		fmt.Fprintf(out, "  %s (%s)\n", target.Path, formatSize(target.Size))
	}
	total := cleaner.TotalSize(targets)

	if dryRun {
		fmt.Fprintf(out, "Dry run: %d target(s), %s total.\n", len(targets), formatSize(total))
		return nil
	}

	verb := "Delete"
	if endings {
		verb = "Normalize line endings in"
	}
	if !yes {
		if !display.IsTerminal(os.Stdin) {
			return fmt.Errorf("stdin is not a terminal; pass --yes to proceed without confirmation")
		}
		fmt.Fprintf(out, "%s %d target(s), %s total? [y/N]: ", verb, len(targets), formatSize(total))
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintf(out, "Aborted.\n")
			return nil
		}
	}

	var errs []error
	applied := 0
	for _, target := range targets {
		var err error
		if endings {
			err = c.ConvertEndings(target)
		} else {
			err = c.Delete(target)
		}
		if err != nil {
			display.Warnf(cmd.ErrOrStderr(), "%v", err)
			errs = append(errs, err)
			continue
		}
		applied++
	}

	if endings {
		fmt.Fprintf(out, "Normalized line endings in %d file(s).\n", applied)
	} else {
		fmt.Fprintf(out, "Removed %d target(s), freed %s.\n", applied, formatSize(total))
	}
	return errors.Join(errs...)
}

// formatSize renders a byte count in human units.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
