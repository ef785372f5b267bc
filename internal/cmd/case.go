package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/caseconv"
)

// NewCaseCommand creates the case command
func NewCaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case <path>",
		Short: "Convert identifier case formats in source files",
		Long: `Rewrite every identifier written in the source case format into the
target format, across a file or a directory of files.

Formats: camel, pascal, snake, screaming-snake, kebab, screaming-kebab.
Only multi-word identifiers are recognized, so plain words are never touched.

Examples:
  # snake_case to camelCase across a file
  treekeep case --from snake --to camel main.go

  # Recursively, limited to Go and C files, previewing only
  treekeep case --from camel --to snake -r -d -e .go -e .c src/

  # Only identifiers starting with "old", adding a prefix
  treekeep case --from snake --to pascal --word-filter '^old' --prefix X main.c`,
		Args: cobra.ExactArgs(1),
		RunE: caseCommand,
	}

	cmd.Flags().String("from", "", "Source case format (required)")
	cmd.Flags().String("to", "", "Target case format (required)")
	cmd.Flags().BoolP("recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolP("dry-run", "d", false, "Report files that would change without writing")
	cmd.Flags().String("prefix", "", "Prepend to every converted identifier")
	cmd.Flags().String("suffix", "", "Append to every converted identifier")
	cmd.Flags().String("glob", "", "Only process files matching this glob")
	cmd.Flags().String("word-filter", "", "Only convert identifiers matching this regex")
	cmd.Flags().StringSliceP("ext", "e", nil, "File extensions to process (default from config)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// caseCommand implements the case command logic
func caseCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fromName, _ := cmd.Flags().GetString("from")
	toName, _ := cmd.Flags().GetString("to")
	recursive, _ := cmd.Flags().GetBool("recursive")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	prefix, _ := cmd.Flags().GetString("prefix")
	suffix, _ := cmd.Flags().GetString("suffix")
	glob, _ := cmd.Flags().GetString("glob")
	wordFilter, _ := cmd.Flags().GetString("word-filter")
	extensions, _ := cmd.Flags().GetStringSlice("ext")

	from, err := caseconv.ParseFormat(fromName)
	if err != nil {
		return err
	}
	to, err := caseconv.ParseFormat(toName)
	if err != nil {
		return err
	}
	if len(extensions) == 0 {
		extensions = cfg.Case.Extensions
	}

	converter, err := caseconv.New(afero.NewOsFs(), caseconv.Options{
		From:       from,
		To:         to,
		Extensions: extensions,
		Recursive:  recursive,
		DryRun:     dryRun,
		Prefix:     prefix,
		Suffix:     suffix,
		Glob:       glob,
		WordFilter: wordFilter,
	})
	if err != nil {
		return err
	}

	results, err := converter.ProcessPath(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	changed := 0
	for _, result := range results {
		if !result.Changed {
			continue
		}
		changed++
		if dryRun {
			fmt.Fprintf(out, "Would convert %s\n", result.Path)
		} else {
			fmt.Fprintf(out, "Converted %s\n", result.Path)
		}
	}

	if dryRun {
		fmt.Fprintf(out, "%d of %d file(s) would change.\n", changed, len(results))
	} else {
		fmt.Fprintf(out, "%d of %d file(s) changed.\n", changed, len(results))
	}
	return nil
}
