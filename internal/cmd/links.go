package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/display"
	"github.com/harrison/treekeep/internal/filelock"
	"github.com/harrison/treekeep/internal/links"
)

// NewLinksCommand creates the links command
func NewLinksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <dir>",
		Short: "Build a markdown index of bookmarks in a directory tree",
		Long: `Collect bookmarks from .webloc files, .url files, and links inside
markdown notes under the given directory, and render them as a single
markdown index with one section per subdirectory.

Files that cannot be parsed are reported as warnings and skipped.

Examples:
  treekeep links ~/Bookmarks
  treekeep links -t "Reading list" -o index.md ~/Bookmarks`,
		Args: cobra.ExactArgs(1),
		RunE: linksCommand,
	}

	cmd.Flags().StringP("title", "t", "Links", "Title of the generated index")
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	return cmd
}

// linksCommand implements the links command logic
func linksCommand(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	output, _ := cmd.Flags().GetString("output")

	harvester := links.NewHarvester(afero.NewOsFs())
	sections, warnings, err := harvester.Harvest(args[0])
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		display.Warnf(cmd.ErrOrStderr(), "%v", warning)
	}

	doc := links.Render(title, sections)
	total := 0
	for _, section := range sections {
		total += len(section.Links)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(doc)
		return err
	}
	if err := filelock.AtomicWrite(output, doc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d link(s) to %s\n", total, output)
	return nil
}
