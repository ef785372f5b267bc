package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/display"
	"github.com/harrison/treekeep/internal/logger"
	"github.com/harrison/treekeep/internal/repodb"
)

// NewReposCommand creates the repos command group
func NewReposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Track the remote URLs of local git checkouts",
		Long: `Maintain a small database of git repository URLs, collected from the
remotes of local checkouts. The database makes it easy to re-clone a full
working set on another machine.

Examples:
  treekeep repos collect --src-dir ~/src
  treekeep repos list
  treekeep repos urls
  treekeep repos dump repo-urls.txt`,
	}

	cmd.PersistentFlags().String("db-path", "", "Path to the repository database (default from config)")

	cmd.AddCommand(newReposCollectCommand())
	cmd.AddCommand(newReposListCommand())
	cmd.AddCommand(newReposURLsCommand())
	cmd.AddCommand(newReposDumpCommand())

	return cmd
}

// openStore opens the repository database named by --db-path or config.
func openStore(cmd *cobra.Command) (*repodb.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, _ := cmd.Flags().GetString("db-path")
	if dbPath == "" {
		dbPath = cfg.Repos.DBPath
	}
	return repodb.NewStore(dbPath)
}

func newReposCollectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Scan a source directory and store new repository URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			srcDir, _ := cmd.Flags().GetString("src-dir")
			if srcDir == "" {
				srcDir = cfg.Repos.SrcDir
			}
			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			log.Debugf("scanning %s for git checkouts", srcDir)

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := repodb.Collect(cmd.Context(), store, repodb.ExecRemoteRunner{}, srcDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, warning := range result.Warnings {
				display.Warnf(cmd.ErrOrStderr(), "%v", warning)
			}
			for _, name := range result.Stored {
				fmt.Fprintf(out, "  + %s\n", name)
			}
			for _, name := range result.Skipped {
				fmt.Fprintf(out, "  = %s (already tracked)\n", name)
			}
			fmt.Fprintf(out, "Stored %d new, skipped %d existing.\n",
				len(result.Stored), len(result.Skipped))
			return nil
		},
	}
	cmd.Flags().String("src-dir", "", "Directory containing git checkouts (default from config)")
	return cmd
}

func newReposListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked project names",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.Projects()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				return fmt.Errorf("%w; run 'treekeep repos collect' first", repodb.ErrEmptyDatabase)
			}
			for _, name := range projects {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newReposURLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "urls",
		Short: "List tracked repository URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			urls, err := store.URLs()
			if err != nil {
				return err
			}
			for _, url := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}
			return nil
		},
	}
}

func newReposDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [file]",
		Short: "Write all tracked URLs to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			path := "repo-urls.txt"
			if len(args) == 1 {
				path = args[0]
			}
			if err := store.Dump(path); err != nil {
				return err
			}

			urls, err := store.URLs()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d URL(s) to %s\n", len(urls), path)
			return nil
		},
	}
}
