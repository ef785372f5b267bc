package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for treekeep
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treekeep",
		Short: "Housekeeping tools for source trees",
		Long: `Treekeep bundles the small recurring chores of maintaining source
trees: recursive search and replace, identifier case conversion, build
artifact cleanup, git repository tracking and status reporting, package
inventory export, and bookmark indexing.

Configuration is loaded from ~/.treekeep.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.treekeep.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log verbosity: trace, debug, info, warn, error")

	// Add subcommands
	cmd.AddCommand(NewSedCommand())
	cmd.AddCommand(NewCaseCommand())
	cmd.AddCommand(NewCleanCommand())
	cmd.AddCommand(NewReposCommand())
	cmd.AddCommand(NewGitStatusCommand())
	cmd.AddCommand(NewPkgDumpCommand())
	cmd.AddCommand(NewLinksCommand())

	return cmd
}

// loadConfig resolves configuration for a command run, honoring the
// persistent --config and --log-level flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}
