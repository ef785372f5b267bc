package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/treekeep/internal/filelock"
	"github.com/harrison/treekeep/internal/pkgdump"
)

// NewPkgDumpCommand creates the pkgdump command
func NewPkgDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkgdump",
		Short: "Export the installed-package inventory of a package manager",
		Long: `Query Homebrew or pip for the installed packages and write the
inventory as CSV or YAML, to stdout or to a file. Package names in the
configured skip list are omitted.

Examples:
  treekeep pkgdump --manager brew --format csv -o brew.csv
  treekeep pkgdump --manager pip --format yaml`,
		RunE: pkgDumpCommand,
	}

	cmd.Flags().String("manager", "brew", "Package manager to query: brew or pip")
	cmd.Flags().String("format", "csv", "Output format: csv or yaml")
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	return cmd
}

// pkgDumpCommand implements the pkgdump command logic
func pkgDumpCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	manager, _ := cmd.Flags().GetString("manager")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	switch pkgdump.Format(format) {
	case pkgdump.CSV, pkgdump.YAML:
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	dumper, err := pkgdump.NewDumper(pkgdump.Manager(manager), nil, cfg.PkgDump.Skip)
	if err != nil {
		return err
	}

	pkgs, err := dumper.Inventory(cmd.Context())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if pkgdump.Format(format) == pkgdump.CSV {
		err = pkgdump.WriteCSV(&buf, pkgs)
	} else {
		err = pkgdump.WriteYAML(&buf, pkgs)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := filelock.AtomicWrite(output, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d package(s) to %s\n", len(pkgs), output)
	return nil
}
