// Package pkgdump exports package-manager inventories (Homebrew, pip) as
// CSV or YAML. The manager CLI is only asked for its installed-package
// listing; everything else is parsing and formatting, so the invocation is
// behind an interface and tests run on canned JSON.
package pkgdump

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"

	"gopkg.in/yaml.v3"
)

// Package is one installed package in an inventory.
type Package struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Desc    string `yaml:"desc,omitempty"`
}

// Manager identifies a supported package manager.
type Manager string

const (
	Brew Manager = "brew"
	Pip  Manager = "pip"
)

// Format identifies a supported output format.
type Format string

const (
	CSV  Format = "csv"
	YAML Format = "yaml"
)

// Runner produces the raw JSON listing of installed packages.
type Runner interface {
	List(ctx context.Context) ([]byte, error)
}

// ExecRunner shells out to the real package manager.
type ExecRunner struct {
	Manager Manager
}

// List invokes the manager's JSON listing command.
func (r ExecRunner) List(ctx context.Context) ([]byte, error) {
	var cmd *exec.Cmd
	switch r.Manager {
	case Brew:
		cmd = exec.CommandContext(ctx, "brew", "info", "--json", "--installed")
	case Pip:
		cmd = exec.CommandContext(ctx, "pip", "list", "--format", "json")
	default:
		return nil, fmt.Errorf("unsupported package manager: %s", r.Manager)
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running %s listing: %w", r.Manager, err)
	}
	return out, nil
}

// Dumper builds filtered inventories for one package manager.
type Dumper struct {
	manager Manager
	runner  Runner
	skip    map[string]bool
}

// NewDumper creates a Dumper. A nil runner means the real manager CLI.
// Names in skip are omitted from the inventory; the list comes from
// configuration, not from constants baked into this package.
func NewDumper(manager Manager, runner Runner, skip []string) (*Dumper, error) {
	switch manager {
	case Brew, Pip:
	default:
		return nil, fmt.Errorf("unsupported package manager: %s", manager)
	}
	if runner == nil {
		runner = ExecRunner{Manager: manager}
	}
	skipMap := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipMap[name] = true
	}
	return &Dumper{manager: manager, runner: runner, skip: skipMap}, nil
}

// Inventory runs the listing and returns the parsed packages in the
// manager's own order, minus skipped names.
func (d *Dumper) Inventory(ctx context.Context) ([]Package, error) {
	data, err := d.runner.List(ctx)
	if err != nil {
		return nil, err
	}

	var pkgs []Package
	switch d.manager {
	case Brew:
		pkgs, err = parseBrew(data)
	case Pip:
		pkgs, err = parsePip(data)
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if d.skip[pkg.Name] {
			continue
		}
		filtered = append(filtered, pkg)
	}
	return filtered, nil
}

// parseBrew decodes `brew info --json --installed` output.
func parseBrew(data []byte) ([]Package, error) {
	var raw []struct {
		Name     string `json:"name"`
		Desc     string `json:"desc"`
		Versions struct {
			Stable string `json:"stable"`
		} `json:"versions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing brew output: %w", err)
	}

	pkgs := make([]Package, 0, len(raw))
	for _, entry := range raw {
		pkgs = append(pkgs, Package{
			Name:    entry.Name,
			Version: entry.Versions.Stable,
			Desc:    entry.Desc,
		})
	}
	return pkgs, nil
}

// parsePip decodes `pip list --format json` output.
func parsePip(data []byte) ([]Package, error) {
	var raw []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing pip output: %w", err)
	}

	pkgs := make([]Package, 0, len(raw))
	for _, entry := range raw {
		pkgs = append(pkgs, Package{Name: entry.Name, Version: entry.Version})
	}
	return pkgs, nil
}

// WriteCSV writes the inventory as CSV with a name,version,desc header.
func WriteCSV(w io.Writer, pkgs []Package) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "version", "desc"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, pkg := range pkgs {
		if err := writer.Write([]string{pkg.Name, pkg.Version, pkg.Desc}); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", pkg.Name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteYAML writes the inventory as a YAML sequence.
func WriteYAML(w io.Writer, pkgs []Package) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(pkgs); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return nil
}
