// Package config loads treekeep configuration from a YAML file.
//
// Pattern and skip lists that the individual tools consume (clean patterns,
// pkgdump skip list, case converter extensions) live here as externally
// supplied configuration rather than as constants inside the tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CleanConfig configures the clean subcommand.
type CleanConfig struct {
	// DefaultPatterns are the suffixes cleaned when none are given on the
	// command line.
	DefaultPatterns []string `yaml:"default_patterns"`
}

// PkgDumpConfig configures the pkgdump subcommand.
type PkgDumpConfig struct {
	// Skip lists package names omitted from inventory exports.
	Skip []string `yaml:"skip"`
}

// CaseConfig configures the case subcommand.
type CaseConfig struct {
	// Extensions are the file extensions processed when none are given.
	Extensions []string `yaml:"extensions"`
}

// ReposConfig configures the repos subcommand.
type ReposConfig struct {
	// SrcDir is the directory scanned for git repositories.
	SrcDir string `yaml:"src_dir"`
	// DBPath is the location of the repository database.
	DBPath string `yaml:"db_path"`
}

// Config holds all treekeep configuration options.
type Config struct {
	// LogLevel sets logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	Clean   CleanConfig   `yaml:"clean"`
	PkgDump PkgDumpConfig `yaml:"pkgdump"`
	Case    CaseConfig    `yaml:"case"`
	Repos   ReposConfig   `yaml:"repos"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		LogLevel: "info",
		Clean: CleanConfig{
			DefaultPatterns: []string{".pyc", ".DS_Store", "__pycache__"},
		},
		PkgDump: PkgDumpConfig{
			Skip: nil,
		},
		Case: CaseConfig{
			Extensions: []string{".c", ".h", ".go", ".py", ".md", ".js", ".ts", ".java", ".cpp", ".hpp"},
		},
		Repos: ReposConfig{
			SrcDir: filepath.Join(home, "src"),
			DBPath: filepath.Join(home, ".treekeep", "repos.db"),
		},
	}
}

// DefaultPath returns the default config file location, ~/.treekeep.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".treekeep.yaml"
	}
	return filepath.Join(home, ".treekeep.yaml")
}

// Load reads configuration from path, merging file values over defaults.
// A missing file is not an error and yields the defaults; a malformed file
// is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply non-zero values from the file over the defaults.
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.Clean.DefaultPatterns != nil {
		cfg.Clean.DefaultPatterns = fileCfg.Clean.DefaultPatterns
	}
	if fileCfg.PkgDump.Skip != nil {
		cfg.PkgDump.Skip = fileCfg.PkgDump.Skip
	}
	if fileCfg.Case.Extensions != nil {
		cfg.Case.Extensions = fileCfg.Case.Extensions
	}
	if fileCfg.Repos.SrcDir != "" {
		cfg.Repos.SrcDir = expandHome(fileCfg.Repos.SrcDir)
	}
	if fileCfg.Repos.DBPath != "" {
		cfg.Repos.DBPath = expandHome(fileCfg.Repos.DBPath)
	}

	return cfg, nil
}

// expandHome replaces a leading "~/" with the user home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
