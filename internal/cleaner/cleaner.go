// Package cleaner recursively removes derived build artifacts and other
// detritus from a file tree, matching targets by name suffix or by glob.
// It can alternatively normalize line endings instead of deleting.
//
// The engine only finds and applies; listing targets and asking for
// confirmation is the caller's job, so a dry run is just "find and print".
package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Target is a file or directory selected for cleaning.
type Target struct {
	Path  string
	Size  int64
	IsDir bool
}

// Options configures a Cleaner.
type Options struct {
	// Patterns are the suffixes (default) or globs to match.
	Patterns []string
	// Glob switches matching from suffix to doublestar glob.
	Glob bool
	// Negated selects everything that does NOT match the patterns.
	Negated bool
}

// Cleaner finds and removes matching files and directories under a root.
type Cleaner struct {
	fs   afero.Fs
	root string
	opts Options
}

// New creates a Cleaner for the given root path.
func New(fs afero.Fs, root string, opts Options) (*Cleaner, error) {
	if opts.Glob {
		for _, p := range opts.Patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("invalid glob pattern: %s", p)
			}
		}
	}
	return &Cleaner{fs: fs, root: root, opts: opts}, nil
}

// FindTargets walks the root and returns every matching file or directory.
// A matching directory is returned as a single target; its contents are not
// listed separately since deleting the directory covers them. Sizes of
// directory targets are the sum of the regular files inside.
func (c *Cleaner) FindTargets() ([]Target, error) {
	info, err := c.fs.Stat(c.root)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", c.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", c.root)
	}

	var targets []Target
	err = afero.Walk(c.fs, c.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if path == c.root {
			return nil
		}
		if !c.matches(path, info.Name()) {
			return nil
		}

		if info.IsDir() {
			size, _ := c.dirSize(path)
			targets = append(targets, Target{Path: path, Size: size, IsDir: true})
			return filepath.SkipDir
		}
		targets = append(targets, Target{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", c.root, err)
	}
	return targets, nil
}

// TotalSize sums the sizes of the given targets.
func TotalSize(targets []Target) int64 {
	var total int64
	for _, t := range targets {
		total += t.Size
	}
	return total
}

// Delete removes a target. Read-only files get a write bit added before a
// retry, mirroring the usual rmtree error handler.
func (c *Cleaner) Delete(target Target) error {
	if target.IsDir {
		if err := c.fs.RemoveAll(target.Path); err != nil {
			return fmt.Errorf("removing %s: %w", target.Path, err)
		}
		return nil
	}
	if err := c.fs.Remove(target.Path); err != nil {
		if chmodErr := c.fs.Chmod(target.Path, 0644); chmodErr == nil {
			if retryErr := c.fs.Remove(target.Path); retryErr == nil {
				return nil
			}
		}
		return fmt.Errorf("removing %s: %w", target.Path, err)
	}
	return nil
}

// ConvertEndings rewrites a file with every line stripped of trailing
// whitespace (including CR) and terminated with a single LF.
func (c *Cleaner) ConvertEndings(target Target) error {
	if target.IsDir {
		return nil
	}
	content, err := afero.ReadFile(c.fs, target.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target.Path, err)
	}

	lines := strings.Split(string(content), "\n")
	// A trailing newline produces a final empty element; drop it so we do
	// not append an extra blank line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(strings.TrimRight(line, " \t\r"))
		b.WriteString("\n")
	}

	if err := afero.WriteFile(c.fs, target.Path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", target.Path, err)
	}
	return nil
}

// matches applies the configured pattern set to a path, honoring negation.
func (c *Cleaner) matches(path, base string) bool {
	matched := false
	for _, p := range c.opts.Patterns {
		if c.opts.Glob {
			if ok, _ := doublestar.Match(p, base); ok {
				matched = true
				break
			}
			if ok, _ := doublestar.Match(p, toSlash(path)); ok {
				matched = true
				break
			}
		} else if strings.HasSuffix(path, p) {
			matched = true
			break
		}
	}
	if c.opts.Negated {
		return !matched
	}
	return matched
}

// dirSize sums regular file sizes under dir.
func (c *Cleaner) dirSize(dir string) (int64, error) {
	var total int64
	err := afero.Walk(c.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, string(os.PathSeparator), "/")
}
