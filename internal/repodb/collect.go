package repodb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/treekeep/internal/filelock"
)

// RemoteRunner abstracts the git remote lookup so tests can substitute
// canned URLs.
type RemoteRunner interface {
	OriginURL(ctx context.Context, dir string) (string, error)
}

// ExecRemoteRunner queries the real git binary.
type ExecRemoteRunner struct{}

// OriginURL returns the configured remote.origin.url of the repository at
// dir. An empty string with nil error means no remote is configured.
func (ExecRemoteRunner) OriginURL(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", dir, "config", "--get", "remote.origin.url")
	out, err := cmd.Output()
	if err != nil {
		// git exits 1 when the key is unset; treat that as "no remote".
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git config in %s: %w", dir, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CollectResult reports the outcome of a collection run.
type CollectResult struct {
	// Stored are the project names newly added to the database.
	Stored []string
	// Skipped are the project names that were already present.
	Skipped []string
	// Warnings are per-repository lookup failures; they do not abort the run.
	Warnings []error
}

// Collect scans the immediate subdirectories of srcDir for git checkouts,
// looks up each remote origin URL, and stores new entries in the database.
// Writers across processes are serialized with an advisory lock next to the
// database file.
func Collect(ctx context.Context, store *Store, runner RemoteRunner, srcDir string) (*CollectResult, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", srcDir, err)
	}

	urls := make(map[string]string) // project name -> url
	result := &CollectResult{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(srcDir, entry.Name())
		if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
			continue
		}

		url, err := runner.OriginURL(ctx, path)
		if err != nil {
			result.Warnings = append(result.Warnings, err)
			continue
		}
		if url == "" {
			continue
		}
		urls[projectName(url)] = url
	}

	if store.dbPath != ":memory:" {
		lock := filelock.New(store.dbPath + ".lock")
		if err := lock.Lock(); err != nil {
			return nil, err
		}
		defer lock.Unlock()
	}

	names := make([]string, 0, len(urls))
	for name := range urls {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		added, err := store.Add(name, urls[name])
		if err != nil {
			return nil, err
		}
		if added {
			result.Stored = append(result.Stored, name)
		} else {
			result.Skipped = append(result.Skipped, name)
		}
	}
	return result, nil
}

// projectName derives the project name from a repository URL: the last
// path component with a trailing .git suffix removed.
func projectName(url string) string {
	name := strings.TrimRight(url, "/")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
