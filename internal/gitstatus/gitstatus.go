// Package gitstatus reports uncommitted changes across many project
// folders. It shells out to git for the actual status and parses the
// porcelain output into staged, modified and untracked buckets.
package gitstatus

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// statusTimeout bounds a single git invocation.
const statusTimeout = 30 * time.Second

// maxConcurrentChecks bounds how many git processes run at once.
const maxConcurrentChecks = 8

// RepoStatus holds the parsed status of one repository.
type RepoStatus struct {
	Path      string
	Staged    []string
	Modified  []string
	Untracked []string
}

// HasChanges reports whether any bucket is non-empty.
func (s *RepoStatus) HasChanges() bool {
	return len(s.Staged) > 0 || len(s.Modified) > 0 || len(s.Untracked) > 0
}

// Runner abstracts the git invocation so tests can substitute canned
// porcelain output.
type Runner interface {
	Status(ctx context.Context, dir string) (string, error)
}

// ExecRunner runs the real git binary.
type ExecRunner struct{}

// Status runs `git status --porcelain` in dir.
func (ExecRunner) Status(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git status in %s: %w", dir, err)
	}
	return string(out), nil
}

// Checker checks repositories for uncommitted changes.
type Checker struct {
	runner Runner
}

// NewChecker creates a Checker using the given runner. A nil runner means
// the real git binary.
func NewChecker(runner Runner) *Checker {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Checker{runner: runner}
}

// IsGitRepo reports whether path contains a .git entry.
func IsGitRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// Check runs git status for a single repository and parses the result.
func (c *Checker) Check(ctx context.Context, repoPath string) (*RepoStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	out, err := c.runner.Status(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	return parsePorcelain(repoPath, out), nil
}

// CheckAll checks every git repository directly under root, in sorted
// directory order. Checks run concurrently but the returned slice contains
// only repositories with changes, ordered by directory name regardless of
// completion order. Repositories that fail or time out are reported in the
// warnings slice and skipped.
func (c *Checker) CheckAll(ctx context.Context, root string) ([]RepoStatus, []error, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name())
		if IsGitRepo(path) {
			repos = append(repos, path)
		}
	}
	sort.Strings(repos)

	statuses := make([]*RepoStatus, len(repos))
	errs := make([]error, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			status, err := c.Check(gctx, repo)
			if err != nil {
				errs[i] = err
				return nil // per-repo failures are warnings, not fatal
			}
			statuses[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var dirty []RepoStatus
	var warnings []error
	for i := range repos {
		if errs[i] != nil {
			warnings = append(warnings, errs[i])
			continue
		}
		if statuses[i].HasChanges() {
			dirty = append(dirty, *statuses[i])
		}
	}
	return dirty, warnings, nil
}

// parsePorcelain splits `git status --porcelain` output into buckets.
// Each line is "XY name" where X is the index status and Y the worktree
// status.
func parsePorcelain(repoPath, out string) *RepoStatus {
	status := &RepoStatus{Path: repoPath}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		index := line[0]
		worktree := line[1]
		name := line[3:]

		if strings.ContainsRune("MADRC", rune(index)) {
			status.Staged = append(status.Staged, name)
		}
		if worktree == 'M' {
			status.Modified = append(status.Modified, name)
		}
		if index == '?' && worktree == '?' {
			status.Untracked = append(status.Untracked, name)
		}
	}
	return status
}
