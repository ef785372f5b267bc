// Package treesed implements recursive search and replace across file trees.
//
// The engine compiles a pattern once per invocation (literal or regex,
// case-sensitive or not) and applies it to a caller-supplied list of files,
// reporting match locations per file and optionally rewriting matches in
// place with a backup of the pre-edit content.
//
// Counts are line-granular: a line containing three occurrences of the
// pattern still counts once, for both search and replace.
package treesed

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Options configures pattern compilation for an Engine.
type Options struct {
	// CaseSensitive enables case-sensitive matching. Default is
	// case-insensitive, matching the original treesed behavior.
	CaseSensitive bool

	// UseRegex treats patterns as regular expressions. Default is literal:
	// every regex metacharacter in the pattern is escaped so the pattern
	// matches only itself.
	UseRegex bool
}

// FileMatches is the result of searching a single file.
// Count is the number of lines containing at least one match, and
// LineNumbers holds the 1-based indices of those lines in ascending order.
type FileMatches struct {
	Path        string
	Count       int
	LineNumbers []int
}

// FileReplacement is the result of replacing a pattern in a single file.
// Count is the number of lines changed. BackupPath is empty when no backup
// was written.
type FileReplacement struct {
	Path       string
	Count      int
	BackupPath string
}

// Engine performs search and replace over files on the given filesystem.
type Engine struct {
	fs   afero.Fs
	opts Options
}

// New creates an Engine operating on fs with the given options.
func New(fs afero.Fs, opts Options) *Engine {
	return &Engine{fs: fs, opts: opts}
}

// CompilePattern compiles a search pattern according to the engine options.
// In literal mode the pattern is quoted so metacharacters such as '.', '$'
// and '(' match themselves. An empty pattern compiles and matches every
// line; no validation rejects it.
func (e *Engine) CompilePattern(pattern string) (*regexp.Regexp, error) {
	if !e.opts.UseRegex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if !e.opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	return re, nil
}

// SearchFile searches a single file for pattern matches.
// Returns nil when the file has no matching lines or cannot be read;
// unreadable files are skipped silently.
func (e *Engine) SearchFile(pattern *regexp.Regexp, path string) *FileMatches {
	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil
	}

	var lineNumbers []int
	for i, line := range splitLines(string(content)) {
		if pattern.MatchString(line) {
			lineNumbers = append(lineNumbers, i+1)
		}
	}

	if len(lineNumbers) == 0 {
		return nil
	}

	return &FileMatches{
		Path:        path,
		Count:       len(lineNumbers),
		LineNumbers: lineNumbers,
	}
}

// Search searches multiple files for a pattern, in the order given.
// Files containing no match contribute no entry to the result.
func (e *Engine) Search(pattern string, files []string) ([]FileMatches, error) {
	compiled, err := e.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	var results []FileMatches
	for _, path := range files {
		if m := e.SearchFile(compiled, path); m != nil {
			results = append(results, *m)
		}
	}
	return results, nil
}

// ReplaceFile replaces pattern matches in a single file.
//
// The file is read in full, every line is rewritten with all non-overlapping
// matches substituted, and the result is written back only when at least one
// line changed. When backup is true the original content is first written to
// a sibling file named after the original with the current process id as
// suffix (the historical treesed convention, preserved for compatibility).
//
// Returns (nil, nil) when the file cannot be read or no line matched.
// A failed write is returned as an error; if the target write fails after a
// backup was taken, the original content is restored best-effort from memory.
func (e *Engine) ReplaceFile(pattern *regexp.Regexp, replacement, path string, backup bool) (*FileReplacement, error) {
	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, nil
	}
	originalLines := splitLines(string(content))

	// In literal mode, neutralize '$' so the replacement text is inserted
	// byte-for-byte instead of being expanded as a group reference.
	repl := replacement
	if !e.opts.UseRegex {
		repl = strings.ReplaceAll(replacement, "$", "$$")
	}

	newLines := make([]string, 0, len(originalLines))
	linesChanged := 0
	for _, line := range originalLines {
		if pattern.MatchString(line) {
			linesChanged++
			line = pattern.ReplaceAllString(line, repl)
		}
		newLines = append(newLines, line)
	}

	if linesChanged == 0 {
		return nil, nil
	}

	backupPath := ""
	if backup {
		backupPath = fmt.Sprintf("%s.%d", path, os.Getpid())
		if err := afero.WriteFile(e.fs, backupPath, content, 0644); err != nil {
			return nil, fmt.Errorf("writing backup %s: %w", backupPath, err)
		}
	}

	if err := afero.WriteFile(e.fs, path, []byte(strings.Join(newLines, "")), 0644); err != nil {
		if backupPath != "" {
			// Restore from the in-memory original, not the on-disk backup.
			afero.WriteFile(e.fs, path, content, 0644)
		}
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return &FileReplacement{
		Path:       path,
		Count:      linesChanged,
		BackupPath: backupPath,
	}, nil
}

// Replace replaces a pattern in multiple files, in the order given.
// Files with no matching lines are left untouched and contribute no entry.
// Per-file write failures do not abort the run; they are joined into the
// returned error alongside the results for the files that succeeded.
func (e *Engine) Replace(pattern, replacement string, files []string, backup bool) ([]FileReplacement, error) {
	compiled, err := e.CompilePattern(pattern)
	if err != nil {
		return nil, err
	}

	var results []FileReplacement
	var errs []error
	for _, path := range files {
		result, err := e.ReplaceFile(compiled, replacement, path, backup)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if result != nil {
			results = append(results, *result)
		}
	}
	return results, errors.Join(errs...)
}

// splitLines splits content into lines, each retaining its trailing
// newline. A final fragment without a terminator is kept as its own line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	for {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			if content != "" {
				lines = append(lines, content)
			}
			return lines
		}
		lines = append(lines, content[:i+1])
		content = content[i+1:]
	}
}
