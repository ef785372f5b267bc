package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// ScanOptions configures ScanDirectory.
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g. ".go", ".md").
	// Empty means all extensions. Matching is case-insensitive and a
	// leading dot is added when missing.
	Extensions []string
	// Glob is a doublestar pattern matched against the basename and the
	// root-relative path. Empty means all files.
	Glob string
	// Recursive enables descending into subdirectories.
	Recursive bool
	// ExcludeDirs is a list of directory names to skip (e.g. "node_modules").
	// Hidden directories are always skipped.
	ExcludeDirs []string
}

// ScanResult contains the results of a directory scan.
type ScanResult struct {
	// Files contains the paths of all matched files, sorted.
	Files []string
	// Errors contains non-fatal errors encountered while scanning.
	Errors []error
}

// CollectTree returns every regular file under root in lexicographic path
// order. Unreadable subtrees are skipped.
func CollectTree(fs afero.Fs, root string) ([]string, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var files []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// FilterFiles narrows paths down to those that exist and are regular files,
// preserving the caller-given order.
func FilterFiles(fs afero.Fs, paths []string) []string {
	var files []string
	for _, path := range paths {
		info, err := fs.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	return files
}

// ScanDirectory scans dir for files matching the provided options.
func ScanDirectory(fs afero.Fs, dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	if opts.Glob != "" && !doublestar.ValidatePattern(opts.Glob) {
		return nil, fmt.Errorf("invalid glob pattern: %s", opts.Glob)
	}

	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	excludeMap := make(map[string]bool)
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	result := &ScanResult{}
	err = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("accessing %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		if info.IsDir() {
			if excludeMap[info.Name()] || strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if len(extMap) > 0 && !extMap[strings.ToLower(filepath.Ext(info.Name()))] {
			return nil
		}

		if opts.Glob != "" && !matchesGlob(opts.Glob, dir, path, info.Name()) {
			return nil
		}

		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(result.Files)
	return result, nil
}

// matchesGlob tests the pattern against the basename first, then against the
// path relative to the scan root.
func matchesGlob(pattern, root, path, base string) bool {
	if ok, _ := doublestar.Match(pattern, base); ok {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel))
	return ok
}
