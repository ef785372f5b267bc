// Package caseconv converts identifier case formats inside source files.
//
// Supported formats: camelCase, PascalCase, snake_case,
// SCREAMING_SNAKE_CASE, kebab-case and SCREAMING-KEBAB-CASE. A conversion
// recognizes every identifier written in the source format and rewrites it
// in the target format, optionally filtered by a word regex and decorated
// with a prefix or suffix.
package caseconv

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/harrison/treekeep/internal/fileutil"
)

// Format identifies a supported case format.
type Format string

const (
	CamelCase          Format = "camelCase"
	PascalCase         Format = "PascalCase"
	SnakeCase          Format = "snake_case"
	ScreamingSnakeCase Format = "SCREAMING_SNAKE_CASE"
	KebabCase          Format = "kebab-case"
	ScreamingKebabCase Format = "SCREAMING-KEBAB-CASE"
)

// Recognition patterns per format. Identifiers must have at least two words
// to be recognized, so plain lowercase words are never rewritten.
var formatPatterns = map[Format]*regexp.Regexp{
	CamelCase:          regexp.MustCompile(`\b[a-z]+(?:[A-Z][a-z0-9]*)+\b`),
	PascalCase:         regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]*)+\b`),
	SnakeCase:          regexp.MustCompile(`\b[a-z]+(?:_[a-z0-9]+)+\b`),
	ScreamingSnakeCase: regexp.MustCompile(`\b[A-Z]+(?:_[A-Z0-9]+)+\b`),
	KebabCase:          regexp.MustCompile(`\b[a-z]+(?:-[a-z0-9]+)+\b`),
	ScreamingKebabCase: regexp.MustCompile(`\b[A-Z]+(?:-[A-Z0-9]+)+\b`),
}

// ParseFormat resolves a CLI format name (e.g. "camel", "screaming-snake")
// or a canonical format string to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "camel", "camelcase":
		return CamelCase, nil
	case "pascal", "pascalcase":
		return PascalCase, nil
	case "snake", "snake_case":
		return SnakeCase, nil
	case "screaming-snake", "screaming_snake", "screaming_snake_case":
		return ScreamingSnakeCase, nil
	case "kebab", "kebab-case":
		return KebabCase, nil
	case "screaming-kebab", "screaming-kebab-case":
		return ScreamingKebabCase, nil
	}
	return "", fmt.Errorf("unsupported case format: %s", name)
}

// Options configures a Converter.
type Options struct {
	From Format
	To   Format
	// Extensions limits processing to files with these extensions.
	Extensions []string
	// Recursive descends into subdirectories when the target is a directory.
	Recursive bool
	// DryRun reports files that would change without writing them.
	DryRun bool
	// Prefix and Suffix are added around every converted identifier.
	Prefix string
	Suffix string
	// Glob filters files by basename or relative path when set.
	Glob string
	// WordFilter is a regex; only identifiers matching it (anchored at the
	// start) are converted.
	WordFilter string
}

// FileResult reports the outcome for a single processed file.
type FileResult struct {
	Path    string
	Changed bool
}

// Converter rewrites identifiers from one case format to another.
type Converter struct {
	fs         afero.Fs
	opts       Options
	source     *regexp.Regexp
	wordFilter *regexp.Regexp
}

// New creates a Converter. Unsupported formats and invalid word filters are
// rejected here, before any file is touched.
func New(fs afero.Fs, opts Options) (*Converter, error) {
	source, ok := formatPatterns[opts.From]
	if !ok {
		return nil, fmt.Errorf("unsupported source format: %s", opts.From)
	}
	if _, ok := formatPatterns[opts.To]; !ok {
		return nil, fmt.Errorf("unsupported target format: %s", opts.To)
	}
	if opts.Glob != "" && !doublestar.ValidatePattern(opts.Glob) {
		return nil, fmt.Errorf("invalid glob pattern: %s", opts.Glob)
	}

	var wordFilter *regexp.Regexp
	if opts.WordFilter != "" {
		// Anchored at the start, matching the original filter semantics.
		re, err := regexp.Compile(`^(?:` + opts.WordFilter + `)`)
		if err != nil {
			return nil, fmt.Errorf("compiling word filter: %w", err)
		}
		wordFilter = re
	}

	return &Converter{fs: fs, opts: opts, source: source, wordFilter: wordFilter}, nil
}

// ConvertWord converts a single identifier to the target format. Identifiers
// rejected by the word filter are returned unchanged.
func (c *Converter) ConvertWord(word string) string {
	if c.wordFilter != nil && !c.wordFilter.MatchString(word) {
		return word
	}
	joined := joinWords(splitWords(word, c.opts.From), c.opts.To)
	return c.opts.Prefix + joined + c.opts.Suffix
}

// ProcessFile converts all matching identifiers in a single file. The file
// is rewritten only when the content actually changed and DryRun is off.
func (c *Converter) ProcessFile(path string) (*FileResult, error) {
	content, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	modified := c.source.ReplaceAllStringFunc(string(content), c.ConvertWord)
	if modified == string(content) {
		return &FileResult{Path: path, Changed: false}, nil
	}

	if !c.opts.DryRun {
		if err := afero.WriteFile(c.fs, path, []byte(modified), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return &FileResult{Path: path, Changed: true}, nil
}

// ProcessPath converts a single file or every selected file under a
// directory, returning per-file results in scan order.
func (c *Converter) ProcessPath(path string) ([]FileResult, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !c.selectable(path) {
			return nil, nil
		}
		result, err := c.ProcessFile(path)
		if err != nil {
			return nil, err
		}
		return []FileResult{*result}, nil
	}

	scan, err := fileutil.ScanDirectory(c.fs, path, fileutil.ScanOptions{
		Extensions: c.opts.Extensions,
		Glob:       c.opts.Glob,
		Recursive:  c.opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	var results []FileResult
	for _, file := range scan.Files {
		result, err := c.ProcessFile(file)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// selectable applies the extension and glob filters to an explicitly given
// file path.
func (c *Converter) selectable(path string) bool {
	if len(c.opts.Extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		found := false
		for _, e := range c.opts.Extensions {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			if strings.EqualFold(e, ext) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.opts.Glob != "" {
		if ok, _ := doublestar.Match(c.opts.Glob, filepath.Base(path)); !ok {
			return false
		}
	}
	return true
}

// splitWords breaks an identifier into lowercase words according to its
// source convention.
func splitWords(text string, from Format) []string {
	switch from {
	case CamelCase, PascalCase:
		var words []string
		var current strings.Builder
		for _, r := range text {
			if unicode.IsUpper(r) && current.Len() > 0 {
				words = append(words, strings.ToLower(current.String()))
				current.Reset()
			}
			current.WriteRune(r)
		}
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
		}
		return words
	case SnakeCase, ScreamingSnakeCase:
		return splitOn(text, "_")
	case KebabCase, ScreamingKebabCase:
		return splitOn(text, "-")
	}
	return []string{strings.ToLower(text)}
}

func splitOn(text, sep string) []string {
	var words []string
	for _, w := range strings.Split(text, sep) {
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// joinWords assembles lowercase words into the target convention.
func joinWords(words []string, to Format) string {
	if len(words) == 0 {
		return ""
	}
	switch to {
	case CamelCase:
		var b strings.Builder
		b.WriteString(words[0])
		for _, w := range words[1:] {
			b.WriteString(capitalize(w))
		}
		return b.String()
	case PascalCase:
		var b strings.Builder
		for _, w := range words {
			b.WriteString(capitalize(w))
		}
		return b.String()
	case SnakeCase:
		return strings.Join(words, "_")
	case ScreamingSnakeCase:
		return strings.ToUpper(strings.Join(words, "_"))
	case KebabCase:
		return strings.Join(words, "-")
	case ScreamingKebabCase:
		return strings.ToUpper(strings.Join(words, "-"))
	}
	return strings.Join(words, "")
}

// capitalize uppercases the first rune of a lowercase word.
func capitalize(word string) string {
	if word == "" {
		return ""
	}
	r := []rune(word)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
