// Package links harvests bookmarks from a directory tree and renders them
// as a single markdown index. Three sources are understood: macOS .webloc
// files (binary or XML property lists), Windows-style .url files, and
// inline links inside markdown notes.
package links

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"howett.net/plist"
)

// Link is a single named bookmark.
type Link struct {
	Name string
	URL  string
}

// Section groups the links found in one directory. Title is the path of
// the directory relative to the harvest root; the root itself has an empty
// Title.
type Section struct {
	Title string
	Links []Link
}

// Harvester scans a tree for bookmark files.
type Harvester struct {
	fs afero.Fs
}

// NewHarvester creates a Harvester over the given filesystem.
func NewHarvester(fs afero.Fs) *Harvester {
	return &Harvester{fs: fs}
}

// Harvest walks root and collects links grouped by directory. Sections are
// ordered with the root first, then subdirectories lexically; links keep
// the order files were visited in. Files that cannot be parsed produce
// warnings rather than aborting the walk.
func (h *Harvester) Harvest(root string) ([]Section, []error, error) {
	byDir := make(map[string][]Link)
	var warnings []error

	err := afero.Walk(h.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		var links []Link
		var parseErr error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".webloc":
			links, parseErr = h.weblocLink(path)
		case ".url":
			links, parseErr = h.urlFileLink(path)
		case ".md":
			links, parseErr = h.markdownLinks(path)
		default:
			return nil
		}
		if parseErr != nil {
			warnings = append(warnings, parseErr)
			return nil
		}

		rel, relErr := filepath.Rel(root, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			rel = ""
		}
		byDir[rel] = append(byDir[rel], links...)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}

	titles := make([]string, 0, len(byDir))
	for title := range byDir {
		titles = append(titles, title)
	}
	sort.Strings(titles) // "" sorts first, putting the root section on top

	sections := make([]Section, 0, len(titles))
	for _, title := range titles {
		sections = append(sections, Section{Title: title, Links: byDir[title]})
	}
	return sections, warnings, nil
}

// weblocLink reads the URL key of a .webloc property list. The link name
// is the file name without its extension.
func (h *Harvester) weblocLink(path string) ([]Link, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var payload struct {
		URL string `plist:"URL"`
	}
	if err := plist.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if payload.URL == "" {
		return nil, fmt.Errorf("parsing %s: no URL key", path)
	}
	return []Link{{Name: baseName(path), URL: payload.URL}}, nil
}

// urlFileLink reads the URL= line of an internet-shortcut file.
func (h *Harvester) urlFileLink(path string) ([]Link, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if url, ok := strings.CutPrefix(line, "URL="); ok && url != "" {
			return []Link{{Name: baseName(path), URL: url}}, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return nil, fmt.Errorf("parsing %s: no URL= line", path)
}

// markdownLinks extracts every inline link and autolink from a markdown
// note. The link text becomes the name; bare autolinks use the URL itself.
func (h *Harvester) markdownLinks(path string) ([]Link, error) {
	source, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ExtractMarkdown(source), nil
}

// ExtractMarkdown parses markdown source and returns its links in document
// order.
func ExtractMarkdown(source []byte) []Link {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var links []Link
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			name := nodeText(node, source)
			if name == "" {
				name = string(node.Destination)
			}
			links = append(links, Link{Name: name, URL: string(node.Destination)})
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			url := string(node.URL(source))
			links = append(links, Link{Name: url, URL: url})
		}
		return ast.WalkContinue, nil
	})
	return links
}

// nodeText concatenates the text segments under a node.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// Render produces the markdown index document for a set of sections.
// Root-level links appear directly under the title; each subdirectory gets
// its own second-level heading.
func Render(title string, sections []Section) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", title)
	for _, section := range sections {
		if len(section.Links) == 0 {
			continue
		}
		if section.Title != "" {
			fmt.Fprintf(&buf, "\n## %s\n", section.Title)
		}
		buf.WriteString("\n")
		for _, link := range section.Links {
			fmt.Fprintf(&buf, "- [%s](%s)\n", link.Name, link.URL)
		}
	}
	return buf.Bytes()
}

// baseName returns the file name without its extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
