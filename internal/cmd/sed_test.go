package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSedSearch(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "foo\nbar\nFOO baz\n")

	stdout, _, err := executeCommand(t, "sed", "foo", "--files", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "search_pattern: foo")
	assert.Contains(t, stdout, "** Search mode")
	assert.Contains(t, stdout, fmt.Sprintf("%s: 2 matches on lines: 1 3", path))
}

func TestSedSearchCaseSensitive(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "foo\nFOO\n")

	stdout, _, err := executeCommand(t, "sed", "-c", "FOO", "--files", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, fmt.Sprintf("%s: 1 matches on lines: 2", path))
}

func TestSedReplaceWritesBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "old name\nkeep\nold again\n")

	stdout, _, err := executeCommand(t, "sed", "old", "new", "--files", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "** EDIT mode")
	// The match report comes first, then the replacement summary.
	assert.Contains(t, stdout, fmt.Sprintf("%s: 2 matches on lines: 1 3", path))
	assert.Contains(t, stdout, fmt.Sprintf("Replaced old -> new on 2 lines in %s", path))
	assert.Less(t,
		strings.Index(stdout, "matches on lines"),
		strings.Index(stdout, "Replaced"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new name\nkeep\nnew again\n", string(content))

	backup := fmt.Sprintf("%s.%d", path, os.Getpid())
	original, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "old name\nkeep\nold again\n", string(original))
}

func TestSedReplaceNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "old\n")

	_, _, err := executeCommand(t, "sed", "old", "new", "--no-backup", "--files", path)
	require.NoError(t, err)

	backup := fmt.Sprintf("%s.%d", path, os.Getpid())
	_, statErr := os.Stat(backup)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSedTree(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "needle\n")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))
	writeTestFile(t, sub, "b.txt", "no match\nneedle here\n")

	stdout, _, err := executeCommand(t, "sed", "needle", "--tree", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "a.txt: 1 matches on lines: 1")
	assert.Contains(t, stdout, "b.txt: 1 matches on lines: 2")
}

func TestSedQuietSuppressesHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "foo\n")

	stdout, _, err := executeCommand(t, "sed", "-q", "foo", "--files", path)
	require.NoError(t, err)

	assert.NotContains(t, stdout, "search_pattern")
	assert.NotContains(t, stdout, "** Search mode")
	assert.Contains(t, stdout, "1 matches on lines: 1")
}

func TestSedNoInputFiles(t *testing.T) {
	_, _, err := executeCommand(t, "sed", "foo", "--files", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestSedTreeAndFilesExclusive(t *testing.T) {
	_, _, err := executeCommand(t, "sed", "foo", "--tree", ".", "--files", "a.txt")
	assert.Error(t, err)
}

func TestSedRequiresTreeOrFiles(t *testing.T) {
	_, _, err := executeCommand(t, "sed", "foo")
	assert.Error(t, err)
}

func TestSedRegexGroupReferences(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "Width=10 Height=20\n")

	_, _, err := executeCommand(t, "sed", "-x",
		`Width=(\d+) Height=(\d+)`, "Height=$2 Width=$1", "--files", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Height=20 Width=10\n", string(content))
}

func TestSedInvalidRegex(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "x\n")

	_, _, err := executeCommand(t, "sed", "-x", "(unclosed", "--files", path)
	assert.Error(t, err)
}
