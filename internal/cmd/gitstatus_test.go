package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/harrison/treekeep/internal/gitstatus"
)

func TestRenderStatusesAllClean(t *testing.T) {
	var buf bytes.Buffer
	renderStatuses(&buf, nil, false)
	assert.Equal(t, "All repositories are clean.\n", buf.String())
}

func TestRenderStatuses(t *testing.T) {
	color.NoColor = true

	results := []gitstatus.RepoStatus{
		{
			Path:      "/src/alpha",
			Staged:    []string{"a.go"},
			Modified:  []string{"b.go", "c.go"},
			Untracked: []string{"notes.txt"},
		},
		{
			Path:   "/src/beta",
			Staged: []string{"x.go"},
		},
	}

	var buf bytes.Buffer
	renderStatuses(&buf, results, false)
	out := buf.String()

	assert.Contains(t, out, "alpha\n")
	assert.Contains(t, out, "  Staged (1):\n    a.go\n")
	assert.Contains(t, out, "  Modified (2):\n    b.go\n    c.go\n")
	assert.Contains(t, out, "  Untracked (1):\n    notes.txt\n")
	assert.Contains(t, out, "beta\n")
}

func TestRenderStatusesQuiet(t *testing.T) {
	results := []gitstatus.RepoStatus{
		{Path: "/src/alpha", Modified: []string{"a.go"}},
		{Path: "/src/beta", Untracked: []string{"b.go"}},
	}

	var buf bytes.Buffer
	renderStatuses(&buf, results, true)
	assert.Equal(t, "alpha\nbeta\n", buf.String())
}

func TestRenderBucketCapsEntries(t *testing.T) {
	files := []string{"1", "2", "3", "4", "5", "6", "7"}

	var buf bytes.Buffer
	renderBucket(&buf, "Modified", files)
	out := buf.String()

	assert.Contains(t, out, "  Modified (7):\n")
	assert.Contains(t, out, "    5\n")
	assert.NotContains(t, out, "    6\n")
	assert.Contains(t, out, "    ... and 2 more\n")
}

func TestRenderBucketEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderBucket(&buf, "Staged", nil)
	assert.Empty(t, buf.String())
}

func TestGitStatusMissingDirectory(t *testing.T) {
	_, _, err := executeCommand(t, "gitstatus", "/does/not/exist")
	assert.Error(t, err)
}
