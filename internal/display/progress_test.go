package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDotProgressSteps(t *testing.T) {
	var buf bytes.Buffer
	p := NewDotProgress(&buf, true)

	for i := 0; i < 3; i++ {
		p.Step()
	}
	assert.Equal(t, "...", buf.String())

	p.Flush()
	assert.Equal(t, "...\n", buf.String())
}

func TestDotProgressWrapsAtFifty(t *testing.T) {
	var buf bytes.Buffer
	p := NewDotProgress(&buf, true)

	for i := 0; i < 120; i++ {
		p.Step()
	}
	p.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		strings.Repeat(".", 50),
		strings.Repeat(".", 50),
		strings.Repeat(".", 20),
	}, lines)
}

func TestDotProgressFlushOnRowBoundary(t *testing.T) {
	var buf bytes.Buffer
	p := NewDotProgress(&buf, true)

	for i := 0; i < 50; i++ {
		p.Step()
	}
	// Row already terminated by the wrap; Flush must not add a blank line.
	p.Flush()
	assert.Equal(t, strings.Repeat(".", 50)+"\n", buf.String())
}

func TestDotProgressDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewDotProgress(&buf, false)

	p.Step()
	p.Flush()
	assert.Empty(t, buf.String())
}

func TestIsTerminalNonFile(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
