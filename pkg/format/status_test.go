package format

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorizeIf(t *testing.T) {
	assert.Equal(t, "ok", ColorizeIf("ok", Green, false))
	assert.Equal(t, Green+"ok"+Reset, ColorizeIf("ok", Green, true))
	assert.Equal(t, Bold+"x"+Reset, BoldIf("x", true))
	assert.Equal(t, "x", DimIf("x", false))
}

func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Success("Opened successfully")
	p.Failure("unsupported url")
	p.Field("Path", "/repos/foo", 8)
	p.Hint("try again")

	assert.Equal(t, "✓ Opened successfully\n"+
		"✗ unsupported url\n"+
		"Path:    /repos/foo\n"+
		"try again\n", buf.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer devNull.Close()
	assert.False(t, IsTerminal(devNull), "a non-tty character device is not a terminal")

	p := NewPrinter(devNull)
	assert.False(t, p.useColors)
}
