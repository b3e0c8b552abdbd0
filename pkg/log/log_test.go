package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	SetLogWriter(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetLogWriter(os.Stderr)
	})
	return &buf
}

func TestLogJoinsOperandsWithSpaces(t *testing.T) {
	buf := captureLogs(t)

	Log("> Start sse server on port", 3000)

	assert.Equal(t, "> Start sse server on port 3000\n", buf.String())
}

func TestLogfAddsSingleNewline(t *testing.T) {
	buf := captureLogs(t)

	Logf("- Tool %s called\n", "calculate")
	Logf("- Tool %s called", "get_users")

	assert.Equal(t, "- Tool calculate called\n- Tool get_users called\n", buf.String())
}

func TestDebugfOnlyInVerboseMode(t *testing.T) {
	buf := captureLogs(t)

	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debugf("shown %d", 2)
	assert.Equal(t, "shown 2\n", buf.String())
}

func TestSetLogWriterIgnoresNil(t *testing.T) {
	buf := captureLogs(t)

	SetLogWriter(nil)
	Log("still here")

	assert.Equal(t, "still here\n", buf.String())
}
