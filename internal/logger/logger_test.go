package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset() {
	Init(false, "text")
	SetOutput(os.Stderr)
}

func TestInfoCarriesLoggerName(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(false, "text")
	SetOutput(&buf)

	Info("Finding closest conference")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "logger="+Name)
	assert.Contains(t, out, `msg="Finding closest conference"`)
	assert.Contains(t, out, "time=")
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(false, "text")
	SetOutput(&buf)

	Debug("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(true, "text")
	SetOutput(&buf)

	Debug("window computed", "from", "09:52")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.True(t, IsVerbose())
}

func TestJSONFormat(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	Init(false, "json")
	SetOutput(&buf)

	Warn("retrying", "attempt", 2)

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, Name, record["logger"])
	assert.Equal(t, "retrying", record["msg"])
	assert.EqualValues(t, 2, record["attempt"])
}
