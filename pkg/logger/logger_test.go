package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: level, Format: JSONFormat, Output: buf, Service: "test"})
	return log, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInfoProducesJSON(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel)

	log.Info("sync complete")

	entry := decodeLine(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "sync complete", entry["message"])
	assert.Equal(t, "test", entry["service"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestLevelFiltering(t *testing.T) {
	log, buf := newBufferLogger(WarnLevel)

	log.Debug("dropped")
	log.Info("dropped too")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestWithFieldsAreInherited(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel)

	log.WithField("run_id", "r1").WithFields(map[string]interface{}{
		"collection": "purchases",
	}).Info("collection synced")

	entry := decodeLine(t, buf)
	fields, ok := entry["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "r1", fields["run_id"])
	assert.Equal(t, "purchases", fields["collection"])
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel)

	log.WithField("scoped", "yes")
	log.Info("plain")

	entry := decodeLine(t, buf)
	assert.Nil(t, entry["fields"])
}

func TestWithError(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel)

	log.WithError(assert.AnError).Error("fetch failed")

	entry := decodeLine(t, buf)
	fields, ok := entry["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields["error"], "assert.AnError")
}

func TestFormatArgs(t *testing.T) {
	log, buf := newBufferLogger(InfoLevel)

	log.Info("synced %d documents", 42)

	entry := decodeLine(t, buf)
	assert.Equal(t, "synced 42 documents", entry["message"])
}

func TestTextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: InfoLevel, Format: TextFormat, Output: buf})

	log.Info("hello")

	line := buf.String()
	assert.True(t, strings.Contains(line, "INFO"))
	assert.True(t, strings.Contains(line, "hello"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLogLevel("WARNING"))
	assert.Equal(t, InfoLevel, ParseLogLevel("bogus"))
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, TextFormat, ParseLogFormat("text"))
	assert.Equal(t, JSONFormat, ParseLogFormat("json"))
	assert.Equal(t, JSONFormat, ParseLogFormat(""))
}
