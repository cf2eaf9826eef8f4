package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func results() []Result {
	return []Result{
		{File: "fixtures/track.json", Name: "track", Type: "track", Output: map[string]any{"event": "x"}},
		{File: "fixtures/bad.json", Name: "bad", Err: errors.New("input.type is required")},
	}
}

func TestConsoleFormatter_FormatResults(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResults(results(), 12*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "✓ fixtures/track.json (track)")
	assert.Contains(t, out, "Output: {object with 1 keys}")
	assert.Contains(t, out, "✗ fixtures/bad.json")
	assert.Contains(t, out, "→ input.type is required")
	assert.Contains(t, out, "1 valid, 1 invalid, 2 total")
	assert.Contains(t, out, "12ms")
}

func TestConsoleFormatter_FormatList(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatList(results())

	assert.Contains(t, buf.String(), "track")
	assert.Contains(t, buf.String(), "x fixtures/bad.json (input.type is required)")
}

func TestJSONFormatter_FormatResults(t *testing.T) {
	var buf bytes.Buffer
	New("json", &buf, false, true).FormatResults(results(), time.Second)

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, JSONSummary{Total: 2, Valid: 1, Invalid: 1}, out.Summary)
	require.Len(t, out.Fixtures, 2)
	assert.True(t, out.Fixtures[0].Valid)
	assert.Equal(t, "input.type is required", out.Fixtures[1].Error)
	assert.Equal(t, float64(1000), out.Duration)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "[array with 2 items]", formatValue([]any{1, 2}, 10))
	assert.Equal(t, "abc...", formatValue("abcdef", 3))
	assert.Equal(t, "42", formatValue(42, 10))
}
