package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "track-basic.json", `{
		"input": {"type": "track", "event": "Signed Up", "properties": {"plan": "pro"}},
		"output": {"event": "Signed Up", "count": 1},
		"settings": {"apiKey": "abc"}
	}`)

	f, err := Load(dir, "track-basic")
	require.NoError(t, err)

	assert.Equal(t, "track-basic", f.Name)
	assert.Equal(t, "track", f.Type())
	assert.Equal(t, "Signed Up", f.Input["event"])
	assert.Equal(t, map[string]any{"event": "Signed Up", "count": float64(1)}, f.Output)
	assert.Equal(t, map[string]any{"apiKey": "abc"}, f.Settings)
}

func TestLoad_YAMLNormalizedLikeJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "identify.yaml", `
input:
  type: identify
  userId: u1
  traits:
    age: 30
output:
  distinct_id: u1
  age: 30
`)

	f, err := Load(dir, "identify")
	require.NoError(t, err)

	assert.Equal(t, "identify", f.Type())
	assert.Equal(t, map[string]any{"distinct_id": "u1", "age": float64(30)}, f.Output)
	assert.Nil(t, f.Settings)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadFile_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "missing output", content: `{"input": {"type": "track"}}`, errMsg: "output"},
		{name: "missing type", content: `{"input": {}, "output": {}}`, errMsg: "type"},
		{name: "unknown type", content: `{"input": {"type": "purchase"}, "output": {}}`, errMsg: "input.type"},
		{name: "settings not object", content: `{"input": {"type": "track"}, "output": {}, "settings": 3}`, errMsg: "settings"},
		{name: "bad json", content: `{"input": `, errMsg: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.json", tt.content)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"input": {"type": "page"}, "output": {}}`)
	writeFile(t, dir, "a.yml", "input:\n  type: alias\noutput: {}\n")
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	fixtures, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, "a", fixtures[0].Name)
	assert.Equal(t, "b", fixtures[1].Name)
}
