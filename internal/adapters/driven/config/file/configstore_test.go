package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_SetPersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("editor.command", "vim"))
	require.NoError(t, store.Set("bib.parallel", 8))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[editor]")
	assert.Regexp(t, `command = ['"]vim['"]`, string(raw))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "vim", reloaded.GetString("editor.command"))
	assert.Equal(t, 8, reloaded.GetInt("bib.parallel"))
	assert.Equal(t, []string{"bib.parallel", "editor.command"}, reloaded.Keys())
}

func TestConfigStore_TypedGettersWrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("value", "text"))

	assert.Equal(t, 0, store.GetInt("value"))
	assert.False(t, store.GetBool("value"))
	assert.Nil(t, store.GetStringSlice("value"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[label]\nprocessors = ['ligatures', 'mentions']\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, []string{"ligatures", "mentions"}, store.GetStringSlice("label.processors"))
}

func TestConfigStore_GetStringSliceMixedTypes(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[label]\nprocessors = ['ligatures', 3]\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Nil(t, store.GetStringSlice("label.processors"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[bib]\nexclude_note = false\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("bib.exclude_note")
	assert.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0o600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c":   "x",
		"top":   true,
		"a.b.c": 2,
	})

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": 1, "c": "x"},
		"top": true,
	}, nested)
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"storage": map[string]any{"directory": "/data"},
		"x":       1,
	}, "")

	assert.Equal(t, map[string]any{"storage.directory": "/data", "x": 1}, flat)
}
