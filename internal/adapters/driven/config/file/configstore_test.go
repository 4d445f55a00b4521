package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("privacy.anonymize", true))
	require.NoError(t, store.Set("storage.data_dir", "/var/lib/opsrecall"))

	val, ok := store.Get("privacy.anonymize")
	assert.True(t, ok)
	assert.Equal(t, true, val)

	assert.Equal(t, "/var/lib/opsrecall", store.GetString("storage.data_dir"))
	assert.True(t, store.GetBool("privacy.anonymize"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("does.not.exist")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("does.not.exist"))
	assert.False(t, store.GetBool("does.not.exist"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("privacy.store_chat_history", "yes"))

	// Wrong type falls back to the zero value rather than panicking.
	assert.False(t, store.GetBool("privacy.store_chat_history"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("privacy.store_command_output", false))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)

	val, ok := second.Get("privacy.store_command_output")
	assert.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_LoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
[privacy]
anonymize = true
store_chat_history = false

[storage]
data_dir = "/tmp/recall"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.True(t, store.GetBool("privacy.anonymize"))
	assert.Equal(t, "/tmp/recall", store.GetString("storage.data_dir"))

	val, ok := store.Get("privacy.store_chat_history")
	assert.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_LoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}
