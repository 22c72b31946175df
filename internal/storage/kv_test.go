package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendsRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		BackendMemory: func(t *testing.T) KV { return NewMemoryKV() },
		BackendJSON: func(t *testing.T) KV {
			kv, err := NewFileKV(t.TempDir())
			require.NoError(t, err)
			return kv
		},
		BackendSQLite: func(t *testing.T) KV {
			kv, err := NewSQLiteKV(t.TempDir())
			require.NoError(t, err)
			return kv
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			kv := open(t)
			defer kv.Close()

			_, ok, err := kv.Get(KeyHistory)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(KeyHistory, `[]`))
			require.NoError(t, kv.Set(KeyHistory, `[{"id":"1"}]`))
			got, ok, err := kv.Get(KeyHistory)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, got)

			require.NoError(t, kv.Delete(KeyHistory))
			_, ok, err = kv.Get(KeyHistory)
			require.NoError(t, err)
			assert.False(t, ok)
			require.NoError(t, kv.Delete(KeyHistory))
		})
	}
}

func TestFileKVUsesSecurePermissions(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, kv.Set(KeyCollections, "[]"))

	info, err := os.Stat(filepath.Join(dir, KeyCollections+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secureFileMode), info.Mode().Perm())
}

func TestSQLiteMigratesJSONFiles(t *testing.T) {
	dir := t.TempDir()
	files, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, files.Set(KeyActiveEnvironment, "env-1"))

	kv, err := NewSQLiteKV(dir)
	require.NoError(t, err)
	defer kv.Close()

	got, ok, err := kv.Get(KeyActiveEnvironment)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "env-1", got)

	_, err = os.Stat(filepath.Join(dir, KeyActiveEnvironment+".json.migrated"))
	assert.NoError(t, err)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}
