package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/resterx/internal/model"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := withHome(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".resterx"), cfg.DataDir)
	assert.Equal(t, "sqlite", cfg.Storage)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, model.MaxHistoryEntries, cfg.HistoryLimit)
}

func TestLoadHomeFileAndEnv(t *testing.T) {
	home := withHome(t)
	content := "storage: json\ntimeout: 5s\nretries: 2\nhistory_limit: 500\ndata_dir: ~/data\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".resterx.yaml"), []byte(content), 0o600))
	t.Setenv("RESTERX_RETRY_DELAY", "250ms")
	t.Setenv("RESTERX_RETRIES", "4")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Storage)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Retries, "env overrides file")
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, model.MaxHistoryEntries, cfg.HistoryLimit, "limit is capped")
	assert.Equal(t, filepath.Join(home, "data"), cfg.DataDir)
}

func TestLoadExplicitFile(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: memory\nhistory_limit: 10\n"), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, 10, cfg.HistoryLimit)

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "storage: redis\n"},
		{name: "negative timeout", content: "timeout: -1s\n"},
		{name: "negative retries", content: "retries: -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHome(t)
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(viper.New(), path)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}
