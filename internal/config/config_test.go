package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, 2, cfg.Time.UTCOffsetHours)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
store:
  backend: sqlite
  path: /tmp/tt.db
time:
  utc_offset_hours: 3
logging:
  debug_mode: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/tt.db", cfg.Store.Path)
	assert.Equal(t, 3, cfg.Time.UTCOffsetHours)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: redis\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("PORT sets addr", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, ":5000", cfg.Server.Addr)
	})

	t.Run("DATABASE_URL switches backend to postgres", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/tt")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, "postgres", cfg.Store.Backend)
		assert.Equal(t, "postgres://localhost/tt", cfg.Store.DSN)
	})

	t.Run("offset override", func(t *testing.T) {
		t.Setenv("TINYTRACK_UTC_OFFSET", "-5")
		cfg := Default()
		cfg.applyEnvOverrides()
		assert.Equal(t, -5, cfg.Time.UTCOffsetHours)
	})
}
