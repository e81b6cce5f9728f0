package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Minute, cfg.Engine.RealmFirstKillWindow)
	assert.Equal(t, 32, cfg.Engine.MaxModifierDepth)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.TickInterval)
	assert.Equal(t, 30*time.Second, cfg.Engine.SaveInterval)
	assert.Equal(t, 4, cfg.Engine.SaveConcurrency)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
database:
  driver: postgres
  url: postgres://localhost/achievements
engine:
  realm_first_kill_window: 90s
  disabled_criteria: [12, 40]
  save_interval: 1m
`)
	t.Setenv("ACHIEVEMENTS_ENGINE_SAVE_CONCURRENCY", "8")
	t.Setenv("ACHIEVEMENTS_NOTIFICATIONS_ADDRESS", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 90*time.Second, cfg.Engine.RealmFirstKillWindow)
	assert.Equal(t, time.Minute, cfg.Engine.SaveInterval)
	assert.Equal(t, 8, cfg.Engine.SaveConcurrency)
	assert.Equal(t, ":9999", cfg.Notifications.Address)
	assert.Equal(t, map[uint32]bool{12: true, 40: true}, cfg.Engine.DisabledSet())
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
engine:
  save_concurrency: 0
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url")
	assert.Contains(t, err.Error(), "save_concurrency")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
