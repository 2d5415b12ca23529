package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  dsn: postgres://localhost/fleet\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30, cfg.Fleet.WarningWindowDays)
	assert.Equal(t, 1000, cfg.Fleet.MaintenanceIntervalHours)
	assert.Equal(t, "sequence", cfg.Fleet.IDStrategy)
	assert.Equal(t, time.Hour, cfg.Sweep.Interval)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  dsn: fleet.db
fleet:
  warning_window_days: 15
  id_strategy: uuid
  timezone: America/Sao_Paulo
sweep:
  enabled: true
  interval_seconds: 60
`)
	t.Setenv("FLEET_DATABASE_DSN", "file::memory:")
	t.Setenv("FLEET_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 15, cfg.Fleet.WarningWindowDays)
	assert.Equal(t, "uuid", cfg.Fleet.IDStrategy)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, time.Minute, cfg.Sweep.Interval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, FleetConfig{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, "UTC", FleetConfig{Timezone: "UTC"}.Location().String())
}
