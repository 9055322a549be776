package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  path: test.db
jwt:
  secret: short
  expire_hours: 2
storage:
  type: minio
reconcile:
  workers: 4
  lock_ttl_seconds: 30
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigReadsFileAndDefaults(t *testing.T) {
	dir := writeConfig(t, sampleConfig)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 4, cfg.Reconcile.Workers)
	assert.Equal(t, 30*time.Second, cfg.Reconcile.LockTTL())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "utf8mb4", cfg.Database.Charset)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_HOST", "db.internal")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, sampleConfig)
	t.Setenv("SERVER_MODE", "release")

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is too short")
}

func TestReconcileLockTTLDefault(t *testing.T) {
	assert.Equal(t, 10*time.Minute, ReconcileConfig{}.LockTTL())
}
