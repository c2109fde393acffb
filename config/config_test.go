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
	path := filepath.Join(t.TempDir(), "captable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
database:
  dsn: "postgres://localhost/captable?sslmode=disable"
reconciler:
  interval: 1m
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, time.Minute, cfg.Reconciler.Interval)
	assert.Equal(t, 50, cfg.Reconciler.BatchSize)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "finalized", cfg.Solana.Commitment)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: from-file\n")
	t.Setenv("CAPTABLE_DATABASE_DSN", "from-env")
	t.Setenv("CAPTABLE_HTTP_ADDR", ":7000")
	t.Setenv("CAPTABLE_LOG_LEVEL", "DEBUG")
	t.Setenv("CAPTABLE_RECONCILE_INTERVAL", "5s")
	t.Setenv("CAPTABLE_SOLANA_RPC_URL", "http://127.0.0.1:8899")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.DSN)
	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Reconciler.Interval)
	assert.Equal(t, "http://127.0.0.1:8899", cfg.Solana.RPCURL)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, "database:\n  dsn: x\n")
	t.Setenv("CAPTABLE_RECONCILE_INTERVAL", "soon")

	_, err := Load(path)
	assert.ErrorContains(t, err, "CAPTABLE_RECONCILE_INTERVAL")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.Validate(), "database.dsn")

	cfg.Database.DSN = "postgres://x"
	assert.NoError(t, cfg.Validate())

	cfg.Reconciler.Interval = 0
	assert.ErrorContains(t, cfg.Validate(), "reconciler.interval")

	cfg.Reconciler.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
