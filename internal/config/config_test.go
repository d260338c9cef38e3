package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AGENDA_ENV", "AGENDA_LOG_LEVEL", "AGENDA_DATABASE_URL", "AGENDA_MIGRATE", "AGENDA_METRICS_TEXTFILE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "development", c.App.Env)
	require.Equal(t, "info", c.Log.Level)
	require.Equal(t, DefaultDSN, c.Storage.DSN)
	require.False(t, c.Storage.Migrate)
	require.False(t, c.Production())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "agenda.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
app:
  env: production
log:
  level: warn
storage:
  dsn: postgres://file/db
  migrate: true
metrics:
  textfile: /tmp/agenda.prom
`), 0o600))

	c, err := Load(p)
	require.NoError(t, err)
	require.True(t, c.Production())
	require.Equal(t, "warn", c.Log.Level)
	require.Equal(t, "postgres://file/db", c.Storage.DSN)
	require.True(t, c.Storage.Migrate)
	require.Equal(t, "/tmp/agenda.prom", c.Metrics.Textfile)

	t.Setenv("AGENDA_DATABASE_URL", "postgres://env/db")
	t.Setenv("AGENDA_ENV", "staging")
	t.Setenv("AGENDA_MIGRATE", "false")
	c, err = Load(p)
	require.NoError(t, err)
	require.Equal(t, "postgres://env/db", c.Storage.DSN)
	require.False(t, c.Production())
	require.False(t, c.Storage.Migrate)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("app: [unclosed"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)

	t.Setenv("AGENDA_MIGRATE", "perhaps")
	_, err = Load("")
	require.Error(t, err)
}

func TestConfig_Logger(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	c.Log.Level = "debug"
	log, err := c.Logger()
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))

	c.Log.Level = "loud"
	_, err = c.Logger()
	require.Error(t, err)
}
