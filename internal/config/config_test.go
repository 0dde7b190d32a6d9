package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv("CARNETLIFY_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	// DefaultPath honours CARNETLIFY_CONFIG, but a missing default is fine.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
  base_url: "http://progress.internal:9090"
auth:
  secret: "s3cret"
  token_ttl: 15m
redis:
  addr: "localhost:6379"
  ttl: 1m
remote:
  timeout: 3s
  retry:
    max_attempts: 5
    initial_wait: 100ms
    max_wait: 1s
    multiplier: 1.5
  rate_per_second: 4
  burst: 2
log:
  mode: prod
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "carnetlify", cfg.Auth.Issuer, "unset keys keep defaults")
	assert.Equal(t, time.Minute, cfg.Redis.TTL)

	rc := cfg.RemoteClient()
	assert.Equal(t, "http://progress.internal:9090", rc.BaseURL)
	assert.Equal(t, 3*time.Second, rc.Timeout)
	assert.Equal(t, 5, rc.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, rc.Retry.InitialWait)
	assert.Equal(t, 4.0, rc.WritesPerSecond)
	assert.Equal(t, 2, rc.WriteBurst)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad log mode":  "log:\n  mode: verbose\n",
		"bad base url":  "server:\n  base_url: \"not a url\"\n",
		"zero attempts": "remote:\n  retry:\n    max_attempts: 0\n",
		"broken yaml":   "server: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CARNETLIFY_SERVER_URL":     "http://example.test",
		"CARNETLIFY_AUTH_SECRET":    "from-env",
		"CARNETLIFY_DB":             "/tmp/progress.db",
		"CARNETLIFY_LOCAL_DIR":      "/tmp/local",
		"CARNETLIFY_LOG_LEVEL":      "warn",
		"CARNETLIFY_AUTH_TOKEN_TTL": "2h",
		"CARNETLIFY_REMOTE_RATE":    "0.5",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "http://example.test", cfg.Server.BaseURL)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, "/tmp/progress.db", cfg.Store.DBPath)
	assert.Equal(t, "/tmp/local", cfg.Local.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 0.5, cfg.Remote.RatePerSecond)

	env["CARNETLIFY_AUTH_TOKEN_TTL"] = "soon"
	assert.Error(t, Default().ApplyEnv(lookup))
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Auth.Secret = "round-trip"
	require.NoError(t, Write(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "round-trip", got.Auth.Secret)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("CARNETLIFY_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/config/carnetlify/config.yaml", p)

	p, err = DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/state/carnetlify/carnetlify.log", p)
}
