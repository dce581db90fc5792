package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenai/nextgen/internal/ailink"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnv(v))
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(64<<10), cfg.Server.MaxBodyBytes)
	assert.Empty(t, cfg.Server.ClientKey)

	assert.Equal(t, "https://ai.gateway.lovable.dev/v1", cfg.AILink.BaseURL)
	assert.Equal(t, ailink.DefaultModel, cfg.AILink.Model)
	assert.Zero(t, cfg.AILink.Timeout)
	assert.Equal(t, 2048, cfg.AILink.Debug.CaptureRawMaxBytes)

	assert.Equal(t, DefaultClientURL, cfg.Client.BaseURL)
	assert.Equal(t, 10, cfg.Prefs.HistoryLimit)

	assert.Equal(t, "libsql", cfg.Store.Driver)
	assert.Equal(t, "nextgen.db", filepath.Base(cfg.Store.Path))

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)

	assert.Same(t, cfg, GetConfig())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NEXTGEN_SERVER_PORT", "3000")
	t.Setenv("NEXTGEN_LOG_LEVEL", "warn")
	t.Setenv("NEXTGEN_METRICS_ENABLED", "false")
	t.Setenv("NEXTGEN_AILINK_TIMEOUT", "45s")
	t.Setenv("NEXTGEN_SERVER_CLIENT_KEY", "public-key")
	t.Setenv("LOVABLE_API_KEY", "gateway-secret")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 45*time.Second, cfg.AILink.Timeout)
	assert.Equal(t, "public-key", cfg.Server.ClientKey)
	assert.Equal(t, "gateway-secret", cfg.AILink.APIKey)
	assert.True(t, cfg.AILink.Configured())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  allowed_origins: ["https://studio.example.com"]
ailink:
  model: openai/gpt-5-mini
prefs:
  history_limit: 25
`), 0o600))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://studio.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "openai/gpt-5-mini", cfg.AILink.Model)
	assert.Equal(t, 25, cfg.Prefs.HistoryLimit)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	v := newViper(t)
	v.Set("server.port", 70000)

	_, err := Load(v)
	require.Error(t, err)

	_, err = Load(nil)
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEXTGEN_DOTENV_CHECK=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("NEXTGEN_DOTENV_CHECK") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("NEXTGEN_DOTENV_CHECK"))
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEXTGEN_DOTENV_KEEP=from-file\n"), 0o600))
	t.Setenv("NEXTGEN_DOTENV_KEEP", "from-env")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("NEXTGEN_DOTENV_KEEP"))
}
