// Package config loads NextGen configuration through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nextgenai/nextgen/internal/ailink"
)

const (
	// AppName names the config and data directories.
	AppName = "nextgen"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "NEXTGEN"

	DefaultServerPort   = 8080
	DefaultMetricsPort  = 9090
	DefaultHistoryLimit = 10
	DefaultClientURL    = "http://localhost:8080"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.client_key", "")
	v.SetDefault("server.admin_token", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_body_bytes", 64<<10)

	// Store defaults
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	// Gateway defaults
	v.SetDefault("ailink.base_url", "https://ai.gateway.lovable.dev/v1")
	v.SetDefault("ailink.api_key", "")
	v.SetDefault("ailink.model", ailink.DefaultModel)
	v.SetDefault("ailink.timeout", "0s")
	v.SetDefault("ailink.prompts_dir", "")
	v.SetDefault("ailink.debug.capture_raw_enabled", false)
	v.SetDefault("ailink.debug.capture_raw_max_bytes", 2048)

	// Composer defaults
	v.SetDefault("client.base_url", DefaultClientURL)
	v.SetDefault("client.key", "")
	v.SetDefault("client.timeout", "120s")

	v.SetDefault("prefs.history_limit", DefaultHistoryLimit)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")
	v.SetDefault("logging.environment", "development")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", DefaultMetricsPort)
	v.SetDefault("metrics.namespace", AppName)

	v.SetDefault("health.enabled", true)
}

// BindEnv wires NEXTGEN_* environment variables onto config keys. Nested
// keys use underscores, so server.client_key reads NEXTGEN_SERVER_CLIENT_KEY.
// The gateway key also honours LOVABLE_API_KEY.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"ailink.api_key": {EnvPrefix + "_AILINK_API_KEY", "LOVABLE_API_KEY"},
		"server.port":    {EnvPrefix + "_SERVER_PORT", EnvPrefix + "_PORT"},
		"logging.level":  {EnvPrefix + "_LOGGING_LEVEL", EnvPrefix + "_LOG_LEVEL"},
	}
	for key, names := range bindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}

// LoadDotEnv loads .env files into the process environment. Existing
// variables win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load decodes the settings held by v into a Config and records it as the
// current configuration.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, errors.New("viper instance is required")
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Store.URL) == "" && strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = DefaultStorePath()
	}
	if cfg.Prefs.HistoryLimit <= 0 {
		cfg.Prefs.HistoryLimit = DefaultHistoryLimit
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects settings that would make the server unusable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port out of range: %d", c.Metrics.Port)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative")
	}
	if c.AILink.Timeout < 0 {
		return fmt.Errorf("ailink.timeout must not be negative")
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigDir returns the XDG config directory for the app.
func DefaultConfigDir() string {
	return gfconfig.GetAppConfigDir(AppName)
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultStorePath returns the XDG-compliant path to the database file.
func DefaultStorePath() string {
	dataDir := gfconfig.GetAppDataDir(AppName)
	if strings.TrimSpace(dataDir) == "" {
		return "./" + AppName + ".db"
	}
	return filepath.Join(dataDir, AppName+".db")
}
