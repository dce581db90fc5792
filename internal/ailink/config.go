package ailink

import (
	"strings"
	"time"
)

// DefaultModel is the gateway model used when none is configured.
const DefaultModel = "google/gemini-2.5-flash"

// Config describes the upstream chat-completion gateway.
type Config struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`

	// Timeout bounds a single gateway call. Zero leaves the caller's context
	// as the only bound.
	Timeout time.Duration `mapstructure:"timeout"`

	// PromptsDir overrides embedded prompts by slug.
	PromptsDir string `mapstructure:"prompts_dir"`

	// Debug controls optional diagnostics like raw payload capture.
	Debug DebugConfig `mapstructure:"debug"`
}

type DebugConfig struct {
	CaptureRawEnabled  bool `mapstructure:"capture_raw_enabled"`
	CaptureRawMaxBytes int  `mapstructure:"capture_raw_max_bytes"`
}

// Configured reports whether a gateway credential is present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ModelOr returns the configured model, falling back to fallback and then
// DefaultModel.
func (c Config) ModelOr(fallback string) string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	if m := strings.TrimSpace(fallback); m != "" {
		return m
	}
	return DefaultModel
}
