package ailink

import (
	"errors"
	"net/http"

	"github.com/nextgenai/nextgen/internal/ailink/driver"
	"github.com/nextgenai/nextgen/internal/ailink/driver/openai"
)

// ErrNotConfigured is returned when the gateway credential is missing.
var ErrNotConfigured = errors.New("ai gateway api key is not configured")

// NewDriver builds the gateway driver for cfg.
func NewDriver(cfg Config, httpClient *http.Client) (driver.Driver, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	client := openai.NewClient(cfg.BaseURL, cfg.APIKey)
	client.Timeout = cfg.Timeout
	client.HTTPClient = httpClient
	return client, nil
}
