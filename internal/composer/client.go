// Package composer is the client side of content generation. It sends
// requests to the generation proxy and keeps chat transcripts.
package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nextgenai/nextgen/internal/studio"
)

// GeneratePath is the proxy route relative to the base URL.
const GeneratePath = "/functions/v1/generate-content"

const (
	maxResponseBytes = 1 << 20
	fallbackMessage  = "Failed to generate content"
)

var (
	// ErrRateLimited means the proxy answered 429.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrQuotaExhausted means the proxy answered 402.
	ErrQuotaExhausted = errors.New("ai credits depleted")
)

// RequestError is any other failed generation.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("generation failed (%d): %s", e.Status, e.Message)
	}
	return "generation failed: " + e.Message
}

// Generator produces a result for a request.
type Generator interface {
	Generate(ctx context.Context, req studio.Request) (studio.Result, error)
}

// Client calls the generation proxy over HTTP.
type Client struct {
	BaseURL    string
	Key        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewClient creates a proxy client. key is sent as a bearer token when set.
func NewClient(baseURL, key string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Key:     strings.TrimSpace(key),
	}
}

// Endpoint returns the full generation URL.
func (c *Client) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + GeneratePath
}

// Generate makes exactly one POST to the proxy.
func (c *Client) Generate(ctx context.Context, req studio.Request) (studio.Result, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return studio.Result{}, &RequestError{Message: "client base URL is not configured"}
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return studio.Result{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return studio.Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Key)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return studio.Result{}, &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return studio.Result{}, &RequestError{Status: resp.StatusCode, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return studio.Result{}, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return studio.Result{}, ErrQuotaExhausted
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return studio.Result{}, &RequestError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	var result studio.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return studio.Result{}, &RequestError{Status: resp.StatusCode, Message: "Invalid response from server"}
	}
	return result, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	return fallbackMessage
}
