package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nextgenai/nextgen/internal/ailink/driver"
)

// DefaultBaseURL is the hosted OpenAI-compatible gateway.
const DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"

const providerName = "openai"

// maxResponseBytes bounds how much of a gateway reply is buffered.
const maxResponseBytes = 4 << 20

// Client speaks the OpenAI chat-completions wire format over plain HTTP.
// Any gateway exposing POST {BaseURL}/chat/completions works.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, apiKey string) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = DefaultBaseURL
	}

	return &Client{
		BaseURL: url,
		APIKey:  strings.TrimSpace(apiKey),
	}
}

// Name returns the driver identifier.
func (c *Client) Name() string {
	return providerName
}

// Capabilities describes supported features.
func (c *Client) Capabilities() driver.Capabilities {
	return driver.Capabilities{SupportsJSONMode: true}
}

// Endpoint returns the absolute chat-completions URL.
func (c *Client) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
}

// Complete sends exactly one chat completion request. It never retries.
func (c *Client) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("openai client not configured")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}

	payload, err := buildChatRequest(req)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	if cancel != nil {
		defer cancel()
	}

	endpoint := c.Endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	trace := driver.TraceEntry{
		Driver:      providerName,
		Endpoint:    endpoint,
		Model:       req.Model,
		PromptSlug:  req.PromptSlug,
		RequestBody: body,
	}
	start := time.Now()
	defer func() {
		trace.DurationMs = time.Since(start).Milliseconds()
		driver.Trace(trace)
	}()

	resp, err := client.Do(httpReq)
	if err != nil {
		trace.Error = err.Error()
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	trace.StatusCode = resp.StatusCode
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		trace.Error = err.Error()
		return nil, fmt.Errorf("read response: %w", err)
	}
	trace.Response = respBody

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &driver.ProviderError{
			Provider:    providerName,
			StatusCode:  resp.StatusCode,
			Message:     strings.TrimSpace(string(respBody)),
			RawResponse: respBody,
		}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		trace.Error = err.Error()
		return nil, &driver.EnvelopeError{Provider: providerName, Raw: respBody, Err: fmt.Errorf("decode response: %w", err)}
	}

	out, err := toDriverResponse(&parsed)
	if err != nil {
		trace.Error = err.Error()
		return nil, &driver.EnvelopeError{Provider: providerName, Raw: respBody, Err: err}
	}
	return out, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, timeout)
}
