package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nextgenai/nextgen/internal/ailink"
	"github.com/nextgenai/nextgen/internal/ailink/content"
	"github.com/nextgenai/nextgen/internal/ailink/driver"
	"github.com/nextgenai/nextgen/internal/ailink/driver/openai"
)

type fakeDriver struct {
	calls   atomic.Int32
	last    *driver.Request
	content string
	err     error
}

func (f *fakeDriver) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	f.calls.Add(1)
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &driver.Response{Content: []content.ContentBlock{{Type: content.ContentTypeText, Text: f.content}}}, nil
}

func (f *fakeDriver) Name() string                       { return "fake" }
func (f *fakeDriver) Capabilities() driver.Capabilities { return driver.Capabilities{SupportsJSONMode: true} }

func newTestService(t *testing.T, drv driver.Driver) *Service {
	t.Helper()
	svc, err := NewService(Options{Driver: drv})
	require.NoError(t, err)
	return svc
}

var minecraftRequest = Request{Theme: "Minecraft funny short", Tone: "funny", Platform: "Shorts"}

func TestGenerateSuccessReturnsVerbatimObject(t *testing.T) {
	drv := &fakeDriver{content: "```json\n" + validResult + "\n```"}
	svc := newTestService(t, drv)

	gen, err := svc.Generate(context.Background(), minecraftRequest)
	require.NoError(t, err)
	require.Equal(t, validResult, string(gen.Raw))
	require.Equal(t, "Creeper Chaos", gen.Result.Title)
	require.Equal(t, int32(1), drv.calls.Load())

	require.Equal(t, ailink.DefaultModel, drv.last.Model)
	require.Equal(t, driver.JSONObject, drv.last.ResponseFormat)
	require.Len(t, drv.last.Messages, 2)
	require.Equal(t, content.RoleSystem, drv.last.Messages[0].Role)
	require.Contains(t, drv.last.Messages[0].Content[0].Text, "thumbnailIdea")
	require.Contains(t, drv.last.Messages[1].Content[0].Text, "Theme/Idea: Minecraft funny short")
	require.Contains(t, drv.last.Messages[1].Content[0].Text, "Platform: Shorts")
}

func TestGenerateRejectsClientErrorsWithoutUpstreamCall(t *testing.T) {
	drv := &fakeDriver{content: validResult}
	svc := newTestService(t, drv)

	_, err := svc.Generate(context.Background(), Request{Theme: " ", Tone: "funny", Platform: "YouTube"})
	require.Equal(t, KindClient, KindOf(err))

	_, err = svc.Generate(context.Background(), Request{Theme: "x", Tone: "weird", Platform: "YouTube"})
	require.Equal(t, KindClient, KindOf(err))

	require.Zero(t, drv.calls.Load())
}

func TestGenerateWithoutDriverIsConfigurationError(t *testing.T) {
	svc := newTestService(t, nil)
	require.False(t, svc.Configured())

	_, err := svc.Generate(context.Background(), minecraftRequest)
	require.Equal(t, KindConfiguration, KindOf(err))

	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.HTTPStatus())
	require.ErrorIs(t, err, ailink.ErrNotConfigured)
}

func TestGenerateMalformedContent(t *testing.T) {
	cases := map[string]string{
		"not json":       "not json",
		"array":          `["a","b"]`,
		"schema failure": `{"title":"only a title"}`,
		"wrong types":    `{"script":"s","title":"t","description":"d","tags":"x","hashtags":[],"thumbnailIdea":"i"}`,
		"prose wrapped":  "Sure! Here is your content: " + validResult + " Hope this helps!",
		"trailing data":  validResult + " trailing garbage",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			drv := &fakeDriver{content: body}
			svc := newTestService(t, drv)

			gen, err := svc.Generate(context.Background(), minecraftRequest)
			require.Nil(t, gen)
			require.Equal(t, KindMalformed, KindOf(err))

			var se *Error
			require.ErrorAs(t, err, &se)
			require.Equal(t, MsgMalformed, se.Message)
			require.NotEmpty(t, se.Raw)
			require.Equal(t, int32(1), drv.calls.Load())
		})
	}
}

func TestGenerateSectionFocusReachesPrompt(t *testing.T) {
	drv := &fakeDriver{content: validResult}
	svc := newTestService(t, drv)

	_, err := svc.Generate(context.Background(), Request{Theme: "vlog", Tone: "casual", ContentType: "hashtags"})
	require.NoError(t, err)
	require.Contains(t, drv.last.Messages[0].Content[0].Text, "FOCUS:")
	require.Contains(t, drv.last.Messages[1].Content[0].Text, "Focus: hashtags")
	require.Contains(t, drv.last.Messages[1].Content[0].Text, "Platform: YouTube")
}

func TestGenerateModelOverride(t *testing.T) {
	drv := &fakeDriver{content: validResult}
	svc, err := NewService(Options{Driver: drv, Config: ailink.Config{Model: "openai/gpt-4o-mini"}})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), minecraftRequest)
	require.NoError(t, err)
	require.Equal(t, "openai/gpt-4o-mini", drv.last.Model)
}

func TestNewServiceUnknownPrompt(t *testing.T) {
	_, err := NewService(Options{PromptSlug: "missing"})
	require.Error(t, err)
}

func TestPromptReady(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.PromptReady())
	require.False(t, svc.Configured())

	var missing *Service
	require.Error(t, missing.PromptReady())
}

func TestGenerateMapsGatewayStatuses(t *testing.T) {
	cases := []struct {
		status  int
		kind    Kind
		http    int
		message string
	}{
		{http.StatusTooManyRequests, KindRateLimited, http.StatusTooManyRequests, "Rate limit"},
		{http.StatusPaymentRequired, KindQuota, http.StatusPaymentRequired, "credits depleted"},
		{http.StatusInternalServerError, KindUpstream, http.StatusInternalServerError, "AI gateway returned 500"},
		{http.StatusUnauthorized, KindUpstream, http.StatusInternalServerError, "AI gateway returned 401"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			var calls atomic.Int32
			gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":"upstream says no"}`))
			}))
			defer gateway.Close()

			svc := newTestService(t, openai.NewClient(gateway.URL, "secret"))
			_, err := svc.Generate(context.Background(), minecraftRequest)

			var se *Error
			require.ErrorAs(t, err, &se)
			require.Equal(t, tc.kind, se.Kind)
			require.Equal(t, tc.http, se.HTTPStatus())
			require.Contains(t, se.Message, tc.message)
			require.Equal(t, tc.status, se.Status)
			require.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestGenerateEndToEndThroughGateway(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, map[string]any{"type": "json_object"}, payload["response_format"])

		reply := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": validResult}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	defer gateway.Close()

	svc := newTestService(t, openai.NewClient(gateway.URL, "secret"))
	gen, err := svc.Generate(context.Background(), minecraftRequest)
	require.NoError(t, err)
	require.JSONEq(t, validResult, string(gen.Raw))
}

func TestGenerateTransportFailure(t *testing.T) {
	svc := newTestService(t, &fakeDriver{err: errors.New("dial tcp: connection refused")})
	_, err := svc.Generate(context.Background(), minecraftRequest)
	require.Equal(t, KindUpstream, KindOf(err))

	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, MsgUpstream, se.Message)
	require.True(t, se.Retryable())
}

func TestGenerateEnvelopeErrorIsMalformed(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer gateway.Close()

	svc := newTestService(t, openai.NewClient(gateway.URL, "secret"))
	_, err := svc.Generate(context.Background(), minecraftRequest)
	require.Equal(t, KindMalformed, KindOf(err))
}
