package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenai/nextgen/internal/studio"
)

type fakeGenerator struct {
	calls int
	got   studio.Request
	gen   *studio.Generation
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, req studio.Request) (*studio.Generation, error) {
	f.calls++
	f.got = req
	return f.gen, f.err
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestGenerateHandlerWritesRawResult(t *testing.T) {
	raw := `{"script":"s","title":"t","description":"d","tags":["a"],"hashtags":["#a"],"thumbnailIdea":"i"}`
	gen := &fakeGenerator{gen: &studio.Generation{Raw: json.RawMessage(raw)}}
	h := NewGenerateHandler(gen)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-content",
		strings.NewReader(`{"theme":"Minecraft funny short","tone":"funny","platform":"Shorts"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, raw, rec.Body.String())
	assert.Equal(t, "Minecraft funny short", gen.got.Theme)
	assert.Equal(t, "Shorts", gen.got.Platform)
}

func TestGenerateHandlerRejectsMalformedJSON(t *testing.T) {
	cases := map[string]string{
		"empty":    "",
		"broken":   `{"theme":`,
		"trailing": `{"theme":"x","tone":"funny"} {}`,
		"array":    `["theme"]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{}
			h := NewGenerateHandler(gen)

			req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-content", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid JSON body", decodeMessage(t, rec))
			assert.Zero(t, gen.calls)
		})
	}
}

func TestGenerateHandlerRejectsOversizedBody(t *testing.T) {
	gen := &fakeGenerator{}
	h := &GenerateHandler{Generator: gen, MaxBodyBytes: 32}

	body := `{"theme":"` + strings.Repeat("x", 64) + `","tone":"funny"}`
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-content", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestGenerateHandlerMapsGenerationErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"rate limited", &studio.Error{Kind: studio.KindRateLimited, Message: studio.MsgRateLimited, Status: 429}, http.StatusTooManyRequests, "Rate limit"},
		{"quota", &studio.Error{Kind: studio.KindQuota, Message: studio.MsgQuota, Status: 402}, http.StatusPaymentRequired, "credits depleted"},
		{"upstream", &studio.Error{Kind: studio.KindUpstream, Message: studio.MsgUpstream, Status: 503}, http.StatusInternalServerError, studio.MsgUpstream},
		{"malformed", &studio.Error{Kind: studio.KindMalformed, Message: studio.MsgMalformed, Raw: []byte("not json")}, http.StatusInternalServerError, "Invalid response format"},
		{"config", &studio.Error{Kind: studio.KindConfiguration, Message: studio.MsgNotConfigured}, http.StatusInternalServerError, studio.MsgNotConfigured},
		{"client", studio.NewClientError("theme is required"), http.StatusBadRequest, "theme is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewGenerateHandler(&fakeGenerator{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-content",
				strings.NewReader(`{"theme":"x","tone":"funny","platform":"YouTube"}`))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			msg := decodeMessage(t, rec)
			assert.Contains(t, strings.ToLower(msg), strings.ToLower(tc.message))
			assert.NotContains(t, rec.Body.String(), "not json")
		})
	}
}

func TestGenerateHandlerWithoutGenerator(t *testing.T) {
	h := &GenerateHandler{}

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-content",
		strings.NewReader(`{"theme":"x","tone":"funny"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPreflightHandlerSetsCORSHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/generate-content", nil)
	rec := httptest.NewRecorder()

	PreflightHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization, x-client-info, apikey, content-type",
		rec.Header().Get("Access-Control-Allow-Headers"))
}
