package composer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenai/nextgen/internal/studio"
)

const resultJSON = `{"script":"s","title":"t","description":"d","tags":["a","b"],"hashtags":["#a","#b"],"thumbnailIdea":"i"}`

func TestClientSendsRequest(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GeneratePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer public-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"theme": "Minecraft funny short", "tone": "funny", "platform": "Shorts"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resultJSON))
	}))
	defer proxy.Close()

	client := NewClient(proxy.URL+"/", "public-key")
	result, err := client.Generate(context.Background(), studio.Request{Theme: "Minecraft funny short", Tone: "funny", Platform: "Shorts"})
	require.NoError(t, err)
	assert.Equal(t, "t", result.Title)
	assert.Equal(t, []string{"#a", "#b"}, result.Hashtags)
}

func TestClientMapsStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrRateLimited)
		}},
		{"quota", http.StatusPaymentRequired, `{"error":"credits depleted"}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrQuotaExhausted)
		}},
		{"server error", http.StatusInternalServerError, `{"error":"Invalid response format from AI"}`, func(t *testing.T, err error) {
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
			assert.Equal(t, "Invalid response format from AI", reqErr.Message)
		}},
		{"no error body", http.StatusBadGateway, `<html>bad gateway</html>`, func(t *testing.T, err error) {
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, "Failed to generate content", reqErr.Message)
		}},
		{"bad success body", http.StatusOK, `not json`, func(t *testing.T, err error) {
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer proxy.Close()

			_, err := NewClient(proxy.URL, "").Generate(context.Background(), studio.Request{Theme: "x", Tone: "funny", Platform: "Blog"})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClientOmitsAuthorizationWithoutKey(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(resultJSON))
	}))
	defer proxy.Close()

	_, err := NewClient(proxy.URL, "").Generate(context.Background(), studio.Request{Theme: "x"})
	require.NoError(t, err)
}

func TestClientTimeout(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer proxy.Close()

	client := NewClient(proxy.URL, "")
	client.Timeout = 50 * time.Millisecond
	_, err := client.Generate(context.Background(), studio.Request{Theme: "x"})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", "").Generate(context.Background(), studio.Request{Theme: "x"})
	require.Error(t, err)
}
