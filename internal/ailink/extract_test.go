package ailink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"bare":        {in: `{"title":"x","tags":["a","b"]}`, want: `{"title":"x","tags":["a","b"]}`},
		"pretty":      {in: "{\n  \"title\": \"x\"\n}", want: `{"title":"x"}`},
		"fenced":      {in: "```json\n{\"title\":\"x\"}\n```", want: `{"title":"x"}`},
		"fenced bare": {in: "```\n{\"title\":\"a } b\"}\n```", want: `{"title":"a } b"}`},
		"keeps order": {in: `{"z":1,"a":2}`, want: `{"z":1,"a":2}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))
		})
	}
}

func TestExtractJSONObjectFailures(t *testing.T) {
	for _, in := range []string{
		"", "   ", "not json", `["a"]`, `{"title": "unterminated`,
		"Sure! Here you go: {\"title\":\"x\"} Enjoy.",
		`{"title":"x"} trailing garbage`,
		`{"title":"x"}{"title":"y"}`,
		"```json\n{\"title\":\"x\"}\n``` and more",
		"```json {\"title\":\"x\"}```",
	} {
		_, err := ExtractJSONObject(in)
		require.Error(t, err, in)
	}
}

func TestTruncateRaw(t *testing.T) {
	require.Equal(t, "", TruncateRaw([]byte("abc"), 0))
	require.Equal(t, "a b", TruncateRaw([]byte("a\nb"), 10))
	require.Equal(t, "abc…", TruncateRaw([]byte("abcdef"), 3))
}

func TestCaptureLimit(t *testing.T) {
	require.Zero(t, CaptureLimit(Config{}))
	require.Zero(t, CaptureLimit(Config{Debug: DebugConfig{CaptureRawMaxBytes: 10}}))
	require.Equal(t, 10, CaptureLimit(Config{Debug: DebugConfig{CaptureRawEnabled: true, CaptureRawMaxBytes: 10}}))
}

func TestConfigModelOr(t *testing.T) {
	require.Equal(t, DefaultModel, Config{}.ModelOr(""))
	require.Equal(t, "prompt-model", Config{}.ModelOr("prompt-model"))
	require.Equal(t, "cfg-model", Config{Model: "cfg-model"}.ModelOr("prompt-model"))
}

func TestNewDriverRequiresKey(t *testing.T) {
	_, err := NewDriver(Config{}, nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	drv, err := NewDriver(Config{APIKey: "k"}, nil)
	require.NoError(t, err)
	require.Equal(t, "openai", drv.Name())
}
