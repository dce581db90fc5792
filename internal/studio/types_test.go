package studio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseToneCaseInsensitive(t *testing.T) {
	tone, err := ParseTone("  Cinematic ")
	require.NoError(t, err)
	require.Equal(t, ToneCinematic, tone)

	_, err = ParseTone("sarcastic")
	require.ErrorContains(t, err, "unsupported tone")
}

func TestParsePlatformAliases(t *testing.T) {
	cases := map[string]Platform{
		"youtube":        PlatformYouTube,
		"SHORTS":         PlatformShorts,
		"twitter/x":      PlatformTwitter,
		"X":              PlatformTwitter,
		"twitter":        PlatformTwitter,
		"YouTube Shorts": PlatformShorts,
		"blog":           PlatformBlog,
	}
	for in, want := range cases {
		got, err := ParsePlatform(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParsePlatform("myspace")
	require.Error(t, err)
}

func TestPlatformShortForm(t *testing.T) {
	require.True(t, PlatformShorts.ShortForm())
	require.True(t, PlatformTikTok.ShortForm())
	require.False(t, PlatformYouTube.ShortForm())
	require.False(t, PlatformBlog.ShortForm())

	for _, p := range Platforms {
		require.NotEmpty(t, p.LengthGuidance(), p)
	}
	require.True(t, strings.HasPrefix(PlatformTikTok.LengthGuidance(), "Short-form"))
	require.True(t, strings.HasPrefix(PlatformFacebook.LengthGuidance(), "Long-form"))
}

func TestNormalize(t *testing.T) {
	norm, err := Request{Theme: "  Minecraft funny short ", Tone: "FUNNY", Platform: "shorts"}.Normalize()
	require.NoError(t, err)
	require.Equal(t, Normalized{Theme: "Minecraft funny short", Tone: ToneFunny, Platform: PlatformShorts, Section: SectionAll}, norm)
}

func TestNormalizeContentTypeVariants(t *testing.T) {
	norm, err := Request{Theme: "x", Tone: "casual", ContentType: "thumbnail"}.Normalize()
	require.NoError(t, err)
	require.Equal(t, SectionThumbnail, norm.Section)
	require.Equal(t, DefaultPlatform, norm.Platform)

	norm, err = Request{Theme: "x", Tone: "casual", ContentType: "TikTok"}.Normalize()
	require.NoError(t, err)
	require.Equal(t, SectionAll, norm.Section)
	require.Equal(t, PlatformTikTok, norm.Platform)

	norm, err = Request{Theme: "x", Tone: "casual", Platform: "Blog", ContentType: "tags"}.Normalize()
	require.NoError(t, err)
	require.Equal(t, SectionTags, norm.Section)
	require.Equal(t, PlatformBlog, norm.Platform)

	_, err = Request{Theme: "x", Tone: "casual", Platform: "Blog", ContentType: "poem"}.Normalize()
	require.Equal(t, KindClient, KindOf(err))
}

func TestNormalizeRejections(t *testing.T) {
	cases := map[string]Request{
		"blank theme":    {Theme: "   ", Tone: "funny", Platform: "YouTube"},
		"missing tone":   {Theme: "x", Platform: "YouTube"},
		"unknown tone":   {Theme: "x", Tone: "angry", Platform: "YouTube"},
		"unknown target": {Theme: "x", Tone: "funny", Platform: "Vine"},
		"huge theme":     {Theme: strings.Repeat("a", MaxThemeBytes+1), Tone: "funny"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := req.Normalize()
			require.Error(t, err)
			require.Equal(t, KindClient, KindOf(err))

			var se *Error
			require.ErrorAs(t, err, &se)
			require.Equal(t, 400, se.HTTPStatus())
		})
	}
}

func TestParseSection(t *testing.T) {
	sec, err := ParseSection("")
	require.NoError(t, err)
	require.Equal(t, SectionAll, sec)

	sec, err = ParseSection("Hashtags")
	require.NoError(t, err)
	require.Equal(t, SectionHashtags, sec)
}
