package studio

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tone is the stylistic voice of generated content.
type Tone string

const (
	ToneFunny         Tone = "funny"
	ToneEmotional     Tone = "emotional"
	ToneCinematic     Tone = "cinematic"
	ToneMotivational  Tone = "motivational"
	ToneEducational   Tone = "educational"
	ToneProfessional  Tone = "professional"
	ToneCasual        Tone = "casual"
	ToneDramatic      Tone = "dramatic"
	ToneInspirational Tone = "inspirational"
	ToneInformative   Tone = "informative"
)

// Tones lists every accepted tone in display order.
var Tones = []Tone{
	ToneFunny, ToneEmotional, ToneCinematic, ToneMotivational, ToneEducational,
	ToneProfessional, ToneCasual, ToneDramatic, ToneInspirational, ToneInformative,
}

// DefaultTone is preselected by clients.
const DefaultTone = ToneFunny

// ParseTone matches s case-insensitively against the tone enumeration.
func ParseTone(s string) (Tone, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tones {
		if string(t) == needle {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported tone %q", s)
}

// Platform is the publishing surface the content targets.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformShorts    Platform = "Shorts"
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformFacebook  Platform = "Facebook"
	PlatformTwitter   Platform = "Twitter/X"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformPinterest Platform = "Pinterest"
	PlatformBlog      Platform = "Blog"
)

// Platforms lists every accepted platform in display order.
var Platforms = []Platform{
	PlatformYouTube, PlatformShorts, PlatformInstagram, PlatformTikTok, PlatformFacebook,
	PlatformTwitter, PlatformLinkedIn, PlatformPinterest, PlatformBlog,
}

// DefaultPlatform is used when a request names no platform.
const DefaultPlatform = PlatformYouTube

var platformAliases = map[string]Platform{
	"twitter":        PlatformTwitter,
	"x":              PlatformTwitter,
	"youtube shorts": PlatformShorts,
	"yt shorts":      PlatformShorts,
}

// ParsePlatform matches s case-insensitively against the platform
// enumeration and its aliases.
func ParsePlatform(s string) (Platform, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Platforms {
		if strings.ToLower(string(p)) == needle {
			return p, nil
		}
	}
	if p, ok := platformAliases[needle]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

// ShortForm reports whether the platform favors short, punchy content.
func (p Platform) ShortForm() bool {
	switch p {
	case PlatformShorts, PlatformTikTok, PlatformInstagram, PlatformTwitter:
		return true
	default:
		return false
	}
}

// LengthGuidance is the script length instruction given to the model.
func (p Platform) LengthGuidance() string {
	switch p {
	case PlatformTwitter:
		return "Short-form: keep the script to a tight 2-3 paragraph thread-style outline with punchy lines."
	case PlatformBlog, PlatformLinkedIn:
		return "Long-form: write a full article-style script of 5-7 paragraphs with clear subheadings."
	}
	if p.ShortForm() {
		return "Short-form: keep the script to 2-3 short paragraphs that read aloud in under 60 seconds."
	}
	return "Long-form: write a 4-5 paragraph script with a hook, main beats and a call to action."
}

// Section selects which part of the result the creator cares most about.
type Section string

const (
	SectionAll         Section = "all"
	SectionTitle       Section = "title"
	SectionDescription Section = "description"
	SectionTags        Section = "tags"
	SectionHashtags    Section = "hashtags"
	SectionThumbnail   Section = "thumbnail"
	SectionScript      Section = "script"
)

// Sections lists every accepted section.
var Sections = []Section{
	SectionAll, SectionTitle, SectionDescription, SectionTags,
	SectionHashtags, SectionThumbnail, SectionScript,
}

// ParseSection matches s case-insensitively. An empty string is SectionAll.
func ParseSection(s string) (Section, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return SectionAll, nil
	}
	for _, sec := range Sections {
		if string(sec) == needle {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unsupported content type %q", s)
}

// Request is one generation request as sent by a client.
//
// ContentType carries either a section selector or, for older clients, a
// platform name. Normalize resolves it.
type Request struct {
	Theme       string `json:"theme"`
	Tone        string `json:"tone"`
	Platform    string `json:"platform,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Normalized is a validated request with canonical enum values.
type Normalized struct {
	Theme    string
	Tone     Tone
	Platform Platform
	Section  Section
}

// Normalize trims and validates r. Every failure is a ClientRequestError.
func (r Request) Normalize() (Normalized, error) {
	var out Normalized

	out.Theme = strings.TrimSpace(r.Theme)
	if out.Theme == "" {
		return out, NewClientError("theme is required")
	}
	if len(out.Theme) > MaxThemeBytes {
		return out, NewClientError(fmt.Sprintf("theme exceeds %d bytes", MaxThemeBytes))
	}

	if strings.TrimSpace(r.Tone) == "" {
		return out, NewClientError("tone is required")
	}
	tone, err := ParseTone(r.Tone)
	if err != nil {
		return out, NewClientError(err.Error())
	}
	out.Tone = tone

	out.Section = SectionAll
	platformName := strings.TrimSpace(r.Platform)
	if ct := strings.TrimSpace(r.ContentType); ct != "" {
		if sec, err := ParseSection(ct); err == nil {
			out.Section = sec
		} else if platformName == "" {
			platformName = ct
		} else {
			return out, NewClientError(err.Error())
		}
	}

	if platformName == "" {
		out.Platform = DefaultPlatform
		return out, nil
	}
	platform, err := ParsePlatform(platformName)
	if err != nil {
		return out, NewClientError(err.Error())
	}
	out.Platform = platform
	return out, nil
}

// MaxThemeBytes bounds the free-text theme.
const MaxThemeBytes = 4000

// Result is the six-field generated content package.
type Result struct {
	Script        string   `json:"script"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	Hashtags      []string `json:"hashtags"`
	ThumbnailIdea string   `json:"thumbnailIdea"`
}

// Generation is a validated result together with the exact object bytes the
// model produced.
type Generation struct {
	Result Result
	Raw    json.RawMessage
}
