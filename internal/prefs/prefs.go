// Package prefs persists user preferences and saved ideas for the CLI
// surfaces. Callers create a Store once and pass it where it is needed.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nextgenai/nextgen/internal/studio"
)

// Consent records the cookie-consent choice.
type Consent string

const (
	ConsentUnset    Consent = ""
	ConsentAccepted Consent = "accepted"
	ConsentDeclined Consent = "declined"
)

// ParseConsent accepts accept/accepted and decline/declined.
func ParseConsent(s string) (Consent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept", "accepted", "yes":
		return ConsentAccepted, nil
	case "decline", "declined", "no":
		return ConsentDeclined, nil
	case "", "unset":
		return ConsentUnset, nil
	}
	return ConsentUnset, fmt.Errorf("invalid consent %q (want accept or decline)", s)
}

// Preferences are the per-user settings.
type Preferences struct {
	Username      string  `json:"username,omitempty"`
	CookieConsent Consent `json:"cookieConsent,omitempty"`
}

const (
	keyUsername = "username"
	keyConsent  = "cookie_consent"
)

func (p Preferences) values() map[string]string {
	return map[string]string{
		keyUsername: strings.TrimSpace(p.Username),
		keyConsent:  string(p.CookieConsent),
	}
}

// Idea is a saved generation.
type Idea struct {
	ID        string        `json:"id"`
	Theme     string        `json:"theme"`
	Tone      string        `json:"tone"`
	Platform  string        `json:"platform"`
	Result    studio.Result `json:"result"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Store loads and saves preferences and the saved-idea history. History is
// capped; saving past the cap evicts the oldest idea.
type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, p Preferences) error

	SaveIdea(ctx context.Context, idea Idea) (Idea, error)
	ListIdeas(ctx context.Context) ([]Idea, error)
	GetIdea(ctx context.Context, id string) (Idea, error)
	ClearIdeas(ctx context.Context) (int, error)
}

// DefaultHistoryLimit caps saved ideas when no limit is configured.
const DefaultHistoryLimit = 10

// ErrIdeaNotFound is returned by GetIdea for unknown ids.
var ErrIdeaNotFound = errors.New("saved idea not found")

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
