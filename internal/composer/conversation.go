package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nextgenai/nextgen/internal/output"
	"github.com/nextgenai/nextgen/internal/studio"
)

// Notification texts shown for failures.
const (
	NoticeRateLimited = "Rate limit exceeded. Please try again in a moment."
	NoticeQuota       = "AI credits depleted. Please contact support."
	NoticeSuccess     = "Content generated successfully!"
)

var (
	// ErrEmptyTheme is returned before any network call for a blank theme.
	ErrEmptyTheme = errors.New("theme is required")
	// ErrBusy is returned while another request of the conversation runs.
	ErrBusy = errors.New("a generation request is already in progress")
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    Role
	Content string
	// Result is set on assistant messages.
	Result *studio.Result
}

// Level grades a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows transient notifications outside the transcript.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Exchange is the request and result of a successful submission.
type Exchange struct {
	Request studio.Request
	Result  studio.Result
}

// Conversation is one chat thread. It allows a single request in flight.
type Conversation struct {
	gen      Generator
	notifier Notifier

	mu       sync.Mutex
	busy     bool
	messages []Message
	last     *Exchange
}

// NewConversation creates an empty thread. notifier may be nil.
func NewConversation(gen Generator, notifier Notifier) *Conversation {
	return &Conversation{gen: gen, notifier: notifier}
}

// Submit validates the inputs and issues one generation request. The
// transcript only changes when the request succeeds.
func (c *Conversation) Submit(ctx context.Context, theme, tone, platform string) (*studio.Result, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrEmptyTheme
	}
	t, p, err := parseOptions(tone, platform)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.busy = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	req := studio.Request{Theme: theme, Tone: string(t), Platform: string(p)}
	result, genErr := c.gen.Generate(ctx, req)

	c.mu.Lock()
	if genErr == nil {
		c.messages = append(c.messages,
			Message{Role: RoleUser, Content: userPrompt(req)},
			Message{Role: RoleAssistant, Content: output.RenderResult(result), Result: &result},
		)
		c.last = &Exchange{Request: req, Result: result}
	}
	c.mu.Unlock()

	if genErr != nil {
		c.notify(LevelError, Notice(genErr))
		return nil, genErr
	}
	c.notify(LevelSuccess, NoticeSuccess)
	return &result, nil
}

// Busy reports whether a request is in flight.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent successful exchange.
func (c *Conversation) Last() (Exchange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Exchange{}, false
	}
	return *c.last, true
}

// Reset clears the transcript.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.last = nil
}

// Notice maps a generation error to the notification shown to the user.
func Notice(err error) string {
	var reqErr *RequestError
	switch {
	case errors.Is(err, ErrRateLimited):
		return NoticeRateLimited
	case errors.Is(err, ErrQuotaExhausted):
		return NoticeQuota
	case errors.As(err, &reqErr) && strings.TrimSpace(reqErr.Message) != "":
		return reqErr.Message
	case err != nil:
		return err.Error()
	}
	return fallbackMessage
}

func (c *Conversation) notify(level Level, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(level, msg)
	}
}

// parseOptions rejects values outside the enumerations. Blank values take
// the defaults preselected in the UI.
func parseOptions(tone, platform string) (studio.Tone, studio.Platform, error) {
	t := studio.DefaultTone
	if strings.TrimSpace(tone) != "" {
		parsed, err := studio.ParseTone(tone)
		if err != nil {
			return "", "", err
		}
		t = parsed
	}
	p := studio.DefaultPlatform
	if strings.TrimSpace(platform) != "" {
		parsed, err := studio.ParsePlatform(platform)
		if err != nil {
			return "", "", err
		}
		p = parsed
	}
	return t, p, nil
}

func userPrompt(req studio.Request) string {
	return fmt.Sprintf("Generate content for: **%s**\n\n- Tone: %s\n- Platform: %s", req.Theme, req.Tone, req.Platform)
}
