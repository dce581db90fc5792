package studio

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nextgenai/nextgen/internal/ailink"
	"github.com/nextgenai/nextgen/internal/ailink/driver"
)

// Kind classifies generation failures.
type Kind string

const (
	KindConfiguration Kind = "ConfigurationError"
	KindRateLimited   Kind = "RateLimited"
	KindQuota         Kind = "QuotaExhausted"
	KindUpstream      Kind = "UpstreamFailure"
	KindMalformed     Kind = "MalformedUpstreamResponse"
	KindClient        Kind = "ClientRequestError"
)

// Client-visible messages.
const (
	MsgNotConfigured = "AI gateway is not configured"
	MsgRateLimited   = "Rate limit exceeded. Please try again in a moment."
	MsgQuota         = "AI credits depleted. Please add credits to continue."
	MsgUpstream      = "AI gateway request failed"
	MsgMalformed     = "Invalid response format from AI"
)

// Error is a classified generation failure. Message is safe to return to
// clients; Raw and Err are diagnostic only.
type Error struct {
	Kind    Kind
	Message string
	// Status is the upstream HTTP status when one was received.
	Status int
	Raw    []byte
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "generation error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus is the status the proxy answers with for this error.
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	return HTTPStatus(e.Kind)
}

// Retryable reports whether an explicit user resubmission may succeed.
func (e *Error) Retryable() bool {
	if e == nil {
		return false
	}
	return e.Kind == KindRateLimited || e.Kind == KindUpstream
}

// HTTPStatus maps a kind to the proxy response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindQuota:
		return http.StatusPaymentRequired
	case KindClient:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind of err, or KindUpstream for unclassified errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) && se != nil {
		return se.Kind
	}
	return KindUpstream
}

// NewClientError reports a bad inbound request.
func NewClientError(message string) *Error {
	return &Error{Kind: KindClient, Message: message}
}

func malformed(raw []byte, err error) *Error {
	return &Error{Kind: KindMalformed, Message: MsgMalformed, Raw: raw, Err: err}
}

// classifyDriverError maps a gateway call failure onto the taxonomy.
func classifyDriverError(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ailink.ErrNotConfigured) {
		return &Error{Kind: KindConfiguration, Message: MsgNotConfigured, Err: err}
	}

	if pe, ok := driver.AsProviderError(err); ok {
		switch pe.StatusCode {
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited, Message: MsgRateLimited, Status: pe.StatusCode, Raw: pe.RawResponse, Err: err}
		case http.StatusPaymentRequired:
			return &Error{Kind: KindQuota, Message: MsgQuota, Status: pe.StatusCode, Raw: pe.RawResponse, Err: err}
		default:
			return &Error{
				Kind:    KindUpstream,
				Message: fmt.Sprintf("AI gateway returned %d", pe.StatusCode),
				Status:  pe.StatusCode,
				Raw:     pe.RawResponse,
				Err:     err,
			}
		}
	}

	var envErr *driver.EnvelopeError
	if errors.As(err, &envErr) && envErr != nil {
		return malformed(envErr.Raw, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindUpstream, Message: "AI gateway request timed out", Err: err}
	}
	return &Error{Kind: KindUpstream, Message: MsgUpstream, Err: err}
}
