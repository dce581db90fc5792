package driver

import (
	"errors"
	"fmt"
)

// ProviderError is returned when a gateway responds with a non-2xx status.
//
// RawResponse holds the response body bytes and must never include API keys.
type ProviderError struct {
	Provider    string
	StatusCode  int
	Message     string
	RawResponse []byte
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// AsProviderError unwraps err into a *ProviderError when possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) && pe != nil {
		return pe, true
	}
	return nil, false
}

// EnvelopeError reports a 2xx gateway reply whose body could not be decoded
// into a completion.
type EnvelopeError struct {
	Provider string
	Raw      []byte
	Err      error
}

func (e *EnvelopeError) Error() string {
	if e == nil {
		return "invalid completion envelope"
	}
	return fmt.Sprintf("%s returned an invalid completion envelope: %v", e.Provider, e.Err)
}

func (e *EnvelopeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
