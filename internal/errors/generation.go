package errors

import (
	"context"
	stderrors "errors"

	"github.com/fulmenhq/gofulmen/errors"

	"github.com/nextgenai/nextgen/internal/studio"
)

// FromGeneration converts a generation failure into an envelope whose code
// maps to the proxy status for the failure kind. The envelope message is the
// client-visible text; the underlying cause is kept in context for logs.
func FromGeneration(ctx context.Context, err error) *errors.ErrorEnvelope {
	kind := studio.KindOf(err)

	message := studio.MsgUpstream
	cause := err
	var se *studio.Error
	if stderrors.As(err, &se) && se != nil {
		message = se.Message
		if se.Err != nil {
			cause = se.Err
		}
	}

	var (
		code     string
		severity errors.Severity
	)
	switch kind {
	case studio.KindClient:
		code = CodeInvalidInput
	case studio.KindRateLimited:
		code, severity = CodeRateLimited, errors.SeverityMedium
	case studio.KindQuota:
		code, severity = CodeQuotaExhausted, errors.SeverityHigh
	case studio.KindConfiguration:
		code, severity = CodeConfigInvalid, errors.SeverityCritical
	case studio.KindMalformed:
		code, severity = CodeUpstreamMalformed, errors.SeverityHigh
	default:
		code, severity = CodeInternal, errors.SeverityHigh
	}

	correlationID := extractCorrelationID(ctx)
	envelope := errors.NewErrorEnvelope(code, message).
		WithCorrelationID(correlationID).
		WithTraceID(correlationID)

	details := map[string]interface{}{"kind": string(kind)}
	if cause != nil {
		details["wrapped_error"] = cause.Error()
	}
	if se != nil && se.Status > 0 {
		details["upstream_status"] = se.Status
	}
	if updated, updateErr := envelope.WithContext(details); updateErr == nil {
		envelope = updated
	}

	if severity != "" {
		envelope = WithSeverity(envelope, severity)
	}
	return envelope
}
