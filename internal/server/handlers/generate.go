package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/fulmenhq/gofulmen/errors"

	apperrors "github.com/nextgenai/nextgen/internal/errors"
	"github.com/nextgenai/nextgen/internal/studio"
)

// DefaultMaxBodyBytes bounds generation request bodies.
const DefaultMaxBodyBytes int64 = 64 << 10

// Generator produces content for a generation request.
type Generator interface {
	Generate(ctx context.Context, req studio.Request) (*studio.Generation, error)
}

// GenerateHandler serves POST /functions/v1/generate-content.
type GenerateHandler struct {
	Generator    Generator
	MaxBodyBytes int64
}

// NewGenerateHandler wires a handler with the default body limit.
func NewGenerateHandler(gen Generator) *GenerateHandler {
	return &GenerateHandler{Generator: gen, MaxBodyBytes: DefaultMaxBodyBytes}
}

func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	var req studio.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(&req); err != nil {
		apperrors.RespondWithMessage(w, r, decodeError(r.Context(), err))
		return
	}
	// Trailing data after the object is malformed input.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		apperrors.RespondWithMessage(w, r,
			apperrors.WrapInvalidInput(r.Context(), err, "Invalid JSON body"))
		return
	}

	if h.Generator == nil {
		apperrors.RespondWithMessage(w, r,
			apperrors.FromGeneration(r.Context(), &studio.Error{Kind: studio.KindConfiguration, Message: studio.MsgNotConfigured}))
		return
	}

	gen, err := h.Generator.Generate(r.Context(), req)
	if err != nil {
		apperrors.RespondWithMessage(w, r, apperrors.FromGeneration(r.Context(), err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gen.Raw)
}

func decodeError(ctx context.Context, err error) *errors.ErrorEnvelope {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return apperrors.Wrap(ctx, apperrors.CodePayloadTooLarge, err, "Request body too large")
	}
	return apperrors.WrapInvalidInput(ctx, err, "Invalid JSON body")
}
