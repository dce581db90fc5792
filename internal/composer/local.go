package composer

import (
	"context"
	"errors"

	"github.com/nextgenai/nextgen/internal/studio"
)

// LocalGenerator runs the generation service in-process and reports
// failures the way Client does.
type LocalGenerator struct {
	Service *studio.Service
}

func (g LocalGenerator) Generate(ctx context.Context, req studio.Request) (studio.Result, error) {
	if g.Service == nil {
		return studio.Result{}, &RequestError{Message: studio.MsgNotConfigured}
	}
	gen, err := g.Service.Generate(ctx, req)
	if err != nil {
		return studio.Result{}, fromStudioError(err)
	}
	return gen.Result, nil
}

func fromStudioError(err error) error {
	switch studio.KindOf(err) {
	case studio.KindRateLimited:
		return ErrRateLimited
	case studio.KindQuota:
		return ErrQuotaExhausted
	}
	msg := studio.MsgUpstream
	var se *studio.Error
	if errors.As(err, &se) && se.Message != "" {
		msg = se.Message
	}
	return &RequestError{Status: studio.HTTPStatus(studio.KindOf(err)), Message: msg}
}
