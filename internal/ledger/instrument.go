package ledger

import (
	"context"
	"errors"
)

type instrumentedEngine struct {
	Engine
	observe func(reason, outcome string)
}

// Instrument wraps an engine and reports every Apply outcome to observe.
func Instrument(e Engine, observe func(reason, outcome string)) Engine {
	if observe == nil {
		return e
	}
	return &instrumentedEngine{Engine: e, observe: observe}
}

func (e *instrumentedEngine) Apply(ctx context.Context, in ApplyInput) (Result, error) {
	res, err := e.Engine.Apply(ctx, in)
	e.observe(string(in.Reason), outcomeLabel(err))
	return res, err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, ErrDuplicateOperation):
		return "duplicate"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient"
	case errors.Is(err, ErrAccountBlocked):
		return "blocked"
	case errors.Is(err, ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, ErrStoreUnavailable):
		return "unavailable"
	default:
		return "invalid"
	}
}
