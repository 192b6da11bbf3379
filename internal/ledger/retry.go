package ledger

import (
	"context"
	"errors"
	"time"
)

// retryDelays bounds how long a caller waits out a transient store failure.
var retryDelays = []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 900 * time.Millisecond}

// ApplyWithRetry calls Apply, retrying transient store failures with bounded
// exponential backoff. Safe because Apply is idempotent under the same key.
func ApplyWithRetry(ctx context.Context, e Engine, in ApplyInput) (Result, error) {
	in.IdempotencyKey = in.Key()

	res, err := e.Apply(ctx, in)
	for attempt := 0; errors.Is(err, ErrStoreUnavailable) && attempt < len(retryDelays); attempt++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
		res, err = e.Apply(ctx, in)
	}
	return res, err
}
