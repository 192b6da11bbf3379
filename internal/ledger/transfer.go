package ledger

import (
	"context"
	"errors"
)

// ErrTransferCompensated reports a transfer reference whose debit was already
// refunded after a failed credit leg. The reference is burned: replaying it
// would credit the recipient while the sender has been made whole. Callers
// must start over with a fresh reference.
var ErrTransferCompensated = errors.New("ledger: transfer reference already compensated")

const transferCompensatePrefix = "TRANSFER_COMPENSATE:"

// TransferResult describes the outcome of a two-sided transfer.
type TransferResult struct {
	SenderBalance    int64
	RecipientBalance int64
}

// Transfer moves amount from one account to another as two idempotent applies
// sharing a reference id. The debit must land before the credit is attempted.
// If the credit fails for good, the debit is compensated with an
// equal-and-opposite apply. A reference that has been compensated is refused
// on every later attempt with ErrTransferCompensated.
func Transfer(ctx context.Context, e Engine, fromID, toID string, amount int64, referenceID string) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ErrInvalidOperation
	}

	out, err := ApplyWithRetry(ctx, e, ApplyInput{
		AccountID:   fromID,
		Delta:       -amount,
		Reason:      ReasonTransferOut,
		ReferenceID: referenceID,
	})
	replayed := errors.Is(err, ErrDuplicateOperation)
	if err != nil && !replayed {
		return TransferResult{}, err
	}

	// A replayed debit means an earlier attempt got past this point. If that
	// attempt ended in compensation the sender is already whole, and crediting
	// the recipient now would create money out of nothing.
	if replayed {
		refunded, err := compensated(ctx, e, fromID, referenceID)
		if err != nil {
			return TransferResult{}, err
		}
		if refunded {
			return TransferResult{}, ErrTransferCompensated
		}
	}

	in, err := ApplyWithRetry(ctx, e, ApplyInput{
		AccountID:   toID,
		Delta:       amount,
		Reason:      ReasonTransferIn,
		ReferenceID: referenceID,
	})
	if err != nil && !errors.Is(err, ErrDuplicateOperation) {
		compensate(ctx, e, fromID, amount, referenceID)
		return TransferResult{}, err
	}

	return TransferResult{SenderBalance: out.ResultingBalance, RecipientBalance: in.ResultingBalance}, nil
}

// compensated reports whether the sender already holds a refund entry for
// this reference.
func compensated(ctx context.Context, e Engine, fromID, referenceID string) (bool, error) {
	entries, err := e.Entries(ctx, fromID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.Reason == ReasonAdminAdjust && entry.ReferenceID == referenceID {
			return true, nil
		}
	}
	return false, nil
}

// compensate re-credits the sender after a failed credit leg. Admin-adjust
// semantics are deliberate: the refund must land even if the sender got
// blocked mid-flight.
func compensate(ctx context.Context, e Engine, fromID string, amount int64, referenceID string) {
	_, err := ApplyWithRetry(ctx, e, ApplyInput{
		AccountID:      fromID,
		Delta:          amount,
		Reason:         ReasonAdminAdjust,
		ReferenceID:    referenceID,
		IdempotencyKey: transferCompensatePrefix + referenceID,
	})
	if err != nil && !errors.Is(err, ErrDuplicateOperation) {
		// Out of retries: the sender stays debited and no refund entry exists
		// yet. A later attempt with the same reference re-tries the credit
		// and, failing that, lands this same keyed refund.
		return
	}
}
