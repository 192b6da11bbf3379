package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memAccount struct {
	balance      int64
	blocked      bool
	emailBlocked bool
}

type inMemoryEngine struct {
	mu       sync.RWMutex
	accounts map[string]*memAccount
	entries  map[string][]Entry
	byKey    map[string]Result
}

// NewInMemory creates a concurrency-safe in-memory engine with the same
// semantics as the Postgres engine. Used in tests and DB-less development.
func NewInMemory() Engine {
	return &inMemoryEngine{
		accounts: make(map[string]*memAccount),
		entries:  make(map[string][]Entry),
		byKey:    make(map[string]Result),
	}
}

func (e *inMemoryEngine) EnsureAccount(_ context.Context, accountID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.accounts[accountID]; !ok {
		e.accounts[accountID] = &memAccount{}
	}
	return nil
}

func (e *inMemoryEngine) Apply(_ context.Context, in ApplyInput) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if res, ok := e.byKey[in.Key()]; ok {
		return res, ErrDuplicateOperation
	}

	acc, ok := e.accounts[in.AccountID]
	if !ok {
		return Result{}, ErrAccountNotFound
	}
	if (acc.blocked || acc.emailBlocked) && in.Reason != ReasonAdminAdjust {
		return Result{}, ErrAccountBlocked
	}
	if acc.balance+in.Delta < 0 {
		return Result{}, ErrInsufficientBalance
	}

	acc.balance += in.Delta
	entry := Entry{
		ID:               uuid.NewString(),
		AccountID:        in.AccountID,
		Delta:            in.Delta,
		Reason:           in.Reason,
		ReferenceID:      in.ReferenceID,
		ResultingBalance: acc.balance,
		CreatedAt:        time.Now().UTC(),
	}
	e.entries[in.AccountID] = append(e.entries[in.AccountID], entry)

	res := Result{EntryID: entry.ID, ResultingBalance: acc.balance}
	e.byKey[in.Key()] = res
	return res, nil
}

func (e *inMemoryEngine) Balance(_ context.Context, accountID string) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	acc, ok := e.accounts[accountID]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return acc.balance, nil
}

func (e *inMemoryEngine) Entries(_ context.Context, accountID string) ([]Entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.accounts[accountID]; !ok {
		return nil, ErrAccountNotFound
	}
	out := make([]Entry, len(e.entries[accountID]))
	copy(out, e.entries[accountID])
	return out, nil
}
