package ledger

// SeedBalance seeds an account balance directly when using the in-memory
// engine. Test helper only; it bypasses the entry log.
func SeedBalance(e Engine, accountID string, amount int64) {
	if mem, ok := e.(*inMemoryEngine); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if acc, exists := mem.accounts[accountID]; exists {
			acc.balance = amount
		} else {
			mem.accounts[accountID] = &memAccount{balance: amount}
		}
	}
}

// SetBlocked flips the blocked flag on an in-memory account. Test helper.
func SetBlocked(e Engine, accountID string, blocked bool) {
	if mem, ok := e.(*inMemoryEngine); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if acc, exists := mem.accounts[accountID]; exists {
			acc.blocked = blocked
		}
	}
}

// SetEmailBlocked flips the email-blocked flag on an in-memory account. Test helper.
func SetEmailBlocked(e Engine, accountID string, blocked bool) {
	if mem, ok := e.(*inMemoryEngine); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if acc, exists := mem.accounts[accountID]; exists {
			acc.emailBlocked = blocked
		}
	}
}
