package account

import "time"

// Account represents a registered panel user. Balance is mutated exclusively
// through the ledger engine; the field here mirrors the stored value for
// display.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	Balance      int64
	IsBlocked    bool
	EmailBlocked bool
	IsAdmin      bool
	CreatedAt    time.Time
}

// Credentials carries registration and login input.
type Credentials struct {
	Username string
	Email    string
	Password string
}
