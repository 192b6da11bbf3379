package coupon

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidCode indicates no coupon exists for the code.
	ErrInvalidCode = errors.New("invalid coupon code")

	// ErrAlreadyRedeemed indicates the one-shot flag was already claimed,
	// possibly by a concurrent redemption of the same code.
	ErrAlreadyRedeemed = errors.New("coupon already redeemed")

	// ErrInvalidAmount rejects non-positive coupon amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Coupon is a one-shot balance credit voucher.
type Coupon struct {
	ID        string
	Code      string
	Amount    int64
	IsUsed    bool
	UsedBy    string
	UsedAt    time.Time
	CreatedAt time.Time
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode produces a code in the fixed XXXX-XXXX-XXXX-XXXX format.
func GenerateCode() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failure is unrecoverable
	}
	var b strings.Builder
	for i, c := range buf {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String()
}
