// Package settings is a small key-value store for operator-tunable knobs
// (announcement banners, payment instructions, maintenance flags).
package settings

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound indicates the key has never been set.
var ErrNotFound = errors.New("setting not found")

// Setting is one key-value pair.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Store persists settings.
type Store interface {
	Get(ctx context.Context, key string) (Setting, error)
	Set(ctx context.Context, key, value string) (Setting, error)
	List(ctx context.Context) ([]Setting, error)
}

// Normalize canonicalizes a settings key.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
