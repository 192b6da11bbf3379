package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/boostpanel/boostpanel/internal/ledger"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service manages account lifecycle. Balances belong to the ledger engine;
// this service only reads them.
type Service struct {
	repo   Repository
	ledger ledger.Engine
}

// NewService creates an account service.
func NewService(repo Repository, engine ledger.Engine) *Service {
	return &Service{repo: repo, ledger: engine}
}

// Register creates an account with a hashed password and a zero balance.
func (s *Service) Register(ctx context.Context, creds Credentials) (Account, error) {
	username := strings.TrimSpace(creds.Username)
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if username == "" || email == "" {
		return Account{}, errors.New("username and email are required")
	}
	if len(creds.Password) < 8 {
		return Account{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	acc := Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, acc); err != nil {
		return Account{}, err
	}
	if err := s.ledger.EnsureAccount(ctx, acc.ID); err != nil {
		return Account{}, err
	}

	return acc, nil
}

// Authenticate verifies email and password.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Account, error) {
	acc, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(creds.Password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return acc, nil
}

// Get fetches an account by id.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByUsername fetches an account by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (Account, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

// Balance reads the authoritative ledger balance.
func (s *Service) Balance(ctx context.Context, id string) (int64, error) {
	return s.ledger.Balance(ctx, id)
}

// Entries lists the account's ledger history.
func (s *Service) Entries(ctx context.Context, id string) ([]ledger.Entry, error) {
	return s.ledger.Entries(ctx, id)
}

// List returns all accounts for the admin console.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

// SetBlocked toggles the account-wide block; blocked accounts reject every
// ledger operation except admin adjustments.
func (s *Service) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return s.repo.SetBlocked(ctx, id, blocked)
}

// SetEmailBlocked toggles the email block flag.
func (s *Service) SetEmailBlocked(ctx context.Context, id string, blocked bool) error {
	return s.repo.SetEmailBlocked(ctx, id, blocked)
}
