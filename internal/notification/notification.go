package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Notification is a user-facing or admin-console message. UserID is empty for
// admin-wide notifications.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	IsRead    bool
	IsAdmin   bool
	CreatedAt time.Time
}

// Store persists notifications.
type Store interface {
	Insert(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	ListAdmin(ctx context.Context) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// Service emits and serves notifications. Emission is fire-and-forget: store
// failures are logged, never propagated, so a notification outage can not
// roll back an order or a credit.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a notification service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Notify records a notification for one user. Best effort.
func (s *Service) Notify(ctx context.Context, userID, title, message string) {
	s.insert(ctx, Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
}

// NotifyAdmin records an admin-wide notification. Best effort.
func (s *Service) NotifyAdmin(ctx context.Context, title, message string) {
	s.insert(ctx, Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		IsAdmin:   true,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) insert(ctx context.Context, n Notification) {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Insert(ctx, n); err != nil {
		s.logger.Warn("notification dropped", "title", n.Title, "error", err)
	}
}

// ListByUser returns the user's notifications, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAdmin returns the admin feed, newest first.
func (s *Service) ListAdmin(ctx context.Context) ([]Notification, error) {
	return s.store.ListAdmin(ctx)
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	return s.store.MarkRead(ctx, id, userID)
}
