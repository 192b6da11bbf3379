package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/notification"
)

// Service manages coupon creation and redemption. Redemption claims the
// one-shot flag before crediting: the flag is the scarce resource, and the
// credit leg is idempotent under the coupon id, so a crash between the two
// steps can be replayed safely.
type Service struct {
	repo       Repository
	engine     ledger.Engine
	notifier   *notification.Service
	activities *activity.Log
}

// NewService constructs a coupon service.
func NewService(repo Repository, engine ledger.Engine, notifier *notification.Service, activities *activity.Log) *Service {
	return &Service{repo: repo, engine: engine, notifier: notifier, activities: activities}
}

// Create mints a new coupon with a generated code.
func (s *Service) Create(ctx context.Context, amount int64) (Coupon, error) {
	if amount <= 0 {
		return Coupon{}, ErrInvalidAmount
	}
	c := Coupon{
		ID:        uuid.NewString(),
		Code:      GenerateCode(),
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Coupon{}, err
	}
	return c, nil
}

// Redeem claims the coupon for userID and credits its amount. Exactly one
// concurrent redemption of a code succeeds; the rest get ErrAlreadyRedeemed.
func (s *Service) Redeem(ctx context.Context, userID, code string) (Coupon, error) {
	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return Coupon{}, err
	}
	if c.IsUsed {
		return Coupon{}, ErrAlreadyRedeemed
	}

	now := time.Now().UTC()
	if err := s.repo.Redeem(ctx, c.ID, userID, now); err != nil {
		return Coupon{}, err
	}
	c.IsUsed = true
	c.UsedBy = userID
	c.UsedAt = now

	if _, err := ledger.ApplyWithRetry(ctx, s.engine, ledger.ApplyInput{
		AccountID:   userID,
		Delta:       c.Amount,
		Reason:      ledger.ReasonCouponRedeem,
		ReferenceID: c.ID,
	}); err != nil && !errors.Is(err, ledger.ErrDuplicateOperation) {
		// The flag is already burned; give the coupon back so the user can
		// retry once the underlying condition clears.
		if relErr := s.repo.Release(ctx, c.ID); relErr != nil {
			return Coupon{}, fmt.Errorf("release coupon after failed credit: %w", relErr)
		}
		return Coupon{}, err
	}

	s.activities.Append(ctx, userID, activity.TypeCouponRedeemed,
		fmt.Sprintf("Redeemed coupon %s for %s", c.Code, formatAmount(c.Amount)))
	s.notifier.Notify(ctx, userID, "Coupon Redeemed",
		fmt.Sprintf("You have redeemed a coupon worth %s.", formatAmount(c.Amount)))

	return c, nil
}

// Delete removes a coupon from circulation.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// List returns all coupons for the admin console.
func (s *Service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.List(ctx)
}

func formatAmount(centimes int64) string {
	return fmt.Sprintf("%d.%02d DZD", centimes/100, centimes%100)
}
