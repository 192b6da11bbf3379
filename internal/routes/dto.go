package routes

import (
	"time"

	"github.com/boostpanel/boostpanel/internal/account"
	"github.com/boostpanel/boostpanel/internal/activity"
	"github.com/boostpanel/boostpanel/internal/catalog"
	"github.com/boostpanel/boostpanel/internal/coupon"
	"github.com/boostpanel/boostpanel/internal/ledger"
	"github.com/boostpanel/boostpanel/internal/notification"
	"github.com/boostpanel/boostpanel/internal/order"
	"github.com/boostpanel/boostpanel/internal/recharge"
)

// All monetary fields on the wire are integer centimes.

type orderJSON struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ServiceID string `json:"service_id"`
	Link      string `json:"link"`
	Quantity  int64  `json:"quantity"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toOrderJSON(o order.Order) orderJSON {
	return orderJSON{
		ID:        o.ID,
		UserID:    o.UserID,
		ServiceID: o.ServiceID,
		Link:      o.Link,
		Quantity:  o.Quantity,
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}

func toOrderListJSON(orders []order.Order) []orderJSON {
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	return out
}

type serviceJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	PricePer1000 int64  `json:"price_per_1000"`
	CustomPrice  int64  `json:"custom_price,omitempty"`
	MinOrder     int64  `json:"min_order"`
	MaxOrder     int64  `json:"max_order"`
	IsVisible    bool   `json:"is_visible"`
}

func toServiceJSON(s catalog.Service) serviceJSON {
	return serviceJSON{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Category:     s.Category,
		PricePer1000: s.PricePer1000,
		CustomPrice:  s.CustomPrice,
		MinOrder:     s.MinOrder,
		MaxOrder:     s.MaxOrder,
		IsVisible:    s.IsVisible,
	}
}

func toServiceListJSON(services []catalog.Service) []serviceJSON {
	out := make([]serviceJSON, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceJSON(s))
	}
	return out
}

type accountJSON struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Balance      int64  `json:"balance"`
	IsBlocked    bool   `json:"is_blocked"`
	EmailBlocked bool   `json:"email_blocked"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
}

func toAccountJSON(a account.Account) accountJSON {
	return accountJSON{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Balance:      a.Balance,
		IsBlocked:    a.IsBlocked,
		EmailBlocked: a.EmailBlocked,
		IsAdmin:      a.IsAdmin,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}

type entryJSON struct {
	ID               string `json:"id"`
	Delta            int64  `json:"delta"`
	Reason           string `json:"reason"`
	ReferenceID      string `json:"reference_id"`
	ResultingBalance int64  `json:"resulting_balance"`
	CreatedAt        string `json:"created_at"`
}

func toEntryListJSON(entries []ledger.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryJSON{
			ID:               e.ID,
			Delta:            e.Delta,
			Reason:           string(e.Reason),
			ReferenceID:      e.ReferenceID,
			ResultingBalance: e.ResultingBalance,
			CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

type notificationJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func toNotificationListJSON(notes []notification.Notification) []notificationJSON {
	out := make([]notificationJSON, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationJSON{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

type activityJSON struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func toActivityListJSON(records []activity.Record) []activityJSON {
	out := make([]activityJSON, 0, len(records))
	for _, r := range records {
		out = append(out, activityJSON{
			ID:          r.ID,
			UserID:      r.UserID,
			Type:        r.Type,
			Description: r.Description,
			CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

type rechargeJSON struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	Amount           int64  `json:"amount"`
	ReceiptReference string `json:"receipt_reference,omitempty"`
	PaymentDate      string `json:"payment_date,omitempty"`
	PaymentTime      string `json:"payment_time,omitempty"`
	Description      string `json:"description,omitempty"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

func toRechargeJSON(r recharge.Request) rechargeJSON {
	return rechargeJSON{
		ID:               r.ID,
		UserID:           r.UserID,
		Amount:           r.Amount,
		ReceiptReference: r.ReceiptReference,
		PaymentDate:      r.PaymentDate,
		PaymentTime:      r.PaymentTime,
		Description:      r.Description,
		Status:           string(r.Status),
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
	}
}

func toRechargeListJSON(requests []recharge.Request) []rechargeJSON {
	out := make([]rechargeJSON, 0, len(requests))
	for _, r := range requests {
		out = append(out, toRechargeJSON(r))
	}
	return out
}

type couponJSON struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Amount    int64  `json:"amount"`
	IsUsed    bool   `json:"is_used"`
	UsedBy    string `json:"used_by,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toCouponJSON(c coupon.Coupon) couponJSON {
	return couponJSON{
		ID:        c.ID,
		Code:      c.Code,
		Amount:    c.Amount,
		IsUsed:    c.IsUsed,
		UsedBy:    c.UsedBy,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toCouponListJSON(coupons []coupon.Coupon) []couponJSON {
	out := make([]couponJSON, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, toCouponJSON(c))
	}
	return out
}
