package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionStatus string

const (
	PromotionActive   PromotionStatus = "active"
	PromotionInactive PromotionStatus = "inactive"
)

type Promotion struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	Status      PromotionStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Promotion) ActiveAt(t time.Time) bool {
	return p.Status == PromotionActive && !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

type NotificationKind string

const (
	NotificationAlert     NotificationKind = "alert"
	NotificationPromotion NotificationKind = "promotion"
	NotificationReminder  NotificationKind = "reminder"
)

// Notification targets one customer, or everyone when CustomerID is empty
// (broadcast).
type Notification struct {
	ID         string           `json:"id"`
	CustomerID string           `json:"customer_id,omitempty"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Kind       NotificationKind `json:"kind"`
	Read       bool             `json:"read"`
	SentAt     time.Time        `json:"sent_at"`
}
