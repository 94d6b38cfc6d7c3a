package domain

import (
	"time"

	"github.com/google/uuid"
)

// GiftCard is a prepaid credit redeemable against bookings.
// Balance only ever decreases; a card with zero balance stays on record.
type GiftCard struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	InitialAmount float64    `json:"initial_amount"`
	Balance       float64    `json:"balance"`
	RecipientName string     `json:"recipient_name,omitempty"`
	Message       string     `json:"message,omitempty"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Redeemable reports whether the card can cover amount at the given instant.
func (g GiftCard) Redeemable(amount float64, now time.Time) bool {
	if !g.IsActive || amount <= 0 {
		return false
	}
	if g.ExpiresAt != nil && g.ExpiresAt.Before(now) {
		return false
	}
	return g.Balance >= amount
}
