package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a confirmed reservation of seats on a trip.
// Reference is the customer-facing lookup key ("AB-XXXXXXXX"); seats are
// decremented on the trip row when the booking is created.
type Booking struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	TripID        uuid.UUID `json:"trip_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	TotalPrice    float64   `json:"total_price"`
	GiftCardCode  string    `json:"gift_card_code,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Seats returns the number of seats the booking occupies.
func (b Booking) Seats() int { return b.Adults + b.Children }

// BookingExportRow is a single row in the admin CSV export of bookings.
// It is a flat, denormalized view: booking fields joined with the trip's
// departure and the route label, one row per booking.
type BookingExportRow struct {
	Reference     string
	CustomerName  string
	CustomerEmail string
	RouteName     string
	DepartureTime string // RFC 3339 formatted
	Seats         int
	TotalPrice    float64
	Status        string
	CreatedAt     string // RFC 3339 formatted
}
