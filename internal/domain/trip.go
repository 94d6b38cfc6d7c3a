package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip statuses. Only scheduled trips with seats left are bookable.
const (
	TripScheduled = "scheduled"
	TripCancelled = "cancelled"
	TripCompleted = "completed"
)

// TripStatuses lists every status value accepted by validation.
var TripStatuses = []string{TripScheduled, TripCancelled, TripCompleted}

// Trip is a concrete scheduled departure instance of a route.
type Trip struct {
	ID             uuid.UUID `json:"id"`
	RouteID        uuid.UUID `json:"route_id"`
	BusID          uuid.UUID `json:"bus_id"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Price          float64   `json:"price"` // EUR
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TripWindow bounds the departure-time filter of a schedule query.
// To is nil for open-ended forward searches ("from this instant on").
type TripWindow struct {
	From time.Time
	To   *time.Time // exclusive upper bound
}

// TripOffer is the flattened, display-ready result of a search: one bookable
// trip joined with its resolved route naming and bus details.
type TripOffer struct {
	TripID          uuid.UUID `json:"trip_id"`
	RouteID         uuid.UUID `json:"route_id"`
	RouteLabel      string    `json:"route_label"` // "Name" or "Name (via A, B)"
	Kind            string    `json:"kind"`        // "direct" | "segment"
	OriginName      string    `json:"origin_name"`
	DestinationName string    `json:"destination_name"`
	DepartureTime   time.Time `json:"departure_time"`
	ArrivalTime     time.Time `json:"arrival_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	AvailableSeats  int       `json:"available_seats"`
	Bus             Bus       `json:"bus"`
}
