package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Route is a direct scheduled connection between two destinations.
// A route may additionally carry an ordered chain of intermediate stops;
// any ordered pair of those stops is itself a sellable travel segment.
type Route struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	OriginID        uuid.UUID `json:"origin_id"`
	DestinationID   uuid.UUID `json:"destination_id"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
}

// RouteStop is one row of the route_stops_detailed view: a stop on a route,
// ordered by StopOrder, with the destination name already joined in.
// DepartureTime and ArrivalTime are local times of day in "15:04" format.
type RouteStop struct {
	RouteID         uuid.UUID `json:"route_id"`
	RouteName       string    `json:"route_name"`
	DestinationID   uuid.UUID `json:"destination_id"`
	DestinationName string    `json:"destination_name"`
	StopOrder       int       `json:"stop_order"`
	DepartureTime   string    `json:"departure_time"`
	ArrivalTime     string    `json:"arrival_time"`
}

// RouteStopInput is the admin-facing shape for replacing a route's stop chain.
type RouteStopInput struct {
	DestinationID uuid.UUID `json:"destination_id"`
	StopOrder     int       `json:"stop_order"`
	DepartureTime string    `json:"departure_time"`
	ArrivalTime   string    `json:"arrival_time"`
}

// RouteOption kinds, surfaced on TripOffer.Kind.
const (
	OptionDirect  = "direct"
	OptionSegment = "segment"
)

// RouteOption is a resolved way of travelling between an origin candidate and
// a destination candidate. It is a closed sum: the only implementations are
// DirectOption and SegmentOption. Offer assembly type-switches on the variant,
// so no variant ever carries fields that only apply to the other.
type RouteOption interface {
	// OptionRouteID returns the id of the route this option travels on.
	OptionRouteID() uuid.UUID

	// Label returns the human-readable route name shown on the offer.
	Label() string

	routeOption()
}

// DirectOption is a RouteOption backed by a direct Route row.
// Origin and destination names come from the matched destination records.
type DirectOption struct {
	Route           Route
	OriginName      string
	DestinationName string
}

func (o DirectOption) OptionRouteID() uuid.UUID { return o.Route.ID }

// Label returns the route's display name verbatim.
func (o DirectOption) Label() string { return o.Route.Name }

func (DirectOption) routeOption() {}

// SegmentOption is a RouteOption carved out of a route's stop chain: board at
// Origin, alight at Destination, passing through Intermediates in stop order.
// Invariant: Origin.StopOrder < Destination.StopOrder on the same RouteID.
type SegmentOption struct {
	RouteID       uuid.UUID
	RouteName     string
	Origin        RouteStop
	Destination   RouteStop
	Intermediates []RouteStop
}

func (o SegmentOption) OptionRouteID() uuid.UUID { return o.RouteID }

// Label synthesizes the display name, e.g. `Paris Express (via Rabat, Tanger)`.
// Segments with no intermediate stops use the bare route name.
func (o SegmentOption) Label() string {
	if len(o.Intermediates) == 0 {
		return o.RouteName
	}
	names := make([]string, len(o.Intermediates))
	for i, s := range o.Intermediates {
		names[i] = s.DestinationName
	}
	return o.RouteName + " (via " + strings.Join(names, ", ") + ")"
}

func (SegmentOption) routeOption() {}
