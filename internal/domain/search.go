package domain

import "time"

// Trip types carried through from the search form. Round-trip does not change
// resolution; the UI issues a second search with the legs swapped.
const (
	TripTypeOneWay    = "one-way"
	TripTypeRoundTrip = "round-trip"
)

// SearchParams is the input contract of the itinerary resolver.
// FromCity and ToCity are free text and may include a country suffix
// ("Casablanca, Maroc"). A nil DepartureDate means "any future date"; a date
// at exactly midnight means "that whole day"; any other time means "from that
// instant onward".
type SearchParams struct {
	FromCity      string     `json:"from_city"`
	ToCity        string     `json:"to_city"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Adults        int        `json:"adults"`
	Children      int        `json:"children"`
	TripType      string     `json:"trip_type"`
	SessionID     string     `json:"-"` // set from the X-Session-ID header
}

// Search outcome statuses. Only SearchOK carries offers; the others are
// user-facing "nothing found" diagnoses, not errors.
const (
	SearchOK            = "ok"
	SearchNoDestination = "no_destination_match"
	SearchNoItinerary   = "no_itinerary"
	SearchNoTripForDate = "no_trip_for_date"
	SearchNoTripsAtAll  = "no_trips_scheduled"
)

// SearchResult is the output contract of the itinerary resolver.
// Offers is ordered ascending by departure time and capped by the configured
// result limit. Dropped counts trips that matched the schedule query but were
// skipped during offer assembly because a bus or route option could not be
// resolved. NextDepartures is populated (up to 3 instants) only for
// SearchNoTripForDate, to tell the user the nearest dates that do have trips.
type SearchResult struct {
	Status         string      `json:"status"`
	Message        string      `json:"message,omitempty"`
	Offers         []TripOffer `json:"offers"`
	Dropped        int         `json:"dropped,omitempty"`
	NextDepartures []time.Time `json:"next_departures,omitempty"`
}

// LastSearch is the session-scoped snapshot written after a successful search
// so back-navigation can restore the form. Best-effort convenience only.
type LastSearch struct {
	FromCity      string     `json:"from_city"`
	ToCity        string     `json:"to_city"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	Adults        int        `json:"adults"`
	Children      int        `json:"children"`
	SavedAt       time.Time  `json:"saved_at"`
}
