// Package handler implements the HTTP handlers for the AtlasBus API.
// All handlers are methods on Server; they are split into resource-specific
// files (search.go, destination.go, etc.) but share the same Server struct so
// they can access its dependencies. Handlers parse and validate the HTTP
// shape of a request, delegate to a service, and map service errors to
// status codes. No business logic lives here.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// Servicer interfaces are defined here, in the consumer package, following
// the Go convention "accept interfaces, return concrete types". Handler tests
// inject mocks without touching the service or database layers.

// SearchServicer is the itinerary resolver contract the search handler uses.
type SearchServicer interface {
	Search(ctx context.Context, p domain.SearchParams) (domain.SearchResult, error)
}

// LastSearchReader returns the last successful search for a session.
type LastSearchReader interface {
	Get(sessionID string) (domain.LastSearch, bool)
}

// DestinationServicer defines the destination operations the handler depends on.
type DestinationServicer interface {
	Create(ctx context.Context, d domain.Destination) (domain.Destination, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Destination, int64, error)
	Update(ctx context.Context, d domain.Destination) (domain.Destination, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RouteServicer defines the route operations the handler depends on.
type RouteServicer interface {
	Create(ctx context.Context, rt domain.Route) (domain.Route, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int64, error)
	ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error)
	ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []domain.RouteStopInput) error
	Update(ctx context.Context, rt domain.Route) (domain.Route, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BusServicer defines the bus operations the handler depends on.
type BusServicer interface {
	Create(ctx context.Context, b domain.Bus) (domain.Bus, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)
	Update(ctx context.Context, b domain.Bus) (domain.Bus, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TripServicer defines the trip operations the handler depends on.
type TripServicer interface {
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, t domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingServicer defines the booking operations the handler depends on.
type BookingServicer interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (domain.Booking, error)
	Export(ctx context.Context) ([]domain.BookingExportRow, error)
}

// GiftCardServicer defines the gift card operations the handler depends on.
type GiftCardServicer interface {
	Purchase(ctx context.Context, g domain.GiftCard) (domain.GiftCard, error)
	GetByCode(ctx context.Context, code string) (domain.GiftCard, error)
	Redeem(ctx context.Context, code string, amount float64) (domain.GiftCard, error)
}

// ContentServicer defines the site-content operations the handler depends on.
type ContentServicer interface {
	Get(ctx context.Context, key string) (domain.SiteContent, error)
	List(ctx context.Context) ([]domain.SiteContent, error)
	Upsert(ctx context.Context, c domain.SiteContent) (domain.SiteContent, error)
}

// Server holds every handler dependency. Unused fields may be nil in tests
// that exercise a single resource.
type Server struct {
	search       SearchServicer
	lastSearch   LastSearchReader
	destinations DestinationServicer
	routes       RouteServicer
	buses        BusServicer
	trips        TripServicer
	bookings     BookingServicer
	giftCards    GiftCardServicer
	content      ContentServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	search SearchServicer,
	lastSearch LastSearchReader,
	destinations DestinationServicer,
	routes RouteServicer,
	buses BusServicer,
	trips TripServicer,
	bookings BookingServicer,
	giftCards GiftCardServicer,
	content ContentServicer,
) *Server {
	return &Server{
		search:       search,
		lastSearch:   lastSearch,
		destinations: destinations,
		routes:       routes,
		buses:        buses,
		trips:        trips,
		bookings:     bookings,
		giftCards:    giftCards,
		content:      content,
	}
}

// Routes returns the full API router. Mount it at "/" in main.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/search/last", s.GetLastSearch)

		r.Route("/destinations", func(r chi.Router) {
			r.Post("/", s.CreateDestination)
			r.Get("/", s.ListDestinations)
			r.Get("/{destinationID}", s.GetDestination)
			r.Put("/{destinationID}", s.UpdateDestination)
			r.Delete("/{destinationID}", s.DeleteDestination)
		})

		r.Route("/routes", func(r chi.Router) {
			r.Post("/", s.CreateRoute)
			r.Get("/", s.ListRoutes)
			r.Get("/{routeID}", s.GetRoute)
			r.Put("/{routeID}", s.UpdateRoute)
			r.Delete("/{routeID}", s.DeleteRoute)
			r.Get("/{routeID}/stops", s.ListRouteStops)
			r.Put("/{routeID}/stops", s.ReplaceRouteStops)
		})

		r.Route("/buses", func(r chi.Router) {
			r.Post("/", s.CreateBus)
			r.Get("/", s.ListBuses)
			r.Get("/{busID}", s.GetBus)
			r.Put("/{busID}", s.UpdateBus)
			r.Delete("/{busID}", s.DeleteBus)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Get("/{tripID}", s.GetTrip)
			r.Put("/{tripID}", s.UpdateTrip)
			r.Delete("/{tripID}", s.DeleteTrip)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", s.CreateBooking)
			r.Get("/{reference}", s.GetBooking)
		})
		r.Get("/admin/bookings/export", s.ExportBookings)

		r.Route("/gift-cards", func(r chi.Router) {
			r.Post("/", s.PurchaseGiftCard)
			r.Get("/{code}", s.GetGiftCard)
			r.Post("/{code}/redeem", s.RedeemGiftCard)
		})

		r.Route("/content", func(r chi.Router) {
			r.Get("/", s.ListContent)
			r.Get("/{key}", s.GetContent)
			r.Put("/{key}", s.UpsertContent)
		})
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
