// Package service contains the business logic for the AtlasBus API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// DestinationFinder is the slice of repo.DestinationRepo the resolver needs.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets search
// tests inject counting doubles without touching the database.
type DestinationFinder interface {
	SearchActive(ctx context.Context, terms []string) ([]domain.Destination, error)
}

// RouteFinder is the slice of repo.RouteRepo the resolver needs.
type RouteFinder interface {
	ListActiveBetween(ctx context.Context, originIDs, destinationIDs []uuid.UUID) ([]domain.Route, error)
	ListStopsTouching(ctx context.Context, destinationIDs []uuid.UUID) ([]domain.RouteStop, error)
}

// TripFinder is the slice of repo.TripRepo the resolver needs.
type TripFinder interface {
	ListBookable(ctx context.Context, routeIDs []uuid.UUID, w domain.TripWindow, limit int) ([]domain.Trip, error)
	NextDepartures(ctx context.Context, routeIDs []uuid.UUID, limit int) ([]domain.Trip, error)
}

// BusFinder is the slice of repo.BusRepo the resolver needs.
type BusFinder interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Bus, error)
}

// LastSearchWriter receives the parameters of a successful search so
// back-navigation can restore the form. Writes are best-effort.
type LastSearchWriter interface {
	Put(sessionID string, s domain.LastSearch)
}

// SearchOptions tunes the resolver. The zero value is usable: limits fall
// back to 20 results / 3 fallback departures, and segment durations stay 0.
type SearchOptions struct {
	// ResultLimit caps the offer list. Defaults to 20.
	ResultLimit int

	// FallbackLimit caps the "next available departures" diagnostic query.
	// Defaults to 3.
	FallbackLimit int

	// DeriveSegmentDuration computes segment durations from stop times
	// instead of reporting 0.
	DeriveSegmentDuration bool
}

// SearchService is the itinerary resolver: free-text origin/destination in,
// ranked bookable trip offers out. It only reads from the store; its one side
// effect is the best-effort last-search write.
type SearchService struct {
	destinations DestinationFinder
	routes       RouteFinder
	trips        TripFinder
	buses        BusFinder
	lastSearch   LastSearchWriter // may be nil
	opts         SearchOptions

	// now is injected so date-window tests can pin the clock.
	now func() time.Time
}

// NewSearchService constructs a SearchService. lastSearch may be nil when no
// session store is wired (e.g. in tests).
func NewSearchService(destinations DestinationFinder, routes RouteFinder, trips TripFinder, buses BusFinder, lastSearch LastSearchWriter, opts SearchOptions) *SearchService {
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = 20
	}
	if opts.FallbackLimit <= 0 {
		opts.FallbackLimit = 3
	}
	return &SearchService{
		destinations: destinations,
		routes:       routes,
		trips:        trips,
		buses:        buses,
		lastSearch:   lastSearch,
		opts:         opts,
		now:          time.Now,
	}
}

// Search resolves a free-text city pair into bookable trip offers.
//
// Stages run in strict dependency order: destination candidates → route
// options (direct + segment) → schedule query → batched bus join. Each stage
// short-circuits with a diagnostic status when it comes up empty, so later
// queries are never issued for a dead end. Only input validation returns an
// error (domain.ErrValidation); "nothing found" outcomes are statuses, and a
// failing store query aborts the whole search with no partial results.
func (s *SearchService) Search(ctx context.Context, p domain.SearchParams) (domain.SearchResult, error) {
	fromNorm, toNorm := NormalizeCity(p.FromCity), NormalizeCity(p.ToCity)
	if fromNorm == "" || toNorm == "" {
		return domain.SearchResult{}, fmt.Errorf("%w: both cities are required", domain.ErrValidation)
	}
	// Checked before any query is issued.
	if fromNorm == toNorm {
		return domain.SearchResult{}, fmt.Errorf("%w: origin and destination must differ", domain.ErrValidation)
	}

	origins, err := s.destinations.SearchActive(ctx, cityMatchTerms(p.FromCity))
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: origins: %w", err)
	}
	dests, err := s.destinations.SearchActive(ctx, cityMatchTerms(p.ToCity))
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: destinations: %w", err)
	}
	if len(origins) == 0 || len(dests) == 0 {
		side := p.FromCity
		if len(origins) > 0 {
			side = p.ToCity
		}
		return emptyResult(domain.SearchNoDestination, fmt.Sprintf("no destination matches %q", side)), nil
	}

	options, err := s.resolveOptions(ctx, origins, dests)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: options: %w", err)
	}
	if len(options) == 0 {
		return emptyResult(domain.SearchNoItinerary,
			fmt.Sprintf("no itinerary connects %s and %s", cityBeforeComma(p.FromCity), cityBeforeComma(p.ToCity))), nil
	}

	routeIDs := optionRouteIDs(options)
	trips, err := s.trips.ListBookable(ctx, routeIDs, tripWindow(p.DepartureDate, s.now()), s.opts.ResultLimit)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: trips: %w", err)
	}
	if len(trips) == 0 {
		return s.fallback(ctx, routeIDs)
	}

	offers, dropped, err := s.assembleOffers(ctx, trips, options)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: %w", err)
	}

	if len(offers) > 0 && p.SessionID != "" && s.lastSearch != nil {
		s.lastSearch.Put(p.SessionID, domain.LastSearch{
			FromCity:      p.FromCity,
			ToCity:        p.ToCity,
			DepartureDate: p.DepartureDate,
			Adults:        p.Adults,
			Children:      p.Children,
			SavedAt:       s.now(),
		})
	}

	return domain.SearchResult{Status: domain.SearchOK, Offers: offers, Dropped: dropped}, nil
}

// resolveOptions produces every direct and segment option connecting any
// origin candidate to any destination candidate. Direct options come first,
// so a route contributing both resolves to its direct naming during assembly.
func (s *SearchService) resolveOptions(ctx context.Context, origins, dests []domain.Destination) ([]domain.RouteOption, error) {
	originIDs, originNames := destinationIndex(origins)
	destIDs, destNames := destinationIndex(dests)

	routes, err := s.routes.ListActiveBetween(ctx, keys(originIDs), keys(destIDs))
	if err != nil {
		return nil, err
	}

	var options []domain.RouteOption
	for _, rt := range routes {
		options = append(options, domain.DirectOption{
			Route:           rt,
			OriginName:      originNames[rt.OriginID],
			DestinationName: destNames[rt.DestinationID],
		})
	}

	stops, err := s.routes.ListStopsTouching(ctx, append(keys(originIDs), keys(destIDs)...))
	if err != nil {
		return nil, err
	}
	groups := groupStopsByRoute(stops)
	sortStopGroups(groups)
	options = append(options, segmentOptions(groups, originIDs, destIDs)...)

	return options, nil
}

// fallback handles the empty-schedule case: re-query without any date filter
// to surface the nearest upcoming departures, or report that the itinerary
// has no trips at all.
func (s *SearchService) fallback(ctx context.Context, routeIDs []uuid.UUID) (domain.SearchResult, error) {
	next, err := s.trips.NextDepartures(ctx, routeIDs, s.opts.FallbackLimit)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("service.SearchService.Search: fallback: %w", err)
	}
	if len(next) == 0 {
		return emptyResult(domain.SearchNoTripsAtAll, "no trips are currently scheduled for this itinerary"), nil
	}

	result := emptyResult(domain.SearchNoTripForDate, "no trips on the requested date; see next available departures")
	for _, t := range next {
		result.NextDepartures = append(result.NextDepartures, t.DepartureTime)
	}
	return result, nil
}

// assembleOffers joins trips with their route option and bus details.
// Buses are fetched in one batched query and joined in memory. A trip whose
// option or bus cannot be resolved is dropped, not fatal: showing the rest of
// the results beats failing the whole search.
func (s *SearchService) assembleOffers(ctx context.Context, trips []domain.Trip, options []domain.RouteOption) ([]domain.TripOffer, int, error) {
	optionByRoute := make(map[uuid.UUID]domain.RouteOption, len(options))
	for _, opt := range options {
		if _, ok := optionByRoute[opt.OptionRouteID()]; !ok {
			optionByRoute[opt.OptionRouteID()] = opt
		}
	}

	busIDs := make([]uuid.UUID, 0, len(trips))
	seen := make(map[uuid.UUID]bool, len(trips))
	for _, t := range trips {
		if !seen[t.BusID] {
			seen[t.BusID] = true
			busIDs = append(busIDs, t.BusID)
		}
	}
	buses, err := s.buses.ListByIDs(ctx, busIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("buses: %w", err)
	}
	busByID := make(map[uuid.UUID]domain.Bus, len(buses))
	for _, b := range buses {
		busByID[b.ID] = b
	}

	offers := make([]domain.TripOffer, 0, len(trips))
	dropped := 0
	for _, t := range trips {
		opt, ok := optionByRoute[t.RouteID]
		if !ok {
			dropped++
			continue
		}
		bus, ok := busByID[t.BusID]
		if !ok {
			dropped++
			continue
		}

		offer := domain.TripOffer{
			TripID:         t.ID,
			RouteID:        t.RouteID,
			RouteLabel:     opt.Label(),
			DepartureTime:  t.DepartureTime,
			ArrivalTime:    t.ArrivalTime,
			Price:          t.Price,
			AvailableSeats: t.AvailableSeats,
			Bus:            bus,
		}
		switch o := opt.(type) {
		case domain.DirectOption:
			if o.OriginName == "" || o.DestinationName == "" {
				dropped++
				continue
			}
			offer.Kind = domain.OptionDirect
			offer.OriginName = o.OriginName
			offer.DestinationName = o.DestinationName
			offer.DurationMinutes = o.Route.DurationMinutes
		case domain.SegmentOption:
			offer.Kind = domain.OptionSegment
			offer.OriginName = o.Origin.DestinationName
			offer.DestinationName = o.Destination.DestinationName
			if s.opts.DeriveSegmentDuration {
				offer.DurationMinutes = segmentDurationMinutes(o)
			}
		}
		offers = append(offers, offer)
	}

	return offers, dropped, nil
}

// tripWindow derives the departure-time filter from the requested date:
// no date → everything from the start of today; a date at exactly midnight →
// that whole day (half-open, so 23:59:59 is in and next-day 00:00:00 is out);
// a date with a time component → open-ended forward search from that instant.
func tripWindow(d *time.Time, now time.Time) domain.TripWindow {
	if d == nil {
		return domain.TripWindow{From: startOfDay(now)}
	}
	if isMidnight(*d) {
		end := d.Add(24 * time.Hour)
		return domain.TripWindow{From: *d, To: &end}
	}
	return domain.TripWindow{From: *d}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// destinationIndex builds the candidate id set and an id→name lookup.
func destinationIndex(ds []domain.Destination) (map[uuid.UUID]bool, map[uuid.UUID]string) {
	ids := make(map[uuid.UUID]bool, len(ds))
	names := make(map[uuid.UUID]string, len(ds))
	for _, d := range ds {
		ids[d.ID] = true
		names[d.ID] = d.Name
	}
	return ids, names
}

// optionRouteIDs returns the deduplicated route ids across all options.
func optionRouteIDs(options []domain.RouteOption) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(options))
	ids := make([]uuid.UUID, 0, len(options))
	for _, opt := range options {
		id := opt.OptionRouteID()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func keys(m map[uuid.UUID]bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// emptyResult builds a no-offers result with the given status and message.
// Offers is non-nil so the JSON encodes as [] rather than null.
func emptyResult(status, message string) domain.SearchResult {
	return domain.SearchResult{Status: status, Message: message, Offers: []domain.TripOffer{}}
}
