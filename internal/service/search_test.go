package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbus/backend/internal/domain"
)

// The resolver's collaborators are stubbed with counting doubles: each records
// how often and with what arguments it was called, so tests can assert not
// just the result but also which queries were (and were not) issued.

type stubDestinations struct {
	calls   int
	results map[string][]domain.Destination // keyed by the first search term
}

func (s *stubDestinations) SearchActive(_ context.Context, terms []string) ([]domain.Destination, error) {
	s.calls++
	if len(terms) == 0 {
		return nil, nil
	}
	return s.results[terms[0]], nil
}

type stubRoutes struct {
	directCalls int
	stopsCalls  int
	direct      []domain.Route
	stops       []domain.RouteStop
}

func (s *stubRoutes) ListActiveBetween(_ context.Context, _, _ []uuid.UUID) ([]domain.Route, error) {
	s.directCalls++
	return s.direct, nil
}

func (s *stubRoutes) ListStopsTouching(_ context.Context, _ []uuid.UUID) ([]domain.RouteStop, error) {
	s.stopsCalls++
	return s.stops, nil
}

type stubTrips struct {
	bookableCalls int
	fallbackCalls int
	lastWindow    domain.TripWindow
	lastLimit     int
	bookable      []domain.Trip
	next          []domain.Trip
}

func (s *stubTrips) ListBookable(_ context.Context, _ []uuid.UUID, w domain.TripWindow, limit int) ([]domain.Trip, error) {
	s.bookableCalls++
	s.lastWindow = w
	s.lastLimit = limit
	return s.bookable, nil
}

func (s *stubTrips) NextDepartures(_ context.Context, _ []uuid.UUID, limit int) ([]domain.Trip, error) {
	s.fallbackCalls++
	return s.next, nil
}

type stubBuses struct {
	calls int
	buses []domain.Bus
}

func (s *stubBuses) ListByIDs(_ context.Context, _ []uuid.UUID) ([]domain.Bus, error) {
	s.calls++
	return s.buses, nil
}

type stubLastSearch struct {
	puts map[string]domain.LastSearch
}

func (s *stubLastSearch) Put(sessionID string, v domain.LastSearch) {
	if s.puts == nil {
		s.puts = make(map[string]domain.LastSearch)
	}
	s.puts[sessionID] = v
}

// ---- fixture ---------------------------------------------------------------

// searchFixture wires a SearchService over a small timetable:
//
//	R1 "Paris - Casablanca": direct route Paris -> Casablanca
//	R2 "Paris Nord":         stop chain Paris -> Rabat -> Casablanca
//
// One scheduled trip with seats runs on R1, one on R2, both driven by bus B1.
type searchFixture struct {
	svc   *SearchService
	dests *stubDestinations
	rts   *stubRoutes
	trs   *stubTrips
	bss   *stubBuses
	last  *stubLastSearch

	paris, rabat, casa domain.Destination
	r1, r2             domain.Route
	t1, t2             domain.Trip
	bus                domain.Bus
	now                time.Time
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		paris: domain.Destination{ID: uuid.New(), Name: "Paris"},
		rabat: domain.Destination{ID: uuid.New(), Name: "Rabat"},
		casa:  domain.Destination{ID: uuid.New(), Name: "Casablanca"},
		bus:   domain.Bus{ID: uuid.New(), Model: "Tourismo", Capacity: 55},
		now:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
	f.r1 = domain.Route{
		ID: uuid.New(), Name: "Paris - Casablanca",
		OriginID: f.paris.ID, DestinationID: f.casa.ID,
		DurationMinutes: 2280, IsActive: true,
	}
	f.r2 = domain.Route{
		ID: uuid.New(), Name: "Paris Nord",
		OriginID: f.paris.ID, DestinationID: f.casa.ID,
		DurationMinutes: 2400, IsActive: true,
	}
	f.t1 = domain.Trip{
		ID: uuid.New(), RouteID: f.r1.ID, BusID: f.bus.ID,
		DepartureTime:  f.now.Add(24 * time.Hour),
		ArrivalTime:    f.now.Add(62 * time.Hour),
		Price:          89.50,
		AvailableSeats: 12,
		Status:         domain.TripScheduled,
	}
	f.t2 = domain.Trip{
		ID: uuid.New(), RouteID: f.r2.ID, BusID: f.bus.ID,
		DepartureTime:  f.now.Add(30 * time.Hour),
		ArrivalTime:    f.now.Add(70 * time.Hour),
		Price:          79.00,
		AvailableSeats: 4,
		Status:         domain.TripScheduled,
	}

	f.dests = &stubDestinations{results: map[string][]domain.Destination{
		"paris":      {f.paris},
		"rabat":      {f.rabat},
		"casablanca": {f.casa},
	}}
	f.rts = &stubRoutes{
		direct: []domain.Route{f.r1},
		stops: []domain.RouteStop{
			{RouteID: f.r2.ID, RouteName: f.r2.Name, DestinationID: f.paris.ID, DestinationName: "Paris", StopOrder: 0, DepartureTime: "08:00", ArrivalTime: "08:00"},
			{RouteID: f.r2.ID, RouteName: f.r2.Name, DestinationID: f.rabat.ID, DestinationName: "Rabat", StopOrder: 1, DepartureTime: "20:00", ArrivalTime: "19:45"},
			{RouteID: f.r2.ID, RouteName: f.r2.Name, DestinationID: f.casa.ID, DestinationName: "Casablanca", StopOrder: 2, DepartureTime: "22:00", ArrivalTime: "21:30"},
		},
	}
	f.trs = &stubTrips{bookable: []domain.Trip{f.t1, f.t2}}
	f.bss = &stubBuses{buses: []domain.Bus{f.bus}}
	f.last = &stubLastSearch{}

	f.svc = NewSearchService(f.dests, f.rts, f.trs, f.bss, f.last, SearchOptions{})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *searchFixture) search(t *testing.T, p domain.SearchParams) domain.SearchResult {
	t.Helper()
	got, err := f.svc.Search(context.Background(), p)
	require.NoError(t, err)
	return got
}

// ---- validation ------------------------------------------------------------

func TestSearch_MissingCity(t *testing.T) {
	f := newSearchFixture()

	_, err := f.svc.Search(context.Background(), domain.SearchParams{FromCity: "Paris"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.dests.calls, "no query should run for invalid input")
}

func TestSearch_SameCityBothSides(t *testing.T) {
	f := newSearchFixture()

	// Different spellings of the same city must still be caught, and caught
	// before any store access.
	_, err := f.svc.Search(context.Background(), domain.SearchParams{
		FromCity: "Casablanca, Maroc",
		ToCity:   "  CASABLANCA ",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.dests.calls)
	assert.Zero(t, f.rts.directCalls)
	assert.Zero(t, f.trs.bookableCalls)
}

// ---- stage short-circuits --------------------------------------------------

func TestSearch_UnknownDestination(t *testing.T) {
	f := newSearchFixture()

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Atlantis"})

	assert.Equal(t, domain.SearchNoDestination, got.Status)
	assert.Contains(t, got.Message, "Atlantis")
	assert.NotNil(t, got.Offers)
	assert.Empty(t, got.Offers)
	assert.Zero(t, f.rts.directCalls, "route resolution must not run without candidates")
}

func TestSearch_NoItinerary(t *testing.T) {
	f := newSearchFixture()
	f.rts.direct = nil
	f.rts.stops = nil

	got := f.search(t, domain.SearchParams{FromCity: "Rabat", ToCity: "Paris"})

	assert.Equal(t, domain.SearchNoItinerary, got.Status)
	assert.Zero(t, f.trs.bookableCalls, "schedule must not be queried without an itinerary")
}

func TestSearch_NoTripForDate_SurfacesNextDepartures(t *testing.T) {
	f := newSearchFixture()
	f.trs.bookable = nil
	f.trs.next = []domain.Trip{f.t1, f.t2}

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.Equal(t, domain.SearchNoTripForDate, got.Status)
	require.Len(t, got.NextDepartures, 2)
	assert.Equal(t, f.t1.DepartureTime, got.NextDepartures[0])
	assert.Equal(t, 1, f.trs.fallbackCalls)
}

func TestSearch_NoTripsAtAll(t *testing.T) {
	f := newSearchFixture()
	f.trs.bookable = nil
	f.trs.next = nil

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.Equal(t, domain.SearchNoTripsAtAll, got.Status)
	assert.Empty(t, got.NextDepartures)
}

// ---- happy path ------------------------------------------------------------

func TestSearch_DirectAndSegmentOffers(t *testing.T) {
	f := newSearchFixture()

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	require.Equal(t, domain.SearchOK, got.Status)
	require.Len(t, got.Offers, 2)

	direct := got.Offers[0]
	assert.Equal(t, domain.OptionDirect, direct.Kind)
	assert.Equal(t, "Paris - Casablanca", direct.RouteLabel)
	assert.Equal(t, "Paris", direct.OriginName)
	assert.Equal(t, "Casablanca", direct.DestinationName)
	assert.Equal(t, 2280, direct.DurationMinutes)
	assert.Equal(t, f.bus.ID, direct.Bus.ID)

	seg := got.Offers[1]
	assert.Equal(t, domain.OptionSegment, seg.Kind)
	assert.Equal(t, "Paris Nord (via Rabat)", seg.RouteLabel)
	assert.Equal(t, "Paris", seg.OriginName)
	assert.Equal(t, "Casablanca", seg.DestinationName)

	assert.Zero(t, got.Dropped)
	assert.Equal(t, 1, f.bss.calls, "bus details must be fetched in one batch")
}

func TestSearch_SegmentDuration_ZeroByDefault(t *testing.T) {
	f := newSearchFixture()

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	require.Len(t, got.Offers, 2)
	assert.Zero(t, got.Offers[1].DurationMinutes)
}

func TestSearch_SegmentDuration_Derived(t *testing.T) {
	f := newSearchFixture()
	f.svc.opts.DeriveSegmentDuration = true

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	require.Len(t, got.Offers, 2)
	// Board Paris 08:00, alight Casablanca 21:30.
	assert.Equal(t, 810, got.Offers[1].DurationMinutes)
}

func TestSearch_DirectWinsOverSegmentOnSameRoute(t *testing.T) {
	f := newSearchFixture()
	// Give R1 a stop chain too, so it resolves as both a direct route and a
	// segment. The direct naming must win during assembly.
	f.rts.stops = append(f.rts.stops,
		domain.RouteStop{RouteID: f.r1.ID, RouteName: f.r1.Name, DestinationID: f.paris.ID, DestinationName: "Paris", StopOrder: 0},
		domain.RouteStop{RouteID: f.r1.ID, RouteName: f.r1.Name, DestinationID: f.rabat.ID, DestinationName: "Rabat", StopOrder: 1},
		domain.RouteStop{RouteID: f.r1.ID, RouteName: f.r1.Name, DestinationID: f.casa.ID, DestinationName: "Casablanca", StopOrder: 2},
	)

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	require.Len(t, got.Offers, 2)
	assert.Equal(t, domain.OptionDirect, got.Offers[0].Kind)
	assert.Equal(t, "Paris - Casablanca", got.Offers[0].RouteLabel)
}

// ---- date windows ----------------------------------------------------------

func TestSearch_NoDate_WindowStartsToday(t *testing.T) {
	f := newSearchFixture()

	f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	wantFrom := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantFrom, f.trs.lastWindow.From)
	assert.Nil(t, f.trs.lastWindow.To, "no date means an open-ended window")
}

func TestSearch_MidnightDate_WindowIsHalfOpenDay(t *testing.T) {
	f := newSearchFixture()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca", DepartureDate: &day})

	assert.Equal(t, day, f.trs.lastWindow.From)
	require.NotNil(t, f.trs.lastWindow.To)
	assert.Equal(t, day.Add(24*time.Hour), *f.trs.lastWindow.To)

	// Half-open semantics: 23:59:59 falls inside, next midnight outside.
	lastSecond := day.Add(24*time.Hour - time.Second)
	assert.True(t, lastSecond.Before(*f.trs.lastWindow.To))
	assert.False(t, day.Add(24*time.Hour).Before(*f.trs.lastWindow.To))
}

func TestSearch_TimedDate_WindowIsOpenEnded(t *testing.T) {
	f := newSearchFixture()
	instant := time.Date(2026, 3, 15, 14, 45, 0, 0, time.UTC)

	f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca", DepartureDate: &instant})

	assert.Equal(t, instant, f.trs.lastWindow.From)
	assert.Nil(t, f.trs.lastWindow.To)
}

func TestSearch_ResultLimitReachesQuery(t *testing.T) {
	f := newSearchFixture()
	f.svc.opts.ResultLimit = 7

	f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.Equal(t, 7, f.trs.lastLimit)
}

// ---- dropped offers --------------------------------------------------------

func TestSearch_TripWithUnknownBusIsDropped(t *testing.T) {
	f := newSearchFixture()
	orphan := f.t1
	orphan.ID = uuid.New()
	orphan.BusID = uuid.New() // not in the bus stub
	f.trs.bookable = []domain.Trip{f.t1, orphan}

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.Equal(t, domain.SearchOK, got.Status)
	assert.Len(t, got.Offers, 1)
	assert.Equal(t, 1, got.Dropped)
}

func TestSearch_TripWithUnknownRouteIsDropped(t *testing.T) {
	f := newSearchFixture()
	orphan := f.t1
	orphan.ID = uuid.New()
	orphan.RouteID = uuid.New() // no option resolves to this route
	f.trs.bookable = []domain.Trip{f.t1, orphan}

	got := f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.Len(t, got.Offers, 1)
	assert.Equal(t, 1, got.Dropped)
}

// ---- last-search side effect -----------------------------------------------

func TestSearch_SavesLastSearchForSession(t *testing.T) {
	f := newSearchFixture()

	f.search(t, domain.SearchParams{
		FromCity:  "Paris",
		ToCity:    "Casablanca",
		Adults:    2,
		Children:  1,
		SessionID: "sess-42",
	})

	saved, ok := f.last.puts["sess-42"]
	require.True(t, ok)
	assert.Equal(t, "Paris", saved.FromCity)
	assert.Equal(t, 2, saved.Adults)
	assert.Equal(t, 1, saved.Children)
	assert.Equal(t, f.now, saved.SavedAt)
}

func TestSearch_NoSessionID_NothingSaved(t *testing.T) {
	f := newSearchFixture()

	f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.Empty(t, f.last.puts)
}

func TestSearch_EmptyResult_NothingSaved(t *testing.T) {
	f := newSearchFixture()
	f.trs.bookable = nil

	f.search(t, domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca", SessionID: "sess-42"})

	assert.Empty(t, f.last.puts)
}

// ---- error propagation -----------------------------------------------------

type failingDestinations struct{ err error }

func (f *failingDestinations) SearchActive(context.Context, []string) ([]domain.Destination, error) {
	return nil, f.err
}

func TestSearch_StoreErrorAbortsSearch(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewSearchService(&failingDestinations{err: storeErr}, nil, nil, nil, nil, SearchOptions{})

	_, err := svc.Search(context.Background(), domain.SearchParams{FromCity: "Paris", ToCity: "Casablanca"})

	assert.ErrorIs(t, err, storeErr)
}
