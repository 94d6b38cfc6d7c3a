package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbus/backend/internal/domain"
)

// chain builds a route's stop rows in the given order, one stop per
// destination, with stop_order assigned by position.
func chain(routeID uuid.UUID, routeName string, destinations ...domain.Destination) []domain.RouteStop {
	stops := make([]domain.RouteStop, len(destinations))
	for i, d := range destinations {
		stops[i] = domain.RouteStop{
			RouteID:         routeID,
			RouteName:       routeName,
			DestinationID:   d.ID,
			DestinationName: d.Name,
			StopOrder:       i,
		}
	}
	return stops
}

func dest(name string) domain.Destination {
	return domain.Destination{ID: uuid.New(), Name: name}
}

func idSet(ds ...domain.Destination) map[uuid.UUID]bool {
	m := make(map[uuid.UUID]bool, len(ds))
	for _, d := range ds {
		m[d.ID] = true
	}
	return m
}

// ---- grouping and sorting --------------------------------------------------

func TestGroupStopsByRoute(t *testing.T) {
	r1, r2 := uuid.New(), uuid.New()
	stops := []domain.RouteStop{
		{RouteID: r1, StopOrder: 0},
		{RouteID: r2, StopOrder: 0},
		{RouteID: r1, StopOrder: 1},
	}

	groups := groupStopsByRoute(stops)

	require.Len(t, groups, 2)
	assert.Len(t, groups[r1], 2)
	assert.Len(t, groups[r2], 1)
}

func TestSortStopGroups(t *testing.T) {
	r1 := uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		r1: {
			{RouteID: r1, StopOrder: 2},
			{RouteID: r1, StopOrder: 0},
			{RouteID: r1, StopOrder: 1},
		},
	}

	sortStopGroups(groups)

	orders := []int{groups[r1][0].StopOrder, groups[r1][1].StopOrder, groups[r1][2].StopOrder}
	assert.Equal(t, []int{0, 1, 2}, orders)
}

// ---- segment detection -----------------------------------------------------

func TestSegmentOptions_OriginBeforeDestination(t *testing.T) {
	paris, rabat, tanger, casa := dest("Paris"), dest("Rabat"), dest("Tanger"), dest("Casablanca")
	routeID := uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		routeID: chain(routeID, "Paris Express", paris, rabat, tanger, casa),
	}

	options := segmentOptions(groups, idSet(paris), idSet(casa))

	require.Len(t, options, 1)
	seg, ok := options[0].(domain.SegmentOption)
	require.True(t, ok)
	assert.Equal(t, "Paris", seg.Origin.DestinationName)
	assert.Equal(t, "Casablanca", seg.Destination.DestinationName)
	require.Len(t, seg.Intermediates, 2)
	assert.Equal(t, "Paris Express (via Rabat, Tanger)", seg.Label())
}

// TestSegmentOptions_ReversedRoles asserts the directionality rule: the same
// chain yields nothing when the traveller would have to ride backwards.
func TestSegmentOptions_ReversedRoles(t *testing.T) {
	paris, casa := dest("Paris"), dest("Casablanca")
	routeID := uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		routeID: chain(routeID, "Paris Express", paris, dest("Rabat"), casa),
	}

	options := segmentOptions(groups, idSet(casa), idSet(paris))

	assert.Empty(t, options)
}

func TestSegmentOptions_SameStopBothRoles(t *testing.T) {
	paris := dest("Paris")
	routeID := uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		routeID: chain(routeID, "Loop", paris, dest("Rabat")),
	}

	// First match for both roles lands on the same index; oi >= di rejects it.
	options := segmentOptions(groups, idSet(paris), idSet(paris))

	assert.Empty(t, options)
}

func TestSegmentOptions_AdjacentStops_NoIntermediates(t *testing.T) {
	rabat, tanger := dest("Rabat"), dest("Tanger")
	routeID := uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		routeID: chain(routeID, "Nord Liaison", dest("Paris"), rabat, tanger),
	}

	options := segmentOptions(groups, idSet(rabat), idSet(tanger))

	require.Len(t, options, 1)
	seg := options[0].(domain.SegmentOption)
	assert.Empty(t, seg.Intermediates)
	// No intermediates, so no "(via ...)" suffix.
	assert.Equal(t, "Nord Liaison", seg.Label())
}

func TestSegmentOptions_CandidateMissingFromChain(t *testing.T) {
	paris := dest("Paris")
	routeID := uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		routeID: chain(routeID, "Paris Express", paris, dest("Rabat")),
	}

	options := segmentOptions(groups, idSet(paris), idSet(dest("Agadir")))

	assert.Empty(t, options)
}

func TestSegmentOptions_DeterministicOrder(t *testing.T) {
	paris, casa := dest("Paris"), dest("Casablanca")
	rA, rB := uuid.New(), uuid.New()
	groups := map[uuid.UUID][]domain.RouteStop{
		rA: chain(rA, "Route A", paris, casa),
		rB: chain(rB, "Route B", paris, casa),
	}

	// Map iteration order varies; the result must not.
	first := segmentOptions(groups, idSet(paris), idSet(casa))
	for i := 0; i < 10; i++ {
		again := segmentOptions(groups, idSet(paris), idSet(casa))
		require.Equal(t, first, again)
	}
}

// ---- segment durations -----------------------------------------------------

func TestSegmentDurationMinutes(t *testing.T) {
	seg := domain.SegmentOption{
		Origin:      domain.RouteStop{DepartureTime: "08:30"},
		Destination: domain.RouteStop{ArrivalTime: "12:15"},
	}
	assert.Equal(t, 225, segmentDurationMinutes(seg))
}

func TestSegmentDurationMinutes_CrossesMidnight(t *testing.T) {
	seg := domain.SegmentOption{
		Origin:      domain.RouteStop{DepartureTime: "22:00"},
		Destination: domain.RouteStop{ArrivalTime: "06:00"},
	}
	assert.Equal(t, 480, segmentDurationMinutes(seg))
}

func TestSegmentDurationMinutes_UnparseableTimes(t *testing.T) {
	seg := domain.SegmentOption{
		Origin:      domain.RouteStop{DepartureTime: ""},
		Destination: domain.RouteStop{ArrivalTime: "12:00"},
	}
	assert.Equal(t, 0, segmentDurationMinutes(seg))
}
