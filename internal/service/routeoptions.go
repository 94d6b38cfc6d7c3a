package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
)

// groupStopsByRoute buckets flattened stop rows by route id.
// Ordering within each bucket is whatever the query returned; callers that
// need stop order must run sortStopGroups afterwards. Grouping and sorting
// are deliberately separate steps so each can be tested on its own.
func groupStopsByRoute(stops []domain.RouteStop) map[uuid.UUID][]domain.RouteStop {
	groups := make(map[uuid.UUID][]domain.RouteStop)
	for _, s := range stops {
		groups[s.RouteID] = append(groups[s.RouteID], s)
	}
	return groups
}

// sortStopGroups sorts every group in place by stop_order ascending.
func sortStopGroups(groups map[uuid.UUID][]domain.RouteStop) {
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].StopOrder < g[j].StopOrder })
	}
}

// segmentOptions walks each route's ordered stop chain and emits a segment
// when the first stop matching an origin candidate precedes the first stop
// matching a destination candidate. Order matters: travel direction must
// follow stop order, so swapping the candidate roles yields no segment on the
// same chain. Intermediate stops are those strictly between the two matches.
//
// Results are sorted by route id for deterministic output.
func segmentOptions(groups map[uuid.UUID][]domain.RouteStop, originIDs, destinationIDs map[uuid.UUID]bool) []domain.RouteOption {
	var options []domain.RouteOption
	for _, stops := range groups {
		oi := firstStopIndex(stops, originIDs)
		di := firstStopIndex(stops, destinationIDs)
		if oi == -1 || di == -1 || oi >= di {
			continue
		}
		options = append(options, domain.SegmentOption{
			RouteID:       stops[oi].RouteID,
			RouteName:     stops[oi].RouteName,
			Origin:        stops[oi],
			Destination:   stops[di],
			Intermediates: stops[oi+1 : di],
		})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].OptionRouteID().String() < options[j].OptionRouteID().String()
	})
	return options
}

// firstStopIndex returns the index of the first stop whose destination is in
// the candidate set, or -1.
func firstStopIndex(stops []domain.RouteStop, candidates map[uuid.UUID]bool) int {
	for i, s := range stops {
		if candidates[s.DestinationID] {
			return i
		}
	}
	return -1
}

// segmentDurationMinutes derives a segment's travel time from the boarding
// stop's departure and the alighting stop's arrival ("15:04" times of day).
// Segments crossing midnight wrap by 24h. Unparseable times yield 0, matching
// the legacy behavior for routes with no stop times configured.
func segmentDurationMinutes(o domain.SegmentOption) int {
	dep, err := time.Parse("15:04", o.Origin.DepartureTime)
	if err != nil {
		return 0
	}
	arr, err := time.Parse("15:04", o.Destination.ArrivalTime)
	if err != nil {
		return 0
	}
	d := arr.Sub(dep)
	if d < 0 {
		d += 24 * time.Hour
	}
	return int(d.Minutes())
}
