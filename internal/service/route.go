package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// RouteService implements business logic for Route operations, including
// management of a route's ordered stop chain. It holds the destination repo
// because creating a route requires verifying both endpoints exist.
type RouteService struct {
	routes       repo.RouteRepo
	destinations repo.DestinationRepo
}

// NewRouteService constructs a RouteService backed by the provided repos.
func NewRouteService(routes repo.RouteRepo, destinations repo.DestinationRepo) *RouteService {
	return &RouteService{routes: routes, destinations: destinations}
}

// Create validates the route, verifies both endpoints exist, then persists.
// Returns domain.ErrValidation for rule violations and domain.ErrNotFound for
// missing endpoint destinations.
func (s *RouteService) Create(ctx context.Context, rt domain.Route) (domain.Route, error) {
	if err := validateRoute(rt); err != nil {
		return domain.Route{}, err
	}
	if err := s.checkEndpoints(ctx, rt); err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Create: %w", err)
	}
	result, err := s.routes.Create(ctx, rt)
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single route by ID.
func (s *RouteService) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	result, err := s.routes.GetByID(ctx, id)
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.GetByID: %w", err)
	}
	return result, nil
}

// List returns a page of routes plus the total count.
func (s *RouteService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int64, error) {
	out, total, err := s.routes.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.RouteService.List: %w", err)
	}
	if out == nil {
		out = []domain.Route{}
	}
	return out, total, nil
}

// ListStops returns the ordered stop chain of a route.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RouteService) ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error) {
	if _, err := s.routes.GetByID(ctx, routeID); err != nil {
		return nil, fmt.Errorf("service.RouteService.ListStops: %w", err)
	}
	stops, err := s.routes.ListStops(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("service.RouteService.ListStops: %w", err)
	}
	if stops == nil {
		stops = []domain.RouteStop{}
	}
	return stops, nil
}

// ReplaceStops swaps a route's stop chain for the given one.
// Stop orders must be strictly increasing; every stop needs a destination id.
func (s *RouteService) ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []domain.RouteStopInput) error {
	prev := 0
	for i, st := range stops {
		if st.DestinationID == uuid.Nil {
			return fmt.Errorf("%w: stop %d: destination_id is required", domain.ErrValidation, i)
		}
		if st.StopOrder <= prev && i > 0 {
			return fmt.Errorf("%w: stop orders must be strictly increasing", domain.ErrValidation)
		}
		prev = st.StopOrder
	}
	if err := s.routes.ReplaceStops(ctx, routeID, stops); err != nil {
		return fmt.Errorf("service.RouteService.ReplaceStops: %w", err)
	}
	return nil
}

// Update validates and updates an existing route.
func (s *RouteService) Update(ctx context.Context, rt domain.Route) (domain.Route, error) {
	if err := validateRoute(rt); err != nil {
		return domain.Route{}, err
	}
	if err := s.checkEndpoints(ctx, rt); err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Update: %w", err)
	}
	result, err := s.routes.Update(ctx, rt)
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a route by ID.
func (s *RouteService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.RouteService.Delete: %w", err)
	}
	return nil
}

// checkEndpoints verifies both endpoint destinations exist.
func (s *RouteService) checkEndpoints(ctx context.Context, rt domain.Route) error {
	if _, err := s.destinations.GetByID(ctx, rt.OriginID); err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if _, err := s.destinations.GetByID(ctx, rt.DestinationID); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	return nil
}

// validateRoute enforces rules common to Create and Update.
//   - Name must be non-empty.
//   - Origin and destination must differ.
//   - Duration must be positive.
func validateRoute(rt domain.Route) error {
	if strings.TrimSpace(rt.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if rt.OriginID == rt.DestinationID {
		return fmt.Errorf("%w: origin and destination must differ", domain.ErrValidation)
	}
	if rt.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", domain.ErrValidation)
	}
	return nil
}
