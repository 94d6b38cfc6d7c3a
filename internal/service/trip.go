package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// TripService implements business logic for Trip operations. It holds the
// route and bus repos because creating a trip requires both to exist.
type TripService struct {
	trips  repo.TripRepo
	routes repo.RouteRepo
	buses  repo.BusRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, routes repo.RouteRepo, buses repo.BusRepo) *TripService {
	return &TripService{trips: trips, routes: routes, buses: buses}
}

// Create validates the trip, verifies the route and bus exist, then persists.
// A new trip with zero available seats inherits the bus capacity.
func (s *TripService) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if err := validateTrip(t); err != nil {
		return domain.Trip{}, err
	}
	if _, err := s.routes.GetByID(ctx, t.RouteID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: route: %w", err)
	}
	bus, err := s.buses.GetByID(ctx, t.BusID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: bus: %w", err)
	}
	if t.AvailableSeats == 0 {
		t.AvailableSeats = bus.Capacity
	}
	if t.Status == "" {
		t.Status = domain.TripScheduled
	}
	result, err := s.trips.Create(ctx, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns a page of trips plus the total count.
func (s *TripService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	out, total, err := s.trips.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if out == nil {
		out = []domain.Trip{}
	}
	return out, total, nil
}

// Update validates and updates an existing trip.
func (s *TripService) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if err := validateTrip(t); err != nil {
		return domain.Trip{}, err
	}
	if t.Status == "" {
		t.Status = domain.TripScheduled
	}
	result, err := s.trips.Update(ctx, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces rules common to Create and Update.
//   - Arrival must be after departure.
//   - Price and seats must not be negative.
//   - Status, when set, must be a known value.
func validateTrip(t domain.Trip) error {
	if !t.ArrivalTime.After(t.DepartureTime) {
		return fmt.Errorf("%w: arrival_time must be after departure_time", domain.ErrValidation)
	}
	if t.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if t.AvailableSeats < 0 {
		return fmt.Errorf("%w: available_seats must not be negative", domain.ErrValidation)
	}
	if t.Status != "" && !slices.Contains(domain.TripStatuses, t.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, t.Status)
	}
	return nil
}
