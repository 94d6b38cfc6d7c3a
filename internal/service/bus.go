package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// BusService implements business logic for Bus operations.
type BusService struct {
	repo repo.BusRepo
}

// NewBusService constructs a BusService backed by the provided repo.
func NewBusService(r repo.BusRepo) *BusService {
	return &BusService{repo: r}
}

// Create validates and persists a new bus.
func (s *BusService) Create(ctx context.Context, b domain.Bus) (domain.Bus, error) {
	if err := validateBus(b); err != nil {
		return domain.Bus{}, err
	}
	result, err := s.repo.Create(ctx, b)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single bus by ID.
func (s *BusService) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.GetByID: %w", err)
	}
	return result, nil
}

// List returns a page of buses plus the total count.
func (s *BusService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	out, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BusService.List: %w", err)
	}
	if out == nil {
		out = []domain.Bus{}
	}
	return out, total, nil
}

// Update validates and updates an existing bus.
func (s *BusService) Update(ctx context.Context, b domain.Bus) (domain.Bus, error) {
	if err := validateBus(b); err != nil {
		return domain.Bus{}, err
	}
	result, err := s.repo.Update(ctx, b)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("service.BusService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a bus by ID.
func (s *BusService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.BusService.Delete: %w", err)
	}
	return nil
}

// validateBus enforces rules common to Create and Update.
func validateBus(b domain.Bus) error {
	if strings.TrimSpace(b.PlateNumber) == "" {
		return fmt.Errorf("%w: plate_number is required", domain.ErrValidation)
	}
	if b.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}
	return nil
}
