package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// DestinationService implements business logic for Destination operations.
type DestinationService struct {
	repo repo.DestinationRepo
}

// NewDestinationService constructs a DestinationService backed by the provided repo.
func NewDestinationService(r repo.DestinationRepo) *DestinationService {
	return &DestinationService{repo: r}
}

// Create validates and persists a new destination.
// Returns domain.ErrValidation if input violates business rules.
func (s *DestinationService) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	if err := validateDestination(d); err != nil {
		return domain.Destination{}, err
	}
	result, err := s.repo.Create(ctx, d)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single destination by ID.
func (s *DestinationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.GetByID: %w", err)
	}
	return result, nil
}

// List returns a page of destinations plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DestinationService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Destination, int64, error) {
	out, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.DestinationService.List: %w", err)
	}
	if out == nil {
		out = []domain.Destination{}
	}
	return out, total, nil
}

// Update validates and updates an existing destination.
func (s *DestinationService) Update(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	if err := validateDestination(d); err != nil {
		return domain.Destination{}, err
	}
	result, err := s.repo.Update(ctx, d)
	if err != nil {
		return domain.Destination{}, fmt.Errorf("service.DestinationService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a destination by ID.
func (s *DestinationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DestinationService.Delete: %w", err)
	}
	return nil
}

// validateDestination enforces rules common to Create and Update.
func validateDestination(d domain.Destination) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(d.Country) == "" {
		return fmt.Errorf("%w: country is required", domain.ErrValidation)
	}
	return nil
}
