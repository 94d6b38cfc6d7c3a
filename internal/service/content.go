package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// ContentService implements business logic for the site-content CMS.
type ContentService struct {
	repo repo.ContentRepo
}

// NewContentService constructs a ContentService backed by the provided repo.
func NewContentService(r repo.ContentRepo) *ContentService {
	return &ContentService{repo: r}
}

// Get returns the content document stored under key.
func (s *ContentService) Get(ctx context.Context, key string) (domain.SiteContent, error) {
	result, err := s.repo.Get(ctx, key)
	if err != nil {
		return domain.SiteContent{}, fmt.Errorf("service.ContentService.Get: %w", err)
	}
	return result, nil
}

// List returns all content documents.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ContentService) List(ctx context.Context) ([]domain.SiteContent, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ContentService.List: %w", err)
	}
	if out == nil {
		out = []domain.SiteContent{}
	}
	return out, nil
}

// Upsert stores value under key, replacing any existing document.
// The key must be a non-empty slug and the value must be valid JSON.
func (s *ContentService) Upsert(ctx context.Context, c domain.SiteContent) (domain.SiteContent, error) {
	if strings.TrimSpace(c.Key) == "" {
		return domain.SiteContent{}, fmt.Errorf("%w: key is required", domain.ErrValidation)
	}
	if !json.Valid(c.Value) {
		return domain.SiteContent{}, fmt.Errorf("%w: value must be valid JSON", domain.ErrValidation)
	}
	result, err := s.repo.Upsert(ctx, c)
	if err != nil {
		return domain.SiteContent{}, fmt.Errorf("service.ContentService.Upsert: %w", err)
	}
	return result, nil
}
