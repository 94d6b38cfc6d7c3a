package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// GiftCardService implements business logic for gift card purchase, lookup,
// and redemption.
type GiftCardService struct {
	repo repo.GiftCardRepo
}

// NewGiftCardService constructs a GiftCardService backed by the provided repo.
func NewGiftCardService(r repo.GiftCardRepo) *GiftCardService {
	return &GiftCardService{repo: r}
}

// Purchase creates a new gift card with a generated code and a balance equal
// to the purchase amount. Returns domain.ErrValidation for amounts <= 0.
func (s *GiftCardService) Purchase(ctx context.Context, g domain.GiftCard) (domain.GiftCard, error) {
	if g.InitialAmount <= 0 {
		return domain.GiftCard{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	g.Code = newGiftCardCode()
	g.Balance = g.InitialAmount
	g.IsActive = true

	result, err := s.repo.Create(ctx, g)
	if err != nil {
		return domain.GiftCard{}, fmt.Errorf("service.GiftCardService.Purchase: %w", err)
	}
	return result, nil
}

// GetByCode returns a gift card by its redemption code.
func (s *GiftCardService) GetByCode(ctx context.Context, code string) (domain.GiftCard, error) {
	result, err := s.repo.GetByCode(ctx, normalizeGiftCardCode(code))
	if err != nil {
		return domain.GiftCard{}, fmt.Errorf("service.GiftCardService.GetByCode: %w", err)
	}
	return result, nil
}

// Redeem deducts amount from the card's balance and returns the updated card.
// Returns domain.ErrValidation for amounts <= 0, domain.ErrNotFound for an
// unknown code, and domain.ErrGiftCardExhausted when the card cannot cover
// the amount.
func (s *GiftCardService) Redeem(ctx context.Context, code string, amount float64) (domain.GiftCard, error) {
	if amount <= 0 {
		return domain.GiftCard{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	result, err := s.repo.Redeem(ctx, normalizeGiftCardCode(code), amount)
	if err != nil {
		return domain.GiftCard{}, fmt.Errorf("service.GiftCardService.Redeem: %w", err)
	}
	return result, nil
}

// newGiftCardCode generates a redemption code like "GC-9F86D081A3B2".
func newGiftCardCode() string {
	u := uuid.New()
	return "GC-" + strings.ToUpper(hex.EncodeToString(u[:6]))
}

// normalizeGiftCardCode makes code lookup forgiving of case and whitespace.
func normalizeGiftCardCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
