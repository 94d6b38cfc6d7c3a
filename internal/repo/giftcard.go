package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/atlasbus/backend/internal/domain"
)

// GiftCardRepo defines the persistence operations for GiftCards.
type GiftCardRepo interface {
	// Create inserts a new gift card and returns the persisted record.
	Create(ctx context.Context, g domain.GiftCard) (domain.GiftCard, error)

	// GetByCode retrieves a gift card by its redemption code.
	// Returns domain.ErrNotFound if no card with that code exists.
	GetByCode(ctx context.Context, code string) (domain.GiftCard, error)

	// Redeem atomically deducts amount from the card's balance, returning the
	// updated card. Fails with domain.ErrGiftCardExhausted when the card is
	// inactive, expired, or the balance is insufficient, and domain.ErrNotFound
	// when no card with that code exists.
	Redeem(ctx context.Context, code string, amount float64) (domain.GiftCard, error)

	// Credit returns amount to the card's balance. Used to compensate a
	// redemption when the booking it paid for fails to persist.
	Credit(ctx context.Context, code string, amount float64) error
}

// pgGiftCardRepo is the Postgres implementation of GiftCardRepo.
type pgGiftCardRepo struct {
	db db
}

// NewGiftCardRepo constructs a GiftCardRepo backed by the provided db connection.
func NewGiftCardRepo(db db) GiftCardRepo {
	return &pgGiftCardRepo{db: db}
}

const giftCardColumns = `id, code, initial_amount, balance, recipient_name, message, is_active, expires_at, created_at`

func (r *pgGiftCardRepo) Create(ctx context.Context, g domain.GiftCard) (domain.GiftCard, error) {
	const q = `
		INSERT INTO gift_cards (code, initial_amount, balance, recipient_name, message, is_active, expires_at)
		VALUES (@code, @initial_amount, @balance, @recipient_name, @message, @is_active, @expires_at)
		RETURNING ` + giftCardColumns

	args := pgx.NamedArgs{
		"code":           g.Code,
		"initial_amount": g.InitialAmount,
		"balance":        g.Balance,
		"recipient_name": g.RecipientName,
		"message":        g.Message,
		"is_active":      g.IsActive,
		"expires_at":     g.ExpiresAt, // nil becomes NULL
	}

	result, err := scanGiftCard(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.GiftCard{}, fmt.Errorf("repo.GiftCardRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgGiftCardRepo) GetByCode(ctx context.Context, code string) (domain.GiftCard, error) {
	const q = `SELECT ` + giftCardColumns + ` FROM gift_cards WHERE code = @code`

	result, err := scanGiftCard(r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code}))
	if err != nil {
		return domain.GiftCard{}, fmt.Errorf("repo.GiftCardRepo.GetByCode: %w", err)
	}
	return result, nil
}

func (r *pgGiftCardRepo) Redeem(ctx context.Context, code string, amount float64) (domain.GiftCard, error) {
	// Single conditional UPDATE so a concurrent redemption cannot spend the
	// same balance twice.
	const q = `
		UPDATE gift_cards
		SET balance = balance - @amount
		WHERE code = @code
		  AND is_active
		  AND (expires_at IS NULL OR expires_at > now())
		  AND balance >= @amount
		RETURNING ` + giftCardColumns

	result, err := scanGiftCard(r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code, "amount": amount}))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.GiftCard{}, fmt.Errorf("repo.GiftCardRepo.Redeem: %w", err)
	}

	// The guarded update matched nothing: distinguish a missing card from one
	// that cannot cover the amount.
	if _, err := r.GetByCode(ctx, code); err != nil {
		return domain.GiftCard{}, fmt.Errorf("repo.GiftCardRepo.Redeem: %w", err)
	}
	return domain.GiftCard{}, fmt.Errorf("repo.GiftCardRepo.Redeem: %w", domain.ErrGiftCardExhausted)
}

func (r *pgGiftCardRepo) Credit(ctx context.Context, code string, amount float64) error {
	const q = `UPDATE gift_cards SET balance = balance + @amount WHERE code = @code`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"code": code, "amount": amount})
	if err != nil {
		return fmt.Errorf("repo.GiftCardRepo.Credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.GiftCardRepo.Credit: %w", domain.ErrNotFound)
	}
	return nil
}

// scanGiftCard maps a single database row into a domain.GiftCard.
func scanGiftCard(s scanner) (domain.GiftCard, error) {
	var (
		g       domain.GiftCard
		id      pgtype.UUID
		expires pgtype.Timestamptz
	)

	err := s.Scan(&id, &g.Code, &g.InitialAmount, &g.Balance, &g.RecipientName,
		&g.Message, &g.IsActive, &expires, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.GiftCard{}, domain.ErrNotFound
		}
		return domain.GiftCard{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	if expires.Valid {
		t := expires.Time
		g.ExpiresAt = &t
	}
	return g, nil
}
