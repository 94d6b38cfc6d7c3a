package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

func giftCardFixture() domain.GiftCard {
	return domain.GiftCard{
		Code:          "GC-1234ABCD5678",
		InitialAmount: 100,
		Balance:       100,
		RecipientName: "Karim",
		Message:       "Bon voyage",
		IsActive:      true,
	}
}

func TestGiftCardRepo_CreateAndGet(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, giftCardFixture())
	require.NoError(t, err)
	assert.InDelta(t, 100, created.Balance, 0.001)
	assert.Nil(t, created.ExpiresAt)

	got, err := r.GetByCode(ctx, "GC-1234ABCD5678")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGiftCardRepo_GetByCode_NotFound(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))

	_, err := r.GetByCode(context.Background(), "GC-MISSING00000")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGiftCardRepo_Redeem(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, giftCardFixture())
	require.NoError(t, err)

	got, err := r.Redeem(ctx, "GC-1234ABCD5678", 40)

	require.NoError(t, err)
	assert.InDelta(t, 60, got.Balance, 0.001)
	assert.InDelta(t, 100, got.InitialAmount, 0.001)
}

func TestGiftCardRepo_Redeem_BalanceTooLow(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, giftCardFixture())
	require.NoError(t, err)

	_, err = r.Redeem(ctx, "GC-1234ABCD5678", 150)
	assert.ErrorIs(t, err, domain.ErrGiftCardExhausted)

	// A failed redemption must not touch the balance.
	got, err := r.GetByCode(ctx, "GC-1234ABCD5678")
	require.NoError(t, err)
	assert.InDelta(t, 100, got.Balance, 0.001)
}

func TestGiftCardRepo_Redeem_Inactive(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))
	ctx := context.Background()

	card := giftCardFixture()
	card.IsActive = false
	_, err := r.Create(ctx, card)
	require.NoError(t, err)

	_, err = r.Redeem(ctx, card.Code, 10)

	assert.ErrorIs(t, err, domain.ErrGiftCardExhausted)
}

func TestGiftCardRepo_Redeem_Expired(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))
	ctx := context.Background()

	card := giftCardFixture()
	past := time.Now().Add(-time.Hour)
	card.ExpiresAt = &past
	_, err := r.Create(ctx, card)
	require.NoError(t, err)

	_, err = r.Redeem(ctx, card.Code, 10)

	assert.ErrorIs(t, err, domain.ErrGiftCardExhausted)
}

func TestGiftCardRepo_Redeem_NotFound(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))

	_, err := r.Redeem(context.Background(), "GC-MISSING00000", 10)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGiftCardRepo_Credit(t *testing.T) {
	r := repo.NewGiftCardRepo(testTx(t))
	ctx := context.Background()

	_, err := r.Create(ctx, giftCardFixture())
	require.NoError(t, err)

	_, err = r.Redeem(ctx, "GC-1234ABCD5678", 40)
	require.NoError(t, err)

	require.NoError(t, r.Credit(ctx, "GC-1234ABCD5678", 40))

	got, err := r.GetByCode(ctx, "GC-1234ABCD5678")
	require.NoError(t, err)
	assert.InDelta(t, 100, got.Balance, 0.001)
}
