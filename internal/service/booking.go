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

// BookingService implements the checkout flow: seat reservation, optional
// gift-card redemption, and booking persistence. Seat reservation happens
// first and is compensated (seats released, gift card re-credited) when a
// later step fails, so the trip's seat count never drifts.
type BookingService struct {
	bookings  repo.BookingRepo
	trips     repo.TripRepo
	giftCards repo.GiftCardRepo
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(bookings repo.BookingRepo, trips repo.TripRepo, giftCards repo.GiftCardRepo) *BookingService {
	return &BookingService{bookings: bookings, trips: trips, giftCards: giftCards}
}

// Create books seats on a trip. The total price is computed server-side from
// the trip's price; a gift card, when supplied, is redeemed up to the total.
// Returns domain.ErrNotFound for a missing trip or gift card,
// domain.ErrInsufficientSeats when the trip cannot seat the party, and
// domain.ErrValidation for rule violations.
func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if err := validateBooking(b); err != nil {
		return domain.Booking{}, err
	}

	trip, err := s.trips.GetByID(ctx, b.TripID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: trip: %w", err)
	}
	if trip.Status != domain.TripScheduled {
		return domain.Booking{}, fmt.Errorf("%w: trip is not open for booking", domain.ErrValidation)
	}

	seats := b.Seats()
	total := trip.Price * float64(seats)

	if err := s.trips.ReserveSeats(ctx, trip.ID, seats); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	redeemed := 0.0
	if b.GiftCardCode != "" {
		card, err := s.giftCards.GetByCode(ctx, b.GiftCardCode)
		if err != nil {
			s.releaseSeats(ctx, trip.ID, seats)
			return domain.Booking{}, fmt.Errorf("service.BookingService.Create: gift card: %w", err)
		}
		if amount := min(total, card.Balance); amount > 0 {
			if _, err := s.giftCards.Redeem(ctx, b.GiftCardCode, amount); err != nil {
				s.releaseSeats(ctx, trip.ID, seats)
				return domain.Booking{}, fmt.Errorf("service.BookingService.Create: redeem: %w", err)
			}
			redeemed = amount
		}
	}

	b.Reference = newBookingReference()
	b.TotalPrice = total - redeemed
	b.Status = domain.BookingConfirmed

	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		s.releaseSeats(ctx, trip.ID, seats)
		if redeemed > 0 {
			// Best-effort: a failed credit leaves the card short, which is
			// preferable to double-spending it.
			_ = s.giftCards.Credit(ctx, b.GiftCardCode, redeemed)
		}
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

// GetByReference returns a booking by its customer-facing reference.
func (s *BookingService) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	result, err := s.bookings.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.GetByReference: %w", err)
	}
	return result, nil
}

// Export returns one flat row per booking for the admin CSV download.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	rows, err := s.bookings.ListForExport(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Export: %w", err)
	}
	if rows == nil {
		rows = []domain.BookingExportRow{}
	}
	return rows, nil
}

// releaseSeats compensates a reservation after a downstream failure.
// Errors are swallowed: the original failure is what the caller needs to see.
func (s *BookingService) releaseSeats(ctx context.Context, tripID uuid.UUID, n int) {
	_ = s.trips.ReleaseSeats(ctx, tripID, n)
}

// newBookingReference generates a customer-facing reference like "AB-3FA85F64".
func newBookingReference() string {
	u := uuid.New()
	return "AB-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// validateBooking enforces rules on customer input.
func validateBooking(b domain.Booking) error {
	if strings.TrimSpace(b.CustomerName) == "" {
		return fmt.Errorf("%w: customer_name is required", domain.ErrValidation)
	}
	if !strings.Contains(b.CustomerEmail, "@") {
		return fmt.Errorf("%w: customer_email is invalid", domain.ErrValidation)
	}
	if b.Adults < 0 || b.Children < 0 {
		return fmt.Errorf("%w: passenger counts must not be negative", domain.ErrValidation)
	}
	if b.Seats() < 1 {
		return fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	}
	return nil
}
