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

// BookingRepo defines the persistence operations for Bookings.
// Seat accounting lives on TripRepo; this repo only stores booking rows.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByReference retrieves a booking by its customer-facing reference.
	// Returns domain.ErrNotFound if no booking with that reference exists.
	GetByReference(ctx context.Context, reference string) (domain.Booking, error)

	// ListForExport returns one flat row per booking, joined with the trip's
	// departure time and route name, ordered by creation time descending.
	ListForExport(ctx context.Context) ([]domain.BookingExportRow, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, reference, trip_id, customer_name, customer_email,
       customer_phone, adults, children, total_price, gift_card_code, status, created_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (reference, trip_id, customer_name, customer_email,
		                      customer_phone, adults, children, total_price, gift_card_code, status)
		VALUES (@reference, @trip_id, @customer_name, @customer_email,
		        @customer_phone, @adults, @children, @total_price, @gift_card_code, @status)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"reference":      b.Reference,
		"trip_id":        b.TripID,
		"customer_name":  b.CustomerName,
		"customer_email": b.CustomerEmail,
		"customer_phone": nullIfEmpty(b.CustomerPhone),
		"adults":         b.Adults,
		"children":       b.Children,
		"total_price":    b.TotalPrice,
		"gift_card_code": nullIfEmpty(b.GiftCardCode),
		"status":         b.Status,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) GetByReference(ctx context.Context, reference string) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = @reference`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"reference": reference}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByReference: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListForExport(ctx context.Context) ([]domain.BookingExportRow, error) {
	const q = `
		SELECT b.reference, b.customer_name, b.customer_email,
		       r.name, to_char(t.departure_time, 'YYYY-MM-DD"T"HH24:MI:SSOF'),
		       b.adults + b.children, b.total_price, b.status,
		       to_char(b.created_at, 'YYYY-MM-DD"T"HH24:MI:SSOF')
		FROM bookings b
		JOIN trips t  ON t.id = b.trip_id
		JOIN routes r ON r.id = t.route_id
		ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListForExport: %w", err)
	}
	defer rows.Close()

	var out []domain.BookingExportRow
	for rows.Next() {
		var row domain.BookingExportRow
		if err := rows.Scan(&row.Reference, &row.CustomerName, &row.CustomerEmail,
			&row.RouteName, &row.DepartureTime, &row.Seats, &row.TotalPrice,
			&row.Status, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListForExport: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListForExport: rows: %w", err)
	}

	return out, nil
}

// nullIfEmpty maps empty optional strings to NULL on write.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanBooking maps a single database row into a domain.Booking.
// customer_phone and gift_card_code are nullable; empty strings map to NULL
// on write and back to empty strings on read.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b           domain.Booking
		id, tid     pgtype.UUID
		phone, gift pgtype.Text
	)

	err := s.Scan(&id, &b.Reference, &tid, &b.CustomerName, &b.CustomerEmail,
		&phone, &b.Adults, &b.Children, &b.TotalPrice, &gift, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID, b.TripID = uuid.UUID(id.Bytes), uuid.UUID(tid.Bytes)
	b.CustomerPhone, b.GiftCardCode = phone.String, gift.String
	return b, nil
}
