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

// TripRepo defines the persistence operations for Trips, including the
// schedule queries used by the itinerary resolver and the conditional seat
// reservation used by bookings.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns a page of trips ordered by departure time descending,
	// plus the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// ListBookable returns scheduled trips with seats left on any of the given
	// routes, departing inside the window, ascending by departure time, capped
	// at limit rows.
	ListBookable(ctx context.Context, routeIDs []uuid.UUID, w domain.TripWindow, limit int) ([]domain.Trip, error)

	// NextDepartures is the date-agnostic fallback of ListBookable: the same
	// route/status/seats filter with no departure-time bound, so it can find
	// the nearest future trips on any date.
	NextDepartures(ctx context.Context, routeIDs []uuid.UUID, limit int) ([]domain.Trip, error)

	// ReserveSeats atomically decrements available_seats by n, failing with
	// domain.ErrInsufficientSeats when fewer than n seats remain or the trip
	// is not scheduled, and domain.ErrNotFound when the trip does not exist.
	ReserveSeats(ctx context.Context, tripID uuid.UUID, n int) error

	// ReleaseSeats returns n seats to a trip. Used to compensate a failed
	// booking insert after a successful ReserveSeats.
	ReleaseSeats(ctx context.Context, tripID uuid.UUID, n int) error

	// Update overwrites the mutable fields of a trip and returns the updated
	// record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, route_id, bus_id, departure_time, arrival_time, price, available_seats, status, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (route_id, bus_id, departure_time, arrival_time, price, available_seats, status)
		VALUES (@route_id, @bus_id, @departure_time, @arrival_time, @price, @available_seats, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"route_id":        t.RouteID,
		"bus_id":          t.BusID,
		"departure_time":  t.DepartureTime,
		"arrival_time":    t.ArrivalTime,
		"price":           t.Price,
		"available_seats": t.AvailableSeats,
		"status":          t.Status,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, count(*) OVER () AS total
		FROM trips
		ORDER BY departure_time DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		out   []domain.Trip
		total int64
	)
	for rows.Next() {
		var (
			t            domain.Trip
			id, rid, bid pgtype.UUID
		)
		if err := rows.Scan(&id, &rid, &bid, &t.DepartureTime, &t.ArrivalTime, &t.Price, &t.AvailableSeats, &t.Status, &t.CreatedAt, &t.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		t.ID, t.RouteID, t.BusID = uuid.UUID(id.Bytes), uuid.UUID(rid.Bytes), uuid.UUID(bid.Bytes)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return out, total, nil
}

func (r *pgTripRepo) ListBookable(ctx context.Context, routeIDs []uuid.UUID, w domain.TripWindow, limit int) ([]domain.Trip, error) {
	q := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE route_id = ANY(@route_ids)
		  AND status = 'scheduled'
		  AND available_seats > 0
		  AND departure_time >= @from`

	args := pgx.NamedArgs{"route_ids": routeIDs, "from": w.From, "limit": limit}
	if w.To != nil {
		q += `
		  AND departure_time < @to`
		args["to"] = *w.To
	}
	q += `
		ORDER BY departure_time
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListBookable: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListBookable: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) NextDepartures(ctx context.Context, routeIDs []uuid.UUID, limit int) ([]domain.Trip, error) {
	// Deliberately no departure_time bound: this query exists to find trips on
	// dates other than the one the user asked for.
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE route_id = ANY(@route_ids)
		  AND status = 'scheduled'
		  AND available_seats > 0
		ORDER BY departure_time
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_ids": routeIDs, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.NextDepartures: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.NextDepartures: %w", err)
	}
	return trips, nil
}

func (r *pgTripRepo) ReserveSeats(ctx context.Context, tripID uuid.UUID, n int) error {
	// Conditional decrement: the WHERE clause is the oversell guard, so two
	// concurrent bookings can never take the same last seat.
	const q = `
		UPDATE trips
		SET available_seats = available_seats - @n, updated_at = now()
		WHERE id = @id AND status = 'scheduled' AND available_seats >= @n`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "n": n})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.ReserveSeats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, tripID); errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("repo.TripRepo.ReserveSeats: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.TripRepo.ReserveSeats: %w", domain.ErrInsufficientSeats)
	}
	return nil
}

func (r *pgTripRepo) ReleaseSeats(ctx context.Context, tripID uuid.UUID, n int) error {
	const q = `
		UPDATE trips
		SET available_seats = available_seats + @n, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "n": n})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.ReleaseSeats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.ReleaseSeats: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET route_id        = @route_id,
		    bus_id          = @bus_id,
		    departure_time  = @departure_time,
		    arrival_time    = @arrival_time,
		    price           = @price,
		    available_seats = @available_seats,
		    status          = @status,
		    updated_at      = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":              t.ID,
		"route_id":        t.RouteID,
		"bus_id":          t.BusID,
		"departure_time":  t.DepartureTime,
		"arrival_time":    t.ArrivalTime,
		"price":           t.Price,
		"available_seats": t.AvailableSeats,
		"status":          t.Status,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t            domain.Trip
		id, rid, bid pgtype.UUID
	)

	err := s.Scan(&id, &rid, &bid, &t.DepartureTime, &t.ArrivalTime, &t.Price, &t.AvailableSeats, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID, t.RouteID, t.BusID = uuid.UUID(id.Bytes), uuid.UUID(rid.Bytes), uuid.UUID(bid.Bytes)
	return t, nil
}

// collectTrips drains a result set of trip rows.
func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var out []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
