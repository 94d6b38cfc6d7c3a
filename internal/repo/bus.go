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

// BusRepo defines the persistence operations for Buses.
type BusRepo interface {
	// Create inserts a new bus and returns the persisted record.
	Create(ctx context.Context, b domain.Bus) (domain.Bus, error)

	// GetByID retrieves a single bus by its UUID primary key.
	// Returns domain.ErrNotFound if no bus with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error)

	// List returns a page of buses ordered by company then plate, plus the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)

	// ListByIDs returns the buses matching the given ids in one round-trip.
	// Missing ids are simply absent from the result, not an error.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Bus, error)

	// Update overwrites the mutable fields of a bus and returns the updated
	// record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, b domain.Bus) (domain.Bus, error)

	// Delete removes a bus by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgBusRepo is the Postgres implementation of BusRepo.
type pgBusRepo struct {
	db db
}

// NewBusRepo constructs a BusRepo backed by the provided db connection.
func NewBusRepo(db db) BusRepo {
	return &pgBusRepo{db: db}
}

const busColumns = `id, model, brand, capacity, amenities, plate_number, company_name, created_at, updated_at`

func (r *pgBusRepo) Create(ctx context.Context, b domain.Bus) (domain.Bus, error) {
	const q = `
		INSERT INTO buses (model, brand, capacity, amenities, plate_number, company_name)
		VALUES (@model, @brand, @capacity, @amenities, @plate_number, @company_name)
		RETURNING ` + busColumns

	args := pgx.NamedArgs{
		"model":        b.Model,
		"brand":        b.Brand,
		"capacity":     b.Capacity,
		"amenities":    b.Amenities,
		"plate_number": b.PlateNumber,
		"company_name": b.CompanyName,
	}

	result, err := scanBus(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgBusRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	const q = `SELECT ` + busColumns + ` FROM buses WHERE id = @id`

	result, err := scanBus(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBusRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	const q = `
		SELECT ` + busColumns + `, count(*) OVER () AS total
		FROM buses
		ORDER BY company_name, plate_number
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BusRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		out   []domain.Bus
		total int64
	)
	for rows.Next() {
		var (
			b  domain.Bus
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &b.Model, &b.Brand, &b.Capacity, &b.Amenities, &b.PlateNumber, &b.CompanyName, &b.CreatedAt, &b.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.BusRepo.List: scan: %w", err)
		}
		b.ID = uuid.UUID(id.Bytes)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.BusRepo.List: rows: %w", err)
	}

	return out, total, nil
}

func (r *pgBusRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Bus, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const q = `SELECT ` + busColumns + ` FROM buses WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.BusRepo.ListByIDs: %w", err)
	}
	defer rows.Close()

	var out []domain.Bus
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BusRepo.ListByIDs: scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BusRepo.ListByIDs: rows: %w", err)
	}

	return out, nil
}

func (r *pgBusRepo) Update(ctx context.Context, b domain.Bus) (domain.Bus, error) {
	const q = `
		UPDATE buses
		SET model        = @model,
		    brand        = @brand,
		    capacity     = @capacity,
		    amenities    = @amenities,
		    plate_number = @plate_number,
		    company_name = @company_name,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + busColumns

	args := pgx.NamedArgs{
		"id":           b.ID,
		"model":        b.Model,
		"brand":        b.Brand,
		"capacity":     b.Capacity,
		"amenities":    b.Amenities,
		"plate_number": b.PlateNumber,
		"company_name": b.CompanyName,
	}

	result, err := scanBus(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Bus{}, fmt.Errorf("repo.BusRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgBusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM buses WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BusRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BusRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanBus maps a single database row into a domain.Bus.
// amenities is a text[] column; pgx scans it into []string directly.
func scanBus(s scanner) (domain.Bus, error) {
	var (
		b  domain.Bus
		id pgtype.UUID
	)

	err := s.Scan(&id, &b.Model, &b.Brand, &b.Capacity, &b.Amenities, &b.PlateNumber, &b.CompanyName, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bus{}, domain.ErrNotFound
		}
		return domain.Bus{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	return b, nil
}
