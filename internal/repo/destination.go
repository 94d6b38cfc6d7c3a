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

// DestinationRepo defines the persistence operations for Destinations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows services to be unit-tested with mocks.
type DestinationRepo interface {
	// Create inserts a new destination and returns the persisted record
	// (with DB-generated id and timestamps populated).
	Create(ctx context.Context, d domain.Destination) (domain.Destination, error)

	// GetByID retrieves a single destination by its UUID primary key.
	// Returns domain.ErrNotFound if no destination with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error)

	// List returns a page of destinations ordered by name, plus the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Destination, int64, error)

	// SearchActive returns active destinations whose name contains any of the
	// given terms, case-insensitively. Used by the itinerary resolver to map
	// free-text city input to candidate records.
	SearchActive(ctx context.Context, terms []string) ([]domain.Destination, error)

	// Update overwrites the mutable fields of a destination and returns the
	// updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, d domain.Destination) (domain.Destination, error)

	// Delete removes a destination by ID. Returns domain.ErrNotFound if it
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgDestinationRepo is the Postgres implementation of DestinationRepo.
type pgDestinationRepo struct {
	db db
}

// NewDestinationRepo constructs a DestinationRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDestinationRepo(db db) DestinationRepo {
	return &pgDestinationRepo{db: db}
}

func (r *pgDestinationRepo) Create(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	const q = `
		INSERT INTO destinations (name, code, country, is_active)
		VALUES (@name, @code, @country, @is_active)
		RETURNING id, name, code, country, is_active, created_at, updated_at`

	args := pgx.NamedArgs{
		"name":      d.Name,
		"code":      d.Code,
		"country":   d.Country,
		"is_active": d.IsActive,
	}

	result, err := scanDestination(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDestinationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Destination, error) {
	const q = `
		SELECT id, name, code, country, is_active, created_at, updated_at
		FROM destinations
		WHERE id = @id`

	result, err := scanDestination(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDestinationRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Destination, int64, error) {
	const q = `
		SELECT id, name, code, country, is_active, created_at, updated_at,
		       count(*) OVER () AS total
		FROM destinations
		ORDER BY name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DestinationRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		out   []domain.Destination
		total int64
	)
	for rows.Next() {
		var (
			d  domain.Destination
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &d.Name, &d.Code, &d.Country, &d.IsActive, &d.CreatedAt, &d.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.DestinationRepo.List: scan: %w", err)
		}
		d.ID = uuid.UUID(id.Bytes)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.DestinationRepo.List: rows: %w", err)
	}

	return out, total, nil
}

func (r *pgDestinationRepo) SearchActive(ctx context.Context, terms []string) ([]domain.Destination, error) {
	// ILIKE ANY over pre-built %term% patterns keeps this a single round-trip
	// regardless of how many match terms the resolver supplies.
	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			patterns = append(patterns, "%"+t+"%")
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	const q = `
		SELECT id, name, code, country, is_active, created_at, updated_at
		FROM destinations
		WHERE is_active AND name ILIKE ANY(@patterns)
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"patterns": patterns})
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.SearchActive: %w", err)
	}
	defer rows.Close()

	var out []domain.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DestinationRepo.SearchActive: scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DestinationRepo.SearchActive: rows: %w", err)
	}

	return out, nil
}

func (r *pgDestinationRepo) Update(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	const q = `
		UPDATE destinations
		SET name       = @name,
		    code       = @code,
		    country    = @country,
		    is_active  = @is_active,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, name, code, country, is_active, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":        d.ID,
		"name":      d.Name,
		"code":      d.Code,
		"country":   d.Country,
		"is_active": d.IsActive,
	}

	result, err := scanDestination(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Destination{}, fmt.Errorf("repo.DestinationRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDestinationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM destinations WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DestinationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DestinationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanDestination maps a single database row into a domain.Destination.
func scanDestination(s scanner) (domain.Destination, error) {
	var (
		d  domain.Destination
		id pgtype.UUID
	)

	err := s.Scan(&id, &d.Name, &d.Code, &d.Country, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Destination{}, domain.ErrNotFound
		}
		return domain.Destination{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
