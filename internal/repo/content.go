package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/atlasbus/backend/internal/domain"
)

// ContentRepo defines the persistence operations for the site-content CMS.
// Content rows are keyed by slug; the value column is an opaque jsonb document.
type ContentRepo interface {
	// Get retrieves one content document by key.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (domain.SiteContent, error)

	// List returns all content documents ordered by key.
	List(ctx context.Context) ([]domain.SiteContent, error)

	// Upsert creates or replaces the document stored under key and returns
	// the persisted record.
	Upsert(ctx context.Context, c domain.SiteContent) (domain.SiteContent, error)
}

// pgContentRepo is the Postgres implementation of ContentRepo.
type pgContentRepo struct {
	db db
}

// NewContentRepo constructs a ContentRepo backed by the provided db connection.
func NewContentRepo(db db) ContentRepo {
	return &pgContentRepo{db: db}
}

func (r *pgContentRepo) Get(ctx context.Context, key string) (domain.SiteContent, error) {
	const q = `SELECT key, value, updated_at FROM site_content WHERE key = @key`

	result, err := scanContent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}))
	if err != nil {
		return domain.SiteContent{}, fmt.Errorf("repo.ContentRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgContentRepo) List(ctx context.Context) ([]domain.SiteContent, error) {
	const q = `SELECT key, value, updated_at FROM site_content ORDER BY key`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ContentRepo.List: %w", err)
	}
	defer rows.Close()

	var out []domain.SiteContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ContentRepo.List: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ContentRepo.List: rows: %w", err)
	}

	return out, nil
}

func (r *pgContentRepo) Upsert(ctx context.Context, c domain.SiteContent) (domain.SiteContent, error) {
	const q = `
		INSERT INTO site_content (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = now()
		RETURNING key, value, updated_at`

	args := pgx.NamedArgs{"key": c.Key, "value": c.Value}

	result, err := scanContent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SiteContent{}, fmt.Errorf("repo.ContentRepo.Upsert: %w", err)
	}
	return result, nil
}

// scanContent maps a single database row into a domain.SiteContent.
func scanContent(s scanner) (domain.SiteContent, error) {
	var c domain.SiteContent

	err := s.Scan(&c.Key, &c.Value, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SiteContent{}, domain.ErrNotFound
		}
		return domain.SiteContent{}, err
	}

	return c, nil
}
