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

// RouteRepo defines the persistence operations for Routes and their stop
// chains. Stop reads go through the route_stops_detailed view so destination
// names arrive pre-joined.
type RouteRepo interface {
	// Create inserts a new route and returns the persisted record.
	Create(ctx context.Context, rt domain.Route) (domain.Route, error)

	// GetByID retrieves a single route by its UUID primary key.
	// Returns domain.ErrNotFound if no route with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error)

	// List returns a page of routes ordered by name, plus the total count.
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int64, error)

	// ListActiveBetween returns active routes whose origin is in originIDs and
	// whose destination is in destinationIDs. Used for direct-route resolution.
	ListActiveBetween(ctx context.Context, originIDs, destinationIDs []uuid.UUID) ([]domain.Route, error)

	// ListStops returns the ordered stop chain of one route.
	ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error)

	// ListStopsTouching returns the complete, ordered stop chains of every
	// active route that has at least one stop in destinationIDs. The full
	// chains are needed so segment labelling can name intermediate stops that
	// are not themselves search candidates.
	ListStopsTouching(ctx context.Context, destinationIDs []uuid.UUID) ([]domain.RouteStop, error)

	// ReplaceStops atomically swaps a route's stop chain for the given one.
	// Returns domain.ErrNotFound if the route does not exist.
	ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []domain.RouteStopInput) error

	// Update overwrites the mutable fields of a route and returns the updated
	// record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, rt domain.Route) (domain.Route, error)

	// Delete removes a route by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgRouteRepo is the Postgres implementation of RouteRepo.
type pgRouteRepo struct {
	db db
}

// NewRouteRepo constructs a RouteRepo backed by the provided db connection.
func NewRouteRepo(db db) RouteRepo {
	return &pgRouteRepo{db: db}
}

const routeColumns = `id, name, origin_id, destination_id, duration_minutes, is_active`

func (r *pgRouteRepo) Create(ctx context.Context, rt domain.Route) (domain.Route, error) {
	const q = `
		INSERT INTO routes (name, origin_id, destination_id, duration_minutes, is_active)
		VALUES (@name, @origin_id, @destination_id, @duration_minutes, @is_active)
		RETURNING ` + routeColumns

	args := pgx.NamedArgs{
		"name":             rt.Name,
		"origin_id":        rt.OriginID,
		"destination_id":   rt.DestinationID,
		"duration_minutes": rt.DurationMinutes,
		"is_active":        rt.IsActive,
	}

	result, err := scanRoute(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRouteRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Route, error) {
	const q = `SELECT ` + routeColumns + ` FROM routes WHERE id = @id`

	result, err := scanRoute(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgRouteRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Route, int64, error) {
	const q = `
		SELECT ` + routeColumns + `, count(*) OVER () AS total
		FROM routes
		ORDER BY name
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RouteRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		out   []domain.Route
		total int64
	)
	for rows.Next() {
		var (
			rt       domain.Route
			id, o, d pgtype.UUID
		)
		if err := rows.Scan(&id, &rt.Name, &o, &d, &rt.DurationMinutes, &rt.IsActive, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.RouteRepo.List: scan: %w", err)
		}
		rt.ID, rt.OriginID, rt.DestinationID = uuid.UUID(id.Bytes), uuid.UUID(o.Bytes), uuid.UUID(d.Bytes)
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.RouteRepo.List: rows: %w", err)
	}

	return out, total, nil
}

func (r *pgRouteRepo) ListActiveBetween(ctx context.Context, originIDs, destinationIDs []uuid.UUID) ([]domain.Route, error) {
	const q = `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE is_active
		  AND origin_id = ANY(@origin_ids)
		  AND destination_id = ANY(@destination_ids)`

	args := pgx.NamedArgs{"origin_ids": originIDs, "destination_ids": destinationIDs}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListActiveBetween: %w", err)
	}
	defer rows.Close()

	var out []domain.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RouteRepo.ListActiveBetween: scan: %w", err)
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListActiveBetween: rows: %w", err)
	}

	return out, nil
}

const routeStopColumns = `route_id, route_name, destination_id, destination_name,
       stop_order, departure_time, arrival_time`

func (r *pgRouteRepo) ListStops(ctx context.Context, routeID uuid.UUID) ([]domain.RouteStop, error) {
	const q = `
		SELECT ` + routeStopColumns + `
		FROM route_stops_detailed
		WHERE route_id = @route_id
		ORDER BY stop_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListStops: %w", err)
	}
	defer rows.Close()

	stops, err := collectRouteStops(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListStops: %w", err)
	}
	return stops, nil
}

func (r *pgRouteRepo) ListStopsTouching(ctx context.Context, destinationIDs []uuid.UUID) ([]domain.RouteStop, error) {
	// Subselect widens the fetch from "stops that match a candidate" to
	// "every stop of a route that has a matching stop", so the caller sees
	// complete chains. Ordering is left to the caller's grouping step.
	const q = `
		SELECT ` + routeStopColumns + `
		FROM route_stops_detailed
		WHERE route_is_active
		  AND route_id IN (
			SELECT route_id FROM route_stops_detailed
			WHERE destination_id = ANY(@destination_ids)
		)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"destination_ids": destinationIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListStopsTouching: %w", err)
	}
	defer rows.Close()

	stops, err := collectRouteStops(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.ListStopsTouching: %w", err)
	}
	return stops, nil
}

func (r *pgRouteRepo) ReplaceStops(ctx context.Context, routeID uuid.UUID, stops []domain.RouteStopInput) error {
	// Existence check first so a bad route id reports ErrNotFound instead of
	// silently deleting nothing.
	if _, err := r.GetByID(ctx, routeID); err != nil {
		return fmt.Errorf("repo.RouteRepo.ReplaceStops: %w", err)
	}

	const del = `DELETE FROM route_stops WHERE route_id = @route_id`
	if _, err := r.db.Exec(ctx, del, pgx.NamedArgs{"route_id": routeID}); err != nil {
		return fmt.Errorf("repo.RouteRepo.ReplaceStops: delete: %w", err)
	}

	const ins = `
		INSERT INTO route_stops (route_id, destination_id, stop_order, departure_time, arrival_time)
		VALUES (@route_id, @destination_id, @stop_order, @departure_time, @arrival_time)`

	for _, s := range stops {
		args := pgx.NamedArgs{
			"route_id":       routeID,
			"destination_id": s.DestinationID,
			"stop_order":     s.StopOrder,
			"departure_time": s.DepartureTime,
			"arrival_time":   s.ArrivalTime,
		}
		if _, err := r.db.Exec(ctx, ins, args); err != nil {
			return fmt.Errorf("repo.RouteRepo.ReplaceStops: insert order %d: %w", s.StopOrder, err)
		}
	}
	return nil
}

func (r *pgRouteRepo) Update(ctx context.Context, rt domain.Route) (domain.Route, error) {
	const q = `
		UPDATE routes
		SET name             = @name,
		    origin_id        = @origin_id,
		    destination_id   = @destination_id,
		    duration_minutes = @duration_minutes,
		    is_active        = @is_active
		WHERE id = @id
		RETURNING ` + routeColumns

	args := pgx.NamedArgs{
		"id":               rt.ID,
		"name":             rt.Name,
		"origin_id":        rt.OriginID,
		"destination_id":   rt.DestinationID,
		"duration_minutes": rt.DurationMinutes,
		"is_active":        rt.IsActive,
	}

	result, err := scanRoute(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgRouteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM routes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RouteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RouteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanRoute maps a single database row into a domain.Route.
func scanRoute(s scanner) (domain.Route, error) {
	var (
		rt       domain.Route
		id, o, d pgtype.UUID
	)

	err := s.Scan(&id, &rt.Name, &o, &d, &rt.DurationMinutes, &rt.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrNotFound
		}
		return domain.Route{}, err
	}

	rt.ID, rt.OriginID, rt.DestinationID = uuid.UUID(id.Bytes), uuid.UUID(o.Bytes), uuid.UUID(d.Bytes)
	return rt, nil
}

// collectRouteStops drains rows from the route_stops_detailed view.
// The view formats stop times as "HH24:MI" text, so they scan straight into strings.
func collectRouteStops(rows pgx.Rows) ([]domain.RouteStop, error) {
	var out []domain.RouteStop
	for rows.Next() {
		var (
			st       domain.RouteStop
			rid, did pgtype.UUID
		)
		if err := rows.Scan(&rid, &st.RouteName, &did, &st.DestinationName, &st.StopOrder, &st.DepartureTime, &st.ArrivalTime); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		st.RouteID, st.DestinationID = uuid.UUID(rid.Bytes), uuid.UUID(did.Bytes)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
