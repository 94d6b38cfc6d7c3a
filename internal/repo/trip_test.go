package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
)

// tripFixtures inserts the rows a trip depends on (two destinations, a route
// between them, a bus) and returns a ready-to-insert trip departing tomorrow.
func tripFixtures(t *testing.T, tx pgx.Tx) domain.Trip {
	t.Helper()
	ctx := context.Background()

	destinations := repo.NewDestinationRepo(tx)
	paris, err := destinations.Create(ctx, domain.Destination{Name: "Paris", Code: "PAR", Country: "France", IsActive: true})
	require.NoError(t, err)
	casa, err := destinations.Create(ctx, domain.Destination{Name: "Casablanca", Code: "CMN", Country: "Maroc", IsActive: true})
	require.NoError(t, err)

	routes := repo.NewRouteRepo(tx)
	route, err := routes.Create(ctx, domain.Route{
		Name:            "Paris - Casablanca",
		OriginID:        paris.ID,
		DestinationID:   casa.ID,
		DurationMinutes: 2280,
		IsActive:        true,
	})
	require.NoError(t, err)

	buses := repo.NewBusRepo(tx)
	bus, err := buses.Create(ctx, domain.Bus{
		Model:       "Tourismo",
		Brand:       "Mercedes",
		Capacity:    55,
		Amenities:   []string{"wifi", "usb"},
		PlateNumber: "AB-123-CD",
		CompanyName: "AtlasBus",
	})
	require.NoError(t, err)

	departure := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	return domain.Trip{
		RouteID:        route.ID,
		BusID:          bus.ID,
		DepartureTime:  departure,
		ArrivalTime:    departure.Add(38 * time.Hour),
		Price:          89.50,
		AvailableSeats: 55,
		Status:         domain.TripScheduled,
	}
}

func TestTripRepo_CreateAndGet(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixtures(t, tx))
	require.NoError(t, err)
	assert.Equal(t, domain.TripScheduled, created.Status)
	assert.Equal(t, 55, created.AvailableSeats)
	assert.InDelta(t, 89.50, created.Price, 0.001)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.DepartureTime.Equal(created.DepartureTime))
}

func TestTripRepo_ListBookable_FiltersWindowStatusAndSeats(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)

	inWindow, err := r.Create(ctx, base)
	require.NoError(t, err)

	// Departs after the window closes.
	late := base
	late.DepartureTime = base.DepartureTime.Add(48 * time.Hour)
	late.ArrivalTime = late.DepartureTime.Add(38 * time.Hour)
	_, err = r.Create(ctx, late)
	require.NoError(t, err)

	// Cancelled trips never surface.
	cancelled := base
	cancelled.Status = domain.TripCancelled
	_, err = r.Create(ctx, cancelled)
	require.NoError(t, err)

	// Sold out.
	soldOut := base
	soldOut.AvailableSeats = 0
	_, err = r.Create(ctx, soldOut)
	require.NoError(t, err)

	to := base.DepartureTime.Add(24 * time.Hour)
	got, err := r.ListBookable(ctx, []uuid.UUID{base.RouteID}, domain.TripWindow{
		From: base.DepartureTime.Add(-time.Hour),
		To:   &to,
	}, 10)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inWindow.ID, got[0].ID)
}

func TestTripRepo_ListBookable_OpenEndedWindow(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)
	first, err := r.Create(ctx, base)
	require.NoError(t, err)

	later := base
	later.DepartureTime = base.DepartureTime.Add(72 * time.Hour)
	later.ArrivalTime = later.DepartureTime.Add(38 * time.Hour)
	_, err = r.Create(ctx, later)
	require.NoError(t, err)

	got, err := r.ListBookable(ctx, []uuid.UUID{base.RouteID}, domain.TripWindow{
		From: base.DepartureTime.Add(-time.Hour),
	}, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ascending by departure time.
	assert.Equal(t, first.ID, got[0].ID)
}

func TestTripRepo_NextDepartures_IgnoresDate(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)
	created, err := r.Create(ctx, base)
	require.NoError(t, err)

	got, err := r.NextDepartures(ctx, []uuid.UUID{base.RouteID}, 3)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
}

func TestTripRepo_ReserveSeats(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)
	base.AvailableSeats = 3
	created, err := r.Create(ctx, base)
	require.NoError(t, err)

	require.NoError(t, r.ReserveSeats(ctx, created.ID, 2))

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSeats)
}

func TestTripRepo_ReserveSeats_Insufficient(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)
	base.AvailableSeats = 1
	created, err := r.Create(ctx, base)
	require.NoError(t, err)

	err = r.ReserveSeats(ctx, created.ID, 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)

	// The failed reservation must not touch the seat count.
	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSeats)
}

func TestTripRepo_ReserveSeats_NotScheduled(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)
	base.Status = domain.TripCancelled
	created, err := r.Create(ctx, base)
	require.NoError(t, err)

	err = r.ReserveSeats(ctx, created.ID, 1)

	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)
}

func TestTripRepo_ReserveSeats_NotFound(t *testing.T) {
	r := repo.NewTripRepo(testTx(t))

	err := r.ReserveSeats(context.Background(), uuid.New(), 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ReleaseSeats(t *testing.T) {
	tx := testTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	base := tripFixtures(t, tx)
	base.AvailableSeats = 10
	created, err := r.Create(ctx, base)
	require.NoError(t, err)

	require.NoError(t, r.ReserveSeats(ctx, created.ID, 4))
	require.NoError(t, r.ReleaseSeats(ctx, created.ID, 4))

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableSeats)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewTripRepo(testTx(t))

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
