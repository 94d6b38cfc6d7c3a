package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbus/backend/internal/domain"
	"github.com/atlasbus/backend/internal/repo"
	"github.com/atlasbus/backend/internal/service"
)

// mockBusRepo is a hand-written test double for repo.BusRepo.
type mockBusRepo struct {
	create    func(ctx context.Context, b domain.Bus) (domain.Bus, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Bus, error)
	list      func(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error)
	listByIDs func(ctx context.Context, ids []uuid.UUID) ([]domain.Bus, error)
	update    func(ctx context.Context, b domain.Bus) (domain.Bus, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBusRepo) Create(ctx context.Context, b domain.Bus) (domain.Bus, error) {
	return m.create(ctx, b)
}
func (m *mockBusRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Bus, error) {
	return m.getByID(ctx, id)
}
func (m *mockBusRepo) List(ctx context.Context, p domain.PaginationParams) ([]domain.Bus, int64, error) {
	return m.list(ctx, p)
}
func (m *mockBusRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Bus, error) {
	return m.listByIDs(ctx, ids)
}
func (m *mockBusRepo) Update(ctx context.Context, b domain.Bus) (domain.Bus, error) {
	return m.update(ctx, b)
}
func (m *mockBusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.BusRepo = (*mockBusRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// tripMocks wires mocks for the happy path: route and bus exist, the insert
// echoes its input. The bus seats 55.
func tripMocks() (*mockTripRepo, *mockRouteRepo, *mockBusRepo) {
	trips := &mockTripRepo{
		create: func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil },
		update: func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil },
	}
	routes := &mockRouteRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Route, error) {
			return domain.Route{ID: id}, nil
		},
	}
	buses := &mockBusRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Bus, error) {
			return domain.Bus{ID: id, Capacity: 55}, nil
		},
	}
	return trips, routes, buses
}

// ---- Create ----------------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(tripMocks())

	got, err := svc.Create(context.Background(), scheduledTrip())

	require.NoError(t, err)
	assert.Equal(t, domain.TripScheduled, got.Status)
	assert.Equal(t, 10, got.AvailableSeats)
}

func TestTripService_Create_ZeroSeatsInheritsBusCapacity(t *testing.T) {
	svc := service.NewTripService(tripMocks())

	tr := scheduledTrip()
	tr.AvailableSeats = 0

	got, err := svc.Create(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, 55, got.AvailableSeats)
}

func TestTripService_Create_DefaultsStatusToScheduled(t *testing.T) {
	svc := service.NewTripService(tripMocks())

	tr := scheduledTrip()
	tr.Status = ""

	got, err := svc.Create(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, domain.TripScheduled, got.Status)
}

func TestTripService_Create_ArrivalNotAfterDeparture(t *testing.T) {
	svc := service.NewTripService(tripMocks())

	tr := scheduledTrip()
	tr.ArrivalTime = tr.DepartureTime

	_, err := svc.Create(context.Background(), tr)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_UnknownStatus(t *testing.T) {
	svc := service.NewTripService(tripMocks())

	tr := scheduledTrip()
	tr.Status = "boarding"

	_, err := svc.Create(context.Background(), tr)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_MissingRoute(t *testing.T) {
	trips, routes, buses := tripMocks()
	routes.getByID = func(_ context.Context, _ uuid.UUID) (domain.Route, error) {
		return domain.Route{}, domain.ErrNotFound
	}
	svc := service.NewTripService(trips, routes, buses)

	_, err := svc.Create(context.Background(), scheduledTrip())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Create_MissingBus(t *testing.T) {
	trips, routes, buses := tripMocks()
	buses.getByID = func(_ context.Context, _ uuid.UUID) (domain.Bus, error) {
		return domain.Bus{}, domain.ErrNotFound
	}
	svc := service.NewTripService(trips, routes, buses)

	_, err := svc.Create(context.Background(), scheduledTrip())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List ------------------------------------------------------------------

func TestTripService_List_EmptyIsNotNil(t *testing.T) {
	trips, routes, buses := tripMocks()
	trips.list = func(_ context.Context, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
		return nil, 0, nil
	}
	svc := service.NewTripService(trips, routes, buses)

	got, total, err := svc.List(context.Background(), domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Delete ----------------------------------------------------------------

func TestTripService_Delete_NotFound(t *testing.T) {
	trips, routes, buses := tripMocks()
	trips.delete = func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound }
	svc := service.NewTripService(trips, routes, buses)

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- BusService ------------------------------------------------------------

func TestBusService_Create_Valid(t *testing.T) {
	buses := &mockBusRepo{
		create: func(_ context.Context, b domain.Bus) (domain.Bus, error) { return b, nil },
	}
	svc := service.NewBusService(buses)

	got, err := svc.Create(context.Background(), domain.Bus{
		Model: "Tourismo", Brand: "Mercedes", Capacity: 55, PlateNumber: "AB-123-CD",
	})

	require.NoError(t, err)
	assert.Equal(t, "AB-123-CD", got.PlateNumber)
}

func TestBusService_Create_MissingPlate(t *testing.T) {
	svc := service.NewBusService(&mockBusRepo{})

	_, err := svc.Create(context.Background(), domain.Bus{Capacity: 55})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBusService_Create_NonPositiveCapacity(t *testing.T) {
	svc := service.NewBusService(&mockBusRepo{})

	_, err := svc.Create(context.Background(), domain.Bus{PlateNumber: "AB-123-CD"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
