package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flightcarbon/backend/internal/domain"
	"github.com/flightcarbon/backend/internal/engine"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveFleet(ctx context.Context, seed int64, flights []domain.FlightRecord) error {
	args := m.Called(ctx, seed, flights)
	return args.Error(0)
}

func (m *MockRepository) SaveSnapshot(ctx context.Context, rec domain.SnapshotRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRepository) GetHistoricalSnapshots(ctx context.Context, from, to time.Time) ([]domain.SnapshotRecord, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SnapshotRecord), args.Error(1)
}

func (m *MockRepository) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFleet(ctx context.Context, count int, seed int64) ([]domain.FlightRecord, error) {
	args := m.Called(ctx, count, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightRecord), args.Error(1)
}

func (m *MockCache) SetFleet(ctx context.Context, count int, seed int64, flights []domain.FlightRecord) error {
	args := m.Called(ctx, count, seed, flights)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, payload any) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo DataRepository, opts Options) *FlightService {
	svc := NewFlightService(engine.New(engine.WithWorkers(4)), repo, opts)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func seedPtr(v int64) *int64 { return &v }

func TestGetFlights_SeededIsReproducible(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveFleet", mock.Anything, int64(42), mock.AnythingOfType("[]domain.FlightRecord")).Return(nil)
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, "42", mock.AnythingOfType("domain.FleetGeneratedEvent")).Return(nil)

	svc := newTestService(repo, Options{Publisher: pub, DefaultCount: 10, MaxCount: 100})

	first, err := svc.GetFlights(context.Background(), 10, seedPtr(42))
	require.NoError(t, err)
	second, err := svc.GetFlights(context.Background(), 10, seedPtr(42))
	require.NoError(t, err)
	svc.WaitBackground()

	assert.True(t, first.Success)
	assert.Equal(t, int64(42), first.Seed)
	assert.Equal(t, 10, first.Count)
	assert.Len(t, first.Data, 10)
	assert.Equal(t, first.Data, second.Data)

	repo.AssertNumberOfCalls(t, "SaveFleet", 2)
	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestGetFlights_EventTotals(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveFleet", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(repo, Options{Publisher: pub, DefaultCount: 5, MaxCount: 5})
	resp, err := svc.GetFlights(context.Background(), 5, seedPtr(7))
	require.NoError(t, err)
	svc.WaitBackground()

	var total float64
	for _, f := range resp.Data {
		total += f.Emissions.CO2Kg
	}

	require.Len(t, pub.Calls, 1)
	event, ok := pub.Calls[0].Arguments.Get(2).(domain.FleetGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(7), event.Seed)
	assert.Equal(t, 5, event.Count)
	assert.InDelta(t, total, event.TotalCO2Kg, 0.01)
	assert.Equal(t, fixedNow, event.GeneratedAt)
}

func TestGetFlights_UnseededDrawsSeed(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveFleet", mock.Anything, fixedNow.UnixNano(), mock.Anything).Return(nil)
	cache := new(MockCache)

	svc := newTestService(repo, Options{Cache: cache, DefaultCount: 3, MaxCount: 10})
	resp, err := svc.GetFlights(context.Background(), 3, nil)
	require.NoError(t, err)
	svc.WaitBackground()

	assert.Equal(t, fixedNow.UnixNano(), resp.Seed)
	assert.Len(t, resp.Data, 3)
	cache.AssertNotCalled(t, "GetFleet", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetFleet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestGetFlights_CacheHit(t *testing.T) {
	repo := new(MockRepository)
	cached := []domain.FlightRecord{{ID: "cached", Callsign: "AAL100"}}
	cache := new(MockCache)
	cache.On("GetFleet", mock.Anything, 1, int64(9)).Return(cached, nil)

	svc := newTestService(repo, Options{Cache: cache, DefaultCount: 1, MaxCount: 10})
	resp, err := svc.GetFlights(context.Background(), 1, seedPtr(9))
	require.NoError(t, err)
	svc.WaitBackground()

	assert.Equal(t, cached, resp.Data)
	assert.Equal(t, 1, resp.Count)
	repo.AssertNotCalled(t, "SaveFleet", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestGetFlights_CacheMissStores(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveFleet", mock.Anything, int64(9), mock.Anything).Return(nil)
	cache := new(MockCache)
	cache.On("GetFleet", mock.Anything, 4, int64(9)).Return(nil, nil)
	cache.On("SetFleet", mock.Anything, 4, int64(9), mock.AnythingOfType("[]domain.FlightRecord")).Return(nil)

	svc := newTestService(repo, Options{Cache: cache, DefaultCount: 4, MaxCount: 10})
	resp, err := svc.GetFlights(context.Background(), 4, seedPtr(9))
	require.NoError(t, err)
	svc.WaitBackground()

	assert.Len(t, resp.Data, 4)
	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestGetFlights_CacheErrorsAreNotFatal(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveFleet", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))
	cache := new(MockCache)
	cache.On("GetFleet", mock.Anything, 2, int64(1)).Return(nil, errors.New("connection refused"))
	cache.On("SetFleet", mock.Anything, 2, int64(1), mock.Anything).Return(errors.New("connection refused"))

	svc := newTestService(repo, Options{Cache: cache, DefaultCount: 2, MaxCount: 10})
	resp, err := svc.GetFlights(context.Background(), 2, seedPtr(1))
	require.NoError(t, err)
	svc.WaitBackground()

	assert.Len(t, resp.Data, 2)
}

func TestGetFlights_Count(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveFleet", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(repo, Options{DefaultCount: 5, MaxCount: 20})

	t.Run("clamped to max", func(t *testing.T) {
		resp, err := svc.GetFlights(context.Background(), 500, seedPtr(3))
		require.NoError(t, err)
		assert.Equal(t, 20, resp.Count)
	})

	t.Run("zero is empty", func(t *testing.T) {
		resp, err := svc.GetFlights(context.Background(), 0, seedPtr(3))
		require.NoError(t, err)
		assert.Empty(t, resp.Data)
		assert.Equal(t, 0, resp.Count)
	})

	t.Run("negative fails", func(t *testing.T) {
		_, err := svc.GetFlights(context.Background(), -1, seedPtr(3))
		var perr *domain.InvalidParameterError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "count", perr.Param)
	})

	svc.WaitBackground()
	// the empty fleet is never persisted
	repo.AssertNumberOfCalls(t, "SaveFleet", 1)
}

func TestGetEmissions(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveSnapshot", mock.Anything, mock.MatchedBy(func(rec domain.SnapshotRecord) bool {
		return rec.ID != "" && rec.BaselineTons == 1000 && rec.RecordedAt.Equal(fixedNow)
	})).Return(nil)

	svc := newTestService(repo, Options{BaselineTons: 1000})
	snap := svc.GetEmissions(context.Background())
	svc.WaitBackground()

	assert.Equal(t, domain.TimeframeSnapshot{Today: 1000, ThisWeek: 7000, ThisMonth: 30000, ThisYear: 365000}, snap)
	repo.AssertExpectations(t)
}

func TestGetEmissionsValue(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(repo, Options{BaselineTons: 1000})

	v, err := svc.GetEmissionsValue(context.Background(), "thisMonth")
	require.NoError(t, err)
	assert.Equal(t, domain.TimeframeThisMonth, v.Timeframe)
	assert.Equal(t, 30000.0, v.Value)

	_, err = svc.GetEmissionsValue(context.Background(), "lastDecade")
	var tfErr *domain.UnknownTimeframeError
	require.ErrorAs(t, err, &tfErr)
	assert.Equal(t, "lastDecade", tfErr.Key)

	svc.WaitBackground()
	repo.AssertNumberOfCalls(t, "SaveSnapshot", 1)
}

func TestGetEmissionsHistory(t *testing.T) {
	repo := new(MockRepository)
	records := []domain.SnapshotRecord{{ID: "a", RecordedAt: fixedNow}}
	repo.On("GetHistoricalSnapshots", mock.Anything, fixedNow.Add(-6*time.Hour), fixedNow).Return(records, nil).Once()
	repo.On("GetHistoricalSnapshots", mock.Anything, fixedNow.Add(-time.Hour), fixedNow).Return(nil, nil).Once()
	repo.On("GetHistoricalSnapshots", mock.Anything, fixedNow.Add(-2*time.Hour), fixedNow).Return(nil, errors.New("boom")).Once()

	svc := newTestService(repo, Options{})

	got, err := svc.GetEmissionsHistory(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	got, err = svc.GetEmissionsHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = svc.GetEmissionsHistory(context.Background(), 2)
	assert.ErrorContains(t, err, "boom")
}

func TestResolveAndRoute(t *testing.T) {
	svc := newTestService(new(MockRepository), Options{})

	p, ok := svc.Resolve("heathrow")
	require.True(t, ok)
	assert.Equal(t, domain.RoutePoint{51.4700, -0.4543}, p)

	_, ok = svc.Resolve("Atlantis")
	assert.False(t, ok)

	points, err := svc.Route("London Heathrow", "Paris CDG", 10)
	require.NoError(t, err)
	require.Len(t, points, 11)
	assert.Equal(t, domain.RoutePoint{51.4700, -0.4543}, points[0])
	assert.Equal(t, domain.RoutePoint{49.0097, 2.5479}, points[10])

	points, err = svc.Route("Atlantis", "Paris CDG", 10)
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestEstimateAndAircraft(t *testing.T) {
	svc := newTestService(new(MockRepository), Options{})

	res, err := svc.Estimate(domain.FlightRequest{Aircraft: "B737", DistanceKm: 1000, LoadFactor: 0.8})
	require.NoError(t, err)
	assert.Equal(t, 9.39, res.CO2Kg)
	assert.Equal(t, 144, res.Passengers)

	res, err = svc.EstimateRoute("JFK", "Heathrow", "B777", 0.8)
	require.NoError(t, err)
	assert.Equal(t, 280, res.Passengers)
	assert.Greater(t, res.DistanceKm, 5000.0)

	profiles := svc.Aircraft()
	require.NotEmpty(t, profiles)
	assert.Equal(t, domain.UnknownAircraft, profiles[len(profiles)-1].Code)
}

func TestHealth(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Health", mock.Anything).Return(errors.New("down")).Once()
	svc := newTestService(repo, Options{})
	assert.Error(t, svc.Health(context.Background()))
	repo.AssertExpectations(t)
}

func TestNewFlightService_Defaults(t *testing.T) {
	svc := NewFlightService(engine.New(), new(MockRepository), Options{DefaultCount: 0, MaxCount: 0})
	assert.Equal(t, 50, svc.DefaultCount())
	assert.Equal(t, 50, svc.maxCount)
}
