package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/repository"
)

// Mock repository for testing
type fakeRepository struct {
	mu      sync.Mutex
	fail    map[model.Slice]error
	panicOn model.Slice
	temp    float64
	gate    chan struct{}
	calls   atomic.Int32
}

func (f *fakeRepository) setFail(slice model.Slice, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = map[model.Slice]error{}
	}
	if err == nil {
		delete(f.fail, slice)
		return
	}
	f.fail[slice] = err
}

func (f *fakeRepository) check(ctx context.Context, slice model.Slice) error {
	f.mu.Lock()
	err := f.fail[slice]
	panicOn := f.panicOn
	gate := f.gate
	f.mu.Unlock()

	if panicOn == slice {
		panic("provider exploded")
	}
	if gate != nil && slice == model.SliceCurrent {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeRepository) GetCurrent(ctx context.Context) (*model.CurrentConditions, error) {
	f.calls.Add(1)
	if err := f.check(ctx, model.SliceCurrent); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.CurrentConditions{Location: "Chennai", Temperature: f.temp, Description: "Clear"}, nil
}

func (f *fakeRepository) GetHourly(ctx context.Context) ([]model.HourlyPoint, error) {
	if err := f.check(ctx, model.SliceHourly); err != nil {
		return nil, err
	}
	return make([]model.HourlyPoint, 24), nil
}

func (f *fakeRepository) GetDaily(ctx context.Context) ([]model.DailyPoint, error) {
	if err := f.check(ctx, model.SliceDaily); err != nil {
		return nil, err
	}
	return make([]model.DailyPoint, 7), nil
}

func (f *fakeRepository) GetAirQuality(ctx context.Context) (*model.AirQuality, error) {
	if err := f.check(ctx, model.SliceAirQuality); err != nil {
		return nil, err
	}
	return &model.AirQuality{AQI: 42}, nil
}

func (f *fakeRepository) GetAlerts(ctx context.Context) ([]model.Alert, error) {
	if err := f.check(ctx, model.SliceAlerts); err != nil {
		return nil, err
	}
	return []model.Alert{{ID: "1", Type: model.AlertRain}}, nil
}

func (f *fakeRepository) GetMonsoon(ctx context.Context) (*model.MonsoonStatus, error) {
	if err := f.check(ctx, model.SliceMonsoon); err != nil {
		return nil, err
	}
	return &model.MonsoonStatus{FloodRisk: model.FloodRiskLow}, nil
}

var _ repository.WeatherRepository = (*fakeRepository)(nil)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestService(repo repository.WeatherRepository, opts ...Option) (*DashboardService, *stepClock) {
	clock := &stepClock{now: time.Date(2025, 10, 18, 9, 0, 0, 0, time.UTC)}
	base := []Option{
		WithClock(clock.Now),
		WithLogger(zap.NewNop().Sugar()),
		WithTimeout(time.Second),
		WithInterval(time.Hour),
	}
	return NewDashboardService(repo, append(base, opts...)...), clock
}

func TestNewDashboardService_NilRepo(t *testing.T) {
	svc := NewDashboardService(nil)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.repo)
}

func TestRefresh_AllSlicesSucceed(t *testing.T) {
	repo := &fakeRepository{temp: 31}
	svc, _ := newTestService(repo)

	require.NoError(t, svc.Refresh(context.Background()))

	snap := svc.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, 31.0, snap.Current.Temperature)
	assert.Len(t, snap.Hourly, 24)
	assert.Len(t, snap.Daily, 7)
	assert.NotNil(t, snap.AirQuality)
	assert.Len(t, snap.Alerts, 1)
	assert.NotNil(t, snap.Monsoon)
	require.NotNil(t, snap.LastUpdated)
	assert.Equal(t, time.Date(2025, 10, 18, 9, 1, 0, 0, time.UTC), *snap.LastUpdated)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Failures)
}

func TestRefresh_OneFailureKeepsEverySlice(t *testing.T) {
	repo := &fakeRepository{temp: 31}
	svc, _ := newTestService(repo)
	require.NoError(t, svc.Refresh(context.Background()))
	before := svc.Snapshot()

	repo.mu.Lock()
	repo.temp = 39
	repo.mu.Unlock()
	repo.setFail(model.SliceMonsoon, repository.ErrProviderUnavailable)

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrProviderUnavailable)

	after := svc.Snapshot()
	assert.Equal(t, 31.0, after.Current.Temperature, "current must not update when another slice fails")
	assert.Equal(t, *before.LastUpdated, *after.LastUpdated, "last updated must not advance")
	assert.True(t, after.Stale(model.SliceMonsoon))
	assert.False(t, after.Stale(model.SliceCurrent))
	assert.False(t, after.Loading)

	// recovery clears the failure markers and applies the new readings
	repo.setFail(model.SliceMonsoon, nil)
	require.NoError(t, svc.Refresh(context.Background()))
	recovered := svc.Snapshot()
	assert.Equal(t, 39.0, recovered.Current.Temperature)
	assert.True(t, recovered.LastUpdated.After(*before.LastUpdated))
	assert.Empty(t, recovered.Failures)
}

func TestRefresh_FailureBeforeFirstSuccess(t *testing.T) {
	repo := &fakeRepository{}
	repo.setFail(model.SliceHourly, errors.New("boom"))
	repo.setFail(model.SliceAlerts, errors.New("bang"))
	svc, _ := newTestService(repo)

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly")
	assert.Contains(t, err.Error(), "alerts")

	snap := svc.Snapshot()
	assert.Nil(t, snap.Current)
	assert.Nil(t, snap.LastUpdated)
	assert.Len(t, snap.Failures, 2)
	assert.Equal(t, "bang", snap.Failures[model.SliceAlerts])
}

func TestRefresh_PanicIsRecordedAsFailure(t *testing.T) {
	repo := &fakeRepository{panicOn: model.SliceDaily}
	svc, _ := newTestService(repo)

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	snap := svc.Snapshot()
	assert.True(t, snap.Stale(model.SliceDaily))
	assert.Contains(t, snap.Failures[model.SliceDaily], "provider exploded")
	assert.Nil(t, snap.LastUpdated)
}

func TestRefresh_TimeoutBoundsCycle(t *testing.T) {
	repo := &fakeRepository{gate: make(chan struct{})}
	svc, _ := newTestService(repo, WithTimeout(20*time.Millisecond))

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, svc.Snapshot().Stale(model.SliceCurrent))
}

func TestRefresh_NoOpWhileInFlight(t *testing.T) {
	repo := &fakeRepository{gate: make(chan struct{})}
	svc, _ := newTestService(repo)

	loading := make(chan struct{}, 1)
	unsubscribe := svc.Subscribe(func(s Snapshot) {
		if s.Loading {
			select {
			case loading <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	firstDone := make(chan error, 1)
	go func() { firstDone <- svc.Refresh(context.Background()) }()

	select {
	case <-loading:
	case <-time.After(time.Second):
		t.Fatal("refresh never started")
	}
	assert.True(t, svc.Snapshot().Loading)
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, time.Millisecond)

	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInProgress)
	assert.Equal(t, int32(1), repo.calls.Load(), "second refresh must not call the provider")

	close(repo.gate)
	require.NoError(t, <-firstDone)
	assert.False(t, svc.Snapshot().Loading)

	// a new cycle is allowed once the previous one finished
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestSubscribe(t *testing.T) {
	svc, _ := newTestService(&fakeRepository{})

	var mu sync.Mutex
	var seen []bool
	unsubscribe := svc.Subscribe(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s.Loading)
		mu.Unlock()
	})

	require.NoError(t, svc.Refresh(context.Background()))
	mu.Lock()
	assert.Equal(t, []bool{true, false}, seen)
	mu.Unlock()

	unsubscribe()
	unsubscribe()
	require.NoError(t, svc.Refresh(context.Background()))
	mu.Lock()
	assert.Len(t, seen, 2)
	mu.Unlock()
}

func TestSnapshotIsACopy(t *testing.T) {
	repo := &fakeRepository{}
	repo.setFail(model.SliceMonsoon, errors.New("down"))
	svc, _ := newTestService(repo)
	_ = svc.Refresh(context.Background())

	snap := svc.Snapshot()
	snap.Failures[model.SliceCurrent] = "tampered"
	assert.False(t, svc.Snapshot().Stale(model.SliceCurrent))
}

func TestStart_RefreshesPeriodicallyUntilStopped(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := newTestService(repo, WithInterval(10*time.Millisecond))

	stop := svc.Start(context.Background())
	assert.Eventually(t, func() bool { return repo.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	stop()
	stop()

	calls := repo.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, repo.calls.Load(), "no refresh may run after stop")
	assert.NotNil(t, svc.Snapshot().LastUpdated)
}

func TestStart_InitialRefreshIsImmediate(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := newTestService(repo)

	stop := svc.Start(context.Background())
	defer stop()
	assert.Eventually(t, func() bool { return svc.Snapshot().LastUpdated != nil }, time.Second, 5*time.Millisecond)
}

func TestStart_StopsWithParentContext(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := newTestService(repo, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	stop := svc.Start(ctx)
	assert.Eventually(t, func() bool { return repo.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("periodic refresh did not stop after context cancellation")
	}
}
