package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/repository"
)

var ErrRefreshInProgress = errors.New("refresh already in progress")

// DashboardServiceInterface is what the HTTP layer needs from the dashboard.
type DashboardServiceInterface interface {
	Refresh(ctx context.Context) error
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}

// DashboardService owns the dashboard state and its refresh lifecycle. All
// six slices are replaced together or not at all.
type DashboardService struct {
	repo     repository.WeatherRepository
	clock    func() time.Time
	interval time.Duration
	timeout  time.Duration
	logger   *zap.SugaredLogger

	refreshing atomic.Bool

	mu    sync.RWMutex
	state Snapshot

	subsMu    sync.Mutex
	subs      map[int]func(Snapshot)
	nextSubID int
}

type Option func(*DashboardService)

func WithClock(clock func() time.Time) Option {
	return func(s *DashboardService) { s.clock = clock }
}

func WithInterval(d time.Duration) Option {
	return func(s *DashboardService) { s.interval = d }
}

// WithTimeout bounds each refresh cycle; zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *DashboardService) { s.timeout = d }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *DashboardService) { s.logger = l }
}

// NewDashboardService creates the orchestrator. A nil repo falls back to the mock provider.
func NewDashboardService(repo repository.WeatherRepository, opts ...Option) *DashboardService {
	if repo == nil {
		repo = repository.NewWeatherRepository()
	}
	s := &DashboardService{
		repo:     repo,
		clock:    time.Now,
		interval: config.GetRefreshInterval(),
		timeout:  config.GetProviderTimeout(),
		logger:   config.GetLogger(),
		subs:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *DashboardService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn to be called after every state change. Listeners run
// on the refreshing goroutine and must not block.
func (s *DashboardService) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

func (s *DashboardService) notify(snap Snapshot) {
	s.subsMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap.clone())
	}
}

// update applies fn to the state under the lock and notifies subscribers.
func (s *DashboardService) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	s.mu.Unlock()
	s.notify(snap)
}

// fetched holds one cycle's results. Each goroutine writes only its own fields.
type fetched struct {
	current *model.CurrentConditions
	hourly  []model.HourlyPoint
	daily   []model.DailyPoint
	air     *model.AirQuality
	alerts  []model.Alert
	monsoon *model.MonsoonStatus

	errs [6]error
	done [6]bool
}

// Refresh fetches all six slices concurrently. It replaces the state only
// when every call succeeds; otherwise the previous data and last-updated
// stamp are kept and the failing slices are recorded. Returns
// ErrRefreshInProgress without doing anything if a cycle is already running.
func (s *DashboardService) Refresh(ctx context.Context) error {
	if !s.refreshing.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}

	cycle := uuid.NewString()
	started := time.Now()
	s.update(func(st *Snapshot) { st.Loading = true })

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var res fetched
	var wg conc.WaitGroup
	wg.Go(func() { res.current, res.errs[0] = s.repo.GetCurrent(ctx); res.done[0] = true })
	wg.Go(func() { res.hourly, res.errs[1] = s.repo.GetHourly(ctx); res.done[1] = true })
	wg.Go(func() { res.daily, res.errs[2] = s.repo.GetDaily(ctx); res.done[2] = true })
	wg.Go(func() { res.air, res.errs[3] = s.repo.GetAirQuality(ctx); res.done[3] = true })
	wg.Go(func() { res.alerts, res.errs[4] = s.repo.GetAlerts(ctx); res.done[4] = true })
	wg.Go(func() { res.monsoon, res.errs[5] = s.repo.GetMonsoon(ctx); res.done[5] = true })
	if recovered := wg.WaitAndRecover(); recovered != nil {
		for i := range res.done {
			if !res.done[i] && res.errs[i] == nil {
				res.errs[i] = fmt.Errorf("provider panic: %v", recovered.Value)
			}
		}
	}

	failures := make(map[model.Slice]string)
	var errs error
	for i, slice := range model.AllSlices {
		if res.errs[i] != nil {
			failures[slice] = res.errs[i].Error()
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", slice, res.errs[i]))
		}
	}

	if errs != nil {
		s.update(func(st *Snapshot) {
			st.Loading = false
			st.Failures = failures
			s.refreshing.Store(false)
		})
		s.logger.Errorw("Refresh cycle failed, keeping previous data",
			"cycle", cycle, "failed", failedSlices(failures), "duration", time.Since(started), "error", errs)
		return fmt.Errorf("refresh dashboard: %w", errs)
	}

	updated := s.clock()
	s.update(func(st *Snapshot) {
		st.Current = res.current
		st.Hourly = res.hourly
		st.Daily = res.daily
		st.AirQuality = res.air
		st.Alerts = res.alerts
		st.Monsoon = res.monsoon
		st.LastUpdated = &updated
		st.Failures = nil
		st.Loading = false
		s.refreshing.Store(false)
	})
	s.logger.Infow("Refresh cycle completed", "cycle", cycle, "duration", time.Since(started))
	return nil
}

func failedSlices(failures map[model.Slice]string) []string {
	out := make([]string, 0, len(failures))
	for _, slice := range model.AllSlices {
		if _, ok := failures[slice]; ok {
			out = append(out, string(slice))
		}
	}
	return out
}

// Start runs the initial refresh and then one per interval until stop is
// called or ctx is cancelled. stop waits for the loop to exit.
func (s *DashboardService) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.tick(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (s *DashboardService) tick(ctx context.Context) {
	if err := s.Refresh(ctx); errors.Is(err, ErrRefreshInProgress) {
		s.logger.Debugw("Skipping scheduled refresh, one is already running")
	}
}
