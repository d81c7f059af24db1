package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
)

const (
	HourlyPoints = 24
	DailyPoints  = 7
)

// Artificial latency per call, before scaling.
const (
	currentLatency    = 1000 * time.Millisecond
	hourlyLatency     = 800 * time.Millisecond
	dailyLatency      = 600 * time.Millisecond
	airQualityLatency = 500 * time.Millisecond
	alertsLatency     = 400 * time.Millisecond
	monsoonLatency    = 700 * time.Millisecond
)

var (
	windDirections     = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	hourlyIcons        = []string{"01d", "02d", "03d", "04d", "09d", "10d"}
	hourlyDescriptions = []string{"Clear", "Partly cloudy", "Cloudy", "Light rain", "Heavy rain"}
	dailyIcons         = []string{"01d", "02d", "11d", "09d", "10d"}
	dailyDescriptions  = []string{"Sunny", "Partly cloudy", "Thunderstorms", "Heavy rain", "Light rain"}
)

// mockWeatherRepository generates randomized Chennai readings with a delay
// per call, standing in for a real upstream API.
type mockWeatherRepository struct {
	mu           sync.Mutex
	rng          *rand.Rand
	clock        func() time.Time
	latencyScale float64
	failureRate  float64
}

type Option func(*mockWeatherRepository)

func WithClock(clock func() time.Time) Option {
	return func(r *mockWeatherRepository) { r.clock = clock }
}

func WithSeed(seed uint64) Option {
	return func(r *mockWeatherRepository) { r.rng = rand.New(rand.NewPCG(seed, seed>>1|1)) }
}

// WithLatencyScale multiplies every artificial delay; 0 disables them.
func WithLatencyScale(scale float64) Option {
	return func(r *mockWeatherRepository) { r.latencyScale = scale }
}

// WithFailureRate makes each call fail with ErrProviderUnavailable with probability p.
func WithFailureRate(p float64) Option {
	return func(r *mockWeatherRepository) { r.failureRate = p }
}

// NewWeatherRepository creates the mock provider, configured from config by default.
func NewWeatherRepository(opts ...Option) WeatherRepository {
	now := uint64(time.Now().UnixNano())
	r := &mockWeatherRepository{
		rng:          rand.New(rand.NewPCG(now, now>>1|1)),
		clock:        time.Now,
		latencyScale: config.GetProviderLatencyScale(),
		failureRate:  config.GetProviderFailureRate(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *mockWeatherRepository) float() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *mockWeatherRepository) pick(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// simulate waits out the call's latency and rolls the injected failure.
func (r *mockWeatherRepository) simulate(ctx context.Context, what string, latency time.Duration) error {
	if d := time.Duration(float64(latency) * r.latencyScale); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("fetch %s: %w", what, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return fmt.Errorf("fetch %s: %w", what, err)
	}
	if r.failureRate > 0 && r.float() < r.failureRate {
		return fmt.Errorf("fetch %s: %w", what, ErrProviderUnavailable)
	}
	return nil
}

func (r *mockWeatherRepository) GetCurrent(ctx context.Context) (*model.CurrentConditions, error) {
	if err := r.simulate(ctx, "current conditions", currentLatency); err != nil {
		return nil, err
	}
	now := r.clock().In(format.Chennai)
	y, m, d := now.Date()
	return &model.CurrentConditions{
		Location:        "Chennai, Tamil Nadu",
		Temperature:     28 + r.float()*10,
		FeelsLike:       38,
		Description:     "Hot and humid",
		Icon:            "01d",
		Humidity:        65 + r.float()*25,
		WindSpeed:       12,
		WindDirection:   "SW",
		Pressure:        1008,
		Visibility:      8,
		UVIndex:         9,
		Sunrise:         time.Date(y, m, d, 6, 0, 0, 0, format.Chennai).Unix(),
		Sunset:          time.Date(y, m, d, 18, 0, 0, 0, format.Chennai).Unix(),
		RainProbability: int(r.float() * 60),
	}, nil
}

func (r *mockWeatherRepository) GetHourly(ctx context.Context) ([]model.HourlyPoint, error) {
	if err := r.simulate(ctx, "hourly forecast", hourlyLatency); err != nil {
		return nil, err
	}
	now := r.clock().In(format.Chennai)
	start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, format.Chennai)
	points := make([]model.HourlyPoint, HourlyPoints)
	for i := range points {
		points[i] = model.HourlyPoint{
			Time:            start.Add(time.Duration(i) * time.Hour),
			Temperature:     28 + r.float()*8,
			RainProbability: int(r.float() * 60),
			WindSpeed:       8 + r.float()*10,
			WindDirection:   windDirections[r.pick(len(windDirections))],
			Icon:            hourlyIcons[r.pick(len(hourlyIcons))],
			Description:     hourlyDescriptions[r.pick(len(hourlyDescriptions))],
		}
	}
	return points, nil
}

func (r *mockWeatherRepository) GetDaily(ctx context.Context) ([]model.DailyPoint, error) {
	if err := r.simulate(ctx, "daily forecast", dailyLatency); err != nil {
		return nil, err
	}
	today := r.clock().In(format.Chennai)
	points := make([]model.DailyPoint, DailyPoints)
	for i := range points {
		kind := r.pick(len(dailyDescriptions))
		points[i] = model.DailyPoint{
			Date:            format.DateString(today.AddDate(0, 0, i)),
			TempMax:         30 + r.float()*8,
			TempMin:         24 + r.float()*4,
			RainProbability: int(r.float() * 80),
			Description:     dailyDescriptions[kind],
			Icon:            dailyIcons[kind],
			Humidity:        65 + r.float()*20,
			WindSpeed:       8 + r.float()*12,
			UVIndex:         6 + r.float()*5,
		}
	}
	return points, nil
}

func (r *mockWeatherRepository) GetAirQuality(ctx context.Context) (*model.AirQuality, error) {
	if err := r.simulate(ctx, "air quality", airQualityLatency); err != nil {
		return nil, err
	}
	aq := &model.AirQuality{
		AQI:  120 + r.float()*80,
		PM25: 60 + r.float()*40,
		PM10: 80 + r.float()*60,
		NO2:  45,
		SO2:  12,
		CO:   1.2,
		O3:   78,
	}
	aq.QualityLevel = format.AQIBandFor(aq.AQI).Label(i18n.English)
	aq.HealthAdvice = format.HealthAdvice(*aq, i18n.English)
	return aq, nil
}

func (r *mockWeatherRepository) GetAlerts(ctx context.Context) ([]model.Alert, error) {
	if err := r.simulate(ctx, "alerts", alertsLatency); err != nil {
		return nil, err
	}
	now := r.clock()
	return []model.Alert{
		{
			ID:          uuid.NewString(),
			Type:        model.AlertRain,
			Severity:    model.SeverityModerate,
			Title:       "Heavy Rain Expected",
			Description: "Heavy rainfall expected in Chennai and surrounding areas from 3 PM to 8 PM today.",
			IssuedTime:  now.Add(-time.Hour).UnixMilli(),
			ValidUntil:  now.Add(5 * time.Hour).UnixMilli(),
			Source:      "IMD Chennai",
		},
		{
			ID:          uuid.NewString(),
			Type:        model.AlertHeat,
			Severity:    model.SeverityHigh,
			Title:       "Heat Wave Warning",
			Description: "Temperature may reach 42°C. Stay hydrated and avoid direct sunlight.",
			IssuedTime:  now.Add(-2 * time.Hour).UnixMilli(),
			ValidUntil:  now.Add(24 * time.Hour).UnixMilli(),
			Source:      "Tamil Nadu Disaster Management",
		},
	}, nil
}

func (r *mockWeatherRepository) GetMonsoon(ctx context.Context) (*model.MonsoonStatus, error) {
	if err := r.simulate(ctx, "monsoon status", monsoonLatency); err != nil {
		return nil, err
	}
	year := r.clock().In(format.Chennai).Year()
	return &model.MonsoonStatus{
		OnsetDate:           fmt.Sprintf("%d-06-15", year),
		WithdrawalDate:      fmt.Sprintf("%d-10-20", year),
		CurrentRainfall:     1247,
		NormalRainfall:      1200,
		DeviationPercentage: 3.9,
		FloodRisk:           model.FloodRiskModerate,
		ReservoirLevels: model.ReservoirLevels{
			Poondi:          78,
			Cholavaram:      45,
			RedHills:        67,
			Chembarambakkam: 89,
		},
	}, nil
}
