package repository

import (
	"context"
	"errors"

	"github.com/fakhrymubarak/chennai-weather/internal/model"
)

// Custom error types
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// WeatherRepository is the seam a real weather API plugs into. Every call
// serves the single dashboard location and may fail independently.
type WeatherRepository interface {
	GetCurrent(ctx context.Context) (*model.CurrentConditions, error)
	GetHourly(ctx context.Context) ([]model.HourlyPoint, error)
	GetDaily(ctx context.Context) ([]model.DailyPoint, error)
	GetAirQuality(ctx context.Context) (*model.AirQuality, error)
	GetAlerts(ctx context.Context) ([]model.Alert, error)
	GetMonsoon(ctx context.Context) (*model.MonsoonStatus, error)
}
