package view

import (
	"time"

	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

// refNow is Saturday 18 October 2025, 09:30 in Chennai.
var refNow = time.Date(2025, time.October, 18, 9, 30, 0, 0, format.Chennai)

func fullSnapshot() service.Snapshot {
	updated := time.Date(2025, time.October, 18, 9, 15, 0, 0, format.Chennai)
	sunrise := time.Date(2025, time.October, 18, 6, 0, 0, 0, format.Chennai)
	sunset := time.Date(2025, time.October, 18, 18, 0, 0, 0, format.Chennai)
	validUntil := time.Date(2025, time.October, 18, 20, 0, 0, 0, format.Chennai)

	hourly := make([]model.HourlyPoint, 24)
	for i := range hourly {
		hourly[i] = model.HourlyPoint{
			Time:            time.Date(2025, time.October, 18, 9, 0, 0, 0, format.Chennai).Add(time.Duration(i) * time.Hour),
			Temperature:     30,
			RainProbability: 40,
			WindSpeed:       12.6,
			WindDirection:   "SW",
			Icon:            "09d",
			Description:     "Light rain",
		}
	}
	daily := make([]model.DailyPoint, 7)
	for i := range daily {
		daily[i] = model.DailyPoint{
			Date:            refNow.AddDate(0, 0, i).Format("2006-01-02"),
			TempMax:         34,
			TempMin:         26,
			RainProbability: 70,
			Description:     "Thunderstorms",
			Icon:            "11d",
			WindSpeed:       14.4,
			UVIndex:         7.5,
		}
	}

	return service.Snapshot{
		Current: &model.CurrentConditions{
			Location:        "Chennai",
			Temperature:     32.4,
			FeelsLike:       38,
			Description:     "Hot and humid",
			Icon:            "01d",
			Humidity:        72.5,
			WindSpeed:       12,
			WindDirection:   "SW",
			Pressure:        1008,
			Visibility:      8,
			UVIndex:         9,
			Sunrise:         sunrise.Unix(),
			Sunset:          sunset.Unix(),
			RainProbability: 65,
		},
		Hourly: hourly,
		Daily:  daily,
		AirQuality: &model.AirQuality{
			AQI: 156.4, PM25: 75.25, PM10: 110, NO2: 45, SO2: 12, CO: 1.2, O3: 78,
			QualityLevel: "Unhealthy",
			HealthAdvice: "Limit prolonged outdoor exertion.",
		},
		Alerts: []model.Alert{
			{
				ID: "a1", Type: model.AlertRain, Severity: model.SeverityModerate,
				Title: "Heavy Rain Warning", Description: "Heavy rainfall this evening.",
				ValidUntil: validUntil.UnixMilli(), Source: "IMD Chennai",
			},
			{
				ID: "a2", Type: model.AlertCyclone, Severity: model.SeverityExtreme,
				Title: "Cyclone Watch", Description: "Depression over the Bay of Bengal.",
				ValidUntil: validUntil.UnixMilli(), Source: "IMD",
			},
		},
		Monsoon: &model.MonsoonStatus{
			OnsetDate:           "2025-06-15",
			WithdrawalDate:      "2025-10-20",
			CurrentRainfall:     1247,
			NormalRainfall:      1200,
			DeviationPercentage: 3.9,
			FloodRisk:           model.FloodRiskModerate,
			ReservoirLevels: model.ReservoirLevels{
				Poondi: 78, Cholavaram: 45, RedHills: 82, Chembarambakkam: 67,
			},
		},
		LastUpdated: &updated,
	}
}
