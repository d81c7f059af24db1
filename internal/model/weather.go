package model

import "time"

// CurrentConditions is the latest observation for the dashboard location.
type CurrentConditions struct {
	Location        string  `json:"location"`
	Temperature     float64 `json:"temp"`
	FeelsLike       float64 `json:"feels_like"`
	Description     string  `json:"description"`
	Icon            string  `json:"icon"`
	Humidity        float64 `json:"humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	WindDirection   string  `json:"wind_direction"`
	Pressure        int     `json:"pressure"`
	Visibility      float64 `json:"visibility"`
	UVIndex         float64 `json:"uv_index"`
	Sunrise         int64   `json:"sunrise"` // epoch seconds
	Sunset          int64   `json:"sunset"`  // epoch seconds
	RainProbability int     `json:"rain_probability"`
}

type HourlyPoint struct {
	Time            time.Time `json:"time"`
	Temperature     float64   `json:"temp"`
	RainProbability int       `json:"rain_probability"`
	WindSpeed       float64   `json:"wind_speed"`
	WindDirection   string    `json:"wind_direction"`
	Icon            string    `json:"icon"`
	Description     string    `json:"description"`
}

type DailyPoint struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	TempMax         float64 `json:"temp_max"`
	TempMin         float64 `json:"temp_min"`
	RainProbability int     `json:"rain_probability"`
	Description     string  `json:"description"`
	Icon            string  `json:"icon"`
	Humidity        float64 `json:"humidity"`
	WindSpeed       float64 `json:"wind_speed"`
	UVIndex         float64 `json:"uv_index"`
}

type AirQuality struct {
	AQI          float64 `json:"aqi"`
	PM25         float64 `json:"pm25"`
	PM10         float64 `json:"pm10"`
	NO2          float64 `json:"no2"`
	SO2          float64 `json:"so2"`
	CO           float64 `json:"co"`
	O3           float64 `json:"o3"`
	QualityLevel string  `json:"quality_level"`
	HealthAdvice string  `json:"health_advice"`
}

type AlertType string

const (
	AlertRain         AlertType = "rain"
	AlertCyclone      AlertType = "cyclone"
	AlertHeat         AlertType = "heat"
	AlertFlood        AlertType = "flood"
	AlertThunderstorm AlertType = "thunderstorm"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityExtreme  Severity = "extreme"
)

type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IssuedTime  int64     `json:"issued_time"` // epoch milliseconds
	ValidUntil  int64     `json:"valid_until"` // epoch milliseconds
	Source      string    `json:"source"`
}

type FloodRisk string

const (
	FloodRiskLow      FloodRisk = "low"
	FloodRiskModerate FloodRisk = "moderate"
	FloodRiskHigh     FloodRisk = "high"
)

// ReservoirLevels holds fill percentages of the four lakes supplying Chennai.
type ReservoirLevels struct {
	Poondi          float64 `json:"poondi"`
	Cholavaram      float64 `json:"cholavaram"`
	RedHills        float64 `json:"redhills"`
	Chembarambakkam float64 `json:"chembarambakkam"`
}

type MonsoonStatus struct {
	OnsetDate           string          `json:"onset_date"`      // YYYY-MM-DD
	WithdrawalDate      string          `json:"withdrawal_date"` // YYYY-MM-DD
	CurrentRainfall     float64         `json:"current_rainfall"`
	NormalRainfall      float64         `json:"normal_rainfall"`
	DeviationPercentage float64         `json:"deviation_percentage"`
	FloodRisk           FloodRisk       `json:"flood_risk"`
	ReservoirLevels     ReservoirLevels `json:"reservoir_levels"`
}

// Slice names one of the six independently fetched records.
type Slice string

const (
	SliceCurrent    Slice = "current"
	SliceHourly     Slice = "hourly"
	SliceDaily      Slice = "daily"
	SliceAirQuality Slice = "air_quality"
	SliceAlerts     Slice = "alerts"
	SliceMonsoon    Slice = "monsoon"
)

// AllSlices lists the slices in the order they are fetched and rendered.
var AllSlices = []Slice{SliceCurrent, SliceHourly, SliceDaily, SliceAirQuality, SliceAlerts, SliceMonsoon}
