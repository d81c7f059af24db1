package format

import (
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
)

type AQIBand int

const (
	AQIGood AQIBand = iota
	AQIModerate
	AQIUnhealthySensitive
	AQIUnhealthy
	AQIVeryUnhealthy
	AQIHazardous
)

var aqiBands = []struct {
	upper float64
	slug  string
	msgID string
	tone  string
}{
	{50, "good", "aqi.good", "green"},
	{100, "moderate", "aqi.moderate", "yellow"},
	{150, "unhealthy-for-sensitive", "aqi.unhealthy_sensitive", "orange"},
	{200, "unhealthy", "aqi.unhealthy", "red"},
	{300, "very-unhealthy", "aqi.very_unhealthy", "purple"},
	{0, "hazardous", "aqi.hazardous", "crimson"},
}

// AQIBandFor bands an AQI value; each threshold belongs to the lower tier.
func AQIBandFor(aqi float64) AQIBand {
	for i, b := range aqiBands[:len(aqiBands)-1] {
		if aqi <= b.upper {
			return AQIBand(i)
		}
	}
	return AQIHazardous
}

func (b AQIBand) String() string { return aqiBands[b].slug }

func (b AQIBand) Label(lang i18n.Language) string { return i18n.T(lang, aqiBands[b].msgID) }

func (b AQIBand) Tone() string { return aqiBands[b].tone }

// HealthAdvice returns the advice line for the air quality card. English uses
// the provider's advice when present; Tamil is chosen by AQI.
func HealthAdvice(aq model.AirQuality, lang i18n.Language) string {
	if lang == i18n.English && aq.HealthAdvice != "" {
		return aq.HealthAdvice
	}
	switch {
	case aq.AQI > 150:
		return i18n.T(lang, "aqi.advice.avoid")
	case aq.AQI > 100:
		return i18n.T(lang, "aqi.advice.sensitive")
	default:
		return i18n.T(lang, "aqi.advice.good")
	}
}

type UVBand int

const (
	UVLow UVBand = iota
	UVModerate
	UVHigh
	UVVeryHigh
	UVExtreme
)

var uvBands = []struct {
	upper float64
	slug  string
	msgID string
	tone  string
}{
	{2, "low", "uv.low", "green"},
	{5, "moderate", "uv.moderate", "yellow"},
	{7, "high", "uv.high", "orange"},
	{10, "very-high", "uv.very_high", "red"},
	{0, "extreme", "uv.extreme", "purple"},
}

func UVBandFor(uv float64) UVBand {
	for i, b := range uvBands[:len(uvBands)-1] {
		if uv <= b.upper {
			return UVBand(i)
		}
	}
	return UVExtreme
}

func (b UVBand) String() string { return uvBands[b].slug }

func (b UVBand) Label(lang i18n.Language) string { return i18n.T(lang, uvBands[b].msgID) }

func (b UVBand) Tone() string { return uvBands[b].tone }

// FloodRiskLabel localizes a flood risk; unknown values are returned as-is.
func FloodRiskLabel(risk model.FloodRisk, lang i18n.Language) string {
	if msg, ok := i18n.Lookup(lang, "flood."+string(risk)); ok {
		return msg
	}
	return string(risk)
}

func FloodRiskTone(risk model.FloodRisk) string {
	switch risk {
	case model.FloodRiskLow:
		return "green"
	case model.FloodRiskModerate:
		return "yellow"
	case model.FloodRiskHigh:
		return "red"
	default:
		return "gray"
	}
}

func SeverityLabel(sev model.Severity, lang i18n.Language) string {
	if msg, ok := i18n.Lookup(lang, "severity."+string(sev)); ok {
		return msg
	}
	return string(sev)
}

func SeverityTone(sev model.Severity) string {
	switch sev {
	case model.SeverityLow:
		return "yellow"
	case model.SeverityModerate:
		return "orange"
	case model.SeverityHigh:
		return "red"
	case model.SeverityExtreme:
		return "purple"
	default:
		return "gray"
	}
}

func ReservoirTone(pct float64) string {
	switch {
	case pct > 80:
		return "green"
	case pct > 50:
		return "yellow"
	default:
		return "red"
	}
}

// RainfallProgress is current rainfall as a percentage of normal, capped at 100.
func RainfallProgress(current, normal float64) float64 {
	if normal <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	p := current / normal * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
