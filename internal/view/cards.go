package view

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

// number prints v with at most one decimal and no trailing zeros.
func number(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func degrees(c float64, unit format.Unit) string {
	return fmt.Sprintf("%d°", format.Convert(c, unit))
}

type AlertItem struct {
	Title           string
	Description     string
	Severity        string
	SeverityTone    string
	SourceLabel     string
	Source          string
	ValidUntilLabel string
	ValidUntil      string
}

type AlertsCard struct {
	Card
	NoneText string
	Items    []AlertItem
}

func BuildAlerts(snap service.Snapshot, lang i18n.Language) AlertsCard {
	card := AlertsCard{Card: newCard(snap, model.SliceAlerts, "alerts.title", false, lang)}
	if len(snap.Alerts) == 0 {
		card.NoneText = i18n.T(lang, "alerts.none")
		return card
	}
	for _, a := range snap.Alerts {
		card.Items = append(card.Items, AlertItem{
			Title:           alertTitle(a, lang),
			Description:     alertDescription(a, lang),
			Severity:        format.SeverityLabel(a.Severity, lang),
			SeverityTone:    format.SeverityTone(a.Severity),
			SourceLabel:     i18n.T(lang, "alerts.source"),
			Source:          a.Source,
			ValidUntilLabel: i18n.T(lang, "alerts.valid_until"),
			ValidUntil:      format.AlertTime(a.ValidUntil, lang),
		})
	}
	return card
}

// alertTitle prefers the provider's text in English and the catalog title
// for the alert type in Tamil.
func alertTitle(a model.Alert, lang i18n.Language) string {
	if lang == i18n.English && a.Title != "" {
		return a.Title
	}
	if msg, ok := i18n.Lookup(lang, "alert.title."+string(a.Type)); ok {
		return msg
	}
	return a.Title
}

func alertDescription(a model.Alert, lang i18n.Language) string {
	if lang == i18n.English {
		return a.Description
	}
	if msg, ok := i18n.Lookup(lang, "alert.description."+string(a.Type)); ok {
		return msg
	}
	return a.Description
}

type CurrentCard struct {
	Card
	Location    string
	Description string
	Glyph       string
	Temperature string
	FeelsLike   string
	Humidity    string
	Wind        string
	Visibility  string
	Pressure    string
	UV          string
	UVTone      string
	Sunrise     string
	Sunset      string
	RainChance  int
}

func BuildCurrent(snap service.Snapshot, unit format.Unit, lang i18n.Language) CurrentCard {
	cur := snap.Current
	card := CurrentCard{Card: newCard(snap, model.SliceCurrent, "current.title", cur == nil, lang)}
	if cur == nil {
		return card
	}
	uv := format.UVBandFor(cur.UVIndex)
	card.Location = cur.Location
	card.Description = cur.Description
	card.Glyph = format.Glyph(cur.Icon)
	card.Temperature = fmt.Sprintf("%d%s", format.Convert(cur.Temperature, unit), format.Symbol(unit))
	card.FeelsLike = fmt.Sprintf("%s %s", i18n.T(lang, "current.feels_like"), degrees(cur.FeelsLike, unit))
	card.Humidity = fmt.Sprintf("%d%%", format.Round(cur.Humidity))
	card.Wind = fmt.Sprintf("%s km/h %s", number(cur.WindSpeed), cur.WindDirection)
	card.Visibility = number(cur.Visibility) + " km"
	card.Pressure = fmt.Sprintf("%d hPa", cur.Pressure)
	card.UV = fmt.Sprintf("%s - %s", number(cur.UVIndex), uv.Label(lang))
	card.UVTone = uv.Tone()
	card.Sunrise = format.EpochClock(cur.Sunrise)
	card.Sunset = format.EpochClock(cur.Sunset)
	card.RainChance = cur.RainProbability
	return card
}

type Pollutant struct {
	Name  string
	Value string
}

type AirQualityCard struct {
	Card
	AQI         int
	Band        string
	Tone        string
	Pollutants  []Pollutant
	AdviceTitle string
	Advice      string
}

func BuildAirQuality(snap service.Snapshot, lang i18n.Language) AirQualityCard {
	aq := snap.AirQuality
	card := AirQualityCard{Card: newCard(snap, model.SliceAirQuality, "aqi.title", aq == nil, lang)}
	if aq == nil {
		return card
	}
	band := format.AQIBandFor(aq.AQI)
	card.AQI = format.Round(aq.AQI)
	card.Band = band.Label(lang)
	card.Tone = band.Tone()
	card.Pollutants = []Pollutant{
		{Name: "PM2.5", Value: number(aq.PM25)},
		{Name: "PM10", Value: number(aq.PM10)},
		{Name: "NO₂", Value: number(aq.NO2)},
		{Name: "SO₂", Value: number(aq.SO2)},
		{Name: "CO", Value: number(aq.CO)},
		{Name: "O₃", Value: number(aq.O3)},
	}
	card.AdviceTitle = i18n.T(lang, "aqi.health_advice")
	card.Advice = format.HealthAdvice(*aq, lang)
	return card
}

type TipsCard struct {
	Card
	Weather      string
	WeatherKind  format.Tip
	Festival     string
	MarinaTitle  string
	MarinaBody   string
	TrafficTitle string
	Traffic      string
}

// BuildTips derives local advice from current conditions and the date.
func BuildTips(snap service.Snapshot, lang i18n.Language, now time.Time) TipsCard {
	card := TipsCard{
		Card:         newCard(snap, model.SliceCurrent, "tips.title", false, lang),
		MarinaTitle:  i18n.T(lang, "tips.marina.title"),
		MarinaBody:   i18n.T(lang, "tips.marina.body"),
		TrafficTitle: i18n.T(lang, "tips.traffic.title"),
	}
	rain := 0
	if cur := snap.Current; cur != nil {
		card.WeatherKind = format.SelectTip(cur.Temperature, cur.Humidity, cur.RainProbability)
		card.Weather = card.WeatherKind.Message(lang)
		rain = cur.RainProbability
	}
	card.Traffic = format.TrafficTip(rain, lang)
	if banner, ok := format.FestivalBanner(now, lang); ok {
		card.Festival = banner
	}
	return card
}

type HourItem struct {
	Time        string
	Glyph       string
	Description string
	Temperature string
	Rain        int
	Wind        string
}

type HourlyCard struct {
	Card
	Hours []HourItem
}

func BuildHourly(snap service.Snapshot, unit format.Unit, lang i18n.Language) HourlyCard {
	card := HourlyCard{Card: newCard(snap, model.SliceHourly, "hourly.title", len(snap.Hourly) == 0, lang)}
	for _, h := range snap.Hourly {
		card.Hours = append(card.Hours, HourItem{
			Time:        format.ClockTime(h.Time),
			Glyph:       format.Glyph(h.Icon),
			Description: h.Description,
			Temperature: degrees(h.Temperature, unit),
			Rain:        h.RainProbability,
			Wind:        fmt.Sprintf("%d %s", format.Round(h.WindSpeed), h.WindDirection),
		})
	}
	return card
}

type DayItem struct {
	Label       string
	Glyph       string
	Description string
	Rain        int
	Wind        int
	UV          int
	Max         string
	Min         string
}

type WeeklyCard struct {
	Card
	Days []DayItem
}

func BuildWeekly(snap service.Snapshot, unit format.Unit, lang i18n.Language, now time.Time) WeeklyCard {
	card := WeeklyCard{Card: newCard(snap, model.SliceDaily, "weekly.title", len(snap.Daily) == 0, lang)}
	for _, d := range snap.Daily {
		card.Days = append(card.Days, DayItem{
			Label:       format.DayLabelString(d.Date, now, lang),
			Glyph:       format.Glyph(d.Icon),
			Description: d.Description,
			Rain:        d.RainProbability,
			Wind:        format.Round(d.WindSpeed),
			UV:          format.Round(d.UVIndex),
			Max:         degrees(d.TempMax, unit),
			Min:         degrees(d.TempMin, unit),
		})
	}
	return card
}

type Reservoir struct {
	Name  string
	Level int
	Tone  string
}

type MonsoonCard struct {
	Card
	Onset             string
	Withdrawal        string
	CurrentRainfall   string
	NormalRainfall    string
	Deviation         string
	DeviationText     string
	DeviationPositive bool
	Progress          int
	FloodRisk         string
	FloodTone         string
	Reservoirs        []Reservoir
}

func BuildMonsoon(snap service.Snapshot, lang i18n.Language) MonsoonCard {
	m := snap.Monsoon
	card := MonsoonCard{Card: newCard(snap, model.SliceMonsoon, "monsoon.title", m == nil, lang)}
	if m == nil {
		return card
	}
	card.Onset = format.MonthDay(m.OnsetDate, lang)
	card.Withdrawal = format.MonthDay(m.WithdrawalDate, lang)
	card.CurrentRainfall = number(m.CurrentRainfall) + " mm"
	card.NormalRainfall = number(m.NormalRainfall) + " mm"

	card.DeviationPositive = m.DeviationPercentage > 0
	card.Deviation = number(m.DeviationPercentage) + "%"
	if card.DeviationPositive {
		card.Deviation = "+" + card.Deviation
		card.DeviationText = i18n.T(lang, "monsoon.above")
	} else {
		card.DeviationText = i18n.T(lang, "monsoon.below")
	}

	card.Progress = format.Round(format.RainfallProgress(m.CurrentRainfall, m.NormalRainfall))
	card.FloodRisk = format.FloodRiskLabel(m.FloodRisk, lang)
	card.FloodTone = format.FloodRiskTone(m.FloodRisk)

	levels := m.ReservoirLevels
	for _, r := range []struct {
		id    string
		level float64
	}{
		{"reservoir.poondi", levels.Poondi},
		{"reservoir.cholavaram", levels.Cholavaram},
		{"reservoir.redhills", levels.RedHills},
		{"reservoir.chembarambakkam", levels.Chembarambakkam},
	} {
		card.Reservoirs = append(card.Reservoirs, Reservoir{
			Name:  i18n.T(lang, r.id),
			Level: format.Round(r.level),
			Tone:  format.ReservoirTone(r.level),
		})
	}
	return card
}
