// Package view turns a dashboard snapshot into localized view models and
// renders them as HTML.
package view

import (
	"time"

	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

// Card holds what every dashboard card shares.
type Card struct {
	Lang  i18n.Language
	Title string
	// Stale is set when the card's slice failed in the last refresh cycle.
	Stale     bool
	StaleText string
	// Empty is set when there is no data to show yet.
	Empty     bool
	EmptyText string
}

func newCard(snap service.Snapshot, slice model.Slice, titleID string, empty bool, lang i18n.Language) Card {
	c := Card{Lang: lang, Title: i18n.T(lang, titleID), Stale: snap.Stale(slice), Empty: empty}
	if c.Stale {
		c.StaleText = i18n.T(lang, "card.stale")
	}
	if c.Empty {
		c.EmptyText = i18n.T(lang, "card.unavailable")
	}
	return c
}

type Page struct {
	Lang     i18n.Language
	Gradient service.Gradient
	Dark     bool
	// Self links back to the page with the same preferences.
	Self string

	Header     Header
	Controls   Controls
	Alerts     AlertsCard
	Current    CurrentCard
	AirQuality AirQualityCard
	Tips       TipsCard
	Hourly     HourlyCard
	Weekly     WeeklyCard
	Monsoon    MonsoonCard
	Footer     Footer
}

// Build composes the whole page for one viewer.
func Build(snap service.Snapshot, prefs service.Preferences, now time.Time) Page {
	lang := prefs.Language
	return Page{
		Lang:       lang,
		Gradient:   service.SelectGradient(snap.Current, prefs.Theme, prefs.DarkMode),
		Dark:       prefs.DarkMode,
		Self:       Query(prefs),
		Header:     BuildHeader(snap, lang),
		Controls:   BuildControls(prefs),
		Alerts:     BuildAlerts(snap, lang),
		Current:    BuildCurrent(snap, prefs.Unit, lang),
		AirQuality: BuildAirQuality(snap, lang),
		Tips:       BuildTips(snap, lang, now),
		Hourly:     BuildHourly(snap, prefs.Unit, lang),
		Weekly:     BuildWeekly(snap, prefs.Unit, lang, now),
		Monsoon:    BuildMonsoon(snap, lang),
		Footer:     BuildFooter(lang),
	}
}

type Header struct {
	Title            string
	Subtitle         string
	RefreshLabel     string
	Loading          bool
	LastUpdatedLabel string
	LastUpdated      string
}

func BuildHeader(snap service.Snapshot, lang i18n.Language) Header {
	h := Header{
		Title:        i18n.T(lang, "app.title"),
		Subtitle:     i18n.T(lang, "app.subtitle"),
		RefreshLabel: i18n.T(lang, "header.refresh"),
		Loading:      snap.Loading,
	}
	if snap.Loading {
		h.RefreshLabel = i18n.T(lang, "header.refreshing")
	}
	if snap.LastUpdated != nil {
		h.LastUpdatedLabel = i18n.T(lang, "header.last_updated")
		h.LastUpdated = format.ClockTime(*snap.LastUpdated)
	}
	return h
}

type Footer struct {
	Title string
	Text  string
}

func BuildFooter(lang i18n.Language) Footer {
	return Footer{Title: i18n.T(lang, "app.title"), Text: i18n.T(lang, "app.footer")}
}
