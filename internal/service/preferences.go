package service

import (
	"strings"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
)

type Theme string

const (
	ThemeAuto   Theme = "auto"
	ThemeMarina Theme = "marina"
	ThemeSun    Theme = "sun"
	ThemeRain   Theme = "rain"
)

// Themes lists the selectable themes in display order.
var Themes = []Theme{ThemeAuto, ThemeMarina, ThemeSun, ThemeRain}

func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeAuto, ThemeMarina, ThemeSun, ThemeRain:
		return Theme(s), true
	case "":
		return ThemeAuto, true
	}
	return "", false
}

// Preferences are the per-viewer display choices. They are not persisted.
type Preferences struct {
	Unit     format.Unit   `json:"unit"`
	Language i18n.Language `json:"language"`
	Theme    Theme         `json:"theme"`
	DarkMode bool          `json:"dark_mode"`
}

// DefaultPreferences reads the configured defaults, ignoring invalid values.
func DefaultPreferences() Preferences {
	prefs := Preferences{Unit: format.Celsius, Language: i18n.English, Theme: ThemeAuto}
	if u, ok := format.ParseUnit(config.GetDefaultUnit()); ok {
		prefs.Unit = u
	}
	if l, ok := i18n.ParseLanguage(config.GetDefaultLanguage()); ok {
		prefs.Language = l
	}
	if th, ok := ParseTheme(config.GetDefaultTheme()); ok {
		prefs.Theme = th
	}
	return prefs
}

// Gradient names a background palette.
type Gradient string

const (
	GradientDark    Gradient = "dark"
	GradientMarina  Gradient = "marina"
	GradientSun     Gradient = "sun"
	GradientStorm   Gradient = "storm"
	GradientCloud   Gradient = "cloud"
	GradientHeat    Gradient = "heat"
	GradientCool    Gradient = "cool"
	GradientDefault Gradient = "default"
)

// SelectGradient picks the page background. Dark mode wins, then an explicit
// theme, then the current weather.
func SelectGradient(current *model.CurrentConditions, theme Theme, dark bool) Gradient {
	if dark {
		return GradientDark
	}
	switch theme {
	case ThemeMarina:
		return GradientMarina
	case ThemeSun:
		return GradientSun
	case ThemeRain:
		return GradientStorm
	}
	if current == nil {
		return GradientDefault
	}
	description := strings.ToLower(current.Description)
	switch {
	case strings.Contains(description, "rain") || strings.Contains(description, "storm"):
		return GradientStorm
	case strings.Contains(description, "cloud"):
		return GradientCloud
	case current.Temperature > 35:
		return GradientHeat
	case current.Temperature < 25:
		return GradientCool
	default:
		return GradientMarina
	}
}
