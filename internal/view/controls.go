package view

import (
	"net/url"

	"github.com/fakhrymubarak/chennai-weather/internal/format"
	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
	"github.com/fakhrymubarak/chennai-weather/internal/service"
)

// Choice is one selectable control value, rendered as a link carrying the
// viewer's other preferences.
type Choice struct {
	Label    string
	Href     string
	Selected bool
}

type Controls struct {
	UnitLabel     string
	Units         []Choice
	LanguageLabel string
	Languages     []Choice
	ThemeLabel    string
	Themes        []Choice
	DisplayLabel  string
	Display       []Choice
}

var languageNames = map[i18n.Language]string{
	i18n.English: "EN",
	i18n.Tamil:   "தமிழ்",
}

// Query encodes prefs as the dashboard's query parameters.
func Query(prefs service.Preferences) string {
	v := url.Values{}
	v.Set("unit", string(prefs.Unit))
	v.Set("lang", string(prefs.Language))
	v.Set("theme", string(prefs.Theme))
	if prefs.DarkMode {
		v.Set("dark", "1")
	} else {
		v.Set("dark", "0")
	}
	return "/?" + v.Encode()
}

func BuildControls(prefs service.Preferences) Controls {
	lang := prefs.Language
	c := Controls{
		UnitLabel:     i18n.T(lang, "controls.temperature"),
		LanguageLabel: i18n.T(lang, "controls.language"),
		ThemeLabel:    i18n.T(lang, "controls.theme"),
		DisplayLabel:  i18n.T(lang, "controls.display"),
	}

	for _, u := range []format.Unit{format.Celsius, format.Fahrenheit} {
		p := prefs
		p.Unit = u
		c.Units = append(c.Units, Choice{Label: format.Symbol(u), Href: Query(p), Selected: u == prefs.Unit})
	}
	for _, l := range i18n.Languages() {
		p := prefs
		p.Language = l
		c.Languages = append(c.Languages, Choice{Label: languageNames[l], Href: Query(p), Selected: l == prefs.Language})
	}
	for _, th := range service.Themes {
		p := prefs
		p.Theme = th
		c.Themes = append(c.Themes, Choice{Label: i18n.T(lang, "theme."+string(th)), Href: Query(p), Selected: th == prefs.Theme})
	}
	for _, dark := range []bool{false, true} {
		p := prefs
		p.DarkMode = dark
		label := i18n.T(lang, "display.light")
		if dark {
			label = i18n.T(lang, "display.dark")
		}
		c.Display = append(c.Display, Choice{Label: label, Href: Query(p), Selected: dark == prefs.DarkMode})
	}
	return c
}
