package format

import "github.com/fakhrymubarak/chennai-weather/internal/i18n"

type Tip string

const (
	TipHeat     Tip = "hot"
	TipHumid    Tip = "humid"
	TipRain     Tip = "rain"
	TipPleasant Tip = "normal"
)

// SelectTip picks the weather tip. Checks run in order: heat, humidity, rain.
func SelectTip(temp, humidity float64, rainProbability int) Tip {
	switch {
	case temp > 35:
		return TipHeat
	case humidity > 80:
		return TipHumid
	case rainProbability > 60:
		return TipRain
	default:
		return TipPleasant
	}
}

func (t Tip) Message(lang i18n.Language) string {
	return i18n.T(lang, "tip."+string(t))
}

func TrafficTip(rainProbability int, lang i18n.Language) string {
	if rainProbability > 50 {
		return i18n.T(lang, "tips.traffic.heavy")
	}
	return i18n.T(lang, "tips.traffic.normal")
}

var glyphs = map[string]string{
	"01d": "☀️",
	"02d": "⛅",
	"03d": "☁️",
	"04d": "☁️",
	"09d": "🌧️",
	"10d": "🌦️",
	"11d": "⛈️",
}

// Glyph maps a provider icon code to an emoji; unknown codes map to "".
func Glyph(icon string) string {
	return glyphs[icon]
}
