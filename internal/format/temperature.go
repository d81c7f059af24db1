// Package format turns raw provider values into display-ready strings and
// bands. Every function here is pure; callers pass the current time in.
package format

import "math"

type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// ParseUnit accepts "celsius" or "fahrenheit" (and the c/f shorthands).
func ParseUnit(s string) (Unit, bool) {
	switch s {
	case "celsius", "c", "C":
		return Celsius, true
	case "fahrenheit", "f", "F":
		return Fahrenheit, true
	}
	return "", false
}

// round rounds half up, so 0.5 -> 1 and -0.5 -> 0.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ToFahrenheit converts a Celsius reading and rounds it for display.
func ToFahrenheit(c float64) int {
	return round(c*9/5 + 32)
}

// Convert renders a Celsius reading in unit, rounded to the nearest degree.
func Convert(c float64, unit Unit) int {
	if unit == Fahrenheit {
		return ToFahrenheit(c)
	}
	return round(c)
}

func Symbol(unit Unit) string {
	if unit == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Round is the display rounding used for wind speed and UV index.
func Round(v float64) int {
	return round(v)
}
