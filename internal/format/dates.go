package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fakhrymubarak/chennai-weather/internal/i18n"
)

// Chennai is India Standard Time. India observes no DST, so a fixed zone
// avoids depending on the host's tzdata.
var Chennai = time.FixedZone("IST", 5*60*60+30*60)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date as midnight in Chennai.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, Chennai)
}

// DateString is the inverse of ParseDate.
func DateString(t time.Time) string {
	return t.In(Chennai).Format(dateLayout)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(Chennai).Date()
	by, bm, bd := b.In(Chennai).Date()
	return ay == by && am == bm && ad == bd
}

func weekday(t time.Time, lang i18n.Language) string {
	return i18n.T(lang, "weekday."+strconv.Itoa(int(t.Weekday())))
}

func shortMonth(m time.Month, lang i18n.Language) string {
	return i18n.T(lang, "month.short."+strconv.Itoa(int(m)))
}

func longMonth(m time.Month, lang i18n.Language) string {
	return i18n.T(lang, "month.long."+strconv.Itoa(int(m)))
}

// DayLabel renders "Today"/"Tomorrow" relative to now, otherwise a short
// weekday, day and month such as "Mon, 20 Oct".
func DayLabel(date, now time.Time, lang i18n.Language) string {
	if sameDay(date, now) {
		return i18n.T(lang, "day.today")
	}
	if sameDay(date, now.In(Chennai).AddDate(0, 0, 1)) {
		return i18n.T(lang, "day.tomorrow")
	}
	d := date.In(Chennai)
	return fmt.Sprintf("%s, %d %s", weekday(d, lang), d.Day(), shortMonth(d.Month(), lang))
}

// DayLabelString is DayLabel for a YYYY-MM-DD string; unparsable input is echoed.
func DayLabelString(date string, now time.Time, lang i18n.Language) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return DayLabel(t, now, lang)
}

// ClockTime formats t as a 12-hour wall clock time in Chennai.
func ClockTime(t time.Time) string {
	return t.In(Chennai).Format("03:04 PM")
}

// EpochClock formats epoch seconds, as used by sunrise and sunset.
func EpochClock(sec int64) string {
	return ClockTime(time.Unix(sec, 0))
}

// AlertTime formats epoch milliseconds as "20 Oct, 03:04 PM".
func AlertTime(ms int64, lang i18n.Language) string {
	t := time.UnixMilli(ms).In(Chennai)
	return fmt.Sprintf("%d %s, %s", t.Day(), shortMonth(t.Month(), lang), ClockTime(t))
}

// MonthDay formats a YYYY-MM-DD date as "15 June".
func MonthDay(date string, lang i18n.Language) string {
	t, err := ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s", t.Day(), longMonth(t.Month(), lang))
}

// FestivalBanner returns the greeting for a Tamil festival falling on now's date.
func FestivalBanner(now time.Time, lang i18n.Language) (string, bool) {
	t := now.In(Chennai)
	month, day := t.Month(), t.Day()
	switch {
	case month == time.January && day >= 14 && day <= 17:
		return i18n.T(lang, "festival.pongal"), true
	case month == time.April && day == 14:
		return i18n.T(lang, "festival.tamil_new_year"), true
	case (month == time.October && day > 20) || (month == time.November && day < 15):
		return i18n.T(lang, "festival.diwali"), true
	}
	return "", false
}
