package menu

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Locale holds the weekday names of one language, indexed by time.Weekday.
type Locale struct {
	Code  string
	Names [7]string
}

// Built-in locales. Finnish is the language the Lauttasaari pages use.
var (
	Finnish = Locale{
		Code:  "fi",
		Names: [7]string{"Sunnuntai", "Maanantai", "Tiistai", "Keskiviikko", "Torstai", "Perjantai", "Lauantai"},
	}
	English = Locale{
		Code:  "en",
		Names: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	}
	Swedish = Locale{
		Code:  "sv",
		Names: [7]string{"Söndag", "Måndag", "Tisdag", "Onsdag", "Torsdag", "Fredag", "Lördag"},
	}
)

var locales = map[string]Locale{
	Finnish.Code: Finnish,
	English.Code: English,
	Swedish.Code: Swedish,
}

// LocaleFor returns the built-in locale for a language code.
func LocaleFor(code string) (Locale, error) {
	l, ok := locales[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Locale{}, fmt.Errorf("unsupported locale: %q (use fi, en or sv)", code)
	}
	return l, nil
}

// Day is the target day of one extraction run.
type Day struct {
	Weekday time.Weekday
	Locale  Locale
}

// NewDay returns the day for a weekday in a locale.
func NewDay(wd time.Weekday, l Locale) Day {
	return Day{Weekday: wd, Locale: l}
}

// Today returns the current day in loc's language, evaluated in tz.
// A nil tz means the time's own location.
func Today(now time.Time, l Locale, tz *time.Location) Day {
	if tz != nil {
		now = now.In(tz)
	}
	return NewDay(now.Weekday(), l)
}

// ParseDay accepts a weekday name in the locale, an English weekday name, or an
// ISO weekday number (1 = Monday … 7 = Sunday).
func ParseDay(s string, l Locale) (Day, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 7 {
			return Day{}, fmt.Errorf("weekday number out of range: %d", n)
		}
		return NewDay(time.Weekday(n%7), l), nil
	}
	for _, candidate := range []Locale{l, English} {
		for wd, name := range candidate.Names {
			if fold(name) == fold(s) {
				return NewDay(time.Weekday(wd), l), nil
			}
		}
	}
	return Day{}, fmt.Errorf("unknown weekday %q for locale %s", s, l.Code)
}

// Name returns the weekday name in the day's locale.
func (d Day) Name() string {
	return d.Locale.Names[d.Weekday]
}

// Weekend reports whether the day is a Saturday or Sunday.
func (d Day) Weekend() bool {
	return d.Weekday == time.Saturday || d.Weekday == time.Sunday
}

func (d Day) String() string {
	return d.Name()
}
