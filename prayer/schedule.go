package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yllada/prayer-times/common"
)

// Name is one of the six daily prayer names.
type Name string

const (
	Fajr    Name = "Fajr"
	Sunrise Name = "Sunrise"
	Dhuhr   Name = "Dhuhr"
	Asr     Name = "Asr"
	Maghrib Name = "Maghrib"
	Isha    Name = "Isha"
)

// Names lists the prayers in the order they occur during the day.
var Names = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Valid reports whether n is one of the six known prayers.
func (n Name) Valid() bool {
	for _, known := range Names {
		if n == known {
			return true
		}
	}
	return false
}

// Schedule maps a prayer to its time of day as received ("HH:MM").
// Values are kept verbatim; unparseable entries are skipped at selection time.
type Schedule map[Name]string

// FromTimings builds a schedule from an API timings map, keeping only the
// six known prayers.
func FromTimings(timings map[string]string) Schedule {
	s := make(Schedule, len(Names))
	for _, name := range Names {
		if v, ok := timings[string(name)]; ok {
			s[name] = v
		}
	}
	return s
}

// Clone returns an independent copy of s.
func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	c := make(Schedule, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// At returns the instant of prayer n on the calendar date of day, in day's
// location. ok is false when n is missing or its time does not parse.
func (s Schedule) At(n Name, day time.Time) (time.Time, bool) {
	raw, exists := s[n]
	if !exists {
		return time.Time{}, false
	}
	hour, minute, err := ParseClock(raw)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location()), true
}

// ParseClock parses a 24-hour "HH:MM" time of day. A trailing annotation
// such as " (AST)" is ignored.
func ParseClock(value string) (hour, minute int, err error) {
	v := strings.TrimSpace(value)
	if i := strings.IndexByte(v, ' '); i >= 0 {
		v = v[:i]
	}

	hh, mm, found := strings.Cut(v, ":")
	if !found || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !allDigits(hh) || !allDigits(mm) {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrInvalidTime, value)
	}

	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrInvalidTime, value)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrInvalidTime, value)
	}
	return hour, minute, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
