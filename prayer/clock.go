package prayer

import "time"

// Clock abstracts the wall clock so the selector can be driven in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// zoneClock reports another clock's instants in a fixed location.
type zoneClock struct {
	base Clock
	loc  *time.Location
}

func (z zoneClock) Now() time.Time { return z.base.Now().In(z.loc) }

// InZone returns a clock whose times are expressed in loc, so schedule
// entries are placed on that location's calendar date. A nil loc returns
// base unchanged.
func InZone(base Clock, loc *time.Location) Clock {
	if loc == nil {
		return base
	}
	return zoneClock{base: base, loc: loc}
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (f FixedClock) Now() time.Time { return time.Time(f) }
