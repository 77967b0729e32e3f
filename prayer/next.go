package prayer

import "time"

// Next is the result of a next-prayer selection.
type Next struct {
	Name Name
	// At is the prayer instant today.
	At time.Time
	// Remaining is At minus now; always strictly positive.
	Remaining time.Duration
}

// Seconds returns the whole seconds remaining, rounded down.
func (n Next) Seconds() int64 {
	return int64(n.Remaining / time.Second)
}

// Imminent reports whether the remaining time floors to zero seconds.
func (n Next) Imminent() bool {
	return n.Seconds() == 0
}

// NextPrayer returns the prayer with the smallest strictly positive time
// difference from now, with each entry placed on now's calendar date.
// ok is false when every parseable entry has already passed today.
//
// Entries are scanned in Names order and only a strictly closer entry
// replaces the current best, so on an exact tie the earlier prayer wins.
func NextPrayer(now time.Time, s Schedule) (next Next, ok bool) {
	for _, name := range Names {
		at, valid := s.At(name, now)
		if !valid {
			continue
		}
		diff := at.Sub(now)
		if diff <= 0 {
			continue
		}
		if !ok || diff < next.Remaining {
			next = Next{Name: name, At: at, Remaining: diff}
			ok = true
		}
	}
	return next, ok
}
