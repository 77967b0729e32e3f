package prayer

import "time"

// DateKey formats the calendar date used to key alerts.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

type alertKey struct {
	date string
	name Name
}

// AlertTracker decides when a prayer alert fires. Each prayer fires at most
// once per date: on the first tick where its remaining time floors to zero,
// or, if that tick was missed, on a later tick no more than the catch-up
// window after the prayer instant.
//
// AlertTracker is not safe for concurrent use; it belongs to the loop that
// polls it.
type AlertTracker struct {
	window time.Duration
	day    string
	fired  map[alertKey]struct{}
}

// NewAlertTracker returns a tracker with the given catch-up window.
// A negative window is treated as zero.
func NewAlertTracker(window time.Duration) *AlertTracker {
	if window < 0 {
		window = 0
	}
	return &AlertTracker{
		window: window,
		fired:  make(map[alertKey]struct{}),
	}
}

// Due returns the prayers that should alert at now, in Names order, and
// records them as fired.
func (a *AlertTracker) Due(now time.Time, s Schedule) []Name {
	today := DateKey(now)
	if today != a.day {
		for k := range a.fired {
			if k.date != today {
				delete(a.fired, k)
			}
		}
		a.day = today
	}

	var due []Name
	for _, name := range Names {
		at, ok := s.At(name, now)
		if !ok {
			continue
		}
		diff := at.Sub(now)
		onTime := diff > 0 && diff < time.Second
		late := diff <= 0 && -diff <= a.window
		if !onTime && !late {
			continue
		}
		key := alertKey{date: today, name: name}
		if _, seen := a.fired[key]; seen {
			continue
		}
		a.fired[key] = struct{}{}
		due = append(due, name)
	}
	return due
}

// MarkFired records that name already alerted on date (a DateKey), so it
// will not fire again. Used to restore state after a restart.
func (a *AlertTracker) MarkFired(date string, name Name) {
	a.fired[alertKey{date: date, name: name}] = struct{}{}
}

// Fired reports whether name has alerted on the date of t.
func (a *AlertTracker) Fired(t time.Time, name Name) bool {
	_, ok := a.fired[alertKey{date: DateKey(t), name: name}]
	return ok
}
