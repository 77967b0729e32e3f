// Package prayer implements the prayer schedule and the next-prayer selector.
//
// A Schedule maps each of the six daily prayers to a 24-hour "HH:MM" time of
// day. NextPrayer places every entry on the current calendar date and picks
// the one with the smallest strictly positive distance from now:
//
//	s := prayer.Schedule{prayer.Fajr: "05:00", prayer.Dhuhr: "12:15"}
//	next, ok := prayer.NextPrayer(now, s)
//	if !ok {
//	    // every prayer has passed; show the "Fajr (Tomorrow)" placeholder
//	}
//
// Entries that do not parse are skipped. NextPrayer never looks at
// tomorrow.
//
// AlertTracker layers the alert policy on top: a prayer alerts once per date,
// at the tick where its countdown reaches zero or shortly after if that tick
// was missed.
package prayer
