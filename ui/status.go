package ui

// statusLine decides what the status bar shows. A message the window sets
// itself stays up until the tracker reports a different status.
type statusLine struct {
	shown   string
	tracker string
}

// local records a message set by the window.
func (l *statusLine) local(text string) {
	l.shown = text
}

// fromTracker returns the text to show for a tracker status and whether
// the status bar needs redrawing.
func (l *statusLine) fromTracker(status string) (string, bool) {
	if status == l.tracker {
		return l.shown, false
	}
	l.tracker = status
	changed := status != l.shown
	l.shown = status
	return status, changed
}
