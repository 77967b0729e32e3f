package ui

import (
	"testing"

	"github.com/yllada/prayer-times/tracker"
)

func TestStatusLine(t *testing.T) {
	type step struct {
		local       string
		tracker     string
		wantShown   string
		wantChanged bool
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "first tracker status is shown",
			steps: []step{
				{tracker: tracker.StatusReady, wantShown: tracker.StatusReady, wantChanged: true},
			},
		},
		{
			name: "window message survives unchanged ticks",
			steps: []step{
				{tracker: tracker.StatusUpdated, wantShown: tracker.StatusUpdated, wantChanged: true},
				{local: "Athan sound selected", tracker: tracker.StatusUpdated, wantShown: "Athan sound selected"},
				{tracker: tracker.StatusUpdated, wantShown: "Athan sound selected"},
			},
		},
		{
			name: "new tracker status replaces window message",
			steps: []step{
				{tracker: tracker.StatusUpdated, wantShown: tracker.StatusUpdated, wantChanged: true},
				{local: "Please enter a city.", tracker: tracker.StatusUpdated, wantShown: "Please enter a city."},
				{tracker: "Could not find city.", wantShown: "Could not find city.", wantChanged: true},
			},
		},
		{
			name: "tracker status already on screen is not redrawn",
			steps: []step{
				{tracker: tracker.StatusUpdated, wantShown: tracker.StatusUpdated, wantChanged: true},
				{local: tracker.StatusFetching, tracker: tracker.StatusFetching, wantShown: tracker.StatusFetching},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l statusLine
			for i, s := range tt.steps {
				if s.local != "" {
					l.local(s.local)
				}
				shown, changed := l.fromTracker(s.tracker)
				if shown != s.wantShown || changed != s.wantChanged {
					t.Errorf("step %d: fromTracker(%q) = %q, %v, want %q, %v",
						i, s.tracker, shown, changed, s.wantShown, s.wantChanged)
				}
			}
		})
	}
}
