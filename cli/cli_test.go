package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/yllada/prayer-times/aladhan"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

var testLoc = common.Location{City: "Jeddah", Country: "Saudi Arabia", Method: 4}

func noon() prayer.Clock {
	return prayer.FixedClock(time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC))
}

func testSchedule() prayer.Schedule {
	return prayer.Schedule{
		prayer.Fajr:    "05:00",
		prayer.Sunrise: "06:10",
		prayer.Dhuhr:   "12:15",
		prayer.Asr:     "15:45",
		prayer.Maghrib: "18:20",
		prayer.Isha:    "19:50",
	}
}

type fakeFetcher struct {
	res *aladhan.Result
	err error
}

func (f *fakeFetcher) Fetch(_ context.Context, loc common.Location, _ time.Time) (*aladhan.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := *f.res
	res.Location = loc
	return &res, nil
}

type fakeArchive struct {
	saved  *store.SavedSchedule
	alerts []store.Alert
	err    error
}

func (a *fakeArchive) LoadSchedule(_ context.Context, _ common.Location, _ string) (*store.SavedSchedule, error) {
	if a.saved == nil {
		return nil, common.ErrScheduleMissing
	}
	return a.saved, nil
}

func (a *fakeArchive) RecentAlerts(_ context.Context, _ int) ([]store.Alert, error) {
	return a.alerts, a.err
}

func okFetcher() *fakeFetcher {
	return &fakeFetcher{res: &aladhan.Result{
		Schedule: testSchedule(),
		Readable: "14 Mar 2026",
		Hijri:    "25 Ramaḍān 1447 AH",
		Timezone: "UTC",
	}}
}

func TestToday(t *testing.T) {
	var out bytes.Buffer
	c := New(Options{Out: &out, Fetcher: okFetcher(), Clock: noon()})

	if err := c.Today(context.Background(), testLoc); err != nil {
		t.Fatalf("Today() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"Jeddah, Saudi Arabia", "14 Mar 2026", "Fajr     05:00", "Dhuhr    12:15  <- next"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "<- next") != 1 {
		t.Errorf("exactly one prayer should be marked next:\n%s", got)
	}
	if strings.Contains(got, "Offline") {
		t.Errorf("online fetch should not report offline:\n%s", got)
	}
}

func TestToday_OfflineFallback(t *testing.T) {
	var out bytes.Buffer
	c := New(Options{
		Out:     &out,
		Fetcher: &fakeFetcher{err: common.ErrFetchFailed},
		Archive: &fakeArchive{saved: &store.SavedSchedule{Location: testLoc, Schedule: testSchedule()}},
		Clock:   noon(),
	})

	if err := c.Today(context.Background(), testLoc); err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if !strings.Contains(out.String(), "Offline: using saved schedule") {
		t.Errorf("expected offline notice:\n%s", out.String())
	}
}

func TestToday_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		archive Archive
	}{
		{"city not found, no archive", common.ErrCityNotFound, nil},
		{"fetch failed, nothing saved", common.ErrFetchFailed, &fakeArchive{}},
		{"cancelled skips archive", common.ErrCancelled, &fakeArchive{saved: &store.SavedSchedule{Schedule: testSchedule()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(Options{Out: &out, Fetcher: &fakeFetcher{err: tt.err}, Archive: tt.archive, Clock: noon()})

			err := c.Today(context.Background(), testLoc)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Today() error = %v, want %v", err, tt.err)
			}
			if out.Len() != 0 {
				t.Errorf("nothing should be printed on error, got %q", out.String())
			}
		})
	}
}

func TestToday_EmptySchedule(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		archive Archive
	}{
		{"fetched day has no prayers", &fakeFetcher{res: &aladhan.Result{Readable: "14 Mar 2026"}}, nil},
		{"saved day has no prayers", &fakeFetcher{err: common.ErrFetchFailed}, &fakeArchive{saved: &store.SavedSchedule{Location: testLoc}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(Options{Out: &out, Fetcher: tt.fetcher, Archive: tt.archive, Clock: noon()})

			err := c.Today(context.Background(), testLoc)
			if !errors.Is(err, common.ErrNoSchedule) {
				t.Fatalf("Today() error = %v, want ErrNoSchedule", err)
			}
			if out.Len() != 0 {
				t.Errorf("nothing should be printed on error, got %q", out.String())
			}
		})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		clock prayer.Clock
		want  string
	}{
		{"before dhuhr", noon(), "Next: Dhuhr at 12:15  00:15:00\n"},
		{"after isha", prayer.FixedClock(time.Date(2026, time.March, 14, 23, 0, 0, 0, time.UTC)), "Next: Fajr (Tomorrow)  --:--:--\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(Options{Out: &out, Fetcher: okFetcher(), Clock: tt.clock})

			if err := c.Next(context.Background(), testLoc); err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("Next() printed %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestNext_CityTimezone(t *testing.T) {
	f := okFetcher()
	f.res.Timezone = "Asia/Riyadh"
	if _, err := time.LoadLocation("Asia/Riyadh"); err != nil {
		t.Skip("zoneinfo not available")
	}

	// 09:00 UTC is 12:00 in Riyadh.
	clock := prayer.FixedClock(time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	c := New(Options{Out: &out, Fetcher: f, Clock: clock, UseCityTimezone: true})

	if err := c.Next(context.Background(), testLoc); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if want := "Next: Dhuhr at 12:15  00:15:00\n"; out.String() != want {
		t.Errorf("Next() printed %q, want %q", out.String(), want)
	}
}

func TestHistory(t *testing.T) {
	fired := time.Date(2026, time.March, 14, 12, 15, 0, 0, time.Local)
	archive := &fakeArchive{alerts: []store.Alert{
		{Day: "2026-03-14", Prayer: prayer.Dhuhr, FiredAt: fired, City: "Jeddah", Country: "Saudi Arabia"},
		{Day: "2026-03-14", Prayer: prayer.Fajr, FiredAt: fired.Add(-7 * time.Hour), City: "Jeddah"},
	}}

	var out bytes.Buffer
	c := New(Options{Out: &out, Fetcher: okFetcher(), Archive: archive})
	if err := c.History(context.Background(), 10); err != nil {
		t.Fatalf("History() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[2], "Dhuhr") || !strings.Contains(lines[2], "12:15:00") || !strings.Contains(lines[2], "Jeddah, Saudi Arabia") {
		t.Errorf("first row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "Fajr") || strings.Contains(lines[3], ",") {
		t.Errorf("second row = %q", lines[3])
	}
}

func TestHistory_EmptyAndErrors(t *testing.T) {
	var out bytes.Buffer
	c := New(Options{Out: &out, Fetcher: okFetcher(), Archive: &fakeArchive{}})
	if err := c.History(context.Background(), 10); err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if !strings.Contains(out.String(), "No prayer alerts") {
		t.Errorf("empty history printed %q", out.String())
	}

	c = New(Options{Out: &out, Fetcher: okFetcher()})
	if err := c.History(context.Background(), 10); !errors.Is(err, common.ErrStoreUnavailable) {
		t.Errorf("History() without archive error = %v", err)
	}

	boom := errors.New("boom")
	c = New(Options{Out: &out, Fetcher: okFetcher(), Archive: &fakeArchive{err: boom}})
	if err := c.History(context.Background(), 10); !errors.Is(err, boom) {
		t.Errorf("History() error = %v, want boom", err)
	}
}

func TestPrintHelp(t *testing.T) {
	var out bytes.Buffer
	PrintHelp(&out)
	for _, flag := range []string{"--today", "--next", "--history", "--tui", "--city"} {
		if !strings.Contains(out.String(), flag) {
			t.Errorf("help missing %s", flag)
		}
	}
}
