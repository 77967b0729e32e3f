// Package tracker owns the running application state: the current
// schedule, the countdown to the next prayer and the alert policy.
//
// A single loop goroutine (Run) owns every piece of mutable state. Fetches
// run on worker goroutines and hand their result back to the loop over a
// channel. Front ends observe the loop through callbacks, which are invoked
// on the loop goroutine; GTK code must hop to the UI thread with
// glib.IdleAdd and bubbletea code with Program.Send.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yllada/prayer-times/aladhan"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/store"
)

// Status texts set by the loop.
const (
	StatusReady    = "Ready"
	StatusFetching = "Fetching..."
	StatusUpdated  = "Schedule Updated."
	StatusOffline  = "Offline: using saved schedule"
)

// Fetcher retrieves a day's schedule for a location.
type Fetcher interface {
	Fetch(ctx context.Context, loc common.Location, day time.Time) (*aladhan.Result, error)
}

// ScheduleStore persists schedules and alert history.
type ScheduleStore interface {
	SaveSchedule(ctx context.Context, saved store.SavedSchedule) error
	LoadSchedule(ctx context.Context, loc common.Location, day string) (*store.SavedSchedule, error)
	RecordAlert(ctx context.Context, a store.Alert) error
	AlertsOn(ctx context.Context, day string) ([]store.Alert, error)
}

// Announcer performs the alert for a prayer and returns a status text.
type Announcer interface {
	Announce(ctx context.Context, name prayer.Name, soundFile string) string
}

// Options configures a Tracker. Fetcher is required.
type Options struct {
	Location  common.Location
	SoundFile string
	Fetcher   Fetcher
	// Store is optional; without it there is no offline fallback or history.
	Store ScheduleStore
	// Announcer is optional; without it alerts only reach OnAthan.
	Announcer Announcer
	Clock     prayer.Clock
	// TickInterval defaults to common.TickInterval.
	TickInterval time.Duration
	// CatchUpWindow is how long after a prayer a missed alert may still
	// fire. Zero fires only on time; negative means zero.
	CatchUpWindow time.Duration
	// UseCityTimezone compares against the city's clock when the API
	// reports its zone.
	UseCityTimezone bool
	Logger          common.Logger
}

// Snapshot is a copy of the tracker state for display.
type Snapshot struct {
	Location  common.Location
	Schedule  prayer.Schedule
	Next      prayer.Next
	HasNext   bool
	NextLabel string
	Countdown string
	Status    string
	SoundFile string
	Fetching  bool
	Offline   bool
	Readable  string
	Hijri     string
	Now       time.Time
}

type fetchResult struct {
	loc    common.Location
	day    time.Time
	result *aladhan.Result
	err    error
}

// Tracker runs the countdown loop.
type Tracker struct {
	opts   Options
	logger common.Logger

	refreshCh chan common.Location
	soundCh   chan string
	results   chan fetchResult

	mu       sync.RWMutex
	running  bool
	snapshot Snapshot
	onUpdate func(Snapshot)
	onAthan  func(name prayer.Name, status string)

	// Owned by the loop goroutine.
	loc      common.Location
	sound    string
	schedule prayer.Schedule
	readable string
	hijri    string
	zone     *time.Location
	status   string
	offline  bool
	inFlight int
	day      string
	alerts   *prayer.AlertTracker
}

// New creates a tracker. Call Run to start it.
func New(opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = prayer.SystemClock{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = common.TickInterval
	}
	if opts.Logger == nil {
		opts.Logger = common.Component("tracker")
	}

	t := &Tracker{
		opts:      opts,
		logger:    opts.Logger,
		refreshCh: make(chan common.Location, 8),
		soundCh:   make(chan string, 8),
		results:   make(chan fetchResult, 8),
		loc:       opts.Location,
		sound:     opts.SoundFile,
		schedule:  prayer.Schedule{},
		status:    StatusReady,
		alerts:    prayer.NewAlertTracker(opts.CatchUpWindow),
	}
	t.snapshot = t.buildSnapshot(opts.Clock.Now())
	return t
}

// SetOnUpdate sets the callback invoked after every tick and state change.
func (t *Tracker) SetOnUpdate(callback func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = callback
}

// SetOnAthan sets the callback invoked when a prayer alert fires.
func (t *Tracker) SetOnAthan(callback func(name prayer.Name, status string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onAthan = callback
}

// Snapshot returns the most recently published state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.snapshot
	s.Schedule = s.Schedule.Clone()
	return s
}

// IsRunning reports whether Run is active.
func (t *Tracker) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Refresh asks the loop to fetch the schedule for loc and make it the
// current location. It never blocks; a request made while the queue is
// full is dropped.
func (t *Tracker) Refresh(loc common.Location) {
	select {
	case t.refreshCh <- loc:
	default:
		t.logger.Warn("refresh queue full, dropping request for %s", loc)
	}
}

// SetSoundFile selects the athan sound. An empty path selects the beep.
func (t *Tracker) SetSoundFile(path string) error {
	if path != "" && !common.HasSoundExtension(path) {
		return fmt.Errorf("%w: %s", common.ErrUnsupportedSound, path)
	}
	select {
	case t.soundCh <- path:
		return nil
	default:
		return errors.New("sound selection queue full")
	}
}

// Run executes the loop until ctx is cancelled. It fetches the schedule
// for the initial location immediately.
func (t *Tracker) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return errors.New("tracker already running")
	}
	t.running = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	t.logger.Info("tracker started for %s (tick %v)", t.loc, t.opts.TickInterval)
	t.seedAlerts(ctx, t.now())
	t.startFetch(ctx)

	ticker := time.NewTicker(t.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracker stopped")
			return nil
		case loc := <-t.refreshCh:
			t.changeLocation(loc)
			t.startFetch(ctx)
		case path := <-t.soundCh:
			t.sound = path
			t.publish(t.now())
		case res := <-t.results:
			t.applyResult(ctx, res)
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

func (t *Tracker) now() time.Time {
	if t.opts.UseCityTimezone && t.zone != nil {
		return prayer.InZone(t.opts.Clock, t.zone).Now()
	}
	return t.opts.Clock.Now()
}

func (t *Tracker) seedAlerts(ctx context.Context, now time.Time) {
	if t.opts.Store == nil {
		return
	}
	day := prayer.DateKey(now)
	fired, err := t.opts.Store.AlertsOn(ctx, day)
	if err != nil {
		t.logger.Warn("could not load alert history: %v", err)
		return
	}
	for _, a := range fired {
		t.alerts.MarkFired(a.Day, a.Prayer)
	}
	if len(fired) > 0 {
		t.logger.Debug("restored %d alerts for %s", len(fired), day)
	}
}

func (t *Tracker) changeLocation(loc common.Location) {
	if loc == t.loc {
		return
	}
	t.logger.Info("location changed: %s -> %s", t.loc, loc)
	t.loc = loc
	t.zone = nil
	// The old city's times must not alert under the new one.
	t.schedule = prayer.Schedule{}
	t.readable = ""
	t.hijri = ""
	t.offline = false
}

func (t *Tracker) startFetch(ctx context.Context) {
	loc := t.loc
	day := t.now()
	t.day = prayer.DateKey(day)
	t.inFlight++
	t.status = StatusFetching
	t.publish(day)

	go func() {
		res, err := t.opts.Fetcher.Fetch(ctx, loc, day)
		select {
		case t.results <- fetchResult{loc: loc, day: day, result: res, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (t *Tracker) applyResult(ctx context.Context, res fetchResult) {
	if t.inFlight > 0 {
		t.inFlight--
	}

	// A result for a location the user has since moved away from.
	if res.loc != t.loc {
		t.logger.Debug("discarding stale schedule for %s", res.loc)
		t.publish(t.now())
		return
	}

	if res.err != nil {
		t.applyFailure(ctx, res)
		return
	}

	r := res.result
	t.schedule = r.Schedule.Clone()
	t.readable = r.Readable
	t.hijri = r.Hijri
	t.offline = false
	t.status = StatusUpdated
	if t.opts.UseCityTimezone {
		t.zone = r.Zone()
	}
	t.logger.Info("schedule updated for %s", res.loc)

	if t.opts.Store != nil {
		err := t.opts.Store.SaveSchedule(ctx, store.SavedSchedule{
			Location:  res.loc,
			Day:       prayer.DateKey(res.day),
			Schedule:  r.Schedule,
			Readable:  r.Readable,
			Hijri:     r.Hijri,
			Timezone:  r.Timezone,
			FetchedAt: r.FetchedAt,
		})
		if err != nil {
			t.logger.Warn("could not save schedule: %v", err)
		}
	}

	t.publish(t.now())
}

func (t *Tracker) applyFailure(ctx context.Context, res fetchResult) {
	if errors.Is(res.err, common.ErrCancelled) || ctx.Err() != nil {
		return
	}
	t.logger.Warn("fetch for %s failed: %v", res.loc, res.err)
	t.status = common.StatusText(res.err)

	if len(t.schedule) == 0 && t.opts.Store != nil {
		saved, err := t.opts.Store.LoadSchedule(ctx, res.loc, prayer.DateKey(res.day))
		if err == nil {
			t.schedule = saved.Schedule.Clone()
			t.readable = saved.Readable
			t.hijri = saved.Hijri
			t.offline = true
			t.status = StatusOffline
			if t.opts.UseCityTimezone && saved.Timezone != "" {
				if zone, err := time.LoadLocation(saved.Timezone); err == nil {
					t.zone = zone
				}
			}
			t.logger.Info("using saved schedule for %s from %s", res.loc, saved.FetchedAt.Format(time.RFC3339))
		} else if !errors.Is(err, common.ErrScheduleMissing) {
			t.logger.Warn("could not load saved schedule: %v", err)
		}
	}

	t.publish(t.now())
}

func (t *Tracker) tick(ctx context.Context) {
	now := t.now()

	if today := prayer.DateKey(now); t.day != "" && today != t.day {
		t.logger.Info("date changed to %s, refreshing schedule", today)
		t.startFetch(ctx)
	}

	for _, name := range t.alerts.Due(now, t.schedule) {
		t.fire(ctx, now, name)
	}

	t.publish(now)
}

func (t *Tracker) fire(ctx context.Context, now time.Time, name prayer.Name) {
	status := "It is time for " + string(name)
	if t.opts.Announcer != nil {
		status = t.opts.Announcer.Announce(ctx, name, t.sound)
	}
	t.status = status

	if t.opts.Store != nil {
		err := t.opts.Store.RecordAlert(ctx, store.Alert{
			Day:     prayer.DateKey(now),
			Prayer:  name,
			FiredAt: now,
			City:    t.loc.City,
			Country: t.loc.Country,
		})
		if err != nil {
			t.logger.Warn("could not record alert: %v", err)
		}
	}

	t.mu.RLock()
	cb := t.onAthan
	t.mu.RUnlock()
	if cb != nil {
		cb(name, status)
	}
}

func (t *Tracker) buildSnapshot(now time.Time) Snapshot {
	s := Snapshot{
		Location:  t.loc,
		Schedule:  t.schedule.Clone(),
		Status:    t.status,
		SoundFile: t.sound,
		Fetching:  t.inFlight > 0,
		Offline:   t.offline,
		Readable:  t.readable,
		Hijri:     t.hijri,
		Now:       now,
	}
	if next, ok := prayer.NextPrayer(now, t.schedule); ok {
		s.Next = next
		s.HasNext = true
		s.NextLabel = string(next.Name)
		s.Countdown = common.FormatCountdown(next.Remaining)
	} else {
		s.NextLabel = common.NoneTodayLabel
		s.Countdown = common.NoneTodayCountdown
	}
	return s
}

func (t *Tracker) publish(now time.Time) {
	s := t.buildSnapshot(now)

	t.mu.Lock()
	t.snapshot = s
	cb := t.onUpdate
	t.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}
