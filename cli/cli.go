// Package cli provides one-shot command-line queries for Prayer Times.
// It prints today's schedule, the next prayer or the alert history
// without launching the GUI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/yllada/prayer-times/aladhan"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/store"
)

// Fetcher retrieves a day's schedule for a location.
type Fetcher interface {
	Fetch(ctx context.Context, loc common.Location, day time.Time) (*aladhan.Result, error)
}

// Archive is the saved data the CLI can fall back on.
type Archive interface {
	LoadSchedule(ctx context.Context, loc common.Location, day string) (*store.SavedSchedule, error)
	RecentAlerts(ctx context.Context, limit int) ([]store.Alert, error)
}

// Options configures a CLI. Fetcher is required.
type Options struct {
	Out     io.Writer
	Fetcher Fetcher
	// Archive is optional; without it there is no offline fallback or history.
	Archive Archive
	Clock   prayer.Clock
	// UseCityTimezone evaluates the countdown on the city's clock.
	UseCityTimezone bool
}

// CLI represents the command-line interface.
type CLI struct {
	out       io.Writer
	fetcher   Fetcher
	archive   Archive
	clock     prayer.Clock
	cityClock bool

	highlight *color.Color
	dim       *color.Color
	warn      *color.Color
}

// New creates a new CLI instance.
func New(opts Options) *CLI {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = prayer.SystemClock{}
	}
	return &CLI{
		out:       opts.Out,
		fetcher:   opts.Fetcher,
		archive:   opts.Archive,
		clock:     opts.Clock,
		cityClock: opts.UseCityTimezone,
		highlight: color.New(color.FgGreen, color.Bold),
		dim:       color.New(color.FgHiBlack),
		warn:      color.New(color.FgYellow),
	}
}

// day is a resolved schedule plus the instant to evaluate it at.
type day struct {
	schedule prayer.Schedule
	readable string
	hijri    string
	now      time.Time
	offline  bool
}

// load fetches today's schedule, falling back to the archive on failure.
func (c *CLI) load(ctx context.Context, loc common.Location) (*day, error) {
	now := c.clock.Now()

	res, err := c.fetcher.Fetch(ctx, loc, now)
	if err == nil {
		if len(res.Schedule) == 0 {
			return nil, fmt.Errorf("%w for %s", common.ErrNoSchedule, loc)
		}
		if c.cityClock {
			now = prayer.InZone(c.clock, res.Zone()).Now()
		}
		return &day{
			schedule: res.Schedule,
			readable: res.Readable,
			hijri:    res.Hijri,
			now:      now,
		}, nil
	}

	if c.archive == nil || errors.Is(err, common.ErrCancelled) {
		return nil, err
	}
	saved, loadErr := c.archive.LoadSchedule(ctx, loc, prayer.DateKey(now))
	if loadErr != nil {
		common.LogDebug("No saved schedule for %s: %v", loc, loadErr)
		return nil, err
	}
	if len(saved.Schedule) == 0 {
		return nil, fmt.Errorf("%w for %s", common.ErrNoSchedule, loc)
	}

	if c.cityClock && saved.Timezone != "" {
		if zone, zerr := time.LoadLocation(saved.Timezone); zerr == nil {
			now = now.In(zone)
		}
	}
	return &day{
		schedule: saved.Schedule,
		readable: saved.Readable,
		hijri:    saved.Hijri,
		now:      now,
		offline:  true,
	}, nil
}

// Today prints the day's schedule with the next prayer highlighted.
func (c *CLI) Today(ctx context.Context, loc common.Location) error {
	d, err := c.load(ctx, loc)
	if err != nil {
		return fmt.Errorf("%s: %w", common.StatusText(err), err)
	}

	fmt.Fprintf(c.out, "%s\n", loc)
	if d.readable != "" || d.hijri != "" {
		fmt.Fprintln(c.out, c.dim.Sprintf("%s  %s", d.readable, d.hijri))
	}
	if d.offline {
		fmt.Fprintln(c.out, c.warn.Sprint("Offline: using saved schedule"))
	}
	fmt.Fprintln(c.out)

	next, hasNext := prayer.NextPrayer(d.now, d.schedule)
	for _, name := range prayer.Names {
		value, ok := d.schedule[name]
		if !ok || value == "" {
			value = "--:--"
		}
		line := fmt.Sprintf("  %-8s %s", name, value)
		if hasNext && next.Name == name {
			fmt.Fprintln(c.out, c.highlight.Sprint(line+"  <- next"))
			continue
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}

// Next prints the next prayer and the countdown to it.
func (c *CLI) Next(ctx context.Context, loc common.Location) error {
	d, err := c.load(ctx, loc)
	if err != nil {
		return fmt.Errorf("%s: %w", common.StatusText(err), err)
	}

	next, ok := prayer.NextPrayer(d.now, d.schedule)
	if !ok {
		fmt.Fprintf(c.out, "Next: %s  %s\n", common.NoneTodayLabel, common.NoneTodayCountdown)
		return nil
	}

	fmt.Fprintf(c.out, "Next: %s at %s  %s\n",
		c.highlight.Sprint(string(next.Name)),
		d.schedule[next.Name],
		common.FormatCountdown(next.Remaining))
	return nil
}

// History prints the most recent alerts, newest first.
func (c *CLI) History(ctx context.Context, limit int) error {
	if c.archive == nil {
		return common.ErrStoreUnavailable
	}

	alerts, err := c.archive.RecentAlerts(ctx, limit)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(c.out, "No prayer alerts recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRAYER\tFIRED\tLOCATION")
	fmt.Fprintln(w, "----\t------\t-----\t--------")
	for _, a := range alerts {
		where := a.City
		if a.Country != "" {
			where += ", " + a.Country
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Day, a.Prayer, a.FiredAt.Local().Format("15:04:05"), where)
	}
	return w.Flush()
}

// PrintHelp prints usage information.
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, `Prayer Times - daily prayer times with athan alerts

Usage:
  prayer-times [OPTIONS]

Options:
  --version          Show version and exit
  --verbose          Enable verbose logging
  --tui              Run the terminal interface instead of the GUI
  --today            Print today's schedule
  --next             Print the next prayer and countdown
  --history          Print recent prayer alerts
  --city NAME        Override the configured city for this run
  --country NAME     Override the configured country for this run
  --method ID        Override the calculation method for this run
  --help             Show this help message

Examples:
  prayer-times --today
  prayer-times --next --city Cairo --country Egypt --method 5
  prayer-times --tui

Notes:
  - Without a display the terminal interface starts automatically
  - Run without options to launch the GUI`)
}
