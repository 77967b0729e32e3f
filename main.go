// Package main provides the entry point for the Prayer Times application.
// Prayer Times shows the day's prayer schedule for a city, counts down to
// the next prayer and plays the athan when it arrives.
//
// Front ends:
//   - GTK4 window with a system tray indicator (default)
//   - bubbletea terminal UI (--tui, or automatically without a display)
//   - one-shot queries for scripting (--today, --next, --history)
//
// Usage:
//
//	prayer-times [options]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/yllada/prayer-times/aladhan"
	"github.com/yllada/prayer-times/athan"
	"github.com/yllada/prayer-times/cli"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/config"
	"github.com/yllada/prayer-times/store"
	"github.com/yllada/prayer-times/tracker"
	"github.com/yllada/prayer-times/tui"
	"github.com/yllada/prayer-times/ui"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	showHelp    = flag.Bool("help", false, "Show help message")
	useTUI      = flag.Bool("tui", false, "Run the terminal interface")

	showToday   = flag.Bool("today", false, "Print today's schedule")
	showNext    = flag.Bool("next", false, "Print the next prayer and countdown")
	showHistory = flag.Bool("history", false, "Print recent prayer alerts")

	cityFlag    = flag.String("city", "", "Override the configured city")
	countryFlag = flag.String("country", "", "Override the configured country")
	methodFlag  = flag.Int("method", -1, "Override the calculation method")
)

func main() {
	flag.Parse()

	if *showHelp {
		cli.PrintHelp(os.Stdout)
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("%s v%s\n", common.AppName, appVersion)
		if buildTime != "unknown" {
			fmt.Printf("  Build:  %s\n", buildTime)
			fmt.Printf("  Commit: %s\n", commitSHA)
		}
		os.Exit(0)
	}

	logLevel := common.LevelInfo
	if *verbose {
		logLevel = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:       logLevel,
		EnableFile:  true,
		MaxFileSize: 5 * 1024 * 1024, // 5MB
		MaxBackups:  5,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	cfg, err := config.Load()
	if err != nil {
		common.LogWarn("Using default configuration: %v", err)
		cfg = config.DefaultConfig()
	}

	loc, err := locationFromFlags(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	// The store is optional: without it there is no offline fallback.
	db, err := openStore()
	if err != nil {
		common.LogWarn("Saved schedules unavailable: %v", err)
	} else {
		defer db.Close()
	}

	client := aladhan.New(aladhan.WithLogger(common.Component("aladhan")))

	if *showToday || *showNext || *showHistory {
		code := runCLI(ctx, cfg, loc, client, db)
		if db != nil {
			db.Close()
		}
		common.CloseLogger()
		os.Exit(code)
	}

	alerter := athan.NewAlerter(athan.NewExecPlayer(), athan.NewDesktopNotifier())
	alerter.SetNotificationsEnabled(cfg.ShowNotifications)

	opts := tracker.Options{
		Location:        loc,
		SoundFile:       cfg.SoundFile,
		Fetcher:         client,
		Announcer:       alerter,
		CatchUpWindow:   cfg.CatchUpWindow(),
		UseCityTimezone: cfg.UseCityTimezone,
		Logger:          common.Component("tracker"),
	}
	if db != nil {
		opts.Store = db
	}
	tr := tracker.New(opts)

	if *useTUI || !hasDisplay() {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: no display and no terminal available.")
			os.Exit(1)
		}
		common.LogInfo("Starting %s v%s (terminal)", common.AppName, appVersion)
		refresh := func() { tr.Refresh(loc) }
		if err := tui.Run(ctx, tr, refresh); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	common.LogInfo("Starting %s v%s", common.AppName, appVersion)
	svc := ui.Services{Config: cfg, Tracker: tr, Alerter: alerter}
	if db != nil {
		svc.History = db
	}
	app := ui.NewApplication(common.AppID, appVersion, svc)
	exitCode := app.Run(os.Args[:1])

	if exitCode != 0 {
		common.LogWarn("Application exited with code %d", exitCode)
	}
	os.Exit(exitCode)
}

// locationFromFlags applies --city/--country/--method to the configured
// location for this run only.
func locationFromFlags(cfg *config.Config) (common.Location, error) {
	loc := cfg.Location()
	if *cityFlag != "" {
		loc.City = *cityFlag
	}
	if *countryFlag != "" {
		loc.Country = *countryFlag
	}
	if *methodFlag >= 0 {
		if !aladhan.ValidMethod(*methodFlag) {
			return loc, fmt.Errorf("unknown calculation method %d", *methodFlag)
		}
		loc.Method = *methodFlag
	}
	return loc, nil
}

func openStore() (*store.Store, error) {
	path, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

// runCLI handles one-shot queries and returns the exit code.
func runCLI(ctx context.Context, cfg *config.Config, loc common.Location, client *aladhan.Client, db *store.Store) int {
	opts := cli.Options{
		Fetcher:         client,
		UseCityTimezone: cfg.UseCityTimezone,
	}
	if db != nil {
		opts.Archive = db
	}
	c := cli.New(opts)

	var err error
	switch {
	case *showToday:
		err = c.Today(ctx, loc)
	case *showNext:
		err = c.Next(ctx, loc)
	case *showHistory:
		err = c.History(ctx, 20)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// setupSignalHandler configures graceful shutdown on SIGINT/SIGTERM.
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, shutting down", sig)
		cancel()
	}()
}
