// Package common provides shared constants, types, and utilities
// used across the Prayer Times application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "com.prayertimes.app"
	// AppName is the display name of the application.
	AppName = "Prayer Times"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "prayer-times"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	DatabaseName   = "prayer-times.db"
	LogFileName    = "prayer-times.log"
)

// Location defaults applied on first launch.
const (
	DefaultCity    = "Jeddah"
	DefaultCountry = "Saudi Arabia"
	// DefaultMethod is the Aladhan calculation method (2 = ISNA).
	DefaultMethod = 2
)

// Default timeouts and intervals.
const (
	// TickInterval is how often the countdown is recomputed.
	TickInterval = 1 * time.Second
	// FetchTimeout bounds a single request to the prayer-times API.
	FetchTimeout = 10 * time.Second
	// CatchUpWindow is how late a missed prayer alert may still fire.
	CatchUpWindow = 60 * time.Second
	// ScheduleCacheTTL is how long a fetched schedule is reused in memory.
	ScheduleCacheTTL = 6 * time.Hour
)

// UI constants.
const (
	DefaultWindowWidth  = 380
	DefaultWindowHeight = 650
	TrayIconSize        = 22
)

// Placeholders shown when no prayer remains today.
const (
	NoneTodayLabel     = "Fajr (Tomorrow)"
	NoneTodayCountdown = "--:--:--"
)

// Theme values.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)
