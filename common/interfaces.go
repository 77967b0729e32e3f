// Package common provides shared constants, types, and utilities
// used across the Prayer Times application.
package common

import "context"

// Location identifies where prayer times are computed for.
type Location struct {
	City    string `json:"city" yaml:"city"`
	Country string `json:"country" yaml:"country"`
	// Method is the Aladhan calculation method id.
	Method int `json:"method" yaml:"method"`
}

// String returns "City, Country".
func (l Location) String() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + ", " + l.Country
}

// Notifier defines the interface for sending notifications.
type Notifier interface {
	// Notify sends a notification with the given title and message.
	Notify(title, message string) error
}

// SoundPlayer plays an audio file.
type SoundPlayer interface {
	// Play starts playback of path. It returns once playback has started.
	Play(ctx context.Context, path string) error
	// Beep emits the fallback alert when no sound file is selected.
	Beep()
}

// Logger defines the interface for structured logging.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...interface{})
	// Info logs an informational message.
	Info(msg string, args ...interface{})
	// Warn logs a warning message.
	Warn(msg string, args ...interface{})
	// Error logs an error message.
	Error(msg string, args ...interface{})
}
