// Package common provides shared constants, types, and utilities
// used across the Prayer Times application.
package common

import "errors"

// Sentinel errors for prayer-times operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Schedule fetch errors.
	ErrCityNotFound      = errors.New("could not find city")
	ErrMalformedResponse = errors.New("malformed prayer-times response")
	ErrFetchFailed       = errors.New("connection failed")
	ErrTimeout           = errors.New("operation timed out")
	ErrCancelled         = errors.New("operation cancelled")

	// Schedule errors.
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrNoSchedule      = errors.New("no schedule loaded")
	ErrScheduleMissing = errors.New("no saved schedule")

	// Sound errors.
	ErrUnsupportedSound = errors.New("unsupported sound file")
	ErrNoSoundPlayer    = errors.New("no audio player available")
	ErrPlayback         = errors.New("audio playback failed")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Storage errors.
	ErrStoreUnavailable = errors.New("schedule store unavailable")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// StatusText turns a fetch error into the short message shown in the
// status bar.
func StatusText(err error) string {
	switch {
	case err == nil:
		return "Ready"
	case errors.Is(err, ErrCityNotFound):
		return "Could not find city."
	case errors.Is(err, ErrMalformedResponse):
		return "Unexpected response from server."
	case errors.Is(err, ErrTimeout):
		return "Connection timed out."
	case errors.Is(err, ErrNoSchedule):
		return "No prayer times available."
	default:
		return "Connection failed. Try again."
	}
}
