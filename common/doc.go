// Package common provides shared constants, types, utilities, and interfaces
// used throughout the Prayer Times application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: defaults for location, intervals, file names and UI sizes
//   - Errors: sentinel errors checked with errors.Is, plus StatusText for the UI
//   - Interfaces: Location, Notifier, SoundPlayer and Logger
//   - Logger: levelled logging with optional rotating file output
//   - Utils: config/data directories and countdown formatting
//
// # Usage
//
//	common.LogInfo("Fetching schedule for %s", loc)
//
//	log := common.Component("tracker")
//	log.Debug("tick %s", now)
//
//	if errors.Is(err, common.ErrCityNotFound) {
//	    // ask the user to fix the city name
//	}
package common
