// Package aladhan is a small client for the Aladhan prayer-times API.
//
// Only the timingsByCity endpoint is used. Transient failures are retried
// with exponential backoff and successful schedules are cached in memory per
// location and date, so repeated refreshes within a few hours do not touch
// the network.
package aladhan
