// Package athan carries out the side effects of a prayer alert: a desktop
// notification and the athan sound (or a beep when no sound is chosen).
package athan

import (
	"context"
	"sync/atomic"

	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
)

// Status texts returned by Announce.
const (
	StatusBeep       = "Beep! (No MP3 selected)"
	StatusAudioError = "Audio Error"
)

// StatusPlaying returns the status shown while the athan plays.
func StatusPlaying(name prayer.Name) string {
	return "Playing Athan for " + string(name) + "..."
}

// AlertMessage is the notification body for a prayer.
func AlertMessage(name prayer.Name) string {
	return "It is time for " + string(name)
}

// Alerter combines a sound player and a notifier.
type Alerter struct {
	player   common.SoundPlayer
	notifier common.Notifier
	notify   atomic.Bool
	logger   common.Logger
}

// NewAlerter creates an alerter. notifier may be nil.
func NewAlerter(player common.SoundPlayer, notifier common.Notifier) *Alerter {
	a := &Alerter{
		player:   player,
		notifier: notifier,
		logger:   common.Component("athan"),
	}
	a.notify.Store(true)
	return a
}

// SetNotificationsEnabled toggles desktop notifications. Safe to call from
// any goroutine.
func (a *Alerter) SetNotificationsEnabled(enabled bool) {
	a.notify.Store(enabled)
}

// Announce alerts for name, playing soundFile when set, and returns the
// status text for the user.
func (a *Alerter) Announce(ctx context.Context, name prayer.Name, soundFile string) string {
	a.logger.Info("prayer time: %s", name)

	if a.notifier != nil && a.notify.Load() {
		if err := a.notifier.Notify("Prayer Time", AlertMessage(name)); err != nil {
			a.logger.Warn("notification failed: %v", err)
		}
	}

	if soundFile == "" {
		a.player.Beep()
		return StatusBeep
	}
	if err := a.player.Play(ctx, soundFile); err != nil {
		a.logger.Error("failed to play %s: %v", soundFile, err)
		return StatusAudioError
	}
	return StatusPlaying(name)
}
