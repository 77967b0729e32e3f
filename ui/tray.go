package ui

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/systray"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/tracker"
)

// Pre-generated icons for performance.
var (
	iconIdle    = GenerateIdleIcon()
	iconAlert   = GenerateAlertIcon()
	iconOffline = GenerateOfflineIcon()
)

// flashDuration is how long the tray keeps the alert icon after an athan.
const flashDuration = 2 * time.Minute

// TrayIndicator manages the system tray icon and menu.
// It shows the next prayer without opening the main window.
type TrayIndicator struct {
	app *Application

	mu         sync.Mutex
	ready      bool
	statusItem *systray.MenuItem
	locItem    *systray.MenuItem
	icon       []byte
	flashUntil time.Time
	lastTitle  string
}

// NewTrayIndicator creates a new system tray indicator.
func NewTrayIndicator(app *Application) *TrayIndicator {
	return &TrayIndicator{app: app}
}

// Run starts the system tray indicator.
// This should be called from a goroutine as it blocks.
func (t *TrayIndicator) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the systray is ready.
func (t *TrayIndicator) onReady() {
	systray.SetIcon(iconIdle)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName)

	t.mu.Lock()
	t.icon = iconIdle

	t.statusItem = systray.AddMenuItem("Next: --", "Next prayer")
	t.statusItem.Disable()

	t.locItem = systray.AddMenuItem(t.app.config.Location().String(), "Current location")
	t.locItem.Disable()
	t.ready = true
	t.mu.Unlock()

	systray.AddSeparator()

	showItem := systray.AddMenuItem("Show", "Show main window")
	go func() {
		for range showItem.ClickedCh {
			t.app.runOnMain(t.app.showWindow)
		}
	}()

	refreshItem := systray.AddMenuItem("Refresh", "Fetch prayer times again")
	go func() {
		for range refreshItem.ClickedCh {
			t.app.refresh()
		}
	}()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Close "+common.AppName)
	go func() {
		for range quitItem.ClickedCh {
			t.app.runOnMain(t.app.Quit)
			systray.Quit()
		}
	}()
}

// onExit is called when the systray is about to exit.
func (t *TrayIndicator) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
	common.LogInfo("Tray indicator cleanup completed")
}

// Update refreshes the tray from a tracker snapshot. Safe to call from any
// goroutine; updates before the tray is ready are dropped.
func (t *TrayIndicator) Update(s tracker.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		return
	}

	title := trayTitle(s)
	if title != t.lastTitle {
		t.statusItem.SetTitle(title)
		systray.SetTooltip(common.AppName + " - " + title)
		t.locItem.SetTitle(s.Location.String())
		t.lastTitle = title
	}

	icon := iconIdle
	switch {
	case s.Now.Before(t.flashUntil):
		icon = iconAlert
	case len(s.Schedule) == 0 && !s.Fetching:
		icon = iconOffline
	}
	t.setIconLocked(icon)
}

// Flash switches the tray to the alert icon for a short while.
func (t *TrayIndicator) Flash(name prayer.Name) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.flashUntil = time.Now().Add(flashDuration)
	if !t.ready {
		return
	}
	t.setIconLocked(iconAlert)
	systray.SetTooltip(common.AppName + " - Time for " + string(name))
}

func (t *TrayIndicator) setIconLocked(icon []byte) {
	if len(icon) == 0 || sameIcon(icon, t.icon) {
		return
	}
	systray.SetIcon(icon)
	t.icon = icon
}

func sameIcon(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func trayTitle(s tracker.Snapshot) string {
	if !s.HasNext {
		return fmt.Sprintf("Next: %s", s.NextLabel)
	}
	return fmt.Sprintf("Next: %s in %s", s.NextLabel, s.Countdown)
}
