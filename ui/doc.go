// Package ui provides the GTK4 graphical interface for Prayer Times.
//
// The window shows the location form, the athan sound picker, the
// countdown to the next prayer and the day's schedule. A system tray
// indicator keeps the countdown visible while the window is hidden.
//
// # Thread Safety
//
// GTK operations must execute on the main thread. The tracker publishes
// snapshots from its own goroutine, so every widget update is scheduled
// with glib.IdleAdd:
//
//	tr.SetOnUpdate(func(s tracker.Snapshot) {
//	    glib.IdleAdd(func() { window.Update(s) })
//	})
//
// The tray indicator is driven by fyne.io/systray and guards its own
// state, so it may be updated directly from any goroutine.
package ui
