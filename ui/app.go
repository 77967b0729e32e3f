package ui

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/prayer-times/athan"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/config"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/store"
	"github.com/yllada/prayer-times/tracker"
)

// HistorySource lists recently fired alerts.
type HistorySource interface {
	RecentAlerts(ctx context.Context, limit int) ([]store.Alert, error)
}

// Services are the non-GUI collaborators the application drives.
type Services struct {
	Config  *config.Config
	Tracker *tracker.Tracker
	Alerter *athan.Alerter
	// History is optional.
	History HistorySource
}

// Application represents the main application
type Application struct {
	app      *gtk.Application
	window   *MainWindow
	tracker  *tracker.Tracker
	alerter  *athan.Alerter
	history  HistorySource
	config   *config.Config
	version  string
	tray     *TrayIndicator
	cancel   context.CancelFunc
	athanDlg *gtk.Window
}

// NewApplication creates a new application
func NewApplication(appID, version string, svc Services) *Application {
	app := gtk.NewApplication(appID, gio.ApplicationFlagsNone)

	cfg := svc.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	application := &Application{
		app:     app,
		tracker: svc.Tracker,
		alerter: svc.Alerter,
		history: svc.History,
		config:  cfg,
		version: version,
	}

	app.ConnectActivate(application.onActivate)
	app.ConnectShutdown(application.onShutdown)

	return application
}

// Run runs the application
func (a *Application) Run(args []string) int {
	return a.app.Run(args)
}

// onActivate is called when the application is activated
func (a *Application) onActivate() {
	// A second launch only raises the existing window.
	if a.window != nil {
		a.showWindow()
		return
	}

	a.ApplyTheme(a.config.Theme)
	a.setupAppIcon()
	LoadStyles()

	a.window = NewMainWindow(a)
	a.window.Show()

	a.tray = NewTrayIndicator(a)
	go a.tray.Run()

	a.startTracker()
}

func (a *Application) onShutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	common.LogInfo("Application shut down")
}

// startTracker wires tracker callbacks to the GTK main loop and starts it.
func (a *Application) startTracker() {
	if a.tracker == nil {
		return
	}

	a.tracker.SetOnUpdate(func(s tracker.Snapshot) {
		if a.tray != nil {
			a.tray.Update(s)
		}
		glib.IdleAdd(func() {
			if a.window != nil {
				a.window.Update(s)
			}
		})
	})

	a.tracker.SetOnAthan(func(name prayer.Name, status string) {
		if a.tray != nil {
			a.tray.Flash(name)
		}
		glib.IdleAdd(func() {
			if a.window != nil {
				a.window.SetStatus(status)
				a.showAthanDialog(name)
			}
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		if err := a.tracker.Run(ctx); err != nil {
			common.LogError("Tracker stopped: %v", err)
		}
	}()
}

// setupAppIcon sets up the application icon
func (a *Application) setupAppIcon() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	iconTheme := gtk.IconThemeGetForDisplay(display)
	if iconTheme == nil {
		return
	}

	if execPath, err := os.Executable(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(filepath.Dir(execPath), "assets", "icons"))
	}
	if cwd, err := os.Getwd(); err == nil {
		iconTheme.AddSearchPath(filepath.Join(cwd, "assets", "icons"))
	}

	gtk.WindowSetDefaultIconName("prayer-times")
}

// ApplyTheme applies the specified theme to the application.
// Supported values: "auto" (system default), "light", "dark"
func (a *Application) ApplyTheme(theme string) {
	settings := gtk.SettingsGetDefault()
	if settings == nil {
		return
	}

	switch theme {
	case common.ThemeLight:
		settings.SetObjectProperty("gtk-application-prefer-dark-theme", false)
	case common.ThemeDark:
		settings.SetObjectProperty("gtk-application-prefer-dark-theme", true)
	default:
		// auto: leave the system preference alone
	}
}

// refresh asks the tracker to fetch the current location again.
func (a *Application) refresh() {
	if a.tracker != nil {
		a.tracker.Refresh(a.tracker.Snapshot().Location)
	}
}

// runOnMain schedules fn on the GTK main loop.
func (a *Application) runOnMain(fn func()) {
	glib.IdleAdd(fn)
}

// showWindow shows the main window
func (a *Application) showWindow() {
	if a.window != nil {
		a.window.window.Present()
	}
}

// Quit closes the application
func (a *Application) Quit() {
	a.app.Quit()
}

// showAthanDialog shows the "It is time for X" dialog, replacing any
// dialog still open from an earlier prayer.
func (a *Application) showAthanDialog(name prayer.Name) {
	if a.athanDlg != nil {
		a.athanDlg.Destroy()
		a.athanDlg = nil
	}

	window := gtk.NewWindow()
	window.SetTitle("Prayer Time")
	window.SetTransientFor(&a.window.window.Window)
	window.SetModal(false)
	window.SetDefaultSize(320, 140)
	window.SetResizable(false)

	box := gtk.NewBox(gtk.OrientationVertical, 12)
	box.SetMarginTop(24)
	box.SetMarginBottom(24)
	box.SetMarginStart(24)
	box.SetMarginEnd(24)
	box.SetHAlign(gtk.AlignCenter)

	icon := gtk.NewImage()
	icon.SetFromIconName("appointment-soon-symbolic")
	icon.SetPixelSize(48)
	box.Append(icon)

	msg := gtk.NewLabel(athan.AlertMessage(name))
	msg.AddCSSClass("athan-message")
	box.Append(msg)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.AddCSSClass("suggested-action")
	okBtn.SetHAlign(gtk.AlignCenter)
	okBtn.ConnectClicked(func() {
		window.Close()
	})
	box.Append(okBtn)

	window.ConnectCloseRequest(func() bool {
		a.athanDlg = nil
		return false
	})

	window.SetChild(box)
	a.athanDlg = window
	window.Present()
}
