package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diamondburned/gotk4/pkg/gio/v2"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/prayer-times/aladhan"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/tracker"
)

const noSoundLabel = "Default (Beep)"

// MainWindow represents the main application window.
type MainWindow struct {
	app       *Application
	window    *gtk.ApplicationWindow
	headerBar *gtk.HeaderBar

	cityEntry    *gtk.Entry
	countryEntry *gtk.Entry
	methodDrop   *gtk.DropDown

	soundLabel *gtk.Label

	nextLabel      *gtk.Label
	countdownLabel *gtk.Label
	dateLabel      *gtk.Label
	rows           map[prayer.Name]*prayerRow

	statusBar     *gtk.Box
	statusLabel   *gtk.Label
	statusSpinner *gtk.Spinner
	status        statusLine
}

type prayerRow struct {
	box  *gtk.Box
	time *gtk.Label
}

// NewMainWindow creates a new main window.
func NewMainWindow(app *Application) *MainWindow {
	mw := &MainWindow{
		app:  app,
		rows: make(map[prayer.Name]*prayerRow, len(prayer.Names)),
	}

	mw.window = gtk.NewApplicationWindow(app.app)
	mw.window.SetTitle(common.AppName)
	mw.window.SetDefaultSize(common.DefaultWindowWidth, common.DefaultWindowHeight)
	mw.window.SetResizable(false)
	mw.window.SetIconName("prayer-times")

	// Closing hides to the tray; the countdown keeps running.
	mw.window.SetHideOnClose(app.config.MinimizeToTray)

	mw.createLayout()

	return mw
}

// createLayout creates the window layout.
func (mw *MainWindow) createLayout() {
	mw.headerBar = gtk.NewHeaderBar()

	titleBox := gtk.NewBox(gtk.OrientationVertical, 0)
	titleBox.SetVAlign(gtk.AlignCenter)
	title := gtk.NewLabel("Prayer Times Pro")
	title.AddCSSClass("app-title")
	titleBox.Append(title)
	subtitle := gtk.NewLabel("Runs in background")
	subtitle.AddCSSClass("app-subtitle")
	subtitle.AddCSSClass("dim-label")
	titleBox.Append(subtitle)
	mw.headerBar.SetTitleWidget(titleBox)

	refreshButton := gtk.NewButton()
	refreshButton.SetIconName("view-refresh-symbolic")
	refreshButton.SetTooltipText("Refresh prayer times")
	refreshButton.ConnectClicked(mw.app.refresh)
	mw.headerBar.PackStart(refreshButton)

	menuButton := gtk.NewMenuButton()
	menuButton.SetIconName("open-menu-symbolic")
	menuButton.SetTooltipText("Menu")
	menuButton.SetMenuModel(mw.createMenu())
	mw.headerBar.PackEnd(menuButton)

	mw.window.SetTitlebar(mw.headerBar)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 12)

	content := gtk.NewBox(gtk.OrientationVertical, 12)
	content.SetMarginTop(12)
	content.SetMarginStart(16)
	content.SetMarginEnd(16)
	content.SetVExpand(true)

	content.Append(mw.createLocationSection())
	content.Append(mw.createSoundSection())
	content.Append(mw.createCountdownSection())
	content.Append(mw.createScheduleSection())

	mainBox.Append(content)

	mw.createStatusBar()
	mainBox.Append(mw.statusBar)

	mw.window.SetChild(mainBox)
}

func (mw *MainWindow) createLocationSection() *gtk.Frame {
	frame := gtk.NewFrame("Location Settings")
	frame.AddCSSClass("section-card")

	grid := gtk.NewGrid()
	grid.SetRowSpacing(8)
	grid.SetColumnSpacing(8)
	grid.SetMarginTop(10)
	grid.SetMarginBottom(10)
	grid.SetMarginStart(10)
	grid.SetMarginEnd(10)

	cfg := mw.app.config

	cityLabel := gtk.NewLabel("City:")
	cityLabel.SetXAlign(0)
	grid.Attach(cityLabel, 0, 0, 1, 1)
	mw.cityEntry = gtk.NewEntry()
	mw.cityEntry.SetText(cfg.City)
	mw.cityEntry.SetHExpand(true)
	mw.cityEntry.ConnectActivate(mw.onUpdateLocation)
	grid.Attach(mw.cityEntry, 1, 0, 1, 1)

	countryLabel := gtk.NewLabel("Country:")
	countryLabel.SetXAlign(0)
	grid.Attach(countryLabel, 0, 1, 1, 1)
	mw.countryEntry = gtk.NewEntry()
	mw.countryEntry.SetText(cfg.Country)
	mw.countryEntry.ConnectActivate(mw.onUpdateLocation)
	grid.Attach(mw.countryEntry, 1, 1, 1, 1)

	methodLabel := gtk.NewLabel("Method:")
	methodLabel.SetXAlign(0)
	grid.Attach(methodLabel, 0, 2, 1, 1)
	names := make([]string, len(aladhan.Methods))
	for i, m := range aladhan.Methods {
		names[i] = m.Name
	}
	mw.methodDrop = gtk.NewDropDown(gtk.NewStringList(names), nil)
	if i := aladhan.MethodIndex(cfg.Method); i >= 0 {
		mw.methodDrop.SetSelected(uint(i))
	}
	grid.Attach(mw.methodDrop, 1, 2, 1, 1)

	updateBtn := gtk.NewButtonWithLabel("Update & Save")
	updateBtn.AddCSSClass("suggested-action")
	updateBtn.ConnectClicked(mw.onUpdateLocation)
	grid.Attach(updateBtn, 0, 3, 2, 1)

	frame.SetChild(grid)
	return frame
}

func (mw *MainWindow) createSoundSection() *gtk.Box {
	box := gtk.NewBox(gtk.OrientationHorizontal, 8)

	caption := gtk.NewLabel("Athan:")
	box.Append(caption)

	mw.soundLabel = gtk.NewLabel(soundDisplayName(mw.app.config.SoundFile))
	mw.soundLabel.SetHExpand(true)
	mw.soundLabel.SetXAlign(0)
	mw.soundLabel.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	mw.soundLabel.AddCSSClass("dim-label")
	box.Append(mw.soundLabel)

	browseBtn := gtk.NewButtonWithLabel("Browse MP3")
	browseBtn.ConnectClicked(mw.onBrowseSound)
	box.Append(browseBtn)

	return box
}

func (mw *MainWindow) createCountdownSection() *gtk.Box {
	box := gtk.NewBox(gtk.OrientationVertical, 4)
	box.SetHAlign(gtk.AlignCenter)

	mw.nextLabel = gtk.NewLabel("Next: --")
	mw.nextLabel.AddCSSClass("next-label")
	box.Append(mw.nextLabel)

	mw.countdownLabel = gtk.NewLabel(common.NoneTodayCountdown)
	mw.countdownLabel.AddCSSClass("countdown")
	box.Append(mw.countdownLabel)

	mw.dateLabel = gtk.NewLabel("")
	mw.dateLabel.AddCSSClass("dim-label")
	mw.dateLabel.AddCSSClass("caption")
	box.Append(mw.dateLabel)

	return box
}

func (mw *MainWindow) createScheduleSection() *gtk.Box {
	list := gtk.NewBox(gtk.OrientationVertical, 4)

	for _, name := range prayer.Names {
		row := gtk.NewBox(gtk.OrientationHorizontal, 12)
		row.AddCSSClass("prayer-row")

		nameLabel := gtk.NewLabel(string(name))
		nameLabel.SetXAlign(0)
		nameLabel.SetHExpand(true)
		nameLabel.AddCSSClass("prayer-name")
		row.Append(nameLabel)

		timeLabel := gtk.NewLabel("--:--")
		timeLabel.AddCSSClass("prayer-time")
		row.Append(timeLabel)

		list.Append(row)
		mw.rows[name] = &prayerRow{box: row, time: timeLabel}
	}

	return list
}

// createMenu creates the application menu.
func (mw *MainWindow) createMenu() *gio.Menu {
	menu := gio.NewMenu()

	mainSection := gio.NewMenu()
	mainSection.Append("Alert History", "app.history")
	mainSection.Append("Preferences", "app.preferences")
	menu.AppendSection("", &mainSection.MenuModel)

	appSection := gio.NewMenu()
	appSection.Append("About", "app.about")
	appSection.Append("Quit", "app.quit")
	menu.AppendSection("", &appSection.MenuModel)

	mw.setupActions()

	return menu
}

// setupActions configures menu actions.
func (mw *MainWindow) setupActions() {
	preferencesAction := gio.NewSimpleAction("preferences", nil)
	preferencesAction.ConnectActivate(func(_ *glib.Variant) {
		NewPreferencesDialog(mw).Show()
	})
	mw.app.app.AddAction(preferencesAction)
	mw.app.app.SetAccelsForAction("app.preferences", []string{"<Control>comma"})

	historyAction := gio.NewSimpleAction("history", nil)
	historyAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onHistory()
	})
	mw.app.app.AddAction(historyAction)
	mw.app.app.SetAccelsForAction("app.history", []string{"<Control>h"})

	aboutAction := gio.NewSimpleAction("about", nil)
	aboutAction.ConnectActivate(func(_ *glib.Variant) {
		mw.onAbout()
	})
	mw.app.app.AddAction(aboutAction)

	quitAction := gio.NewSimpleAction("quit", nil)
	quitAction.ConnectActivate(func(_ *glib.Variant) {
		mw.app.Quit()
	})
	mw.app.app.AddAction(quitAction)
	mw.app.app.SetAccelsForAction("app.quit", []string{"<Control>q"})

	refreshAction := gio.NewSimpleAction("refresh", nil)
	refreshAction.ConnectActivate(func(_ *glib.Variant) {
		mw.app.refresh()
	})
	mw.app.app.AddAction(refreshAction)
	mw.app.app.SetAccelsForAction("app.refresh", []string{"F5"})
}

// createStatusBar creates the status bar.
func (mw *MainWindow) createStatusBar() {
	mw.statusBar = gtk.NewBox(gtk.OrientationHorizontal, 8)
	mw.statusBar.AddCSSClass("status-bar")

	mw.statusSpinner = gtk.NewSpinner()
	mw.statusBar.Append(mw.statusSpinner)

	mw.statusLabel = gtk.NewLabel("Ready")
	mw.statusLabel.SetXAlign(0)
	mw.statusLabel.SetHExpand(true)
	mw.statusBar.Append(mw.statusLabel)
}

// Show displays the window.
func (mw *MainWindow) Show() {
	mw.window.Show()
}

// SetStatus updates the status text.
func (mw *MainWindow) SetStatus(text string) {
	mw.status.local(text)
	if mw.statusLabel != nil {
		mw.statusLabel.SetText(text)
	}
}

// Update renders a tracker snapshot. Must run on the GTK main thread.
func (mw *MainWindow) Update(s tracker.Snapshot) {
	mw.nextLabel.SetText("Next: " + s.NextLabel)
	mw.countdownLabel.SetText(s.Countdown)

	date := s.Readable
	if s.Hijri != "" {
		if date != "" {
			date += "  ·  "
		}
		date += s.Hijri
	}
	mw.dateLabel.SetText(date)

	for _, name := range prayer.Names {
		row := mw.rows[name]
		value := s.Schedule[name]
		if value == "" {
			value = "--:--"
		}
		row.time.SetText(value)
		if s.HasNext && s.Next.Name == name {
			row.box.AddCSSClass("next")
		} else {
			row.box.RemoveCSSClass("next")
		}
	}

	if text, changed := mw.status.fromTracker(s.Status); changed {
		mw.statusLabel.SetText(text)
	}
	if s.Fetching {
		mw.statusSpinner.Start()
	} else {
		mw.statusSpinner.Stop()
	}
}

// Event handlers

func (mw *MainWindow) onUpdateLocation() {
	city := strings.TrimSpace(mw.cityEntry.Text())
	country := strings.TrimSpace(mw.countryEntry.Text())
	if city == "" {
		mw.SetStatus("Please enter a city.")
		return
	}

	method := common.DefaultMethod
	if idx := int(mw.methodDrop.Selected()); idx < len(aladhan.Methods) {
		method = aladhan.Methods[idx].ID
	}

	loc := common.Location{City: city, Country: country, Method: method}
	mw.app.config.SetLocation(loc)
	if err := mw.app.config.Save(); err != nil {
		common.LogError("Could not save location: %v", err)
		mw.showError("Error", "Could not save settings: "+err.Error())
	}

	if mw.app.tracker != nil {
		mw.app.tracker.Refresh(loc)
	}
	mw.SetStatus(tracker.StatusFetching)
}

func (mw *MainWindow) onBrowseSound() {
	dialog := gtk.NewFileChooserNative(
		"Select Athan sound",
		&mw.window.Window,
		gtk.FileChooserActionOpen,
		"Open",
		"Cancel",
	)

	filter := gtk.NewFileFilter()
	filter.SetName("Audio files (*.mp3, *.wav)")
	filter.AddPattern("*.mp3")
	filter.AddPattern("*.wav")
	dialog.AddFilter(filter)

	dialog.ConnectResponse(func(responseID int) {
		defer dialog.Destroy()
		if responseID != int(gtk.ResponseAccept) {
			return
		}
		file := dialog.File()
		if file == nil {
			return
		}
		mw.selectSound(file.Path())
	})

	dialog.Show()
}

func (mw *MainWindow) selectSound(path string) {
	if mw.app.tracker != nil {
		if err := mw.app.tracker.SetSoundFile(path); err != nil {
			mw.showError("Unsupported file", err.Error())
			return
		}
	}

	mw.app.config.SoundFile = path
	if err := mw.app.config.Save(); err != nil {
		common.LogWarn("Could not save sound selection: %v", err)
	}
	mw.soundLabel.SetText(soundDisplayName(path))
	mw.SetStatus("Athan sound selected")
}

func soundDisplayName(path string) string {
	if path == "" {
		return noSoundLabel
	}
	return filepath.Base(path)
}

func (mw *MainWindow) onHistory() {
	if mw.app.history == nil {
		mw.showInfo("Alert History", "History is not available.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	alerts, err := mw.app.history.RecentAlerts(ctx, 30)
	if err != nil {
		mw.showError("Alert History", err.Error())
		return
	}
	if len(alerts) == 0 {
		mw.showInfo("Alert History", "No prayer alerts yet.")
		return
	}

	var b strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&b, "%s  %-8s %s  %s\n", a.Day, a.Prayer, a.FiredAt.Format("15:04"), a.City)
	}

	window := gtk.NewWindow()
	window.SetTitle("Alert History")
	window.SetTransientFor(&mw.window.Window)
	window.SetModal(true)
	window.SetDefaultSize(360, 400)

	scrolled := gtk.NewScrolledWindow()
	scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)

	label := gtk.NewLabel(strings.TrimRight(b.String(), "\n"))
	label.AddCSSClass("history-list")
	label.SetXAlign(0)
	label.SetYAlign(0)
	label.SetSelectable(true)
	label.SetMarginTop(12)
	label.SetMarginBottom(12)
	label.SetMarginStart(12)
	label.SetMarginEnd(12)
	scrolled.SetChild(label)

	window.SetChild(scrolled)
	window.Show()
}

func (mw *MainWindow) onAbout() {
	about := gtk.NewAboutDialog()
	about.SetTransientFor(&mw.window.Window)
	about.SetModal(true)

	about.SetProgramName(common.AppName)
	about.SetLogoIconName("prayer-times")
	about.SetVersion(mw.app.version)
	about.SetComments("Daily prayer times with a countdown and athan alerts.\nPrayer times provided by the Aladhan API.")
	about.SetWebsite("https://github.com/yllada/prayer-times")
	about.SetWebsiteLabel("GitHub Repository")
	about.SetCopyright("© 2026 Yadian Llada Lopez")
	about.SetLicenseType(gtk.LicenseMITX11)
	about.SetAuthors([]string{"Yadian Llada Lopez <yadian@y3lcorp.com>"})

	about.Show()
}

// showError displays an error dialog.
func (mw *MainWindow) showError(title, message string) {
	mw.showMessage(title, message, "dialog-error-symbolic")
}

// showInfo displays an information dialog.
func (mw *MainWindow) showInfo(title, message string) {
	mw.showMessage(title, message, "dialog-information-symbolic")
}

func (mw *MainWindow) showMessage(title, message, iconName string) {
	window := gtk.NewWindow()
	window.SetTitle(title)
	window.SetTransientFor(&mw.window.Window)
	window.SetModal(true)
	window.SetDefaultSize(350, 150)
	window.SetResizable(false)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 12)
	mainBox.SetMarginTop(24)
	mainBox.SetMarginBottom(24)
	mainBox.SetMarginStart(24)
	mainBox.SetMarginEnd(24)
	mainBox.SetHAlign(gtk.AlignCenter)

	icon := gtk.NewImage()
	icon.SetFromIconName(iconName)
	icon.SetPixelSize(48)
	mainBox.Append(icon)

	titleLabel := gtk.NewLabel(title)
	titleLabel.AddCSSClass("heading")
	mainBox.Append(titleLabel)

	msgLabel := gtk.NewLabel(message)
	msgLabel.SetWrap(true)
	msgLabel.SetMaxWidthChars(40)
	mainBox.Append(msgLabel)

	okBtn := gtk.NewButtonWithLabel("OK")
	okBtn.SetHAlign(gtk.AlignCenter)
	okBtn.SetMarginTop(12)
	okBtn.ConnectClicked(func() {
		window.Close()
	})
	mainBox.Append(okBtn)

	window.SetChild(mainBox)
	window.Show()
}
