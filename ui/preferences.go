package ui

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/config"
)

// PreferencesDialog represents the preferences dialog.
type PreferencesDialog struct {
	window         *gtk.Window
	mainWindow     *MainWindow
	config         *config.Config
	minimizeSwitch *gtk.Switch
	notifySwitch   *gtk.Switch
	cityTZSwitch   *gtk.Switch
	catchUpSpin    *gtk.SpinButton
	themeDropDown  *gtk.DropDown
	themeIDs       []string
}

// NewPreferencesDialog creates a new preferences dialog.
func NewPreferencesDialog(mainWindow *MainWindow) *PreferencesDialog {
	pd := &PreferencesDialog{
		mainWindow: mainWindow,
		config:     mainWindow.app.config,
	}

	pd.build()
	return pd
}

func (pd *PreferencesDialog) build() {
	pd.window = gtk.NewWindow()
	pd.window.SetTitle("Settings")
	pd.window.SetTransientFor(&pd.mainWindow.window.Window)
	pd.window.SetModal(true)
	pd.window.SetDefaultSize(460, 520)
	pd.window.SetResizable(false)

	rootBox := gtk.NewBox(gtk.OrientationVertical, 0)

	scrolled := gtk.NewScrolledWindow()
	scrolled.SetVExpand(true)
	scrolled.SetPolicy(gtk.PolicyNever, gtk.PolicyAutomatic)

	mainBox := gtk.NewBox(gtk.OrientationVertical, 20)
	mainBox.SetMarginTop(24)
	mainBox.SetMarginBottom(16)
	mainBox.SetMarginStart(24)
	mainBox.SetMarginEnd(24)

	// Behaviour
	behaviourSection := pd.createSection("Behaviour", "preferences-system-symbolic")
	behaviourCard := pd.createCard()

	pd.minimizeSwitch = gtk.NewSwitch()
	pd.minimizeSwitch.SetActive(pd.config.MinimizeToTray)
	pd.minimizeSwitch.SetVAlign(gtk.AlignCenter)
	behaviourCard.Append(pd.createSettingRow(
		"Minimize to Tray",
		"Keep counting down in the tray when the window is closed",
		pd.minimizeSwitch,
	))
	behaviourCard.Append(pd.createSeparator())

	pd.cityTZSwitch = gtk.NewSwitch()
	pd.cityTZSwitch.SetActive(pd.config.UseCityTimezone)
	pd.cityTZSwitch.SetVAlign(gtk.AlignCenter)
	behaviourCard.Append(pd.createSettingRow(
		"Use City Timezone",
		"Count down on the selected city's clock instead of this computer's",
		pd.cityTZSwitch,
	))

	behaviourSection.Append(behaviourCard)
	mainBox.Append(behaviourSection)

	// Alerts
	alertSection := pd.createSection("Alerts", "preferences-system-notifications-symbolic")
	alertCard := pd.createCard()

	pd.notifySwitch = gtk.NewSwitch()
	pd.notifySwitch.SetActive(pd.config.ShowNotifications)
	pd.notifySwitch.SetVAlign(gtk.AlignCenter)
	alertCard.Append(pd.createSettingRow(
		"Desktop Notifications",
		"Show a notification when a prayer time arrives",
		pd.notifySwitch,
	))
	alertCard.Append(pd.createSeparator())

	pd.catchUpSpin = gtk.NewSpinButtonWithRange(0, 600, 10)
	pd.catchUpSpin.SetValue(float64(pd.config.CatchUpSeconds))
	pd.catchUpSpin.SetVAlign(gtk.AlignCenter)
	alertCard.Append(pd.createSettingRow(
		"Late Alert Window (seconds)",
		"Still play the athan if the computer wakes up this long after prayer time",
		pd.catchUpSpin,
	))

	alertSection.Append(alertCard)
	mainBox.Append(alertSection)

	// Appearance
	appearSection := pd.createSection("Appearance", "preferences-desktop-theme-symbolic")
	appearCard := pd.createCard()

	pd.themeIDs = []string{common.ThemeAuto, common.ThemeLight, common.ThemeDark}
	themeModel := gtk.NewStringList([]string{"System Default", "Light", "Dark"})
	pd.themeDropDown = gtk.NewDropDown(themeModel, nil)
	pd.themeDropDown.SetSelected(pd.findThemeIndex(pd.config.Theme))
	pd.themeDropDown.SetVAlign(gtk.AlignCenter)
	pd.themeDropDown.AddCSSClass("flat")
	appearCard.Append(pd.createSettingRow(
		"Theme",
		"Choose the visual appearance of the application",
		pd.themeDropDown,
	))

	appearSection.Append(appearCard)
	mainBox.Append(appearSection)

	scrolled.SetChild(mainBox)
	rootBox.Append(scrolled)

	buttonBar := gtk.NewBox(gtk.OrientationHorizontal, 12)
	buttonBar.SetHAlign(gtk.AlignEnd)
	buttonBar.SetMarginTop(16)
	buttonBar.SetMarginBottom(20)
	buttonBar.SetMarginStart(24)
	buttonBar.SetMarginEnd(24)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.AddCSSClass("dialog-button")
	cancelBtn.ConnectClicked(func() {
		pd.window.Close()
	})
	buttonBar.Append(cancelBtn)

	saveBtn := gtk.NewButtonWithLabel("Save")
	saveBtn.AddCSSClass("suggested-action")
	saveBtn.AddCSSClass("dialog-button")
	saveBtn.ConnectClicked(func() {
		pd.savePreferences()
		pd.window.Close()
	})
	buttonBar.Append(saveBtn)

	rootBox.Append(buttonBar)
	pd.window.SetChild(rootBox)
}

func (pd *PreferencesDialog) createSection(title string, iconName string) *gtk.Box {
	section := gtk.NewBox(gtk.OrientationVertical, 8)

	headerBox := gtk.NewBox(gtk.OrientationHorizontal, 8)

	icon := gtk.NewImage()
	icon.SetFromIconName(iconName)
	icon.SetPixelSize(18)
	icon.AddCSSClass("dim-label")
	headerBox.Append(icon)

	label := gtk.NewLabel(title)
	label.SetXAlign(0)
	label.AddCSSClass("heading")
	label.AddCSSClass("dim-label")
	headerBox.Append(label)

	section.Append(headerBox)
	return section
}

func (pd *PreferencesDialog) createCard() *gtk.Box {
	card := gtk.NewBox(gtk.OrientationVertical, 0)
	card.AddCSSClass("card")
	card.AddCSSClass("preferences-card")
	return card
}

// createSettingRow creates a row with title, description, and widget.
func (pd *PreferencesDialog) createSettingRow(title string, description string, widget gtk.Widgetter) *gtk.Box {
	row := gtk.NewBox(gtk.OrientationHorizontal, 12)
	row.SetMarginTop(14)
	row.SetMarginBottom(14)
	row.SetMarginStart(16)
	row.SetMarginEnd(16)

	textBox := gtk.NewBox(gtk.OrientationVertical, 4)
	textBox.SetHExpand(true)

	titleLabel := gtk.NewLabel(title)
	titleLabel.SetXAlign(0)
	titleLabel.AddCSSClass("settings-title")
	textBox.Append(titleLabel)

	descLabel := gtk.NewLabel(description)
	descLabel.SetXAlign(0)
	descLabel.AddCSSClass("dim-label")
	descLabel.AddCSSClass("caption")
	descLabel.SetWrap(true)
	descLabel.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	textBox.Append(descLabel)

	row.Append(textBox)
	row.Append(widget)
	return row
}

func (pd *PreferencesDialog) createSeparator() *gtk.Separator {
	sep := gtk.NewSeparator(gtk.OrientationHorizontal)
	sep.SetMarginStart(16)
	sep.SetMarginEnd(16)
	return sep
}

// findThemeIndex returns the index of a theme ID, or 0 if not found.
func (pd *PreferencesDialog) findThemeIndex(themeID string) uint {
	for i, id := range pd.themeIDs {
		if id == themeID {
			return uint(i)
		}
	}
	return 0
}

// savePreferences applies what can change live and persists everything.
func (pd *PreferencesDialog) savePreferences() {
	oldCityTZ := pd.config.UseCityTimezone
	oldCatchUp := pd.config.CatchUpSeconds

	pd.config.MinimizeToTray = pd.minimizeSwitch.Active()
	pd.config.ShowNotifications = pd.notifySwitch.Active()
	pd.config.UseCityTimezone = pd.cityTZSwitch.Active()
	pd.config.CatchUpSeconds = pd.catchUpSpin.ValueAsInt()

	themeIdx := pd.themeDropDown.Selected()
	if int(themeIdx) < len(pd.themeIDs) {
		pd.config.Theme = pd.themeIDs[themeIdx]
	}

	app := pd.mainWindow.app
	app.ApplyTheme(pd.config.Theme)
	pd.mainWindow.window.SetHideOnClose(pd.config.MinimizeToTray)
	if app.alerter != nil {
		app.alerter.SetNotificationsEnabled(pd.config.ShowNotifications)
	}

	if err := pd.config.Save(); err != nil {
		pd.mainWindow.showError("Error", "Could not save preferences: "+err.Error())
		return
	}

	if oldCityTZ != pd.config.UseCityTimezone || oldCatchUp != pd.config.CatchUpSeconds {
		pd.mainWindow.showInfo("Restart Required",
			"Timezone and late alert changes apply after restarting "+common.AppName+".")
	}
	common.LogDebug("Preferences saved (catch-up %ds)", pd.config.CatchUpSeconds)
	pd.mainWindow.SetStatus("Settings saved")
}

// Show displays the preferences dialog.
func (pd *PreferencesDialog) Show() {
	pd.window.Show()
}
