package ui

import (
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Theme-aware styles; colors derive from currentColor where possible so
// both dark and light system themes work.
const appCSS = `
/* Header */
.app-title {
    font-weight: 700;
    font-size: 15px;
}

.app-subtitle {
    font-size: 11px;
}

/* Cards */
.section-card {
    border-radius: 12px;
    border: 1px solid alpha(currentColor, 0.15);
}

/* Countdown */
.next-label {
    font-size: 18px;
    font-weight: 600;
    color: #3584e4;
}

.countdown {
    font-family: monospace;
    font-size: 40px;
    font-weight: 700;
    letter-spacing: 2px;
}

/* Schedule rows */
.prayer-row {
    border-radius: 8px;
    padding: 8px 12px;
    border: 1px solid alpha(currentColor, 0.08);
}

.prayer-row.next {
    border-left: 4px solid #2ec27e;
    background-color: alpha(#2ec27e, 0.12);
}

.prayer-row.next .prayer-name,
.prayer-row.next .prayer-time {
    font-weight: 700;
}

.prayer-name {
    font-size: 14px;
}

.prayer-time {
    font-family: monospace;
    font-size: 14px;
}

/* Athan dialog */
.athan-message {
    font-size: 18px;
    font-weight: 700;
    color: #2ec27e;
}

/* History */
.history-list {
    font-family: monospace;
}

/* Status bar */
.status-bar {
    padding: 6px 12px;
    font-size: 12px;
    border-top: 1px solid alpha(currentColor, 0.1);
    background-color: alpha(currentColor, 0.03);
}

/* Preferences */
.preferences-card {
    border-radius: 12px;
}

.settings-title {
    font-weight: 600;
}

.dialog-button {
    min-width: 90px;
}

/* Flat button */
button.flat {
    background-color: transparent;
}

button.flat:hover {
    background-color: alpha(currentColor, 0.1);
}
`

// LoadStyles loads the custom CSS styles for the application.
// Should be called during application startup.
func LoadStyles() {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(appCSS)

	gtk.StyleContextAddProviderForDisplay(
		display,
		provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}
