package athan

import (
	"fmt"
	"os/exec"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/prayer-times/common"
)

const (
	notifyDest      = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyIcon      = "appointment-soon"
	notifyTimeoutMs = int32(15000)
)

// DesktopNotifier shows desktop notifications over the session bus and
// falls back to notify-send when the bus is unavailable.
type DesktopNotifier struct {
	appName string
	// busNotify and runCommand are swapped in tests.
	busNotify  func(appName, icon, title, body string) error
	runCommand func(name string, args ...string) error
	logger     common.Logger
}

// NewDesktopNotifier creates a notifier for the application.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{
		appName:    common.AppName,
		busNotify:  dbusNotify,
		runCommand: func(name string, args ...string) error { return exec.Command(name, args...).Run() },
		logger:     common.Component("notify"),
	}
}

// Notify implements common.Notifier.
func (n *DesktopNotifier) Notify(title, message string) error {
	err := n.busNotify(n.appName, notifyIcon, title, message)
	if err == nil {
		return nil
	}
	n.logger.Debug("dbus notification failed, trying notify-send: %v", err)

	if err := n.runCommand("notify-send",
		"--app-name="+n.appName,
		"--icon="+notifyIcon,
		"--urgency=critical",
		title,
		message,
	); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}

func dbusNotify(appName, icon, title, body string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(2)),
	}
	call := conn.Object(notifyDest, dbus.ObjectPath(notifyPath)).Call(
		notifyMethod, 0,
		appName,
		uint32(0),
		icon,
		title,
		body,
		[]string{},
		hints,
		notifyTimeoutMs,
	)
	return call.Err
}
