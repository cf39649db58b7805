//go:build linux

package platform

import (
	"os"
	"os/exec"

	"github.com/godbus/dbus/v5"
)

// DisplayServer identifies the running Linux display server protocol.
type DisplayServer string

const (
	DisplayServerX11     DisplayServer = "x11"
	DisplayServerWayland DisplayServer = "wayland"
	DisplayServerUnknown DisplayServer = "unknown"
)

// DetectDisplayServer inspects the session environment variables Wayland
// and X11 compositors are required to set.
func DetectDisplayServer() DisplayServer {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// ToolAvailable reports whether the named executable can be found on PATH.
func ToolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// DetectDesktopEnvironment reads the session's desktop environment name,
// preferring XDG_CURRENT_DESKTOP over the legacy DESKTOP_SESSION.
func DetectDesktopEnvironment() string {
	if de := os.Getenv("XDG_CURRENT_DESKTOP"); de != "" {
		return de
	}
	if de := os.Getenv("DESKTOP_SESSION"); de != "" {
		return de
	}
	return "unknown"
}

// HasStatusNotifierWatcher reports whether a tray/notifier host is present
// on the session bus, so callers can decide whether a toast failure has a
// desktop-notification surface to fall back on.
func HasStatusNotifierWatcher() bool {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false
	}
	defer conn.Close()

	names := []string{
		"org.kde.StatusNotifierWatcher",
		"org.freedesktop.StatusNotifierWatcher",
	}
	busObj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	for _, name := range names {
		var hasOwner bool
		call := busObj.Call("org.freedesktop.DBus.NameHasOwner", 0, name)
		if call.Err == nil && call.Store(&hasOwner) == nil && hasOwner {
			return true
		}
	}
	return false
}

// Describe summarizes the detected desktop environment for diagnostic
// logging at startup.
func Describe() string {
	tray := "no-tray"
	if HasStatusNotifierWatcher() {
		tray = "tray"
	}
	return string(DetectDisplayServer()) + "/" + DetectDesktopEnvironment() + "/" + tray
}
