//go:build linux

package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

// Enable writes an XDG autostart entry for the current executable.
func Enable() error {
	exe, err := execPath()
	if err != nil {
		return err
	}

	path := entryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(desktopEntry(exe)), 0644)
}

// Disable removes the autostart entry if present.
func Disable() error {
	err := os.Remove(entryPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Enabled reports whether the autostart entry exists.
func Enabled() bool {
	_, err := os.Stat(entryPath())
	return err == nil
}

func entryPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = os.Getenv("HOME") + "/.config"
	}
	return filepath.Join(base, "autostart", "gemtype.desktop")
}

func desktopEntry(exe string) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Comment=AI text assistant in the system tray
X-GNOME-Autostart-enabled=true
`, appName, exe)
}
