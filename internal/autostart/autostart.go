// Package autostart registers the application to run at login.
// Implementations are platform-specific: an XDG autostart .desktop
// entry on Linux, a LaunchAgent plist on macOS and a HKCU Run registry
// value on Windows.
package autostart

import (
	"fmt"
	"os"
)

const appName = "GemType"

// Apply enables or disables run-at-login to match the config flag.
func Apply(enabled bool) error {
	if enabled {
		return Enable()
	}
	return Disable()
}

func execPath() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolving executable path: %w", err)
	}
	return path, nil
}
