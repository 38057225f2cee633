//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import "fmt"

// CheckAccessibility checks if the app has accessibility permissions
// (needed for global hotkeys and synthetic keystrokes)
func CheckAccessibility() (bool, error) {
	status := int(C.checkAccessibilityPermission())
	return status == 1, nil
}

// EnsurePermissions checks and requests all required permissions
func EnsurePermissions() error {
	axGranted, _ := CheckAccessibility()
	if !axGranted {
		fmt.Println("⚠️  Accessibility permission required for hotkeys and typing")
		fmt.Println("   Go to: System Settings → Privacy & Security → Accessibility")
		return fmt.Errorf("accessibility permission not granted")
	}

	return nil
}
