package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Parse converts an accelerator string like "ctrl+alt+space" into the
// modifier set and key expected by the platform hotkey registration.
// The last segment is the key, everything before it a modifier.
func Parse(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(accel, "+")
	if len(parts) == 0 || strings.TrimSpace(parts[len(parts)-1]) == "" {
		return nil, 0, fmt.Errorf("invalid accelerator %q", accel)
	}

	var mods []hotkey.Modifier
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ctrl", "control":
			mods = append(mods, modCtrl)
		case "shift":
			mods = append(mods, modShift)
		case "alt", "option", "opt":
			mods = append(mods, modAlt)
		case "cmd", "super", "win", "meta":
			mods = append(mods, modSuper)
		default:
			return nil, 0, fmt.Errorf("unknown modifier %q in %q", part, accel)
		}
	}

	name := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	key, ok := keyNames[name]
	if !ok {
		return nil, 0, fmt.Errorf("unknown key %q in %q", name, accel)
	}

	return mods, key, nil
}

var keyNames = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"tab":    hotkey.KeyTab,
	"esc":    hotkey.KeyEscape,
	"escape": hotkey.KeyEscape,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,

	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}
