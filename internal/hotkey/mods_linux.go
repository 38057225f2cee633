//go:build linux

package hotkey

import "golang.design/x/hotkey"

const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.Mod1
	modSuper = hotkey.Mod4
)
