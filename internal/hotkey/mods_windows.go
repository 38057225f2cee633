//go:build windows

package hotkey

import "golang.design/x/hotkey"

const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.ModAlt
	modSuper = hotkey.ModWin
)
