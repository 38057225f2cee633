//go:build darwin

package hotkey

import "golang.design/x/hotkey"

const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.ModOption
	modSuper = hotkey.ModCmd
)
