package tray

import (
	"context"
	"fmt"
	"sync"

	"github.com/gemtype/gemtype/internal/app"
	"github.com/gemtype/gemtype/internal/autostart"
	"github.com/gemtype/gemtype/internal/config"
	"github.com/gemtype/gemtype/internal/logging"
	"github.com/gemtype/gemtype/internal/notify"
	"github.com/getlantern/systray"
	"github.com/rs/zerolog"
	"github.com/skratchdot/open-golang/open"
)

var hotkeyPresets = []string{
	"ctrl+alt+space",
	"ctrl+alt+g",
	"ctrl+shift+space",
	"alt+space",
	"f9",
}

var models = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-1.5-pro",
}

var themes = []string{
	config.ThemeSystem,
	config.ThemeLight,
	config.ThemeDark,
}

type UI struct {
	app      *app.App
	cfg      *config.Config
	notifier notify.Notifier
	version  string
	commit   string
	log      zerolog.Logger

	mu         sync.Mutex
	lastStatus string

	// Menu items
	mAsk         *systray.MenuItem
	mHotkey      *systray.MenuItem
	mModel       *systray.MenuItem
	mTheme       *systray.MenuItem
	mNotify      *systray.MenuItem
	mAutoStart   *systray.MenuItem
	mSelection   *systray.MenuItem
	mPastePrefer *systray.MenuItem
}

// Status update methods for the app to call
func (u *UI) SetIdle() {
	u.updateStatus("idle")
}

func (u *UI) SetProcessing() {
	u.updateStatus("processing")
}

func (u *UI) SetError() {
	u.updateStatus("error")
}

func New(application *app.App, cfg *config.Config, notifier notify.Notifier, log zerolog.Logger, version, commit string) *UI {
	return &UI{
		app:      application,
		cfg:      cfg,
		notifier: notifier,
		version:  version,
		commit:   commit,
		log:      log,
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateStatus("idle")
	systray.SetTooltip("GemType - AI text at your cursor")

	u.mAsk = systray.AddMenuItem("Ask Gemini", "Send the clipboard to Gemini now")
	systray.AddSeparator()

	u.mHotkey = systray.AddMenuItem("Hotkey", "Choose the trigger combination")
	u.buildHotkeyMenu()

	u.mModel = systray.AddMenuItem("Model", "Select Gemini model")
	u.buildModelMenu()

	u.mTheme = systray.AddMenuItem("Theme", "Select theme")
	u.buildThemeMenu()

	systray.AddSeparator()
	u.mSelection = systray.AddMenuItemCheckbox("Use Selection", "Copy the current selection instead of the clipboard", u.cfg.CaptureSelection)
	u.mPastePrefer = systray.AddMenuItemCheckbox("Prefer Paste", "Paste the response instead of typing it", u.cfg.PreferPaste)
	u.mNotify = systray.AddMenuItemCheckbox("Show Notifications", "Notify on errors and results", u.cfg.ShowNotifications)
	u.mAutoStart = systray.AddMenuItemCheckbox("Start at Login", "Start on system boot", u.cfg.AutoStart)

	systray.AddSeparator()
	mTestKey := systray.AddMenuItem("Test API Key", "Send a test request to Gemini")
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About GemType")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mTestKey, mLogs, mAbout, mQuit)
}

func (u *UI) handleEvents(mTestKey, mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mAsk.ClickedCh:
			go u.app.OnHotkey()
		case <-u.mSelection.ClickedCh:
			u.toggleSelection()
		case <-u.mPastePrefer.ClickedCh:
			u.togglePastePrefer()
		case <-u.mNotify.ClickedCh:
			u.toggleNotifications()
		case <-u.mAutoStart.ClickedCh:
			u.toggleAutoStart()
		case <-mTestKey.ClickedCh:
			go u.testAPIKey()
		case <-mLogs.ClickedCh:
			u.openLogs()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) buildHotkeyMenu() {
	items := make(map[string]*systray.MenuItem)

	for _, preset := range hotkeyPresets {
		item := u.mHotkey.AddSubMenuItem(preset, "")
		if preset == u.cfg.Hotkey {
			item.Check()
		}
		items[preset] = item

		go func(accel string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.app.SetHotkey(accel); err != nil {
					u.log.Error().Err(err).Str("hotkey", accel).Msg("Failed to change hotkey")
					u.notifier.Error("GemType", "Could not register "+accel)
					continue
				}
				for a, itm := range items {
					if a != accel {
						itm.Uncheck()
					}
				}
				menuItem.Check()
			}
		}(preset, item)
	}
}

func (u *UI) buildModelMenu() {
	items := make(map[string]*systray.MenuItem)

	for _, model := range models {
		item := u.mModel.AddSubMenuItem(model, "")
		if model == u.cfg.Model {
			item.Check()
		}
		items[model] = item

		go func(m string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.app.SetModel(m); err != nil {
					u.log.Error().Err(err).Str("model", m).Msg("Failed to change model")
					continue
				}
				for mdl, itm := range items {
					if mdl != m {
						itm.Uncheck()
					}
				}
				menuItem.Check()
			}
		}(model, item)
	}
}

func (u *UI) buildThemeMenu() {
	items := make(map[string]*systray.MenuItem)

	for _, theme := range themes {
		item := u.mTheme.AddSubMenuItem(theme, "")
		if theme == u.cfg.Theme {
			item.Check()
		}
		items[theme] = item

		go func(t string, menuItem *systray.MenuItem) {
			for {
				<-menuItem.ClickedCh
				if err := u.app.SetTheme(t); err != nil {
					u.log.Error().Err(err).Str("theme", t).Msg("Failed to change theme")
					continue
				}
				for th, itm := range items {
					if th != t {
						itm.Uncheck()
					}
				}
				menuItem.Check()
				u.refreshStatus()
			}
		}(theme, item)
	}
}

func (u *UI) toggleSelection() {
	enabled := !u.mSelection.Checked()
	if err := u.app.SetCaptureSelection(enabled); err != nil {
		u.log.Error().Err(err).Msg("Failed to change selection capture")
		return
	}
	if enabled {
		u.mSelection.Check()
	} else {
		u.mSelection.Uncheck()
	}
}

func (u *UI) togglePastePrefer() {
	enabled := !u.mPastePrefer.Checked()
	if err := u.app.SetPreferPaste(enabled); err != nil {
		u.log.Error().Err(err).Msg("Failed to change prefer paste")
		return
	}
	if enabled {
		u.mPastePrefer.Check()
	} else {
		u.mPastePrefer.Uncheck()
	}
}

func (u *UI) toggleNotifications() {
	enabled := !u.mNotify.Checked()
	if err := u.app.SetNotifications(enabled); err != nil {
		u.log.Error().Err(err).Msg("Failed to change notifications")
		return
	}
	if enabled {
		u.mNotify.Check()
	} else {
		u.mNotify.Uncheck()
	}
}

func (u *UI) toggleAutoStart() {
	enabled := !u.mAutoStart.Checked()
	if err := autostart.Apply(enabled); err != nil {
		u.log.Error().Err(err).Msg("Failed to change login item")
		u.notifier.Error("GemType", "Could not update the login item")
		return
	}
	if err := u.app.SetAutoStart(enabled); err != nil {
		u.log.Error().Err(err).Msg("Failed to save start at login")
		return
	}
	if enabled {
		u.mAutoStart.Check()
	} else {
		u.mAutoStart.Uncheck()
	}
}

func (u *UI) testAPIKey() {
	u.updateStatus("processing")
	if err := u.app.TestAPIKey(context.Background()); err != nil {
		u.log.Error().Err(err).Msg("API key test failed")
		u.notifier.Error("GemType", "API key test failed: "+err.Error())
		u.updateStatus("error")
		return
	}
	u.notifier.Info("GemType", "API key works")
	u.updateStatus("idle")
}

func (u *UI) openLogs() {
	if err := open.Start(logging.Path()); err != nil {
		u.log.Error().Err(err).Msg("Failed to open log file")
	}
}

func (u *UI) showAbout() {
	u.notifier.Info("GemType", fmt.Sprintf("GemType %s (%s)\nGemini AI at your cursor", u.version, u.commit))
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with the app glyph and a status indicator
func (u *UI) updateStatus(status string) {
	u.mu.Lock()
	u.lastStatus = status
	u.mu.Unlock()
	systray.SetTitle(fmt.Sprintf("✨ %s", glyphForStatus(status, u.app.Theme())))
}

// refreshStatus redraws the current status, e.g. after a theme change.
func (u *UI) refreshStatus() {
	u.mu.Lock()
	status := u.lastStatus
	u.mu.Unlock()
	if status == "" {
		status = "idle"
	}
	u.updateStatus(status)
}

// glyphForStatus returns the status glyph for the selected theme. The
// idle glyph is the one that sits in the menu bar all day, so it flips
// to a dark glyph on a light tray and a light glyph on a dark tray.
func glyphForStatus(status, theme string) string {
	switch status {
	case "processing":
		return "🟡" // Yellow - waiting for Gemini
	case "error":
		return "🔴" // Red - last trigger failed
	}

	switch theme {
	case config.ThemeLight:
		return "⚫" // Dark glyph against a light tray
	case config.ThemeDark:
		return "⚪️" // Light glyph against a dark tray
	default:
		return "🟢" // Green - system theme keeps the colored glyph
	}
}
