package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gemtype/gemtype/internal/capture"
	"github.com/gemtype/gemtype/internal/config"
	"github.com/gemtype/gemtype/internal/gemini"
	"github.com/gemtype/gemtype/internal/hotkey"
	"github.com/gemtype/gemtype/internal/inject"
	"github.com/gemtype/gemtype/internal/notify"
	"github.com/rs/zerolog"
)

const requestTimeout = 60 * time.Second

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetProcessing()
	SetError()
}

type Config struct {
	Reader        capture.Reader
	Generator     gemini.Generator
	Injector      inject.Injector
	Hotkeys       hotkey.Manager
	Notifier      notify.Notifier
	Config        *config.Config
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
}

// App is the trigger handler: hotkey → read prompt → Gemini → inject
// the response at the cursor. Exactly one trigger chain runs at a time;
// triggers arriving while one is in flight are dropped.
type App struct {
	reader   capture.Reader
	gen      gemini.Generator
	inj      inject.Injector
	hk       hotkey.Manager
	cfg      *config.Config
	log      zerolog.Logger
	notifier notify.Notifier
	status   StatusUpdater

	mu   sync.Mutex
	busy bool
}

func New(cfg Config) *App {
	return &App{
		reader:   cfg.Reader,
		gen:      cfg.Generator,
		inj:      cfg.Injector,
		hk:       cfg.Hotkeys,
		cfg:      cfg.Config,
		log:      cfg.Logger,
		notifier: cfg.Notifier,
		status:   cfg.StatusUpdater,
	}
}

// Start registers the configured global hotkey.
func (a *App) Start() error {
	return a.hk.Register(a.cfg.Hotkey, a.OnHotkey)
}

// OnHotkey runs one trigger chain. It is also wired to the tray's
// manual "Ask Gemini" item.
func (a *App) OnHotkey() {
	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		a.log.Debug().Msg("Trigger dropped, request already in flight")
		return
	}
	a.busy = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()
	}()

	a.trigger(context.Background())
}

func (a *App) trigger(ctx context.Context) {
	if a.status != nil {
		a.status.SetProcessing()
	}

	prompt, err := a.reader.Read(ctx)
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to read prompt")
		a.notifier.Error("GemType", "Could not read the clipboard")
		a.setIdle()
		return
	}
	if prompt == "" {
		a.log.Info().Msg("Clipboard is empty, nothing to do")
		a.notifier.Info("GemType", "Clipboard is empty")
		a.setIdle()
		return
	}

	if strings.TrimSpace(a.cfg.APIKey) == "" {
		a.log.Error().Msg("API key not set")
		a.notifier.Error("GemType", "Gemini API key not set. Set GEMINI_API_KEY or edit the config.")
		a.setError()
		return
	}

	a.log.Info().Int("prompt_len", len(prompt)).Msg("Sending prompt to Gemini")

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	response, err := a.gen.Generate(reqCtx, prompt)
	if err != nil {
		a.log.Error().Err(err).Msg("Gemini request failed")
		switch {
		case errors.Is(err, gemini.ErrMissingAPIKey):
			a.notifier.Error("GemType", "Gemini API key is missing or invalid")
		case errors.Is(err, gemini.ErrEmptyResponse):
			a.notifier.Error("GemType", "Gemini returned an empty response")
		default:
			a.notifier.Error("GemType", "Gemini request failed: "+err.Error())
		}
		a.setError()
		return
	}

	if err := a.inj.PasteOrType(ctx, response); err != nil {
		a.log.Error().Err(err).Msg("Failed to inject response")
		a.notifier.Error("GemType", "Could not type the response at the cursor")
		a.setError()
		return
	}

	a.log.Info().Int("response_len", len(response)).Msg("Response injected")
	a.setIdle()
}

// SetHotkey re-registers the global hotkey and persists it. The old
// binding stays active if the new one fails to register.
func (a *App) SetHotkey(accel string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if accel == a.cfg.Hotkey {
		return nil
	}

	if err := a.hk.Register(accel, a.OnHotkey); err != nil {
		return err
	}

	old := a.cfg.Hotkey
	a.cfg.Hotkey = accel
	a.log.Info().Str("from", old).Str("to", accel).Msg("Changed hotkey")
	return a.cfg.Save()
}

// SetModel persists a new Gemini model name; the adapter picks it up
// on the next request.
func (a *App) SetModel(model string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	old := a.cfg.Model
	a.cfg.Model = model
	a.log.Info().Str("from", old).Str("to", model).Msg("Changed model")
	return a.cfg.Save()
}

// SetTheme persists the tray glyph palette selection.
func (a *App) SetTheme(theme string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch theme {
	case config.ThemeSystem, config.ThemeLight, config.ThemeDark:
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}

	old := a.cfg.Theme
	a.cfg.Theme = theme
	a.log.Info().Str("from", old).Str("to", theme).Msg("Changed theme")
	return a.cfg.Save()
}

// SetCaptureSelection persists whether triggers copy the current
// selection instead of reading the clipboard.
func (a *App) SetCaptureSelection(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.CaptureSelection = enabled
	a.log.Info().Bool("enabled", enabled).Msg("Changed selection capture")
	return a.cfg.Save()
}

// SetPreferPaste persists whether responses are pasted rather than
// typed keystroke by keystroke.
func (a *App) SetPreferPaste(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.PreferPaste = enabled
	a.log.Info().Bool("enabled", enabled).Msg("Changed prefer paste")
	return a.cfg.Save()
}

// SetNotifications persists whether notifications are shown.
func (a *App) SetNotifications(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.ShowNotifications = enabled
	a.log.Info().Bool("enabled", enabled).Msg("Changed notifications")
	return a.cfg.Save()
}

// SetAutoStart persists the run-at-login flag. The caller is
// responsible for updating the login item itself.
func (a *App) SetAutoStart(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.AutoStart = enabled
	a.log.Info().Bool("enabled", enabled).Msg("Changed start at login")
	return a.cfg.Save()
}

// TestAPIKey fires a trivial request to validate the configured key.
func (a *App) TestAPIKey(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return a.gen.TestConnection(reqCtx)
}

// Theme returns the persisted theme selection.
func (a *App) Theme() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Theme
}

// IsBusy reports whether a trigger chain is currently running.
func (a *App) IsBusy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.hk.Unregister()
}

func (a *App) setIdle() {
	if a.status != nil {
		a.status.SetIdle()
	}
}

func (a *App) setError() {
	if a.status != nil {
		a.status.SetError()
	}
}
