package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gemtype/gemtype/internal/config"
	"github.com/gemtype/gemtype/internal/gemini"
	"github.com/rs/zerolog"
)

// Mock implementations for testing

type mockReader struct {
	text string
	err  error
}

func (m *mockReader) Read(ctx context.Context) (string, error) {
	return m.text, m.err
}

type mockGenerator struct {
	mu      sync.Mutex
	resp    string
	err     error
	calls   int
	prompts []string
	block   chan struct{} // when non-nil, Generate waits on it
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	return m.resp, m.err
}

func (m *mockGenerator) TestConnection(ctx context.Context) error {
	return m.err
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockInjector struct {
	mu       sync.Mutex
	injected []string
	err      error
}

func (m *mockInjector) Paste(ctx context.Context, text string) error {
	return m.PasteOrType(ctx, text)
}

func (m *mockInjector) Type(ctx context.Context, text string) error {
	return m.PasteOrType(ctx, text)
}

func (m *mockInjector) PasteOrType(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.injected = append(m.injected, text)
	return nil
}

func (m *mockInjector) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.injected...)
}

type mockNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockNotifier) Info(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, message)
}

func (m *mockNotifier) Error(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, message)
}

func (m *mockNotifier) errorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

type mockHotkeys struct {
	registered []string
	failOn     string
}

func (m *mockHotkeys) Register(accel string, callback func()) error {
	if accel == m.failOn {
		return errors.New("registration refused")
	}
	m.registered = append(m.registered, accel)
	return nil
}

func (m *mockHotkeys) Unregister() error { return nil }
func (m *mockHotkeys) Close() error      { return nil }

func newTestApp(t *testing.T, reader *mockReader, gen *mockGenerator, inj *mockInjector, notifier *mockNotifier, hk *mockHotkeys, cfg *config.Config) *App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if cfg == nil {
		cfg = &config.Config{
			APIKey: "test-key",
			Hotkey: config.DefaultHotkey,
			Model:  config.DefaultModel,
		}
	}
	if hk == nil {
		hk = &mockHotkeys{}
	}

	return New(Config{
		Reader:    reader,
		Generator: gen,
		Injector:  inj,
		Hotkeys:   hk,
		Notifier:  notifier,
		Config:    cfg,
		Logger:    zerolog.Nop(),
	})
}

func TestEmptyClipboardSkipsRequest(t *testing.T) {
	gen := &mockGenerator{resp: "should not be called"}
	inj := &mockInjector{}
	app := newTestApp(t, &mockReader{text: ""}, gen, inj, &mockNotifier{}, nil, nil)

	app.OnHotkey()

	if gen.callCount() != 0 {
		t.Errorf("expected no AI call for empty clipboard, got %d", gen.callCount())
	}
	if len(inj.texts()) != 0 {
		t.Errorf("expected no injection for empty clipboard, got %v", inj.texts())
	}
}

func TestResponseInjectedVerbatim(t *testing.T) {
	gen := &mockGenerator{resp: "Hello"}
	inj := &mockInjector{}
	app := newTestApp(t, &mockReader{text: "say hello"}, gen, inj, &mockNotifier{}, nil, nil)

	app.OnHotkey()

	got := inj.texts()
	if len(got) != 1 || got[0] != "Hello" {
		t.Errorf("expected exactly [\"Hello\"] injected, got %v", got)
	}
	if gen.callCount() != 1 {
		t.Errorf("expected one AI call, got %d", gen.callCount())
	}
}

func TestGeneratorErrorNotifies(t *testing.T) {
	gen := &mockGenerator{err: errors.New("network down")}
	inj := &mockInjector{}
	notifier := &mockNotifier{}
	app := newTestApp(t, &mockReader{text: "prompt"}, gen, inj, notifier, nil, nil)

	app.OnHotkey()

	if notifier.errorCount() != 1 {
		t.Errorf("expected one error notification, got %d", notifier.errorCount())
	}
	if len(inj.texts()) != 0 {
		t.Errorf("expected no injection on generator error, got %v", inj.texts())
	}
}

func TestMissingAPIKeyShortCircuits(t *testing.T) {
	gen := &mockGenerator{resp: "never"}
	inj := &mockInjector{}
	notifier := &mockNotifier{}
	cfg := &config.Config{APIKey: "", Hotkey: config.DefaultHotkey, Model: config.DefaultModel}
	app := newTestApp(t, &mockReader{text: "prompt"}, gen, inj, notifier, nil, cfg)

	app.OnHotkey()

	if gen.callCount() != 0 {
		t.Errorf("expected no AI call without API key, got %d", gen.callCount())
	}
	if notifier.errorCount() != 1 {
		t.Errorf("expected one error notification, got %d", notifier.errorCount())
	}
	if len(inj.texts()) != 0 {
		t.Errorf("expected no injection without API key, got %v", inj.texts())
	}
}

func TestMissingKeyErrorFromGeneratorNotifies(t *testing.T) {
	// A key can pass the local check but still be rejected downstream.
	gen := &mockGenerator{err: gemini.ErrMissingAPIKey}
	inj := &mockInjector{}
	notifier := &mockNotifier{}
	app := newTestApp(t, &mockReader{text: "prompt"}, gen, inj, notifier, nil, nil)

	app.OnHotkey()

	if notifier.errorCount() != 1 {
		t.Errorf("expected one error notification, got %d", notifier.errorCount())
	}
	if len(inj.texts()) != 0 {
		t.Errorf("expected no injection, got %v", inj.texts())
	}
}

func TestInjectorErrorNotifies(t *testing.T) {
	gen := &mockGenerator{resp: "Hello"}
	inj := &mockInjector{err: errors.New("no display")}
	notifier := &mockNotifier{}
	app := newTestApp(t, &mockReader{text: "prompt"}, gen, inj, notifier, nil, nil)

	app.OnHotkey()

	if notifier.errorCount() != 1 {
		t.Errorf("expected one error notification, got %d", notifier.errorCount())
	}
}

func TestOverlappingTriggerDropped(t *testing.T) {
	release := make(chan struct{})
	gen := &mockGenerator{resp: "Hello", block: release}
	inj := &mockInjector{}
	app := newTestApp(t, &mockReader{text: "prompt"}, gen, inj, &mockNotifier{}, nil, nil)

	done := make(chan struct{})
	go func() {
		app.OnHotkey()
		close(done)
	}()

	// Wait for the first trigger to reach the generator.
	for i := 0; i < 100; i++ {
		if gen.callCount() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if gen.callCount() != 1 {
		t.Fatal("first trigger never reached the generator")
	}

	// Second trigger while the first is in flight must be dropped.
	app.OnHotkey()
	if gen.callCount() != 1 {
		t.Errorf("expected overlapping trigger to be dropped, got %d calls", gen.callCount())
	}

	close(release)
	<-done

	if got := inj.texts(); len(got) != 1 {
		t.Errorf("expected a single injection, got %v", got)
	}
}

func TestSetHotkeyReRegisters(t *testing.T) {
	hk := &mockHotkeys{}
	cfg := &config.Config{APIKey: "k", Hotkey: config.DefaultHotkey, Model: config.DefaultModel}
	app := newTestApp(t, &mockReader{}, &mockGenerator{}, &mockInjector{}, &mockNotifier{}, hk, cfg)

	if err := app.SetHotkey("ctrl+alt+g"); err != nil {
		t.Fatalf("SetHotkey: %v", err)
	}

	if len(hk.registered) != 1 || hk.registered[0] != "ctrl+alt+g" {
		t.Errorf("expected new combination registered, got %v", hk.registered)
	}
	if cfg.Hotkey != "ctrl+alt+g" {
		t.Errorf("expected config updated, got %q", cfg.Hotkey)
	}
}

func TestSetHotkeyKeepsOldOnFailure(t *testing.T) {
	hk := &mockHotkeys{failOn: "ctrl+alt+g"}
	cfg := &config.Config{APIKey: "k", Hotkey: config.DefaultHotkey, Model: config.DefaultModel}
	app := newTestApp(t, &mockReader{}, &mockGenerator{}, &mockInjector{}, &mockNotifier{}, hk, cfg)

	if err := app.SetHotkey("ctrl+alt+g"); err == nil {
		t.Fatal("expected error from refused registration")
	}

	if cfg.Hotkey != config.DefaultHotkey {
		t.Errorf("expected config unchanged on failure, got %q", cfg.Hotkey)
	}
	if len(hk.registered) != 0 {
		t.Errorf("expected no registration recorded, got %v", hk.registered)
	}
}

func TestSetThemeValidates(t *testing.T) {
	cfg := &config.Config{APIKey: "k", Hotkey: config.DefaultHotkey, Model: config.DefaultModel, Theme: config.ThemeSystem}
	app := newTestApp(t, &mockReader{}, &mockGenerator{}, &mockInjector{}, &mockNotifier{}, nil, cfg)

	if err := app.SetTheme(config.ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if cfg.Theme != config.ThemeDark {
		t.Errorf("expected theme %q, got %q", config.ThemeDark, cfg.Theme)
	}
	if got := app.Theme(); got != config.ThemeDark {
		t.Errorf("Theme() = %q, want %q", got, config.ThemeDark)
	}

	if err := app.SetTheme("sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
	if cfg.Theme != config.ThemeDark {
		t.Errorf("expected theme unchanged after rejected value, got %q", cfg.Theme)
	}
}

func TestSetTogglesPersist(t *testing.T) {
	cfg := &config.Config{APIKey: "k", Hotkey: config.DefaultHotkey, Model: config.DefaultModel}
	app := newTestApp(t, &mockReader{}, &mockGenerator{}, &mockInjector{}, &mockNotifier{}, nil, cfg)

	if err := app.SetCaptureSelection(true); err != nil {
		t.Fatalf("SetCaptureSelection: %v", err)
	}
	if err := app.SetPreferPaste(true); err != nil {
		t.Fatalf("SetPreferPaste: %v", err)
	}
	if err := app.SetNotifications(true); err != nil {
		t.Fatalf("SetNotifications: %v", err)
	}
	if err := app.SetAutoStart(true); err != nil {
		t.Fatalf("SetAutoStart: %v", err)
	}

	if !cfg.CaptureSelection || !cfg.PreferPaste || !cfg.ShowNotifications || !cfg.AutoStart {
		t.Errorf("expected all toggles set, got %+v", cfg)
	}

	if err := app.SetCaptureSelection(false); err != nil {
		t.Fatalf("SetCaptureSelection: %v", err)
	}
	if cfg.CaptureSelection {
		t.Error("expected selection capture off again")
	}
}

func TestSettingChangeDuringInFlightTrigger(t *testing.T) {
	release := make(chan struct{})
	gen := &mockGenerator{resp: "Hello", block: release}
	inj := &mockInjector{}
	cfg := &config.Config{APIKey: "k", Hotkey: config.DefaultHotkey, Model: config.DefaultModel, Theme: config.ThemeSystem}
	app := newTestApp(t, &mockReader{text: "prompt"}, gen, inj, &mockNotifier{}, nil, cfg)

	done := make(chan struct{})
	go func() {
		app.OnHotkey()
		close(done)
	}()

	for i := 0; i < 100; i++ {
		if gen.callCount() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if gen.callCount() != 1 {
		t.Fatal("trigger never reached the generator")
	}

	// Settings changed from the tray must land while the request is
	// still in flight, without disturbing it.
	if err := app.SetTheme(config.ThemeLight); err != nil {
		t.Fatalf("SetTheme mid-trigger: %v", err)
	}
	if err := app.SetPreferPaste(true); err != nil {
		t.Fatalf("SetPreferPaste mid-trigger: %v", err)
	}

	close(release)
	<-done

	if got := inj.texts(); len(got) != 1 || got[0] != "Hello" {
		t.Errorf("expected [\"Hello\"] injected, got %v", got)
	}
	if cfg.Theme != config.ThemeLight || !cfg.PreferPaste {
		t.Errorf("expected settings persisted, got theme=%q preferPaste=%v", cfg.Theme, cfg.PreferPaste)
	}
}

func TestSetHotkeySameCombinationIsNoop(t *testing.T) {
	hk := &mockHotkeys{}
	cfg := &config.Config{APIKey: "k", Hotkey: config.DefaultHotkey, Model: config.DefaultModel}
	app := newTestApp(t, &mockReader{}, &mockGenerator{}, &mockInjector{}, &mockNotifier{}, hk, cfg)

	if err := app.SetHotkey(config.DefaultHotkey); err != nil {
		t.Fatalf("SetHotkey: %v", err)
	}
	if len(hk.registered) != 0 {
		t.Errorf("expected no re-registration for the same combination, got %v", hk.registered)
	}
}
