package inject

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gemtype/gemtype/internal/config"
	"github.com/micmonay/keybd_event"
)

const typeDelay = 10 * time.Millisecond

type pasteInjector struct {
	cfg *config.Config
}

// New creates a new text injector
func New(cfg *config.Config) Injector {
	return &pasteInjector{cfg: cfg}
}

// Paste injects text through the clipboard: save the current contents,
// write the text, send the paste shortcut, then restore the clipboard
// unless the user changed it in the meantime.
func (p *pasteInjector) Paste(ctx context.Context, text string) error {
	oldClip, err := clipboard.ReadAll()
	if err != nil {
		oldClip = "" // If clipboard read fails, proceed anyway
	}

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}

	// Small delay to ensure clipboard is set
	time.Sleep(50 * time.Millisecond)

	if err := sendPasteShortcut(); err != nil {
		return fmt.Errorf("sending paste shortcut: %w", err)
	}

	// Wait a bit for paste to complete
	time.Sleep(100 * time.Millisecond)

	// Restore old clipboard (best effort)
	currentClip, _ := clipboard.ReadAll()
	if currentClip == text {
		clipboard.WriteAll(oldClip)
	}

	return nil
}

// Type injects text one synthetic keystroke at a time. Runes outside
// the US-layout keymap make it fail; PasteOrType covers those via the
// clipboard path.
func (p *pasteInjector) Type(ctx context.Context, text string) error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return fmt.Errorf("creating key bonding: %w", err)
	}

	for _, r := range text {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s, ok := strokeFor(r)
		if !ok {
			return fmt.Errorf("no keystroke mapping for %q", r)
		}

		kb.Clear()
		kb.SetKeys(s.code)
		kb.HasSHIFT(s.shift)
		if err := kb.Launching(); err != nil {
			return fmt.Errorf("typing %q: %w", r, err)
		}

		time.Sleep(typeDelay)
	}

	return nil
}

// PasteOrType tries paste first, falls back to type if needed
func (p *pasteInjector) PasteOrType(ctx context.Context, text string) error {
	if p.cfg.PreferPaste {
		if err := p.Paste(ctx, text); err == nil {
			return nil
		}
	}
	return p.Type(ctx, text)
}

func sendPasteShortcut() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}

	kb.SetKeys(keybd_event.VK_V)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}

	return kb.Launching()
}
