package capture

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gemtype/gemtype/internal/config"
	"github.com/micmonay/keybd_event"
)

const (
	selectionPollInterval = 50 * time.Millisecond
	selectionPollTimeout  = time.Second
)

// Reader captures the prompt text at trigger time.
type Reader interface {
	Read(ctx context.Context) (string, error)
}

type clipboardReader struct {
	cfg *config.Config

	readAll  func() (string, error)
	writeAll func(string) error
	sendCopy func() error
}

// New creates a Reader that pulls the prompt from the clipboard, or
// from the current selection when capture_selection is enabled.
func New(cfg *config.Config) Reader {
	return &clipboardReader{
		cfg:      cfg,
		readAll:  clipboard.ReadAll,
		writeAll: clipboard.WriteAll,
		sendCopy: sendCopyShortcut,
	}
}

func (r *clipboardReader) Read(ctx context.Context) (string, error) {
	if r.cfg.CaptureSelection {
		return r.readSelection(ctx)
	}

	text, err := r.readAll()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// readSelection copies the current selection by sending the platform
// copy shortcut, then polls the clipboard for the new content. On
// success the previous clipboard text is written back so the capture
// doesn't clobber whatever the user had copied. If the clipboard never
// changes (nothing selected) the previous text is used instead.
func (r *clipboardReader) readSelection(ctx context.Context) (string, error) {
	before, _ := r.readAll()

	if err := r.sendCopy(); err != nil {
		return "", fmt.Errorf("sending copy shortcut: %w", err)
	}

	deadline := time.Now().Add(selectionPollTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(selectionPollInterval):
		}

		current, err := r.readAll()
		if err != nil {
			continue
		}
		if current != "" && current != before {
			_ = r.writeAll(before)
			return strings.TrimSpace(current), nil
		}
	}

	return strings.TrimSpace(before), nil
}

func sendCopyShortcut() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}

	kb.SetKeys(keybd_event.VK_C)
	if runtime.GOOS == "darwin" {
		kb.HasSuper(true)
	} else {
		kb.HasCTRL(true)
	}

	return kb.Launching()
}
