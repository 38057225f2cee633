package notify

import (
	"github.com/gemtype/gemtype/internal/config"
	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog"
)

// Notifier surfaces user-visible messages. Errors use the platform
// alert variant so they stand out.
type Notifier interface {
	Info(title, message string)
	Error(title, message string)
}

type desktopNotifier struct {
	cfg *config.Config
	log zerolog.Logger
}

// New creates a desktop Notifier that honors the show_notifications
// setting.
func New(cfg *config.Config, log zerolog.Logger) Notifier {
	return &desktopNotifier{cfg: cfg, log: log}
}

func (n *desktopNotifier) Info(title, message string) {
	if !n.cfg.ShowNotifications {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		n.log.Error().Err(err).Str("title", title).Msg("Failed to show notification")
	}
}

func (n *desktopNotifier) Error(title, message string) {
	if !n.cfg.ShowNotifications {
		return
	}
	if err := beeep.Alert(title, message, ""); err != nil {
		n.log.Error().Err(err).Str("title", title).Msg("Failed to show alert")
	}
}
