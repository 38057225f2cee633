package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gemtype/gemtype/internal/app"
	"github.com/gemtype/gemtype/internal/autostart"
	"github.com/gemtype/gemtype/internal/capture"
	"github.com/gemtype/gemtype/internal/config"
	"github.com/gemtype/gemtype/internal/gemini"
	"github.com/gemtype/gemtype/internal/hotkey"
	"github.com/gemtype/gemtype/internal/inject"
	"github.com/gemtype/gemtype/internal/logging"
	"github.com/gemtype/gemtype/internal/notify"
	"github.com/gemtype/gemtype/internal/permissions"
	"github.com/gemtype/gemtype/internal/tray"
	"github.com/joho/godotenv"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// A .env next to the binary may carry GEMINI_API_KEY
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires accessibility approval before hotkeys or synthetic keystrokes work
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := notify.New(cfg, log)
	reader := capture.New(cfg)
	generator := gemini.New(cfg, log)
	injector := inject.New(cfg)

	hkManager := hotkey.New(log)
	defer hkManager.Close()

	// Create tray UI first (we'll pass it to app)
	trayUI := tray.New(nil, cfg, notifier, log, Version, Commit) // App reference set below

	// Create app with tray as status updater
	application := app.New(app.Config{
		Reader:        reader,
		Generator:     generator,
		Injector:      injector,
		Hotkeys:       hkManager,
		Notifier:      notifier,
		Config:        cfg,
		Logger:        log,
		StatusUpdater: trayUI,
	})

	// Set app reference in tray
	trayUI.SetApp(application)

	// Register global hotkey
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register hotkey")
	}

	// Align the login item with the configured flag
	if err := autostart.Apply(cfg.AutoStart); err != nil {
		log.Error().Err(err).Msg("Failed to update login item")
	}

	if cfg.FirstRun {
		notifier.Info("GemType", "Running in the tray. Copy text and press "+cfg.Hotkey+".")
		cfg.FirstRun = false
		if err := cfg.Save(); err != nil {
			log.Error().Err(err).Msg("Failed to save config")
		}
	}

	log.Info().Str("hotkey", cfg.Hotkey).Str("model", cfg.Model).Msg("GemType starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		if err := application.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
