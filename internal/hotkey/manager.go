package hotkey

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.design/x/hotkey"
)

type manager struct {
	log zerolog.Logger

	mu    sync.Mutex
	hk    *hotkey.Hotkey
	accel string
	done  chan struct{}
}

// New creates a global hotkey manager backed by the OS hotkey facility.
func New(log zerolog.Logger) Manager {
	return &manager{log: log}
}

func (m *manager) Register(accel string, callback func()) error {
	mods, key, err := Parse(accel)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("registering hotkey %q: %w", accel, err)
	}

	// Swap in the new binding; the old one stays live until the new
	// registration has succeeded.
	m.mu.Lock()
	m.unregisterLocked()
	m.hk = hk
	m.accel = accel
	done := make(chan struct{})
	m.done = done
	m.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				callback()
			}
		}
	}()

	m.log.Info().Str("hotkey", accel).Msg("Registered global hotkey")
	return nil
}

func (m *manager) Unregister() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregisterLocked()
	return nil
}

func (m *manager) unregisterLocked() {
	if m.hk == nil {
		return
	}
	if err := m.hk.Unregister(); err != nil {
		m.log.Error().Err(err).Str("hotkey", m.accel).Msg("Failed to unregister hotkey")
	}
	close(m.done)
	m.hk = nil
	m.accel = ""
	m.done = nil
}

func (m *manager) Close() error {
	return m.Unregister()
}
