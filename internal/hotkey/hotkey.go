package hotkey

// Manager defines the interface for global hotkey management. A manager
// holds at most one binding; registering a new accelerator replaces the
// old one only after the new registration succeeds.
type Manager interface {
	Register(accel string, callback func()) error
	Unregister() error
	Close() error
}
