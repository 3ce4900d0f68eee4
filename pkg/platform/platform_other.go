//go:build !darwin

// Package platform wraps the few native window calls fyne does not expose.
package platform

// HideFromDock is a no-op outside macOS
func HideFromDock() {}

// IsAppActive always reports true outside macOS, where focus is left to the window manager
func IsAppActive() bool {
	return true
}

// ActivateApp is a no-op outside macOS
func ActivateApp() {}
