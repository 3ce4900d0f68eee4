//go:build darwin

// Package platform wraps the few native window calls fyne does not expose.
package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void setAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}

int isAppActive(void) {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp(void) {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// HideFromDock keeps the tray app out of the Dock and app switcher
func HideFromDock() {
	C.setAccessoryPolicy()
}

// IsAppActive reports whether the application has focus
func IsAppActive() bool {
	return C.isAppActive() == 1
}

// ActivateApp brings the application to the front
func ActivateApp() {
	C.activateApp()
}
