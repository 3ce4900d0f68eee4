package main

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"golang.design/x/hotkey"
)

var functionKeys = map[string]hotkey.Key{
	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3, "F4": hotkey.KeyF4,
	"F5": hotkey.KeyF5, "F6": hotkey.KeyF6, "F7": hotkey.KeyF7, "F8": hotkey.KeyF8,
	"F9": hotkey.KeyF9, "F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,
}

func parseHotkey(name string) (hotkey.Key, error) {
	key, ok := functionKeys[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported hotkey %q, use F1 to F12", name)
	}
	return key, nil
}

// registerHotkey toggles the Alerts Center on the configured function key
func (sa *SOCAlerts) registerHotkey() {
	if !sa.cfg.Hotkey.Enabled {
		return
	}
	key, err := parseHotkey(sa.cfg.Hotkey.Key)
	if err != nil {
		sa.logger.Warn("global hotkey disabled", "error", err)
		return
	}

	sa.wg.Add(1)
	go func() {
		defer sa.wg.Done()

		hk := hotkey.New(nil, key)
		if err := hk.Register(); err != nil {
			sa.logger.Warn("register global hotkey", "key", sa.cfg.Hotkey.Key, "error", err)
			return
		}
		defer hk.Unregister()
		sa.logger.Info("global hotkey registered", "key", sa.cfg.Hotkey.Key)

		for {
			select {
			case <-hk.Keydown():
				fyne.Do(sa.toggleCenterWindow)
			case <-sa.ctx.Done():
				return
			}
		}
	}()
}
