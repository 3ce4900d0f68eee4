package dispatch

import "fyne.io/fyne/v2"

// RunOnFyne queues fn on the fyne UI thread
func RunOnFyne(fn func()) {
	fyne.Do(fn)
}

// AppClipboard writes to the system clipboard of a fyne app
type AppClipboard struct {
	App fyne.App
}

// SetText replaces the clipboard content
func (c AppClipboard) SetText(text string) {
	c.App.Clipboard().SetContent(text)
}
