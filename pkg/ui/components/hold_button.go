package components

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const holdTick = 50 * time.Millisecond

// HoldButton fires OnComplete only after being held down for Hold.
// Releasing or leaving the button early resets the progress.
type HoldButton struct {
	widget.BaseWidget
	Text       string
	Hold       time.Duration
	OnComplete func()

	mu       sync.Mutex
	holding  bool
	hovered  bool
	progress float64
	stop     chan struct{}
}

// NewHoldButton creates a HoldButton
func NewHoldButton(text string, hold time.Duration, onComplete func()) *HoldButton {
	b := &HoldButton{
		Text:       text,
		Hold:       hold,
		OnComplete: onComplete,
	}
	b.ExtendBaseWidget(b)
	return b
}

// CreateRenderer implements fyne.Widget
func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	th := b.Theme()
	v := fyne.CurrentApp().Settings().ThemeVariant()

	text := canvas.NewText(b.Text, th.Color(theme.ColorNameForeground, v))
	text.Alignment = fyne.TextAlignCenter
	text.TextStyle = fyne.TextStyle{Bold: true}

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          canvas.NewRectangle(th.Color(theme.ColorNameButton, v)),
		progressBar: canvas.NewRectangle(th.Color(theme.ColorNamePrimary, v)),
	}
}

// Progress returns the hold progress between 0 and 1
func (b *HoldButton) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

// Tapped implements fyne.Tappable
func (b *HoldButton) Tapped(*fyne.PointEvent) {}

// MouseIn implements desktop.Hoverable
func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.mu.Lock()
	b.hovered = true
	b.mu.Unlock()
	b.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (b *HoldButton) MouseOut() {
	b.mu.Lock()
	b.hovered = false
	b.mu.Unlock()
	b.cancelHold()
}

// MouseDown implements desktop.Mouseable
func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	b.startHold()
}

// MouseUp implements desktop.Mouseable
func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.cancelHold()
}

func (b *HoldButton) startHold() {
	b.mu.Lock()
	if b.holding {
		b.mu.Unlock()
		return
	}
	b.holding = true
	b.progress = 0
	stop := make(chan struct{})
	b.stop = stop
	b.mu.Unlock()

	if b.Hold <= 0 {
		b.complete()
		return
	}

	step := float64(holdTick) / float64(b.Hold)
	go func() {
		ticker := time.NewTicker(holdTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				b.mu.Lock()
				b.progress += step
				done := b.progress >= 1
				b.mu.Unlock()

				fyne.Do(b.Refresh)
				if done {
					fyne.Do(b.complete)
					return
				}
			}
		}
	}()
}

func (b *HoldButton) cancelHold() {
	b.mu.Lock()
	if b.holding {
		b.holding = false
		close(b.stop)
	}
	b.progress = 0
	b.mu.Unlock()
	b.Refresh()
}

func (b *HoldButton) complete() {
	b.mu.Lock()
	if !b.holding {
		b.mu.Unlock()
		return
	}
	b.holding = false
	close(b.stop)
	b.progress = 1
	b.mu.Unlock()

	b.Refresh()
	if b.OnComplete != nil {
		b.OnComplete()
	}
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)
	r.progressBar.Move(fyne.NewPos(0, 0))
	r.progressBar.Resize(fyne.NewSize(size.Width*float32(r.button.Progress()), size.Height))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	pad := r.button.Theme().Size(theme.SizeNamePadding)
	textSize := r.text.MinSize()
	return fyne.NewSize(
		max(textSize.Width+pad*4, 220),
		max(textSize.Height+pad*2, 48),
	)
}

func (r *holdButtonRenderer) Refresh() {
	th := r.button.Theme()
	v := fyne.CurrentApp().Settings().ThemeVariant()

	r.button.mu.Lock()
	hovered := r.button.hovered
	r.button.mu.Unlock()

	r.text.Text = r.button.Text
	r.text.Color = th.Color(theme.ColorNameForeground, v)
	if hovered {
		r.bg.FillColor = th.Color(theme.ColorNameHover, v)
	} else {
		r.bg.FillColor = th.Color(theme.ColorNameButton, v)
	}
	r.progressBar.FillColor = th.Color(theme.ColorNamePrimary, v)
	r.Layout(r.bg.Size())

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {}
