package components

import (
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldButton_ZeroHoldCompletesImmediately(t *testing.T) {
	test.NewTempApp(t)

	var done atomic.Int32
	b := NewHoldButton("Acknowledge", 0, func() { done.Add(1) })
	b.MouseDown(nil)
	b.MouseUp(nil)

	assert.Equal(t, int32(1), done.Load())
}

func TestHoldButton_EarlyReleaseCancels(t *testing.T) {
	test.NewTempApp(t)

	var done atomic.Int32
	b := NewHoldButton("Acknowledge", time.Hour, func() { done.Add(1) })
	test.WidgetRenderer(b)

	b.MouseDown(nil)
	b.MouseUp(nil)
	assert.Zero(t, b.Progress())
	assert.Zero(t, done.Load())

	b.MouseDown(nil)
	b.MouseOut()
	assert.Zero(t, b.Progress())
	assert.Zero(t, done.Load())
}

func TestHoldButton_CompletesAfterHold(t *testing.T) {
	test.NewTempApp(t)

	var done atomic.Int32
	b := NewHoldButton("Acknowledge", 200*time.Millisecond, func() { done.Add(1) })
	test.WidgetRenderer(b)

	b.MouseDown(nil)
	require.Eventually(t, func() bool { return done.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1.0, b.Progress())

	// releasing after completion does not fire again
	b.MouseUp(nil)
	assert.Equal(t, int32(1), done.Load())
}

func TestActionList_RowsAndActions(t *testing.T) {
	test.NewTempApp(t)

	var tapped []int
	l, obj := NewActionList([]RowAction{
		{Label: "Edit", Run: func(i int) { tapped = append(tapped, i) }},
		{Customize: func(i int, b *widget.Button) {
			if i == 0 {
				b.SetText("Disable")
			} else {
				b.SetText("Enable")
			}
		}},
	})
	require.NotNil(t, obj)

	l.SetRows([]Row{
		{Title: "Radio check", Detail: "10:00 every 30 min", Accent: color.NRGBA{R: 0xc0, A: 0xff}},
		{Title: "Briefing", Detail: "09:00", Dimmed: true},
	})
	assert.Equal(t, 2, l.Len())

	item := l.createItem()
	l.updateItem(1, item)

	border := item.(*fyne.Container)
	text := border.Objects[0].(*fyne.Container)
	assert.Equal(t, "Briefing", text.Objects[0].(*widget.Label).Text)
	assert.Equal(t, widget.LowImportance, text.Objects[0].(*widget.Label).Importance)

	buttons := border.Objects[2].(*fyne.Container).Objects[1].(*fyne.Container)
	require.Len(t, buttons.Objects, 2)
	assert.Equal(t, "Enable", buttons.Objects[1].(*widget.Button).Text)

	test.Tap(buttons.Objects[0].(*widget.Button))
	assert.Equal(t, []int{1}, tapped)
}
