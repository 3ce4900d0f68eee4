// Package components holds reusable fyne widgets.
package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Row is one entry of an ActionList
type Row struct {
	Title  string
	Detail string
	Accent color.Color // left stripe; nil hides it
	Dimmed bool
}

// RowAction is a button repeated on every row
type RowAction struct {
	Label string
	Icon  fyne.Resource
	// Label and icon may depend on the row
	Customize func(i int, b *widget.Button)
	Run       func(i int)
}

// ActionList shows rows of title and detail text with per-row buttons
type ActionList struct {
	rows    []Row
	actions []RowAction
	list    *widget.List
}

// NewActionList creates an empty list. The returned object is the list widget.
func NewActionList(actions []RowAction) (*ActionList, fyne.CanvasObject) {
	l := &ActionList{actions: actions}
	l.list = widget.NewList(
		func() int { return len(l.rows) },
		l.createItem,
		func(i widget.ListItemID, o fyne.CanvasObject) { l.updateItem(i, o) },
	)
	l.list.OnSelected = func(widget.ListItemID) { l.list.UnselectAll() }
	return l, l.list
}

// SetRows replaces the content
func (l *ActionList) SetRows(rows []Row) {
	l.rows = rows
	l.list.Refresh()
}

// Len returns the number of rows
func (l *ActionList) Len() int {
	return len(l.rows)
}

func (l *ActionList) createItem() fyne.CanvasObject {
	stripe := canvas.NewRectangle(color.Transparent)
	stripe.SetMinSize(fyne.NewSize(6, 0))

	title := widget.NewLabelWithStyle("title", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	title.Truncation = fyne.TextTruncateEllipsis
	detail := widget.NewLabel("detail")
	detail.Truncation = fyne.TextTruncateEllipsis
	detail.Importance = widget.LowImportance

	buttons := container.NewHBox()
	for range l.actions {
		buttons.Add(widget.NewButton("", nil))
	}

	text := container.NewVBox(title, detail)
	return container.NewBorder(nil, nil, stripe, container.NewHBox(layout.NewSpacer(), buttons), text)
}

func (l *ActionList) updateItem(i int, o fyne.CanvasObject) {
	if i < 0 || i >= len(l.rows) {
		return
	}
	row := l.rows[i]

	border := o.(*fyne.Container)
	text := border.Objects[0].(*fyne.Container)
	stripe := border.Objects[1].(*canvas.Rectangle)
	buttons := border.Objects[2].(*fyne.Container).Objects[1].(*fyne.Container)

	title := text.Objects[0].(*widget.Label)
	detail := text.Objects[1].(*widget.Label)
	title.SetText(row.Title)
	detail.SetText(row.Detail)
	if row.Dimmed {
		title.Importance = widget.LowImportance
	} else {
		title.Importance = widget.MediumImportance
	}
	title.Refresh()

	if row.Accent != nil {
		stripe.FillColor = row.Accent
	} else {
		stripe.FillColor = color.Transparent
	}
	stripe.Refresh()

	for a, action := range l.actions {
		b := buttons.Objects[a].(*widget.Button)
		b.SetText(action.Label)
		b.SetIcon(action.Icon)
		if action.Customize != nil {
			action.Customize(i, b)
		}
		run := action.Run
		b.OnTapped = func() {
			if run != nil {
				run(i)
			}
		}
	}
}
