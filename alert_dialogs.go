package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/store"
)

// showAlertForm opens the create form, or the edit form when existing is set
func (cw *CenterWindow) showAlertForm(existing *store.Listed) {
	in := alertInput{Time: "09:00", Repeat: "0", Urgency: string(models.UrgencyNormal), Snippet: noSnippet, Enabled: true}
	title, confirm := "New Alert", "Create"
	if existing != nil {
		in = inputFromAlert(existing.Alert)
		title, confirm = "Edit Alert", "Save"
	}

	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder(models.DefaultTitle)
	titleEntry.SetText(in.Title)

	descEntry := widget.NewMultiLineEntry()
	descEntry.SetText(in.Description)
	descEntry.Wrapping = fyne.TextWrapWord

	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder("HH:MM")
	timeEntry.SetText(in.Time)

	repeatEntry := widget.NewEntry()
	repeatEntry.SetPlaceHolder("0")
	repeatEntry.SetText(in.Repeat)

	urgencyOptions := make([]string, len(models.Urgencies))
	for i, u := range models.Urgencies {
		urgencyOptions[i] = string(u)
	}
	urgencySelect := widget.NewSelect(urgencyOptions, nil)
	urgencySelect.SetSelected(in.Urgency)

	snippetSelect := widget.NewSelect(cw.snippetOptions(in.Snippet), nil)
	snippetSelect.SetSelected(in.Snippet)

	enabledCheck := widget.NewCheck("Enabled", nil)
	enabledCheck.SetChecked(in.Enabled)

	repeatItem := widget.NewFormItem("Repeat (min)", repeatEntry)
	repeatItem.HintText = "0 fires once, otherwise every N minutes after the time"

	items := []*widget.FormItem{
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Description", descEntry),
		widget.NewFormItem("Time", timeEntry),
		repeatItem,
		widget.NewFormItem("Urgency", urgencySelect),
		widget.NewFormItem("Copy Snippet", snippetSelect),
		widget.NewFormItem("", enabledCheck),
	}

	form := dialog.NewForm(title, confirm, "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		a, err := alertInput{
			Title:       titleEntry.Text,
			Description: descEntry.Text,
			Time:        timeEntry.Text,
			Repeat:      repeatEntry.Text,
			Urgency:     urgencySelect.Selected,
			Snippet:     snippetSelect.Selected,
			Enabled:     enabledCheck.Checked,
		}.toAlert()
		if err != nil {
			dialog.ShowError(err, cw.window)
			return
		}

		if existing != nil {
			err = cw.sa.alerts.Update(existing.Ref, a)
		} else {
			_, err = cw.sa.alerts.Add(a)
		}
		if err != nil {
			cw.showStoreError(err)
			return
		}
		cw.alertsChanged()
	}, cw.window)
	form.Resize(fyne.NewSize(460, 480))
	form.Show()
}

// snippetOptions lists "None" and every snippet title. A linked title that no
// longer exists is kept so that editing does not silently unlink it.
func (cw *CenterWindow) snippetOptions(current string) []string {
	options := []string{noSnippet}
	found := current == noSnippet
	for _, t := range cw.sa.snippets.Titles() {
		options = append(options, t)
		if t == current {
			found = true
		}
	}
	if !found && current != "" {
		options = append(options, current)
	}
	return options
}
