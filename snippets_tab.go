package main

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/snippets"
	"github.com/borgmon/soc-alerts/pkg/ui/components"
)

const snippetPreviewLen = 60

func (cw *CenterWindow) buildSnippetsTab() fyne.CanvasObject {
	var list fyne.CanvasObject
	cw.snippetList, list = components.NewActionList([]components.RowAction{
		{
			Icon: theme.ContentCopyIcon(),
			Run:  func(i int) { cw.copySnippet(cw.snippetRows[i].Snippet) },
		},
		{
			Customize: func(i int, b *widget.Button) {
				if cw.snippetRows[i].Snippet.Pinned {
					b.SetText("Unpin")
				} else {
					b.SetText("Pin")
				}
			},
			Run: func(i int) { cw.updateSnippet(cw.sa.snippets.TogglePin(cw.snippetRows[i].Ref)) },
		},
		{
			Icon: theme.DocumentCreateIcon(),
			Run:  func(i int) { cw.showSnippetForm(&cw.snippetRows[i]) },
		},
		{
			Icon: theme.DeleteIcon(),
			Run:  func(i int) { cw.confirmDeleteSnippet(cw.snippetRows[i]) },
		},
	})

	cw.snippetsInfo = widget.NewLabel("")
	cw.snippetsInfo.Alignment = fyne.TextAlignCenter
	cw.snippetsInfo.Wrapping = fyne.TextWrapWord

	addButton := widget.NewButtonWithIcon("New Snippet", theme.ContentAddIcon(), func() {
		cw.showSnippetForm(nil)
	})
	addButton.Importance = widget.HighImportance

	return container.NewBorder(
		container.NewVBox(container.NewHBox(addButton), widget.NewSeparator()),
		nil, nil, nil,
		container.NewStack(list, container.NewCenter(cw.snippetsInfo)),
	)
}

func (cw *CenterWindow) refreshSnippets() {
	listed, err := cw.sa.snippets.List()
	if err != nil {
		cw.snippetRows = nil
		cw.snippetList.SetRows(nil)
		cw.snippetsInfo.SetText(fmt.Sprintf("Snippets could not be read: %v", err))
		cw.snippetsInfo.Show()
		return
	}

	cw.snippetRows = listed
	rows := make([]components.Row, len(listed))
	for i, l := range listed {
		rows[i] = snippetRow(l.Snippet)
	}
	cw.snippetList.SetRows(rows)

	if len(rows) == 0 {
		cw.snippetsInfo.SetText("No snippets yet. Snippets can be copied by hand or linked to an alert.")
		cw.snippetsInfo.Show()
	} else {
		cw.snippetsInfo.Hide()
	}
}

func snippetRow(s models.Snippet) components.Row {
	title := s.DisplayTitle()
	if s.Pinned {
		title = "[pinned] " + title
	}
	return components.Row{
		Title:  title,
		Detail: truncateString(singleLine(s.Content), snippetPreviewLen),
	}
}

func (cw *CenterWindow) copySnippet(s models.Snippet) {
	cw.sa.app.Clipboard().SetContent(s.Content)
	cw.sa.logger.Info("snippet copied to clipboard", "snippet", s.DisplayTitle())
}

// updateSnippet reports the result of a store write and refreshes the list
func (cw *CenterWindow) updateSnippet(err error) {
	if errors.Is(err, snippets.ErrNotFound) {
		err = errors.New("the snippet was changed elsewhere, the list has been reloaded")
	}
	if err != nil {
		cw.showError(err)
	}
	cw.refreshSnippets()
}

func (cw *CenterWindow) showSnippetForm(existing *snippets.Listed) {
	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("Optional")
	contentEntry := widget.NewMultiLineEntry()
	contentEntry.Wrapping = fyne.TextWrapWord
	contentEntry.SetMinRowsVisible(6)
	pinnedCheck := widget.NewCheck("Pinned", nil)

	title, confirm := "New Snippet", "Create"
	if existing != nil {
		title, confirm = "Edit Snippet", "Save"
		titleEntry.SetText(existing.Snippet.Title)
		contentEntry.SetText(existing.Snippet.Content)
		pinnedCheck.SetChecked(existing.Snippet.Pinned)
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Title", titleEntry),
		widget.NewFormItem("Content", contentEntry),
		widget.NewFormItem("", pinnedCheck),
	}

	form := dialog.NewForm(title, confirm, "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}

		s := models.Snippet{
			Title:   titleEntry.Text,
			Content: contentEntry.Text,
			Pinned:  pinnedCheck.Checked,
		}
		if existing != nil {
			cw.updateSnippet(cw.sa.snippets.Update(existing.Ref, s))
		} else {
			cw.updateSnippet(cw.sa.snippets.Add(s))
		}
	}, cw.window)
	form.Resize(fyne.NewSize(460, 380))
	form.Show()
}

func (cw *CenterWindow) confirmDeleteSnippet(l snippets.Listed) {
	msg := fmt.Sprintf("Delete snippet %q?", l.Snippet.DisplayTitle())
	dialog.ShowConfirm("Delete Snippet", msg, func(confirmed bool) {
		if confirmed {
			cw.updateSnippet(cw.sa.snippets.Delete(l.Ref))
		}
	}, cw.window)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
