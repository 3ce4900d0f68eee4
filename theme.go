package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/soc-alerts/pkg/models"
)

// variantTheme pins the default theme to one variant regardless of the OS setting
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func newVariantTheme(name string) variantTheme {
	v := theme.VariantDark
	if name == models.ThemeLight {
		v = theme.VariantLight
	}
	return variantTheme{Theme: theme.DefaultTheme(), variant: v}
}

func applyTheme(app fyne.App, name string) {
	app.Settings().SetTheme(newVariantTheme(name))
}
