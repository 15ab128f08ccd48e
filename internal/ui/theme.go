package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/shhac/courier/internal/ui/settings"
)

// Theme modes stored under settings.PrefTheme.
const (
	ThemeSystem = "system"
	ThemeDark   = "dark"
	ThemeLight  = "light"
)

var accent = color.NRGBA{R: 0xe8, G: 0x6a, B: 0x33, A: 0xff}

// courierTheme is the default theme with the Courier accent colour,
// optionally pinned to one variant.
type courierTheme struct {
	fyne.Theme
	forced  bool
	variant fyne.ThemeVariant
}

// NewTheme returns the theme for mode. Unknown modes follow the system.
func NewTheme(mode string) fyne.Theme {
	t := &courierTheme{Theme: theme.DefaultTheme()}
	switch mode {
	case ThemeDark:
		t.forced, t.variant = true, theme.VariantDark
	case ThemeLight:
		t.forced, t.variant = true, theme.VariantLight
	}
	return t
}

// Color returns the accent for primary and focus colours and defers the
// rest to the default theme.
func (t *courierTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return accent
	}
	return t.Theme.Color(name, variant)
}

// ApplyTheme sets the application theme based on the mode
func ApplyTheme(a fyne.App, mode string) {
	a.Settings().SetTheme(NewTheme(mode))
}

// LoadThemePreference loads and applies the saved theme preference
func LoadThemePreference(a fyne.App) {
	ApplyTheme(a, a.Preferences().StringWithFallback(settings.PrefTheme, ThemeSystem))
}
