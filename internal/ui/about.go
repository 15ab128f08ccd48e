package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/shhac/courier/internal/ui.Version=1.2.3"
var Version = "dev"

// shortcutHelp lists the shortcuts shown in the reference dialog.
var shortcutHelp = []struct{ action, key string }{
	{"Send Request", "⌘ Return"},
	{"New Tab", "⌘ T"},
	{"Close Tab", "⌘ W"},
	{"Save Workspace", "⌘ S"},
	{"Load Workspace", "⌘ O"},
	{"Focus URL", "⌘ K"},
	{"Clear Response", "⌘ L"},
	{"Table Mode", "⌘ 1"},
	{"Bulk Mode", "⌘ 2"},
	{"Preferences", "⌘ ,"},
	{"Cancel Request", "Escape"},
}

// ShowAboutDialog displays information about the Courier application.
func ShowAboutDialog(parent fyne.Window) {
	dialog.ShowCustom("About Courier", "Close", aboutContent(), parent)
}

func aboutContent() fyne.CanvasObject {
	return container.NewVBox(
		widget.NewLabelWithStyle("Courier", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("A desktop client for HTTP APIs"),
		widget.NewLabel("Version "+Version),
		widget.NewSeparator(),
		widget.NewLabel("Built with Fyne and Go"),
	)
}

// ShowShortcutDialog displays a reference of all keyboard shortcuts.
func ShowShortcutDialog(parent fyne.Window) {
	dialog.ShowCustom("Keyboard Shortcuts", "Close", container.NewVScroll(shortcutGrid()), parent)
}

func shortcutGrid() *fyne.Container {
	grid := container.NewGridWithColumns(2)
	for _, s := range shortcutHelp {
		grid.Add(widget.NewLabel(s.action))
		grid.Add(widget.NewLabelWithStyle(s.key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
	}
	return grid
}
