package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// shortcut pairs a Cmd key combination with its action.
type shortcut struct {
	key    fyne.KeyName
	name   string
	action func()
}

// setupKeyboardShortcuts configures all keyboard shortcuts for the main window
func (w *MainWindow) setupKeyboardShortcuts() {
	canvas := w.window.Canvas()

	shortcuts := []shortcut{
		{fyne.KeyReturn, "send request", w.requestPanel.TriggerSend},
		{fyne.KeyT, "new tab", w.NewTab},
		{fyne.KeyW, "close tab", w.CloseActiveTab},
		{fyne.KeyS, "save workspace", w.workspacePanel.TriggerSave},
		{fyne.KeyO, "load workspace", w.workspacePanel.TriggerLoad},
		{fyne.KeyK, "focus url", w.requestPanel.FocusURL},
		{fyne.KeyL, "clear response", w.responsePanel.ClearResponse},
		{fyne.Key1, "switch to table mode", w.requestPanel.SwitchToTableMode},
		{fyne.Key2, "switch to bulk mode", w.requestPanel.SwitchToBulkMode},
		{fyne.KeyComma, "preferences", w.ShowPreferences},
	}

	for _, s := range shortcuts {
		canvas.AddShortcut(&desktop.CustomShortcut{
			KeyName:  s.key,
			Modifier: fyne.KeyModifierSuper, // Cmd on macOS, Win on Windows
		}, func(fyne.Shortcut) {
			w.logger.Debug("keyboard shortcut: " + s.name)
			s.action()
		})
	}

	// Escape: cancel the active tab's request
	canvas.SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			w.logger.Debug("keyboard shortcut: escape (cancel request)")
			w.handleCancel()
		}
	})

	w.logger.Info("keyboard shortcuts configured")
}
