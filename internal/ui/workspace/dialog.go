package workspace

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	uierrors "github.com/shhac/courier/internal/ui/errors"
)

// confirm runs onConfirm only if the user accepts.
func confirm(parent fyne.Window, title, message string, onConfirm func()) {
	dialog.ShowConfirm(title, message, func(confirmed bool) {
		if confirmed {
			onConfirm()
		}
	}, parent)
}

// ShowDeleteConfirm shows a confirmation dialog before deleting a workspace
func ShowDeleteConfirm(parent fyne.Window, name string, onConfirm func()) {
	confirm(parent, "Delete Workspace",
		fmt.Sprintf("Are you sure you want to delete workspace '%s'? This cannot be undone.", name),
		onConfirm)
}

// ShowOverwriteConfirm asks before replacing a saved workspace.
func ShowOverwriteConfirm(parent fyne.Window, name string, onConfirm func()) {
	confirm(parent, "Overwrite Workspace",
		fmt.Sprintf("Workspace '%s' already exists. Overwrite it?", name),
		onConfirm)
}

// showFailure reports a failed storage or file operation, classified like
// any other error.
func showFailure(parent fyne.Window, action string, err error) {
	uierrors.ShowError(fmt.Errorf("failed to %s: %w", action, err), parent, nil)
}

// showProblem tells the user why an action cannot start.
func showProblem(parent fyne.Window, message string) {
	dialog.ShowError(errors.New(message), parent)
}

func showNotice(parent fyne.Window, title, message string) {
	dialog.ShowInformation(title, message, parent)
}
