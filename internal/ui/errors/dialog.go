package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	apperrors "github.com/shhac/courier/internal/errors"
)

// ShowError displays a rich error dialog with recovery suggestions and
// technical details. When the error is retryable and onRetry is non-nil a
// Retry button is offered.
func ShowError(err error, window fyne.Window, onRetry func()) {
	if err == nil {
		return
	}

	uiErr := apperrors.ClassifyError(err)
	content := errorContent(uiErr)

	if uiErr.Retryable && onRetry != nil {
		d := dialog.NewCustomConfirm(
			uiErr.Title,
			"Retry",
			"Close",
			content,
			func(retry bool) {
				if retry {
					onRetry()
				}
			},
			window,
		)
		d.Resize(fyne.NewSize(500, 400))
		d.Show()
		return
	}

	d := dialog.NewCustom(uiErr.Title, "Close", content, window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

// errorContent lays out the message, suggestions and details of uiErr.
// Labels wrap so long messages do not widen the window.
func errorContent(uiErr *apperrors.UIError) *fyne.Container {
	msgLabel := widget.NewLabel(uiErr.Message)
	msgLabel.Wrapping = fyne.TextWrapWord
	content := container.NewVBox(msgLabel)

	if len(uiErr.Recovery) > 0 {
		content.Add(widget.NewSeparator())
		content.Add(widget.NewLabel("You can:"))
		for _, suggestion := range uiErr.Recovery {
			lbl := widget.NewLabel("• " + suggestion)
			lbl.Wrapping = fyne.TextWrapWord
			content.Add(lbl)
		}
	}

	if uiErr.Details != "" {
		detailsLabel := widget.NewLabel(uiErr.Details)
		detailsLabel.Wrapping = fyne.TextWrapWord
		accordion := widget.NewAccordion(
			widget.NewAccordionItem("Technical Details", detailsLabel),
		)
		content.Add(accordion)
	}

	return content
}
