package response

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// maxViewBytes caps how much of a body the raw view renders.
const maxViewBytes = 1 << 20

// BodyView is a multi-line entry for response bodies. It keeps normal
// contrast and selection but rejects edits. Bodies larger than maxViewBytes
// are shown truncated; copying with nothing selected copies the full body.
type BodyView struct {
	widget.Entry

	body string
}

// NewBodyView creates an empty body view.
func NewBodyView() *BodyView {
	e := &BodyView{}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.ExtendBaseWidget(e)
	return e
}

// SetBody shows body, truncated if needed.
func (e *BodyView) SetBody(body string) {
	e.body = body
	if len(body) <= maxViewBytes {
		e.SetText(body)
		return
	}
	e.SetText(body[:maxViewBytes] + fmt.Sprintf("\n\n[truncated: showing %d of %d bytes, copy to get all]", maxViewBytes, len(body)))
}

// Body returns the full body, including any part not rendered.
func (e *BodyView) Body() string {
	return e.body
}

// TypedRune blocks all character input.
func (e *BodyView) TypedRune(_ rune) {}

// TypedKey allows cursor/selection movement but blocks editing keys.
func (e *BodyView) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyLeft, fyne.KeyRight, fyne.KeyUp, fyne.KeyDown,
		fyne.KeyHome, fyne.KeyEnd, fyne.KeyPageUp, fyne.KeyPageDown:
		e.Entry.TypedKey(key)
	}
}

// TypedShortcut allows copy and select-all but blocks paste, cut, undo, redo.
func (e *BodyView) TypedShortcut(shortcut fyne.Shortcut) {
	switch s := shortcut.(type) {
	case *fyne.ShortcutCopy:
		if e.SelectedText() == "" && s.Clipboard != nil {
			s.Clipboard.SetContent(e.body)
			return
		}
		e.Entry.TypedShortcut(shortcut)
	case *fyne.ShortcutSelectAll:
		e.Entry.TypedShortcut(shortcut)
	}
}
