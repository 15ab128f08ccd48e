package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ModeTabs provides a two-way mode toggle using a horizontal RadioGroup.
// This visually distinguishes the mode switch from content-level AppTabs.
// It manages switching between two content views and notifies listeners of mode changes.
//
// Modes are identified by their lower-cased label, so labels "Table" and
// "Bulk" give the modes "table" and "bulk".
type ModeTabs struct {
	widget.BaseWidget

	modeSelect   *widget.RadioGroup
	labels       [2]string
	contents     [2]fyne.CanvasObject
	contentStack *fyne.Container // container.NewStack, holds active content

	onModeChange func(mode string)
}

// NewModeTabs creates a new ModeTabs widget. The first mode is selected
// initially.
func NewModeTabs(firstLabel string, first fyne.CanvasObject, secondLabel string, second fyne.CanvasObject) *ModeTabs {
	m := &ModeTabs{
		labels:   [2]string{firstLabel, secondLabel},
		contents: [2]fyne.CanvasObject{first, second},
	}

	m.modeSelect = widget.NewRadioGroup(m.labels[:], func(selected string) {
		mode := strings.ToLower(selected)
		m.updateContent(mode)
		if m.onModeChange != nil {
			m.onModeChange(mode)
		}
	})
	m.modeSelect.Horizontal = true
	m.modeSelect.Selected = firstLabel

	m.contentStack = container.NewStack(first)

	m.ExtendBaseWidget(m)
	return m
}

// SetOnModeChange sets the callback that is invoked when the mode changes.
func (m *ModeTabs) SetOnModeChange(fn func(mode string)) {
	m.onModeChange = fn
}

// SetMode programmatically switches to the specified mode. Unknown modes are
// ignored. Does nothing if already on the requested mode, so the callback
// is not triggered redundantly.
func (m *ModeTabs) SetMode(mode string) {
	if m.GetMode() == mode {
		return
	}
	if i := m.index(mode); i >= 0 {
		m.modeSelect.SetSelected(m.labels[i])
	}
}

// GetMode returns the currently selected mode.
func (m *ModeTabs) GetMode() string {
	if m.modeSelect.Selected == "" {
		return strings.ToLower(m.labels[0])
	}
	return strings.ToLower(m.modeSelect.Selected)
}

func (m *ModeTabs) index(mode string) int {
	for i, l := range m.labels {
		if strings.ToLower(l) == mode {
			return i
		}
	}
	return -1
}

// updateContent swaps the visible content in the stack.
func (m *ModeTabs) updateContent(mode string) {
	i := m.index(mode)
	if i < 0 {
		return
	}
	m.contentStack.Objects = []fyne.CanvasObject{m.contents[i]}
	m.contentStack.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (m *ModeTabs) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(m.modeSelect, nil, nil, nil, m.contentStack)
	return widget.NewSimpleRenderer(content)
}

// MinSize implements fyne.Widget.
func (m *ModeTabs) MinSize() fyne.Size {
	return m.BaseWidget.MinSize()
}
