package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// CollapsibleSection is a single-item accordion whose title carries an item
// count, e.g. "Headers (12)". It starts collapsed.
type CollapsibleSection struct {
	*widget.Accordion

	title string
	item  *widget.AccordionItem
}

// NewCollapsibleSection creates a collapsed section around content.
func NewCollapsibleSection(title string, content fyne.CanvasObject) *CollapsibleSection {
	item := widget.NewAccordionItem(title, content)
	s := &CollapsibleSection{
		Accordion: widget.NewAccordion(item),
		title:     title,
		item:      item,
	}
	s.Close(0)
	return s
}

// SetCount shows n next to the title; zero shows the bare title.
func (s *CollapsibleSection) SetCount(n int) {
	title := s.title
	if n > 0 {
		title = fmt.Sprintf("%s (%d)", s.title, n)
	}
	if s.item.Title == title {
		return
	}
	s.item.Title = title
	s.Refresh()
}

// Title returns the title as displayed.
func (s *CollapsibleSection) Title() string {
	return s.item.Title
}

// Expanded reports whether the section is open.
func (s *CollapsibleSection) Expanded() bool {
	return s.item.Open
}
