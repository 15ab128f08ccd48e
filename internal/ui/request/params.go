package request

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/courier/internal/domain"
)

// ParamsEditor edits an ordered list of enable-able key/value rows, used for
// both query parameters and headers. Each row has an enabled toggle, key and
// value entries, move up/down buttons and a remove button.
type ParamsEditor struct {
	widget.BaseWidget

	params   domain.Params
	rows     *fyne.Container
	addBtn   *widget.Button
	keyHint  string
	valHint  string
	loading  bool
	onChange func(domain.Params)
}

// NewParamsEditor creates an editor showing a single empty row.
func NewParamsEditor(keyHint, valHint string) *ParamsEditor {
	e := &ParamsEditor{
		params:  domain.Params{domain.NewParam("", "")},
		rows:    container.NewVBox(),
		keyHint: keyHint,
		valHint: valHint,
	}
	e.addBtn = widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), e.Add)
	e.rebuild()
	e.ExtendBaseWidget(e)
	return e
}

// SetOnChanged sets the callback invoked with a copy of the list after every
// user edit. Programmatic SetParams calls do not trigger it.
func (e *ParamsEditor) SetOnChanged(fn func(domain.Params)) {
	e.onChange = fn
}

// SetParams replaces the rows. An empty list shows one empty row.
func (e *ParamsEditor) SetParams(ps domain.Params) {
	if len(ps) == 0 {
		ps = domain.Params{domain.NewParam("", "")}
	}
	e.params = ps.Clone()
	e.rebuild()
}

// Params returns a copy of the rows.
func (e *ParamsEditor) Params() domain.Params {
	return e.params.Clone()
}

// Add appends an empty row.
func (e *ParamsEditor) Add() {
	e.params = e.params.Add()
	e.rebuild()
	e.changed()
}

// Remove deletes row i. The last remaining row is cleared instead.
func (e *ParamsEditor) Remove(i int) {
	ps, err := e.params.Remove(i)
	if errors.Is(err, domain.ErrLastParam) {
		ps = domain.Params{domain.NewParam("", "")}
	} else if err != nil {
		return
	}
	e.params = ps
	e.rebuild()
	e.changed()
}

// MoveRow relocates row from to index to.
func (e *ParamsEditor) MoveRow(from, to int) {
	if to < 0 || to >= len(e.params) {
		return
	}
	e.params = e.params.Move(from, to)
	e.rebuild()
	e.changed()
}

func (e *ParamsEditor) changed() {
	if e.loading || e.onChange == nil {
		return
	}
	e.onChange(e.params.Clone())
}

// rebuild recreates one row of widgets per entry.
func (e *ParamsEditor) rebuild() {
	e.loading = true
	defer func() { e.loading = false }()

	objects := make([]fyne.CanvasObject, 0, len(e.params))
	for i, p := range e.params {
		objects = append(objects, e.newRow(i, p))
	}
	e.rows.Objects = objects
	e.rows.Refresh()
}

func (e *ParamsEditor) newRow(i int, p domain.Param) fyne.CanvasObject {
	enabled := widget.NewCheck("", func(on bool) {
		e.params[i].Enabled = on
		e.changed()
	})
	enabled.SetChecked(p.Enabled)

	key := widget.NewEntry()
	key.SetPlaceHolder(e.keyHint)
	key.SetText(p.Key)
	key.OnChanged = func(s string) {
		e.params[i].Key = s
		e.changed()
	}

	val := widget.NewEntry()
	val.SetPlaceHolder(e.valHint)
	val.SetText(p.Value)
	val.OnChanged = func(s string) {
		e.params[i].Value = s
		e.changed()
	}

	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() { e.MoveRow(i, i-1) })
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() { e.MoveRow(i, i+1) })
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { e.Remove(i) })
	if i == 0 {
		up.Disable()
	}
	if i == len(e.params)-1 {
		down.Disable()
	}

	return container.NewBorder(
		nil, nil,
		enabled,
		container.NewHBox(up, down, remove),
		container.NewGridWithColumns(2, key, val),
	)
}

// CreateRenderer implements fyne.Widget.
func (e *ParamsEditor) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(
		nil,
		container.NewHBox(e.addBtn),
		nil, nil,
		container.NewVScroll(e.rows),
	)
	return widget.NewSimpleRenderer(content)
}
