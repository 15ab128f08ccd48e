package request

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/courier/internal/domain"
)

// AuthEditor selects an authentication scheme and edits its fields.
// Switching schemes starts from the empty value of the new scheme.
type AuthEditor struct {
	widget.BaseWidget

	scheme   domain.AuthScheme
	kindSel  *widget.Select
	fields   *fyne.Container
	loading  bool
	onChange func(domain.AuthScheme)
}

// NewAuthEditor creates an editor showing "No auth".
func NewAuthEditor() *AuthEditor {
	e := &AuthEditor{
		scheme: domain.NoAuth{},
		fields: container.NewVBox(),
	}

	names := make([]string, len(domain.AuthKinds))
	for i, k := range domain.AuthKinds {
		names[i] = k.DisplayName()
	}
	e.kindSel = widget.NewSelect(names, func(selected string) {
		if e.loading {
			return
		}
		kind := kindForDisplayName(selected)
		if kind == e.scheme.Kind() {
			return
		}
		e.scheme = domain.EmptyAuth(kind)
		e.rebuild()
		e.changed()
	})

	e.SetScheme(domain.NoAuth{})
	e.ExtendBaseWidget(e)
	return e
}

// SetOnChanged sets the callback invoked after every user edit.
func (e *AuthEditor) SetOnChanged(fn func(domain.AuthScheme)) {
	e.onChange = fn
}

// SetScheme shows s. A nil scheme shows "No auth".
func (e *AuthEditor) SetScheme(s domain.AuthScheme) {
	if s == nil {
		s = domain.NoAuth{}
	}
	e.scheme = s
	e.loading = true
	e.kindSel.SetSelected(s.Kind().DisplayName())
	e.loading = false
	e.rebuild()
}

// Scheme returns the scheme being edited.
func (e *AuthEditor) Scheme() domain.AuthScheme {
	return e.scheme
}

func (e *AuthEditor) changed() {
	if e.loading || e.onChange == nil {
		return
	}
	e.onChange(e.scheme)
}

func kindForDisplayName(name string) domain.AuthKind {
	for _, k := range domain.AuthKinds {
		if k.DisplayName() == name {
			return k
		}
	}
	return domain.AuthKindNone
}

// rebuild recreates the field widgets for the current scheme.
func (e *AuthEditor) rebuild() {
	e.loading = true
	defer func() { e.loading = false }()

	var items []*widget.FormItem
	switch s := e.scheme.(type) {
	case domain.BasicAuth:
		items = []*widget.FormItem{
			e.field("Username", s.Username, false, func(v string) {
				s.Username = v
				e.scheme = s
			}),
			e.field("Password", s.Password, true, func(v string) {
				s.Password = v
				e.scheme = s
			}),
		}
	case domain.BearerAuth:
		items = []*widget.FormItem{
			e.field("Token", s.Token, true, func(v string) {
				s.Token = v
				e.scheme = s
			}),
		}
	case domain.APIKeyAuth:
		location := widget.NewRadioGroup([]string{"Header", "Query"}, func(selected string) {
			if selected == "Query" {
				s.Location = domain.APIKeyInQuery
			} else {
				s.Location = domain.APIKeyInHeader
			}
			e.scheme = s
			e.changed()
		})
		location.Horizontal = true
		location.Required = true
		if s.Location == domain.APIKeyInQuery {
			location.SetSelected("Query")
		} else {
			location.SetSelected("Header")
		}
		items = []*widget.FormItem{
			e.field("Key", s.Key, false, func(v string) {
				s.Key = v
				e.scheme = s
			}),
			e.field("Value", s.Value, true, func(v string) {
				s.Value = v
				e.scheme = s
			}),
			widget.NewFormItem("Add to", location),
		}
	case domain.AWSSigV4Auth:
		items = []*widget.FormItem{
			e.field("Access key", s.AccessKey, false, func(v string) {
				s.AccessKey = v
				e.scheme = s
			}),
			e.field("Secret key", s.SecretKey, true, func(v string) {
				s.SecretKey = v
				e.scheme = s
			}),
			e.field("Session token", s.SessionToken, true, func(v string) {
				s.SessionToken = v
				e.scheme = s
			}),
			e.field("Region", s.Region, false, func(v string) {
				s.Region = v
				e.scheme = s
			}),
			e.field("Service", s.Service, false, func(v string) {
				s.Service = v
				e.scheme = s
			}),
		}
	}

	if len(items) == 0 {
		hint := widget.NewLabel("This request does not use any authorization.")
		hint.Importance = widget.LowImportance
		e.fields.Objects = []fyne.CanvasObject{hint}
	} else {
		e.fields.Objects = []fyne.CanvasObject{widget.NewForm(items...)}
	}
	e.fields.Refresh()
}

func (e *AuthEditor) field(label, value string, secret bool, set func(string)) *widget.FormItem {
	var entry *widget.Entry
	if secret {
		entry = widget.NewPasswordEntry()
	} else {
		entry = widget.NewEntry()
	}
	entry.SetText(value)
	entry.OnChanged = func(v string) {
		set(v)
		e.changed()
	}
	return widget.NewFormItem(label, entry)
}

// CreateRenderer implements fyne.Widget.
func (e *AuthEditor) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(
		container.NewVBox(e.kindSel, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(e.fields),
	)
	return widget.NewSimpleRenderer(content)
}
