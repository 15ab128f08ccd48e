package request

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/ui/components"
)

// paramsSection is one Table/Bulk editor pair with its synchronizer.
type paramsSection struct {
	table *ParamsEditor
	bulk  *widget.Entry
	tabs  *components.ModeTabs
	sync  *ModeSynchronizer
}

func newParamsSection(keyHint, valHint string, logger *slog.Logger) *paramsSection {
	s := &paramsSection{table: NewParamsEditor(keyHint, valHint)}

	bulkText := binding.NewString()
	s.bulk = widget.NewMultiLineEntry()
	s.bulk.SetPlaceHolder(keyHint + ":" + valHint)
	s.bulk.TextStyle = fyne.TextStyle{Monospace: true}
	s.bulk.Bind(bulkText)

	s.tabs = components.NewModeTabs("Table", s.table, "Bulk", s.bulk)
	s.sync = NewModeSynchronizer(binding.NewString(), bulkText, s.table, logger)

	s.tabs.SetOnModeChange(func(mode string) {
		if s.sync.IsSyncing() {
			return
		}
		s.sync.SwitchMode(mode)
	})
	s.sync.SetOnModeChanged(func(mode string) {
		s.tabs.SetMode(mode)
	})
	return s
}

// RequestPanel edits the draft of the active tab. Every edit is written to
// the draft straight away, so a send always sees what is on screen.
type RequestPanel struct {
	widget.BaseWidget

	draft   *domain.Draft
	loading bool

	methodSel *widget.Select
	urlEntry  *widget.Entry
	sendBtn   *widget.Button

	query   *paramsSection
	headers *paramsSection
	auth    *AuthEditor
	body    *widget.Entry

	tabs *container.AppTabs

	logger *slog.Logger

	onSend    func(*domain.Draft)
	onChanged func(*domain.Draft)
}

// NewRequestPanel creates a new request panel
func NewRequestPanel(logger *slog.Logger) *RequestPanel {
	p := &RequestPanel{logger: logger}

	p.methodSel = widget.NewSelect(domain.MethodNames(), func(selected string) {
		if p.loading || p.draft == nil {
			return
		}
		m, err := domain.ParseMethod(selected)
		if err != nil {
			return
		}
		p.draft.Method = m
		p.changed()
	})

	p.urlEntry = widget.NewEntry()
	p.urlEntry.SetPlaceHolder("https://api.example.com/resource")
	p.urlEntry.OnChanged = func(s string) {
		if p.loading || p.draft == nil {
			return
		}
		p.draft.URL = s
		p.changed()
	}
	p.urlEntry.OnSubmitted = func(string) { p.handleSend() }

	p.sendBtn = widget.NewButtonWithIcon("Send", theme.MailSendIcon(), p.handleSend)
	p.sendBtn.Importance = widget.HighImportance

	p.query = newParamsSection("Parameter", "Value", logger)
	p.query.table.SetOnChanged(func(ps domain.Params) {
		if p.loading || p.draft == nil {
			return
		}
		p.draft.Query = ps
		p.changed()
	})
	p.query.bulk.OnChanged = func(text string) {
		if p.loading || p.draft == nil || text == p.draft.Query.Bulk() {
			return
		}
		p.draft.Query = domain.ParseBulk(text)
		p.changed()
	}

	p.headers = newParamsSection("Header", "Value", logger)
	p.headers.table.SetOnChanged(func(ps domain.Params) {
		if p.loading || p.draft == nil {
			return
		}
		p.draft.Headers = ps
		p.changed()
	})
	p.headers.bulk.OnChanged = func(text string) {
		if p.loading || p.draft == nil || text == p.draft.Headers.Bulk() {
			return
		}
		p.draft.Headers = domain.ParseBulk(text)
		p.changed()
	}

	p.auth = NewAuthEditor()
	p.auth.SetOnChanged(func(s domain.AuthScheme) {
		if p.loading || p.draft == nil {
			return
		}
		p.draft.Auth = s
		p.changed()
	})

	p.body = widget.NewMultiLineEntry()
	p.body.SetPlaceHolder(`{"field": "value"}`)
	p.body.TextStyle = fyne.TextStyle{Monospace: true}
	p.body.Wrapping = fyne.TextWrapWord
	p.body.OnChanged = func(s string) {
		if p.loading || p.draft == nil {
			return
		}
		p.draft.Body = s
		p.changed()
	}

	p.tabs = container.NewAppTabs(
		container.NewTabItem("Params", p.query.tabs),
		container.NewTabItem("Headers", p.headers.tabs),
		container.NewTabItem("Auth", p.auth),
		container.NewTabItem("Body", p.body),
	)

	p.ExtendBaseWidget(p)
	return p
}

// SetOnSend sets the callback for when Send is clicked.
func (p *RequestPanel) SetOnSend(fn func(*domain.Draft)) {
	p.onSend = fn
}

// SetOnChanged sets the callback invoked after the user edits the draft.
func (p *RequestPanel) SetOnChanged(fn func(*domain.Draft)) {
	p.onChanged = fn
}

// Load shows d and directs further edits to it. A nil draft clears and
// disables the panel.
func (p *RequestPanel) Load(d *domain.Draft) {
	p.loading = true
	defer func() { p.loading = false }()

	p.draft = d
	if d == nil {
		p.urlEntry.SetText("")
		p.body.SetText("")
		p.query.sync.Load(nil)
		p.headers.sync.Load(nil)
		p.auth.SetScheme(nil)
		p.sendBtn.Disable()
		return
	}

	p.methodSel.SetSelected(d.Method.String())
	p.urlEntry.SetText(d.URL)
	p.query.sync.Load(d.Query)
	p.headers.sync.Load(d.Headers)
	p.auth.SetScheme(d.Auth)
	p.body.SetText(d.Body)
	p.sendBtn.Enable()

	p.logger.Debug("draft loaded into request panel", slog.Uint64("draft", uint64(d.ID)))
}

// Draft returns the draft being edited, or nil.
func (p *RequestPanel) Draft() *domain.Draft {
	return p.draft
}

func (p *RequestPanel) changed() {
	if p.onChanged != nil {
		p.onChanged(p.draft)
	}
}

// handleSend hands the current draft to the onSend callback.
func (p *RequestPanel) handleSend() {
	if p.onSend == nil || p.draft == nil {
		return
	}
	p.onSend(p.draft)
}

// TriggerSend programmatically triggers the send action (for keyboard shortcut)
func (p *RequestPanel) TriggerSend() {
	p.handleSend()
}

// FocusURL moves keyboard focus to the URL entry (for keyboard shortcut).
func (p *RequestPanel) FocusURL() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(p.urlEntry); c != nil {
		c.Focus(p.urlEntry)
	}
}

// SwitchToTableMode shows the row editors (for keyboard shortcut)
func (p *RequestPanel) SwitchToTableMode() {
	p.query.tabs.SetMode(modeTable)
	p.headers.tabs.SetMode(modeTable)
}

// SwitchToBulkMode shows the bulk text editors (for keyboard shortcut)
func (p *RequestPanel) SwitchToBulkMode() {
	p.query.tabs.SetMode(modeBulk)
	p.headers.tabs.SetMode(modeBulk)
}

// CreateRenderer returns the widget renderer
func (p *RequestPanel) CreateRenderer() fyne.WidgetRenderer {
	urlBar := container.NewBorder(
		nil, nil,
		p.methodSel,
		p.sendBtn,
		p.urlEntry,
	)

	content := container.NewBorder(
		container.NewVBox(urlBar, widget.NewSeparator()),
		nil, nil, nil,
		p.tabs,
	)
	return widget.NewSimpleRenderer(content)
}
