package response

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/courier/internal/model"
	"github.com/shhac/courier/internal/ui/components"
)

const (
	modePretty = "pretty"
	modeRaw    = "raw"
)

// ResponsePanel displays the response of the active tab with reactive
// binding to state.
type ResponsePanel struct {
	widget.BaseWidget

	state         *model.ResponseState
	statusLabel   *widget.Label
	durationLabel *widget.Label
	sizeLabel     *widget.Label
	contentType   *components.HintLabel
	loadingBar    *widget.ProgressBarInfinite

	prettyView *widget.RichText
	rawView    *BodyView
	viewTabs   *components.ModeTabs

	headerList *widget.List
	headers    *components.CollapsibleSection
}

// NewResponsePanel creates a new response panel bound to the application state.
func NewResponsePanel(state *model.ResponseState) *ResponsePanel {
	p := &ResponsePanel{
		state: state,
	}
	p.ExtendBaseWidget(p)
	p.initializeComponents()
	p.setupBindings()
	return p
}

// initializeComponents creates all UI components.
func (p *ResponsePanel) initializeComponents() {
	p.statusLabel = widget.NewLabel("")
	p.statusLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.durationLabel = widget.NewLabel("")
	p.sizeLabel = widget.NewLabel("")
	p.contentType = components.NewHintLabel("", 32)

	p.loadingBar = widget.NewProgressBarInfinite()
	p.loadingBar.Hide()

	p.prettyView = widget.NewRichText()
	p.prettyView.Wrapping = fyne.TextWrapBreak

	p.rawView = NewBodyView()

	p.viewTabs = components.NewModeTabs(
		"Pretty", container.NewScroll(p.prettyView),
		"Raw", p.rawView,
	)
	p.viewTabs.SetOnModeChange(func(mode string) {
		p.state.SetPretty(mode == modePretty)
	})

	p.headerList = widget.NewListWithData(
		p.state.Headers,
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.TextStyle = fyne.TextStyle{Monospace: true}
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)
	p.headers = components.NewCollapsibleSection("Headers", p.headerList)
}

// setupBindings establishes reactive bindings to the state.
func (p *ResponsePanel) setupBindings() {
	p.statusLabel.Bind(p.state.Status)
	p.durationLabel.Bind(p.state.Duration)
	p.sizeLabel.Bind(p.state.Size)

	p.state.Loading.AddListener(binding.NewDataListener(func() {
		loading, _ := p.state.Loading.Get()
		if loading {
			p.loadingBar.Start()
			p.loadingBar.Show()
		} else {
			p.loadingBar.Stop()
			p.loadingBar.Hide()
		}
	}))

	p.state.Status.AddListener(binding.NewDataListener(p.refreshStatusStyle))
	p.state.OK.AddListener(binding.NewDataListener(p.refreshStatusStyle))
	p.state.Failed.AddListener(binding.NewDataListener(p.refreshStatusStyle))

	p.state.Body.AddListener(binding.NewDataListener(p.refreshBody))
	p.state.Headers.AddListener(binding.NewDataListener(p.refreshHeaders))
}

// refreshStatusStyle colors the status line by outcome.
func (p *ResponsePanel) refreshStatusStyle() {
	ok, _ := p.state.OK.Get()
	failed, _ := p.state.Failed.Get()
	status, _ := p.state.Status.Get()

	switch {
	case failed:
		p.statusLabel.Importance = widget.DangerImportance
	case ok:
		p.statusLabel.Importance = widget.SuccessImportance
	case status != "":
		p.statusLabel.Importance = widget.WarningImportance
	default:
		p.statusLabel.Importance = widget.MediumImportance
	}
	p.statusLabel.Refresh()
}

// refreshBody redraws both body views.
func (p *ResponsePanel) refreshBody() {
	raw := p.state.RawBody()
	if pretty := p.state.PrettyBody(); pretty != "" {
		p.prettyView.Segments = highlightJSON(pretty)
	} else if raw != "" {
		p.prettyView.Segments = []widget.RichTextSegment{plainSegment(raw)}
	} else {
		p.prettyView.Segments = nil
	}
	p.prettyView.Refresh()
	p.rawView.SetBody(raw)

	failed, _ := p.state.Failed.Get()
	if failed {
		p.viewTabs.SetMode(modeRaw)
	}
}

// refreshHeaders updates the header count and the content-type hint.
func (p *ResponsePanel) refreshHeaders() {
	lines, _ := p.state.Headers.Get()
	p.headers.SetCount(len(lines))

	contentType := ""
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(name, "Content-Type") {
			contentType = strings.TrimSpace(value)
			break
		}
	}
	p.contentType.SetText(contentType)
}

// ClearResponse resets the panel (for keyboard shortcut).
func (p *ResponsePanel) ClearResponse() {
	p.state.Clear()
}

// CreateRenderer implements fyne.Widget.
func (p *ResponsePanel) CreateRenderer() fyne.WidgetRenderer {
	summary := container.NewHBox(
		p.statusLabel,
		p.durationLabel,
		p.sizeLabel,
		p.contentType,
	)

	content := container.NewBorder(
		container.NewVBox(summary, p.headers),
		p.loadingBar,
		nil,
		nil,
		p.viewTabs,
	)

	return widget.NewSimpleRenderer(content)
}

// MinSize implements fyne.Widget (optional, provides reasonable defaults).
func (p *ResponsePanel) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}
