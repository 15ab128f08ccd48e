package response

import (
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/model"
)

func TestResponsePanel_ShowsJSONResponse(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewResponseState()
	p := NewResponsePanel(state)
	w := test.NewWindow(p)
	defer w.Close()

	state.Apply(domain.Response{
		Kind:       domain.KindCompleted,
		Status:     200,
		StatusText: "OK",
		OK:         true,
		Headers:    []domain.Header{{Name: "content-type", Value: "application/json"}},
		BodyRaw:    `{"a":1}`,
		BodyPretty: "{\n  \"a\": 1\n}",
		Duration:   15 * time.Millisecond,
	})

	assert.Equal(t, "200 OK", p.statusLabel.Text)
	assert.Equal(t, widget.SuccessImportance, p.statusLabel.Importance)
	assert.Equal(t, "15 ms", p.durationLabel.Text)
	assert.Equal(t, "application/json", p.contentType.Text())
	assert.Equal(t, `{"a":1}`, p.rawView.Text)
	assert.Equal(t, "{\n  \"a\": 1\n}", p.prettyView.String())
	assert.Equal(t, modePretty, p.viewTabs.GetMode())
}

func TestResponsePanel_FailureShowsRaw(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewResponseState()
	p := NewResponsePanel(state)

	state.Apply(domain.Response{Kind: domain.KindTransportFailure, BodyRaw: "error sending request"})

	assert.Equal(t, widget.DangerImportance, p.statusLabel.Importance)
	assert.Equal(t, modeRaw, p.viewTabs.GetMode())
	assert.Equal(t, "error sending request", p.rawView.Text)
}

func TestResponsePanel_NonSuccessStatus(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewResponseState()
	p := NewResponsePanel(state)

	state.Apply(domain.Response{Kind: domain.KindCompleted, Status: 404, StatusText: "Not Found", BodyRaw: "nope"})

	assert.Equal(t, "404 Not Found", p.statusLabel.Text)
	assert.Equal(t, widget.WarningImportance, p.statusLabel.Importance)
	assert.Equal(t, "nope", p.prettyView.String(), "plain bodies show unhighlighted in the pretty view")
}

func TestResponsePanel_ModeSwitchUpdatesState(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewResponseState()
	p := NewResponsePanel(state)

	p.viewTabs.SetMode(modeRaw)
	pretty, _ := state.Pretty.Get()
	assert.False(t, pretty)

	p.viewTabs.SetMode(modePretty)
	pretty, _ = state.Pretty.Get()
	assert.True(t, pretty)
}

func TestResponsePanel_ClearResponse(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewResponseState()
	p := NewResponsePanel(state)

	state.Apply(domain.Response{Kind: domain.KindCompleted, Status: 200, OK: true, BodyRaw: "x"})
	p.ClearResponse()

	assert.Empty(t, p.statusLabel.Text)
	assert.Empty(t, p.rawView.Text)
	assert.Empty(t, p.contentType.Text())
}

func TestBodyView_BlocksTyping(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewBodyView()
	e.SetBody("fixed")
	test.Type(e, "more")
	assert.Equal(t, "fixed", e.Text)
}

func TestBodyView_TruncatesLargeBody(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	body := strings.Repeat("a", maxViewBytes+10)
	e := NewBodyView()
	e.SetBody(body)

	assert.Equal(t, body, e.Body())
	assert.True(t, strings.HasPrefix(e.Text, strings.Repeat("a", maxViewBytes)))
	assert.Contains(t, e.Text, "truncated")
}

func TestBodyView_CopyWithoutSelectionCopiesAll(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	e := NewBodyView()
	e.SetBody("whole body")
	clipboard := app.Clipboard()
	e.TypedShortcut(&fyne.ShortcutCopy{Clipboard: clipboard})
	assert.Equal(t, "whole body", clipboard.Content())
}

func TestResponsePanel_HeaderCount(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	state := model.NewResponseState()
	p := NewResponsePanel(state)
	state.Apply(domain.Response{
		Kind:    domain.KindCompleted,
		Status:  200,
		OK:      true,
		Headers: []domain.Header{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}},
	})
	assert.Equal(t, "Headers (2)", p.headers.Title())

	p.ClearResponse()
	assert.Equal(t, "Headers", p.headers.Title())
}
