package request

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/logging"
)

func TestRequestPanel_LoadShowsDraft(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	d := domain.NewDraft(1)
	d.Method = domain.MethodPost
	d.URL = "https://example.com/items"
	d.Query = domain.Params{domain.NewParam("page", "2")}
	d.Body = `{"a":1}`
	d.Auth = domain.BearerAuth{Token: "t"}

	p := NewRequestPanel(logging.NewNopLogger())
	p.Load(d)

	assert.Equal(t, "POST", p.methodSel.Selected)
	assert.Equal(t, "https://example.com/items", p.urlEntry.Text)
	assert.Equal(t, d.Query, p.query.table.Params())
	assert.Equal(t, `{"a":1}`, p.body.Text)
	assert.Equal(t, domain.BearerAuth{Token: "t"}, p.auth.Scheme())
	assert.Same(t, d, p.Draft())
}

func TestRequestPanel_LoadDoesNotModifyDraft(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	d := domain.NewDraft(1)
	d.URL = "https://example.com"
	d.Query = domain.Params{{Enabled: false, Key: "off", Value: "1"}}

	changes := 0
	p := NewRequestPanel(logging.NewNopLogger())
	p.SetOnChanged(func(*domain.Draft) { changes++ })
	p.Load(d)

	assert.Equal(t, 0, changes)
	assert.False(t, d.Query[0].Enabled)
}

func TestRequestPanel_EditsWriteThrough(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	d := domain.NewDraft(1)
	p := NewRequestPanel(logging.NewNopLogger())
	p.Load(d)

	var changed *domain.Draft
	p.SetOnChanged(func(d *domain.Draft) { changed = d })

	test.Type(p.urlEntry, "https://example.com")
	assert.Equal(t, "https://example.com", d.URL)
	assert.Same(t, d, changed)

	p.methodSel.SetSelected("PUT")
	assert.Equal(t, domain.MethodPut, d.Method)

	test.Type(p.body, "hello")
	assert.Equal(t, "hello", d.Body)

	p.auth.kindSel.SetSelected("Bearer")
	assert.Equal(t, domain.BearerAuth{}, d.Auth)

	p.headers.table.SetParams(domain.Params{domain.NewParam("X-A", "1")})
	p.headers.table.Add()
	require.Len(t, d.Headers, 2)
	assert.Equal(t, "X-A", d.Headers[0].Key)
}

func TestRequestPanel_BulkEditWritesThrough(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	d := domain.NewDraft(1)
	p := NewRequestPanel(logging.NewNopLogger())
	p.Load(d)

	p.SwitchToBulkMode()
	p.query.bulk.SetText("a:1\nb:2")
	assert.Equal(t, domain.Params{domain.NewParam("a", "1"), domain.NewParam("b", "2")}, d.Query)

	p.SwitchToTableMode()
	assert.Equal(t, d.Query, p.query.table.Params())
}

func TestRequestPanel_SwitchingDraftsRedirectsEdits(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	first := domain.NewDraft(1)
	second := domain.NewDraft(2)
	p := NewRequestPanel(logging.NewNopLogger())

	p.Load(first)
	test.Type(p.urlEntry, "a")
	p.Load(second)
	test.Type(p.urlEntry, "b")

	assert.Equal(t, "a", first.URL)
	assert.Equal(t, "b", second.URL)
}

func TestRequestPanel_Send(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	p := NewRequestPanel(logging.NewNopLogger())
	var sent []*domain.Draft
	p.SetOnSend(func(d *domain.Draft) { sent = append(sent, d) })

	p.TriggerSend()
	assert.Empty(t, sent, "nothing to send without a draft")

	d := domain.NewDraft(1)
	p.Load(d)
	test.Tap(p.sendBtn)
	p.TriggerSend()
	assert.Equal(t, []*domain.Draft{d, d}, sent)

	p.Load(nil)
	assert.True(t, p.sendBtn.Disabled())
}
