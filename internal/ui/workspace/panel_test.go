package workspace

import (
	"bytes"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/logging"
	"github.com/shhac/courier/internal/storage"
)

func newTestPanel(t *testing.T, repo storage.Repository) *WorkspacePanel {
	t.Helper()
	w := test.NewWindow(widget.NewLabel(""))
	t.Cleanup(w.Close)
	return NewWorkspacePanel(repo, logging.NewNopLogger(), w, "session")
}

func openTabs() domain.Workspace {
	return domain.Workspace{
		Name: "session",
		Requests: []domain.SavedRequest{{
			Name:   "ping",
			Method: domain.MethodGet,
			URL:    "https://example.com/ping",
			Auth:   domain.Envelope(domain.BearerAuth{Token: "${TOKEN}"}),
		}},
	}
}

func TestWorkspacePanel_HidesReservedNames(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	repo := storage.NewMemoryRepository()
	require.NoError(t, repo.SaveWorkspace(domain.Workspace{Name: "session"}))
	require.NoError(t, repo.SaveWorkspace(domain.Workspace{Name: "api"}))

	p := newTestPanel(t, repo)
	names, _ := p.workspaceList.Get()
	assert.Equal(t, []string{"api"}, names)
	assert.False(t, p.placeholder.Visible())
}

func TestWorkspacePanel_SaveAndLoad(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	repo := storage.NewMemoryRepository()
	p := newTestPanel(t, repo)
	assert.True(t, p.placeholder.Visible())

	p.SetOnSave(openTabs)
	var loaded domain.Workspace
	p.SetOnLoad(func(ws domain.Workspace) { loaded = ws })

	p.nameEntry.SetText("mine")
	p.TriggerSave()

	saved, err := repo.LoadWorkspace("mine")
	require.NoError(t, err)
	assert.Equal(t, "mine", saved.Name)
	assert.Len(t, saved.Requests, 1)

	p.TriggerLoad()
	assert.Equal(t, "mine", loaded.Name)
	assert.Equal(t, "https://example.com/ping", loaded.Requests[0].URL)
}

func TestWorkspacePanel_SaveRejectsReservedName(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	repo := storage.NewMemoryRepository()
	p := newTestPanel(t, repo)
	p.SetOnSave(openTabs)

	p.nameEntry.SetText("session")
	p.TriggerSave()

	_, err := repo.LoadWorkspace("session")
	assert.ErrorIs(t, err, storage.ErrWorkspaceNotFound)
}

func TestWorkspacePanel_ExportImportKeepsReferences(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	p := newTestPanel(t, storage.NewMemoryRepository())
	p.SetOnSave(openTabs)

	var buf bytes.Buffer
	require.NoError(t, p.ExportTo(&buf))
	assert.Contains(t, buf.String(), "${TOKEN}")

	ws, err := p.ImportFrom(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, ws.Requests, 1)
	scheme, err := ws.Requests[0].Auth.Scheme()
	require.NoError(t, err)
	assert.Equal(t, domain.BearerAuth{Token: "${TOKEN}"}, scheme)
}

func TestWorkspacePanel_ImportInvalid(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	p := newTestPanel(t, storage.NewMemoryRepository())
	_, err := p.ImportFrom(strings.NewReader("requests: [{name: x, method: BREW, url: http://a}]"))
	assert.Error(t, err)
}
