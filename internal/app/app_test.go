package app

import (
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/logging"
	"github.com/shhac/courier/internal/model"
)

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.StoragePath = filepath.Join(dir, "storage")
	cfg.Path = filepath.Join(dir, "config.toml")

	a, err := NewWithLogger(test.NewApp(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	return a
}

func TestNew_StartsWithBlankDraft(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	defer a.Shutdown()

	assert.Equal(t, 1, a.Workspace().Len())
	active, ok := a.Workspace().Active()
	require.True(t, ok)
	assert.Equal(t, domain.MethodGet, active.Method)
	assert.NotNil(t, a.Dispatcher())

	name, _ := a.State().WorkspaceName.Get()
	assert.Equal(t, SessionWorkspace, name)
}

func TestShutdown_SessionRestoredOnNextStart(t *testing.T) {
	dir := t.TempDir()

	first := newTestApp(t, dir)
	d, _ := first.Workspace().Active()
	d.URL = "https://example.com/a"
	second := first.Workspace().Open()
	second.URL = "https://example.com/b"
	second.Method = domain.MethodPost
	first.Shutdown()

	restored := newTestApp(t, dir)
	defer restored.Shutdown()

	drafts := restored.Workspace().Drafts()
	require.Len(t, drafts, 2)
	assert.Equal(t, "https://example.com/a", drafts[0].URL)
	assert.Equal(t, "https://example.com/b", drafts[1].URL)
	assert.Equal(t, domain.MethodPost, drafts[1].Method)

	active, ok := restored.Workspace().Active()
	require.True(t, ok)
	assert.Equal(t, drafts[1].ID, active.ID)
}

func TestApplySettings(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, dir)
	defer a.Shutdown()

	before := a.Dispatcher()
	s := model.Settings{
		RequestTimeout:  5 * time.Second,
		MaxInFlight:     4,
		FollowRedirects: false,
		CancelInFlight:  true,
		SigningFailOpen: true,
	}
	require.NoError(t, a.ApplySettings(s))

	assert.Equal(t, s, a.Settings())
	assert.NotSame(t, before, a.Dispatcher())

	loaded, err := LoadConfig(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, loaded.RequestTimeout)
	assert.Equal(t, 4, loaded.MaxInFlight)
	assert.True(t, loaded.CancelInFlight)
	assert.True(t, loaded.SigningFailOpen)
	assert.False(t, loaded.FollowRedirects)
}

func TestApplySettings_Invalid(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	defer a.Shutdown()

	err := a.ApplySettings(model.Settings{MaxInFlight: 0})
	assert.Error(t, err)
	assert.Equal(t, 16, a.Settings().MaxInFlight)
}
