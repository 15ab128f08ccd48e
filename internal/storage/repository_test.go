package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkspace(name string) domain.Workspace {
	return domain.Workspace{
		Name:   name,
		Active: 1,
		Requests: []domain.SavedRequest{
			{
				Name:   "list users",
				Method: domain.MethodGet,
				URL:    "https://api.example.com/users",
				Query:  domain.Params{domain.NewParam("page", "2"), {Enabled: false, Key: "debug", Value: "1"}},
				Auth:   domain.Envelope(domain.BearerAuth{Token: "abc"}),
			},
			{
				Name:    "upload",
				Method:  domain.MethodPost,
				URL:     "https://bucket.s3.amazonaws.com/key",
				Headers: domain.Params{domain.NewParam("Content-Type", "text/plain")},
				Body:    "hello",
				Auth: domain.Envelope(domain.AWSSigV4Auth{
					AccessKey: "AKID", SecretKey: "secret", Region: "eu-west-1", Service: "s3",
				}),
			},
		},
	}
}

// repositories runs the same contract against both implementations.
func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"json":   NewJSONRepository(t.TempDir(), logging.NewNopLogger()),
		"memory": NewMemoryRepository(),
	}
}

func TestRepository_RoundTrip(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ws := sampleWorkspace("session")
			require.NoError(t, repo.SaveWorkspace(ws))

			loaded, err := repo.LoadWorkspace("session")
			require.NoError(t, err)
			assert.Equal(t, ws, *loaded)

			scheme, err := loaded.Requests[1].Auth.Scheme()
			require.NoError(t, err)
			assert.Equal(t, domain.AWSSigV4Auth{AccessKey: "AKID", SecretKey: "secret", Region: "eu-west-1", Service: "s3"}, scheme)
		})
	}
}

func TestRepository_ListAndDelete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			names, err := repo.ListWorkspaces()
			require.NoError(t, err)
			assert.Empty(t, names)

			require.NoError(t, repo.SaveWorkspace(sampleWorkspace("zeta")))
			require.NoError(t, repo.SaveWorkspace(sampleWorkspace("alpha")))

			names, err = repo.ListWorkspaces()
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "zeta"}, names)

			require.NoError(t, repo.DeleteWorkspace("zeta"))
			names, err = repo.ListWorkspaces()
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha"}, names)

			assert.ErrorIs(t, repo.DeleteWorkspace("zeta"), ErrWorkspaceNotFound)
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.LoadWorkspace("missing")
			assert.ErrorIs(t, err, ErrWorkspaceNotFound)
		})
	}
}

func TestRepository_OverwriteReplaces(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.SaveWorkspace(sampleWorkspace("session")))
			require.NoError(t, repo.SaveWorkspace(domain.Workspace{Name: "session"}))

			loaded, err := repo.LoadWorkspace("session")
			require.NoError(t, err)
			assert.Empty(t, loaded.Requests)
		})
	}
}

func TestJSONRepository_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	repo := NewJSONRepository(dir, logging.NewNopLogger())
	require.NoError(t, os.MkdirAll(filepath.Join(dir, workspacesDir), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, workspacesDir, "bad.json"), []byte("{not json"), 0o600))

	_, err := repo.LoadWorkspace("bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestMemoryRepository_SaveCopiesRequests(t *testing.T) {
	repo := NewMemoryRepository()
	ws := sampleWorkspace("session")
	require.NoError(t, repo.SaveWorkspace(ws))

	ws.Requests[0].Name = "mutated"
	loaded, err := repo.LoadWorkspace("session")
	require.NoError(t, err)
	assert.Equal(t, "list users", loaded.Requests[0].Name)
}
