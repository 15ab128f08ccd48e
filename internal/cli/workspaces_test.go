package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	courierApp "github.com/shhac/courier/internal/app"
	"github.com/shhac/courier/internal/collection"
	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/logging"
	"github.com/shhac/courier/internal/storage"
)

const importFile = `
name: staging
requests:
  - name: health
    url: https://staging.example.com/health
  - name: login
    method: POST
    url: https://staging.example.com/login
    headers:
      - key: Content-Type
        value: application/json
    body: '{"user":"al"}'
    auth:
      type: basic
      username: al
      password: pw
`

func TestImportListExport(t *testing.T) {
	useStorage(t)
	file := writeFile(t, "staging.yaml", importFile)

	out, _, err := runCLI(t, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "saved 2 requests")

	out, _, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "staging\n", out)

	exportPath := filepath.Join(t.TempDir(), "out.yaml")
	_, _, err = runCLI(t, "export", "staging", "-o", exportPath)
	require.NoError(t, err)

	c, err := collection.Load(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Name)
	assert.Equal(t, []string{"health", "login"}, c.Names())
	login, err := c.Find("login")
	require.NoError(t, err)
	assert.Equal(t, "POST", login.Method)
	assert.Equal(t, domain.AuthKindBasic, login.Auth.Type)
}

func TestImport_Conflicts(t *testing.T) {
	useStorage(t)
	file := writeFile(t, "staging.yaml", importFile)

	_, _, err := runCLI(t, "import", file)
	require.NoError(t, err)

	_, _, err = runCLI(t, "import", file)
	require.Error(t, err, "existing workspace is not replaced")

	_, _, err = runCLI(t, "import", file, "--force")
	require.NoError(t, err)

	_, _, err = runCLI(t, "import", file, "--as", courierApp.SessionWorkspace)
	require.Error(t, err, "session name is reserved")
}

func TestImport_RequiresName(t *testing.T) {
	useStorage(t)
	file := writeFile(t, "single.yaml", "url: https://example.com\n")

	_, _, err := runCLI(t, "import", file)
	require.Error(t, err)

	_, _, err = runCLI(t, "import", file, "--as", "single")
	require.NoError(t, err)
}

func TestExport_DefaultsToSession(t *testing.T) {
	dir := useStorage(t)
	repo := storage.NewJSONRepository(dir, logging.NewNopLogger())
	require.NoError(t, repo.SaveWorkspace(domain.Workspace{
		Name:     courierApp.SessionWorkspace,
		Requests: []domain.SavedRequest{{Method: domain.MethodDelete, URL: "https://example.com/x"}},
	}))

	out, _, err := runCLI(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "method: DELETE")
	assert.Contains(t, out, "url: https://example.com/x")

	out, _, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(last session)")
}

func TestExport_Missing(t *testing.T) {
	useStorage(t)
	_, _, err := runCLI(t, "export", "nope")
	require.ErrorIs(t, err, storage.ErrWorkspaceNotFound)
}

func TestExport_WritesFile(t *testing.T) {
	dir := useStorage(t)
	repo := storage.NewJSONRepository(dir, logging.NewNopLogger())
	require.NoError(t, repo.SaveWorkspace(domain.Workspace{
		Name:     "w",
		Requests: []domain.SavedRequest{{Method: domain.MethodGet, URL: "https://example.com"}},
	}))

	path := filepath.Join(t.TempDir(), "w.yaml")
	out, _, err := runCLI(t, "export", "w", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://example.com")
}
