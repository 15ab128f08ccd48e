package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns stdout, stderr and
// the command error. The config file points at an empty temp directory.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("COURIER_CONFIG", filepath.Join(t.TempDir(), "config.toml"))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// useStorage points the workspace store at a temp directory for the rest
// of the test.
func useStorage(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "storage")
	t.Setenv("COURIER_STORAGE_PATH", dir)
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "Version:    "+Version)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := runCLI(t, "bogus")
	require.Error(t, err)
}
