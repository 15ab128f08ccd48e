package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shhac/courier/internal/domain"
)

const (
	workspacesDir = "workspaces"
	// Saved requests can carry credentials.
	filePermission = 0600
	dirPermission  = 0700
)

// JSONRepository implements Repository using JSON files
type JSONRepository struct {
	basePath string
	logger   *slog.Logger
}

// NewJSONRepository creates a new JSON-based storage repository
func NewJSONRepository(basePath string, logger *slog.Logger) *JSONRepository {
	return &JSONRepository{
		basePath: basePath,
		logger:   logger,
	}
}

// SaveWorkspace saves a workspace to a JSON file
func (r *JSONRepository) SaveWorkspace(workspace domain.Workspace) error {
	path, err := r.pathFor(workspace.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return fmt.Errorf("create workspaces directory: %w", err)
	}
	data, err := json.MarshalIndent(workspace, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}

	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}

	r.logger.Debug("saved workspace",
		slog.String("name", workspace.Name),
		slog.Int("requests", len(workspace.Requests)),
		slog.String("path", path))

	return nil
}

// LoadWorkspace loads a workspace from a JSON file
func (r *JSONRepository) LoadWorkspace(name string) (*domain.Workspace, error) {
	path, err := r.pathFor(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, name)
		}
		return nil, fmt.Errorf("read workspace file: %w", err)
	}

	var workspace domain.Workspace
	if err := json.Unmarshal(data, &workspace); err != nil {
		return nil, fmt.Errorf("unmarshal workspace: %w", err)
	}

	r.logger.Debug("loaded workspace",
		slog.String("name", name),
		slog.String("path", path))

	return &workspace, nil
}

// ListWorkspaces returns the sorted names of all saved workspaces
func (r *JSONRepository) ListWorkspaces() ([]string, error) {
	workspacesPath := filepath.Join(r.basePath, workspacesDir)

	entries, err := os.ReadDir(workspacesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read workspaces directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".json"); ok && !strings.HasPrefix(name, ".tmp-") {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	r.logger.Debug("listed workspaces", slog.Int("count", len(names)))
	return names, nil
}

// DeleteWorkspace removes a workspace file
func (r *JSONRepository) DeleteWorkspace(name string) error {
	path, err := r.pathFor(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrWorkspaceNotFound, name)
		}
		return fmt.Errorf("delete workspace file: %w", err)
	}

	r.logger.Debug("deleted workspace",
		slog.String("name", name),
		slog.String("path", path))

	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// in the same directory, syncing, then renaming over the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// validateWorkspaceName checks that a workspace name is safe for use as a filename.
func validateWorkspaceName(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name must not be empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("workspace name must not contain %q", "..")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("workspace name must not contain path separators")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("workspace name must not contain null bytes")
	}
	return nil
}

// pathFor returns the file of the named workspace. Names that could
// resolve outside the workspaces directory are rejected.
func (r *JSONRepository) pathFor(name string) (string, error) {
	if err := validateWorkspaceName(name); err != nil {
		return "", fmt.Errorf("invalid workspace name: %w", err)
	}
	dir := filepath.Join(r.basePath, workspacesDir)
	path := filepath.Join(dir, name+".json")
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q escapes workspaces directory", path)
	}
	return path, nil
}
