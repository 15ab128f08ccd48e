package storage

import (
	"fmt"
	"slices"
	"sync"

	"github.com/shhac/courier/internal/domain"
)

// MemoryRepository implements Repository using in-memory storage for tests
type MemoryRepository struct {
	workspaces map[string]domain.Workspace
	mu         sync.RWMutex
}

// NewMemoryRepository creates a new in-memory storage repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		workspaces: make(map[string]domain.Workspace),
	}
}

// SaveWorkspace stores a copy of workspace in memory
func (m *MemoryRepository) SaveWorkspace(workspace domain.Workspace) error {
	if err := validateWorkspaceName(workspace.Name); err != nil {
		return fmt.Errorf("invalid workspace name: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	workspace.Requests = slices.Clone(workspace.Requests)
	m.workspaces[workspace.Name] = workspace
	return nil
}

// LoadWorkspace retrieves a workspace from memory
func (m *MemoryRepository) LoadWorkspace(name string) (*domain.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	workspace, ok := m.workspaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, name)
	}
	workspace.Requests = slices.Clone(workspace.Requests)
	return &workspace, nil
}

// ListWorkspaces returns the sorted names of all stored workspaces
func (m *MemoryRepository) ListWorkspaces() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.workspaces))
	for name := range m.workspaces {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// DeleteWorkspace removes a workspace from memory
func (m *MemoryRepository) DeleteWorkspace(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workspaces[name]; !ok {
		return fmt.Errorf("%w: %q", ErrWorkspaceNotFound, name)
	}

	delete(m.workspaces, name)
	return nil
}
