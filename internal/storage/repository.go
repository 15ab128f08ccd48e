package storage

import (
	"errors"

	"github.com/shhac/courier/internal/domain"
)

// ErrWorkspaceNotFound is returned when no workspace with the given name is saved.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// Repository defines persistence operations for saved workspaces
type Repository interface {
	SaveWorkspace(workspace domain.Workspace) error
	LoadWorkspace(name string) (*domain.Workspace, error)
	ListWorkspaces() ([]string, error)
	DeleteWorkspace(name string) error
}
