// Package workspace manages the set of open drafts, one per tab.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/shhac/courier/internal/domain"
)

// ErrDraftNotFound is returned for an id that is not open in the workspace.
var ErrDraftNotFound = errors.New("draft not found")

// IDAllocator hands out draft ids. Ids start at 1 and are never reused by
// the same allocator.
type IDAllocator struct {
	last atomic.Uint64
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() domain.DraftID {
	return domain.DraftID(a.last.Add(1))
}

// Workspace is the ordered collection of open drafts and the active one.
type Workspace struct {
	mu     sync.RWMutex
	name   string
	ids    *IDAllocator
	drafts []*domain.Draft
	active domain.DraftID
	logger *slog.Logger
}

// New returns an empty workspace. Drafts it creates draw ids from ids.
func New(name string, ids *IDAllocator, logger *slog.Logger) *Workspace {
	return &Workspace{
		name:   name,
		ids:    ids,
		logger: logger,
	}
}

// Name returns the name the workspace is saved under.
func (w *Workspace) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// Open creates a blank draft, appends it and makes it active.
func (w *Workspace) Open() *domain.Draft {
	d := domain.NewDraft(w.ids.Next())
	w.mu.Lock()
	w.drafts = append(w.drafts, d)
	w.active = d.ID
	w.mu.Unlock()

	w.logger.Debug("draft opened", slog.Uint64("id", uint64(d.ID)))
	return d
}

// OpenSaved rebuilds a saved request as a new active draft.
func (w *Workspace) OpenSaved(s domain.SavedRequest) (*domain.Draft, error) {
	d, err := domain.DraftFromSaved(w.ids.Next(), s)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", s.Name, err)
	}
	w.mu.Lock()
	w.drafts = append(w.drafts, d)
	w.active = d.ID
	w.mu.Unlock()
	return d, nil
}

// Close removes a draft. When the active draft is closed, its right-hand
// neighbour becomes active, or the left-hand one when it was the last tab.
// Sends still in flight for the closed draft finish into its orphaned cell.
func (w *Workspace) Close(id domain.DraftID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrDraftNotFound, id)
	}
	w.drafts = slices.Delete(w.drafts, i, i+1)

	if w.active == id {
		switch {
		case len(w.drafts) == 0:
			w.active = 0
		case i < len(w.drafts):
			w.active = w.drafts[i].ID
		default:
			w.active = w.drafts[len(w.drafts)-1].ID
		}
	}

	w.logger.Debug("draft closed", slog.Uint64("id", uint64(id)))
	return nil
}

// Get returns the open draft with the given id.
func (w *Workspace) Get(id domain.DraftID) (*domain.Draft, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i := w.indexLocked(id); i >= 0 {
		return w.drafts[i], true
	}
	return nil, false
}

// Active returns the active draft, if any draft is open.
func (w *Workspace) Active() (*domain.Draft, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if i := w.indexLocked(w.active); i >= 0 {
		return w.drafts[i], true
	}
	return nil, false
}

// SetActive makes the draft with the given id active.
func (w *Workspace) SetActive(id domain.DraftID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %d", ErrDraftNotFound, id)
	}
	w.active = id
	return nil
}

// Drafts returns the open drafts in tab order.
func (w *Workspace) Drafts() []*domain.Draft {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.drafts)
}

// Len returns the number of open drafts.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.drafts)
}

// Export converts the open drafts to their persisted form. Responses are
// not included.
func (w *Workspace) Export() domain.Workspace {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := domain.Workspace{
		Name:     w.name,
		Requests: make([]domain.SavedRequest, 0, len(w.drafts)),
		Active:   max(w.indexLocked(w.active), 0),
	}
	for _, d := range w.drafts {
		out.Requests = append(out.Requests, d.Save())
	}
	return out
}

// Restore replaces the open drafts with those of a saved workspace. Restored
// drafts get fresh ids. On error the workspace is left unchanged. A saved
// workspace with no requests restores to a single blank draft.
func (w *Workspace) Restore(saved domain.Workspace) error {
	drafts := make([]*domain.Draft, 0, len(saved.Requests))
	for i, s := range saved.Requests {
		d, err := domain.DraftFromSaved(w.ids.Next(), s)
		if err != nil {
			return fmt.Errorf("restore request %d: %w", i, err)
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		drafts = append(drafts, domain.NewDraft(w.ids.Next()))
	}

	active := saved.Active
	if active < 0 || active >= len(drafts) {
		active = 0
	}

	w.mu.Lock()
	if saved.Name != "" {
		w.name = saved.Name
	}
	w.drafts = drafts
	w.active = drafts[active].ID
	w.mu.Unlock()

	w.logger.Info("workspace restored",
		slog.String("name", saved.Name),
		slog.Int("drafts", len(drafts)))
	return nil
}

func (w *Workspace) indexLocked(id domain.DraftID) int {
	return slices.IndexFunc(w.drafts, func(d *domain.Draft) bool { return d.ID == id })
}
