package request

import (
	"log/slog"
	"sync"

	"fyne.io/fyne/v2/data/binding"

	"github.com/shhac/courier/internal/domain"
)

const (
	modeTable = "table"
	modeBulk  = "bulk"
)

// paramsTable is the row editor side of a Table/Bulk pair.
type paramsTable interface {
	Params() domain.Params
	SetParams(domain.Params)
}

// ModeSynchronizer keeps the Table and Bulk views of one parameter list in
// step.
//
// A single syncing flag guards every sync operation. SwitchMode is the only
// entry point for mode changes and the sync functions run only from inside
// it, so listeners fired by the mode or bulk bindings see syncing=true and
// return early instead of syncing again.
type ModeSynchronizer struct {
	mu      sync.Mutex
	syncing bool
	mode    binding.String // Current mode: "table" or "bulk"
	bulk    binding.String // "key:value" lines
	table   paramsTable
	logger  *slog.Logger

	onModeChanged func(mode string) // Called AFTER sync completes
}

// NewModeSynchronizer creates a new mode synchronizer
func NewModeSynchronizer(mode binding.String, bulk binding.String, table paramsTable, logger *slog.Logger) *ModeSynchronizer {
	return &ModeSynchronizer{
		mode:   mode,
		bulk:   bulk,
		table:  table,
		logger: logger,
	}
}

// SetOnModeChanged sets callback for when mode changes complete
func (s *ModeSynchronizer) SetOnModeChanged(fn func(mode string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onModeChanged = fn
}

// IsSyncing returns whether a sync operation is in progress.
// External listeners should check this and return early if true.
func (s *ModeSynchronizer) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// SwitchMode switches to the specified mode and carries the list across.
// The callback runs after syncing is reset, even when the mode did not
// change.
func (s *ModeSynchronizer) SwitchMode(targetMode string) {
	if !s.begin() {
		return
	}

	defer func() {
		s.mu.Lock()
		s.syncing = false
		callback := s.onModeChanged
		s.mu.Unlock()

		if callback != nil {
			callback(targetMode)
		}
	}()

	currentMode, _ := s.mode.Get()
	if currentMode == targetMode {
		return
	}

	switch targetMode {
	case modeBulk:
		s.syncTableToBulk()
	case modeTable:
		s.syncBulkToTable()
	default:
		s.logger.Warn("unknown parameter editor mode", slog.String("mode", targetMode))
		return
	}
	_ = s.mode.Set(targetMode)
}

// GetMode returns the current mode
func (s *ModeSynchronizer) GetMode() string {
	mode, _ := s.mode.Get()
	if mode == "" {
		return modeTable
	}
	return mode
}

// Current returns the list as shown by the active view. In Bulk mode the
// text is parsed without switching views.
func (s *ModeSynchronizer) Current() domain.Params {
	if s.GetMode() == modeBulk {
		text, _ := s.bulk.Get()
		return domain.ParseBulk(text)
	}
	return s.table.Params()
}

// Load shows ps in both views without changing the mode.
func (s *ModeSynchronizer) Load(ps domain.Params) {
	if !s.begin() {
		return
	}
	defer s.end()

	s.table.SetParams(ps)
	_ = s.bulk.Set(ps.Bulk())
}

// SyncBulkToTableNow copies the bulk text into the table immediately.
// Unlike SwitchMode, this doesn't change the mode.
func (s *ModeSynchronizer) SyncBulkToTableNow() {
	if !s.begin() {
		return
	}
	defer s.end()

	s.syncBulkToTable()
}

func (s *ModeSynchronizer) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing {
		return false
	}
	s.syncing = true
	return true
}

func (s *ModeSynchronizer) end() {
	s.mu.Lock()
	s.syncing = false
	s.mu.Unlock()
}

// syncTableToBulk renders the table rows as text.
// Only called while syncing=true.
func (s *ModeSynchronizer) syncTableToBulk() {
	_ = s.bulk.Set(s.table.Params().Bulk())
}

// syncBulkToTable parses the text into table rows.
// Only called while syncing=true.
func (s *ModeSynchronizer) syncBulkToTable() {
	text, _ := s.bulk.Get()
	ps := domain.ParseBulk(text)
	s.logger.Debug("bulk parameters parsed", slog.Int("rows", len(ps)))
	s.table.SetParams(ps)
}
