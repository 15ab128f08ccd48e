package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/shhac/courier/internal/dispatch"
	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/model"
	"github.com/shhac/courier/internal/storage"
	uierrors "github.com/shhac/courier/internal/ui/errors"
	"github.com/shhac/courier/internal/ui/request"
	"github.com/shhac/courier/internal/ui/response"
	"github.com/shhac/courier/internal/ui/settings"
	uiworkspace "github.com/shhac/courier/internal/ui/workspace"
	"github.com/shhac/courier/internal/workspace"
)

// pollInterval is how often the active tab's response cell is checked.
const pollInterval = 100 * time.Millisecond

// AppController defines the interface for app-level operations needed by the UI
type AppController interface {
	State() *model.ApplicationState
	Logger() *slog.Logger
	Workspace() *workspace.Workspace
	Dispatcher() *dispatch.Dispatcher
	Storage() storage.Repository
	Settings() model.Settings
	ApplySettings(model.Settings) error
	SaveSession() error
}

// MainWindow manages the main application window and its layout.
type MainWindow struct {
	window    fyne.Window
	fyneApp   fyne.App
	state     *model.ApplicationState
	logger    *slog.Logger
	app       AppController
	workspace *workspace.Workspace

	// One tab per open draft. Tab contents are empty; the request and
	// response panels below the tab bar show the selected draft.
	tabs       *container.DocTabs
	tabIDs     map[*container.TabItem]domain.DraftID
	rebuilding bool

	// Panel widgets
	requestPanel   *request.RequestPanel
	responsePanel  *response.ResponsePanel
	statusBar      *uierrors.StatusBar
	workspacePanel *uiworkspace.WorkspacePanel

	// Generation of the active cell last shown, and whether it was in flight.
	shownDraft domain.DraftID
	shownGen   uint64
	shownBusy  bool

	stopOnce sync.Once
	stopPoll chan struct{}
}

// NewMainWindow creates a new main window with the application layout.
// The window is split horizontally with:
//   - Left side: Workspace panel
//   - Right side: tab bar, Request Panel (top), Response Panel (middle), Status Bar (bottom)
func NewMainWindow(fyneApp fyne.App, app AppController) *MainWindow {
	window := fyneApp.NewWindow("Courier")

	mw := &MainWindow{
		window:    window,
		fyneApp:   fyneApp,
		state:     app.State(),
		logger:    app.Logger(),
		app:       app,
		workspace: app.Workspace(),
		tabIDs:    make(map[*container.TabItem]domain.DraftID),
		stopPoll:  make(chan struct{}),
	}

	mw.requestPanel = request.NewRequestPanel(mw.logger)
	mw.responsePanel = response.NewResponsePanel(mw.state.Response)
	mw.statusBar = uierrors.NewStatusBar(mw.state.Status)
	mw.workspacePanel = uiworkspace.NewWorkspacePanel(app.Storage(), mw.logger, window, mw.workspace.Name())

	mw.tabs = container.NewDocTabs()
	mw.tabs.CreateTab = func() *container.TabItem {
		return mw.newTab(mw.workspace.Open())
	}
	mw.tabs.OnSelected = mw.handleTabSelected
	mw.tabs.OnClosed = mw.handleTabClosed
	mw.rebuildTabs()

	mw.wireCallbacks()
	mw.SetContent()
	mw.setupMainMenu()
	mw.setupKeyboardShortcuts()

	window.Resize(fyne.NewSize(1200, 800))
	window.SetOnClosed(mw.stopPolling)

	return mw
}

// wireCallbacks sets up all the event handlers and connects components
func (w *MainWindow) wireCallbacks() {
	w.requestPanel.SetOnSend(w.handleSend)
	w.requestPanel.SetOnChanged(w.refreshTabTitle)

	w.workspacePanel.SetOnSave(w.workspace.Export)
	w.workspacePanel.SetOnLoad(w.handleWorkspaceLoad)
}

// newTab creates the tab for d and records its id.
func (w *MainWindow) newTab(d *domain.Draft) *container.TabItem {
	item := container.NewTabItem(d.Title(), layout.NewSpacer())
	w.tabIDs[item] = d.ID
	return item
}

// rebuildTabs recreates the tab bar from the workspace and selects the
// active draft.
func (w *MainWindow) rebuildTabs() {
	clear(w.tabIDs)
	drafts := w.workspace.Drafts()
	items := make([]*container.TabItem, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, w.newTab(d))
	}

	// SetItems may select the first tab; the workspace's active draft wins.
	w.rebuilding = true
	w.tabs.SetItems(items)
	w.rebuilding = false
	w.selectActive()
}

// selectActive selects the tab of the workspace's active draft and shows it.
func (w *MainWindow) selectActive() {
	active, ok := w.workspace.Active()
	if !ok {
		w.requestPanel.Load(nil)
		w.responsePanel.ClearResponse()
		return
	}
	if item := w.tabFor(active.ID); item != nil && w.tabs.Selected() != item {
		w.tabs.Select(item)
	}
	w.showDraft(active)
}

func (w *MainWindow) tabFor(id domain.DraftID) *container.TabItem {
	for item, itemID := range w.tabIDs {
		if itemID == id {
			return item
		}
	}
	return nil
}

func (w *MainWindow) handleTabSelected(item *container.TabItem) {
	if w.rebuilding {
		return
	}
	id, ok := w.tabIDs[item]
	if !ok {
		return
	}
	if err := w.workspace.SetActive(id); err != nil {
		w.logger.Warn("selected tab has no draft", slog.Uint64("draft", uint64(id)))
		return
	}
	if d, ok := w.workspace.Get(id); ok {
		w.showDraft(d)
	}
}

func (w *MainWindow) handleTabClosed(item *container.TabItem) {
	id, ok := w.tabIDs[item]
	if !ok {
		return
	}
	delete(w.tabIDs, item)

	if d, ok := w.workspace.Get(id); ok {
		d.Response().Cancel()
	}
	if err := w.workspace.Close(id); err != nil {
		w.logger.Warn("failed to close draft", slog.Any("error", err))
	}
	if w.workspace.Len() == 0 {
		w.tabs.Append(w.newTab(w.workspace.Open()))
	}
	w.selectActive()
}

// NewTab opens a blank draft in a new tab (for keyboard shortcut).
func (w *MainWindow) NewTab() {
	item := w.newTab(w.workspace.Open())
	w.tabs.Append(item)
	w.tabs.Select(item)
}

// CloseActiveTab closes the selected tab (for keyboard shortcut).
func (w *MainWindow) CloseActiveTab() {
	item := w.tabs.Selected()
	if item == nil {
		return
	}
	w.tabs.Remove(item)
	w.handleTabClosed(item)
}

// showDraft loads d into the request panel and redraws its response.
func (w *MainWindow) showDraft(d *domain.Draft) {
	w.requestPanel.Load(d)
	w.refreshResponse(d, true)
}

func (w *MainWindow) refreshTabTitle(d *domain.Draft) {
	if d == nil {
		return
	}
	if item := w.tabFor(d.ID); item != nil && item.Text != d.Title() {
		item.Text = d.Title()
		w.tabs.Refresh()
	}
}

// handleSend starts a background send of d. Only request assembly errors
// are reported here; the outcome arrives through the response cell.
func (w *MainWindow) handleSend(d *domain.Draft) {
	w.logger.Debug("sending request",
		slog.Uint64("draft", uint64(d.ID)),
		slog.String("method", d.Method.String()),
		slog.String("url", d.URL),
	)

	if err := w.app.Dispatcher().Send(d); err != nil {
		w.statusBar.SetStatus(uierrors.LevelError, err.Error())
		uierrors.ShowError(err, w.window, nil)
		return
	}
	w.refreshResponse(d, false)
}

// handleCancel aborts the active tab's running send, if any.
func (w *MainWindow) handleCancel() {
	d, ok := w.workspace.Active()
	if !ok {
		return
	}
	if d.Response().Cancel() {
		w.logger.Info("request cancelled by user", slog.Uint64("draft", uint64(d.ID)))
		w.statusBar.SetStatus(uierrors.LevelIdle, "Cancelling...")
		return
	}
	w.logger.Debug("no active request to cancel")
}

func (w *MainWindow) handleWorkspaceLoad(saved domain.Workspace) {
	// Keep the session name so the loaded tabs are what gets restored next time.
	saved.Name = w.workspace.Name()
	if err := w.workspace.Restore(saved); err != nil {
		uierrors.ShowError(err, w.window, nil)
		return
	}
	w.rebuildTabs()
	w.statusBar.SetStatus(uierrors.LevelIdle, fmt.Sprintf("Opened %d requests", w.workspace.Len()))
}

// StartPolling watches the active tab's response cell until the window closes.
func (w *MainWindow) StartPolling() {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stopPoll:
				return
			case <-ticker.C:
				fyne.Do(w.pollActive)
			}
		}
	}()
}

func (w *MainWindow) stopPolling() {
	w.stopOnce.Do(func() { close(w.stopPoll) })
}

// pollActive redraws the response panel when the active cell changed.
func (w *MainWindow) pollActive() {
	d, ok := w.workspace.Active()
	if !ok {
		return
	}
	w.refreshResponse(d, false)
}

// refreshResponse shows the stored response of d if its generation or
// in-flight state differs from what is on screen. force redraws regardless.
func (w *MainWindow) refreshResponse(d *domain.Draft, force bool) {
	cell := d.Response()
	gen := cell.Generation()
	busy := cell.InFlight() > 0

	if !force && d.ID == w.shownDraft && gen == w.shownGen && busy == w.shownBusy {
		return
	}
	w.shownDraft, w.shownGen, w.shownBusy = d.ID, gen, busy

	resp, ok := cell.Load()
	if ok {
		w.state.Response.Apply(resp)
	} else {
		w.state.Response.Clear()
	}
	_ = w.state.Response.Loading.Set(busy)

	switch {
	case busy:
		w.statusBar.SetStatus(uierrors.LevelSending, "")
	case !ok:
		w.statusBar.SetStatus(uierrors.LevelIdle, "")
	case resp.Kind == domain.KindCompleted:
		w.statusBar.SetStatus(uierrors.LevelOK, resp.StatusLine()+" in "+model.FormatDuration(resp.Duration))
	default:
		msg := resp.StatusLine()
		if line, _, _ := strings.Cut(resp.BodyRaw, "\n"); line != "" {
			msg += ": " + line
		}
		w.statusBar.SetStatus(uierrors.LevelError, msg)
	}
}

// ShowPreferences opens the preferences dialog.
func (w *MainWindow) ShowPreferences() {
	settings.ShowPreferencesDialog(w.fyneApp, w.window, w.app.Settings(), settings.PreferencesCallbacks{
		OnApply: w.app.ApplySettings,
		OnThemeChange: func(mode string) {
			ApplyTheme(w.fyneApp, mode)
		},
	})
}

// setupMainMenu installs the File and Help menus.
func (w *MainWindow) setupMainMenu() {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New Tab", w.NewTab),
		fyne.NewMenuItem("Close Tab", w.CloseActiveTab),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Workspace...", w.workspacePanel.TriggerSave),
		fyne.NewMenuItem("Save Session", func() {
			if err := w.app.SaveSession(); err != nil {
				uierrors.ShowError(err, w.window, nil)
				return
			}
			w.statusBar.SetStatus(uierrors.LevelIdle, "Session saved")
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", w.ShowPreferences),
	)
	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("Keyboard Shortcuts", func() { ShowShortcutDialog(w.window) }),
		fyne.NewMenuItem("About Courier", func() { ShowAboutDialog(w.window) }),
	)
	w.window.SetMainMenu(fyne.NewMainMenu(file, help))
}

// SetContent builds and sets the main window layout.
// Layout structure:
//
//	┌─────────────────┬──────────────────────────────┐
//	│                 │  Tab bar                     │
//	│                 ├──────────────────────────────┤
//	│  Workspaces     │      Request Panel           │
//	│                 ├──────────────────────────────┤
//	│                 │      Response Panel          │
//	│                 ├──────────────────────────────┤
//	│                 │      Status Bar              │
//	└─────────────────┴──────────────────────────────┘
func (w *MainWindow) SetContent() {
	panels := container.NewVSplit(
		w.requestPanel,
		w.responsePanel,
	)
	panels.SetOffset(0.45)

	rightPanel := container.NewBorder(
		w.tabs,      // top (tab bar)
		w.statusBar, // bottom (status bar)
		nil,
		nil,
		panels,
	)

	mainSplit := container.NewHSplit(
		w.workspacePanel,
		rightPanel,
	)

	// 20% for workspaces, 80% for the request and response
	mainSplit.SetOffset(0.2)

	w.window.SetContent(mainSplit)
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
