package workspace

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/courier/internal/collection"
	"github.com/shhac/courier/internal/domain"
	repo "github.com/shhac/courier/internal/storage"
)

// WorkspacePanel provides workspace management UI: saving the open tabs
// under a name, loading them back, and exchanging them as YAML collections.
type WorkspacePanel struct {
	widget.BaseWidget

	storage repo.Repository
	logger  *slog.Logger
	window  fyne.Window
	hidden  []string

	// UI components
	workspaceList binding.StringList
	listWidget    *widget.List
	nameEntry     *widget.Entry
	saveBtn       *widget.Button
	loadBtn       *widget.Button
	deleteBtn     *widget.Button
	newBtn        *widget.Button
	importBtn     *widget.Button
	exportBtn     *widget.Button

	// Empty state
	placeholder *widget.Label

	// Callbacks
	onLoad func(workspace domain.Workspace)
	onSave func() domain.Workspace

	// Content container
	content *fyne.Container
}

// NewWorkspacePanel creates a new workspace management panel. Workspaces
// named in hidden are kept out of the list.
func NewWorkspacePanel(storage repo.Repository, logger *slog.Logger, window fyne.Window, hidden ...string) *WorkspacePanel {
	p := &WorkspacePanel{
		storage:       storage,
		logger:        logger,
		window:        window,
		hidden:        hidden,
		workspaceList: binding.NewStringList(),
	}

	p.ExtendBaseWidget(p)
	p.buildUI()
	p.initializeComponents()
	p.RefreshList()

	return p
}

// buildUI constructs the workspace panel UI
func (p *WorkspacePanel) buildUI() {
	p.listWidget = widget.NewListWithData(
		p.workspaceList,
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i binding.DataItem, o fyne.CanvasObject) {
			o.(*widget.Label).Bind(i.(binding.String))
		},
	)

	p.listWidget.OnSelected = func(id widget.ListItemID) {
		items, _ := p.workspaceList.Get()
		if id >= 0 && id < len(items) {
			p.nameEntry.SetText(items[id])
		}
	}

	p.nameEntry = widget.NewEntry()
	p.nameEntry.SetPlaceHolder("Workspace name")

	p.placeholder = widget.NewLabel("No saved workspaces yet. Name the open tabs and press Save.")
	p.placeholder.Alignment = fyne.TextAlignCenter
	p.placeholder.Wrapping = fyne.TextWrapWord
	p.placeholder.TextStyle = fyne.TextStyle{Italic: true}

	p.saveBtn = widget.NewButton("Save", p.handleSave)
	p.loadBtn = widget.NewButton("Load", p.handleLoad)
	p.deleteBtn = widget.NewButton("Delete", p.handleDelete)
	p.deleteBtn.Importance = widget.DangerImportance
	p.newBtn = widget.NewButton("New", p.handleNew)
	p.importBtn = widget.NewButton("Import YAML", p.handleImport)
	p.exportBtn = widget.NewButton("Export YAML", p.handleExport)
}

// initializeComponents creates the layout once and stores it in p.content.
func (p *WorkspacePanel) initializeComponents() {
	title := widget.NewLabelWithStyle("Workspaces", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	buttonRow := container.NewGridWithColumns(2, p.saveBtn, p.loadBtn)
	actionRow := container.NewGridWithColumns(2, p.deleteBtn, p.newBtn)
	yamlRow := container.NewGridWithColumns(2, p.importBtn, p.exportBtn)

	// Stack placeholder over list for empty state
	p.content = container.NewBorder(
		title,
		container.NewVBox(p.nameEntry, buttonRow, actionRow, widget.NewSeparator(), yamlRow),
		nil,
		nil,
		container.NewStack(container.NewScroll(p.listWidget), p.placeholder),
	)
}

// CreateRenderer implements the fyne.Widget interface
func (p *WorkspacePanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// RefreshList reloads workspace list from storage
func (p *WorkspacePanel) RefreshList() {
	workspaces, err := p.storage.ListWorkspaces()
	if err != nil {
		p.logger.Error("failed to list workspaces", slog.Any("error", err))
		return
	}
	workspaces = slices.DeleteFunc(workspaces, func(name string) bool {
		return slices.Contains(p.hidden, name)
	})

	if err := p.workspaceList.Set(workspaces); err != nil {
		p.logger.Error("failed to update workspace list", slog.Any("error", err))
	}

	if len(workspaces) == 0 {
		p.placeholder.Show()
	} else {
		p.placeholder.Hide()
	}
}

// SetOnLoad sets callback when workspace is loaded
func (p *WorkspacePanel) SetOnLoad(fn func(workspace domain.Workspace)) {
	p.onLoad = fn
}

// SetOnSave sets callback to get current state for saving
func (p *WorkspacePanel) SetOnSave(fn func() domain.Workspace) {
	p.onSave = fn
}

// TriggerSave programmatically triggers save (for keyboard shortcut)
func (p *WorkspacePanel) TriggerSave() {
	p.handleSave()
}

// TriggerLoad programmatically triggers load (for keyboard shortcut)
func (p *WorkspacePanel) TriggerLoad() {
	p.handleLoad()
}

// handleSave saves the current workspace
func (p *WorkspacePanel) handleSave() {
	name := p.nameEntry.Text
	if name == "" {
		showProblem(p.window, "Please enter a workspace name")
		return
	}
	if slices.Contains(p.hidden, name) {
		showProblem(p.window, "The name '"+name+"' is reserved")
		return
	}

	if p.onSave == nil {
		showProblem(p.window, "Save handler not configured")
		return
	}

	workspace := p.onSave()
	workspace.Name = name

	doSave := func() {
		if err := p.storage.SaveWorkspace(workspace); err != nil {
			p.logger.Error("failed to save workspace",
				slog.String("name", name),
				slog.Any("error", err))
			showFailure(p.window, "save workspace", err)
			return
		}

		p.logger.Info("workspace saved",
			slog.String("name", name),
			slog.Int("requests", len(workspace.Requests)))
		showNotice(p.window, "Workspace Saved", "Workspace '"+name+"' saved successfully")

		p.RefreshList()
	}

	existing, _ := p.storage.ListWorkspaces()
	if slices.Contains(existing, name) {
		ShowOverwriteConfirm(p.window, name, doSave)
		return
	}

	doSave()
}

// handleLoad loads the selected workspace
func (p *WorkspacePanel) handleLoad() {
	name := p.nameEntry.Text
	if name == "" {
		showProblem(p.window, "Please select or enter a workspace name")
		return
	}

	if p.onLoad == nil {
		showProblem(p.window, "Load handler not configured")
		return
	}

	workspace, err := p.storage.LoadWorkspace(name)
	if err != nil {
		p.logger.Error("failed to load workspace",
			slog.String("name", name),
			slog.Any("error", err))
		showFailure(p.window, "load workspace", err)
		return
	}

	p.logger.Info("workspace loaded", slog.String("name", name))
	p.onLoad(*workspace)
}

// handleDelete deletes the selected workspace
func (p *WorkspacePanel) handleDelete() {
	name := p.nameEntry.Text
	if name == "" {
		showProblem(p.window, "Please select or enter a workspace name")
		return
	}

	ShowDeleteConfirm(p.window, name, func() {
		if err := p.storage.DeleteWorkspace(name); err != nil {
			p.logger.Error("failed to delete workspace",
				slog.String("name", name),
				slog.Any("error", err))
			showFailure(p.window, "delete workspace", err)
			return
		}

		p.logger.Info("workspace deleted", slog.String("name", name))

		p.nameEntry.SetText("")
		p.RefreshList()

		showNotice(p.window, "Workspace Deleted", "Workspace '"+name+"' deleted successfully")
	})
}

// handleNew clears the name entry for a new workspace
func (p *WorkspacePanel) handleNew() {
	p.nameEntry.SetText("")
	p.listWidget.UnselectAll()
}

// handleImport opens a YAML collection and loads its requests as tabs.
func (p *WorkspacePanel) handleImport() {
	if p.onLoad == nil {
		showProblem(p.window, "Load handler not configured")
		return
	}

	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			showFailure(p.window, "open file", err)
			return
		}
		if r == nil {
			return // cancelled
		}
		defer r.Close()

		ws, err := p.ImportFrom(r)
		if err != nil {
			p.logger.Error("failed to import collection",
				slog.String("uri", r.URI().String()),
				slog.Any("error", err))
			showFailure(p.window, "import collection", err)
			return
		}
		p.onLoad(ws)
	}, p.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	d.Show()
}

// handleExport writes the open tabs to a YAML collection file.
func (p *WorkspacePanel) handleExport() {
	if p.onSave == nil {
		showProblem(p.window, "Save handler not configured")
		return
	}

	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			showFailure(p.window, "create file", err)
			return
		}
		if w == nil {
			return // cancelled
		}
		defer w.Close()

		if err := p.ExportTo(w); err != nil {
			p.logger.Error("failed to export collection",
				slog.String("uri", w.URI().String()),
				slog.Any("error", err))
			showFailure(p.window, "export collection", err)
			return
		}
		showNotice(p.window, "Collection Exported", "Saved to "+w.URI().Name())
	}, p.window)
	d.SetFileName("collection.yaml")
	d.Show()
}

// ImportFrom parses a YAML collection. Environment references are left
// unexpanded so secrets are not copied into the workspace.
func (p *WorkspacePanel) ImportFrom(r io.Reader) (domain.Workspace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("read collection: %w", err)
	}
	c, err := collection.Parse(data, keepReference)
	if err != nil {
		return domain.Workspace{}, err
	}
	ws, err := c.Workspace()
	if err != nil {
		return domain.Workspace{}, err
	}
	p.logger.Info("collection imported",
		slog.String("name", c.Name),
		slog.Int("requests", len(ws.Requests)))
	return ws, nil
}

// ExportTo writes the current workspace as a YAML collection.
func (p *WorkspacePanel) ExportTo(w io.Writer) error {
	ws := p.onSave()
	if name := p.nameEntry.Text; name != "" {
		ws.Name = name
	}
	return collection.FromWorkspace(ws).Write(w)
}

// keepReference expands ${VAR} back to itself.
func keepReference(name string) string {
	return "${" + name + "}"
}
