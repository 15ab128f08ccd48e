package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Status levels understood by StatusBar.
const (
	LevelIdle    = "idle"
	LevelSending = "sending"
	LevelOK      = "ok"
	LevelError   = "error"
)

// StatusBar displays the latest status message with a shape-changing icon
// indicator. Each level uses a distinct icon shape for accessibility (not
// color-only):
//   - Idle: empty radio button (circle outline)
//   - Sending: view-refresh icon (circular arrows)
//   - OK: confirm icon (checkmark)
//   - Error: error icon (X shape)
type StatusBar struct {
	widget.BaseWidget

	Level       binding.String
	message     binding.String
	statusLabel *widget.Label
	indicator   *widget.Icon
}

// NewStatusBar creates a new status bar showing message.
func NewStatusBar(message binding.String) *StatusBar {
	label := widget.NewLabel("Ready")
	label.Truncation = fyne.TextTruncateEllipsis

	s := &StatusBar{
		Level:       binding.NewString(),
		message:     message,
		statusLabel: label,
		indicator:   widget.NewIcon(theme.RadioButtonIcon()),
	}
	s.ExtendBaseWidget(s)

	s.Level.AddListener(binding.NewDataListener(s.updateStatus))
	s.message.AddListener(binding.NewDataListener(s.updateStatus))

	s.updateStatus()

	return s
}

// updateStatus refreshes the status bar based on current state.
func (s *StatusBar) updateStatus() {
	level, _ := s.Level.Get()
	message, _ := s.message.Get()

	fallback := "Ready"
	switch level {
	case LevelSending:
		s.indicator.SetResource(theme.ViewRefreshIcon())
		fallback = "Sending..."
	case LevelOK:
		s.indicator.SetResource(theme.ConfirmIcon())
	case LevelError:
		s.indicator.SetResource(theme.ErrorIcon())
		fallback = "Error"
	default:
		s.indicator.SetResource(theme.RadioButtonIcon())
	}

	if message == "" {
		message = fallback
	}
	s.statusLabel.SetText(message)
}

// CreateRenderer implements fyne.Widget.
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	statusContainer := container.NewHBox(
		s.indicator,
		s.statusLabel,
	)

	return widget.NewSimpleRenderer(statusContainer)
}

// MinSize returns the minimum size for the status bar.
func (s *StatusBar) MinSize() fyne.Size {
	return s.BaseWidget.MinSize()
}

// SetStatus updates the level and message together.
func (s *StatusBar) SetStatus(level string, message string) {
	_ = s.Level.Set(level)
	_ = s.message.Set(message)
}

// Text returns the message currently shown.
func (s *StatusBar) Text() string {
	return s.statusLabel.Text
}
