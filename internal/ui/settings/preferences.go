package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/shhac/courier/internal/model"
)

// PrefTheme is the preference key of the theme mode (must match the key
// used by the theme loader).
const PrefTheme = "appTheme"

// PreferencesCallbacks provides hooks for the preferences dialog to apply changes.
type PreferencesCallbacks struct {
	OnApply       func(model.Settings) error // Called with the edited request settings
	OnThemeChange func(mode string)          // Called with "system", "dark", or "light"
}

// generalForm holds the widgets of the General tab.
type generalForm struct {
	timeout         *widget.Entry
	maxInFlight     *widget.Entry
	followRedirects *widget.Check
	cancelInFlight  *widget.Check
	signingFailOpen *widget.Check
}

func newGeneralForm(current model.Settings) *generalForm {
	f := &generalForm{
		timeout:         widget.NewEntry(),
		maxInFlight:     widget.NewEntry(),
		followRedirects: widget.NewCheck("Follow redirects", nil),
		cancelInFlight:  widget.NewCheck("Cancel the previous send when a tab is sent again", nil),
		signingFailOpen: widget.NewCheck("Send unsigned when signing fails", nil),
	}
	f.timeout.SetText(strconv.FormatFloat(current.RequestTimeout.Seconds(), 'f', -1, 64))
	f.maxInFlight.SetText(strconv.Itoa(current.MaxInFlight))
	f.followRedirects.SetChecked(current.FollowRedirects)
	f.cancelInFlight.SetChecked(current.CancelInFlight)
	f.signingFailOpen.SetChecked(current.SigningFailOpen)
	return f
}

// settings validates the form. A timeout of 0 disables the timeout.
func (f *generalForm) settings() (model.Settings, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(f.timeout.Text), 64)
	if err != nil || secs < 0 {
		return model.Settings{}, fmt.Errorf("request timeout must be a non-negative number of seconds")
	}
	maxInFlight, err := strconv.Atoi(strings.TrimSpace(f.maxInFlight.Text))
	if err != nil || maxInFlight < 1 {
		return model.Settings{}, fmt.Errorf("concurrent requests must be a whole number of at least 1")
	}
	return model.Settings{
		RequestTimeout:  time.Duration(secs * float64(time.Second)),
		MaxInFlight:     maxInFlight,
		FollowRedirects: f.followRedirects.Checked,
		CancelInFlight:  f.cancelInFlight.Checked,
		SigningFailOpen: f.signingFailOpen.Checked,
	}, nil
}

func (f *generalForm) content() fyne.CanvasObject {
	hint := widget.NewLabel("Settings apply to sends started after saving.")
	hint.Importance = widget.LowImportance
	hint.Wrapping = fyne.TextWrapWord

	return container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Request Timeout (seconds)", f.timeout),
			widget.NewFormItem("Concurrent Requests", f.maxInFlight),
		),
		f.followRedirects,
		f.cancelInFlight,
		f.signingFailOpen,
		hint,
	)
}

// themeLabel maps a theme mode to its selector label.
func themeLabel(mode string) string {
	switch mode {
	case "dark":
		return "Dark"
	case "light":
		return "Light"
	default:
		return "System Default"
	}
}

// themeMode maps a selector label to its theme mode.
func themeMode(label string) string {
	switch label {
	case "Dark":
		return "dark"
	case "Light":
		return "light"
	default:
		return "system"
	}
}

// ShowPreferencesDialog displays the unified preferences dialog with General and Appearance tabs.
func ShowPreferencesDialog(a fyne.App, window fyne.Window, current model.Settings, callbacks PreferencesCallbacks) {
	prefs := a.Preferences()

	general := newGeneralForm(current)
	generalTab := container.NewTabItem("General", general.content())

	themeSelector := widget.NewSelect(
		[]string{"System Default", "Light", "Dark"},
		nil,
	)
	themeSelector.SetSelected(themeLabel(prefs.StringWithFallback(PrefTheme, "system")))

	appearanceTab := container.NewTabItem("Appearance", container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Theme", themeSelector),
		),
	))

	tabs := container.NewAppTabs(generalTab, appearanceTab)

	dlg := dialog.NewCustomConfirm("Preferences", "Save", "Cancel", tabs, func(save bool) {
		if !save {
			return
		}

		s, err := general.settings()
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		if callbacks.OnApply != nil {
			if err := callbacks.OnApply(s); err != nil {
				dialog.ShowError(err, window)
				return
			}
		}

		mode := themeMode(themeSelector.Selected)
		prefs.SetString(PrefTheme, mode)
		if callbacks.OnThemeChange != nil {
			callbacks.OnThemeChange(mode)
		}
	}, window)

	dlg.Resize(fyne.NewSize(520, 380))
	dlg.Show()
}
