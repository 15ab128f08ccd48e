package cli

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	courierApp "github.com/shhac/courier/internal/app"
	"github.com/shhac/courier/internal/ui"
)

const appID = "com.shhac.courier"

func newGUICmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop client (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}
}

// runGUI opens the main window and blocks until it is closed. Panics are
// logged with their stack and returned as errors.
func runGUI(opts *globalOptions) (err error) {
	logger := opts.logger

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	logger.Info("starting Courier")

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.verbose {
		cfg.Debug = true
	}

	fyneApp := fyneapp.NewWithID(appID)
	ui.LoadThemePreference(fyneApp)

	courier, err := courierApp.New(fyneApp, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer courier.Shutdown()

	mainWindow := ui.NewMainWindow(courier.FyneApp(), courier)
	mainWindow.StartPolling()

	// Run the application (blocking)
	courier.Run(mainWindow.Window())

	courier.Logger().Info("application shutdown complete")
	return nil
}
