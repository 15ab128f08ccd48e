// Package cli holds the courier command line: the desktop client (default)
// and headless commands for sending requests and managing saved workspaces.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	courierApp "github.com/shhac/courier/internal/app"
	"github.com/shhac/courier/internal/harexport"
	"github.com/shhac/courier/internal/logging"
	"github.com/shhac/courier/internal/ui"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	configPath string
	logger     *slog.Logger
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "courier",
		Short: "A desktop client for HTTP APIs",
		Long: `Courier composes HTTP requests across tabs, sends them in the background and
shows the responses. Without a subcommand it opens the desktop client; the
send command runs requests from the terminal.`,
		Example: `  courier
  courier send https://httpbin.org/get -q page=2
  courier send -f requests.yaml --name login --har login.har
  courier export session -o session.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Version = Version
			harexport.Version = Version
			opts.logger = logging.NewConsoleLogger(cmd.ErrOrStderr(), opts.verbose)
			if opts.verbose {
				opts.logger.Debug("verbose logging enabled",
					slog.String("level", slog.LevelDebug.String()),
					slog.Int("pid", os.Getpid()))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default ~/.config/courier/config.toml)")

	rootCmd.AddCommand(
		newGUICmd(opts),
		newSendCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newListCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration selected by --config.
func (o *globalOptions) loadConfig() (*courierApp.Config, error) {
	cfg, err := courierApp.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
