package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	courierApp "github.com/shhac/courier/internal/app"
	"github.com/shhac/courier/internal/collection"
	"github.com/shhac/courier/internal/storage"
)

// repository opens the workspace store named by the configuration.
func (o *globalOptions) repository() (storage.Repository, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := cfg.ResolvedStoragePath()
	if err != nil {
		return nil, err
	}
	return storage.NewJSONRepository(path, o.logger), nil
}

func newExportCmd(g *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [workspace]",
		Short: "Write a saved workspace as a YAML request file",
		Long: `Export converts a saved workspace into a YAML request file that can be sent
with "courier send -f" or imported again. Without a name the tabs of the last
desktop session are exported.`,
		Example: `  courier export
  courier export staging -o staging.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := courierApp.SessionWorkspace
			if len(args) == 1 {
				name = args[0]
			}

			repo, err := g.repository()
			if err != nil {
				return err
			}
			ws, err := repo.LoadWorkspace(name)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return collection.FromWorkspace(*ws).Write(w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(g *globalOptions) *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Save a YAML request file as a workspace",
		Long: `Import reads a YAML request file and saves its requests as a workspace that
the desktop client can open. The workspace is named after --as, or the name in
the file. Environment references in the file are expanded.`,
		Example: `  courier import requests.yaml --as staging`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collection.Load(args[0])
			if err != nil {
				return err
			}
			ws, err := c.Workspace()
			if err != nil {
				return err
			}
			if name != "" {
				ws.Name = name
			}
			if ws.Name == "" {
				return errors.New("the file has no name; pass --as")
			}
			if ws.Name == courierApp.SessionWorkspace {
				return fmt.Errorf("%q is reserved for the desktop session", ws.Name)
			}

			repo, err := g.repository()
			if err != nil {
				return err
			}
			if !force {
				if _, err := repo.LoadWorkspace(ws.Name); err == nil {
					return fmt.Errorf("workspace %q already exists; pass --force to replace it", ws.Name)
				} else if !errors.Is(err, storage.ErrWorkspaceNotFound) {
					return err
				}
			}
			if err := repo.SaveWorkspace(ws); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d requests to workspace %s\n", len(ws.Requests), titleStyle.Render(ws.Name))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "as", "", "Workspace name")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing workspace")
	return cmd
}

func newListCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := g.repository()
			if err != nil {
				return err
			}
			names, err := repo.ListWorkspaces()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				if name == courierApp.SessionWorkspace {
					fmt.Fprintln(out, name+" "+dimStyle.Render("(last session)"))
					continue
				}
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
