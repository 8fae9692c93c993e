package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/backend/plugin"
)

// newPluginsCmd groups script-plugin backend management
// (install/ls/uninstall/update/link) around pkg/backend/plugin's
// git-checkout lifecycle.
func newPluginsCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "plugins",
		Short: "Manage script-plugin backends",
	}

	root.AddCommand(newPluginsInstallCmd(app))
	root.AddCommand(newPluginsLsCmd(app))
	root.AddCommand(newPluginsUninstallCmd(app))
	root.AddCommand(newPluginsUpdateCmd(app))
	root.AddCommand(newPluginsLinkCmd(app))

	return root
}

func newPluginsInstallCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install <name> <repo-url>",
		Short: "Register and clone a script-plugin backend",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, repoURL := args[0], args[1]
			b := app.resolvePluginBackend(name, repoURL)
			if err := b.Sync(backgroundContext()); err != nil {
				return fmt.Errorf("install plugin %s: %w", name, err)
			}
			app.printInfo("installed plugin %s from %s", name, repoURL)
			return nil
		},
	}
}

func newPluginsLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List registered backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range app.Registry.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newPluginsUninstallCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove a script-plugin backend's checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			dir := filepath.Join(app.Paths.PluginsDir(), name)
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("remove plugin %s: %w", name, err)
			}
			app.printInfo("uninstalled plugin %s", name)
			return nil
		},
	}
}

func newPluginsUpdateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update <name> <repo-url>",
		Short: "Fetch and fast-forward a script-plugin backend's checkout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, repoURL := args[0], args[1]
			b := app.resolvePluginBackend(name, repoURL)
			if err := b.Sync(backgroundContext()); err != nil {
				return fmt.Errorf("update plugin %s: %w", name, err)
			}
			app.printInfo("updated plugin %s", name)
			return nil
		},
	}
}

func newPluginsLinkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link <name> <path>",
		Short: "Register a local directory as a script-plugin backend without cloning",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(abs); err != nil {
				return fmt.Errorf("linked plugin path %s: %w", abs, err)
			}

			link := filepath.Join(app.Paths.PluginsDir(), name)
			os.Remove(link)
			if err := os.Symlink(abs, link); err != nil {
				return fmt.Errorf("link plugin %s: %w", name, err)
			}

			b := plugin.New(name, "", app.Paths.PluginsDir())
			app.Registry.Register(b)
			app.printInfo("linked plugin %s -> %s", name, abs)
			return nil
		},
	}
}
