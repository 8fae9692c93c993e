package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/runtimelink"
)

// newUninstallCmd removes one installed tool version, then refreshes
// that tool's prefix/latest symlinks so a removed version disappears
// from resolution.
func newUninstallCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <tool>@<version>",
		Short: "Remove an installed tool version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, version, ok := cutAt(args[0])
			if !ok || version == "" {
				return fmt.Errorf("expected <tool>@<version>, got %q", args[0])
			}

			installDir := app.toolInstallDir(name, version)
			if _, err := os.Stat(installDir); os.IsNotExist(err) {
				return fmt.Errorf("%s@%s is not installed", name, version)
			}
			if err := os.RemoveAll(installDir); err != nil {
				return fmt.Errorf("remove %s: %w", installDir, err)
			}

			var aliases map[string]string
			if cwd, err := os.Getwd(); err == nil {
				if merged, err := app.loadProjectConfig(cwd); err == nil {
					aliases = merged.Alias[name]
				}
			}

			toolDir := filepath.Join(app.Paths.InstallsDir(), name)
			installed := installedVersionsOf(toolDir)
			if err := runtimelink.Refresh(toolDir, installed, aliases); err != nil {
				return err
			}

			app.printInfo("uninstalled %s@%s", name, version)
			return nil
		},
	}
}
