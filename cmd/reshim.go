package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/shim"
)

// newReshimCmd rebuilds the shim farm from every completed install
// across all tools.
func newReshimCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reshim",
		Short: "Rebuild shims for every installed tool version",
		RunE: func(cmd *cobra.Command, args []string) error {
			installed, err := allInstalledVersions(app)
			if err != nil {
				return err
			}
			if err := shim.Reshim(backgroundContext(), app.Paths.ShimsDir(), installed); err != nil {
				return err
			}
			app.printInfo("reshimmed %d installed version(s)", len(installed))
			return nil
		},
	}
}

func allInstalledVersions(app *App) ([]shim.InstalledVersion, error) {
	root := app.Paths.InstallsDir()
	tools, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var installed []shim.InstalledVersion
	for _, t := range tools {
		if !t.IsDir() {
			continue
		}
		toolName := t.Name()
		b, err := app.Registry.Resolve(toolName)
		if err != nil {
			continue
		}
		toolDir := filepath.Join(root, toolName)
		for _, version := range installedVersionsOf(toolDir) {
			installed = append(installed, shim.InstalledVersion{
				Tool:       toolName,
				Version:    version,
				InstallDir: filepath.Join(toolDir, version),
				Backend:    b,
			})
		}
	}
	return installed, nil
}
