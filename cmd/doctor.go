package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/shim"
)

// newDoctorCmd reports on the health of a project's environment: can
// its config be loaded, are its declared tools installed, and is the
// shim farm in sync with what's installed.
func newDoctorCmd(app *App) *cobra.Command {
	var dir string

	c := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common setup problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootDirFlagOrCwd(dir)
			if err != nil {
				return err
			}

			app.printInfo("mvx doctor")
			app.printInfo("  data dir:   %s", app.Paths.Root)
			app.printInfo("  cache dir:  %s", app.Paths.Cache)
			app.printInfo("  config dir: %s", app.Paths.Config)

			merged, err := app.loadProjectConfig(root)
			if err != nil {
				app.printError("project config: %v", err)
				return nil
			}
			app.printInfo("  project config: OK (%d tool(s))", len(merged.Tools))

			for name, spec := range merged.Tools {
				installDir := app.toolInstallDir(name, spec.Version)
				if _, err := os.Stat(installDir); err != nil {
					app.printInfo("  %s@%s: NOT INSTALLED (run `mvx install`)", name, spec.Version)
					continue
				}
				app.printInfo("  %s@%s: installed", name, spec.Version)
			}

			installed, err := allInstalledVersions(app)
			if err == nil {
				missing, extra, err := shim.DiffOnly(app.Paths.ShimsDir(), installed)
				if err == nil {
					if len(missing) == 0 && len(extra) == 0 {
						app.printInfo("  shims: in sync")
					} else {
						app.printInfo("  shims: %d missing, %d stale (run `mvx reshim`)", len(missing), len(extra))
					}
				}
			}

			return nil
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "project root (defaults to cwd)")
	return c
}
