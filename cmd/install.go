package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/fsx"
	"github.com/mvxproject/mvxcore/pkg/install"
	"github.com/mvxproject/mvxcore/pkg/runtimelink"
	"github.com/mvxproject/mvxcore/pkg/toolset"
)

// newInstallCmd installs every tool a project's merged config
// declares (or just the ones named on the command line) through the
// dependency-ordered pkg/install.Run engine.
func newInstallCmd(app *App) *cobra.Command {
	var dir string
	var force bool
	var dryRun bool

	c := &cobra.Command{
		Use:   "install [tool[@version]...]",
		Short: "Install the tools a project needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootDirFlagOrCwd(dir)
			if err != nil {
				return err
			}
			merged, err := app.loadProjectConfig(root)
			if err != nil {
				return err
			}

			cliOverrides := parseToolArgs(args)
			ts, err := toolset.Build(merged, cliOverrides, os.Environ())
			if err != nil {
				return err
			}

			ctx := backgroundContext()
			results, err := ts.Resolve(ctx, app.resolveBackend, merged.Alias)
			if err != nil {
				return err
			}

			items := make([]install.Item, 0, len(ts.Entries))
			for name, entry := range ts.Entries {
				res := results[name]
				if res.IsSystem || res.IsPath {
					app.printVerbose("%s resolves to %s, nothing to install", name, res.Version)
					continue
				}
				b, err := app.Registry.Resolve(entry.Backend)
				if err != nil {
					return fmt.Errorf("tool %s: %w", name, err)
				}
				items = append(items, install.Item{
					Tool:       name,
					Backend:    b,
					InstallDir: app.toolInstallDir(name, res.Version),
					Version:    res.Version,
					Spec:       entry.Spec,
				})
			}

			opts := install.Options{Force: force, DryRun: dryRun}
			outcomes, err := install.Run(ctx, items, opts)
			if err != nil {
				return err
			}

			for _, o := range outcomes {
				if o.Err != nil {
					app.printError("%s: %v", o.Tool, o.Err)
					continue
				}
				if o.Skipped {
					app.printVerbose("%s already installed", o.Tool)
				} else {
					app.printInfo("installed %s", o.Tool)
				}
			}

			if !dryRun {
				for _, item := range items {
					toolDir := filepath.Join(app.Paths.InstallsDir(), item.Tool)
					installed := installedVersionsOf(toolDir)
					_ = runtimelink.Refresh(toolDir, installed, merged.Alias[item.Tool])
				}
			}

			return firstErr(outcomes)
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "project root (defaults to cwd)")
	c.Flags().BoolVar(&force, "force", false, "reinstall even if already complete")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be installed without installing")
	return c
}

func firstErr(results []install.Result) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("install failed for %s: %w", r.Tool, r.Err)
		}
	}
	return nil
}

// parseToolArgs turns CLI positional args shaped like "node@20" into a
// tool -> version override map, the install/use commands' shared CLI
// surface for the --tool-flag precedence toolset.Build expects.
func parseToolArgs(args []string) map[string]string {
	overrides := make(map[string]string, len(args))
	for _, a := range args {
		name, version, ok := cutAt(a)
		if !ok {
			continue
		}
		overrides[name] = version
	}
	return overrides
}

func cutAt(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '@' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// installedVersionsOf lists subdirectories of toolDir whose install
// marker shows completion, the shared scan runtimelink.Refresh needs
// after every install/uninstall.
func installedVersionsOf(toolDir string) []string {
	entries, err := os.ReadDir(toolDir)
	if err != nil {
		return nil
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(toolDir, e.Name())
		if fsx.IsComplete(dir) {
			versions = append(versions, e.Name())
		}
	}
	return versions
}
