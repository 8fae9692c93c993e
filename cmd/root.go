// Package cmd implements the mvx CLI surface as cobra.Commands, wiring
// pkg/config, pkg/backend, pkg/resolve, pkg/toolset, pkg/install,
// pkg/shim, pkg/hookenv, and pkg/runtimelink together. An explicit App
// value is constructed once in main and threaded through every
// command's closures, rather than relying on package-level globals.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/backend"
	backendcore "github.com/mvxproject/mvxcore/pkg/backend/core"
	"github.com/mvxproject/mvxcore/pkg/backend/plugin"
	"github.com/mvxproject/mvxcore/pkg/backend/wellknown"
	"github.com/mvxproject/mvxcore/pkg/cache"
	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/logx"
	"github.com/mvxproject/mvxcore/pkg/paths"
	"github.com/mvxproject/mvxcore/pkg/resolve"
)

// App holds everything a command needs: the resolved path roots, the
// backend registry, global settings, and the logger. One App is built
// in main and closed over by every cobra.Command's RunE, so tests can
// construct an App pointed at a t.TempDir() without touching package
// state.
type App struct {
	Paths    paths.Paths
	Registry *backend.Registry
	Settings config.Settings
	Trust    *config.TrustStore
	Log      *logx.Logger

	Verbose bool
	Quiet   bool

	Version string
	Commit  string
	Date    string
}

// NewApp resolves Paths, loads global settings and the trust store,
// and builds a backend registry with every core/wellknown backend
// registered, returned as an explicit value instead of a singleton.
func NewApp(version, commit, date string) (*App, error) {
	p, err := paths.Default()
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	if err := p.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create mvx directories: %w", err)
	}

	settings, err := config.LoadSettings(p)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	trust, err := config.LoadTrustStore(p)
	if err != nil {
		return nil, fmt.Errorf("load trust store: %w", err)
	}

	reg := backend.NewRegistry()
	backendcore.RegisterAll(reg, settings.ApplyURLReplacement)
	wellknown.RegisterAll(reg)

	return &App{
		Paths:    p,
		Registry: reg,
		Settings: settings,
		Trust:    trust,
		Log:      logx.Default(),
		Version:  version,
		Commit:   commit,
		Date:     date,
	}, nil
}

// resolveBackend adapts Registry.Resolve's backend.Backend return type
// to the narrower resolve.Backend/toolset.Build signature those
// packages accept, since Go doesn't treat func(string)(backend.Backend,
// error) and func(string)(resolve.Backend, error) as the same type
// even though backend.Backend satisfies resolve.Backend.
func (a *App) resolveBackend(name string) (resolve.Backend, error) {
	return a.Registry.Resolve(name)
}

// resolvePluginBackend lazily registers a script-plugin backend for
// toolName under the plugins directory.
func (a *App) resolvePluginBackend(toolName, repoURL string) backend.Backend {
	b := plugin.New(toolName, repoURL, a.Paths.PluginsDir())
	a.Registry.Register(b)
	return b
}

// loadProjectConfig discovers and merges every config layer visible
// from dir, validating the result.
func (a *App) loadProjectConfig(dir string) (*config.Config, error) {
	layers, err := config.Discover(dir, a.Paths, a.Trust, false)
	if err != nil {
		return nil, err
	}
	merged := config.Merge(layers)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// toolInstallDir returns the on-disk directory a resolved tool version
// lives in, a flat toolsDir/tool/version layout.
func (a *App) toolInstallDir(tool, version string) string {
	return filepath.Join(a.Paths.InstallsDir(), tool, version)
}

// versionCache returns a version-listing cache for a backend, used by
// ls-remote so repeated invocations within the TTL don't re-hit the
// network.
func (a *App) versionCache(backendName string) (*cache.Cache[[]string], error) {
	path := filepath.Join(a.Paths.Cache, "versions", backendName+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return cache.New[[]string](path, 24*time.Hour)
}

func (a *App) printVerbose(format string, args ...any) {
	if a.Verbose && !a.Quiet {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}

func (a *App) printInfo(format string, args ...any) {
	if !a.Quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func (a *App) printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// NewRootCmd builds the "mvx" root command with every subcommand
// wired against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "mvx",
		Short: "Universal polyglot dev-tool version manager",
		Long: `mvx installs and activates per-project versions of the tools your
project needs, resolving them from project config, environment
overrides, and CLI flags, then wiring PATH and tool-specific
environment variables into your shell via a fast hook-env.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&app.Quiet, "quiet", "q", false, "quiet output (errors only)")

	root.AddCommand(
		newVersionCmd(app),
		newInstallCmd(app),
		newUninstallCmd(app),
		newUseCmd(app),
		newLsCmd(app),
		newLsRemoteCmd(app),
		newExecCmd(app),
		newEnvCmd(app),
		newHookEnvCmd(app),
		newActivateCmd(app),
		newDeactivateCmd(app),
		newReshimCmd(app),
		newDoctorCmd(app),
		newPluginsCmd(app),
		newTrustCmd(app),
		newCacheCmd(app),
	)

	return root
}

func rootDirFlagOrCwd(dir string) (string, error) {
	if dir != "" {
		return filepath.Abs(dir)
	}
	return os.Getwd()
}

func backgroundContext() context.Context {
	return context.Background()
}
