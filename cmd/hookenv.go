package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/hookenv"
	"github.com/mvxproject/mvxcore/pkg/toolset"
)

// newHookEnvCmd implements the per-prompt fast path the activate hook
// calls: decode the previous session from __MVX_SESSION, recompute the
// desired environment only if cwd or config mtimes changed, and print
// the shell-specific diff script plus the refreshed session token.
func newHookEnvCmd(app *App) *cobra.Command {
	var shellType string

	c := &cobra.Command{
		Use:   "hook-env",
		Short: "Print the per-prompt environment diff for shell activation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			var prevSession *hookenv.Session
			if token := os.Getenv("__MVX_SESSION"); token != "" {
				sess, err := hookenv.DecodeSession(token)
				if err == nil {
					prevSession = &sess
				}
			}
			if prevSession != nil && hookenv.FastPathEligible(prevSession, cwd, hookenv.HashMvxEnv(os.Environ())) {
				return nil
			}

			merged, err := app.loadProjectConfig(cwd)
			if err != nil {
				// No project config here: just apply whatever reversal is
				// needed against the previous session and emit nothing new.
				merged = nil
			}

			desiredEnv := map[string]string{}
			var loadedConfigs []string
			var activeTools []string
			var watch []hookenv.WatchEntry

			if merged != nil {
				if layers, err := config.Discover(cwd, app.Paths, app.Trust, false); err == nil {
					for _, l := range layers {
						if _, err := os.Stat(l.Source); err == nil {
							loadedConfigs = append(loadedConfigs, l.Source)
						}
					}
				}
				ts, err := toolset.Build(merged, nil, os.Environ())
				if err == nil {
					results, err := ts.Resolve(backgroundContext(), app.resolveBackend, merged.Alias)
					if err == nil {
						for k, v := range merged.Env {
							desiredEnv[k] = v
						}
						for name, entry := range ts.Entries {
							res := results[name]
							activeTools = append(activeTools, name)
							if res.IsSystem {
								continue
							}
							b, err := app.Registry.Resolve(entry.Backend)
							if err != nil {
								continue
							}
							installDir := app.toolInstallDir(name, res.Version)
							if res.IsPath {
								installDir = res.Version
							}
							binDir, err := b.BinDir(installDir, res.Version)
							if err != nil {
								continue
							}
							currentPath, ok := desiredEnv["PATH"]
							if !ok {
								currentPath = os.Getenv("PATH")
							}
							desiredEnv["PATH"] = binDir + string(os.PathListSeparator) + currentPath
						}
					}
				}
			}

			for _, path := range loadedConfigs {
				if info, err := os.Stat(path); err == nil {
					watch = append(watch, hookenv.WatchEntry{Path: path, MTime: info.ModTime()})
				}
			}

			out, err := hookenv.Run(shellType, hookenv.Input{
				Cwd:           cwd,
				Env:           os.Environ(),
				PrevSession:   prevSession,
				DesiredEnv:    desiredEnv,
				LoadedConfigs: loadedConfigs,
				Watch:         watch,
				ActiveTools:   activeTools,
			})
			if err != nil {
				return err
			}

			fmt.Print(out.Script)
			return nil
		},
	}

	c.Flags().StringVar(&shellType, "shell", detectShell(), "shell type (bash, zsh, fish, powershell)")
	return c
}
