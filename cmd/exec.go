package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/toolset"
)

// newExecCmd resolves a project's toolset and runs a command with
// PATH and tool env vars applied, without needing an activated shell
// session — the direct equivalent of a shim's re-exec, invokable by
// name instead of through a shim launcher.
func newExecCmd(app *App) *cobra.Command {
	var dir string

	c := &cobra.Command{
		Use:                "exec <tool> -- <args...>",
		Short:              "Run a command with a project's resolved tool environment applied",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			toolName := args[0]
			rest := args[1:]
			if len(rest) == 0 {
				return fmt.Errorf("exec requires a command to run after %q", toolName)
			}

			root, err := rootDirFlagOrCwd(dir)
			if err != nil {
				return err
			}
			merged, err := app.loadProjectConfig(root)
			if err != nil {
				return err
			}

			ts, err := toolset.Build(merged, nil, os.Environ())
			if err != nil {
				return err
			}
			ctx := backgroundContext()
			results, err := ts.Resolve(ctx, app.resolveBackend, merged.Alias)
			if err != nil {
				return err
			}

			env := os.Environ()
			for k, v := range merged.Env {
				env = append(env, k+"="+v)
			}

			pathValue := os.Getenv("PATH")
			for name, entry := range ts.Entries {
				res := results[name]
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
				pathValue = binDir + string(os.PathListSeparator) + pathValue
			}
			env = append(env, "PATH="+pathValue)

			binary, err := exec.LookPath(rest[0])
			if err != nil {
				binary = rest[0]
			}

			runCmd := exec.CommandContext(ctx, binary, rest[1:]...)
			runCmd.Stdin = os.Stdin
			runCmd.Stdout = os.Stdout
			runCmd.Stderr = os.Stderr
			runCmd.Env = env
			runCmd.Dir = root
			return runCmd.Run()
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "project root (defaults to cwd)")
	return c
}
