package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/toolset"
)

// newEnvCmd prints the resolved environment for a project in a shell
// dialect's export syntax, a one-shot equivalent of hook-env's
// DesiredEnv computation over resolved toolset entries.
func newEnvCmd(app *App) *cobra.Command {
	var shell string
	var dir string

	c := &cobra.Command{
		Use:   "env",
		Short: "Print the resolved environment for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootDirFlagOrCwd(dir)
			if err != nil {
				return err
			}
			merged, err := app.loadProjectConfig(root)
			if err != nil {
				return nil // no project config found: silent, nothing to print
			}

			ts, err := toolset.Build(merged, nil, os.Environ())
			if err != nil {
				return err
			}
			results, err := ts.Resolve(backgroundContext(), app.resolveBackend, merged.Alias)
			if err != nil {
				return err
			}

			var pathDirs []string
			env := make(map[string]string, len(merged.Env))
			for k, v := range merged.Env {
				env[k] = v
			}

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
				pathDirs = append(pathDirs, binDir)
			}

			switch shell {
			case "bash", "zsh":
				return writeBashEnv(pathDirs, env)
			case "fish":
				return writeFishEnv(pathDirs, env)
			case "powershell":
				return writePowerShellEnv(pathDirs, env)
			default:
				return fmt.Errorf("unsupported shell: %s", shell)
			}
		},
	}

	c.Flags().StringVar(&shell, "shell", detectShell(), "shell type (bash, zsh, fish, powershell)")
	c.Flags().StringVar(&dir, "dir", "", "project root (defaults to cwd)")
	return c
}

func detectShell() string {
	shell := os.Getenv("SHELL")
	if strings.Contains(shell, "bash") {
		return "bash"
	}
	if strings.Contains(shell, "zsh") {
		return "zsh"
	}
	if strings.Contains(shell, "fish") {
		return "fish"
	}
	if runtimeIsWindows() {
		return "powershell"
	}
	return "bash"
}

func writeBashEnv(pathDirs []string, env map[string]string) error {
	if len(pathDirs) > 0 {
		fmt.Printf("export PATH=\"%s:$PATH\"\n", strings.Join(pathDirs, string(os.PathListSeparator)))
	}
	for key, value := range env {
		fmt.Printf("export %s=\"%s\"\n", key, strings.ReplaceAll(value, `"`, `\"`))
	}
	return nil
}

func writeFishEnv(pathDirs []string, env map[string]string) error {
	for _, dir := range pathDirs {
		fmt.Printf("set -gx PATH %q $PATH\n", dir)
	}
	for key, value := range env {
		fmt.Printf("set -gx %s %q\n", key, value)
	}
	return nil
}

func writePowerShellEnv(pathDirs []string, env map[string]string) error {
	if len(pathDirs) > 0 {
		fmt.Printf("$env:PATH = \"%s;$env:PATH\"\n", strings.Join(pathDirs, string(os.PathListSeparator)))
	}
	for key, value := range env {
		fmt.Printf("$env:%s = \"%s\"\n", key, strings.ReplaceAll(value, `"`, "`\""))
	}
	return nil
}

func runtimeIsWindows() bool {
	return os.PathSeparator == '\\'
}
