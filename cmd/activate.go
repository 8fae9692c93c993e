package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/hookenv"
)

// newActivateCmd prints the shell integration snippet that prepends
// the shim farm to PATH and installs a per-prompt hook-env call via
// pkg/hookenv.Activate's fast-path-aware hook body.
func newActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <shell>",
		Short: "Generate shell integration code for automatic environment activation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shellType := args[0]

			mvxPath, err := mvxBinaryPath()
			if err != nil {
				return fmt.Errorf("determine mvx binary path: %w", err)
			}

			hook, err := hookenv.Activate(shellType, mvxPath, app.Paths.ShimsDir())
			if err != nil {
				return err
			}

			fmt.Print(hook)
			return nil
		},
	}
}

// mvxBinaryPath resolves the running executable's canonical path.
func mvxBinaryPath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	return filepath.EvalSymlinks(exePath)
}
